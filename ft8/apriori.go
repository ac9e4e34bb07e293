package ft8

/*
 * A-priori bit pinning (component E, part 3). Grounded on spec §4.5.3:
 * building a small set of plausible "CQ <mycall>"/"<hiscall> <mycall>
 * ..." payload skeletons via the same packCallsign/packGrid encoders
 * message_encode.go already provides, then pinning the LLR vector's
 * matching bit positions to a fixed magnitude rather than a symbolic
 * infinity (so a wrong guess can still be out-voted by the channel
 * evidence instead of poisoning the decode).
 */

// apPinMagnitude is the fixed LLR magnitude applied to a-priori pinned
// bits. Deliberately finite (not +-Inf): a mistaken AP guess must remain
// correctable by BP/OSD rather than forcing a bit value outright.
const apPinMagnitude = 100.0

// APPattern is one a-priori payload hypothesis: a full 174-bit codeword
// skeleton (msg bits only matter over mask) and which of its bits are
// known with confidence.
type APPattern struct {
	Name string
	Bits []byte // length FTX_LDPC_N, valid only where Mask[i]
	Mask []bool // length FTX_LDPC_N
}

// BuildAPPatterns constructs the a-priori payload hypotheses worth
// trying for a station calling myCall, optionally directed at hisCall.
// The CQ and directed-reply patterns pin the callsign/token fields and
// the i3 type of a standard-format message while leaving the R1 flag and
// grid/report field free, since that's the part of the QSO genuinely
// unknown ahead of decode. The RRR and 73 patterns pin every payload
// field, their closing token included.
func BuildAPPatterns(myCall, hisCall string) ([]APPattern, error) {
	var patterns []APPattern

	cq, err := apPatternFromMessage("CQ patterns are fixed", "CQ", myCall, "", []bool{true, true, false, false, true})
	if err != nil {
		return nil, err
	}
	patterns = append(patterns, cq)

	if hisCall != "" {
		p1, err := apPatternFromMessage("directed reply", myCall, hisCall, "", []bool{true, true, false, false, true})
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p1)

		p2, err := apPatternFromMessage("directed RRR", myCall, hisCall, "RRR", []bool{true, true, true, true, true})
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p2)

		p3, err := apPatternFromMessage("directed 73", myCall, hisCall, "73", []bool{true, true, true, true, true})
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p3)
	}

	return patterns, nil
}

// apPatternFromMessage packs (callTo, callDe, extra) and marks which of
// the five payload fields (callTo 29b, callDe 29b, R1 1b, grid 15b, i3
// 3b) are fixed-known per fieldsKnown, returning the corresponding
// 174-bit mask (parity bits always left unmasked -- they follow from
// the pinned message bits only once BP/OSD has converged).
func apPatternFromMessage(name, callTo, callDe, extra string, fieldsKnown []bool) (APPattern, error) {
	payload, err := PackMessage(callTo, callDe, extra)
	if err != nil {
		return APPattern{}, err
	}

	bits := make([]byte, FTX_LDPC_N)
	mask := make([]bool, FTX_LDPC_N)

	packedBits := make([]byte, 0, 77)
	for _, b := range payload {
		for i := 7; i >= 0; i-- {
			packedBits = append(packedBits, (b>>uint(i))&1)
		}
	}
	packedBits = packedBits[:77]
	copy(bits[:77], packedBits)

	fieldSpans := [5][2]int{{0, 29}, {29, 58}, {58, 59}, {59, 74}, {74, 77}}
	for i, known := range fieldsKnown {
		if !known {
			continue
		}
		lo, hi := fieldSpans[i][0], fieldSpans[i][1]
		for b := lo; b < hi; b++ {
			mask[b] = true
		}
	}

	return APPattern{Name: name, Bits: bits, Mask: mask}, nil
}

// ApplyAPMask overwrites llr at every masked position with a
// sign-matched fixed-magnitude value derived from pattern.Bits: bit 1
// becomes +apPinMagnitude (bit-is-one more likely in this package's
// sign convention, matching ExtractLLRs), bit 0 becomes -apPinMagnitude.
// Positions outside the mask are left untouched.
func ApplyAPMask(llr []float64, pattern APPattern) {
	for i, known := range pattern.Mask {
		if !known || i >= len(llr) {
			continue
		}
		if pattern.Bits[i] == 1 {
			llr[i] = apPinMagnitude
		} else {
			llr[i] = -apPinMagnitude
		}
	}
}

// apConfidence reports how many bits a pattern pins, used by the driver
// to prioritise the most-constrained pattern first.
func apConfidence(pattern APPattern) int {
	n := 0
	for _, m := range pattern.Mask {
		if m {
			n++
		}
	}
	return n
}
