package ft8

import (
	"fmt"
	"strconv"
	"strings"
)

/*
 * Message encoder: the teacher's message.go only unpacks; the spec's
 * round-trip testable property needs a packer too. Grounded on
 * inverting the teacher's unpackStandard/unpack28/unpackGrid bit
 * layouts (implements message types 1 and 2, "standard": c28 r1 c28 r1
 * R1 g15, with i3=2 when a callsign carries a /P suffix).
 */

// PackMessage packs a "CQ"/directed standard-format message (callTo,
// callDe, and an optional grid/report/RRR/RR73/73 extra field) into its
// 77-bit payload, returned as a 10-byte array in the layout
// GetMessageType and UnpackMessage read.
func PackMessage(callTo, callDe, extra string) ([10]byte, error) {
	var payload [10]byte

	n28a, ipa, err := packCallsign(callTo)
	if err != nil {
		return payload, fmt.Errorf("ft8: pack callsign %q: %w", callTo, err)
	}
	n28b, ipb, err := packCallsign(callDe)
	if err != nil {
		return payload, fmt.Errorf("ft8: pack callsign %q: %w", callDe, err)
	}
	igrid4, r1, err := packGrid(extra)
	if err != nil {
		return payload, fmt.Errorf("ft8: pack grid/report %q: %w", extra, err)
	}

	n29a := (n28a << 1) | uint32(ipa)
	n29b := (n28b << 1) | uint32(ipb)
	i3 := uint64(1)
	for _, c := range []string{callTo, callDe} {
		if strings.HasSuffix(strings.ToUpper(strings.TrimSpace(c)), "/P") {
			i3 = 2 // unpack28 renders the ip flag as /P under i3=2
		}
	}

	bits := make([]uint8, 0, 77)
	bits = appendBitsMSB(bits, uint64(n29a), 29)
	bits = appendBitsMSB(bits, uint64(n29b), 29)
	bits = appendBitsMSB(bits, uint64(r1), 1)
	bits = appendBitsMSB(bits, uint64(igrid4), 15)
	bits = appendBitsMSB(bits, i3, 3)

	packed := PackBits(bits, 77)
	copy(payload[:], packed)
	return payload, nil
}

func appendBitsMSB(dst []uint8, v uint64, width int) []uint8 {
	for i := width - 1; i >= 0; i-- {
		dst = append(dst, uint8((v>>uint(i))&1))
	}
	return dst
}

// packCallsign encodes "CQ", "DE", "QRZ", "CQ nnn", "CQ ABCD", or a
// standard callsign (optionally suffixed /R or /P) into its 28-bit
// code, inverting unpack28.
func packCallsign(call string) (n28 uint32, ip uint8, err error) {
	base := strings.ToUpper(strings.TrimSpace(call))

	if strings.HasSuffix(base, "/R") {
		ip = 1
		base = strings.TrimSuffix(base, "/R")
	} else if strings.HasSuffix(base, "/P") {
		ip = 1
		base = strings.TrimSuffix(base, "/P")
	}

	switch base {
	case "DE":
		return 0, ip, nil
	case "QRZ":
		return 1, ip, nil
	case "CQ":
		return 2, ip, nil
	}

	if strings.HasPrefix(base, "CQ ") {
		rest := strings.TrimSpace(base[3:])
		if len(rest) == 3 && allDigits(rest) {
			n, _ := strconv.Atoi(rest)
			return uint32(3 + n), ip, nil
		}
		if len(rest) == 4 {
			n := 0
			ok := true
			for _, c := range []byte(rest) {
				idx := Nchar(c, CharTableLettersSpace)
				if idx < 0 {
					ok = false
					break
				}
				n = n*27 + idx
			}
			if ok {
				return uint32(1003 + n), ip, nil
			}
		}
		return 0, 0, fmt.Errorf("unrecognised CQ token %q", base)
	}

	n, err := encodeStandardCallsign(base)
	if err != nil {
		return 0, 0, err
	}
	return uint32(NTOKENS) + uint32(MAX22) + n, ip, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsDigit(s[i]) {
			return false
		}
	}
	return len(s) > 0
}

// encodeStandardCallsign packs a plain callsign into the 6-char
// (prefix[0:2], digit, suffix[0:3]) template unpack28 decodes, keyed on
// the position of the first digit.
func encodeStandardCallsign(call string) (uint32, error) {
	digitIdx := -1
	for i := 0; i < len(call); i++ {
		if IsDigit(call[i]) {
			digitIdx = i
			break
		}
	}
	if digitIdx < 0 || digitIdx > 2 {
		return 0, fmt.Errorf("callsign %q has no digit in expected position", call)
	}

	prefix := call[:digitIdx]
	digit := call[digitIdx]
	suffix := call[digitIdx+1:]
	if len(suffix) > 3 {
		return 0, fmt.Errorf("callsign %q suffix too long", call)
	}

	var p0, p1 byte = ' ', ' '
	switch len(prefix) {
	case 1:
		p1 = prefix[0]
	case 2:
		p0, p1 = prefix[0], prefix[1]
	default:
		return 0, fmt.Errorf("callsign %q prefix too long", call)
	}

	s := []byte(suffix)
	for len(s) < 3 {
		s = append(s, ' ')
	}

	n0 := Nchar(p0, CharTableAlphanumSpace)
	n1 := Nchar(p1, CharTableAlphanum)
	n2 := Nchar(digit, CharTableNumeric)
	n3 := Nchar(s[0], CharTableLettersSpace)
	n4 := Nchar(s[1], CharTableLettersSpace)
	n5 := Nchar(s[2], CharTableLettersSpace)
	if n0 < 0 || n1 < 0 || n2 < 0 || n3 < 0 || n4 < 0 || n5 < 0 {
		return 0, fmt.Errorf("callsign %q contains an unencodable character", call)
	}

	n := uint32(n0)
	n = n*36 + uint32(n1)
	n = n*10 + uint32(n2)
	n = n*27 + uint32(n3)
	n = n*27 + uint32(n4)
	n = n*27 + uint32(n5)
	return n, nil
}

// packGrid encodes a 4-character grid locator, a signal report, or one
// of RRR/RR73/73 into its 15-bit code, inverting unpackGrid.
func packGrid(extra string) (igrid4 uint16, r1 uint8, err error) {
	s := strings.ToUpper(strings.TrimSpace(extra))
	if s == "" {
		return 0, 0, nil
	}

	if strings.HasPrefix(s, "R ") {
		r1 = 1
		s = strings.TrimSpace(s[1:])
	} else if len(s) > 1 && s[0] == 'R' && (IsDigit(s[1]) || s[1] == '+' || s[1] == '-') {
		r1 = 1
		s = s[1:]
	}

	switch s {
	case "RRR":
		return uint16(MAXGRID4 + 2), r1, nil
	case "RR73":
		return uint16(MAXGRID4 + 3), r1, nil
	case "73":
		return uint16(MAXGRID4 + 4), r1, nil
	}

	if len(s) == 4 && isValidGridLocator(s) {
		n := (int(s[0]-'A')*18+int(s[1]-'A'))*100 + int(s[2]-'0')*10 + int(s[3]-'0')
		return uint16(n), r1, nil
	}

	val := DDToInt(s, len(s))
	irpt := val + 35
	if irpt < 0 {
		irpt = 0
	}
	return uint16(MAXGRID4 + irpt), r1, nil
}
