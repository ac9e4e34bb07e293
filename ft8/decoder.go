package ft8

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/n0ypr/ft8decode/ft8/ldpccode"
)

/*
 * Top-level driver (component E, orchestration). Grounded on the
 * teacher's decoder.go decode()/processSample() shape (find candidates,
 * decode each, assemble DecodeResult, enrich with locator/distance) but
 * rebuilt around this package's buffer-in/results-out pipeline instead
 * of the teacher's streaming slot-sync state machine, since spec §2
 * models Decode as a pure function over one 15 s buffer rather than a
 * running receiver. A->B->C run once per pass; D->E fan out per
 * candidate via errgroup, each candidate independent of the others.
 */

// DecodeResult is one decoded FT8 transmission, enriched with parsed
// callsign/locator and optional distance/bearing from cfg.ReceiverLocator.
type DecodeResult struct {
	FreqHz      float64
	TimeOffsetS float64
	SNR         int
	Message     string
	MessageType MessageType
	Callsign    string
	Locator     string
	DistanceKm  *float64
	BearingDeg  *float64

	payload [10]byte // dedup key; not for external inspection
}

// Decode runs one full A->E pass over a >=NMAX-sample audio buffer,
// calling accept for every distinct decoded message (most confident
// first) and returning how many accept returned true for.
func Decode(audio []float64, cfg Config, accept func(DecodeResult) bool) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	decoded, err := decodeAll(audio, cfg)
	if err != nil {
		return 0, err
	}

	accepted := 0
	for _, d := range decoded {
		if d.result.SNR < cfg.MinSNRdB {
			continue
		}
		if accept(d.result) {
			accepted++
		}
	}
	return accepted, nil
}

// DecodeMultipass runs Decode repeatedly, subtracting each pass's
// decoded waveforms from a working copy of audio before the next pass
// (spec §4.5.5's successive-cancellation scheme), so weaker overlapping
// signals have a chance once the strongest ones are removed.
func DecodeMultipass(audio []float64, cfg Config, passes int, accept func(DecodeResult) bool) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if passes < 1 {
		passes = 1
	}

	working := append([]float64(nil), audio...)
	seen := make(map[[10]byte]bool)
	accepted := 0

	for pass := 0; pass < passes; pass++ {
		decoded, err := decodeAll(working, cfg)
		if err != nil {
			return accepted, err
		}
		if len(decoded) == 0 {
			break
		}

		progressed := false
		for _, d := range decoded {
			if seen[d.result.payload] {
				continue
			}
			seen[d.result.payload] = true
			progressed = true

			tones := GetTonesFromBits(d.codeword)
			ref := Synthesize(tones, d.freqHz, SampleRate)
			startSample := d.sampleStart
			Cancel(working, ref, startSample)

			if d.result.SNR < cfg.MinSNRdB {
				continue
			}
			if accept(d.result) {
				accepted++
			}
		}

		if !progressed {
			break
		}
	}

	return accepted, nil
}

// decodedCandidate is decodeAll's internal record: the public result
// plus everything DecodeMultipass needs to cancel the waveform.
type decodedCandidate struct {
	result      DecodeResult
	codeword    []byte
	freqHz      float64
	sampleStart int
}

// decodeAll runs components A through E once and returns every
// candidate that produced a CRC-valid decode, most confident first,
// with duplicates (identical payload) collapsed.
func decodeAll(audio []float64, cfg Config) ([]decodedCandidate, error) {
	sg, err := BuildSpectrogram(audio)
	if err != nil {
		return nil, err
	}

	fa := int(cfg.FreqMin / BinWidthHz)
	fb := int(cfg.FreqMax / BinWidthHz)
	if fa < 0 {
		fa = 0
	}
	if fb >= NH1 {
		fb = NH1 - 1
	}

	_, linBaseline := FitBaseline(sg.Avg, fa, fb, cfg.BaselinePolyDegree)
	sm := BuildSyncMatrix(sg, fa, fb)
	candidates := RankCandidates(sm, linBaseline, cfg)
	if len(candidates) > cfg.DecodeTopN {
		candidates = candidates[:cfg.DecodeTopN]
	}

	if cfg.Observer != nil {
		cfg.Observer.CandidatesPerPass(len(candidates))
		cfg.Observer.DecodeAttempt(len(candidates))
	}

	hashTable := NewCallsignHashTable(time.Hour)
	logger := cfg.logger()

	var apPatterns []APPattern
	if cfg.EnableAP {
		apPatterns, _ = BuildAPPatterns(cfg.MyCall, cfg.HisCall)
		sort.SliceStable(apPatterns, func(i, j int) bool {
			return apConfidence(apPatterns[i]) > apConfidence(apPatterns[j])
		})
	}

	results := make([]*decodedCandidate, len(candidates))

	g, _ := errgroup.WithContext(context.Background())
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			dc, derr := decodeOneCandidate(audio, c, cfg, apPatterns, hashTable)
			if derr != nil {
				logger.Printf("ft8: candidate %.1f Hz / %.3f s: %v", c.FreqHz, c.TimeOffsetS, derr)
				return nil
			}
			results[i] = dc
			return nil
		})
	}
	_ = g.Wait()

	var ok []decodedCandidate
	for _, r := range results {
		if r != nil {
			ok = append(ok, *r)
		}
	}

	sort.SliceStable(ok, func(i, j int) bool { return ok[i].result.SNR > ok[j].result.SNR })

	seen := make(map[[10]byte]bool)
	var deduped []decodedCandidate
	for _, d := range ok {
		if seen[d.result.payload] {
			continue
		}
		seen[d.result.payload] = true
		deduped = append(deduped, d)
	}

	return deduped, nil
}

// llrWindowWidths are the symbol-span variants tried per spec §4.4.3,
// narrowest (most time-selective) first.
var llrWindowWidths = [3]int{1, 2, 4}

// decodeOneCandidate runs fine sync, then tries each LLR window width
// (and, if enabled, each a-priori hypothesis) until one produces a
// CRC-valid codeword.
func decodeOneCandidate(audio []float64, cand Candidate, cfg Config, apPatterns []APPattern, hashTable *CallsignHashTable) (*decodedCandidate, error) {
	freqHz, offset, baseband, bestSync := RefineSync(audio, cand)
	if baseband == nil || bestSync <= 0 {
		return nil, &CandidateRejectedError{Reason: "fine sync found no Costas correlation"}
	}

	sigma2 := cand.BaselineNoise
	if sigma2 <= 0 {
		sigma2 = 1
	}

	for _, w := range llrWindowWidths {
		llr, err := ExtractLLRs(baseband, offset, sigma2, w)
		if err != nil {
			continue
		}

		codeword, ok := tryDecodeLLR(llr, apPatterns, cfg)
		if !ok {
			continue
		}

		var payload [10]byte
		copy(payload[:], PackBits(codeword[:77], 77))

		messageText := UnpackMessageWithHash(payload, hashTable)
		callsign, locator := extractCallsignLocator(messageText)

		result := DecodeResult{
			FreqHz:      freqHz,
			TimeOffsetS: cand.TimeOffsetS,
			SNR:         EstimateSNR(bestSync, cand.BaselineNoise),
			Message:     messageText,
			MessageType: GetMessageType(payload),
			Callsign:    callsign,
			Locator:     locator,
			payload:     payload,
		}
		enrichDistanceBearing(&result, cfg)

		if cfg.Observer != nil {
			cfg.Observer.DecodeSuccess(result.SNR)
		}

		sampleStart := offset * (SampleRate / BasebandRate)
		return &decodedCandidate{
			result:      result,
			codeword:    codeword,
			freqHz:      freqHz,
			sampleStart: sampleStart,
		}, nil
	}

	return nil, &DecodeFailedError{Reason: "BP and OSD exhausted all LLR variants"}
}

// tryDecodeLLR attempts BP then OSD against llr itself, then against
// each a-priori-pinned variant, returning the first CRC-valid codeword.
func tryDecodeLLR(llr []float64, apPatterns []APPattern, cfg Config) ([]byte, bool) {
	if cw, ok := bpThenOSD(llr, cfg); ok {
		return cw, true
	}
	for _, pat := range apPatterns {
		pinned := append([]float64(nil), llr...)
		ApplyAPMask(pinned, pat)
		if cw, ok := bpThenOSD(pinned, cfg); ok {
			return cw, true
		}
	}
	return nil, false
}

func bpThenOSD(llr []float64, cfg Config) ([]byte, bool) {
	cw, iters, ok := BPDecode(llr, ldpccode.FT8, cfg.LDPCMaxIterations)
	if cfg.Observer != nil {
		cfg.Observer.LDPCIterations(iters)
	}
	if ok && crcValid(cw) {
		return cw, true
	}
	if cfg.OSDOrder > 0 {
		if cw, ok := OSDDecode(llr, ldpccode.FT8, cfg.OSDOrder); ok {
			return cw, true
		}
	}
	return nil, false
}

// crcValid re-derives the 14-bit CRC over the 77-bit payload
// zero-extended to 82 bits and compares it against the 14 bits the
// codeword itself carries.
func crcValid(codeword []byte) bool {
	a91 := PackBits(codeword[:FTX_LDPC_K], FTX_LDPC_K)
	extracted := ExtractCRC(a91)
	a91[9] &= 0xF8
	a91[10] = 0
	computed := ComputeCRC(a91, 96-14)
	return extracted == computed
}

// enrichDistanceBearing fills DistanceKm/BearingDeg when both the
// receiver's locator and the decoded message's grid square parse.
func enrichDistanceBearing(result *DecodeResult, cfg Config) {
	if cfg.ReceiverLocator == "" || len(result.Locator) < 4 {
		return
	}
	rxLat, rxLon, err1 := MaidenheadToLatLon(cfg.ReceiverLocator)
	txLat, txLon, err2 := MaidenheadToLatLon(result.Locator)
	if err1 != nil || err2 != nil {
		return
	}
	dist, bearing := CalculateDistanceAndBearing(rxLat, rxLon, txLat, txLon)
	result.DistanceKm = &dist
	result.BearingDeg = &bearing
}
