package ft8

import "sort"

/*
 * Candidate ranker (component C). Grounded on the teacher's sync.go
 * FindCandidates/insertCandidate top-K maintenance idea, generalized to
 * the spec's narrow/wide dual-peak extraction and 40th-percentile
 * normalisation (spec §4.3), which the teacher's raw-score threshold
 * does not do.
 */

// Candidate is an immutable (frequency, time, sync_power, baseline)
// tuple emitted by the ranker. Never mutated once created (spec §3
// invariant ii).
type Candidate struct {
	FreqHz        float64
	TimeOffsetS   float64
	SyncPower     float64
	BaselineNoise float64 // linear

	bin int // frequency bin, retained for fine-sync seeding
	lag int // time lag step, retained for fine-sync seeding
}

const (
	narrowLag       = 10
	dedupFreqHz     = 4.0
	dedupTimeS      = 0.040
	rawCandidateCap = 1000
)

// RankCandidates implements spec §4.3: per-bin narrow/wide peak
// extraction, 40th-percentile normalisation, de-duplication, and
// threshold-after-normalisation truncation to cfg.MaxCandidates.
func RankCandidates(sm *SyncMatrix, linBaseline []float64, cfg Config) []Candidate {
	ia, ib := sm.IA, sm.IB
	if ib < ia {
		return nil
	}

	red := make([]float64, ib-ia+1)   // narrow peak power per bin
	red2 := make([]float64, ib-ia+1)  // wide peak power per bin
	redLag := make([]int, ib-ia+1)
	red2Lag := make([]int, ib-ia+1)

	for bi, bin := range rangeInts(ia, ib) {
		narrowBest, narrowLagIdx := peak(sm.Scores[bin], MaxLag-narrowLag, MaxLag+narrowLag)
		wideBest, wideLagIdx := peak(sm.Scores[bin], 0, 2*MaxLag)
		red[bi] = narrowBest
		redLag[bi] = narrowLagIdx - MaxLag
		red2[bi] = wideBest
		red2Lag[bi] = wideLagIdx - MaxLag
	}

	p40 := percentileOf(red, 0.40)
	p40w := percentileOf(red2, 0.40)
	if p40 <= 0 {
		p40 = 1
	}
	if p40w <= 0 {
		p40w = 1
	}

	type scored struct {
		Candidate
		norm float64
	}
	var raw []scored

	for bi, bin := range rangeInts(ia, ib) {
		freq := float64(bin) * BinWidthHz
		baseline := 1.0
		if bin >= 0 && bin < len(linBaseline) && linBaseline[bin] > 0 {
			baseline = linBaseline[bin]
		}

		normNarrow := red[bi] / p40
		raw = append(raw, scored{
			Candidate: Candidate{
				FreqHz:        freq,
				TimeOffsetS:   lagToSeconds(redLag[bi]),
				SyncPower:     normNarrow,
				BaselineNoise: baseline,
				bin:           bin,
				lag:           redLag[bi],
			},
			norm: normNarrow,
		})

		if red2Lag[bi] != redLag[bi] {
			normWide := red2[bi] / p40w
			raw = append(raw, scored{
				Candidate: Candidate{
					FreqHz:        freq,
					TimeOffsetS:   lagToSeconds(red2Lag[bi]),
					SyncPower:     normWide,
					BaselineNoise: baseline,
					bin:           bin,
					lag:           red2Lag[bi],
				},
				norm: normWide,
			})
		}
	}

	// spec §4.3: walk bins in descending normalised score, then stop at
	// rawCandidateCap raw candidates — sort before truncating, not while
	// scanning bins in frequency order, or strong high-frequency signals
	// never reach the cap.
	sort.Slice(raw, func(i, j int) bool { return raw[i].norm > raw[j].norm })
	if len(raw) > rawCandidateCap {
		raw = raw[:rawCandidateCap]
	}

	var deduped []Candidate
	for _, c := range raw {
		if c.norm < cfg.SyncThreshold {
			continue
		}
		dup := false
		for i := range deduped {
			if absF(deduped[i].FreqHz-c.FreqHz) <= dedupFreqHz && absF(deduped[i].TimeOffsetS-c.TimeOffsetS) <= dedupTimeS {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, c.Candidate)
		}
		if len(deduped) >= cfg.MaxCandidates {
			break
		}
	}

	return deduped
}

// peak finds the strongest entry in scores[lo:hi] (inclusive, clamped
// to the slice bounds) and returns its value and index.
func peak(scores []float64, lo, hi int) (best float64, idx int) {
	if lo < 0 {
		lo = 0
	}
	if hi >= len(scores) {
		hi = len(scores) - 1
	}
	idx = lo
	for i := lo; i <= hi; i++ {
		if scores[i] > best {
			best = scores[i]
			idx = i
		}
	}
	return best, idx
}

func percentileOf(data []float64, p float64) float64 {
	return quantile(data, p)
}

func lagToSeconds(lag int) float64 {
	return float64(lag) * float64(FT8Step) / float64(SampleRate)
}

func rangeInts(a, b int) []int {
	if b < a {
		return nil
	}
	out := make([]int, b-a+1)
	for i := range out {
		out[i] = a + i
	}
	return out
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
