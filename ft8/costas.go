package ft8

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

/*
 * Costas sync matrix (component B). Grounded on the teacher's sync.go
 * calculateFT8SyncScore, generalized from its neighbor-difference
 * heuristic to the spec's exact signal_sum/baseline_sum ratio and dual
 * sync_abc/sync_bc scoring (spec §4.2).
 */

// SyncMatrix holds Sync2D[bin][lag+MaxLag], one score per (frequency
// bin, time lag) pair evaluated over [ia, ib].
type SyncMatrix struct {
	Scores [][]float64 // Scores[bin][lag+MaxLag], length NH1 x (2*MaxLag+1)
	IA, IB int
}

// BuildSyncMatrix scores every (bin, lag) pair in [ia, ib] x [-MaxLag,
// MaxLag] against the three FT8 Costas arrays. Rows are computed
// independently: each worker owns a disjoint bin range and only writes
// into those rows of Scores.
func BuildSyncMatrix(sg *Spectrogram, ia, ib int) *SyncMatrix {
	sm := &SyncMatrix{
		Scores: make([][]float64, NH1),
		IA:     ia,
		IB:     ib,
	}
	for b := 0; b < NH1; b++ {
		sm.Scores[b] = make([]float64, 2*MaxLag+1)
	}
	if ib < ia {
		return sm
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	span := ib - ia + 1
	chunk := (span + workers - 1) / workers

	g, _ := errgroup.WithContext(context.Background())
	for lo := ia; lo <= ib; lo += chunk {
		lo := lo
		hi := lo + chunk - 1
		if hi > ib {
			hi = ib
		}
		g.Go(func() error {
			for bin := lo; bin <= hi; bin++ {
				for lag := -MaxLag; lag <= MaxLag; lag++ {
					sm.Scores[bin][lag+MaxLag] = costasScore(sg, bin, lag)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	return sm
}

// costasGroupOffsets are the three Costas array positions in symbols:
// first block at 0, second at 36, third at 72 (spec §4.2). Each symbol
// spans 4 spectrogram steps.
var costasGroupOffsets = [3]int{0, FT8_SYNC_OFFSET, 2 * FT8_SYNC_OFFSET}

// costasScore returns max(sync_abc, sync_bc) for one (bin, lag) pair.
func costasScore(sg *Spectrogram, bin, lag int) float64 {
	var sigABC, baseABC, sigBC, baseBC float64

	for n := 0; n < FT8_LENGTH_SYNC; n++ {
		tone := int(FT8_Costas_pattern[n])
		for g, groupOffset := range costasGroupOffsets {
			m := lag + JStart0 + 4*(groupOffset+n)
			if m < 1 || m > NHSYM {
				continue
			}
			toneBin := bin + 2*tone
			if toneBin < 0 || toneBin >= NH1 {
				continue
			}
			signal := sg.S[toneBin][m-1]

			var baseline float64
			for k := 0; k < 8; k++ {
				kb := bin + 2*k
				if kb >= 0 && kb < NH1 {
					baseline += sg.S[kb][m-1]
				}
			}

			sigABC += signal
			baseABC += baseline
			if g != 0 {
				sigBC += signal
				baseBC += baseline
			}
		}
	}

	syncABC := ratioScore(sigABC, baseABC)
	syncBC := ratioScore(sigBC, baseBC)
	if syncABC > syncBC {
		return syncABC
	}
	return syncBC
}

// ratioScore computes signal/((baseline-signal)/6), the spec's §4.2
// normalisation, returning 0 when the denominator is non-positive.
func ratioScore(signal, baseline float64) float64 {
	denom := (baseline - signal) / 6.0
	if denom <= 0 {
		return 0
	}
	return signal / denom
}
