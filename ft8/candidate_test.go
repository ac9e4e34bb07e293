package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCandidatesFindsInjectedPeak(t *testing.T) {
	sm := &SyncMatrix{
		Scores: make([][]float64, NH1),
		IA:     100,
		IB:     400,
	}
	for b := range sm.Scores {
		sm.Scores[b] = make([]float64, 2*MaxLag+1)
	}
	// Background noise level so the 40th-percentile normalisation has
	// something to divide by.
	for b := sm.IA; b <= sm.IB; b++ {
		for l := range sm.Scores[b] {
			sm.Scores[b][l] = 1.0
		}
	}
	peakBin := 250
	sm.Scores[peakBin][MaxLag] = 500.0 // strong peak at lag 0

	linBaseline := make([]float64, NH1)
	for i := range linBaseline {
		linBaseline[i] = 1.0
	}

	cfg := DefaultConfig()
	cfg.SyncThreshold = 1.2
	cfg.MaxCandidates = 10

	candidates := RankCandidates(sm, linBaseline, cfg)
	require.NotEmpty(t, candidates)
	assert.Equal(t, float64(peakBin)*BinWidthHz, candidates[0].FreqHz)
}

func TestRankCandidatesRespectsMaxCandidatesCap(t *testing.T) {
	sm := &SyncMatrix{Scores: make([][]float64, NH1), IA: 0, IB: NH1 - 1}
	for b := range sm.Scores {
		sm.Scores[b] = make([]float64, 2*MaxLag+1)
		for l := range sm.Scores[b] {
			sm.Scores[b][l] = float64(b%7 + 1)
		}
	}
	linBaseline := make([]float64, NH1)
	for i := range linBaseline {
		linBaseline[i] = 1.0
	}

	cfg := DefaultConfig()
	cfg.SyncThreshold = 0
	cfg.MaxCandidates = 5

	candidates := RankCandidates(sm, linBaseline, cfg)
	assert.LessOrEqual(t, len(candidates), 5)
}

func TestRankCandidatesReturnsNilWhenRangeInverted(t *testing.T) {
	sm := &SyncMatrix{Scores: make([][]float64, NH1), IA: 50, IB: 10}
	cfg := DefaultConfig()
	assert.Nil(t, RankCandidates(sm, make([]float64, NH1), cfg))
}
