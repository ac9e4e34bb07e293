package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatioScoreIsZeroForNonPositiveDenominator(t *testing.T) {
	assert.Zero(t, ratioScore(10, 10)) // baseline-signal == 0
	assert.Zero(t, ratioScore(10, 5))  // baseline < signal
}

func TestRatioScoreIsPositiveForGenuineSignal(t *testing.T) {
	assert.Greater(t, ratioScore(10, 100), 0.0)
}

func TestBuildSyncMatrixHasExpectedDimensions(t *testing.T) {
	sg := &Spectrogram{
		S:   make([][]float64, NH1),
		Avg: make([]float64, NH1),
	}
	for b := range sg.S {
		sg.S[b] = make([]float64, NHSYM)
	}

	sm := BuildSyncMatrix(sg, 100, 200)
	require.Len(t, sm.Scores, NH1)
	for _, row := range sm.Scores {
		assert.Len(t, row, 2*MaxLag+1)
	}
	assert.Equal(t, 100, sm.IA)
	assert.Equal(t, 200, sm.IB)
}

func TestBuildSyncMatrixHandlesEmptyRange(t *testing.T) {
	sg := &Spectrogram{S: make([][]float64, NH1), Avg: make([]float64, NH1)}
	for b := range sg.S {
		sg.S[b] = make([]float64, NHSYM)
	}
	sm := BuildSyncMatrix(sg, 200, 100) // ib < ia
	assert.Len(t, sm.Scores, NH1)
}

func TestCostasScoreFindsInjectedToneAtZeroLag(t *testing.T) {
	sg := &Spectrogram{S: make([][]float64, NH1), Avg: make([]float64, NH1)}
	for b := range sg.S {
		sg.S[b] = make([]float64, NHSYM)
		// A flat noise floor keeps ratioScore's baseline-minus-signal
		// denominator positive.
		for j := range sg.S[b] {
			sg.S[b][j] = 1.0
		}
	}

	bin := 300
	for n := 0; n < FT8_LENGTH_SYNC; n++ {
		tone := int(FT8_Costas_pattern[n])
		for g, groupOffset := range costasGroupOffsets {
			m := JStart0 + 4*(groupOffset+n)
			_ = g
			if m >= 1 && m <= NHSYM {
				sg.S[bin+2*tone][m-1] = 100.0
			}
		}
	}

	scoreAtTone := costasScore(sg, bin, 0)
	scoreElsewhere := costasScore(sg, bin+50, 0)
	assert.Greater(t, scoreAtTone, scoreElsewhere)
}
