package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAPPatternsWithoutHisCall(t *testing.T) {
	patterns, err := BuildAPPatterns("N0YPR", "")
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "CQ patterns are fixed", patterns[0].Name)
}

func TestBuildAPPatternsWithHisCallAddsDirectedPatterns(t *testing.T) {
	patterns, err := BuildAPPatterns("N0YPR", "W1AW")
	require.NoError(t, err)
	require.Len(t, patterns, 4)

	for _, p := range patterns {
		assert.Len(t, p.Bits, FTX_LDPC_N)
		assert.Len(t, p.Mask, FTX_LDPC_N)
	}
}

func TestApplyAPMaskOnlyTouchesMaskedPositions(t *testing.T) {
	pattern := APPattern{
		Bits: make([]byte, FTX_LDPC_N),
		Mask: make([]bool, FTX_LDPC_N),
	}
	pattern.Bits[0] = 1
	pattern.Mask[0] = true
	pattern.Bits[1] = 0
	pattern.Mask[1] = true

	llr := make([]float64, FTX_LDPC_N)
	for i := range llr {
		llr[i] = 3.14
	}

	ApplyAPMask(llr, pattern)
	assert.Equal(t, apPinMagnitude, llr[0])
	assert.Equal(t, -apPinMagnitude, llr[1])
	assert.Equal(t, 3.14, llr[2], "unmasked positions must be left untouched")
}

func TestAPConfidenceCountsPinnedBits(t *testing.T) {
	patterns, err := BuildAPPatterns("N0YPR", "W1AW")
	require.NoError(t, err)

	directedRRR := patterns[2]
	cqOnly := patterns[0]
	assert.Greater(t, apConfidence(directedRRR), apConfidence(cqOnly))
}
