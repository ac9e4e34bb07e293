package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateSNRClampsToPracticalRange(t *testing.T) {
	assert.Equal(t, -24, EstimateSNR(0, 1))
	assert.Equal(t, -24, EstimateSNR(1, 0))
	assert.Equal(t, -24, EstimateSNR(1e-9, 1))
	assert.Equal(t, 49, EstimateSNR(1e12, 1))
}

func TestEstimateSNRIncreasesWithSyncPower(t *testing.T) {
	low := EstimateSNR(2, 1)
	high := EstimateSNR(200, 1)
	assert.Greater(t, high, low)
}

func TestGetTonesFromBitsPlacesCostasBlocks(t *testing.T) {
	codeword := make([]byte, FT8_NN*3)[:174]
	tones := GetTonesFromBits(codeword)

	for i := 0; i < FT8_LENGTH_SYNC; i++ {
		assert.Equal(t, int(FT8_Costas_pattern[i]), tones[i])
		assert.Equal(t, int(FT8_Costas_pattern[i]), tones[36+i])
		assert.Equal(t, int(FT8_Costas_pattern[i]), tones[FT8_NN-FT8_LENGTH_SYNC+i])
	}
	for _, tone := range tones {
		assert.GreaterOrEqual(t, tone, 0)
		assert.LessOrEqual(t, tone, 7)
	}
}
