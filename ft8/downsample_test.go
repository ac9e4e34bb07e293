package ft8

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownsampleRejectsShortBuffer(t *testing.T) {
	_, err := Downsample(make([]float64, 10), 1000)
	require.Error(t, err)
	var shapeErr *InputShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestDownsampleProducesNFFTOutSamples(t *testing.T) {
	audio := make([]float64, NFFTIn)
	for i := range audio {
		audio[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / SampleRate)
	}
	bb, err := Downsample(audio, 1000)
	require.NoError(t, err)
	assert.Len(t, bb, NFFTOut)
}

func TestRaisedCosineTaperIsZeroAtEdgeAndOneAtCenter(t *testing.T) {
	assert.InDelta(t, 0.0, raisedCosineTaper(0, 101), 1e-9)
	assert.InDelta(t, 1.0, raisedCosineTaper(100, 101), 1e-9)
}

func TestCexpIsUnitMagnitude(t *testing.T) {
	v := cexp(1.234)
	mag := math.Hypot(real(v), imag(v))
	assert.InDelta(t, 1.0, mag, 1e-9)
}
