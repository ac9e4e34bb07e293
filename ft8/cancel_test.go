package ft8

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeProducesUnitAmplitudeSteadyState(t *testing.T) {
	var tones [FT8_NN]int
	for i := range tones {
		tones[i] = i % 8
	}

	ref := Synthesize(tones, 1000, SampleRate)
	require.Len(t, ref, NSPS*FT8_NN)

	mid := len(ref) / 2
	mag := math.Hypot(real(ref[mid]), imag(ref[mid]))
	assert.InDelta(t, 1.0, mag, 1e-6)

	// The ramp at the very start should be near zero amplitude.
	startMag := math.Hypot(real(ref[0]), imag(ref[0]))
	assert.Less(t, startMag, 0.1)
}

func TestCancelRemovesMostOfAMatchingTone(t *testing.T) {
	var tones [FT8_NN]int
	for i := range tones {
		tones[i] = (i * 3) % 8
	}
	ref := Synthesize(tones, 800, SampleRate)

	startSample := 1000
	audio := make([]float64, startSample+len(ref)+1000)
	for i, r := range ref {
		audio[startSample+i] = real(r)
	}

	var before float64
	for i := startSample; i < startSample+len(ref); i++ {
		before += audio[i] * audio[i]
	}
	require.Greater(t, before, 0.0)

	Cancel(audio, ref, startSample)

	var after float64
	for i := startSample; i < startSample+len(ref); i++ {
		after += audio[i] * audio[i]
	}

	assert.Less(t, after, before*0.1, "cancellation should remove most of the matching tone's energy")
}

func TestCancelIgnoresOutOfRangeStart(t *testing.T) {
	var tones [FT8_NN]int
	ref := Synthesize(tones, 500, SampleRate)
	audio := make([]float64, 10)

	result := Cancel(audio, ref, -1000000)
	assert.Equal(t, audio, result)
}
