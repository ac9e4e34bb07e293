package ft8

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

/*
 * Bandpass downsample to complex baseband (component D, part 1).
 * Spec §4.4.1: FFT the first NFFTIn samples, select a complex bandpass
 * around the candidate frequency, taper the edges, rotate to DC, and
 * inverse-FFT at NFFTOut to produce a 200 Hz complex baseband. No
 * teacher equivalent exists (the teacher never leaves the real
 * waterfall); grounded on the sequencing named in spec.md and
 * original_source's sync/downsample.rs filename.
 */

const taperBins = 101

// Downsample bandpass-filters and downsamples audio (at least NMAX real
// samples, zero-padded or truncated to NFFTIn) to a NFFTOut-point
// complex baseband centred at f0 Hz.
func Downsample(audio []float64, f0 float64) ([]complex128, error) {
	if len(audio) < NMAX {
		return nil, &InputShapeError{Got: len(audio), Want: NMAX}
	}

	fwd := fourier.NewFFT(NFFTIn)
	real0 := make([]float64, NFFTIn)
	copy(real0, audio)
	spectrum := fwd.Coefficients(nil, real0)

	binHz := float64(SampleRate) / float64(NFFTIn)
	loBin := int(math.Round((f0 - 1.5*Baud) / binHz))
	hiBin := int(math.Round((f0 + 8.5*Baud) / binHz))
	f0Bin := int(math.Round(f0 / binHz))

	out := make([]complex128, NFFTOut)

	span := hiBin - loBin + 1
	for k := 0; k < span && k < NFFTOut; k++ {
		srcBin := loBin + k
		if srcBin < 0 || srcBin >= len(spectrum) {
			continue
		}
		v := spectrum[srcBin]

		if k < taperBins {
			v *= complex(raisedCosineTaper(k, taperBins), 0)
		}
		if k >= span-taperBins {
			v *= complex(raisedCosineTaper(span-1-k, taperBins), 0)
		}
		// Rotate so f0 lands at DC; bins below f0 wrap to the top
		// (negative frequencies).
		out[((srcBin-f0Bin)%NFFTOut+NFFTOut)%NFFTOut] = v
	}

	inv := fourier.NewCmplxFFT(NFFTOut)
	baseband := inv.Sequence(nil, out)

	scale := math.Sqrt(float64(NFFTOut) / float64(NFFTIn))
	for i := range baseband {
		baseband[i] = baseband[i] * complex(scale/float64(NFFTOut), 0)
	}

	return baseband, nil
}

// raisedCosineTaper returns a [0,1] raised-cosine weight for position i
// of n taper points (i=0 is the outer edge, fully attenuated).
func raisedCosineTaper(i, n int) float64 {
	if n <= 1 {
		return 1
	}
	return 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(n-1)))
}

// cexp is a small helper used by the fine-sync/Costas correlation code
// to build an ideal tone reference at the baseband sample rate.
func cexp(phase float64) complex128 {
	return cmplx.Exp(complex(0, phase))
}
