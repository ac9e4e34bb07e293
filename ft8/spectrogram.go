package ft8

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"
)

/*
 * Spectrogram (component A).
 * Grounded on the teacher's waterfall.go FFT-per-column structure,
 * generalized to the NH1 x NHSYM float64 power matrix the spec
 * requires instead of the teacher's packed-uint8 waterfall.
 */

// Spectrogram is the NH1 x NHSYM power matrix, bin-major (one row per
// frequency bin across all time steps). The column fan-out below writes
// every row, each worker only within its own column range.
type Spectrogram struct {
	S   [][]float64 // S[bin][step], length NH1 x NHSYM
	Avg []float64   // average power per bin across all steps, length NH1
}

// BuildSpectrogram builds the NH1 x NHSYM power spectrogram from a raw
// audio buffer of at least NMAX samples. Column j uses samples
// [j*FT8Step, j*FT8Step+NSPS). Columns are computed independently: the
// fan-out below assigns each goroutine a disjoint column range and each
// goroutine only ever writes into S[*][lo:hi].
func BuildSpectrogram(audio []float64) (*Spectrogram, error) {
	if len(audio) < NMAX {
		return nil, &InputShapeError{Got: len(audio), Want: NMAX}
	}

	sg := &Spectrogram{
		S:   make([][]float64, NH1),
		Avg: make([]float64, NH1),
	}
	for b := 0; b < NH1; b++ {
		sg.S[b] = make([]float64, NHSYM)
	}

	fft := fourier.NewFFT(NFFT)

	workers := 8
	chunk := (NHSYM + workers - 1) / workers

	g, _ := errgroup.WithContext(context.Background())
	for lo := 0; lo < NHSYM; lo += chunk {
		lo := lo
		hi := lo + chunk
		if hi > NHSYM {
			hi = NHSYM
		}
		g.Go(func() error {
			windowed := make([]float64, NFFT)
			for j := lo; j < hi; j++ {
				start := j * FT8Step
				for i := range windowed {
					windowed[i] = 0
				}
				for i := 0; i < NSPS; i++ {
					windowed[i] = audio[start+i] / 300.0
				}
				spec := fft.Coefficients(nil, windowed)
				for b := 0; b < NH1; b++ {
					re, im := real(spec[b]), imag(spec[b])
					sg.S[b][j] = re*re + im*im
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for b := 0; b < NH1; b++ {
		sum := 0.0
		for j := 0; j < NHSYM; j++ {
			sum += sg.S[b][j]
		}
		sg.Avg[b] = sum / float64(NHSYM)
	}

	return sg, nil
}
