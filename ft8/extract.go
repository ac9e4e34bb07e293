package ft8

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

/*
 * Symbol demodulation and LLR extraction (component D, part 3).
 * Grounded on the teacher's extract.go extractSymbolFT8 (Gray-coded
 * 8-tone max-log LLR) and normalizeLikelihood (variance-based scaling,
 * kept), generalized to the spec's explicit sigma^2 noise normalisation
 * and per-window-width family (spec §4.4.3).
 */

// toneBitTable[tone] is the 3-bit group index whose Gray-mapped tone is
// `tone` -- the inverse of FT8_Gray_map.
var toneBitTable = func() [8]int {
	var t [8]int
	for indx, tone := range FT8_Gray_map {
		t[tone] = indx
	}
	return t
}()

// ExtractLLRs returns the length-174 LLR vector for the 79-symbol FT8
// frame found at baseband sample offset t (the fine-sync result), using
// an FFT window spanning windowSymbols consecutive symbol periods
// centred on each data symbol (1, 2, or 4) and noise scale sigma2.
// Positive LLR means bit-is-one more likely, per the spec's sign
// convention.
func ExtractLLRs(baseband []complex128, t int, sigma2 float64, windowSymbols int) ([]float64, error) {
	if sigma2 <= 0 {
		sigma2 = 1
	}
	fftLen := NSPSBaseband * windowSymbols
	fft := fourier.NewCmplxFFT(fftLen)

	llr := make([]float64, FTX_LDPC_N)
	bitIdx := 0

	for sym := 0; sym < FT8_NN; sym++ {
		if isCostasSymbol(sym) {
			continue
		}
		center := t + NSPSBaseband*sym
		window := make([]complex128, fftLen)
		lo := center - (fftLen-NSPSBaseband)/2
		for i := 0; i < fftLen; i++ {
			idx := lo + i
			if idx >= 0 && idx < len(baseband) {
				w := hannTaper(i, fftLen)
				window[i] = baseband[idx] * complex(w, 0)
			}
		}
		spectrum := fft.Coefficients(nil, window)

		var s8 [8]float64
		for tone := 0; tone < 8; tone++ {
			bin := tone * windowSymbols
			if bin < len(spectrum) {
				re, im := real(spectrum[bin]), imag(spectrum[bin])
				s8[tone] = (re*re + im*im) / sigma2
			}
		}

		for bit := 0; bit < 3; bit++ {
			max1, max0 := math.Inf(-1), math.Inf(-1)
			for tone := 0; tone < 8; tone++ {
				indx := toneBitTable[tone]
				var bitVal int
				switch bit {
				case 0:
					bitVal = (indx >> 2) & 1
				case 1:
					bitVal = (indx >> 1) & 1
				case 2:
					bitVal = indx & 1
				}
				if bitVal == 1 {
					if s8[tone] > max1 {
						max1 = s8[tone]
					}
				} else if s8[tone] > max0 {
					max0 = s8[tone]
				}
			}
			llr[bitIdx] = max1 - max0
			bitIdx++
		}
	}

	for _, v := range llr {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &CandidateRejectedError{Reason: "non-finite LLR"}
		}
	}

	normalizeLikelihood(llr)
	return llr, nil
}

// isCostasSymbol reports whether symbol index k (0..78) is part of one
// of the three 7-symbol Costas sync blocks.
func isCostasSymbol(k int) bool {
	return (k >= 0 && k < FT8_LENGTH_SYNC) ||
		(k >= FT8_SYNC_OFFSET && k < FT8_SYNC_OFFSET+FT8_LENGTH_SYNC) ||
		(k >= 2*FT8_SYNC_OFFSET && k < 2*FT8_SYNC_OFFSET+FT8_LENGTH_SYNC)
}

func hannTaper(i, n int) float64 {
	if n <= 1 {
		return 1
	}
	return 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
}

// normalizeLikelihood rescales an LLR vector to a fixed target
// variance, the same experimentally-tuned coefficient the teacher's
// extract.go uses, so BP's attenuation constant stays well-behaved
// regardless of candidate signal strength.
func normalizeLikelihood(llr []float64) {
	var sum, sum2 float64
	for _, v := range llr {
		sum += v
		sum2 += v * v
	}
	n := float64(len(llr))
	variance := sum2/n - (sum/n)*(sum/n)
	if variance <= 0 {
		return
	}
	scale := math.Sqrt(24.0 / variance)
	for i := range llr {
		llr[i] *= scale
	}
}
