package ft8

import "math"

/*
 * GFSK synthesis and multipass cancellation (component E, part 5).
 * Nothing in the teacher repo synthesizes audio, so this is grounded
 * directly on spec §4.5.5's description (BT=2 Gaussian-pulse GFSK,
 * NSPS/8 raised-cosine amplitude ramp, boxcar low-pass gain estimation
 * over a ~4000-sample window) rather than on a specific teacher file;
 * the Gaussian pulse shape itself follows the standard GFSK
 * frequency-pulse construction (integral of a Gaussian-filtered
 * rectangular pulse).
 */

const (
	gfskBT         = 2.0        // bandwidth-time product
	cancelRampLen  = NSPS / 8   // 240-sample raised-cosine on/off ramp
	gainBoxcarLen  = 4000       // samples, low-pass gain-tracking window
	pulseSupportSy = 1.5        // symbols either side of n a Gaussian pulse contributes over
)

// gfskFreqPulse evaluates the BT=2 Gaussian frequency-shaping pulse at
// symbol-relative time t (t=0 at the pulse's own symbol center).
func gfskFreqPulse(t float64) float64 {
	k := 2 * math.Pi * gfskBT / math.Sqrt(math.Log(2))
	return 0.5 * (math.Erf(k*(t+0.5)) - math.Erf(k*(t-0.5)))
}

// Synthesize renders the 79-symbol FT8 tone sequence (as produced by
// GetTonesFromBits) into a complex baseband waveform at sampleRate
// sample/s, centered on freqHz, with a NSPS/8 raised-cosine amplitude
// ramp at the start and end of the burst. The result is an analytic
// signal: Re{} gives the passband waveform once demodulated against the
// same reference frame the candidate's time offset describes.
func Synthesize(symbols [FT8_NN]int, freqHz float64, sampleRate int) []complex128 {
	total := NSPS * FT8_NN
	freqInst := make([]float64, total)

	for n := 0; n < total; n++ {
		tSym := float64(n) / float64(NSPS)
		kCenter := int(tSym)
		lo := kCenter - 2
		hi := kCenter + 2
		if lo < 0 {
			lo = 0
		}
		if hi >= FT8_NN {
			hi = FT8_NN - 1
		}
		var f float64
		for k := lo; k <= hi; k++ {
			dt := tSym - (float64(k) + 0.5)
			if math.Abs(dt) > pulseSupportSy {
				continue
			}
			toneFreq := freqHz + float64(symbols[k])*Baud
			f += toneFreq * gfskFreqPulse(dt)
		}
		freqInst[n] = f
	}

	ref := make([]complex128, total)
	phase := 0.0
	for n := 0; n < total; n++ {
		phase += 2 * math.Pi * freqInst[n] / float64(sampleRate)
		amp := rampGain(n, total)
		ref[n] = complex(amp*math.Cos(phase), amp*math.Sin(phase))
	}
	return ref
}

func rampGain(n, total int) float64 {
	if n < cancelRampLen {
		return raisedCosineRamp(float64(n) / float64(cancelRampLen))
	}
	if n >= total-cancelRampLen {
		return raisedCosineRamp(float64(total-1-n) / float64(cancelRampLen))
	}
	return 1.0
}

func raisedCosineRamp(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return 0.5 * (1 - math.Cos(math.Pi*x))
}

// Cancel subtracts a reconstructed candidate's waveform from audio,
// tracking a slowly-varying complex gain (boxcar low-pass smoothed
// across ~gainBoxcarLen samples) so amplitude/phase drift in the
// channel doesn't leave a residual. audio is modified in place and also
// returned for convenience; startSample is where ref[0] aligns in audio
// (may be negative or run past len(audio), in which case only the
// overlapping span is touched).
func Cancel(audio []float64, ref []complex128, startSample int) []float64 {
	lo := startSample
	hi := startSample + len(ref)
	if lo < 0 {
		lo = 0
	}
	if hi > len(audio) {
		hi = len(audio)
	}
	if lo >= hi {
		return audio
	}

	n := hi - lo
	rawRe := make([]float64, n)
	rawIm := make([]float64, n)
	for i := 0; i < n; i++ {
		r := ref[lo-startSample+i]
		mag2 := real(r)*real(r) + imag(r)*imag(r)
		if mag2 < 1e-12 {
			continue
		}
		// audio[lo+i] * conj(r) / |r|^2, keeping only the real
		// channel's contribution since audio is a real signal.
		g := complex(audio[lo+i], 0) * complex(real(r), -imag(r)) / complex(mag2, 0)
		rawRe[i] = real(g)
		rawIm[i] = imag(g)
	}

	gainRe := boxcarSmooth(rawRe, gainBoxcarLen)
	gainIm := boxcarSmooth(rawIm, gainBoxcarLen)

	for i := 0; i < n; i++ {
		r := ref[lo-startSample+i]
		gain := complex(gainRe[i], gainIm[i])
		contribution := r * gain
		audio[lo+i] -= 2 * real(contribution)
	}
	return audio
}

// boxcarSmooth returns the moving average of x over a window of width
// win (clamped to len(x)), computed via a running sum for O(len(x)).
func boxcarSmooth(x []float64, win int) []float64 {
	n := len(x)
	if win > n {
		win = n
	}
	if win < 1 {
		win = 1
	}
	out := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		sum += x[i]
		if i >= win {
			sum -= x[i-win]
		}
		count := win
		if i < win {
			count = i + 1
		}
		out[i] = sum / float64(count)
	}
	return out
}
