package ft8

import "math"

/*
 * Fine synchronisation (component D, part 2). Spec §4.4.2: a Costas-only
 * sync metric in the complex baseband domain, searching +/-10 downsampled
 * samples in time and the 11 values f0 + k*0.5 Hz in frequency,
 * re-downsampling at every frequency trial so the candidate sits at DC.
 */

const (
	fineTimeSearch = 10
	fineFreqSteps  = 5   // +/- steps of 0.5 Hz
	fineFreqStepHz = 0.5
)

// RefineSync searches time and frequency around a coarse candidate and
// returns the refined frequency, the refined baseband sample offset,
// the baseband buffer at the winning frequency, and the winning sync
// score.
func RefineSync(audio []float64, coarse Candidate) (freqHz float64, sampleOffset int, baseband []complex128, bestSync float64) {
	nominal := int(math.Round((0.5 + coarse.TimeOffsetS) * BasebandRate))

	bestFreq := coarse.FreqHz
	bestOffset := nominal

	for k := -fineFreqSteps; k <= fineFreqSteps; k++ {
		trialFreq := coarse.FreqHz + float64(k)*fineFreqStepHz
		bb, err := Downsample(audio, trialFreq)
		if err != nil {
			continue
		}
		for dt := -fineTimeSearch; dt <= fineTimeSearch; dt++ {
			t := nominal + dt
			score := costasScoreBaseband(bb, t)
			if score > bestSync {
				bestSync = score
				bestFreq = trialFreq
				bestOffset = t
				baseband = bb
			}
		}
	}

	if baseband == nil {
		baseband, _ = Downsample(audio, bestFreq)
	}

	return bestFreq, bestOffset, baseband, bestSync
}

// costasScoreBaseband accumulates complex power of the three Costas
// arrays, each symbol window correlated against the conjugate of its
// ideal tone.
func costasScoreBaseband(bb []complex128, t int) float64 {
	var total float64
	for g, groupOffset := range [3]int{0, FT8_SYNC_OFFSET, 2 * FT8_SYNC_OFFSET} {
		_ = g
		for n := 0; n < FT8_LENGTH_SYNC; n++ {
			tone := int(FT8_Costas_pattern[n])
			start := t + NSPSBaseband*(groupOffset+n)
			if start < 0 || start+NSPSBaseband > len(bb) {
				continue
			}
			var acc complex128
			omega := 2 * math.Pi * float64(tone) * Baud / BasebandRate
			for i := 0; i < NSPSBaseband; i++ {
				ref := cexp(-omega * float64(i))
				acc += bb[start+i] * ref
			}
			mag := acc / complex(NSPSBaseband, 0)
			total += real(mag)*real(mag) + imag(mag)*imag(mag)
		}
	}
	return total
}
