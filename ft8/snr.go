package ft8

import "math"

/*
 * SNR estimation and tone reconstruction (component E, part 4).
 * Grounded on the teacher's snr.go CalculateSNR (WSJT-X-style baseline
 * bandwidth correction, kept in spirit) and getTonesFromBitsFT8 (Costas
 * sync insertion + Gray-map inversion, kept almost verbatim; the FT4
 * path is dropped per this project's FT8-only scope), rewired onto the
 * SyncMatrix/Candidate types from costas.go and candidate.go and onto
 * spec §4.5.4's 2500 Hz reference bandwidth convention.
 */

// snrReferenceBandwidthHz is the bandwidth conventional SNR reports are
// normalised to, regardless of FT8's much narrower ~6.25 Hz tone
// spacing.
const snrReferenceBandwidthHz = 2500.0

// EstimateSNR converts a candidate's sync power and baseline noise
// level (both linear; the decoder passes RefineSync's winning score and
// the candidate's linear baseline) into a dB
// SNR referenced to a 2500 Hz bandwidth, clamped to FT8's practical
// range.
func EstimateSNR(syncPower, baselineNoiseLin float64) int {
	if baselineNoiseLin <= 0 || syncPower <= 0 {
		return -24
	}
	snrBin := syncPower / baselineNoiseLin
	snr2500 := snrBin * (BinWidthHz / snrReferenceBandwidthHz)
	if snr2500 <= 0 {
		return -24
	}
	snr := int(math.Round(10 * math.Log10(snr2500)))
	if snr < -24 {
		snr = -24
	}
	if snr > 49 {
		snr = 49
	}
	return snr
}

// GetTonesFromBits reconstructs the 79-symbol FT8 tone sequence from a
// 174-bit codeword: the three fixed Costas blocks plus the Gray-mapped
// 3-bits-per-tone data symbols, needed by cancel.go to synthesize a
// waveform to subtract from the input buffer.
func GetTonesFromBits(codeword []byte) [FT8_NN]int {
	var itone [FT8_NN]int

	for i := 0; i < FT8_LENGTH_SYNC; i++ {
		itone[i] = int(FT8_Costas_pattern[i])
		itone[36+i] = int(FT8_Costas_pattern[i])
		itone[FT8_NN-FT8_LENGTH_SYNC+i] = int(FT8_Costas_pattern[i])
	}

	k := FT8_LENGTH_SYNC
	for j := 0; j < FT8_ND; j++ {
		i := 3 * j
		if j == 29 {
			k += FT8_LENGTH_SYNC
		}
		indx := int(codeword[i])*4 + int(codeword[i+1])*2 + int(codeword[i+2])
		itone[k] = int(FT8_Gray_map[indx])
		k++
	}

	return itone
}
