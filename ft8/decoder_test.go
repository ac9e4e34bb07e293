package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0ypr/ft8decode/ft8/ldpccode"
)

// synthesizeBurst packs a standard-format message, encodes it, and
// renders it into a full NMAX-length 12 kHz audio buffer at freqHz,
// anchored on the same 0.5s start-of-buffer convention RefineSync's
// "nominal" offset assumes (so a TimeOffsetS of 0 lines up exactly).
func synthesizeBurst(t *testing.T, callTo, callDe, extra string, freqHz float64) []float64 {
	t.Helper()

	payload, err := PackMessage(callTo, callDe, extra)
	require.NoError(t, err)

	msg := make([]byte, FTX_LDPC_K)
	bitIdx := 0
	for _, b := range payload {
		for i := 7; i >= 0; i-- {
			if bitIdx >= 77 {
				break
			}
			msg[bitIdx] = (b >> uint(i)) & 1
			bitIdx++
		}
	}

	a91 := PackBits(msg[:77], 77)
	full := make([]byte, FTX_LDPC_K_BYTES)
	copy(full, a91)
	crc := ComputeCRC(full, 96-14)
	for i := 0; i < 14; i++ {
		msg[77+i] = byte((crc >> uint(13-i)) & 1)
	}

	codeword := ldpccode.FT8.Encode(msg)
	require.Equal(t, 0, ldpccode.FT8.CheckParity(codeword))

	tones := GetTonesFromBits(codeword)
	ref := Synthesize(tones, freqHz, SampleRate)

	audio := make([]float64, NMAX)
	startSample := int(0.5 * SampleRate)
	for i, r := range ref {
		if startSample+i >= len(audio) {
			break
		}
		audio[startSample+i] += real(r)
	}
	return audio
}

func TestDecodeEndToEndCleanSignal(t *testing.T) {
	audio := synthesizeBurst(t, "CQ", "N0YPR", "DM42", 1000.0)

	cfg := DefaultConfig()
	var got []DecodeResult
	_, err := Decode(audio, cfg, func(r DecodeResult) bool {
		got = append(got, r)
		return true
	})
	require.NoError(t, err)

	require.NotEmpty(t, got, "pipeline must decode a clean, noiseless synthesized burst")
	assert.Contains(t, got[0].Message, "N0YPR")
	assert.Equal(t, MessageTypeStandard, got[0].MessageType)
}

func TestDecodeRejectsShortBuffer(t *testing.T) {
	cfg := DefaultConfig()
	_, err := Decode(make([]float64, 100), cfg, func(DecodeResult) bool { return true })
	require.Error(t, err)
	var shapeErr *InputShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestDecodeRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OSDOrder = 99
	_, err := Decode(make([]float64, NMAX), cfg, func(DecodeResult) bool { return true })
	require.Error(t, err)
}

func TestCRCValidRoundTrip(t *testing.T) {
	msg := make([]byte, FTX_LDPC_K)
	for i := range msg {
		msg[i] = byte((i * 5) % 2)
	}
	a91 := PackBits(msg[:77], 77)
	full := make([]byte, FTX_LDPC_K_BYTES)
	copy(full, a91)
	crc := ComputeCRC(full, 96-14)
	for i := 0; i < 14; i++ {
		msg[77+i] = byte((crc >> uint(13-i)) & 1)
	}

	cw := ldpccode.FT8.Encode(msg)
	assert.True(t, crcValid(cw))

	cw[0] ^= 1 // corrupt a payload bit without touching parity
	assert.False(t, crcValid(cw))
}

func TestEnrichDistanceBearingFillsBothFieldsWhenLocatorsParse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReceiverLocator = "EM10"
	result := &DecodeResult{Locator: "FN31"}

	enrichDistanceBearing(result, cfg)

	require.NotNil(t, result.DistanceKm)
	require.NotNil(t, result.BearingDeg)
	assert.Greater(t, *result.DistanceKm, 0.0)
}

func TestEnrichDistanceBearingSkipsWithoutReceiverLocator(t *testing.T) {
	cfg := DefaultConfig()
	result := &DecodeResult{Locator: "FN31"}

	enrichDistanceBearing(result, cfg)

	assert.Nil(t, result.DistanceKm)
	assert.Nil(t, result.BearingDeg)
}
