package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0ypr/ft8decode/ft8/ldpccode"
)

// llrFromCodeword turns a hard-decision codeword into strong, noise-free
// LLRs: +20 for a 1 bit, -20 for a 0 bit, matching this package's sign
// convention (positive means bit-is-one more likely).
func llrFromCodeword(cw []byte) []float64 {
	llr := make([]float64, len(cw))
	for i, b := range cw {
		if b == 1 {
			llr[i] = 20
		} else {
			llr[i] = -20
		}
	}
	return llr
}

func TestBPDecodeConvergesOnCleanCodeword(t *testing.T) {
	msg := make([]byte, ldpccode.K)
	for i := range msg {
		msg[i] = byte(i % 2)
	}
	cw := ldpccode.FT8.Encode(msg)

	decoded, iters, ok := BPDecode(llrFromCodeword(cw), ldpccode.FT8, 50)
	require.True(t, ok, "BP should converge on a noise-free codeword")
	assert.LessOrEqual(t, iters, 50)
	assert.Equal(t, cw, decoded)
}

func TestBPDecodeCorrectsAFewWeakBits(t *testing.T) {
	msg := make([]byte, ldpccode.K)
	for i := range msg {
		msg[i] = byte((i * 3) % 2)
	}
	cw := ldpccode.FT8.Encode(msg)

	llr := llrFromCodeword(cw)
	// Weaken (but don't flip the sign of) three bits, as noise would.
	for _, pos := range []int{5, 40, 100} {
		llr[pos] *= 0.1
	}

	decoded, _, ok := BPDecode(llr, ldpccode.FT8, 50)
	require.True(t, ok, "BP should converge with a few weakened bits")
	assert.Equal(t, cw, decoded)
}

func TestOSDDecodeRecoversFromUnreliableBits(t *testing.T) {
	msg := make([]byte, ldpccode.K)
	for i := range msg {
		msg[i] = byte((i * 7) % 2)
	}
	a91 := PackBits(msg, FTX_LDPC_K)
	a91[9] &= 0xF8
	a91[10] = 0
	crc := ComputeCRC(a91, 96-14)
	msg[77] = byte((crc >> 13) & 1)
	msg[78] = byte((crc >> 12) & 1)
	msg[79] = byte((crc >> 11) & 1)
	msg[80] = byte((crc >> 10) & 1)
	msg[81] = byte((crc >> 9) & 1)
	msg[82] = byte((crc >> 8) & 1)
	msg[83] = byte((crc >> 7) & 1)
	msg[84] = byte((crc >> 6) & 1)
	msg[85] = byte((crc >> 5) & 1)
	msg[86] = byte((crc >> 4) & 1)
	msg[87] = byte((crc >> 3) & 1)
	msg[88] = byte((crc >> 2) & 1)
	msg[89] = byte((crc >> 1) & 1)
	msg[90] = byte(crc & 1)

	cw := ldpccode.FT8.Encode(msg)
	require.Equal(t, 0, ldpccode.FT8.CheckParity(cw))
	require.True(t, crcValid(cw), "test fixture must itself be CRC-valid")

	llr := llrFromCodeword(cw)
	// Make two information bits unreliable (small magnitude, possibly
	// wrong sign) -- exactly what OSD's bit-flip search is meant to fix.
	llr[3] = 0.5
	llr[9] = -0.5

	decoded, ok := OSDDecode(llr, ldpccode.FT8, 2)
	require.True(t, ok, "order-2 OSD should recover a codeword with two unreliable bits")
	assert.True(t, crcValid(decoded))
}
