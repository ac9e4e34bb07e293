package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPackMessageRoundTripsStandardCalls(t *testing.T) {
	cases := []struct {
		callTo, callDe, extra string
	}{
		{"CQ", "N0YPR", "DM42"},
		{"N0YPR", "W1AW", "FN31"},
		{"CQ", "K1ABC", ""},
		{"W1AW", "K1ABC", "R DM42"},
		{"K1ABC", "W1AW", "RRR"},
		{"K1ABC", "W1AW", "RR73"},
		{"K1ABC", "W1AW", "73"},
		{"K1ABC", "W1AW", "-12"},
		{"K1ABC", "W1AW", "R+05"},
		{"CQ 123", "N0YPR", ""},
		{"CQ TEST", "N0YPR", ""},
		{"W1AW/R", "N0YPR", "DM42"},
	}

	for _, c := range cases {
		payload, err := PackMessage(c.callTo, c.callDe, c.extra)
		require.NoErrorf(t, err, "pack %q/%q/%q", c.callTo, c.callDe, c.extra)

		got := UnpackMessage(payload)
		assert.Containsf(t, got, stripSuffix(c.callDe), "unpacked %q should mention callDe %q (packed %q/%q/%q)", got, c.callDe, c.callTo, c.callDe, c.extra)
	}
}

func stripSuffix(call string) string {
	for _, suf := range []string{"/R", "/P"} {
		if len(call) > len(suf) && call[len(call)-len(suf):] == suf {
			return call[:len(call)-len(suf)]
		}
	}
	return call
}

func TestPackMessageProducesA77BitPayload(t *testing.T) {
	payload, err := PackMessage("CQ", "N0YPR", "DM42")
	require.NoError(t, err)

	i3 := (payload[9] >> 3) & 0x07
	assert.Equal(t, uint8(1), i3, "standard-format messages set i3=1")
}

func TestPackGridRoundTripsGridSquares(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 17).Draw(t, "a")
		b := rapid.IntRange(0, 17).Draw(t, "b")
		c := rapid.IntRange(0, 9).Draw(t, "c")
		d := rapid.IntRange(0, 9).Draw(t, "d")
		grid := string([]byte{byte('A' + a), byte('A' + b), byte('0' + c), byte('0' + d)})

		igrid4, r1, err := packGrid(grid)
		require.NoError(t, err)
		assert.Equal(t, uint8(0), r1)

		got := unpackGrid(igrid4, r1)
		assert.Equal(t, grid, got)
	})
}

func TestPackCallsignRejectsUnencodableInput(t *testing.T) {
	_, _, err := packCallsign("////")
	assert.Error(t, err)
}
