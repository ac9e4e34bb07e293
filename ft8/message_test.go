package ft8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMessageTypeMapsI3N3ToVariant(t *testing.T) {
	cases := []struct {
		i3, n3 uint8
		want   MessageType
	}{
		{0, 0, MessageTypeFreeText},
		{0, 1, MessageTypeDXpedition},
		{0, 2, MessageTypeEUVHF},
		{0, 3, MessageTypeARRLFD},
		{0, 4, MessageTypeARRLFD},
		{0, 5, MessageTypeTelemetry},
		{0, 6, MessageTypeContesting},
		{1, 0, MessageTypeStandard},
		{2, 0, MessageTypeStandard},
		{3, 0, MessageTypeARRLRTTY},
		{4, 0, MessageTypeNonstdCall},
		{5, 0, MessageTypeWWDIGI},
	}

	for _, c := range cases {
		var payload [10]uint8
		payload[9] = c.i3<<3 | (c.n3&0x03)<<6
		payload[8] = (c.n3 >> 2) & 0x01
		assert.Equalf(t, c.want, GetMessageType(payload), "i3=%d n3=%d", c.i3, c.n3)
	}
}

func TestUnpackGridSpecialValues(t *testing.T) {
	assert.Equal(t, "", unpackGrid(0, 0))
	assert.Equal(t, "RRR", unpackGrid(MAXGRID4+2, 0))
	assert.Equal(t, "RR73", unpackGrid(MAXGRID4+3, 0))
	assert.Equal(t, "73", unpackGrid(MAXGRID4+4, 0))
}

func TestUnpackGridReportAddsRPrefixWhenR1Set(t *testing.T) {
	igrid4 := uint16(MAXGRID4 + 35) // irpt-35 == 0
	assert.Equal(t, "+00", unpackGrid(igrid4, 0))
	assert.Equal(t, "R+00", unpackGrid(igrid4, 1))
}

func TestUnpack28SpecialTokens(t *testing.T) {
	assert.Equal(t, "DE", unpack28(0, 0, 0, nil))
	assert.Equal(t, "QRZ", unpack28(1, 0, 0, nil))
	assert.Equal(t, "CQ", unpack28(2, 0, 0, nil))
	assert.Equal(t, "CQ 007", unpack28(10, 0, 0, nil))
	assert.Equal(t, "CQ A", unpack28(1004, 0, 0, nil))
}
