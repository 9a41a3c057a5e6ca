package gpt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGUIDStringParseRoundTrip(t *testing.T) {
	const s = "EBD0A0A2-B9E5-4433-87C0-68B6B72699C7"
	// String renders lowercase hex, so the round trip yields the
	// lowercase form of the uppercase input.
	const want = "ebd0a0a2-b9e5-4433-87c0-68b6b72699c7"
	g, err := ParseGUID(s)
	require.NoError(t, err)
	assert.Equal(t, want, g.String())
}

func TestGUIDOnDiskMixedEndianRoundTrip(t *testing.T) {
	g, err := ParseGUID("EBD0A0A2-B9E5-4433-87C0-68B6B72699C7")
	require.NoError(t, err)

	var disk [16]byte
	encodeGUID(disk[:], g)

	// on disk, Data1 is stored little-endian: A2 A0 D0 EB ...
	assert.Equal(t, byte(0xA2), disk[0])
	assert.Equal(t, byte(0xA0), disk[1])
	assert.Equal(t, byte(0xD0), disk[2])
	assert.Equal(t, byte(0xEB), disk[3])

	back := decodeGUID(disk[:])
	assert.Equal(t, g, back)
}

func TestGUIDIsNull(t *testing.T) {
	var g GUID
	assert.True(t, g.IsNull())

	g2, err := ParseGUID("00000000-0000-0000-0000-000000000001")
	require.NoError(t, err)
	assert.False(t, g2.IsNull())
}

func TestParseGUIDRejectsMalformed(t *testing.T) {
	_, err := ParseGUID("not-a-guid")
	assert.Error(t, err)
}

func TestNameCodecRoundTrip(t *testing.T) {
	var name [nameFieldLen]byte
	copy(name[:], "rpool")

	buf := make([]byte, nameFieldLen*2)
	encodeName(buf, name, nameFieldLen)

	got := decodeName(buf, nameFieldLen)
	assert.Equal(t, name, got)
}

func TestNameCodecStopsAtNUL(t *testing.T) {
	buf := make([]byte, nameFieldLen*2)
	buf[0], buf[1] = 'r', 0
	buf[2], buf[3] = 'p', 0
	buf[4], buf[5] = 0, 0
	buf[6], buf[7] = 'X', 0 // must be ignored: trailing garbage past the NUL

	got := decodeName(buf, nameFieldLen)
	assert.Equal(t, byte('r'), got[0])
	assert.Equal(t, byte('p'), got[1])
	assert.Equal(t, byte(0), got[2])
}
