package gpt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitScenarioS1 checks Init's arithmetic against a 1 GiB disk with
// 512-byte sectors and 128 partition entries.
func TestInitScenarioS1(t *testing.T) {
	const capacity = 2097152 // 1 GiB / 512
	l, err := Init(capacity, 512, 128, DefaultUUIDSource)
	require.NoError(t, err)

	assert.Equal(t, uint64(34), l.FirstUsableLBA)
	assert.Equal(t, uint64(2097151), l.LastLBA)
	assert.Equal(t, uint64(2097151), l.AlternateLBA)
	assert.Equal(t, uint64(2097118), l.LastUsableLBA)
	assert.False(t, l.DiskGUID.IsNull())
}

func TestInitRejectsZeroParts(t *testing.T) {
	_, err := Init(2097152, 512, 0, DefaultUUIDSource)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestInitDefaultsLBASize(t *testing.T) {
	l, err := Init(2097152, 0, 128, DefaultUUIDSource)
	require.NoError(t, err)
	assert.Equal(t, uint32(512), l.LBASize)
}

func TestLabelBlocksFloorsToMinArraySize(t *testing.T) {
	// A handful of entries should still reserve the 16 KiB array floor.
	got := labelBlocks(4, 512)
	assert.Equal(t, uint64(16384/512+1), got)
}

func TestLabelBlocks4KSectors(t *testing.T) {
	got := labelBlocks(128, 4096)
	// 128*128 = 16384 bytes = exactly 4 blocks of 4096; +1 header block = 5;
	// floor is 16384/4096+1 = 5 as well.
	assert.Equal(t, uint64(5), got)
}
