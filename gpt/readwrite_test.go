package gpt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLabel(t *testing.T, capacity uint64, lbaSize uint32, nParts uint32) *DiskLabel {
	t.Helper()
	l, err := Init(capacity, lbaSize, nParts, DefaultUUIDSource)
	require.NoError(t, err)

	rootGUID, ok := guidForTag(TagRoot)
	require.True(t, ok)
	reservedGUID, ok := guidForTag(TagReserved)
	require.True(t, ok)

	var rootName, reservedName [nameFieldLen]byte
	copy(rootName[:], "rpool")
	copy(reservedName[:], "reserved")

	size := l.LastUsableLBA - l.FirstUsableLBA + 1
	reservedSize := uint64(8192)
	rootSize := size - reservedSize

	l.Parts[0] = Partition{
		TypeGUID: rootGUID,
		Tag:      TagRoot,
		StartLBA: l.FirstUsableLBA,
		SizeLBA:  rootSize,
		Name:     rootName,
	}
	l.Parts[nParts-1] = Partition{
		TypeGUID: reservedGUID,
		Tag:      TagReserved,
		StartLBA: l.FirstUsableLBA + rootSize,
		SizeLBA:  reservedSize,
		Name:     reservedName,
	}
	return l
}

func TestWriteReadRoundTrip(t *testing.T) {
	const capacity = 2097152
	dev := newMemDevice(capacity, 512)
	l := newTestLabel(t, capacity, 512, 128)

	require.NoError(t, Write(dev, l, DefaultUUIDSource, nil, nil))

	got, _, err := Read(dev, nil)
	require.NoError(t, err)

	assert.Equal(t, l.DiskGUID, got.DiskGUID)
	assert.Equal(t, l.FirstUsableLBA, got.FirstUsableLBA)
	assert.Equal(t, l.LastUsableLBA, got.LastUsableLBA)
	assert.Equal(t, l.Parts[0].Tag, got.Parts[0].Tag)
	assert.Equal(t, l.Parts[0].StartLBA, got.Parts[0].StartLBA)
	assert.Equal(t, l.Parts[0].SizeLBA, got.Parts[0].SizeLBA)
	assert.False(t, got.Parts[0].UniqueGUID.IsNull())
	assert.Equal(t, uint32(0), got.Flags&FlagPrimaryCorrupt)
}

func TestReadFallsBackToModernBackupWhenPrimaryCorrupt(t *testing.T) {
	const capacity = 2097152
	dev := newMemDevice(capacity, 512)
	l := newTestLabel(t, capacity, 512, 128)
	require.NoError(t, Write(dev, l, DefaultUUIDSource, nil, nil))

	dev.corruptPrimary()

	got, _, err := Read(dev, nil)
	require.NoError(t, err)
	assert.NotEqual(t, uint32(0), got.Flags&FlagPrimaryCorrupt)
	assert.Equal(t, l.DiskGUID, got.DiskGUID)
}

func TestReadFallsBackToLegacyBackupWhenModernBackupAlsoUnavailable(t *testing.T) {
	const capacity = 2097152
	dev := newMemDevice(capacity, 512)
	l := newTestLabel(t, capacity, 512, 128)
	require.NoError(t, Write(dev, l, DefaultUUIDSource, nil, nil))

	dev.corruptPrimaryAndMoveBackupToLegacy(l)

	got, _, err := Read(dev, nil)
	require.NoError(t, err)
	assert.NotEqual(t, uint32(0), got.Flags&FlagPrimaryCorrupt)
	assert.Equal(t, l.DiskGUID, got.DiskGUID)
	assert.Equal(t, l.Parts[0].StartLBA, got.Parts[0].StartLBA)
	assert.Equal(t, l.Parts[0].SizeLBA, got.Parts[0].SizeLBA)
}

func TestWriteRejectsOverlappingPartitions(t *testing.T) {
	const capacity = 2097152
	l, err := Init(capacity, 512, 128, DefaultUUIDSource)
	require.NoError(t, err)

	rootGUID, _ := guidForTag(TagRoot)
	l.Parts[0] = Partition{TypeGUID: rootGUID, Tag: TagRoot, StartLBA: l.FirstUsableLBA, SizeLBA: 1000}
	l.Parts[1] = Partition{TypeGUID: rootGUID, Tag: TagRoot, StartLBA: l.FirstUsableLBA + 500, SizeLBA: 1000}

	dev := newMemDevice(capacity, 512)
	err = Write(dev, l, DefaultUUIDSource, nil, nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestWriteRejectsOutOfBoundsPartition(t *testing.T) {
	const capacity = 2097152
	l, err := Init(capacity, 512, 128, DefaultUUIDSource)
	require.NoError(t, err)

	rootGUID, _ := guidForTag(TagRoot)
	l.Parts[0] = Partition{TypeGUID: rootGUID, Tag: TagRoot, StartLBA: l.LastUsableLBA - 10, SizeLBA: 1000}

	dev := newMemDevice(capacity, 512)
	err = Write(dev, l, DefaultUUIDSource, nil, nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestWriteRejectsMultipleReservedPartitions(t *testing.T) {
	const capacity = 2097152
	l, err := Init(capacity, 512, 128, DefaultUUIDSource)
	require.NoError(t, err)

	reservedGUID, _ := guidForTag(TagReserved)
	l.Parts[0] = Partition{TypeGUID: reservedGUID, Tag: TagReserved, StartLBA: l.FirstUsableLBA, SizeLBA: 1000}
	l.Parts[1] = Partition{TypeGUID: reservedGUID, Tag: TagReserved, StartLBA: l.FirstUsableLBA + 2000, SizeLBA: 1000}

	dev := newMemDevice(capacity, 512)
	err = Write(dev, l, DefaultUUIDSource, nil, nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidatePromotesUnknownGUIDToTagUnknown(t *testing.T) {
	const capacity = 2097152
	l, err := Init(capacity, 512, 128, DefaultUUIDSource)
	require.NoError(t, err)

	unknown, err := ParseGUID("11111111-2222-3333-4444-555555555555")
	require.NoError(t, err)
	l.Parts[0] = Partition{TypeGUID: unknown, StartLBA: l.FirstUsableLBA, SizeLBA: 1000}
	// a second, valid partition alongside it, so the range and overlap
	// checks run over more than one span
	rootGUID, _ := guidForTag(TagRoot)
	l.Parts[1] = Partition{TypeGUID: rootGUID, Tag: TagRoot, StartLBA: l.FirstUsableLBA + 2000, SizeLBA: 1000}

	require.NoError(t, Validate(l))
	assert.Equal(t, TagUnknown, l.Parts[0].Tag)
}

func TestReaderRetriesWithLargerEntryBuffer(t *testing.T) {
	const capacity = 2097152
	dev := newMemDevice(capacity, 512)
	l := newTestLabel(t, capacity, 512, 256) // > the 128-entry provisional buffer

	require.NoError(t, Write(dev, l, DefaultUUIDSource, nil, nil))

	got, _, err := Read(dev, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(256), got.NParts)
}
