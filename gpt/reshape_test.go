package gpt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReshapeGrowsLastPartitionBeforeReserved checks the reshape
// arithmetic against the algorithm text directly (growth = new
// reserved start - 1 - old last-used end) rather than any single
// worked example's literal numbers; see DESIGN.md for why.
func TestReshapeGrowsLastPartitionBeforeReserved(t *testing.T) {
	const oldCapacity = 2097152
	const newCapacity = 4194304 // disk doubled in size

	l := newTestLabel(t, oldCapacity, 512, 128)
	reservedIdx := len(l.Parts) - 1
	oldRootSize := l.Parts[0].SizeLBA
	oldReservedStart := l.Parts[reservedIdx].StartLBA
	reservedSize := l.Parts[reservedIdx].SizeLBA

	changed, err := Reshape(l, newCapacity)
	require.NoError(t, err)
	assert.True(t, changed)

	wantReservedStart := l.LastUsableLBA - reservedSize + 1
	assert.Equal(t, wantReservedStart, l.Parts[reservedIdx].StartLBA)
	assert.NotEqual(t, oldReservedStart, l.Parts[reservedIdx].StartLBA)

	wantGrowth := (wantReservedStart - 1) - (l.Parts[0].StartLBA + oldRootSize - 1)
	assert.Equal(t, oldRootSize+wantGrowth, l.Parts[0].SizeLBA)

	assert.Equal(t, newCapacity-1, l.AlternateLBA)
	assert.Equal(t, newCapacity-1, l.LastLBA)

	require.NoError(t, Validate(l))
}

func TestReshapeIsIdempotent(t *testing.T) {
	const oldCapacity = 2097152
	const newCapacity = 4194304

	l := newTestLabel(t, oldCapacity, 512, 128)

	changed, err := Reshape(l, newCapacity)
	require.NoError(t, err)
	assert.True(t, changed)

	sizeAfterFirst := l.Parts[0].SizeLBA
	changed, err = Reshape(l, newCapacity)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, sizeAfterFirst, l.Parts[0].SizeLBA)
}

func TestReshapeRejectsShrink(t *testing.T) {
	const oldCapacity = 4194304
	const newCapacity = 2097152

	l := newTestLabel(t, oldCapacity, 512, 128)
	_, err := Reshape(l, newCapacity)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestReshapeRequiresAtLeastTwoPartitions(t *testing.T) {
	const capacity = 2097152
	l, err := Init(capacity, 512, 128, DefaultUUIDSource)
	require.NoError(t, err)

	rootGUID, _ := guidForTag(TagRoot)
	l.Parts[0] = Partition{TypeGUID: rootGUID, Tag: TagRoot, StartLBA: l.FirstUsableLBA, SizeLBA: 1000}

	_, err = Reshape(l, capacity*2)
	assert.ErrorIs(t, err, ErrInvalid)
}
