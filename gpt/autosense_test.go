package gpt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoSenseProducesNonOverlappingLayout(t *testing.T) {
	const capacity = 2097152
	l, err := AutoSense(capacity, 512, 262144, 8192, DefaultUUIDSource)
	require.NoError(t, err)

	tags := map[Tag]bool{}
	for _, p := range l.Parts {
		if p.empty() {
			continue
		}
		tags[p.Tag] = true
	}
	assert.True(t, tags[TagRoot])
	assert.True(t, tags[TagSwap])
	assert.True(t, tags[TagUsr])
	assert.True(t, tags[TagReserved])

	require.NoError(t, Validate(l))
}

func TestAutoSenseReservedIsLast(t *testing.T) {
	const capacity = 2097152
	l, err := AutoSense(capacity, 512, 262144, 8192, DefaultUUIDSource)
	require.NoError(t, err)

	assert.Equal(t, TagReserved, l.Parts[len(l.Parts)-1].Tag)

	var reservedEnd uint64
	maxEnd := uint64(0)
	for _, p := range l.Parts {
		if p.empty() {
			continue
		}
		if p.Tag == TagReserved {
			reservedEnd = p.endLBA()
		}
		if p.endLBA() > maxEnd {
			maxEnd = p.endLBA()
		}
	}
	assert.Equal(t, maxEnd, reservedEnd)
}

func TestAutoSenseProducesReshapeableLabel(t *testing.T) {
	const oldCapacity = 2097152
	const newCapacity = 4194304

	l, err := AutoSense(oldCapacity, 512, 262144, 8192, DefaultUUIDSource)
	require.NoError(t, err)

	changed, err := Reshape(l, newCapacity)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NoError(t, Validate(l))
}

func TestAutoSenseRejectsOversizedReservation(t *testing.T) {
	const capacity = 20000
	_, err := AutoSense(capacity, 512, 262144, 8192, DefaultUUIDSource)
	assert.ErrorIs(t, err, ErrInvalid)
}
