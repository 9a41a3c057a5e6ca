package gpt

// Reshape grows the last non-reserved partition on l to absorb any
// additional capacity the device now reports beyond what l was
// originally sized for, keeping a trailing RESERVED partition (if any)
// at the very end of the disk. It requires at least two partitions,
// and that at most one partition carries TagReserved and, if present,
// that it occupies the literal last slot (l.Parts[len(l.Parts)-1]) —
// not merely the partition with the highest ending LBA.
//
// Reshape is idempotent: if capacity has not grown since l was last
// written, it leaves l unmodified and returns (false, nil).
func Reshape(l *DiskLabel, newCapacity uint64) (bool, error) {
	nonEmpty := 0
	for i := range l.Parts {
		if !l.Parts[i].empty() {
			nonEmpty++
		}
	}
	if nonEmpty < 2 {
		return false, wrapf(ErrInvalid, "gpt: reshape requires at least 2 partitions, have %d", nonEmpty)
	}

	lastSlot := len(l.Parts) - 1
	reservedCount := 0
	reservedSlot := -1
	for i := range l.Parts {
		if l.Parts[i].Tag == TagReserved {
			reservedCount++
			reservedSlot = i
		}
	}
	if reservedCount > 1 {
		return false, wrapf(ErrInvalid, "gpt: reshape: multiple reserved partitions")
	}
	if reservedCount == 1 && reservedSlot != lastSlot {
		return false, wrapf(ErrInvalid, "gpt: reshape: reserved partition must occupy the last slot (%d), found at slot %d", lastSlot, reservedSlot)
	}

	reservedIdx := -1
	if reservedCount == 1 {
		reservedIdx = lastSlot
	}

	lastEnd := uint64(0)
	lastIdx := -1
	for i := range l.Parts {
		p := &l.Parts[i]
		if p.empty() || i == reservedIdx {
			continue
		}
		if p.endLBA() > lastEnd || lastIdx == -1 {
			lastEnd = p.endLBA()
			lastIdx = i
		}
	}
	if lastIdx == -1 {
		return false, wrapf(ErrInvalid, "gpt: reshape: no non-reserved partition to grow")
	}

	lbaSize := l.LBASize
	if lbaSize == 0 {
		lbaSize = 512
	}
	total := labelBlocks(l.NParts, lbaSize)
	newAlternateLBA := newCapacity - 1
	newLastUsable := newCapacity - 1 - total

	if newAlternateLBA == l.AlternateLBA && newLastUsable == l.LastUsableLBA {
		return false, nil
	}
	if newLastUsable < l.LastUsableLBA {
		return false, wrapf(ErrInvalid, "gpt: reshape: new capacity %d is smaller than current", newCapacity)
	}

	growIdx := lastIdx
	var newReservedStart uint64
	if reservedIdx != -1 {
		reservedSize := l.Parts[reservedIdx].SizeLBA
		newReservedStart = newLastUsable - reservedSize + 1
	}

	grow := &l.Parts[growIdx]
	oldEnd := grow.endLBA()
	var newEnd uint64
	if reservedIdx != -1 {
		newEnd = newReservedStart - 1
	} else {
		newEnd = newLastUsable
	}
	if newEnd < oldEnd {
		return false, wrapf(ErrInvalid, "gpt: reshape: computed new end %d precedes current end %d", newEnd, oldEnd)
	}

	growth := newEnd - oldEnd
	grow.SizeLBA += growth

	if reservedIdx != -1 {
		l.Parts[reservedIdx].StartLBA = newReservedStart
	}

	l.AlternateLBA = newAlternateLBA
	l.LastUsableLBA = newLastUsable
	l.LastLBA = newCapacity - 1

	if err := Validate(l); err != nil {
		return false, err
	}
	return true, nil
}
