package gpt

import "sort"

// Validate checks l against the label-coherence invariants a writer
// must never persist a violation of:
//
//  1. no two non-empty partitions overlap in LBA range
//  2. every non-empty partition fits within [FirstUsableLBA, LastUsableLBA]
//  3. at most one partition carries TagReserved
//  5. a slot tagged UNASSIGNED always has size 0; a nonzero size with
//     tag UNASSIGNED is rejected outright, independent of bounds/overlap
//  6. a non-empty slot with a non-null type GUID that does not map to a
//     known tag is reported as TagUnknown rather than silently accepted
//     as UNASSIGNED
//
// Validate also repairs case 6 in place: any Parts[i] whose TypeGUID is
// non-null but whose Tag field was left at TagUnassigned has its Tag
// re-derived from TypeGUID via the tag table (the matching tag for a known
// GUID, TagUnknown otherwise) before the range checks run, so a caller who only sets
// TypeGUID (rather than going through a Tag-aware helper) still gets a
// coherent label.
func Validate(l *DiskLabel) error {
	reserved := 0

	type span struct {
		idx        int
		start, end uint64
	}
	var spans []span

	for i := range l.Parts {
		p := &l.Parts[i]
		if !p.TypeGUID.IsNull() && p.Tag == TagUnassigned {
			p.Tag = tagForGUID(p.TypeGUID)
		}
		if p.Tag == TagUnassigned && p.SizeLBA != 0 {
			return wrapf(ErrInvalid, "gpt: partition %d tagged unassigned but has nonzero size %d", i, p.SizeLBA)
		}
		if p.empty() {
			continue
		}

		if p.Tag == TagReserved {
			reserved++
		}

		if p.StartLBA < l.FirstUsableLBA || p.endLBA() > l.LastUsableLBA {
			return wrapf(ErrInvalid, "gpt: partition %d [%d,%d] outside usable range [%d,%d]",
				i, p.StartLBA, p.endLBA(), l.FirstUsableLBA, l.LastUsableLBA)
		}
		if p.endLBA() < p.StartLBA {
			return wrapf(ErrInvalid, "gpt: partition %d has zero or negative size", i)
		}

		spans = append(spans, span{idx: i, start: p.StartLBA, end: p.endLBA()})
	}

	if reserved > 1 {
		return wrapf(ErrInvalid, "gpt: %d partitions carry the reserved tag, at most one allowed", reserved)
	}

	sort.Slice(spans, func(a, b int) bool { return spans[a].start < spans[b].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start <= spans[i-1].end {
			return wrapf(ErrInvalid, "gpt: partitions %d and %d overlap", spans[i-1].idx, spans[i].idx)
		}
	}

	return nil
}
