package gpt

// AutoSenseLayout names the role a slot in an AutoSense label plays.
type AutoSenseLayout int

const (
	// AutoSenseRootSwapUsr lays out root, swap, usr and a trailing
	// reserved partition: swap and reserved get their requested sizes
	// (swapLBA, reservedLBA), and root and usr split the remaining usable
	// space evenly (matching the historical default root/swap/usr/reserved scheme).
	AutoSenseRootSwapUsr AutoSenseLayout = iota
)

// AutoSense builds a default DiskLabel the way an installer choosing
// sensible defaults for an entire disk might: a root partition, a swap
// partition of swapLBA blocks, a usr partition taking the remainder,
// and a small trailing reserved partition. It is a convenience layered
// on top of Init; callers who want full control should call Init and
// populate l.Parts themselves.
func AutoSense(capacity uint64, lbaSize uint32, swapLBA, reservedLBA uint64, uuidSrc UUIDSource) (*DiskLabel, error) {
	const nParts = 9

	l, err := Init(capacity, lbaSize, nParts, uuidSrc)
	if err != nil {
		return nil, err
	}

	usableStart := l.FirstUsableLBA
	usableEnd := l.LastUsableLBA

	if reservedLBA == 0 {
		reservedLBA = 8192
	}
	if swapLBA+reservedLBA >= usableEnd-usableStart {
		return nil, wrapf(ErrInvalid, "gpt: autosense: swap+reserved leaves no room for root/usr")
	}

	reservedStart := usableEnd - reservedLBA + 1
	swapStart := reservedStart - swapLBA
	remaining := swapStart - usableStart
	rootLBA := remaining / 2
	usrLBA := remaining - rootLBA

	rootStart := usableStart
	usrStart := rootStart + rootLBA

	setPart := func(idx int, tag Tag, start, size uint64, name string) error {
		id, err := uuidSrc.Generate()
		if err != nil {
			return wrapf(ErrOther, "gpt: autosense: generate guid: %v", err)
		}
		var nameBytes [nameFieldLen]byte
		copy(nameBytes[:], name)
		l.Parts[idx] = Partition{
			Tag:        tag,
			UniqueGUID: id,
			StartLBA:   start,
			SizeLBA:    size,
			Name:       nameBytes,
		}
		typeGUID, ok := guidForTag(tag)
		if !ok {
			return wrapf(ErrInvalid, "gpt: autosense: tag 0x%x has no type guid", tag)
		}
		l.Parts[idx].TypeGUID = typeGUID
		return nil
	}

	if err := setPart(0, TagRoot, rootStart, rootLBA, "root"); err != nil {
		return nil, err
	}
	if err := setPart(1, TagSwap, swapStart, swapLBA, "swap"); err != nil {
		return nil, err
	}
	if err := setPart(2, TagUsr, usrStart, usrLBA, "usr"); err != nil {
		return nil, err
	}
	// reserved must sit in the literal last slot, not merely the slot
	// with the highest ending LBA, so a label produced here remains
	// eligible for Reshape.
	if err := setPart(nParts-1, TagReserved, reservedStart, reservedLBA, "reserved"); err != nil {
		return nil, err
	}

	return l, Validate(l)
}
