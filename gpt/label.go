package gpt

// Flags recognised in DiskLabel.Flags.
const (
	// FlagPrimaryCorrupt is set by the reader when it had to fall back
	// to a backup label because the primary failed validation.
	FlagPrimaryCorrupt uint32 = 1 << 0
)

// Partition is one entry in a DiskLabel's partition array.
type Partition struct {
	TypeGUID   GUID
	UniqueGUID GUID
	Tag        Tag
	Attrs      uint16
	StartLBA   uint64
	SizeLBA    uint64
	Name       [nameFieldLen]byte
}

// empty reports whether the slot carries no partition: UNASSIGNED with
// a zero size, the common case.
func (p *Partition) empty() bool {
	return p.Tag == TagUnassigned && p.SizeLBA == 0
}

// endLBA returns the inclusive ending LBA of a non-empty partition.
func (p *Partition) endLBA() uint64 {
	return p.StartLBA + p.SizeLBA - 1
}

// DiskLabel is the in-memory representation of a disk's GPT partition
// scheme. It is created by Init or Read, mutated freely by the caller,
// and persisted by Write. A DiskLabel is not safe for concurrent
// mutation; all operations on one label must be externally serialised.
type DiskLabel struct {
	Version         uint32
	LBASize         uint32
	NParts          uint32
	FirstUsableLBA  uint64
	LastUsableLBA   uint64
	AlternateLBA    uint64
	LastLBA         uint64
	DiskGUID        GUID
	Flags           uint32
	Parts           []Partition
}

// Revision is the GPT revision this package emits and expects (1.0).
const Revision uint32 = 0x00010000

// entrySize is the on-disk size of one partition-entry array slot.
const entrySize = 128

// headerSize is the number of defined bytes in the GPT header block
// (the rest of the block is reserved and must be zero).
const headerSize = 92

// minArraySize is the minimum partition-entry array allocation (16 KiB),
// regardless of how few entries NParts requests.
const minArraySize = 16384

// signatureString is "EFI PART" as stored little-endian on disk.
const signatureString = "EFI PART"

// ceilDiv computes ceil(a/b) for positive integers.
func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// labelBlocks returns the total number of blocks (one header block plus
// the partition-entry array) a label with nParts entries occupies at
// lbaSize, with the 16 KiB array-size floor applied. arrayBlocks is
// labelBlocks-1.
func labelBlocks(nParts uint32, lbaSize uint32) uint64 {
	arrayBytes := uint64(nParts) * entrySize
	arrayBlocks := ceilDiv(arrayBytes, uint64(lbaSize))
	total := 1 + arrayBlocks
	minTotal := minArraySize/uint64(lbaSize) + 1
	if total < minTotal {
		total = minTotal
	}
	return total
}

// Init creates a freshly-initialised DiskLabel with nParts slots, all
// UNASSIGNED, sized for a device of the given capacity (in LBAs) and
// logical block size. The disk GUID is generated via uuidSrc.
func Init(capacity uint64, lbaSize uint32, nParts uint32, uuidSrc UUIDSource) (*DiskLabel, error) {
	if nParts == 0 {
		return nil, wrapf(ErrInvalid, "gpt: init: nParts must be > 0")
	}
	if lbaSize == 0 {
		lbaSize = 512
	}

	total := labelBlocks(nParts, lbaSize)

	l := &DiskLabel{
		Version:        Revision,
		LBASize:        lbaSize,
		NParts:         nParts,
		FirstUsableLBA: total + 1,
		LastLBA:        capacity - 1,
		AlternateLBA:   capacity - 1,
		LastUsableLBA:  capacity - 1 - total,
		Parts:          make([]Partition, nParts),
	}

	id, err := uuidSrc.Generate()
	if err != nil {
		return nil, wrapf(ErrOther, "gpt: init: generate disk guid: %v", err)
	}
	l.DiskGUID = id

	return l, nil
}
