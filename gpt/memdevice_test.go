package gpt

import "fmt"

// memDevice is an in-memory BlockDevice fake backed by a flat byte
// buffer, used by this package's own tests. It never expands: callers
// size the buffer at construction to the full simulated disk capacity.
type memDevice struct {
	buf            []byte
	lbaSize        uint32
	paravirtual    bool
	partitionIndex int
	mediaInfoErr   error
}

func newMemDevice(capacityLBA uint64, lbaSize uint32) *memDevice {
	return &memDevice{
		buf:     make([]byte, capacityLBA*uint64(lbaSize)),
		lbaSize: lbaSize,
	}
}

func (m *memDevice) MediaInfo() (MediaInfo, error) {
	if m.mediaInfoErr != nil {
		return MediaInfo{}, m.mediaInfoErr
	}
	return MediaInfo{
		CapacityLBA: uint64(len(m.buf)) / uint64(m.lbaSize),
		LBASize:     m.lbaSize,
	}, nil
}

func (m *memDevice) PartitionInfo() (PartitionInfo, error) {
	return PartitionInfo{PartitionIndex: m.partitionIndex}, nil
}

func (m *memDevice) MBR() ([]byte, error) {
	if len(m.buf) < 512 {
		return nil, fmt.Errorf("memdevice: too small for mbr")
	}
	out := make([]byte, 512)
	copy(out, m.buf[:512])
	return out, nil
}

func (m *memDevice) ReadEFI(lba uint64, length int) ([]byte, error) {
	off := lba * uint64(m.lbaSize)
	if off+uint64(length) > uint64(len(m.buf)) {
		return nil, fmt.Errorf("memdevice: read out of range at lba %d length %d", lba, length)
	}
	out := make([]byte, length)
	copy(out, m.buf[off:off+uint64(length)])
	return out, nil
}

func (m *memDevice) WriteEFI(lba uint64, data []byte) error {
	off := lba * uint64(m.lbaSize)
	if off+uint64(len(data)) > uint64(len(m.buf)) {
		return fmt.Errorf("memdevice: write out of range at lba %d length %d", lba, len(data))
	}
	copy(m.buf[off:], data)
	return nil
}

func (m *memDevice) IsParavirtual() bool {
	return m.paravirtual
}

// corruptPrimary zeroes the primary header's signature field, forcing
// any subsequent Read to fail CRC/signature validation and fall back
// to a backup label.
func (m *memDevice) corruptPrimary() {
	off := uint64(m.lbaSize)
	for i := 0; i < 8; i++ {
		m.buf[off+uint64(i)] = 0
	}
}

// corruptPrimaryAndMoveBackupToLegacy corrupts the primary header (as
// corruptPrimary does), relocates a copy of the already-written backup
// header+array from the modern position (l.AlternateLBA, normally
// capacity-1) to the legacy position (capacity-2), and disables the
// modern backup header's signature. After this, Read can only recover
// the label via the legacy-backup path.
func (m *memDevice) corruptPrimaryAndMoveBackupToLegacy(l *DiskLabel) {
	m.corruptPrimary()

	lbaSize := l.LBASize
	if lbaSize == 0 {
		lbaSize = 512
	}
	total := labelBlocks(l.NParts, lbaSize)
	arrayBlocks := total - 1
	arrayBytes := int(arrayBlocks) * int(lbaSize)

	capacity := uint64(len(m.buf)) / uint64(lbaSize)
	modernHeaderLBA := l.AlternateLBA
	modernArrayLBA := modernHeaderLBA - arrayBlocks
	legacyHeaderLBA := capacity - 2
	legacyArrayLBA := legacyHeaderLBA - arrayBlocks

	array := make([]byte, arrayBytes)
	modernArrayOff := modernArrayLBA * uint64(lbaSize)
	copy(array, m.buf[modernArrayOff:modernArrayOff+uint64(arrayBytes)])
	entriesCRC := DefaultCRCSource.CRC32(array)

	legacyHeader := make([]byte, lbaSize)
	encodeHeader(legacyHeader, l, legacyHeaderLBA, 1, legacyArrayLBA, entriesCRC, DefaultCRCSource)

	legacyArrayOff := legacyArrayLBA * uint64(lbaSize)
	copy(m.buf[legacyArrayOff:legacyArrayOff+uint64(arrayBytes)], array)
	legacyHeaderOff := legacyHeaderLBA * uint64(lbaSize)
	copy(m.buf[legacyHeaderOff:legacyHeaderOff+uint64(lbaSize)], legacyHeader)

	modernHeaderOff := modernHeaderLBA * uint64(lbaSize)
	for i := 0; i < 8; i++ {
		m.buf[modernHeaderOff+uint64(i)] = 0
	}
}

var _ BlockDevice = (*memDevice)(nil)
