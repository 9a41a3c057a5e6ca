package gpt

// MediaInfo is the result of BlockDevice.MediaInfo.
type MediaInfo struct {
	CapacityLBA uint64
	LBASize     uint32
}

// PartitionInfo is the result of BlockDevice.PartitionInfo: identifying
// information for the device node the caller opened.
type PartitionInfo struct {
	ControllerName  string
	DriveName       string
	PartitionIndex  int
}

// BlockDevice is the I/O primitive the package consumes to read and
// write numbered sectors at arbitrary byte offsets. Implementations are
// expected to come from the caller (a real disk, a loopback file, an
// in-memory fake for tests); this package never opens a device node
// itself. See package device for a real implementation.
type BlockDevice interface {
	// MediaInfo reports capacity and logical block size. Returning
	// ErrNotSupported is permitted; the reader then assumes 512-byte
	// logical blocks.
	MediaInfo() (MediaInfo, error)
	// PartitionInfo reports identifying information for the opened
	// device node (used only to decorate Reader's return value).
	PartitionInfo() (PartitionInfo, error)
	// MBR returns the raw bytes of sector 0.
	MBR() ([]byte, error)
	// ReadEFI reads length bytes starting at the given LBA. length need
	// not be a multiple of the logical block size, though this package
	// always asks for multiples.
	ReadEFI(lba uint64, length int) ([]byte, error)
	// WriteEFI writes data starting at the given LBA.
	WriteEFI(lba uint64, data []byte) error
	// IsParavirtual reports whether the device self-identifies as the
	// LDoms/paravirtual disk class that requires the single-ioctl
	// combined-range read workaround. Most real devices return false.
	IsParavirtual() bool
}

// ErrNotSupported is the sentinel a BlockDevice.MediaInfo implementation
// may return when it cannot determine geometry.
var ErrNotSupported = wrapf(ErrOther, "gpt: media info not supported")

// UUIDSource generates fresh random UUIDs for disk and partition unique
// identifiers. See package gpt's DefaultUUIDSource (backed by
// github.com/google/uuid) for the default implementation.
type UUIDSource interface {
	Generate() (GUID, error)
}

// HwFixupSource supplies the hardware-identification overrides consulted
// by the protective-MBR writer: which partition-table slot and active
// flag to use. A nil HwFixupSource is treated as "no overrides" (slot 0,
// inactive).
type HwFixupSource interface {
	// PMBRSlotActive returns the slot (0-3) and active flag (true/false)
	// to use for the protective MBR entry, after evaluating the rules
	// file against the current system/baseboard identification.
	PMBRSlotActive() (slot int, active bool)
}
