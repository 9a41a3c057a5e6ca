// Package device provides real gpt.BlockDevice implementations backed
// by an operating system's block device node.
package device

import (
	"fmt"
	"os"

	"github.com/earentir/gptlabel/gpt"
)

// File is a gpt.BlockDevice backed by an already-open disk device node.
// Use Open to construct one; it accepts a device node or a regular file
// holding a disk image.
type File struct {
	f           *os.File
	path        string
	paravirtual bool
	sectorSize  int
}

// Open opens path (a device node such as /dev/sda or a regular file
// containing a disk image) for reading and writing a GPT label.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("device: open %s: %w", path, err)
	}
	d := &File{f: f, path: path}
	openPlatform(d)
	return d, nil
}

// Close closes the underlying device node.
func (d *File) Close() error {
	return d.f.Close()
}

// MBR implements gpt.BlockDevice.
func (d *File) MBR() ([]byte, error) {
	buf := make([]byte, 512)
	if _, err := d.f.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("device: read mbr: %w", err)
	}
	return buf, nil
}

// ReadEFI implements gpt.BlockDevice.
func (d *File) ReadEFI(lba uint64, length int) ([]byte, error) {
	sz := d.effectiveSectorSize()
	buf := make([]byte, length)
	if _, err := d.f.ReadAt(buf, int64(lba)*int64(sz)); err != nil {
		return nil, fmt.Errorf("device: read at lba %d: %w", lba, err)
	}
	return buf, nil
}

// WriteEFI implements gpt.BlockDevice.
func (d *File) WriteEFI(lba uint64, data []byte) error {
	sz := d.effectiveSectorSize()
	if _, err := d.f.WriteAt(data, int64(lba)*int64(sz)); err != nil {
		return fmt.Errorf("device: write at lba %d: %w", lba, err)
	}
	return nil
}

// IsParavirtual implements gpt.BlockDevice. Overridden per-platform by
// detectParavirtual in device_linux.go; elsewhere it always reports false.
func (d *File) IsParavirtual() bool {
	return d.paravirtual
}

func (d *File) effectiveSectorSize() int {
	if d.sectorSize > 0 {
		return d.sectorSize
	}
	return 512
}

var _ gpt.BlockDevice = (*File)(nil)
