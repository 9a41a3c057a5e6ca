//go:build !linux

package device

import "github.com/earentir/gptlabel/gpt"

func openPlatform(d *File) {}

// MediaInfo has no portable implementation outside Linux in this
// package; callers on other platforms should set File.sectorSize (via
// a platform-specific constructor of their own) or rely on the
// reader/writer's 512-byte default.
func (d *File) MediaInfo() (gpt.MediaInfo, error) {
	return gpt.MediaInfo{}, gpt.ErrNotSupported
}

// PartitionInfo has no portable implementation outside Linux in this
// package.
func (d *File) PartitionInfo() (gpt.PartitionInfo, error) {
	return gpt.PartitionInfo{}, gpt.ErrNotSupported
}
