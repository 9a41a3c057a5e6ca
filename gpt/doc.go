// Package gpt reads, validates, mutates, and writes GUID Partition Table
// (GPT) labels on block devices using the UEFI on-disk partition layout.
//
// The package does not perform device I/O itself; device I/O, UUID
// generation, CRC-32 computation and hardware fixups are represented as
// small capability interfaces (BlockDevice, UUIDSource, CRCSource,
// HwFixupSource) that the caller supplies. Default UUIDSource and
// CRCSource implementations are provided (DefaultUUIDSource, backed by
// github.com/google/uuid, and DefaultCRCSource, backed by hash/crc32). See
// device.go for the capability surface.
package gpt
