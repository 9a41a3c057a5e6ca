package gpt

import "encoding/binary"

// pmbrEntrySize is the size of one MBR partition-table entry.
const pmbrEntrySize = 16

// pmbrTableOffset is the byte offset of the first of the four MBR
// partition-table entries.
const pmbrTableOffset = 446

// WritePMBR writes a protective MBR for l to dev's sector 0. If dev
// already carries a valid MBR (0xAA55 signature), its boot code is
// preserved; otherwise the sector is zero-initialised. hwFixup, if
// non-nil, selects which of the four table slots carries the EFI
// protective entry and whether it is marked active; a nil hwFixup
// writes slot 0, inactive, matching the common case.
func WritePMBR(dev BlockDevice, l *DiskLabel, hwFixup HwFixupSource) error {
	sector := make([]byte, 512)

	if existing, err := dev.MBR(); err == nil && len(existing) >= 512 &&
		existing[510] == 0x55 && existing[511] == 0xAA {
		copy(sector, existing[:pmbrTableOffset])
	}

	for i := 0; i < 4; i++ {
		off := pmbrTableOffset + i*pmbrEntrySize
		for j := 0; j < pmbrEntrySize; j++ {
			sector[off+j] = 0
		}
	}

	slot, active := 0, false
	if hwFixup != nil {
		s, a := hwFixup.PMBRSlotActive()
		if s >= 0 && s < 4 {
			slot = s
			active = a
		} else {
			logf("hw fixup returned out-of-range slot %d, using slot 0", s)
		}
	}

	sizeLBA := l.LastLBA
	if sizeLBA > 0xFFFFFFFF {
		sizeLBA = 0xFFFFFFFF
	}

	entry := sector[pmbrTableOffset+slot*pmbrEntrySize : pmbrTableOffset+slot*pmbrEntrySize+pmbrEntrySize]
	if active {
		entry[0] = 0x80
	} else {
		entry[0] = 0x00
	}
	entry[1], entry[2], entry[3] = 0x00, 0x02, 0x00
	entry[4] = pmbrTypeEFI
	entry[5], entry[6], entry[7] = 0xFF, 0xFF, 0xFF
	binary.LittleEndian.PutUint32(entry[8:12], 1)
	binary.LittleEndian.PutUint32(entry[12:16], uint32(sizeLBA))

	sector[510] = 0x55
	sector[511] = 0xAA

	if err := dev.WriteEFI(0, sector); err != nil {
		return wrapf(ErrIO, "gpt: write pmbr: %v", err)
	}
	return nil
}
