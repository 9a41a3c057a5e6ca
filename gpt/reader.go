package gpt

const (
	provisionalEntries = 128
	pmbrTypeEFI         = 0xEE
)

// Read drives dev to locate and decode a valid GPT label, trying the
// primary header+array first, then the legacy backup location
// (capacity-2), then the modern backup location (capacity-1). It
// returns the assembled label and the partition index the device
// capability reports for the opened file descriptor (see
// BlockDevice.PartitionInfo).
func Read(dev BlockDevice, crc CRCSource) (*DiskLabel, int, error) {
	if crc == nil {
		crc = DefaultCRCSource
	}

	info, err := dev.MediaInfo()
	lbaSize := uint32(512)
	capacity := uint64(0)
	if err != nil {
		if err != ErrNotSupported {
			logf("media info failed, assuming 512-byte sectors: %v", err)
		}
	} else {
		lbaSize = info.LBASize
		capacity = info.CapacityLBA
		if lbaSize == 0 {
			lbaSize = 512
		}
	}

	if err := checkProtectiveMBR(dev); err != nil {
		return nil, 0, err
	}

	nParts := uint32(provisionalEntries)
	label, retryParts, rerr := attemptPrimary(dev, lbaSize, nParts, crc)
	if rerr != nil && retryParts > nParts {
		logf("on-disk entry count %d exceeds allocated %d, retrying", retryParts, nParts)
		label, _, rerr = attemptPrimary(dev, lbaSize, retryParts, crc)
	}

	if rerr != nil && dev.IsParavirtual() {
		logf("paravirtual quirk retry: combined single-range read")
		label, _, rerr = attemptPrimary(dev, lbaSize, provisionalEntries, crc)
	}

	if rerr == nil {
		label.LastLBA = lastLBAFromCapacity(capacity, label.AlternateLBA)
		pinfo, perr := dev.PartitionInfo()
		if perr != nil {
			return label, 0, nil
		}
		return label, pinfo.PartitionIndex, nil
	}

	logf("primary label invalid (%v), trying legacy backup at capacity-2", rerr)
	label, berr := attemptBackup(dev, lbaSize, capacity-2, capacity, crc)
	if berr != nil {
		logf("legacy backup invalid (%v), trying backup at capacity-1", berr)
		label, berr = attemptBackup(dev, lbaSize, capacity-1, capacity, crc)
	}
	if berr != nil {
		return nil, 0, wrapf(ErrInvalid, "gpt: primary and both backup labels invalid: %v", berr)
	}

	label.Flags |= FlagPrimaryCorrupt
	label.LastLBA = lastLBAFromCapacity(capacity, label.AlternateLBA)
	pinfo, perr := dev.PartitionInfo()
	if perr != nil {
		return label, 0, nil
	}
	return label, pinfo.PartitionIndex, nil
}

// lastLBAFromCapacity reports the disk's last LBA. When the device
// capability can't report capacity (ErrNotSupported), the decoded
// header's AlternateLBA is the best available estimate: the primary
// header's alternate_lba points at the backup header, normally the
// very last LBA on disk.
func lastLBAFromCapacity(capacity, alternateLBA uint64) uint64 {
	if capacity == 0 {
		return alternateLBA
	}
	return capacity - 1
}

// checkProtectiveMBR gates accidental writes to disks with an unrelated
// MBR: sector 0 must carry the 0xAA55 signature and at least one of the
// four primary entries must be type 0xEE (EFI protective).
func checkProtectiveMBR(dev BlockDevice) error {
	mbr, err := dev.MBR()
	if err != nil {
		return wrapf(ErrIO, "gpt: read mbr: %v", err)
	}
	if len(mbr) < 512 {
		return wrapf(ErrInvalid, "gpt: mbr sector too short")
	}
	if mbr[510] != 0x55 || mbr[511] != 0xAA {
		return wrapf(ErrInvalid, "gpt: bad mbr signature")
	}
	for i := 0; i < 4; i++ {
		off := 446 + i*16
		if mbr[off+4] == pmbrTypeEFI {
			return nil
		}
	}
	return wrapf(ErrInvalid, "gpt: no protective mbr entry found")
}

// attemptPrimary reads and decodes the primary header+array at LBA 1
// for a buffer sized to hold nParts entries. If the on-disk entry count
// exceeds nParts, the returned retryParts carries that on-disk count so
// the caller can retry with a bigger buffer.
func attemptPrimary(dev BlockDevice, lbaSize uint32, nParts uint32, crc CRCSource) (*DiskLabel, uint32, error) {
	total := labelBlocks(nParts, lbaSize)
	buf, err := dev.ReadEFI(1, int(total)*int(lbaSize))
	if err != nil {
		return nil, 0, wrapf(ErrOther, "gpt: read primary label: %v", err)
	}
	if len(buf) < int(lbaSize) {
		return nil, 0, wrapf(ErrInvalid, "gpt: short primary read")
	}

	hdr, err := decodeHeader(buf[:lbaSize], lbaSize, crc)
	if err != nil {
		return nil, 0, err
	}
	if hdr.numberOfEntries > nParts {
		return nil, hdr.numberOfEntries, wrapf(ErrInvalid, "gpt: on-disk entry count %d exceeds buffer %d", hdr.numberOfEntries, nParts)
	}

	arrayOff := int(lbaSize) // PartitionEntryLBA is always 2 for the primary, i.e. one block after the header block read here
	if int(hdr.partitionEntryLBA) != 2 {
		logf("unexpected primary PartitionEntryLBA %d", hdr.partitionEntryLBA)
	}
	if arrayOff+int(hdr.numberOfEntries)*entrySize > len(buf) {
		return nil, 0, wrapf(ErrInvalid, "gpt: entry array exceeds read buffer")
	}

	parts, err := decodeEntries(buf[arrayOff:], hdr.numberOfEntries, hdr.entriesCRC, crc)
	if err != nil {
		return nil, 0, err
	}

	label := &DiskLabel{
		Version:        hdr.revision,
		LBASize:        lbaSize,
		NParts:         hdr.numberOfEntries,
		FirstUsableLBA: hdr.firstUsableLBA,
		LastUsableLBA:  hdr.lastUsableLBA,
		AlternateLBA:   hdr.alternateLBA,
		DiskGUID:       hdr.diskGUID,
		Parts:          parts,
	}
	return label, 0, nil
}

// attemptBackup reads and validates a backup GPT header at headerLBA
// (either capacity-2, the legacy location, or capacity-1, the modern
// one), then reads the partition entry array sitting between the
// header's PartitionEntryLBA and the header itself.
func attemptBackup(dev BlockDevice, lbaSize uint32, headerLBA uint64, capacity uint64, crc CRCSource) (*DiskLabel, error) {
	block, err := dev.ReadEFI(headerLBA, int(lbaSize))
	if err != nil {
		return nil, wrapf(ErrOther, "gpt: read backup header at %d: %v", headerLBA, err)
	}
	hdr, err := decodeHeader(block, lbaSize, crc)
	if err != nil {
		return nil, err
	}

	arrayLBA := hdr.partitionEntryLBA
	if headerLBA <= arrayLBA {
		return nil, wrapf(ErrInvalid, "gpt: backup header precedes its own entry array")
	}
	arrayBlocks := headerLBA - arrayLBA
	arrayBytes := int(arrayBlocks) * int(lbaSize)
	needed := int(hdr.numberOfEntries) * entrySize
	if needed > arrayBytes {
		return nil, wrapf(ErrInvalid, "gpt: backup entry array shorter than declared entry count")
	}

	entries, err := dev.ReadEFI(arrayLBA, arrayBytes)
	if err != nil {
		return nil, wrapf(ErrOther, "gpt: read backup entry array: %v", err)
	}

	parts, err := decodeEntries(entries, hdr.numberOfEntries, hdr.entriesCRC, crc)
	if err != nil {
		return nil, err
	}

	label := &DiskLabel{
		Version:        hdr.revision,
		LBASize:        lbaSize,
		NParts:         hdr.numberOfEntries,
		FirstUsableLBA: hdr.firstUsableLBA,
		LastUsableLBA:  hdr.lastUsableLBA,
		AlternateLBA:   hdr.alternateLBA,
		DiskGUID:       hdr.diskGUID,
		Parts:          parts,
	}
	return label, nil
}
