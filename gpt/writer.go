package gpt

// Write validates l, then persists it to dev: the primary header and
// entry array at LBA 1/2, the backup entry array and header at the end
// of the disk, and a protective MBR at LBA 0. Backup-side failures are
// logged and absorbed rather than propagated, tolerating a damaged
// alternate area; a failure to write the primary label is always fatal.
func Write(dev BlockDevice, l *DiskLabel, uuidSrc UUIDSource, hwFixup HwFixupSource, crc CRCSource) error {
	if crc == nil {
		crc = DefaultCRCSource
	}
	if uuidSrc == nil {
		uuidSrc = DefaultUUIDSource
	}

	if err := Validate(l); err != nil {
		return err
	}

	lbaSize := l.LBASize
	if lbaSize == 0 {
		lbaSize = 512
	}

	total := labelBlocks(l.NParts, lbaSize)
	arrayBlocks := total - 1
	arrayBytes := int(arrayBlocks) * int(lbaSize)
	entriesBuf := make([]byte, int(l.NParts)*entrySize)

	entriesCRC, err := encodeEntries(entriesBuf, l, uuidSrc, crc)
	if err != nil {
		return err
	}

	primary := make([]byte, int(total)*int(lbaSize))
	encodeHeader(primary[:lbaSize], l, 1, l.AlternateLBA, 2, entriesCRC, crc)
	copy(primary[lbaSize:], entriesBuf)
	padArray(primary[int(lbaSize)+len(entriesBuf):], arrayBytes-len(entriesBuf))

	if err := dev.WriteEFI(1, primary); err != nil {
		return wrapf(ErrIO, "gpt: write primary label: %v", err)
	}

	backupArrayLBA := l.AlternateLBA - arrayBlocks
	backupArray := make([]byte, arrayBytes)
	copy(backupArray, entriesBuf)
	if err := dev.WriteEFI(backupArrayLBA, backupArray); err != nil {
		logf("write backup entry array failed (non-fatal): %v", err)
	} else {
		backupHeader := make([]byte, lbaSize)
		encodeHeader(backupHeader, l, l.AlternateLBA, 1, backupArrayLBA, entriesCRC, crc)
		if err := dev.WriteEFI(l.AlternateLBA, backupHeader); err != nil {
			logf("write backup header failed (non-fatal): %v", err)
		}
	}

	if err := WritePMBR(dev, l, hwFixup); err != nil {
		logf("write protective mbr failed (non-fatal): %v", err)
	}

	return nil
}

// padArray zero-fills the tail of a partition-entry array buffer beyond
// the entries actually serialised (the array is always at least 16 KiB
// even when NParts*entrySize is smaller).
func padArray(dst []byte, n int) {
	if n <= 0 {
		return
	}
	for i := 0; i < n && i < len(dst); i++ {
		dst[i] = 0
	}
}
