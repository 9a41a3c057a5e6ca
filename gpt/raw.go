package gpt

// ReadRaw reads back the raw bytes of the on-disk header+array exactly
// as Write would have serialised them for l: one header block plus the
// partition-entry array, starting at LBA 1. It exists for callers that
// want to archive a label's bytes verbatim (see package backup) rather
// than just its decoded form.
func ReadRaw(dev BlockDevice, l *DiskLabel) ([]byte, error) {
	lbaSize := l.LBASize
	if lbaSize == 0 {
		lbaSize = 512
	}
	total := labelBlocks(l.NParts, lbaSize)
	buf, err := dev.ReadEFI(1, int(total)*int(lbaSize))
	if err != nil {
		return nil, wrapf(ErrIO, "gpt: read raw label: %v", err)
	}
	return buf, nil
}

// WriteRaw writes raw (as produced by ReadRaw, or restored from a
// package backup archive) back to dev at LBA 1, without touching the
// backup area or protective MBR. Callers that want a fully consistent
// restore should follow this with WritePMBR and a manual backup-area
// rewrite, or simply call Write with the corresponding decoded label.
func WriteRaw(dev BlockDevice, raw []byte) error {
	if err := dev.WriteEFI(1, raw); err != nil {
		return wrapf(ErrIO, "gpt: write raw label: %v", err)
	}
	return nil
}
