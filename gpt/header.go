package gpt

import (
	"encoding/binary"
)

// rawHeader is the decoded GPT header block, before it has been merged
// with the caller's context (LastLBA comes from device capacity, not
// the header) into a DiskLabel.
type rawHeader struct {
	revision          uint32
	headerSize        uint32
	myLBA             uint64
	alternateLBA      uint64
	firstUsableLBA    uint64
	lastUsableLBA     uint64
	diskGUID          GUID
	partitionEntryLBA uint64
	numberOfEntries   uint32
	sizeOfEntry       uint32
	entriesCRC        uint32
}

// decodeHeader validates and decodes one GPT header block (exactly one
// logical block). It implements C5 checks 1-3: signature, header size,
// and header CRC. It does not check NumberOfEntries against a caller
// capacity (the caller does that, since only the caller knows its
// buffer's capacity) nor the entry-array CRC (decodeEntries does that
// once the array bytes are available).
func decodeHeader(block []byte, lbaSize uint32, crc CRCSource) (rawHeader, error) {
	var h rawHeader

	if len(block) < headerSize {
		return h, wrapf(ErrInvalid, "gpt: header block shorter than header")
	}

	sig := binary.LittleEndian.Uint64(block[0:8])
	const wantSig = 0x5452415020494645 // "EFI PART" little-endian
	if sig != wantSig {
		return h, wrapf(ErrInvalid, "gpt: bad signature 0x%x", sig)
	}

	h.revision = binary.LittleEndian.Uint32(block[8:12])
	h.headerSize = binary.LittleEndian.Uint32(block[12:16])
	if h.headerSize > lbaSize {
		return h, wrapf(ErrInvalid, "gpt: header size %d exceeds one block", h.headerSize)
	}
	if h.headerSize < headerSize {
		return h, wrapf(ErrInvalid, "gpt: header size %d too small", h.headerSize)
	}
	if uint32(len(block)) < h.headerSize {
		return h, wrapf(ErrInvalid, "gpt: header block truncated")
	}

	storedCRC := binary.LittleEndian.Uint32(block[16:20])
	tmp := make([]byte, h.headerSize)
	copy(tmp, block[:h.headerSize])
	for i := 16; i < 20; i++ {
		tmp[i] = 0
	}
	if crc.CRC32(tmp) != storedCRC {
		return h, wrapf(ErrInvalid, "gpt: header crc mismatch")
	}

	h.myLBA = binary.LittleEndian.Uint64(block[24:32])
	h.alternateLBA = binary.LittleEndian.Uint64(block[32:40])
	h.firstUsableLBA = binary.LittleEndian.Uint64(block[40:48])
	h.lastUsableLBA = binary.LittleEndian.Uint64(block[48:56])
	h.diskGUID = decodeGUID(block[56:72])
	h.partitionEntryLBA = binary.LittleEndian.Uint64(block[72:80])
	h.numberOfEntries = binary.LittleEndian.Uint32(block[80:84])
	h.sizeOfEntry = binary.LittleEndian.Uint32(block[84:88])
	h.entriesCRC = binary.LittleEndian.Uint32(block[88:92])

	return h, nil
}

// decodeEntries validates the entry-array CRC and decodes nParts
// partition entries from entryBytes (exactly nParts*entrySize bytes).
func decodeEntries(entryBytes []byte, nParts uint32, expectedCRC uint32, crc CRCSource) ([]Partition, error) {
	want := int(nParts) * entrySize
	if len(entryBytes) < want {
		return nil, wrapf(ErrInvalid, "gpt: entry array truncated: have %d want %d", len(entryBytes), want)
	}
	entryBytes = entryBytes[:want]

	if crc.CRC32(entryBytes) != expectedCRC {
		return nil, wrapf(ErrInvalid, "gpt: entry array crc mismatch")
	}

	parts := make([]Partition, nParts)
	for i := uint32(0); i < nParts; i++ {
		e := entryBytes[int(i)*entrySize : int(i)*entrySize+entrySize]

		typeGUID := decodeGUID(e[0:16])
		uniqueGUID := decodeGUID(e[16:32])
		start := binary.LittleEndian.Uint64(e[32:40])
		end := binary.LittleEndian.Uint64(e[40:48])
		attrs := uint16(binary.LittleEndian.Uint64(e[48:56]))
		name := decodeName(e[56:128], nameFieldLen)

		p := Partition{
			TypeGUID:   typeGUID,
			UniqueGUID: uniqueGUID,
			Tag:        tagForGUID(typeGUID),
			Attrs:      attrs,
			Name:       name,
		}
		if !typeGUID.IsNull() {
			p.StartLBA = start
			p.SizeLBA = end - start + 1
		}
		parts[i] = p
	}
	return parts, nil
}

// encodeHeader serialises a GPT header block. myLBA/alternateLBA/
// partitionEntryLBA are passed explicitly because the primary and
// backup headers differ only in those three fields (plus the CRC that
// covers them).
func encodeHeader(dst []byte, l *DiskLabel, myLBA, alternateLBA, partitionEntryLBA uint64, entriesCRC uint32, crc CRCSource) {
	for i := range dst {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint64(dst[0:8], 0x5452415020494645)
	binary.LittleEndian.PutUint32(dst[8:12], l.Version)
	binary.LittleEndian.PutUint32(dst[12:16], headerSize)
	// bytes 16:20 (header CRC) left zero for now
	// bytes 20:24 reserved, left zero
	binary.LittleEndian.PutUint64(dst[24:32], myLBA)
	binary.LittleEndian.PutUint64(dst[32:40], alternateLBA)
	binary.LittleEndian.PutUint64(dst[40:48], l.FirstUsableLBA)
	binary.LittleEndian.PutUint64(dst[48:56], l.LastUsableLBA)
	encodeGUID(dst[56:72], l.DiskGUID)
	binary.LittleEndian.PutUint64(dst[72:80], partitionEntryLBA)
	binary.LittleEndian.PutUint32(dst[80:84], l.NParts)
	binary.LittleEndian.PutUint32(dst[84:88], entrySize)
	binary.LittleEndian.PutUint32(dst[88:92], entriesCRC)

	headerCRC := crc.CRC32(dst[:headerSize])
	binary.LittleEndian.PutUint32(dst[16:20], headerCRC)
}

// encodeEntries serialises l.Parts into dst (exactly l.NParts*entrySize
// bytes). For any non-UNASSIGNED partition with a null UniqueGUID, a
// fresh one is generated via uuidSrc first (the writer must not persist
// a non-null-typed entry with a null unique GUID). Returns the CRC-32
// of the serialised bytes.
func encodeEntries(dst []byte, l *DiskLabel, uuidSrc UUIDSource, crc CRCSource) (uint32, error) {
	for i := range l.Parts {
		p := &l.Parts[i]
		e := dst[i*entrySize : i*entrySize+entrySize]
		for j := range e {
			e[j] = 0
		}

		if p.Tag == TagUnassigned {
			continue
		}

		typeGUID, ok := guidForTag(p.Tag)
		if !ok {
			return 0, wrapf(ErrInvalid, "gpt: partition %d: unknown tag 0x%x has no type guid", i, p.Tag)
		}

		if p.UniqueGUID.IsNull() {
			id, err := uuidSrc.Generate()
			if err != nil {
				return 0, wrapf(ErrOther, "gpt: partition %d: generate unique guid: %v", i, err)
			}
			p.UniqueGUID = id
		}

		encodeGUID(e[0:16], typeGUID)
		encodeGUID(e[16:32], p.UniqueGUID)
		binary.LittleEndian.PutUint64(e[32:40], p.StartLBA)
		binary.LittleEndian.PutUint64(e[40:48], p.endLBA())
		binary.LittleEndian.PutUint64(e[48:56], uint64(p.Attrs))
		encodeName(e[56:128], p.Name, nameFieldLen)
	}

	return crc.CRC32(dst), nil
}
