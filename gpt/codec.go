package gpt

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf16"
)

// GUID is a canonical 16-byte GUID in the byte order callers compare and
// print (as opposed to the mixed-endian order GPT stores it in on disk).
type GUID [16]byte

// IsNull reports whether g is the all-zero GUID.
func (g GUID) IsNull() bool {
	return g == GUID{}
}

// String renders g in the standard 8-4-4-4-12 hyphenated form.
func (g GUID) String() string {
	d1 := binary.BigEndian.Uint32(g[0:4])
	d2 := binary.BigEndian.Uint16(g[4:6])
	d3 := binary.BigEndian.Uint16(g[6:8])
	return fmt.Sprintf("%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		d1, d2, d3,
		g[8], g[9],
		g[10], g[11], g[12], g[13], g[14], g[15],
	)
}

// ParseGUID parses the standard 8-4-4-4-12 hyphenated GUID string form
// (as produced by GUID.String) into a canonical GUID.
func ParseGUID(s string) (GUID, error) {
	s = strings.ReplaceAll(s, "-", "")
	if len(s) != 32 {
		return GUID{}, fmt.Errorf("gpt: malformed guid %q", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return GUID{}, fmt.Errorf("gpt: malformed guid %q: %w", s, err)
	}
	var g GUID
	copy(g[:], b)
	return g, nil
}

// decodeGUID converts the on-disk mixed-endian 16 bytes at b into a
// canonical GUID (the byte order google/uuid and ParseGUID/String use:
// each field in the same left-to-right order it is displayed in). The
// first 4 bytes and next two 2-byte groups are stored little-endian on
// disk and are byte-swapped into big-endian here; the final 8 bytes are
// taken verbatim. The transformation is total and self-inverse:
// encodeGUID(decodeGUID(b)) == b for any 16-byte b.
func decodeGUID(b []byte) GUID {
	var g GUID
	binary.BigEndian.PutUint32(g[0:4], binary.LittleEndian.Uint32(b[0:4]))
	binary.BigEndian.PutUint16(g[4:6], binary.LittleEndian.Uint16(b[4:6]))
	binary.BigEndian.PutUint16(g[6:8], binary.LittleEndian.Uint16(b[6:8]))
	copy(g[8:16], b[8:16])
	return g
}

// encodeGUID writes g into dst (16 bytes) in GPT's on-disk mixed-endian
// order. It is the inverse of decodeGUID.
func encodeGUID(dst []byte, g GUID) {
	binary.LittleEndian.PutUint32(dst[0:4], binary.BigEndian.Uint32(g[0:4]))
	binary.LittleEndian.PutUint16(dst[4:6], binary.BigEndian.Uint16(g[4:6]))
	binary.LittleEndian.PutUint16(dst[6:8], binary.BigEndian.Uint16(g[6:8]))
	copy(dst[8:16], g[8:16])
}

// decodeName decodes a fixed-width UTF-16LE partition name field into the
// package's in-memory representation: up to nameLen bytes, each the low
// 8 bits of a decoded UCS-2 code unit, stopping at the first NUL.
func decodeName(b []byte, nameLen int) [nameFieldLen]byte {
	var out [nameFieldLen]byte
	units := make([]uint16, 0, nameLen)
	for i := 0; i < nameLen; i++ {
		v := binary.LittleEndian.Uint16(b[i*2 : i*2+2])
		if v == 0 {
			break
		}
		units = append(units, v)
	}
	decoded := utf16.Decode(units)
	for i, r := range decoded {
		if i >= nameFieldLen {
			break
		}
		out[i] = byte(r & 0xFF)
	}
	return out
}

// encodeName writes the in-memory name (low-8-bits-per-unit, NUL
// terminated/padded) back out as nameLen little-endian UTF-16 code
// units into dst.
func encodeName(dst []byte, name [nameFieldLen]byte, nameLen int) {
	for i := 0; i < nameLen; i++ {
		var v uint16
		if i < nameFieldLen {
			v = uint16(name[i])
		}
		binary.LittleEndian.PutUint16(dst[i*2:i*2+2], v)
	}
}

// nameFieldLen is the number of UCS-2 code units in a GPT partition name
// (36, per the UEFI specification's PartitionName[36] field).
const nameFieldLen = 36
