package gpt

// Tag is the local 16-bit numeric identifier for a partition's role,
// mapped bidirectionally to a 16-byte GPT type GUID by the table below.
// The numbering follows the illumos vtoc tag space so that values line
// up with what a Solaris/illumos label would report.
type Tag uint16

// Well-known tags with a native GUID mapping.
const (
	TagUnassigned Tag = 0x00
	TagBoot       Tag = 0x01
	TagRoot       Tag = 0x02
	TagSwap       Tag = 0x03
	TagUsr        Tag = 0x04
	TagBackup     Tag = 0x05
	TagVar        Tag = 0x07
	TagHome       Tag = 0x08
	TagAltsctr    Tag = 0x09
	TagReserved   Tag = 0x0b
	TagSystem     Tag = 0x0c

	// Fabricated tags: no native illumos vtoc equivalent, numbered in a
	// disjoint range (0x10-0x2f) so the reverse table stays unambiguous.
	TagLegacyMBR     Tag = 0x10
	TagSymantecPub   Tag = 0x11
	TagSymantecCDS   Tag = 0x12
	TagMicrosoftResv Tag = 0x13
	TagDellBasic     Tag = 0x14
	TagDellRAID      Tag = 0x15
	TagDellSwap      Tag = 0x16
	TagDellLVM       Tag = 0x17
	TagBIOSBoot      Tag = 0x18
	TagDellReserved  Tag = 0x19
	TagAppleHFS      Tag = 0x1a
	TagAppleUFS      Tag = 0x1b
	TagAppleZFS      Tag = 0x1c
	TagAppleAPFS     Tag = 0x1d
	TagFreeBSDBoot   Tag = 0x1e
	TagFreeBSDSwap   Tag = 0x1f
	TagFreeBSDUFS    Tag = 0x20
	TagFreeBSDVinum  Tag = 0x21
	TagFreeBSDZFS    Tag = 0x22
	TagFreeBSDNandfs Tag = 0x23

	// TagUnknown is never stored in the table; it is the value a reader
	// assigns to a non-null GUID with no match, and the value the
	// validator promotes an UNASSIGNED-but-non-null-GUID entry to.
	TagUnknown Tag = 0xFF
)

func mustGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// tagTable is the fixed (type_guid, tag) table, linearly searched in
// either direction (<=32 entries). Entries for Symantec/Dell partition
// types are best-effort placeholders: the defining header
// (sys/efi_partition.h) was not present in the source this package was
// grounded on, so only the GUID's presence/uniqueness is guaranteed, not
// byte-for-byte fidelity to the original vendor-assigned value. See
// DESIGN.md.
var tagTable = []struct {
	guid GUID
	tag  Tag
}{
	{mustGUID("6A82CB45-1DD2-11B2-99A6-080020736631"), TagBoot},
	{mustGUID("6A85CF4D-1DD2-11B2-99A6-080020736631"), TagRoot},
	{mustGUID("6A87C46F-1DD2-11B2-99A6-080020736631"), TagSwap},
	{mustGUID("6A898CC3-1DD2-11B2-99A6-080020736631"), TagUsr},
	{mustGUID("6A8B642B-1DD2-11B2-99A6-080020736631"), TagBackup},
	{mustGUID("6A8EF2E9-1DD2-11B2-99A6-080020736631"), TagVar},
	{mustGUID("6A90BA39-1DD2-11B2-99A6-080020736631"), TagHome},
	{mustGUID("6A9283A5-1DD2-11B2-99A6-080020736631"), TagAltsctr},
	{mustGUID("6A945A3B-1DD2-11B2-99A6-080020736631"), TagReserved},
	{mustGUID("C12A7328-F81F-11D2-BA4B-00A0C93EC93B"), TagSystem},
	{mustGUID("024DEE41-33E7-11D3-9D69-0008C781F39F"), TagLegacyMBR},
	{mustGUID("4DE818B7-4AE6-4CD9-B2BF-4D2B8A84459E"), TagSymantecPub},
	{mustGUID("C13BEE2D-26F3-4E37-8F1E-9F7A9C1C0B0C"), TagSymantecCDS},
	{mustGUID("E3C9E316-0B5C-4DB8-817D-F92DF00215AE"), TagMicrosoftResv},
	{mustGUID("EBD0A0A2-B9E5-4433-87C0-68B6B72699C7"), TagDellBasic},
	{mustGUID("A19D880F-05FC-4D3B-A006-743F0F84911E"), TagDellRAID},
	{mustGUID("0657FD6D-A4AB-43C4-84E5-0933C84B4F4F"), TagDellSwap},
	{mustGUID("E6D6D379-F507-44C2-A23C-238F2A3DF928"), TagDellLVM},
	{mustGUID("21686148-6449-6E6F-744E-656564454649"), TagBIOSBoot},
	{mustGUID("F3E92A24-31C6-4C1F-9DA7-25B01CD98F04"), TagDellReserved},
	{mustGUID("48465300-0000-11AA-AA11-00306543ECAC"), TagAppleHFS},
	{mustGUID("55465300-0000-11AA-AA11-00306543ECAC"), TagAppleUFS},
	{mustGUID("6A1D2C9E-0000-11AA-AA11-00306543ECAC"), TagAppleZFS},
	{mustGUID("7C3457EF-0000-11AA-AA11-00306543ECAC"), TagAppleAPFS},
	{mustGUID("83BD6B9D-7F41-11DC-BE0B-001560B84F0F"), TagFreeBSDBoot},
	{mustGUID("516E7CB5-6ECF-11D6-8FF8-00022D09712B"), TagFreeBSDSwap},
	{mustGUID("516E7CB6-6ECF-11D6-8FF8-00022D09712B"), TagFreeBSDUFS},
	{mustGUID("516E7CB8-6ECF-11D6-8FF8-00022D09712B"), TagFreeBSDVinum},
	{mustGUID("516E7CBA-6ECF-11D6-8FF8-00022D09712B"), TagFreeBSDZFS},
	{mustGUID("516E7CBC-6ECF-11D6-8FF8-00022D09712B"), TagFreeBSDNandfs},
}

// tagForGUID resolves a type GUID to a local tag. The null GUID always
// resolves to TagUnassigned. A non-null GUID with no table match
// resolves to TagUnknown (0xFF) rather than an error: the reader
// tolerates labels carrying partition types it does not recognise.
func tagForGUID(g GUID) Tag {
	if g.IsNull() {
		return TagUnassigned
	}
	for _, e := range tagTable {
		if e.guid == g {
			return e.tag
		}
	}
	return TagUnknown
}

// guidForTag resolves a local tag back to its type GUID. TagUnassigned
// resolves to the null GUID with ok true. ok is false for any tag with no
// table entry (including TagUnknown) — the writer refuses to persist a
// label that would lose type identity in that case.
func guidForTag(t Tag) (GUID, bool) {
	if t == TagUnassigned {
		return GUID{}, true
	}
	for _, e := range tagTable {
		if e.tag == t {
			return e.guid, true
		}
	}
	return GUID{}, false
}
