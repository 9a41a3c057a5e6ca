package gpt

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// FileHwFixup is a HwFixupSource backed by a rules file in the format
// documented for the protective-MBR hardware workarounds: one rule per
// physical line, each a whitespace-separated sequence of key=value
// tokens naming the system/baseboard identification it applies to and
// the pmbr_slot/pmbr_active values to use when it matches.
//
//	sys.manufacturer="QEMU" sys.product="Standard PC" pmbr_slot=0 pmbr_active=true
//	mb.manufacturer="Dell Inc." pmbr_slot=2 pmbr_active=false
//
// Lines starting with # are comments. A line's action applies only when
// every match-key present on that line matches the supplied
// identification; the first matching line wins. If no line matches,
// PMBRSlotActive returns (0, false).
type FileHwFixup struct {
	SysManufacturer, SysProduct, SysVersion string
	MbManufacturer, MbProduct, MbVersion    string

	rules []hwRule
}

type hwRule struct {
	sysManufacturer, sysProduct, sysVersion string
	mbManufacturer, mbProduct, mbVersion    string
	slot                                    int
	active                                  bool
}

// LoadFileHwFixup reads and parses a rules file at path, binding it to
// the given system/baseboard identification (typically read from
// /sys/class/dmi/id on Linux).
func LoadFileHwFixup(path string, sysManufacturer, sysProduct, sysVersion, mbManufacturer, mbProduct, mbVersion string) (*FileHwFixup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapf(ErrIO, "gpt: open hw fixup rules %s: %v", path, err)
	}
	defer f.Close()

	fx := &FileHwFixup{
		SysManufacturer: sysManufacturer,
		SysProduct:      sysProduct,
		SysVersion:      sysVersion,
		MbManufacturer:  mbManufacturer,
		MbProduct:       mbProduct,
		MbVersion:       mbVersion,
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var r hwRule
		for _, tok := range tokenizeLine(line) {
			key, val, ok := splitRule(tok)
			if !ok {
				continue
			}
			switch key {
			case "sys.manufacturer":
				r.sysManufacturer = val
			case "sys.product":
				r.sysProduct = val
			case "sys.version":
				r.sysVersion = val
			case "mb.manufacturer":
				r.mbManufacturer = val
			case "mb.product":
				r.mbProduct = val
			case "mb.version":
				r.mbVersion = val
			case "pmbr_slot":
				if n, err := strconv.Atoi(val); err == nil {
					r.slot = n
				}
			case "pmbr_active":
				r.active = val == "true" || val == "1"
			}
		}
		fx.rules = append(fx.rules, r)
	}
	if err := sc.Err(); err != nil {
		return nil, wrapf(ErrIO, "gpt: read hw fixup rules %s: %v", path, err)
	}

	return fx, nil
}

// tokenizeLine splits a rule line into whitespace-separated key=value
// tokens, treating a double-quoted value as a single token even when it
// contains spaces (sys.product="Standard PC").
func tokenizeLine(line string) []string {
	var toks []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && !inQuotes:
			if cur.Len() > 0 {
				toks = append(toks, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		toks = append(toks, cur.String())
	}
	return toks
}

// splitRule parses a single "key=value" or "key=\"value\"" token.
func splitRule(tok string) (key, value string, ok bool) {
	parts := strings.SplitN(tok, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	key = strings.TrimSpace(parts[0])
	value = strings.TrimSpace(parts[1])
	value = strings.Trim(value, `"`)
	return key, value, true
}

// PMBRSlotActive implements HwFixupSource.
func (fx *FileHwFixup) PMBRSlotActive() (int, bool) {
	for _, r := range fx.rules {
		if ruleMatches(r.sysManufacturer, fx.SysManufacturer) &&
			ruleMatches(r.sysProduct, fx.SysProduct) &&
			ruleMatches(r.sysVersion, fx.SysVersion) &&
			ruleMatches(r.mbManufacturer, fx.MbManufacturer) &&
			ruleMatches(r.mbProduct, fx.MbProduct) &&
			ruleMatches(r.mbVersion, fx.MbVersion) {
			return r.slot, r.active
		}
	}
	return 0, false
}

// ruleMatches treats an empty rule field as a wildcard and compares
// case-insensitively, matching how manufacturer/product/version strings
// are compared throughout the hardware-identification workaround.
func ruleMatches(rule, actual string) bool {
	return rule == "" || strings.EqualFold(rule, actual)
}
