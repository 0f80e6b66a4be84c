package fontinfo

import (
	"iter"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/unicode"
)

// PlatformID is the platform of a name record.
type PlatformID uint16

// Platforms of name records. Macintosh records are not decoded.
const (
	PlatformUnicode   PlatformID = 0
	PlatformMacintosh PlatformID = 1
	PlatformWindows   PlatformID = 3
)

// NameRecord is an entry of table 'name' with its string decoded.
type NameRecord struct {
	Platform PlatformID
	Encoding uint16
	Language uint16
	ID       sfnt.NameID
	Value    string
}

// NameRecords decodes the records of table 'name' which are stored as
// UTF-16BE, i.e. Unicode platform records and Windows records with encoding
// 1 (BMP) or 10 (full repertoire). Records pointing outside the string
// storage are skipped.
func NameRecords(f *Font) []NameRecord {
	b := f.Table("name")
	if len(b) < 6 {
		return nil
	}
	count, storage := int(u16(b[2:])), int(u16(b[4:]))
	if 6+12*count > len(b) || storage > len(b) {
		tracer().Infof("name table of %d records is truncated", count)
		return nil
	}
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	records := make([]NameRecord, 0, count)
	for i := range count {
		r := b[6+12*i:]
		rec := NameRecord{
			Platform: PlatformID(u16(r[0:])),
			Encoding: u16(r[2:]),
			Language: u16(r[4:]),
			ID:       sfnt.NameID(u16(r[6:])),
		}
		if !utf16Record(rec) {
			continue
		}
		start := storage + int(u16(r[10:]))
		end := start + int(u16(r[8:]))
		if end > len(b) {
			continue
		}
		s, err := dec.Bytes(b[start:end])
		if err != nil {
			continue
		}
		rec.Value = string(s)
		records = append(records, rec)
	}
	return records
}

func utf16Record(rec NameRecord) bool {
	switch rec.Platform {
	case PlatformUnicode:
		return true
	case PlatformWindows:
		return rec.Encoding == 1 || rec.Encoding == 10
	}
	return false
}

// NamesRange yields the non-empty names of a font as (name ID, value) pairs,
// in table order.
func NamesRange(f *Font) iter.Seq2[sfnt.NameID, string] {
	return func(yield func(sfnt.NameID, string) bool) {
		for _, rec := range NameRecords(f) {
			if rec.Value == "" {
				continue
			}
			if !yield(rec.ID, rec.Value) {
				return
			}
		}
	}
}

// Name returns the first name with the given ID, or "".
func Name(f *Font, id sfnt.NameID) string {
	for nameID, value := range NamesRange(f) {
		if nameID == id {
			return value
		}
	}
	return ""
}

var nameInfoKeys = map[sfnt.NameID]string{
	sfnt.NameIDCopyright:        "copyright",
	sfnt.NameIDFamily:           "family",
	sfnt.NameIDSubfamily:        "subfamily",
	sfnt.NameIDUniqueIdentifier: "uniqueid",
	sfnt.NameIDFull:             "fullname",
	sfnt.NameIDVersion:          "version",
	sfnt.NameIDPostScript:       "postscript",
	sfnt.NameIDDescription:      "description",
	sfnt.NameIDVendorURL:        "url",
}

// NameInfo returns the descriptive names of a font, keyed by "family",
// "subfamily", "fullname", "version", "postscript", "uniqueid", "copyright",
// "description" and "url". Names not present in the font are missing from
// the map.
func NameInfo(f *Font) map[string]string {
	info := make(map[string]string)
	for id, value := range NamesRange(f) {
		if key, ok := nameInfoKeys[id]; ok {
			if _, dup := info[key]; !dup {
				info[key] = value
			}
		}
	}
	return info
}
