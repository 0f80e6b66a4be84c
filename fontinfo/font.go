package fontinfo

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
)

// Font is a parsed TrueType font. Tables are kept as raw bytes.
type Font struct {
	Binary []byte // the font data
	Flavor uint32 // sfntVersion of the font
	tables map[string]TableRecord
	tags   []string // in directory order

	once sync.Once
	sfnt *sfnt.Font // lazily parsed
	face *font.Face // lazily parsed
	err  error
}

// TableRecord is an entry of a font's table directory.
type TableRecord struct {
	Tag      string
	Checksum uint32
	Offset   uint32
	Length   uint32
}

// Flavors of sfnt data.
const (
	FlavorTrueType   uint32 = 0x00010000
	FlavorAppleTrue  uint32 = 0x74727565 // 'true'
	FlavorPostScript uint32 = 0x4F54544F // 'OTTO'
)

// ErrNotAFont is returned for data which does not start with an sfnt header.
var ErrNotAFont = errors.New("data is not an sfnt font")

// Parse reads the table directory of a font.
func Parse(data []byte) (*Font, error) {
	if len(data) < 12 {
		return nil, ErrNotAFont
	}
	f := &Font{Binary: data, Flavor: u32(data), tables: make(map[string]TableRecord)}
	switch f.Flavor {
	case FlavorTrueType, FlavorAppleTrue, FlavorPostScript:
	default:
		return nil, ErrNotAFont
	}
	numTables := int(u16(data[4:]))
	if len(data) < 12+16*numTables {
		return nil, fmt.Errorf("font table directory truncated: %d tables", numTables)
	}
	for i := 0; i < numTables; i++ {
		b := data[12+16*i:]
		rec := TableRecord{
			Tag:      string(b[:4]),
			Checksum: u32(b[4:]),
			Offset:   u32(b[8:]),
			Length:   u32(b[12:]),
		}
		if uint64(rec.Offset)+uint64(rec.Length) > uint64(len(data)) {
			return nil, fmt.Errorf("table '%s' exceeds font data", rec.Tag)
		}
		f.tables[rec.Tag] = rec
		f.tags = append(f.tags, rec.Tag)
	}
	tracer().Debugf("font with %d tables: %v", numTables, f.tags)
	return f, nil
}

// Table returns the raw bytes of table tag, or nil.
func (f *Font) Table(tag string) []byte {
	if f == nil {
		return nil
	}
	rec, ok := f.tables[tag]
	if !ok {
		return nil
	}
	return f.Binary[rec.Offset : rec.Offset+rec.Length]
}

// TableRecords returns the table directory, sorted by tag.
func (f *Font) TableRecords() []TableRecord {
	recs := make([]TableRecord, 0, len(f.tables))
	for _, tag := range f.tags {
		recs = append(recs, f.tables[tag])
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Tag < recs[j].Tag })
	return recs
}

// Tags returns the table tags in directory order.
func (f *Font) Tags() []string {
	return append([]string(nil), f.tags...)
}

// VerifyChecksums checks the checksum of every table and of the font as a
// whole. It returns the tags of mismatching tables ("*" for the font).
func (f *Font) VerifyChecksums() []string {
	var bad []string
	for _, rec := range f.TableRecords() {
		end := min(uint64(rec.Offset)+uint64((rec.Length+3)&^3), uint64(len(f.Binary)))
		sum := Checksum(f.Binary[rec.Offset:end])
		if rec.Tag == "head" && rec.Length >= 12 {
			sum -= u32(f.Binary[rec.Offset+8:]) // checkSumAdjustment
		}
		if sum != rec.Checksum {
			bad = append(bad, rec.Tag)
		}
	}
	if _, ok := f.tables["head"]; ok && Checksum(f.Binary) != 0xB1B0AFBA {
		bad = append(bad, "*")
	}
	return bad
}

// Checksum is the OpenType checksum of b: the sum of its big-endian uint32
// words, with b padded by zeros.
func Checksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i < len(b); i += 4 {
		var word [4]byte
		copy(word[:], b[i:])
		sum += u32(word[:])
	}
	return sum
}

// parsed returns the font as parsed by x/image/font/sfnt and go-text.
func (f *Font) parsed() (*sfnt.Font, *font.Face, error) {
	f.once.Do(func() {
		if f.sfnt, f.err = sfnt.Parse(f.Binary); f.err != nil {
			return
		}
		f.face, f.err = font.ParseTTF(bytes.NewReader(f.Binary))
	})
	return f.sfnt, f.face, f.err
}
