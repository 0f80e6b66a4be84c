package sfntw

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Simple glyph flags of table glyf.
const (
	flagOnCurve      = 0x01
	flagXShort       = 0x02
	flagYShort       = 0x04
	flagXSameOrPlus  = 0x10
	flagYSameOrPlus  = 0x20
	headFlags        = 0x000B // baseline at y=0, lsb at x=0, integer ppem
	macStyleRegular  = 0
	fsSelectionReg   = 0x0040
	weightRegular    = 400
	widthMedium      = 5
	lowestRecPPEM    = 8
	fontDirectionLTR = 2
)

func (fw *fontWriter) glyfAndLoca() (glyf, loca []byte) {
	g := &binaryWriter{}
	l := &binaryWriter{}
	for _, sg := range fw.glyphs {
		l.u32(uint32(g.len()))
		encodeGlyph(g, sg.outline)
		g.pad4()
	}
	l.u32(uint32(g.len()))
	return g.buf, l.buf
}

// encodeGlyph writes a simple glyph description. Empty outlines are written
// as zero-length glyphs.
func encodeGlyph(w *binaryWriter, o *outline) {
	if o.empty() {
		return
	}
	w.i16(int16(len(o.contours)))
	w.i16(o.xMin)
	w.i16(o.yMin)
	w.i16(o.xMax)
	w.i16(o.yMax)
	end := -1
	for _, c := range o.contours {
		end += len(c)
		w.u16(uint16(end))
	}
	w.u16(0) // instructionLength
	var flags []byte
	xs, ys := &binaryWriter{}, &binaryWriter{}
	var x, y int16
	for _, c := range o.contours {
		for _, pt := range c {
			var flag byte
			if pt.OnCurve {
				flag |= flagOnCurve
			}
			flag |= coord(xs, int(pt.X)-int(x), flagXShort, flagXSameOrPlus)
			flag |= coord(ys, int(pt.Y)-int(y), flagYShort, flagYSameOrPlus)
			flags = append(flags, flag)
			x, y = pt.X, pt.Y
		}
	}
	w.bytes(flags)
	w.bytes(xs.buf)
	w.bytes(ys.buf)
}

// coord writes a relative coordinate in its shortest form and returns the
// flags describing it.
func coord(w *binaryWriter, delta int, short, sameOrPlus byte) byte {
	switch {
	case delta == 0:
		return sameOrPlus
	case delta > 0 && delta < 256:
		w.u8(uint8(delta))
		return short | sameOrPlus
	case delta < 0 && delta > -256:
		w.u8(uint8(-delta))
		return short
	}
	w.i16(int16(delta))
	return 0
}

func (fw *fontWriter) head() []byte {
	w := &binaryWriter{}
	w.u32(0x00010000) // version
	w.u32(fontRevision(fw.opts.Version))
	w.u32(0) // checkSumAdjustment, set after assembly
	w.u32(0x5F0F3CF5)
	w.u16(headFlags)
	w.u16(uint16(math.Round(fw.font.UnitsPerEm)))
	ts := longDateTime(fw.opts.Timestamp)
	w.i64(ts) // created
	w.i64(ts) // modified
	w.i16(fw.xMin)
	w.i16(fw.yMin)
	w.i16(fw.xMax)
	w.i16(fw.yMax)
	w.u16(macStyleRegular)
	w.u16(lowestRecPPEM)
	w.i16(fontDirectionLTR)
	w.i16(1) // indexToLocFormat: long offsets
	w.i16(0) // glyphDataFormat
	return w.buf
}

func (fw *fontWriter) hhea() []byte {
	w := &binaryWriter{}
	w.u32(0x00010000)
	w.i16(round16(fw.font.Ascent))
	w.i16(round16(fw.font.Descent))
	w.i16(0) // lineGap
	w.u16(fw.advanceMax)
	w.i16(fw.minLSB)
	w.i16(fw.minRSB)
	w.i16(fw.xMaxExtent)
	w.i16(1) // caretSlopeRise
	w.i16(0) // caretSlopeRun
	w.i16(0) // caretOffset
	w.bytes(make([]byte, 8))
	w.i16(0) // metricDataFormat
	w.u16(uint16(len(fw.glyphs)))
	return w.buf
}

func (fw *fontWriter) hmtx() []byte {
	w := &binaryWriter{}
	for _, g := range fw.glyphs {
		w.u16(g.advance)
		w.i16(g.outline.xMin)
	}
	return w.buf
}

func (fw *fontWriter) maxp() []byte {
	w := &binaryWriter{}
	w.u32(0x00010000)
	w.u16(uint16(len(fw.glyphs)))
	w.u16(fw.maxPoints)
	w.u16(fw.maxContours)
	w.u16(0) // maxCompositePoints
	w.u16(0) // maxCompositeContours
	w.u16(2) // maxZones
	// maxTwilightPoints through maxComponentDepth
	w.bytes(make([]byte, 16))
	return w.buf
}

func (fw *fontWriter) os2() []byte {
	f := fw.font
	em := f.UnitsPerEm
	w := &binaryWriter{}
	w.u16(4) // version
	w.i16(fw.avgWidth)
	w.u16(weightRegular)
	w.u16(widthMedium)
	w.u16(0) // fsType: installable embedding
	// sub- and superscript size and offsets, strikeout
	w.i16(round16(em * 0.65))
	w.i16(round16(em * 0.7))
	w.i16(0)
	w.i16(round16(em * 0.14))
	w.i16(round16(em * 0.65))
	w.i16(round16(em * 0.7))
	w.i16(0)
	w.i16(round16(em * 0.48))
	w.i16(round16(em * 0.049))
	w.i16(round16(em * 0.258))
	w.i16(0) // sFamilyClass
	w.bytes(make([]byte, 10))
	for _, r := range fw.unicodeRanges() {
		w.u32(r)
	}
	w.tag("NONE") // achVendID
	w.u16(fsSelectionReg)
	first, last := fw.charIndexRange()
	w.u16(first)
	w.u16(last)
	w.i16(round16(f.Ascent))
	w.i16(round16(f.Descent))
	w.i16(0) // sTypoLineGap
	w.u16(uint16(max(0, round16(f.Ascent))))
	w.u16(uint16(max(0, -round16(f.Descent))))
	w.u32(1) // ulCodePageRange1: Latin 1
	w.u32(0)
	w.i16(0) // sxHeight
	w.i16(0) // sCapHeight
	w.u16(0) // usDefaultChar
	w.u16(0x20)
	w.u16(0) // usMaxContext
	return w.buf
}

// unicodeRanges sets the bits of the Unicode blocks which are most likely
// to occur in icon fonts.
func (fw *fontWriter) unicodeRanges() [4]uint32 {
	var ranges [4]uint32
	set := func(bit uint) { ranges[bit/32] |= 1 << (bit % 32) }
	for _, r := range fw.runes {
		switch {
		case r < 0x80:
			set(0) // Basic Latin
		case r < 0x100:
			set(1) // Latin-1 Supplement
		case r >= 0xE000 && r <= 0xF8FF:
			set(60) // Private Use Area
		case r >= 0x10000:
			set(57) // Non-Plane 0
		}
	}
	return ranges
}

func (fw *fontWriter) charIndexRange() (first, last uint16) {
	if len(fw.runes) == 0 {
		return 0, 0
	}
	return uint16(min(fw.runes[0], 0xFFFF)), uint16(min(fw.runes[len(fw.runes)-1], 0xFFFF))
}

// --- cmap ------------------------------------------------------------------

type cmapGroup struct {
	start, end rune
	gid        uint16
}

// groups returns runs of consecutive code-points mapped to consecutive
// glyph ids.
func (fw *fontWriter) groups(bmpOnly bool) []cmapGroup {
	var groups []cmapGroup
	for _, r := range fw.runes {
		if bmpOnly && r > 0xFFFF {
			break
		}
		gid := fw.cmap[r]
		if n := len(groups); n > 0 {
			g := &groups[n-1]
			if g.end+1 == r && g.gid+uint16(r-g.start) == gid {
				g.end = r
				continue
			}
		}
		groups = append(groups, cmapGroup{start: r, end: r, gid: gid})
	}
	return groups
}

func (fw *fontWriter) cmapTable() []byte {
	sub4 := fw.cmapFormat4()
	var sub12 []byte
	if len(fw.runes) > 0 && fw.runes[len(fw.runes)-1] > 0xFFFF {
		sub12 = fw.cmapFormat12()
	}
	w := &binaryWriter{}
	w.u16(0) // version
	if sub12 == nil {
		w.u16(1)
		w.u16(3) // Windows
		w.u16(1) // Unicode BMP
		w.u32(12)
		w.bytes(sub4)
		return w.buf
	}
	w.u16(2)
	w.u16(3)
	w.u16(1)
	w.u32(20)
	w.u16(3)
	w.u16(10) // Unicode full repertoire
	w.u32(uint32(20 + len(sub4)))
	w.bytes(sub4)
	w.bytes(sub12)
	return w.buf
}

func (fw *fontWriter) cmapFormat4() []byte {
	groups := fw.groups(true)
	if n := len(groups); n > 0 && groups[n-1].end == 0xFFFF {
		groups[n-1].end = 0xFFFE // room for the final segment
	}
	groups = append(groups, cmapGroup{start: 0xFFFF, end: 0xFFFF, gid: 0})
	segCount := len(groups)
	searchRange := 2 * (1 << uint(math.Floor(math.Log2(float64(segCount)))))
	w := &binaryWriter{}
	w.u16(4)
	w.u16(uint16(16 + 8*segCount)) // length
	w.u16(0)                       // language
	w.u16(uint16(2 * segCount))
	w.u16(uint16(searchRange))
	w.u16(uint16(math.Log2(float64(searchRange / 2))))
	w.u16(uint16(2*segCount - searchRange))
	for _, g := range groups {
		w.u16(uint16(g.end))
	}
	w.u16(0) // reservedPad
	for _, g := range groups {
		w.u16(uint16(g.start))
	}
	for _, g := range groups {
		w.u16(g.gid - uint16(g.start)) // idDelta, modulo 65536
	}
	for range groups {
		w.u16(0) // idRangeOffset
	}
	return w.buf
}

func (fw *fontWriter) cmapFormat12() []byte {
	groups := fw.groups(false)
	w := &binaryWriter{}
	w.u16(12)
	w.u16(0)
	w.u32(uint32(16 + 12*len(groups)))
	w.u32(0) // language
	w.u32(uint32(len(groups)))
	for _, g := range groups {
		w.u32(uint32(g.start))
		w.u32(uint32(g.end))
		w.u32(uint32(g.gid))
	}
	return w.buf
}

// --- name ------------------------------------------------------------------

// Name IDs written to table name.
const (
	nameCopyright      = 0
	nameFamily         = 1
	nameSubfamily      = 2
	nameUniqueID       = 3
	nameFull           = 4
	nameVersion        = 5
	namePostScript     = 6
	nameDescription    = 10
	nameVendorURL      = 11
	windowsEnglishUS   = 0x0409
	platformWindows    = 3
	encodingUnicodeBMP = 1
)

type nameRecord struct {
	id    uint16
	value string
}

// names returns the non-empty name records, ordered by name ID.
func (fw *fontWriter) names() []nameRecord {
	family := fw.font.Family
	if family == "" {
		family = "Untitled"
	}
	version := "Version " + fw.opts.Version
	records := []nameRecord{
		{nameCopyright, fw.opts.Copyright},
		{nameFamily, family},
		{nameSubfamily, "Regular"},
		{nameUniqueID, family + ":" + version},
		{nameFull, family},
		{nameVersion, version},
		{namePostScript, postScriptName(family)},
		{nameDescription, fw.opts.Description},
		{nameVendorURL, fw.opts.URL},
	}
	n := 0
	for _, rec := range records {
		if rec.value != "" {
			records[n] = rec
			n++
		}
	}
	return records[:n]
}

func (fw *fontWriter) name() []byte {
	records := fw.names()
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	w := &binaryWriter{}
	strs := &binaryWriter{}
	w.u16(0) // format
	w.u16(uint16(len(records)))
	w.u16(uint16(6 + 12*len(records)))
	for _, rec := range records {
		s, err := enc.Bytes([]byte(rec.value))
		if err != nil { // cannot happen for valid UTF-8
			s = nil
		}
		w.u16(platformWindows)
		w.u16(encodingUnicodeBMP)
		w.u16(windowsEnglishUS)
		w.u16(rec.id)
		w.u16(uint16(len(s)))
		w.u16(uint16(strs.len()))
		strs.bytes(s)
	}
	w.bytes(strs.buf)
	return w.buf
}

// postScriptName restricts name to printable ASCII without the characters
// the PostScript name must not contain.
func postScriptName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 33 || r > 126 || strings.ContainsRune("[](){}<>/%", r) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == 63 {
			break
		}
	}
	if b.Len() == 0 {
		return "Untitled"
	}
	return b.String()
}

// --- post ------------------------------------------------------------------

func (fw *fontWriter) post() []byte {
	em := fw.font.UnitsPerEm
	w := &binaryWriter{}
	w.u32(0x00020000)
	w.u32(0)                      // italicAngle
	w.i16(round16(-em * 0.075))   // underlinePosition
	w.i16(round16(em * 0.05))     // underlineThickness
	w.u32(0)                      // isFixedPitch
	w.bytes(make([]byte, 16))     // memory usage hints
	w.u16(uint16(len(fw.glyphs))) // numGlyphs
	names := &binaryWriter{}
	for i, g := range fw.glyphs {
		if i == 0 {
			w.u16(0) // .notdef is a standard Macintosh glyph
			continue
		}
		w.u16(uint16(258 + i - 1))
		names.u8(uint8(len(g.name)))
		names.bytes([]byte(g.name))
	}
	w.bytes(names.buf)
	return w.buf
}

// postName derives a valid glyph name: up to 63 characters from
// [A-Za-z0-9._], falling back to uniXXXX or glyphN.
func postName(g Glyph, gid uint16) string {
	if gid == 0 {
		return ".notdef"
	}
	var b strings.Builder
	for _, r := range g.Name {
		if r < 128 && (r == '.' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		} else if r == '-' || r == ' ' {
			b.WriteRune('_')
		}
		if b.Len() == 63 {
			break
		}
	}
	if name := b.String(); name != "" && name != ".notdef" && (name[0] < '0' || name[0] > '9') {
		return name
	}
	if len(g.Unicode) > 0 && g.Unicode[0] <= 0xFFFF {
		return fmt.Sprintf("uni%04X", g.Unicode[0])
	}
	return fmt.Sprintf("glyph%d", gid)
}
