package sfntw

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/npillmayer/iconfont/svgdoc"
	"github.com/npillmayer/iconfont/svgpath"
	"github.com/tdewolff/parse/v2/strconv"
)

// Options control the descriptive parts of a font. The zero value is valid.
type Options struct {
	Version     string    // font revision as "major.minor"; default "1.0"
	Copyright   string    // name ID 0
	Description string    // name ID 10
	URL         string    // name ID 11
	Timestamp   time.Time // created/modified dates; zero writes 0
	Parser      svgdoc.Parser
}

// sfntGlyph is a glyph ready to be written.
type sfntGlyph struct {
	name    string
	advance uint16
	outline *outline
}

// Encode converts an SVG font document into a TrueType font.
func Encode(svg []byte, opts Options) ([]byte, error) {
	f, err := ParseSVGFont(svg, opts.Parser)
	if err != nil {
		return nil, fmt.Errorf("cannot read SVG font: %w", err)
	}
	return Write(f, opts)
}

// Write produces the TrueType font for f.
func Write(f *SVGFont, opts Options) ([]byte, error) {
	if len(f.Glyphs) > math.MaxUint16-1 {
		return nil, fmt.Errorf("too many glyphs: %d", len(f.Glyphs))
	}
	glyphs := make([]sfntGlyph, 0, len(f.Glyphs)+1)
	glyphs = append(glyphs, convertGlyph(f, f.Missing, 0))
	cmap := make(map[rune]uint16)
	for i, g := range f.Glyphs {
		gid := uint16(i + 1)
		glyphs = append(glyphs, convertGlyph(f, g, gid))
		for _, r := range g.Unicode {
			if !encodable(r) {
				tracer().Infof("glyph %q: code-point %U cannot be mapped", g.Name, r)
				continue
			}
			if prev, ok := cmap[r]; ok {
				tracer().Infof("code-point %U mapped by glyphs %d and %d, keeping the first", r, prev, gid)
				continue
			}
			cmap[r] = gid
		}
	}
	if opts.Version == "" {
		opts.Version = "1.0"
	}
	fw := &fontWriter{font: f, opts: opts, glyphs: glyphs, cmap: cmap}
	fw.measure()
	return fw.assemble(), nil
}

// convertGlyph parses the path data of a glyph. Path data which cannot be
// parsed, e.g. a diagnostic message, results in an empty glyph.
func convertGlyph(f *SVGFont, g Glyph, gid uint16) sfntGlyph {
	adv := g.HorizAdvX
	if adv <= 0 {
		adv = f.HorizAdvX
	}
	sg := sfntGlyph{
		name:    postName(g, gid),
		advance: uint16(math.Min(math.Max(math.Round(adv), 0), math.MaxUint16)),
		outline: &outline{},
	}
	if g.PathData == "" {
		return sg
	}
	p, err := svgpath.Parse(g.PathData)
	if err != nil {
		tracer().Errorf("glyph %q has invalid path data, writing an empty glyph: %v", g.Name, err)
		return sg
	}
	sg.outline = contours(p)
	return sg
}

func encodable(r rune) bool {
	return r > 0 && r <= 0x10FFFF && (r < 0xD800 || r > 0xDFFF)
}

// fontWriter collects the global values of a font while writing its tables.
type fontWriter struct {
	font   *SVGFont
	opts   Options
	glyphs []sfntGlyph
	cmap   map[rune]uint16
	runes  []rune // sorted keys of cmap
	// global metrics
	xMin, yMin, xMax, yMax int16
	advanceMax             uint16
	minLSB, minRSB         int16
	xMaxExtent             int16
	maxPoints, maxContours uint16
	avgWidth               int16
}

func (fw *fontWriter) measure() {
	fw.runes = make([]rune, 0, len(fw.cmap))
	for r := range fw.cmap {
		fw.runes = append(fw.runes, r)
	}
	sort.Slice(fw.runes, func(i, j int) bool { return fw.runes[i] < fw.runes[j] })
	first := true
	var widths, count int
	for _, g := range fw.glyphs {
		fw.advanceMax = max(fw.advanceMax, g.advance)
		if g.advance > 0 {
			widths += int(g.advance)
			count++
		}
		o := g.outline
		if o.empty() {
			continue
		}
		fw.maxPoints = max(fw.maxPoints, uint16(min(o.numPoints(), math.MaxUint16)))
		fw.maxContours = max(fw.maxContours, uint16(min(len(o.contours), math.MaxUint16)))
		rsb := clamp16(int(g.advance) - int(o.xMax))
		if first {
			fw.xMin, fw.yMin, fw.xMax, fw.yMax = o.xMin, o.yMin, o.xMax, o.yMax
			fw.minLSB, fw.minRSB, fw.xMaxExtent = o.xMin, rsb, o.xMax
			first = false
			continue
		}
		fw.xMin, fw.yMin = min(fw.xMin, o.xMin), min(fw.yMin, o.yMin)
		fw.xMax, fw.yMax = max(fw.xMax, o.xMax), max(fw.yMax, o.yMax)
		fw.minLSB, fw.minRSB = min(fw.minLSB, o.xMin), min(fw.minRSB, rsb)
		fw.xMaxExtent = max(fw.xMaxExtent, o.xMax)
	}
	if count > 0 {
		fw.avgWidth = clamp16(widths / count)
	}
}

// assemble writes all tables and the table directory, following the
// layout of the subsetter in tdewolff/canvas.
func (fw *fontWriter) assemble() []byte {
	glyf, loca := fw.glyfAndLoca()
	tables := map[string][]byte{
		"OS/2": fw.os2(),
		"cmap": fw.cmapTable(),
		"glyf": glyf,
		"head": fw.head(),
		"hhea": fw.hhea(),
		"hmtx": fw.hmtx(),
		"loca": loca,
		"maxp": fw.maxp(),
		"name": fw.name(),
		"post": fw.post(),
	}
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	w := &binaryWriter{}
	numTables := uint16(len(tags))
	entrySelector := uint16(math.Log2(float64(numTables)))
	searchRange := uint16(1 << (entrySelector + 4))
	w.u32(0x00010000) // sfntVersion
	w.u16(numTables)
	w.u16(searchRange)
	w.u16(entrySelector)
	w.u16(numTables<<4 - searchRange) // rangeShift
	w.bytes(make([]byte, int(numTables)<<4))

	var headOffset int
	for i, tag := range tags {
		data := tables[tag]
		offset := w.len()
		if tag == "head" {
			headOffset = offset
		}
		w.bytes(data)
		w.pad4()
		rec := 12 + i<<4
		copy(w.buf[rec:], tag)
		binary.BigEndian.PutUint32(w.buf[rec+4:], checksum(w.buf[offset:w.len()]))
		binary.BigEndian.PutUint32(w.buf[rec+8:], uint32(offset))
		binary.BigEndian.PutUint32(w.buf[rec+12:], uint32(len(data)))
	}
	binary.BigEndian.PutUint32(w.buf[headOffset+8:], 0xB1B0AFBA-checksum(w.buf))
	tracer().Debugf("wrote TrueType font with %d glyphs, %d bytes", len(fw.glyphs), w.len())
	return w.buf
}

// checksum is the OpenType table checksum: the sum of all big-endian
// uint32 words, with zero padding at the end.
func checksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i < len(b); i += 4 {
		var word [4]byte
		copy(word[:], b[i:])
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}

// fontRevision converts a version string to a 16.16 fixed number. Trailing
// parts which are not a number (e.g. "1.2.3" → 1.2) are ignored.
func fontRevision(version string) uint32 {
	v, n := strconv.ParseFloat([]byte(version))
	if n == 0 || v < 0 || v >= 32768 {
		return 0x00010000
	}
	return uint32(math.Round(v * 65536))
}

// longDateTime is the number of seconds since 1904-01-01 00:00 UTC.
func longDateTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return int64(t.UTC().Sub(time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)) / time.Second)
}

func clamp16(v int) int16 {
	return int16(min(max(v, math.MinInt16), math.MaxInt16))
}

func round16(v float64) int16 {
	return toUnits(v)
}

// --- Binary writer ---------------------------------------------------------

type binaryWriter struct {
	buf []byte
}

func (w *binaryWriter) len() int { return len(w.buf) }
func (w *binaryWriter) u8(v uint8) { w.buf = append(w.buf, v) }
func (w *binaryWriter) u16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *binaryWriter) i16(v int16) { w.u16(uint16(v)) }
func (w *binaryWriter) u32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }
func (w *binaryWriter) i64(v int64) { w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(v)) }
func (w *binaryWriter) bytes(b []byte) { w.buf = append(w.buf, b...) }
func (w *binaryWriter) tag(tag string) { w.buf = append(w.buf, tag[:4]...) }

func (w *binaryWriter) pad4() {
	for len(w.buf)&3 != 0 {
		w.buf = append(w.buf, 0)
	}
}
