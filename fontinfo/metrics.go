package fontinfo

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontMetrics retrieves selected metrics of a font.
func FontMetrics(f *Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if hhea, ok := HHeaInfo(f); ok {
		metrics.Ascent = sfnt.Units(hhea.Ascender)
		metrics.Descent = sfnt.Units(hhea.Descender)
		metrics.LineGap = sfnt.Units(hhea.LineGap)
		metrics.MaxAdvance = sfnt.Units(hhea.AdvanceWidthMax)
	}
	if metrics.Ascent == 0 && metrics.Descent == 0 {
		if os2, ok := OS2Info(f); ok {
			tracer().Debugf("OS/2")
			a := sfnt.Units(os2.TypoAscender)
			if a > metrics.Ascent {
				tracer().Debugf("override of ascent: %d -> %d", metrics.Ascent, a)
				metrics.Ascent = a
			}
			d := sfnt.Units(os2.TypoDescender)
			if d < metrics.Descent {
				tracer().Debugf("override of descent: %d -> %d", metrics.Descent, d)
				metrics.Descent = d
			}
		}
	}
	if head, ok := HeadInfo(f); ok {
		metrics.UnitsPerEm = sfnt.Units(head.UnitsPerEm)
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(f *Font, codepoint rune) sfnt.GlyphIndex {
	_, face, err := f.parsed()
	if err != nil {
		tracer().Errorf("cannot parse font: %v", err)
		return 0
	}
	gid, ok := face.NominalGlyph(codepoint)
	if !ok {
		return 0
	}
	return sfnt.GlyphIndex(gid)
}

// NumGlyphs returns the number of glyphs of the font, as stated in 'maxp'.
func NumGlyphs(f *Font) int {
	maxp, _ := MaxPInfo(f)
	return int(maxp.NumGlyphs)
}

// GlyphMetrics retrieves metrics for a given glyph.
func GlyphMetrics(f *Font, gid sfnt.GlyphIndex) GlyphMetricsInfo {
	metrics := GlyphMetricsInfo{}
	//
	// table HMtx: advance width and left side bearing
	if hhea, ok := HHeaInfo(f); ok {
		hmtx := f.Table("hmtx")
		n := int(hhea.NumberOfHMetrics)
		i := int(gid)
		if n > 0 && i < n && len(hmtx) >= 4*(i+1) {
			metrics.Advance = sfnt.Units(u16(hmtx[4*i:]))
			metrics.LSB = sfnt.Units(i16(hmtx[4*i+2:]))
		} else if n > 0 && len(hmtx) >= 4*n+2*(i-n+1) {
			metrics.Advance = sfnt.Units(u16(hmtx[4*(n-1):]))
			metrics.LSB = sfnt.Units(i16(hmtx[4*n+2*(i-n):]))
		}
	}
	//
	// table glyf: bounding box
	if b := glyphData(f, gid); len(b) >= 10 {
		metrics.Contours = int(i16(b))
		metrics.BBox = BoundingBox{
			MinX: sfnt.Units(i16(b[2:])),
			MinY: sfnt.Units(i16(b[4:])),
			MaxX: sfnt.Units(i16(b[6:])),
			MaxY: sfnt.Units(i16(b[8:])),
		}
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// From the OpenType hmtx documentation:
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.Empty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}

// glyphData returns the 'glyf' entry of a glyph, using table 'loca'.
func glyphData(f *Font, gid sfnt.GlyphIndex) []byte {
	head, ok := HeadInfo(f)
	glyf, loca := f.Table("glyf"), f.Table("loca")
	if !ok || glyf == nil || loca == nil {
		return nil
	}
	i := int(gid)
	var start, end uint32
	if head.IndexToLocFormat == 0 {
		if len(loca) < 2*(i+2) {
			return nil
		}
		start, end = 2*uint32(u16(loca[2*i:])), 2*uint32(u16(loca[2*i+2:]))
	} else {
		if len(loca) < 4*(i+2) {
			return nil
		}
		start, end = u32(loca[4*i:]), u32(loca[4*i+4:])
	}
	if start > end || int(end) > len(glyf) {
		return nil
	}
	return glyf[start:end]
}

// GlyphOutline loads the outline of a glyph in font units, with y growing
// downwards as with golang.org/x/image/font/sfnt.
func GlyphOutline(f *Font, gid sfnt.GlyphIndex) (sfnt.Segments, error) {
	sf, _, err := f.parsed()
	if err != nil {
		return nil, err
	}
	head, _ := HeadInfo(f)
	var b sfnt.Buffer
	segs, err := sf.LoadGlyph(&b, gid, fixed.I(int(head.UnitsPerEm)), nil)
	if err != nil {
		return nil, fmt.Errorf("glyph %d: %w", gid, err)
	}
	return segs, nil
}

// GlyphName returns the 'post' name of a glyph, if present.
func GlyphName(f *Font, gid sfnt.GlyphIndex) string {
	sf, _, err := f.parsed()
	if err != nil {
		return ""
	}
	var b sfnt.Buffer
	name, err := sf.GlyphName(&b, gid)
	if err != nil {
		return ""
	}
	return name
}
