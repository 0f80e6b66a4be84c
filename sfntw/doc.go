/*
Package sfntw writes TrueType fonts from SVG fonts.

The input is an SVG font document as produced by package compose: a font
element with a font-face, an optional missing-glyph and one glyph element per
character. Every glyph outline is converted to quadratic TrueType contours;
arcs are approximated by cubic Béziers first and cubics by quadratic
splines.

The output is a TrueType font with the tables

	OS/2  cmap  glyf  head  hhea  hmtx  loca  maxp  name  post

without hinting instructions, kerning or layout tables. Glyph 0 is .notdef.
Fonts are written deterministically: the same input and options produce the
same bytes.

Writing tables follows the OpenType specification
(https://docs.microsoft.com/en-us/typography/opentype/spec/otff).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package sfntw

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'iconfont.sfnt'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.sfnt")
}
