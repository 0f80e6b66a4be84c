/*
Package compose renders normalized glyphs into an SVG font.

The SVG font is the source of all other font formats of a build. It lists
one glyph element per charmap entry, in charmap order, and carries the
font's metrics on its font-face element.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package compose

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/npillmayer/iconfont"
	"github.com/npillmayer/iconfont/glyph"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'iconfont.compose'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.compose")
}

//go:embed template.svg
var templateSource string

var fontTemplate = template.Must(template.New("font").Parse(templateSource))

type fontData struct {
	ID      string
	Metrics iconfont.FontMetrics
	Glyphs  []glyphData
}

type glyphData struct {
	Name     string
	Unicode  string // pre-rendered character references
	PathData string
}

// Compose renders the SVG font for manifest m with the given glyphs.
// Glyphs appear in the order given; degraded glyphs are rendered with their
// diagnostic as path data. Metrics missing from the manifest are defaulted.
func Compose(m *iconfont.Manifest, glyphs []glyph.NormalizedGlyph) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("compose: no manifest")
	}
	data := fontData{
		ID:      m.ID,
		Metrics: m.Metrics(),
		Glyphs:  make([]glyphData, len(glyphs)),
	}
	for i, g := range glyphs {
		spec := iconfont.GlyphSpec{File: g.File}
		data.Glyphs[i] = glyphData{
			Name:     spec.BaseName(),
			Unicode:  g.Unicode.XMLEntities(),
			PathData: g.PathData,
		}
	}
	var buf bytes.Buffer
	if err := fontTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	tracer().Debugf("composed SVG font %q with %d glyphs (%d bytes)", m.ID, len(glyphs), buf.Len())
	return buf.Bytes(), nil
}
