package sfntw

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/iconfont/svgdoc"
)

// SVGFont is the content of an SVG font document.
type SVGFont struct {
	ID         string
	Family     string
	UnitsPerEm float64
	Ascent     float64
	Descent    float64
	HorizAdvX  float64
	Missing    Glyph   // the missing-glyph, written as .notdef
	Glyphs     []Glyph // in document order
}

// Glyph is a glyph of an SVG font.
type Glyph struct {
	Name      string
	Unicode   []rune
	HorizAdvX float64 // 0 if unset, falling back to the font's advance
	PathData  string
}

// ErrNoFont is returned for SVG documents without a font element.
var ErrNoFont = errors.New("document contains no SVG font")

// ParseSVGFont extracts the first font of an SVG document.
func ParseSVGFont(data []byte, parser svgdoc.Parser) (*SVGFont, error) {
	if parser == nil {
		parser = svgdoc.NewParser()
	}
	doc, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	fonts := doc.Root.Find("font")
	if len(fonts) == 0 {
		return nil, ErrNoFont
	}
	fontEl := fonts[0]
	f := &SVGFont{ID: fontEl.AttrOr("id", "")}
	if f.HorizAdvX, err = number(fontEl, "horiz-adv-x", 0); err != nil {
		return nil, err
	}
	face := &svgdoc.Element{}
	if faces := fontEl.ChildrenNamed("font-face"); len(faces) > 0 {
		face = faces[0]
	}
	f.Family = face.AttrOr("font-family", f.ID)
	if f.UnitsPerEm, err = number(face, "units-per-em", 1000); err != nil {
		return nil, err
	}
	if f.UnitsPerEm <= 0 || f.UnitsPerEm > 16384 {
		return nil, fmt.Errorf("units-per-em out of range: %g", f.UnitsPerEm)
	}
	if f.Ascent, err = number(face, "ascent", f.UnitsPerEm); err != nil {
		return nil, err
	}
	if f.Descent, err = number(face, "descent", 0); err != nil {
		return nil, err
	}
	if f.HorizAdvX == 0 {
		f.HorizAdvX = f.UnitsPerEm
	}
	f.Missing = Glyph{Name: ".notdef"}
	if missing := fontEl.ChildrenNamed("missing-glyph"); len(missing) > 0 {
		if f.Missing, err = parseGlyph(missing[0]); err != nil {
			return nil, err
		}
		f.Missing.Name, f.Missing.Unicode = ".notdef", nil
	}
	for _, el := range fontEl.ChildrenNamed("glyph") {
		g, err := parseGlyph(el)
		if err != nil {
			return nil, err
		}
		f.Glyphs = append(f.Glyphs, g)
	}
	tracer().Debugf("SVG font %q: %d glyphs, %g units per em", f.ID, len(f.Glyphs), f.UnitsPerEm)
	return f, nil
}

func parseGlyph(el *svgdoc.Element) (Glyph, error) {
	g := Glyph{
		Name:     el.AttrOr("glyph-name", ""),
		Unicode:  []rune(el.AttrOr("unicode", "")),
		PathData: strings.TrimSpace(el.AttrOr("d", "")),
	}
	var err error
	g.HorizAdvX, err = number(el, "horiz-adv-x", 0)
	return g, err
}

func number(el *svgdoc.Element, attr string, dflt float64) (float64, error) {
	v, ok := el.Attr(attr)
	if !ok || strings.TrimSpace(v) == "" {
		return dflt, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("attribute %s of <%s>: %w", attr, el.Name, err)
	}
	return f, nil
}
