/*
Package glyph normalizes the outlines of glyph SVG files.

A glyph file has its own coordinate system, given by its viewBox. Normalizing
maps the glyph's path data into the em-box of the font: the glyph is scaled
uniformly to the font's height (ascent - descent), flipped vertically (SVG
y-coordinates grow downwards, font coordinates grow upwards), moved up by
the font's height, converted to absolute commands and rounded to integer
font units.

Glyph files without a viewBox or without anything to draw do not fail: they
produce a degraded glyph, carrying a diagnostic text instead of path data.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package glyph

import (
	"context"
	"os"
	"path/filepath"

	"github.com/npillmayer/iconfont"
	"github.com/npillmayer/iconfont/svgdoc"
	"github.com/npillmayer/iconfont/svgpath"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'iconfont.glyph'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.glyph")
}

// Diagnostics of degraded glyphs.
const (
	NoBoundingBox = "No bounding box information could be found for this SVG."
	NoOutline     = "No outline could be found in this SVG."
)

// NormalizedGlyph is a glyph with path data in font coordinates.
//
// A degraded glyph has a non-empty Diagnostic. Its PathData holds the
// diagnostic text as well, so that a composed font shows the problem as
// (unrenderable) glyph data.
type NormalizedGlyph struct {
	File       string           // source file, relative to the input directory
	Unicode    iconfont.Unicode // copied from the glyph spec
	PathData   string           // absolute, integer path description
	Diagnostic string           // reason for degradation, empty for healthy glyphs
}

// Degraded reports whether the glyph could not be normalized.
func (g NormalizedGlyph) Degraded() bool {
	return g.Diagnostic != ""
}

// Normalizer maps glyph SVGs into the em-box of a font.
// A Normalizer is safe for concurrent use if its collaborators are.
type Normalizer struct {
	optimizer svgdoc.Optimizer
	parser    svgdoc.Parser
}

// NewNormalizer creates a normalizer. Nil collaborators are replaced by the
// defaults of package svgdoc.
func NewNormalizer(optimizer svgdoc.Optimizer, parser svgdoc.Parser) *Normalizer {
	if optimizer == nil {
		optimizer = svgdoc.NewOptimizer()
	}
	if parser == nil {
		parser = svgdoc.NewParser()
	}
	return &Normalizer{optimizer: optimizer, parser: parser}
}

// NormalizeFile reads the glyph file of spec from directory dir and
// normalizes it.
func (n *Normalizer) NormalizeFile(ctx context.Context, metrics iconfont.FontMetrics, dir string,
	spec iconfont.GlyphSpec) (NormalizedGlyph, error) {
	//
	g := NormalizedGlyph{File: spec.File, Unicode: spec.Unicode}
	if err := ctx.Err(); err != nil {
		return g, err
	}
	path := filepath.Join(dir, spec.File)
	raw, err := os.ReadFile(path)
	if err != nil {
		return g, &iconfont.BuildError{Kind: iconfont.IOError, File: path, Err: err}
	}
	pathData, diagnostic, err := n.Normalize(metrics, raw)
	if err != nil {
		return g, iconfont.AsBuildError(err, iconfont.OptimizationFailed, "", path)
	}
	if diagnostic != "" {
		tracer().Infof("glyph %s: %s", spec.File, diagnostic)
		g.PathData, g.Diagnostic = diagnostic, diagnostic
		return g, nil
	}
	tracer().Debugf("glyph %s: %d bytes of path data", spec.File, len(pathData))
	g.PathData = pathData
	return g, nil
}

// Normalize transforms the outline of a raw glyph SVG into font coordinates.
//
// The outline is made of the glyph's paths and basic shapes, with their
// transforms applied. If the glyph has no viewBox, Normalize returns an empty
// path and the NoBoundingBox diagnostic, but no error; likewise with the
// NoOutline diagnostic if the glyph has nothing to draw. Errors are
// *iconfont.BuildError of kind OptimizationFailed or InvalidBoundingBox.
func (n *Normalizer) Normalize(metrics iconfont.FontMetrics, raw []byte) (pathData, diagnostic string, err error) {
	optimized, err := n.optimizer.Optimize(svgdoc.StripFills(raw))
	if err != nil {
		return "", "", &iconfont.BuildError{Kind: iconfont.OptimizationFailed, Err: err}
	}
	if len(optimized) == 0 {
		return "", "", iconfont.Errorf(iconfont.OptimizationFailed, "optimizer returned no data")
	}
	doc, err := n.parser.Parse(optimized)
	if err != nil {
		return "", "", &iconfont.BuildError{Kind: iconfont.OptimizationFailed, Err: err}
	}
	root := doc.Root
	vb, ok, err := root.ViewBox()
	if !ok {
		return "", NoBoundingBox, nil
	}
	if err != nil {
		return "", "", &iconfont.BuildError{Kind: iconfont.InvalidBoundingBox, Err: err}
	}
	if vb.Height <= 0 {
		return "", "", iconfont.Errorf(iconfont.InvalidBoundingBox, "viewBox height must be positive, is %g", vb.Height)
	}
	fontHeight := metrics.Height()
	scale := fontHeight / vb.Height

	shapes, err := svgdoc.Shapes(root)
	if err != nil {
		return "", "", &iconfont.BuildError{Kind: iconfont.OptimizationFailed, Err: err}
	}
	outline := &svgpath.Path{}
	for _, sh := range shapes {
		outline.Concat(sh.Path)
	}
	if outline.Len() == 0 {
		return "", NoOutline, nil
	}
	outline.Scale(scale, -scale).Translate(0, fontHeight).Abs().Round(0)
	return outline.String(), "", nil
}
