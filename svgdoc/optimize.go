package svgdoc

import (
	"fmt"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"
)

const mimeSVG = "image/svg+xml"

// Optimizer simplifies SVG text. An optimizer reporting no data (an empty
// result) is treated as a failure by its callers.
type Optimizer interface {
	Optimize(data []byte) ([]byte, error)
}

// MinifyOptimizer is the default Optimizer, wrapping the tdewolff SVG
// minifier. It is safe for concurrent use.
type MinifyOptimizer struct {
	m *minify.M
}

// NewOptimizer returns the default SVG optimizer.
func NewOptimizer() *MinifyOptimizer {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc(mimeSVG, svg.Minify)
	return &MinifyOptimizer{m: m}
}

// Optimize minifies SVG text.
func (o *MinifyOptimizer) Optimize(data []byte) ([]byte, error) {
	out, err := o.m.Bytes(mimeSVG, data)
	if err != nil {
		return nil, fmt.Errorf("minifying SVG: %w", err)
	}
	tracer().Debugf("optimized SVG from %d to %d bytes", len(data), len(out))
	return out, nil
}

// OptimizerFunc adapts a function to the Optimizer interface.
type OptimizerFunc func(data []byte) ([]byte, error)

// Optimize calls f(data).
func (f OptimizerFunc) Optimize(data []byte) ([]byte, error) {
	return f(data)
}

// --- Pre-processing --------------------------------------------------------

var fillAttr = regexp.MustCompile(`(?i) fill=".*?"`)

// StripFills removes explicit fill attributes. Fill colors are styling of
// the glyph file and are meaningless for a font outline.
func StripFills(data []byte) []byte {
	return fillAttr.ReplaceAll(data, nil)
}
