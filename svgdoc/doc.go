/*
Package svgdoc reads SVG documents into a light-weight element tree and
prepares glyph SVGs for outline extraction.

The package provides the collaborators the glyph normalizer needs: a Parser,
turning SVG text into a Document, and an Optimizer, simplifying the SVG
text before it is parsed. Both are interfaces, so that a build may replace
them (e.g., in tests). NewParser and NewOptimizer return the default
implementations, based on the tdewolff XML lexer and SVG minifier.

Shapes extracts the drawable outline of a document: paths and basic shapes
as path data, with the transforms of shapes and groups applied.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package svgdoc

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'iconfont.svg'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.svg")
}
