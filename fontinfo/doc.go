/*
Package fontinfo queries binary fonts produced by an icon font build.

Package fontinfo reads the table directory of a TrueType font and offers
typed query views over selected tables ('head', 'hhea', 'maxp', 'OS/2',
'name'), glyph metrics and character coverage. Views decode values directly
from the raw table bytes; they do not validate a font beyond what is needed
to avoid out-of-bounds access.

Character coverage is checked with the cmap implementation of
github.com/go-text/typesetting, which is independent from the cmap writer
of this module. Glyph outlines are loaded with golang.org/x/image/font/sfnt.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package fontinfo

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'iconfont.fonts'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.fonts")
}
