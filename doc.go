/*
Package iconfont builds icon fonts from a directory of glyph SVG files.

An icon font is described by a manifest (file `config.json` in the input
directory). The manifest names the font, sets its basic metrics and maps
every glyph file to one or more code-points:

	{
	  "id": "icons",
	  "outputformats": ["svg", "ttf", "eot", "woff", "png"],
	  "pngscales": [16, 32],
	  "ascent": 1024, "descent": 0,
	  "charmap": [ { "file": "home.svg", "unicode": "e001" } ]
	}

Building happens in several steps (see package pipeline): every glyph's
outline is normalized into the em-box of the font (package glyph), the
normalized outlines are composed into a single SVG font (package compose),
and the binary formats TTF, EOT and WOFF are derived from this SVG font
(package encode). Which formats end up on disk is decided by the manifest's
output formats, see Wants.

This package holds the data model shared by all build steps, together with
the error taxonomy of the build.

# Status

No hinting, kerning or ligatures. Glyph outlines are taken from SVG path
elements only.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package iconfont

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'iconfont'
func tracer() tracing.Trace {
	return tracing.Select("iconfont")
}
