/*
Package raster renders glyph SVGs to PNG preview images.

Rendering covers what glyph files of icon sets use: paths and basic shapes
with solid fills, placed by their transforms and scaled uniformly into the
target image ("xMidYMid meet"). Shapes are filled with the non-zero rule
of golang.org/x/image/vector; images are encoded by
github.com/disintegration/imaging.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/npillmayer/iconfont/svgdoc"
	"github.com/npillmayer/iconfont/svgpath"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/vector"
)

// tracer writes to trace with key 'iconfont.raster'
func tracer() tracing.Trace {
	return tracing.Select("iconfont.raster")
}

// Rasterizer renders an SVG document into a PNG image of w × h pixels.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg []byte, w, h int) ([]byte, error)
}

// RasterizerFunc adapts a function to the Rasterizer interface.
type RasterizerFunc func(ctx context.Context, svg []byte, w, h int) ([]byte, error)

// Rasterize calls f.
func (f RasterizerFunc) Rasterize(ctx context.Context, svg []byte, w, h int) ([]byte, error) {
	return f(ctx, svg, w, h)
}

// VectorRasterizer is the default Rasterizer.
type VectorRasterizer struct {
	Parser svgdoc.Parser // nil selects svgdoc.NewParser()
}

// New returns the default rasterizer.
func New() *VectorRasterizer {
	return &VectorRasterizer{}
}

// ErrNoDimensions is returned for SVG documents which have neither a viewBox
// nor a width and height.
var ErrNoDimensions = errors.New("SVG has no viewBox and no width/height")

// Rasterize renders svg into a PNG image.
func (vr *VectorRasterizer) Rasterize(ctx context.Context, svg []byte, w, h int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := vr.Render(svg, w, h)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Render renders svg into an image of w × h pixels with transparent
// background.
func (vr *VectorRasterizer) Render(svg []byte, w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size %d×%d", w, h)
	}
	parser := vr.Parser
	if parser == nil {
		parser = svgdoc.NewParser()
	}
	doc, err := parser.Parse(svg)
	if err != nil {
		return nil, err
	}
	vb, err := viewport(doc.Root)
	if err != nil {
		return nil, err
	}
	scale := min(float64(w)/vb.Width, float64(h)/vb.Height)
	dx := (float64(w) - vb.Width*scale) / 2
	dy := (float64(h) - vb.Height*scale) / 2
	tx := func(p svgpath.Point) (float32, float32) {
		return float32((p.X-vb.MinX)*scale + dx), float32((p.Y-vb.MinY)*scale + dy)
	}
	img := imaging.New(w, h, color.Transparent)
	z := vector.NewRasterizer(w, h)
	drawn := 0
	shapes, err := svgdoc.Shapes(doc.Root)
	if err != nil {
		return nil, err
	}
	for _, sh := range shapes {
		fill, ok := fillColor(sh.Element)
		if !ok {
			continue
		}
		z.Reset(w, h)
		open := false
		for _, op := range sh.Path.Outline() {
			switch op.Kind {
			case svgpath.MoveTo:
				if open {
					z.ClosePath()
				}
				z.MoveTo(tx(op.Pts[0]))
				open = true
			case svgpath.LineTo:
				z.LineTo(tx(op.Pts[0]))
			case svgpath.QuadTo:
				bx, by := tx(op.Pts[0])
				cx, cy := tx(op.Pts[1])
				z.QuadTo(bx, by, cx, cy)
			case svgpath.CubeTo:
				bx, by := tx(op.Pts[0])
				cx, cy := tx(op.Pts[1])
				ex, ey := tx(op.Pts[2])
				z.CubeTo(bx, by, cx, cy, ex, ey)
			case svgpath.Close:
				z.ClosePath()
				open = false
			}
		}
		if open {
			z.ClosePath()
		}
		z.DrawOp = draw.Over
		z.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{})
		drawn++
	}
	tracer().Debugf("rendered %d shapes into %d×%d image", drawn, w, h)
	return img, nil
}

// viewport returns the viewBox of an SVG root element, falling back to
// its width and height.
func viewport(root *svgdoc.Element) (svgdoc.ViewBox, error) {
	vb, ok, err := root.ViewBox()
	if ok {
		if err != nil {
			return vb, err
		}
		if vb.Width <= 0 || vb.Height <= 0 {
			return vb, fmt.Errorf("invalid viewBox %g×%g", vb.Width, vb.Height)
		}
		return vb, nil
	}
	width, okW := root.Length("width")
	height, okH := root.Length("height")
	if !okW || !okH || width <= 0 || height <= 0 {
		return vb, ErrNoDimensions
	}
	return svgdoc.ViewBox{Width: width, Height: height}, nil
}

// fillColor returns the fill of a path, defaulting to black.
// It returns false for fill="none".
func fillColor(el *svgdoc.Element) (color.Color, bool) {
	fill := strings.TrimSpace(el.AttrOr("fill", ""))
	if style, ok := el.Attr("style"); ok {
		for _, decl := range strings.Split(style, ";") {
			if k, v, ok := strings.Cut(decl, ":"); ok && strings.TrimSpace(k) == "fill" {
				fill = strings.TrimSpace(v)
			}
		}
	}
	switch {
	case fill == "none" || fill == "transparent":
		return nil, false
	case strings.HasPrefix(fill, "#"):
		if c, ok := hexColor(fill[1:]); ok {
			return c, true
		}
	}
	return color.Black, true
}

func hexColor(s string) (color.NRGBA, bool) {
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}
