package svgdoc

import (
	"fmt"

	"github.com/npillmayer/iconfont/svgpath"
)

// Shape is a renderable element of a document together with its outline,
// given in the coordinate system of the document's root element.
type Shape struct {
	Element *Element
	Path    *svgpath.Path
}

// containers which hold definitions or metadata instead of rendered content
var notRendered = map[string]bool{
	"defs": true, "clipPath": true, "mask": true, "symbol": true, "pattern": true,
	"marker": true, "title": true, "desc": true, "metadata": true, "style": true,
}

// Shapes collects the renderable elements below root in document order:
// paths and the basic shapes rect, circle, ellipse, line, polyline and
// polygon. Basic shapes are converted to path data. The transforms of a
// shape and of its ancestors (below root) are applied to its outline.
// Shapes which render nothing, like a rect of width 0, are left out.
//
// An error is returned for malformed path data, points or transforms.
func Shapes(root *Element) ([]Shape, error) {
	var shapes []Shape
	var collect func(*Element, svgpath.Matrix) error
	collect = func(parent *Element, ctm svgpath.Matrix) error {
		for _, el := range parent.Children {
			if notRendered[el.Name] {
				continue
			}
			m := ctm
			if tf, ok := el.Attr("transform"); ok {
				t, err := svgpath.ParseTransform(tf)
				if err != nil {
					return fmt.Errorf("<%s>: %w", el.Name, err)
				}
				m = ctm.Mul(t)
			}
			p, isShape, err := ShapePath(el)
			if err != nil {
				return fmt.Errorf("<%s>: %w", el.Name, err)
			}
			if !isShape {
				if err := collect(el, m); err != nil {
					return err
				}
				continue
			}
			if p.Len() == 0 {
				tracer().Debugf("skipping empty <%s>", el.Name)
				continue
			}
			shapes = append(shapes, Shape{Element: el, Path: p.Transform(m)})
		}
		return nil
	}
	if err := collect(root, svgpath.Identity); err != nil {
		return nil, err
	}
	return shapes, nil
}

// ShapePath returns the outline of a path or basic shape element, in the
// element's own coordinate system. isShape is false for any other element.
// A shape which renders nothing results in an empty path.
func ShapePath(el *Element) (p *svgpath.Path, isShape bool, err error) {
	p = &svgpath.Path{}
	num := func(name string) float64 {
		v, _ := el.Length(name)
		return v
	}
	switch el.Name {
	case "path":
		d := el.AttrOr("d", "")
		if d == "" {
			return p, true, nil
		}
		p, err = svgpath.Parse(d)
		if err != nil {
			return nil, true, fmt.Errorf("invalid path data: %w", err)
		}
	case "rect":
		rectPath(p, num("x"), num("y"), num("width"), num("height"), el)
	case "circle":
		r := num("r")
		ellipsePath(p, num("cx"), num("cy"), r, r)
	case "ellipse":
		ellipsePath(p, num("cx"), num("cy"), num("rx"), num("ry"))
	case "line":
		p.Segments = []svgpath.Segment{
			{Cmd: 'M', Args: []float64{num("x1"), num("y1")}},
			{Cmd: 'L', Args: []float64{num("x2"), num("y2")}},
		}
	case "polyline", "polygon":
		pts, err := ParseNumbers(el.AttrOr("points", ""))
		if err != nil {
			return nil, true, fmt.Errorf("invalid points: %w", err)
		}
		if len(pts)%2 == 1 { // render up to the last complete pair
			pts = pts[:len(pts)-1]
		}
		if len(pts) < 4 {
			return p, true, nil
		}
		for i := 0; i+1 < len(pts); i += 2 {
			cmd := byte('L')
			if i == 0 {
				cmd = 'M'
			}
			p.Segments = append(p.Segments, svgpath.Segment{Cmd: cmd, Args: []float64{pts[i], pts[i+1]}})
		}
		if el.Name == "polygon" {
			p.Segments = append(p.Segments, svgpath.Segment{Cmd: 'Z'})
		}
	default:
		return nil, false, nil
	}
	return p, true, nil
}

func rectPath(p *svgpath.Path, x, y, w, h float64, el *Element) {
	if w <= 0 || h <= 0 {
		return
	}
	rx, okX := el.Length("rx")
	ry, okY := el.Length("ry")
	switch {
	case okX && !okY:
		ry = rx
	case okY && !okX:
		rx = ry
	}
	rx, ry = min(max(rx, 0), w/2), min(max(ry, 0), h/2)
	seg := func(cmd byte, args ...float64) {
		p.Segments = append(p.Segments, svgpath.Segment{Cmd: cmd, Args: args})
	}
	if rx == 0 || ry == 0 {
		seg('M', x, y)
		seg('H', x+w)
		seg('V', y+h)
		seg('H', x)
		seg('Z')
		return
	}
	seg('M', x+rx, y)
	seg('H', x+w-rx)
	seg('A', rx, ry, 0, 0, 1, x+w, y+ry)
	seg('V', y+h-ry)
	seg('A', rx, ry, 0, 0, 1, x+w-rx, y+h)
	seg('H', x+rx)
	seg('A', rx, ry, 0, 0, 1, x, y+h-ry)
	seg('V', y+ry)
	seg('A', rx, ry, 0, 0, 1, x+rx, y)
	seg('Z')
}

func ellipsePath(p *svgpath.Path, cx, cy, rx, ry float64) {
	if rx <= 0 || ry <= 0 {
		return
	}
	p.Segments = []svgpath.Segment{
		{Cmd: 'M', Args: []float64{cx - rx, cy}},
		{Cmd: 'A', Args: []float64{rx, ry, 0, 1, 0, cx + rx, cy}},
		{Cmd: 'A', Args: []float64{rx, ry, 0, 1, 0, cx - rx, cy}},
		{Cmd: 'Z'},
	}
}
