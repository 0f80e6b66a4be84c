package sfntw

import (
	"math"

	"github.com/npillmayer/iconfont/svgpath"
)

// point is a TrueType outline point in font units.
type point struct {
	X, Y    int16
	OnCurve bool
}

// contour is a closed TrueType contour.
type contour []point

// maxCubicError is the maximum distance, in font units, of a quadratic
// approximation from the cubic it replaces.
const maxCubicError = 0.3

// outline is the glyph outline in TrueType form.
type outline struct {
	contours []contour
	xMin     int16
	yMin     int16
	xMax     int16
	yMax     int16
}

func (o *outline) numPoints() int {
	n := 0
	for _, c := range o.contours {
		n += len(c)
	}
	return n
}

func (o *outline) empty() bool {
	return len(o.contours) == 0
}

// contours converts path data into TrueType contours. Degenerate contours
// (fewer than two distinct points) are dropped.
func contours(p *svgpath.Path) *outline {
	o := &outline{}
	var cur contour
	var pen, start svgpath.Point
	flush := func() {
		cur = closeContour(cur)
		if len(cur) >= 2 {
			o.contours = append(o.contours, cur)
		}
		cur = nil
	}
	add := func(pt svgpath.Point, on bool) {
		q := point{X: toUnits(pt.X), Y: toUnits(pt.Y), OnCurve: on}
		if n := len(cur); n > 0 && cur[n-1] == q {
			return
		}
		cur = append(cur, q)
	}
	for _, op := range p.Outline() {
		if len(cur) == 0 && op.Kind != svgpath.MoveTo && op.Kind != svgpath.Close {
			add(pen, true) // drawing continues after a closepath
		}
		switch op.Kind {
		case svgpath.MoveTo:
			flush()
			add(op.Pts[0], true)
			start = op.Pts[0]
		case svgpath.LineTo:
			add(op.Pts[0], true)
		case svgpath.QuadTo:
			add(op.Pts[0], false)
			add(op.Pts[1], true)
		case svgpath.CubeTo:
			for _, q := range cubicToQuads(pen, op.Pts[0], op.Pts[1], op.Pts[2], maxCubicError, 0) {
				add(q[0], false)
				add(q[1], true)
			}
		case svgpath.Close:
			flush()
			pen = start
			continue
		}
		pen = op.End()
	}
	flush()
	o.bounds()
	return o
}

// closeContour removes a trailing point which duplicates the start point,
// as TrueType contours are implicitly closed.
func closeContour(c contour) contour {
	for len(c) > 1 && c[len(c)-1] == c[0] {
		c = c[:len(c)-1]
	}
	return c
}

func (o *outline) bounds() {
	first := true
	for _, c := range o.contours {
		for _, pt := range c {
			if first {
				o.xMin, o.xMax, o.yMin, o.yMax = pt.X, pt.X, pt.Y, pt.Y
				first = false
				continue
			}
			o.xMin, o.xMax = min(o.xMin, pt.X), max(o.xMax, pt.X)
			o.yMin, o.yMax = min(o.yMin, pt.Y), max(o.yMax, pt.Y)
		}
	}
}

func toUnits(v float64) int16 {
	v = math.Round(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	} else if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// cubicToQuads approximates a cubic Bézier by quadratic ones. It returns
// (control, end) pairs. The cubic is split in halves until the error of the
// single-quadratic approximation is within tolerance.
func cubicToQuads(p0, p1, p2, p3 svgpath.Point, tolerance float64, depth int) [][2]svgpath.Point {
	// control point of the best single quadratic
	q := svgpath.Point{
		X: (3*(p1.X+p2.X) - p0.X - p3.X) / 4,
		Y: (3*(p1.Y+p2.Y) - p0.Y - p3.Y) / 4,
	}
	dx := p3.X - 3*p2.X + 3*p1.X - p0.X
	dy := p3.Y - 3*p2.Y + 3*p1.Y - p0.Y
	err := math.Sqrt(3) / 36 * math.Hypot(dx, dy)
	if err <= tolerance || depth >= 8 {
		return [][2]svgpath.Point{{q, p3}}
	}
	l1, l2, l3, m, r1, r2, r3 := splitCubic(p0, p1, p2, p3)
	return append(
		cubicToQuads(p0, l1, l2, l3, tolerance, depth+1),
		cubicToQuads(m, r1, r2, r3, tolerance, depth+1)...,
	)
}

// splitCubic splits a cubic at t=0.5 (de Casteljau). It returns the inner
// points of the left half, the split point and the points of the right half.
func splitCubic(p0, p1, p2, p3 svgpath.Point) (l1, l2, l3, m, r1, r2, r3 svgpath.Point) {
	mid := func(a, b svgpath.Point) svgpath.Point {
		return svgpath.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	}
	a, b, c := mid(p0, p1), mid(p1, p2), mid(p2, p3)
	d, e := mid(a, b), mid(b, c)
	f := mid(d, e)
	return a, d, f, f, e, c, p3
}
