package svgpath

import "math"

// OpKind is the kind of a drawing operation.
type OpKind int8

// Drawing operations of an outline.
const (
	MoveTo OpKind = iota
	LineTo
	QuadTo
	CubeTo
	Close
)

// Point is a point in path coordinates.
type Point struct {
	X, Y float64
}

// Op is an absolute drawing operation. Pts holds 1 point for MoveTo and
// LineTo, 2 for QuadTo (control, end), 3 for CubeTo and none for Close.
type Op struct {
	Kind OpKind
	Pts  [3]Point
}

// End returns the end point of the operation (undefined for Close).
func (op Op) End() Point {
	switch op.Kind {
	case QuadTo:
		return op.Pts[1]
	case CubeTo:
		return op.Pts[2]
	}
	return op.Pts[0]
}

// Outline converts p into absolute drawing operations. Horizontal and
// vertical lines become linetos, shorthand curves get their reflected
// control points, and arcs are approximated by cubic Béziers.
// p itself is not modified.
func (p *Path) Outline() []Op {
	if p == nil {
		return nil
	}
	abs := p.Clone().Abs()
	ops := make([]Op, 0, len(abs.Segments))
	var cur, start, lastCtrl Point
	var lastCmd byte
	for _, seg := range abs.Segments {
		a := seg.Args
		switch seg.Cmd {
		case 'M':
			cur = Point{a[0], a[1]}
			start = cur
			ops = append(ops, Op{Kind: MoveTo, Pts: [3]Point{cur}})
		case 'L', 'H', 'V':
			switch seg.Cmd {
			case 'L':
				cur = Point{a[0], a[1]}
			case 'H':
				cur.X = a[0]
			case 'V':
				cur.Y = a[0]
			}
			ops = append(ops, Op{Kind: LineTo, Pts: [3]Point{cur}})
		case 'C':
			c1, c2, end := Point{a[0], a[1]}, Point{a[2], a[3]}, Point{a[4], a[5]}
			ops = append(ops, Op{Kind: CubeTo, Pts: [3]Point{c1, c2, end}})
			lastCtrl, cur = c2, end
		case 'S':
			c1 := cur
			if lastCmd == 'C' || lastCmd == 'S' {
				c1 = reflect(lastCtrl, cur)
			}
			c2, end := Point{a[0], a[1]}, Point{a[2], a[3]}
			ops = append(ops, Op{Kind: CubeTo, Pts: [3]Point{c1, c2, end}})
			lastCtrl, cur = c2, end
		case 'Q':
			c, end := Point{a[0], a[1]}, Point{a[2], a[3]}
			ops = append(ops, Op{Kind: QuadTo, Pts: [3]Point{c, end}})
			lastCtrl, cur = c, end
		case 'T':
			c := cur
			if lastCmd == 'Q' || lastCmd == 'T' {
				c = reflect(lastCtrl, cur)
			}
			end := Point{a[0], a[1]}
			ops = append(ops, Op{Kind: QuadTo, Pts: [3]Point{c, end}})
			lastCtrl, cur = c, end
		case 'A':
			end := Point{a[5], a[6]}
			for _, c := range arcToCubics(cur, a[0], a[1], a[2], a[3] != 0, a[4] != 0, end) {
				ops = append(ops, Op{Kind: CubeTo, Pts: c})
			}
			cur = end
		case 'Z':
			ops = append(ops, Op{Kind: Close})
			cur = start
		}
		lastCmd = seg.Cmd
	}
	return ops
}

func reflect(ctrl, about Point) Point {
	return Point{2*about.X - ctrl.X, 2*about.Y - ctrl.Y}
}

// Bounds returns the bounding box of all points of the outline, including
// control points. For an empty path all values are 0.
func (p *Path) Bounds() (minX, minY, maxX, maxY float64) {
	first := true
	add := func(pt Point) {
		if first {
			minX, minY, maxX, maxY = pt.X, pt.Y, pt.X, pt.Y
			first = false
			return
		}
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	for _, op := range p.Outline() {
		switch op.Kind {
		case MoveTo, LineTo:
			add(op.Pts[0])
		case QuadTo:
			add(op.Pts[0])
			add(op.Pts[1])
		case CubeTo:
			add(op.Pts[0])
			add(op.Pts[1])
			add(op.Pts[2])
		}
	}
	return
}

// --- Arcs ------------------------------------------------------------------

// arcToCubics approximates an SVG elliptical arc by cubic Béziers, one per
// quarter turn at most. See the SVG implementation notes, section
// "Conversion from endpoint to center parameterization".
func arcToCubics(from Point, rx, ry, rotDeg float64, large, sweep bool, to Point) [][3]Point {
	if from == to {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return [][3]Point{{from, to, to}}
	}
	phi := rotDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)
	dx, dy := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy
	// scale up radii if they cannot span the endpoints
	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dtheta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	} else if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(dtheta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	delta := dtheta / float64(n)
	k := 4.0 / 3.0 * math.Tan(delta/4)
	point := func(theta float64) (Point, Point) { // point and derivative
		sinT, cosT := math.Sincos(theta)
		x, y := rx*cosT, ry*sinT
		dxT, dyT := -rx*sinT, ry*cosT
		return Point{cosPhi*x - sinPhi*y + cx, sinPhi*x + cosPhi*y + cy},
			Point{cosPhi*dxT - sinPhi*dyT, sinPhi*dxT + cosPhi*dyT}
	}
	curves := make([][3]Point, 0, n)
	theta := theta1
	p0, d0 := point(theta)
	for i := 0; i < n; i++ {
		p3, d3 := point(theta + delta)
		c1 := Point{p0.X + k*d0.X, p0.Y + k*d0.Y}
		c2 := Point{p3.X - k*d3.X, p3.Y - k*d3.Y}
		if i == n-1 {
			p3 = to
		}
		curves = append(curves, [3]Point{c1, c2, p3})
		theta += delta
		p0, d0 = p3, d3
	}
	return curves
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
