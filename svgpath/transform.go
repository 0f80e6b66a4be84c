package svgpath

import (
	"fmt"
	"math"
)

// Matrix is an affine transformation in SVG notation: a point (x, y) is
// mapped to (A*x + C*y + E, B*x + D*y + F).
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the transformation which leaves points unchanged.
var Identity = Matrix{A: 1, D: 1}

// IsIdentity reports whether m leaves points unchanged.
func (m Matrix) IsIdentity() bool {
	return m == Identity
}

// Mul returns m×n, i.e. the transformation applying n first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply maps a point.
func (m Matrix) Apply(p Point) Point {
	return Point{m.A*p.X + m.C*p.Y + m.E, m.B*p.X + m.D*p.Y + m.F}
}

// Transform maps all coordinates of p by m. Translations and uniform scales
// keep the segments of p; any other transformation replaces p's segments by
// its absolute outline (see Outline), as elliptical arcs do not stay arcs of
// the same form.
func (p *Path) Transform(m Matrix) *Path {
	if m.IsIdentity() {
		return p
	}
	if m.B == 0 && m.C == 0 && math.Abs(m.A) == math.Abs(m.D) {
		return p.Scale(m.A, m.D).Translate(m.E, m.F)
	}
	ops := p.Outline()
	segs := make([]Segment, 0, len(ops))
	for _, op := range ops {
		switch op.Kind {
		case MoveTo, LineTo:
			cmd := byte('L')
			if op.Kind == MoveTo {
				cmd = 'M'
			}
			pt := m.Apply(op.Pts[0])
			segs = append(segs, Segment{Cmd: cmd, Args: []float64{pt.X, pt.Y}})
		case QuadTo:
			c, end := m.Apply(op.Pts[0]), m.Apply(op.Pts[1])
			segs = append(segs, Segment{Cmd: 'Q', Args: []float64{c.X, c.Y, end.X, end.Y}})
		case CubeTo:
			c1, c2, end := m.Apply(op.Pts[0]), m.Apply(op.Pts[1]), m.Apply(op.Pts[2])
			segs = append(segs, Segment{Cmd: 'C', Args: []float64{c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y}})
		case Close:
			segs = append(segs, Segment{Cmd: 'Z'})
		}
	}
	p.Segments = segs
	return p
}

// ParseTransform parses the value of an SVG transform attribute, e.g.
// "translate(10 20) rotate(45)". An empty list is the identity.
func ParseTransform(s string) (Matrix, error) {
	sc := &scanner{b: []byte(s)}
	m := Identity
	for {
		sc.skipSeparators()
		if sc.eof() {
			return m, nil
		}
		start := sc.pos
		for !sc.eof() && isLetter(sc.b[sc.pos]) {
			sc.pos++
		}
		name := string(sc.b[start:sc.pos])
		sc.skipSeparators()
		if name == "" || sc.eof() || sc.b[sc.pos] != '(' {
			return Identity, fmt.Errorf("invalid transform %q at %d", s, start)
		}
		sc.pos++
		var args []float64
		for {
			sc.skipSeparators()
			if !sc.eof() && sc.b[sc.pos] == ')' {
				sc.pos++
				break
			}
			v, ok := sc.number()
			if !ok {
				return Identity, fmt.Errorf("invalid argument of %s in transform %q at %d", name, s, sc.pos)
			}
			args = append(args, v)
		}
		t, err := transformFunction(name, args)
		if err != nil {
			return Identity, fmt.Errorf("invalid transform %q: %w", s, err)
		}
		m = m.Mul(t)
	}
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func transformFunction(name string, args []float64) (Matrix, error) {
	argc := func(counts ...int) error {
		for _, n := range counts {
			if len(args) == n {
				return nil
			}
		}
		return fmt.Errorf("%s takes %v arguments, have %d", name, counts, len(args))
	}
	switch name {
	case "matrix":
		if err := argc(6); err != nil {
			return Identity, err
		}
		return Matrix{args[0], args[1], args[2], args[3], args[4], args[5]}, nil
	case "translate":
		if err := argc(1, 2); err != nil {
			return Identity, err
		}
		m := Identity
		m.E = args[0]
		if len(args) == 2 {
			m.F = args[1]
		}
		return m, nil
	case "scale":
		if err := argc(1, 2); err != nil {
			return Identity, err
		}
		sx, sy := args[0], args[0]
		if len(args) == 2 {
			sy = args[1]
		}
		return Matrix{A: sx, D: sy}, nil
	case "rotate":
		if err := argc(1, 3); err != nil {
			return Identity, err
		}
		sin, cos := math.Sincos(args[0] * math.Pi / 180)
		r := Matrix{A: cos, B: sin, C: -sin, D: cos}
		if len(args) == 3 {
			cx, cy := args[1], args[2]
			r = Matrix{A: 1, D: 1, E: cx, F: cy}.Mul(r).Mul(Matrix{A: 1, D: 1, E: -cx, F: -cy})
		}
		return r, nil
	case "skewX":
		if err := argc(1); err != nil {
			return Identity, err
		}
		return Matrix{A: 1, C: math.Tan(args[0] * math.Pi / 180), D: 1}, nil
	case "skewY":
		if err := argc(1); err != nil {
			return Identity, err
		}
		return Matrix{A: 1, B: math.Tan(args[0] * math.Pi / 180), D: 1}, nil
	}
	return Identity, fmt.Errorf("unknown transform function %q", name)
}
