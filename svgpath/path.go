/*
Package svgpath manipulates SVG path descriptions, i.e. the contents of the
`d` attribute of an SVG path element.

A path is parsed into a list of segments, each consisting of a command
letter and its numeric arguments. Segments keep their command (including
relative vs. absolute form) until a transformation explicitly changes it, so
transformations compose in the order they are applied:

	p, _ := svgpath.Parse("M0 0L512 512")
	d := p.Scale(2, -2).Translate(0, 1024).Abs().Round(0).String()
	// d == "M0 1024L1024 0"

For consumers which need plain geometry (rasterizers, font encoders)
Outline converts a path into absolute drawing operations, with shorthand
curves expanded and elliptical arcs approximated by cubic Béziers.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package svgpath

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Segment is a single path command with its arguments.
// Lower-case commands are relative to the current point.
type Segment struct {
	Cmd  byte
	Args []float64
}

// IsRelative reports whether the segment's coordinates are relative.
func (seg Segment) IsRelative() bool {
	return seg.Cmd >= 'a' && seg.Cmd <= 'z'
}

// Path is a parsed SVG path description.
type Path struct {
	Segments []Segment
}

// argCount is the number of arguments per command (upper-case).
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// Len returns the number of segments.
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Segments)
}

// Clone returns a deep copy of p.
func (p *Path) Clone() *Path {
	c := &Path{Segments: make([]Segment, len(p.Segments))}
	for i, seg := range p.Segments {
		c.Segments[i] = Segment{Cmd: seg.Cmd, Args: append([]float64(nil), seg.Args...)}
	}
	return c
}

// Concat appends the segments of other paths to p.
func (p *Path) Concat(others ...*Path) *Path {
	for _, o := range others {
		if o == nil {
			continue
		}
		for i, seg := range o.Segments {
			if i == 0 && seg.Cmd == 'm' && len(p.Segments) > 0 {
				// a leading relative moveto is absolute in its own path
				seg = Segment{Cmd: 'M', Args: seg.Args}
			}
			p.Segments = append(p.Segments, seg)
		}
	}
	return p
}

// --- Transformations -------------------------------------------------------

// Scale multiplies all coordinates by (sx, sy). A negative determinant
// flips the sweep flag and the rotation of elliptical arcs.
func (p *Path) Scale(sx, sy float64) *Path {
	for i := range p.Segments {
		seg := &p.Segments[i]
		switch upper(seg.Cmd) {
		case 'H':
			seg.Args[0] *= sx
		case 'V':
			seg.Args[0] *= sy
		case 'A':
			seg.Args[0] *= math.Abs(sx)
			seg.Args[1] *= math.Abs(sy)
			if sx*sy < 0 {
				seg.Args[2] = -seg.Args[2]
				seg.Args[4] = 1 - seg.Args[4]
			}
			seg.Args[5] *= sx
			seg.Args[6] *= sy
		default:
			for j := 0; j+1 < len(seg.Args); j += 2 {
				seg.Args[j] *= sx
				seg.Args[j+1] *= sy
			}
		}
	}
	return p
}

// Translate moves the path by (tx, ty). Relative segments are not changed,
// as they are positioned by their predecessors.
func (p *Path) Translate(tx, ty float64) *Path {
	for i := range p.Segments {
		seg := &p.Segments[i]
		if seg.IsRelative() {
			continue
		}
		switch seg.Cmd {
		case 'Z':
		case 'H':
			seg.Args[0] += tx
		case 'V':
			seg.Args[0] += ty
		case 'A':
			seg.Args[5] += tx
			seg.Args[6] += ty
		default:
			for j := 0; j+1 < len(seg.Args); j += 2 {
				seg.Args[j] += tx
				seg.Args[j+1] += ty
			}
		}
	}
	return p
}

// Abs converts all segments to absolute form.
func (p *Path) Abs() *Path {
	var x, y, startX, startY float64
	for i := range p.Segments {
		seg := &p.Segments[i]
		if seg.IsRelative() {
			switch seg.Cmd {
			case 'z':
			case 'h':
				seg.Args[0] += x
			case 'v':
				seg.Args[0] += y
			case 'a':
				seg.Args[5] += x
				seg.Args[6] += y
			default:
				for j := 0; j+1 < len(seg.Args); j += 2 {
					seg.Args[j] += x
					seg.Args[j+1] += y
				}
			}
			seg.Cmd = upper(seg.Cmd)
		}
		switch seg.Cmd {
		case 'M':
			x, y = seg.Args[0], seg.Args[1]
			startX, startY = x, y
		case 'Z':
			x, y = startX, startY
		case 'H':
			x = seg.Args[0]
		case 'V':
			y = seg.Args[0]
		default:
			n := len(seg.Args)
			x, y = seg.Args[n-2], seg.Args[n-1]
		}
	}
	return p
}

// Round rounds all coordinates to the given number of decimal digits.
// Arc flags are left untouched.
func (p *Path) Round(digits int) *Path {
	f := math.Pow(10, float64(digits))
	round := func(v float64) float64 {
		r := math.Round(v*f) / f
		if r == 0 {
			return 0 // no negative zero
		}
		return r
	}
	for i := range p.Segments {
		seg := &p.Segments[i]
		for j := range seg.Args {
			if upper(seg.Cmd) == 'A' && (j == 3 || j == 4) {
				continue
			}
			seg.Args[j] = round(seg.Args[j])
		}
	}
	return p
}

// --- Output ----------------------------------------------------------------

// String renders the path in compact form: repeated commands are omitted
// (except for moveto) and separators are dropped before negative numbers.
func (p *Path) String() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	var prev byte
	for _, seg := range p.Segments {
		skipped := false
		if seg.Cmd != prev || seg.Cmd == 'M' || seg.Cmd == 'm' {
			if seg.Cmd == 'm' && prev == 'z' {
				sb.WriteByte(' ')
			}
			sb.WriteByte(seg.Cmd)
		} else {
			skipped = true
		}
		for j, v := range seg.Args {
			if (j > 0 || skipped) && v >= 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatNumber(v))
		}
		prev = seg.Cmd
	}
	return sb.String()
}

func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// GoString is for debugging.
func (p *Path) GoString() string {
	return fmt.Sprintf("svgpath.Path{%q}", p.String())
}
