package svgpath

import (
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

// Parse parses an SVG path description.
//
// Implicit command repetition is made explicit, with coordinates following
// a moveto becoming linetos. A relative moveto at the start of the path is
// turned into an absolute one.
func Parse(d string) (*Path, error) {
	s := &scanner{b: []byte(d)}
	p := &Path{}
	var cmd byte
	for {
		s.skipSeparators()
		if s.eof() {
			break
		}
		c := s.b[s.pos]
		if _, ok := argCount[upper(c)]; ok {
			cmd = c
			s.pos++
		} else if cmd == 0 {
			return nil, fmt.Errorf("path data must start with a command, found %q at %d", c, s.pos)
		} else if upper(cmd) == 'Z' {
			return nil, fmt.Errorf("unexpected %q after closepath at %d", c, s.pos)
		}
		n := argCount[upper(cmd)]
		args := make([]float64, n)
		for i := 0; i < n; i++ {
			s.skipSeparators()
			var ok bool
			if upper(cmd) == 'A' && (i == 3 || i == 4) {
				args[i], ok = s.flag()
			} else {
				args[i], ok = s.number()
			}
			if !ok {
				return nil, fmt.Errorf("missing or invalid argument #%d for command %q at %d", i+1, cmd, s.pos)
			}
		}
		if len(p.Segments) == 0 && cmd == 'm' {
			cmd = 'M'
		}
		if len(p.Segments) == 0 && upper(cmd) != 'M' {
			return nil, fmt.Errorf("path data must start with a moveto, starts with %q", cmd)
		}
		p.Segments = append(p.Segments, Segment{Cmd: cmd, Args: args})
		switch cmd { // coordinates after a moveto are implicit linetos
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
	return p, nil
}

// MustParse is like Parse but panics on invalid input. It is intended for
// tests and constants.
func MustParse(d string) *Path {
	p, err := Parse(d)
	if err != nil {
		panic(err)
	}
	return p
}

type scanner struct {
	b   []byte
	pos int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.b)
}

func (s *scanner) skipSeparators() {
	for s.pos < len(s.b) {
		switch s.b[s.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) number() (float64, bool) {
	if s.eof() {
		return 0, false
	}
	f, n := strconv.ParseFloat(s.b[s.pos:])
	if n == 0 {
		return 0, false
	}
	s.pos += n
	return f, true
}

// flag reads an arc flag, which may be written without a separator to the
// following number.
func (s *scanner) flag() (float64, bool) {
	if s.eof() {
		return 0, false
	}
	switch s.b[s.pos] {
	case '0':
		s.pos++
		return 0, true
	case '1':
		s.pos++
		return 1, true
	}
	return 0, false
}
