package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/iconfont"
	"github.com/npillmayer/iconfont/fontinfo"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font/sfnt"
)

func runExploreCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	f, container, err := loadFontFile(fontPath)
	if err != nil {
		fatalf("%v", err)
	}
	repl, err := readline.New("iconfont > ")
	if err != nil {
		fatalf("%v", err)
	}
	defer repl.Close()
	pterm.Info.Printf("Exploring %s font %s\n", container, fontPath)
	pterm.Info.Println("Quit with <ctrl>D")
	intp := &Intp{font: f, repl: repl}
	intp.REPL()
}

// Intp is our interpreter object
type Intp struct {
	font *fontinfo.Font
	repl *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		op, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		quit, err := intp.execute(op)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a single interpreter command with an optional argument.
type Op struct {
	code int
	arg  string
}

const (
	QUIT int = iota
	HELP
	INFO
	GLYPH
	CMAP
)

var opMap = map[string]int{
	"quit":  QUIT,
	"help":  HELP,
	"info":  INFO,
	"glyph": GLYPH,
	"cmap":  CMAP,
}

var errUnknownCommand = errors.New("unknown command, try 'help'")

// parseCommand parses lines like "glyph e001" or "glyph:U+E001".
func parseCommand(line string) (Op, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ':' })
	if len(fields) == 0 {
		return Op{}, errUnknownCommand
	}
	code, ok := opMap[strings.ToLower(fields[0])]
	if !ok {
		return Op{}, errUnknownCommand
	}
	op := Op{code: code}
	if len(fields) > 1 {
		op.arg = fields[1]
	}
	tracer().Debugf("parsed command: %v", fields)
	return op, nil
}

var commandFn = map[int]func(*Intp, Op) (bool, error){
	QUIT:  quitOp,
	HELP:  helpOp,
	INFO:  infoOp,
	GLYPH: glyphOp,
	CMAP:  cmapOp,
}

func (intp *Intp) execute(op Op) (bool, error) {
	f, ok := commandFn[op.code]
	if !ok {
		return false, errUnknownCommand
	}
	return f(intp, op)
}

func quitOp(intp *Intp, op Op) (bool, error) {
	return true, nil
}

func helpOp(intp *Intp, op Op) (bool, error) {
	pterm.Println(`
	info          print name and table information
	glyph <cp>    print metrics and outline of the glyph mapped to code-point <cp>,
	              e.g. 'glyph e001' or 'glyph U+E001'
	cmap          list all mapped code-points
	quit          leave the explorer`)
	return false, nil
}

func infoOp(intp *Intp, op Op) (bool, error) {
	printFontInfo(intp.font)
	return false, nil
}

func glyphOp(intp *Intp, op Op) (bool, error) {
	r, err := parseCodepoint(op.arg)
	if err != nil {
		return false, err
	}
	gid := fontinfo.GlyphIndex(intp.font, r)
	if gid == 0 {
		return false, fmt.Errorf("code-point U+%04X is not mapped", r)
	}
	m := fontinfo.GlyphMetrics(intp.font, gid)
	pterm.Printf("U+%04X -> glyph %d %q\n", r, gid, fontinfo.GlyphName(intp.font, gid))
	pterm.Printf("advance=%d lsb=%d rsb=%d contours=%d bbox=[%d %d %d %d]\n",
		m.Advance, m.LSB, m.RSB, m.Contours, m.BBox.MinX, m.BBox.MinY, m.BBox.MaxX, m.BBox.MaxY)
	segs, err := fontinfo.GlyphOutline(intp.font, gid)
	if err != nil {
		return false, err
	}
	pterm.Println(formatSegments(segs))
	return false, nil
}

func cmapOp(intp *Intp, op Op) (bool, error) {
	mapped, err := fontinfo.MappedCodepoints(intp.font)
	if err != nil {
		return false, err
	}
	data := [][]string{{"Code-point", "Glyph", "Name"}}
	for _, r := range mapped {
		gid := fontinfo.GlyphIndex(intp.font, r)
		data = append(data, []string{
			fmt.Sprintf("U+%04X", r),
			fmt.Sprintf("%d", gid),
			fontinfo.GlyphName(intp.font, gid),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return false, nil
}

// parseCodepoint accepts the code-point notations of a manifest's charmap.
func parseCodepoint(s string) (rune, error) {
	if s == "" {
		return 0, errors.New("code-point required, e.g. 'glyph e001'")
	}
	cps := iconfont.Unicode{s}.Codepoints()
	if len(cps) != 1 {
		return 0, fmt.Errorf("not a single code-point: %q", s)
	}
	return cps[0], nil
}

// formatSegments prints an outline in font units, y growing upwards, as SVG
// path data.
func formatSegments(segs sfnt.Segments) string {
	var sb strings.Builder
	for _, seg := range segs {
		a := seg.Args
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			fmt.Fprintf(&sb, "M%d %d", a[0].X.Round(), -a[0].Y.Round())
		case sfnt.SegmentOpLineTo:
			fmt.Fprintf(&sb, "L%d %d", a[0].X.Round(), -a[0].Y.Round())
		case sfnt.SegmentOpQuadTo:
			fmt.Fprintf(&sb, "Q%d %d %d %d", a[0].X.Round(), -a[0].Y.Round(), a[1].X.Round(), -a[1].Y.Round())
		case sfnt.SegmentOpCubeTo:
			fmt.Fprintf(&sb, "C%d %d %d %d %d %d", a[0].X.Round(), -a[0].Y.Round(),
				a[1].X.Round(), -a[1].Y.Round(), a[2].X.Round(), -a[2].Y.Round())
		}
	}
	return sb.String()
}
