package signkit

import (
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

// PathSyntaxError describes a malformed region of path data that was
// skipped during parsing.
type PathSyntaxError struct {
	// Offset is the byte offset where the problem was detected.
	Offset int

	// Command is the command letter being parsed, or 0 before any command.
	Command byte

	// Reason is a short description of the problem.
	Reason string
}

func (e *PathSyntaxError) Error() string {
	if e.Command == 0 {
		return fmt.Sprintf("signkit: path data offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("signkit: path data offset %d (%c): %s", e.Offset, e.Command, e.Reason)
}

// ParseResult is the outcome of parsing path data.
type ParseResult struct {
	// Commands holds the absolute commands of every well-formed subpath.
	Commands []Command

	// Issues lists the subpaths that were discarded, in input order.
	Issues []*PathSyntaxError

	// End is the cursor after the last successfully parsed command.
	End Point
}

// ParsePathData parses an SVG path data string with the cursor starting
// at the origin. See ParsePathDataAt.
func ParsePathData(d string) ParseResult {
	return ParsePathDataAt(d, Point{})
}

// ParsePathDataAt parses an SVG path data string into absolute commands.
//
// Upper-case commands are absolute and lower-case commands are relative to
// the running cursor, which starts at start. H and V become LineTo, S and T
// reflect the previous control point, and A is converted to cubics.
//
// Parsing never fails as a whole. When a token is malformed the current
// subpath is discarded, an issue is recorded and parsing resumes at the
// next M or m. The cursor keeps the last successfully parsed point.
func ParsePathDataAt(d string, start Point) ParseResult {
	p := &pathParser{
		s:      []byte(d),
		cursor: start,
		start:  start,
	}
	p.run()
	p.flush()
	return ParseResult{Commands: p.out, Issues: p.issues, End: p.cursor}
}

// pathParser holds the running state of one parse.
type pathParser struct {
	s   []byte
	pos int

	cursor Point // current point
	start  Point // start of current subpath

	// Last control points, valid only when the previous command was of
	// the matching curve family.
	lastCubic, lastQuad Point
	haveCubic, haveQuad bool

	needMove bool // a Close was seen and no MoveTo followed
	sub      []Command
	out      []Command
	issues   []*PathSyntaxError
}

func (p *pathParser) run() {
	var cmd byte
	for {
		p.skipSeparators()
		if p.pos >= len(p.s) {
			return
		}

		c := p.s[p.pos]
		switch {
		case isPathCommand(c):
			cmd = c
			p.pos++
		case cmd == 0:
			p.fail(0, "expected command letter")
			continue
		case cmd == 'Z' || cmd == 'z':
			p.fail(cmd, "unexpected data after close")
			continue
		}

		if cmd == 'Z' || cmd == 'z' {
			p.closePath()
			continue
		}

		// One mandatory argument group, then implicit repeats while
		// numbers follow.
		first := true
		for first || p.atNumber() {
			ok := p.command(cmd)
			if !ok {
				break
			}
			first = false
			// Coordinate pairs after a moveto are implicit linetos.
			if cmd == 'M' {
				cmd = 'L'
			} else if cmd == 'm' {
				cmd = 'l'
			}
		}
	}
}

// command parses one argument group of cmd and emits its commands.
// It returns false after recovering from an error.
func (p *pathParser) command(cmd byte) bool {
	rel := cmd >= 'a'
	var origin Point
	if rel {
		origin = p.cursor
	}

	switch cmd {
	case 'M', 'm':
		pt, ok := p.point(cmd, origin)
		if !ok {
			return false
		}
		p.flush()
		p.sub = append(p.sub, MoveTo{Point: pt})
		p.cursor, p.start = pt, pt
		p.needMove = false
		p.resetControls()

	case 'L', 'l':
		pt, ok := p.point(cmd, origin)
		if !ok {
			return false
		}
		p.emit(LineTo{Point: pt})
		p.cursor = pt
		p.resetControls()

	case 'H', 'h':
		x, ok := p.number(cmd)
		if !ok {
			return false
		}
		pt := Point{X: x + origin.X, Y: p.cursor.Y}
		p.emit(LineTo{Point: pt})
		p.cursor = pt
		p.resetControls()

	case 'V', 'v':
		y, ok := p.number(cmd)
		if !ok {
			return false
		}
		pt := Point{X: p.cursor.X, Y: y + origin.Y}
		p.emit(LineTo{Point: pt})
		p.cursor = pt
		p.resetControls()

	case 'C', 'c':
		pts, ok := p.points(cmd, origin, 3)
		if !ok {
			return false
		}
		p.emit(CubicTo{Control1: pts[0], Control2: pts[1], Point: pts[2]})
		p.cursor = pts[2]
		p.resetControls()
		p.lastCubic, p.haveCubic = pts[1], true

	case 'S', 's':
		pts, ok := p.points(cmd, origin, 2)
		if !ok {
			return false
		}
		c1 := p.cursor
		if p.haveCubic {
			c1 = p.lastCubic.Reflect(p.cursor)
		}
		p.emit(CubicTo{Control1: c1, Control2: pts[0], Point: pts[1]})
		p.cursor = pts[1]
		p.resetControls()
		p.lastCubic, p.haveCubic = pts[0], true

	case 'Q', 'q':
		pts, ok := p.points(cmd, origin, 2)
		if !ok {
			return false
		}
		p.emit(QuadTo{Control: pts[0], Point: pts[1]})
		p.cursor = pts[1]
		p.resetControls()
		p.lastQuad, p.haveQuad = pts[0], true

	case 'T', 't':
		pt, ok := p.point(cmd, origin)
		if !ok {
			return false
		}
		ctrl := p.cursor
		if p.haveQuad {
			ctrl = p.lastQuad.Reflect(p.cursor)
		}
		p.emit(QuadTo{Control: ctrl, Point: pt})
		p.cursor = pt
		p.resetControls()
		p.lastQuad, p.haveQuad = ctrl, true

	case 'A', 'a':
		var radii [3]float64
		for i := range radii {
			v, ok := p.number(cmd)
			if !ok {
				return false
			}
			radii[i] = v
		}
		large, ok := p.flag(cmd)
		if !ok {
			return false
		}
		sweep, ok := p.flag(cmd)
		if !ok {
			return false
		}
		pt, ok := p.point(cmd, origin)
		if !ok {
			return false
		}
		for _, c := range arcToCommands(p.cursor, radii[0], radii[1], radii[2], large, sweep, pt) {
			p.emit(c)
		}
		p.cursor = pt
		p.resetControls()
	}
	return true
}

// emit appends a drawing command to the current subpath, opening a new
// subpath at the cursor when the previous one was closed.
func (p *pathParser) emit(c Command) {
	if p.needMove || len(p.sub) == 0 {
		p.flush()
		p.sub = append(p.sub, MoveTo{Point: p.cursor})
		p.start = p.cursor
		p.needMove = false
	}
	p.sub = append(p.sub, c)
}

// closePath ends the current subpath. A closed subpath is complete, so
// it is flushed and later errors cannot discard it.
func (p *pathParser) closePath() {
	if len(p.sub) > 0 {
		p.sub = append(p.sub, Close{})
		p.flush()
	}
	p.cursor = p.start
	p.needMove = true
	p.resetControls()
}

// flush moves the current subpath to the output. A lone MoveTo is dropped.
func (p *pathParser) flush() {
	if len(p.sub) > 1 {
		p.out = append(p.out, p.sub...)
	}
	p.sub = p.sub[:0:0]
}

func (p *pathParser) resetControls() {
	p.haveCubic, p.haveQuad = false, false
}

// fail discards the current subpath and skips to the next moveto.
func (p *pathParser) fail(cmd byte, reason string) {
	e := &PathSyntaxError{Offset: p.pos, Command: cmd, Reason: reason}
	p.issues = append(p.issues, e)
	Logger().Debug("path data: subpath skipped",
		"offset", e.Offset, "reason", reason, "dropped", len(p.sub))
	p.sub = p.sub[:0:0]
	p.needMove = false
	p.resetControls()

	for p.pos < len(p.s) && p.s[p.pos] != 'M' && p.s[p.pos] != 'm' {
		p.pos++
	}
}

func (p *pathParser) number(cmd byte) (float64, bool) {
	p.skipSeparators()
	if p.pos >= len(p.s) {
		p.fail(cmd, "missing argument")
		return 0, false
	}
	v, n := strconv.ParseFloat(p.s[p.pos:])
	if n == 0 {
		p.fail(cmd, "invalid number")
		return 0, false
	}
	p.pos += n
	return v, true
}

func (p *pathParser) point(cmd byte, origin Point) (Point, bool) {
	x, ok := p.number(cmd)
	if !ok {
		return Point{}, false
	}
	y, ok := p.number(cmd)
	if !ok {
		return Point{}, false
	}
	return Point{X: x + origin.X, Y: y + origin.Y}, true
}

func (p *pathParser) points(cmd byte, origin Point, n int) ([]Point, bool) {
	pts := make([]Point, n)
	for i := range pts {
		pt, ok := p.point(cmd, origin)
		if !ok {
			return nil, false
		}
		pts[i] = pt
	}
	return pts, true
}

// flag parses an arc flag, which is a single 0 or 1 that may be written
// without a separator before the next argument.
func (p *pathParser) flag(cmd byte) (bool, bool) {
	p.skipSeparators()
	if p.pos >= len(p.s) {
		p.fail(cmd, "missing arc flag")
		return false, false
	}
	switch p.s[p.pos] {
	case '0':
		p.pos++
		return false, true
	case '1':
		p.pos++
		return true, true
	}
	p.fail(cmd, "invalid arc flag")
	return false, false
}

func (p *pathParser) skipSeparators() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			p.pos++
		default:
			return
		}
	}
}

func (p *pathParser) atNumber() bool {
	p.skipSeparators()
	if p.pos >= len(p.s) {
		return false
	}
	c := p.s[p.pos]
	return c == '-' || c == '+' || c == '.' || ('0' <= c && c <= '9')
}

func isPathCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's',
		'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}
