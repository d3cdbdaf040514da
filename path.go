package signkit

import "math"

// Command is a single drawing command in absolute working coordinates.
// The set of implementations is closed: MoveTo, LineTo, QuadTo, CubicTo
// and Close.
type Command interface {
	isCommand()
}

// MoveTo starts a new contour at a point.
type MoveTo struct {
	Point Point
}

func (MoveTo) isCommand() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isCommand() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isCommand() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isCommand() {}

// Close closes the current contour.
type Close struct{}

func (Close) isCommand() {}

// Path accumulates commands. It is the builder used by the readers that
// produce geometry programmatically (rectangles, polygons, glyph outlines).
type Path struct {
	cmds    []Command
	start   Point
	current Point
	open    bool
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{cmds: make([]Command, 0, 16)}
}

// MoveTo starts a new contour.
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.cmds = append(p.cmds, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
	p.open = true
}

// LineTo draws a line to a point.
// Without a current point it behaves like MoveTo.
func (p *Path) LineTo(x, y float64) {
	if !p.open {
		p.MoveTo(x, y)
		return
	}
	pt := Pt(x, y)
	p.cmds = append(p.cmds, LineTo{Point: pt})
	p.current = pt
}

// QuadTo draws a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if !p.open {
		p.MoveTo(cx, cy)
	}
	pt := Pt(x, y)
	p.cmds = append(p.cmds, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !p.open {
		p.MoveTo(c1x, c1y)
	}
	pt := Pt(x, y)
	p.cmds = append(p.cmds, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    pt,
	})
	p.current = pt
}

// Close closes the current contour.
func (p *Path) Close() {
	if !p.open {
		return
	}
	p.cmds = append(p.cmds, Close{})
	p.current = p.start
	p.open = false
}

// Commands returns the accumulated commands.
func (p *Path) Commands() []Command {
	return p.cmds
}

// CurrentPoint returns the current point.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// Rectangle adds a closed axis-aligned rectangle.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// RoundedRectangle adds a closed rectangle whose corners are quarter
// ellipses with radii rx, ry, clamped to half the side lengths.
func (p *Path) RoundedRectangle(x, y, w, h, rx, ry float64) {
	rx = math.Min(rx, w/2)
	ry = math.Min(ry, h/2)
	if rx <= 0 || ry <= 0 {
		p.Rectangle(x, y, w, h)
		return
	}
	ox, oy := rx*kappa, ry*kappa
	p.MoveTo(x+rx, y)
	p.LineTo(x+w-rx, y)
	p.CubicTo(x+w-rx+ox, y, x+w, y+ry-oy, x+w, y+ry)
	p.LineTo(x+w, y+h-ry)
	p.CubicTo(x+w, y+h-ry+oy, x+w-rx+ox, y+h, x+w-rx, y+h)
	p.LineTo(x+rx, y+h)
	p.CubicTo(x+rx-ox, y+h, x, y+h-ry+oy, x, y+h-ry)
	p.LineTo(x, y+ry)
	p.CubicTo(x, y+ry-oy, x+rx-ox, y, x+rx, y)
	p.Close()
}

// Ellipse adds a closed ellipse as four cubic quadrants.
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	ox, oy := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.Close()
}

// Polygon adds a contour through pts. closed controls whether the
// contour ends with Close; open polylines are still treated as
// implicitly closed by the contour builder.
func (p *Path) Polygon(pts []Point, closed bool) {
	if len(pts) == 0 {
		return
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	if closed {
		p.Close()
	}
}

// kappa is the cubic Bezier control point distance for a quarter circle.
// Equal to 4/3 * (sqrt(2) - 1).
const kappa = 0.5522847498307936
