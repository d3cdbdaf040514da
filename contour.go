package signkit

import "math"

// Contour is one closed loop of commands together with its flattened
// polyline. The first command is always a MoveTo.
type Contour struct {
	// Commands is the exact outline, starting with MoveTo.
	Commands []Command

	// Points is the flattened polyline used for analysis. The closing
	// point is not repeated.
	Points []Point
}

// BuildContours splits commands into contours at each MoveTo and flattens
// curves into CurveSubdivisions line segments. Contours with fewer than
// three distinct points or a zero-size bounding box are dropped.
func BuildContours(cmds []Command) []Contour {
	var (
		contours []Contour
		cur      []Command
	)
	finish := func() {
		if c, ok := newContour(cur); ok {
			contours = append(contours, c)
		} else if len(cur) > 0 {
			Logger().Debug("contour dropped as degenerate", "commands", len(cur))
		}
		cur = nil
	}

	for _, c := range cmds {
		switch c.(type) {
		case MoveTo:
			finish()
			cur = append(cur, c)
		case Close:
			if len(cur) > 0 {
				cur = append(cur, c)
				finish()
			}
		default:
			if len(cur) == 0 {
				// Drawing without a MoveTo is not a contour.
				continue
			}
			cur = append(cur, c)
		}
	}
	finish()
	return contours
}

// newContour flattens cmds and reports whether the result is a usable
// polygon.
func newContour(cmds []Command) (Contour, bool) {
	if len(cmds) < 2 {
		return Contour{}, false
	}
	pts := flatten(cmds)
	pts = dedupe(pts)
	if len(pts) < 3 {
		return Contour{}, false
	}
	r, _ := boundsOf(pts)
	if r.Width() == 0 || r.Height() == 0 {
		return Contour{}, false
	}
	return Contour{Commands: cmds, Points: pts}, true
}

// flatten converts a single-contour command run into a polyline.
func flatten(cmds []Command) []Point {
	pts := make([]Point, 0, len(cmds)*2)
	var cur Point
	for _, c := range cmds {
		switch c := c.(type) {
		case MoveTo:
			cur = c.Point
			pts = append(pts, cur)
		case LineTo:
			cur = c.Point
			pts = append(pts, cur)
		case QuadTo:
			q := QuadBez{P0: cur, P1: c.Control, P2: c.Point}
			pts = appendFlattened(pts, q.Eval, CurveSubdivisions)
			cur = c.Point
		case CubicTo:
			cb := CubicBez{P0: cur, P1: c.Control1, P2: c.Control2, P3: c.Point}
			pts = appendFlattened(pts, cb.Eval, CurveSubdivisions)
			cur = c.Point
		case Close:
		}
	}
	return pts
}

// dedupe removes consecutive duplicates and a closing point equal to the
// first point.
func dedupe(pts []Point) []Point {
	out := pts[:0]
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Near(p, pointEpsilon) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Near(out[0], pointEpsilon) {
		out = out[:len(out)-1]
	}
	return out
}

// pointEpsilon is the distance under which two points are the same vertex.
const pointEpsilon = 1e-9

// SignedArea returns the Shoelace signed area of the contour polygon.
// In the y-down working frame a clockwise-on-screen contour is positive.
func (c Contour) SignedArea() float64 {
	return SignedArea(c.Points)
}

// Area returns the absolute area of the contour polygon.
func (c Contour) Area() float64 {
	return math.Abs(c.SignedArea())
}

// Bounds returns the bounding box of the flattened polygon.
func (c Contour) Bounds() Rect {
	r, _ := boundsOf(c.Points)
	return r
}

// Perimeter returns the length of the closed polygon.
func (c Contour) Perimeter() float64 {
	n := len(c.Points)
	var sum float64
	for i := range n {
		sum += c.Points[i].Distance(c.Points[(i+1)%n])
	}
	return sum
}

// Contains reports whether p lies inside the contour polygon.
func (c Contour) Contains(p Point) bool {
	return PointInPolygon(p, c.Points)
}

// Reversed returns the contour traversed in the opposite direction.
func (c Contour) Reversed() Contour {
	return Contour{Commands: reverseCommands(c.Commands), Points: reversePoints(c.Points)}
}

// Transform returns the contour with every point mapped by m.
func (c Contour) Transform(m Matrix) Contour {
	pts := make([]Point, len(c.Points))
	for i, p := range c.Points {
		pts[i] = m.TransformPoint(p)
	}
	return Contour{Commands: TransformCommands(c.Commands, m), Points: pts}
}

// SignedArea computes the Shoelace signed area of a closed polygon.
func SignedArea(pts []Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := range n {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

// PointInPolygon is the even-odd ray casting test. Points exactly on an
// edge may report either result.
func PointInPolygon(p Point, poly []Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func reversePoints(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// reverseCommands reverses the direction of a single closed contour,
// keeping curve control points attached to their segments.
func reverseCommands(cmds []Command) []Command {
	if len(cmds) == 0 {
		return nil
	}
	// Collect the end point of every command to walk segments backwards.
	ends := make([]Point, 0, len(cmds))
	for _, c := range cmds {
		switch c := c.(type) {
		case MoveTo:
			ends = append(ends, c.Point)
		case LineTo:
			ends = append(ends, c.Point)
		case QuadTo:
			ends = append(ends, c.Point)
		case CubicTo:
			ends = append(ends, c.Point)
		}
	}
	last := ends[len(ends)-1]
	closed := false
	if _, ok := cmds[len(cmds)-1].(Close); ok {
		closed = true
	}

	out := make([]Command, 0, len(cmds)+1)
	out = append(out, MoveTo{Point: last})
	seg := len(ends) - 1
	for i := len(cmds) - 1; i >= 1; i-- {
		switch c := cmds[i].(type) {
		case LineTo:
			out = append(out, LineTo{Point: ends[seg-1]})
			seg--
		case QuadTo:
			out = append(out, QuadTo{Control: c.Control, Point: ends[seg-1]})
			seg--
		case CubicTo:
			out = append(out, CubicTo{Control1: c.Control2, Control2: c.Control1, Point: ends[seg-1]})
			seg--
		}
	}
	if closed {
		out = append(out, Close{})
	}
	return out
}
