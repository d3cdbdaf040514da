package signkit

import "math"

// ShapeKind identifies shapes recognized from raw commands.
type ShapeKind int

const (
	// ShapeUnknown indicates the commands are not a recognized primitive.
	ShapeUnknown ShapeKind = iota

	// ShapeRect indicates a single axis-aligned rectangle made only of
	// straight segments.
	ShapeRect
)

// DetectedShape holds parameters of a recognized shape.
type DetectedShape struct {
	Kind   ShapeKind
	Bounds Rect
}

// shapeDetectTolerance is the maximum allowed error for shape detection.
const shapeDetectTolerance = 1e-3

// maxSimpleRectCommands bounds the command count of a rectangle path:
// MoveTo, up to four straight edges and Close.
const maxSimpleRectCommands = 6

// DetectShape analyzes commands and returns the identified shape if
// recognized. Any curve command disqualifies a rectangle, so arcs and
// rounded corners are never reported as ShapeRect.
func DetectShape(cmds []Command) DetectedShape {
	if r, ok := detectRect(cmds); ok {
		return DetectedShape{Kind: ShapeRect, Bounds: r}
	}
	return DetectedShape{Kind: ShapeUnknown}
}

// detectRect checks for one subpath of the form MoveTo, three or four
// LineTo, optional Close, where every edge is horizontal or vertical and
// the corners form a rectangle.
func detectRect(cmds []Command) (Rect, bool) {
	if len(cmds) < 4 || len(cmds) > maxSimpleRectCommands {
		return Rect{}, false
	}
	move, ok := cmds[0].(MoveTo)
	if !ok {
		return Rect{}, false
	}

	corners := []Point{move.Point}
	for i, c := range cmds[1:] {
		switch c := c.(type) {
		case LineTo:
			corners = append(corners, c.Point)
		case Close:
			if i != len(cmds)-2 {
				return Rect{}, false
			}
		default:
			return Rect{}, false
		}
	}

	// An explicit edge back to the start is the same as Close.
	if len(corners) == 5 && corners[4].Near(corners[0], shapeDetectTolerance) {
		corners = corners[:4]
	}
	if len(corners) != 4 {
		return Rect{}, false
	}

	// Each consecutive pair of corners must share X or Y, alternating,
	// so the four edges turn at right angles.
	for i := range 4 {
		a, b := corners[i], corners[(i+1)%4]
		horizontal := math.Abs(a.Y-b.Y) <= shapeDetectTolerance
		vertical := math.Abs(a.X-b.X) <= shapeDetectTolerance
		if horizontal == vertical {
			return Rect{}, false
		}
		c := corners[(i+2)%4]
		nextHorizontal := math.Abs(b.Y-c.Y) <= shapeDetectTolerance
		if nextHorizontal == horizontal {
			return Rect{}, false
		}
	}

	r, _ := boundsOf(corners)
	if r.Width() < shapeDetectTolerance || r.Height() < shapeDetectTolerance {
		return Rect{}, false
	}
	return r, true
}
