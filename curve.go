package signkit

// CurveSubdivisions is the fixed number of line segments each curve is
// flattened into. It is enough for winding, containment and bounds
// decisions; render fidelity is left to the extrusion kernel.
const CurveSubdivisions = 16

// QuadBez represents a quadratic Bezier curve.
type QuadBez struct {
	P0, P1, P2 Point
}

// Eval evaluates the curve at parameter t (0 to 1).
func (q QuadBez) Eval(t float64) Point {
	mt := 1.0 - t
	// (1-t)^2 * P0 + 2(1-t)t * P1 + t^2 * P2
	return Point{
		X: mt*mt*q.P0.X + 2*mt*t*q.P1.X + t*t*q.P2.X,
		Y: mt*mt*q.P0.Y + 2*mt*t*q.P1.Y + t*t*q.P2.Y,
	}
}

// CubicBez represents a cubic Bezier curve.
type CubicBez struct {
	P0, P1, P2, P3 Point
}

// Eval evaluates the curve at parameter t (0 to 1).
func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	// (1-t)^3 * P0 + 3(1-t)^2*t * P1 + 3(1-t)*t^2 * P2 + t^3 * P3
	return Point{
		X: mt3*c.P0.X + 3*mt2*t*c.P1.X + 3*mt*t2*c.P2.X + t3*c.P3.X,
		Y: mt3*c.P0.Y + 3*mt2*t*c.P1.Y + 3*mt*t2*c.P2.Y + t3*c.P3.Y,
	}
}

// appendFlattened appends n evenly spaced samples of a curve, excluding
// t=0 and including t=1.
func appendFlattened(dst []Point, eval func(float64) Point, n int) []Point {
	if n < 1 {
		n = 1
	}
	for i := 1; i <= n; i++ {
		dst = append(dst, eval(float64(i)/float64(n)))
	}
	return dst
}
