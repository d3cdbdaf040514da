package signkit

import "math"

// arcToCommands converts the elliptical arc of an SVG "A" command into
// cubic Bezier commands.
//
// The arc is converted from endpoint to center parameterization exactly,
// then split into pieces of at most 90 degrees. Each piece is approximated
// by one cubic with handle length 4/3*tan(theta/4). For a quarter circle the
// radial error is about 2.7e-4 of the radius (0.027 mm on a 100 mm radius),
// which is below printer resolution but not suitable for precision tolerances.
//
// Degenerate arcs follow the SVG rules: identical endpoints produce no
// commands, a zero radius produces a straight line.
func arcToCommands(from Point, rx, ry, xAxisRotation float64, largeArc, sweep bool, to Point) []Command {
	if from == to {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []Command{LineTo{Point: to}}
	}

	phi := xAxisRotation * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	// Step 1: compute (x1', y1').
	dx2 := (from.X - to.X) / 2
	dy2 := (from.Y - to.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// Scale up radii that are too small to span the endpoints.
	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	// Step 2: compute (cx', cy').
	rx2, ry2 := rx*rx, ry*ry
	num := rx2*ry2 - rx2*y1p*y1p - ry2*x1p*x1p
	den := rx2*y1p*y1p + ry2*x1p*x1p
	coef := 0.0
	if den > 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if largeArc == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	// Step 3: compute (cx, cy).
	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	// Step 4: start angle and sweep extent.
	theta1 := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta2 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	dtheta := theta2 - theta1
	if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	} else if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	}

	ellipse := func(t float64) (pt, deriv Point) {
		sinT, cosT := math.Sincos(t)
		pt = Point{
			X: cx + rx*cosT*cosPhi - ry*sinT*sinPhi,
			Y: cy + rx*cosT*sinPhi + ry*sinT*cosPhi,
		}
		deriv = Point{
			X: -rx*sinT*cosPhi - ry*cosT*sinPhi,
			Y: -rx*sinT*sinPhi + ry*cosT*cosPhi,
		}
		return pt, deriv
	}

	n := int(math.Ceil(math.Abs(dtheta)/(math.Pi/2) - 1e-9))
	if n < 1 {
		n = 1
	}
	step := dtheta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	cmds := make([]Command, 0, n)
	a := theta1
	for i := range n {
		b := a + step
		p0, d0 := ellipse(a)
		p3, d3 := ellipse(b)
		if i == n-1 {
			p3 = to
		}
		cmds = append(cmds, CubicTo{
			Control1: p0.Add(d0.Mul(k)),
			Control2: p3.Sub(d3.Mul(k)),
			Point:    p3,
		})
		a = b
	}
	return cmds
}
