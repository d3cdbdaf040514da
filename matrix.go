package signkit

import "math"

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{A: cos, B: -sin, D: sin, E: cos}
}

// Multiply multiplies two matrices (m * other).
// The result applies other first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// TransformCommands returns a copy of cmds with every point mapped by m.
func TransformCommands(cmds []Command, m Matrix) []Command {
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		switch c := c.(type) {
		case MoveTo:
			out[i] = MoveTo{Point: m.TransformPoint(c.Point)}
		case LineTo:
			out[i] = LineTo{Point: m.TransformPoint(c.Point)}
		case QuadTo:
			out[i] = QuadTo{Control: m.TransformPoint(c.Control), Point: m.TransformPoint(c.Point)}
		case CubicTo:
			out[i] = CubicTo{
				Control1: m.TransformPoint(c.Control1),
				Control2: m.TransformPoint(c.Control2),
				Point:    m.TransformPoint(c.Point),
			}
		case Close:
			out[i] = c
		}
	}
	return out
}
