package signkit

import (
	"fmt"
	"math"
	"strings"
)

// formatPrecision is the number of decimals kept by FormatPathData.
const formatPrecision = 1e3

// FormatPathData writes cmds as absolute SVG path data. Coordinates are
// rounded to three decimals, which is micrometre precision for outlines
// in millimetres.
func FormatPathData(cmds []Command) string {
	var sb strings.Builder
	for _, cmd := range cmds {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		switch c := cmd.(type) {
		case MoveTo:
			fmt.Fprintf(&sb, "M%g %g", num(c.Point.X), num(c.Point.Y))
		case LineTo:
			fmt.Fprintf(&sb, "L%g %g", num(c.Point.X), num(c.Point.Y))
		case QuadTo:
			fmt.Fprintf(&sb, "Q%g %g %g %g",
				num(c.Control.X), num(c.Control.Y), num(c.Point.X), num(c.Point.Y))
		case CubicTo:
			fmt.Fprintf(&sb, "C%g %g %g %g %g %g",
				num(c.Control1.X), num(c.Control1.Y), num(c.Control2.X), num(c.Control2.Y),
				num(c.Point.X), num(c.Point.Y))
		case Close:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

func num(v float64) float64 {
	r := math.Round(v*formatPrecision) / formatPrecision
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
