package signkit

import (
	"math"
	"sort"
)

// PlanarShape is one outer boundary plus the holes cut out of it.
// The outer contour has positive signed area and holes negative, so the
// shape can be filled with the nonzero rule.
type PlanarShape struct {
	Outer Contour
	Holes []Contour
}

// Bounds returns the bounding box of the outer contour.
func (s PlanarShape) Bounds() Rect {
	return s.Outer.Bounds()
}

// Area returns the filled area: the outer area minus the hole areas.
func (s PlanarShape) Area() float64 {
	a := s.Outer.Area()
	for _, h := range s.Holes {
		a -= h.Area()
	}
	return math.Max(a, 0)
}

// Perimeter returns the total boundary length, holes included.
func (s PlanarShape) Perimeter() float64 {
	p := s.Outer.Perimeter()
	for _, h := range s.Holes {
		p += h.Perimeter()
	}
	return p
}

// StrokeWidth estimates the average stroke width as 2*area/perimeter,
// which is exact for long thin strokes.
func (s PlanarShape) StrokeWidth() float64 {
	per := s.Perimeter()
	if per == 0 {
		return 0
	}
	return 2 * s.Area() / per
}

// Transform returns the shape with every contour mapped by m. A mirroring
// transform flips winding, so orientation is normalized afterwards.
func (s PlanarShape) Transform(m Matrix) PlanarShape {
	out := PlanarShape{Outer: s.Outer.Transform(m)}
	if len(s.Holes) > 0 {
		out.Holes = make([]Contour, len(s.Holes))
		for i, h := range s.Holes {
			out.Holes[i] = h.Transform(m)
		}
	}
	return out.normalized()
}

// Commands returns all contours of the shape as one command list.
func (s PlanarShape) Commands() []Command {
	cmds := append([]Command(nil), s.Outer.Commands...)
	for _, h := range s.Holes {
		cmds = append(cmds, h.Commands...)
	}
	return cmds
}

func (s PlanarShape) normalized() PlanarShape {
	if s.Outer.SignedArea() < 0 {
		s.Outer = s.Outer.Reversed()
	}
	for i, h := range s.Holes {
		if h.SignedArea() > 0 {
			s.Holes[i] = h.Reversed()
		}
	}
	return s
}

// ClassifyMode selects how contours are split into outers and holes.
type ClassifyMode int

const (
	// ClassifyByWinding treats the contour orientation as authoritative:
	// contours whose signed area has the outer sign are outers, the rest
	// are holes.
	ClassifyByWinding ClassifyMode = iota

	// ClassifyByNesting ignores orientation and uses even-odd nesting
	// depth: a contour inside an odd number of others is a hole. This
	// suits art exported with the evenodd fill rule.
	ClassifyByNesting
)

// String returns the mode name.
func (m ClassifyMode) String() string {
	switch m {
	case ClassifyByWinding:
		return "winding"
	case ClassifyByNesting:
		return "nesting"
	default:
		return "unknown"
	}
}

// OuterSign selects which signed-area sign marks an outer boundary.
type OuterSign int

const (
	// OuterSignAuto takes the sign of the largest contour, which is
	// always an outer boundary.
	OuterSignAuto OuterSign = iota

	// OuterSignPositive marks positive-area contours as outers.
	OuterSignPositive

	// OuterSignNegative marks negative-area contours as outers, as
	// y-up font outlines do after flipping into the y-down frame.
	OuterSignNegative
)

// ClassifyOption configures ClassifyContours.
type ClassifyOption func(*classifyOptions)

type classifyOptions struct {
	mode ClassifyMode
	sign OuterSign
}

// WithClassifyMode selects the classification strategy.
func WithClassifyMode(m ClassifyMode) ClassifyOption {
	return func(o *classifyOptions) {
		o.mode = m
	}
}

// WithOuterSign fixes the outer sign instead of detecting it.
func WithOuterSign(s OuterSign) ClassifyOption {
	return func(o *classifyOptions) {
		o.sign = s
	}
}

// ClassifyContours splits the contours of one component into outer
// boundaries and holes and attaches every hole to its enclosing outer.
//
// Each hole is tested with its first vertex against the outers in input
// order and attached to the first outer that contains it. When outers
// overlap this is an approximation, not a topological guarantee. Holes
// that no outer contains are dropped.
//
// The result keeps the input order of the outers.
func ClassifyContours(contours []Contour, opts ...ClassifyOption) []PlanarShape {
	o := classifyOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if len(contours) == 0 {
		return nil
	}

	var isOuter []bool
	switch o.mode {
	case ClassifyByNesting:
		isOuter = outersByNesting(contours)
	default:
		isOuter = outersByWinding(contours, o.sign)
	}

	var shapes []PlanarShape
	outerOf := make([]int, len(contours)) // shape index per outer contour
	for i, c := range contours {
		outerOf[i] = -1
		if isOuter[i] {
			outerOf[i] = len(shapes)
			shapes = append(shapes, PlanarShape{Outer: c})
		}
	}

	for i, h := range contours {
		if isOuter[i] {
			continue
		}
		rep := h.Points[0]
		parent := -1
		for j, c := range contours {
			if !isOuter[j] || j == i {
				continue
			}
			if o.mode == ClassifyByNesting && !containsContour(c, h) {
				continue
			}
			if c.Contains(rep) {
				parent = outerOf[j]
				break
			}
		}
		if parent < 0 {
			Logger().Debug("hole dropped: no enclosing outer", "index", i, "area", h.Area())
			continue
		}
		shapes[parent].Holes = append(shapes[parent].Holes, h)
	}

	for i := range shapes {
		shapes[i] = shapes[i].normalized()
	}
	return shapes
}

func outersByWinding(contours []Contour, sign OuterSign) []bool {
	outerPositive := true
	switch sign {
	case OuterSignNegative:
		outerPositive = false
	case OuterSignAuto:
		largest := 0
		for i, c := range contours {
			if c.Area() > contours[largest].Area() {
				largest = i
			}
		}
		outerPositive = contours[largest].SignedArea() > 0
	}

	isOuter := make([]bool, len(contours))
	for i, c := range contours {
		isOuter[i] = (c.SignedArea() > 0) == outerPositive
	}
	return isOuter
}

// outersByNesting marks contours at even nesting depth as outers.
func outersByNesting(contours []Contour) []bool {
	// Sorting by area lets each contour only be tested against larger ones.
	order := make([]int, len(contours))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return contours[order[a]].Area() > contours[order[b]].Area()
	})

	isOuter := make([]bool, len(contours))
	for k, i := range order {
		depth := 0
		for _, j := range order[:k] {
			if containsContour(contours[j], contours[i]) {
				depth++
			}
		}
		isOuter[i] = depth%2 == 0
	}
	return isOuter
}

// containsContour reports whether inner lies inside outer, judged by
// bounding boxes and a representative vertex.
func containsContour(outer, inner Contour) bool {
	ob, ib := outer.Bounds(), inner.Bounds()
	if !ob.Contains(ib.Min) || !ob.Contains(ib.Max) {
		return false
	}
	return outer.Contains(inner.Points[0])
}
