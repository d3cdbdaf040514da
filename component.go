package signkit

// Component is one logical unit of a sign, such as a character or a
// disjoint piece of vector art. It owns its shapes exclusively.
type Component struct {
	// Label identifies the component: the character for text, or
	// obj_N for unlabeled art.
	Label string `json:"label"`

	Shapes []PlanarShape `json:"-"`

	// OffsetX is the left edge of the component in the composition.
	OffsetX float64 `json:"offset_x"`

	// Advance is the horizontal distance to the next component.
	Advance float64 `json:"advance"`
}

// Bounds returns the union of the shape bounds. ok is false when the
// component has no shapes.
func (c Component) Bounds() (r Rect, ok bool) {
	for i, s := range c.Shapes {
		if i == 0 {
			r = s.Bounds()
			continue
		}
		r = r.Union(s.Bounds())
	}
	return r, len(c.Shapes) > 0
}

// Area returns the total filled area of the component.
func (c Component) Area() float64 {
	var a float64
	for _, s := range c.Shapes {
		a += s.Area()
	}
	return a
}

// Perimeter returns the total boundary length of the component.
func (c Component) Perimeter() float64 {
	var p float64
	for _, s := range c.Shapes {
		p += s.Perimeter()
	}
	return p
}

// Transform returns the component with every shape mapped by m, which is
// expected to be a scale plus translation.
func (c Component) Transform(m Matrix) Component {
	out := Component{
		Label:   c.Label,
		Shapes:  make([]PlanarShape, len(c.Shapes)),
		OffsetX: m.TransformPoint(Pt(c.OffsetX, 0)).X,
		Advance: c.Advance * m.A,
	}
	for i, s := range c.Shapes {
		out.Shapes[i] = s.Transform(m)
	}
	return out
}

// compositionBounds returns the union of all component bounds.
func compositionBounds(comps []Component) (r Rect, ok bool) {
	for _, c := range comps {
		b, has := c.Bounds()
		if !has {
			continue
		}
		if !ok {
			r, ok = b, true
			continue
		}
		r = r.Union(b)
	}
	return r, ok
}
