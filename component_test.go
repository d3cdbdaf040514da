package signkit

import "testing"

func TestComponent_Geometry(t *testing.T) {
	c := Component{Label: "L", Shapes: append(shapesOf(t, "M0 0 H10 V50 H0 Z"), shapesOf(t, "M10 40 H40 V50 H10 Z")...)}

	b, ok := c.Bounds()
	if !ok {
		t.Fatal("Bounds() ok = false")
	}
	if b != RectXYWH(0, 0, 40, 50) {
		t.Errorf("Bounds() = %v, want (0,0)-(40,50)", b)
	}
	if got := c.Area(); got != 500+300 {
		t.Errorf("Area() = %v, want 800", got)
	}
	if got := c.Perimeter(); got != 120+80 {
		t.Errorf("Perimeter() = %v, want 200", got)
	}

	if _, ok := (Component{Label: " "}).Bounds(); ok {
		t.Error("empty component Bounds() ok = true")
	}
}

func TestComponent_Transform(t *testing.T) {
	c := Component{Label: "o", Shapes: shapesOf(t, "M10 0 H30 V20 H10 Z M15 5 V15 H25 V5 Z"), OffsetX: 10, Advance: 25}
	m := Scale(2, 2).Multiply(Translate(-10, 0))

	got := c.Transform(m)
	if got.Label != "o" || got.OffsetX != 0 || got.Advance != 50 {
		t.Errorf("Transform() = %q offset %v advance %v, want o 0 50", got.Label, got.OffsetX, got.Advance)
	}
	if b, _ := got.Bounds(); b != RectXYWH(0, 0, 40, 40) {
		t.Errorf("Bounds() = %v, want (0,0)-(40,40)", b)
	}
	if got.Shapes[0].Outer.SignedArea() <= 0 || got.Shapes[0].Holes[0].SignedArea() >= 0 {
		t.Error("orientation lost in Transform")
	}
	if b, _ := c.Bounds(); b != RectXYWH(10, 0, 20, 20) {
		t.Errorf("Transform modified the receiver: %v", b)
	}
}

func TestCompositionBounds(t *testing.T) {
	comps := []Component{
		{Label: " "},
		{Label: "a", Shapes: shapesOf(t, "M0 10 H10 V20 H0 Z")},
		{Label: "b", Shapes: shapesOf(t, "M30 0 H40 V15 H30 Z")},
	}
	r, ok := compositionBounds(comps)
	if !ok || r != RectXYWH(0, 0, 40, 20) {
		t.Errorf("compositionBounds() = %v, %v, want (0,0)-(40,20)", r, ok)
	}
	if _, ok := compositionBounds(comps[:1]); ok {
		t.Error("compositionBounds of empty components ok = true")
	}
}

func TestGroupComponents(t *testing.T) {
	elements := []Element{
		{Label: "x", Fill: "red"},
		{},
		{Label: "x", Fill: "blue"},
		{Fill: "white"},
	}
	shapes := [][]PlanarShape{
		shapesOf(t, "M0 0 H10 V10 H0 Z"),
		shapesOf(t, "M20 0 H30 V10 H20 Z M40 0 H50 V10 H40 Z"),
		shapesOf(t, "M0 20 H10 V30 H0 Z"),
		nil,
	}
	comps, fills := groupComponents(elements, shapes)

	labels := []string{"x", "obj_1", "obj_2"}
	if len(comps) != len(labels) {
		t.Fatalf("components = %d, want %d", len(comps), len(labels))
	}
	for i, want := range labels {
		if comps[i].Label != want {
			t.Errorf("component %d label = %q, want %q", i, comps[i].Label, want)
		}
	}
	if len(comps[0].Shapes) != 2 {
		t.Errorf("x shapes = %d, want 2", len(comps[0].Shapes))
	}
	if len(fills) != 4 {
		t.Fatalf("fills = %d, want 4", len(fills))
	}
	if fills[0] == fills[1] {
		t.Error("red and blue fills collapsed")
	}
}
