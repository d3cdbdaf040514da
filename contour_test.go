package signkit

import (
	"math"
	"testing"
)

func TestBuildContours_SignedArea(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want float64
	}{
		{"clockwise square", "M0 0 H10 V10 H0 Z", 100},
		{"counter-clockwise square", "M0 0 V10 H10 V0 Z", -100},
		{"clockwise triangle", "M0 0 L10 0 L0 10 Z", 50},
		{"counter-clockwise triangle", "M0 0 L0 10 L10 0 Z", -50},
		{"open contour closes implicitly", "M0 0 H10 V10", 50},
		{"explicit closing edge", "M0 0 H10 V10 H0 V0 Z", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contours := BuildContours(ParsePathData(tt.d).Commands)
			if len(contours) != 1 {
				t.Fatalf("contours = %d, want 1", len(contours))
			}
			if got := contours[0].SignedArea(); math.Abs(got-tt.want) > epsilon {
				t.Errorf("SignedArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildContours_Count(t *testing.T) {
	tests := []struct {
		name string
		cmds []Command
		want int
	}{
		{"empty path data", ParsePathData("").Commands, 0},
		{"nil", nil, 0},
		{"two squares", ParsePathData("M0 0 H10 V10 H0 Z M20 0 H30 V10 H20 Z").Commands, 2},
		{"two points", ParsePathData("M0 0 L10 0 Z").Commands, 0},
		{"collinear", ParsePathData("M0 0 L10 0 L20 0 Z").Commands, 0},
		{"degenerate between good", ParsePathData("M0 0 H10 V10 Z M5 5 L6 5 Z M20 0 H30 V10 Z").Commands, 2},
		{"drawing without moveto", []Command{LineTo{Pt(10, 0)}, LineTo{Pt(10, 10)}, Close{}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(BuildContours(tt.cmds)); got != tt.want {
				t.Errorf("len(BuildContours) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContour_Points(t *testing.T) {
	contours := BuildContours(ParsePathData("M0 0 H10 V10 H0 V0 Z").Commands)
	if got := len(contours[0].Points); got != 4 {
		t.Errorf("points = %d, want 4 (closing point not repeated)", got)
	}

	curved := BuildContours(ParsePathData("M0 0 Q5 10 10 0 Z").Commands)
	if got, want := len(curved[0].Points), 1+CurveSubdivisions; got != want {
		t.Errorf("points = %d, want %d", got, want)
	}
}

func TestContour_Measures(t *testing.T) {
	c := BuildContours(ParsePathData("M10 20 h30 v40 h-30 z").Commands)[0]

	if got := c.Perimeter(); math.Abs(got-140) > epsilon {
		t.Errorf("Perimeter() = %v, want 140", got)
	}
	if got := c.Bounds(); got != RectXYWH(10, 20, 30, 40) {
		t.Errorf("Bounds() = %v", got)
	}
	if !c.Contains(Pt(25, 40)) {
		t.Error("Contains(center) = false")
	}
	if c.Contains(Pt(5, 40)) {
		t.Error("Contains(outside) = true")
	}
}

func TestContour_Reversed(t *testing.T) {
	c := BuildContours(ParsePathData("M0 0 H10 Q15 5 10 10 H0 Z").Commands)[0]
	r := c.Reversed()

	if math.Abs(r.SignedArea()+c.SignedArea()) > epsilon {
		t.Errorf("reversed area = %v, want %v", r.SignedArea(), -c.SignedArea())
	}

	// The reversed commands describe the same outline.
	again := BuildContours(r.Commands)
	if len(again) != 1 {
		t.Fatalf("reversed commands built %d contours", len(again))
	}
	if math.Abs(again[0].SignedArea()-r.SignedArea()) > 1e-6 {
		t.Errorf("rebuilt area = %v, want %v", again[0].SignedArea(), r.SignedArea())
	}
	if _, ok := r.Commands[len(r.Commands)-1].(Close); !ok {
		t.Error("reversed contour lost its Close")
	}
}

func TestContour_Transform(t *testing.T) {
	c := BuildContours(ParsePathData("M0 0 H10 V10 H0 Z").Commands)[0]
	got := c.Transform(Scale(2, 3).Multiply(Translate(1, 1)))

	if a := got.SignedArea(); math.Abs(a-600) > epsilon {
		t.Errorf("SignedArea() = %v, want 600", a)
	}
	if b := got.Bounds(); b != RectXYWH(2, 3, 20, 30) {
		t.Errorf("Bounds() = %v", b)
	}
	if m := got.Commands[0].(MoveTo); m.Point != Pt(2, 3) {
		t.Errorf("MoveTo = %v, want (2, 3)", m.Point)
	}
}

func TestPointInPolygon(t *testing.T) {
	// Concave U shape.
	poly := []Point{Pt(0, 0), Pt(30, 0), Pt(30, 30), Pt(20, 30), Pt(20, 10), Pt(10, 10), Pt(10, 30), Pt(0, 30)}
	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(5, 20), true},
		{Pt(25, 20), true},
		{Pt(15, 5), true},
		{Pt(15, 20), false},
		{Pt(40, 5), false},
		{Pt(-1, -1), false},
	}
	for _, tt := range tests {
		if got := PointInPolygon(tt.p, poly); got != tt.want {
			t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
