package signkit

import "testing"

func TestDetectRect(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want Rect
	}{
		{"HV shorthand", "M0 0 H100 V50 H0 Z", RectXYWH(0, 0, 100, 50)},
		{"explicit lines", "M10 10 L110 10 L110 60 L10 60 Z", RectXYWH(10, 10, 100, 50)},
		{"counter-clockwise", "M0 0 V50 H100 V0 Z", RectXYWH(0, 0, 100, 50)},
		{"explicit close edge", "M0 0 H100 V50 H0 V0", RectXYWH(0, 0, 100, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := DetectShape(ParsePathData(tt.d).Commands)
			if shape.Kind != ShapeRect {
				t.Fatalf("Kind = %d, want ShapeRect", shape.Kind)
			}
			if shape.Bounds != tt.want {
				t.Errorf("Bounds = %v, want %v", shape.Bounds, tt.want)
			}
		})
	}
}

func TestDetectShape_Unknown(t *testing.T) {
	rounded := NewPath()
	rounded.RoundedRectangle(0, 0, 100, 50, 5, 5)

	tests := []struct {
		name string
		cmds []Command
	}{
		{"nil", nil},
		{"triangle", ParsePathData("M0 0 L100 0 L50 50 Z").Commands},
		{"rotated square", ParsePathData("M50 0 L100 50 L50 100 L0 50 Z").Commands},
		{"two rects", ParsePathData("M0 0 H10 V10 H0 Z M20 0 H30 V10 H20 Z").Commands},
		{"arc corner", ParsePathData("M0 0 H100 A10 10 0 0 1 100 50 H0 Z").Commands},
		{"rounded rect", rounded.Commands()},
		{"zero height", ParsePathData("M0 0 H100 V0 H0 Z").Commands},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectShape(tt.cmds); got.Kind != ShapeUnknown {
				t.Errorf("Kind = %d, want ShapeUnknown", got.Kind)
			}
		})
	}
}
