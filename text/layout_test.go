package text

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func goRegular(t *testing.T) *Source {
	t.Helper()
	src, err := NewSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewSource(goregular) error = %v", err)
	}
	return src
}

func TestNewSource(t *testing.T) {
	src := goRegular(t)

	if src.Name() == "" {
		t.Error("Name() is empty")
	}
	if src.UnitsPerEm() != 2048 {
		t.Errorf("UnitsPerEm() = %v, want 2048", src.UnitsPerEm())
	}
	asc, desc := src.Extent()
	if asc <= 0 || desc <= 0 {
		t.Errorf("Extent() = %v, %v, want both positive", asc, desc)
	}
	if !src.HasGlyph('A') || src.HasGlyph('中') {
		t.Error("HasGlyph: want A present and CJK absent")
	}
}

func TestNewSource_Invalid(t *testing.T) {
	if _, err := NewSource(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("NewSource(nil) error = %v, want ErrEmptyFontData", err)
	}
	if _, err := NewSource([]byte("not a font")); err == nil {
		t.Error("NewSource(garbage) error = nil")
	}
}

func TestLayout(t *testing.T) {
	src := goRegular(t)
	const height, spacing = 200.0, 10.0

	comps, err := Layout(src, "OPEN", height, spacing)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	tests := []struct {
		label string
		holes int
	}{
		{"O", 1},
		{"P", 1},
		{"E", 0},
		{"N", 0},
	}
	if len(comps) != len(tests) {
		t.Fatalf("components = %d, want %d", len(comps), len(tests))
	}
	for i, tt := range tests {
		c := comps[i]
		if c.Label != tt.label {
			t.Errorf("component %d label = %q, want %q", i, c.Label, tt.label)
		}
		if len(c.Shapes) != 1 || len(c.Shapes[0].Holes) != tt.holes {
			t.Errorf("%s: shapes %d, want 1 with %d holes", tt.label, len(c.Shapes), tt.holes)
		}
		b, _ := c.Bounds()
		if b.Min.Y < 0 || b.Max.Y > height {
			t.Errorf("%s: bounds %v outside the letter height", tt.label, b)
		}
		if c.Advance <= 0 {
			t.Errorf("%s: Advance = %v", tt.label, c.Advance)
		}
		if i > 0 {
			prev := comps[i-1]
			if got := prev.OffsetX + prev.Advance + spacing; math.Abs(c.OffsetX-got) > 1e-9 {
				t.Errorf("%s: OffsetX = %v, want %v", tt.label, c.OffsetX, got)
			}
		}
	}

	// Capital letters stand on one baseline.
	o, _ := comps[0].Bounds()
	e, _ := comps[2].Bounds()
	if math.Abs(o.Max.Y-e.Max.Y) > 0.02*height {
		t.Errorf("baselines differ: O bottom %v, E bottom %v", o.Max.Y, e.Max.Y)
	}
}

func TestLayout_Skips(t *testing.T) {
	src := goRegular(t)

	tests := []struct {
		name   string
		s      string
		labels []string
		gap    float64 // expected extra pen movement between the components
	}{
		{"space", "A B", []string{"A", "B"}, SpaceAdvance * 100},
		{"missing glyph", "A中B", []string{"A", "B"}, SpaceAdvance * 100},
		{"two spaces", "A  B", []string{"A", "B"}, 2 * SpaceAdvance * 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comps, err := Layout(src, tt.s, 100, 0)
			if err != nil {
				t.Fatalf("Layout() error = %v", err)
			}
			if len(comps) != len(tt.labels) {
				t.Fatalf("components = %d, want %d", len(comps), len(tt.labels))
			}
			for i, want := range tt.labels {
				if comps[i].Label != want {
					t.Errorf("label %d = %q, want %q", i, comps[i].Label, want)
				}
			}
			// Kerning may shift the second letter slightly.
			got := comps[1].OffsetX - comps[0].OffsetX - comps[0].Advance
			if math.Abs(got-tt.gap) > 2 {
				t.Errorf("gap = %v, want about %v", got, tt.gap)
			}
		})
	}
}

func TestLayout_Normalizes(t *testing.T) {
	comps, err := Layout(goRegular(t), "é", 100, 0)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if len(comps) != 1 {
		t.Fatalf("components = %d, want 1", len(comps))
	}
	if comps[0].Label != "é" {
		t.Errorf("label = %q, want the precomposed e-acute", comps[0].Label)
	}
}

func TestLayout_Errors(t *testing.T) {
	src := goRegular(t)
	tests := []struct {
		name   string
		s      string
		height float64
		want   error
	}{
		{"zero height", "A", 0, ErrInvalidHeight},
		{"empty", "", 100, ErrNoGlyphs},
		{"only spaces", "   ", 100, ErrNoGlyphs},
		{"only missing", "中", 100, ErrNoGlyphs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Layout(src, tt.s, tt.height, 0); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSource_OutlineCache(t *testing.T) {
	src := goRegular(t)
	if _, err := Layout(src, "AA", 100, 0); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	s := src.outlines.Stats()
	if s.Len != 1 || s.Misses != 1 || s.Hits != 1 {
		t.Errorf("outline cache len %d, misses %d, hits %d, want 1/1/1", s.Len, s.Misses, s.Hits)
	}
}
