package signkit

import (
	"errors"
	"testing"
)

func TestResolveProfile(t *testing.T) {
	tests := []struct {
		name         string
		kind         ProfileKind
		depth        float64
		wantKind     ProfileKind
		wantBevel    bool
		wantSize     float64
		wantSegments int
	}{
		{"flat", ProfileFlat, 50, ProfileFlat, false, 0, 0},
		{"rounded depth 100 capped", ProfileRounded, 100, ProfileRounded, true, 5, 5},
		{"rounded depth 30", ProfileRounded, 30, ProfileRounded, true, 3, 5},
		{"chamfer depth 100 capped", ProfileChamfer, 100, ProfileChamfer, true, 8, 1},
		{"chamfer depth 20", ProfileChamfer, 20, ProfileChamfer, true, 3, 1},
		{"zero depth", ProfileRounded, 0, ProfileRounded, false, 0, 0},
		{"negative depth", ProfileChamfer, -5, ProfileChamfer, false, 0, 0},
		{"unknown kind is flat", ProfileKind("wavy"), 50, ProfileFlat, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ResolveProfile(tt.kind, tt.depth)
			if p.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", p.Kind, tt.wantKind)
			}
			if p.BevelEnabled != tt.wantBevel {
				t.Fatalf("BevelEnabled = %v, want %v", p.BevelEnabled, tt.wantBevel)
			}
			if p.Depth != tt.depth {
				t.Errorf("Depth = %v, want %v", p.Depth, tt.depth)
			}
			if !tt.wantBevel {
				if p.BevelSize != 0 || p.BevelThickness != 0 || p.BevelSegments != 0 {
					t.Errorf("bevel parameters set without bevel: %+v", p)
				}
				return
			}
			if !almostEqual(p.BevelSize, tt.wantSize) || !almostEqual(p.BevelThickness, tt.wantSize) {
				t.Errorf("bevel = %v/%v, want %v", p.BevelSize, p.BevelThickness, tt.wantSize)
			}
			if p.BevelSize > p.Depth || p.BevelThickness > p.Depth {
				t.Errorf("bevel exceeds depth: %+v", p)
			}
			if p.BevelSegments != tt.wantSegments {
				t.Errorf("BevelSegments = %d, want %d", p.BevelSegments, tt.wantSegments)
			}
		})
	}
}

func TestResolveProfile_RoundedNeverExceedsTenPercent(t *testing.T) {
	for _, depth := range []float64{1, 5, 10, 40, 49.9, 100, 200} {
		p := ResolveProfile(ProfileRounded, depth)
		if p.BevelSize > 0.1*depth+epsilon {
			t.Errorf("depth %v: BevelSize = %v, want <= %v", depth, p.BevelSize, 0.1*depth)
		}
	}
}

func TestParseProfileKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ProfileKind
		wantErr bool
	}{
		{"", ProfileFlat, false},
		{"flat", ProfileFlat, false},
		{" Rounded ", ProfileRounded, false},
		{"CHAMFER", ProfileChamfer, false},
		{"bevel", "", true},
	}
	for _, tt := range tests {
		got, err := ParseProfileKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseProfileKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownProfile) {
			t.Errorf("ParseProfileKind(%q) error = %v, want ErrUnknownProfile", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseProfileKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < epsilon && d > -epsilon
}
