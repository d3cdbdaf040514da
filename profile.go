package signkit

import (
	"fmt"
	"math"
	"strings"
)

// ProfileKind is the edge profile of an extruded letter face.
type ProfileKind string

// Profile kinds.
const (
	ProfileFlat    ProfileKind = "flat"
	ProfileRounded ProfileKind = "rounded"
	ProfileChamfer ProfileKind = "chamfer"
)

// ParseProfileKind parses a profile name, case-insensitively. An empty
// name selects ProfileFlat.
func ParseProfileKind(s string) (ProfileKind, error) {
	switch k := ProfileKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return ProfileFlat, nil
	case ProfileFlat, ProfileRounded, ProfileChamfer:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProfile, s)
}

// ExtrusionProfile describes the solid's cross-section for the extrusion
// kernel. BevelThickness and BevelSize never exceed Depth, and
// BevelSegments is at least 1 whenever BevelEnabled is set.
type ExtrusionProfile struct {
	Kind           ProfileKind `json:"kind"`
	Depth          float64     `json:"depth"`
	BevelEnabled   bool        `json:"bevel_enabled"`
	BevelThickness float64     `json:"bevel_thickness"`
	BevelSize      float64     `json:"bevel_size"`
	BevelSegments  int         `json:"bevel_segments"`
}

// Bevel proportions and absolute caps in millimetres.
const (
	roundedBevelRatio    = 0.10
	roundedBevelCap      = 5.0
	roundedBevelSegments = 5

	chamferBevelRatio    = 0.15
	chamferBevelCap      = 8.0
	chamferBevelSegments = 1
)

// ResolveProfile maps a profile kind and depth to bevel parameters.
//
// Flat has no bevel. Rounded uses min(10% of depth, 5 mm) with a
// multi-segment bevel. Chamfer uses min(15% of depth, 8 mm) with a single
// segment. A non-positive depth yields no bevel. Unknown kinds resolve
// as flat.
func ResolveProfile(kind ProfileKind, depth float64) ExtrusionProfile {
	p := ExtrusionProfile{Kind: kind, Depth: depth}
	if depth <= 0 {
		return p
	}

	var ratio, limit float64
	var segments int
	switch kind {
	case ProfileRounded:
		ratio, limit, segments = roundedBevelRatio, roundedBevelCap, roundedBevelSegments
	case ProfileChamfer:
		ratio, limit, segments = chamferBevelRatio, chamferBevelCap, chamferBevelSegments
	default:
		p.Kind = ProfileFlat
		return p
	}

	size := math.Min(math.Min(depth*ratio, limit), depth)
	p.BevelEnabled = true
	p.BevelThickness = size
	p.BevelSize = size
	p.BevelSegments = segments
	return p
}
