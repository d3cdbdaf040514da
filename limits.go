package signkit

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ManufacturingLimits are the physical bounds every request is checked
// against. All lengths are millimetres.
type ManufacturingLimits struct {
	MinHeight          float64 `json:"min_height"`
	MaxHeight          float64 `json:"max_height"`
	MinDepth           float64 `json:"min_depth"`
	MaxDepth           float64 `json:"max_depth"`
	MinWallThickness   float64 `json:"min_wall_thickness"`
	MaxSinglePieceSize float64 `json:"max_single_piece_size"`
	MinStrokeWidth     float64 `json:"min_stroke_width"`
}

// DefaultLimits returns the limits for FDM printing on a 400 mm bed.
func DefaultLimits() ManufacturingLimits {
	return ManufacturingLimits{
		MinHeight:          30,
		MaxHeight:          3000,
		MinDepth:           5,
		MaxDepth:           200,
		MinWallThickness:   1.5,
		MaxSinglePieceSize: 400,
		MinStrokeWidth:     3,
	}
}

// LightingType selects how a letter is lit, which decides its construction.
type LightingType string

// Lighting types.
const (
	LightingNone         LightingType = "none"
	LightingChannel      LightingType = "channel"
	LightingChannelFront LightingType = "channel_front"
	LightingFront        LightingType = "front"
	LightingHalo         LightingType = "halo"
	LightingFrontHalo    LightingType = "front_halo"
)

// LightingTypes lists every lighting type in display order.
var LightingTypes = []LightingType{
	LightingNone, LightingChannel, LightingChannelFront,
	LightingFront, LightingHalo, LightingFrontHalo,
}

// ParseLightingType parses a lighting type name, case-insensitively.
func ParseLightingType(s string) (LightingType, error) {
	t := LightingType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return LightingNone, nil
	}
	for _, known := range LightingTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLighting, s)
}

// IsLit reports whether the lighting type carries LED modules.
func (t LightingType) IsLit() bool {
	return t != LightingNone && t != LightingChannel && t != ""
}

// ConnectorType names the joint used between segments.
type ConnectorType string

// Connector types.
const (
	ConnectorMortiseTenon ConnectorType = "mortise_tenon"
	ConnectorPin          ConnectorType = "pin"
	ConnectorTongueGroove ConnectorType = "tongue_groove"
)

// LightingRule holds the construction parameters of one lighting type.
// Lengths are millimetres.
type LightingRule struct {
	LightingType LightingType `json:"lighting_type"`

	// MinDepth is the smallest letter depth that fits the LED cavity and
	// face construction.
	MinDepth float64 `json:"min_depth"`

	WallThickness      float64 `json:"wall_thickness"`
	FaceThickness      float64 `json:"face_thickness"`
	BackPanelThickness float64 `json:"back_panel_thickness"`

	FaceIsSeparate    bool    `json:"face_is_separate"`
	FaceIsTranslucent bool    `json:"face_is_translucent"`
	FaceInset         float64 `json:"face_inset"`

	ExternalWallRecess float64 `json:"external_wall_recess"`
	InternalWallRecess float64 `json:"internal_wall_recess"`
	AcrylicThickness   float64 `json:"acrylic_thickness"`
	AcrylicClearance   float64 `json:"acrylic_clearance"`

	BackIsOpen   bool    `json:"back_is_open"`
	BackStandoff float64 `json:"back_standoff"`

	LEDModule        string  `json:"led_module"`
	LEDCavityDepth   float64 `json:"led_cavity_depth"`
	LEDCavityOffset  float64 `json:"led_cavity_offset"`
	LEDBaseThickness float64 `json:"led_base_thickness"`

	InternalWalls   bool    `json:"internal_walls"`
	InnerLining     float64 `json:"inner_lining"`
	BottomThickness float64 `json:"bottom_thickness"`

	MountingHoleDiameter float64 `json:"mounting_hole_diameter"`
	MountingHoleSpacing  float64 `json:"mounting_hole_spacing"`
	MountingTabSize      float64 `json:"mounting_tab_size"`
	StandoffLength       float64 `json:"standoff_length"`

	VentHoleDiameter float64 `json:"vent_hole_diameter"`
	VentHoleSpacing  float64 `json:"vent_hole_spacing"`

	MaxSinglePiece     float64       `json:"max_single_piece"`
	ConnectorType      ConnectorType `json:"connector_type"`
	ConnectorDepth     float64       `json:"connector_depth"`
	ConnectorTolerance float64       `json:"connector_tolerance"`

	RibSpacing   float64 `json:"rib_spacing"`
	MinRibSize   float64 `json:"min_rib_size"`
	RibThickness float64 `json:"rib_thickness"`
}

// RuleSet maps lighting types to their rules.
type RuleSet map[LightingType]LightingRule

// RuleFor returns the rule for t, falling back to LightingNone for
// unknown types.
func (rs RuleSet) RuleFor(t LightingType) LightingRule {
	if r, ok := rs[t]; ok {
		return r
	}
	return rs[LightingNone]
}

// DefaultRules returns a fresh copy of the built-in rule table.
func DefaultRules() RuleSet {
	base := LightingRule{
		MountingHoleDiameter: 5,
		MountingHoleSpacing:  150,
		MountingTabSize:      15,
		StandoffLength:       25,
		MaxSinglePiece:       400,
		ConnectorType:        ConnectorMortiseTenon,
		ConnectorDepth:       8,
		ConnectorTolerance:   0.2,
		RibSpacing:           120,
		MinRibSize:           200,
		RibThickness:         2,
	}

	none := base
	none.LightingType = LightingNone
	none.WallThickness = 3
	none.FaceThickness = 3
	none.BackPanelThickness = 3
	none.BottomThickness = 3

	channel := base
	channel.LightingType = LightingChannel
	channel.WallThickness = 2.5
	channel.FaceThickness = 2
	channel.BackPanelThickness = 2
	channel.BottomThickness = 2

	channelFront := base
	channelFront.LightingType = LightingChannelFront
	channelFront.MinDepth = 40
	channelFront.WallThickness = 2.5
	channelFront.BackPanelThickness = 2
	channelFront.FaceIsSeparate = true
	channelFront.FaceIsTranslucent = true
	channelFront.FaceInset = 3
	channelFront.ExternalWallRecess = 3
	channelFront.AcrylicThickness = 3
	channelFront.AcrylicClearance = 0.15
	channelFront.LEDModule = "smd_2835_front"
	channelFront.LEDCavityDepth = 20
	channelFront.LEDCavityOffset = 5
	channelFront.LEDBaseThickness = 2
	channelFront.InternalWalls = true
	channelFront.BottomThickness = 2
	channelFront.VentHoleDiameter = 2.5
	channelFront.VentHoleSpacing = 50
	channelFront.RibSpacing = 100
	channelFront.MinRibSize = 150

	front := base
	front.LightingType = LightingFront
	front.MinDepth = 50
	front.WallThickness = 2.5
	front.BackPanelThickness = 2.5
	front.FaceIsSeparate = true
	front.FaceIsTranslucent = true
	front.FaceInset = 3
	front.ExternalWallRecess = 3
	front.AcrylicThickness = 3
	front.AcrylicClearance = 0.15
	front.LEDModule = "smd_2835_front"
	front.LEDCavityDepth = 25
	front.LEDCavityOffset = 5
	front.LEDBaseThickness = 2
	front.InternalWalls = true
	front.BottomThickness = 2.5
	front.StandoffLength = 30
	front.VentHoleDiameter = 3
	front.VentHoleSpacing = 60
	front.ConnectorDepth = 10
	front.RibSpacing = 100
	front.MinRibSize = 180

	halo := base
	halo.LightingType = LightingHalo
	halo.MinDepth = 40
	halo.WallThickness = 2.5
	halo.FaceThickness = 3
	halo.BackIsOpen = true
	halo.BackStandoff = 40
	halo.LEDModule = "smd_2835_halo"
	halo.LEDCavityDepth = 15
	halo.LEDBaseThickness = 2
	halo.InternalWalls = true
	halo.BottomThickness = 2
	halo.StandoffLength = 40
	halo.ConnectorDepth = 10

	frontHalo := front
	frontHalo.LightingType = LightingFrontHalo
	frontHalo.MinDepth = 60
	frontHalo.BackPanelThickness = 0
	frontHalo.BackIsOpen = true
	frontHalo.BackStandoff = 40
	frontHalo.BottomThickness = 2
	frontHalo.StandoffLength = 40
	frontHalo.VentHoleSpacing = 80

	return RuleSet{
		LightingNone:         none,
		LightingChannel:      channel,
		LightingChannelFront: channelFront,
		LightingFront:        front,
		LightingHalo:         halo,
		LightingFrontHalo:    frontHalo,
	}
}

// Material describes a printable filament.
type Material struct {
	Key              string  `json:"key"`
	Name             string  `json:"name"`
	MinWallThickness float64 `json:"min_wall_thickness"`
	MaxPrintSize     float64 `json:"max_print_size"`
	Density          float64 `json:"density"` // g/cm3
	UVResistant      bool    `json:"uv_resistant"`
	MaxTemperature   int     `json:"max_temperature"` // degrees C
}

// Materials is the filament table keyed by lower-case name.
var Materials = map[string]Material{
	"asa":  {Key: "asa", Name: "ASA", MinWallThickness: 1.5, MaxPrintSize: 400, Density: 1.07, UVResistant: true, MaxTemperature: 95},
	"abs":  {Key: "abs", Name: "ABS", MinWallThickness: 1.5, MaxPrintSize: 400, Density: 1.04, MaxTemperature: 85},
	"petg": {Key: "petg", Name: "PETG", MinWallThickness: 1.2, MaxPrintSize: 400, Density: 1.27, MaxTemperature: 70},
	"pla":  {Key: "pla", Name: "PLA", MinWallThickness: 1.0, MaxPrintSize: 400, Density: 1.24, MaxTemperature: 55},
}

// MaterialKeys returns the material keys in sorted order.
func MaterialKeys() []string {
	keys := make([]string, 0, len(Materials))
	for k := range Materials {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LEDModule describes an LED module fitted into letter cavities.
type LEDModule struct {
	Key            string  `json:"key"`
	Name           string  `json:"name"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Depth          float64 `json:"depth"`   // including wiring
	Spacing        float64 `json:"spacing"` // 0 for continuous strips
	PowerPerModule float64 `json:"power_per_module"`
	Voltage        float64 `json:"voltage"`
}

// LEDModules is the LED module table.
var LEDModules = map[string]LEDModule{
	"smd_2835_front": {Key: "smd_2835_front", Name: "SMD 2835 front-lit module", Width: 18, Height: 12, Depth: 8, Spacing: 70, PowerPerModule: 0.72, Voltage: 12},
	"smd_2835_halo":  {Key: "smd_2835_halo", Name: "SMD 2835 halo module", Width: 18, Height: 12, Depth: 5, Spacing: 80, PowerPerModule: 0.72, Voltage: 12},
	"cob_front":      {Key: "cob_front", Name: "COB LED strip (front)", Width: 10, Height: 3, Depth: 5, PowerPerModule: 0.5, Voltage: 24},
}

// EstimateLEDCount estimates the LED modules needed for a letter of the
// given face area in square millimetres. Unlit rules and continuous strips
// return 0.
func EstimateLEDCount(area float64, rule LightingRule) int {
	led, ok := LEDModules[rule.LEDModule]
	if !ok || led.Spacing <= 0 {
		return 0
	}
	return max(1, int(area/(led.Spacing*led.Spacing)))
}

// NeedsSegmentation reports whether a piece of the given size exceeds the
// rule's single-piece limit.
func (r LightingRule) NeedsSegmentation(width, height float64) bool {
	return math.Max(width, height) > r.MaxSinglePiece
}
