package signkit

import (
	"fmt"
	"math"
)

// Severity classifies a validation finding.
type Severity string

// Severities.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one validation finding.
type Issue struct {
	Code     string   `json:"code"`
	Field    string   `json:"field,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// AutoFix is a proposed parameter change.
type AutoFix struct {
	Field    string  `json:"field"`
	OldValue float64 `json:"old_value"`
	NewValue float64 `json:"new_value"`
	Reason   string  `json:"reason"`
}

// Fields that auto-fixes may target.
const (
	FieldHeight = "height"
	FieldDepth  = "depth"
)

// ValidationRequest holds the requested dimensions of a sign.
// Lengths are millimetres.
type ValidationRequest struct {
	// Height is the letter or logo height.
	Height float64 `json:"height"`

	// Width is the widest single letter or logo piece.
	Width float64 `json:"width"`

	// TotalWidth is the width of the whole composition.
	TotalWidth float64 `json:"total_width"`

	Depth       float64      `json:"depth"`
	StrokeWidth float64      `json:"stroke_width"`
	Profile     ProfileKind  `json:"profile"`
	Lighting    LightingType `json:"lighting"`
	LetterCount int          `json:"letter_count"`
	Exterior    bool         `json:"exterior"`

	// Material is an optional key into Materials.
	Material string `json:"material,omitempty"`
}

// ValidationReport is the outcome of one validation. IsValid is true
// exactly when Errors is empty.
type ValidationReport struct {
	IsValid   bool      `json:"is_valid"`
	Warnings  []Issue   `json:"warnings"`
	Errors    []Issue   `json:"errors"`
	AutoFixes []AutoFix `json:"auto_fixes"`
}

// ApplyFixes returns req with every auto-fix applied in order.
func (r ValidationReport) ApplyFixes(req ValidationRequest) ValidationRequest {
	for _, f := range r.AutoFixes {
		switch f.Field {
		case FieldHeight:
			req.Height = f.NewValue
		case FieldDepth:
			req.Depth = f.NewValue
		}
	}
	return req
}

// Validation thresholds in millimetres and counts.
const (
	exteriorMinHeight     = 100
	litMinHeight          = 80
	installConsultWidth   = 3000
	mountingRailLetterMin = 10
)

// Validator checks requests against manufacturing limits and lighting
// rules. The zero value is not usable; use NewValidator.
type Validator struct {
	limits ManufacturingLimits
	rules  RuleSet
}

// NewValidator creates a validator. A nil rule set selects DefaultRules.
func NewValidator(limits ManufacturingLimits, rules RuleSet) *Validator {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Validator{limits: limits, rules: rules}
}

// Validate checks req against the default limits and rules.
func Validate(req ValidationRequest) ValidationReport {
	return NewValidator(DefaultLimits(), nil).Validate(req)
}

// Validate evaluates every rule independently and returns a fresh report.
// It never modifies its input; fixes are proposals for the caller.
func (v *Validator) Validate(req ValidationRequest) ValidationReport {
	var b reportBuilder
	lim := v.limits
	rule := v.rules.RuleFor(req.Lighting)
	maxPiece := v.MaxPieceSize(req.Lighting)

	if req.Height < lim.MinHeight {
		b.errorf("height_below_min", FieldHeight,
			"height %.1f mm is below the minimum of %.1f mm", req.Height, lim.MinHeight)
		b.fix(FieldHeight, req.Height, lim.MinHeight, "raised to the minimum printable height")
	}
	if req.Height > lim.MaxHeight {
		b.errorf("height_above_max", FieldHeight,
			"height %.1f mm exceeds the maximum of %.1f mm", req.Height, lim.MaxHeight)
	}

	if req.Depth < lim.MinDepth {
		b.warnf("depth_below_min", FieldDepth,
			"depth %.1f mm is below the minimum of %.1f mm", req.Depth, lim.MinDepth)
		b.fix(FieldDepth, req.Depth, lim.MinDepth, "raised to the minimum printable depth")
	}
	if req.Depth > lim.MaxDepth {
		b.errorf("depth_above_max", FieldDepth,
			"depth %.1f mm exceeds the maximum of %.1f mm", req.Depth, lim.MaxDepth)
	}
	if rule.MinDepth > 0 && req.Depth < rule.MinDepth {
		b.warnf("depth_below_lighting_min", FieldDepth,
			"%s lighting needs at least %.1f mm depth for the LED cavity, got %.1f mm",
			rule.LightingType, rule.MinDepth, req.Depth)
		b.fix(FieldDepth, req.Depth, rule.MinDepth,
			fmt.Sprintf("raised to the minimum depth for %s lighting", rule.LightingType))
	}

	if req.Height > maxPiece || req.Width > maxPiece {
		b.warnf("needs_segmentation", "",
			"piece of %.1f x %.1f mm exceeds the %.1f mm build plate and will be segmented",
			req.Width, req.Height, maxPiece)
	}

	if req.Exterior && req.Height < exteriorMinHeight {
		b.warnf("exterior_small", FieldHeight,
			"exterior signs below %d mm are hard to read and fragile", exteriorMinHeight)
	}
	if req.Lighting.IsLit() && req.Height < litMinHeight {
		if led, ok := LEDModules[rule.LEDModule]; ok {
			b.warnf("led_fit", FieldHeight,
				"letters below %d mm leave little room for %s modules (%.0f x %.0f mm)",
				litMinHeight, led.Name, led.Width, led.Height)
		} else {
			b.warnf("led_fit", FieldHeight,
				"letters below %d mm leave little room for LED modules", litMinHeight)
		}
	}
	if req.TotalWidth > installConsultWidth {
		b.warnf("wide_composition", "",
			"composition is %.0f mm wide; consult a professional installer", req.TotalWidth)
	}
	if req.LetterCount > mountingRailLetterMin {
		b.warnf("mounting_rail", "",
			"%d letters: a mounting rail is recommended", req.LetterCount)
	}

	if req.StrokeWidth > 0 && req.StrokeWidth < lim.MinStrokeWidth {
		b.warnf("stroke_too_thin", "",
			"average stroke width %.1f mm is below %.1f mm", req.StrokeWidth, lim.MinStrokeWidth)
	}
	if p := ResolveProfile(req.Profile, req.Depth); p.BevelEnabled && req.StrokeWidth > 0 &&
		2*p.BevelSize >= req.StrokeWidth {
		b.warnf("bevel_too_large", "",
			"%s bevel of %.1f mm consumes the %.1f mm stroke", p.Kind, p.BevelSize, req.StrokeWidth)
	}

	if rule.WallThickness > 0 && rule.WallThickness < lim.MinWallThickness {
		b.warnf("wall_too_thin", "",
			"wall thickness %.1f mm is below %.1f mm", rule.WallThickness, lim.MinWallThickness)
	}
	if m, ok := Materials[req.Material]; ok && rule.WallThickness > 0 && rule.WallThickness < m.MinWallThickness {
		b.warnf("wall_too_thin_for_material", "",
			"%s needs walls of at least %.1f mm", m.Name, m.MinWallThickness)
	}

	return b.report()
}

// MaxPieceSize returns the single-piece limit for a lighting type: the
// smaller of the global limit and the lighting rule's own limit.
func (v *Validator) MaxPieceSize(t LightingType) float64 {
	maxPiece := v.limits.MaxSinglePieceSize
	if r := v.rules.RuleFor(t); r.MaxSinglePiece > 0 {
		maxPiece = math.Min(maxPiece, r.MaxSinglePiece)
	}
	return maxPiece
}

// Limits returns the validator's limits.
func (v *Validator) Limits() ManufacturingLimits {
	return v.limits
}

// Rules returns the validator's rule set.
func (v *Validator) Rules() RuleSet {
	return v.rules
}

type reportBuilder struct {
	r ValidationReport
}

func (b *reportBuilder) warnf(code, field, format string, args ...any) {
	b.r.Warnings = append(b.r.Warnings, Issue{
		Code: code, Field: field, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...),
	})
}

func (b *reportBuilder) errorf(code, field, format string, args ...any) {
	b.r.Errors = append(b.r.Errors, Issue{
		Code: code, Field: field, Severity: SeverityError, Message: fmt.Sprintf(format, args...),
	})
}

func (b *reportBuilder) fix(field string, oldValue, newValue float64, reason string) {
	b.r.AutoFixes = append(b.r.AutoFixes, AutoFix{
		Field: field, OldValue: oldValue, NewValue: newValue, Reason: reason,
	})
}

func (b *reportBuilder) report() ValidationReport {
	r := b.r
	r.IsValid = len(r.Errors) == 0
	if r.Warnings == nil {
		r.Warnings = []Issue{}
	}
	if r.Errors == nil {
		r.Errors = []Issue{}
	}
	if r.AutoFixes == nil {
		r.AutoFixes = []AutoFix{}
	}
	return r
}
