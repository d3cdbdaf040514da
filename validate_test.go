package signkit

import "testing"

func issueCodes(issues []Issue) []string {
	codes := make([]string, len(issues))
	for i, is := range issues {
		codes[i] = is.Code
	}
	return codes
}

func hasCode(issues []Issue, code string) bool {
	for _, is := range issues {
		if is.Code == code {
			return true
		}
	}
	return false
}

func TestValidate_HeightBelowMin(t *testing.T) {
	r := Validate(ValidationRequest{Height: 10, Depth: 30, Lighting: LightingNone})

	if r.IsValid {
		t.Error("IsValid = true, want false")
	}
	if len(r.Errors) != 1 || r.Errors[0].Code != "height_below_min" {
		t.Fatalf("Errors = %v, want [height_below_min]", issueCodes(r.Errors))
	}
	if r.Errors[0].Severity != SeverityError || r.Errors[0].Field != FieldHeight {
		t.Errorf("error = %+v", r.Errors[0])
	}
	if len(r.AutoFixes) != 1 {
		t.Fatalf("AutoFixes = %d, want 1", len(r.AutoFixes))
	}
	want := AutoFix{Field: FieldHeight, OldValue: 10, NewValue: 30}
	got := r.AutoFixes[0]
	if got.Field != want.Field || got.OldValue != want.OldValue || got.NewValue != want.NewValue {
		t.Errorf("AutoFix = %+v, want %+v", got, want)
	}
}

func TestValidate_DepthBelowLightingMin(t *testing.T) {
	r := Validate(ValidationRequest{Height: 200, Depth: 20, Lighting: LightingFrontHalo})

	if !r.IsValid {
		t.Errorf("IsValid = false, errors %v", issueCodes(r.Errors))
	}
	if len(r.Warnings) != 1 || r.Warnings[0].Code != "depth_below_lighting_min" {
		t.Fatalf("Warnings = %v, want [depth_below_lighting_min]", issueCodes(r.Warnings))
	}
	if len(r.AutoFixes) != 1 || r.AutoFixes[0].Field != FieldDepth || r.AutoFixes[0].NewValue != 60 {
		t.Errorf("AutoFixes = %+v, want depth to 60", r.AutoFixes)
	}
}

func TestValidate_IsValidIffNoErrors(t *testing.T) {
	tests := []struct {
		name string
		req  ValidationRequest
	}{
		{"clean", ValidationRequest{Height: 200, Depth: 30}},
		{"too tall", ValidationRequest{Height: 3500, Depth: 30}},
		{"too deep", ValidationRequest{Height: 200, Depth: 250}},
		{"warnings only", ValidationRequest{Height: 50, Depth: 30, Exterior: true, Lighting: LightingFront}},
		{"zero value", ValidationRequest{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(tt.req)
			if r.IsValid != (len(r.Errors) == 0) {
				t.Errorf("IsValid = %v with %d errors", r.IsValid, len(r.Errors))
			}
			if r.Warnings == nil || r.Errors == nil || r.AutoFixes == nil {
				t.Error("report slices must be non-nil")
			}
		})
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name string
		req  ValidationRequest
		code string
		err  bool
	}{
		{"height above max", ValidationRequest{Height: 3500, Depth: 30}, "height_above_max", true},
		{"depth above max", ValidationRequest{Height: 200, Depth: 250}, "depth_above_max", true},
		{"depth below min", ValidationRequest{Height: 200, Depth: 2}, "depth_below_min", false},
		{"wide piece", ValidationRequest{Height: 200, Width: 500, Depth: 30}, "needs_segmentation", false},
		{"tall piece", ValidationRequest{Height: 450, Depth: 30}, "needs_segmentation", false},
		{"exterior small", ValidationRequest{Height: 60, Depth: 30, Exterior: true}, "exterior_small", false},
		{"led fit", ValidationRequest{Height: 60, Depth: 50, Lighting: LightingFront}, "led_fit", false},
		{"wide composition", ValidationRequest{Height: 200, Depth: 30, TotalWidth: 3200}, "wide_composition", false},
		{"mounting rail", ValidationRequest{Height: 200, Depth: 30, LetterCount: 11}, "mounting_rail", false},
		{"stroke too thin", ValidationRequest{Height: 200, Depth: 30, StrokeWidth: 2}, "stroke_too_thin", false},
		{"bevel too large", ValidationRequest{Height: 200, Depth: 100, StrokeWidth: 8, Profile: ProfileRounded}, "bevel_too_large", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate(tt.req)
			list := r.Warnings
			if tt.err {
				list = r.Errors
			}
			if !hasCode(list, tt.code) {
				t.Errorf("missing %q: warnings %v, errors %v", tt.code, issueCodes(r.Warnings), issueCodes(r.Errors))
			}
		})
	}
}

func TestValidate_NoFalseWarnings(t *testing.T) {
	r := Validate(ValidationRequest{
		Height: 200, Width: 150, TotalWidth: 900, Depth: 60, StrokeWidth: 25,
		Profile: ProfileRounded, Lighting: LightingFront, LetterCount: 6, Exterior: true, Material: "asa",
	})
	if len(r.Warnings)+len(r.Errors)+len(r.AutoFixes) != 0 {
		t.Errorf("warnings %v, errors %v, fixes %v", issueCodes(r.Warnings), issueCodes(r.Errors), r.AutoFixes)
	}
}

func TestValidator_WallThickness(t *testing.T) {
	rules := DefaultRules()
	thin := rules[LightingChannel]
	thin.WallThickness = 1.2
	rules[LightingChannel] = thin

	v := NewValidator(DefaultLimits(), rules)
	r := v.Validate(ValidationRequest{Height: 200, Depth: 30, Lighting: LightingChannel, Material: "asa"})
	for _, code := range []string{"wall_too_thin", "wall_too_thin_for_material"} {
		if !hasCode(r.Warnings, code) {
			t.Errorf("missing %q in %v", code, issueCodes(r.Warnings))
		}
	}

	r = v.Validate(ValidationRequest{Height: 200, Depth: 30, Lighting: LightingChannel, Material: "pla"})
	if hasCode(r.Warnings, "wall_too_thin_for_material") {
		t.Error("PLA accepts 1.2 mm walls")
	}
}

func TestValidator_MaxPieceSize(t *testing.T) {
	rules := DefaultRules()
	small := rules[LightingHalo]
	small.MaxSinglePiece = 300
	rules[LightingHalo] = small

	v := NewValidator(DefaultLimits(), rules)
	tests := []struct {
		lt   LightingType
		want float64
	}{
		{LightingHalo, 300},
		{LightingFront, 400},
		{"unknown", 400},
	}
	for _, tt := range tests {
		if got := v.MaxPieceSize(tt.lt); got != tt.want {
			t.Errorf("MaxPieceSize(%q) = %v, want %v", tt.lt, got, tt.want)
		}
	}

	lim := DefaultLimits()
	lim.MaxSinglePieceSize = 250
	if got := NewValidator(lim, nil).MaxPieceSize(LightingHalo); got != 250 {
		t.Errorf("MaxPieceSize with 250 mm bed = %v, want 250", got)
	}
}

func TestValidationReport_ApplyFixes(t *testing.T) {
	req := ValidationRequest{Height: 10, Depth: 2, Lighting: LightingFront}
	r := Validate(req)
	fixed := r.ApplyFixes(req)

	if fixed.Height != 30 {
		t.Errorf("Height = %v, want 30", fixed.Height)
	}
	// The lighting minimum comes after the global minimum and wins.
	if fixed.Depth != 50 {
		t.Errorf("Depth = %v, want 50", fixed.Depth)
	}
	if req.Height != 10 || req.Depth != 2 {
		t.Error("ApplyFixes modified its input")
	}
	if again := Validate(fixed); !again.IsValid {
		t.Errorf("fixed request still invalid: %v", issueCodes(again.Errors))
	}
}
