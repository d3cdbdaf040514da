// Package preset stores named manufacturing presets in SQLite.
//
// A preset replaces the lighting rule of one lighting type and the
// manufacturing limits for the requests that name it:
//
//	p, err := store.Get(ctx, "shopfront-halo")
//	if err != nil {
//		return err
//	}
//	conv := signkit.NewConverter(p.ConverterOptions()...)
package preset

import (
	"fmt"
	"strings"
	"time"

	"github.com/gogpu/signkit"
)

// maxNameLen bounds preset names.
const maxNameLen = 128

// Preset is a named override of one lighting rule and the limits.
type Preset struct {
	Name      string                      `json:"name"`
	Lighting  signkit.LightingType        `json:"lighting"`
	Rule      signkit.LightingRule        `json:"rule"`
	Limits    signkit.ManufacturingLimits `json:"limits"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// FromDefaults returns a preset for lighting seeded with the package
// default rule and limits.
func FromDefaults(name string, lighting signkit.LightingType) Preset {
	return Preset{
		Name:     name,
		Lighting: lighting,
		Rule:     signkit.DefaultRules().RuleFor(lighting),
		Limits:   signkit.DefaultLimits(),
	}
}

// Rules returns the default rule table with the preset's rule installed
// for its lighting type.
func (p Preset) Rules() signkit.RuleSet {
	rs := signkit.DefaultRules()
	rs[p.Lighting] = p.Rule
	return rs
}

// ConverterOptions returns the converter options that apply the preset.
func (p Preset) ConverterOptions() []signkit.ConverterOption {
	return []signkit.ConverterOption{
		signkit.WithLimits(p.Limits),
		signkit.WithRules(p.Rules()),
	}
}

// normalize checks the preset and canonicalizes its name and lighting.
func (p Preset) normalize() (Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || len(p.Name) > maxNameLen {
		return p, fmt.Errorf("%w: %q", ErrInvalidName, p.Name)
	}
	lt, err := signkit.ParseLightingType(string(p.Lighting))
	if err != nil {
		return p, err
	}
	p.Lighting = lt
	p.Rule.LightingType = lt
	return p, nil
}
