// Package service runs conversion jobs for the CLI and the HTTP server:
// it reads the input, applies a named preset and stamps every bundle with
// a job id.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/preset"
	"github.com/gogpu/signkit/svg"
	"github.com/gogpu/signkit/text"
)

// ErrPresetsDisabled is returned when a preset is named but the service
// has no preset store.
var ErrPresetsDisabled = errors.New("service: presets are not configured")

// fontCacheSize is the per-shard font capacity of the default cache.
const fontCacheSize = 4

// Service holds the long-lived pipeline state shared by jobs.
//
// Service is safe for concurrent use.
type Service struct {
	conv    *signkit.Converter
	fonts   *text.FontCache
	loader  text.Loader
	presets *preset.Store
}

// Option configures a Service.
type Option func(*Service)

// WithConverter sets the converter used for jobs without a preset.
func WithConverter(c *signkit.Converter) Option {
	return func(s *Service) {
		s.conv = c
	}
}

// WithFontLoader sets the loader of the default font cache. It has no
// effect together with WithFontCache.
func WithFontLoader(l text.Loader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// WithFontCache sets the font cache.
func WithFontCache(fc *text.FontCache) Option {
	return func(s *Service) {
		s.fonts = fc
	}
}

// WithPresets enables named presets.
func WithPresets(store *preset.Store) Option {
	return func(s *Service) {
		s.presets = store
	}
}

// New creates a service. By default it converts with a parallel
// converter and only loads the built-in font.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.conv == nil {
		s.conv = signkit.NewConverter(signkit.WithParallelism(0))
	}
	if s.fonts == nil {
		if s.loader == nil {
			s.loader = text.RestrictedLoader(nil, "", nil)
		}
		s.fonts = text.NewFontCache(fontCacheSize, text.WithLoader(s.loader))
	}
	return s
}

// Close releases the converter's workers.
func (s *Service) Close() {
	s.conv.Close()
}

// Presets returns the preset store, or nil when presets are disabled.
func (s *Service) Presets() *preset.Store {
	return s.presets
}

// Fonts returns the font cache.
func (s *Service) Fonts() *text.FontCache {
	return s.fonts
}

// TextInput describes a text job.
type TextInput struct {
	Text string `json:"text"`

	// Font is a font URL or path; empty selects text.BuiltinFont.
	Font string `json:"font,omitempty"`

	// Spacing is extra space between glyphs in millimetres.
	Spacing float64 `json:"spacing,omitempty"`
}

// PrepareSVG converts an SVG document.
func (s *Service) PrepareSVG(ctx context.Context, r io.Reader, req signkit.Request, presetName string) (*signkit.Bundle, error) {
	doc, err := svg.Read(r)
	if err != nil {
		return nil, err
	}
	conv, release, err := s.converterFor(ctx, presetName)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := conv.ConvertArt(doc.Art(), req)
	if err != nil {
		return nil, err
	}
	return s.stamp(b, "svg"), nil
}

// PrepareText lays out text and converts the glyphs. The request height
// is the letter height.
func (s *Service) PrepareText(ctx context.Context, in TextInput, req signkit.Request, presetName string) (*signkit.Bundle, error) {
	if req.Height <= 0 {
		return nil, fmt.Errorf("%w: height %g", signkit.ErrInvalidRequest, req.Height)
	}
	url := in.Font
	if url == "" {
		url = text.BuiltinFont
	}
	src, err := s.fonts.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	comps, err := text.Layout(src, in.Text, req.Height, in.Spacing)
	if err != nil {
		return nil, err
	}
	conv, release, err := s.converterFor(ctx, presetName)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := conv.ConvertComponents(comps, req)
	if err != nil {
		return nil, err
	}
	return s.stamp(b, "text"), nil
}

// Validate checks a request against the default or preset limits.
func (s *Service) Validate(ctx context.Context, req signkit.ValidationRequest, presetName string) (signkit.ValidationReport, error) {
	lt, err := signkit.ParseLightingType(string(req.Lighting))
	if err != nil {
		return signkit.ValidationReport{}, err
	}
	kind, err := signkit.ParseProfileKind(string(req.Profile))
	if err != nil {
		return signkit.ValidationReport{}, err
	}
	req.Lighting, req.Profile = lt, kind

	conv, release, err := s.converterFor(ctx, presetName)
	if err != nil {
		return signkit.ValidationReport{}, err
	}
	defer release()
	return conv.Validator().Validate(req), nil
}

// SegmentInput describes a standalone segmentation job.
type SegmentInput struct {
	Width    float64              `json:"width"`
	Height   float64              `json:"height"`
	Lighting signkit.LightingType `json:"lighting"`

	// Overlap defaults to signkit.DefaultOverlap when nil.
	Overlap *float64 `json:"overlap,omitempty"`
}

// Segment plans the tiling of a width by height piece with the joints of
// its lighting type.
func (s *Service) Segment(ctx context.Context, in SegmentInput, presetName string) (signkit.SegmentPlan, error) {
	lt, err := signkit.ParseLightingType(string(in.Lighting))
	if err != nil {
		return signkit.SegmentPlan{}, err
	}
	conv, release, err := s.converterFor(ctx, presetName)
	if err != nil {
		return signkit.SegmentPlan{}, err
	}
	defer release()

	overlap := signkit.DefaultOverlap
	if in.Overlap != nil {
		overlap = *in.Overlap
	}
	v := conv.Validator()
	js := signkit.JointStyleFor(v.Rules().RuleFor(lt))
	return signkit.PlanSegments(in.Width, in.Height, v.MaxPieceSize(lt), overlap, signkit.WithJointStyle(js))
}

// Rule returns the construction rule of a lighting type.
func (s *Service) Rule(ctx context.Context, lighting, presetName string) (signkit.LightingRule, error) {
	lt, err := signkit.ParseLightingType(lighting)
	if err != nil {
		return signkit.LightingRule{}, err
	}
	conv, release, err := s.converterFor(ctx, presetName)
	if err != nil {
		return signkit.LightingRule{}, err
	}
	defer release()
	return conv.Validator().Rules().RuleFor(lt), nil
}

// converterFor returns the converter for a preset and a func releasing
// it. An empty name selects the service's own converter.
func (s *Service) converterFor(ctx context.Context, name string) (*signkit.Converter, func(), error) {
	if name == "" {
		return s.conv, func() {}, nil
	}
	if s.presets == nil {
		return nil, nil, ErrPresetsDisabled
	}
	p, err := s.presets.Get(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	conv := signkit.NewConverter(p.ConverterOptions()...)
	return conv, conv.Close, nil
}

func (s *Service) stamp(b *signkit.Bundle, kind string) *signkit.Bundle {
	b.ID = uuid.NewString()
	signkit.Logger().Info("bundle prepared",
		"id", b.ID, "input", kind, "components", len(b.Components),
		"valid", b.Report.IsValid, "warnings", len(b.Report.Warnings))
	return b
}
