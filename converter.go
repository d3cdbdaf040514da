package signkit

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/gogpu/signkit/internal/parallel"
)

// Request holds the customer-facing parameters of one conversion.
// Lengths are millimetres.
type Request struct {
	// Height is the target letter or logo height.
	Height float64 `json:"height"`

	Depth    float64      `json:"depth"`
	Profile  ProfileKind  `json:"profile"`
	Lighting LightingType `json:"lighting"`
	Exterior bool         `json:"exterior"`
	Material string       `json:"material,omitempty"`
}

// ArtInput is uploaded vector art, already split into elements.
type ArtInput struct {
	Elements []Element

	// Canvas is the document viewport in canvas units.
	Canvas Rect

	// Millimetres is set when canvas units are already millimetres; the
	// art is then translated but not scaled.
	Millimetres bool
}

// ComponentResult is one component ready for the extrusion kernel.
type ComponentResult struct {
	Label   string  `json:"label"`
	OffsetX float64 `json:"offset_x"`
	Advance float64 `json:"advance"`
	Bounds  Rect    `json:"bounds"`

	// Outline is the component's shapes as absolute SVG path data, outer
	// contours clockwise and holes counter-clockwise.
	Outline string `json:"outline"`

	Shapes      []PlanarShape `json:"-"`
	Area        float64       `json:"area"`
	StrokeWidth float64       `json:"stroke_width"`
	Plan        SegmentPlan   `json:"plan"`
	LEDCount    int           `json:"led_count"`
}

// RemovedElement names an element dropped as background.
type RemovedElement struct {
	ID         string  `json:"id,omitempty"`
	Rule       string  `json:"rule"`
	Confidence float64 `json:"confidence"`
}

// Bundle is the result of one conversion: the shapes, the extrusion
// profile and the segmentation plans, plus the validation report.
type Bundle struct {
	// ID is a job identifier assigned by the caller.
	ID string `json:"id,omitempty"`

	Components []ComponentResult `json:"components"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Lighting   LightingType      `json:"lighting"`
	Profile    ExtrusionProfile  `json:"profile"`
	Report     ValidationReport  `json:"report"`

	Removed  []RemovedElement `json:"removed,omitempty"`
	CropPass string           `json:"crop_pass,omitempty"`
}

// Converter runs the conversion pipeline. A Converter is safe for
// concurrent use; call Close to release its workers.
type Converter struct {
	opts      converterOptions
	validator *Validator
	pool      *parallel.WorkerPool
}

// NewConverter creates a converter with the given options.
func NewConverter(opts ...ConverterOption) *Converter {
	o := defaultConverterOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Converter{
		opts:      o,
		validator: NewValidator(o.limits, o.rules),
	}
	if o.parallelism != 1 {
		c.pool = parallel.NewWorkerPool(o.parallelism)
	}
	return c
}

// Close stops the converter's workers. Close is safe to call multiple
// times; a closed converter still works, sequentially.
func (c *Converter) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// Validator returns the validator configured with the converter's limits
// and rules.
func (c *Converter) Validator() *Validator {
	return c.validator
}

// ConvertArt turns vector art into a bundle.
//
// Background elements are stripped, every element's contours are built
// and classified, and the shapes are grouped into components: elements
// sharing a label form one component, and each shape of an unlabeled
// element becomes its own component named obj_N. The content box is then
// re-detected by rasterization and the composition is translated to it and
// scaled so the content height equals req.Height.
func (c *Converter) ConvertArt(in ArtInput, req Request) (*Bundle, error) {
	if req.Height <= 0 && !in.Millimetres {
		return nil, fmt.Errorf("%w: height %g", ErrInvalidRequest, req.Height)
	}

	elements := in.Elements
	var removed []RemovedElement
	if c.opts.strip {
		res := StripBackground(elements, in.Canvas, c.opts.stripOpts...)
		elements = res.Kept
		for _, r := range res.Removed {
			removed = append(removed, RemovedElement{ID: r.Element.ID, Rule: r.Rule, Confidence: r.Confidence})
		}
	}

	shapes := parallel.Map(c.pool, elements, func(_ int, e Element) []PlanarShape {
		opts := c.opts.classifyOpts
		if e.EvenOdd {
			opts = append(slices.Clip(opts), WithClassifyMode(ClassifyByNesting))
		}
		return ClassifyContours(BuildContours(e.Commands), opts...)
	})
	comps, fills := groupComponents(elements, shapes)

	frame, ok := compositionBounds(comps)
	if !ok {
		return nil, ErrNoGeometry
	}
	measure := frame
	var cropPass string
	if c.opts.crop {
		canvas := frame
		if !in.Canvas.IsEmpty() {
			canvas = in.Canvas.Union(frame)
		}
		var all []PlanarShape
		for _, comp := range comps {
			all = append(all, comp.Shapes...)
		}
		opts := append([]BoundsOption{WithFills(fills)}, c.opts.boundsOpts...)
		if res, found := DetectContentBounds(all, canvas, opts...); found {
			measure, frame, cropPass = res.Content, res.Padded, res.Pass
		}
	}
	if measure.Height() <= 0 {
		return nil, ErrNoGeometry
	}

	scale := 1.0
	if !in.Millimetres {
		scale = req.Height / measure.Height()
	}
	m := Scale(scale, scale).Multiply(Translate(-frame.Min.X, -frame.Min.Y))
	for i, comp := range comps {
		comp = comp.Transform(m)
		if b, has := comp.Bounds(); has {
			comp.OffsetX, comp.Advance = b.Min.X, b.Width()
		}
		comps[i] = comp
	}
	Logger().Debug("art normalized",
		"components", len(comps), "removed", len(removed), "scale", scale, "crop", cropPass)

	b, err := c.finish(comps, req, measure.Height()*scale)
	if err != nil {
		return nil, err
	}
	b.Removed = removed
	b.CropPass = cropPass
	return b, nil
}

// ConvertComponents builds a bundle from components already in
// millimetres, such as laid-out text.
func (c *Converter) ConvertComponents(comps []Component, req Request) (*Bundle, error) {
	if req.Height <= 0 {
		return nil, fmt.Errorf("%w: height %g", ErrInvalidRequest, req.Height)
	}
	kept := make([]Component, 0, len(comps))
	for _, comp := range comps {
		if len(comp.Shapes) > 0 {
			kept = append(kept, comp)
		}
	}
	return c.finish(kept, req, req.Height)
}

// finish resolves the profile, validates the composition and plans the
// segments of every component.
func (c *Converter) finish(comps []Component, req Request, height float64) (*Bundle, error) {
	lighting, err := ParseLightingType(string(req.Lighting))
	if err != nil {
		return nil, err
	}
	kind, err := ParseProfileKind(string(req.Profile))
	if err != nil {
		return nil, err
	}
	total, ok := compositionBounds(comps)
	if !ok {
		return nil, ErrNoGeometry
	}

	var area, perimeter, widest float64
	for _, comp := range comps {
		b, _ := comp.Bounds()
		widest = max(widest, b.Width())
		area += comp.Area()
		perimeter += comp.Perimeter()
	}

	report := c.validator.Validate(ValidationRequest{
		Height:      height,
		Width:       widest,
		TotalWidth:  total.Width(),
		Depth:       req.Depth,
		StrokeWidth: strokeWidth(area, perimeter),
		Profile:     kind,
		Lighting:    lighting,
		LetterCount: len(comps),
		Exterior:    req.Exterior,
		Material:    req.Material,
	})

	rule := c.validator.Rules().RuleFor(lighting)
	maxPiece := c.validator.MaxPieceSize(lighting)
	joints := c.opts.joints
	if joints == nil {
		joints = JointStyleFor(rule)
	}

	results, err := parallel.MapErr(c.pool, comps, func(_ int, comp Component) (ComponentResult, error) {
		b, _ := comp.Bounds()
		plan, err := PlanSegments(b.Width(), b.Height(), maxPiece, c.opts.overlap,
			WithOrigin(b.Min), WithJointStyle(joints))
		if err != nil {
			return ComponentResult{}, fmt.Errorf("component %q: %w", comp.Label, err)
		}
		var cmds []Command
		for _, s := range comp.Shapes {
			cmds = append(cmds, s.Commands()...)
		}
		a := comp.Area()
		return ComponentResult{
			Label:       comp.Label,
			OffsetX:     comp.OffsetX,
			Advance:     comp.Advance,
			Bounds:      b,
			Outline:     FormatPathData(cmds),
			Shapes:      comp.Shapes,
			Area:        a,
			StrokeWidth: strokeWidth(a, comp.Perimeter()),
			Plan:        plan,
			LEDCount:    EstimateLEDCount(a, rule),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		Components: results,
		Width:      total.Width(),
		Height:     total.Height(),
		Lighting:   lighting,
		Profile:    ResolveProfile(kind, req.Depth),
		Report:     report,
	}
	return bundle, nil
}

// groupComponents groups classified shapes into components and returns
// the fill of every shape, in component order.
func groupComponents(elements []Element, shapes [][]PlanarShape) ([]Component, []RGBA) {
	var comps []Component
	var fills [][]RGBA
	byLabel := make(map[string]int)
	obj := 0

	for i, e := range elements {
		if len(shapes[i]) == 0 {
			continue
		}
		fill := e.FillColor()
		if e.Label != "" {
			idx, seen := byLabel[e.Label]
			if !seen {
				idx = len(comps)
				byLabel[e.Label] = idx
				comps = append(comps, Component{Label: e.Label})
				fills = append(fills, nil)
			}
			comps[idx].Shapes = append(comps[idx].Shapes, shapes[i]...)
			for range shapes[i] {
				fills[idx] = append(fills[idx], fill)
			}
			continue
		}
		for _, s := range shapes[i] {
			obj++
			comps = append(comps, Component{Label: "obj_" + strconv.Itoa(obj), Shapes: []PlanarShape{s}})
			fills = append(fills, []RGBA{fill})
		}
	}
	return comps, slices.Concat(fills...)
}

func strokeWidth(area, perimeter float64) float64 {
	if perimeter == 0 {
		return 0
	}
	return 2 * area / perimeter
}
