package signkit

// ConverterOption configures a Converter during creation.
//
// Example:
//
//	// Defaults: background stripping and content re-crop enabled
//	conv := signkit.NewConverter()
//
//	// Custom limits from a preset, four workers
//	conv := signkit.NewConverter(
//		signkit.WithLimits(p.Limits),
//		signkit.WithRules(rules),
//		signkit.WithParallelism(4),
//	)
type ConverterOption func(*converterOptions)

// converterOptions holds optional configuration for Converter creation.
type converterOptions struct {
	limits       ManufacturingLimits
	rules        RuleSet
	strip        bool
	stripOpts    []StripOption
	crop         bool
	boundsOpts   []BoundsOption
	classifyOpts []ClassifyOption
	overlap      float64
	parallelism  int
	joints       JointStyle
}

// defaultConverterOptions returns the default converter options.
func defaultConverterOptions() converterOptions {
	return converterOptions{
		limits:      DefaultLimits(),
		rules:       DefaultRules(),
		strip:       true,
		crop:        true,
		overlap:     DefaultOverlap,
		parallelism: 1,
	}
}

// DefaultOverlap is the segment overlap in millimetres.
const DefaultOverlap = 5.0

// WithLimits sets the manufacturing limits.
func WithLimits(l ManufacturingLimits) ConverterOption {
	return func(o *converterOptions) {
		o.limits = l
	}
}

// WithRules sets the lighting rule table.
func WithRules(rs RuleSet) ConverterOption {
	return func(o *converterOptions) {
		if rs != nil {
			o.rules = rs
		}
	}
}

// WithBackgroundStripping enables or disables background removal for art
// input. Extra options are passed to StripBackground.
func WithBackgroundStripping(enabled bool, opts ...StripOption) ConverterOption {
	return func(o *converterOptions) {
		o.strip = enabled
		o.stripOpts = opts
	}
}

// WithContentCrop enables or disables the raster re-crop of art input.
// Extra options are passed to DetectContentBounds.
func WithContentCrop(enabled bool, opts ...BoundsOption) ConverterOption {
	return func(o *converterOptions) {
		o.crop = enabled
		o.boundsOpts = opts
	}
}

// WithClassifyOptions sets the options used to classify art contours.
func WithClassifyOptions(opts ...ClassifyOption) ConverterOption {
	return func(o *converterOptions) {
		o.classifyOpts = opts
	}
}

// WithOverlap sets the segment overlap in millimetres.
func WithOverlap(mm float64) ConverterOption {
	return func(o *converterOptions) {
		if mm >= 0 {
			o.overlap = mm
		}
	}
}

// WithParallelism sets the number of workers used for per-element and
// per-component work. 1 runs sequentially; 0 or less uses GOMAXPROCS.
func WithParallelism(n int) ConverterOption {
	return func(o *converterOptions) {
		o.parallelism = n
	}
}

// WithJoints overrides the joint style derived from the lighting rule.
func WithJoints(js JointStyle) ConverterOption {
	return func(o *converterOptions) {
		o.joints = js
	}
}
