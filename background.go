package signkit

// Element is one filled shape of uploaded vector art, carrying the style
// information the background heuristics need.
type Element struct {
	// ID is the element id attribute.
	ID string

	// Label groups elements into components, for example a data-char
	// attribute. Empty for unlabeled art.
	Label string

	// Commands is the parsed outline in canvas coordinates.
	Commands []Command

	// Fill is the element's own fill presentation attribute.
	Fill string

	// StyleFill is the fill from the element's own inline style.
	StyleFill string

	// ClassFill is the fill stylesheet rules give the element itself.
	ClassFill string

	// InheritedFill is the fill of the nearest ancestor declaring one.
	InheritedFill string

	// Flagged is set when the id or class names the element as a
	// background layer.
	Flagged bool

	// EvenOdd is set for fill-rule evenodd.
	EvenOdd bool
}

// EffectiveFill returns the fill that paints the element, honoring CSS
// precedence: inline style, then class rules, then the attribute, and only
// then the inherited fill. The SVG default is black.
func (e Element) EffectiveFill() string {
	switch {
	case e.StyleFill != "":
		return e.StyleFill
	case e.ClassFill != "":
		return e.ClassFill
	case e.Fill != "":
		return e.Fill
	case e.InheritedFill != "":
		return e.InheritedFill
	}
	return "black"
}

// FillColor parses EffectiveFill, falling back to black for values that
// are not plain colors.
func (e Element) FillColor() RGBA {
	if c, ok := ParseColor(e.EffectiveFill()); ok {
		return c
	}
	return Black
}

// BackgroundRule is one entry of the background rule table: a predicate
// and the confidence that a matching, canvas-covering element is
// background.
type BackgroundRule struct {
	Name       string
	Confidence float64
	Match      func(Element) bool
}

// DefaultBackgroundRules is the ranked rule table, strongest first.
// Rules are evaluated in order and the first match decides.
var DefaultBackgroundRules = []BackgroundRule{
	{Name: "white-rect-path", Confidence: 0.95, Match: isWhiteRectPath},
	{Name: "white-style-fill", Confidence: 0.85, Match: hasWhiteStyleFill},
	{Name: "white-fill-attribute", Confidence: 0.8, Match: hasWhiteFillAttribute},
	{Name: "white-class-fill", Confidence: 0.75, Match: hasWhiteClassFill},
	{Name: "white-inherited-fill", Confidence: 0.7, Match: hasWhiteInheritedFill},
	{Name: "unpainted", Confidence: 0.6, Match: isUnpainted},
	{Name: "flagged", Confidence: 0.6, Match: func(e Element) bool { return e.Flagged }},
}

func isNearWhiteValue(s string) bool {
	c, ok := ParseColor(s)
	return ok && c.IsNearWhite()
}

func isWhiteRectPath(e Element) bool {
	return isNearWhiteValue(e.EffectiveFill()) && DetectShape(e.Commands).Kind == ShapeRect
}

func hasWhiteStyleFill(e Element) bool {
	return isNearWhiteValue(e.StyleFill)
}

func hasWhiteFillAttribute(e Element) bool {
	return e.StyleFill == "" && e.ClassFill == "" && isNearWhiteValue(e.Fill)
}

func hasWhiteClassFill(e Element) bool {
	return e.StyleFill == "" && isNearWhiteValue(e.ClassFill)
}

func hasWhiteInheritedFill(e Element) bool {
	return e.StyleFill == "" && e.ClassFill == "" && e.Fill == "" && isNearWhiteValue(e.InheritedFill)
}

func isUnpainted(e Element) bool {
	c, ok := ParseColor(e.EffectiveFill())
	return ok && c.A == 0
}

// StripOption configures StripBackground.
type StripOption func(*stripOptions)

type stripOptions struct {
	rules         []BackgroundRule
	minCoverage   float64
	minConfidence float64
}

func defaultStripOptions() stripOptions {
	return stripOptions{
		rules:         DefaultBackgroundRules,
		minCoverage:   0.70,
		minConfidence: 0.6,
	}
}

// WithBackgroundRules replaces the rule table.
func WithBackgroundRules(rules []BackgroundRule) StripOption {
	return func(o *stripOptions) {
		o.rules = rules
	}
}

// WithMinCoverage sets the fraction of both canvas dimensions an element
// must cover to be considered.
func WithMinCoverage(f float64) StripOption {
	return func(o *stripOptions) {
		o.minCoverage = f
	}
}

// WithMinConfidence sets the confidence at which a rule match strips.
func WithMinConfidence(c float64) StripOption {
	return func(o *stripOptions) {
		o.minConfidence = c
	}
}

// StrippedElement records why an element was removed.
type StrippedElement struct {
	Element    Element
	Rule       string
	Confidence float64
}

// StripResult is the outcome of StripBackground.
type StripResult struct {
	Kept    []Element
	Removed []StrippedElement
}

// StripBackground removes elements that cover at least 70% of both canvas
// dimensions and match a background rule with enough confidence. The input
// slice is not modified.
//
// When every element would be removed nothing is stripped, since the art
// would otherwise be empty.
func StripBackground(elements []Element, canvas Rect, opts ...StripOption) StripResult {
	o := defaultStripOptions()
	for _, opt := range opts {
		opt(&o)
	}

	res := StripResult{Kept: make([]Element, 0, len(elements))}
	if canvas.IsEmpty() {
		res.Kept = append(res.Kept, elements...)
		return res
	}

	for _, e := range elements {
		rule, conf, ok := o.classify(e, canvas)
		if !ok {
			res.Kept = append(res.Kept, e)
			continue
		}
		Logger().Debug("background element stripped", "id", e.ID, "rule", rule, "confidence", conf)
		res.Removed = append(res.Removed, StrippedElement{Element: e, Rule: rule, Confidence: conf})
	}

	if len(res.Kept) == 0 && len(res.Removed) > 0 {
		Logger().Debug("background stripping skipped: no subject would remain", "removed", len(res.Removed))
		return StripResult{Kept: append([]Element(nil), elements...)}
	}
	return res
}

func (o *stripOptions) classify(e Element, canvas Rect) (string, float64, bool) {
	if !coversCanvas(e.Commands, canvas, o.minCoverage) {
		return "", 0, false
	}
	for _, r := range o.rules {
		if r.Match(e) {
			return r.Name, r.Confidence, r.Confidence >= o.minConfidence
		}
	}
	return "", 0, false
}

// coversCanvas reports whether the outline's bounding box spans at least
// frac of the canvas width and of the canvas height.
func coversCanvas(cmds []Command, canvas Rect, frac float64) bool {
	contours := BuildContours(cmds)
	if len(contours) == 0 {
		return false
	}
	b := contours[0].Bounds()
	for _, c := range contours[1:] {
		b = b.Union(c.Bounds())
	}
	return b.Width() >= frac*canvas.Width() && b.Height() >= frac*canvas.Height()
}
