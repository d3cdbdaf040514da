package signkit

import (
	"fmt"
	"math"
)

// Edge names one side of a segment.
type Edge string

// Segment edges.
const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// ConnectorFlags marks the edges a segment shares with a neighbour.
type ConnectorFlags struct {
	Left   bool `json:"left"`
	Right  bool `json:"right"`
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
}

// Has reports whether the flag for e is set.
func (f ConnectorFlags) Has(e Edge) bool {
	switch e {
	case EdgeLeft:
		return f.Left
	case EdgeRight:
		return f.Right
	case EdgeTop:
		return f.Top
	case EdgeBottom:
		return f.Bottom
	}
	return false
}

// Segment is one printable tile of a segmented shape. Offsets are
// relative to the plan origin, which is the shape's top-left corner.
type Segment struct {
	Row        int            `json:"row"`
	Col        int            `json:"col"`
	OffsetX    float64        `json:"offset_x"`
	OffsetY    float64        `json:"offset_y"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Connectors ConnectorFlags `json:"connectors"`
	Joints     []Joint        `json:"joints,omitempty"`
}

// Bounds returns the segment rectangle.
func (s Segment) Bounds() Rect {
	return RectXYWH(s.OffsetX, s.OffsetY, s.Width, s.Height)
}

// SegmentPlan is the tiling of one shape's bounding box.
//
// For a split axis with n > 1 tiles every tile is dimension/n + overlap
// long and tile i starts at i*dimension/n - overlap/2. Adjacent tiles
// therefore overlap by exactly overlap, and the outermost tiles extend
// overlap/2 beyond the bounding box, where there is no geometry.
type SegmentPlan struct {
	NeedsSegmentation bool      `json:"needs_segmentation"`
	Width             float64   `json:"width"`
	Height            float64   `json:"height"`
	MaxSize           float64   `json:"max_size"`
	Overlap           float64   `json:"overlap"`
	Rows              int       `json:"rows"`
	Cols              int       `json:"cols"`
	Segments          []Segment `json:"segments"`
}

// Segment returns the segment at row, col.
func (p SegmentPlan) Segment(row, col int) (Segment, bool) {
	if row < 0 || row >= p.Rows || col < 0 || col >= p.Cols {
		return Segment{}, false
	}
	return p.Segments[row*p.Cols+col], true
}

// PlanOption configures PlanSegments.
type PlanOption func(*planOptions)

type planOptions struct {
	origin Point
	joints JointStyle
}

// WithOrigin offsets every segment by origin, so segments can be placed
// in the shape's own coordinate frame.
func WithOrigin(origin Point) PlanOption {
	return func(o *planOptions) {
		o.origin = origin
	}
}

// WithJointStyle places joints on every connector edge.
func WithJointStyle(js JointStyle) PlanOption {
	return func(o *planOptions) {
		o.joints = js
	}
}

// PlanSegments tiles a width x height box for a build plate of maxSize.
//
// Segmentation is needed when either side exceeds maxSize. The grid is
// cols = ceil(width/(maxSize-overlap)) by rows = ceil(height/(maxSize-overlap)).
// Every tile of a segmented plan is dim/count + overlap long on both axes,
// including an axis with a single tile, and the grid is centred on the box
// so the outer tiles reach overlap/2 beyond it.
// When no segmentation is needed the plan holds one full-size segment
// without connectors, so callers can treat every plan alike.
func PlanSegments(width, height, maxSize, overlap float64, opts ...PlanOption) (SegmentPlan, error) {
	if width < 0 || height < 0 || maxSize <= 0 || overlap < 0 || overlap >= maxSize {
		return SegmentPlan{}, fmt.Errorf("%w: size %gx%g, max %g, overlap %g",
			ErrInvalidSegmentation, width, height, maxSize, overlap)
	}
	o := planOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	plan := SegmentPlan{
		NeedsSegmentation: width > maxSize || height > maxSize,
		Width:             width,
		Height:            height,
		MaxSize:           maxSize,
		Overlap:           overlap,
		Rows:              1,
		Cols:              1,
	}
	if plan.NeedsSegmentation {
		step := maxSize - overlap
		plan.Cols = max(1, int(math.Ceil(width/step)))
		plan.Rows = max(1, int(math.Ceil(height/step)))
	}

	margin := 0.0
	if plan.NeedsSegmentation {
		margin = overlap
	}
	xs, ws := splitAxis(width, plan.Cols, margin)
	ys, hs := splitAxis(height, plan.Rows, margin)

	plan.Segments = make([]Segment, 0, plan.Rows*plan.Cols)
	for row := range plan.Rows {
		for col := range plan.Cols {
			seg := Segment{
				Row:     row,
				Col:     col,
				OffsetX: o.origin.X + xs[col],
				OffsetY: o.origin.Y + ys[row],
				Width:   ws,
				Height:  hs,
				Connectors: ConnectorFlags{
					Left:   col > 0,
					Right:  col < plan.Cols-1,
					Top:    row > 0,
					Bottom: row < plan.Rows-1,
				},
			}
			if o.joints != nil {
				seg.Joints = placeJoints(o.joints, seg, overlap)
			}
			plan.Segments = append(plan.Segments, seg)
		}
	}

	if plan.NeedsSegmentation {
		Logger().Debug("segmentation planned",
			"width", width, "height", height, "cols", plan.Cols, "rows", plan.Rows)
	}
	return plan, nil
}

// splitAxis returns the tile offsets and the common tile length for one
// axis split into n tiles grown by overlap.
func splitAxis(dim float64, n int, overlap float64) ([]float64, float64) {
	offsets := make([]float64, n)
	pitch := dim / float64(n)
	for i := range offsets {
		offsets[i] = float64(i)*pitch - overlap/2
	}
	return offsets, pitch + overlap
}

func placeJoints(js JointStyle, seg Segment, overlap float64) []Joint {
	var joints []Joint
	for _, e := range []Edge{EdgeLeft, EdgeRight, EdgeTop, EdgeBottom} {
		if seg.Connectors.Has(e) {
			joints = append(joints, js.Place(seg, e, overlap)...)
		}
	}
	return joints
}
