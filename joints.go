package signkit

import "math"

// Joint is one connector feature on a segment edge.
type Joint struct {
	Edge Edge          `json:"edge"`
	Kind ConnectorType `json:"kind"`

	// Male is true for the protruding half (tenon, pin, tongue). Right and
	// bottom edges carry male halves; left and top edges the sockets.
	Male bool `json:"male"`

	// Center is the joint center in the plan frame, on the midline of
	// the overlap strip.
	Center Point `json:"center"`

	// Length is the joint extent along the edge.
	Length float64 `json:"length"`

	Depth     float64 `json:"depth"`
	Tolerance float64 `json:"tolerance"`
}

// JointStyle places connectors along a shared segment edge.
type JointStyle interface {
	// Type returns the connector type the style produces.
	Type() ConnectorType

	// Place returns the joints for one flagged edge of seg.
	Place(seg Segment, edge Edge, overlap float64) []Joint
}

// defaultJointSpacing is the edge length served by one connector.
const defaultJointSpacing = 100.0

// MortiseTenon places rectangular tenons, one per Spacing of edge length.
type MortiseTenon struct {
	Depth     float64
	Tolerance float64
	Spacing   float64
}

// Type implements JointStyle.
func (MortiseTenon) Type() ConnectorType { return ConnectorMortiseTenon }

// Place implements JointStyle.
func (m MortiseTenon) Place(seg Segment, edge Edge, overlap float64) []Joint {
	length := edgeLength(seg, edge)
	n := connectorCount(length, m.Spacing, 1)
	size := math.Min(length/float64(2*n), 20)
	return distribute(seg, edge, overlap, n, Joint{
		Kind: ConnectorMortiseTenon, Length: size, Depth: m.Depth, Tolerance: m.Tolerance,
	})
}

// Pins places round dowel pins, at least two per edge so the pieces
// cannot rotate against each other.
type Pins struct {
	Diameter  float64
	Depth     float64
	Tolerance float64
	Spacing   float64
}

// Type implements JointStyle.
func (Pins) Type() ConnectorType { return ConnectorPin }

// Place implements JointStyle.
func (p Pins) Place(seg Segment, edge Edge, overlap float64) []Joint {
	length := edgeLength(seg, edge)
	n := connectorCount(length, p.Spacing, 2)
	return distribute(seg, edge, overlap, n, Joint{
		Kind: ConnectorPin, Length: p.Diameter, Depth: p.Depth, Tolerance: p.Tolerance,
	})
}

// TongueGroove places one continuous tongue along the edge, stopped short
// of the ends by Margin.
type TongueGroove struct {
	Depth     float64
	Tolerance float64
	Margin    float64
}

// Type implements JointStyle.
func (TongueGroove) Type() ConnectorType { return ConnectorTongueGroove }

// Place implements JointStyle.
func (t TongueGroove) Place(seg Segment, edge Edge, overlap float64) []Joint {
	length := math.Max(edgeLength(seg, edge)-2*t.Margin, 0)
	if length == 0 {
		return nil
	}
	return distribute(seg, edge, overlap, 1, Joint{
		Kind: ConnectorTongueGroove, Length: length, Depth: t.Depth, Tolerance: t.Tolerance,
	})
}

// JointStyleFor returns the joint style described by a lighting rule.
func JointStyleFor(r LightingRule) JointStyle {
	switch r.ConnectorType {
	case ConnectorPin:
		return Pins{Diameter: 5, Depth: r.ConnectorDepth, Tolerance: r.ConnectorTolerance, Spacing: defaultJointSpacing}
	case ConnectorTongueGroove:
		return TongueGroove{Depth: r.ConnectorDepth, Tolerance: r.ConnectorTolerance, Margin: r.WallThickness * 2}
	default:
		return MortiseTenon{Depth: r.ConnectorDepth, Tolerance: r.ConnectorTolerance, Spacing: defaultJointSpacing}
	}
}

func edgeLength(seg Segment, e Edge) float64 {
	if e == EdgeLeft || e == EdgeRight {
		return seg.Height
	}
	return seg.Width
}

func connectorCount(length, spacing float64, least int) int {
	if spacing <= 0 {
		spacing = defaultJointSpacing
	}
	return max(least, int(length/spacing))
}

// distribute spreads n copies of proto evenly along edge.
func distribute(seg Segment, e Edge, overlap float64, n int, proto Joint) []Joint {
	proto.Edge = e
	proto.Male = e == EdgeRight || e == EdgeBottom

	// Midline of the overlap strip across the edge.
	var across float64
	switch e {
	case EdgeLeft:
		across = seg.OffsetX + overlap/2
	case EdgeRight:
		across = seg.OffsetX + seg.Width - overlap/2
	case EdgeTop:
		across = seg.OffsetY + overlap/2
	case EdgeBottom:
		across = seg.OffsetY + seg.Height - overlap/2
	}

	length := edgeLength(seg, e)
	joints := make([]Joint, n)
	for i := range joints {
		along := (float64(i) + 0.5) * length / float64(n)
		j := proto
		if e == EdgeLeft || e == EdgeRight {
			j.Center = Pt(across, seg.OffsetY+along)
		} else {
			j.Center = Pt(seg.OffsetX+along, across)
		}
		joints[i] = j
	}
	return joints
}
