package signkit

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// BoundsResult is the content box found by DetectContentBounds.
type BoundsResult struct {
	// Content is the tight box of ink in working units, at raster
	// precision.
	Content Rect

	// Padded is Content grown by the proportional padding. This is the
	// new working frame.
	Padded Rect

	// Pass reports which raster pass found the ink: "opaque" or "alpha".
	Pass string
}

// BoundsOption configures DetectContentBounds.
type BoundsOption func(*boundsOptions)

type boundsOptions struct {
	resolution int
	padding    float64
	inkLevel   uint8
	alphaLevel uint8
	fills      []RGBA
}

func defaultBoundsOptions() boundsOptions {
	return boundsOptions{
		resolution: 512,
		padding:    0.02,
		inkLevel:   250,
		alphaLevel: 8,
	}
}

// WithResolution sets the raster size of the longer frame side.
func WithResolution(px int) BoundsOption {
	return func(o *boundsOptions) {
		if px > 0 {
			o.resolution = px
		}
	}
}

// WithPadding sets the padding added on each side as a fraction of the
// content size.
func WithPadding(frac float64) BoundsOption {
	return func(o *boundsOptions) {
		if frac >= 0 {
			o.padding = frac
		}
	}
}

// WithFills sets the fill color of each shape, by index. Shapes without an
// entry are drawn black.
func WithFills(fills []RGBA) BoundsOption {
	return func(o *boundsOptions) {
		o.fills = fills
	}
}

// DetectContentBounds rasterizes shapes inside frame and returns the tight
// box of visible content.
//
// The first pass draws the shapes in their fill colors onto opaque white
// and treats any channel below 250 as ink. When that finds nothing, for
// example because the subject itself is white, a second pass draws onto a
// transparent raster and treats alpha above 8 as ink. ok is false when
// neither pass finds ink; callers then keep frame.
//
// The result is deterministic for identical input.
func DetectContentBounds(shapes []PlanarShape, frame Rect, opts ...BoundsOption) (BoundsResult, bool) {
	o := defaultBoundsOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if frame.IsEmpty() || len(shapes) == 0 {
		return BoundsResult{}, false
	}

	scale := float64(o.resolution) / math.Max(frame.Width(), frame.Height())
	w := max(1, int(math.Ceil(frame.Width()*scale)))
	h := max(1, int(math.Ceil(frame.Height()*scale)))
	r := rasterFrame{frame: frame, scale: scale, w: w, h: h}

	px, ok := r.opaquePass(shapes, o)
	pass := "opaque"
	if !ok {
		px, ok = r.alphaPass(shapes, o)
		pass = "alpha"
	}
	if !ok {
		Logger().Warn("content bounds: no ink found", "shapes", len(shapes), "resolution", o.resolution)
		return BoundsResult{}, false
	}

	content := Rect{
		Min: Point{X: frame.Min.X + float64(px.Min.X)/scale, Y: frame.Min.Y + float64(px.Min.Y)/scale},
		Max: Point{X: frame.Min.X + float64(px.Max.X)/scale, Y: frame.Min.Y + float64(px.Max.Y)/scale},
	}
	pad := o.padding * math.Max(content.Width(), content.Height())
	return BoundsResult{Content: content, Padded: content.Inset(pad), Pass: pass}, true
}

type rasterFrame struct {
	frame Rect
	scale float64
	w, h  int
}

func (r rasterFrame) opaquePass(shapes []PlanarShape, o boundsOptions) (image.Rectangle, bool) {
	dst := image.NewRGBA(image.Rect(0, 0, r.w, r.h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for i, s := range shapes {
		fill := Black
		if i < len(o.fills) {
			fill = o.fills[i]
		}
		r.fill(dst, s, image.NewUniform(fill.Color()))
	}

	return inkBounds(r.w, r.h, func(x, y int) bool {
		off := dst.PixOffset(x, y)
		p := dst.Pix[off : off+3 : off+3]
		return p[0] < o.inkLevel || p[1] < o.inkLevel || p[2] < o.inkLevel
	})
}

func (r rasterFrame) alphaPass(shapes []PlanarShape, o boundsOptions) (image.Rectangle, bool) {
	dst := image.NewAlpha(image.Rect(0, 0, r.w, r.h))
	for _, s := range shapes {
		r.fill(dst, s, image.Opaque)
	}
	return inkBounds(r.w, r.h, func(x, y int) bool {
		return dst.Pix[dst.PixOffset(x, y)] > o.alphaLevel
	})
}

// fill draws one shape. Holes are wound opposite to the outer, so the
// rasterizer's accumulated coverage cancels inside them.
func (r rasterFrame) fill(dst draw.Image, s PlanarShape, src image.Image) {
	z := vector.NewRasterizer(r.w, r.h)
	z.DrawOp = draw.Over
	r.addContour(z, s.Outer)
	for _, h := range s.Holes {
		r.addContour(z, h)
	}
	z.Draw(dst, dst.Bounds(), src, image.Point{})
}

func (r rasterFrame) addContour(z *vector.Rasterizer, c Contour) {
	if len(c.Points) == 0 {
		return
	}
	tx := func(p Point) (float32, float32) {
		return float32((p.X - r.frame.Min.X) * r.scale), float32((p.Y - r.frame.Min.Y) * r.scale)
	}
	z.MoveTo(tx(c.Points[0]))
	for _, p := range c.Points[1:] {
		z.LineTo(tx(p))
	}
	z.ClosePath()
}

// inkBounds scans a w x h raster and returns the half-open pixel box of
// every pixel for which ink reports true.
func inkBounds(w, h int, ink func(x, y int) bool) (image.Rectangle, bool) {
	minX, minY, maxX, maxY := w, h, -1, -1
	for y := range h {
		for x := range w {
			if !ink(x, y) {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
