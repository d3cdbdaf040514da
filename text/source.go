package text

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/cache"
)

// outlineCacheSize is the per-shard capacity of a source's outline cache.
const outlineCacheSize = 32

// Source is a parsed font. It holds both the sfnt font used for outlines
// and the go-text font used for shaping, and caches glyph outlines in font
// units.
//
// Source is safe for concurrent use.
type Source struct {
	sfnt *sfnt.Font
	font *font.Font
	name string

	upem    float64
	ascent  float64 // font units above the baseline
	descent float64 // font units below the baseline, positive

	outlines *cache.Cache[sfnt.GlyphIndex, []signkit.Command]
	buffers  sync.Pool
}

// NewSource parses TrueType or OpenType font data. The data slice must
// not be modified afterwards.
func NewSource(data []byte) (*Source, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse outlines: %w", err)
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse for shaping: %w", err)
	}

	s := &Source{
		sfnt: sf,
		font: face.Font,
		upem: float64(sf.UnitsPerEm()),
		outlines: cache.New[sfnt.GlyphIndex, []signkit.Command](outlineCacheSize,
			func(g sfnt.GlyphIndex) uint64 { return uint64(g) }),
	}
	s.buffers.New = func() any { return new(sfnt.Buffer) }

	var buf sfnt.Buffer
	if name, err := sf.Name(&buf, sfnt.NameIDFull); err == nil {
		s.name = name
	}

	// OS/2 typo or hhea extents as go-text selects them; sfnt metrics
	// when the font has neither.
	if ext, ok := face.FontHExtents(); ok && ext.Ascender-ext.Descender > 0 {
		s.ascent, s.descent = float64(ext.Ascender), -float64(ext.Descender)
	} else if m, err := sf.Metrics(&buf, fixed.I(int(s.upem)), xfont.HintingNone); err == nil {
		s.ascent, s.descent = fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
	}
	if s.ascent+s.descent <= 0 {
		s.ascent, s.descent = s.upem, 0
	}
	return s, nil
}

// Name returns the full font name, or "" if the font has none.
func (s *Source) Name() string {
	return s.name
}

// UnitsPerEm returns the font's design grid size.
func (s *Source) UnitsPerEm() float64 {
	return s.upem
}

// Extent returns the ascender and descender in font units. Both are
// positive; their sum is the height that Layout maps to the letter
// height.
func (s *Source) Extent() (ascent, descent float64) {
	return s.ascent, s.descent
}

// HasGlyph reports whether the font maps r to a glyph.
func (s *Source) HasGlyph(r rune) bool {
	_, ok := s.font.NominalGlyph(r)
	return ok
}

// outline returns the outline of gid in font units, y down, with the
// origin at the pen position on the baseline.
func (s *Source) outline(gid sfnt.GlyphIndex) ([]signkit.Command, error) {
	return s.outlines.GetOrLoad(gid, func() ([]signkit.Command, error) {
		buf := s.buffers.Get().(*sfnt.Buffer)
		defer s.buffers.Put(buf)

		// Segments live in buf and are copied out before it is reused.
		segs, err := s.sfnt.LoadGlyph(buf, gid, fixed.I(int(s.upem)), nil)
		if err != nil {
			return nil, err
		}
		return segmentsToCommands(segs), nil
	})
}

func segmentsToCommands(segs sfnt.Segments) []signkit.Command {
	p := signkit.NewPath()
	started := false
	for _, seg := range segs {
		a := seg.Args
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				p.Close()
			}
			started = true
			p.MoveTo(fixedToFloat(a[0].X), fixedToFloat(a[0].Y))
		case sfnt.SegmentOpLineTo:
			p.LineTo(fixedToFloat(a[0].X), fixedToFloat(a[0].Y))
		case sfnt.SegmentOpQuadTo:
			p.QuadTo(fixedToFloat(a[0].X), fixedToFloat(a[0].Y),
				fixedToFloat(a[1].X), fixedToFloat(a[1].Y))
		case sfnt.SegmentOpCubeTo:
			p.CubicTo(fixedToFloat(a[0].X), fixedToFloat(a[0].Y),
				fixedToFloat(a[1].X), fixedToFloat(a[1].Y),
				fixedToFloat(a[2].X), fixedToFloat(a[2].Y))
		}
	}
	if started {
		p.Close()
	}
	return p.Commands()
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
