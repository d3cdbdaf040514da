package text

import (
	"fmt"
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/signkit"
)

// SpaceAdvance is the advance of a space or a skipped character, as a
// fraction of the letter height.
const SpaceAdvance = 0.3

// Layout shapes s with src and returns one component per printable glyph,
// laid out left to right on a shared baseline.
//
// Coordinates are millimetres, y down: y = 0 is the ascender line and
// y = height the descender line. spacing is added after every glyph's
// advance. Spaces, characters the font lacks and glyphs without an
// outline advance the pen by SpaceAdvance*height and produce no
// component.
func Layout(src *Source, s string, height, spacing float64) ([]signkit.Component, error) {
	if height <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidHeight, height)
	}
	runes := []rune(norm.NFC.String(s))
	if len(runes) == 0 {
		return nil, ErrNoGlyphs
	}

	scale := height / (src.ascent + src.descent)
	skip := SpaceAdvance * height
	log := signkit.Logger()

	var (
		comps  []signkit.Component
		cursor float64
	)
	for _, g := range shape(src, runes) {
		start := g.TextIndex()
		end := min(start+max(g.RunesCount(), 1), len(runes))
		label := string(runes[start:end])

		if isBlank(runes[start:end]) {
			cursor += skip
			continue
		}
		if g.GlyphID == 0 {
			log.Warn("glyph missing", "char", label, "font", src.name)
			cursor += skip
			continue
		}

		cmds, err := src.outline(sfnt.GlyphIndex(g.GlyphID))
		if err != nil {
			log.Warn("glyph outline unreadable", "char", label, "err", err)
			cursor += skip
			continue
		}
		m := signkit.Translate(cursor+fixedToFloat(g.XOffset)*scale, src.ascent*scale).
			Multiply(signkit.Scale(scale, scale))
		shapes := signkit.ClassifyContours(signkit.BuildContours(signkit.TransformCommands(cmds, m)))
		if len(shapes) == 0 {
			log.Warn("glyph has no outline", "char", label)
			cursor += skip
			continue
		}

		advance := fixedToFloat(g.Advance) * scale
		comps = append(comps, signkit.Component{
			Label:   label,
			Shapes:  shapes,
			OffsetX: cursor,
			Advance: advance,
		})
		cursor += advance + spacing
	}

	if len(comps) == 0 {
		return nil, ErrNoGlyphs
	}
	log.Debug("text laid out", "glyphs", len(comps), "width", cursor, "scale", scale)
	return comps, nil
}

// shape runs HarfBuzz over the whole line. Sizes are in font units: the
// requested size equals units per em.
func shape(src *Source, runes []rune) []shaping.Glyph {
	in := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(src.font),
		Size:      fixed.I(int(src.upem)),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	var hb shaping.HarfbuzzShaper
	return hb.Shape(in).Glyphs
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func isBlank(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
