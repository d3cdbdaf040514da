package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/gogpu/signkit"
)

// Document is vector art read from an SVG file.
type Document struct {
	// Elements are the filled shapes in document order, in canvas units
	// with all transforms applied.
	Elements []signkit.Element

	// Canvas is the viewport: the viewBox, or the width and height.
	// It is empty when the document declares neither.
	Canvas signkit.Rect

	// Millimetres is set when width and height carry an absolute unit.
	// Canvas units are then millimetres.
	Millimetres bool

	// Skipped counts shape elements dropped as unusable: no geometry,
	// hidden, or inside definitions.
	Skipped int

	// PathIssues counts malformed subpaths discarded while parsing path
	// data.
	PathIssues int
}

// Art returns the document as pipeline input.
func (d *Document) Art() signkit.ArtInput {
	return signkit.ArtInput{Elements: d.Elements, Canvas: d.Canvas, Millimetres: d.Millimetres}
}

// Option configures Read.
type Option func(*readOptions)

type readOptions struct {
	labelAttr string
}

// WithLabelAttribute sets the attribute that names an element's
// component. The default is data-char.
func WithLabelAttribute(name string) Option {
	return func(o *readOptions) {
		o.labelAttr = name
	}
}

// ReadString reads an SVG document from a string.
func ReadString(s string, opts ...Option) (*Document, error) {
	return Read(strings.NewReader(s), opts...)
}

// ReadBytes reads an SVG document from a byte slice.
func ReadBytes(b []byte, opts ...Option) (*Document, error) {
	return Read(bytes.NewReader(b), opts...)
}

// Read parses an SVG document.
//
// Every <path>, <rect>, <circle>, <ellipse>, <polygon> and <polyline>
// outside definitions becomes an Element. Fill, fill-rule and transforms
// are inherited through groups; class and id fills come from <style>
// blocks anywhere in the document. Elements whose id or class names a
// background layer are marked Flagged.
func Read(r io.Reader, opts ...Option) (*Document, error) {
	o := readOptions{labelAttr: "data-char"}
	for _, opt := range opts {
		opt(&o)
	}

	rd := &reader{opts: o, dec: xml.NewDecoder(r)}
	rd.dec.Strict = false
	rd.dec.Entity = xml.HTMLEntity
	if err := rd.run(); err != nil {
		return nil, err
	}
	rd.resolvePaint()

	signkit.Logger().Debug("svg read",
		"elements", len(rd.doc.Elements), "skipped", rd.doc.Skipped,
		"path_issues", rd.doc.PathIssues, "mm", rd.doc.Millimetres)
	return &rd.doc, nil
}

// state is what a group passes to its children.
type state struct {
	m       signkit.Matrix
	flagged bool
	label   string

	// scopes are the declarations of the enclosing containers, outermost
	// first.
	scopes []scope
}

// scope holds the paint declarations one element makes itself.
type scope struct {
	tag     string
	id      string
	classes []string
	attrs   map[string]string // presentation attributes
	style   map[string]string // inline style
}

func newScope(tag string, a map[string]string) scope {
	sc := scope{
		tag: tag, id: a["id"], classes: strings.Fields(a["class"]),
		style: parseInlineStyle(a["style"]),
	}
	for _, prop := range paintProps {
		if v, ok := a[prop]; ok {
			if sc.attrs == nil {
				sc.attrs = make(map[string]string, len(paintProps))
			}
			sc.attrs[prop] = strings.TrimSpace(v)
		}
	}
	return sc
}

var paintProps = []string{"fill", "fill-rule"}

// pending is an element whose paint is resolved after the whole document,
// and so every <style> block, has been read.
type pending struct {
	index   int
	own     scope
	parents []scope
}

type reader struct {
	opts readOptions
	dec  *xml.Decoder
	doc  Document

	stack   []state
	css     stylesheet
	pending []pending
	rooted  bool
}

func (rd *reader) run() error {
	for {
		tok, err := rd.dec.Token()
		if errors.Is(err, io.EOF) {
			if !rd.rooted {
				return ErrNotSVG
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("svg: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := rd.start(t); err != nil {
				return err
			}
		case xml.EndElement:
			if len(rd.stack) > 0 && containerTags[t.Name.Local] {
				rd.stack = rd.stack[:len(rd.stack)-1]
			}
		}
	}
}

// containerTags push a state on start and pop it on end.
var containerTags = map[string]bool{"svg": true, "g": true, "a": true, "switch": true}

// skipTags hold content that is not painted directly.
var skipTags = map[string]bool{
	"defs": true, "symbol": true, "clipPath": true, "mask": true, "pattern": true,
	"marker": true, "linearGradient": true, "radialGradient": true, "filter": true,
	"metadata": true, "title": true, "desc": true, "foreignObject": true,
}

func (rd *reader) start(t xml.StartElement) error {
	tag := t.Name.Local
	if !rd.rooted {
		if tag != "svg" {
			return ErrNotSVG
		}
		rd.rooted = true
		rd.root(t)
		return nil
	}

	switch {
	case tag == "style":
		var body string
		if err := rd.dec.DecodeElement(&body, &t); err != nil {
			return fmt.Errorf("svg: style: %w", err)
		}
		rd.css.add(body)
		return nil
	case skipTags[tag]:
		rd.doc.Skipped += countShapes(rd.dec)
		return nil
	}

	a := attrMap(t.Attr)
	if containerTags[tag] && hidden(a) {
		rd.doc.Skipped += countShapes(rd.dec)
		return nil
	}
	st := rd.inherit(a)
	if containerTags[tag] {
		st.scopes = append(slices.Clip(st.scopes), newScope(tag, a))
		rd.stack = append(rd.stack, st)
		return nil
	}

	cmds, ok := rd.geometry(tag, a)
	if !ok {
		return rd.dec.Skip()
	}
	if hidden(a) || len(cmds) == 0 {
		rd.doc.Skipped++
		return rd.dec.Skip()
	}

	e := signkit.Element{
		ID:       a["id"],
		Label:    st.label,
		Commands: signkit.TransformCommands(cmds, st.m),
		Flagged:  st.flagged,
	}
	rd.pending = append(rd.pending, pending{
		index: len(rd.doc.Elements), own: newScope(tag, a), parents: st.scopes,
	})
	rd.doc.Elements = append(rd.doc.Elements, e)
	return rd.dec.Skip()
}

// root reads the viewport of the outermost <svg> element.
func (rd *reader) root(t xml.StartElement) {
	a := attrMap(t.Attr)
	w, hasW := parseLength(a["width"])
	h, hasH := parseLength(a["height"])
	vb, hasVB := parseViewBox(a["viewBox"])

	st := rd.inherit(a)
	st.m = signkit.Identity()
	st.scopes = []scope{newScope("svg", a)}

	wmm, physW := w.physical()
	hmm, physH := h.physical()
	switch {
	case hasW && hasH && physW && physH:
		rd.doc.Millimetres = true
		rd.doc.Canvas = signkit.RectXYWH(0, 0, wmm, hmm)
		if hasVB {
			// Map the viewBox onto the physical size.
			st.m = signkit.Scale(wmm/vb.Width(), hmm/vb.Height()).
				Multiply(signkit.Translate(-vb.Min.X, -vb.Min.Y))
		}
	case hasVB:
		rd.doc.Canvas = vb
	case hasW && hasH && w.value > 0 && h.value > 0:
		rd.doc.Canvas = signkit.RectXYWH(0, 0, w.value, h.value)
	}
	rd.stack = append(rd.stack, st)
}

// inherit combines the parent state with an element's attributes.
func (rd *reader) inherit(a map[string]string) state {
	st := state{m: signkit.Identity()}
	if n := len(rd.stack); n > 0 {
		st = rd.stack[n-1]
	}
	if tr, ok := a["transform"]; ok {
		m, err := parseTransform(tr)
		if err != nil {
			signkit.Logger().Debug("transform ignored", "id", a["id"], "err", err)
		}
		st.m = st.m.Multiply(m)
	}
	if v, ok := a[rd.opts.labelAttr]; ok {
		st.label = v
	}
	if namesBackground(a["id"]) || namesBackground(a["class"]) {
		st.flagged = true
	}
	return st
}

// resolvePaint fills in the fills and fill rule of every element.
//
// An element's own declarations rank inline style, then stylesheet rules,
// then presentation attributes. Any of them beats an inherited value, and
// inherited values come from the nearest ancestor declaring one.
func (rd *reader) resolvePaint() {
	for _, p := range rd.pending {
		e := &rd.doc.Elements[p.index]
		e.StyleFill = declared(p.own.style, "fill")
		e.ClassFill = rd.classValue(p.own, "fill")
		e.Fill = declared(p.own.attrs, "fill")
		e.InheritedFill = rd.inherited(p.parents, "fill")

		rule := rd.value(p.own, "fill-rule")
		if rule == "" {
			rule = rd.inherited(p.parents, "fill-rule")
		}
		e.EvenOdd = rule == "evenodd"
	}
}

// value is the cascaded value an element declares itself for prop.
func (rd *reader) value(sc scope, prop string) string {
	if v := declared(sc.style, prop); v != "" {
		return v
	}
	if v := rd.classValue(sc, prop); v != "" {
		return v
	}
	return declared(sc.attrs, prop)
}

func (rd *reader) inherited(parents []scope, prop string) string {
	for i := len(parents) - 1; i >= 0; i-- {
		if v := rd.value(parents[i], prop); v != "" {
			return v
		}
	}
	return ""
}

func (rd *reader) classValue(sc scope, prop string) string {
	v := strings.TrimSpace(rd.css.lookup(prop, sc.tag, sc.id, sc.classes))
	if v == "inherit" {
		return ""
	}
	return v
}

// declared returns decl[prop], treating inherit as undeclared.
func declared(decl map[string]string, prop string) string {
	v := strings.TrimSpace(decl[prop])
	if v == "inherit" {
		return ""
	}
	return v
}

// geometry returns the outline of a shape element. ok is false for
// elements that are not shapes.
func (rd *reader) geometry(tag string, a map[string]string) ([]signkit.Command, bool) {
	num := func(k string) float64 {
		l, _ := parseLength(a[k])
		return l.value
	}
	p := signkit.NewPath()
	switch tag {
	case "path":
		res := signkit.ParsePathData(a["d"])
		for _, is := range res.Issues {
			signkit.Logger().Debug("path data issue", "id", a["id"], "err", is)
		}
		rd.doc.PathIssues += len(res.Issues)
		return res.Commands, true
	case "rect":
		w, h := num("width"), num("height")
		if w <= 0 || h <= 0 {
			return nil, true
		}
		rx, hasRX := parseLength(a["rx"])
		ry, hasRY := parseLength(a["ry"])
		switch {
		case hasRX && !hasRY:
			ry = rx
		case hasRY && !hasRX:
			rx = ry
		}
		if rx.value > 0 && ry.value > 0 {
			p.RoundedRectangle(num("x"), num("y"), w, h, min(rx.value, w/2), min(ry.value, h/2))
		} else {
			p.Rectangle(num("x"), num("y"), w, h)
		}
	case "circle":
		if r := num("r"); r > 0 {
			p.Ellipse(num("cx"), num("cy"), r, r)
		}
	case "ellipse":
		if rx, ry := num("rx"), num("ry"); rx > 0 && ry > 0 {
			p.Ellipse(num("cx"), num("cy"), rx, ry)
		}
	case "polygon", "polyline":
		// Both are filled as closed outlines.
		v, err := parseNumbers(a["points"])
		if err != nil {
			signkit.Logger().Debug("points ignored", "id", a["id"], "err", err)
			return nil, true
		}
		pts := make([]signkit.Point, 0, len(v)/2)
		for i := 0; i+1 < len(v); i += 2 {
			pts = append(pts, signkit.Pt(v[i], v[i+1]))
		}
		if len(pts) >= 3 {
			p.Polygon(pts, true)
		}
	default:
		return nil, false
	}
	return p.Commands(), true
}

// countShapes skips the current element and returns the number of shape
// elements it contained.
func countShapes(dec *xml.Decoder) int {
	n, depth := 0, 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return n
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if shapeTags[t.Name.Local] {
				n++
			}
		case xml.EndElement:
			depth--
		}
	}
	return n
}

var shapeTags = map[string]bool{
	"path": true, "rect": true, "circle": true, "ellipse": true, "polygon": true, "polyline": true,
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

func hidden(a map[string]string) bool {
	style := parseInlineStyle(a["style"])
	return strings.TrimSpace(a["display"]) == "none" || style["display"] == "none" ||
		strings.TrimSpace(a["visibility"]) == "hidden" || style["visibility"] == "hidden"
}

// namesBackground reports whether an id or class value names a
// background layer: it contains "background" or a word "bg".
func namesBackground(s string) bool {
	s = strings.ToLower(s)
	if strings.Contains(s, "background") {
		return true
	}
	for _, w := range strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) {
		if w == "bg" {
			return true
		}
	}
	return false
}
