package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"

	"github.com/gogpu/signkit"
)

// parseTransform parses a transform attribute: a list of matrix,
// translate, scale, rotate, skewX and skewY functions applied right to
// left.
func parseTransform(s string) (signkit.Matrix, error) {
	m := signkit.Identity()
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		end := strings.IndexByte(rest, ')')
		if open < 0 || end < open {
			return signkit.Identity(), fmt.Errorf("svg: malformed transform %q", s)
		}
		name := strings.TrimSpace(rest[:open])
		args, err := parseNumbers(rest[open+1 : end])
		if err != nil {
			return signkit.Identity(), fmt.Errorf("svg: transform %s: %w", name, err)
		}
		t, err := transformFunc(name, args)
		if err != nil {
			return signkit.Identity(), err
		}
		m = m.Multiply(t)
		rest = strings.TrimLeft(rest[end+1:], " \t\r\n,")
	}
	return m, nil
}

func transformFunc(name string, a []float64) (signkit.Matrix, error) {
	n := len(a)
	switch {
	case name == "matrix" && n == 6:
		return signkit.Matrix{A: a[0], B: a[2], C: a[4], D: a[1], E: a[3], F: a[5]}, nil
	case name == "translate" && n == 1:
		return signkit.Translate(a[0], 0), nil
	case name == "translate" && n == 2:
		return signkit.Translate(a[0], a[1]), nil
	case name == "scale" && n == 1:
		return signkit.Scale(a[0], a[0]), nil
	case name == "scale" && n == 2:
		return signkit.Scale(a[0], a[1]), nil
	case name == "rotate" && n == 1:
		return signkit.Rotate(a[0] * math.Pi / 180), nil
	case name == "rotate" && n == 3:
		return signkit.Translate(a[1], a[2]).
			Multiply(signkit.Rotate(a[0] * math.Pi / 180)).
			Multiply(signkit.Translate(-a[1], -a[2])), nil
	case name == "skewX" && n == 1:
		return signkit.Matrix{A: 1, B: math.Tan(a[0] * math.Pi / 180), E: 1}, nil
	case name == "skewY" && n == 1:
		return signkit.Matrix{A: 1, D: math.Tan(a[0] * math.Pi / 180), E: 1}, nil
	}
	return signkit.Identity(), fmt.Errorf("svg: unsupported transform %s with %d arguments", name, n)
}

// parseNumbers parses a comma or whitespace separated number list.
func parseNumbers(s string) ([]float64, error) {
	b := []byte(s)
	var out []float64
	for i := 0; ; {
		for i < len(b) && isSeparator(b[i]) {
			i++
		}
		if i == len(b) {
			return out, nil
		}
		v, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return nil, fmt.Errorf("invalid number at %q", s[i:])
		}
		out = append(out, v)
		i += n
	}
}

func isSeparator(c byte) bool {
	return c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r'
}

// mmPerUnit converts absolute CSS length units to millimetres.
var mmPerUnit = map[string]float64{
	"mm": 1,
	"cm": 10,
	"in": 25.4,
	"pt": 25.4 / 72,
	"pc": 25.4 / 6,
}

// length is a parsed SVG length attribute.
type length struct {
	value float64
	unit  string
}

// physical reports whether the length carries an absolute unit and
// returns it in millimetres. Pixels are not physical: their size depends
// on the consumer.
func (l length) physical() (float64, bool) {
	k, ok := mmPerUnit[l.unit]
	return l.value * k, ok
}

func parseLength(s string) (length, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return length{}, false
	}
	v, n := strconv.ParseFloat([]byte(s))
	if n == 0 {
		return length{}, false
	}
	unit := strings.ToLower(strings.TrimSpace(s[n:]))
	if unit == "%" {
		return length{}, false
	}
	return length{value: v, unit: unit}, true
}

// parseViewBox parses "min-x min-y width height".
func parseViewBox(s string) (signkit.Rect, bool) {
	v, err := parseNumbers(s)
	if err != nil || len(v) != 4 || v[2] <= 0 || v[3] <= 0 {
		return signkit.Rect{}, false
	}
	return signkit.RectXYWH(v[0], v[1], v[2], v[3]), true
}
