package svg

import (
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/gogpu/signkit"
)

// Selector kinds in increasing specificity.
const (
	selectorType = iota
	selectorClass
	selectorID
)

type styleRule struct {
	kind  int
	name  string
	props map[string]string
}

// stylesheet holds the rules of every <style> block in document order.
// Only simple selectors are understood: an element name, one class or an
// id, optionally after a descendant combinator, which is ignored.
type stylesheet struct {
	rules []styleRule
}

// add parses CSS source and appends its rules.
func (s *stylesheet) add(src string) {
	p := css.NewParser(parse.NewInputString(src), false)
	var current []int // indices of the rules opened by the current ruleset
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.Err() == io.EOF {
				return
			}
			signkit.Logger().Debug("stylesheet error skipped", "err", p.Err())
			if !p.HasParseError() || p.Offset() >= len(src) {
				return
			}
		case css.BeginRulesetGrammar:
			current = current[:0]
			for _, sel := range splitSelectors(p.Values()) {
				kind, name, ok := parseSelector(sel)
				if !ok {
					continue
				}
				current = append(current, len(s.rules))
				s.rules = append(s.rules, styleRule{kind: kind, name: name, props: map[string]string{}})
			}
		case css.EndRulesetGrammar:
			current = current[:0]
		case css.DeclarationGrammar:
			val := tokensString(p.Values())
			for _, i := range current {
				s.rules[i].props[string(data)] = val
			}
		}
	}
}

// lookup returns the value of prop for an element, honoring selector
// specificity and, for equal specificity, the later rule.
func (s *stylesheet) lookup(prop, tag, id string, classes []string) string {
	best, bestKind := "", -1
	for _, r := range s.rules {
		v, ok := r.props[prop]
		if !ok || r.kind < bestKind || !r.matches(tag, id, classes) {
			continue
		}
		best, bestKind = v, r.kind
	}
	return best
}

func (r styleRule) matches(tag, id string, classes []string) bool {
	switch r.kind {
	case selectorID:
		return id != "" && r.name == id
	case selectorClass:
		for _, c := range classes {
			if c == r.name {
				return true
			}
		}
		return false
	default:
		return r.name == "*" || r.name == tag
	}
}

// splitSelectors splits a selector list on commas into strings.
func splitSelectors(tokens []css.Token) []string {
	var (
		out []string
		sb  strings.Builder
	)
	for _, t := range tokens {
		if t.TokenType == css.CommaToken {
			out = append(out, sb.String())
			sb.Reset()
			continue
		}
		sb.Write(t.Data)
	}
	return append(out, sb.String())
}

// parseSelector classifies the last compound of a selector.
func parseSelector(sel string) (kind int, name string, ok bool) {
	sel = strings.TrimSpace(sel)
	if i := strings.LastIndexAny(sel, " >+~"); i >= 0 {
		sel = sel[i+1:]
	}
	if sel == "" || strings.ContainsAny(sel, ":[") {
		return 0, "", false
	}
	if i := strings.IndexByte(sel, '#'); i >= 0 {
		return selectorID, sel[i+1:], true
	}
	if i := strings.IndexByte(sel, '.'); i >= 0 {
		name := sel[i+1:]
		if name == "" || strings.Contains(name, ".") {
			return 0, "", false
		}
		return selectorClass, name, true
	}
	return selectorType, strings.ToLower(sel), true
}

// parseInlineStyle parses a style attribute into lower-case properties.
func parseInlineStyle(style string) map[string]string {
	props := map[string]string{}
	if strings.TrimSpace(style) == "" {
		return props
	}
	p := css.NewParser(parse.NewInputString(style), true)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.Err() == io.EOF || !p.HasParseError() || p.Offset() >= len(style) {
				return props
			}
		case css.DeclarationGrammar:
			props[string(data)] = tokensString(p.Values())
		}
	}
}

func tokensString(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}
