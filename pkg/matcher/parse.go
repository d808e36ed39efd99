// Package matcher implements the directive-driven recursive comparison engine.
package matcher

import (
	"fmt"
	"strings"

	"go.datamatch.io/engine/pkg/models"
)

const (
	directiveOpen  = "{{compare:"
	directiveClose = "}}"
)

// Structural keywords. They share the directive wrapper syntax but control
// traversal instead of matching a single value.
const (
	KeywordExact       = "exact"
	KeywordIgnore      = "ignore"
	KeywordIgnoreRest  = "ignoreRest"
	KeywordIgnoreOrder = "ignoreOrder"
)

// directiveEnd returns the index in rest where the closing "}}" starts, or
// -1. The close is the first "}}" after the opening wrapper, slid right
// through any further "}" so a regex quantifier brace directly before the
// close stays inside the body.
func directiveEnd(rest string) int {
	end := strings.Index(rest, directiveClose)
	if end < 0 {
		return -1
	}
	for end+len(directiveClose) < len(rest) && rest[end+len(directiveClose)] == '}' {
		end++
	}
	return end
}

// IsDirective reports whether s, after trimming, is exactly one directive.
// Interior braces (regex quantifiers like {5}) are fine but nothing may
// follow the closing braces.
func IsDirective(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, directiveOpen) {
		return false
	}
	rest := s[len(directiveOpen):]
	end := directiveEnd(rest)
	if end < 1 {
		return false
	}
	return end+len(directiveClose) == len(rest)
}

// FindDirectives returns every non-overlapping directive substring of s in
// order of occurrence.
func FindDirectives(s string) []string {
	var out []string
	for {
		start := strings.Index(s, directiveOpen)
		if start == -1 {
			return out
		}
		rest := s[start+len(directiveOpen):]
		end := directiveEnd(rest)
		if end < 1 {
			return out
		}
		out = append(out, s[start:start+len(directiveOpen)+end+len(directiveClose)])
		s = rest[end+len(directiveClose):]
	}
}

// IsKeyword reports whether s is one of the four structural keyword literals.
func IsKeyword(s string) bool {
	switch s {
	case KeywordExact, KeywordIgnore, KeywordIgnoreRest, KeywordIgnoreOrder:
		return true
	}
	return false
}

// KeywordOf returns the structural keyword a value represents, or "" if the
// value is not a keyword string.
func KeywordOf(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, directiveOpen) || !strings.HasSuffix(s, directiveClose) {
		return ""
	}
	body := s[len(directiveOpen) : len(s)-len(directiveClose)]
	if IsKeyword(body) {
		return body
	}
	return ""
}

// Keyword renders a structural keyword in its wire form, e.g.
// Keyword(KeywordIgnore) == "{{compare:ignore}}".
func Keyword(name string) string {
	return directiveOpen + name + directiveClose
}

// Parse tokenizes a directive string into action, positional arguments and
// the transform pipeline. The body is split on unescaped "|" into a main
// clause and transform clauses, each of which is split on unescaped ":".
// "\:" is consumed as a literal colon; any other backslash is preserved
// verbatim so regex escapes like "\d" survive parsing untouched.
func Parse(directive string) (models.Directive, error) {
	d := models.Directive{Original: directive}
	if !IsDirective(directive) {
		return d, fmt.Errorf("not a directive: %q", directive)
	}
	s := strings.TrimSpace(directive)
	body := s[len(directiveOpen) : len(s)-len(directiveClose)]

	clauses := splitUnescaped(body, '|')
	main := splitUnescaped(clauses[0], ':')
	if len(main) == 0 || main[0] == "" {
		return d, fmt.Errorf("directive %q has no action", directive)
	}
	d.Action = main[0]
	if len(main) > 1 {
		d.Args = main[1:]
	}

	for _, clause := range clauses[1:] {
		parts := splitUnescaped(clause, ':')
		if len(parts) == 0 || parts[0] == "" {
			return d, fmt.Errorf("directive %q has an empty transform clause", directive)
		}
		tr := models.Transform{Name: parts[0]}
		if len(parts) > 1 {
			tr.Params = parts[1:]
		}
		d.Transforms = append(d.Transforms, tr)
	}
	return d, nil
}

// Unescape reverses "\:" to ":" and "\\" to "\" for contexts that need the
// raw literal text.
func Unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == ':' || s[i+1] == '\\') {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitUnescaped splits s on sep. "\<sep>" does not split and is emitted as
// the bare separator character; every other backslash is kept as-is.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == sep:
			b.WriteByte(sep)
			i++
		case c == sep:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	parts = append(parts, b.String())
	return parts
}
