// Package directives holds the built-in directive implementations and the
// contracts for pluggable extensions.
package directives

import (
	"fmt"

	"go.datamatch.io/engine/pkg/models"
)

// Predicate checks one actual value. It must never panic; every failure is
// reported through the returned MatchResult.
type Predicate func(actual any) models.MatchResult

// Handler compiles a parsed directive and the ambient context into a reusable
// predicate. Implementations are stateless; identity is the Name.
type Handler interface {
	Name() string
	Compile(d models.Directive, ctx models.CompareContext) (Predicate, error)
}

// Matcher is the extension contract for custom two-value matchers. The core
// engine does not consult matchers; they exist for callers that register and
// resolve them through the registry.
type Matcher interface {
	Name() string
	Match(expected, actual any) models.MatchResult
}

// Transform is the extension contract for value transforms referenced by a
// directive's transform pipeline. The pipeline is parsed but not evaluated by
// the core.
type Transform interface {
	Name() string
	Apply(value any, params []string) (any, error)
}

// Builtin returns the reference directive set: the string-pattern family,
// regex, number and time.
func Builtin() []Handler {
	return []Handler{
		stringPattern{name: "startsWith"},
		stringPattern{name: "endsWith"},
		stringPattern{name: "contains"},
		regexDirective{},
		numberDirective{},
		timeDirective{},
	}
}

// TypeName names a value's JSON type for error messages.
func TypeName(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case bool:
		return "boolean"
	case string:
		return "string"
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
