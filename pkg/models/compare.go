// Package models holds the shared data types of the comparison engine.
package models

import "time"

// Error types surfaced in CompareError.Type.
const (
	ErrMissingProperty      = "missing-property"
	ErrExtraProperty        = "extra-property"
	ErrTypeMismatch         = "type-mismatch"
	ErrValueMismatch        = "value-mismatch"
	ErrPatternMismatch      = "pattern-mismatch"
	ErrRangeExceeded        = "range-exceeded"
	ErrArrayLengthMismatch  = "array-length-mismatch"
	ErrArrayElementMismatch = "array-element-mismatch"
	// Reserved for the not-yet-implemented reference directive.
	ErrReferenceUnresolved = "reference-unresolved"
	ErrReferenceAmbiguous  = "reference-ambiguous"
	ErrDirective           = "directive-error"
)

// Transform is one step of a directive's transform pipeline. The pipeline is
// parsed but not evaluated by the core engine.
type Transform struct {
	Name   string   `json:"name" yaml:"name"`
	Params []string `json:"params" yaml:"params"`
}

// Directive is the parsed form of a "{{compare:...}}" instruction string.
// It is produced once per occurrence and not mutated afterwards.
type Directive struct {
	Original   string      `json:"original" yaml:"original"`
	Action     string      `json:"action" yaml:"action"`
	Args       []string    `json:"args" yaml:"args"`
	Transforms []Transform `json:"transforms" yaml:"transforms"`
}

// MatchResult is the outcome of evaluating a directive predicate against one
// actual value. ErrorType selects the CompareError.Type used on failure;
// empty means ErrPatternMismatch.
type MatchResult struct {
	Passed    bool   `json:"passed" yaml:"passed"`
	Message   string `json:"message" yaml:"message"`
	ErrorType string `json:"errorType,omitempty" yaml:"errorType,omitempty"`
}

// CompareContext carries ambient values for one comparison call. The two time
// fields accept ISO-8601 strings or numeric unix timestamps and are used to
// resolve the base time of temporal directives. Extra is an open bag for
// custom directives.
type CompareContext struct {
	StartTimeTest   any            `json:"startTimeTest,omitempty" yaml:"startTimeTest,omitempty"`
	StartTimeScript any            `json:"startTimeScript,omitempty" yaml:"startTimeScript,omitempty"`
	Extra           map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// IgnorePathConfig excludes a subtree from comparison. Path segments are
// matched against the traversal path as a prefix; the segment "*" matches any
// single key or array index. Doc is a human-readable justification.
type IgnorePathConfig struct {
	Path []string `json:"path" yaml:"path" mapstructure:"path"`
	Doc  []string `json:"doc,omitempty" yaml:"doc,omitempty" mapstructure:"doc"`
}

// CompareOptions is the frozen configuration of one comparison call.
type CompareOptions struct {
	StrictMode            bool               `json:"strictMode" yaml:"strictMode" mapstructure:"strictMode"`
	IgnoreExtraProperties bool               `json:"ignoreExtraProperties" yaml:"ignoreExtraProperties" mapstructure:"ignoreExtraProperties"`
	MaxDepth              int                `json:"maxDepth" yaml:"maxDepth" mapstructure:"maxDepth"`
	MaxErrors             int                `json:"maxErrors" yaml:"maxErrors" mapstructure:"maxErrors"`
	IgnorePaths           []IgnorePathConfig `json:"ignorePaths" yaml:"ignorePaths" mapstructure:"ignorePaths"`
}

// DefaultCompareOptions returns the options used when a caller supplies none.
func DefaultCompareOptions() CompareOptions {
	return CompareOptions{
		IgnoreExtraProperties: true,
	}
}

// CompareError is one failed check. Path is the dot/bracket-joined traversal
// path, "root" when empty.
type CompareError struct {
	Path     string `json:"path" yaml:"path"`
	Type     string `json:"type" yaml:"type"`
	Expected any    `json:"expected" yaml:"expected"`
	Actual   any    `json:"actual" yaml:"actual"`
	Message  string `json:"message" yaml:"message"`
}

// CompareDetail is one performed check, passed or failed.
type CompareDetail struct {
	Path     string `json:"path" yaml:"path"`
	Passed   bool   `json:"passed" yaml:"passed"`
	Expected any    `json:"expected" yaml:"expected"`
	Actual   any    `json:"actual" yaml:"actual"`
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
}

// CompareStats is derived from the error and detail logs of one call.
type CompareStats struct {
	TotalChecks     int           `json:"totalChecks" yaml:"totalChecks"`
	PassedChecks    int           `json:"passedChecks" yaml:"passedChecks"`
	FailedChecks    int           `json:"failedChecks" yaml:"failedChecks"`
	Duration        time.Duration `json:"duration" yaml:"duration"`
	MaxDepthReached int           `json:"maxDepthReached,omitempty" yaml:"maxDepthReached,omitempty"`
}

// CompareResult is the aggregate outcome of one comparison call.
type CompareResult struct {
	Success bool            `json:"success" yaml:"success"`
	Errors  []CompareError  `json:"errors" yaml:"errors"`
	Details []CompareDetail `json:"details" yaml:"details"`
	Stats   CompareStats    `json:"stats" yaml:"stats"`
}
