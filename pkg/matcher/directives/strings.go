package directives

import (
	"fmt"
	"regexp"
	"strings"

	"go.datamatch.io/engine/pkg/models"
)

// stringPattern implements startsWith, endsWith and contains. The pattern is
// the directive arguments rejoined with ":", restoring colons that were split
// as argument separators but belong to the literal pattern.
type stringPattern struct {
	name string
}

func (s stringPattern) Name() string { return s.name }

func (s stringPattern) Compile(d models.Directive, _ models.CompareContext) (Predicate, error) {
	if len(d.Args) < 1 {
		return nil, fmt.Errorf("%s requires a pattern argument", s.name)
	}
	pattern := strings.Join(d.Args, ":")
	return func(actual any) models.MatchResult {
		str, ok := actual.(string)
		if !ok {
			return models.MatchResult{
				Message: fmt.Sprintf("%s expects a string, got %s (%v)", s.name, TypeName(actual), actual),
			}
		}
		var passed bool
		switch s.name {
		case "startsWith":
			passed = strings.HasPrefix(str, pattern)
		case "endsWith":
			passed = strings.HasSuffix(str, pattern)
		case "contains":
			passed = strings.Contains(str, pattern)
		}
		if passed {
			return models.MatchResult{
				Passed:  true,
				Message: fmt.Sprintf("%q satisfies %s %q", str, s.name, pattern),
			}
		}
		return models.MatchResult{
			Message: fmt.Sprintf("%q does not satisfy %s %q", str, s.name, pattern),
		}
	}, nil
}

// regexDirective matches the actual string against a pattern compiled once at
// predicate construction time.
type regexDirective struct{}

func (regexDirective) Name() string { return "regex" }

func (regexDirective) Compile(d models.Directive, _ models.CompareContext) (Predicate, error) {
	if len(d.Args) < 1 {
		return nil, fmt.Errorf("regex requires a pattern argument")
	}
	pattern := strings.Join(d.Args, ":")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}
	return func(actual any) models.MatchResult {
		str, ok := actual.(string)
		if !ok {
			return models.MatchResult{
				Message: fmt.Sprintf("regex expects a string, got %s (%v)", TypeName(actual), actual),
			}
		}
		if re.MatchString(str) {
			return models.MatchResult{
				Passed:  true,
				Message: fmt.Sprintf("%q matches pattern %q", str, pattern),
			}
		}
		return models.MatchResult{
			Message: fmt.Sprintf("%q does not match pattern %q", str, pattern),
		}
	}, nil
}
