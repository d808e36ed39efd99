package directives

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.datamatch.io/engine/pkg/models"
)

// numberDirective dispatches on its first argument:
//
//	number:range:min:max        inclusive on both ends
//	number:tolerance:value:±N   absolute tolerance
//	number:tolerance:value:±N%  percentage tolerance of |value|
type numberDirective struct{}

func (numberDirective) Name() string { return "number" }

func (numberDirective) Compile(d models.Directive, _ models.CompareContext) (Predicate, error) {
	if len(d.Args) < 1 {
		return nil, fmt.Errorf("number requires a mode argument (range or tolerance)")
	}
	switch d.Args[0] {
	case "range":
		return compileNumberRange(d.Args[1:])
	case "tolerance":
		return compileNumberTolerance(d.Args[1:])
	}
	return nil, fmt.Errorf("unknown number mode %q", d.Args[0])
}

func compileNumberRange(args []string) (Predicate, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("number:range requires min and max arguments")
	}
	min, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, fmt.Errorf("number:range min %q is not numeric", args[0])
	}
	max, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return nil, fmt.Errorf("number:range max %q is not numeric", args[1])
	}
	if min > max {
		return nil, fmt.Errorf("number:range min %v is greater than max %v", min, max)
	}
	return func(actual any) models.MatchResult {
		n, ok := ToFloat(actual)
		if !ok {
			return models.MatchResult{
				Message: fmt.Sprintf("number expects a number, got %s (%v)", TypeName(actual), actual),
			}
		}
		if n >= min && n <= max {
			return models.MatchResult{
				Passed:  true,
				Message: fmt.Sprintf("%v is within [%v, %v]", n, min, max),
			}
		}
		// Signed distance from the nearest bound.
		dist := n - min
		if n > max {
			dist = n - max
		}
		return models.MatchResult{
			ErrorType: models.ErrRangeExceeded,
			Message:   fmt.Sprintf("%v is outside [%v, %v] by %v", n, min, max, dist),
		}
	}, nil
}

func compileNumberTolerance(args []string) (Predicate, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("number:tolerance requires value and tolerance arguments")
	}
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, fmt.Errorf("number:tolerance value %q is not numeric", args[0])
	}
	tolArg := strings.TrimPrefix(args[1], "±")
	percent := strings.HasSuffix(tolArg, "%")
	tolArg = strings.TrimSuffix(tolArg, "%")
	tol, err := strconv.ParseFloat(tolArg, 64)
	if err != nil {
		return nil, fmt.Errorf("number:tolerance tolerance %q is not numeric", args[1])
	}
	if tol < 0 {
		return nil, fmt.Errorf("number:tolerance tolerance must not be negative, got %v", tol)
	}
	allowed := tol
	if percent {
		allowed = abs(value) * tol / 100
	}
	return func(actual any) models.MatchResult {
		n, ok := ToFloat(actual)
		if !ok {
			return models.MatchResult{
				Message: fmt.Sprintf("number expects a number, got %s (%v)", TypeName(actual), actual),
			}
		}
		diff := abs(n - value)
		if diff <= allowed {
			return models.MatchResult{
				Passed:  true,
				Message: fmt.Sprintf("%v is within %v of %v (difference %v)", n, allowed, value, diff),
			}
		}
		return models.MatchResult{
			ErrorType: models.ErrRangeExceeded,
			Message:   fmt.Sprintf("%v differs from %v by %v, allowed difference is %v", n, value, diff, allowed),
		}
	}, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// ToFloat widens every numeric representation that JSON and YAML decoding can
// produce.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
