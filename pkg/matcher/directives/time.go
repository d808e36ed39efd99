package directives

import (
	"fmt"
	"strconv"
	"time"

	"go.datamatch.io/engine/pkg/models"
)

// epochSecondsThreshold separates numeric unix timestamps in seconds from
// ones in milliseconds: anything below ten billion is seconds.
const epochSecondsThreshold = 1e10

var timeUnits = map[string]time.Duration{
	"milliseconds": time.Millisecond,
	"seconds":      time.Second,
	"minutes":      time.Minute,
	"hours":        time.Hour,
	"days":         24 * time.Hour,
	"weeks":        7 * 24 * time.Hour,
	"months":       30 * 24 * time.Hour,
	"years":        365 * 24 * time.Hour,
}

// timeDirective dispatches on its first argument:
//
//	time:range:before:after:unit  two-sided window around the base time
//	time:range:value:unit         one-sided: value >= 0 means [0, value],
//	                              value < 0 means [value, 0]
//	time:exact                    actual == base time, millisecond precision
//	time:exact:offset:unit        actual == base time + offset
//
// The base time comes from context.StartTimeTest, then
// context.StartTimeScript, then the wall clock.
type timeDirective struct{}

func (timeDirective) Name() string { return "time" }

func (timeDirective) Compile(d models.Directive, ctx models.CompareContext) (Predicate, error) {
	if len(d.Args) < 1 {
		return nil, fmt.Errorf("time requires a mode argument (range or exact)")
	}
	switch d.Args[0] {
	case "range":
		return compileTimeRange(d.Args[1:], ctx)
	case "exact":
		return compileTimeExact(d.Args[1:], ctx)
	}
	return nil, fmt.Errorf("unknown time mode %q", d.Args[0])
}

func compileTimeRange(args []string, ctx models.CompareContext) (Predicate, error) {
	var before, after float64
	var unitName string
	switch len(args) {
	case 2:
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("time:range value %q is not numeric", args[0])
		}
		unitName = args[1]
		if value >= 0 {
			before, after = 0, value
		} else {
			before, after = value, 0
		}
	case 3:
		var err error
		before, err = strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("time:range lower bound %q is not numeric", args[0])
		}
		after, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("time:range upper bound %q is not numeric", args[1])
		}
		unitName = args[2]
	default:
		return nil, fmt.Errorf("time:range requires [value, unit] or [before, after, unit], got %d arguments", len(args))
	}
	unit, ok := timeUnits[unitName]
	if !ok {
		return nil, fmt.Errorf("unknown time unit %q", unitName)
	}
	if before > after {
		return nil, fmt.Errorf("time:range lower bound %v is greater than upper bound %v", before, after)
	}
	base, err := baseTime(ctx)
	if err != nil {
		return nil, err
	}
	return func(actual any) models.MatchResult {
		ts, err := parseTimestamp(actual)
		if err != nil {
			return models.MatchResult{Message: err.Error()}
		}
		diff := float64(ts.Sub(base)) / float64(unit)
		if diff >= before && diff <= after {
			return models.MatchResult{
				Passed:  true,
				Message: fmt.Sprintf("%v is %.3f %s from base time, within [%v, %v]", actual, diff, unitName, before, after),
			}
		}
		return models.MatchResult{
			ErrorType: models.ErrRangeExceeded,
			Message:   fmt.Sprintf("%v is %.3f %s from base time, outside [%v, %v]", actual, diff, unitName, before, after),
		}
	}, nil
}

func compileTimeExact(args []string, ctx models.CompareContext) (Predicate, error) {
	var offset time.Duration
	switch len(args) {
	case 0:
		// base time itself
	case 2:
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("time:exact offset %q is not numeric", args[0])
		}
		unit, ok := timeUnits[args[1]]
		if !ok {
			return nil, fmt.Errorf("unknown time unit %q", args[1])
		}
		offset = time.Duration(value * float64(unit))
	default:
		return nil, fmt.Errorf("time:exact requires no arguments or [offset, unit], got %d arguments", len(args))
	}
	base, err := baseTime(ctx)
	if err != nil {
		return nil, err
	}
	expected := base.Add(offset)
	return func(actual any) models.MatchResult {
		ts, err := parseTimestamp(actual)
		if err != nil {
			return models.MatchResult{Message: err.Error()}
		}
		delta := ts.Sub(expected).Milliseconds()
		if delta == 0 {
			return models.MatchResult{
				Passed:  true,
				Message: fmt.Sprintf("%v equals expected time %s", actual, expected.UTC().Format(time.RFC3339Nano)),
			}
		}
		return models.MatchResult{
			Message: fmt.Sprintf("%v differs from expected time %s by %dms", actual, expected.UTC().Format(time.RFC3339Nano), delta),
		}
	}, nil
}

// baseTime resolves the reference instant of temporal directives. It is
// evaluated once per predicate construction.
func baseTime(ctx models.CompareContext) (time.Time, error) {
	if ctx.StartTimeTest != nil && ctx.StartTimeTest != "" {
		ts, err := parseTimestamp(ctx.StartTimeTest)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid startTimeTest: %w", err)
		}
		return ts, nil
	}
	if ctx.StartTimeScript != nil && ctx.StartTimeScript != "" {
		ts, err := parseTimestamp(ctx.StartTimeScript)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid startTimeScript: %w", err)
		}
		return ts, nil
	}
	return time.Now(), nil
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// Layouts without a zone offset are parsed as UTC.
var isoLayoutsUTC = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts ISO-8601 strings and numeric unix timestamps. A
// numeric string is tried as ISO first, then as an epoch value.
func parseTimestamp(v any) (time.Time, error) {
	if n, ok := ToFloat(v); ok {
		return epochToTime(n), nil
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("cannot parse timestamp from %s (%v)", TypeName(v), v)
	}
	for _, layout := range isoLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	for _, layout := range isoLayoutsUTC {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return epochToTime(n), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", s)
}

func epochToTime(n float64) time.Time {
	if n < epochSecondsThreshold {
		return time.UnixMilli(int64(n * 1000))
	}
	return time.UnixMilli(int64(n))
}
