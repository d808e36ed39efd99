package matcher

import (
	"time"

	"go.uber.org/zap"

	"go.datamatch.io/engine/pkg/models"
)

// CompareRequest is one comparison call. A nil Options uses
// models.DefaultCompareOptions.
type CompareRequest struct {
	Expected any
	Actual   any
	Context  models.CompareContext
	Options  *models.CompareOptions
}

// Engine owns one registry and runs stateless, one-shot comparisons against
// it. It is safe for concurrent use as long as nothing registers into the
// registry while comparisons run.
type Engine struct {
	registry *Registry
	logger   *zap.Logger
}

// NewEngine returns an engine bound to the given registry. A nil registry
// gets the built-in directive set.
func NewEngine(logger *zap.Logger, registry *Registry) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{registry: registry, logger: logger}
}

// Registry exposes the engine's registry for extension registration.
func (e *Engine) Registry() *Registry { return e.registry }

// Compare runs one comparison and aggregates the result. It never returns an
// error; every failure is reported inside the result.
func (e *Engine) Compare(req CompareRequest) models.CompareResult {
	start := time.Now()
	opts := models.DefaultCompareOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	// An entirely absent actual value is the one call-level contract
	// violation: report it for the root path without walking the tree.
	if req.Actual == nil && req.Expected != nil {
		errs := []models.CompareError{{
			Path:    "root",
			Type:    models.ErrMissingProperty,
			Message: "actual value is missing",
		}}
		details := []models.CompareDetail{{
			Path:    "root",
			Passed:  false,
			Message: "actual value is missing",
		}}
		return buildResult(errs, details, 0, time.Since(start))
	}

	c := NewComparer(e.registry, e.logger, req.Context, opts)
	c.Compare(req.Expected, req.Actual)
	return buildResult(c.Errors(), c.Details(), c.MaxDepthReached(), time.Since(start))
}

// CompareData is the convenience entry point: one comparison against the
// built-in directive set.
func CompareData(logger *zap.Logger, expected, actual any, ctx models.CompareContext, opts *models.CompareOptions) models.CompareResult {
	return NewEngine(logger, nil).Compare(CompareRequest{
		Expected: expected,
		Actual:   actual,
		Context:  ctx,
		Options:  opts,
	})
}

// buildResult derives the stats purely from the error and detail logs.
func buildResult(errs []models.CompareError, details []models.CompareDetail, maxDepth int, duration time.Duration) models.CompareResult {
	passed := 0
	for _, d := range details {
		if d.Passed {
			passed++
		}
	}
	failed := len(errs)
	return models.CompareResult{
		Success: failed == 0,
		Errors:  errs,
		Details: details,
		Stats: models.CompareStats{
			TotalChecks:     passed + failed,
			PassedChecks:    passed,
			FailedChecks:    failed,
			Duration:        duration,
			MaxDepthReached: maxDepth,
		},
	}
}
