package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.datamatch.io/engine/pkg/matcher/directives"
	"go.datamatch.io/engine/pkg/models"
)

type fakeDirective struct {
	name string
}

func (f fakeDirective) Name() string { return f.name }

func (f fakeDirective) Compile(_ models.Directive, _ models.CompareContext) (directives.Predicate, error) {
	return func(any) models.MatchResult {
		return models.MatchResult{Passed: true}
	}, nil
}

type fakeMatcher struct {
	name string
}

func (f fakeMatcher) Name() string { return f.name }

func (f fakeMatcher) Match(_, _ any) models.MatchResult {
	return models.MatchResult{Passed: true}
}

type fakeTransform struct {
	name string
}

func (f fakeTransform) Name() string { return f.name }

func (f fakeTransform) Apply(v any, _ []string) (any, error) { return v, nil }

func TestRegistryDirectives(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterDirective(fakeDirective{name: "custom"}))
	assert.True(t, r.HasDirective("custom"))

	err := r.RegisterDirective(fakeDirective{name: "custom"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	h, err := r.GetDirective("custom")
	require.NoError(t, err)
	assert.Equal(t, "custom", h.Name())

	_, err = r.GetDirective("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown directive")
}

func TestRegistryMatchersAndTransforms(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterMatcher(fakeMatcher{name: "loose"}))
	require.Error(t, r.RegisterMatcher(fakeMatcher{name: "loose"}))
	assert.True(t, r.HasMatcher("loose"))
	_, err := r.GetMatcher("missing")
	require.Error(t, err)

	require.NoError(t, r.RegisterTransform(fakeTransform{name: "lowercase"}))
	require.Error(t, r.RegisterTransform(fakeTransform{name: "lowercase"}))
	assert.True(t, r.HasTransform("lowercase"))
	_, err = r.GetTransform("missing")
	require.Error(t, err)
}

func TestRegistryNamesAreInsertionStable(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.RegisterDirective(fakeDirective{name: name}))
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.DirectiveNames())
}

func TestRegistryClear(t *testing.T) {
	r := DefaultRegistry()
	require.NotEmpty(t, r.DirectiveNames())
	require.NoError(t, r.RegisterMatcher(fakeMatcher{name: "loose"}))
	require.NoError(t, r.RegisterTransform(fakeTransform{name: "trim"}))

	r.Clear()
	assert.Empty(t, r.DirectiveNames())
	assert.Empty(t, r.MatcherNames())
	assert.Empty(t, r.TransformNames())
}

func TestDefaultRegistryBuiltins(t *testing.T) {
	r := DefaultRegistry()
	for _, name := range []string{"startsWith", "endsWith", "contains", "regex", "number", "time"} {
		assert.True(t, r.HasDirective(name), name)
	}
}
