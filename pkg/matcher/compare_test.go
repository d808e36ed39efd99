package matcher

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.datamatch.io/engine/pkg/models"
)

func mustJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func runCompare(t *testing.T, expected, actual any, opts *models.CompareOptions) models.CompareResult {
	t.Helper()
	return CompareData(zap.NewNop(), expected, actual, models.CompareContext{}, opts)
}

func TestCompareScalars(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		success  bool
		errType  string
	}{
		{name: "equal strings", expected: "a", actual: "a", success: true},
		{name: "equal numbers", expected: 1.0, actual: 1.0, success: true},
		{name: "int equals float", expected: 1, actual: 1.0, success: true},
		{name: "equal bools", expected: true, actual: true, success: true},
		{name: "both null", expected: nil, actual: nil, success: true},
		{name: "different strings", expected: "a", actual: "b", success: false, errType: models.ErrValueMismatch},
		{name: "different numbers", expected: 1.0, actual: 2.0, success: false, errType: models.ErrValueMismatch},
		{name: "string vs number", expected: "1", actual: 1.0, success: false, errType: models.ErrTypeMismatch},
		{name: "null vs value", expected: nil, actual: "x", success: false, errType: models.ErrValueMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runCompare(t, tt.expected, tt.actual, nil)
			assert.Equal(t, tt.success, result.Success)
			if tt.errType != "" {
				require.Len(t, result.Errors, 1)
				assert.Equal(t, tt.errType, result.Errors[0].Type)
				assert.Equal(t, "root", result.Errors[0].Path)
			}
		})
	}
}

func TestIgnoreNeutrality(t *testing.T) {
	for _, actual := range []any{true, 42.0, "text", []any{1.0}, map[string]any{"k": "v"}} {
		result := runCompare(t, "{{compare:ignore}}", actual, nil)
		assert.True(t, result.Success, "actual %v", actual)
	}

	// A null leaf is ignorable too; only a missing top-level actual is the
	// call-level contract violation.
	c := NewComparer(DefaultRegistry(), zap.NewNop(), models.CompareContext{}, models.DefaultCompareOptions())
	c.Compare("{{compare:ignore}}", nil)
	assert.Empty(t, c.Errors())
}

func TestExtraPropertyTolerance(t *testing.T) {
	expected := mustJSON(t, `{"a": 1, "b": "x"}`)
	actual := mustJSON(t, `{"a": 1, "b": "x", "c": true, "d": null}`)

	t.Run("default tolerates extra properties", func(t *testing.T) {
		result := runCompare(t, expected, actual, nil)
		assert.True(t, result.Success)
	})

	t.Run("ignoreExtraProperties false reports one error per surplus key", func(t *testing.T) {
		opts := models.CompareOptions{IgnoreExtraProperties: false}
		result := runCompare(t, expected, actual, &opts)
		require.False(t, result.Success)
		require.Len(t, result.Errors, 2)
		for _, e := range result.Errors {
			assert.Equal(t, models.ErrExtraProperty, e.Type)
		}
	})

	t.Run("strict mode reports surplus keys", func(t *testing.T) {
		opts := models.DefaultCompareOptions()
		opts.StrictMode = true
		result := runCompare(t, expected, actual, &opts)
		require.False(t, result.Success)
		assert.Len(t, result.Errors, 2)
	})

	t.Run("exact keyword marker enables exact mode", func(t *testing.T) {
		exp := mustJSON(t, `{"a": 1, "{{compare:exact}}": true}`)
		act := mustJSON(t, `{"a": 1, "c": 2}`)
		result := runCompare(t, exp, act, nil)
		require.False(t, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.ErrExtraProperty, result.Errors[0].Type)
		assert.Equal(t, "c", result.Errors[0].Path)
	})
}

func TestMissingProperty(t *testing.T) {
	expected := mustJSON(t, `{"a": 1, "b": {"c": 2}}`)
	actual := mustJSON(t, `{"a": 1}`)

	result := runCompare(t, expected, actual, nil)
	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrMissingProperty, result.Errors[0].Type)
	assert.Equal(t, "b", result.Errors[0].Path)
}

func TestNestedPathRendering(t *testing.T) {
	expected := mustJSON(t, `{"items": [{"id": 1}]}`)
	actual := mustJSON(t, `{"items": [{"id": 2}]}`)

	result := runCompare(t, expected, actual, nil)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "items[0].id", result.Errors[0].Path)
}

func TestDirectiveEvaluation(t *testing.T) {
	t.Run("endsWith scenario", func(t *testing.T) {
		expected := mustJSON(t, `{"email": "{{compare:endsWith:@example.com}}"}`)
		actual := mustJSON(t, `{"email": "john@example.com"}`)
		result := runCompare(t, expected, actual, nil)
		assert.True(t, result.Success)
	})

	t.Run("failed directive is a pattern mismatch", func(t *testing.T) {
		result := runCompare(t, "{{compare:startsWith:user_}}", "admin_1", nil)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.ErrPatternMismatch, result.Errors[0].Type)
	})

	t.Run("out of range is range-exceeded", func(t *testing.T) {
		result := runCompare(t, "{{compare:number:range:1:10}}", 11.0, nil)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.ErrRangeExceeded, result.Errors[0].Type)
	})

	t.Run("unknown action is a directive error", func(t *testing.T) {
		result := runCompare(t, "{{compare:frobnicate:x}}", "x", nil)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.ErrDirective, result.Errors[0].Type)
	})

	t.Run("construction failure is localized", func(t *testing.T) {
		expected := mustJSON(t, `{"bad": "{{compare:regex:[}}", "good": 1}`)
		actual := mustJSON(t, `{"bad": "x", "good": 1}`)
		result := runCompare(t, expected, actual, nil)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.ErrDirective, result.Errors[0].Type)
		assert.Equal(t, "bad", result.Errors[0].Path)
	})

	t.Run("misplaced structural keyword is a directive error", func(t *testing.T) {
		result := runCompare(t, "{{compare:ignoreOrder}}", "x", nil)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.ErrDirective, result.Errors[0].Type)
	})

	t.Run("escaping round-trip with quantifier braces", func(t *testing.T) {
		result := runCompare(t, "{{compare:regex:user_[0-9]{5}}}", "user_12345", nil)
		assert.True(t, result.Success)
	})
}

func TestArrayOrdered(t *testing.T) {
	t.Run("equal arrays pass", func(t *testing.T) {
		result := runCompare(t, mustJSON(t, `[1,2,3]`), mustJSON(t, `[1,2,3]`), nil)
		assert.True(t, result.Success)
	})

	t.Run("order matters by default", func(t *testing.T) {
		result := runCompare(t, mustJSON(t, `[1,2,3]`), mustJSON(t, `[3,2,1]`), nil)
		require.False(t, result.Success)
		assert.Equal(t, "[0]", result.Errors[0].Path)
	})

	t.Run("length mismatch still compares the overlap", func(t *testing.T) {
		result := runCompare(t, mustJSON(t, `[1,9]`), mustJSON(t, `[1,2,3]`), nil)
		require.False(t, result.Success)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, models.ErrArrayLengthMismatch, result.Errors[0].Type)
		assert.Equal(t, models.ErrValueMismatch, result.Errors[1].Type)
		assert.Equal(t, "[1]", result.Errors[1].Path)
	})

	t.Run("ignore keyword short-circuits an index", func(t *testing.T) {
		result := runCompare(t, mustJSON(t, `[1, "{{compare:ignore}}", 3]`), mustJSON(t, `[1, {"any": true}, 3]`), nil)
		assert.True(t, result.Success)
	})

	t.Run("type mismatch when actual is not an array", func(t *testing.T) {
		result := runCompare(t, mustJSON(t, `[1]`), mustJSON(t, `{"0": 1}`), nil)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.ErrTypeMismatch, result.Errors[0].Type)
	})
}

func TestArrayIgnoreOrder(t *testing.T) {
	t.Run("same elements in different order pass", func(t *testing.T) {
		expected := mustJSON(t, `["{{compare:ignoreOrder}}", 1, 2, 3]`)
		actual := mustJSON(t, `[3, 2, 1]`)
		result := runCompare(t, expected, actual, nil)
		assert.True(t, result.Success)
	})

	t.Run("single assignment prevents duplicate matching", func(t *testing.T) {
		expected := mustJSON(t, `["{{compare:ignoreOrder}}", 1, 1, 1]`)
		actual := mustJSON(t, `[1, 2, 3]`)
		result := runCompare(t, expected, actual, nil)
		require.False(t, result.Success)
		assert.Len(t, result.Errors, 2)
	})

	t.Run("length mismatch aborts the array check", func(t *testing.T) {
		expected := mustJSON(t, `["{{compare:ignoreOrder}}", 1, 2]`)
		actual := mustJSON(t, `[1, 2, 3]`)
		result := runCompare(t, expected, actual, nil)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.ErrArrayLengthMismatch, result.Errors[0].Type)
	})

	t.Run("objects match regardless of position", func(t *testing.T) {
		expected := mustJSON(t, `["{{compare:ignoreOrder}}", {"id": 2}, {"id": 1}]`)
		actual := mustJSON(t, `[{"id": 1}, {"id": 2}]`)
		result := runCompare(t, expected, actual, nil)
		assert.True(t, result.Success)
	})

	t.Run("trial comparisons leak nothing into the outer logs", func(t *testing.T) {
		expected := mustJSON(t, `["{{compare:ignoreOrder}}", 1, 2]`)
		actual := mustJSON(t, `[2, 1]`)
		result := runCompare(t, expected, actual, nil)
		require.True(t, result.Success)
		// One pass detail per expected element, nothing from rejected trials.
		assert.Len(t, result.Details, 2)
	})
}

func TestArrayIgnoreRest(t *testing.T) {
	t.Run("trailing actual elements are unexamined", func(t *testing.T) {
		expected := mustJSON(t, `[1, 2, "{{compare:ignoreRest}}"]`)
		actual := mustJSON(t, `[1, 2, 3, 4, 5]`)
		result := runCompare(t, expected, actual, nil)
		require.True(t, result.Success)
		for _, d := range result.Details {
			assert.NotContains(t, []string{"[2]", "[3]", "[4]"}, d.Path)
		}
	})

	t.Run("actual may not be shorter", func(t *testing.T) {
		expected := mustJSON(t, `[1, 2, 3, "{{compare:ignoreRest}}"]`)
		actual := mustJSON(t, `[1, 2]`)
		result := runCompare(t, expected, actual, nil)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.ErrArrayLengthMismatch, result.Errors[0].Type)
	})

	t.Run("ignoreOrder wins when both keywords are present", func(t *testing.T) {
		expected := mustJSON(t, `["{{compare:ignoreRest}}", "{{compare:ignoreOrder}}", 2, 1]`)
		actual := mustJSON(t, `[1, 2]`)
		result := runCompare(t, expected, actual, nil)
		assert.True(t, result.Success)
	})
}

func TestIgnorePaths(t *testing.T) {
	t.Run("wildcard matches every array index", func(t *testing.T) {
		expected := mustJSON(t, `{"items": [{"richtung": "nord", "id": 1}, {"richtung": "sued", "id": 2}]}`)
		actual := mustJSON(t, `{"items": [{"richtung": "ost", "id": 1}, {"richtung": "west", "id": 2}]}`)
		opts := models.DefaultCompareOptions()
		opts.IgnorePaths = []models.IgnorePathConfig{
			{Path: []string{"items", "*", "richtung"}, Doc: []string{"direction flaps between runs"}},
		}
		result := runCompare(t, expected, actual, &opts)
		assert.True(t, result.Success)
	})

	t.Run("sibling mismatches are still reported", func(t *testing.T) {
		expected := mustJSON(t, `{"items": [{"richtung": "nord", "id": 1}]}`)
		actual := mustJSON(t, `{"items": [{"richtung": "ost", "id": 9}]}`)
		opts := models.DefaultCompareOptions()
		opts.IgnorePaths = []models.IgnorePathConfig{{Path: []string{"items", "*", "richtung"}}}
		result := runCompare(t, expected, actual, &opts)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "items[0].id", result.Errors[0].Path)
	})

	t.Run("suppression records a passing detail", func(t *testing.T) {
		expected := mustJSON(t, `{"a": 1}`)
		actual := mustJSON(t, `{"a": 2}`)
		opts := models.DefaultCompareOptions()
		opts.IgnorePaths = []models.IgnorePathConfig{{Path: []string{"a"}}}
		result := runCompare(t, expected, actual, &opts)
		require.True(t, result.Success)
		require.Len(t, result.Details, 1)
		assert.Contains(t, result.Details[0].Message, "suppressed")
	})
}

func TestMaxDepth(t *testing.T) {
	expected := mustJSON(t, `{"a": {"b": {"c": 1}}}`)
	actual := mustJSON(t, `{"a": {"b": {"c": 1}}}`)

	opts := models.DefaultCompareOptions()
	opts.MaxDepth = 2
	result := runCompare(t, expected, actual, &opts)
	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrDirective, result.Errors[0].Type)
	assert.Contains(t, result.Errors[0].Message, "depth")
}

func TestMaxErrors(t *testing.T) {
	expected := mustJSON(t, `[1, 1, 1, 1, 1]`)
	actual := mustJSON(t, `[2, 2, 2, 2, 2]`)

	opts := models.DefaultCompareOptions()
	opts.MaxErrors = 2
	result := runCompare(t, expected, actual, &opts)
	require.False(t, result.Success)
	assert.Len(t, result.Errors, 2)
}

func TestIdempotence(t *testing.T) {
	expected := mustJSON(t, `{"a": [1, 2], "b": "{{compare:contains:x}}", "c": {"d": null}}`)
	actual := mustJSON(t, `{"a": [1, 3], "b": "ompa", "c": {"d": 1}}`)

	first := runCompare(t, expected, actual, nil)
	second := runCompare(t, expected, actual, nil)
	assert.Equal(t, first.Success, second.Success)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Details, second.Details)
}

func TestComparerInstanceIsReusable(t *testing.T) {
	c := NewComparer(DefaultRegistry(), zap.NewNop(), models.CompareContext{}, models.DefaultCompareOptions())

	c.Compare("a", "b")
	require.Len(t, c.Errors(), 1)

	// State resets on every call.
	c.Compare("a", "a")
	assert.Empty(t, c.Errors())
	assert.Len(t, c.Details(), 1)
}

func TestDeepStructure(t *testing.T) {
	expected := mustJSON(t, fmt.Sprintf(`{
		"user": {
			"id": "{{compare:regex:user_[0-9]{5}}}",
			"email": "{{compare:endsWith:@example.com}}",
			"age": "{{compare:number:range:18:99}}",
			"tags": ["{{compare:ignoreOrder}}", "alpha", "beta"],
			"sessions": [%q, {"active": true}]
		}
	}`, "{{compare:ignore}}"))
	actual := mustJSON(t, `{
		"user": {
			"id": "user_12345",
			"email": "jane@example.com",
			"age": 34,
			"tags": ["beta", "alpha"],
			"sessions": [{"whatever": 1}, {"active": true, "since": "yesterday"}],
			"extra": "tolerated"
		}
	}`)

	result := runCompare(t, expected, actual, nil)
	assert.True(t, result.Success, "%+v", result.Errors)
	assert.GreaterOrEqual(t, result.Stats.MaxDepthReached, 3)
}
