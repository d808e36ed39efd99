package matcher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.datamatch.io/engine/pkg/models"
)

func TestResultPrinterRender(t *testing.T) {
	t.Run("passing result", func(t *testing.T) {
		result := CompareData(zap.NewNop(), "a", "a", models.CompareContext{}, nil)

		var buf bytes.Buffer
		p := NewResultPrinter("case-1")
		p.SetOutput(&buf)
		require.NoError(t, p.Render(result))

		out := buf.String()
		assert.Contains(t, out, "Comparison passed for")
		assert.Contains(t, out, "checks: 1 total, 1 passed, 0 failed")
	})

	t.Run("failing result renders the error table", func(t *testing.T) {
		result := CompareData(zap.NewNop(),
			mustJSON(t, `{"a": 1}`), mustJSON(t, `{"a": 2}`),
			models.CompareContext{}, nil)

		var buf bytes.Buffer
		p := NewResultPrinter("case-2")
		p.SetOutput(&buf)
		require.NoError(t, p.Render(result))

		out := buf.String()
		assert.Contains(t, out, "Comparison failed for")
		assert.Contains(t, out, models.ErrValueMismatch)
		assert.Contains(t, out, "a")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	got := truncate(string(long))
	assert.Len(t, got, maxCellLength)
	assert.Contains(t, got, "...")
}
