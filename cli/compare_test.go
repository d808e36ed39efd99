package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.datamatch.io/engine/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()

	jsonPath := writeFile(t, dir, "doc.json", `{"b": 1, "a": 2}`)
	doc, err := loadDocument(jsonPath)
	require.NoError(t, err)
	require.NotNil(t, doc)

	yamlPath := writeFile(t, dir, "doc.yaml", "a: 1\nb: text\n")
	doc, err = loadDocument(yamlPath)
	require.NoError(t, err)
	m, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, m["a"])

	badPath := writeFile(t, dir, "bad.json", "{nope")
	_, err = loadDocument(badPath)
	require.Error(t, err)
}

func TestCollectPairs(t *testing.T) {
	t.Run("two files", func(t *testing.T) {
		dir := t.TempDir()
		exp := writeFile(t, dir, "expected.json", `1`)
		act := writeFile(t, dir, "actual.json", `1`)

		pairs, err := collectPairs(exp, act)
		require.NoError(t, err)
		require.Len(t, pairs, 1)
		assert.Equal(t, "expected.json vs actual.json", pairs[0].name)
	})

	t.Run("two directories paired by name", func(t *testing.T) {
		expDir, actDir := t.TempDir(), t.TempDir()
		writeFile(t, expDir, "b.json", `1`)
		writeFile(t, expDir, "a.json", `1`)
		writeFile(t, expDir, "notes.txt", `skip me`)
		writeFile(t, actDir, "a.json", `1`)
		writeFile(t, actDir, "b.json", `1`)

		pairs, err := collectPairs(expDir, actDir)
		require.NoError(t, err)
		require.Len(t, pairs, 2)
		assert.Equal(t, "a.json", pairs[0].name)
		assert.Equal(t, "b.json", pairs[1].name)
	})

	t.Run("missing actual counterpart", func(t *testing.T) {
		expDir, actDir := t.TempDir(), t.TempDir()
		writeFile(t, expDir, "a.json", `1`)

		_, err := collectPairs(expDir, actDir)
		require.Error(t, err)
	})

	t.Run("mixed file and directory", func(t *testing.T) {
		dir := t.TempDir()
		file := writeFile(t, dir, "a.json", `1`)

		_, err := collectPairs(file, dir)
		require.Error(t, err)
	})
}

func TestRunCompare(t *testing.T) {
	logger := zap.NewNop()

	t.Run("passing comparison writes a report", func(t *testing.T) {
		dir := t.TempDir()
		exp := writeFile(t, dir, "expected.json", `{"email": "{{compare:endsWith:@example.com}}"}`)
		act := writeFile(t, dir, "actual.json", `{"email": "john@example.com"}`)
		report := filepath.Join(dir, "report.json")

		err := runCompare(logger, config.New(), exp, act, report, false)
		require.NoError(t, err)

		data, err := os.ReadFile(report)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"success": true`)
	})

	t.Run("failing comparison returns an error", func(t *testing.T) {
		dir := t.TempDir()
		exp := writeFile(t, dir, "expected.json", `{"a": 1}`)
		act := writeFile(t, dir, "actual.json", `{"a": 2}`)

		err := runCompare(logger, config.New(), exp, act, "", false)
		require.Error(t, err)
	})
}
