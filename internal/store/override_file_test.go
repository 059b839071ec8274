package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestOverrideFile_LoadMissingOrEmpty(t *testing.T) {
	dir := t.TempDir()

	missing := NewOverrideFile(filepath.Join(dir, "missing.yaml"), nil)
	table, err := missing.Load()
	require.NoError(t, err)
	assert.Empty(t, table)
	assert.NotNil(t, table)

	emptyPath := filepath.Join(dir, "empty.yaml")
	writeFile(t, emptyPath, "\n  \n")
	table, err = NewOverrideFile(emptyPath, nil).Load()
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestOverrideFile_RoundTripYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "overrides.yaml")
	logger := logging.NewMockLogger()
	s := NewOverrideFile(path, logger)

	want := map[string]models.Category{
		"STARBUCKS":    models.CategoryDining,
		"WHOLE FOODS":  models.CategoryGroceries,
		"CHASE CREDIT": models.CategoryExclude,
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, logger.HasEntry("DEBUG", "Saved override rules"))
}

func TestOverrideFile_RoundTripJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	s := NewOverrideFile(path, nil)

	want := map[string]models.Category{"NETFLIX": models.CategorySubscriptions}
	require.NoError(t, s.Save(want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"NETFLIX": "Subscriptions"}`, string(raw))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOverrideFile_ReadsOriginalJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	writeFile(t, path, `{"STARBUCKS": "dining", "SHELL OIL": "Transportation"}`)

	got, err := NewOverrideFile(path, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Category{
		"STARBUCKS": models.CategoryDining,
		"SHELL OIL": models.CategoryTransportation,
	}, got)
}

func TestOverrideFile_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		key     string
	}{
		{name: "list instead of mapping", content: "- STARBUCKS\n- TARGET\n"},
		{name: "unknown category", content: "STARBUCKS: Coffee\n", key: "STARBUCKS"},
		{name: "nested value", content: "STARBUCKS:\n  category: Dining\n"},
		{name: "empty key", content: "\"\": Dining\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "overrides.yaml")
			writeFile(t, path, tt.content)

			table, err := NewOverrideFile(path, nil).Load()
			require.Error(t, err)
			assert.Nil(t, table)

			var tableErr *parsererror.TableError
			require.True(t, errors.As(err, &tableErr))
			assert.Equal(t, path, tableErr.Path)
			assert.Equal(t, tt.key, tableErr.Key)
		})
	}
}

func TestOverrideFile_SaveEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	s := NewOverrideFile(path, nil)

	require.NoError(t, s.Save(map[string]models.Category{"A": models.CategoryFees}))
	require.NoError(t, s.Save(map[string]models.Category{}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}
