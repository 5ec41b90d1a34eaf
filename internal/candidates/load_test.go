package candidates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ranker/internal/schemas"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		keys    []string
	}{
		{
			name:    "list",
			content: `[{"id": "c1", "name": "Alice"}, {"filename": "bob.pdf", "name": "Bob"}]`,
			keys:    []string{"c1", "bob.pdf"},
		},
		{
			name:    "wrapped",
			content: `{"candidates": [{"name": "Carol"}]}`,
			keys:    []string{"Carol"},
		},
		{
			name:    "single record",
			content: `  {"id": "solo", "education": [{"degree": "PhD", "gpa": "3.9/4.0"}]}`,
			keys:    []string{"solo"},
		},
		{
			name:    "empty list",
			content: `[]`,
			keys:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "records.json", tt.content)

			records, err := Load(path)
			require.NoError(t, err)

			keys := make([]string, 0, len(records))
			for _, r := range records {
				keys = append(keys, r.Key())
			}
			assert.Equal(t, tt.keys, keys)
		})
	}
}

func TestLoad_TolerantFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "records.json", `[{
		"id": "c1",
		"name": "Alice",
		"education": [{"degree": "PhD", "university": "MIT", "gpa": "3.8/4.0", "start": 2015, "end": "2020"}],
		"publications": [{"title": "Parsing", "author_position": "first", "journal_if": "n/a", "authors": "A. Smith"}]
	}]`)

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	edu := records[0].Education[0]
	require.True(t, edu.GPA.Valid)
	assert.Equal(t, 3.8, edu.GPA.Value)
	assert.Equal(t, "2015", edu.Start.String())

	pub := records[0].Publications[0]
	assert.False(t, pub.JournalIF.Valid)
	assert.Equal(t, "first", pub.AuthorPosition.String())
	assert.Len(t, pub.Authors, 1)
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_candidate.json", `{"name": "Bob"}`)
	writeFile(t, dir, "a_candidate.json", `{"id": "alice", "name": "Alice"}`)
	writeFile(t, dir, "notes.txt", `not a record`)

	records, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0].Key())
	assert.Equal(t, "b_candidate", records[1].Key())
	assert.Equal(t, "Bob", records[1].DisplayName())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nonexistent_file.json"))
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr), "error should be LoadError type")
		assert.Contains(t, loadErr.Error(), "failed to read")
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeFile(t, dir, "invalid.json", "{ invalid json }")
		_, err := Load(path)
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Contains(t, loadErr.Error(), "failed to parse")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.json", "   ")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "document is empty")
	})

	t.Run("record without key", func(t *testing.T) {
		path := writeFile(t, dir, "nokey.json", `[{"education": []}]`)
		_, err := Load(path)
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Contains(t, loadErr.Error(), "candidate 0 has no id, filename or name")
	})

	t.Run("duplicate keys", func(t *testing.T) {
		path := writeFile(t, dir, "dupes.json", `[{"id": "x"}, {"name": "y"}, {"id": "x", "name": "z"}]`)
		_, err := Load(path)
		var dup *DuplicateKeyError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "x", dup.Key)
		assert.Equal(t, `duplicate candidate key "x" (record 0 and record 2)`, dup.Error())
	})
}

func TestLoad_WithSchema(t *testing.T) {
	schemaPath := schemas.ResolveSchemaPath(schemas.CandidateRecordsSchema)
	require.NotEmpty(t, schemaPath)
	dir := t.TempDir()

	valid := writeFile(t, dir, "valid.json", `[{"id": "c1", "education": [{"degree": "MSc", "gpa": 3.5}]}]`)
	records, err := Load(valid, WithSchema(schemaPath))
	require.NoError(t, err)
	assert.Len(t, records, 1)

	invalid := writeFile(t, dir, "invalid.json", `[{"id": "c1", "education": [{"degree": 7}]}]`)
	_, err = Load(invalid, WithSchema(schemaPath))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Error(), "schema validation failed")
	var validationErr *schemas.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestLoadReferenceScores(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "reference.json", `{"alice": 0.9, "bob": 0.4}`)
	scores, err := LoadReferenceScores(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"alice": 0.9, "bob": 0.4}, scores)

	_, err = LoadReferenceScores(writeFile(t, dir, "empty.json", `{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "are empty")

	_, err = LoadReferenceScores(writeFile(t, dir, "list.json", `[1, 2]`))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))

	_, err = LoadReferenceScores(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadError_Unwrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := &LoadError{Message: "failed", Cause: cause}
	assert.Equal(t, "load error: failed: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load error: bare", (&LoadError{Message: "bare"}).Error())
}
