// Package candidates loads structured candidate records and reference score files.
package candidates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/resume-ranker/internal/schemas"
	"github.com/jonathan/resume-ranker/internal/types"
)

// Option configures how records are loaded
type Option func(*options)

type options struct {
	schemaPath string
}

// WithSchema validates every file against the JSON schema at path before decoding it
func WithSchema(path string) Option {
	return func(o *options) {
		o.schemaPath = path
	}
}

// Load reads candidate records from a file or a directory. A file holds a JSON list of
// records, an object with a "candidates" list, or a single record. A directory is read as
// every *.json file in it, in name order; records without an id or filename take the
// file's base name as filename. Every record must resolve to a key and keys must be unique.
func Load(path string, opts ...Option) ([]types.CandidateRecord, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read %s", path),
			Cause:   err,
		}
	}

	var records []types.CandidateRecord
	if info.IsDir() {
		records, err = loadDir(path, o)
	} else {
		records, err = loadFile(path, o)
	}
	if err != nil {
		return nil, err
	}

	if err := checkKeys(records); err != nil {
		return nil, err
	}
	slog.Debug("candidate records loaded", "path", path, "count", len(records))
	return records, nil
}

func loadDir(dir string, o options) ([]types.CandidateRecord, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, &LoadError{Message: fmt.Sprintf("failed to list %s", dir), Cause: err}
	}
	sort.Strings(matches)

	var records []types.CandidateRecord
	for _, file := range matches {
		fileRecords, err := loadFile(file, o)
		if err != nil {
			return nil, err
		}
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		for i := range fileRecords {
			if strings.TrimSpace(fileRecords[i].ID) == "" && strings.TrimSpace(fileRecords[i].Filename) == "" {
				fileRecords[i].Filename = base
			}
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

func loadFile(path string, o options) ([]types.CandidateRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}

	if o.schemaPath != "" {
		if err := schemas.ValidateBytes(o.schemaPath, content); err != nil {
			return nil, &LoadError{
				Message: fmt.Sprintf("schema validation failed for %s", path),
				Cause:   err,
			}
		}
	}

	records, err := Parse(content)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to parse %s", path),
			Cause:   err,
		}
	}
	return records, nil
}

// Parse decodes records from any of the three accepted document shapes
func Parse(content []byte) ([]types.CandidateRecord, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	if trimmed[0] == '[' {
		var records []types.CandidateRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal candidate list: %w", err)
		}
		return records, nil
	}

	var wrapper struct {
		Candidates *[]types.CandidateRecord `json:"candidates"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if wrapper.Candidates != nil {
		return *wrapper.Candidates, nil
	}

	var record types.CandidateRecord
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate record: %w", err)
	}
	return []types.CandidateRecord{record}, nil
}

func checkKeys(records []types.CandidateRecord) error {
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		key := rec.Key()
		if key == "" {
			return &LoadError{Message: fmt.Sprintf("candidate %d has no id, filename or name", i)}
		}
		if first, ok := seen[key]; ok {
			return &DuplicateKeyError{
				Key:    key,
				First:  fmt.Sprintf("record %d", first),
				Second: fmt.Sprintf("record %d", i),
			}
		}
		seen[key] = i
	}
	return nil
}

// LoadReferenceScores reads a reference ranking: a JSON object mapping candidate keys to scores
func LoadReferenceScores(path string) (map[string]float64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}

	var scores map[string]float64
	if err := json.Unmarshal(content, &scores); err != nil {
		return nil, &LoadError{
			Message: "failed to unmarshal reference scores",
			Cause:   err,
		}
	}
	if len(scores) == 0 {
		return nil, &LoadError{Message: fmt.Sprintf("reference scores in %s are empty", path)}
	}
	return scores, nil
}
