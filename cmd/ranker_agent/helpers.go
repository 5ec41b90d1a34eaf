package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-ranker/internal/candidates"
	"github.com/jonathan/resume-ranker/internal/explain"
	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/schemas"
	"github.com/jonathan/resume-ranker/internal/scoring"
	"github.com/jonathan/resume-ranker/internal/types"
)

// envRubric supplies the rubric path when --rubric is not given
const envRubric = "RANKER_RUBRIC"

// loadRubric resolves the rubric from the flag, then RANKER_RUBRIC, then the defaults.
// With validate set the file is checked against the rubric schema as written.
func loadRubric(path string, validate bool) (rubric.Config, error) {
	if path == "" {
		path = os.Getenv(envRubric)
	}
	if path == "" {
		return rubric.Default(), nil
	}

	if validate {
		if err := validateRubricFile(path); err != nil {
			return rubric.Config{}, err
		}
	}

	cfg, err := rubric.Load(path)
	if err != nil {
		return rubric.Config{}, fmt.Errorf("failed to load rubric: %w", err)
	}
	slog.Debug("rubric loaded", "path", path)
	return cfg, nil
}

func validateRubricFile(path string) error {
	schemaPath := schemas.ResolveSchemaPath(schemas.RubricConfigSchema)
	if schemaPath == "" {
		return fmt.Errorf("schema not found: %s", schemas.RubricConfigSchema)
	}
	raw, err := rubric.ReadRaw(path)
	if err != nil {
		return fmt.Errorf("failed to load rubric: %w", err)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode rubric for validation: %w", err)
	}
	if err := schemas.ValidateBytes(schemaPath, data); err != nil {
		return fmt.Errorf("rubric %s failed schema validation: %w", path, err)
	}
	return nil
}

// loadCandidates reads candidate records, optionally validating them against the schema
func loadCandidates(path string, validate bool) ([]types.CandidateRecord, error) {
	var opts []candidates.Option
	if validate {
		schemaPath := schemas.ResolveSchemaPath(schemas.CandidateRecordsSchema)
		if schemaPath == "" {
			return nil, fmt.Errorf("schema not found: %s", schemas.CandidateRecordsSchema)
		}
		opts = append(opts, candidates.WithSchema(schemaPath))
	}

	records, err := candidates.Load(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no candidate records found in %s", path)
	}
	return records, nil
}

// loadSystemScores reads a JSON object of final scores. Values may be plain numbers or
// CandidateScore objects, so the output of the score command can be passed directly.
func loadSystemScores(path string) (map[string]float64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system scores file %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal system scores JSON: %w", err)
	}

	out := make(map[string]float64, len(raw))
	for key, value := range raw {
		var number float64
		if err := json.Unmarshal(value, &number); err == nil {
			out[key] = number
			continue
		}
		var score types.CandidateScore
		if err := json.Unmarshal(value, &score); err != nil {
			return nil, fmt.Errorf("system score for %q is neither a number nor a candidate score: %w", key, err)
		}
		out[key] = score.FinalScore
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("system scores in %s are empty", path)
	}
	return out, nil
}

// explainTop scores the records and compares the topN candidates pairwise
func explainTop(cfg rubric.Config, records []types.CandidateRecord, topN int) (*scoring.Scorer, []types.CandidateScore, map[string]types.Evidence, []types.Comparison) {
	scorer := scoring.New(cfg)
	scores := scorer.ScoreAll(records)
	generator := explain.NewGenerator(scorer)
	evidence := generator.EvidenceAll(records, scoring.Index(scores))
	return scorer, scores, evidence, generator.CompareTop(scores, evidence, topN)
}

// writeJSONFile marshals value with indentation and writes it, creating parent directories
func writeJSONFile(path string, value any) error {
	jsonOutput, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

// splitList parses a comma-separated flag value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
