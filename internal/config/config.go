// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by MergeWithDefaults when neither the file nor a flag sets a value
const (
	DefaultOutputDir       = "outputs"
	DefaultTopN            = 5
	DefaultMaxFaithfulness = 10
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Candidates          string `json:"candidates,omitempty"`           // Candidate records file or directory
	Reference           string `json:"reference,omitempty"`            // Reference scores JSON object
	ReferenceCandidates string `json:"reference_candidates,omitempty"` // Reference records scored under the baseline rubric
	Rubric              string `json:"rubric,omitempty"`               // Rubric file (JSON or YAML)
	Output              string `json:"output,omitempty"`               // Output directory for artifacts
	MetricsOut          string `json:"metrics_out,omitempty"`          // Prometheus textfile path

	// Limits
	TopN            int `json:"top_n,omitempty" validate:"gte=0"`            // Candidates compared pairwise
	MaxFaithfulness int `json:"max_faithfulness,omitempty" validate:"gte=0"` // Comparisons verified for faithfulness
	Workers         int `json:"workers,omitempty" validate:"gte=0"`          // Parallel ablation runs

	// Behavior
	Ablations      []string `json:"ablations,omitempty"`       // Ablation ids; empty runs the whole catalogue
	SkipAblations  bool     `json:"skip_ablations,omitempty"`  // Skip the ablation studies
	ValidateSchema bool     `json:"validate_schema,omitempty"` // Validate input files against the JSON schemas
	Verbose        bool     `json:"verbose,omitempty"`         // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return fmt.Errorf("config error: '%s' must be non-negative", jsonName(fe.StructField()))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Reference != "" && c.ReferenceCandidates != "" {
		return fmt.Errorf("config error: 'reference' and 'reference_candidates' are mutually exclusive")
	}

	for _, p := range []struct {
		name string
		path string
	}{
		{"candidates", c.Candidates},
		{"reference", c.Reference},
		{"reference_candidates", c.ReferenceCandidates},
		{"rubric", c.Rubric},
	} {
		if p.path == "" {
			continue
		}
		if _, err := os.Stat(p.path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", p.name, p.path)
		}
	}

	return nil
}

// jsonName maps a struct field to its JSON key
func jsonName(field string) string {
	switch field {
	case "TopN":
		return "top_n"
	case "MaxFaithfulness":
		return "max_faithfulness"
	case "Workers":
		return "workers"
	}
	return strings.ToLower(field)
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults, and the
// package defaults applied to anything still unset.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Candidates == "" {
		result.Candidates = defaults.Candidates
	}
	if result.Reference == "" {
		result.Reference = defaults.Reference
	}
	if result.ReferenceCandidates == "" {
		result.ReferenceCandidates = defaults.ReferenceCandidates
	}
	if result.Rubric == "" {
		result.Rubric = defaults.Rubric
	}
	if result.MetricsOut == "" {
		result.MetricsOut = defaults.MetricsOut
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Output == "" {
		result.Output = DefaultOutputDir
	}

	// Int fields: use default if zero
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.TopN == 0 {
		result.TopN = DefaultTopN
	}
	if result.MaxFaithfulness == 0 {
		result.MaxFaithfulness = defaults.MaxFaithfulness
	}
	if result.MaxFaithfulness == 0 {
		result.MaxFaithfulness = DefaultMaxFaithfulness
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	if len(result.Ablations) == 0 {
		result.Ablations = append([]string(nil), defaults.Ablations...)
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
