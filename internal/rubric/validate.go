package rubric

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// weightSumTolerance is how far the component weights may stray from 1 before a warning is logged
const weightSumTolerance = 0.01

// ConfigError represents a malformed or invalid rubric
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rubric config error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rubric config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Validate checks field ranges with struct tags, then the cross-field rules tags cannot express.
// Weights that do not sum to 1 are logged, not rejected.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return &ConfigError{
			Message: describeValidationErrors(err),
			Cause:   err,
		}
	}

	for _, table := range []struct {
		name  string
		bands []Band
	}{{"impact_factor_bands", c.ImpactFactorBands.Bands}} {
		for i, b := range table.bands {
			if b.Max != 0 && b.Max <= b.Min {
				return &ConfigError{
					Message: fmt.Sprintf("%s[%d] (%s): max %.2f must exceed min %.2f", table.name, i, b.Label, b.Max, b.Min),
				}
			}
		}
	}

	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		slog.Warn("rubric weights do not sum to 1", "sum", sum)
	}

	return nil
}

func describeValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid configuration"
	}

	parts := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
