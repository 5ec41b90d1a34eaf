package ablation

import (
	"fmt"
	"strings"
)

// UnknownAblationError is returned for an ablation id that is not in the catalogue
type UnknownAblationError struct {
	Name string
}

func (e *UnknownAblationError) Error() string {
	return fmt.Sprintf("unknown ablation: %s (available: %s)", e.Name, strings.Join(Names(), ", "))
}

// MissingBaselineError is returned when ablations are compared without a baseline run
type MissingBaselineError struct{}

func (e *MissingBaselineError) Error() string {
	return "ablation error: baseline results required for comparison"
}

// RunError wraps a failure to generate or evaluate one ablation
type RunError struct {
	Ablation string
	Cause    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("ablation %s failed: %v", e.Ablation, e.Cause)
}

func (e *RunError) Unwrap() error {
	return e.Cause
}
