// Package steps provides step definitions, dependency validation, and step tracking
// for the evaluation pipeline.
package steps

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Step categories
const (
	CategoryInput       = "input"
	CategoryScoring     = "scoring"
	CategoryEvaluation  = "evaluation"
	CategoryExplanation = "explanation"
	CategoryAblation    = "ablation"
	CategoryOutput      = "output"
)

// Step names
const (
	StepLoadCandidates    = "load_candidates"
	StepLoadReference     = "load_reference"
	StepScoreCandidates   = "score_candidates"
	StepRankCandidates    = "rank_candidates"
	StepRankingMetrics    = "ranking_metrics"
	StepExtractEvidence   = "extract_evidence"
	StepCompareCandidates = "compare_candidates"
	StepVerifyFaithful    = "verify_faithfulness"
	StepRunAblations      = "run_ablations"
	StepCompareAblations  = "compare_ablations"
	StepWriteArtifacts    = "write_artifacts"
)

// Step statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusSkipped    = "skipped"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Order        int
	Dependencies []string
	Optional     []string
}

// StepResult represents the outcome of one tracked step
type StepResult struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Duration int64  `json:"duration_ms"`
	Error    string `json:"error,omitempty"`
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	StepLoadCandidates: {
		Name:         StepLoadCandidates,
		Category:     CategoryInput,
		Order:        1,
		Dependencies: []string{},
		Optional:     []string{},
	},
	StepLoadReference: {
		Name:         StepLoadReference,
		Category:     CategoryInput,
		Order:        2,
		Dependencies: []string{},
		Optional:     []string{},
	},
	StepScoreCandidates: {
		Name:         StepScoreCandidates,
		Category:     CategoryScoring,
		Order:        3,
		Dependencies: []string{StepLoadCandidates},
		Optional:     []string{},
	},
	StepRankCandidates: {
		Name:         StepRankCandidates,
		Category:     CategoryScoring,
		Order:        4,
		Dependencies: []string{StepScoreCandidates},
		Optional:     []string{},
	},
	StepRankingMetrics: {
		Name:         StepRankingMetrics,
		Category:     CategoryEvaluation,
		Order:        5,
		Dependencies: []string{StepScoreCandidates, StepLoadReference},
		Optional:     []string{},
	},
	StepRunAblations: {
		Name:         StepRunAblations,
		Category:     CategoryAblation,
		Order:        6,
		Dependencies: []string{StepLoadCandidates, StepLoadReference},
		Optional:     []string{},
	},
	StepCompareAblations: {
		Name:         StepCompareAblations,
		Category:     CategoryAblation,
		Order:        7,
		Dependencies: []string{StepRunAblations},
		Optional:     []string{},
	},
	StepExtractEvidence: {
		Name:         StepExtractEvidence,
		Category:     CategoryExplanation,
		Order:        8,
		Dependencies: []string{StepScoreCandidates},
		Optional:     []string{},
	},
	StepCompareCandidates: {
		Name:         StepCompareCandidates,
		Category:     CategoryExplanation,
		Order:        9,
		Dependencies: []string{StepRankCandidates, StepExtractEvidence},
		Optional:     []string{},
	},
	StepVerifyFaithful: {
		Name:         StepVerifyFaithful,
		Category:     CategoryExplanation,
		Order:        10,
		Dependencies: []string{StepCompareCandidates},
		Optional:     []string{},
	},
	StepWriteArtifacts: {
		Name:         StepWriteArtifacts,
		Category:     CategoryOutput,
		Order:        11,
		Dependencies: []string{StepRankCandidates},
		Optional:     []string{StepRankingMetrics, StepVerifyFaithful, StepCompareAblations},
	},
}

// Total is the number of registered steps, used for "Step N/M" progress lines
func Total() int {
	return len(StepRegistry)
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("missing dependencies: %v", e.MissingDependencies)
}

// ValidateDependencies checks if all required dependencies for a step are completed.
// status maps step names to their current status.
func ValidateDependencies(status map[string]string, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if status[dep] != StatusCompleted {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

type entry struct {
	status   string
	started  time.Time
	duration time.Duration
	err      string
}

// Tracker records step progress for one run. It is safe for concurrent use by the
// pipeline branches.
type Tracker struct {
	mu    sync.Mutex
	now   func() time.Time
	steps map[string]*entry
}

// NewTracker creates a Tracker with every registered step pending
func NewTracker() *Tracker {
	t := &Tracker{now: time.Now, steps: make(map[string]*entry, len(StepRegistry))}
	for name := range StepRegistry {
		t.steps[name] = &entry{status: StatusPending}
	}
	return t
}

// Start marks a step in progress after checking its dependencies
func (t *Tracker) Start(stepName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ValidateDependencies(t.statusLocked(), stepName); err != nil {
		return err
	}
	e := t.steps[stepName]
	e.status = StatusInProgress
	e.started = t.now()
	return nil
}

// Complete marks a started step completed and records its duration
func (t *Tracker) Complete(stepName string) time.Duration {
	return t.finish(stepName, StatusCompleted, "")
}

// Fail marks a started step failed
func (t *Tracker) Fail(stepName string, err error) time.Duration {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return t.finish(stepName, StatusFailed, msg)
}

// Skip marks a step that will not run in this configuration
func (t *Tracker) Skip(stepName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.steps[stepName]; ok {
		e.status = StatusSkipped
	}
}

func (t *Tracker) finish(stepName, status, msg string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.steps[stepName]
	if !ok {
		return 0
	}
	e.status = status
	e.err = msg
	if !e.started.IsZero() {
		e.duration = t.now().Sub(e.started)
	}
	return e.duration
}

// Status returns a snapshot of every step's status
func (t *Tracker) Status() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

func (t *Tracker) statusLocked() map[string]string {
	out := make(map[string]string, len(t.steps))
	for name, e := range t.steps {
		out[name] = e.status
	}
	return out
}

// Results returns the tracked steps in pipeline order
func (t *Tracker) Results() []StepResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	results := make([]StepResult, 0, len(t.steps))
	for name, e := range t.steps {
		results = append(results, StepResult{
			Step:     name,
			Category: StepRegistry[name].Category,
			Status:   e.status,
			Duration: e.duration.Milliseconds(),
			Error:    e.err,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return StepRegistry[results[i].Step].Order < StepRegistry[results[j].Step].Order
	})
	return results
}

// GetAvailableSteps returns pending steps whose dependencies are met
func GetAvailableSteps(t *Tracker) []string {
	status := t.Status()

	var available []string
	for stepName := range StepRegistry {
		if status[stepName] != StatusPending {
			continue
		}
		if err := ValidateDependencies(status, stepName); err != nil {
			continue // Dependencies not met
		}
		available = append(available, stepName)
	}
	sortByOrder(available)
	return available
}

// GetBlockedSteps returns pending steps with unmet dependencies
func GetBlockedSteps(t *Tracker) []string {
	status := t.Status()

	var blocked []string
	for stepName := range StepRegistry {
		if status[stepName] != StatusPending {
			continue
		}
		if err := ValidateDependencies(status, stepName); err != nil {
			blocked = append(blocked, stepName)
		}
	}
	sortByOrder(blocked)
	return blocked
}

func sortByOrder(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return StepRegistry[names[i]].Order < StepRegistry[names[j]].Order
	})
}
