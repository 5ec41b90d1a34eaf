package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-ranker/internal/pipeline/steps"
	"github.com/jonathan/resume-ranker/internal/scoring"
	"github.com/jonathan/resume-ranker/internal/types"
)

// Artifact file names
const (
	FileScores         = "scores.json"
	FileRankings       = "rankings.json"
	FileExplanations   = "explanations.json"
	FileRankingMetrics = "ranking_metrics.json"
	FileFaithfulness   = "faithfulness_evaluation.json"
	FileAblation       = "ablation_studies.json"
	FileRunSummary     = "run_summary.json"
)

// ExplanationsArtifact is the layout of explanations.json
type ExplanationsArtifact struct {
	Evidence    map[string]types.Evidence `json:"evidence"`
	Comparisons []types.Comparison        `json:"comparisons"`
}

// FaithfulnessArtifact is the layout of faithfulness_evaluation.json
type FaithfulnessArtifact struct {
	Global  types.GlobalFaithfulness   `json:"global"`
	Reports []types.FaithfulnessReport `json:"reports"`
}

// AblationArtifact is the layout of ablation_studies.json
type AblationArtifact struct {
	Results map[string]types.AblationRun `json:"results"`
	Report  types.AblationReport         `json:"comparison"`
}

// RunSummary is the layout of run_summary.json
type RunSummary struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	Candidates int                `json:"candidates"`
	Reference  int                `json:"reference_candidates"`
	Steps      []steps.StepResult `json:"steps"`
}

func newRunSummary(result *Result) RunSummary {
	return RunSummary{
		RunID:      result.RunID,
		StartedAt:  result.StartedAt,
		Candidates: len(result.Scores),
		Reference:  len(result.Reference),
		Steps:      result.Steps,
	}
}

type artifact struct {
	name  string
	value any
}

// WriteArtifacts writes the run's JSON artifacts into dir and returns the paths written.
// Artifacts for branches that did not run are not written.
func WriteArtifacts(dir string, result *Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []artifact{
		{FileScores, scoring.Index(result.Scores)},
		{FileRankings, result.Rankings},
	}
	if ex := result.Explanations; ex != nil {
		files = append(files,
			artifact{FileExplanations, ExplanationsArtifact{Evidence: ex.Evidence, Comparisons: ex.Comparisons}},
			artifact{FileFaithfulness, FaithfulnessArtifact{Global: ex.Faithfulness, Reports: ex.Reports}},
		)
	}
	if ev := result.Evaluation; ev != nil {
		if ev.RankingMetrics != nil {
			files = append(files, artifact{FileRankingMetrics, ev.RankingMetrics})
		}
		if ev.AblationReport != nil {
			files = append(files, artifact{FileAblation, AblationArtifact{Results: ev.AblationRuns, Report: *ev.AblationReport}})
		}
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := writeJSON(dir, f.name, f.value); err != nil {
			return written, err
		}
		written = append(written, filepath.Join(dir, f.name))
	}
	return written, nil
}

func writeJSON(dir, name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
