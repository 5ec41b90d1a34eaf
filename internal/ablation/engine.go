package ablation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-ranker/internal/ranking"
	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/scoring"
	"github.com/jonathan/resume-ranker/internal/types"
)

// Engine generates and runs ablations over one baseline rubric. The baseline is cloned on
// construction and never modified.
type Engine struct {
	base          rubric.Config
	workers       int
	scorerOptions []scoring.Option
}

// Option configures an Engine
type Option func(*Engine)

// WithWorkers bounds how many ablations run at once. Values below 1 mean one per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithScorerOptions passes options to every scorer the engine creates
func WithScorerOptions(opts ...scoring.Option) Option {
	return func(e *Engine) {
		e.scorerOptions = append(e.scorerOptions, opts...)
	}
}

// NewEngine creates an Engine for the given baseline rubric
func NewEngine(base rubric.Config, opts ...Option) *Engine {
	e := &Engine{base: base.Clone()}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.NumCPU()
	}
	return e
}

// Generate returns the baseline rubric with the named ablation applied and tagged
func (e *Engine) Generate(id string) (rubric.Config, error) {
	spec, err := Lookup(id)
	if err != nil {
		return rubric.Config{}, err
	}
	cfg, err := e.base.WithOverrides(spec.Overrides)
	if err != nil {
		return rubric.Config{}, &RunError{Ablation: id, Cause: err}
	}
	return cfg.WithAblation(rubric.AblationMeta{
		ID:          spec.ID,
		Name:        spec.Name,
		Description: spec.Description,
		RunID:       uuid.New().String(),
	}), nil
}

// Run evaluates each named ablation in parallel: score every record under the variant and
// rank the result against the reference scores. An empty ids list runs the whole catalogue.
// The first failure cancels the remaining runs.
func (e *Engine) Run(ctx context.Context, ids []string, records []types.CandidateRecord, reference map[string]float64) (map[string]types.AblationRun, error) {
	if len(ids) == 0 {
		ids = Names()
	}
	for _, id := range ids {
		if _, err := Lookup(id); err != nil {
			return nil, err
		}
	}

	runs := make([]types.AblationRun, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run, err := e.runOne(id, records, reference)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]types.AblationRun, len(runs))
	for _, run := range runs {
		out[run.ID] = run
	}
	return out, nil
}

func (e *Engine) runOne(id string, records []types.CandidateRecord, reference map[string]float64) (types.AblationRun, error) {
	cfg, err := e.Generate(id)
	if err != nil {
		return types.AblationRun{}, err
	}

	scorer := scoring.New(cfg, e.scorerOptions...)
	scores := scoring.FinalScores(scorer.ScoreAll(records))
	metrics := ranking.NewEvaluator(cfg.Ranking).Evaluate(scores, reference)

	slog.Info("ablation evaluated",
		"ablation", id,
		"run_id", cfg.Ablation.RunID,
		"candidates", len(scores),
		"ranking_ok", metrics.OK(),
	)

	return types.AblationRun{
		ID:             id,
		Name:           cfg.Ablation.Name,
		Description:    cfg.Ablation.Description,
		RunID:          cfg.Ablation.RunID,
		Scores:         scores,
		RankingMetrics: metrics,
	}, nil
}

// Export writes config_<id>.json for every ablation in the catalogue
func (e *Engine) Export(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create ablation config directory: %w", err)
	}

	for _, id := range Names() {
		cfg, err := e.Generate(id)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal ablation config %s: %w", id, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("config_%s.json", id))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write ablation config %s: %w", path, err)
		}
	}
	return nil
}
