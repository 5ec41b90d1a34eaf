// Package pipeline provides the high-level orchestration for a full evaluation run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-ranker/internal/ablation"
	"github.com/jonathan/resume-ranker/internal/candidates"
	"github.com/jonathan/resume-ranker/internal/explain"
	"github.com/jonathan/resume-ranker/internal/faithfulness"
	"github.com/jonathan/resume-ranker/internal/observability"
	"github.com/jonathan/resume-ranker/internal/pipeline/steps"
	"github.com/jonathan/resume-ranker/internal/ranking"
	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/schemas"
	"github.com/jonathan/resume-ranker/internal/scoring"
	"github.com/jonathan/resume-ranker/internal/types"
)

// Defaults used when RunOptions leaves a limit at zero
const (
	DefaultTopN            = 5
	DefaultMaxFaithfulness = 10
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	CandidatesPath          string
	ReferencePath           string // JSON object of reference scores
	ReferenceCandidatesPath string // Reference records, scored under the default rubric
	Rubric                  *rubric.Config
	OutputDir               string
	TopN                    int
	MaxFaithfulness         int
	Ablations               []string
	SkipAblations           bool
	Workers                 int
	ValidateSchema          bool
	MetricsOut              string
	Verbose                 bool
	Clock                   func() time.Time
	Out                     io.Writer
	OnProgress              ProgressCallback
}

// Result holds everything one evaluation run produced
type Result struct {
	RunID        string
	StartedAt    time.Time
	Records      []types.CandidateRecord
	Reference    map[string]float64
	Scores       []types.CandidateScore
	Rankings     []types.RankedCandidate
	Evaluation   *EvaluationBranchResult
	Explanations *ExplanationBranchResult
	Steps        []steps.StepResult
}

// EvaluationBranchResult holds the outputs from the ranking metrics and ablation branch
type EvaluationBranchResult struct {
	RankingMetrics *types.RankingMetricsResult
	AblationRuns   map[string]types.AblationRun
	AblationReport *types.AblationReport
}

// ExplanationBranchResult holds the outputs from the evidence, comparison and faithfulness branch
type ExplanationBranchResult struct {
	Evidence     map[string]types.Evidence
	Comparisons  []types.Comparison
	Reports      []types.FaithfulnessReport
	Faithfulness types.GlobalFaithfulness
}

// logPrefix is used to distinguish concurrent log output
type logPrefix string

const (
	prefixEvaluation  logPrefix = "[Evaluation]  "
	prefixExplanation logPrefix = "[Explanation] "
)

// syncWriter serializes writes from the concurrent branches
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// run carries per-run state shared by the branches
type run struct {
	opts    *RunOptions
	id      string
	out     io.Writer
	printer *observability.Printer
	tracker *steps.Tracker
	metrics *observability.Metrics
	step    int
	stepMu  sync.Mutex
}

// emitProgress calls the progress callback if configured
func (r *run) emitProgress(step, message string, content any) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: steps.StepRegistry[step].Category,
			Message:  message,
			RunID:    r.id,
			Content:  content,
		})
	}
}

// begin announces and starts a tracked step
func (r *run) begin(prefix logPrefix, step, message string) error {
	r.stepMu.Lock()
	r.step++
	n := r.step
	r.stepMu.Unlock()

	fmt.Fprintf(r.out, "%sStep %d/%d: %s...\n", prefix, n, steps.Total(), message)
	return r.tracker.Start(step)
}

// end completes a tracked step and records its duration
func (r *run) end(step string) {
	d := r.tracker.Complete(step)
	r.metrics.ObserveStageDuration(step, d.Seconds())
}

// skip marks a step that does not apply to this run
func (r *run) skip(step, reason string) {
	r.tracker.Skip(step)
	slog.Info("pipeline step skipped", "step", step, "reason", reason, "run_id", r.id)
}

func (r *run) fail(step string, err error) error {
	r.tracker.Fail(step, err)
	return err
}

// RunPipeline orchestrates a full evaluation run: load, score, rank, then the evaluation
// and explanation branches in parallel, then the artifacts.
func RunPipeline(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.CandidatesPath == "" {
		return nil, fmt.Errorf("candidates path is required")
	}
	if opts.ReferencePath != "" && opts.ReferenceCandidatesPath != "" {
		return nil, fmt.Errorf("reference scores and reference candidates are mutually exclusive")
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.MaxFaithfulness <= 0 {
		opts.MaxFaithfulness = DefaultMaxFaithfulness
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	// Both branches print progress
	opts.Out = &syncWriter{w: opts.Out}
	cfg := rubric.Default()
	if opts.Rubric != nil {
		cfg = opts.Rubric.Clone()
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	r := &run{
		opts:    &opts,
		id:      uuid.New().String(),
		out:     opts.Out,
		printer: observability.NewPrinter(opts.Out),
		tracker: steps.NewTracker(),
		metrics: metrics,
	}
	result := &Result{RunID: r.id, StartedAt: time.Now()}
	slog.Info("evaluation run started", "run_id", r.id, "candidates", opts.CandidatesPath)

	var scorerOpts []scoring.Option
	if opts.Clock != nil {
		scorerOpts = append(scorerOpts, scoring.WithClock(opts.Clock))
	}

	// Step 1: Load candidate records
	if err := r.begin("", steps.StepLoadCandidates, "Loading candidate records from "+opts.CandidatesPath); err != nil {
		return nil, err
	}
	var loadOpts []candidates.Option
	if opts.ValidateSchema {
		schemaPath := schemas.ResolveSchemaPath(schemas.CandidateRecordsSchema)
		if schemaPath == "" {
			return nil, r.fail(steps.StepLoadCandidates, fmt.Errorf("schema not found: %s", schemas.CandidateRecordsSchema))
		}
		loadOpts = append(loadOpts, candidates.WithSchema(schemaPath))
	}
	records, err := candidates.Load(opts.CandidatesPath, loadOpts...)
	if err != nil {
		return nil, r.fail(steps.StepLoadCandidates, fmt.Errorf("loading candidates failed: %w", err))
	}
	result.Records = records
	r.end(steps.StepLoadCandidates)
	r.emitProgress(steps.StepLoadCandidates, fmt.Sprintf("Loaded %d candidate records", len(records)), nil)

	// Step 2: Load the reference ranking
	reference, err := r.loadReference(scorerOpts, loadOpts)
	if err != nil {
		return nil, err
	}
	result.Reference = reference

	// Step 3: Score every candidate
	if err := r.begin("", steps.StepScoreCandidates, "Scoring candidates"); err != nil {
		return nil, err
	}
	scorer := scoring.New(cfg, scorerOpts...)
	scores := scorer.ScoreAll(records)
	metrics.ObserveScores(scores)
	result.Scores = scores
	r.end(steps.StepScoreCandidates)
	r.emitProgress(steps.StepScoreCandidates, fmt.Sprintf("Scored %d candidates", len(scores)), nil)

	// Step 4: Rank
	if err := r.begin("", steps.StepRankCandidates, "Ranking candidates"); err != nil {
		return nil, err
	}
	rankings := scoring.RankByScore(scores)
	result.Rankings = rankings
	r.end(steps.StepRankCandidates)
	if opts.Verbose {
		r.printer.PrintRankings(rankings)
	}
	r.emitProgress(steps.StepRankCandidates, fmt.Sprintf("Ranked %d candidates", len(rankings)), rankings)

	// =========================================================================
	// PARALLEL EXECUTION: Evaluation Branch + Explanation Branch
	// =========================================================================
	fmt.Fprintf(r.out, "\nStarting parallel execution of Evaluation and Explanation branches...\n\n")

	g, gCtx := errgroup.WithContext(ctx)

	var evaluationResult *EvaluationBranchResult
	var explanationResult *ExplanationBranchResult
	var evalMu, explMu sync.Mutex // Protect result assignments

	g.Go(func() error {
		res, err := r.runEvaluationBranch(gCtx, cfg, scorerOpts, records, scores, reference)
		if err != nil {
			return fmt.Errorf("evaluation branch failed: %w", err)
		}
		evalMu.Lock()
		evaluationResult = res
		evalMu.Unlock()
		return nil
	})

	g.Go(func() error {
		res, err := r.runExplanationBranch(gCtx, scorer, records, scores)
		if err != nil {
			return fmt.Errorf("explanation branch failed: %w", err)
		}
		explMu.Lock()
		explanationResult = res
		explMu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.Evaluation = evaluationResult
	result.Explanations = explanationResult

	fmt.Fprintf(r.out, "\nBoth branches completed. Writing artifacts...\n\n")
	// =========================================================================

	if err := r.begin("", steps.StepWriteArtifacts, "Writing artifacts to "+opts.OutputDir); err != nil {
		return nil, err
	}
	if opts.OutputDir != "" {
		if _, err := WriteArtifacts(opts.OutputDir, result); err != nil {
			return nil, r.fail(steps.StepWriteArtifacts, err)
		}
	}
	r.end(steps.StepWriteArtifacts)
	result.Steps = r.tracker.Results()

	if opts.OutputDir != "" {
		if err := writeJSON(opts.OutputDir, FileRunSummary, newRunSummary(result)); err != nil {
			return nil, err
		}
	}
	if opts.MetricsOut != "" {
		if err := observability.WriteTextfile(registry, opts.MetricsOut); err != nil {
			return nil, fmt.Errorf("failed to write metrics textfile: %w", err)
		}
	}
	r.emitProgress(steps.StepWriteArtifacts, "Evaluation run complete", nil)

	slog.Info("evaluation run completed",
		"run_id", r.id,
		"candidates", len(scores),
		"duration", time.Since(result.StartedAt).String(),
	)
	return result, nil
}

// loadReference runs step 2. Without any reference source the step is skipped.
func (r *run) loadReference(scorerOpts []scoring.Option, loadOpts []candidates.Option) (map[string]float64, error) {
	opts := r.opts
	switch {
	case opts.ReferencePath != "":
		if err := r.begin("", steps.StepLoadReference, "Loading reference scores from "+opts.ReferencePath); err != nil {
			return nil, err
		}
		reference, err := candidates.LoadReferenceScores(opts.ReferencePath)
		if err != nil {
			return nil, r.fail(steps.StepLoadReference, fmt.Errorf("loading reference scores failed: %w", err))
		}
		r.end(steps.StepLoadReference)
		r.emitProgress(steps.StepLoadReference, fmt.Sprintf("Loaded %d reference scores", len(reference)), nil)
		return reference, nil

	case opts.ReferenceCandidatesPath != "":
		if err := r.begin("", steps.StepLoadReference, "Scoring reference candidates from "+opts.ReferenceCandidatesPath); err != nil {
			return nil, err
		}
		refRecords, err := candidates.Load(opts.ReferenceCandidatesPath, loadOpts...)
		if err != nil {
			return nil, r.fail(steps.StepLoadReference, fmt.Errorf("loading reference candidates failed: %w", err))
		}
		reference := scoring.FinalScores(scoring.New(rubric.Default(), scorerOpts...).ScoreAll(refRecords))
		r.end(steps.StepLoadReference)
		r.emitProgress(steps.StepLoadReference, fmt.Sprintf("Scored %d reference candidates", len(reference)), nil)
		return reference, nil
	}

	fmt.Fprintf(r.out, "No reference ranking provided, skipping ranking metrics and ablations\n")
	r.skip(steps.StepLoadReference, "no reference")
	return nil, nil
}

// runEvaluationBranch compares the system ranking against the reference and runs the
// ablation studies
func (r *run) runEvaluationBranch(
	ctx context.Context,
	cfg rubric.Config,
	scorerOpts []scoring.Option,
	records []types.CandidateRecord,
	scores []types.CandidateScore,
	reference map[string]float64,
) (*EvaluationBranchResult, error) {
	prefix := prefixEvaluation
	result := &EvaluationBranchResult{}

	if reference == nil {
		r.skip(steps.StepRankingMetrics, "no reference")
		r.skip(steps.StepRunAblations, "no reference")
		r.skip(steps.StepCompareAblations, "no reference")
		return result, nil
	}

	if err := r.begin(prefix, steps.StepRankingMetrics, "Computing ranking metrics"); err != nil {
		return nil, err
	}
	metricsResult := ranking.NewEvaluator(cfg.Ranking).Evaluate(scoring.FinalScores(scores), reference)
	result.RankingMetrics = &metricsResult
	if metricsResult.OK() {
		r.metrics.SetRankingMetrics(metricsResult)
	} else {
		slog.Warn("ranking metrics unavailable", "error", metricsResult.Error, "common", metricsResult.CommonCount)
	}
	r.end(steps.StepRankingMetrics)
	if r.opts.Verbose {
		r.printer.PrintRankingMetrics(&metricsResult)
	}
	r.emitProgress(steps.StepRankingMetrics, "Computed ranking metrics", metricsResult)

	if r.opts.SkipAblations {
		r.skip(steps.StepRunAblations, "disabled")
		r.skip(steps.StepCompareAblations, "disabled")
		fmt.Fprintf(r.out, "%sEvaluation branch complete.\n", prefix)
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := withBaseline(r.opts.Ablations)
	if err := r.begin(prefix, steps.StepRunAblations, fmt.Sprintf("Running %s", describeAblations(ids))); err != nil {
		return nil, err
	}
	engine := ablation.NewEngine(cfg,
		ablation.WithWorkers(r.opts.Workers),
		ablation.WithScorerOptions(scorerOpts...),
	)
	runs, err := engine.Run(ctx, ids, records, reference)
	if err != nil {
		return nil, r.fail(steps.StepRunAblations, fmt.Errorf("running ablations failed: %w", err))
	}
	result.AblationRuns = runs
	r.end(steps.StepRunAblations)
	r.emitProgress(steps.StepRunAblations, fmt.Sprintf("Ran %d ablation studies", len(runs)), nil)

	if err := r.begin(prefix, steps.StepCompareAblations, "Comparing ablations against the baseline"); err != nil {
		return nil, err
	}
	report, err := ablation.Compare(runs)
	if err != nil {
		return nil, r.fail(steps.StepCompareAblations, fmt.Errorf("comparing ablations failed: %w", err))
	}
	result.AblationReport = &report
	r.metrics.SetAblationImpacts(report)
	r.end(steps.StepCompareAblations)
	if r.opts.Verbose {
		r.printer.PrintAblationReport(&report)
	}
	r.emitProgress(steps.StepCompareAblations, report.Summary, report)

	fmt.Fprintf(r.out, "%sEvaluation branch complete.\n", prefix)
	return result, nil
}

// runExplanationBranch extracts evidence, compares the top candidates pairwise and
// verifies the first comparisons for faithfulness
func (r *run) runExplanationBranch(
	ctx context.Context,
	scorer *scoring.Scorer,
	records []types.CandidateRecord,
	scores []types.CandidateScore,
) (*ExplanationBranchResult, error) {
	prefix := prefixExplanation
	generator := explain.NewGenerator(scorer)
	index := scoring.Index(scores)

	if err := r.begin(prefix, steps.StepExtractEvidence, "Extracting evidence"); err != nil {
		return nil, err
	}
	evidence := generator.EvidenceAll(records, index)
	r.end(steps.StepExtractEvidence)
	r.emitProgress(steps.StepExtractEvidence, fmt.Sprintf("Extracted evidence for %d candidates", len(evidence)), nil)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.begin(prefix, steps.StepCompareCandidates, fmt.Sprintf("Comparing the top %d candidates", r.opts.TopN)); err != nil {
		return nil, err
	}
	comparisons := generator.CompareTop(scores, evidence, r.opts.TopN)
	r.end(steps.StepCompareCandidates)
	if r.opts.Verbose {
		for i := range comparisons {
			if i >= r.opts.MaxFaithfulness {
				break
			}
			r.printer.PrintComparison(&comparisons[i])
		}
	}
	r.emitProgress(steps.StepCompareCandidates, fmt.Sprintf("Generated %d pairwise comparisons", len(comparisons)), nil)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.begin(prefix, steps.StepVerifyFaithful, "Verifying explanation faithfulness"); err != nil {
		return nil, err
	}
	verified := comparisons
	if len(verified) > r.opts.MaxFaithfulness {
		verified = verified[:r.opts.MaxFaithfulness]
	}
	reports, global := faithfulness.NewVerifier(scorer.Config().Weights).VerifyAll(verified, index, evidence)
	r.metrics.ObserveFaithfulness(reports, global)
	r.end(steps.StepVerifyFaithful)
	if r.opts.Verbose {
		r.printer.PrintFaithfulness(&global)
	}
	r.emitProgress(steps.StepVerifyFaithful,
		fmt.Sprintf("Verified %d comparisons: %s", len(reports), global.Interpretation), global)

	fmt.Fprintf(r.out, "%sExplanation branch complete.\n", prefix)

	return &ExplanationBranchResult{
		Evidence:     evidence,
		Comparisons:  comparisons,
		Reports:      reports,
		Faithfulness: global,
	}, nil
}

// withBaseline makes sure the baseline runs first. An empty list stays empty, which runs
// the whole catalogue.
func withBaseline(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := []string{ablation.BaselineID}
	for _, id := range ids {
		if id != ablation.BaselineID {
			out = append(out, id)
		}
	}
	return out
}

func describeAblations(ids []string) string {
	if len(ids) == 0 {
		return fmt.Sprintf("all %d ablation studies", len(ablation.Names()))
	}
	return fmt.Sprintf("%d ablation studies", len(ids))
}
