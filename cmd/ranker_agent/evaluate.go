package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-ranker/internal/config"
	"github.com/jonathan/resume-ranker/internal/pipeline"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the full evaluation end-to-end",
	Long: `Orchestrates a full evaluation run: load -> score -> rank, then in parallel ranking metrics and
ablations against the reference, and evidence, comparisons and faithfulness checks. Writes every
artifact to the output directory.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runEvaluate,
}

var (
	evaluateConfigPath          string
	evaluateCandidates          string
	evaluateReference           string
	evaluateReferenceCandidates string
	evaluateRubric              string
	evaluateOutput              string
	evaluateMetricsOut          string
	evaluateTopN                int
	evaluateMaxFaithfulness     int
	evaluateWorkers             int
	evaluateAblations           string
	evaluateSkipAblations       bool
	evaluateValidateSchema      bool
	evaluateVerbose             bool
)

func init() {
	// Config file flag (processed first)
	evaluateCmd.Flags().StringVar(&evaluateConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	evaluateCmd.Flags().StringVarP(&evaluateCandidates, "candidates", "c", "", "Path to candidate records JSON file or directory")
	evaluateCmd.Flags().StringVarP(&evaluateReference, "reference", "R", "", "Path to reference scores JSON file (mutually exclusive with --reference-candidates)")
	evaluateCmd.Flags().StringVar(&evaluateReferenceCandidates, "reference-candidates", "", "Path to reference candidate records, scored under the default rubric")
	evaluateCmd.Flags().StringVarP(&evaluateRubric, "rubric", "r", "", "Path to rubric file, JSON or YAML (defaults to RANKER_RUBRIC, then built-in defaults)")
	evaluateCmd.Flags().StringVarP(&evaluateOutput, "out", "o", "", "Output directory for artifacts (default \"outputs\")")
	evaluateCmd.Flags().StringVar(&evaluateMetricsOut, "metrics-out", "", "Path to write Prometheus metrics in text format (optional)")
	evaluateCmd.Flags().IntVarP(&evaluateTopN, "top-n", "n", 0, "Number of top-ranked candidates compared pairwise (default 5)")
	evaluateCmd.Flags().IntVar(&evaluateMaxFaithfulness, "max-faithfulness", 0, "Maximum comparisons verified for faithfulness (default 10)")
	evaluateCmd.Flags().IntVarP(&evaluateWorkers, "workers", "w", 0, "Parallel ablation runs (default: number of CPUs)")
	evaluateCmd.Flags().StringVarP(&evaluateAblations, "ablations", "a", "", "Comma-separated ablation ids (default: the whole catalogue)")
	evaluateCmd.Flags().BoolVar(&evaluateSkipAblations, "skip-ablations", false, "Skip the ablation studies")
	evaluateCmd.Flags().BoolVar(&evaluateValidateSchema, "validate-schema", false, "Validate input files against the JSON schemas")
	evaluateCmd.Flags().BoolVarP(&evaluateVerbose, "verbose", "v", false, "Print detailed debug information")

	// Note: --candidates is not marked required; we validate after merging config

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Load config file if provided
	var cfg config.Config
	if evaluateConfigPath != "" {
		loadedCfg, err := config.LoadConfig(evaluateConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Validate loaded config
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if evaluateVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", evaluateConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("candidates") {
		cfg.Candidates = evaluateCandidates
	}
	if cmd.Flags().Changed("reference") {
		cfg.Reference = evaluateReference
	}
	if cmd.Flags().Changed("reference-candidates") {
		cfg.ReferenceCandidates = evaluateReferenceCandidates
	}
	if cmd.Flags().Changed("rubric") {
		cfg.Rubric = evaluateRubric
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = evaluateOutput
	}
	if cmd.Flags().Changed("metrics-out") {
		cfg.MetricsOut = evaluateMetricsOut
	}
	if cmd.Flags().Changed("top-n") {
		cfg.TopN = evaluateTopN
	}
	if cmd.Flags().Changed("max-faithfulness") {
		cfg.MaxFaithfulness = evaluateMaxFaithfulness
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = evaluateWorkers
	}
	if cmd.Flags().Changed("ablations") {
		cfg.Ablations = splitList(evaluateAblations)
	}
	if cmd.Flags().Changed("skip-ablations") {
		cfg.SkipAblations = evaluateSkipAblations
	}
	if cmd.Flags().Changed("validate-schema") {
		cfg.ValidateSchema = evaluateValidateSchema
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = evaluateVerbose
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		Rubric: os.Getenv(envRubric),
		Output: config.DefaultOutputDir,
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 4: Validate the merged configuration
	if cfg.Candidates == "" {
		return fmt.Errorf("--candidates must be provided (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rubricCfg, err := loadRubric(cfg.Rubric, cfg.ValidateSchema)
	if err != nil {
		return err
	}

	opts := pipeline.RunOptions{
		CandidatesPath:          cfg.Candidates,
		ReferencePath:           cfg.Reference,
		ReferenceCandidatesPath: cfg.ReferenceCandidates,
		Rubric:                  &rubricCfg,
		OutputDir:               cfg.Output,
		TopN:                    cfg.TopN,
		MaxFaithfulness:         cfg.MaxFaithfulness,
		Ablations:               cfg.Ablations,
		SkipAblations:           cfg.SkipAblations,
		Workers:                 cfg.Workers,
		ValidateSchema:          cfg.ValidateSchema,
		MetricsOut:              cfg.MetricsOut,
		Verbose:                 cfg.Verbose,
		Out:                     os.Stdout,
	}

	result, err := pipeline.RunPipeline(ctx, opts)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully evaluated %d candidates (run %s) to %s\n", len(result.Scores), result.RunID, cfg.Output)
	return nil
}
