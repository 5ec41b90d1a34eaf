package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-ranker/internal/ablation"
	"github.com/jonathan/resume-ranker/internal/candidates"
	"github.com/jonathan/resume-ranker/internal/observability"
	"github.com/jonathan/resume-ranker/internal/pipeline"
	"github.com/spf13/cobra"
)

var ablateCmd = &cobra.Command{
	Use:   "ablate",
	Short: "Run ablation studies against a reference ranking",
	Long: `Scores the candidates under the baseline rubric and under each ablation, ranks every variant
against the reference scores and compares the headline metrics with the baseline.`,
	RunE: runAblate,
}

var (
	ablateCandidates     string
	ablateReference      string
	ablateRubric         string
	ablateOutput         string
	ablateAblations      string
	ablateWorkers        int
	ablateValidateSchema bool
	ablateVerbose        bool
)

func init() {
	ablateCmd.Flags().StringVarP(&ablateCandidates, "candidates", "c", "", "Path to candidate records JSON file or directory (required)")
	ablateCmd.Flags().StringVarP(&ablateReference, "reference", "R", "", "Path to reference scores JSON file (required)")
	ablateCmd.Flags().StringVarP(&ablateRubric, "rubric", "r", "", "Path to baseline rubric file, JSON or YAML (defaults to RANKER_RUBRIC, then built-in defaults)")
	ablateCmd.Flags().StringVarP(&ablateOutput, "out", "o", "", "Path to output ablation studies JSON file (required)")
	ablateCmd.Flags().StringVarP(&ablateAblations, "ablations", "a", "", "Comma-separated ablation ids (default: the whole catalogue)")
	ablateCmd.Flags().IntVarP(&ablateWorkers, "workers", "w", 0, "Parallel ablation runs (default: number of CPUs)")
	ablateCmd.Flags().BoolVar(&ablateValidateSchema, "validate-schema", false, "Validate input files against the JSON schemas")
	ablateCmd.Flags().BoolVarP(&ablateVerbose, "verbose", "v", false, "Print the ablation report")

	if err := ablateCmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}
	if err := ablateCmd.MarkFlagRequired("reference"); err != nil {
		panic(fmt.Sprintf("failed to mark reference flag as required: %v", err))
	}
	if err := ablateCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(ablateCmd)
}

func runAblate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadRubric(ablateRubric, ablateValidateSchema)
	if err != nil {
		return err
	}

	records, err := loadCandidates(ablateCandidates, ablateValidateSchema)
	if err != nil {
		return err
	}

	reference, err := candidates.LoadReferenceScores(ablateReference)
	if err != nil {
		return fmt.Errorf("failed to load reference scores: %w", err)
	}

	ids := splitList(ablateAblations)
	if len(ids) > 0 && ids[0] != ablation.BaselineID {
		ids = append([]string{ablation.BaselineID}, removeID(ids, ablation.BaselineID)...)
	}

	engine := ablation.NewEngine(cfg, ablation.WithWorkers(ablateWorkers))
	runs, err := engine.Run(ctx, ids, records, reference)
	if err != nil {
		return fmt.Errorf("failed to run ablations: %w", err)
	}

	report, err := ablation.Compare(runs)
	if err != nil {
		return fmt.Errorf("failed to compare ablations: %w", err)
	}

	if ablateVerbose {
		observability.NewPrinter(os.Stdout).PrintAblationReport(&report)
	}

	artifact := pipeline.AblationArtifact{Results: runs, Report: report}
	if err := writeJSONFile(ablateOutput, artifact); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully ran %d ablation studies to %s\n", len(runs), ablateOutput)
	return nil
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
