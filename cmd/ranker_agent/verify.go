package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-ranker/internal/faithfulness"
	"github.com/jonathan/resume-ranker/internal/observability"
	"github.com/jonathan/resume-ranker/internal/pipeline"
	"github.com/jonathan/resume-ranker/internal/scoring"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify that pairwise explanations are faithful to the scores",
	Long: `Generates pairwise comparisons for the top candidates and checks each one against the underlying
scores: score delta, component deltas, top reasons, cited evidence and ranking consistency.`,
	RunE: runVerify,
}

var (
	verifyCandidates     string
	verifyRubric         string
	verifyOutput         string
	verifyTopN           int
	verifyMaxComparisons int
	verifyValidateSchema bool
	verifyVerbose        bool
)

func init() {
	verifyCmd.Flags().StringVarP(&verifyCandidates, "candidates", "c", "", "Path to candidate records JSON file or directory (required)")
	verifyCmd.Flags().StringVarP(&verifyRubric, "rubric", "r", "", "Path to rubric file, JSON or YAML (defaults to RANKER_RUBRIC, then built-in defaults)")
	verifyCmd.Flags().StringVarP(&verifyOutput, "out", "o", "", "Path to output faithfulness JSON file (required)")
	verifyCmd.Flags().IntVarP(&verifyTopN, "top-n", "n", pipeline.DefaultTopN, "Number of top-ranked candidates compared pairwise")
	verifyCmd.Flags().IntVar(&verifyMaxComparisons, "max-comparisons", pipeline.DefaultMaxFaithfulness, "Maximum number of comparisons verified")
	verifyCmd.Flags().BoolVar(&verifyValidateSchema, "validate-schema", false, "Validate input files against the JSON schemas")
	verifyCmd.Flags().BoolVarP(&verifyVerbose, "verbose", "v", false, "Print the global faithfulness summary")

	if err := verifyCmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}
	if err := verifyCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(_ *cobra.Command, _ []string) error {
	if verifyTopN < 2 {
		return fmt.Errorf("--top-n must be at least 2, got %d", verifyTopN)
	}
	if verifyMaxComparisons < 1 {
		return fmt.Errorf("--max-comparisons must be positive, got %d", verifyMaxComparisons)
	}

	cfg, err := loadRubric(verifyRubric, verifyValidateSchema)
	if err != nil {
		return err
	}

	records, err := loadCandidates(verifyCandidates, verifyValidateSchema)
	if err != nil {
		return err
	}

	_, scores, evidence, comparisons := explainTop(cfg, records, verifyTopN)
	if len(comparisons) > verifyMaxComparisons {
		comparisons = comparisons[:verifyMaxComparisons]
	}

	reports, global := faithfulness.NewVerifier(cfg.Weights).VerifyAll(comparisons, scoring.Index(scores), evidence)

	if verifyVerbose {
		observability.NewPrinter(os.Stdout).PrintFaithfulness(&global)
	}

	artifact := pipeline.FaithfulnessArtifact{Global: global, Reports: reports}
	if err := writeJSONFile(verifyOutput, artifact); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully verified %d comparisons (faithfulness %.4f) to %s\n", len(reports), global.GlobalScore, verifyOutput)
	return nil
}
