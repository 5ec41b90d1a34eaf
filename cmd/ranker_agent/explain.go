package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-ranker/internal/observability"
	"github.com/jonathan/resume-ranker/internal/pipeline"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Extract evidence and compare the top candidates pairwise",
	Long:  "Scores candidate records, extracts per-section evidence for every candidate and writes pairwise comparisons with ranked reasons for the top candidates.",
	RunE:  runExplain,
}

var (
	explainCandidates     string
	explainRubric         string
	explainOutput         string
	explainTopN           int
	explainValidateSchema bool
	explainVerbose        bool
)

func init() {
	explainCmd.Flags().StringVarP(&explainCandidates, "candidates", "c", "", "Path to candidate records JSON file or directory (required)")
	explainCmd.Flags().StringVarP(&explainRubric, "rubric", "r", "", "Path to rubric file, JSON or YAML (defaults to RANKER_RUBRIC, then built-in defaults)")
	explainCmd.Flags().StringVarP(&explainOutput, "out", "o", "", "Path to output explanations JSON file (required)")
	explainCmd.Flags().IntVarP(&explainTopN, "top-n", "n", pipeline.DefaultTopN, "Number of top-ranked candidates compared pairwise")
	explainCmd.Flags().BoolVar(&explainValidateSchema, "validate-schema", false, "Validate input files against the JSON schemas")
	explainCmd.Flags().BoolVarP(&explainVerbose, "verbose", "v", false, "Print each comparison")

	if err := explainCmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}
	if err := explainCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(explainCmd)
}

func runExplain(_ *cobra.Command, _ []string) error {
	if explainTopN < 2 {
		return fmt.Errorf("--top-n must be at least 2, got %d", explainTopN)
	}

	cfg, err := loadRubric(explainRubric, explainValidateSchema)
	if err != nil {
		return err
	}

	records, err := loadCandidates(explainCandidates, explainValidateSchema)
	if err != nil {
		return err
	}

	_, _, evidence, comparisons := explainTop(cfg, records, explainTopN)

	if explainVerbose {
		printer := observability.NewPrinter(os.Stdout)
		for i := range comparisons {
			printer.PrintComparison(&comparisons[i])
		}
	}

	artifact := pipeline.ExplanationsArtifact{Evidence: evidence, Comparisons: comparisons}
	if err := writeJSONFile(explainOutput, artifact); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully explained %d candidates with %d comparisons to %s\n", len(evidence), len(comparisons), explainOutput)
	return nil
}
