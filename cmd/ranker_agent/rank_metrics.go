package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-ranker/internal/candidates"
	"github.com/jonathan/resume-ranker/internal/observability"
	"github.com/jonathan/resume-ranker/internal/ranking"
	"github.com/spf13/cobra"
)

var rankMetricsCmd = &cobra.Command{
	Use:   "rank-metrics",
	Short: "Compare a system ranking against a reference ranking",
	Long: `Computes Kendall tau-b, Spearman rho, pairwise accuracy and nDCG@k between system scores and
reference scores over the candidates present in both. System scores may be a JSON object of numbers
or the output of the score command.`,
	RunE: runRankMetrics,
}

var (
	rankMetricsSystem    string
	rankMetricsReference string
	rankMetricsRubric    string
	rankMetricsOutput    string
	rankMetricsVerbose   bool
)

func init() {
	rankMetricsCmd.Flags().StringVarP(&rankMetricsSystem, "system", "s", "", "Path to system scores JSON file (required)")
	rankMetricsCmd.Flags().StringVarP(&rankMetricsReference, "reference", "R", "", "Path to reference scores JSON file (required)")
	rankMetricsCmd.Flags().StringVarP(&rankMetricsRubric, "rubric", "r", "", "Path to rubric file supplying ranking settings (optional)")
	rankMetricsCmd.Flags().StringVarP(&rankMetricsOutput, "out", "o", "", "Path to output RankingMetricsResult JSON file (required)")
	rankMetricsCmd.Flags().BoolVarP(&rankMetricsVerbose, "verbose", "v", false, "Print the metrics")

	if err := rankMetricsCmd.MarkFlagRequired("system"); err != nil {
		panic(fmt.Sprintf("failed to mark system flag as required: %v", err))
	}
	if err := rankMetricsCmd.MarkFlagRequired("reference"); err != nil {
		panic(fmt.Sprintf("failed to mark reference flag as required: %v", err))
	}
	if err := rankMetricsCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(rankMetricsCmd)
}

func runRankMetrics(_ *cobra.Command, _ []string) error {
	cfg, err := loadRubric(rankMetricsRubric, false)
	if err != nil {
		return err
	}

	system, err := loadSystemScores(rankMetricsSystem)
	if err != nil {
		return err
	}

	reference, err := candidates.LoadReferenceScores(rankMetricsReference)
	if err != nil {
		return fmt.Errorf("failed to load reference scores: %w", err)
	}

	result := ranking.NewEvaluator(cfg.Ranking).Evaluate(system, reference)

	if rankMetricsVerbose {
		observability.NewPrinter(os.Stdout).PrintRankingMetrics(&result)
	}

	if err := writeJSONFile(rankMetricsOutput, result); err != nil {
		return err
	}

	if !result.OK() {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s (common: %d)\n", result.Error, result.CommonCount)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Successfully computed ranking metrics for %d candidates to %s\n", result.CommonCount, rankMetricsOutput)
	return nil
}
