package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-ranker/internal/observability"
	"github.com/jonathan/resume-ranker/internal/scoring"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidate records under a rubric",
	Long:  "Scores every candidate record on education, experience, publications, coherence and awards, writing a JSON object of CandidateScore keyed by candidate.",
	RunE:  runScore,
}

var (
	scoreCandidates     string
	scoreRubric         string
	scoreOutput         string
	scoreValidateSchema bool
	scoreVerbose        bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreCandidates, "candidates", "c", "", "Path to candidate records JSON file or directory (required)")
	scoreCmd.Flags().StringVarP(&scoreRubric, "rubric", "r", "", "Path to rubric file, JSON or YAML (defaults to RANKER_RUBRIC, then built-in defaults)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Path to output scores JSON file (required)")
	scoreCmd.Flags().BoolVar(&scoreValidateSchema, "validate-schema", false, "Validate input files against the JSON schemas")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print detailed score breakdowns")

	if err := scoreCmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}
	if err := scoreCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	cfg, err := loadRubric(scoreRubric, scoreValidateSchema)
	if err != nil {
		return err
	}

	records, err := loadCandidates(scoreCandidates, scoreValidateSchema)
	if err != nil {
		return err
	}

	scores := scoring.New(cfg).ScoreAll(records)

	if scoreVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintRankings(scoring.RankByScore(scores))
		for i := range scores {
			printer.PrintCandidateScore(&scores[i])
		}
	}

	if err := writeJSONFile(scoreOutput, scoring.Index(scores)); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully scored %d candidates to %s\n", len(scores), scoreOutput)
	return nil
}
