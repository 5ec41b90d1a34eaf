package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-ranker/internal/ablation"
	"github.com/spf13/cobra"
)

var ablationsCmd = &cobra.Command{
	Use:   "ablations",
	Short: "List the ablation catalogue",
	Long:  "Lists every ablation the ablate command understands. With --export-dir, writes the rubric of each ablation as config_<id>.json.",
	RunE:  runAblations,
}

var (
	ablationsRubric    string
	ablationsExportDir string
)

func init() {
	ablationsCmd.Flags().StringVarP(&ablationsRubric, "rubric", "r", "", "Path to baseline rubric file used for export (defaults to RANKER_RUBRIC, then built-in defaults)")
	ablationsCmd.Flags().StringVar(&ablationsExportDir, "export-dir", "", "Directory to export ablation rubrics into (optional)")

	rootCmd.AddCommand(ablationsCmd)
}

func runAblations(_ *cobra.Command, _ []string) error {
	for _, id := range ablation.Names() {
		spec, err := ablation.Lookup(id)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "%-22s %s: %s\n", spec.ID, spec.Name, spec.Description)
	}

	if ablationsExportDir == "" {
		return nil
	}

	cfg, err := loadRubric(ablationsRubric, false)
	if err != nil {
		return err
	}
	if err := ablation.NewEngine(cfg).Export(ablationsExportDir); err != nil {
		return fmt.Errorf("failed to export ablation configs: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully exported %d ablation configs to %s\n", len(ablation.Names()), ablationsExportDir)
	return nil
}
