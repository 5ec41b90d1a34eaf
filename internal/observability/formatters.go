// Package observability provides formatted output for verbose CLI mode and Prometheus metrics
// for evaluation runs.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-ranker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. The box is written in one
// call so concurrent printers sharing a writer do not interleave lines.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	var sb strings.Builder
	fmt.Fprintf(&sb, "┌%s┐\n", border)
	fmt.Fprintf(&sb, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(&sb, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = truncate(line, boxWidth-4)
		fmt.Fprintf(&sb, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(&sb, "└%s┘\n", border)
	io.WriteString(p.out, sb.String())
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintRankings outputs the top candidates by final score.
func (p *Printer) PrintRankings(ranked []types.RankedCandidate) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates ranked: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := ranked[i]
		sb.WriteString(fmt.Sprintf("#%d  %s (%s)\n", r.Rank, r.Name, r.CandidateID))
		sb.WriteString(fmt.Sprintf("    Score: %.4f  Grade: %s\n", r.FinalScore, r.Grade))
	}

	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(ranked)-maxItemsToShow))
	}

	p.printBox("CANDIDATE RANKING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidateScore outputs one candidate's component breakdown.
func (p *Printer) PrintCandidateScore(score *types.CandidateScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", score.Name))
	sb.WriteString(fmt.Sprintf("Final:     %.4f (%s)\n\n", score.FinalScore, score.Grade))
	for _, c := range types.Components {
		sb.WriteString(fmt.Sprintf("  • %-13s %.4f\n", c, score.ComponentScore(c)))
	}
	if score.MissingPenalty > 0 {
		sb.WriteString(fmt.Sprintf("\nMissing-value penalty: %.4f\n", score.MissingPenalty))
	}
	if issues := score.Components.Coherence.Issues; len(issues) > 0 {
		sb.WriteString("\nCoherence issues:\n")
		count := min(len(issues), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", issues[i].Description))
		}
		if len(issues) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(issues)-3))
		}
	}

	p.printBox("CANDIDATE SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankingMetrics outputs agreement between the system and reference rankings.
func (p *Printer) PrintRankingMetrics(result *types.RankingMetricsResult) {
	if result == nil {
		return
	}
	if !result.OK() {
		p.printBox("RANKING METRICS", fmt.Sprintf("%s\nCommon candidates: %d", result.Error, result.CommonCount))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates compared: %d\n\n", result.NumCandidates))
	if result.KendallTau != nil {
		sb.WriteString(fmt.Sprintf("Kendall tau:  %.4f (p=%.4f)\n", result.KendallTau.Tau, result.KendallTau.PValue))
	}
	if result.SpearmanRho != nil {
		sb.WriteString(fmt.Sprintf("Spearman rho: %.4f (p=%.4f)\n", result.SpearmanRho.Rho, result.SpearmanRho.PValue))
	}
	if pa := result.PairwiseAccuracy; pa != nil {
		sb.WriteString(fmt.Sprintf("Pairwise:     %.4f (%d/%d pairs)\n", pa.Accuracy, pa.CorrectPairs, pa.TotalPairs))
	}
	for _, n := range result.NDCG {
		sb.WriteString(fmt.Sprintf("nDCG@%-2d      %.4f\n", n.K, n.NDCG))
	}
	if result.Interpretation != nil {
		sb.WriteString("\n" + result.Interpretation.Summary + "\n")
	}

	p.printBox("RANKING METRICS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparison outputs a pairwise explanation with its top reasons.
func (p *Printer) PrintComparison(cmp *types.Comparison) {
	if cmp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(cmp.Summary + "\n\n")
	for _, r := range cmp.TopReasons {
		sb.WriteString(fmt.Sprintf("%d. %s\n", r.Rank, r.Reason))
		sb.WriteString(fmt.Sprintf("   impact %+.4f\n", r.WeightedImpact))
	}

	p.printBox(fmt.Sprintf("%s vs %s", cmp.NameA, cmp.NameB), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFaithfulness outputs the aggregate faithfulness of generated explanations.
func (p *Printer) PrintFaithfulness(global *types.GlobalFaithfulness) {
	if global == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Global score:  %.4f\n", global.GlobalScore))
	sb.WriteString(fmt.Sprintf("Checks passed: %d/%d (%.1f%%)\n", global.PassedChecks, global.TotalChecks, global.CheckPassRate*100))
	sb.WriteString(global.Interpretation + "\n")

	if len(global.SampleIssues) > 0 {
		sb.WriteString("\nIssues:\n")
		count := min(len(global.SampleIssues), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", global.SampleIssues[i]))
		}
		if len(global.SampleIssues) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(global.SampleIssues)-maxItemsToShow))
		}
	}

	p.printBox("EXPLANATION FAITHFULNESS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAblationReport outputs ablations ordered by impact.
func (p *Printer) PrintAblationReport(report *types.AblationReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(report.Summary + "\n\n")

	count := min(len(report.Comparisons), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := report.Comparisons[i]
		sb.WriteString(fmt.Sprintf("• %s\n", c.Name))
		sb.WriteString(fmt.Sprintf("  impact %+.4f (%d/%d metrics)\n", c.OverallImpact, c.MetricsAvailable, len(types.HeadlineMetrics)))
	}
	if len(report.Comparisons) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more ablations", len(report.Comparisons)-maxItemsToShow))
	}

	p.printBox("ABLATION STUDIES", strings.TrimSuffix(sb.String(), "\n"))
}
