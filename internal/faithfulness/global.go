package faithfulness

import (
	"fmt"
	"log/slog"

	"github.com/jonathan/resume-ranker/internal/types"
)

// maxSampleIssues bounds the issues repeated in the global report
const maxSampleIssues = 10

// VerifyAll verifies every comparison whose candidates both have scores and evidence, and
// aggregates the reports. Comparisons that cannot be matched to their candidates are skipped.
func (v *Verifier) VerifyAll(
	comparisons []types.Comparison,
	scores map[string]types.CandidateScore,
	evidence map[string]types.Evidence,
) ([]types.FaithfulnessReport, types.GlobalFaithfulness) {
	reports := make([]types.FaithfulnessReport, 0, len(comparisons))
	for _, cmp := range comparisons {
		a, okA := scores[cmp.CandidateA]
		b, okB := scores[cmp.CandidateB]
		if !okA || !okB {
			slog.Warn("skipping faithfulness check for unknown candidates",
				"candidate_a", cmp.CandidateA,
				"candidate_b", cmp.CandidateB,
			)
			continue
		}
		reports = append(reports, v.Verify(cmp, a, b, evidence[cmp.CandidateA], evidence[cmp.CandidateB]))
	}
	return reports, Aggregate(reports)
}

// Aggregate summarises many reports: mean score, check pass rate and a sample of issues
func Aggregate(reports []types.FaithfulnessReport) types.GlobalFaithfulness {
	global := types.GlobalFaithfulness{
		TotalComparisons: len(reports),
		Individual:       make([]types.FaithfulnessSummary, 0, len(reports)),
		SampleIssues:     []string{},
	}

	scoreTotal := 0.0
	for _, r := range reports {
		scoreTotal += r.FaithfulnessScore
		global.Individual = append(global.Individual, types.FaithfulnessSummary{
			Comparison: fmt.Sprintf("%s vs %s", r.CandidateA, r.CandidateB),
			Score:      r.FaithfulnessScore,
			Passed:     r.OverallFaithful,
			Issues:     r.Issues,
		})
		for _, c := range r.Checks {
			global.TotalChecks++
			if c.Passed {
				global.PassedChecks++
			}
		}
		global.TotalIssues += len(r.Issues)
		for _, issue := range r.Issues {
			if len(global.SampleIssues) < maxSampleIssues {
				global.SampleIssues = append(global.SampleIssues, issue)
			}
		}
	}
	global.FailedChecks = global.TotalChecks - global.PassedChecks

	mean := 0.0
	if len(reports) > 0 {
		mean = scoreTotal / float64(len(reports))
	}
	if global.TotalChecks > 0 {
		global.CheckPassRate = round(float64(global.PassedChecks)/float64(global.TotalChecks), 4)
	}
	global.GlobalScore = round(mean, 4)
	global.Interpretation = Interpret(mean)
	return global
}
