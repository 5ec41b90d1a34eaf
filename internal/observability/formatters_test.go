package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-ranker/internal/types"
)

func TestPrintRankings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	ranked := make([]types.RankedCandidate, 0, 7)
	for i := 1; i <= 7; i++ {
		ranked = append(ranked, types.RankedCandidate{
			Rank:        i,
			CandidateID: "c" + string(rune('0'+i)),
			Name:        "Candidate " + string(rune('A'+i-1)),
			FinalScore:  1 - float64(i)/10,
			Grade:       types.GradeB,
		})
	}

	p.PrintRankings(ranked)
	output := buf.String()

	assert.Contains(t, output, "CANDIDATE RANKING")
	assert.Contains(t, output, "Candidates ranked: 7")
	assert.Contains(t, output, "#1  Candidate A (c1)")
	assert.Contains(t, output, "Score: 0.9000  Grade: B")
	assert.Contains(t, output, "#5  Candidate E")
	assert.NotContains(t, output, "#6")
	assert.Contains(t, output, "... and 2 more candidates")
}

func TestPrintRankings_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRankings(nil)
	assert.Empty(t, buf.String())
}

func TestPrintCandidateScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	score := &types.CandidateScore{
		CandidateID:    "bob",
		Name:           "Bob",
		FinalScore:     0.4843,
		Grade:          types.GradeD,
		MissingPenalty: 0.0133,
		Components: types.ComponentResults{
			Education: types.EducationScore{WeightedScore: 0.6275},
			Coherence: types.CoherenceScore{
				WeightedScore: 0.85,
				Issues: []types.CoherenceIssue{
					{Description: "Employment gap of 24 months"},
				},
			},
		},
	}

	p.PrintCandidateScore(score)
	output := buf.String()

	assert.Contains(t, output, "CANDIDATE SCORE")
	assert.Contains(t, output, "Final:     0.4843 (D)")
	assert.Contains(t, output, "education     0.6275")
	assert.Contains(t, output, "Missing-value penalty: 0.0133")
	assert.Contains(t, output, "Employment gap of 24 months")

	buf.Reset()
	p.PrintCandidateScore(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRankingMetrics(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRankingMetrics(&types.RankingMetricsResult{
		NumCandidates:    3,
		KendallTau:       &types.KendallTau{Tau: 1, PValue: 0.3333},
		SpearmanRho:      &types.SpearmanRho{Rho: 1},
		PairwiseAccuracy: &types.PairwiseAccuracy{Accuracy: 1, CorrectPairs: 3, TotalPairs: 3},
		NDCG:             []types.NDCGAtK{{K: 3, NDCG: 1}},
		Interpretation:   &types.RankingInterpretation{Summary: "Strong agreement"},
	})
	output := buf.String()

	assert.Contains(t, output, "Kendall tau:  1.0000 (p=0.3333)")
	assert.Contains(t, output, "Pairwise:     1.0000 (3/3 pairs)")
	assert.Contains(t, output, "nDCG@3")
	assert.Contains(t, output, "Strong agreement")
}

func TestPrintRankingMetrics_Error(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRankingMetrics(&types.RankingMetricsResult{
		Error:       "Insufficient common candidates for ranking evaluation",
		CommonCount: 1,
	})
	output := buf.String()

	assert.Contains(t, output, "│ Insufficient common candidates for ranking evaluation")
	assert.Contains(t, output, "│ Common candidates: 1")
	assert.NotContains(t, output, "...")
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintComparison(&types.Comparison{
		NameA:   "Alice",
		NameB:   "Bob",
		Summary: "Alice scores 0.3418 points higher than Bob",
		TopReasons: []types.Reason{
			{Rank: 1, Reason: "Alice has more publications (1 vs 0)", WeightedImpact: 0.1236},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "Alice vs Bob")
	assert.Contains(t, output, "1. Alice has more publications (1 vs 0)")
	assert.Contains(t, output, "impact +0.1236")
}

func TestPrintFaithfulness(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintFaithfulness(&types.GlobalFaithfulness{
		GlobalScore:    0.95,
		PassedChecks:   19,
		TotalChecks:    20,
		CheckPassRate:  0.95,
		Interpretation: "Highly faithful - explanations accurately reflect scoring",
		SampleIssues:   []string{"a", "b", "c", "d", "e", "f"},
	})
	output := buf.String()

	assert.Contains(t, output, "Checks passed: 19/20 (95.0%)")
	assert.Contains(t, output, "Highly faithful")
	assert.Contains(t, output, "... and 1 more")
}

func TestPrintAblationReport(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAblationReport(&types.AblationReport{
		Summary: "Conducted 1 ablation studies.",
		Comparisons: []types.AblationComparison{
			{Name: "Without Coherence", OverallImpact: -0.2, MetricsAvailable: 4},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "ABLATION STUDIES")
	assert.Contains(t, output, "Without Coherence")
	assert.Contains(t, output, "impact -0.2000 (4/4 metrics)")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	for _, line := range lines {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}
