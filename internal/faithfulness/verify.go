// Package faithfulness checks that a comparison says what the scores say. Every number and
// ordering in the comparison is recomputed from the candidates' actual scores, and every cited
// evidence span is looked up in the candidates' actual evidence.
package faithfulness

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/types"
)

// Tolerance is the absolute error allowed between a reported and a recomputed number
const Tolerance = 1e-4

// Check weights subtracted from the score when a check fails
const (
	weightScoreDelta         = 0.2
	weightComponentDeltas    = 0.2
	weightTopReasons         = 0.3
	weightEvidence           = 0.2
	weightRankingConsistency = 0.1
)

// maxReasons is the number of top reasons a comparison is expected to give
const maxReasons = 3

// Verifier checks comparisons produced under one rubric
type Verifier struct {
	weights rubric.Weights
}

// NewVerifier creates a Verifier that recomputes weighted deltas with the given component weights
func NewVerifier(weights rubric.Weights) *Verifier {
	return &Verifier{weights: weights}
}

// Verify runs the five checks on one comparison. scoreA/scoreB and evA/evB are the actual
// results for the comparison's candidates A and B. A failed check is recorded, never returned
// as an error.
func (v *Verifier) Verify(cmp types.Comparison, scoreA, scoreB types.CandidateScore, evA, evB types.Evidence) types.FaithfulnessReport {
	checks := []types.FaithfulnessCheck{
		v.checkScoreDelta(cmp, scoreA, scoreB),
		v.checkComponentDeltas(cmp, scoreA, scoreB),
		v.checkTopReasons(cmp, scoreA, scoreB),
		checkEvidence(cmp, evA, evB),
		checkRankingConsistency(cmp),
	}

	report := types.FaithfulnessReport{
		CandidateA:      cmp.CandidateA,
		CandidateB:      cmp.CandidateB,
		Checks:          checks,
		Issues:          []string{},
		OverallFaithful: true,
	}
	score := 1.0
	for _, c := range checks {
		if c.Passed {
			continue
		}
		score -= c.Weight
		report.Issues = append(report.Issues, c.Issue)
		if !c.Advisory {
			report.OverallFaithful = false
		}
	}
	report.FaithfulnessScore = round(math.Max(0, score), 4)
	report.Interpretation = Interpret(report.FaithfulnessScore)
	return report
}

// checkScoreDelta compares the reported final scores and their difference with the actual ones
func (v *Verifier) checkScoreDelta(cmp types.Comparison, a, b types.CandidateScore) types.FaithfulnessCheck {
	actualDelta := a.FinalScore - b.FinalScore
	passed := near(cmp.FinalScoreA, a.FinalScore) &&
		near(cmp.FinalScoreB, b.FinalScore) &&
		near(cmp.ScoreDelta, actualDelta)

	check := types.FaithfulnessCheck{
		Check:      types.CheckScoreDelta,
		Passed:     passed,
		Weight:     weightScoreDelta,
		Diagnostic: fmt.Sprintf("reported delta %.4f, actual delta %.4f", cmp.ScoreDelta, actualDelta),
	}
	if !passed {
		check.Issue = fmt.Sprintf("Score delta mismatch: reported %.4f, actual %.4f", cmp.ScoreDelta, actualDelta)
	}
	return check
}

// checkComponentDeltas recomputes every component delta and its weighted form. A component
// missing from the comparison counts as a mismatch.
func (v *Verifier) checkComponentDeltas(cmp types.Comparison, a, b types.CandidateScore) types.FaithfulnessCheck {
	var details []string
	seen := make(map[types.Component]bool, len(cmp.ComponentDeltas))

	for _, d := range cmp.ComponentDeltas {
		seen[d.Component] = true
		actual := a.ComponentScore(d.Component) - b.ComponentScore(d.Component)
		actualWeighted := actual * v.weights.Of(d.Component)
		if !near(d.Delta, actual) {
			details = append(details, fmt.Sprintf("%s: delta mismatch (reported %.4f, actual %.4f)", d.Component, d.Delta, actual))
		}
		if !near(d.WeightedDelta, actualWeighted) {
			details = append(details, fmt.Sprintf("%s: weighted delta mismatch (reported %.4f, actual %.4f)", d.Component, d.WeightedDelta, actualWeighted))
		}
	}
	for _, c := range types.Components {
		if !seen[c] {
			details = append(details, fmt.Sprintf("%s: delta not reported", c))
		}
	}

	check := types.FaithfulnessCheck{
		Check:      types.CheckComponentDeltas,
		Passed:     len(details) == 0,
		Weight:     weightComponentDeltas,
		Diagnostic: fmt.Sprintf("checked %d component deltas, %d mismatches", len(cmp.ComponentDeltas), len(details)),
		Details:    details,
	}
	if !check.Passed {
		check.Issue = fmt.Sprintf("Found %d component delta mismatches", len(details))
	}
	return check
}

// checkTopReasons ranks the actual weighted deltas by magnitude and requires the reported
// reasons to follow that ranking. Components whose magnitudes tie within tolerance may appear
// in either order.
func (v *Verifier) checkTopReasons(cmp types.Comparison, a, b types.CandidateScore) types.FaithfulnessCheck {
	check := types.FaithfulnessCheck{
		Check:  types.CheckTopReasons,
		Weight: weightTopReasons,
	}

	impact := make(map[types.Component]float64, len(types.Components))
	magnitudes := make([]float64, 0, len(types.Components))
	for _, c := range types.Components {
		w := math.Abs((a.ComponentScore(c) - b.ComponentScore(c)) * v.weights.Of(c))
		impact[c] = w
		magnitudes = append(magnitudes, w)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(magnitudes)))

	want := min(maxReasons, len(types.Components))
	if len(cmp.TopReasons) != want {
		check.Diagnostic = fmt.Sprintf("expected %d reasons, got %d", want, len(cmp.TopReasons))
		check.Issue = "Missing top reasons or component deltas"
		return check
	}

	var details []string
	for i, r := range cmp.TopReasons {
		got, ok := impact[r.Component]
		if !ok {
			details = append(details, fmt.Sprintf("rank %d: unknown component %q", i+1, r.Component))
			continue
		}
		if !near(got, magnitudes[i]) {
			details = append(details, fmt.Sprintf("rank %d: %s has impact %.4f, expected %.4f", i+1, r.Component, got, magnitudes[i]))
		}
	}
	for i, r := range cmp.TopReasons {
		for _, other := range cmp.TopReasons[i+1:] {
			if other.Component == r.Component {
				details = append(details, fmt.Sprintf("%s cited more than once", r.Component))
			}
		}
	}

	check.Passed = len(details) == 0
	check.Details = details
	check.Diagnostic = fmt.Sprintf("checked %d reasons against actual weighted impacts", len(cmp.TopReasons))
	if !check.Passed {
		check.Issue = fmt.Sprintf("Top reasons do not match largest weighted impacts: %d mismatches", len(details))
	}
	return check
}

// checkEvidence looks up every cited span in the candidate's actual spans for that component.
// The no-evidence marker is only accepted when the candidate really has no spans there.
// This check is advisory: it lowers the score but does not make the comparison unfaithful.
func checkEvidence(cmp types.Comparison, evA, evB types.Evidence) types.FaithfulnessCheck {
	var details []string
	total := 0
	for _, r := range cmp.TopReasons {
		for _, cited := range r.EvidenceA {
			total++
			if !evidenceExists(cited, evA.Spans(r.Component)) {
				details = append(details, fmt.Sprintf("A/%s: %q not found in actual evidence", r.Component, cited))
			}
		}
		for _, cited := range r.EvidenceB {
			total++
			if !evidenceExists(cited, evB.Spans(r.Component)) {
				details = append(details, fmt.Sprintf("B/%s: %q not found in actual evidence", r.Component, cited))
			}
		}
	}

	check := types.FaithfulnessCheck{
		Check:      types.CheckEvidence,
		Passed:     len(details) == 0,
		Weight:     weightEvidence,
		Advisory:   true,
		Diagnostic: fmt.Sprintf("checked %d cited evidence items, %d not found", total, len(details)),
		Details:    details,
	}
	if !check.Passed {
		check.Issue = fmt.Sprintf("%d cited evidence items not found in actual evidence", len(details))
	}
	return check
}

func evidenceExists(cited string, spans []string) bool {
	if cited == types.NoEvidence {
		return len(spans) == 0
	}
	for _, span := range spans {
		if cited == span || strings.Contains(span, cited) || strings.Contains(cited, span) {
			return true
		}
	}
	return false
}

// checkRankingConsistency requires the sign of the delta to agree with the reported final
// scores. Deltas within tolerance of zero are consistent with anything.
func checkRankingConsistency(cmp types.Comparison) types.FaithfulnessCheck {
	var passed bool
	switch {
	case math.Abs(cmp.ScoreDelta) < Tolerance:
		passed = true
	case cmp.ScoreDelta > 0:
		passed = cmp.FinalScoreA > cmp.FinalScoreB
	default:
		passed = cmp.FinalScoreB > cmp.FinalScoreA
	}

	check := types.FaithfulnessCheck{
		Check:      types.CheckRankingConsistency,
		Passed:     passed,
		Weight:     weightRankingConsistency,
		Diagnostic: fmt.Sprintf("score_a %.4f, score_b %.4f, delta %.4f", cmp.FinalScoreA, cmp.FinalScoreB, cmp.ScoreDelta),
	}
	if !passed {
		check.Issue = "Ranking inconsistent with scores"
	}
	return check
}

// Interpret labels a faithfulness score
func Interpret(score float64) string {
	switch {
	case score >= 0.95:
		return "Highly faithful - explanations accurately reflect scoring"
	case score >= 0.85:
		return "Faithful - minor discrepancies only"
	case score >= 0.70:
		return "Moderately faithful - some issues detected"
	case score >= 0.50:
		return "Somewhat faithful - multiple issues detected"
	default:
		return "Unfaithful - significant discrepancies in explanations"
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
