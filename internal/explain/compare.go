package explain

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/resume-ranker/internal/scoring"
	"github.com/jonathan/resume-ranker/internal/types"
)

const (
	// maxReasons is the number of components a comparison explains
	maxReasons = 3
	// maxEvidencePerSide bounds the spans cited per candidate per reason
	maxEvidencePerSide = 3
)

// Compare explains the score difference between a and b. Component deltas are ordered by
// absolute weighted delta, largest first; equal magnitudes keep canonical component order.
func (g *Generator) Compare(a, b types.CandidateScore, evA, evB types.Evidence) types.Comparison {
	deltas := ComponentDeltas(a, b, g.weights.Of)
	sideA := side{score: a, evidence: evA}
	sideB := side{score: b, evidence: evB}

	reasons := make([]types.Reason, 0, maxReasons)
	for i, d := range deltas {
		if i == maxReasons {
			break
		}
		reasons = append(reasons, types.Reason{
			Rank:           i + 1,
			Component:      d.Component,
			Delta:          d.Delta,
			WeightedImpact: d.WeightedDelta,
			Reason:         reasonFor(d.Component, sideA, sideB),
			EvidenceA:      keyEvidence(evA, d.Component),
			EvidenceB:      keyEvidence(evB, d.Component),
		})
	}

	delta := a.FinalScore - b.FinalScore
	return types.Comparison{
		CandidateA:      a.CandidateID,
		CandidateB:      b.CandidateID,
		NameA:           sideA.name(),
		NameB:           sideB.name(),
		FinalScoreA:     a.FinalScore,
		FinalScoreB:     b.FinalScore,
		ScoreDelta:      delta,
		GradeA:          a.Grade,
		GradeB:          b.Grade,
		Summary:         summary(sideA.name(), sideB.name(), delta),
		ComponentDeltas: deltas,
		TopReasons:      reasons,
	}
}

// ComponentDeltas computes per-component deltas of a over b, sorted by descending absolute
// weighted delta. The sort is stable over canonical component order.
func ComponentDeltas(a, b types.CandidateScore, weight func(types.Component) float64) []types.ComponentDelta {
	deltas := make([]types.ComponentDelta, 0, len(types.Components))
	for _, c := range types.Components {
		sa, sb := a.ComponentScore(c), b.ComponentScore(c)
		w := weight(c)
		deltas = append(deltas, types.ComponentDelta{
			Component:     c,
			ScoreA:        sa,
			ScoreB:        sb,
			Delta:         sa - sb,
			WeightedDelta: (sa - sb) * w,
			Weight:        w,
		})
	}
	sort.SliceStable(deltas, func(i, j int) bool {
		return math.Abs(deltas[i].WeightedDelta) > math.Abs(deltas[j].WeightedDelta)
	})
	return deltas
}

func summary(nameA, nameB string, delta float64) string {
	switch {
	case math.Abs(delta) < equalTolerance:
		return fmt.Sprintf("%s and %s have the same final score", nameA, nameB)
	case delta > 0:
		return fmt.Sprintf("%s scores %.4f points higher than %s", nameA, delta, nameB)
	default:
		return fmt.Sprintf("%s scores %.4f points lower than %s", nameA, -delta, nameB)
	}
}

// CompareTop compares every pair among the n best-ranked candidates, the higher-ranked
// candidate always on side A. Candidates without evidence are skipped.
func (g *Generator) CompareTop(scores []types.CandidateScore, evidence map[string]types.Evidence, n int) []types.Comparison {
	ranked := scoring.RankByScore(scores)
	if n < len(ranked) {
		ranked = ranked[:max(n, 0)]
	}
	byID := scoring.Index(scores)

	var out []types.Comparison
	for i := 0; i < len(ranked); i++ {
		a := byID[ranked[i].CandidateID]
		evA, ok := evidence[a.CandidateID]
		if !ok {
			continue
		}
		for j := i + 1; j < len(ranked); j++ {
			b := byID[ranked[j].CandidateID]
			evB, ok := evidence[b.CandidateID]
			if !ok {
				continue
			}
			out = append(out, g.Compare(a, b, evA, evB))
		}
	}
	if out == nil {
		out = []types.Comparison{}
	}
	return out
}
