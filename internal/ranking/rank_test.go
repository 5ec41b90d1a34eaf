package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ranker/internal/rubric"
)

func evaluatorWithK(k ...int) *Evaluator {
	settings := rubric.Default().Ranking
	settings.NDCGKValues = k
	return NewEvaluator(settings)
}

func TestEvaluate_NDCGAtOne(t *testing.T) {
	e := evaluatorWithK(1)

	agree := e.Evaluate(map[string]float64{"A": 0.9, "B": 0.5}, map[string]float64{"A": 0.8, "B": 0.6})
	require.True(t, agree.OK())
	require.Len(t, agree.NDCG, 1)
	assert.Equal(t, 1.0, agree.NDCG[0].NDCG)
	assert.Equal(t, "A", agree.NDCG[0].TopK[0].Candidate)
	assert.Equal(t, 1, agree.NDCG[0].TopK[0].IdealRank)

	disagree := e.Evaluate(map[string]float64{"A": 0.5, "B": 0.9}, map[string]float64{"A": 0.8, "B": 0.6})
	require.Len(t, disagree.NDCG, 1)
	assert.Less(t, disagree.NDCG[0].NDCG, 1.0)
	assert.Equal(t, 0.75, disagree.NDCG[0].NDCG)
	assert.Equal(t, 2, disagree.NDCG[0].TopK[0].IdealRank)
}

func TestEvaluate_PairwiseAccuracyExample(t *testing.T) {
	e := evaluatorWithK(3)

	result := e.Evaluate(
		map[string]float64{"A": 0.85, "B": 0.72, "C": 0.68},
		map[string]float64{"A": 0.90, "B": 0.70, "C": 0.65},
	)

	require.NotNil(t, result.PairwiseAccuracy)
	assert.Equal(t, 1.0, result.PairwiseAccuracy.Accuracy)
	assert.Equal(t, 3, result.PairwiseAccuracy.CorrectPairs)
	assert.Equal(t, 3, result.PairwiseAccuracy.TotalPairs)
	assert.Equal(t, 0, result.PairwiseAccuracy.SkippedPairs)
	assert.Empty(t, result.PairwiseAccuracy.SampleDisagreements)
	assert.Equal(t, "Excellent pairwise agreement", result.PairwiseAccuracy.Interpretation)
}

func TestEvaluate_PairwiseSkipsNearTies(t *testing.T) {
	e := evaluatorWithK()

	result := e.Evaluate(
		map[string]float64{"A": 0.2, "B": 0.9, "C": 0.1},
		map[string]float64{"A": 0.50, "B": 0.48, "C": 0.10},
	)

	require.NotNil(t, result.PairwiseAccuracy)
	assert.Equal(t, 1, result.PairwiseAccuracy.SkippedPairs)
	assert.Equal(t, 2, result.PairwiseAccuracy.TotalPairs)
	assert.Equal(t, 2, result.PairwiseAccuracy.CorrectPairs)
}

func TestEvaluate_SampleDisagreementsCapped(t *testing.T) {
	e := evaluatorWithK()

	system := map[string]float64{"a": 0.1, "b": 0.2, "c": 0.3, "d": 0.4, "e": 0.5}
	reference := map[string]float64{"a": 0.9, "b": 0.7, "c": 0.5, "d": 0.3, "e": 0.1}
	result := e.Evaluate(system, reference)

	p := result.PairwiseAccuracy
	require.NotNil(t, p)
	assert.Equal(t, 0.0, p.Accuracy)
	assert.Equal(t, 10, p.IncorrectPairs)
	assert.Len(t, p.SampleDisagreements, 5)
	first := p.SampleDisagreements[0]
	assert.Equal(t, "a", first.Candidate1)
	assert.Equal(t, "b", first.Candidate2)
	assert.Equal(t, "a", first.ReferenceWinner)
	assert.Equal(t, "b", first.SystemWinner)
	assert.Equal(t, "Poor pairwise agreement", p.Interpretation)

	assert.Equal(t, -1.0, result.KendallTau.Tau)
	assert.Equal(t, -1.0, result.SpearmanRho.Rho)
	assert.Equal(t, "Negative correlation (disagreement)", result.KendallTau.Interpretation)
	assert.Equal(t, "Negative correlation", result.SpearmanRho.Interpretation)
	assert.Equal(t, SummaryPoor, result.Interpretation.Summary)
}

func TestEvaluate_InsufficientCandidates(t *testing.T) {
	e := evaluatorWithK(3)

	result := e.Evaluate(map[string]float64{"A": 0.9, "B": 0.4}, map[string]float64{"A": 0.8, "C": 0.3})

	assert.False(t, result.OK())
	assert.Equal(t, ErrInsufficientCandidates, result.Error)
	assert.Equal(t, 1, result.CommonCount)
	assert.Nil(t, result.KendallTau)
	assert.Nil(t, result.Interpretation)
}

func TestEvaluate_PerfectAgreement(t *testing.T) {
	e := evaluatorWithK(3, 5, 10)
	scores := map[string]float64{"a": 0.9, "b": 0.7, "c": 0.5, "d": 0.3, "e": 0.1}

	result := e.Evaluate(scores, scores)

	assert.Equal(t, 5, result.NumCandidates)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, result.CandidateIDs)
	assert.Equal(t, 1.0, result.KendallTau.Tau)
	assert.InDelta(t, 2.0/120.0, result.KendallTau.PValue, 1e-6)
	assert.True(t, result.KendallTau.Significant)
	assert.Equal(t, 1.0, result.SpearmanRho.Rho)
	assert.Equal(t, 0.0, result.SpearmanRho.PValue)
	assert.True(t, result.SpearmanRho.Significant)
	require.Len(t, result.NDCG, 2)
	assert.Equal(t, 3, result.NDCG[0].K)
	assert.Equal(t, 5, result.NDCG[1].K)
	assert.Equal(t, []int{10}, result.SkippedK)
	for _, n := range result.NDCG {
		assert.Equal(t, 1.0, n.NDCG)
		assert.Equal(t, "Excellent ranking quality", n.Interpretation)
	}
	assert.Equal(t, SummaryGood, result.Interpretation.Summary)
	assert.Len(t, result.Interpretation.Strengths, 4)
	assert.Empty(t, result.Interpretation.Weaknesses)
}

func TestEvaluate_OrderIndependence(t *testing.T) {
	e := evaluatorWithK(2, 4)
	ids := []string{"k1", "k2", "k3", "k4", "k5", "k6"}
	sys := []float64{0.61, 0.32, 0.61, 0.15, 0.77, 0.48}
	ref := []float64{0.55, 0.40, 0.70, 0.10, 0.65, 0.40}

	forward := make(map[string]float64)
	forwardRef := make(map[string]float64)
	for i, id := range ids {
		forward[id] = sys[i]
		forwardRef[id] = ref[i]
	}
	backward := make(map[string]float64)
	backwardRef := make(map[string]float64)
	for i := len(ids) - 1; i >= 0; i-- {
		backward[ids[i]] = sys[i]
		backwardRef[ids[i]] = ref[i]
	}

	first := e.Evaluate(forward, forwardRef)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Evaluate(backward, backwardRef))
	}
	assert.GreaterOrEqual(t, first.KendallTau.Tau, -1.0)
	assert.LessOrEqual(t, first.KendallTau.Tau, 1.0)
	assert.GreaterOrEqual(t, first.SpearmanRho.Rho, -1.0)
	assert.LessOrEqual(t, first.SpearmanRho.Rho, 1.0)
}

func TestKendallTauB(t *testing.T) {
	tau, p := kendallTauB([]float64{1, 2, 3, 4, 5}, []float64{2, 1, 4, 3, 5})
	assert.InDelta(t, 0.6, tau, 1e-9)
	assert.InDelta(t, 28.0/120.0, p, 1e-9)

	tau, _ = kendallTauB([]float64{1, 2, 3, 4}, []float64{1, 1, 2, 2})
	assert.InDelta(t, 0.816497, tau, 1e-6)

	tau, p = kendallTauB([]float64{1, 2, 3}, []float64{5, 5, 5})
	assert.Equal(t, 0.0, tau)
	assert.Equal(t, 1.0, p)
}

func TestKendallExactP(t *testing.T) {
	assert.InDelta(t, 2.0/24.0, kendallExactP(4, 0), 1e-12)
	assert.InDelta(t, 2.0/24.0, kendallExactP(4, 6), 1e-12)
	assert.InDelta(t, 1.0, kendallExactP(3, 1), 1e-12)
	assert.InDelta(t, 1.0, kendallExactP(2, 0), 1e-12)
}

func TestSpearmanRho(t *testing.T) {
	rho, p := spearmanRho([]float64{1, 2, 3, 4, 5}, []float64{2, 1, 4, 3, 5})
	assert.InDelta(t, 0.8, rho, 1e-9)
	assert.InDelta(t, 0.1041, p, 1e-3)

	rho, _ = spearmanRho([]float64{1, 2, 3, 4}, []float64{1, 1, 2, 2})
	assert.InDelta(t, 0.894427, rho, 1e-6)

	rho, p = spearmanRho([]float64{0.3, 0.3}, []float64{0.1, 0.9})
	assert.Equal(t, 0.0, rho)
	assert.Equal(t, 1.0, p)
}

func TestAverageRanks(t *testing.T) {
	assert.Equal(t, []float64{1.5, 1.5, 3.5, 3.5}, averageRanks([]float64{1, 1, 2, 2}))
	assert.Equal(t, []float64{3, 1, 2}, averageRanks([]float64{0.9, 0.1, 0.5}))
}

func TestInterpretations(t *testing.T) {
	assert.Equal(t, "Excellent agreement", InterpretTau(0.95))
	assert.Equal(t, "Strong agreement", InterpretTau(0.7))
	assert.Equal(t, "Very weak or no agreement", InterpretTau(0))
	assert.Equal(t, "Very strong positive correlation", InterpretRho(0.9))
	assert.Equal(t, "Weak positive correlation", InterpretRho(0.35))
	assert.Equal(t, "Good pairwise agreement", InterpretPairwise(0.8))
	assert.Equal(t, "Fair pairwise agreement", InterpretPairwise(0.5))
	assert.Equal(t, "Moderate ranking quality", InterpretNDCG(0.7))
	assert.Equal(t, "Poor ranking quality", InterpretNDCG(0.2))
}
