// Package ranking compares a system score mapping with a reference score mapping using
// rank correlation (Kendall's tau-b, Spearman's rho), pairwise ordering accuracy and nDCG@k.
package ranking

import (
	"log/slog"
	"math"
	"sort"

	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/types"
)

// ErrInsufficientCandidates is the result error when fewer than two candidates are common to both mappings
const ErrInsufficientCandidates = "Insufficient common candidates for ranking evaluation"

// minCandidates is the smallest candidate set rank statistics are defined for
const minCandidates = 2

// Evaluator computes ranking metrics under one set of ranking settings
type Evaluator struct {
	settings rubric.RankingSettings
}

// NewEvaluator creates an Evaluator
func NewEvaluator(settings rubric.RankingSettings) *Evaluator {
	s := settings
	s.NDCGKValues = append([]int(nil), settings.NDCGKValues...)
	return &Evaluator{settings: s}
}

// aligned holds the two score sequences over the common candidates, ordered by candidate id
type aligned struct {
	ids       []string
	system    []float64
	reference []float64
}

// align intersects the two mappings. Sorting the ids makes every metric independent of map iteration order.
func align(system, reference map[string]float64) aligned {
	ids := make([]string, 0, len(system))
	for id := range system {
		if _, ok := reference[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	a := aligned{
		ids:       ids,
		system:    make([]float64, len(ids)),
		reference: make([]float64, len(ids)),
	}
	for i, id := range ids {
		a.system[i] = system[id]
		a.reference[i] = reference[id]
	}
	return a
}

// Evaluate computes every ranking metric. Fewer than two common candidates produce a result
// with Error set rather than a Go error, so reports can still be written.
func (e *Evaluator) Evaluate(system, reference map[string]float64) types.RankingMetricsResult {
	data := align(system, reference)
	n := len(data.ids)
	if n < minCandidates {
		slog.Warn("ranking evaluation skipped", "common_candidates", n)
		return types.RankingMetricsResult{
			Error:       ErrInsufficientCandidates,
			CommonCount: n,
		}
	}

	result := types.RankingMetricsResult{
		NumCandidates: n,
		CandidateIDs:  data.ids,
		CommonCount:   n,
	}

	tau, tauP := kendallTauB(data.system, data.reference)
	result.KendallTau = &types.KendallTau{
		Tau:            round(tau, 4),
		PValue:         round(tauP, 6),
		Significant:    tauP < e.settings.SignificanceLevel,
		Interpretation: InterpretTau(tau),
	}

	rho, rhoP := spearmanRho(data.system, data.reference)
	result.SpearmanRho = &types.SpearmanRho{
		Rho:            round(rho, 4),
		PValue:         round(rhoP, 6),
		Significant:    rhoP < e.settings.SignificanceLevel,
		Interpretation: InterpretRho(rho),
	}

	pairwise := pairwiseAccuracy(data, e.settings.PairwiseThreshold)
	result.PairwiseAccuracy = &pairwise

	for _, k := range e.settings.NDCGKValues {
		if k > n {
			result.SkippedK = append(result.SkippedK, k)
			continue
		}
		result.NDCG = append(result.NDCG, ndcgAtK(data, k))
	}

	interpretation := interpretOverall(result)
	result.Interpretation = &interpretation

	slog.Debug("ranking metrics computed",
		"candidates", n,
		"kendall_tau", result.KendallTau.Tau,
		"spearman_rho", result.SpearmanRho.Rho,
		"pairwise_accuracy", pairwise.Accuracy,
	)
	return result
}

// round rounds to the given number of decimals
func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
