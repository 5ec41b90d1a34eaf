// Package types provides type definitions for structured data used throughout the resume-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Headline metric names extracted from a ranking result for ablation comparison
const (
	MetricKendallTau       = "kendall_tau"
	MetricSpearmanRho      = "spearman_rho"
	MetricPairwiseAccuracy = "pairwise_accuracy"
	MetricAvgNDCG          = "avg_ndcg"
)

// HeadlineMetrics lists the ablation headline metrics in reporting order
var HeadlineMetrics = []string{
	MetricKendallTau,
	MetricSpearmanRho,
	MetricPairwiseAccuracy,
	MetricAvgNDCG,
}

// AblationRun is the outcome of scoring and ranking under one configuration variant
type AblationRun struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	RunID          string               `json:"run_id"`
	Scores         map[string]float64   `json:"scores"`
	RankingMetrics RankingMetricsResult `json:"ranking_metrics"`
}

// Headline extracts the four headline metrics that are available in the run.
// Pairwise accuracy with no scoreable pairs counts as unavailable.
func (r AblationRun) Headline() map[string]float64 {
	out := make(map[string]float64, len(HeadlineMetrics))
	m := r.RankingMetrics
	if !m.OK() {
		return out
	}
	if m.KendallTau != nil {
		out[MetricKendallTau] = m.KendallTau.Tau
	}
	if m.SpearmanRho != nil {
		out[MetricSpearmanRho] = m.SpearmanRho.Rho
	}
	if m.PairwiseAccuracy != nil && m.PairwiseAccuracy.TotalPairs > 0 {
		out[MetricPairwiseAccuracy] = m.PairwiseAccuracy.Accuracy
	}
	if avg, ok := m.MeanNDCG(); ok {
		out[MetricAvgNDCG] = avg
	}
	return out
}

// MetricChange compares one headline metric against the baseline
type MetricChange struct {
	Baseline       float64 `json:"baseline"`
	Ablation       float64 `json:"ablation"`
	AbsoluteChange float64 `json:"absolute_change"`
	PercentChange  float64 `json:"percent_change"`
}

// AblationComparison is one ablation measured against the baseline
type AblationComparison struct {
	Ablation         string                  `json:"ablation"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description"`
	MetricChanges    map[string]MetricChange `json:"metric_changes"`
	MetricsAvailable int                     `json:"metrics_available"`
	Confidence       float64                 `json:"confidence"`
	OverallImpact    float64                 `json:"overall_impact"`
	Insights         []string                `json:"insights"`
}

// AblationReport is the comparative analysis across all ablations
type AblationReport struct {
	BaselineMetrics map[string]float64   `json:"baseline_metrics"`
	Comparisons     []AblationComparison `json:"ablation_comparisons"`
	Insights        []string             `json:"insights"`
	Summary         string               `json:"summary"`
}
