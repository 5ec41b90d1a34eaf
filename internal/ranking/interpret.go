package ranking

import "github.com/jonathan/resume-ranker/internal/types"

// Overall interpretation summaries
const (
	SummaryGood  = "Overall good ranking performance"
	SummaryPoor  = "Ranking performance needs improvement"
	SummaryMixed = "Mixed ranking performance"
)

// Strength and weakness thresholds for the overall interpretation
const (
	strongMetric = 0.7
	weakMetric   = 0.5
	highPairwise = 0.85
	lowPairwise  = 0.7
	highMeanNDCG = 0.85
	lowMeanNDCG  = 0.7
)

// bucket maps a value to the label of the first threshold it reaches
type bucket struct {
	min   float64
	label string
}

func classify(v float64, buckets []bucket, fallback string) string {
	for _, b := range buckets {
		if v >= b.min {
			return b.label
		}
	}
	return fallback
}

var tauBuckets = []bucket{
	{0.9, "Excellent agreement"},
	{0.7, "Strong agreement"},
	{0.5, "Moderate agreement"},
	{0.3, "Weak agreement"},
	{0, "Very weak or no agreement"},
}

var rhoBuckets = []bucket{
	{0.9, "Very strong positive correlation"},
	{0.7, "Strong positive correlation"},
	{0.5, "Moderate positive correlation"},
	{0.3, "Weak positive correlation"},
	{0, "Very weak or no correlation"},
}

var pairwiseBuckets = []bucket{
	{0.95, "Excellent pairwise agreement"},
	{0.85, "Very good pairwise agreement"},
	{0.75, "Good pairwise agreement"},
	{0.65, "Moderate pairwise agreement"},
	{0.5, "Fair pairwise agreement"},
}

var ndcgBuckets = []bucket{
	{0.95, "Excellent ranking quality"},
	{0.85, "Very good ranking quality"},
	{0.75, "Good ranking quality"},
	{0.65, "Moderate ranking quality"},
	{0.5, "Fair ranking quality"},
}

// InterpretTau labels a Kendall's tau value
func InterpretTau(tau float64) string {
	return classify(tau, tauBuckets, "Negative correlation (disagreement)")
}

// InterpretRho labels a Spearman's rho value
func InterpretRho(rho float64) string {
	return classify(rho, rhoBuckets, "Negative correlation")
}

// InterpretPairwise labels a pairwise accuracy
func InterpretPairwise(accuracy float64) string {
	return classify(accuracy, pairwiseBuckets, "Poor pairwise agreement")
}

// InterpretNDCG labels an nDCG value
func InterpretNDCG(ndcg float64) string {
	return classify(ndcg, ndcgBuckets, "Poor ranking quality")
}

// interpretOverall lists strengths and weaknesses across the metrics and summarises which side wins
func interpretOverall(r types.RankingMetricsResult) types.RankingInterpretation {
	out := types.RankingInterpretation{
		Strengths:  []string{},
		Weaknesses: []string{},
	}

	if r.KendallTau != nil {
		switch {
		case r.KendallTau.Tau >= strongMetric:
			out.Strengths = append(out.Strengths, "Strong rank correlation (Kendall's tau)")
		case r.KendallTau.Tau < weakMetric:
			out.Weaknesses = append(out.Weaknesses, "Weak rank correlation (Kendall's tau)")
		}
	}
	if r.SpearmanRho != nil {
		switch {
		case r.SpearmanRho.Rho >= strongMetric:
			out.Strengths = append(out.Strengths, "Strong monotonic relationship (Spearman's rho)")
		case r.SpearmanRho.Rho < weakMetric:
			out.Weaknesses = append(out.Weaknesses, "Weak monotonic relationship (Spearman's rho)")
		}
	}
	if r.PairwiseAccuracy != nil && r.PairwiseAccuracy.TotalPairs > 0 {
		switch {
		case r.PairwiseAccuracy.Accuracy >= highPairwise:
			out.Strengths = append(out.Strengths, "High pairwise ranking accuracy")
		case r.PairwiseAccuracy.Accuracy < lowPairwise:
			out.Weaknesses = append(out.Weaknesses, "Low pairwise ranking accuracy")
		}
	}
	if mean, ok := r.MeanNDCG(); ok {
		switch {
		case mean >= highMeanNDCG:
			out.Strengths = append(out.Strengths, "High nDCG scores across all k values")
		case mean < lowMeanNDCG:
			out.Weaknesses = append(out.Weaknesses, "Low nDCG scores")
		}
	}

	switch {
	case len(out.Strengths) > len(out.Weaknesses):
		out.Summary = SummaryGood
	case len(out.Weaknesses) > len(out.Strengths):
		out.Summary = SummaryPoor
	default:
		out.Summary = SummaryMixed
	}
	return out
}
