// Package types provides type definitions for structured data used throughout the resume-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// KendallTau is Kendall's tau-b between the system and reference rankings
type KendallTau struct {
	Tau            float64 `json:"tau"`
	PValue         float64 `json:"p_value"`
	Significant    bool    `json:"significant"`
	Interpretation string  `json:"interpretation"`
}

// SpearmanRho is Spearman's rank correlation between the system and reference rankings
type SpearmanRho struct {
	Rho            float64 `json:"rho"`
	PValue         float64 `json:"p_value"`
	Significant    bool    `json:"significant"`
	Interpretation string  `json:"interpretation"`
}

// PairDisagreement records a candidate pair the system orders differently from the reference
type PairDisagreement struct {
	Candidate1      string     `json:"candidate_1"`
	Candidate2      string     `json:"candidate_2"`
	ReferenceScores [2]float64 `json:"reference_scores"`
	SystemScores    [2]float64 `json:"system_scores"`
	ReferenceWinner string     `json:"reference_winner"`
	SystemWinner    string     `json:"system_winner"`
}

// PairwiseAccuracy is the share of non-tied reference pairs the system orders correctly
type PairwiseAccuracy struct {
	Accuracy            float64            `json:"accuracy"`
	CorrectPairs        int                `json:"correct_pairs"`
	TotalPairs          int                `json:"total_pairs"`
	IncorrectPairs      int                `json:"incorrect_pairs"`
	SkippedPairs        int                `json:"skipped_pairs"`
	Threshold           float64            `json:"threshold"`
	SampleDisagreements []PairDisagreement `json:"sample_disagreements"`
	Interpretation      string             `json:"interpretation"`
}

// RankedEntry is one row of an nDCG top-k listing
type RankedEntry struct {
	Rank           int     `json:"rank"`
	Candidate      string  `json:"candidate"`
	SystemScore    float64 `json:"system_score"`
	ReferenceScore float64 `json:"reference_score"`
	IdealRank      int     `json:"ideal_rank"`
}

// NDCGAtK is the normalized discounted cumulative gain at one cutoff
type NDCGAtK struct {
	K              int           `json:"k"`
	NDCG           float64       `json:"ndcg"`
	DCG            float64       `json:"dcg"`
	IDCG           float64       `json:"idcg"`
	TopK           []RankedEntry `json:"top_k_ranking"`
	Interpretation string        `json:"interpretation"`
}

// RankingInterpretation summarises all ranking metrics together
type RankingInterpretation struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// RankingMetricsResult compares a system score mapping to a reference score mapping.
// When fewer than two candidates are common to both mappings, Error is set and only
// CommonCount is meaningful.
type RankingMetricsResult struct {
	NumCandidates    int                    `json:"num_candidates"`
	CandidateIDs     []string               `json:"candidate_ids"`
	KendallTau       *KendallTau            `json:"kendall_tau,omitempty"`
	SpearmanRho      *SpearmanRho           `json:"spearman_rho,omitempty"`
	PairwiseAccuracy *PairwiseAccuracy      `json:"pairwise_accuracy,omitempty"`
	NDCG             []NDCGAtK              `json:"ndcg,omitempty"`
	SkippedK         []int                  `json:"skipped_k,omitempty"`
	Interpretation   *RankingInterpretation `json:"interpretation,omitempty"`
	Error            string                 `json:"error,omitempty"`
	CommonCount      int                    `json:"common_count"`
}

// OK reports whether the metrics were computed
func (r RankingMetricsResult) OK() bool {
	return r.Error == ""
}

// MeanNDCG averages nDCG across all computed cutoffs. The boolean is false when none were computed.
func (r RankingMetricsResult) MeanNDCG() (float64, bool) {
	if len(r.NDCG) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, n := range r.NDCG {
		sum += n.NDCG
	}
	return sum / float64(len(r.NDCG)), true
}
