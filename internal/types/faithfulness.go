// Package types provides type definitions for structured data used throughout the resume-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CheckName identifies one faithfulness check
type CheckName string

const (
	CheckScoreDelta         CheckName = "score_delta_verification"
	CheckComponentDeltas    CheckName = "component_deltas_verification"
	CheckTopReasons         CheckName = "top_reasons_verification"
	CheckEvidence           CheckName = "evidence_correspondence_verification"
	CheckRankingConsistency CheckName = "ranking_consistency_verification"
)

// FaithfulnessCheck is the outcome of one check
type FaithfulnessCheck struct {
	Check    CheckName `json:"check"`
	Passed   bool      `json:"passed"`
	Weight   float64   `json:"weight"`
	Advisory bool      `json:"advisory,omitempty"`
	// Diagnostic describes what was compared, whether or not the check passed
	Diagnostic string   `json:"diagnostic"`
	Issue      string   `json:"issue,omitempty"`
	Details    []string `json:"details,omitempty"`
}

// FaithfulnessReport is the verification result for one comparison
type FaithfulnessReport struct {
	CandidateA        string              `json:"candidate_a"`
	CandidateB        string              `json:"candidate_b"`
	Checks            []FaithfulnessCheck `json:"checks"`
	Issues            []string            `json:"issues"`
	FaithfulnessScore float64             `json:"faithfulness_score"`
	OverallFaithful   bool                `json:"overall_faithful"`
	Interpretation    string              `json:"interpretation"`
}

// FaithfulnessSummary is one row of the global aggregate
type FaithfulnessSummary struct {
	Comparison string   `json:"comparison"`
	Score      float64  `json:"score"`
	Passed     bool     `json:"passed"`
	Issues     []string `json:"issues"`
}

// GlobalFaithfulness aggregates many faithfulness reports
type GlobalFaithfulness struct {
	GlobalScore      float64               `json:"global_faithfulness_score"`
	CheckPassRate    float64               `json:"check_pass_rate"`
	TotalComparisons int                   `json:"total_comparisons"`
	TotalChecks      int                   `json:"total_checks"`
	PassedChecks     int                   `json:"passed_checks"`
	FailedChecks     int                   `json:"failed_checks"`
	TotalIssues      int                   `json:"total_issues"`
	Individual       []FaithfulnessSummary `json:"individual_scores"`
	SampleIssues     []string              `json:"sample_issues"`
	Interpretation   string                `json:"interpretation"`
}
