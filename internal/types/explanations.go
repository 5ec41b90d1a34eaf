// Package types provides type definitions for structured data used throughout the resume-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// NoEvidence is cited in a reason when a candidate has nothing to show for a component
const NoEvidence = "No evidence available"

// ScoreDetail explains one sub-score of an evidence item
type ScoreDetail struct {
	Metric      string  `json:"metric"`
	Label       string  `json:"label,omitempty"`
	Score       float64 `json:"score"`
	Outcome     string  `json:"outcome"`
	Explanation string  `json:"explanation"`
}

// EvidenceItem links one resume entry to its scoring breakdown.
// An empty section is represented by a single item with Missing set.
type EvidenceItem struct {
	Index               int           `json:"index"`
	Span                string        `json:"evidence_span,omitempty"`
	Breakdown           []ScoreDetail `json:"scoring_breakdown,omitempty"`
	ContributionToTotal float64       `json:"contribution_to_total"`
	Missing             bool          `json:"missing,omitempty"`
	Explanation         string        `json:"explanation,omitempty"`
	Impact              string        `json:"impact,omitempty"`
}

// CoherenceEvidence explains the coherence score
type CoherenceEvidence struct {
	TimelineIssues    []CoherenceIssue `json:"timeline_consistency"`
	FieldAlignment    string           `json:"field_alignment"`
	CareerProgression bool             `json:"career_progression"`
	OverallScore      float64          `json:"overall_score"`
	Explanation       string           `json:"explanation"`
	Findings          []EvidenceItem   `json:"findings"`
}

// ScoreSummary repeats the headline numbers next to the evidence
type ScoreSummary struct {
	ComponentScores map[Component]float64 `json:"component_scores"`
	FinalScore      float64               `json:"final_score"`
	Grade           Grade                 `json:"grade"`
}

// Evidence is the full evidence set for one candidate
type Evidence struct {
	CandidateID   string            `json:"candidate_id"`
	CandidateName string            `json:"candidate_name"`
	Education     []EvidenceItem    `json:"education_evidence"`
	Experience    []EvidenceItem    `json:"experience_evidence"`
	Publications  []EvidenceItem    `json:"publications_evidence"`
	Awards        []EvidenceItem    `json:"awards_evidence"`
	Coherence     CoherenceEvidence `json:"coherence_evidence"`
	ScoreSummary  ScoreSummary      `json:"score_summary"`
}

// Items returns the evidence items for a component. Coherence returns its findings.
func (e Evidence) Items(c Component) []EvidenceItem {
	switch c {
	case ComponentEducation:
		return e.Education
	case ComponentExperience:
		return e.Experience
	case ComponentPublications:
		return e.Publications
	case ComponentAwards:
		return e.Awards
	case ComponentCoherence:
		return e.Coherence.Findings
	}
	return nil
}

// Spans returns the non-missing evidence spans for a component
func (e Evidence) Spans(c Component) []string {
	items := e.Items(c)
	spans := make([]string, 0, len(items))
	for _, item := range items {
		if item.Missing || item.Span == "" {
			continue
		}
		spans = append(spans, item.Span)
	}
	return spans
}

// ComponentDelta is the difference between two candidates on one component
type ComponentDelta struct {
	Component     Component `json:"component"`
	ScoreA        float64   `json:"score_a"`
	ScoreB        float64   `json:"score_b"`
	Delta         float64   `json:"delta"`
	WeightedDelta float64   `json:"weighted_delta"`
	Weight        float64   `json:"weight"`
}

// Reason is one of the top reasons a comparison gives for the score difference
type Reason struct {
	Rank           int       `json:"rank"`
	Component      Component `json:"component"`
	Delta          float64   `json:"delta"`
	WeightedImpact float64   `json:"weighted_impact"`
	Reason         string    `json:"reason"`
	EvidenceA      []string  `json:"evidence_a"`
	EvidenceB      []string  `json:"evidence_b"`
}

// Comparison explains why candidate A scores differently from candidate B
type Comparison struct {
	CandidateA      string           `json:"candidate_a"`
	CandidateB      string           `json:"candidate_b"`
	NameA           string           `json:"name_a"`
	NameB           string           `json:"name_b"`
	FinalScoreA     float64          `json:"final_score_a"`
	FinalScoreB     float64          `json:"final_score_b"`
	ScoreDelta      float64          `json:"score_delta"`
	GradeA          Grade            `json:"grade_a"`
	GradeB          Grade            `json:"grade_b"`
	Summary         string           `json:"summary"`
	ComponentDeltas []ComponentDelta `json:"component_deltas"`
	TopReasons      []Reason         `json:"top_3_reasons"`
}
