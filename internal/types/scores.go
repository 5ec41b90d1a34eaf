// Package types provides type definitions for structured data used throughout the resume-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Component names one of the five rubric dimensions
type Component string

const (
	ComponentEducation    Component = "education"
	ComponentExperience   Component = "experience"
	ComponentPublications Component = "publications"
	ComponentCoherence    Component = "coherence"
	ComponentAwards       Component = "awards_other"
)

// Components lists every rubric component in canonical order.
// Comparisons and verifiers iterate in this order so that ties sort identically.
var Components = []Component{
	ComponentEducation,
	ComponentExperience,
	ComponentPublications,
	ComponentCoherence,
	ComponentAwards,
}

// Grade is the letter grade derived from a final score
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// EducationScore is the education component result
type EducationScore struct {
	GPAScore            float64 `json:"gpa_score"`
	DegreeLevelScore    float64 `json:"degree_level_score"`
	UniversityTierScore float64 `json:"university_tier_score"`
	EntryCount          int     `json:"entry_count"`
	// BestEntry is the index of the single highest-scoring entry, -1 when there are none
	BestEntry     int     `json:"best_entry"`
	WeightedScore float64 `json:"weighted_score"`
}

// ExperienceScore is the experience component result
type ExperienceScore struct {
	TotalMonths      int     `json:"total_months"`
	RelevantMonths   int     `json:"relevant_months"`
	MonthsScore      float64 `json:"months_score"`
	DomainMatchScore float64 `json:"domain_match_score"`
	TenureBonus      float64 `json:"experience_bonus"`
	EntryCount       int     `json:"entry_count"`
	WeightedScore    float64 `json:"weighted_score"`
}

// PublicationsScore is the publications component result
type PublicationsScore struct {
	Count               int     `json:"count"`
	IFScore             float64 `json:"if_score"`
	AuthorPositionScore float64 `json:"author_position_score"`
	VenueQualityScore   float64 `json:"venue_quality_score"`
	FirstAuthorBonus    float64 `json:"first_author_bonus"`
	WeightedScore       float64 `json:"weighted_score"`
}

// AwardsScore is the awards component result
type AwardsScore struct {
	Count         int     `json:"count"`
	WeightedScore float64 `json:"weighted_score"`
}

// CoherenceIssue describes one timeline or field problem found by the coherence check
type CoherenceIssue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Months      int    `json:"months,omitempty"`
}

// CoherenceScore is the coherence component result
type CoherenceScore struct {
	TimelinePenalty     float64          `json:"timeline_penalty"`
	FieldPenalty        float64          `json:"field_penalty"`
	ProgressionBonus    float64          `json:"progression_bonus"`
	FieldAlignment      string           `json:"field_alignment"`
	ProgressionDetected bool             `json:"progression_detected"`
	Issues              []CoherenceIssue `json:"issues"`
	WeightedScore       float64          `json:"weighted_score"`
}

// ComponentResults holds the five component results keyed by component name in JSON
type ComponentResults struct {
	Education    EducationScore    `json:"education"`
	Experience   ExperienceScore   `json:"experience"`
	Publications PublicationsScore `json:"publications"`
	Coherence    CoherenceScore    `json:"coherence"`
	Awards       AwardsScore       `json:"awards_other"`
}

// Score returns the weighted score of one component
func (r ComponentResults) Score(c Component) float64 {
	switch c {
	case ComponentEducation:
		return r.Education.WeightedScore
	case ComponentExperience:
		return r.Experience.WeightedScore
	case ComponentPublications:
		return r.Publications.WeightedScore
	case ComponentCoherence:
		return r.Coherence.WeightedScore
	case ComponentAwards:
		return r.Awards.WeightedScore
	}
	return 0
}

// CandidateScore is the full scoring result for one candidate in one evaluation run
type CandidateScore struct {
	CandidateID    string           `json:"candidate_id"`
	Name           string           `json:"name"`
	Components     ComponentResults `json:"components"`
	WeightedSum    float64          `json:"weighted_sum"`
	MissingPenalty float64          `json:"missing_penalty"`
	FinalScore     float64          `json:"final_score"`
	Grade          Grade            `json:"grade"`
}

// ComponentScore returns the weighted score of one component
func (s CandidateScore) ComponentScore(c Component) float64 {
	return s.Components.Score(c)
}

// RankedCandidate is one row of a ranking ordered by final score
type RankedCandidate struct {
	Rank        int     `json:"rank"`
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	FinalScore  float64 `json:"final_score"`
	Grade       Grade   `json:"grade"`
}
