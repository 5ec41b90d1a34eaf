// Package rubric provides the scoring configuration: component weights, sub-weights,
// policies, lookup tables, unknown-value handling, coherence thresholds and ranking settings.
//
// A Config is a value. Every operation that changes it (Clone, WithOverrides, WithAblation)
// returns a new Config and leaves the receiver untouched, so one baseline can safely feed
// many concurrent variant runs.
package rubric

import "github.com/jonathan/resume-ranker/internal/types"

// Impact factor scoring modes
const (
	ImpactFactorLinear = "linear"
	ImpactFactorBanded = "banded"
)

// Config is the complete rubric
type Config struct {
	Weights               Weights               `json:"weights"`
	EducationSubweights   EducationSubweights   `json:"education_subweights"`
	PublicationSubweights PublicationSubweights `json:"publication_subweights"`
	Policies              Policies              `json:"policies"`
	UniversityTiers       LookupTable           `json:"university_tiers"`
	DegreeLevels          LookupTable           `json:"degree_levels"`
	AuthorPositions       LookupTable           `json:"author_positions"`
	VenueTiers            LookupTable           `json:"venue_tiers"`
	SeniorityLevels       LookupTable           `json:"seniority_levels"`
	ImpactFactorBands     BandTable             `json:"impact_factor_bands"`
	UnknownHandling       UnknownHandling       `json:"unknown_handling"`
	Coherence             CoherenceChecks       `json:"coherence_checks"`
	Ranking               RankingSettings       `json:"ranking_metrics"`
	Ablation              *AblationMeta         `json:"_ablation,omitempty"`
}

// Weights are the top-level component fractions, expected to sum to 1
type Weights struct {
	Education    float64 `json:"education" validate:"gte=0,lte=1"`
	Experience   float64 `json:"experience" validate:"gte=0,lte=1"`
	Publications float64 `json:"publications" validate:"gte=0,lte=1"`
	Coherence    float64 `json:"coherence" validate:"gte=0,lte=1"`
	AwardsOther  float64 `json:"awards_other" validate:"gte=0,lte=1"`
}

// Of returns the weight of one component
func (w Weights) Of(c types.Component) float64 {
	switch c {
	case types.ComponentEducation:
		return w.Education
	case types.ComponentExperience:
		return w.Experience
	case types.ComponentPublications:
		return w.Publications
	case types.ComponentCoherence:
		return w.Coherence
	case types.ComponentAwards:
		return w.AwardsOther
	}
	return 0
}

// Sum returns the total of all component weights
func (w Weights) Sum() float64 {
	return w.Education + w.Experience + w.Publications + w.Coherence + w.AwardsOther
}

// EducationSubweights combine the education sub-scores
type EducationSubweights struct {
	GPA            float64 `json:"gpa" validate:"gte=0,lte=1"`
	DegreeLevel    float64 `json:"degree_level" validate:"gte=0,lte=1"`
	UniversityTier float64 `json:"university_tier" validate:"gte=0,lte=1"`
}

// PublicationSubweights combine the publication sub-scores
type PublicationSubweights struct {
	ImpactFactor   float64 `json:"impact_factor" validate:"gte=0,lte=1"`
	AuthorPosition float64 `json:"author_position" validate:"gte=0,lte=1"`
	VenueQuality   float64 `json:"venue_quality" validate:"gte=0,lte=1"`
}

// Policies hold the scalar scoring knobs
type Policies struct {
	TargetDomain               string  `json:"target_domain"`
	GPAScale                   float64 `json:"gpa_scale" validate:"gt=0"`
	MinMonthsForBonus          int     `json:"min_months_experience_for_bonus" validate:"gte=0"`
	ExperienceBonus            float64 `json:"experience_bonus" validate:"gte=0"`
	ExperienceSaturationMonths float64 `json:"experience_saturation_months" validate:"gt=0"`
	FirstAuthorBonus           float64 `json:"first_author_bonus" validate:"gte=0"`
	MissingValuesPenalty       float64 `json:"missing_values_penalty" validate:"gte=0,lte=1"`
	ImpactFactorNormalizer     float64 `json:"impact_factor_normalizer" validate:"gt=0"`
	ImpactFactorMode           string  `json:"impact_factor_mode" validate:"oneof=linear banded"`
	AwardsSaturation           float64 `json:"awards_saturation" validate:"gt=0"`
}

// UnknownPolicy scores a field that is absent from the candidate record
type UnknownPolicy struct {
	Strategy string  `json:"strategy" validate:"omitempty,oneof=zero neutral penalize fixed"`
	Score    float64 `json:"score" validate:"gte=0,lte=1"`
}

// UnknownHandling maps each optional field to its policy
type UnknownHandling struct {
	GPA            UnknownPolicy `json:"gpa"`
	Degree         UnknownPolicy `json:"degree"`
	University     UnknownPolicy `json:"university"`
	JournalIF      UnknownPolicy `json:"journal_if"`
	AuthorPosition UnknownPolicy `json:"author_position"`
	Venue          UnknownPolicy `json:"venue"`
}

// CoherenceChecks hold the coherence thresholds
type CoherenceChecks struct {
	TimelineGapPenalty     float64  `json:"timeline_gaps_penalty" validate:"gte=0,lte=1"`
	MaxAcceptableGapMonths int      `json:"max_acceptable_gap_months" validate:"gte=0"`
	OverlapPenaltyFactor   float64  `json:"overlap_penalty_factor" validate:"gte=0,lte=1"`
	MaxTimelinePenalty     float64  `json:"max_timeline_penalty" validate:"gte=0,lte=1"`
	FieldMismatchPenalty   float64  `json:"field_mismatch_penalty" validate:"gte=0,lte=1"`
	CareerProgressionBonus float64  `json:"career_progression_bonus" validate:"gte=0,lte=1"`
	CommonTechnicalTokens  []string `json:"common_technical_tokens"`
}

// RankingSettings configure the ranking metrics engine
type RankingSettings struct {
	NDCGKValues       []int   `json:"ndcg_k_values" validate:"dive,gt=0"`
	PairwiseThreshold float64 `json:"pairwise_threshold" validate:"gte=0"`
	SignificanceLevel float64 `json:"significance_level" validate:"gt=0,lt=1"`
}

// AblationMeta tags a configuration produced by the ablation engine
type AblationMeta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RunID       string `json:"run_id,omitempty"`
}

// Clone returns a deep copy
func (c Config) Clone() Config {
	out := c
	out.UniversityTiers = c.UniversityTiers.clone()
	out.DegreeLevels = c.DegreeLevels.clone()
	out.AuthorPositions = c.AuthorPositions.clone()
	out.VenueTiers = c.VenueTiers.clone()
	out.SeniorityLevels = c.SeniorityLevels.clone()
	out.ImpactFactorBands.Bands = append([]Band(nil), c.ImpactFactorBands.Bands...)
	out.Coherence.CommonTechnicalTokens = append([]string(nil), c.Coherence.CommonTechnicalTokens...)
	out.Ranking.NDCGKValues = append([]int(nil), c.Ranking.NDCGKValues...)
	if c.Ablation != nil {
		meta := *c.Ablation
		out.Ablation = &meta
	}
	return out
}

// WithAblation returns a copy tagged with ablation metadata
func (c Config) WithAblation(meta AblationMeta) Config {
	out := c.Clone()
	out.Ablation = &meta
	return out
}
