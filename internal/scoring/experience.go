package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/types"
)

// How an entry's months were obtained
const (
	monthsSourceReported = "reported"
	monthsSourceDates    = "dates"
	monthsSourceYears    = "year_estimate"
	monthsSourceNone     = "none"
)

const (
	domainMatchScore   = 1.0
	domainPresentScore = 0.3
	// monthsShare and domainShare split the experience score between tenure and relevance
	monthsShare = 0.5
	domainShare = 0.5
)

// ExperienceEntryScore is the breakdown of a single position
type ExperienceEntryScore struct {
	Months       int
	MonthsSource string
	DomainScore  float64
	Domain       rubric.Outcome
	// Relevant is true when the entry's domain matches the target domain
	Relevant  bool
	Seniority rubric.Match
}

// ScoreExperienceEntry scores one experience entry
func (s *Scorer) ScoreExperienceEntry(e types.ExperienceEntry) ExperienceEntryScore {
	out := ExperienceEntryScore{
		Seniority: s.cfg.SeniorityLevels.Lookup(e.Title),
	}
	if out.Seniority.Outcome == rubric.OutcomeUnknown {
		out.Seniority.Score = s.cfg.SeniorityLevels.Fallback
		out.Seniority.Label = s.cfg.SeniorityLevels.FallbackLabel
	}

	if e.DurationMonths.Valid && e.DurationMonths.Value > 0 {
		out.Months = int(math.Round(e.DurationMonths.Value))
		out.MonthsSource = monthsSourceReported
	} else {
		out.Months, out.MonthsSource = s.durationMonths(e.Start.String(), e.End.String())
	}

	out.DomainScore, out.Domain = s.domainMatch(e.Domain)
	out.Relevant = out.Domain == rubric.OutcomeMatched
	return out
}

// domainMatch compares an entry domain with the target domain, containment either way
func (s *Scorer) domainMatch(domain string) (float64, rubric.Outcome) {
	d := rubric.Normalize(domain)
	if d == "" {
		return 0, rubric.OutcomeUnknown
	}
	target := rubric.Normalize(s.cfg.Policies.TargetDomain)
	if target != "" && (strings.Contains(d, target) || strings.Contains(target, d)) {
		return domainMatchScore, rubric.OutcomeMatched
	}
	return domainPresentScore, rubric.OutcomeUnmatched
}

// ScoreExperience scores total tenure and domain relevance, with a flat bonus for long tenure
func (s *Scorer) ScoreExperience(entries []types.ExperienceEntry) types.ExperienceScore {
	result := types.ExperienceScore{EntryCount: len(entries)}
	if len(entries) == 0 {
		return result
	}

	domainTotal := 0.0
	for _, e := range entries {
		es := s.ScoreExperienceEntry(e)
		result.TotalMonths += es.Months
		if es.Relevant {
			result.RelevantMonths += es.Months
		}
		domainTotal += es.DomainScore
	}
	result.DomainMatchScore = domainTotal / float64(len(entries))

	p := s.cfg.Policies
	if result.TotalMonths >= p.MinMonthsForBonus {
		result.TenureBonus = p.ExperienceBonus
	}
	result.MonthsScore = math.Min(1, float64(result.TotalMonths)/p.ExperienceSaturationMonths)
	result.WeightedScore = clamp01(
		(result.MonthsScore*monthsShare + result.DomainMatchScore*domainShare) * (1 + result.TenureBonus),
	)
	return result
}
