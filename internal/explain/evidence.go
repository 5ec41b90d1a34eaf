// Package explain turns candidate records and their scores into evidence: one cited span per
// resume entry with the sub-scores it earned, plus pairwise comparisons that say why one
// candidate scores above another.
package explain

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/scoring"
	"github.com/jonathan/resume-ranker/internal/types"
)

// Sub-score metric names used in evidence breakdowns
const (
	MetricGPA            = "gpa"
	MetricDegreeLevel    = "degree_level"
	MetricUniversityTier = "university_tier"
	MetricMonths         = "months"
	MetricDomainMatch    = "domain_match"
	MetricSeniority      = "seniority"
	MetricImpactFactor   = "impact_factor"
	MetricAuthorPosition = "author_position"
	MetricVenueQuality   = "venue_quality"
	MetricAwardCount     = "award_count"
	MetricCoherence      = "coherence"
)

// Coherence finding texts
const (
	TimelineConsistent  = "Timeline is consistent with no significant gaps"
	ProgressionDetected = "Career progression detected (seniority increase)"
)

const unknownValue = "Unknown"

// missingMarker describes an empty section
type missingMarker struct {
	explanation string
	impact      string
}

var missingMarkers = map[types.Component]missingMarker{
	types.ComponentEducation: {
		explanation: "No education information found",
		impact:      "Education component receives zero score",
	},
	types.ComponentExperience: {
		explanation: "No experience information found",
		impact:      "Experience component receives zero score",
	},
	types.ComponentPublications: {
		explanation: "No publications found",
		impact:      "Publications component receives zero score",
	},
	types.ComponentAwards: {
		explanation: "No awards found",
		impact:      "Awards component receives minimal score",
	},
}

// Generator builds evidence and comparisons under the rubric of one scorer
type Generator struct {
	scorer  *scoring.Scorer
	cfg     rubric.Config
	weights rubric.Weights
}

// NewGenerator creates a Generator that explains scores produced by scorer
func NewGenerator(scorer *scoring.Scorer) *Generator {
	cfg := scorer.Config()
	return &Generator{
		scorer:  scorer,
		cfg:     cfg,
		weights: cfg.Weights,
	}
}

// Evidence extracts the evidence for one candidate. score must be the scorer's result for rec.
func (g *Generator) Evidence(rec types.CandidateRecord, score types.CandidateScore) types.Evidence {
	ev := types.Evidence{
		CandidateID:   score.CandidateID,
		CandidateName: score.Name,
		Education:     g.educationEvidence(rec.Education, score),
		Experience:    g.experienceEvidence(rec.Experience, score),
		Publications:  g.publicationEvidence(rec.Publications, score),
		Awards:        g.awardEvidence(rec.Awards, score),
		Coherence:     g.coherenceEvidence(score),
		ScoreSummary: types.ScoreSummary{
			ComponentScores: make(map[types.Component]float64, len(types.Components)),
			FinalScore:      round(score.FinalScore, 4),
			Grade:           score.Grade,
		},
	}
	for _, c := range types.Components {
		ev.ScoreSummary.ComponentScores[c] = round(score.ComponentScore(c), 4)
	}
	return ev
}

// EvidenceAll extracts evidence for every record that has a score, keyed by candidate id
func (g *Generator) EvidenceAll(records []types.CandidateRecord, scores map[string]types.CandidateScore) map[string]types.Evidence {
	out := make(map[string]types.Evidence, len(records))
	for _, rec := range records {
		score, ok := scores[rec.Key()]
		if !ok {
			continue
		}
		out[score.CandidateID] = g.Evidence(rec, score)
	}
	return out
}

func (g *Generator) missing(c types.Component) []types.EvidenceItem {
	m := missingMarkers[c]
	return []types.EvidenceItem{{
		Missing:     true,
		Explanation: m.explanation,
		Impact:      m.impact,
	}}
}

// contribution spreads a component's share of the final score evenly over its entries
func (g *Generator) contribution(c types.Component, score types.CandidateScore, entries int) float64 {
	if entries == 0 {
		return 0
	}
	return round(score.ComponentScore(c)*g.weights.Of(c)/float64(entries), 4)
}

func (g *Generator) educationEvidence(entries []types.EducationEntry, score types.CandidateScore) []types.EvidenceItem {
	if len(entries) == 0 {
		return g.missing(types.ComponentEducation)
	}

	share := g.contribution(types.ComponentEducation, score, len(entries))
	items := make([]types.EvidenceItem, 0, len(entries))
	for i, e := range entries {
		es := g.scorer.ScoreEducationEntry(e)

		span := fmt.Sprintf("%s in %s from %s", orUnknown(e.Degree), orUnknown(e.Field), orUnknown(e.University))
		if e.GPA.Valid {
			span += fmt.Sprintf(" (GPA: %s)", e.GPA)
		}

		gpa := types.ScoreDetail{
			Metric:      MetricGPA,
			Score:       round(es.GPA, 4),
			Outcome:     string(es.GPAOutcome),
			Explanation: "GPA not provided",
		}
		if e.GPA.Valid {
			gpa.Explanation = fmt.Sprintf("GPA %s/%s = %.2f normalized", e.GPA, formatNumber(es.Scale), es.GPA)
		}

		items = append(items, types.EvidenceItem{
			Index: i,
			Span:  span,
			Breakdown: []types.ScoreDetail{
				gpa,
				matchDetail(MetricDegreeLevel, es.Degree, "Degree", e.Degree),
				matchDetail(MetricUniversityTier, es.University, "University", e.University),
			},
			ContributionToTotal: share,
		})
	}
	return items
}

func (g *Generator) experienceEvidence(entries []types.ExperienceEntry, score types.CandidateScore) []types.EvidenceItem {
	if len(entries) == 0 {
		return g.missing(types.ComponentExperience)
	}

	share := g.contribution(types.ComponentExperience, score, len(entries))
	saturation := g.cfg.Policies.ExperienceSaturationMonths
	target := g.cfg.Policies.TargetDomain
	items := make([]types.EvidenceItem, 0, len(entries))
	for i, e := range entries {
		es := g.scorer.ScoreExperienceEntry(e)

		span := fmt.Sprintf("%s at %s (%d months)", orUnknown(e.Title), orUnknown(e.Org), es.Months)
		if d := strings.TrimSpace(e.Domain); d != "" {
			span += " - " + d
		}

		domain := types.ScoreDetail{
			Metric:      MetricDomainMatch,
			Score:       round(es.DomainScore, 4),
			Outcome:     string(es.Domain),
			Explanation: "Domain not specified",
		}
		switch es.Domain {
		case rubric.OutcomeMatched:
			domain.Explanation = fmt.Sprintf("Domain %s matches target %s", e.Domain, target)
		case rubric.OutcomeUnmatched:
			domain.Explanation = fmt.Sprintf("Domain %s does not match target %s", e.Domain, target)
		}

		seniority := types.ScoreDetail{
			Metric:      MetricSeniority,
			Label:       es.Seniority.Label,
			Score:       es.Seniority.Score,
			Outcome:     string(es.Seniority.Outcome),
			Explanation: "Default to mid-level (no seniority keywords detected)",
		}
		switch es.Seniority.Outcome {
		case rubric.OutcomeMatched:
			seniority.Explanation = fmt.Sprintf("Detected %s level via keyword %q", es.Seniority.Label, es.Seniority.Pattern)
		case rubric.OutcomeUnknown:
			seniority.Explanation = "Job title not provided"
		}

		items = append(items, types.EvidenceItem{
			Index: i,
			Span:  span,
			Breakdown: []types.ScoreDetail{
				{
					Metric:      MetricMonths,
					Score:       round(math.Min(1, float64(es.Months)/saturation), 4),
					Outcome:     es.MonthsSource,
					Explanation: fmt.Sprintf("%d months (%s)", es.Months, es.MonthsSource),
				},
				domain,
				seniority,
			},
			ContributionToTotal: share,
		})
	}
	return items
}

func (g *Generator) publicationEvidence(entries []types.PublicationEntry, score types.CandidateScore) []types.EvidenceItem {
	if len(entries) == 0 {
		return g.missing(types.ComponentPublications)
	}

	share := g.contribution(types.ComponentPublications, score, len(entries))
	items := make([]types.EvidenceItem, 0, len(entries))
	for i, p := range entries {
		ps := g.scorer.ScorePublicationEntry(p)

		span := fmt.Sprintf("%q in %s", orUnknown(p.Title), orUnknown(p.Venue))
		if p.JournalIF.Valid {
			span += fmt.Sprintf(" (IF: %s)", p.JournalIF)
		}
		switch {
		case ps.FirstAuthor:
			span += " [First author]"
		case !p.AuthorPosition.IsZero():
			span += fmt.Sprintf(" [%s author]", ordinal(p.AuthorPosition.String()))
		}

		impact := types.ScoreDetail{
			Metric:      MetricImpactFactor,
			Label:       ps.ImpactFactor.Label,
			Score:       round(ps.ImpactFactor.Score, 4),
			Outcome:     string(ps.ImpactFactor.Outcome),
			Explanation: "Impact factor not provided",
		}
		if p.JournalIF.Valid {
			impact.Explanation = fmt.Sprintf("Impact factor %s scored %.2f (%s)", p.JournalIF, ps.ImpactFactor.Score, ps.ImpactFactor.Label)
		}

		items = append(items, types.EvidenceItem{
			Index: i,
			Span:  span,
			Breakdown: []types.ScoreDetail{
				impact,
				matchDetail(MetricAuthorPosition, ps.Author, "Author position", p.AuthorPosition.String()),
				matchDetail(MetricVenueQuality, ps.Venue, "Venue", p.Venue),
			},
			ContributionToTotal: share,
		})
	}
	return items
}

func (g *Generator) awardEvidence(entries []types.AwardEntry, score types.CandidateScore) []types.EvidenceItem {
	if len(entries) == 0 {
		return g.missing(types.ComponentAwards)
	}

	share := g.contribution(types.ComponentAwards, score, len(entries))
	perAward := g.scorer.ContributionPerAward()
	items := make([]types.EvidenceItem, 0, len(entries))
	for i, a := range entries {
		span := orUnknown(a.Title)
		if issuer := strings.TrimSpace(a.Issuer); issuer != "" {
			span += " from " + issuer
		}
		if !a.Year.IsZero() {
			span += fmt.Sprintf(" (%s)", a.Year)
		}

		items = append(items, types.EvidenceItem{
			Index: i,
			Span:  span,
			Breakdown: []types.ScoreDetail{{
				Metric:      MetricAwardCount,
				Score:       round(perAward, 4),
				Outcome:     string(rubric.OutcomeMatched),
				Explanation: fmt.Sprintf("Each award adds %.2f to the awards score until saturation", perAward),
			}},
			ContributionToTotal: share,
		})
	}
	return items
}

// coherenceEvidence restates the coherence checks as findings that comparisons can cite
func (g *Generator) coherenceEvidence(score types.CandidateScore) types.CoherenceEvidence {
	coh := score.Components.Coherence

	timeline := make([]types.CoherenceIssue, 0, len(coh.Issues))
	for _, issue := range coh.Issues {
		if issue.Type == scoring.IssueTimelineGap || issue.Type == scoring.IssueTimelineOverlap {
			timeline = append(timeline, issue)
		}
	}

	var spans, parts []string
	if len(timeline) == 0 {
		spans = append(spans, TimelineConsistent)
		parts = append(parts, TimelineConsistent)
	} else {
		for _, issue := range timeline {
			spans = append(spans, issue.Description)
		}
		parts = append(parts, fmt.Sprintf("Found %d timeline gaps or overlaps", len(timeline)))
	}
	if coh.ProgressionDetected {
		spans = append(spans, ProgressionDetected)
		parts = append(parts, ProgressionDetected)
	}
	alignment := "Field alignment: " + coh.FieldAlignment
	spans = append(spans, alignment)
	parts = append(parts, alignment)

	share := g.contribution(types.ComponentCoherence, score, len(spans))
	findings := make([]types.EvidenceItem, len(spans))
	for i, span := range spans {
		findings[i] = types.EvidenceItem{
			Index:               i,
			Span:                span,
			ContributionToTotal: share,
			Breakdown: []types.ScoreDetail{{
				Metric:  MetricCoherence,
				Score:   round(coh.WeightedScore, 4),
				Outcome: string(rubric.OutcomeMatched),
				Explanation: fmt.Sprintf("Timeline penalty %.2f, field penalty %.2f, progression bonus %.2f",
					coh.TimelinePenalty, coh.FieldPenalty, coh.ProgressionBonus),
			}},
		}
	}

	return types.CoherenceEvidence{
		TimelineIssues:    timeline,
		FieldAlignment:    coh.FieldAlignment,
		CareerProgression: coh.ProgressionDetected,
		OverallScore:      round(coh.WeightedScore, 4),
		Explanation:       strings.Join(parts, "; "),
		Findings:          findings,
	}
}

// matchDetail describes a lookup-table result
func matchDetail(metric string, m rubric.Match, subject, value string) types.ScoreDetail {
	d := types.ScoreDetail{
		Metric:  metric,
		Label:   m.Label,
		Score:   round(m.Score, 4),
		Outcome: string(m.Outcome),
	}
	switch m.Outcome {
	case rubric.OutcomeMatched:
		d.Explanation = fmt.Sprintf("%s %q matched %s via %q", subject, value, m.Label, m.Pattern)
	case rubric.OutcomeUnmatched:
		d.Explanation = fmt.Sprintf("%s %q not recognized, scored as %s", subject, value, m.Label)
	default:
		d.Explanation = fmt.Sprintf("%s not provided", subject)
	}
	return d
}

func orUnknown(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return unknownValue
	}
	return v
}

// ordinal renders an author position as 2nd, 3rd, 11th; non-numeric positions are returned as-is
func ordinal(pos string) string {
	pos = strings.TrimSpace(pos)
	var n int
	if _, err := fmt.Sscanf(pos, "%d", &n); err != nil || fmt.Sprint(n) != pos {
		return pos
	}
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func formatNumber(v float64) string {
	return types.Float(v).String()
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
