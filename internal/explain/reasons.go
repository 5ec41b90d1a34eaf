package explain

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-ranker/internal/types"
)

// equalTolerance is the component delta below which two candidates are described as equal
const equalTolerance = 1e-9

// side is one candidate as seen by a reason builder
type side struct {
	score    types.CandidateScore
	evidence types.Evidence
}

func (s side) name() string {
	if s.score.Name != "" {
		return s.score.Name
	}
	return s.score.CandidateID
}

// reasonFunc explains why lead scores above trail on one component
type reasonFunc func(lead, trail side) string

var reasonBuilders = map[types.Component]reasonFunc{
	types.ComponentEducation:    educationReason,
	types.ComponentExperience:   experienceReason,
	types.ComponentPublications: publicationsReason,
	types.ComponentCoherence:    coherenceReason,
	types.ComponentAwards:       awardsReason,
}

// reasonFor orders the two sides by component score and dispatches to the component's builder
func reasonFor(c types.Component, a, b side) string {
	delta := a.score.ComponentScore(c) - b.score.ComponentScore(c)
	if math.Abs(delta) < equalTolerance {
		return fmt.Sprintf("%s and %s score equally on %s", a.name(), b.name(), c)
	}
	build, ok := reasonBuilders[c]
	if !ok {
		return fmt.Sprintf("Difference in %s", c)
	}
	if delta < 0 {
		a, b = b, a
	}
	return build(a, b)
}

// educationReason compares each candidate's best single credential, so every label it
// cites belongs to one real entry
func educationReason(lead, trail side) string {
	l, t := bestEducation(lead), bestEducation(trail)
	switch {
	case l.tier.Score > t.tier.Score:
		return fmt.Sprintf("%s attended a higher tier university (%s vs %s)", lead.name(), l.tier.label(), t.tier.label())
	case l.degree.Score > t.degree.Score:
		return fmt.Sprintf("%s holds a higher degree level (%s vs %s)", lead.name(), l.degree.label(), t.degree.label())
	case l.gpa.Score > t.gpa.Score:
		return fmt.Sprintf("%s has a better GPA (%.2f vs %.2f normalized)", lead.name(), l.gpa.Score, t.gpa.Score)
	}
	return fmt.Sprintf("%s has better overall education credentials", lead.name())
}

func experienceReason(lead, trail side) string {
	l, t := lead.score.Components.Experience, trail.score.Components.Experience
	switch {
	case l.TotalMonths > t.TotalMonths:
		return fmt.Sprintf("%s has more experience (%d months vs %d months)", lead.name(), l.TotalMonths, t.TotalMonths)
	case l.DomainMatchScore > t.DomainMatchScore:
		return fmt.Sprintf("%s has experience closer to the target domain (%d vs %d relevant months)",
			lead.name(), l.RelevantMonths, t.RelevantMonths)
	}
	return fmt.Sprintf("%s has stronger experience overall", lead.name())
}

func publicationsReason(lead, trail side) string {
	l, t := lead.score.Components.Publications, trail.score.Components.Publications
	if l.Count > t.Count {
		return fmt.Sprintf("%s has more publications (%d vs %d)", lead.name(), l.Count, t.Count)
	}
	return fmt.Sprintf("%s has higher quality publications (better IF or author positions)", lead.name())
}

func coherenceReason(lead, _ side) string {
	return fmt.Sprintf("%s shows better timeline consistency and career progression", lead.name())
}

func awardsReason(lead, trail side) string {
	l, t := lead.score.Components.Awards, trail.score.Components.Awards
	return fmt.Sprintf("%s has more awards (%d vs %d)", lead.name(), l.Count, t.Count)
}

type entryDetail types.ScoreDetail

func (d entryDetail) label() string {
	switch {
	case d.Label != "":
		return d.Label
	case d.Outcome != "":
		return d.Outcome
	}
	return "none"
}

type educationEntryView struct {
	gpa, degree, tier entryDetail
}

// bestEducation reads the sub-scores of the candidate's best education entry from its
// evidence. A candidate without education evidence has all zero sub-scores.
func bestEducation(s side) educationEntryView {
	var view educationEntryView
	idx := s.score.Components.Education.BestEntry
	if idx < 0 || idx >= len(s.evidence.Education) {
		return view
	}
	for _, d := range s.evidence.Education[idx].Breakdown {
		switch d.Metric {
		case MetricGPA:
			view.gpa = entryDetail(d)
		case MetricDegreeLevel:
			view.degree = entryDetail(d)
		case MetricUniversityTier:
			view.tier = entryDetail(d)
		}
	}
	return view
}

// keyEvidence returns up to three spans for a component, or the no-evidence marker
func keyEvidence(ev types.Evidence, c types.Component) []string {
	spans := ev.Spans(c)
	if len(spans) == 0 {
		return []string{types.NoEvidence}
	}
	if len(spans) > maxEvidencePerSide {
		spans = spans[:maxEvidencePerSide]
	}
	return spans
}
