package scoring

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/types"
)

// Coherence issue types and severities
const (
	IssueTimelineGap     = "timeline_gap"
	IssueTimelineOverlap = "timeline_overlap"
	IssueFieldMismatch   = "field_mismatch"

	severityLow    = "low"
	severityMedium = "medium"
)

// Field alignment outcomes
const (
	AlignmentAligned      = "Aligned"
	AlignmentMisaligned   = "Misaligned"
	AlignmentInsufficient = "Cannot determine - insufficient data"
	AlignmentNoFields     = "Cannot determine - missing field/domain information"
)

// overlapTolerance is how many months of overlap between consecutive positions go unremarked
const overlapTolerance = -1

var tokenSplit = regexp.MustCompile(`[^a-z0-9]+`)

// period is an experience entry placed on the calendar
type period struct {
	title     string
	start     time.Time
	hasStart  bool
	end       time.Time
	hasEnd    bool
	seniority float64
}

// ScoreCoherence checks the timeline, education/experience field alignment and career
// progression. The score starts at 1, loses the timeline and field penalties, gains the
// progression bonus, and is clamped to [0,1].
func (s *Scorer) ScoreCoherence(rec types.CandidateRecord) types.CoherenceScore {
	periods := s.experiencePeriods(rec.Experience)

	timelinePenalty, issues := s.timelineCheck(periods)
	alignment, fieldPenalty, fieldIssue := s.fieldAlignment(rec)
	if fieldIssue != nil {
		issues = append(issues, *fieldIssue)
	}
	progression := progressionDetected(periods)

	result := types.CoherenceScore{
		TimelinePenalty:     timelinePenalty,
		FieldPenalty:        fieldPenalty,
		FieldAlignment:      alignment,
		ProgressionDetected: progression,
		Issues:              issues,
	}
	if progression {
		result.ProgressionBonus = s.cfg.Coherence.CareerProgressionBonus
	}
	if result.Issues == nil {
		result.Issues = []types.CoherenceIssue{}
	}
	result.WeightedScore = clamp01(1.0 - timelinePenalty - fieldPenalty + result.ProgressionBonus)
	return result
}

// experiencePeriods parses and sorts experience entries by start date. Entries without a
// readable start sort first, and the sort is stable.
func (s *Scorer) experiencePeriods(entries []types.ExperienceEntry) []period {
	periods := make([]period, 0, len(entries))
	for _, e := range entries {
		p := period{title: e.Title}
		p.start, p.hasStart = s.parseDate(e.Start.String(), timelinePoint)
		p.end, p.hasEnd = s.parseDate(e.End.String(), timelinePoint)

		seniority := s.cfg.SeniorityLevels.Lookup(e.Title)
		if seniority.Outcome == rubric.OutcomeUnknown {
			seniority.Score = s.cfg.SeniorityLevels.Fallback
		}
		p.seniority = seniority.Score
		periods = append(periods, p)
	}

	sort.SliceStable(periods, func(i, j int) bool {
		a, b := periods[i], periods[j]
		if !a.hasStart || !b.hasStart {
			return !a.hasStart && b.hasStart
		}
		return a.start.Before(b.start)
	})
	return periods
}

// timelineCheck penalises gaps above the acceptable maximum and overlaps of more than a month
// between consecutive positions. The total is capped.
func (s *Scorer) timelineCheck(periods []period) (float64, []types.CoherenceIssue) {
	cc := s.cfg.Coherence
	var issues []types.CoherenceIssue
	penalty := 0.0

	for i := 0; i+1 < len(periods); i++ {
		current, next := periods[i], periods[i+1]
		if !current.hasEnd || !next.hasStart {
			continue
		}
		gap := monthsBetween(current.end, next.start)
		switch {
		case gap > cc.MaxAcceptableGapMonths:
			issues = append(issues, types.CoherenceIssue{
				Type:        IssueTimelineGap,
				Severity:    severityMedium,
				Description: fmt.Sprintf("Gap of %d months between %s and %s", gap, titleOrUnknown(current.title), titleOrUnknown(next.title)),
				Months:      gap,
			})
			penalty += cc.TimelineGapPenalty
		case gap < overlapTolerance:
			issues = append(issues, types.CoherenceIssue{
				Type:        IssueTimelineOverlap,
				Severity:    severityLow,
				Description: fmt.Sprintf("Overlap of %d months between %s and %s", -gap, titleOrUnknown(current.title), titleOrUnknown(next.title)),
				Months:      -gap,
			})
			penalty += cc.TimelineGapPenalty * cc.OverlapPenaltyFactor
		}
	}

	return min(penalty, cc.MaxTimelinePenalty), issues
}

// fieldAlignment looks for a shared token between education fields and experience domains,
// or a common technical token on both sides
func (s *Scorer) fieldAlignment(rec types.CandidateRecord) (string, float64, *types.CoherenceIssue) {
	if len(rec.Education) == 0 || len(rec.Experience) == 0 {
		return AlignmentInsufficient, 0, nil
	}

	fields := make([]string, 0, len(rec.Education))
	for _, e := range rec.Education {
		if f := knownValue(e.Field); f != "" {
			fields = append(fields, f)
		}
	}
	domains := make([]string, 0, len(rec.Experience))
	for _, e := range rec.Experience {
		if d := knownValue(e.Domain); d != "" {
			domains = append(domains, d)
		}
	}
	fields, domains = dedupeSorted(fields), dedupeSorted(domains)
	if len(fields) == 0 || len(domains) == 0 {
		return AlignmentNoFields, 0, nil
	}

	common := make(map[string]bool, len(s.cfg.Coherence.CommonTechnicalTokens))
	for _, tok := range s.cfg.Coherence.CommonTechnicalTokens {
		common[strings.ToLower(tok)] = true
	}

	for _, f := range fields {
		fieldTokens := tokenize(f)
		for _, d := range domains {
			domainTokens := tokenize(d)
			if intersects(fieldTokens, domainTokens) {
				return AlignmentAligned, 0, nil
			}
			if intersects(fieldTokens, common) && intersects(domainTokens, common) {
				return AlignmentAligned, 0, nil
			}
		}
	}

	return AlignmentMisaligned, s.cfg.Coherence.FieldMismatchPenalty, &types.CoherenceIssue{
		Type:     IssueFieldMismatch,
		Severity: severityMedium,
		Description: fmt.Sprintf("Education fields (%s) do not align with experience domains (%s)",
			strings.Join(fields, ", "), strings.Join(domains, ", ")),
	}
}

// progressionDetected reports whether seniority strictly increases at least once in chronological order
func progressionDetected(periods []period) bool {
	if len(periods) < 2 {
		return false
	}
	for i := 0; i+1 < len(periods); i++ {
		if periods[i+1].seniority > periods[i].seniority {
			return true
		}
	}
	return false
}

func knownValue(v string) string {
	v = rubric.Normalize(v)
	if v == "unknown" {
		return ""
	}
	return v
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range tokenSplit.Split(strings.ToLower(s), -1) {
		if tok != "" {
			tokens[tok] = true
		}
	}
	return tokens
}

// intersects reports whether a and b share a key
func intersects(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

func dedupeSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func titleOrUnknown(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Unknown"
	}
	return title
}
