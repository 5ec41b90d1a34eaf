package scoring

import (
	"strings"

	"github.com/jonathan/resume-ranker/internal/types"
)

// MissingFieldCounts counts empty expected fields across education and experience entries.
// Education expects degree, field, university, start and end; experience expects title,
// org, start, end and domain.
func MissingFieldCounts(rec types.CandidateRecord) (missing, expected int) {
	for _, e := range rec.Education {
		for _, v := range []string{e.Degree, e.Field, e.University, e.Start.String(), e.End.String()} {
			expected++
			if strings.TrimSpace(v) == "" {
				missing++
			}
		}
	}
	for _, e := range rec.Experience {
		for _, v := range []string{e.Title, e.Org, e.Start.String(), e.End.String(), e.Domain} {
			expected++
			if strings.TrimSpace(v) == "" {
				missing++
			}
		}
	}
	return missing, expected
}

// MissingPenalty is the fraction of expected fields left empty, scaled by the configured penalty
func (s *Scorer) MissingPenalty(rec types.CandidateRecord) float64 {
	missing, expected := MissingFieldCounts(rec)
	if expected == 0 {
		return 0
	}
	return float64(missing) / float64(expected) * s.cfg.Policies.MissingValuesPenalty
}
