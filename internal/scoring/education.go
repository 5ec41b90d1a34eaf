package scoring

import (
	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/types"
)

// EducationEntryScore is the breakdown of a single degree
type EducationEntryScore struct {
	GPA        float64
	GPAOutcome rubric.Outcome
	// Scale is the GPA scale actually applied
	Scale      float64
	Degree     rubric.Match
	University rubric.Match
	// Combined is the sub-weighted score of this entry alone
	Combined float64
}

// ScoreEducationEntry scores one education entry
func (s *Scorer) ScoreEducationEntry(e types.EducationEntry) EducationEntryScore {
	out := EducationEntryScore{
		Scale:      s.cfg.Policies.GPAScale,
		Degree:     s.cfg.DegreeLevels.Resolve(e.Degree, s.cfg.UnknownHandling.Degree),
		University: s.cfg.UniversityTiers.Resolve(e.University, s.cfg.UnknownHandling.University),
	}

	if e.Scale.Valid && e.Scale.Value > 0 {
		out.Scale = e.Scale.Value
	}
	if e.GPA.Valid {
		out.GPA = clamp01(e.GPA.Value / out.Scale)
		out.GPAOutcome = rubric.OutcomeMatched
	} else {
		out.GPA = s.cfg.UnknownHandling.GPA.Score
		out.GPAOutcome = rubric.OutcomeUnknown
	}

	sw := s.cfg.EducationSubweights
	out.Combined = out.GPA*sw.GPA + out.Degree.Score*sw.DegreeLevel + out.University.Score*sw.UniversityTier
	return out
}

// ScoreEducation takes the best value of each sub-score across all entries and
// combines them with the education sub-weights. No entries scores zero.
func (s *Scorer) ScoreEducation(entries []types.EducationEntry) types.EducationScore {
	result := types.EducationScore{EntryCount: len(entries), BestEntry: -1}
	if len(entries) == 0 {
		return result
	}

	bestCombined := -1.0
	for i, e := range entries {
		es := s.ScoreEducationEntry(e)
		result.GPAScore = max(result.GPAScore, es.GPA)
		result.DegreeLevelScore = max(result.DegreeLevelScore, es.Degree.Score)
		result.UniversityTierScore = max(result.UniversityTierScore, es.University.Score)
		if es.Combined > bestCombined {
			bestCombined = es.Combined
			result.BestEntry = i
		}
	}

	sw := s.cfg.EducationSubweights
	result.WeightedScore = clamp01(
		result.GPAScore*sw.GPA +
			result.DegreeLevelScore*sw.DegreeLevel +
			result.UniversityTierScore*sw.UniversityTier,
	)
	return result
}
