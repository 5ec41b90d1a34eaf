// Package scoring scores candidate records against a rubric: five component scorers,
// the missing-value penalty, aggregation into a final score and letter grading.
//
// Scorers never fail. Absent or unreadable values are scored through the rubric's
// unknown-handling policy and unparseable dates degrade to estimates or to nothing.
package scoring

import (
	"log/slog"
	"sort"
	"time"

	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/types"
)

// Grade thresholds, checked from the top
const (
	gradeAThreshold = 0.60
	gradeBThreshold = 0.40
	gradeCThreshold = 0.25
	gradeDThreshold = 0.15
)

// Scorer scores candidates under one rubric. It is safe for concurrent use.
type Scorer struct {
	cfg rubric.Config
	now func() time.Time
}

// Option configures a Scorer
type Option func(*Scorer)

// WithClock sets the clock used for ongoing periods ("present", "current", empty end dates)
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Scorer. The configuration is cloned so later changes by the caller do not leak in.
func New(cfg rubric.Config, opts ...Option) *Scorer {
	s := &Scorer{
		cfg: cfg.Clone(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns a copy of the rubric the scorer uses
func (s *Scorer) Config() rubric.Config {
	return s.cfg.Clone()
}

// Score produces the full CandidateScore for one record
func (s *Scorer) Score(rec types.CandidateRecord) types.CandidateScore {
	components := types.ComponentResults{
		Education:    s.ScoreEducation(rec.Education),
		Experience:   s.ScoreExperience(rec.Experience),
		Publications: s.ScorePublications(rec.Publications),
		Coherence:    s.ScoreCoherence(rec),
		Awards:       s.ScoreAwards(rec.Awards),
	}

	weightedSum := 0.0
	for _, c := range types.Components {
		weightedSum += components.Score(c) * s.cfg.Weights.Of(c)
	}
	penalty := s.MissingPenalty(rec)
	final := clamp01(weightedSum - penalty)

	return types.CandidateScore{
		CandidateID:    rec.Key(),
		Name:           rec.DisplayName(),
		Components:     components,
		WeightedSum:    weightedSum,
		MissingPenalty: penalty,
		FinalScore:     final,
		Grade:          GradeFor(final),
	}
}

// ScoreAll scores every record, preserving input order
func (s *Scorer) ScoreAll(records []types.CandidateRecord) []types.CandidateScore {
	out := make([]types.CandidateScore, 0, len(records))
	for _, rec := range records {
		score := s.Score(rec)
		slog.Debug("scored candidate",
			"candidate", score.CandidateID,
			"final_score", score.FinalScore,
			"grade", score.Grade,
		)
		out = append(out, score)
	}
	return out
}

// GradeFor maps a final score to its letter grade
func GradeFor(score float64) types.Grade {
	switch {
	case score >= gradeAThreshold:
		return types.GradeA
	case score >= gradeBThreshold:
		return types.GradeB
	case score >= gradeCThreshold:
		return types.GradeC
	case score >= gradeDThreshold:
		return types.GradeD
	default:
		return types.GradeF
	}
}

// RankByScore orders scores by final score descending. Equal scores are ordered by candidate id.
func RankByScore(scores []types.CandidateScore) []types.RankedCandidate {
	sorted := make([]types.CandidateScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FinalScore != sorted[j].FinalScore {
			return sorted[i].FinalScore > sorted[j].FinalScore
		}
		return sorted[i].CandidateID < sorted[j].CandidateID
	})

	ranked := make([]types.RankedCandidate, len(sorted))
	for i, sc := range sorted {
		ranked[i] = types.RankedCandidate{
			Rank:        i + 1,
			CandidateID: sc.CandidateID,
			Name:        sc.Name,
			FinalScore:  sc.FinalScore,
			Grade:       sc.Grade,
		}
	}
	return ranked
}

// FinalScores extracts the candidate id to final score mapping used by the ranking metrics
func FinalScores(scores []types.CandidateScore) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for _, sc := range scores {
		out[sc.CandidateID] = sc.FinalScore
	}
	return out
}

// Index keys scores by candidate id
func Index(scores []types.CandidateScore) map[string]types.CandidateScore {
	out := make(map[string]types.CandidateScore, len(scores))
	for _, sc := range scores {
		out[sc.CandidateID] = sc
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
