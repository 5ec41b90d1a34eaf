package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/types"
)

// firstAuthorLabel is the author-position label that earns the first-author bonus
const firstAuthorLabel = "first"

// PublicationEntryScore is the breakdown of a single publication
type PublicationEntryScore struct {
	ImpactFactor rubric.Match
	Author       rubric.Match
	Venue        rubric.Match
	FirstAuthor  bool
	// Combined is the sub-weighted score of this entry alone, without the first-author bonus
	Combined float64
}

// ScorePublicationEntry scores one publication
func (s *Scorer) ScorePublicationEntry(p types.PublicationEntry) PublicationEntryScore {
	out := PublicationEntryScore{
		ImpactFactor: s.impactFactor(p.JournalIF),
		Author:       s.cfg.AuthorPositions.Resolve(normalizePosition(p.AuthorPosition.String()), s.cfg.UnknownHandling.AuthorPosition),
		Venue:        s.cfg.VenueTiers.Resolve(p.Venue, s.cfg.UnknownHandling.Venue),
	}
	out.FirstAuthor = out.Author.Outcome == rubric.OutcomeMatched && out.Author.Label == firstAuthorLabel

	sw := s.cfg.PublicationSubweights
	out.Combined = out.ImpactFactor.Score*sw.ImpactFactor + out.Author.Score*sw.AuthorPosition + out.Venue.Score*sw.VenueQuality
	return out
}

// impactFactor scores a journal impact factor linearly against the normaliser, or by band
func (s *Scorer) impactFactor(v types.OptionalFloat) rubric.Match {
	if !v.Valid {
		return rubric.Match{
			Outcome: rubric.OutcomeUnknown,
			Label:   "unknown",
			Score:   s.cfg.UnknownHandling.JournalIF.Score,
		}
	}
	if s.cfg.Policies.ImpactFactorMode == rubric.ImpactFactorBanded {
		return s.cfg.ImpactFactorBands.Lookup(v.Value)
	}
	return rubric.Match{
		Outcome: rubric.OutcomeMatched,
		Label:   "linear",
		Score:   clamp01(v.Value / s.cfg.Policies.ImpactFactorNormalizer),
	}
}

// normalizePosition turns numeric positions such as "1.0" into "1"
func normalizePosition(pos string) string {
	pos = strings.TrimSpace(pos)
	if f, err := strconv.ParseFloat(pos, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.Itoa(int(f))
	}
	return pos
}

// ScorePublications averages the per-entry sub-scores and applies a multiplicative
// bonus when any entry is first-authored
func (s *Scorer) ScorePublications(entries []types.PublicationEntry) types.PublicationsScore {
	result := types.PublicationsScore{Count: len(entries)}
	if len(entries) == 0 {
		return result
	}

	var ifTotal, authorTotal, venueTotal float64
	firstAuthor := false
	for _, p := range entries {
		ps := s.ScorePublicationEntry(p)
		ifTotal += ps.ImpactFactor.Score
		authorTotal += ps.Author.Score
		venueTotal += ps.Venue.Score
		firstAuthor = firstAuthor || ps.FirstAuthor
	}

	n := float64(len(entries))
	result.IFScore = ifTotal / n
	result.AuthorPositionScore = authorTotal / n
	result.VenueQualityScore = venueTotal / n
	if firstAuthor {
		result.FirstAuthorBonus = s.cfg.Policies.FirstAuthorBonus
	}

	sw := s.cfg.PublicationSubweights
	result.WeightedScore = clamp01(
		(result.IFScore*sw.ImpactFactor +
			result.AuthorPositionScore*sw.AuthorPosition +
			result.VenueQualityScore*sw.VenueQuality) * (1 + result.FirstAuthorBonus),
	)
	return result
}
