package scoring

import "github.com/jonathan/resume-ranker/internal/types"

// ScoreAwards saturates on the number of awards
func (s *Scorer) ScoreAwards(entries []types.AwardEntry) types.AwardsScore {
	if len(entries) == 0 {
		return types.AwardsScore{}
	}
	return types.AwardsScore{
		Count:         len(entries),
		WeightedScore: clamp01(float64(len(entries)) / s.cfg.Policies.AwardsSaturation),
	}
}

// ContributionPerAward is the share of the awards score one award carries
func (s *Scorer) ContributionPerAward() float64 {
	return 1 / s.cfg.Policies.AwardsSaturation
}
