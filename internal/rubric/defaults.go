package rubric

// Default component weights
const (
	DefaultEducationWeight    = 0.30
	DefaultExperienceWeight   = 0.30
	DefaultPublicationsWeight = 0.25
	DefaultCoherenceWeight    = 0.10
	DefaultAwardsWeight       = 0.05
)

// Default returns the baseline rubric
func Default() Config {
	return Config{
		Weights: Weights{
			Education:    DefaultEducationWeight,
			Experience:   DefaultExperienceWeight,
			Publications: DefaultPublicationsWeight,
			Coherence:    DefaultCoherenceWeight,
			AwardsOther:  DefaultAwardsWeight,
		},
		EducationSubweights: EducationSubweights{
			GPA:            0.5,
			DegreeLevel:    0.2,
			UniversityTier: 0.3,
		},
		PublicationSubweights: PublicationSubweights{
			ImpactFactor:   0.5,
			AuthorPosition: 0.3,
			VenueQuality:   0.2,
		},
		Policies: Policies{
			TargetDomain:               "NLP",
			GPAScale:                   4.0,
			MinMonthsForBonus:          24,
			ExperienceBonus:            0.15,
			ExperienceSaturationMonths: 60,
			FirstAuthorBonus:           0.15,
			MissingValuesPenalty:       0.10,
			ImpactFactorNormalizer:     50,
			ImpactFactorMode:           ImpactFactorLinear,
			AwardsSaturation:           5,
		},
		UniversityTiers: LookupTable{
			Match: MatchSubstring,
			Entries: []LookupEntry{
				{Label: "tier1", Score: 1.0, Patterns: []string{"MIT", "Stanford", "Harvard", "Cambridge", "Oxford", "Caltech", "Princeton"}},
				{Label: "tier2", Score: 0.7, Patterns: []string{
					"National University of Sciences and Technology", "NUST", "IIT", "Carnegie Mellon",
					"UC Berkeley", "Cornell", "Yale", "Columbia", "ETH Zurich",
				}},
			},
			Fallback:      0.4,
			FallbackLabel: "tier3",
		},
		DegreeLevels: LookupTable{
			Match: MatchSubstring,
			Entries: []LookupEntry{
				{Label: "doctorate", Score: 1.0, Patterns: []string{"PhD", "Ph.D", "Doctorate"}},
				{Label: "master", Score: 0.8, Patterns: []string{"Master", "MS", "M.S.", "MBA"}},
				{Label: "bachelor", Score: 0.6, Patterns: []string{"Bachelor", "BS", "B.S.", "BA", "BE"}},
			},
			Fallback:      0.3,
			FallbackLabel: "unrecognized",
		},
		AuthorPositions: LookupTable{
			Match: MatchExact,
			Entries: []LookupEntry{
				{Label: "first", Score: 1.0, Patterns: []string{"1", "first", "1st"}},
				{Label: "second", Score: 0.7, Patterns: []string{"2", "second", "2nd"}},
			},
			Fallback:      0.4,
			FallbackLabel: "other",
		},
		VenueTiers: LookupTable{
			Match: MatchSubstring,
			Entries: []LookupEntry{
				{Label: "top", Score: 1.0, Patterns: []string{"nature", "science", "cell", "nejm"}},
				{Label: "established", Score: 0.7, Patterns: []string{"ieee", "acm", "springer"}},
			},
			Fallback:      0.4,
			FallbackLabel: "other",
		},
		// Scores here are seniority levels, not [0,1] scores. Order matters: "Senior Director" is senior.
		SeniorityLevels: LookupTable{
			Match: MatchSubstring,
			Entries: []LookupEntry{
				{Label: "senior", Score: 3, Patterns: []string{"senior", "sr"}},
				{Label: "lead", Score: 3, Patterns: []string{"lead"}},
				{Label: "principal", Score: 4, Patterns: []string{"principal"}},
				{Label: "chief", Score: 5, Patterns: []string{"chief"}},
				{Label: "head", Score: 4, Patterns: []string{"head"}},
				{Label: "director", Score: 4, Patterns: []string{"director"}},
				{Label: "vice_president", Score: 5, Patterns: []string{"vp", "vice president"}},
				{Label: "manager", Score: 3, Patterns: []string{"manager"}},
				{Label: "junior", Score: 1, Patterns: []string{"junior", "jr"}},
				{Label: "associate", Score: 1, Patterns: []string{"associate"}},
				{Label: "entry", Score: 0, Patterns: []string{"intern", "trainee"}},
			},
			Fallback:      2,
			FallbackLabel: "mid",
		},
		ImpactFactorBands: BandTable{
			Bands: []Band{
				{Label: "high", Min: 5, Score: 1.0},
				{Label: "medium", Min: 2, Max: 5, Score: 0.7},
				{Label: "low", Min: 0, Max: 2, Score: 0.4},
			},
		},
		UnknownHandling: UnknownHandling{
			GPA:            UnknownPolicy{Strategy: "zero", Score: 0},
			Degree:         UnknownPolicy{Strategy: "zero", Score: 0},
			University:     UnknownPolicy{Strategy: "penalize", Score: 0.3},
			JournalIF:      UnknownPolicy{Strategy: "zero", Score: 0},
			AuthorPosition: UnknownPolicy{Strategy: "zero", Score: 0},
			Venue:          UnknownPolicy{Strategy: "zero", Score: 0},
		},
		Coherence: CoherenceChecks{
			TimelineGapPenalty:     0.1,
			MaxAcceptableGapMonths: 6,
			OverlapPenaltyFactor:   0.3,
			MaxTimelinePenalty:     0.4,
			FieldMismatchPenalty:   0.15,
			CareerProgressionBonus: 0.1,
			CommonTechnicalTokens: []string{
				"computer", "software", "engineering", "science", "nlp", "ai", "ml", "data", "analytics",
			},
		},
		Ranking: RankingSettings{
			NDCGKValues:       []int{3, 5, 10},
			PairwiseThreshold: 0.05,
			SignificanceLevel: 0.05,
		},
	}
}
