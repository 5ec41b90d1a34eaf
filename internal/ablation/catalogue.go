// Package ablation measures how much each rubric feature contributes to ranking quality. Each
// ablation is a copy of the baseline rubric with one feature neutralised; the engine scores the
// candidates under every variant, ranks them against the same reference, and compares the
// headline ranking metrics with the baseline run.
package ablation

// BaselineID names the unmodified configuration every other ablation is compared with
const BaselineID = "baseline"

// Spec is one named rubric mutation
type Spec struct {
	ID          string
	Name        string
	Description string
	// Overrides are merged into the base rubric: nested objects key by key, lists and scalars replaced
	Overrides map[string]any
}

// Catalogue returns the ablation specs in reporting order. Every call builds fresh override
// maps so callers cannot alter the catalogue.
func Catalogue() []Spec {
	return []Spec{
		{
			ID:          BaselineID,
			Name:        "Baseline (Full System)",
			Description: "Complete system with all features enabled",
			Overrides:   map[string]any{},
		},
		{
			ID:          "no_coherence",
			Name:        "Without Coherence",
			Description: "Remove coherence scoring component",
			Overrides: map[string]any{
				"weights": map[string]any{
					"coherence":    0.0,
					"education":    0.32,
					"experience":   0.32,
					"publications": 0.27,
					"awards_other": 0.09,
				},
			},
		},
		{
			ID:          "no_university_tiers",
			Name:        "Without University Tiers",
			Description: "Remove university tier-based scoring (all universities equal)",
			Overrides: map[string]any{
				"university_tiers": map[string]any{
					"entries":  []any{},
					"fallback": 0.6,
				},
				"unknown_handling": map[string]any{
					"university": map[string]any{"score": 0.6},
				},
			},
		},
		{
			ID:          "no_if_weighting",
			Name:        "Without Impact Factor Weighting",
			Description: "Remove journal impact factor weighting (all publications equal)",
			Overrides: map[string]any{
				"policies": map[string]any{
					"impact_factor_mode": "banded",
				},
				"impact_factor_bands": map[string]any{
					"bands": []any{
						map[string]any{"label": "flat", "min": 0.0, "max": 0.0, "score": 0.5},
					},
				},
				"unknown_handling": map[string]any{
					"journal_if": map[string]any{"score": 0.5},
				},
			},
		},
		{
			ID:          "no_seniority",
			Name:        "Without Seniority Detection",
			Description: "Remove seniority-based scoring for experience",
			Overrides: map[string]any{
				"seniority_levels": map[string]any{
					"entries": []any{},
				},
			},
		},
		{
			ID:          "uniform_weights",
			Name:        "Uniform Component Weights",
			Description: "Equal weights for all components",
			Overrides: map[string]any{
				"weights": map[string]any{
					"education":    0.20,
					"experience":   0.20,
					"publications": 0.20,
					"coherence":    0.20,
					"awards_other": 0.20,
				},
			},
		},
		{
			ID:          "no_missing_penalty",
			Name:        "Without Missing-Value Penalty",
			Description: "Do not penalise empty education and experience fields",
			Overrides: map[string]any{
				"policies": map[string]any{"missing_values_penalty": 0.0},
			},
		},
		{
			ID:          "no_tenure_bonus",
			Name:        "Without Tenure Bonus",
			Description: "Remove the flat bonus for long total experience",
			Overrides: map[string]any{
				"policies": map[string]any{"experience_bonus": 0.0},
			},
		},
	}
}

// Names lists the catalogue ids in reporting order
func Names() []string {
	specs := Catalogue()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.ID
	}
	return names
}

// Lookup finds a spec by id
func Lookup(id string) (Spec, error) {
	for _, s := range Catalogue() {
		if s.ID == id {
			return s, nil
		}
	}
	return Spec{}, &UnknownAblationError{Name: id}
}
