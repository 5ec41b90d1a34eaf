package ablation

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ranker/internal/rubric"
	"github.com/jonathan/resume-ranker/internal/scoring"
	"github.com/jonathan/resume-ranker/internal/types"
)

func run(id, name string, tau, rho, pairwise float64, ndcg ...float64) types.AblationRun {
	m := types.RankingMetricsResult{
		KendallTau:       &types.KendallTau{Tau: tau},
		SpearmanRho:      &types.SpearmanRho{Rho: rho},
		PairwiseAccuracy: &types.PairwiseAccuracy{Accuracy: pairwise, TotalPairs: 10},
	}
	for i, v := range ndcg {
		m.NDCG = append(m.NDCG, types.NDCGAtK{K: i + 1, NDCG: v})
	}
	return types.AblationRun{ID: id, Name: name, RankingMetrics: m}
}

func TestCatalogue(t *testing.T) {
	names := Names()
	assert.Equal(t, BaselineID, names[0])
	assert.Contains(t, names, "no_coherence")
	assert.Contains(t, names, "uniform_weights")

	// mutating a returned spec leaves the catalogue intact
	spec, err := Lookup("no_coherence")
	require.NoError(t, err)
	spec.Overrides["weights"] = nil
	again, err := Lookup("no_coherence")
	require.NoError(t, err)
	assert.NotNil(t, again.Overrides["weights"])
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("no_such_thing")
	require.Error(t, err)

	var unknown *UnknownAblationError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "no_such_thing", unknown.Name)
	assert.Contains(t, err.Error(), "unknown ablation: no_such_thing (available: baseline, no_coherence")
}

func TestGenerate(t *testing.T) {
	base := rubric.Default()
	engine := NewEngine(base)

	t.Run("baseline keeps every value", func(t *testing.T) {
		cfg, err := engine.Generate(BaselineID)
		require.NoError(t, err)
		require.NotNil(t, cfg.Ablation)
		assert.Equal(t, BaselineID, cfg.Ablation.ID)
		assert.NotEmpty(t, cfg.Ablation.RunID)
		assert.Equal(t, base.Weights, cfg.Weights)
	})

	t.Run("no coherence redistributes weights", func(t *testing.T) {
		cfg, err := engine.Generate("no_coherence")
		require.NoError(t, err)
		assert.Equal(t, 0.0, cfg.Weights.Coherence)
		assert.Equal(t, 0.32, cfg.Weights.Education)
		assert.InDelta(t, 1.0, cfg.Weights.Sum(), 1e-9)
		assert.Equal(t, "Without Coherence", cfg.Ablation.Name)
	})

	t.Run("university tiers flattened", func(t *testing.T) {
		cfg, err := engine.Generate("no_university_tiers")
		require.NoError(t, err)
		assert.Empty(t, cfg.UniversityTiers.Entries)
		assert.Equal(t, 0.6, cfg.UniversityTiers.Lookup("MIT").Score)
		assert.Equal(t, base.DegreeLevels, cfg.DegreeLevels)
	})

	t.Run("seniority emptied", func(t *testing.T) {
		cfg, err := engine.Generate("no_seniority")
		require.NoError(t, err)
		assert.Empty(t, cfg.SeniorityLevels.Entries)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := engine.Generate("nope")
		var unknown *UnknownAblationError
		assert.True(t, errors.As(err, &unknown))
	})
}

func TestGenerate_DoesNotMutateBaseline(t *testing.T) {
	base := rubric.Default()
	before, err := base.ToMap()
	require.NoError(t, err)

	engine := NewEngine(base)
	for _, id := range Names() {
		_, err := engine.Generate(id)
		require.NoError(t, err, id)
	}

	after, err := base.ToMap()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Nil(t, base.Ablation)
}

func TestCompare_MissingBaseline(t *testing.T) {
	_, err := Compare(map[string]types.AblationRun{
		"no_coherence": run("no_coherence", "Without Coherence", 0.5, 0.5, 0.5, 0.5),
	})
	var missing *MissingBaselineError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "ablation error: baseline results required for comparison", err.Error())
}

func TestCompare_IdenticalAblationHasNoImpact(t *testing.T) {
	report, err := Compare(map[string]types.AblationRun{
		BaselineID:        run(BaselineID, "Baseline", 0.8, 0.9, 0.85, 0.9, 0.95),
		"uniform_weights": run("uniform_weights", "Uniform Component Weights", 0.8, 0.9, 0.85, 0.9, 0.95),
	})
	require.NoError(t, err)
	require.Len(t, report.Comparisons, 1)

	cmp := report.Comparisons[0]
	assert.Equal(t, 0.0, cmp.OverallImpact)
	assert.Empty(t, cmp.Insights)
	assert.Equal(t, 4, cmp.MetricsAvailable)
	assert.Equal(t, 1.0, cmp.Confidence)
	assert.Equal(t, 0.0, cmp.MetricChanges[types.MetricKendallTau].PercentChange)
	assert.Equal(t,
		"Conducted 1 ablation studies. 0 components are critical (removing hurts performance), "+
			"1 have minimal impact, 0 may be redundant (removing helps).",
		report.Summary)
}

func TestCompare_ImpactInsightsAndOrder(t *testing.T) {
	report, err := Compare(map[string]types.AblationRun{
		BaselineID:        run(BaselineID, "Baseline", 0.8, 0.9, 0.85, 0.9, 0.95),
		"uniform_weights": run("uniform_weights", "Uniform Component Weights", 0.8, 0.9, 0.85, 0.9, 0.95),
		"no_coherence":    run("no_coherence", "Without Coherence", 0.6, 0.7, 0.65, 0.7, 0.75),
		"no_seniority":    run("no_seniority", "Without Seniority Detection", 0.9, 0.9, 0.85, 0.9, 0.95),
	})
	require.NoError(t, err)
	require.Len(t, report.Comparisons, 3)

	assert.Equal(t, "no_coherence", report.Comparisons[0].Ablation)
	assert.Equal(t, "no_seniority", report.Comparisons[1].Ablation)
	assert.Equal(t, "uniform_weights", report.Comparisons[2].Ablation)

	critical := report.Comparisons[0]
	assert.Equal(t, -0.2, critical.OverallImpact)
	tau := critical.MetricChanges[types.MetricKendallTau]
	assert.Equal(t, 0.8, tau.Baseline)
	assert.Equal(t, 0.6, tau.Ablation)
	assert.Equal(t, -0.2, tau.AbsoluteChange)
	assert.Equal(t, -25.0, tau.PercentChange)
	require.Len(t, critical.Insights, 5)
	assert.Equal(t, "Without Coherence is critical: removing it decreased performance by 0.2000", critical.Insights[0])
	assert.Equal(t, "Without Coherence: kendall_tau changed by -25.0% (0.8000 -> 0.6000)", critical.Insights[1])

	assert.Equal(t, 0.025, report.Comparisons[1].OverallImpact)
	assert.Empty(t, report.Comparisons[1].Insights)

	assert.Equal(t, []string{
		"Removing Without Coherence had the largest impact, degraded performance by 0.2000",
		"Surprisingly, removing Without Seniority Detection improved performance, suggesting potential over-fitting or redundancy",
		"Critical components: Without Coherence - removing these significantly degraded performance",
	}, report.Insights)
	assert.Equal(t,
		"Conducted 3 ablation studies. 1 components are critical (removing hurts performance), "+
			"2 have minimal impact, 0 may be redundant (removing helps).",
		report.Summary)
	assert.InDelta(t, 0.925, report.BaselineMetrics[types.MetricAvgNDCG], 1e-9)
}

func TestCompare_UnavailableMetrics(t *testing.T) {
	failed := types.AblationRun{
		ID:             "no_seniority",
		Name:           "Without Seniority Detection",
		RankingMetrics: types.RankingMetricsResult{Error: "Insufficient common candidates for ranking evaluation"},
	}
	noPairs := run("no_coherence", "Without Coherence", 0.4, 0.5, 0, 0.5)
	noPairs.RankingMetrics.PairwiseAccuracy.TotalPairs = 0

	report, err := Compare(map[string]types.AblationRun{
		BaselineID:     run(BaselineID, "Baseline", 0.8, 0.9, 0.85, 0.9),
		"no_seniority": failed,
		"no_coherence": noPairs,
	})
	require.NoError(t, err)
	require.Len(t, report.Comparisons, 2)

	byID := map[string]types.AblationComparison{}
	for _, c := range report.Comparisons {
		byID[c.Ablation] = c
	}

	assert.Equal(t, 0, byID["no_seniority"].MetricsAvailable)
	assert.Equal(t, 0.0, byID["no_seniority"].Confidence)
	assert.Equal(t, 0.0, byID["no_seniority"].OverallImpact)
	assert.Empty(t, byID["no_seniority"].MetricChanges)

	partial := byID["no_coherence"]
	assert.Equal(t, 3, partial.MetricsAvailable)
	assert.Equal(t, 0.75, partial.Confidence)
	assert.NotContains(t, partial.MetricChanges, types.MetricPairwiseAccuracy)
	assert.Equal(t, -0.4, partial.OverallImpact)
}

func TestCompare_PercentChangeFollowsDirectionOfChange(t *testing.T) {
	report, err := Compare(map[string]types.AblationRun{
		BaselineID:     run(BaselineID, "Baseline", -0.5, 0.4, 0.5, 0.5),
		"no_coherence": run("no_coherence", "Without Coherence", -0.25, 0.2, 0.5, 0.5),
	})
	require.NoError(t, err)
	require.Len(t, report.Comparisons, 1)

	changes := report.Comparisons[0].MetricChanges
	assert.Equal(t, 0.25, changes[types.MetricKendallTau].AbsoluteChange)
	assert.Equal(t, 50.0, changes[types.MetricKendallTau].PercentChange, "a rise from a negative baseline is a positive change")
	assert.Equal(t, -50.0, changes[types.MetricSpearmanRho].PercentChange)
}

func TestCompare_BaselineOnly(t *testing.T) {
	report, err := Compare(map[string]types.AblationRun{
		BaselineID: run(BaselineID, "Baseline", 0.8, 0.9, 0.85, 0.9),
	})
	require.NoError(t, err)
	assert.Empty(t, report.Comparisons)
	assert.Empty(t, report.Insights)
	assert.Equal(t, "No ablation comparisons available", report.Summary)
}

func TestEngine_Run(t *testing.T) {
	engine := NewEngine(rubric.Default(),
		WithWorkers(2),
		WithScorerOptions(scoring.WithClock(func() time.Time {
			return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		})),
	)

	records := []types.CandidateRecord{
		{
			ID: "alice", Name: "Alice",
			Education:  []types.EducationEntry{{Degree: "PhD", Field: "Computer Science", University: "MIT"}},
			Experience: []types.ExperienceEntry{{Title: "Senior Engineer", Org: "Acme", Start: "2018", End: "2024"}},
		},
		{
			ID: "bob", Name: "Bob",
			Education: []types.EducationEntry{{Degree: "BS", Field: "History", University: "State College"}},
		},
		{ID: "carol", Name: "Carol"},
	}
	reference := map[string]float64{"alice": 0.9, "bob": 0.5, "carol": 0.1}

	runs, err := engine.Run(context.Background(), nil, records, reference)
	require.NoError(t, err)
	require.Len(t, runs, len(Names()))

	baseline := runs[BaselineID]
	assert.Len(t, baseline.Scores, 3)
	assert.True(t, baseline.RankingMetrics.OK())
	assert.NotEmpty(t, baseline.RunID)
	assert.Equal(t, 1.0, baseline.RankingMetrics.KendallTau.Tau)
	for id, r := range runs {
		assert.Equal(t, id, r.ID)
		assert.Len(t, r.Scores, 3, id)
	}

	report, err := Compare(runs)
	require.NoError(t, err)
	assert.Len(t, report.Comparisons, len(Names())-1)
}

func TestEngine_RunUnknownAblation(t *testing.T) {
	engine := NewEngine(rubric.Default())
	_, err := engine.Run(context.Background(), []string{BaselineID, "missing"}, nil, nil)
	var unknown *UnknownAblationError
	assert.True(t, errors.As(err, &unknown))
}

func TestEngine_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(rubric.Default(), WithWorkers(1)).Run(ctx, []string{BaselineID}, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ablations")
	require.NoError(t, NewEngine(rubric.Default()).Export(dir))

	for _, id := range Names() {
		data, err := os.ReadFile(filepath.Join(dir, "config_"+id+".json"))
		require.NoError(t, err, id)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		meta, ok := doc["_ablation"].(map[string]any)
		require.True(t, ok, id)
		assert.Equal(t, id, meta["id"])
	}

	data, err := os.ReadFile(filepath.Join(dir, "config_uniform_weights.json"))
	require.NoError(t, err)
	var doc struct {
		Weights rubric.Weights `json:"weights"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 0.2, doc.Weights.Coherence)
}
