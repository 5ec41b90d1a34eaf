package ablation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-ranker/internal/types"
)

const (
	// impactThreshold separates critical and redundant features from minimal ones
	impactThreshold = 0.05
	// improvementThreshold marks an ablation that improved ranking quality
	improvementThreshold = 0.01
	// percentInsightThreshold is the per-metric percent change worth calling out
	percentInsightThreshold = 20.0
)

// Compare measures every non-baseline run against the baseline run. Only metrics present in
// both runs are compared; overall impact is the mean signed change across those metrics, with
// Confidence recording what share of the headline metrics was available.
func Compare(runs map[string]types.AblationRun) (types.AblationReport, error) {
	baseline, ok := runs[BaselineID]
	if !ok {
		return types.AblationReport{}, &MissingBaselineError{}
	}
	baseMetrics := baseline.Headline()

	comparisons := make([]types.AblationComparison, 0, len(runs)-1)
	for _, id := range orderedIDs(runs) {
		if id == BaselineID {
			continue
		}
		comparisons = append(comparisons, compareRun(runs[id], baseMetrics))
	}
	sort.SliceStable(comparisons, func(i, j int) bool {
		return math.Abs(comparisons[i].OverallImpact) > math.Abs(comparisons[j].OverallImpact)
	})

	return types.AblationReport{
		BaselineMetrics: baseMetrics,
		Comparisons:     comparisons,
		Insights:        globalInsights(comparisons),
		Summary:         summarize(comparisons),
	}, nil
}

// orderedIDs lists catalogue ids in catalogue order followed by any others sorted by name
func orderedIDs(runs map[string]types.AblationRun) []string {
	ids := make([]string, 0, len(runs))
	seen := make(map[string]bool, len(runs))
	for _, id := range Names() {
		if _, ok := runs[id]; ok {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	var extra []string
	for id := range runs {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(ids, extra...)
}

func compareRun(run types.AblationRun, baseMetrics map[string]float64) types.AblationComparison {
	metrics := run.Headline()
	cmp := types.AblationComparison{
		Ablation:      run.ID,
		Name:          run.Name,
		Description:   run.Description,
		MetricChanges: make(map[string]types.MetricChange),
		Insights:      []string{},
	}

	total := 0.0
	for _, name := range types.HeadlineMetrics {
		base, okBase := baseMetrics[name]
		value, okRun := metrics[name]
		if !okBase || !okRun {
			continue
		}
		change := value - base
		pct := 0.0
		if base != 0 {
			pct = change / math.Abs(base) * 100
		}
		cmp.MetricChanges[name] = types.MetricChange{
			Baseline:       round(base, 4),
			Ablation:       round(value, 4),
			AbsoluteChange: round(change, 4),
			PercentChange:  round(pct, 2),
		}
		cmp.MetricsAvailable++
		total += change
	}

	if cmp.MetricsAvailable > 0 {
		cmp.OverallImpact = round(total/float64(cmp.MetricsAvailable), 4)
	}
	cmp.Confidence = round(float64(cmp.MetricsAvailable)/float64(len(types.HeadlineMetrics)), 4)
	cmp.Insights = runInsights(cmp)
	return cmp
}

func runInsights(cmp types.AblationComparison) []string {
	insights := []string{}
	switch {
	case cmp.OverallImpact < -impactThreshold:
		insights = append(insights, fmt.Sprintf(
			"%s is critical: removing it decreased performance by %.4f", cmp.Name, -cmp.OverallImpact))
	case cmp.OverallImpact > impactThreshold:
		insights = append(insights, fmt.Sprintf(
			"%s may be redundant: removing it improved performance by %.4f", cmp.Name, cmp.OverallImpact))
	}

	for _, name := range types.HeadlineMetrics {
		change, ok := cmp.MetricChanges[name]
		if !ok || math.Abs(change.PercentChange) <= percentInsightThreshold {
			continue
		}
		insights = append(insights, fmt.Sprintf("%s: %s changed by %.1f%% (%.4f -> %.4f)",
			cmp.Name, name, change.PercentChange, change.Baseline, change.Ablation))
	}
	return insights
}

func globalInsights(comparisons []types.AblationComparison) []string {
	insights := []string{}
	if len(comparisons) == 0 {
		return insights
	}

	top := comparisons[0]
	if math.Abs(top.OverallImpact) > impactThreshold {
		direction := "improved"
		if top.OverallImpact < 0 {
			direction = "degraded"
		}
		insights = append(insights, fmt.Sprintf("Removing %s had the largest impact, %s performance by %.4f",
			top.Name, direction, math.Abs(top.OverallImpact)))
	} else {
		insights = append(insights, fmt.Sprintf("Removing %s had minimal impact on overall performance", top.Name))
	}

	var improved, critical []string
	for _, c := range comparisons {
		if c.OverallImpact > improvementThreshold {
			improved = append(improved, c.Name)
		}
		if c.OverallImpact < -impactThreshold {
			critical = append(critical, c.Name)
		}
	}
	if len(improved) > 0 {
		insights = append(insights, fmt.Sprintf(
			"Surprisingly, removing %s improved performance, suggesting potential over-fitting or redundancy",
			strings.Join(improved, ", ")))
	}
	if len(critical) > 0 {
		insights = append(insights, fmt.Sprintf(
			"Critical components: %s - removing these significantly degraded performance",
			strings.Join(critical, ", ")))
	}
	return insights
}

func summarize(comparisons []types.AblationComparison) string {
	if len(comparisons) == 0 {
		return "No ablation comparisons available"
	}

	var critical, minimal, redundant int
	for _, c := range comparisons {
		switch {
		case c.OverallImpact < -impactThreshold:
			critical++
		case c.OverallImpact > impactThreshold:
			redundant++
		default:
			minimal++
		}
	}
	return fmt.Sprintf(
		"Conducted %d ablation studies. %d components are critical (removing hurts performance), "+
			"%d have minimal impact, %d may be redundant (removing helps).",
		len(comparisons), critical, minimal, redundant)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
