package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonathan/resume-ranker/internal/types"
)

// Metric names as constants for consistency.
const (
	MetricCandidatesScoredTotal   = "ranker_candidates_scored_total"
	MetricFinalScore              = "ranker_final_score"
	MetricRankingCorrelation      = "ranker_ranking_correlation"
	MetricFaithfulnessChecksTotal = "ranker_faithfulness_checks_total"
	MetricFaithfulnessScore       = "ranker_faithfulness_global_score"
	MetricAblationImpact          = "ranker_ablation_overall_impact"
	MetricStageDuration           = "ranker_stage_duration_seconds"
)

// Check result label values
const (
	ResultPassed = "passed"
	ResultFailed = "failed"
)

// Metrics contains Prometheus metrics for an evaluation run.
// All operations are thread-safe.
type Metrics struct {
	candidatesScored  *prometheus.CounterVec
	finalScores       prometheus.Histogram
	rankingMetric     *prometheus.GaugeVec
	faithfulnessCheck *prometheus.CounterVec
	faithfulnessScore prometheus.Gauge
	ablationImpact    *prometheus.GaugeVec
	stageDuration     *prometheus.HistogramVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		candidatesScored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCandidatesScoredTotal,
				Help: "Total number of candidates scored by grade",
			},
			[]string{"grade"},
		),
		finalScores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricFinalScore,
				Help:    "Histogram of candidate final scores",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
		rankingMetric: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricRankingCorrelation,
				Help: "Agreement between system and reference rankings by metric",
			},
			[]string{"metric"},
		),
		faithfulnessCheck: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricFaithfulnessChecksTotal,
				Help: "Total number of faithfulness checks by check and result",
			},
			[]string{"check", "result"},
		),
		faithfulnessScore: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricFaithfulnessScore,
				Help: "Mean faithfulness score across verified comparisons",
			},
		),
		ablationImpact: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricAblationImpact,
				Help: "Mean headline metric change when the ablation is applied",
			},
			[]string{"ablation"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricStageDuration,
				Help:    "Histogram of evaluation stage duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"stage"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.candidatesScored,
		m.finalScores,
		m.rankingMetric,
		m.faithfulnessCheck,
		m.faithfulnessScore,
		m.ablationImpact,
		m.stageDuration,
	}
}

// ObserveScores records one sample per candidate score
func (m *Metrics) ObserveScores(scores []types.CandidateScore) {
	for _, s := range scores {
		m.candidatesScored.WithLabelValues(string(s.Grade)).Inc()
		m.finalScores.Observe(s.FinalScore)
	}
}

// SetRankingMetrics publishes the headline ranking metrics. Unavailable metrics are left unset.
func (m *Metrics) SetRankingMetrics(result types.RankingMetricsResult) {
	run := types.AblationRun{RankingMetrics: result}
	for name, value := range run.Headline() {
		m.rankingMetric.WithLabelValues(name).Set(value)
	}
}

// ObserveFaithfulness counts check outcomes and publishes the global score
func (m *Metrics) ObserveFaithfulness(reports []types.FaithfulnessReport, global types.GlobalFaithfulness) {
	for _, r := range reports {
		for _, c := range r.Checks {
			result := ResultFailed
			if c.Passed {
				result = ResultPassed
			}
			m.faithfulnessCheck.WithLabelValues(string(c.Check), result).Inc()
		}
	}
	m.faithfulnessScore.Set(global.GlobalScore)
}

// SetAblationImpacts publishes the overall impact of every compared ablation
func (m *Metrics) SetAblationImpacts(report types.AblationReport) {
	for _, c := range report.Comparisons {
		m.ablationImpact.WithLabelValues(c.Ablation).Set(c.OverallImpact)
	}
}

// ObserveStageDuration records how long one pipeline stage took.
// stage: the pipeline step name (e.g., "scoring", "ablation")
// seconds: duration of the stage in seconds
func (m *Metrics) ObserveStageDuration(stage string, seconds float64) {
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// WriteTextfile gathers the registry and writes it in the Prometheus text format, for the
// node exporter textfile collector or for archiving next to the run artifacts.
func WriteTextfile(reg prometheus.Gatherer, path string) error {
	return prometheus.WriteToTextfile(path, reg)
}
