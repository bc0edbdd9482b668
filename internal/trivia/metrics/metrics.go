package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeSkipped   = "skipped"
)

// Metrics provides observability for aggregation runs.
type Metrics struct {
	// Fetch latencies by source
	FetchLatency *prometheus.HistogramVec

	// Per-source outcomes by failure kind ("" on success)
	SourceOutcome *prometheus.CounterVec

	// Classification results by category
	Classifications *prometheus.CounterVec

	// Overall run latency
	RunLatency prometheus.Histogram

	// Questions produced by the last run
	LastRunQuestions prometheus.Gauge
}

// New creates the aggregation metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trivia_source_fetch_duration_seconds",
			Help:    "Duration of one random fetch by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),

		SourceOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trivia_source_outcomes_total",
			Help: "Per-source outcomes of aggregation runs",
		}, []string{"source", "outcome", "kind"}),

		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trivia_classifications_total",
			Help: "Questions labelled by category",
		}, []string{"category"}),

		RunLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trivia_run_duration_seconds",
			Help:    "Duration of a full aggregation run",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		LastRunQuestions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "trivia_last_run_questions",
			Help: "Number of questions produced by the most recent run",
		}),
	}
}

// ObserveFetchLatency records the duration of fetching from a source.
func (m *Metrics) ObserveFetchLatency(source string, d time.Duration) {
	if m != nil {
		m.FetchLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementOutcome records how a source ended in a run.
func (m *Metrics) IncrementOutcome(source, outcome, kind string) {
	if m != nil {
		m.SourceOutcome.WithLabelValues(source, outcome, kind).Inc()
	}
}

// IncrementClassification records a category assignment.
func (m *Metrics) IncrementClassification(category string) {
	if m != nil {
		m.Classifications.WithLabelValues(category).Inc()
	}
}

// ObserveRun records the run duration and its question count.
func (m *Metrics) ObserveRun(d time.Duration, questions int) {
	if m != nil {
		m.RunLatency.Observe(d.Seconds())
		m.LastRunQuestions.Set(float64(questions))
	}
}
