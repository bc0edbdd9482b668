package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetchLatency("Redis", time.Millisecond)
		m.IncrementOutcome("Redis", OutcomeSucceeded, "")
		m.IncrementClassification("Art")
		m.ObserveRun(time.Second, 3)
	})
}

func TestRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementOutcome("MongoDB", OutcomeSkipped, "not_found")
	m.IncrementOutcome("MongoDB", OutcomeSkipped, "not_found")
	m.IncrementClassification("Sports")
	m.ObserveFetchLatency("MongoDB", 20*time.Millisecond)
	m.ObserveRun(2*time.Second, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SourceOutcome.WithLabelValues("MongoDB", OutcomeSkipped, "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Classifications.WithLabelValues("Sports")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LastRunQuestions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FetchLatency))
}
