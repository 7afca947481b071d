package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{
		Namespace: "test",
		Subsystem: "unit",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollectorRequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestRegisterCounterAndScrape(t *testing.T) {
	c := newTestCollector(t)

	vec := c.RegisterCounter("widgets_total", "Widgets produced", "kind")
	vec.WithLabelValues("round").Inc()
	vec.WithLabelValues("round").Add(2)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_widgets_total")
	assert.Contains(t, out, `kind="round"`)
	assert.Contains(t, out, "3")
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)

	vec := c.RegisterGauge("queue_depth", "Pending items", "queue")
	g := vec.WithLabelValues("ingest")
	g.Set(5)
	g.Inc()
	g.Dec()
	g.Add(3)
	g.Sub(1)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_queue_depth")
	assert.Contains(t, out, "7")
}

func TestRegisterHistogram(t *testing.T) {
	c := newTestCollector(t)

	vec := c.RegisterHistogram("op_duration_seconds", "Operation duration", []float64{0.1, 1, 10}, "op")
	vec.WithLabelValues("extract").Observe(0.5)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_op_duration_seconds_bucket")
	assert.Contains(t, out, "test_unit_op_duration_seconds_count")
}

func TestRegisterHistogramNilBucketsUseDefaults(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterHistogram("latency_seconds", "Latency", nil, "op")
	assert.NotPanics(t, func() {
		vec.WithLabelValues("x").Observe(0.01)
	})
}

func TestReRegistrationReturnsExistingCollector(t *testing.T) {
	c := newTestCollector(t)

	first := c.RegisterCounter("dups_total", "Duplicate registration", "kind")
	second := c.RegisterCounter("dups_total", "Duplicate registration", "kind")

	first.WithLabelValues("a").Inc()
	second.WithLabelValues("a").Inc()

	out := scrapeMetrics(t, c)
	// Both handles feed the same underlying series.
	assert.Contains(t, out, "2")
}

func TestTypeMismatchDegradesToNoop(t *testing.T) {
	c := newTestCollector(t)

	c.RegisterCounter("shared_name", "Registered as counter", "kind")
	gauge := c.RegisterGauge("shared_name", "Re-registered as gauge", "kind")

	assert.NotPanics(t, func() {
		gauge.WithLabelValues("a").Set(1)
	})
}

func TestTimerObservesDuration(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterHistogram("timed_seconds", "Timed op", []float64{0.001, 1, 60})

	timer := NewTimer(vec.WithLabelValues())
	timer.ObserveDuration()

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_timed_seconds_count 1")
}

func TestTimerNilHistogram(t *testing.T) {
	assert.NotPanics(t, func() {
		NewTimer(nil).ObserveDuration()
	})
}
