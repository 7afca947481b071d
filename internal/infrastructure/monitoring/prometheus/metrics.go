package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds every metric the LexMeta services emit.
type AppMetrics struct {
	// HTTP layer.
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Extraction pipeline.
	ExtractionsTotal       CounterVec
	ExtractionDuration     HistogramVec
	ExtractionFieldsFilled HistogramVec
	BatchDocumentsTotal    CounterVec
	BatchDuration          HistogramVec

	// Document intake.
	DocumentsLoadedTotal CounterVec
	DocumentSizeBytes    HistogramVec

	// Persistence and distribution.
	DBQueryDuration    HistogramVec
	CacheHitsTotal     CounterVec
	CacheMissesTotal   CounterVec
	EventsPublished    CounterVec
	IndexedCasesTotal  CounterVec
	ArchivedBytesTotal CounterVec

	// System health.
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default histogram buckets.
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultExtractionBuckets   = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}
	DefaultSizeBuckets         = []float64{1000, 10000, 100000, 1000000, 10000000}
	DefaultDBDurationBuckets   = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	fieldCountBuckets          = []float64{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}
)

// NewAppMetrics registers the full metric set against the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	m.ExtractionsTotal = collector.RegisterCounter("extractions_total", "Opinion extractions performed", "source")
	m.ExtractionDuration = collector.RegisterHistogram("extraction_duration_ms", "Extraction duration in milliseconds", DefaultExtractionBuckets)
	m.ExtractionFieldsFilled = collector.RegisterHistogram("extraction_fields_filled", "Resolved fields per extracted record", fieldCountBuckets)
	m.BatchDocumentsTotal = collector.RegisterCounter("batch_documents_total", "Documents processed in batch runs", "status")
	m.BatchDuration = collector.RegisterHistogram("batch_duration_seconds", "Batch run duration", []float64{1, 5, 15, 60, 300, 900, 3600})

	m.DocumentsLoadedTotal = collector.RegisterCounter("documents_loaded_total", "Opinion files loaded", "source", "status")
	m.DocumentSizeBytes = collector.RegisterHistogram("document_size_bytes", "Loaded opinion size", DefaultSizeBuckets)

	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Events published to the broker", "topic", "status")
	m.IndexedCasesTotal = collector.RegisterCounter("indexed_cases_total", "Case records indexed for search", "status")
	m.ArchivedBytesTotal = collector.RegisterCounter("archived_bytes_total", "Raw opinion bytes archived to object storage")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// RecordExtraction satisfies the extraction pipeline's Metrics interface.
func (m *AppMetrics) RecordExtraction(durationMs float64, resolvedFields int) {
	m.ExtractionsTotal.WithLabelValues("direct").Inc()
	m.ExtractionDuration.WithLabelValues().Observe(durationMs)
	m.ExtractionFieldsFilled.WithLabelValues().Observe(float64(resolvedFields))
}

// RecordHTTPRequest records the standard per-request HTTP metrics.
func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDBQuery records query latency and classifies failures.
func RecordDBQuery(metrics *AppMetrics, operation string, duration time.Duration, err error) {
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("postgres", "query_error").Inc()
	}
}

// RecordCacheAccess records a cache hit or miss.
func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordError counts an error against its originating component.
func RecordError(metrics *AppMetrics, component, errorType string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
