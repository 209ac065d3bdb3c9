// Package metrics provides Prometheus metrics for the smashden hub.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the hub exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Match flow
	reportsApplied   prometheus.Counter
	reportsDuplicate prometheus.Counter
	reportsRejected  *prometheus.CounterVec
	playersAdded     prometheus.Counter
	ratingSwing      prometheus.Histogram
	seasonResets     prometheus.Counter

	// Roster and live state
	rosterSize  prometheus.Gauge
	liveClients prometheus.Gauge

	// Record store
	storeReadLatency  prometheus.Histogram
	storeWriteLatency prometheus.Histogram

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager on a custom registry so the default Go collectors stay out
// of /healthz unless main registers them explicitly.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all metrics with the
// configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "smashden",
		subsystem:        "hub",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.reportsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_applied_total",
		Help:      "Total number of match reports that updated the roster",
	})

	m.reportsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_duplicate_total",
		Help:      "Total number of match reports dropped as duplicate submissions",
	})

	m.reportsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_rejected_total",
		Help:      "Total number of match reports rejected, labelled by reason",
	}, []string{"reason"})

	m.playersAdded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_added_total",
		Help:      "Total number of players added to the roster",
	})

	m.ratingSwing = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_swing_points",
		Help:      "Histogram of absolute rating change per applied report",
		Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
	})

	m.seasonResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "season_resets_total",
		Help:      "Total number of season rollovers that reset the roster ratings",
	})

	m.rosterSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_size",
		Help:      "Current number of players in the roster",
	})

	m.liveClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "live_clients",
		Help:      "Current number of connected live-update clients",
	})

	m.storeReadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_read_latency_milliseconds",
		Help:      "Histogram of roster read latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_write_latency_milliseconds",
		Help:      "Histogram of roster write latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by endpoint, method, and status code",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Package-level helpers recording through the global manager.

// RecordReportApplied counts a match report that updated the roster.
func RecordReportApplied() {
	globalManager.reportsApplied.Inc()
}

// RecordReportDuplicate counts a report dropped by the dedupe cache.
func RecordReportDuplicate() {
	globalManager.reportsDuplicate.Inc()
}

// RecordReportRejected counts a rejected report by reason.
func RecordReportRejected(reason string) {
	globalManager.reportsRejected.WithLabelValues(reason).Inc()
}

// RecordPlayerAdded counts a roster signup.
func RecordPlayerAdded() {
	globalManager.playersAdded.Inc()
}

// ObserveRatingSwing records the absolute rating delta of an applied report.
func ObserveRatingSwing(points float64) {
	globalManager.ratingSwing.Observe(points)
}

// RecordSeasonReset counts a season rollover.
func RecordSeasonReset() {
	globalManager.seasonResets.Inc()
}

// UpdateRosterSize sets the roster size gauge.
func UpdateRosterSize(size int) {
	globalManager.rosterSize.Set(float64(size))
}

// UpdateLiveClients sets the connected live-client gauge.
func UpdateLiveClients(count int) {
	globalManager.liveClients.Set(float64(count))
}

// ObserveStoreRead records a roster read duration in milliseconds.
func ObserveStoreRead(latencyMs float64) {
	globalManager.storeReadLatency.Observe(latencyMs)
}

// ObserveStoreWrite records a roster write duration in milliseconds.
func ObserveStoreWrite(latencyMs float64) {
	globalManager.storeWriteLatency.Observe(latencyMs)
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// GetRegistry returns the custom registry backing the global manager; the
// health endpoint serves it.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
