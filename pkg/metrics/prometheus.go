// Package metrics provides Prometheus metrics for the rating pipeline
// and the leaderboard API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector for the service.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Rating pipeline - what the fold actually did
	deliveriesRated    prometheus.Counter
	deliveriesExcluded prometheus.Counter
	deliveriesInvalid  prometheus.Counter
	runDuration        prometheus.Histogram

	// Snapshot recording
	snapshotsRecorded prometheus.Counter
	snapshotsDropped  prometheus.Counter
	snapshotQueueSize prometheus.Gauge

	// Dataset gauges
	playerCount prometheus.Gauge
	venueCount  prometheus.Gauge

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		histogramBuckets: defaultHistogramBuckets(),
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.deliveriesRated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "deliveries_rated_total",
		Help:      "Deliveries that produced a rating update.",
	})
	m.deliveriesExcluded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "deliveries_excluded_total",
		Help:      "Deliveries excluded from rating updates (wides, no-balls).",
	})
	m.deliveriesInvalid = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "deliveries_invalid_total",
		Help:      "Deliveries rejected as malformed or out of order.",
	})
	m.runDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of rating runs.",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotsRecorded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "snapshots_recorded_total",
		Help:      "Rating snapshots persisted by the recorder.",
	})
	m.snapshotsDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "snapshots_dropped_total",
		Help:      "Rating snapshots dropped on recorder backpressure.",
	})
	m.snapshotQueueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "snapshot_queue_size",
		Help:      "Snapshots waiting to be persisted.",
	})

	m.playerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "players_tracked",
		Help:      "Distinct players with at least one rating.",
	})
	m.venueCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "venues_tracked",
		Help:      "Venues with a computed factor.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Package-level helpers operate on the global manager.

// RecordDeliveryRated counts a delivery that updated ratings.
func RecordDeliveryRated() { globalManager.deliveriesRated.Inc() }

// RecordDeliveryExcluded counts a delivery excluded from rating.
func RecordDeliveryExcluded() { globalManager.deliveriesExcluded.Inc() }

// RecordDeliveryInvalid counts a rejected delivery.
func RecordDeliveryInvalid() { globalManager.deliveriesInvalid.Inc() }

// RecordRunDuration observes a completed rating run.
func RecordRunDuration(seconds float64) { globalManager.runDuration.Observe(seconds) }

// RecordSnapshotRecorded counts a persisted snapshot.
func RecordSnapshotRecorded() { globalManager.snapshotsRecorded.Inc() }

// RecordSnapshotDropped counts a snapshot lost to backpressure.
func RecordSnapshotDropped() { globalManager.snapshotsDropped.Inc() }

// UpdateSnapshotQueueSize sets the pending-snapshot gauge.
func UpdateSnapshotQueueSize(n int) { globalManager.snapshotQueueSize.Set(float64(n)) }

// UpdatePlayerCount sets the tracked-player gauge.
func UpdatePlayerCount(n int) { globalManager.playerCount.Set(float64(n)) }

// UpdateVenueCount sets the tracked-venue gauge.
func UpdateVenueCount(n int) { globalManager.venueCount.Set(float64(n)) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request's latency.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// GetRegistry exposes the registry backing the global manager for the
// /healthz exposition handler.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}
