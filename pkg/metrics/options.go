package metrics

import "github.com/prometheus/client_golang/prometheus"

// Default metrics configuration constants.
const defaultNamespace = "ipl_elo"

func defaultHistogramBuckets() []float64 {
	return []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000, 60000}
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the metric namespace prefix.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithHistogramBuckets overrides the default latency buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithPrometheusRegistry uses a caller-supplied registry instead of a
// fresh one, mainly for tests.
func WithPrometheusRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}
