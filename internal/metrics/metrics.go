// Package metrics defines the Prometheus collectors of the editor server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "projection_editor"

// Metrics groups the collectors. Each instance owns a registry so tests and
// multiple servers in one process do not collide.
type Metrics struct {
	registry       *prometheus.Registry
	operations     *prometheus.CounterVec
	importFailures *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New creates and registers the collectors, plus the Go runtime and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Editor operations applied, by operation and variant.",
			},
			[]string{"operation", "variant"},
		),
		importFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_failures_total",
				Help:      "Imports rejected because the text was not valid JSON.",
			},
			[]string{"variant"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route pattern, method and status.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
	}
	m.registry.MustRegister(
		m.operations,
		m.importFailures,
		m.httpDuration,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Operation counts one applied editor operation.
func (m *Metrics) Operation(operation, variant string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, variant).Inc()
}

// ImportFailure counts one malformed import.
func (m *Metrics) ImportFailure(variant string) {
	if m == nil {
		return
	}
	m.importFailures.WithLabelValues(variant).Inc()
}

// ObserveHTTP records the latency of one request.
func (m *Metrics) ObserveHTTP(route, method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
