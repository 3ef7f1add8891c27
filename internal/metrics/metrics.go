// Package metrics exposes Prometheus metrics for proxied requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the proxy's Prometheus collectors.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gemini_proxy_requests_total",
				Help: "Total number of proxied requests by method, outcome and status code",
			},
			[]string{"method", "outcome", "code"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gemini_proxy_upstream_duration_seconds",
				Help:    "Latency of upstream calls in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"code"},
		),
		registry: registry,
	}
	registry.MustRegister(m.requestsTotal, m.upstreamDuration)
	return m
}

// ObserveRequest counts a completed request.
func (m *Metrics) ObserveRequest(method, outcome string, code int) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, outcome, strconv.Itoa(code)).Inc()
}

// ObserveUpstream records the duration of an upstream call. code is 0 when no response was received.
func (m *Metrics) ObserveUpstream(code int, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(strconv.Itoa(code)).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler serving the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
