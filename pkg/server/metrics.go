package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's Prometheus collectors on a private
// registry so multiple Server instances never collide.
type metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{registry: prometheus.NewRegistry()}

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "apex",
		Name:      "requests_total",
		Help:      "Requests handled, labelled by resolution outcome.",
	}, []string{"outcome"})

	m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "apex",
		Name:      "request_duration_seconds",
		Help:      "Request handling duration by resolution outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	m.registry.MustRegister(m.requests, m.duration)
	return m
}

// observe records one handled request.
func (m *metrics) observe(outcome string, d time.Duration) {
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

// handler exposes the private registry in Prometheus text format.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
