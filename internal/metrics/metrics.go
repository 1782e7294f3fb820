// Package metrics exposes the service's Prometheus metrics.
//
// Every Metrics value owns a private registry, so tests can build as many
// independent instances as they like without colliding on the default one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UnmatchedPath labels requests that did not match any route, keeping the
// path label's cardinality bounded.
const UnmatchedPath = "unmatched"

type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	exceptions *prometheus.CounterVec
}

// New registers the HTTP metrics, the Go runtime and process collectors,
// and a constant crm_app_info gauge.
func New(version, environment string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		exceptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_exceptions_total",
			Help: "Total number of HTTP requests that ended in a server error.",
		}, []string{"method", "status"}),
	}

	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "crm_app_info",
		Help:        "CRM API application info.",
		ConstLabels: prometheus.Labels{"version": version, "environment": environment},
	})
	info.Set(1)

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.exceptions,
		info,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one finished request. path should be the route template,
// not the raw URL path.
func (m *Metrics) Observe(method, path string, status int, elapsed time.Duration) {
	if path == "" {
		path = UnmatchedPath
	}
	code := strconv.Itoa(status)

	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	if status >= http.StatusInternalServerError {
		m.exceptions.WithLabelValues(method, code).Inc()
	}
}

// Handler serves the registry in the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
