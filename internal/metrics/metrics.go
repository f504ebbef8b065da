// ABOUTME: Prometheus metrics for the HTTP server and the tracker.
// ABOUTME: Uses a private registry so tests can build independent instances.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shapementor"

// Metrics holds every collector the service exports. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	RecordsCreated   *prometheus.CounterVec
	RecordsDeleted   *prometheus.CounterVec
	CaloriesComputed *prometheus.CounterVec
	LookupMisses     *prometheus.CounterVec
	RateUpserts      *prometheus.CounterVec
}

// New creates the collectors on a fresh registry along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		RecordsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Records created by kind.",
		}, []string{"kind"}),

		RecordsDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
			Help:      "Records deleted by kind.",
		}, []string{"kind"}),

		CaloriesComputed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calories_computed_total",
			Help:      "Sum of calories computed for stored records by category.",
		}, []string{"category"}),

		LookupMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_misses_total",
			Help:      "Calorie computations that named an unknown key.",
		}, []string{"category"}),

		RateUpserts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_upserts_total",
			Help:      "Reference rate inserts and overwrites by category.",
		}, []string{"category"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) RecordCreated(kind string) {
	if m == nil {
		return
	}
	m.RecordsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordDeleted(kind string) {
	if m == nil {
		return
	}
	m.RecordsDeleted.WithLabelValues(kind).Inc()
}

func (m *Metrics) CaloriesAdded(category string, calories float64) {
	if m == nil {
		return
	}
	m.CaloriesComputed.WithLabelValues(category).Add(calories)
}

func (m *Metrics) LookupMiss(category string) {
	if m == nil {
		return
	}
	m.LookupMisses.WithLabelValues(category).Inc()
}

func (m *Metrics) RateUpserted(category string) {
	if m == nil {
		return
	}
	m.RateUpserts.WithLabelValues(category).Inc()
}
