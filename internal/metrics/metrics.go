package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "school_directory"

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	SchoolsCreated     prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	StoreErrors        *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates the metrics on their own registry so several instances can coexist in tests
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SchoolsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schools_created_total",
			Help:      "Total number of schools created",
		}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Create requests rejected by validation, by kind",
		}, []string{"kind"}),
		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Store failures by operation",
		}, []string{"operation"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// IncrementSchoolsCreated increments the schools created counter by 1
func (m *Metrics) IncrementSchoolsCreated() {
	m.SchoolsCreated.Inc()
}

// RecordValidationFailure counts a rejected create by kind (missing_field, invalid_format)
func (m *Metrics) RecordValidationFailure(kind string) {
	m.ValidationFailures.WithLabelValues(kind).Inc()
}

// RecordStoreError counts a failed store operation
func (m *Metrics) RecordStoreError(operation string) {
	m.StoreErrors.WithLabelValues(operation).Inc()
}

// ObserveRequest records the latency of one HTTP request
func (m *Metrics) ObserveRequest(method, route, status string, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
