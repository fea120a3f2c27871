// Package metrics provides Prometheus instrumentation for the ingest
// pipelines and the read API.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Manager owns every collector for one registry.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	unitsFetched     *prometheus.CounterVec
	unitsSkipped     *prometheus.CounterVec
	rowsWritten      *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) { m.namespace = ns }
}

// WithHistogramBuckets overrides the duration buckets, in seconds.
func WithHistogramBuckets(b []float64) Option {
	return func(m *Manager) { m.buckets = b }
}

// WithRegistry registers collectors on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) { m.registry = reg }
}

var global = NewManager(WithRegistry(newRegistry())) //nolint:gochecknoglobals

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewManager creates a Manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "futplot",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(m.registry)

	m.unitsFetched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "units_fetched_total",
		Help:      "Fetch units (leagues, categories, matches) fetched successfully",
	}, []string{"source"})

	m.unitsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "units_skipped_total",
		Help:      "Fetch units skipped after an error",
	}, []string{"source"})

	m.rowsWritten = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "rows_written_total",
		Help:      "Rows persisted per destination",
	}, []string{"source", "destination"})

	// Pipelines pace requests by seconds per unit; runs take minutes.
	m.pipelineDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "ingest",
		Name:      "pipeline_duration_seconds",
		Help:      "Wall time of one pipeline run",
		Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
	}, []string{"source", "outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "api",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   m.buckets,
	}, []string{"route", "method"})

	return m
}

// Registry returns the registry the Manager writes to.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Push replaces the metrics held by a Pushgateway at url for job and
// grouping with the contents of the registry. Grouping keys must not
// collide with metric label names.
func (m *Manager) Push(ctx context.Context, url, job string, grouping map[string]string) error {
	p := push.New(url, job).Gatherer(m.registry)
	for k, v := range grouping {
		p = p.Grouping(k, v)
	}
	return p.PushContext(ctx)
}

func (m *Manager) RecordUnitFetched(source string) { m.unitsFetched.WithLabelValues(source).Inc() }
func (m *Manager) RecordUnitSkipped(source string) { m.unitsSkipped.WithLabelValues(source).Inc() }

func (m *Manager) RecordRowsWritten(source, destination string, n int) {
	m.rowsWritten.WithLabelValues(source, destination).Add(float64(n))
}

func (m *Manager) ObservePipeline(source, outcome string, d time.Duration) {
	m.pipelineDuration.WithLabelValues(source, outcome).Observe(d.Seconds())
}

func (m *Manager) RecordHTTPRequest(route, method, status string, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// Default returns the process-wide Manager.
func Default() *Manager { return global }

// Handler serves the process-wide registry.
func Handler() http.Handler { return global.Handler() }
