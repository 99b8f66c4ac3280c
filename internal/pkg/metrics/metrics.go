package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricNamePrefix = "councilcms_"

// Metrics holds the collectors shared by the stores, the migration runner and the router
type Metrics struct {
	StoreOps          *prometheus.CounterVec
	StoreDuration     *prometheus.HistogramVec
	MigrationRecords  *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	registry          *prometheus.Registry
	registeredGlobals bool
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		StoreOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricNamePrefix + "store_ops_total",
				Help: "Total number of record store operations",
			},
			[]string{"content_type", "backend", "op", "result"},
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricNamePrefix + "store_op_duration_seconds",
				Help:    "Latency of record store operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"content_type", "backend", "op"},
		),
		MigrationRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricNamePrefix + "migration_records_total",
				Help: "Records processed by migrations, by outcome",
			},
			[]string{"content_type", "outcome"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricNamePrefix + "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricNamePrefix + "http_request_duration_seconds",
				Help:    "Latency of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.StoreOps, m.StoreDuration, m.MigrationRecords, m.HTTPRequests, m.HTTPDuration)
	return m
}

// Registry returns the registry served on the metrics endpoint
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WithRuntimeCollectors adds the Go runtime and process collectors
func (m *Metrics) WithRuntimeCollectors() *Metrics {
	if !m.registeredGlobals {
		m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m.registeredGlobals = true
	}
	return m
}
