package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketai"

// Metrics holds the Prometheus collectors of one process. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	BidCounter        *prometheus.CounterVec
	EscrowTransitions *prometheus.CounterVec
	SweepRecords      *prometheus.CounterVec
}

// NewMetrics creates a metrics instance backed by its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		BidCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bids_total",
				Help:      "Bids by outcome (accepted or an error code)",
			},
			[]string{"outcome"},
		),
		EscrowTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "escrow_transitions_total",
				Help:      "Escrow state transitions by target state",
			},
			[]string{"to"},
		),
		SweepRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_records_total",
				Help:      "Records processed by sweep jobs",
			},
			[]string{"job", "outcome"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveBid records a bid outcome
func (m *Metrics) ObserveBid(outcome string) {
	if m == nil {
		return
	}
	m.BidCounter.WithLabelValues(outcome).Inc()
}

// ObserveTransition records an escrow transition into state to
func (m *Metrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.EscrowTransitions.WithLabelValues(to).Inc()
}

// ObserveSweep adds n records with the given outcome for a sweep job
func (m *Metrics) ObserveSweep(job, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SweepRecords.WithLabelValues(job, outcome).Add(float64(n))
}
