// Package metrics holds the Prometheus instruments of the scoring engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scorebook"

// Metrics is a set of engine instruments bound to its own registry, so
// several engines (as in tests) never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	deliveries      *prometheus.CounterVec
	wickets         prometheus.Counter
	rejected        *prometheus.CounterVec
	matches         *prometheus.CounterVec
	inningsClosed   prometheus.Counter
	publishFailures prometheus.Counter
	duration        *prometheus.HistogramVec
}

// New creates the instruments and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_recorded_total",
			Help:      "Deliveries committed to the ledger, by extras type.",
		}, []string{"extras_type"}),
		wickets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wickets_total",
			Help:      "Team wickets recorded.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_rejected_total",
			Help:      "Operations rejected, by operation and error code.",
		}, []string{"operation", "code"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Match lifecycle transitions, by resulting status or result type.",
		}, []string{"event"}),
		inningsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "innings_closed_total",
			Help:      "Innings closed by overs, wickets, a successful chase or abandonment.",
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_failures_total",
			Help:      "Committed events that could not be published.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Wall time of engine operations, including the store transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		m.deliveries, m.wickets, m.rejected, m.matches,
		m.inningsClosed, m.publishFailures, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the instruments are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Delivery records one committed delivery.
func (m *Metrics) Delivery(extrasType string, wicket bool) {
	m.deliveries.WithLabelValues(extrasType).Inc()
	if wicket {
		m.wickets.Inc()
	}
}

// Rejected records an operation that returned an error.
func (m *Metrics) Rejected(op, code string) {
	if code == "" {
		code = "INTERNAL"
	}
	m.rejected.WithLabelValues(op, code).Inc()
}

// Match records a lifecycle event such as "created" or "won_by_runs".
func (m *Metrics) Match(event string) {
	m.matches.WithLabelValues(event).Inc()
}

// InningsClosed records a closed innings.
func (m *Metrics) InningsClosed() { m.inningsClosed.Inc() }

// PublishFailed records an event that could not be published.
func (m *Metrics) PublishFailed() { m.publishFailures.Inc() }

// Observe records how long an operation took, starting at start.
func (m *Metrics) Observe(op string, start time.Time) {
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
