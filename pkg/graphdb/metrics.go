package graphdb

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics is nil-safe: a nil receiver records nothing.
type metrics struct {
	sessionsOpen  prometheus.Gauge
	sessionsTotal prometheus.Counter
	bindings      prometheus.Gauge
	queryDuration prometheus.Histogram
	queryErrors   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		sessionsOpen: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graphdb_sessions_open",
			Help: "Number of graph database sessions currently open.",
		})),
		sessionsTotal: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphdb_sessions_total",
			Help: "Total number of graph database sessions opened.",
		})),
		bindings: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "graphdb_bindings",
			Help: "Number of applications bound to a graph database driver.",
		})),
		queryDuration: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "graphdb_query_duration_seconds",
			Help:    "Duration of graph database queries.",
			Buckets: prometheus.DefBuckets,
		})),
		queryErrors: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graphdb_query_errors_total",
			Help: "Total number of failed graph database queries.",
		})),
	}
}

// register reuses an already registered collector so several extensions
// can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.sessionsOpen.Inc()
	m.sessionsTotal.Inc()
}

func (m *metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.sessionsOpen.Dec()
}

func (m *metrics) setBindings(n int) {
	if m == nil {
		return
	}
	m.bindings.Set(float64(n))
}

func (m *metrics) observeQuery(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.queryDuration.Observe(d.Seconds())
	if err != nil {
		m.queryErrors.Inc()
	}
}
