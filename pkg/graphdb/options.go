package graphdb

import (
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an Extension.
type Option func(*Extension)

// WithLogger sets the logger used for binding events and driver logs.
// Default: a logger that discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(e *Extension) {
		if log != nil {
			e.log = log
		}
	}
}

// WithDriverFactory replaces the function that builds drivers.
// Default: NewNeo4jDriver
func WithDriverFactory(f DriverFactory) Option {
	return func(e *Extension) {
		if f != nil {
			e.newDriver = f
		}
	}
}

// WithMetrics registers session, binding and query metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Extension) {
		if reg != nil {
			e.metrics = newMetrics(reg)
		}
	}
}

// WithTracerProvider sets the provider for query spans.
// Default: the global otel provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Extension) {
		if tp != nil {
			e.tracer = tp.Tracer(tracerName)
		}
	}
}

// SessionOption adjusts the configuration of a single session.
type SessionOption func(*neo4j.SessionConfig)

// WithDatabase targets a database other than the one configured for the binding.
func WithDatabase(name string) SessionOption {
	return func(c *neo4j.SessionConfig) {
		c.DatabaseName = name
	}
}

// WithAccessMode sets the session access mode.
// Default: neo4j.AccessModeWrite
func WithAccessMode(mode neo4j.AccessMode) SessionOption {
	return func(c *neo4j.SessionConfig) {
		c.AccessMode = mode
	}
}

// ReadOnly opens the session in read mode, so routing drivers can use followers.
func ReadOnly() SessionOption {
	return WithAccessMode(neo4j.AccessModeRead)
}

// WithFetchSize overrides the number of records fetched per batch.
func WithFetchSize(n int) SessionOption {
	return func(c *neo4j.SessionConfig) {
		c.FetchSize = n
	}
}

// WithImpersonatedUser runs the session as another user.
func WithImpersonatedUser(user string) SessionOption {
	return func(c *neo4j.SessionConfig) {
		c.ImpersonatedUser = user
	}
}
