package graphdb

import (
	"context"
	"errors"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Driver is the per-application connection handle.
// The default implementation wraps neo4j.DriverWithContext.
type Driver interface {
	NewSession(ctx context.Context, cfg neo4j.SessionConfig) Session
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Session is a short-lived unit of interaction with the database.
// A session must be closed by whoever opened it.
type Session interface {
	Run(ctx context.Context, cypher string, params map[string]any) (*Result, error)
	ExecuteRead(ctx context.Context, work TxWork) (any, error)
	ExecuteWrite(ctx context.Context, work TxWork) (any, error)
	Close(ctx context.Context) error
}

// Tx runs statements inside a managed transaction.
type Tx interface {
	Run(ctx context.Context, cypher string, params map[string]any) (*Result, error)
}

// TxWork is a unit of work executed inside a managed transaction.
// It may be invoked more than once when the driver retries the transaction.
type TxWork func(tx Tx) (any, error)

// DriverFactory builds a driver from a validated configuration.
// It must not perform network I/O.
type DriverFactory func(cfg Config, log *slog.Logger) (Driver, error)

// NewNeo4jDriver is the default DriverFactory.
// Connectivity is established lazily on first use.
func NewNeo4jDriver(cfg Config, log *slog.Logger) (Driver, error) {
	auth := neo4j.NoAuth()
	if cfg.User != "" {
		auth = neo4j.BasicAuth(cfg.User, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionLifetime = cfg.MaxConnLifetime
		c.MaxConnectionPoolSize = cfg.MaxConnPoolSize
		c.ConnectionAcquisitionTimeout = cfg.ConnAcquisitionTimeout
		c.SocketConnectTimeout = cfg.SocketConnectTimeout
		c.MaxTransactionRetryTime = cfg.MaxTxRetryTime
		c.FetchSize = cfg.FetchSize
		if log != nil {
			c.Log = newDriverLogger(log)
		}
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return &neo4jDriver{driver: driver}, nil
}

type neo4jDriver struct {
	driver neo4j.DriverWithContext
}

// Unwrap exposes the underlying neo4j driver.
func (d *neo4jDriver) Unwrap() neo4j.DriverWithContext { return d.driver }

func (d *neo4jDriver) NewSession(ctx context.Context, cfg neo4j.SessionConfig) Session {
	return &neo4jSession{session: d.driver.NewSession(ctx, cfg)}
}

func (d *neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	return d.driver.VerifyConnectivity(ctx)
}

func (d *neo4jDriver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

type neo4jSession struct {
	session neo4j.SessionWithContext
}

func (s *neo4jSession) Run(ctx context.Context, cypher string, params map[string]any) (*Result, error) {
	result, err := s.session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return collect(ctx, result)
}

func (s *neo4jSession) ExecuteRead(ctx context.Context, work TxWork) (any, error) {
	return s.session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(neo4jTx{tx: tx})
	})
}

func (s *neo4jSession) ExecuteWrite(ctx context.Context, work TxWork) (any, error) {
	return s.session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(neo4jTx{tx: tx})
	})
}

func (s *neo4jSession) Close(ctx context.Context) error {
	return s.session.Close(ctx)
}

type neo4jTx struct {
	tx neo4j.ManagedTransaction
}

func (t neo4jTx) Run(ctx context.Context, cypher string, params map[string]any) (*Result, error) {
	result, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return collect(ctx, result)
}

// Unwrap returns the neo4j driver behind d, if any.
func Unwrap(d Driver) (neo4j.DriverWithContext, bool) {
	u, ok := d.(interface{ Unwrap() neo4j.DriverWithContext })
	if !ok {
		return nil, false
	}
	return u.Unwrap(), true
}
