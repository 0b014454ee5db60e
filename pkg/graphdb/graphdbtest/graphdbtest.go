// Package graphdbtest provides in-memory test doubles for graphdb drivers.
package graphdbtest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dmitrymomot/neoforge/pkg/graphdb"
)

// RunFunc answers a statement. It backs both auto-commit and transaction runs.
type RunFunc func(ctx context.Context, cypher string, params map[string]any) (*graphdb.Result, error)

// Call records one statement received by a fake session.
type Call struct {
	Cypher   string
	Params   map[string]any
	Database string
	Mode     neo4j.AccessMode
}

// Driver is a fake graphdb.Driver.
type Driver struct {
	Config graphdb.Config

	// Run answers every statement. When nil, statements return an empty result.
	Run RunFunc
	// ConnectivityErr is returned by VerifyConnectivity.
	ConnectivityErr error
	// CloseErr is returned by Close.
	CloseErr error
	// SessionCloseErr is returned by Close of every session.
	SessionCloseErr error

	mu       sync.Mutex
	calls    []Call
	opened   int
	released int
	closed   int
}

var _ graphdb.Driver = (*Driver)(nil)

// NewDriver returns a fake driver that answers statements with run.
func NewDriver(run RunFunc) *Driver {
	return &Driver{Run: run}
}

func (d *Driver) NewSession(_ context.Context, cfg neo4j.SessionConfig) graphdb.Session {
	d.mu.Lock()
	d.opened++
	d.mu.Unlock()
	return &Session{driver: d, config: cfg}
}

func (d *Driver) VerifyConnectivity(context.Context) error {
	return d.ConnectivityErr
}

func (d *Driver) Close(context.Context) error {
	d.mu.Lock()
	d.closed++
	d.mu.Unlock()
	return d.CloseErr
}

// Calls returns the statements received so far.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// SessionsOpened returns how many sessions were created.
func (d *Driver) SessionsOpened() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened
}

// SessionsOpen returns how many sessions were created and not yet closed.
func (d *Driver) SessionsOpen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened - d.released
}

// Closed reports how many times Close was called.
func (d *Driver) Closed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Driver) run(ctx context.Context, cfg neo4j.SessionConfig, cypher string, params map[string]any) (*graphdb.Result, error) {
	d.mu.Lock()
	d.calls = append(d.calls, Call{Cypher: cypher, Params: params, Database: cfg.DatabaseName, Mode: cfg.AccessMode})
	run := d.Run
	d.mu.Unlock()

	if run == nil {
		return &graphdb.Result{}, nil
	}
	return run(ctx, cypher, params)
}

// Session is a fake graphdb.Session.
type Session struct {
	driver *Driver
	config neo4j.SessionConfig

	mu     sync.Mutex
	closed bool
}

var _ graphdb.Session = (*Session)(nil)

// Config returns the configuration the session was opened with.
func (s *Session) Config() neo4j.SessionConfig { return s.config }

func (s *Session) Run(ctx context.Context, cypher string, params map[string]any) (*graphdb.Result, error) {
	return s.driver.run(ctx, s.config, cypher, params)
}

func (s *Session) ExecuteRead(ctx context.Context, work graphdb.TxWork) (any, error) {
	return work(tx{session: s})
}

func (s *Session) ExecuteWrite(ctx context.Context, work graphdb.TxWork) (any, error) {
	return work(tx{session: s})
}

func (s *Session) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.driver.mu.Lock()
		s.driver.released++
		s.driver.mu.Unlock()
	}
	return s.driver.SessionCloseErr
}

type tx struct {
	session *Session
}

func (t tx) Run(ctx context.Context, cypher string, params map[string]any) (*graphdb.Result, error) {
	return t.session.Run(ctx, cypher, params)
}

// Factory is a graphdb.DriverFactory that hands out fake drivers and remembers them.
type Factory struct {
	// Run is installed on every driver the factory builds.
	Run RunFunc
	// Err, when set, is returned instead of a driver.
	Err error

	mu      sync.Mutex
	drivers []*Driver
}

// New builds a fake driver for cfg. Pass it to graphdb.WithDriverFactory.
func (f *Factory) New(cfg graphdb.Config, _ *slog.Logger) (graphdb.Driver, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	d := &Driver{Config: cfg, Run: f.Run}
	f.mu.Lock()
	f.drivers = append(f.drivers, d)
	f.mu.Unlock()
	return d, nil
}

// Drivers returns the drivers built so far, in order.
func (f *Factory) Drivers() []*Driver {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Driver, len(f.drivers))
	copy(out, f.drivers)
	return out
}

// Last returns the most recently built driver, or nil.
func (f *Factory) Last() *Driver {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.drivers) == 0 {
		return nil
	}
	return f.drivers[len(f.drivers)-1]
}

// Rows builds a result with the given column keys and one record per row.
func Rows(keys []string, rows ...[]any) *graphdb.Result {
	res := &graphdb.Result{Keys: keys}
	for _, row := range rows {
		res.Records = append(res.Records, &neo4j.Record{Keys: keys, Values: row})
	}
	return res
}

// App is a minimal graphdb.Application backed by a map.
// It also records shutdown hooks registered by Bind.
type App struct {
	Env map[string]string

	mu    sync.Mutex
	hooks []func(context.Context) error
}

// NewApp returns an application with the given configuration values.
func NewApp(env map[string]string) *App {
	return &App{Env: env}
}

func (a *App) LookupEnv(key string) (string, bool) {
	v, ok := a.Env[key]
	return v, ok
}

func (a *App) OnShutdown(fn func(context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Hooks returns the registered shutdown hooks.
func (a *App) Hooks() []func(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]func(context.Context) error, len(a.hooks))
	copy(out, a.hooks)
	return out
}

// Shutdown runs the registered shutdown hooks in order.
func (a *App) Shutdown(ctx context.Context) error {
	for _, hook := range a.Hooks() {
		if err := hook(ctx); err != nil {
			return err
		}
	}
	return nil
}
