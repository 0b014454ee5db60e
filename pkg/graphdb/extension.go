package graphdb

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/neoforge/pkg/appctx"
)

const tracerName = "github.com/dmitrymomot/neoforge/pkg/graphdb"

// Application is the host an extension binds to.
// Its identity (the interface value) keys the binding registry,
// and LookupEnv provides its configuration.
type Application interface {
	LookupEnv(key string) (string, bool)
}

// ShutdownRegistrar is implemented by applications that run hooks on shutdown.
// Bind registers a teardown hook with such applications.
type ShutdownRegistrar interface {
	OnShutdown(fn func(context.Context) error)
}

type binding struct {
	driver Driver
	config Config

	mu      sync.Mutex
	open    int
	retired bool
	closed  bool
}

// acquire reserves a session on b. It fails once b has been replaced or unbound.
func (b *binding) acquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.retired {
		return false
	}
	b.open++
	return true
}

// release frees a session and reports whether the caller must close the driver.
func (b *binding) release() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open--
	return b.retired && b.claimClose()
}

// retire stops new sessions and reports whether the driver can be closed now.
// Otherwise the last released session closes it.
func (b *binding) retire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.retired = true
	return b.claimClose()
}

// retireNow stops new sessions and claims the close regardless of open sessions.
func (b *binding) retireNow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.retired = true
	if b.closed {
		return false
	}
	b.closed = true
	return true
}

func (b *binding) claimClose() bool {
	if b.open > 0 || b.closed {
		return false
	}
	b.closed = true
	return true
}

// Extension binds a graph database driver to one or more applications.
// It is safe for concurrent use.
type Extension struct {
	mu       sync.RWMutex
	bindings map[Application]*binding
	hooked   map[Application]struct{}

	log       *slog.Logger
	newDriver DriverFactory
	metrics   *metrics
	tracer    trace.Tracer
}

// New creates an unbound extension. Call Bind for each application that uses it.
func New(opts ...Option) *Extension {
	e := &Extension{
		bindings:  make(map[Application]*binding),
		hooked:    make(map[Application]struct{}),
		log:       slog.New(slog.DiscardHandler),
		newDriver: NewNeo4jDriver,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewBound creates an extension and binds it to app immediately.
func NewBound(app Application, opts ...Option) (*Extension, error) {
	e := New(opts...)
	if err := e.Bind(app); err != nil {
		return nil, err
	}
	return e, nil
}

// Bind reads the graph database configuration of app, builds a driver and
// records it under the identity of app. Binding an already bound application
// replaces its driver. Sessions already open on the previous driver keep
// working, and the previous driver is closed when the last of them is closed.
// Bind performs no network I/O.
func (e *Extension) Bind(app Application) error {
	if err := checkApplication(app); err != nil {
		return err
	}

	cfg, err := LoadConfig(app)
	if err != nil {
		return err
	}

	driver, err := e.newDriver(cfg, e.log)
	if err != nil {
		if !errors.Is(err, ErrInvalidConfig) {
			err = errors.Join(ErrInvalidConfig, err)
		}
		return err
	}

	e.mu.Lock()
	prev := e.bindings[app]
	e.bindings[app] = &binding{driver: driver, config: cfg}
	_, hooked := e.hooked[app]
	e.hooked[app] = struct{}{}
	e.metrics.setBindings(len(e.bindings))
	e.mu.Unlock()

	e.log.Debug("graphdb: application bound", slog.Any("config", cfg), slog.Bool("replaced", prev != nil))

	if prev != nil && prev.retire() {
		e.closeReplaced(context.Background(), prev)
	}

	if !hooked {
		if r, ok := app.(ShutdownRegistrar); ok {
			r.OnShutdown(func(ctx context.Context) error {
				return e.Unbind(ctx, app)
			})
		}
	}

	return nil
}

// Unbind removes the binding of app and closes its driver.
// Unbinding an application that is not bound is a no-op.
func (e *Extension) Unbind(ctx context.Context, app Application) error {
	if err := checkApplication(app); err != nil {
		return err
	}

	e.mu.Lock()
	b, ok := e.bindings[app]
	delete(e.bindings, app)
	e.metrics.setBindings(len(e.bindings))
	e.mu.Unlock()

	if !ok || !b.retireNow() {
		return nil
	}

	e.log.Debug("graphdb: application unbound", slog.String("uri", b.config.URI))
	return b.driver.Close(ctx)
}

func (e *Extension) closeReplaced(ctx context.Context, b *binding) {
	if err := b.driver.Close(ctx); err != nil {
		e.log.Warn("graphdb: failed to close replaced driver", slog.Any("error", err))
	}
}

// Close unbinds every application and closes all drivers concurrently.
func (e *Extension) Close(ctx context.Context) error {
	e.mu.Lock()
	drivers := make([]Driver, 0, len(e.bindings))
	for app, b := range e.bindings {
		if b.retireNow() {
			drivers = append(drivers, b.driver)
		}
		delete(e.bindings, app)
	}
	e.metrics.setBindings(0)
	e.mu.Unlock()

	errs := make([]error, len(drivers))
	var g errgroup.Group
	for i, d := range drivers {
		g.Go(func() error {
			errs[i] = d.Close(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Bound reports whether app has a binding.
func (e *Extension) Bound(app Application) bool {
	if checkApplication(app) != nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.bindings[app]
	return ok
}

// DriverFor returns the driver bound to app.
// Unlike sessions from Session, the raw driver is not tracked, so a rebind
// may close it while the caller still holds it.
func (e *Extension) DriverFor(app Application) (Driver, error) {
	b, err := e.binding(app)
	if err != nil {
		return nil, err
	}
	return b.driver, nil
}

// ConfigFor returns the configuration app was bound with.
func (e *Extension) ConfigFor(app Application) (Config, error) {
	b, err := e.binding(app)
	if err != nil {
		return Config{}, err
	}
	return b.config, nil
}

// Driver returns the driver bound to the application carried by ctx.
// See DriverFor for its lifetime.
func (e *Extension) Driver(ctx context.Context) (Driver, error) {
	b, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	return b.driver, nil
}

// Session opens a new session on the driver bound to the application carried by ctx.
// The caller must close it. Prefer WithSession or Query, which always release it.
func (e *Extension) Session(ctx context.Context, opts ...SessionOption) (Session, error) {
	var b *binding
	for {
		var err error
		if b, err = e.current(ctx); err != nil {
			return nil, err
		}
		// A failed acquire means a rebind won the race. Look up the new binding.
		if b.acquire() {
			break
		}
	}

	cfg := neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: b.config.Database,
		FetchSize:    b.config.FetchSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := b.driver.NewSession(ctx, cfg)
	e.metrics.sessionOpened()
	return &trackedSession{Session: s, ext: e, binding: b}, nil
}

// WithSession opens a session, passes it to fn and closes it on every exit path,
// including a panic in fn.
// An error from fn takes precedence over an error from closing the session.
func (e *Extension) WithSession(ctx context.Context, fn func(Session) error, opts ...SessionOption) (err error) {
	s, err := e.Session(ctx, opts...)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := s.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(s)
}

// Query runs statement with params in a new session and returns the collected result.
// The session is closed whether the statement succeeds or fails.
// Errors from the driver are returned unchanged.
func (e *Extension) Query(ctx context.Context, statement string, params map[string]any) (res *Result, err error) {
	ctx, span := e.tracer.Start(ctx, "graphdb.query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "neo4j"),
			attribute.String("db.statement", statement),
		),
	)
	start := time.Now()
	defer func() {
		e.metrics.observeQuery(time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	err = e.WithSession(ctx, func(s Session) error {
		var runErr error
		res, runErr = s.Run(ctx, statement, params)
		return runErr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ExecuteRead runs work in a managed read transaction.
// The driver retries work on transient failures.
func (e *Extension) ExecuteRead(ctx context.Context, work TxWork, opts ...SessionOption) (any, error) {
	return e.execute(ctx, work, true, opts)
}

// ExecuteWrite runs work in a managed write transaction.
// The driver retries work on transient failures.
func (e *Extension) ExecuteWrite(ctx context.Context, work TxWork, opts ...SessionOption) (any, error) {
	return e.execute(ctx, work, false, opts)
}

func (e *Extension) execute(ctx context.Context, work TxWork, read bool, opts []SessionOption) (out any, err error) {
	if read {
		opts = append([]SessionOption{ReadOnly()}, opts...)
	}
	err = e.WithSession(ctx, func(s Session) error {
		var txErr error
		if read {
			out, txErr = s.ExecuteRead(ctx, work)
		} else {
			out, txErr = s.ExecuteWrite(ctx, work)
		}
		return txErr
	}, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Extension) current(ctx context.Context) (*binding, error) {
	app, ok := appctx.As[Application](ctx)
	if !ok {
		return nil, errors.Join(ErrNotBound, ErrNoApplication)
	}
	return e.binding(app)
}

func (e *Extension) binding(app Application) (*binding, error) {
	if err := checkApplication(app); err != nil {
		return nil, errors.Join(ErrNotBound, err)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.bindings[app]
	if !ok {
		return nil, ErrNotBound
	}
	return b, nil
}

// ContextWithApplication returns a copy of ctx carrying app as the current application.
// Request handlers get this from the host; background work sets it explicitly.
func ContextWithApplication(ctx context.Context, app Application) context.Context {
	return appctx.WithApp(ctx, app)
}

func checkApplication(app Application) error {
	if app == nil {
		return ErrNilApplication
	}
	v := reflect.ValueOf(app)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return ErrNilApplication
		}
	}
	if !v.Type().Comparable() {
		return ErrInvalidApplication
	}
	return nil
}

// trackedSession closes the wrapped session at most once and releases its
// binding, closing a replaced driver after its last session.
type trackedSession struct {
	Session
	ext     *Extension
	binding *binding

	once     sync.Once
	closeErr error
}

func (s *trackedSession) Close(ctx context.Context) error {
	s.once.Do(func() {
		s.closeErr = s.Session.Close(ctx)
		s.ext.metrics.sessionClosed()
		if s.binding.release() {
			s.ext.closeReplaced(ctx, s.binding)
		}
	})
	return s.closeErr
}
