package internal

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/neoforge/pkg/appctx"
	"github.com/dmitrymomot/neoforge/pkg/health"
	"github.com/dmitrymomot/neoforge/pkg/logger"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates the application lifecycle.
// It manages HTTP routing, configuration lookup and lifecycle hooks.
// Routing is fixed after New. Hooks may be added at any time.
type App struct {
	name                    string
	router                  chi.Router
	env                     *environment
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	middlewares             []Middleware
	handlers                []Handler

	hooksMu       sync.Mutex
	startupHooks  []func(context.Context) error
	shutdownHooks []func(context.Context) error
}

// New creates a new application with the given options.
//
// Example:
//
//	app := neoforge.New(
//	    neoforge.WithName("catalog"),
//	    neoforge.WithDotenv(".env"),
//	    neoforge.WithHandlers(handlers.NewMovies(graph)),
//	)
func New(opts ...Option) *App {
	a := &App{
		name:   "app",
		router: chi.NewRouter(),
		env:    newEnvironment(),
		logger: logger.NewNope(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.setupRoutes()
	return a
}

// Name returns the application name set with WithName.
func (a *App) Name() string {
	return a.name
}

// Router returns the underlying chi.Router for the App.
// This is used internally for composing multi-domain routing.
func (a *App) Router() chi.Router {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// ServeHTTP lets an App be used directly as an http.Handler, e.g. in tests.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// LookupEnv returns the configuration value for key.
// Explicit values from WithConfig, WithConfigFile and WithDotenv are
// consulted first (later options win), then the process environment
// unless WithoutOSEnv was given.
func (a *App) LookupEnv(key string) (string, bool) {
	return a.env.LookupEnv(key)
}

// OnStartup registers a hook that runs before the server accepts connections.
func (a *App) OnStartup(fn func(context.Context) error) {
	if fn == nil {
		return
	}
	a.hooksMu.Lock()
	defer a.hooksMu.Unlock()
	a.startupHooks = append(a.startupHooks, fn)
}

// OnShutdown registers a hook that runs after the server stops.
// Hooks run in registration order with the shutdown timeout context.
func (a *App) OnShutdown(fn func(context.Context) error) {
	if fn == nil {
		return
	}
	a.hooksMu.Lock()
	defer a.hooksMu.Unlock()
	a.shutdownHooks = append(a.shutdownHooks, fn)
}

func (a *App) startupHooksSnapshot() []func(context.Context) error {
	a.hooksMu.Lock()
	defer a.hooksMu.Unlock()
	return slices.Clone(a.startupHooks)
}

func (a *App) shutdownHooksSnapshot() []func(context.Context) error {
	a.hooksMu.Lock()
	defer a.hooksMu.Unlock()
	return slices.Clone(a.shutdownHooks)
}

// Run starts a single-domain HTTP server and blocks until shutdown.
// This is a convenience method for the common single-app case.
//
// Example:
//
//	err := app.Run(":8080", neoforge.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		apps:            []*App{a},
		baseCtx:         cfg.baseCtx,
	})
}

// setupRoutes configures the router with middleware and handlers.
func (a *App) setupRoutes() {
	// Every request carries the serving app, before any user middleware runs.
	a.router.Use(a.injectApp)

	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

func (a *App) injectApp(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(appctx.WithApp(r.Context(), a)))
	})
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc using the app's error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError handles errors from handlers using the configured error handler.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}
	h := a.errorHandler
	if h == nil {
		h = DefaultErrorHandler
	}
	if herr := h(c, err); herr != nil {
		a.logger.ErrorContext(c, "error handler failed", slog.Any("error", herr))
	}
}

// FromContext returns the App serving the request carried by ctx.
func FromContext(ctx context.Context) (*App, bool) {
	return appctx.As[*App](ctx)
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	neoforge.WithReadinessCheck("graphdb", graphdb.Healthcheck(graph, app))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
