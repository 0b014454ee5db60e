package internal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"
)

// runtimeConfig holds configuration for running the HTTP server.
type runtimeConfig struct {
	handler         http.Handler
	address         string
	logger          *slog.Logger
	shutdownTimeout time.Duration
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	apps            []*App
	baseCtx         context.Context

	// listening is called with the bound address once the listener is open.
	listening func(net.Addr)
}

// allStartupHooks returns the run option hooks followed by each app's hooks.
func (cfg runtimeConfig) allStartupHooks() []func(context.Context) error {
	hooks := slices.Clone(cfg.startupHooks)
	for _, app := range cfg.apps {
		hooks = append(hooks, app.startupHooksSnapshot()...)
	}
	return hooks
}

// allShutdownHooks returns the run option hooks followed by each app's hooks.
// It is read at shutdown time so hooks added while serving are included.
func (cfg runtimeConfig) allShutdownHooks() []func(context.Context) error {
	hooks := slices.Clone(cfg.shutdownHooks)
	for _, app := range cfg.apps {
		hooks = append(hooks, app.shutdownHooksSnapshot()...)
	}
	return hooks
}

// runServer starts the HTTP server and blocks until shutdown.
// This is the shared implementation for both app.Run() and neoforge.Run().
func runServer(cfg runtimeConfig) error {
	// Set defaults
	if cfg.address == "" {
		cfg.address = ":8080"
	}
	if cfg.shutdownTimeout == 0 {
		cfg.shutdownTimeout = defaultShutdownTimeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Create server with sensible defaults
	server := &http.Server{
		Addr:              cfg.address,
		Handler:           cfg.handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	// Create signal-aware context
	baseCtx := cfg.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range cfg.allStartupHooks() {
		if err := hook(ctx); err != nil {
			logger.Error("startup hook failed", slog.Any("error", err))
			return errors.Join(err, shutdown(cfg, nil, logger))
		}
	}

	for _, app := range cfg.apps {
		logger.Info("app ready", slog.String("app", app.Name()), slog.Int("routes", len(app.Routes())))
	}

	// Listen first to get actual address
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return errors.Join(err, shutdown(cfg, nil, logger))
	}
	if cfg.listening != nil {
		cfg.listening(ln.Addr())
	}

	// Start HTTP server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or error
	select {
	case err := <-errCh:
		return errors.Join(err, shutdown(cfg, nil, logger))
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	return shutdown(cfg, server, logger)
}

// shutdown stops the server, if any, and runs every shutdown hook.
// Hook failures are collected so one broken hook does not leak the rest.
func shutdown(cfg runtimeConfig, server *http.Server, logger *slog.Logger) error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	var errs []error

	// 1. Stop HTTP server
	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	// 2. Run shutdown hooks: run options, then apps (graph drivers, etc.)
	for _, hook := range cfg.allShutdownHooks() {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		logger.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	logger.Info("shutdown completed")
	return nil
}
