package internal

import (
	"errors"
	"net/http"
	"slices"

	"github.com/dmitrymomot/neoforge/pkg/hostrouter"
)

// ErrNoApps is returned by Run when neither a domain nor a fallback app is configured.
var ErrNoApps = errors.New("neoforge: no domains or fallback configured")

// Run starts a multi-domain HTTP server and blocks until shutdown.
// Use this for composing multiple Apps under different domain patterns,
// each with its own configuration and graph database binding.
// Startup and shutdown hooks registered on any of the Apps run with the server.
//
// Example:
//
//	api := neoforge.New(
//	    neoforge.WithName("api"),
//	    neoforge.WithHandlers(handlers.NewAPIHandler()),
//	)
//
//	tenants := neoforge.New(
//	    neoforge.WithName("tenants"),
//	    neoforge.WithHandlers(handlers.NewTenantHandler()),
//	)
//
//	err := neoforge.Run(
//	    neoforge.Domain("api.acme.com", api),
//	    neoforge.Domain("*.acme.com", tenants),
//	    neoforge.Address(":8080"),
//	    neoforge.Logger(log),
//	)
func Run(opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	handler, apps, err := cfg.handler()
	if err != nil {
		return err
	}

	return runServer(runtimeConfig{
		handler:         handler,
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		apps:            apps,
		baseCtx:         cfg.baseCtx,
	})
}

// handler builds the root handler and lists every app it serves, each once.
// Apps are ordered by domain pattern, with the fallback last.
func (c *runConfig) handler() (http.Handler, []*App, error) {
	var apps []*App
	addApp := func(a *App) {
		if !slices.Contains(apps, a) {
			apps = append(apps, a)
		}
	}

	if len(c.domains) == 0 {
		if c.fallback == nil {
			return nil, nil, ErrNoApps
		}
		addApp(c.fallback)
		return c.fallback.Router(), apps, nil
	}

	routes := make(hostrouter.Routes, len(c.domains))
	patterns := make([]string, 0, len(c.domains))
	for pattern, app := range c.domains {
		routes[pattern] = app.Router()
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns)
	for _, p := range patterns {
		addApp(c.domains[p])
	}

	var fallback http.Handler
	if c.fallback != nil {
		fallback = c.fallback.Router()
		addApp(c.fallback)
	}

	return hostrouter.New(routes, fallback), apps, nil
}
