// Package internal provides the core types and implementation for the neoforge host framework.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/neoforge"
// instead, which re-exports the public API.
//
// # Core Types
//
//   - App: Orchestrates HTTP routing, configuration lookup and lifecycle hooks
//   - Context: Provides request/response access and helper methods
//   - Router: Interface handlers use to declare routes with HTTP methods and grouping
//   - Handler: Interface implemented by types that declare routes on a router
//   - HandlerFunc: Signature for individual route handlers that return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns
//   - ErrorHandler: Custom error handling function for handler errors
//
// # Apps as Extension Hosts
//
// An App is what graph database extensions bind to. It exposes three things
// an extension needs:
//
//   - LookupEnv: layered configuration (WithConfig, WithConfigFile, WithDotenv, then the OS)
//   - OnStartup and OnShutdown: lifecycle hooks run by Run
//   - request scoping: every request context carries the serving App
//
// Example:
//
//	app := internal.New(
//	    internal.WithName("catalog"),
//	    internal.WithConfig(map[string]string{"GRAPHDB_URI": "neo4j://graph:7687"}),
//	)
//	graph, err := graphdb.NewBound(app)
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context, including graphdb queries. The
// Deadline, Done, Err, and Value methods delegate to the underlying request context:
//
//	func (h *Handler) listMovies(c internal.Context) error {
//	    res, err := h.graph.Query(c, "MATCH (m:Movie) RETURN m.title AS title", nil)
//	    if err != nil {
//	        return err
//	    }
//	    return c.JSON(http.StatusOK, res.Records)
//	}
//
// # Error Handling
//
// Errors returned from handlers go to the ErrorHandler. DefaultErrorHandler
// renders JSON and maps graph errors to status codes: graphmodel.ErrNodeNotFound
// becomes 404, validation errors 422, graphdb.ErrNotBound 503 and
// context.DeadlineExceeded 504.
//
// # Server Runtime
//
// Start the server with App.Run or use Run for multi-domain deployments:
//
//	// Single app
//	err := app.Run(":8080", internal.Logger(log))
//
//	// Multi-domain
//	err := internal.Run(
//	    internal.Domain("api.example.com", apiApp),
//	    internal.Domain("*.example.com", tenantApp),
//	    internal.Address(":8080"),
//	)
//
// Startup hooks run before the listener opens. A failing startup hook aborts
// the run. On shutdown the server drains first, then run option hooks, then
// each app's hooks, so extension drivers close after the last request.
package internal
