// Package middlewares provides HTTP middleware for neoforge applications.
//
// All middleware follow the neoforge Middleware signature:
//
//	func(next neoforge.HandlerFunc) neoforge.HandlerFunc
//
// Errors they return go to the application's ErrorHandler, so responses stay
// consistent with handler errors.
//
// # Available Middleware
//
//   - RequestID: assigns a request ID and exposes it to loggers
//   - Recover: turns panics into a PanicError rendered as 500
//   - Timeout: attaches a deadline to the request context
//   - RequireGraph: answers 503 while the app has no graph database binding
//
// # Request ID
//
// RequestID reuses an incoming X-Request-ID or X-Correlation-ID header when it
// is printable ASCII no longer than MaxRequestIDLength. Otherwise a random UUID
// is generated. The ID is echoed in the X-Request-ID response header.
//
//	app := neoforge.New(
//	    neoforge.WithLogger("catalog", middlewares.RequestIDExtractor()),
//	    neoforge.WithMiddleware(middlewares.RequestID()),
//	)
//
// Read the ID in handlers with GetRequestID(c).
//
// # Recover
//
// Place Recover first so it covers every other middleware:
//
//	neoforge.WithMiddleware(
//	    middlewares.Recover(),
//	    middlewares.RequestID(),
//	)
//
// The panic value and stack trace are logged. The client only sees a generic 500.
//
// # Timeout
//
// Timeout replaces the request context with one carrying a deadline. Graph
// queries that receive the handler's Context are cancelled when it expires:
//
//	r.GET("/movies", h.list, middlewares.Timeout(5*time.Second))
//
// When the deadline passes first, a TimeoutError is returned. It matches
// context.DeadlineExceeded, which DefaultErrorHandler renders as 504.
//
// # RequireGraph
//
// RequireGraph guards routes that cannot answer without the database:
//
//	graph := graphdb.New()
//	r.Group(func(r neoforge.Router) {
//	    r.Use(middlewares.RequireGraph(graph))
//	    r.GET("/movies/{uid}", h.show)
//	})
package middlewares
