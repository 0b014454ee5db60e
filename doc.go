// Package neoforge is a small HTTP host framework with graph database extensions.
//
// An [App] is a unit of routing and configuration. Graph database access lives
// in [github.com/dmitrymomot/neoforge/pkg/graphdb]: an Extension binds a Neo4j
// driver to each App, configured from that App's GRAPHDB_* values, and resolves
// the right driver from the request context at query time. One process can
// serve several Apps under different domains, each talking to its own database.
//
// # Quick Start
//
//	app := neoforge.New(
//	    neoforge.WithName("catalog"),
//	    neoforge.WithDotenv(),
//	    neoforge.WithLogger("catalog"),
//	)
//
//	graph, err := graphdb.NewBound(app)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// Bind registers a shutdown hook on the App, so the driver is closed after
// the server drains.
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes. The request
// [Context] is a context.Context that carries the serving App, so it goes
// straight into graph queries:
//
//	type Movies struct {
//	    graph *graphdb.Extension
//	}
//
//	func (h *Movies) Routes(r neoforge.Router) {
//	    r.GET("/movies", h.list)
//	}
//
//	func (h *Movies) list(c neoforge.Context) error {
//	    res, err := h.graph.Query(c, "MATCH (m:Movie) RETURN m.title AS title LIMIT $limit",
//	        map[string]any{"limit": neoforge.QueryDefault(c, "limit", 25)})
//	    if err != nil {
//	        return err
//	    }
//	    return c.JSON(http.StatusOK, res.Records)
//	}
//
// # Configuration
//
// Each App resolves configuration keys through its own layers: values from
// [WithConfig], [WithConfigFile] and [WithDotenv] first (later options win),
// then the process environment unless [WithoutOSEnv] is given.
//
// # Multiple Domains
//
//	err := neoforge.Run(
//	    neoforge.Domain("api.acme.com", api),
//	    neoforge.Domain("*.acme.com", tenants),
//	    neoforge.Address(":8080"),
//	)
//
// # Shutdown
//
// The server handles SIGINT/SIGTERM for graceful shutdown. Hooks passed with
// [ShutdownHook] run first, then the hooks each App collected with OnShutdown.
package neoforge
