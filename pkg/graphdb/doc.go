// Package graphdb binds a Neo4j driver to one or more neoforge applications.
//
// An Extension keeps one driver per application. Drivers are created by Bind
// from the application's configuration and looked up through the application
// carried by the request context, so a single Extension can serve several
// applications at once.
//
// # Construction
//
// Bind at construction time:
//
//	ext, err := graphdb.NewBound(app)
//
// Or create the extension first and bind later (factory pattern):
//
//	var Graph = graphdb.New()
//
//	func NewApp() *neoforge.App {
//	    app := neoforge.New(...)
//	    if err := Graph.Bind(app); err != nil {
//	        ...
//	    }
//	    return app
//	}
//
// # Configuration
//
// Bind reads these keys through the application's LookupEnv.
// Each missing key falls back to its own default.
//
//	GRAPHDB_URI                       bolt://localhost:7687
//	GRAPHDB_USER                      neo4j
//	GRAPHDB_PASS                      neo4j
//	GRAPHDB_DATABASE                  (server default)
//	GRAPHDB_MAX_CONN_LIFETIME         1h
//	GRAPHDB_MAX_CONN_POOL_SIZE        100
//	GRAPHDB_CONN_ACQUISITION_TIMEOUT  1m
//	GRAPHDB_SOCKET_CONNECT_TIMEOUT    5s
//	GRAPHDB_MAX_TX_RETRY_TIME         30s
//	GRAPHDB_FETCH_SIZE                1000
//
// Structurally invalid values fail Bind with ErrInvalidConfig.
// Bind never contacts the server. Use Healthcheck for that.
//
// # Queries
//
// Inside a handler the request context already carries the application:
//
//	res, err := Graph.Query(c, "MATCH (m:Movie) RETURN m.title AS title LIMIT $n", map[string]any{"n": 10})
//
// Query and WithSession always close the session they open. Driver errors are
// returned unchanged. Operations on an application that is not bound fail with
// ErrNotBound.
//
// Outside a request, attach the application explicitly:
//
//	ctx := graphdb.ContextWithApplication(context.Background(), app)
//
// # Lifecycle
//
// Rebinding an application replaces its driver and closes the old one.
// Applications that implement ShutdownRegistrar get a teardown hook on first Bind.
// Shutdown(ext) closes every driver and fits neoforge.ShutdownHook.
package graphdb
