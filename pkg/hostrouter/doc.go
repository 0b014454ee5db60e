// Package hostrouter provides host-based HTTP routing.
//
// It routes incoming requests to different handlers based on the Host header,
// supporting both exact matches and wildcard patterns. neoforge uses it to
// serve several apps, each with its own graph database binding, from one
// listener.
//
// # Host Patterns
//
// Two pattern types are supported:
//
//   - Exact: "api.example.com" matches only that host
//   - Wildcard: "*.example.com" matches any subdomain (foo.example.com, a.b.example.com)
//
// Exact matches take priority over wildcard matches, and a longer wildcard
// beats a shorter one. Host matching is case-insensitive, and ports are
// stripped before matching.
//
// # Usage
//
//	routes := hostrouter.Routes{
//	    "api.example.com": apiHandler,
//	    "*.example.com":   tenantHandler,
//	}
//	router := hostrouter.New(routes, nil) // unmatched hosts get 404
//	http.ListenAndServe(":8080", router)
package hostrouter
