package hostrouter

import (
	"net"
	"net/http"
	"slices"
	"strings"
)

// Routes maps host patterns to HTTP handlers.
// Exact: "api.example.com"
// Wildcard: "*.example.com"
type Routes map[string]http.Handler

// Router routes requests based on the Host header.
// It supports exact matches and wildcard patterns.
type Router struct {
	exact    map[string]http.Handler // "api.example.com" -> handler
	wildcard map[string]http.Handler // "example.com" -> handler (for *.example.com)
	fallback http.Handler
}

// New creates a host router from the given routes.
// The fallback handler serves requests that match no pattern.
// A nil fallback answers them with 404.
func New(routes Routes, fallback http.Handler) *Router {
	r := &Router{
		exact:    make(map[string]http.Handler),
		wildcard: make(map[string]http.Handler),
		fallback: fallback,
	}
	if r.fallback == nil {
		r.fallback = http.NotFoundHandler()
	}

	for pattern, handler := range routes {
		pattern = NormalizeHost(strings.TrimSpace(pattern))
		if pattern == "" || handler == nil {
			continue
		}
		if domain, ok := strings.CutPrefix(pattern, "*."); ok {
			r.wildcard[domain] = handler
		} else {
			r.exact[pattern] = handler
		}
	}

	return r
}

// ServeHTTP routes requests based on the Host header.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r.Match(req.Host); ok {
		h.ServeHTTP(w, req)
		return
	}
	r.fallback.ServeHTTP(w, req)
}

// Match returns the handler registered for host.
// Exact patterns win over wildcards, and the longest wildcard suffix wins
// over shorter ones: "a.b.example.com" prefers "*.b.example.com" to "*.example.com".
func (r *Router) Match(host string) (http.Handler, bool) {
	host = NormalizeHost(host)
	if host == "" {
		return nil, false
	}

	if h, ok := r.exact[host]; ok {
		return h, true
	}

	rest := host
	for {
		_, domain, ok := strings.Cut(rest, ".")
		if !ok {
			return nil, false
		}
		if h, ok := r.wildcard[domain]; ok {
			return h, true
		}
		rest = domain
	}
}

// Hosts returns the registered patterns in sorted order.
func (r *Router) Hosts() []string {
	hosts := make([]string, 0, len(r.exact)+len(r.wildcard))
	for h := range r.exact {
		hosts = append(hosts, h)
	}
	for h := range r.wildcard {
		hosts = append(hosts, "*."+h)
	}
	slices.Sort(hosts)
	return hosts
}

// NormalizeHost strips the port and lowercases host.
// IPv6 literals keep their brackets.
//
// Examples:
//
//	"example.com:8080" -> "example.com"
//	"[::1]:8080" -> "[::1]"
//	"Example.COM" -> "example.com"
func NormalizeHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		if strings.Contains(h, ":") {
			h = "[" + h + "]"
		}
		host = h
	}
	return strings.ToLower(strings.TrimSuffix(host, "."))
}
