package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/neoforge/internal"
	"github.com/dmitrymomot/neoforge/pkg/graphdb"
)

// RequireGraph returns middleware that rejects requests with 503 while the
// serving app has no graph database binding in ext.
// Use it on routes that cannot answer without the database.
func RequireGraph(ext *graphdb.Extension) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if ext == nil || !ext.Bound(c.App()) {
				return c.Error(http.StatusServiceUnavailable, "graph database unavailable",
					internal.WithError(graphdb.ErrNotBound))
			}
			return next(c)
		}
	}
}
