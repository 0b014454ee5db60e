package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/neoforge/internal"
	"github.com/dmitrymomot/neoforge/pkg/graphdb"
	"github.com/dmitrymomot/neoforge/pkg/graphmodel"
)

func TestHTTPError_WrapsGraphErrors(t *testing.T) {
	t.Parallel()

	t.Run("unwraps to the cause", func(t *testing.T) {
		t.Parallel()
		err := internal.ErrServiceUnavailable("catalog offline", internal.WithError(graphdb.ErrNotBound))
		require.ErrorIs(t, err, graphdb.ErrNotBound)
		require.Equal(t, http.StatusServiceUnavailable, err.StatusCode())
	})

	t.Run("found through wrapping", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.ErrNotFound("no such movie", internal.WithError(graphmodel.ErrNodeNotFound))
		err := fmt.Errorf("show: %w", fmt.Errorf("load: %w", httpErr))

		require.True(t, internal.IsHTTPError(err))
		got := internal.AsHTTPError(err)
		require.Same(t, httpErr, got)
		require.ErrorIs(t, got, graphmodel.ErrNodeNotFound)
	})

	t.Run("bare graph errors are not HTTP errors", func(t *testing.T) {
		t.Parallel()
		require.False(t, internal.IsHTTPError(graphmodel.ErrNodeNotFound))
		require.Nil(t, internal.AsHTTPError(errors.Join(graphdb.ErrNotBound, graphdb.ErrNoApplication)))
		require.Nil(t, internal.AsHTTPError(nil))
	})
}

type lockedError struct{}

func (lockedError) Error() string   { return "movie is being edited" }
func (lockedError) StatusCode() int { return http.StatusLocked }

func TestDefaultErrorHandler_StatusCoder(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(routesFunc(func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			return fmt.Errorf("save movie: %w", lockedError{})
		})
		r.GET("/explicit", func(c internal.Context) error {
			// An explicit HTTPError wins over the status of its cause.
			return internal.ErrConflict("duplicate title", internal.WithError(lockedError{}))
		})
	})))

	rec := get(t, app, "/")
	require.Equal(t, http.StatusLocked, rec.Code)
	require.Equal(t, http.StatusText(http.StatusLocked), decode(t, rec)["error"])

	rec = get(t, app, "/explicit")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "duplicate title", decode(t, rec)["error"])
}
