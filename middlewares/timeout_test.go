package middlewares_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/neoforge/internal"
	"github.com/dmitrymomot/neoforge/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("passes through when handler completes in time", func(t *testing.T) {
		t.Parallel()

		rec, err := serve(t, newRequest(), func(c internal.Context) error {
			return c.NoContent(http.StatusNoContent)
		}, middlewares.Timeout(time.Second))

		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("returns TimeoutError when handler exceeds timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)

		rec, err := serve(t, newRequest(), func(c internal.Context) error {
			<-release
			return nil
		}, middlewares.Timeout(10*time.Millisecond))

		var te *middlewares.TimeoutError
		require.ErrorAs(t, err, &te)
		require.Equal(t, 10*time.Millisecond, te.Duration)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})

	t.Run("handler context carries the deadline", func(t *testing.T) {
		t.Parallel()

		type observed struct {
			hasDeadline bool
			err         error
		}
		seen := make(chan observed, 1)

		_, _ = serve(t, newRequest(), func(c internal.Context) error {
			_, ok := c.Deadline()
			select {
			case <-c.Done():
			case <-time.After(time.Second):
			}
			seen <- observed{hasDeadline: ok, err: c.Err()}
			return nil
		}, middlewares.Timeout(20*time.Millisecond))

		got := <-seen
		require.True(t, got.hasDeadline)
		require.ErrorIs(t, got.err, context.DeadlineExceeded)
	})

	t.Run("uses default timeout when zero provided", func(t *testing.T) {
		t.Parallel()

		var deadline time.Time
		_, err := serve(t, newRequest(), func(c internal.Context) error {
			deadline, _ = c.Deadline()
			return nil
		}, middlewares.Timeout(0))

		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(middlewares.DefaultTimeout), deadline, 5*time.Second)
	})
}
