package middlewares_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/neoforge/internal"
	"github.com/dmitrymomot/neoforge/middlewares"
	"github.com/dmitrymomot/neoforge/pkg/logger"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates new request ID when not present", func(t *testing.T) {
		t.Parallel()

		rec, err := serve(t, newRequest(), func(c internal.Context) error {
			return c.NoContent(http.StatusNoContent)
		}, middlewares.RequestID())
		require.NoError(t, err)

		id := rec.Header().Get("X-Request-ID")
		_, parseErr := uuid.Parse(id)
		require.NoError(t, parseErr)
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		t.Parallel()

		req := newRequest()
		req.Header.Set("X-Request-ID", "existing-request-id-123")

		rec, err := serve(t, req, func(c internal.Context) error {
			return c.NoContent(http.StatusNoContent)
		}, middlewares.RequestID())
		require.NoError(t, err)
		require.Equal(t, "existing-request-id-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("falls back to correlation header", func(t *testing.T) {
		t.Parallel()

		req := newRequest()
		req.Header.Set("X-Correlation-ID", "corr-1")

		rec, _ := serve(t, req, func(c internal.Context) error {
			return c.NoContent(http.StatusNoContent)
		}, middlewares.RequestID())
		require.Equal(t, "corr-1", rec.Header().Get("X-Request-ID"))
	})

	t.Run("replaces malformed incoming IDs", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []string{"has space", strings.Repeat("a", middlewares.MaxRequestIDLength+1), "tab\tid"} {
			req := newRequest()
			req.Header.Set("X-Request-ID", bad)

			rec, _ := serve(t, req, func(c internal.Context) error {
				return c.NoContent(http.StatusNoContent)
			}, middlewares.RequestID(middlewares.WithRequestIDGenerator(func() string { return "generated" })))
			require.Equal(t, "generated", rec.Header().Get("X-Request-ID"), "input %q", bad)
		}
	})

	t.Run("GetRequestID returns stored ID", func(t *testing.T) {
		t.Parallel()

		var captured string
		rec, _ := serve(t, newRequest(), func(c internal.Context) error {
			captured = middlewares.GetRequestID(c)
			return c.NoContent(http.StatusNoContent)
		}, middlewares.RequestID())

		require.NotEmpty(t, captured)
		require.Equal(t, rec.Header().Get("X-Request-ID"), captured)
	})

	t.Run("custom headers and response header", func(t *testing.T) {
		t.Parallel()

		req := newRequest()
		req.Header.Set("X-Trace", "trace-7")

		rec, _ := serve(t, req, func(c internal.Context) error {
			return c.NoContent(http.StatusNoContent)
		}, middlewares.RequestID(
			middlewares.WithRequestIDHeaders("X-Trace"),
			middlewares.WithRequestIDResponseHeader("X-Trace-Echo"),
		))

		require.Equal(t, "trace-7", rec.Header().Get("X-Trace-Echo"))
		require.Empty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("error bodies carry the request ID", func(t *testing.T) {
		t.Parallel()

		req := newRequest()
		req.Header.Set("X-Request-ID", "req-err")

		rec, _ := serve(t, req, func(c internal.Context) error {
			return internal.ErrNotFound("movie not found")
		}, middlewares.RequestID())

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "req-err", body["request_id"])
	})

	t.Run("GetRequestID without middleware", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, middlewares.GetRequestID(context.Background()))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithConfig(logger.DefaultConfig(), &buf, middlewares.RequestIDExtractor())

	app := internal.New(
		internal.WithCustomLogger(log),
		internal.WithMiddleware(middlewares.RequestID()),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				c.LogInfo("listing movies")
				return c.NoContent(http.StatusNoContent)
			})
		})),
	)

	req := newRequest()
	req.Header.Set("X-Request-ID", "req-42")
	app.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "listing movies", entry["msg"])
	require.Equal(t, "req-42", entry["request_id"])

	_, ok := middlewares.RequestIDExtractor()(context.Background())
	require.False(t, ok)
}
