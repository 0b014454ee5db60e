package middlewares_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/neoforge/internal"
	"github.com/dmitrymomot/neoforge/middlewares"
	"github.com/dmitrymomot/neoforge/pkg/logger"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("recovers from panic and answers 500", func(t *testing.T) {
		t.Parallel()

		rec, err := serve(t, newRequest(), func(c internal.Context) error {
			panic("secret connection string")
		}, middlewares.Recover())

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "secret")

		pe := requirePanic(t, err)
		require.Equal(t, "secret connection string", pe.Value)
		require.NotEmpty(t, pe.Stack)
	})

	t.Run("passes through when no panic", func(t *testing.T) {
		t.Parallel()

		rec, err := serve(t, newRequest(), func(c internal.Context) error {
			return c.String(http.StatusOK, "ok")
		}, middlewares.Recover())

		require.NoError(t, err)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("respects DisablePrintStack option", func(t *testing.T) {
		t.Parallel()

		_, err := serve(t, newRequest(), func(c internal.Context) error {
			panic("test panic")
		}, middlewares.Recover(middlewares.WithRecoverDisablePrintStack()))

		pe := requirePanic(t, err)
		require.Nil(t, pe.Stack)
	})

	t.Run("logs the panic with the app name from the context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		app := internal.New(
			internal.WithName("catalog"),
			internal.WithCustomLogger(logger.NewWithConfig(logger.DefaultConfig(), &buf)),
			internal.WithHandlers(routesFunc(func(r internal.Router) {
				r.GET("/", func(c internal.Context) error { panic("boom") }, middlewares.Recover())
			})),
		)

		app.ServeHTTP(httptest.NewRecorder(), newRequest())
		require.Contains(t, buf.String(), `"msg":"panic recovered"`)
		require.Contains(t, buf.String(), `"app":"catalog"`)
	})
}

func TestRecover_PanicTypes(t *testing.T) {
	t.Parallel()

	type customError struct {
		Code    int
		Message string
	}
	panicErr := errors.New("error panic")

	tests := []struct {
		name  string
		value any
	}{
		{"string", "string panic"},
		{"error", panicErr},
		{"integer", 42},
		{"struct", customError{Code: 500, Message: "custom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := serve(t, newRequest(), func(c internal.Context) error {
				panic(tt.value)
			}, middlewares.Recover())

			pe := requirePanic(t, err)
			require.Equal(t, tt.value, pe.Value)
		})
	}
}

func TestRecover_WithRecoverStackSize(t *testing.T) {
	t.Parallel()

	t.Run("small stack size truncates trace", func(t *testing.T) {
		t.Parallel()

		_, err := serve(t, newRequest(), func(c internal.Context) error {
			panic("test")
		}, middlewares.Recover(middlewares.WithRecoverStackSize(64)))

		pe := requirePanic(t, err)
		require.NotEmpty(t, pe.Stack)
		require.LessOrEqual(t, len(pe.Stack), 64)
	})

	t.Run("non-positive size keeps default", func(t *testing.T) {
		t.Parallel()

		_, err := serve(t, newRequest(), func(c internal.Context) error {
			panic("test")
		}, middlewares.Recover(middlewares.WithRecoverStackSize(0)))

		pe := requirePanic(t, err)
		require.NotEmpty(t, pe.Stack)
	})

	t.Run("disabled stack wins over size", func(t *testing.T) {
		t.Parallel()

		_, err := serve(t, newRequest(), func(c internal.Context) error {
			panic("test")
		}, middlewares.Recover(
			middlewares.WithRecoverStackSize(8192),
			middlewares.WithRecoverDisablePrintStack(),
		))

		pe := requirePanic(t, err)
		require.Nil(t, pe.Stack)
	})
}

func TestRecover_ErrorPropagation(t *testing.T) {
	t.Parallel()

	handlerErr := internal.ErrConflict("duplicate movie")
	rec, err := serve(t, newRequest(), func(c internal.Context) error {
		return handlerErr
	}, middlewares.Recover())

	require.Same(t, handlerErr, err)
	var pe *middlewares.PanicError
	require.False(t, errors.As(err, &pe))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRecover_PanicNil(t *testing.T) {
	t.Parallel()

	_, err := serve(t, newRequest(), func(c internal.Context) error {
		panic(nil) //nolint:govet // testing panic(nil) handling
	}, middlewares.Recover())

	requirePanic(t, err)

	var pne *runtime.PanicNilError
	require.ErrorAs(t, err, &pne)
}

func TestRecover_DeferredPanic(t *testing.T) {
	t.Parallel()

	_, err := serve(t, newRequest(), func(c internal.Context) error {
		defer func() {
			panic("deferred panic value")
		}()
		return nil
	}, middlewares.Recover())

	pe := requirePanic(t, err)
	require.Equal(t, "deferred panic value", pe.Value)
}

func TestRecover_NestedPanic(t *testing.T) {
	t.Parallel()

	_, err := serve(t, newRequest(), func(c internal.Context) error {
		deepPanic()
		return nil
	}, middlewares.Recover())

	pe := requirePanic(t, err)
	require.Contains(t, string(pe.Stack), "deepPanic")
}

func requirePanic(t *testing.T, err error) *middlewares.PanicError {
	t.Helper()
	var pe *middlewares.PanicError
	require.ErrorAs(t, err, &pe)
	return pe
}

func deepPanic() {
	panic("deep panic")
}
