package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrymomot/neoforge/internal"
	"github.com/dmitrymomot/neoforge/pkg/logger"
)

type routesFunc func(r internal.Router)

func (f routesFunc) Routes(r internal.Router) { f(r) }

// errorSink records the error that reached the app's error handler.
type errorSink struct {
	mu  sync.Mutex
	err error
}

func (s *errorSink) handle(c internal.Context, err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	return internal.DefaultErrorHandler(c, err)
}

func (s *errorSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// serve mounts h behind mw on a fresh app and sends req through it.
func serve(t *testing.T, req *http.Request, h internal.HandlerFunc, mw ...internal.Middleware) (*httptest.ResponseRecorder, error) {
	t.Helper()

	sink := &errorSink{}
	app := internal.New(
		internal.WithCustomLogger(logger.NewNope()),
		internal.WithErrorHandler(sink.handle),
		internal.WithHandlers(routesFunc(func(r internal.Router) {
			r.GET("/", h, mw...)
		})),
	)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec, sink.Err()
}

func newRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/", nil)
}
