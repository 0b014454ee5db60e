package internal

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type hookLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *hookLog) hook(name string, err error) func(context.Context) error {
	return func(context.Context) error {
		l.mu.Lock()
		l.calls = append(l.calls, name)
		l.mu.Unlock()
		return err
	}
}

func (l *hookLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func TestRunServer_ServesAndShutsDown(t *testing.T) {
	t.Parallel()

	log := &hookLog{}
	app := New()
	app.OnStartup(log.hook("app-start", nil))
	app.OnShutdown(log.hook("app-stop", nil))

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	errCh := make(chan error, 1)

	go func() {
		errCh <- runServer(runtimeConfig{
			handler:         http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "pong") }),
			address:         "127.0.0.1:0",
			shutdownTimeout: time.Second,
			startupHooks:    []func(context.Context) error{log.hook("opt-start", nil)},
			shutdownHooks:   []func(context.Context) error{log.hook("opt-stop", nil)},
			apps:            []*App{app},
			baseCtx:         ctx,
			listening:       func(a net.Addr) { addrCh <- a },
		})
	}()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr.String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Equal(t, "pong", string(body))

	cancel()
	require.NoError(t, <-errCh)
	require.Equal(t, []string{"opt-start", "app-start", "opt-stop", "app-stop"}, log.get())
}

func TestRunServer_StartupFailure(t *testing.T) {
	t.Parallel()

	log := &hookLog{}
	boom := errors.New("graph unreachable")

	app := New()
	app.OnStartup(log.hook("app-start", boom))
	app.OnStartup(log.hook("never", nil))
	app.OnShutdown(log.hook("app-stop", nil))

	listened := false
	err := runServer(runtimeConfig{
		handler:         http.NotFoundHandler(),
		address:         "127.0.0.1:0",
		shutdownTimeout: time.Second,
		apps:            []*App{app},
		listening:       func(net.Addr) { listened = true },
	})

	require.ErrorIs(t, err, boom)
	require.False(t, listened)
	require.Equal(t, []string{"app-start", "app-stop"}, log.get())
}

func TestRunServer_ShutdownHookErrorsJoined(t *testing.T) {
	t.Parallel()

	errA := errors.New("a")
	errB := errors.New("b")
	log := &hookLog{}

	app := New()
	app.OnShutdown(log.hook("app-stop", errB))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runServer(runtimeConfig{
		handler:         http.NotFoundHandler(),
		address:         "127.0.0.1:0",
		shutdownTimeout: time.Second,
		shutdownHooks:   []func(context.Context) error{log.hook("opt-stop", errA)},
		apps:            []*App{app},
		baseCtx:         ctx,
	})

	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	require.Equal(t, []string{"opt-stop", "app-stop"}, log.get())
}

func TestRunServer_ListenError(t *testing.T) {
	t.Parallel()

	log := &hookLog{}
	app := New()
	app.OnShutdown(log.hook("app-stop", nil))

	err := runServer(runtimeConfig{
		handler: http.NotFoundHandler(),
		address: "256.0.0.1:bad",
		apps:    []*App{app},
	})

	require.Error(t, err)
	require.Equal(t, []string{"app-stop"}, log.get())
}

func TestRunConfig_Handler(t *testing.T) {
	t.Parallel()

	t.Run("no apps", func(t *testing.T) {
		t.Parallel()
		_, _, err := buildRunConfig().handler()
		require.ErrorIs(t, err, ErrNoApps)
	})

	t.Run("fallback only", func(t *testing.T) {
		t.Parallel()
		app := New()
		_, apps, err := buildRunConfig(Fallback(app)).handler()
		require.NoError(t, err)
		require.Equal(t, []*App{app}, apps)
	})

	t.Run("apps listed once", func(t *testing.T) {
		t.Parallel()
		api := New(WithName("api"))
		tenants := New(WithName("tenants"))

		_, apps, err := buildRunConfig(
			Domain("api.example.com", api),
			Domain("*.example.com", tenants),
			Domain("*.example.org", tenants),
			Fallback(api),
		).handler()
		require.NoError(t, err)
		require.Equal(t, []*App{tenants, api}, apps)
	})
}
