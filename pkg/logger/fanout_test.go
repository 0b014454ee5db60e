package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type failingHandler struct {
	slog.Handler
	err error
}

func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }

func TestFanout(t *testing.T) {
	t.Parallel()

	var info, errs bytes.Buffer
	f := fanout{
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	ctx := context.Background()

	require.False(t, f.Enabled(ctx, slog.LevelDebug))
	require.True(t, f.Enabled(ctx, slog.LevelWarn))

	require.NoError(t, f.WithGroup("graphdb").Handle(ctx, slog.NewRecord(time.Now(), slog.LevelWarn, "slow query", 0)))
	require.Contains(t, info.String(), "slow query")
	require.Empty(t, errs.String())

	require.NoError(t, f.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelError, "bind failed", 0)))
	require.Contains(t, errs.String(), "bind failed")

	t.Run("keeps delivering after a failure", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		boom := errors.New("sentry down")
		f := fanout{
			failingHandler{Handler: slog.NewTextHandler(&out, nil), err: boom},
			slog.NewTextHandler(&out, nil),
		}

		err := f.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "delivered", 0))
		require.ErrorIs(t, err, boom)
		require.Contains(t, out.String(), "delivered")
	})
}
