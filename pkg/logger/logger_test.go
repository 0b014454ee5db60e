package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go-simpler.org/env"

	"github.com/dmitrymomot/neoforge/pkg/appctx"
	"github.com/dmitrymomot/neoforge/pkg/logger"
)

type requestIDKey struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := logger.LoadConfig(env.Map{})
		require.NoError(t, err)
		require.Equal(t, logger.DefaultConfig(), cfg)
	})

	t.Run("explicit", func(t *testing.T) {
		t.Parallel()
		cfg, err := logger.LoadConfig(env.Map{"LOG_LEVEL": "debug", "LOG_FORMAT": "TEXT"})
		require.NoError(t, err)
		require.Equal(t, slog.LevelDebug, cfg.Level)
		require.Equal(t, logger.FormatText, cfg.Format)
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()
		_, err := logger.LoadConfig(env.Map{"LOG_LEVEL": "loud"})
		require.ErrorIs(t, err, logger.ErrInvalidConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()
		_, err := logger.LoadConfig(env.Map{"LOG_FORMAT": "xml"})
		require.ErrorIs(t, err, logger.ErrInvalidConfig)
	})
}

func TestNewWithConfig(t *testing.T) {
	t.Parallel()

	t.Run("json with extractor", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithConfig(logger.DefaultConfig(), &buf, requestID, nil)

		ctx := context.WithValue(context.Background(), requestIDKey{}, "abc-123")
		log.With("component", "api").InfoContext(ctx, "request processed", slog.Int("status", 200))
		log.DebugContext(ctx, "filtered out")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		require.Equal(t, "request processed", entry["msg"])
		require.Equal(t, "abc-123", entry["request_id"])
		require.Equal(t, "api", entry["component"])
		require.InDelta(t, 200, entry["status"], 0)
	})

	t.Run("text at debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithConfig(logger.Config{Level: slog.LevelDebug, Format: logger.FormatText}, &buf)

		log.WithGroup("graphdb").Debug("session opened", slog.String("database", "movies"))
		require.Contains(t, buf.String(), "level=DEBUG")
		require.Contains(t, buf.String(), "graphdb.database=movies")
	})

	t.Run("extractor skipped without value", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithConfig(logger.DefaultConfig(), &buf, requestID)

		log.Info("no request")
		require.NotContains(t, buf.String(), "request_id")
	})
}

func TestLoadSentryConfig(t *testing.T) {
	t.Parallel()

	cfg, err := logger.LoadSentryConfig(env.Map{})
	require.NoError(t, err)
	require.Empty(t, cfg.DSN)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, slog.LevelWarn, cfg.MinLevel)

	// Without a DSN the logger degrades to stdout only.
	require.NotNil(t, logger.NewWithSentry(cfg))
}

type namedApp string

func (a namedApp) Name() string { return string(a) }

func TestAppExtractor(t *testing.T) {
	t.Parallel()

	t.Run("adds the serving app", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithConfig(logger.DefaultConfig(), &buf)

		log.InfoContext(appctx.WithApp(context.Background(), namedApp("catalog")), "bound")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "catalog", entry["app"])
	})

	t.Run("skips apps without a name", func(t *testing.T) {
		t.Parallel()
		ex := logger.AppExtractor()

		_, ok := ex(context.Background())
		require.False(t, ok)
		_, ok = ex(appctx.WithApp(context.Background(), namedApp("")))
		require.False(t, ok)
		_, ok = ex(appctx.WithApp(context.Background(), struct{}{}))
		require.False(t, ok)
	})

	t.Run("first extractor wins on duplicate keys", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		override := func(context.Context) (slog.Attr, bool) { return slog.String("app", "other"), true }
		log := logger.NewWithConfig(logger.DefaultConfig(), &buf, override)

		log.InfoContext(appctx.WithApp(context.Background(), namedApp("catalog")), "bound")
		require.Equal(t, 1, strings.Count(buf.String(), `"app":`))
		require.Contains(t, buf.String(), `"app":"catalog"`)
	})
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.False(t, log.Enabled(context.Background(), slog.LevelError))
	require.NotPanics(t, func() { log.Error("discarded") })
}
