package logger

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"slices"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"go-simpler.org/env"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" default:"production"`
	// MinLevel determines which log levels to send to Sentry (e.g., slog.LevelWarn for warnings+errors)
	MinLevel slog.Level
	// RawMinLevel is SENTRY_MIN_LEVEL as read. LoadSentryConfig parses it into MinLevel.
	RawMinLevel string `env:"SENTRY_MIN_LEVEL" default:"warn"`
}

// LoadSentryConfig reads the SENTRY_* keys from src.
// A nil src reads the process environment.
func LoadSentryConfig(src Source) (SentryConfig, error) {
	if src == nil {
		src = osSource{}
	}
	var cfg SentryConfig
	if err := env.Load(&cfg, &env.Options{Source: src}); err != nil {
		return SentryConfig{}, errors.Join(ErrInvalidConfig, err)
	}
	level, err := parseLevel(cfg.RawMinLevel)
	if err != nil {
		return SentryConfig{}, err
	}
	cfg.MinLevel = level
	return cfg, nil
}

// NewWithSentry creates a logger that sends logs to both stdout and Sentry.
// If DSN is empty, only stdout logging is enabled (graceful fallback for local dev).
// Context extractors are applied to logs sent to both destinations.
func NewWithSentry(cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	stdoutHandler := NewHandler(configFromEnv(), os.Stdout)

	// If no DSN, fall back to stdout only
	if cfg.DSN == "" {
		return slog.New(NewContextHandler(stdoutHandler, withApp(extractors)...))
	}

	// Initialize Sentry SDK
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		// Graceful degradation: log to stdout if Sentry init fails
		slog.New(stdoutHandler).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(NewContextHandler(stdoutHandler, withApp(extractors)...))
	}

	// Determine which levels to send to Sentry
	eventLevel := []slog.Level{slog.LevelError}
	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: eventLevel, // Errors create Issues in Sentry
		LogLevel:   logLevel,   // Logs stored for context/search
	}.NewSentryHandler(context.Background())

	// Extractors wrap the fan-out so both destinations see the same attributes.
	return slog.New(NewContextHandler(fanout{stdoutHandler, sentryHandler}, withApp(extractors)...))
}

// fanout sends each record to every handler that accepts its level.
// All handlers are tried and their errors are joined.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(f, func(h slog.Handler) bool { return h.Enabled(ctx, level) })
}

func (f fanout) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, rec.Level) {
			errs = append(errs, h.Handle(ctx, rec.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
