package logger

import (
	"io"
	"log/slog"
	"os"
)

// New creates a stdout logger with optional context extractors.
// Level and format come from LOG_LEVEL and LOG_FORMAT (JSON at info level by default).
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithConfig(configFromEnv(), os.Stdout, extractors...)
}

// NewWithConfig creates a logger for cfg writing to w.
// Records logged with a request context also carry the serving app name.
func NewWithConfig(cfg Config, w io.Writer, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewContextHandler(NewHandler(cfg, w), withApp(extractors)...))
}

// NewNope returns a logger that discards everything.
// Apps use it until a logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func withApp(extractors []ContextExtractor) []ContextExtractor {
	return append([]ContextExtractor{AppExtractor()}, extractors...)
}
