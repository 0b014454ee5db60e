package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go-simpler.org/env"
)

// ErrInvalidConfig is returned when the logging configuration cannot be used.
var ErrInvalidConfig = errors.New("logger: invalid config")

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds the output settings shared by every logger in this package.
type Config struct {
	Level  slog.Level
	Format string
}

type envConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"json"`
}

// Source provides raw configuration values by key.
// neoforge apps satisfy it, so each app can log at its own level.
type Source interface {
	LookupEnv(key string) (string, bool)
}

type osSource struct{}

func (osSource) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

// LoadConfig reads LOG_LEVEL and LOG_FORMAT from src.
// A nil src reads the process environment.
func LoadConfig(src Source) (Config, error) {
	if src == nil {
		src = osSource{}
	}

	var raw envConfig
	if err := env.Load(&raw, &env.Options{Source: src}); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	level, err := parseLevel(raw.Level)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{Level: level, Format: strings.ToLower(strings.TrimSpace(raw.Format))}
	switch cfg.Format {
	case FormatJSON, FormatText:
	default:
		return Config{}, errors.Join(ErrInvalidConfig, fmt.Errorf("unknown format %q", raw.Format))
	}
	return cfg, nil
}

// parseLevel accepts slog level names, case-insensitive, with optional offsets ("warn+2").
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errors.Join(ErrInvalidConfig, err)
	}
	return level, nil
}

// DefaultConfig is the configuration used when none is given: JSON at info level.
func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo, Format: FormatJSON}
}

// NewHandler builds the base handler for cfg writing to w.
func NewHandler(cfg Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatText {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// configFromEnv loads the process configuration, falling back to defaults
// when it is invalid.
func configFromEnv() Config {
	cfg, err := LoadConfig(nil)
	if err != nil {
		slog.New(NewHandler(DefaultConfig(), os.Stderr)).Warn("invalid logging configuration, using defaults", slog.Any("error", err))
		return DefaultConfig()
	}
	return cfg
}
