package graphdb

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"time"

	"go-simpler.org/env"
)

// Default connection settings applied to keys absent from the application configuration.
const (
	DefaultURI      = "bolt://localhost:7687"
	DefaultUser     = "neo4j"
	DefaultPassword = "neo4j"
)

// Config holds the connection settings of a single binding.
// Every key falls back to its own default when absent.
type Config struct {
	URI      string `env:"GRAPHDB_URI" default:"bolt://localhost:7687"`
	User     string `env:"GRAPHDB_USER" default:"neo4j"`
	Password string `env:"GRAPHDB_PASS" default:"neo4j"`
	Database string `env:"GRAPHDB_DATABASE"`

	MaxConnLifetime        time.Duration `env:"GRAPHDB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnPoolSize        int           `env:"GRAPHDB_MAX_CONN_POOL_SIZE" default:"100"`
	ConnAcquisitionTimeout time.Duration `env:"GRAPHDB_CONN_ACQUISITION_TIMEOUT" default:"1m"`
	SocketConnectTimeout   time.Duration `env:"GRAPHDB_SOCKET_CONNECT_TIMEOUT" default:"5s"`
	MaxTxRetryTime         time.Duration `env:"GRAPHDB_MAX_TX_RETRY_TIME" default:"30s"`
	FetchSize              int           `env:"GRAPHDB_FETCH_SIZE" default:"1000"`
}

// Source provides raw configuration values by key.
// It is satisfied by the host application and by env.Map.
type Source interface {
	LookupEnv(key string) (string, bool)
}

type osSource struct{}

func (osSource) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

var supportedSchemes = []string{"bolt", "bolt+s", "bolt+ssc", "neo4j", "neo4j+s", "neo4j+ssc"}

// LoadConfig reads the graph database settings from src.
// A nil src reads the process environment.
func LoadConfig(src Source) (Config, error) {
	if src == nil {
		src = osSource{}
	}

	var cfg Config
	if err := env.Load(&cfg, &env.Options{Source: src}); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the structural validity of the configuration.
// It never contacts the server.
func (c Config) Validate() error {
	u, err := url.Parse(c.URI)
	if err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	if !slices.Contains(supportedSchemes, u.Scheme) {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("unsupported uri scheme %q", u.Scheme))
	}
	if u.Hostname() == "" {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("uri %q has no host", c.URI))
	}
	if c.MaxConnPoolSize < 1 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("max connection pool size must be positive, got %d", c.MaxConnPoolSize))
	}
	if c.FetchSize == 0 || c.FetchSize < -1 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("fetch size must be positive or -1, got %d", c.FetchSize))
	}
	for name, d := range map[string]time.Duration{
		"max connection lifetime":        c.MaxConnLifetime,
		"connection acquisition timeout": c.ConnAcquisitionTimeout,
		"socket connect timeout":         c.SocketConnectTimeout,
		"max transaction retry time":     c.MaxTxRetryTime,
	} {
		if d < 0 {
			return errors.Join(ErrInvalidConfig, fmt.Errorf("%s must not be negative, got %s", name, d))
		}
	}
	return nil
}

// Routing reports whether the URI selects a routing (cluster-aware) driver.
func (c Config) Routing() bool {
	u, err := url.Parse(c.URI)
	if err != nil {
		return false
	}
	return u.Scheme == "neo4j" || u.Scheme == "neo4j+s" || u.Scheme == "neo4j+ssc"
}

// LogValue hides the password when the config is logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("uri", c.URI),
		slog.String("user", c.User),
		slog.String("database", c.Database),
		slog.Int("max_conn_pool_size", c.MaxConnPoolSize),
		slog.Duration("max_conn_lifetime", c.MaxConnLifetime),
	)
}
