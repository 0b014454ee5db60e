package graphdb_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go-simpler.org/env"

	"github.com/dmitrymomot/neoforge/pkg/graphdb"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults when nothing is configured", func(t *testing.T) {
		t.Parallel()

		cfg, err := graphdb.LoadConfig(env.Map{})
		require.NoError(t, err)
		require.Equal(t, graphdb.DefaultURI, cfg.URI)
		require.Equal(t, graphdb.DefaultUser, cfg.User)
		require.Equal(t, graphdb.DefaultPassword, cfg.Password)
		require.Empty(t, cfg.Database)
		require.Equal(t, time.Hour, cfg.MaxConnLifetime)
		require.Equal(t, 100, cfg.MaxConnPoolSize)
		require.Equal(t, time.Minute, cfg.ConnAcquisitionTimeout)
		require.Equal(t, 5*time.Second, cfg.SocketConnectTimeout)
		require.Equal(t, 30*time.Second, cfg.MaxTxRetryTime)
		require.Equal(t, 1000, cfg.FetchSize)
	})

	t.Run("each key falls back independently", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			src  env.Map
			want [3]string
		}{
			{"uri only", env.Map{"GRAPHDB_URI": "bolt://db:7687"}, [3]string{"bolt://db:7687", "neo4j", "neo4j"}},
			{"user only", env.Map{"GRAPHDB_USER": "admin"}, [3]string{"bolt://localhost:7687", "admin", "neo4j"}},
			{"pass only", env.Map{"GRAPHDB_PASS": "secret"}, [3]string{"bolt://localhost:7687", "neo4j", "secret"}},
			{"all set", env.Map{
				"GRAPHDB_URI":  "neo4j+s://cluster.example.com",
				"GRAPHDB_USER": "u",
				"GRAPHDB_PASS": "p",
			}, [3]string{"neo4j+s://cluster.example.com", "u", "p"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				cfg, err := graphdb.LoadConfig(tt.src)
				require.NoError(t, err)
				require.Equal(t, tt.want, [3]string{cfg.URI, cfg.User, cfg.Password})
			})
		}
	})

	t.Run("parses tuning keys", func(t *testing.T) {
		t.Parallel()

		cfg, err := graphdb.LoadConfig(env.Map{
			"GRAPHDB_DATABASE":                 "movies",
			"GRAPHDB_MAX_CONN_LIFETIME":        "10m",
			"GRAPHDB_MAX_CONN_POOL_SIZE":       "7",
			"GRAPHDB_CONN_ACQUISITION_TIMEOUT": "2s",
			"GRAPHDB_FETCH_SIZE":               "-1",
		})
		require.NoError(t, err)
		require.Equal(t, "movies", cfg.Database)
		require.Equal(t, 10*time.Minute, cfg.MaxConnLifetime)
		require.Equal(t, 7, cfg.MaxConnPoolSize)
		require.Equal(t, 2*time.Second, cfg.ConnAcquisitionTimeout)
		require.Equal(t, -1, cfg.FetchSize)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			src  env.Map
		}{
			{"unsupported scheme", env.Map{"GRAPHDB_URI": "http://localhost:7474"}},
			{"missing host", env.Map{"GRAPHDB_URI": "bolt://"}},
			{"malformed uri", env.Map{"GRAPHDB_URI": "bolt://host:port"}},
			{"not a number", env.Map{"GRAPHDB_MAX_CONN_POOL_SIZE": "many"}},
			{"zero pool", env.Map{"GRAPHDB_MAX_CONN_POOL_SIZE": "0"}},
			{"bad duration", env.Map{"GRAPHDB_MAX_CONN_LIFETIME": "forever"}},
			{"negative duration", env.Map{"GRAPHDB_SOCKET_CONNECT_TIMEOUT": "-1s"}},
			{"zero fetch size", env.Map{"GRAPHDB_FETCH_SIZE": "0"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := graphdb.LoadConfig(tt.src)
				require.ErrorIs(t, err, graphdb.ErrInvalidConfig)
			})
		}
	})
}

func TestConfig_Routing(t *testing.T) {
	t.Parallel()

	require.False(t, graphdb.Config{URI: "bolt://localhost:7687"}.Routing())
	require.False(t, graphdb.Config{URI: "bolt+s://localhost:7687"}.Routing())
	require.True(t, graphdb.Config{URI: "neo4j://localhost:7687"}.Routing())
	require.True(t, graphdb.Config{URI: "neo4j+ssc://localhost:7687"}.Routing())
}

func TestConfig_LogValueHidesPassword(t *testing.T) {
	t.Parallel()

	cfg := graphdb.Config{URI: "bolt://localhost:7687", User: "neo4j", Password: "s3cret"}
	require.NotContains(t, cfg.LogValue().String(), "s3cret")
	require.Contains(t, cfg.LogValue().String(), "bolt://localhost:7687")
}
