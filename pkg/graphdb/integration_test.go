//go:build integration

package graphdb_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcneo4j "github.com/testcontainers/testcontainers-go/modules/neo4j"

	"github.com/dmitrymomot/neoforge/pkg/graphdb"
	"github.com/dmitrymomot/neoforge/pkg/graphdb/graphdbtest"
)

const testPassword = "integration-pass"

var testBoltURL string

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcneo4j.Run(ctx, "neo4j:5",
		tcneo4j.WithAdminPassword(testPassword),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start neo4j container: %v\n", err)
		os.Exit(1)
	}

	testBoltURL, err = container.BoltUrl(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get neo4j bolt url: %v\n", err)
		_ = testcontainers.TerminateContainer(container)
		os.Exit(1)
	}

	code := m.Run()
	if err := testcontainers.TerminateContainer(container); err != nil {
		fmt.Fprintf(os.Stderr, "failed to terminate neo4j container: %v\n", err)
	}
	os.Exit(code)
}

func boundContext(t *testing.T, env map[string]string) (context.Context, *graphdb.Extension) {
	t.Helper()

	app := graphdbtest.NewApp(env)
	ext, err := graphdb.NewBound(app)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ext.Close(context.Background()) })

	return graphdb.ContextWithApplication(context.Background(), app), ext
}

func TestIntegration_Query(t *testing.T) {
	t.Parallel()

	ctx, ext := boundContext(t, map[string]string{"GRAPHDB_URI": testBoltURL, "GRAPHDB_PASS": testPassword})

	res, err := ext.Query(ctx, "RETURN 1 AS n", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"n"}, res.Keys)

	v, ok := res.Value("n")
	require.True(t, ok)
	require.Equal(t, int64(1), v)
}

func TestIntegration_WriteAndRead(t *testing.T) {
	t.Parallel()

	ctx, ext := boundContext(t, map[string]string{"GRAPHDB_URI": testBoltURL, "GRAPHDB_PASS": testPassword})

	res, err := ext.Query(ctx, "CREATE (m:IntegrationMovie {title: $title}) RETURN m", map[string]any{"title": "Heat"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Summary.Counters.NodesCreated)

	out, err := ext.ExecuteRead(ctx, func(tx graphdb.Tx) (any, error) {
		r, err := tx.Run(ctx, "MATCH (m:IntegrationMovie {title: $title}) RETURN count(m) AS c", map[string]any{"title": "Heat"})
		if err != nil {
			return nil, err
		}
		v, _ := r.Value("c")
		return v, nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), out)
}

func TestIntegration_Healthcheck(t *testing.T) {
	t.Parallel()

	app := graphdbtest.NewApp(map[string]string{"GRAPHDB_URI": testBoltURL, "GRAPHDB_PASS": testPassword})
	ext, err := graphdb.NewBound(app)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ext.Close(context.Background()) })

	require.NoError(t, graphdb.Healthcheck(ext, app)(context.Background()))
}

func TestIntegration_UnreachableServer(t *testing.T) {
	t.Parallel()

	ctx, ext := boundContext(t, map[string]string{
		"GRAPHDB_URI":                      "bolt://127.0.0.1:1",
		"GRAPHDB_CONN_ACQUISITION_TIMEOUT": "2s",
		"GRAPHDB_SOCKET_CONNECT_TIMEOUT":   "1s",
	})

	qctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := ext.Query(qctx, "RETURN 1", nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, graphdb.ErrNotBound))
	require.False(t, errors.Is(err, graphdb.ErrInvalidConfig))
}
