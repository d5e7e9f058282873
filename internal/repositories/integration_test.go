package repositories

import (
	"context"
	"os"
	"testing"

	"github.com/Totarae/shortener/internal/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"
)

// Интеграционные тесты поднимают контейнеры и требуют Docker.
func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() || os.Getenv("SHORTENER_INTEGRATION") == "" {
		t.Skip("set SHORTENER_INTEGRATION=1 to run integration tests")
	}
}

func TestMongoRepository_Integration(t *testing.T) {
	skipUnlessIntegration(t)
	ctx := context.Background()

	container, err := mongodb.RunContainer(ctx, testcontainers.WithImage("mongo:6"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	client, err := database.NewMongoClient(ctx, "mongodb://"+host+":"+port.Port())
	require.NoError(t, err)

	r := NewMongoRepository(client, "shortener-test")
	t.Cleanup(func() { _ = r.Close(ctx) })
	checkBackend(t, r)
}

func TestRedisRepository_Integration(t *testing.T) {
	skipUnlessIntegration(t)
	ctx := context.Background()

	container, err := tcredis.RunContainer(ctx, testcontainers.WithImage("redis:7"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := database.NewRedisClient(uri)
	require.NoError(t, err)

	r := NewRedisRepository(client)
	t.Cleanup(func() { _ = r.Close(ctx) })
	checkBackend(t, r)
}

// PostgreSQL проверяется на внешней базе из TEST_DATABASE_DSN.
func TestPostgresRepository_Integration(t *testing.T) {
	skipUnlessIntegration(t)
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}
	ctx := context.Background()
	logger := zap.NewNop()

	require.NoError(t, database.Migrate(dsn, logger))
	db, err := database.NewDB(ctx, dsn, logger)
	require.NoError(t, err)

	_, err = db.Pool.Exec(ctx, "TRUNCATE shortens")
	require.NoError(t, err)

	r := NewPostgresRepository(db)
	t.Cleanup(func() { _ = r.Close(ctx) })
	checkBackend(t, r)
}
