// Package testinternals holds helpers for tests that run against a real postgres or redis.
// Those tests carry the integration_test or all_tests build tag.
package testinternals

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/2beens/fittrack/internal/db"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const (
	defaultDBName = "fittrack_test"
	setupTimeout  = 10 * time.Second
	// keeps test keys away from a local dev session store on db 0
	testRedisDB   = 15
)

// PostgresPool connects to the test database, applies the schema and empties every table.
// POSTGRES_HOST, POSTGRES_PORT and POSTGRES_DB override the local defaults.
func PostgresPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	host := envOr("POSTGRES_HOST", "localhost")
	t.Logf("using postgres host: %s", host)

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     host,
		DBPort:     envOr("POSTGRES_PORT", "5432"),
		DBName:     envOr("POSTGRES_DB", defaultDBName),
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	Truncate(t, pool)

	return pool
}

// Truncate removes all rows from the fittrack tables.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(
		context.Background(),
		`TRUNCATE meals, exercises, profiles, workout_recommendations`,
	)
	require.NoError(t, err)
}

// RedisClient connects to the test redis and flushes its database.
// REDIS_HOST, REDIS_PORT and REDIS_PASS override the local defaults.
func RedisClient(t *testing.T) *redis.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	addr := net.JoinHostPort(envOr("REDIS_HOST", "localhost"), envOr("REDIS_PORT", "6379"))
	t.Logf("using redis: %s", addr)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       testRedisDB,
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	require.NoError(t, rdb.Ping(ctx).Err())
	require.NoError(t, rdb.FlushDB(ctx).Err())

	return rdb
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
