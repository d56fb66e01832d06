package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"cantina/internal/connections/database"
)

// testDB connects to the database named by CANTINA_TEST_DATABASE_URL and applies
// the migrations. Tests that need it are skipped when the variable is unset.
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("CANTINA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CANTINA_TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	_, err = database.Migrate(ctx, pool)
	require.NoError(t, err)
	return pool
}
