package db

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"spindon-server/src/db"
)

// testPool connects to the database named by DATABASE_URL and applies
// migrations. Tests using it skip in short mode and when no database is
// configured.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database tests in short mode")
	}
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	require.NoError(t, db.RunMigrations(url))

	pool, err := db.Connect(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// createTestUser registers a throwaway user; the delete cascade removes the
// user's rows in every dependent table on cleanup.
func createTestUser(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	user, err := CreateUser(context.Background(), pool,
		"t"+suffix+"@example.com", "nick"+suffix[len(suffix)-8:], "not-a-real-hash")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = DeleteUser(context.Background(), pool, user.ID)
	})
	return user.ID
}
