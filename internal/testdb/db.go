//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout is the default timeout for test database operations.
const TestTimeout = 5 * time.Second

// Environment variables checked for the test database, in order.
var databaseURLEnvVars = []string{"DATABASE_URL", "TASKFLOW_TEST_DB_URL"}

var (
	migrateOnce sync.Once
	migrateErr  error
)

// GetTestDatabaseURL returns the first configured test database URL.
func GetTestDatabaseURL() string {
	for _, name := range databaseURLEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsIntegrationTestEnvironment reports whether a test database is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// GetTestDBWithT opens the test database and migrates it, skipping the test
// when no database is configured. The connection is closed on cleanup.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open test database %s", MaskDatabaseURL(dbURL))
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping test database %s", MaskDatabaseURL(dbURL))

	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(context.Background(), db, "up", nil)
	})
	require.NoError(t, migrateErr, "failed to migrate test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// MaskDatabaseURL hides the password of a database URL for logging.
func MaskDatabaseURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return dbURL
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
