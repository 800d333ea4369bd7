// Package dbtest opens migrated SQLite databases for repository tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/strand/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/migrations"
)

// NewSQLite returns a migrated database in the test's temp dir. It is
// closed when the test ends.
func NewSQLite(t testing.TB) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "strand.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	return conn
}
