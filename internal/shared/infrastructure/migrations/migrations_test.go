package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/strand/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/migrations"
)

func TestList_BothDriversShareVersions(t *testing.T) {
	lite, err := migrations.List(database.DriverSQLite)
	require.NoError(t, err)
	pg, err := migrations.List(database.DriverPostgres)
	require.NoError(t, err)

	require.NotEmpty(t, lite)
	require.Len(t, pg, len(lite))
	for i := range lite {
		assert.Equal(t, lite[i].Version, pg[i].Version)
	}
}

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "strand.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ran, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_core", "0002_outbox"}, ran)

	for _, table := range []string{"profiles", "streaks", "plans", "daily_completions", "weekly_feedback", "learners", "outbox"} {
		var name string
		err := conn.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	again, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, again)
}
