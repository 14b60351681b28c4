package database

import (
	"path/filepath"
	"testing"

	"github.com/gilanghuda/habit-tracker-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{DBDriver: DriverSQLite, DBPath: filepath.Join(t.TempDir(), "data", "test.db")}

	db, err := InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB() })
	assert.Equal(t, DriverSQLite, Driver)

	require.NoError(t, Migrate(db, Driver))
	// idempotent
	require.NoError(t, Migrate(db, Driver))

	for _, table := range []string{"users", "refresh_tokens", "habit_entries", "challenges", "badges", "user_challenges", "user_badges"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestMigrateUnknownDriver(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, Migrate(db, "mysql"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}
