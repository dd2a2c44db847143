package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "worldle.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)

	for _, table := range []string{"player_kv", "users", "daily_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestOpenMigratedInMemory(t *testing.T) {
	db, err := OpenMigrated(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO player_kv(player_id, key, value) VALUES ('p', 'k', 'v')`)
	assert.NoError(t, err)
}
