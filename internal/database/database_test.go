package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigratedCreatesCacheTable(t *testing.T) {
	db, err := OpenMigrated("file:migrate-test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'cache_entries'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "cache_entries", name)

	require.NoError(t, ApplyMigrations(db, Migrations, "migrations"))

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestApplyMigrationsRunsInNameOrder(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations := fstest.MapFS{
		"sql/002_seed.sql":  {Data: []byte(`INSERT INTO things(name) VALUES ('first');`)},
		"sql/001_table.sql": {Data: []byte(`CREATE TABLE things (name TEXT NOT NULL);`)},
		"sql/README.md":     {Data: []byte(`not a migration`)},
	}
	require.NoError(t, ApplyMigrations(db, migrations, "sql"))

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM things`).Scan(&name))
	assert.Equal(t, "first", name)
}

func TestApplyMigrationsRollsBackFailure(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = ApplyMigrations(db, fstest.MapFS{"sql/001_broken.sql": {Data: []byte(`CREATE TABLE`)}}, "sql")
	require.Error(t, err)

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&applied))
	assert.Zero(t, applied)
}

func TestOpenFileDSNCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.FileExists(t, path)
}

func TestIsMemoryDSN(t *testing.T) {
	assert.True(t, IsMemoryDSN(":memory:"))
	assert.True(t, IsMemoryDSN(DefaultDSN))
	assert.False(t, IsMemoryDSN("/var/lib/livechart/cache.db"))
}
