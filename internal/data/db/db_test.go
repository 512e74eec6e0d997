package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	gdb, err := Open(Config{Driver: "sqlite3", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, AutoMigrateAll(gdb))
	require.NoError(t, EnsureLessonIndexes(gdb))
	assert.True(t, gdb.Migrator().HasTable("lesson"))
	assert.True(t, gdb.Migrator().HasColumn("lesson", "public_slug"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	_, err := Open(Config{Driver: "postgres"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, DriverPostgres, driverName(""))
	assert.Equal(t, DriverPostgres, driverName("PostgreSQL"))
	assert.Equal(t, DriverSQLite, driverName("sqlite3"))
}
