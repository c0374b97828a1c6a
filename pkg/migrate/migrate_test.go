package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/dryfruit-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestSnapshotMigrationContents(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_kv_snapshots.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS kv_snapshots",
		"key TEXT PRIMARY KEY",
		"payload TEXT NOT NULL",
		"DROP TABLE IF EXISTS kv_snapshots",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestRunUpAndDownOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	ctx := context.Background()
	require.NoError(t, Run(ctx, sqlDB, config.DBDriverSQLite, "migrations", "up"))
	assert.True(t, conn.Migrator().HasTable("kv_snapshots"))

	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DBDriverSQLite, "migrations", "0"))
	assert.False(t, conn.Migrator().HasTable("kv_snapshots"))
}

func TestGooseDialect(t *testing.T) {
	name, err := gooseDialect(config.DBDriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", name)

	name, err = gooseDialect("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", name)

	_, err = gooseDialect("mysql")
	assert.Error(t, err)
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	err := ValidateDir(dir)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid migration filename"))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Order Index!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_order_index.sql"))
	require.NoError(t, ValidateDir(dir))
}
