// Package dbtest opens a migrated sqlite database for package tests
package dbtest

import (
	"path/filepath"
	"testing"
	"time-tracker-backend/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.OpenSqlite(filepath.Join(t.TempDir(), "time_tracker_test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
