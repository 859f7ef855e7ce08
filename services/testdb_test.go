package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fieldtrack/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "services_test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.Employee{},
		&database.Admin{},
		&database.SuperAdmin{},
		&database.PasswordResetToken{},
		&database.AuditLog{},
	))
	return db
}

func auditRecords(t *testing.T, db *gorm.DB) []database.AuditLog {
	t.Helper()
	var records []database.AuditLog
	require.NoError(t, db.Order("id ASC").Find(&records).Error)
	return records
}
