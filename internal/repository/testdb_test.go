package repository

import (
	"testing"

	"chillconnect/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-memory database. The pool is capped at
// one connection so every query sees the same memory store.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.EscrowHold{},
		&models.TokenTransaction{},
		&models.PlatformRevenue{},
		&models.Withdrawal{},
		&models.Booking{},
		&models.OTPChallenge{},
		&models.ServiceStartGate{},
		&models.AssignmentPool{},
		&models.PoolMember{},
		&models.WorkItem{},
		&models.Verification{},
		&models.Dispute{},
		&models.Rating{},
		&models.Notification{},
	))
	return db
}
