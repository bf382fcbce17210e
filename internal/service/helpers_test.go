package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"chillconnect/config"
	"chillconnect/internal/models"
	"chillconnect/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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

// recordingSender captures outgoing SMS so tests can read the delivered code.
type recordingSender struct {
	phones   []string
	messages []string
}

func (s *recordingSender) Send(_ context.Context, phone, message string) error {
	s.phones = append(s.phones, phone)
	s.messages = append(s.messages, message)
	return nil
}

var codePattern = regexp.MustCompile(`is (\d{6})`)

func (s *recordingSender) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.messages)
	m := codePattern.FindStringSubmatch(s.messages[len(s.messages)-1])
	require.Len(t, m, 2, "message should carry a six digit code")
	return m[1]
}

func otpTestConfig() *config.OTPConfig {
	return &config.OTPConfig{
		SeekerTTL:   30 * time.Minute,
		ProviderTTL: 10 * time.Minute,
		MaxAttempts: 5,
		HashSecret:  "test-secret",
	}
}

func tokenTestConfig() *config.TokenConfig {
	return &config.TokenConfig{
		ValueINR:          100,
		CommissionRate:    0.15,
		ProcessingFeeRate: 0.05,
	}
}

type testEnv struct {
	db       *gorm.DB
	sender   *recordingSender
	otp      *OTPService
	bookings *BookingService
	wallets  *repository.WalletRepository
	notif    *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	sender := &recordingSender{}
	notif := NewNotificationService(repository.NewNotificationRepository(db))
	otp := NewOTPService(otpTestConfig(), db, sender, notif)
	return &testEnv{
		db:       db,
		sender:   sender,
		otp:      otp,
		bookings: NewBookingService(db, tokenTestConfig(), otp, notif),
		wallets:  repository.NewWalletRepository(db),
		notif:    notif,
	}
}

func (e *testEnv) seedUser(t *testing.T, role string, rate int64) *models.User {
	t.Helper()
	u := &models.User{
		Email:      role + "-" + time.Now().Format("150405.000000000") + "@test.local",
		Role:       role,
		Phone:      "+911234567890",
		HourlyRate: rate,
		IsActive:   true,
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}
