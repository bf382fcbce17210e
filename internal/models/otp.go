package models

import (
	"time"
)

// OTPChallenge is one issued passcode bound to a booking and a purpose.
// Codes are stored as salted SHA-256 hashes, never plaintext. A challenge is
// invalidated (not deleted) by consumption, expiry, or a superseding
// regeneration; at most one live challenge exists per booking per purpose.
type OTPChallenge struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	BookingID    uint       `gorm:"not null;index:idx_otp_booking_purpose" json:"booking_id"`
	Purpose      string     `gorm:"size:30;not null;index:idx_otp_booking_purpose" json:"purpose"` // SEEKER_GENERATED | PROVIDER_SMS
	CodeHash     string     `gorm:"size:64;not null" json:"-"`
	Salt         string     `gorm:"size:32;not null" json:"-"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	ConsumedAt   *time.Time `json:"consumed_at"`
	SupersededAt *time.Time `json:"superseded_at"`
	CreatedAt    time.Time  `json:"created_at"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
}

func (OTPChallenge) TableName() string {
	return "otp_challenges"
}

func (c *OTPChallenge) IsLive(now time.Time) bool {
	return c.ConsumedAt == nil && c.SupersededAt == nil && now.Before(c.ExpiresAt)
}

func (c *OTPChallenge) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ServiceStartGate tracks cumulative failed verify attempts per booking,
// shared across both OTP purposes. Once locked it stays locked until staff
// clear it.
type ServiceStartGate struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	BookingID      uint       `gorm:"uniqueIndex;not null" json:"booking_id"`
	FailedAttempts int        `gorm:"not null;default:0" json:"failed_attempts"`
	LockedAt       *time.Time `json:"locked_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (ServiceStartGate) TableName() string {
	return "service_start_gates"
}
