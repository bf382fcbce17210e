package models

import (
	"time"

	"chillconnect/internal/domain"

	"gorm.io/gorm"
)

// Booking is never deleted: cancellation is a terminal status, not a removal.
// TotalTokens is computed once at creation (rate * hours + processing fee)
// and immutable afterwards.
type Booking struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	SeekerID        uint           `gorm:"not null;index" json:"seeker_id"`
	ProviderID      uint           `gorm:"not null;index" json:"provider_id"`
	StartTime       time.Time      `gorm:"not null" json:"start_time"`
	DurationHours   int            `gorm:"not null" json:"duration_hours"`
	TotalTokens     int64          `gorm:"not null" json:"total_tokens"`
	Mode            string         `gorm:"size:20;not null" json:"mode"` // INCALL | OUTCALL
	Location        string         `gorm:"size:512" json:"location"`
	SpecialRequests string         `gorm:"type:text" json:"special_requests"`
	Status          string         `gorm:"size:20;not null;index" json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Seeker   User `gorm:"foreignKey:SeekerID" json:"-"`
	Provider User `gorm:"foreignKey:ProviderID" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsParty reports whether the user is the seeker or provider on this booking.
func (b *Booking) IsParty(userID uint) bool {
	return userID == b.SeekerID || userID == b.ProviderID
}

// ActorFor maps a user to their relationship with this booking.
func (b *Booking) ActorFor(userID uint) (domain.Actor, bool) {
	switch userID {
	case b.SeekerID:
		return domain.ActorSeeker, true
	case b.ProviderID:
		return domain.ActorProvider, true
	}
	return "", false
}

// HoldsEscrow reports whether tokens are still reserved against this booking.
func (b *Booking) HoldsEscrow() bool {
	switch b.Status {
	case domain.BookingStatusPending, domain.BookingStatusConfirmed, domain.BookingStatusInProgress:
		return true
	}
	return false
}
