package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a user's token balances. AvailableTokens is spendable;
// EscrowTokens mirrors the sum of this user's live escrow holds.
// Created lazily on first token activity.
type Wallet struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	AvailableTokens int64          `gorm:"not null;default:0" json:"available_tokens"`
	EscrowTokens    int64          `gorm:"not null;default:0" json:"escrow_tokens"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// EscrowHold ties a booking to its reserved tokens. Exactly one hold exists
// per booking while it is live; it is deleted on release or refund, never
// partially.
type EscrowHold struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookingID uint      `gorm:"uniqueIndex;not null" json:"booking_id"`
	SeekerID  uint      `gorm:"not null;index" json:"seeker_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
}

func (EscrowHold) TableName() string {
	return "escrow_holds"
}

// TokenTransaction records every ledger mutation for history and audit.
// Amount is positive for credits, negative for debits.
type TokenTransaction struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Type         string         `gorm:"size:30;not null;index" json:"type"` // ESCROW_HOLD, EARNING, REFUND, ...
	Amount       int64          `gorm:"not null" json:"amount"`
	BalanceAfter int64          `gorm:"not null" json:"balance_after"`
	Reference    string         `gorm:"size:128" json:"reference"` // e.g. booking_42, order uuid
	BookingID    *uint          `gorm:"index" json:"booking_id"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TokenTransaction) TableName() string {
	return "token_transactions"
}

// PlatformRevenue is the commission side of an escrow release. The platform
// absorbs rounding remainders, so hold.Amount == provider earning + Amount.
type PlatformRevenue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookingID uint      `gorm:"uniqueIndex;not null" json:"booking_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (PlatformRevenue) TableName() string {
	return "platform_revenues"
}

// Withdrawal is the exit point of the token economy; the payout itself is
// driven by the external payment gateway port.
type Withdrawal struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Tokens    int64          `gorm:"not null" json:"tokens"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // PENDING, COMPLETED, FAILED
	Reference string         `gorm:"size:128;index" json:"reference"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
