package models

import (
	"time"

	"gorm.io/gorm"
)

// Verification is a user's document-verification request. The core only
// records the terminal approve/reject decision; review heuristics live with
// the staff tooling.
type Verification struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	Type            string         `gorm:"size:20;not null" json:"type"` // IDENTITY | PROFILE | DOCUMENTS
	Documents       string         `gorm:"type:text" json:"documents"`   // JSON array of document URLs
	Status          string         `gorm:"size:20;not null;index" json:"status"`
	ReviewerID      *uint          `gorm:"index" json:"reviewer_id"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason"`
	CompletedAt     *time.Time     `json:"completed_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Verification) TableName() string {
	return "verifications"
}
