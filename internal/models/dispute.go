package models

import (
	"time"

	"gorm.io/gorm"
)

type Dispute struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	BookingID        uint           `gorm:"not null;index" json:"booking_id"`
	ReportedBy       uint           `gorm:"not null;index" json:"reported_by"`
	Type             string         `gorm:"size:30;not null" json:"type"` // NO_SHOW, SERVICE_QUALITY, ...
	Description      string         `gorm:"type:text;not null" json:"description"`
	Evidence         string         `gorm:"type:text" json:"evidence"` // JSON
	Status           string         `gorm:"size:20;not null;index" json:"status"`
	Resolution       string         `gorm:"type:text" json:"resolution"`
	ResolutionTokens int64          `gorm:"default:0" json:"resolution_tokens"` // compensation credited to the reporter
	ResolvedBy       *uint          `gorm:"index" json:"resolved_by"`
	ResolvedAt       *time.Time     `json:"resolved_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Booking  Booking `gorm:"foreignKey:BookingID" json:"-"`
	Reporter User    `gorm:"foreignKey:ReportedBy" json:"-"`
}

func (Dispute) TableName() string {
	return "disputes"
}
