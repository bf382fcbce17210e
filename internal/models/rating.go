package models

import (
	"time"

	"gorm.io/gorm"
)

// Rating is recorded after completion by a party to the booking; one per
// rater per booking.
type Rating struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookingID uint           `gorm:"not null;index:idx_rating_booking_rater,unique" json:"booking_id"`
	RaterID   uint           `gorm:"not null;index:idx_rating_booking_rater,unique" json:"rater_id"`
	RateeID   uint           `gorm:"not null;index" json:"ratee_id"`
	Stars     int            `gorm:"not null" json:"stars"` // 1..5
	Comment   string         `gorm:"type:text" json:"comment"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
}

func (Rating) TableName() string {
	return "ratings"
}
