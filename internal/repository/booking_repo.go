package repository

import (
	"chillconnect/internal/models"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(b *models.Booking) error {
	return r.db.Create(b).Error
}

func (r *BookingRepository) GetByID(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns bookings where the user is either party.
func (r *BookingRepository) ListByUser(userID uint, status string, limit, offset int) ([]models.Booking, error) {
	q := r.db.Where("seeker_id = ? OR provider_id = ?", userID, userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Booking
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// UpdateStatusFrom sets the status only if the row still holds the expected
// current status; the returned row count tells the caller whether it won the
// race. Used so concurrent transition attempts serialize on the booking row.
func (r *BookingRepository) UpdateStatusFrom(id uint, from, to string) (bool, error) {
	res := r.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
