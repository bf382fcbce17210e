package repository

import (
	"time"

	"chillconnect/internal/domain"
	"chillconnect/internal/models"

	"gorm.io/gorm"
)

type DisputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

func (r *DisputeRepository) Create(d *models.Dispute) error {
	return r.db.Create(d).Error
}

func (r *DisputeRepository) GetByID(id uint) (*models.Dispute, error) {
	var d models.Dispute
	if err := r.db.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DisputeRepository) Resolve(id, managerID uint, resolution string, tokens int64) error {
	now := time.Now()
	return r.db.Model(&models.Dispute{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            domain.DisputeStatusResolved,
			"resolution":        resolution,
			"resolution_tokens": tokens,
			"resolved_by":       managerID,
			"resolved_at":       now,
		}).Error
}

func (r *DisputeRepository) ListByBooking(bookingID uint) ([]models.Dispute, error) {
	var list []models.Dispute
	err := r.db.Where("booking_id = ?", bookingID).Order("created_at DESC").Find(&list).Error
	return list, err
}
