package repository

import (
	"time"

	"chillconnect/internal/models"

	"gorm.io/gorm"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(v *models.Verification) error {
	return r.db.Create(v).Error
}

func (r *VerificationRepository) GetByID(id uint) (*models.Verification, error) {
	var v models.Verification
	if err := r.db.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// Decide records the terminal approve/reject decision.
func (r *VerificationRepository) Decide(id, reviewerID uint, status, rejectionReason string) error {
	now := time.Now()
	return r.db.Model(&models.Verification{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"reviewer_id":      reviewerID,
			"rejection_reason": rejectionReason,
			"completed_at":     now,
		}).Error
}

func (r *VerificationRepository) ListByUser(userID uint) ([]models.Verification, error) {
	var list []models.Verification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}
