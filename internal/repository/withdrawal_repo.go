package repository

import (
	"chillconnect/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) GetByReference(reference string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := r.db.Where("reference = ?", reference).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Withdrawal{}).Where("id = ?", id).Update("status", status).Error
}

func (r *WithdrawalRepository) ListByUser(userID uint, limit, offset int) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
