package repository

import (
	"chillconnect/internal/models"

	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(rt *models.Rating) error {
	return r.db.Create(rt).Error
}

func (r *RatingRepository) ListByRatee(rateeID uint, limit, offset int) ([]models.Rating, error) {
	var list []models.Rating
	err := r.db.Where("ratee_id = ?", rateeID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *RatingRepository) AverageForRatee(rateeID uint) (float64, int64, error) {
	var count int64
	if err := r.db.Model(&models.Rating{}).Where("ratee_id = ?", rateeID).Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}
	var avg float64
	row := r.db.Model(&models.Rating{}).Where("ratee_id = ?", rateeID).Select("AVG(stars)").Row()
	if err := row.Scan(&avg); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
