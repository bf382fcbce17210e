package repository

import (
	"chillconnect/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

// GetActiveProvider loads an active provider or nothing.
func (r *UserRepository) GetActiveProvider(id uint) (*models.User, error) {
	var u models.User
	err := r.db.Where("id = ? AND role = ? AND is_active = ?", id, "PROVIDER", true).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ListByRole(role string) ([]models.User, error) {
	var list []models.User
	err := r.db.Where("role = ? AND is_active = ?", role, true).Order("id ASC").Find(&list).Error
	return list, err
}
