package models

import (
	"time"

	"chillconnect/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // SEEKER | PROVIDER | EMPLOYEE | MANAGER | ADMIN
	Phone        string         `gorm:"size:20" json:"phone"`
	DisplayName  string         `gorm:"size:128" json:"display_name"`
	HourlyRate   int64          `gorm:"default:0" json:"hourly_rate"` // tokens/hour, providers only
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsSeeker() bool   { return u.Role == domain.RoleSeeker }
func (u *User) IsProvider() bool { return u.Role == domain.RoleProvider }
func (u *User) IsStaff() bool {
	return u.Role == domain.RoleEmployee || u.Role == domain.RoleManager || u.Role == domain.RoleAdmin
}
