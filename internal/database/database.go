package database

import (
	"errors"
	"log"

	"chillconnect/config"
	"chillconnect/internal/domain"
	"chillconnect/internal/models"
	"chillconnect/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.EscrowHold{},
		&models.TokenTransaction{},
		&models.PlatformRevenue{},
		&models.Withdrawal{},
		&models.Booking{},
		&models.OTPChallenge{},
		&models.ServiceStartGate{},
		&models.AssignmentPool{},
		&models.PoolMember{},
		&models.WorkItem{},
		&models.Verification{},
		&models.Dispute{},
		&models.Rating{},
		&models.Notification{},
	)
}

// SeedStaff ensures the two staff pools exist and creates an initial admin
// plus one employee and one manager on a fresh database.
func SeedStaff(db *gorm.DB) {
	pools := repository.NewPoolRepository(db)
	if _, err := pools.EnsurePool(domain.PoolEmployee); err != nil {
		log.Printf("seed: employee pool: %v", err)
	}
	if _, err := pools.EnsurePool(domain.PoolManager); err != nil {
		log.Printf("seed: manager pool: %v", err)
	}

	seed := []struct {
		email string
		role  string
		pool  string
	}{
		{"admin@chillconnect.local", domain.RoleAdmin, ""},
		{"employee1@chillconnect.local", domain.RoleEmployee, domain.PoolEmployee},
		{"manager1@chillconnect.local", domain.RoleManager, domain.PoolManager},
	}
	for _, s := range seed {
		var u models.User
		err := db.Where("email = ?", s.email).First(&u).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("seed: lookup %s: %v", s.email, err)
			continue
		}
		hash, _ := bcrypt.GenerateFromPassword([]byte("change-me"), bcrypt.DefaultCost)
		u = models.User{
			Email:        s.email,
			PasswordHash: string(hash),
			Role:         s.role,
			IsActive:     true,
		}
		if err := db.Create(&u).Error; err != nil {
			log.Printf("seed: create %s: %v", s.email, err)
			continue
		}
		if s.pool != "" {
			if err := pools.AddMember(s.pool, u.ID); err != nil {
				log.Printf("seed: pool member %s: %v", s.email, err)
			}
		}
	}
}
