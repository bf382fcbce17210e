package repository

import (
	"errors"
	"time"

	"chillconnect/internal/models"

	"gorm.io/gorm"
)

type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// SupersedeAndCreate invalidates any live challenge of the same purpose for
// the booking and creates the replacement in one transaction, preserving the
// at-most-one-live-challenge-per-purpose invariant.
func (r *OTPRepository) SupersedeAndCreate(ch *models.OTPChallenge) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.OTPChallenge{}).
			Where("booking_id = ? AND purpose = ? AND consumed_at IS NULL AND superseded_at IS NULL", ch.BookingID, ch.Purpose).
			Update("superseded_at", now).Error; err != nil {
			return err
		}
		return tx.Create(ch).Error
	})
}

// Unconsumed returns the challenges for a booking that have been neither
// consumed nor superseded, across both purposes. Expiry is the caller's
// concern: an expired challenge is still returned so verification can report
// ExpiredCode rather than silently treating it as a mismatch.
func (r *OTPRepository) Unconsumed(bookingID uint) ([]models.OTPChallenge, error) {
	var list []models.OTPChallenge
	err := r.db.Where("booking_id = ? AND consumed_at IS NULL AND superseded_at IS NULL", bookingID).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

// Consume marks the challenge used; it only succeeds once.
func (r *OTPRepository) Consume(id uint) (bool, error) {
	res := r.db.Model(&models.OTPChallenge{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", time.Now())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *OTPRepository) GetOrCreateGate(bookingID uint) (*models.ServiceStartGate, error) {
	var g models.ServiceStartGate
	err := r.db.Where("booking_id = ?", bookingID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		g = models.ServiceStartGate{BookingID: bookingID}
		if err := r.db.Create(&g).Error; err != nil {
			return nil, err
		}
		return &g, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// RecordFailure bumps the shared attempt counter atomically and locks the
// gate once maxAttempts is reached. Returns the post-increment count.
func (r *OTPRepository) RecordFailure(bookingID uint, maxAttempts int) (int, error) {
	var failed int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ServiceStartGate{}).
			Where("booking_id = ?", bookingID).
			Update("failed_attempts", gorm.Expr("failed_attempts + 1")).Error; err != nil {
			return err
		}
		var g models.ServiceStartGate
		if err := tx.Where("booking_id = ?", bookingID).First(&g).Error; err != nil {
			return err
		}
		failed = g.FailedAttempts
		if failed >= maxAttempts && g.LockedAt == nil {
			return tx.Model(&g).Update("locked_at", time.Now()).Error
		}
		return nil
	})
	return failed, err
}

// ResetGate clears the attempt counter and lock; staff-only intervention.
func (r *OTPRepository) ResetGate(bookingID uint) error {
	return r.db.Model(&models.ServiceStartGate{}).
		Where("booking_id = ?", bookingID).
		Updates(map[string]interface{}{"failed_attempts": 0, "locked_at": nil}).Error
}
