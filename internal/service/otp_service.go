package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"chillconnect/config"
	"chillconnect/internal/domain"
	"chillconnect/internal/models"
	"chillconnect/internal/repository"
	"chillconnect/pkg/sms"

	"gorm.io/gorm"
)

var (
	ErrInvalidCode     = errors.New("invalid passcode")
	ErrExpiredCode     = errors.New("passcode expired or not requested")
	ErrTooManyAttempts = errors.New("too many failed attempts, start gate locked")
)

// OTPService issues and verifies the passcodes that gate the start of a
// booked service. Two purposes coexist per booking: a code the seeker reads
// off their own screen and hands over in person, and a code texted to the
// provider's phone. Verifying either one opens the gate. Failed attempts
// count against one shared per-booking counter.
type OTPService struct {
	cfg         *config.OTPConfig
	otpRepo     *repository.OTPRepository
	userRepo    *repository.UserRepository
	bookingRepo *repository.BookingRepository
	sender      sms.Sender
	notif       *NotificationService
}

func NewOTPService(cfg *config.OTPConfig, db *gorm.DB, sender sms.Sender, notif *NotificationService) *OTPService {
	return &OTPService{
		cfg:         cfg,
		otpRepo:     repository.NewOTPRepository(db),
		userRepo:    repository.NewUserRepository(db),
		bookingRepo: repository.NewBookingRepository(db),
		sender:      sender,
		notif:       notif,
	}
}

// Request generates a fresh challenge for the booking and purpose,
// superseding any live one. The plaintext code is returned only for the
// seeker purpose; provider codes go out through the SMS port and the send
// happens after the challenge is committed, so a delivery failure is a
// retryable concern, not a rollback.
func (s *OTPService) Request(ctx context.Context, booking *models.Booking, purpose string) (code string, expiresAt time.Time, err error) {
	ttl := s.cfg.SeekerTTL
	if purpose == domain.OTPPurposeProviderSMS {
		ttl = s.cfg.ProviderTTL
	}
	code, err = generateCode()
	if err != nil {
		return "", time.Time{}, err
	}
	salt, err := generateSalt()
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt = time.Now().Add(ttl)
	ch := &models.OTPChallenge{
		BookingID: booking.ID,
		Purpose:   purpose,
		CodeHash:  hashCode(code, salt, s.cfg.HashSecret),
		Salt:      salt,
		ExpiresAt: expiresAt,
	}
	if err := s.otpRepo.SupersedeAndCreate(ch); err != nil {
		return "", time.Time{}, err
	}
	if _, err := s.otpRepo.GetOrCreateGate(booking.ID); err != nil {
		return "", time.Time{}, err
	}

	if purpose == domain.OTPPurposeProviderSMS {
		provider, err := s.userRepo.GetByID(booking.ProviderID)
		if err != nil {
			return "", time.Time{}, err
		}
		msg := fmt.Sprintf("Your verification code to start service for booking #%d is %s. It expires in %d minutes.",
			booking.ID, code, int(ttl.Minutes()))
		if sendErr := s.sender.Send(ctx, provider.Phone, msg); sendErr != nil {
			// challenge stays valid; delivery is retried by re-requesting
			log.Printf("otp: sms delivery failed for booking %d: %v", booking.ID, sendErr)
		}
		return "", expiresAt, nil
	}
	return code, expiresAt, nil
}

// Verify matches the submitted code against both purposes' live challenges.
// A match consumes that challenge (one-way). Expired challenges are treated
// as absent: whether the submitted code matches one or not, the result is
// ErrExpiredCode and no attempt is spent. Only a mismatch against a live
// challenge counts toward the shared attempt limit; once the limit is
// reached the gate locks and every further attempt, right or wrong, reports
// ErrTooManyAttempts until staff clear it.
func (s *OTPService) Verify(bookingID uint, submitted string) error {
	gate, err := s.otpRepo.GetOrCreateGate(bookingID)
	if err != nil {
		return err
	}
	if gate.LockedAt != nil || gate.FailedAttempts >= s.cfg.MaxAttempts {
		return ErrTooManyAttempts
	}

	normalized := normalizeCode(submitted)
	challenges, err := s.otpRepo.Unconsumed(bookingID)
	if err != nil {
		return err
	}
	now := time.Now()
	expiredMatch := false
	var live []int
	for i := range challenges {
		if challenges[i].IsExpired(now) {
			if hashCode(normalized, challenges[i].Salt, s.cfg.HashSecret) == challenges[i].CodeHash {
				expiredMatch = true
			}
			continue
		}
		live = append(live, i)
	}
	for _, i := range live {
		ch := &challenges[i]
		if hashCode(normalized, ch.Salt, s.cfg.HashSecret) != ch.CodeHash {
			continue
		}
		ok, err := s.otpRepo.Consume(ch.ID)
		if err != nil {
			return err
		}
		if !ok {
			// consumed concurrently; a code opens the gate at most once
			return ErrInvalidCode
		}
		return nil
	}
	if expiredMatch || len(live) == 0 {
		// expired or never requested, treated as absent
		return ErrExpiredCode
	}
	failed, err := s.otpRepo.RecordFailure(bookingID, s.cfg.MaxAttempts)
	if err != nil {
		return err
	}
	if failed >= s.cfg.MaxAttempts {
		s.notifyLocked(bookingID)
		return ErrTooManyAttempts
	}
	return ErrInvalidCode
}

func (s *OTPService) notifyLocked(bookingID uint) {
	b, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		log.Printf("otp: lock notification for booking %d: %v", bookingID, err)
		return
	}
	s.notif.NotifyGateLocked(b.SeekerID, bookingID)
	s.notif.NotifyGateLocked(b.ProviderID, bookingID)
}

// UnlockGate clears a locked start gate; manual staff intervention only.
func (s *OTPService) UnlockGate(bookingID uint) error {
	return s.otpRepo.ResetGate(bookingID)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func generateSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashCode(code, salt, secret string) string {
	sum := sha256.Sum256([]byte(salt + ":" + code + ":" + secret))
	return hex.EncodeToString(sum[:])
}

// normalizeCode strips everything but digits so "123 456" and "123-456"
// match the stored code.
func normalizeCode(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
