package service

import (
	"errors"
	"fmt"
	"time"

	"chillconnect/config"
	"chillconnect/internal/domain"
	"chillconnect/internal/models"
	"chillconnect/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrIllegalTransition = errors.New("illegal booking transition")
	ErrProviderNotFound  = errors.New("provider not found or inactive")
	ErrInvalidSchedule   = errors.New("invalid booking time or duration")
)

const maxBookingHours = 12

// BookingService owns the booking lifecycle. Every transition runs as one DB
// transaction covering the status write and its ledger side effect, so a
// failure anywhere aborts the whole thing and the caller can retry. Actor
// permission is a pure lookup against the transition table in domain.
type BookingService struct {
	db    *gorm.DB
	token *config.TokenConfig
	otp   *OTPService
	notif *NotificationService
}

func NewBookingService(db *gorm.DB, token *config.TokenConfig, otp *OTPService, notif *NotificationService) *BookingService {
	return &BookingService{db: db, token: token, otp: otp, notif: notif}
}

type CreateBookingInput struct {
	SeekerID        uint
	ProviderID      uint
	StartTime       time.Time
	DurationHours   int
	Mode            string
	Location        string
	SpecialRequests string
}

// Create validates the request, computes the immutable token total
// (hourly rate x hours + processing fee) and reserves it in escrow
// atomically with the booking row.
func (s *BookingService) Create(in CreateBookingInput) (*models.Booking, error) {
	users := repository.NewUserRepository(s.db)
	provider, err := users.GetActiveProvider(in.ProviderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	if provider.HourlyRate <= 0 {
		return nil, ErrProviderNotFound
	}
	if !in.StartTime.After(time.Now()) {
		return nil, ErrInvalidSchedule
	}
	if in.DurationHours <= 0 || in.DurationHours > maxBookingHours {
		return nil, ErrInvalidSchedule
	}
	if in.Mode != domain.BookingModeIncall && in.Mode != domain.BookingModeOutcall {
		return nil, ErrInvalidSchedule
	}

	base := provider.HourlyRate * int64(in.DurationHours)
	fee := int64(float64(base) * s.token.ProcessingFeeRate)
	total := base + fee

	booking := &models.Booking{
		SeekerID:        in.SeekerID,
		ProviderID:      in.ProviderID,
		StartTime:       in.StartTime,
		DurationHours:   in.DurationHours,
		TotalTokens:     total,
		Mode:            in.Mode,
		Location:        in.Location,
		SpecialRequests: in.SpecialRequests,
		Status:          domain.BookingStatusPending,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBookingRepository(tx).Create(booking); err != nil {
			return err
		}
		return repository.NewWalletRepository(tx).Reserve(in.SeekerID, total, booking.ID)
	})
	if err != nil {
		return nil, err
	}
	s.notif.NotifyBookingRequested(booking.ProviderID, booking.ID)
	return booking, nil
}

// Transition moves a booking to targetStatus on behalf of actorID. Repeating
// a transition once already in the target state is a no-op success, so
// retried client requests are harmless. The confirmed -> in-progress edge
// additionally requires a passcode that verifies against the booking's OTP
// gate. Verification commits on its own, before the status write: a failed
// attempt must stay counted even though the transition aborts, and a wrong
// status must not erase the consumption of a correct code.
func (s *BookingService) Transition(bookingID, actorID uint, targetStatus, otpCode string) (*models.Booking, error) {
	bookings := repository.NewBookingRepository(s.db)
	booking, err := bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	actor, isParty := booking.ActorFor(actorID)
	if !isParty {
		return nil, ErrIllegalTransition
	}
	if booking.Status == targetStatus {
		return booking, nil
	}
	from := booking.Status
	if !domain.CanTransition(actor, from, targetStatus) {
		return nil, ErrIllegalTransition
	}

	if domain.RequiresOTP(from, targetStatus) {
		if err := s.otp.Verify(bookingID, otpCode); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		won, err := repository.NewBookingRepository(tx).UpdateStatusFrom(bookingID, from, targetStatus)
		if err != nil {
			return err
		}
		if !won {
			// lost a race with a concurrent transition; surface it as illegal
			// unless the other caller already landed on the same target
			current, err := repository.NewBookingRepository(tx).GetByID(bookingID)
			if err != nil {
				return err
			}
			if current.Status == targetStatus {
				return nil
			}
			return ErrIllegalTransition
		}

		wallets := repository.NewWalletRepository(tx)
		switch targetStatus {
		case domain.BookingStatusCancelled:
			_, err := wallets.Refund(bookingID)
			return err
		case domain.BookingStatusCompleted:
			_, _, err := wallets.Release(bookingID, booking.ProviderID, s.token.CommissionRate)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = targetStatus
	s.notifyTransition(booking, actorID, targetStatus)
	return booking, nil
}

// Cancel is the dedicated cancellation entry point; same semantics as
// Transition to CANCELLED.
func (s *BookingService) Cancel(bookingID, actorID uint) (*models.Booking, error) {
	return s.Transition(bookingID, actorID, domain.BookingStatusCancelled, "")
}

func (s *BookingService) notifyTransition(b *models.Booking, actorID uint, target string) {
	switch target {
	case domain.BookingStatusConfirmed:
		s.notif.NotifyBookingConfirmed(b.SeekerID, b.ID)
	case domain.BookingStatusCancelled:
		other := b.SeekerID
		if actorID == b.SeekerID {
			other = b.ProviderID
		}
		s.notif.NotifyBookingCancelled(other, b.ID)
	case domain.BookingStatusInProgress:
		s.notif.NotifyServiceStarted(b.SeekerID, b.ID)
	case domain.BookingStatusCompleted:
		s.notif.NotifyBookingCompleted(b.SeekerID, b.ID)
		s.notif.NotifyBookingCompleted(b.ProviderID, b.ID)
	}
}

// Quote returns the cost breakdown a seeker sees before booking.
func (s *BookingService) Quote(hourlyRate int64, durationHours int) (base, fee, total int64) {
	base = hourlyRate * int64(durationHours)
	fee = int64(float64(base) * s.token.ProcessingFeeRate)
	return base, fee, base + fee
}

// Describe formats a booking reference for ledger and notification payloads.
func Describe(bookingID uint) string {
	return fmt.Sprintf("booking_%d", bookingID)
}
