package service

import (
	"context"
	"testing"
	"time"

	"chillconnect/internal/domain"
	"chillconnect/internal/models"
	"chillconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createBooking(t *testing.T, seeker, provider *models.User, hours int) *models.Booking {
	t.Helper()
	b, err := e.bookings.Create(CreateBookingInput{
		SeekerID:      seeker.ID,
		ProviderID:    provider.ID,
		StartTime:     time.Now().Add(24 * time.Hour),
		DurationHours: hours,
		Mode:          domain.BookingModeIncall,
		Location:      "somewhere",
	})
	require.NoError(t, err)
	return b
}

func TestFullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.seedUser(t, domain.RoleSeeker, 0)
	provider := env.seedUser(t, domain.RoleProvider, 200)
	require.NoError(t, env.wallets.Purchase(seeker.ID, 500, "order-1"))

	// 200/hr for 2h plus 5% processing fee
	b := env.createBooking(t, seeker, provider, 2)
	assert.Equal(t, int64(420), b.TotalTokens)
	assert.Equal(t, domain.BookingStatusPending, b.Status)

	w, err := env.wallets.GetByUserID(seeker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(80), w.AvailableTokens)
	assert.Equal(t, int64(420), w.EscrowTokens)

	b, err = env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)

	code, _, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)
	require.Len(t, code, 6)

	b, err = env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusInProgress, code)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusInProgress, b.Status)

	b, err = env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusCompleted, "")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, b.Status)

	// 15% commission on 420: provider takes 357, platform 63
	pw, err := env.wallets.GetByUserID(provider.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(357), pw.AvailableTokens)

	w, err = env.wallets.GetByUserID(seeker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(80), w.AvailableTokens)
	assert.Equal(t, int64(0), w.EscrowTokens)

	var revenue models.PlatformRevenue
	require.NoError(t, env.db.Where("booking_id = ?", b.ID).First(&revenue).Error)
	assert.Equal(t, int64(63), revenue.Amount)
}

func TestCancelRefundsEscrow(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.seedUser(t, domain.RoleSeeker, 0)
	provider := env.seedUser(t, domain.RoleProvider, 200)
	require.NoError(t, env.wallets.Purchase(seeker.ID, 500, "order-1"))

	b := env.createBooking(t, seeker, provider, 2)
	_, err := env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusConfirmed, "")
	require.NoError(t, err)

	b, err = env.bookings.Cancel(b.ID, seeker.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, b.Status)

	w, err := env.wallets.GetByUserID(seeker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), w.AvailableTokens)
	assert.Equal(t, int64(0), w.EscrowTokens)

	_, err = env.wallets.HoldByBookingID(b.ID)
	assert.ErrorIs(t, err, repository.ErrNoActiveHold)
}

func TestTransitionPermissions(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.seedUser(t, domain.RoleSeeker, 0)
	provider := env.seedUser(t, domain.RoleProvider, 200)
	stranger := env.seedUser(t, domain.RoleSeeker, 0)
	require.NoError(t, env.wallets.Purchase(seeker.ID, 1000, "order-1"))

	b := env.createBooking(t, seeker, provider, 2)

	_, err := env.bookings.Transition(b.ID, seeker.ID, domain.BookingStatusConfirmed, "")
	assert.ErrorIs(t, err, ErrIllegalTransition, "only the provider confirms")

	_, err = env.bookings.Transition(b.ID, stranger.ID, domain.BookingStatusConfirmed, "")
	assert.ErrorIs(t, err, ErrIllegalTransition, "non-parties cannot touch a booking")

	_, err = env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusCompleted, "")
	assert.ErrorIs(t, err, ErrIllegalTransition, "no skipping to completed")

	_, err = env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusInProgress, "000000")
	assert.ErrorIs(t, err, ErrIllegalTransition, "pending cannot start service")

	got, err := repository.NewBookingRepository(env.db).GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, got.Status)
}

func TestTerminalStatesAreFinal(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.seedUser(t, domain.RoleSeeker, 0)
	provider := env.seedUser(t, domain.RoleProvider, 200)
	require.NoError(t, env.wallets.Purchase(seeker.ID, 500, "order-1"))

	b := env.createBooking(t, seeker, provider, 2)
	_, err := env.bookings.Cancel(b.ID, seeker.ID)
	require.NoError(t, err)

	_, err = env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusConfirmed, "")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	_, err = env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusInProgress, "000000")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestRepeatedTransitionIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.seedUser(t, domain.RoleSeeker, 0)
	provider := env.seedUser(t, domain.RoleProvider, 200)
	require.NoError(t, env.wallets.Purchase(seeker.ID, 500, "order-1"))

	b := env.createBooking(t, seeker, provider, 2)
	_, err := env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusConfirmed, "")
	require.NoError(t, err)

	// a retried confirm is a no-op success, not an error
	got, err := env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, got.Status)

	// a retried cancel must not refund twice
	_, err = env.bookings.Cancel(b.ID, seeker.ID)
	require.NoError(t, err)
	_, err = env.bookings.Cancel(b.ID, seeker.ID)
	require.NoError(t, err)

	w, err := env.wallets.GetByUserID(seeker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), w.AvailableTokens)
	assert.Equal(t, int64(0), w.EscrowTokens)
}

func TestStartRequiresValidPasscode(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.seedUser(t, domain.RoleSeeker, 0)
	provider := env.seedUser(t, domain.RoleProvider, 200)
	require.NoError(t, env.wallets.Purchase(seeker.ID, 500, "order-1"))

	b := env.createBooking(t, seeker, provider, 2)
	_, err := env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusConfirmed, "")
	require.NoError(t, err)

	code, _, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err = env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusInProgress, wrong)
	assert.ErrorIs(t, err, ErrInvalidCode)

	got, err := repository.NewBookingRepository(env.db).GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, got.Status, "status must not move on a failed verification")

	_, err = env.bookings.Transition(b.ID, provider.ID, domain.BookingStatusInProgress, code)
	require.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.seedUser(t, domain.RoleSeeker, 0)
	provider := env.seedUser(t, domain.RoleProvider, 200)
	inactive := env.seedUser(t, domain.RoleProvider, 200)
	require.NoError(t, env.db.Model(inactive).Update("is_active", false).Error)
	require.NoError(t, env.wallets.Purchase(seeker.ID, 10000, "order-1"))

	base := CreateBookingInput{
		SeekerID:      seeker.ID,
		ProviderID:    provider.ID,
		StartTime:     time.Now().Add(24 * time.Hour),
		DurationHours: 2,
		Mode:          domain.BookingModeIncall,
	}

	in := base
	in.StartTime = time.Now().Add(-time.Hour)
	_, err := env.bookings.Create(in)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	in = base
	in.DurationHours = 13
	_, err = env.bookings.Create(in)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	in = base
	in.DurationHours = 0
	_, err = env.bookings.Create(in)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	in = base
	in.Mode = "HOUSECALL"
	_, err = env.bookings.Create(in)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	in = base
	in.ProviderID = inactive.ID
	_, err = env.bookings.Create(in)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestCreateRollsBackWhenBalanceShort(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.seedUser(t, domain.RoleSeeker, 0)
	provider := env.seedUser(t, domain.RoleProvider, 200)
	require.NoError(t, env.wallets.Purchase(seeker.ID, 100, "order-1"))

	_, err := env.bookings.Create(CreateBookingInput{
		SeekerID:      seeker.ID,
		ProviderID:    provider.ID,
		StartTime:     time.Now().Add(24 * time.Hour),
		DurationHours: 2,
		Mode:          domain.BookingModeIncall,
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

	var count int64
	require.NoError(t, env.db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count, "the booking row must roll back with the failed reserve")

	w, err := env.wallets.GetByUserID(seeker.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), w.AvailableTokens)
}

func TestQuoteBreakdown(t *testing.T) {
	env := newTestEnv(t)
	base, fee, total := env.bookings.Quote(200, 2)
	assert.Equal(t, int64(400), base)
	assert.Equal(t, int64(20), fee)
	assert.Equal(t, int64(420), total)
}
