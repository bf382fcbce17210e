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

func (e *testEnv) seedConfirmedBooking(t *testing.T) *models.Booking {
	t.Helper()
	seeker := e.seedUser(t, domain.RoleSeeker, 0)
	provider := e.seedUser(t, domain.RoleProvider, 200)
	b := &models.Booking{
		SeekerID:      seeker.ID,
		ProviderID:    provider.ID,
		StartTime:     time.Now().Add(24 * time.Hour),
		DurationHours: 2,
		TotalTokens:   420,
		Mode:          domain.BookingModeIncall,
		Status:        domain.BookingStatusConfirmed,
	}
	require.NoError(t, e.db.Create(b).Error)
	return b
}

func TestSeekerCodeVerifies(t *testing.T) {
	env := newTestEnv(t)
	b := env.seedConfirmedBooking(t)

	code, expiresAt, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)
	require.Len(t, code, 6)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, time.Minute)
	assert.Empty(t, env.sender.messages, "seeker codes are shown, not texted")

	require.NoError(t, env.otp.Verify(b.ID, code))

	// consumption is one-way
	err = env.otp.Verify(b.ID, code)
	assert.ErrorIs(t, err, ErrExpiredCode)
}

func TestProviderCodeGoesOverSMS(t *testing.T) {
	env := newTestEnv(t)
	b := env.seedConfirmedBooking(t)

	code, expiresAt, err := env.otp.Request(context.Background(), b, domain.OTPPurposeProviderSMS)
	require.NoError(t, err)
	assert.Empty(t, code, "provider codes never come back in the response")
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, time.Minute)
	require.Len(t, env.sender.messages, 1)

	require.NoError(t, env.otp.Verify(b.ID, env.sender.lastCode(t)))
}

func TestEitherPurposeOpensGate(t *testing.T) {
	env := newTestEnv(t)
	b := env.seedConfirmedBooking(t)

	seekerCode, _, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)
	_, _, err = env.otp.Request(context.Background(), b, domain.OTPPurposeProviderSMS)
	require.NoError(t, err)
	smsCode := env.sender.lastCode(t)

	require.NoError(t, env.otp.Verify(b.ID, smsCode))

	// the other purpose's challenge is untouched and still works
	require.NoError(t, env.otp.Verify(b.ID, seekerCode))
}

func TestVerifyNormalizesFormatting(t *testing.T) {
	env := newTestEnv(t)
	b := env.seedConfirmedBooking(t)

	code, _, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)

	formatted := code[:3] + " " + code[3:]
	require.NoError(t, env.otp.Verify(b.ID, formatted))
}

func TestRegenerationSupersedes(t *testing.T) {
	env := newTestEnv(t)
	b := env.seedConfirmedBooking(t)

	old, _, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)
	fresh, _, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)

	if old != fresh {
		err = env.otp.Verify(b.ID, old)
		assert.ErrorIs(t, err, ErrInvalidCode, "a superseded code is dead")
	}
	require.NoError(t, env.otp.Verify(b.ID, fresh))
}

func TestGateLocksAfterMaxAttempts(t *testing.T) {
	env := newTestEnv(t)
	b := env.seedConfirmedBooking(t)

	code, _, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < 4; i++ {
		err := env.otp.Verify(b.ID, wrong)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
	err = env.otp.Verify(b.ID, wrong)
	assert.ErrorIs(t, err, ErrTooManyAttempts, "the fifth failure trips the lock")

	// once locked even the right code is refused
	err = env.otp.Verify(b.ID, code)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	require.NoError(t, env.otp.UnlockGate(b.ID))
	require.NoError(t, env.otp.Verify(b.ID, code))
}

func TestFailuresAccumulateAcrossPurposes(t *testing.T) {
	env := newTestEnv(t)
	b := env.seedConfirmedBooking(t)

	code, _, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)
	_, _, err = env.otp.Request(context.Background(), b, domain.OTPPurposeProviderSMS)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code || wrong == env.sender.lastCode(t) {
		wrong = "000001"
	}
	for i := 0; i < 4; i++ {
		_ = env.otp.Verify(b.ID, wrong)
	}
	gate, err := repository.NewOTPRepository(env.db).GetOrCreateGate(b.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, gate.FailedAttempts, "one shared counter, not one per purpose")
}

func TestExpiredCodeDoesNotCountAsFailure(t *testing.T) {
	env := newTestEnv(t)
	env.otp.cfg.SeekerTTL = -time.Minute
	b := env.seedConfirmedBooking(t)

	code, _, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)

	err = env.otp.Verify(b.ID, code)
	assert.ErrorIs(t, err, ErrExpiredCode)

	gate, err := repository.NewOTPRepository(env.db).GetOrCreateGate(b.ID)
	require.NoError(t, err)
	assert.Zero(t, gate.FailedAttempts, "an expired match is not a guess")
}

func TestWrongGuessAgainstOnlyExpiredCodes(t *testing.T) {
	env := newTestEnv(t)
	env.otp.cfg.SeekerTTL = -time.Minute
	b := env.seedConfirmedBooking(t)

	code, _, err := env.otp.Request(context.Background(), b, domain.OTPPurposeSeeker)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err = env.otp.Verify(b.ID, wrong)
	assert.ErrorIs(t, err, ErrExpiredCode)

	gate, err := repository.NewOTPRepository(env.db).GetOrCreateGate(b.ID)
	require.NoError(t, err)
	assert.Zero(t, gate.FailedAttempts, "nothing live to guess against")
}

func TestVerifyWithoutRequest(t *testing.T) {
	env := newTestEnv(t)
	b := env.seedConfirmedBooking(t)

	err := env.otp.Verify(b.ID, "123456")
	assert.ErrorIs(t, err, ErrExpiredCode)
}
