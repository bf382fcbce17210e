package repository

import (
	"testing"
	"time"

	"chillconnect/internal/domain"
	"chillconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChallenge(bookingID uint, purpose string) *models.OTPChallenge {
	return &models.OTPChallenge{
		BookingID: bookingID,
		Purpose:   purpose,
		CodeHash:  "deadbeef",
		Salt:      "salt",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
}

func TestSupersedeKeepsOneLivePerPurpose(t *testing.T) {
	db := openTestDB(t)
	otps := NewOTPRepository(db)

	first := newChallenge(1, domain.OTPPurposeSeeker)
	require.NoError(t, otps.SupersedeAndCreate(first))
	second := newChallenge(1, domain.OTPPurposeSeeker)
	require.NoError(t, otps.SupersedeAndCreate(second))
	sms := newChallenge(1, domain.OTPPurposeProviderSMS)
	require.NoError(t, otps.SupersedeAndCreate(sms))

	live, err := otps.Unconsumed(1)
	require.NoError(t, err)
	require.Len(t, live, 2)
	ids := []uint{live[0].ID, live[1].ID}
	assert.Contains(t, ids, second.ID)
	assert.Contains(t, ids, sms.ID)
	assert.NotContains(t, ids, first.ID, "superseded challenge must drop out")
}

func TestConsumeIsOneWay(t *testing.T) {
	db := openTestDB(t)
	otps := NewOTPRepository(db)

	ch := newChallenge(1, domain.OTPPurposeSeeker)
	require.NoError(t, otps.SupersedeAndCreate(ch))

	ok, err := otps.Consume(ch.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = otps.Consume(ch.ID)
	require.NoError(t, err)
	assert.False(t, ok, "a consumed challenge cannot be consumed again")
}

func TestRecordFailureLocksAtLimit(t *testing.T) {
	db := openTestDB(t)
	otps := NewOTPRepository(db)

	_, err := otps.GetOrCreateGate(1)
	require.NoError(t, err)

	for i := 1; i < 5; i++ {
		n, err := otps.RecordFailure(1, 5)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	gate, err := otps.GetOrCreateGate(1)
	require.NoError(t, err)
	assert.Nil(t, gate.LockedAt)

	n, err := otps.RecordFailure(1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	gate, err = otps.GetOrCreateGate(1)
	require.NoError(t, err)
	assert.NotNil(t, gate.LockedAt)
}

func TestResetGateClearsLock(t *testing.T) {
	db := openTestDB(t)
	otps := NewOTPRepository(db)

	_, err := otps.GetOrCreateGate(1)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := otps.RecordFailure(1, 5)
		require.NoError(t, err)
	}

	require.NoError(t, otps.ResetGate(1))
	gate, err := otps.GetOrCreateGate(1)
	require.NoError(t, err)
	assert.Zero(t, gate.FailedAttempts)
	assert.Nil(t, gate.LockedAt)
}
