package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/civictrust-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockOTPStore struct{ mock.Mock }

func (m *mockOTPStore) Put(ctx context.Context, rec *domain.OTPRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *mockOTPStore) Get(ctx context.Context, phoneNumber string) (*domain.OTPRecord, error) {
	args := m.Called(ctx, phoneNumber)
	if rec, _ := args.Get(0).(*domain.OTPRecord); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOTPStore) Delete(ctx context.Context, phoneNumber string) error {
	return m.Called(ctx, phoneNumber).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, msg string) error {
	return m.Called(ctx, to, msg).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID, phoneNumber string) (string, error) {
	args := m.Called(userID, phoneNumber)
	return args.String(0), args.Error(1)
}

// --- builder ---

func newService(store *mockOTPStore, sms SMSSender, signer TokenSigner, now time.Time) Service {
	return NewService(ServiceDeps{
		OTPRepo:     store,
		SMSSender:   sms,
		JWTProvider: signer,
		TTL:         10 * time.Minute,
		Now:         func() time.Time { return now },
	})
}

func hashOf(t *testing.T, code string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// --- Issue ---

func TestIssue_RejectsMalformedPhone(t *testing.T) {
	svc := newService(nil, nil, nil, time.Now())
	for _, phone := range []string{"", "123", "98765432101", "98765abcde", "+9876543210"} {
		_, err := svc.Issue(context.Background(), phone)
		assert.True(t, errors.Is(err, domain.ErrBadRequest), "phone %q must be rejected", phone)
	}
}

func TestIssue_DemoMode_ReturnsSixDigitCode(t *testing.T) {
	store := &mockOTPStore{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.OTPRecord")).Return(nil)

	svc := newService(store, nil, nil, now)
	res, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Regexp(t, `^[0-9]{6}$`, res.Code)

	rec := store.Calls[0].Arguments.Get(1).(*domain.OTPRecord)
	assert.Equal(t, "9876543210", rec.PhoneNumber)
	assert.Equal(t, now.Unix(), rec.IssuedAt)
	assert.Equal(t, now.Add(10*time.Minute).Unix(), rec.ExpiresAt)
	assert.NotContains(t, rec.CodeHash, res.Code, "code must be stored hashed, not plaintext")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(res.Code)))
}

func TestIssue_WithSMSSender_CodeNotEchoed(t *testing.T) {
	store := &mockOTPStore{}
	sms := &mockSMSSender{}
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.OTPRecord")).Return(nil)
	sms.On("SendSMS", mock.Anything, "9876543210", mock.MatchedBy(func(msg string) bool {
		return len(msg) > 6
	})).Return(nil)

	svc := newService(store, sms, nil, time.Now())
	res, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.Empty(t, res.Code, "code must never be returned in band when SMS is configured")
	sms.AssertExpectations(t)
}

func TestIssue_ImmediateReissue_OverwritesPriorRecord(t *testing.T) {
	// A user who mistypes their code can request a fresh one right away;
	// the new record simply replaces the old.
	store := &mockOTPStore{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.OTPRecord")).Return(nil)

	svc := newService(store, nil, nil, now)
	_, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)

	second, err := svc.Issue(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{6}$`, second.Code)

	require.Len(t, store.Calls, 2)
	rec := store.Calls[1].Arguments.Get(1).(*domain.OTPRecord)
	assert.Equal(t, now.Unix(), rec.IssuedAt)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(second.Code)),
		"the stored record must hold the latest code")
}

// --- Verify ---

func TestVerify_RejectsMalformedInput(t *testing.T) {
	svc := newService(nil, nil, nil, time.Now())

	_, err := svc.Verify(context.Background(), "12345", "123456")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))

	_, err = svc.Verify(context.Background(), "9876543210", "12345")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))

	_, err = svc.Verify(context.Background(), "9876543210", "12345a")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestVerify_NoRecord_NotFound(t *testing.T) {
	store := &mockOTPStore{}
	store.On("Get", mock.Anything, "9876543210").Return(nil, domain.ErrNotFound)

	svc := newService(store, nil, nil, time.Now())
	_, err := svc.Verify(context.Background(), "9876543210", "123456")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.ErrorContains(t, err, "OTP not found")
}

func TestVerify_Expired_DeletesRecord(t *testing.T) {
	store := &mockOTPStore{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.On("Get", mock.Anything, "9876543210").Return(&domain.OTPRecord{
		PhoneNumber: "9876543210",
		CodeHash:    hashOf(t, "123456"),
		IssuedAt:    now.Add(-20 * time.Minute).Unix(),
		ExpiresAt:   now.Add(-10 * time.Minute).Unix(),
	}, nil)
	store.On("Delete", mock.Anything, "9876543210").Return(nil)

	svc := newService(store, nil, nil, now)
	_, err := svc.Verify(context.Background(), "9876543210", "123456")
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.ErrorContains(t, err, "expired")
	store.AssertCalled(t, "Delete", mock.Anything, "9876543210")
}

func TestVerify_WrongCode_Mismatch(t *testing.T) {
	store := &mockOTPStore{}
	now := time.Now()
	store.On("Get", mock.Anything, "9876543210").Return(&domain.OTPRecord{
		PhoneNumber: "9876543210",
		CodeHash:    hashOf(t, "123456"),
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(10 * time.Minute).Unix(),
	}, nil)

	svc := newService(store, nil, nil, now)
	_, err := svc.Verify(context.Background(), "9876543210", "654321")
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.ErrorContains(t, err, "Invalid OTP")
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestVerify_HappyPath_SingleUse(t *testing.T) {
	store := &mockOTPStore{}
	signer := &mockSigner{}
	now := time.Now()
	store.On("Get", mock.Anything, "9876543210").Return(&domain.OTPRecord{
		PhoneNumber: "9876543210",
		CodeHash:    hashOf(t, "123456"),
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(10 * time.Minute).Unix(),
	}, nil).Once()
	store.On("Delete", mock.Anything, "9876543210").Return(nil)
	signer.On("Sign", "phone:9876543210", "9876543210").Return("bearer-token", nil)

	svc := newService(store, nil, signer, now)
	res, err := svc.Verify(context.Background(), "9876543210", "123456")
	require.NoError(t, err)
	assert.Equal(t, "phone:9876543210", res.UserID)
	assert.Equal(t, "bearer-token", res.Bearer)

	// The record is consumed: a second attempt finds nothing.
	store.On("Get", mock.Anything, "9876543210").Return(nil, domain.ErrNotFound)
	_, err = svc.Verify(context.Background(), "9876543210", "123456")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerify_NoSigner_NoBearer(t *testing.T) {
	store := &mockOTPStore{}
	now := time.Now()
	store.On("Get", mock.Anything, "9876543210").Return(&domain.OTPRecord{
		PhoneNumber: "9876543210",
		CodeHash:    hashOf(t, "123456"),
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(10 * time.Minute).Unix(),
	}, nil)
	store.On("Delete", mock.Anything, "9876543210").Return(nil)

	svc := newService(store, nil, nil, now)
	res, err := svc.Verify(context.Background(), "9876543210", "123456")
	require.NoError(t, err)
	assert.Empty(t, res.Bearer)
}
