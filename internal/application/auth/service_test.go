package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/civictrust-api/internal/domain"
	"github.com/civictrust-api/internal/infrastructure/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, token string) (*google.Payload, error) {
	args := m.Called(ctx, token)
	if p, _ := args.Get(0).(*google.Payload); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID, phoneNumber string) (string, error) {
	args := m.Called(userID, phoneNumber)
	return args.String(0), args.Error(1)
}

func TestGoogleLogin_EmptyToken(t *testing.T) {
	svc := NewService(nil, nil)
	_, err := svc.GoogleLogin(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestGoogleLogin_InvalidToken(t *testing.T) {
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "bad").Return(nil, domain.ErrUnauthorized)

	svc := NewService(v, nil)
	_, err := svc.GoogleLogin(context.Background(), "bad")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestGoogleLogin_UnverifiedEmailRejected(t *testing.T) {
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "tok").Return(&google.Payload{Sub: "123", Email: "a@b.com"}, nil)

	svc := NewService(v, nil)
	_, err := svc.GoogleLogin(context.Background(), "tok")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestGoogleLogin_HappyPath(t *testing.T) {
	v := &mockVerifier{}
	s := &mockSigner{}
	v.On("Verify", mock.Anything, "tok").Return(&google.Payload{
		Sub:           "123",
		Email:         "a@b.com",
		EmailVerified: true,
		FirstName:     "Ada",
		LastName:      "Lovelace",
	}, nil)
	s.On("Sign", "google:123", "").Return("bearer-token", nil)

	svc := NewService(v, s)
	res, err := svc.GoogleLogin(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "google:123", res.UserID)
	assert.Equal(t, "a@b.com", res.Email)
	assert.Equal(t, "bearer-token", res.Bearer)
}
