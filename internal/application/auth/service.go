package auth

import (
	"context"
	"fmt"

	"github.com/civictrust-api/internal/domain"
	"github.com/civictrust-api/internal/infrastructure/google"
)

// GoogleVerifier validates Google ID tokens.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

// TokenSigner mints the session bearer.
type TokenSigner interface {
	Sign(userID, phoneNumber string) (string, error)
}

// LoginResult is a verified sign-in: a stable user id derived from the
// Google subject, the profile basics, and a bearer for subsequent requests.
type LoginResult struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Bearer    string
}

type Service interface {
	GoogleLogin(ctx context.Context, idToken string) (*LoginResult, error)
}

type service struct {
	verifier GoogleVerifier
	signer   TokenSigner
}

func NewService(verifier GoogleVerifier, signer TokenSigner) Service {
	return &service{verifier: verifier, signer: signer}
}

func (s *service) GoogleLogin(ctx context.Context, idToken string) (*LoginResult, error) {
	if idToken == "" {
		return nil, fmt.Errorf("id_token is required: %w", domain.ErrBadRequest)
	}
	if s.verifier == nil {
		return nil, fmt.Errorf("Google login is not configured: %w", domain.ErrUnauthorized)
	}
	payload, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if !payload.EmailVerified {
		return nil, fmt.Errorf("google account email not verified: %w", domain.ErrUnauthorized)
	}

	result := &LoginResult{
		UserID:    "google:" + payload.Sub,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	}
	if s.signer != nil {
		bearer, err := s.signer.Sign(result.UserID, "")
		if err != nil {
			return nil, fmt.Errorf("sign bearer: %w", err)
		}
		result.Bearer = bearer
	}
	return result, nil
}
