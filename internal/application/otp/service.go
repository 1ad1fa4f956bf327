package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"time"

	"github.com/civictrust-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var (
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
	codeRe  = regexp.MustCompile(`^[0-9]{6}$`)
)

// Store is the persistence the OTP workflow needs. Implementations must make
// Put/Get/Delete for one phone number behave as atomic replacements of a
// single value.
type Store interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, phoneNumber string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, phoneNumber string) error
}

// SMSSender delivers codes out of band.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// TokenSigner mints a bearer token after a successful verification.
type TokenSigner interface {
	Sign(userID, phoneNumber string) (string, error)
}

// IssueResult reports how the code was delivered. Code is populated only in
// demo mode (no SMS sender configured) — a real deployment never returns the
// code in band.
type IssueResult struct {
	Delivered bool
	Code      string
}

// VerifyResult carries the optional bearer token minted on success.
type VerifyResult struct {
	UserID string
	Bearer string
}

type Service interface {
	Issue(ctx context.Context, phoneNumber string) (*IssueResult, error)
	Verify(ctx context.Context, phoneNumber, code string) (*VerifyResult, error)
}

// ServiceDeps bundles the service's collaborators. SMSSender and JWTProvider
// may be nil; Now may be nil and defaults to time.Now.
type ServiceDeps struct {
	OTPRepo     Store
	SMSSender   SMSSender
	JWTProvider TokenSigner
	TTL         time.Duration
	Now         func() time.Time
}

type service struct {
	otpRepo     Store
	smsSender   SMSSender
	jwtProvider TokenSigner
	ttl         time.Duration
	now         func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		otpRepo:     deps.OTPRepo,
		smsSender:   deps.SMSSender,
		jwtProvider: deps.JWTProvider,
		ttl:         deps.TTL,
		now:         now,
	}
}

// Issue stores a fresh code for the number, replacing any prior record. A
// user can always request a new code immediately, such as after mistyping
// the previous one.
func (s *service) Issue(ctx context.Context, phoneNumber string) (*IssueResult, error) {
	if !phoneRe.MatchString(phoneNumber) {
		return nil, fmt.Errorf("phone number must be exactly 10 digits: %w", domain.ErrBadRequest)
	}

	now := s.now()
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash otp: %w", err)
	}

	rec := &domain.OTPRecord{
		PhoneNumber: phoneNumber,
		CodeHash:    string(hash),
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(s.ttl).Unix(),
	}
	if err := s.otpRepo.Put(ctx, rec); err != nil {
		return nil, err
	}

	if s.smsSender != nil {
		msg := "Your CivicTrust verification code is " + code
		if err := s.smsSender.SendSMS(ctx, phoneNumber, msg); err != nil {
			return nil, fmt.Errorf("send verification sms: %w", err)
		}
		return &IssueResult{Delivered: true}, nil
	}

	// Demo mode: no out-of-band channel, so the code goes back to the caller.
	return &IssueResult{Code: code}, nil
}

func (s *service) Verify(ctx context.Context, phoneNumber, code string) (*VerifyResult, error) {
	if !phoneRe.MatchString(phoneNumber) {
		return nil, fmt.Errorf("phone number must be exactly 10 digits: %w", domain.ErrBadRequest)
	}
	if !codeRe.MatchString(code) {
		return nil, fmt.Errorf("OTP must be exactly 6 digits: %w", domain.ErrBadRequest)
	}

	rec, err := s.otpRepo.Get(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("OTP not found. Please request a new one: %w", domain.ErrNotFound)
	}
	if s.now().Unix() > rec.ExpiresAt {
		if delErr := s.otpRepo.Delete(ctx, phoneNumber); delErr != nil {
			slog.Warn("failed to delete expired OTP record", "phone_number", phoneNumber, "err", delErr)
		}
		return nil, fmt.Errorf("OTP has expired. Please request a new one: %w", domain.ErrConflict)
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
		return nil, fmt.Errorf("Invalid OTP. Please try again: %w", domain.ErrConflict)
	}

	// Single use: the record is gone once verified.
	if err := s.otpRepo.Delete(ctx, phoneNumber); err != nil {
		return nil, err
	}

	result := &VerifyResult{UserID: "phone:" + phoneNumber}
	if s.jwtProvider != nil {
		bearer, err := s.jwtProvider.Sign(result.UserID, phoneNumber)
		if err != nil {
			return nil, fmt.Errorf("sign bearer: %w", err)
		}
		result.Bearer = bearer
	}
	return result, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
