package redemption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/civictrust-api/internal/application/points"
	"github.com/civictrust-api/internal/domain"
	"github.com/civictrust-api/internal/pkg/txhash"
)

// CodeStore is the persistence behind the one-shot code registry. Claim must
// be a guarded compare-and-swap on the used flag: of any number of concurrent
// claims for one code, exactly one succeeds.
type CodeStore interface {
	Get(ctx context.Context, code string) (*domain.RedemptionCode, error)
	Claim(ctx context.Context, code, userID string, usedAt int64) (*domain.RedemptionCode, error)
	Release(ctx context.Context, code string) error
	ListAvailable(ctx context.Context) ([]domain.RedemptionCode, error)
}

// Ledger is the slice of the points service a redemption needs.
type Ledger interface {
	Credit(ctx context.Context, in points.CreditInput) (int, error)
	LinkWallet(ctx context.Context, walletAddress, userID string) (string, error)
}

// RedeemResult reports a successful redemption. Transaction is non-nil only
// when a wallet address was supplied.
type RedeemResult struct {
	Code         string
	UserID       string
	PointsEarned int
	TotalPoints  int
	Transaction  *domain.Transaction
}

type Service interface {
	Redeem(ctx context.Context, code, userID, walletAddress string) (*RedeemResult, error)
	// ListAvailable returns the unused codes and their point values. Used
	// codes are omitted entirely.
	ListAvailable(ctx context.Context) (map[string]int, error)
}

// ServiceDeps bundles the service's collaborators. Now may be nil and
// defaults to time.Now.
type ServiceDeps struct {
	CodeRepo CodeStore
	Ledger   Ledger
	Now      func() time.Time
}

type service struct {
	codeRepo CodeStore
	ledger   Ledger
	now      func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{codeRepo: deps.CodeRepo, ledger: deps.Ledger, now: now}
}

func (s *service) Redeem(ctx context.Context, code, userID, walletAddress string) (*RedeemResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("code is required: %w", domain.ErrBadRequest)
	}

	// A wallet's existing linkage overrides the caller's user id.
	effectiveUser := userID
	if walletAddress != "" {
		resolved, err := s.ledger.LinkWallet(ctx, walletAddress, userID)
		if err != nil {
			return nil, err
		}
		effectiveUser = resolved
	}
	if effectiveUser == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrBadRequest)
	}

	now := s.now()
	rc, err := s.codeRepo.Claim(ctx, code, effectiveUser, now.Unix())
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("Invalid code: %w", domain.ErrNotFound)
	case errors.Is(err, domain.ErrConflict):
		return nil, fmt.Errorf("This code has already been redeemed: %w", domain.ErrConflict)
	case err != nil:
		return nil, err
	}

	total, err := s.ledger.Credit(ctx, points.CreditInput{
		UserID:        effectiveUser,
		Points:        rc.PointValue,
		Source:        "Code: " + code,
		Code:          code,
		WalletAddress: walletAddress,
	})
	if err != nil {
		// The claim reserved the code; put it back so the failed credit
		// doesn't burn it.
		if relErr := s.codeRepo.Release(ctx, code); relErr != nil {
			slog.Error("failed to release claimed code after credit failure",
				"code", code, "claim_err", err, "release_err", relErr)
		}
		return nil, err
	}

	result := &RedeemResult{
		Code:         code,
		UserID:       effectiveUser,
		PointsEarned: rc.PointValue,
		TotalPoints:  total,
	}
	if walletAddress != "" {
		hash, err := txhash.New()
		if err != nil {
			return nil, err
		}
		result.Transaction = &domain.Transaction{
			Hash:          hash,
			WalletAddress: walletAddress,
			Amount:        rc.PointValue,
			Timestamp:     now.UTC(),
		}
	}
	return result, nil
}

func (s *service) ListAvailable(ctx context.Context) (map[string]int, error) {
	codes, err := s.codeRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	available := make(map[string]int, len(codes))
	for _, rc := range codes {
		available[rc.Code] = rc.PointValue
	}
	return available, nil
}
