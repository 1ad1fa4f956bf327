package points

import (
	"context"
	"fmt"
	"time"

	"github.com/civictrust-api/internal/domain"
	"github.com/civictrust-api/internal/pkg/id"
)

// Store is the persistence the ledger needs. Append must record the event
// and adjust the balance atomically so the balance always equals the sum of
// the ledger.
type Store interface {
	GetAccount(ctx context.Context, userID string) (*domain.PointsAccount, error)
	EnsureAccount(ctx context.Context, userID string, now time.Time) (*domain.PointsAccount, error)
	Append(ctx context.Context, ev *domain.PointsEvent) error
	ListEvents(ctx context.Context, userID string) ([]domain.PointsEvent, error)
}

// WalletStore is the first-write-wins wallet-to-user mapping.
type WalletStore interface {
	Link(ctx context.Context, walletAddress, userID string, now time.Time) (string, error)
	Get(ctx context.Context, walletAddress string) (*domain.WalletLink, error)
}

// CreditInput describes one point-earning event. Points must be positive;
// there is no debit operation, so balances only ever grow.
type CreditInput struct {
	UserID        string
	Points        int
	Source        string
	Code          string
	WalletAddress string
}

type Service interface {
	// GetAccount lazily creates the account and returns it with its ledger.
	GetAccount(ctx context.Context, userID string) (*domain.PointsAccount, []domain.PointsEvent, error)
	// Credit appends an event and returns the new balance.
	Credit(ctx context.Context, in CreditInput) (int, error)
	// LinkWallet resolves walletAddress to its user, linking it to userID
	// first if no association exists yet.
	LinkWallet(ctx context.Context, walletAddress, userID string) (string, error)
}

// ServiceDeps bundles the service's collaborators. Now may be nil and
// defaults to time.Now.
type ServiceDeps struct {
	PointsRepo Store
	WalletRepo WalletStore
	Now        func() time.Time
}

type service struct {
	pointsRepo Store
	walletRepo WalletStore
	now        func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{pointsRepo: deps.PointsRepo, walletRepo: deps.WalletRepo, now: now}
}

func (s *service) GetAccount(ctx context.Context, userID string) (*domain.PointsAccount, []domain.PointsEvent, error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("user id is required: %w", domain.ErrBadRequest)
	}
	acc, err := s.pointsRepo.EnsureAccount(ctx, userID, s.now())
	if err != nil {
		return nil, nil, err
	}
	events, err := s.pointsRepo.ListEvents(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return acc, events, nil
}

func (s *service) Credit(ctx context.Context, in CreditInput) (int, error) {
	if in.UserID == "" {
		return 0, fmt.Errorf("user id is required: %w", domain.ErrBadRequest)
	}
	if in.Points <= 0 {
		return 0, fmt.Errorf("points must be a positive integer: %w", domain.ErrBadRequest)
	}
	ev := &domain.PointsEvent{
		UserID:        in.UserID,
		EventID:       id.New(),
		Source:        in.Source,
		Points:        in.Points,
		Code:          in.Code,
		WalletAddress: in.WalletAddress,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.pointsRepo.Append(ctx, ev); err != nil {
		return 0, err
	}
	acc, err := s.pointsRepo.GetAccount(ctx, in.UserID)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (s *service) LinkWallet(ctx context.Context, walletAddress, userID string) (string, error) {
	if walletAddress == "" {
		return "", fmt.Errorf("wallet address is required: %w", domain.ErrBadRequest)
	}
	if userID == "" {
		userID = id.New()
	}
	return s.walletRepo.Link(ctx, walletAddress, userID, s.now())
}
