// Package memstore is the in-memory storage backend used when no DynamoDB
// endpoint is configured. All state lives in one process and is lost on
// restart unless a snapshot store is attached. A single mutex serializes
// every check-and-set sequence, which is what the one-shot semantics of OTP
// records and redemption codes depend on.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/civictrust-api/internal/domain"
)

// Store holds all mutable demo state behind one lock.
type Store struct {
	mu       sync.Mutex
	otps     map[string]domain.OTPRecord
	accounts map[string]domain.PointsAccount
	events   map[string][]domain.PointsEvent
	codes    map[string]domain.RedemptionCode
	wallets  map[string]domain.WalletLink
}

func New() *Store {
	return &Store{
		otps:     make(map[string]domain.OTPRecord),
		accounts: make(map[string]domain.PointsAccount),
		events:   make(map[string][]domain.PointsEvent),
		codes:    make(map[string]domain.RedemptionCode),
		wallets:  make(map[string]domain.WalletLink),
	}
}

// OTPs returns the OTP repository view of the store.
func (s *Store) OTPs() *OTPRepo { return &OTPRepo{s: s} }

// Points returns the points repository view of the store.
func (s *Store) Points() *PointsRepo { return &PointsRepo{s: s} }

// Codes returns the redemption-code repository view of the store.
func (s *Store) Codes() *CodeRepo { return &CodeRepo{s: s} }

// Wallets returns the wallet-link repository view of the store.
func (s *Store) Wallets() *WalletRepo { return &WalletRepo{s: s} }

// OTPRepo manages pending phone verification codes.
type OTPRepo struct{ s *Store }

func (r *OTPRepo) Put(_ context.Context, rec *domain.OTPRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.otps[rec.PhoneNumber] = *rec
	return nil
}

func (r *OTPRepo) Get(_ context.Context, phoneNumber string) (*domain.OTPRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.otps[phoneNumber]
	if !ok {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	return &rec, nil
}

func (r *OTPRepo) Delete(_ context.Context, phoneNumber string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.otps, phoneNumber)
	return nil
}

// PointsRepo manages points accounts and their append-only event logs.
type PointsRepo struct{ s *Store }

func (r *PointsRepo) GetAccount(_ context.Context, userID string) (*domain.PointsAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc, ok := r.s.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("points account not found: %w", domain.ErrNotFound)
	}
	return &acc, nil
}

// Append records the event and increments the balance under one lock hold,
// so the balance never drifts from the sum of the ledger.
func (r *PointsRepo) Append(_ context.Context, ev *domain.PointsEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc, ok := r.s.accounts[ev.UserID]
	if !ok {
		acc = domain.PointsAccount{UserID: ev.UserID, CreatedAt: ev.CreatedAt}
	}
	acc.Balance += ev.Points
	acc.UpdatedAt = ev.CreatedAt
	r.s.accounts[ev.UserID] = acc
	r.s.events[ev.UserID] = append(r.s.events[ev.UserID], *ev)
	return nil
}

func (r *PointsRepo) ListEvents(_ context.Context, userID string) ([]domain.PointsEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	events := make([]domain.PointsEvent, len(r.s.events[userID]))
	copy(events, r.s.events[userID])
	return events, nil
}

func (r *PointsRepo) EnsureAccount(_ context.Context, userID string, now time.Time) (*domain.PointsAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc, ok := r.s.accounts[userID]
	if !ok {
		acc = domain.PointsAccount{UserID: userID, Balance: 0, CreatedAt: now, UpdatedAt: now}
		r.s.accounts[userID] = acc
	}
	return &acc, nil
}

// CodeRepo manages the fixed set of one-shot redemption codes.
type CodeRepo struct{ s *Store }

// Seed inserts the configured codes, skipping any that already exist so a
// snapshot restore never resurrects a consumed code.
func (r *CodeRepo) Seed(_ context.Context, codes map[string]int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for code, points := range codes {
		if _, exists := r.s.codes[code]; exists {
			continue
		}
		r.s.codes[code] = domain.RedemptionCode{Code: code, PointValue: points}
	}
	return nil
}

func (r *CodeRepo) Get(_ context.Context, code string) (*domain.RedemptionCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.codes[code]
	if !ok {
		return nil, fmt.Errorf("redemption code not found: %w", domain.ErrNotFound)
	}
	return &rc, nil
}

// Claim flips used false→true while holding the store lock: concurrent
// redemption attempts for the same code get exactly one winner.
func (r *CodeRepo) Claim(_ context.Context, code, userID string, usedAt int64) (*domain.RedemptionCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.codes[code]
	if !ok {
		return nil, fmt.Errorf("redemption code not found: %w", domain.ErrNotFound)
	}
	if rc.Used {
		return nil, fmt.Errorf("redemption code already used: %w", domain.ErrConflict)
	}
	rc.Used = true
	rc.UsedBy = userID
	rc.UsedAt = usedAt
	r.s.codes[code] = rc
	return &rc, nil
}

// Release reverts a claim after a failed credit so the code stays redeemable.
func (r *CodeRepo) Release(_ context.Context, code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.codes[code]
	if !ok {
		return fmt.Errorf("redemption code not found: %w", domain.ErrNotFound)
	}
	rc.Used = false
	rc.UsedBy = ""
	rc.UsedAt = 0
	r.s.codes[code] = rc
	return nil
}

func (r *CodeRepo) ListAvailable(_ context.Context) ([]domain.RedemptionCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	codes := make([]domain.RedemptionCode, 0, len(r.s.codes))
	for _, rc := range r.s.codes {
		if !rc.Used {
			codes = append(codes, rc)
		}
	}
	return codes, nil
}

// WalletRepo manages wallet-address-to-user associations.
type WalletRepo struct{ s *Store }

// Link associates walletAddress with userID unless a link already exists, and
// returns the effective user id either way.
func (r *WalletRepo) Link(_ context.Context, walletAddress, userID string, now time.Time) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.wallets[walletAddress]; ok {
		return existing.UserID, nil
	}
	r.s.wallets[walletAddress] = domain.WalletLink{WalletAddress: walletAddress, UserID: userID, CreatedAt: now}
	return userID, nil
}

func (r *WalletRepo) Get(_ context.Context, walletAddress string) (*domain.WalletLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	link, ok := r.s.wallets[walletAddress]
	if !ok {
		return nil, fmt.Errorf("wallet link not found: %w", domain.ErrNotFound)
	}
	return &link, nil
}
