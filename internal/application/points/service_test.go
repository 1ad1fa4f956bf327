package points

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/civictrust-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockPointsStore struct{ mock.Mock }

func (m *mockPointsStore) GetAccount(ctx context.Context, userID string) (*domain.PointsAccount, error) {
	args := m.Called(ctx, userID)
	if acc, _ := args.Get(0).(*domain.PointsAccount); acc != nil {
		return acc, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPointsStore) EnsureAccount(ctx context.Context, userID string, now time.Time) (*domain.PointsAccount, error) {
	args := m.Called(ctx, userID, now)
	if acc, _ := args.Get(0).(*domain.PointsAccount); acc != nil {
		return acc, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPointsStore) Append(ctx context.Context, ev *domain.PointsEvent) error {
	return m.Called(ctx, ev).Error(0)
}
func (m *mockPointsStore) ListEvents(ctx context.Context, userID string) ([]domain.PointsEvent, error) {
	args := m.Called(ctx, userID)
	events, _ := args.Get(0).([]domain.PointsEvent)
	return events, args.Error(1)
}

type mockWalletStore struct{ mock.Mock }

func (m *mockWalletStore) Link(ctx context.Context, walletAddress, userID string, now time.Time) (string, error) {
	args := m.Called(ctx, walletAddress, userID, now)
	return args.String(0), args.Error(1)
}
func (m *mockWalletStore) Get(ctx context.Context, walletAddress string) (*domain.WalletLink, error) {
	args := m.Called(ctx, walletAddress)
	if l, _ := args.Get(0).(*domain.WalletLink); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- builder ---

func newService(ps *mockPointsStore, ws *mockWalletStore, now time.Time) Service {
	return NewService(ServiceDeps{
		PointsRepo: ps,
		WalletRepo: ws,
		Now:        func() time.Time { return now },
	})
}

// --- GetAccount ---

func TestGetAccount_EmptyUserID(t *testing.T) {
	svc := newService(nil, nil, time.Now())
	_, _, err := svc.GetAccount(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestGetAccount_LazyCreate(t *testing.T) {
	ps := &mockPointsStore{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ps.On("EnsureAccount", mock.Anything, "u1", now).Return(&domain.PointsAccount{UserID: "u1", Balance: 0}, nil)
	ps.On("ListEvents", mock.Anything, "u1").Return([]domain.PointsEvent(nil), nil)

	svc := newService(ps, nil, now)
	acc, events, err := svc.GetAccount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, acc.Balance)
	assert.Empty(t, events)
	ps.AssertExpectations(t)
}

// --- Credit ---

func TestCredit_RejectsNonPositivePoints(t *testing.T) {
	svc := newService(nil, nil, time.Now())
	for _, pts := range []int{0, -1, -50} {
		_, err := svc.Credit(context.Background(), CreditInput{UserID: "u1", Points: pts, Source: "test"})
		assert.True(t, errors.Is(err, domain.ErrBadRequest), "points %d must be rejected", pts)
	}
}

func TestCredit_AppendsEventAndReturnsNewBalance(t *testing.T) {
	ps := &mockPointsStore{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ps.On("Append", mock.Anything, mock.AnythingOfType("*domain.PointsEvent")).Return(nil)
	ps.On("GetAccount", mock.Anything, "u1").Return(&domain.PointsAccount{UserID: "u1", Balance: 50}, nil)

	svc := newService(ps, nil, now)
	balance, err := svc.Credit(context.Background(), CreditInput{
		UserID:        "u1",
		Points:        50,
		Source:        "Code: CIVIC2023",
		Code:          "CIVIC2023",
		WalletAddress: "0xabc",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, balance)

	ev := ps.Calls[0].Arguments.Get(1).(*domain.PointsEvent)
	assert.Equal(t, "u1", ev.UserID)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, 50, ev.Points)
	assert.Equal(t, "Code: CIVIC2023", ev.Source)
	assert.Equal(t, "CIVIC2023", ev.Code)
	assert.Equal(t, "0xabc", ev.WalletAddress)
	assert.Equal(t, now.UTC(), ev.CreatedAt)
}

func TestCredit_AppendFailure_NoBalanceRead(t *testing.T) {
	ps := &mockPointsStore{}
	ps.On("Append", mock.Anything, mock.Anything).Return(errors.New("store down"))

	svc := newService(ps, nil, time.Now())
	_, err := svc.Credit(context.Background(), CreditInput{UserID: "u1", Points: 10, Source: "test"})
	require.Error(t, err)
	ps.AssertNotCalled(t, "GetAccount", mock.Anything, mock.Anything)
}

// --- LinkWallet ---

func TestLinkWallet_EmptyWallet(t *testing.T) {
	svc := newService(nil, nil, time.Now())
	_, err := svc.LinkWallet(context.Background(), "", "u1")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestLinkWallet_ExistingLinkWins(t *testing.T) {
	ws := &mockWalletStore{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ws.On("Link", mock.Anything, "0xabc", "u2", now).Return("u1", nil)

	svc := newService(nil, ws, now)
	uid, err := svc.LinkWallet(context.Background(), "0xabc", "u2")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestLinkWallet_MintsUserIDWhenMissing(t *testing.T) {
	ws := &mockWalletStore{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ws.On("Link", mock.Anything, "0xabc", mock.MatchedBy(func(uid string) bool {
		return len(uid) == 26 // ULID
	}), now).Return("minted", nil)

	svc := newService(nil, ws, now)
	uid, err := svc.LinkWallet(context.Background(), "0xabc", "")
	require.NoError(t, err)
	assert.Equal(t, "minted", uid)
	ws.AssertExpectations(t)
}
