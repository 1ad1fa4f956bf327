package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/civictrust-api/internal/application/points"
	"github.com/civictrust-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPointsSvc struct{ mock.Mock }

func (m *mockPointsSvc) GetAccount(ctx context.Context, userID string) (*domain.PointsAccount, []domain.PointsEvent, error) {
	args := m.Called(ctx, userID)
	acc, _ := args.Get(0).(*domain.PointsAccount)
	events, _ := args.Get(1).([]domain.PointsEvent)
	return acc, events, args.Error(2)
}

func (m *mockPointsSvc) Credit(ctx context.Context, in points.CreditInput) (int, error) {
	args := m.Called(ctx, in)
	return args.Int(0), args.Error(1)
}

func (m *mockPointsSvc) LinkWallet(ctx context.Context, walletAddress, userID string) (string, error) {
	args := m.Called(ctx, walletAddress, userID)
	return args.String(0), args.Error(1)
}

func getPoints(t *testing.T, h *PointsHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	return rec
}

func TestPointsGet_DefaultUser(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := &mockPointsSvc{}
	svc.On("GetAccount", mock.Anything, "demo-user").Return(
		&domain.PointsAccount{UserID: "demo-user", Balance: 75},
		[]domain.PointsEvent{{UserID: "demo-user", EventID: "e1", Source: "Code: CIVIC2023", Points: 50, CreatedAt: now}},
		nil)

	rec := getPoints(t, NewPointsHandler(svc, "demo-user"), "/v1/points")
	require.Equal(t, http.StatusOK, rec.Code)
	var env PointsEnvelope
	decodeBody(t, rec, &env)
	assert.Equal(t, "demo-user", env.UserID)
	assert.Equal(t, 75, env.Points)
	require.Len(t, env.History, 1)
	assert.Equal(t, "Code: CIVIC2023", env.History[0].Source)
}

func TestPointsGet_FreshAccountIsZero(t *testing.T) {
	svc := &mockPointsSvc{}
	svc.On("GetAccount", mock.Anything, "someone-else").Return(
		&domain.PointsAccount{UserID: "someone-else", Balance: 0}, []domain.PointsEvent(nil), nil)

	rec := getPoints(t, NewPointsHandler(svc, "demo-user"), "/v1/points?user_id=someone-else")
	require.Equal(t, http.StatusOK, rec.Code)
	var env PointsEnvelope
	decodeBody(t, rec, &env)
	assert.Equal(t, 0, env.Points)
	assert.Empty(t, env.History)
}

func TestPointsGet_WalletWithExplicitUser_LinksAsThatUser(t *testing.T) {
	svc := &mockPointsSvc{}
	svc.On("LinkWallet", mock.Anything, "0xwallet", "alice").Return("linked-user", nil)
	svc.On("GetAccount", mock.Anything, "linked-user").Return(
		&domain.PointsAccount{UserID: "linked-user", Balance: 25}, []domain.PointsEvent(nil), nil)

	rec := getPoints(t, NewPointsHandler(svc, "demo-user"), "/v1/points?wallet=0xwallet&user_id=alice")
	require.Equal(t, http.StatusOK, rec.Code)
	var env PointsEnvelope
	decodeBody(t, rec, &env)
	assert.Equal(t, "linked-user", env.UserID)
	assert.Equal(t, 25, env.Points)
}

func TestPointsGet_AnonymousWallet_GetsOwnIdentity(t *testing.T) {
	// A wallet presented without a bearer or ?user_id= must not collapse
	// into the shared demo account; the service mints a fresh user id when
	// the link-as identity is empty.
	svc := &mockPointsSvc{}
	svc.On("LinkWallet", mock.Anything, "0xwallet", "").Return("01HMINTED", nil)
	svc.On("GetAccount", mock.Anything, "01HMINTED").Return(
		&domain.PointsAccount{UserID: "01HMINTED", Balance: 0}, []domain.PointsEvent(nil), nil)

	rec := getPoints(t, NewPointsHandler(svc, "demo-user"), "/v1/points?wallet=0xwallet")
	require.Equal(t, http.StatusOK, rec.Code)
	var env PointsEnvelope
	decodeBody(t, rec, &env)
	assert.Equal(t, "01HMINTED", env.UserID)
	svc.AssertNotCalled(t, "LinkWallet", mock.Anything, "0xwallet", "demo-user")
}
