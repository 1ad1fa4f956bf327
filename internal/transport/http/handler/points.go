package handler

import (
	"net/http"

	"github.com/civictrust-api/internal/application/points"
	"github.com/civictrust-api/internal/transport/http/middleware"
)

// PointsHandler serves points balances and ledgers.
type PointsHandler struct {
	svc           points.Service
	defaultUserID string
}

func NewPointsHandler(svc points.Service, defaultUserID string) *PointsHandler {
	return &PointsHandler{svc: svc, defaultUserID: defaultUserID}
}

// Get returns the account for the effective identity: the wallet's linked
// user when ?wallet= is present, else the bearer's user, else the shared
// demo identity. A wallet seen for the first time without an explicit
// identity gets a freshly minted user id rather than the shared demo
// account. The account is created lazily on first access.
func (h *PointsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := h.defaultUserID
	explicit := false
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		userID = claims.UserID
		explicit = true
	}
	if q := r.URL.Query().Get("user_id"); q != "" {
		userID = q
		explicit = true
	}

	if wallet := r.URL.Query().Get("wallet"); wallet != "" {
		linkAs := ""
		if explicit {
			linkAs = userID
		}
		resolved, err := h.svc.LinkWallet(r.Context(), wallet, linkAs)
		if err != nil {
			httpError(w, err)
			return
		}
		userID = resolved
	}

	acc, history, err := h.svc.GetAccount(r.Context(), userID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PointsEnvelope{
		UserID:  acc.UserID,
		Points:  acc.Balance,
		History: history,
	})
}
