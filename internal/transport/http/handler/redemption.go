package handler

import (
	"encoding/json"
	"net/http"

	"github.com/civictrust-api/internal/application/redemption"
	"github.com/civictrust-api/internal/transport/http/middleware"
)

// RedemptionHandler handles one-shot code redemption.
type RedemptionHandler struct {
	svc           redemption.Service
	defaultUserID string
}

func NewRedemptionHandler(svc redemption.Service, defaultUserID string) *RedemptionHandler {
	return &RedemptionHandler{svc: svc, defaultUserID: defaultUserID}
}

type redeemRequest struct {
	Code          string `json:"code"`
	WalletAddress string `json:"wallet_address"`
}

func (h *RedemptionHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	userID := h.defaultUserID
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		userID = claims.UserID
	} else if req.WalletAddress != "" {
		// Anonymous wallet redemption: the wallet linkage resolves or mints
		// the identity instead of crediting the shared demo account.
		userID = ""
	}

	res, err := h.svc.Redeem(r.Context(), req.Code, userID, req.WalletAddress)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RedeemEnvelope{
		Success:      true,
		Message:      "Code redeemed successfully",
		PointsEarned: res.PointsEarned,
		TotalPoints:  res.TotalPoints,
		Transaction:  res.Transaction,
	})
}

func (h *RedemptionHandler) Available(w http.ResponseWriter, r *http.Request) {
	available, err := h.svc.ListAvailable(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailableCodesEnvelope{
		Success:        true,
		AvailableCodes: available,
	})
}
