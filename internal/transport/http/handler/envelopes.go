package handler

import (
	"encoding/json"
	"net/http"

	"github.com/civictrust-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OTPSendEnvelope wraps otp/send responses. OTP is populated only in demo
// mode, when no out-of-band SMS channel is configured.
type OTPSendEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

// OTPVerifyEnvelope wraps otp/verify responses.
type OTPVerifyEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Bearer  string `json:"bearer,omitempty"`
}

// PointsEnvelope wraps points balance responses.
type PointsEnvelope struct {
	UserID  string               `json:"user_id"`
	Points  int                  `json:"points"`
	History []domain.PointsEvent `json:"history"`
}

// RedeemEnvelope wraps redeem-code responses.
type RedeemEnvelope struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message"`
	PointsEarned int                 `json:"points_earned"`
	TotalPoints  int                 `json:"total_points"`
	Transaction  *domain.Transaction `json:"transaction"`
}

// AvailableCodesEnvelope wraps the unused-code listing.
type AvailableCodesEnvelope struct {
	Success        bool           `json:"success"`
	AvailableCodes map[string]int `json:"available_codes"`
}

// LoginEnvelope wraps sign-in responses.
type LoginEnvelope struct {
	Success   bool   `json:"success"`
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Bearer    string `json:"bearer,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
