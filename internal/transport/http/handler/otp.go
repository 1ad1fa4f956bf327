package handler

import (
	"encoding/json"
	"net/http"

	"github.com/civictrust-api/internal/application/otp"
	"github.com/civictrust-api/internal/pkg/validate"
)

// OTPHandler handles the phone verification flow.
type OTPHandler struct {
	svc otp.Service
}

func NewOTPHandler(svc otp.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

type sendOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,len=10,digits"`
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,len=10,digits"`
	OTP         string `json:"otp" validate:"required,len=6,digits"`
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "phone number must be exactly 10 digits")
		return
	}
	res, err := h.svc.Issue(r.Context(), req.PhoneNumber)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPSendEnvelope{
		Success: true,
		Message: "OTP sent successfully",
		OTP:     res.Code,
	})
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "phone number must be 10 digits and OTP 6 digits")
		return
	}
	res, err := h.svc.Verify(r.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OTPVerifyEnvelope{
		Success: true,
		Message: "Phone number verified successfully",
		Bearer:  res.Bearer,
	})
}
