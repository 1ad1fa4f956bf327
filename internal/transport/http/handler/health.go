package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health-check endpoints.
type HealthHandler struct {
	env string
}

func NewHealthHandler(env string) *HealthHandler { return &HealthHandler{env: env} }

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "action") != "ping" {
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		Env     string `json:"env"`
	}{Message: "pong", Env: h.env})
}
