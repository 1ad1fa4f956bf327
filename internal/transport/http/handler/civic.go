package handler

import (
	"net/http"
	"strconv"

	"github.com/civictrust-api/internal/application/civic"
)

// CivicHandler serves the synthesized dashboard feeds.
type CivicHandler struct {
	svc civic.Service
}

func NewCivicHandler(svc civic.Service) *CivicHandler {
	return &CivicHandler{svc: svc}
}

func (h *CivicHandler) Stats(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := parseCoords(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Stats(lat, lng))
}

func (h *CivicHandler) Issues(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := parseCoords(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Issues(lat, lng))
}

func (h *CivicHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = n
	}
	writeJSON(w, http.StatusOK, h.svc.PriceHistory(days))
}

func parseCoords(w http.ResponseWriter, r *http.Request) (lat, lng float64, ok bool) {
	var err error
	if lat, err = strconv.ParseFloat(r.URL.Query().Get("lat"), 64); err != nil {
		writeError(w, http.StatusBadRequest, "lat must be a number")
		return 0, 0, false
	}
	if lng, err = strconv.ParseFloat(r.URL.Query().Get("lng"), 64); err != nil {
		writeError(w, http.StatusBadRequest, "lng must be a number")
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		writeError(w, http.StatusBadRequest, "coordinates out of range")
		return 0, 0, false
	}
	return lat, lng, true
}
