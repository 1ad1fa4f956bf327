package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/civictrust-api/internal/domain"
)

// httpError maps a service error to an HTTP response. Validation, not-found
// and conflict failures are all user-correctable 400s distinguished only by
// message text; anything unrecognized is a 500 with a generic body and the
// original error logged server-side.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, userMessage(err))
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, userMessage(err))
	default:
		slog.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// userMessage strips the wrapped sentinel suffix ("...: not found") so the
// client sees only the human-readable part.
func userMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i > 0 {
		return msg[:i]
	}
	return msg
}
