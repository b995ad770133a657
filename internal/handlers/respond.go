package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leafchain/leafchain-api/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors onto HTTP statuses. Unknown errors are
// reported as 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrNotListed),
		errors.Is(err, models.ErrSelfTrade),
		errors.Is(err, models.ErrConcurrentModification):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrMintingFailed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotOwner):
		status = http.StatusForbidden
	default:
		message = "internal server error"
	}

	writeJSON(w, status, errorResponse{Error: message})
}
