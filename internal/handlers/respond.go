package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/services"
)

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithServiceError maps the service error kinds onto HTTP statuses so
// every handler reports failures the same way.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		respondWithError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, services.ErrConflict):
		respondWithError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, services.ErrInvalidArgument):
		respondWithError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
