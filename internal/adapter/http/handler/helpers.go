package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/timelimit/internal/adapter/http/dto"
	"github.com/iho/timelimit/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingBound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvertedBound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEmptyCategory):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCategory):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDuration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
