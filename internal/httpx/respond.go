package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"restaurant-orders/internal/models"
)

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// WriteJSON writes v as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// WriteDomainError maps a domain error to its HTTP status and writes it
func WriteDomainError(w http.ResponseWriter, err error, requestID string) {
	var ve models.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, "validation_failed", ve.Error(), requestID)
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, models.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "unauthenticated", err.Error(), requestID)
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
