package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"ledger-backend/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] encode response: %v", err)
	}
}

func RespondError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// StatusFor maps the ledger error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.IsConflict(err):
		return http.StatusConflict
	case apperr.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondAppError writes err with its mapped status. Storage failures are
// logged and hidden behind a generic message.
func RespondAppError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] internal error: %v", err)
		RespondError(w, status, "internal error")
		return
	}
	RespondError(w, status, err.Error())
}
