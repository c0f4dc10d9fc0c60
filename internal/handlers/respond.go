package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"checkin-backend/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy to HTTP statuses. Internal errors are
// logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)

	var status int
	switch kind {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindConflict:
		status = http.StatusConflict
	case apperrors.KindCapacity:
		status = http.StatusConflict
	case apperrors.KindAuthorization:
		status = http.StatusUnauthorized
	case apperrors.KindExhaustion:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error: %v", err)
		message = "internal error"
	}

	writeJSON(w, status, map[string]string{
		"error": message,
		"kind":  string(kind),
	})
}
