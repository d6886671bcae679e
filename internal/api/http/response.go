package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
)

// envelope is the body of every JSON response.
type envelope struct {
	StatusCode int    `json:"status_code"`
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{
		StatusCode: status,
		Success:    status < http.StatusBadRequest,
		Data:       data,
		Message:    message,
	}); err != nil {
		logger.Error("Failed to encode response", "status", status, "error", err)
	}
}

// writeError maps a service error to its HTTP status. Dependency failures hide their cause.
func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		var de *domain.Error
		if errors.As(err, &de) && de.Message != "" {
			message = de.Message
		} else {
			message = http.StatusText(status)
		}
		logger.Error("Request failed", "status", status, "error", err)
	}
	writeJSON(w, status, nil, message)
}

func statusForError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindInvalidState:
		return http.StatusConflict
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindDependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
