package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/picshelf/picshelf"
)

// MessageResponse is the uniform body for status messages and errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response with a message field
func WriteError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(MessageResponse{Message: message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes the appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	if errors.Is(err, picshelf.ErrInvalidInput) {
		WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if errors.Is(err, picshelf.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	if errors.Is(err, picshelf.ErrUnauthorized) {
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if errors.Is(err, picshelf.ErrConflict) {
		WriteError(w, http.StatusConflict, "Already exists")
		return
	}

	// Default internal error; upstream failures land here and are never
	// reported as success.
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}
