// Package httputil provides HTTP handler utilities for consistent error
// handling, JSON encoding/decoding, and request parsing. It is the single
// place where the error taxonomy is mapped to status codes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/recouvro/recouvro/pkg/apperrors"
)

// ErrorResponse is the JSON body of every error response. Stack is populated
// only for unhandled panics outside production.
type ErrorResponse struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful response (200 OK) with JSON data
func WriteSuccess(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a successful creation response (201 Created)
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteMessage writes a 200 response carrying only a message
func WriteMessage(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

// WriteErrorMessage writes an error response with an explicit status code
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Message: message})
}

// WriteError maps a component error to its status code and writes it.
// Unrecognized errors become 500s with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorMessage(w, StatusForError(err), MessageForError(err))
}

// StatusForError resolves an error from the taxonomy to an HTTP status code.
func StatusForError(err error) int {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthenticated),
		errors.Is(err, apperrors.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MessageForError returns the user-facing message for an error. Internal
// errors are masked; taxonomy errors pass their message through.
func MessageForError(err error) string {
	if StatusForError(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
