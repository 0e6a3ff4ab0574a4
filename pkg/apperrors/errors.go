// Package apperrors defines the error taxonomy shared by all Recouvro
// components. Components return these typed outcomes; the HTTP layer is the
// single place that maps them to status codes.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no record exists for the given identifier.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a unique field (e.g. username) already exists.
	ErrConflict = errors.New("already exists")
	// ErrUnauthenticated indicates a missing bearer token.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidToken indicates a malformed, badly signed or expired token.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrForbidden indicates a valid identity without the required role.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrStoreUnavailable indicates the backing store timed out or is down.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports client-supplied data that failed validation.
// It always names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for the given field.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Required is a shorthand for the common missing-field case.
func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
