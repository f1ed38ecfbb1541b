package types

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	ErrValidation        ErrorKind = "validation_error"
	ErrNotFound          ErrorKind = "not_found"
	ErrPermissionDenied  ErrorKind = "permission_denied"
	ErrSlotUnavailable   ErrorKind = "slot_unavailable"
	ErrAlreadyPaid       ErrorKind = "already_paid"
	ErrInvalidState      ErrorKind = "invalid_state"
	ErrIllegalTransition ErrorKind = "illegal_transition"
	ErrInternal          ErrorKind = "internal_error"
)

// APIError is a business error surfaced verbatim to the API boundary.
// Storage failures stay plain errors and map to ErrInternal.
type APIError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(kind ErrorKind, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

// AsAPIError wraps any non-business error as an internal error so the
// handler layer performs a single kind-to-status translation.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Kind: ErrInternal, Message: "something went wrong"}
}

func (e *APIError) StatusCode() int {
	switch e.Kind {
	case ErrValidation, ErrIllegalTransition:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrPermissionDenied:
		return http.StatusForbidden
	case ErrSlotUnavailable, ErrAlreadyPaid, ErrInvalidState:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
