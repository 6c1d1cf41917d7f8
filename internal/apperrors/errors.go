// Package apperrors defines the abstract error kinds the service layer
// reports, independent of any SDK's error types. Repositories translate
// driver errors into these kinds; handlers map them to HTTP status codes.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConflict marks operations that would violate a uniqueness or
	// state invariant (user already paired, invite code already redeemed).
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks references to records that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed input.
	ErrValidation = errors.New("invalid input")

	// ErrUnavailable marks a collaborator that could not be reached or
	// denied access; distinct from ErrNotFound.
	ErrUnavailable = errors.New("unavailable")

	// ErrTimeout marks a collaborator call that did not complete within
	// the caller's allotted time.
	ErrTimeout = errors.New("timed out")
)

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}

// Conflict returns an error matching ErrConflict with a formatted message
func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

// NotFound returns an error matching ErrNotFound with a formatted message
func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

// Validation returns an error matching ErrValidation with a formatted message
func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

// Unavailable returns an error matching ErrUnavailable with a formatted message
func Unavailable(format string, args ...any) error {
	return wrap(ErrUnavailable, format, args...)
}

// Timeout returns an error matching ErrTimeout with a formatted message
func Timeout(format string, args ...any) error {
	return wrap(ErrTimeout, format, args...)
}

// FromContext maps context cancellation/deadline errors onto the abstract
// kinds; other errors pass through unchanged.
func FromContext(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%v: %w", err, ErrTimeout)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%v: %w", err, ErrUnavailable)
	default:
		return err
	}
}

// HTTPStatus maps an error kind to an HTTP status code. Unknown errors map
// to 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
