// Package apperr defines errors that carry the HTTP status they should be
// reported with. Services raise them where a condition is detected and the
// API layer serialises them unchanged.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error with an associated HTTP status
type Error struct {
	Status  int
	Message string
	// Details carries field-level validation failures, if any
	Details any
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with the given status and message
func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, format, args...)
}

func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

// Expired reports a credential (OTP) used after its window closed
func Expired(format string, args ...any) *Error {
	return New(http.StatusGone, format, args...)
}

// TooManyRequests reports a caller that exhausted its attempts
func TooManyRequests(format string, args ...any) *Error {
	return New(http.StatusTooManyRequests, format, args...)
}

// Validation wraps a list of field errors into a 400
func Validation(details any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "validation failed", Details: details}
}

// StatusOf returns the HTTP status for err, or 500 when err is not an *Error
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether err is an *Error with the given status
func Is(err error, status int) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Status == status
}
