package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds raised at the HTTP edge.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limited")
	ErrInternal     = errors.New("internal error")
)

// AppError is an error with a stable code, a user-facing message and the
// HTTP status it is written with.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, message string, statusCode int, err error) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode, Err: err}
}

// Unauthorized is written when no identity could be established.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "not authorized"
	}
	return NewAppError("UNAUTHORIZED", message, http.StatusUnauthorized, ErrUnauthorized)
}

// InvalidInput reports a malformed request. Like every domain outcome it
// travels in a 200 envelope.
func InvalidInput(message string) *AppError {
	return NewAppError("INVALID_INPUT", message, http.StatusOK, ErrInvalidInput)
}

// RateLimited is written when a caller exceeds its request budget.
func RateLimited(message string) *AppError {
	if message == "" {
		message = "too many requests"
	}
	return NewAppError("RATE_LIMITED", message, http.StatusTooManyRequests, ErrRateLimited)
}

// Internal is written for failures the caller cannot act on.
func Internal(message string, err error) *AppError {
	if message == "" {
		message = "internal error"
	}
	if err == nil {
		err = ErrInternal
	}
	return NewAppError("INTERNAL_ERROR", message, http.StatusInternalServerError, err)
}
