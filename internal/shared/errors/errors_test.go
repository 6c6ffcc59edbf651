package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Unwrap(t *testing.T) {
	err := Internal("store failed", assert.AnError)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "store failed")
	assert.ErrorIs(t, Internal("", nil), ErrInternal)
	assert.Equal(t, "internal error", Internal("", nil).Message)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		kind   error
		code   string
		status int
	}{
		{"unauthorized", Unauthorized(""), ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized},
		{"invalid input", InvalidInput("prompt is required"), ErrInvalidInput, "INVALID_INPUT", http.StatusOK},
		{"rate limited", RateLimited(""), ErrRateLimited, "RATE_LIMITED", http.StatusTooManyRequests},
		{"internal", Internal("boom", nil), ErrInternal, "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.kind)
		})
	}

	assert.Equal(t, "not authorized", Unauthorized("").Message)
	assert.Equal(t, "too many requests", RateLimited("").Message)
}
