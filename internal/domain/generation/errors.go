package generation

import (
	"errors"
	"fmt"

	"github.com/quickai/server/internal/domain/entitlement"
)

// Domain errors for generation.
var (
	ErrInvalidInput = errors.New("invalid generation input")
	ErrProvider     = errors.New("generation provider failed")

	ErrLimitReached    = fmt.Errorf("%w: %s", entitlement.ErrQuotaExceeded, entitlement.ReasonLimitReached)
	ErrPremiumRequired = fmt.Errorf("%w: %s", entitlement.ErrQuotaExceeded, entitlement.ReasonPremiumRequired)
)

// Warnings attached to content that was generated but not fully recorded.
const (
	WarningNotSaved      = "Your content was generated but could not be saved to your creations."
	WarningUsageNotSaved = "Your content was generated but your usage could not be updated."
)

func denial(reason entitlement.Reason) error {
	switch reason {
	case entitlement.ReasonPremiumRequired:
		return ErrPremiumRequired
	case entitlement.ReasonLimitReached:
		return ErrLimitReached
	default:
		return fmt.Errorf("%w: %s", entitlement.ErrQuotaExceeded, reason)
	}
}
