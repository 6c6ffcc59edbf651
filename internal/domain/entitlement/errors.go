package entitlement

import "errors"

// Domain errors for entitlement.
var (
	ErrAuthentication    = errors.New("authentication failed")
	ErrUnknownCapability = errors.New("unknown capability")
	ErrQuotaExceeded     = errors.New("quota exceeded")
	ErrUsageCeiling      = errors.New("usage ceiling reached")
	ErrInvalidUsage      = errors.New("invalid usage value")
)
