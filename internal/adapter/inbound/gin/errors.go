package gin

import (
	"net/http"

	"github.com/quickai/server/internal/domain/creation"
	"github.com/quickai/server/internal/domain/entitlement"
	"github.com/quickai/server/internal/domain/generation"
	"github.com/quickai/server/internal/shared/response"
)

// Envelope messages shown to end users.
const (
	MessageLimitReached    = "Limit reached. Upgrade to continue."
	MessagePremiumRequired = "This feature is only available for premium subscriptions."
)

// Domain outcomes are reported with HTTP 200 and success=false; only
// authentication failures change the status.
var generationErrors = []response.ErrorMapping{
	{Err: entitlement.ErrAuthentication, Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Not authenticated"},
	{Err: generation.ErrPremiumRequired, Code: "PREMIUM_REQUIRED", Message: MessagePremiumRequired},
	{Err: generation.ErrLimitReached, Code: "LIMIT_REACHED", Message: MessageLimitReached},
	{Err: entitlement.ErrQuotaExceeded, Code: "QUOTA_EXCEEDED", Message: MessageLimitReached},
	{Err: generation.ErrInvalidInput, Code: "INVALID_INPUT", Verbose: true},
	{Err: entitlement.ErrUnknownCapability, Code: "UNKNOWN_CAPABILITY", Verbose: true},
	{Err: generation.ErrProvider, Code: "PROVIDER_ERROR", Message: "Generation failed. Please try again."},
}

var creationErrors = []response.ErrorMapping{
	{Err: creation.ErrCreationNotFound, Code: "NOT_FOUND", Message: "Creation not found"},
	{Err: creation.ErrInvalidInput, Code: "INVALID_INPUT", Message: "Invalid request"},
}
