package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	sharederrors "github.com/quickai/server/internal/shared/errors"
	"github.com/quickai/server/internal/shared/response"
	"github.com/quickai/server/internal/utils/requestctx"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
)

// Authenticator verifies a session credential and returns the user id.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (string, error)
}

// RequireAuth rejects requests without a valid bearer credential. On
// success the user id and the credential are stored in the gin context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			response.FromAppError(c, sharederrors.Unauthorized("Not authenticated"))
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			response.AbortFail(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired session")
			return
		}

		c.Set(requestctx.GinUserIDKey, userID)
		c.Set(requestctx.GinCredentialKey, token)
		c.Request = c.Request.WithContext(requestctx.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthorizationHeader)
	if len(header) <= len(BearerPrefix) || !strings.EqualFold(header[:len(BearerPrefix)], BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(BearerPrefix):])
}

// GetUserID returns the authenticated user id, or "".
func GetUserID(c *gin.Context) string {
	return c.GetString(requestctx.GinUserIDKey)
}

// GetCredential returns the verified bearer credential, or "".
func GetCredential(c *gin.Context) string {
	return c.GetString(requestctx.GinCredentialKey)
}
