package requestctx

import "context"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	userIDKey
)

// Gin context keys set by the HTTP middleware.
const (
	GinRequestIDKey  = "request_id"
	GinUserIDKey     = "user_id"
	GinCredentialKey = "credential"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id, or "".
func UserID(ctx context.Context) string {
	return stringValue(ctx, userIDKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(key).(string); ok {
		return s
	}
	return ""
}
