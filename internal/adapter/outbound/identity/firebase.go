package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/quickai/server/internal/port/outbound"
)

// planClaim is the custom claim holding the user's plan.
const planClaim = "plan"

// FirebaseConfig holds Firebase Admin SDK settings.
type FirebaseConfig struct {
	CredentialsFile string
	DatabaseURL     string
	ProjectID       string
}

type userDirectory interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

type metadataRef interface {
	Get(ctx context.Context, v any) error
	Update(ctx context.Context, values map[string]any) error
	Transaction(ctx context.Context, fn db.UpdateFn) error
}

// FirebaseProvider verifies Firebase ID tokens, reads the plan from the
// user's custom claims and keeps metadata under users/{uid}/metadata in
// the Realtime Database.
type FirebaseProvider struct {
	users userDirectory
	ref   func(path string) metadataRef
}

// NewFirebaseProvider initializes the Firebase app and its clients.
func NewFirebaseProvider(ctx context.Context, cfg FirebaseConfig) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL: cfg.DatabaseURL,
		ProjectID:   cfg.ProjectID,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	dbClient, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase database: %w", err)
	}

	return &FirebaseProvider{
		users: authClient,
		ref:   func(path string) metadataRef { return dbClient.NewRef(path) },
	}, nil
}

func metadataPath(userID string) string {
	return "users/" + userID + "/metadata"
}

func (p *FirebaseProvider) VerifyCredential(ctx context.Context, token string) (string, error) {
	tok, err := p.users.VerifyIDToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", outbound.ErrInvalidCredential, err)
	}
	return tok.UID, nil
}

// HasEntitlement reads the user record on every call so plan changes are
// visible without waiting for a token refresh.
func (p *FirebaseProvider) HasEntitlement(ctx context.Context, userID, plan string) (bool, error) {
	user, err := p.users.GetUser(ctx, userID)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("get firebase user: %w", err)
	}
	switch v := user.CustomClaims[planClaim].(type) {
	case string:
		return v == plan, nil
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == plan {
				return true, nil
			}
		}
	}
	return false, nil
}

func (p *FirebaseProvider) GetMetadata(ctx context.Context, userID string) (map[string]any, error) {
	var out map[string]any
	if err := p.ref(metadataPath(userID)).Get(ctx, &out); err != nil {
		return nil, fmt.Errorf("read firebase metadata: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// SetMetadata updates only the given children of the metadata node.
func (p *FirebaseProvider) SetMetadata(ctx context.Context, userID string, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	if err := p.ref(metadataPath(userID)).Update(ctx, values); err != nil {
		return fmt.Errorf("update firebase metadata: %w", err)
	}
	return nil
}

func (p *FirebaseProvider) IncrementUsage(ctx context.Context, userID string, delta, ceiling int64) (int64, bool, error) {
	var (
		usage   int64
		applied bool
	)
	ref := p.ref(metadataPath(userID) + "/" + freeUsageKey)
	if err := ref.Transaction(ctx, incrementUpdate(delta, ceiling, &usage, &applied)); err != nil {
		return 0, false, fmt.Errorf("increment firebase usage: %w", err)
	}
	return usage, applied, nil
}

// incrementUpdate builds the transaction body. The database may run it
// several times; the outputs reflect the attempt that committed.
func incrementUpdate(delta, ceiling int64, usage *int64, applied *bool) db.UpdateFn {
	return func(node db.TransactionNode) (any, error) {
		var current *int64
		if err := node.Unmarshal(&current); err != nil {
			return nil, err
		}
		var n int64
		if current != nil {
			n = *current
		}
		if n >= ceiling {
			*usage, *applied = n, false
			return n, nil
		}
		*usage, *applied = n+delta, true
		return n + delta, nil
	}
}

// Compile-time checks
var (
	_ outbound.IdentityPort     = (*FirebaseProvider)(nil)
	_ outbound.UsageCounterPort = (*FirebaseProvider)(nil)
)
