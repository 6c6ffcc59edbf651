package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quickai/server/internal/port/outbound"
)

// LocalConfig holds settings of the built-in identity provider.
type LocalConfig struct {
	Secret string
	Issuer string
}

// LocalProvider verifies HS256 session tokens and keeps plans and
// metadata in the accounts table.
type LocalProvider struct {
	secret   []byte
	issuer   string
	accounts outbound.AccountDatabasePort
}

// NewLocalProvider creates a local identity provider.
func NewLocalProvider(cfg LocalConfig, accounts outbound.AccountDatabasePort) *LocalProvider {
	return &LocalProvider{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		accounts: accounts,
	}
}

// IssueToken signs a session token for userID valid for ttl.
func (p *LocalProvider) IssueToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    p.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (p *LocalProvider) VerifyCredential(_ context.Context, token string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", outbound.ErrInvalidCredential, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", outbound.ErrInvalidCredential)
	}
	return claims.Subject, nil
}

func (p *LocalProvider) HasEntitlement(ctx context.Context, userID, plan string) (bool, error) {
	acc, err := p.accounts.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return acc != nil && acc.Plan == plan, nil
}

func (p *LocalProvider) GetMetadata(ctx context.Context, userID string) (map[string]any, error) {
	acc, err := p.accounts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if acc == nil {
		return out, nil
	}
	for k, v := range acc.Metadata {
		out[k] = v
	}
	if acc.FreeUsage != nil {
		out[freeUsageKey] = *acc.FreeUsage
	}
	return out, nil
}

func (p *LocalProvider) SetMetadata(ctx context.Context, userID string, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	return p.accounts.MergeMetadata(ctx, userID, values)
}

func (p *LocalProvider) IncrementUsage(ctx context.Context, userID string, delta, ceiling int64) (int64, bool, error) {
	if delta <= 0 {
		return 0, false, errors.New("usage delta must be positive")
	}
	return p.accounts.IncrementUsage(ctx, userID, delta, ceiling)
}

// SetPlan assigns a plan to a user.
func (p *LocalProvider) SetPlan(ctx context.Context, userID, plan string) error {
	return p.accounts.SetPlan(ctx, userID, plan)
}

const freeUsageKey = "free_usage"

// Compile-time checks
var (
	_ outbound.IdentityPort     = (*LocalProvider)(nil)
	_ outbound.UsageCounterPort = (*LocalProvider)(nil)
)
