package generation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/quickai/server/internal/domain/entitlement"
	"github.com/quickai/server/internal/port/inbound"
	"github.com/quickai/server/internal/shared/metrics"
)

// Generation outcomes recorded in metrics.
const (
	outcomeSuccess         = "success"
	outcomeUnauthenticated = "unauthenticated"
	outcomeInvalid         = "invalid"
	outcomeDenied          = "denied"
	outcomeProviderError   = "provider_error"
	outcomeNotSaved        = "not_saved"
	outcomeUsageNotSaved   = "usage_not_saved"
)

// Plan names reported by Usage.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Domain runs the metered generation pipeline.
type Domain struct {
	resolver  *entitlement.Resolver
	catalog   *entitlement.Catalog
	gate      *entitlement.Gate
	committer *entitlement.Committer
	invoker   *Invoker
	ledger    inbound.CreationDomain
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewGenerationDomain creates a new generation domain.
func NewGenerationDomain(
	resolver *entitlement.Resolver,
	catalog *entitlement.Catalog,
	gate *entitlement.Gate,
	committer *entitlement.Committer,
	invoker *Invoker,
	ledger inbound.CreationDomain,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Domain {
	return &Domain{
		resolver:  resolver,
		catalog:   catalog,
		gate:      gate,
		committer: committer,
		invoker:   invoker,
		ledger:    ledger,
		metrics:   m,
		logger:    logger,
	}
}

// Generate runs one capability for the credential's owner. The provider is
// only called when the gate allows; usage is only committed when the
// result was recorded.
func (d *Domain) Generate(ctx context.Context, credential string, in *inbound.GenerationInput) (*inbound.GenerationOutput, error) {
	capability, err := entitlement.ParseCapability(in.Capability)
	if err != nil {
		return nil, err
	}
	name := string(capability)

	snap, err := d.resolver.Resolve(ctx, credential)
	if err != nil {
		d.metrics.RecordGeneration(name, outcomeUnauthenticated)
		return nil, err
	}
	log := d.logger.With(zap.String("user_id", snap.UserID), zap.String("capability", name))

	policy, err := d.catalog.Policy(capability)
	if err != nil {
		return nil, err
	}

	job, err := d.invoker.Prepare(ctx, capability, in)
	if err != nil {
		d.metrics.RecordGeneration(name, outcomeInvalid)
		return nil, err
	}

	decision := d.gate.Decide(entitlement.GateRequest{
		IsPremium:       snap.IsPremium,
		FreeUsage:       snap.FreeUsage,
		Cost:            policy.Cost,
		PremiumRequired: policy.PremiumRequired,
	})
	if !decision.Allowed {
		d.metrics.RecordGateDecision(name, string(decision.Reason))
		d.metrics.RecordGeneration(name, outcomeDenied)
		log.Info("generation denied", zap.String("reason", string(decision.Reason)), zap.Int64("free_usage", snap.FreeUsage))
		return nil, denial(decision.Reason)
	}
	d.metrics.RecordGateDecision(name, "allowed")

	content, err := d.invoker.Invoke(ctx, snap.UserID, job)
	if err != nil {
		d.metrics.RecordGeneration(name, outcomeProviderError)
		log.Error("generation failed", zap.Error(err))
		return nil, err
	}

	out := &inbound.GenerationOutput{
		Content:   content,
		IsPremium: snap.IsPremium,
		FreeUsage: snap.FreeUsage,
	}

	creation, err := d.ledger.Append(ctx, inbound.CreationAppendInput{
		UserID:  snap.UserID,
		Prompt:  job.label,
		Content: content,
		Type:    policy.CreationType,
		Publish: job.publish,
	})
	if err != nil {
		// The provider was paid for; hand the content back without metering.
		d.metrics.RecordGeneration(name, outcomeNotSaved)
		log.Warn("generation not recorded", zap.Error(err))
		out.Warning = WarningNotSaved
		return out, nil
	}
	out.Creation = creation

	usage, err := d.committer.Commit(ctx, snap.UserID, snap.IsPremium, snap.FreeUsage, decision.Delta)
	switch {
	case err == nil:
		out.FreeUsage = usage
		d.metrics.RecordUsageCommit(commitResult(snap.IsPremium, decision.Delta))
	case errors.Is(err, entitlement.ErrUsageCeiling):
		// A concurrent request consumed the last unit; the counter already
		// sits at the limit.
		out.FreeUsage = usage
		d.metrics.RecordUsageCommit("ceiling")
		log.Warn("usage commit refused at ceiling", zap.Error(err))
	default:
		d.metrics.RecordUsageCommit("error")
		d.metrics.RecordGeneration(name, outcomeUsageNotSaved)
		log.Warn("usage commit failed", zap.Error(err))
		out.Warning = WarningUsageNotSaved
		return out, nil
	}

	d.metrics.RecordGeneration(name, outcomeSuccess)
	log.Debug("generation served", zap.String("creation_id", creation.ID.String()), zap.Int64("free_usage", out.FreeUsage))
	return out, nil
}

func commitResult(isPremium bool, delta int64) string {
	if isPremium || delta <= 0 {
		return "skipped"
	}
	return "applied"
}

// Usage returns the user's current entitlement.
func (d *Domain) Usage(ctx context.Context, userID string) (*inbound.UsageOutput, error) {
	snap, err := d.resolver.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve usage: %w", err)
	}

	out := &inbound.UsageOutput{
		Plan:      PlanFree,
		FreeUsage: snap.FreeUsage,
		FreeLimit: d.gate.FreeLimit(),
	}
	if snap.IsPremium {
		out.Plan = PlanPremium
	}
	if remaining := out.FreeLimit - out.FreeUsage; remaining > 0 {
		out.Remaining = remaining
	}
	return out, nil
}

// Compile-time check
var _ inbound.GenerationDomain = (*Domain)(nil)
