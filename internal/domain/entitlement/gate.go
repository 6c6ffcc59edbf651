package entitlement

// DefaultFreeLimit is the number of metered units a free user may consume.
const DefaultFreeLimit int64 = 10

// Reason explains a denial.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonLimitReached    Reason = "limit reached"
	ReasonPremiumRequired Reason = "premium required"
)

// GateRequest is the input of a gate decision.
type GateRequest struct {
	IsPremium       bool
	FreeUsage       int64
	Cost            int64
	PremiumRequired bool
}

// Decision is the outcome of a gate decision. Delta is the amount the
// caller commits after the guarded operation succeeds.
type Decision struct {
	Allowed bool
	Reason  Reason
	Delta   int64
}

// Gate is the quota decision function. It performs no I/O.
type Gate struct {
	freeLimit int64
}

// NewGate creates a gate with the given free limit.
func NewGate(freeLimit int64) *Gate {
	if freeLimit <= 0 {
		freeLimit = DefaultFreeLimit
	}
	return &Gate{freeLimit: freeLimit}
}

// FreeLimit returns the configured free limit.
func (g *Gate) FreeLimit() int64 {
	return g.freeLimit
}

// Decide allows premium users unconditionally, denies premium-only
// capabilities to everyone else, then meters free users by counter.
func (g *Gate) Decide(req GateRequest) Decision {
	if req.IsPremium {
		return Decision{Allowed: true}
	}
	if req.PremiumRequired {
		return Decision{Reason: ReasonPremiumRequired}
	}
	if req.FreeUsage >= g.freeLimit {
		return Decision{Reason: ReasonLimitReached}
	}
	return Decision{Allowed: true, Delta: req.Cost}
}
