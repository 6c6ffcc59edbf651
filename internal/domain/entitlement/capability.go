package entitlement

import (
	"fmt"

	"github.com/quickai/server/internal/model"
)

// Capability is a metered generative operation.
type Capability string

const (
	CapabilityArticle          Capability = "article"
	CapabilityBlogTitle        Capability = "blog-title"
	CapabilityImage            Capability = "image"
	CapabilityRemoveBackground Capability = "remove-background"
	CapabilityRemoveObject     Capability = "remove-object"
	CapabilityResumeReview     Capability = "resume-review"
)

// Capabilities lists every capability.
func Capabilities() []Capability {
	return []Capability{
		CapabilityArticle,
		CapabilityBlogTitle,
		CapabilityImage,
		CapabilityRemoveBackground,
		CapabilityRemoveObject,
		CapabilityResumeReview,
	}
}

// ParseCapability converts a name into a Capability.
func ParseCapability(name string) (Capability, error) {
	c := Capability(name)
	if _, ok := defaultPolicy(c); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCapability, name)
	}
	return c, nil
}

// Policy is the static metering data attached to a capability.
type Policy struct {
	Capability      Capability
	CreationType    model.CreationType
	Cost            int64
	PremiumRequired bool
}

// defaultPolicy is the single exhaustive capability mapping.
func defaultPolicy(c Capability) (Policy, bool) {
	switch c {
	case CapabilityArticle:
		return Policy{Capability: c, CreationType: model.CreationTypeArticle, Cost: 1}, true
	case CapabilityBlogTitle:
		return Policy{Capability: c, CreationType: model.CreationTypeBlogTitle, Cost: 1}, true
	case CapabilityImage:
		return Policy{Capability: c, CreationType: model.CreationTypeImage, Cost: 1, PremiumRequired: true}, true
	case CapabilityRemoveBackground:
		return Policy{Capability: c, CreationType: model.CreationTypeImage, Cost: 1, PremiumRequired: true}, true
	case CapabilityRemoveObject:
		return Policy{Capability: c, CreationType: model.CreationTypeImage, Cost: 1, PremiumRequired: true}, true
	case CapabilityResumeReview:
		return Policy{Capability: c, CreationType: model.CreationTypeResumeReview, Cost: 1, PremiumRequired: true}, true
	}
	return Policy{}, false
}

// PolicyOverride replaces the configurable parts of a default policy.
// Zero Cost and nil PremiumRequired keep the default.
type PolicyOverride struct {
	Cost            int64
	PremiumRequired *bool
}

// Catalog resolves capabilities to their policies.
type Catalog struct {
	policies map[Capability]Policy
}

// NewCatalog builds a catalog from the defaults plus overrides keyed by
// capability name. Unknown names are rejected.
func NewCatalog(overrides map[string]PolicyOverride) (*Catalog, error) {
	policies := make(map[Capability]Policy, len(Capabilities()))
	for _, c := range Capabilities() {
		p, _ := defaultPolicy(c)
		policies[c] = p
	}
	for name, o := range overrides {
		c, err := ParseCapability(name)
		if err != nil {
			return nil, err
		}
		if o.Cost < 0 {
			return nil, fmt.Errorf("capability %s: negative cost %d", name, o.Cost)
		}
		p := policies[c]
		if o.Cost > 0 {
			p.Cost = o.Cost
		}
		if o.PremiumRequired != nil {
			p.PremiumRequired = *o.PremiumRequired
		}
		policies[c] = p
	}
	return &Catalog{policies: policies}, nil
}

// Policy returns the policy for c.
func (k *Catalog) Policy(c Capability) (Policy, error) {
	p, ok := k.policies[c]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownCapability, string(c))
	}
	return p, nil
}
