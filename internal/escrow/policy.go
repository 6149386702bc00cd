package escrow

import (
	"fmt"
	"strings"
)

// PolicyType names a redistribution policy
type PolicyType string

const (
	PolicyRemaining     PolicyType = "REMAINING"
	PolicyPlatformShare PolicyType = "PLATFORM_SHARE"
)

// RedistributionPolicy decides how an expelled participant's deposit is
// divided between the remaining participants and the platform.
//
// Split must satisfy share*remaining + platformCut == amount with
// share >= 0 and platformCut >= 0, using integer arithmetic only.
type RedistributionPolicy interface {
	// Split computes the per-participant share and the platform's cut
	Split(amount int64, remaining int) (share, platformCut int64)

	// Type returns the identifier for this policy
	Type() PolicyType
}

// =============================================================================
// REMAINING
// Divides among the remaining participants; the platform keeps only the
// truncation remainder.
// =============================================================================

// RemainingPolicy implements RedistributionPolicy for the remaining-headcount split
type RemainingPolicy struct{}

// Type returns the policy identifier
func (p *RemainingPolicy) Type() PolicyType {
	return PolicyRemaining
}

// Split divides amount by the remaining headcount
func (p *RemainingPolicy) Split(amount int64, remaining int) (int64, int64) {
	if remaining <= 0 {
		return 0, amount
	}
	share := amount / int64(remaining)
	return share, amount - share*int64(remaining)
}

// =============================================================================
// PLATFORM_SHARE
// The platform counts as one more head and keeps its share plus the
// truncation remainder.
// =============================================================================

// PlatformSharePolicy implements RedistributionPolicy with the platform as a participant
type PlatformSharePolicy struct{}

// Type returns the policy identifier
func (p *PlatformSharePolicy) Type() PolicyType {
	return PolicyPlatformShare
}

// Split divides amount by the remaining headcount plus one
func (p *PlatformSharePolicy) Split(amount int64, remaining int) (int64, int64) {
	if remaining <= 0 {
		return 0, amount
	}
	share := amount / int64(remaining+1)
	return share, amount - share*int64(remaining)
}

// PolicyFactory creates redistribution policies by type
type PolicyFactory struct{}

// NewPolicyFactory creates a new factory instance
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// Create returns the policy implementation for the given type
func (f *PolicyFactory) Create(policyType PolicyType) (RedistributionPolicy, error) {
	switch policyType {
	case PolicyRemaining:
		return &RemainingPolicy{}, nil
	case PolicyPlatformShare:
		return &PlatformSharePolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown redistribution policy: %s", policyType)
	}
}

// CreateFromString accepts the configuration spelling, e.g. "platform-share"
func (f *PolicyFactory) CreateFromString(policyType string) (RedistributionPolicy, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(policyType), "-", "_"))
	return f.Create(PolicyType(normalized))
}
