package enums

import "fmt"

// PlanTier is the subscription tier a shop is on.
type PlanTier string

const (
	PlanTierFree    PlanTier = "free"
	PlanTierStarter PlanTier = "starter"
	PlanTierPro     PlanTier = "pro"
)

var validPlanTiers = []PlanTier{
	PlanTierFree,
	PlanTierStarter,
	PlanTierPro,
}

// String implements fmt.Stringer.
func (p PlanTier) String() string {
	return string(p)
}

// DisplayName returns the merchant-facing tier name.
func (p PlanTier) DisplayName() string {
	switch p {
	case PlanTierFree:
		return "Free"
	case PlanTierStarter:
		return "Starter"
	case PlanTierPro:
		return "Pro"
	}
	return string(p)
}

// IsValid reports whether the value is known.
func (p PlanTier) IsValid() bool {
	for _, candidate := range validPlanTiers {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsPaid reports whether the tier is a paid tier.
func (p PlanTier) IsPaid() bool {
	return p == PlanTierStarter || p == PlanTierPro
}

// ParsePlanTier converts raw input into a PlanTier.
func ParsePlanTier(value string) (PlanTier, error) {
	for _, candidate := range validPlanTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan tier %q", value)
}
