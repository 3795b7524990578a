package plans

import (
	"fmt"

	"github.com/cartboost/cartboost-backend/pkg/enums"
)

// unlimitedRules stands in for "no practical limit" on paid tiers.
const unlimitedRules = 1000

// Limits carries the feature ceilings attached to a tier.
type Limits struct {
	MaxRules int
}

var limitsByTier = map[enums.PlanTier]Limits{
	enums.PlanTierFree:    {MaxRules: 1},
	enums.PlanTierStarter: {MaxRules: unlimitedRules},
	enums.PlanTierPro:     {MaxRules: unlimitedRules},
}

// LimitsFor returns the limits for a tier, defaulting unknown tiers to free.
func LimitsFor(tier enums.PlanTier) Limits {
	if limits, ok := limitsByTier[tier]; ok {
		return limits
	}
	return limitsByTier[enums.PlanTierFree]
}

// Decision is the outcome of a gate check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// CanCreateRule decides whether a shop on the given tier may enable another
// rule given how many it already has active.
func CanCreateRule(tier enums.PlanTier, activeRuleCount int) Decision {
	limits := LimitsFor(tier)
	if activeRuleCount >= limits.MaxRules {
		return Decision{
			Allowed: false,
			Reason: fmt.Sprintf("The %s plan allows up to %d active rule(s). Upgrade to add more.",
				tier.DisplayName(), limits.MaxRules),
		}
	}
	return Decision{Allowed: true}
}
