package billing

import "github.com/cartboost/cartboost-backend/pkg/enums"

// UpgradeResult carries the merchant-facing confirmation redirect for a
// pending recurring charge.
type UpgradeResult struct {
	ConfirmationURL string `json:"confirmation_url"`
	ChargeID        uint64 `json:"charge_id"`
}

// Status is the admin billing summary: the live tier derived from the billing
// provider plus the plan's pricing for display.
type Status struct {
	Tier          enums.PlanTier      `json:"tier"`
	TierName      string              `json:"tier_name"`
	BillingStatus enums.BillingStatus `json:"billing_status"`
	ChargeName    string              `json:"charge_name"`
	Price         string              `json:"price"`
	MaxRules      int                 `json:"max_rules"`
}
