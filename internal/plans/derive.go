package plans

import (
	"context"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/shopify"
)

// Deriver resolves a shop's effective tier from the billing provider's live
// state. The persisted shop.PlanTier is a display cache only; gating never
// trusts it, so a cancellation the stored record hasn't caught up with can't
// leak paid features.
type Deriver struct {
	billing shopify.BillingAPI
}

// NewDeriver builds a tier deriver over the billing API.
func NewDeriver(billing shopify.BillingAPI) (*Deriver, error) {
	if billing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "billing api is required")
	}
	return &Deriver{billing: billing}, nil
}

// DeriveTier returns the shop's effective tier: pro when an active recurring
// charge with a positive price exists, free otherwise.
func (d *Deriver) DeriveTier(ctx context.Context, shop *models.Shop) (enums.PlanTier, error) {
	if shop == nil {
		return enums.PlanTierFree, pkgerrors.New(pkgerrors.CodeValidation, "shop is required")
	}

	charges, err := d.billing.ListRecurringCharges(ctx, shop.Domain, shop.AccessToken)
	if err != nil {
		return enums.PlanTierFree, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recurring charges")
	}

	for _, charge := range charges {
		if charge.Status == shopify.ChargeStatusActive && charge.Price.IsPositive() {
			return enums.PlanTierPro, nil
		}
	}
	return enums.PlanTierFree, nil
}
