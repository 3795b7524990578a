package shopify

import "github.com/shopspring/decimal"

// ProductSnapshot is the display data captured from a product lookup.
// Price fields come from the product's first variant.
type ProductSnapshot struct {
	ProductID      int64
	Title          string
	Image          *string
	VariantID      int64
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
}

// RecurringChargeParams describes a new recurring application charge.
type RecurringChargeParams struct {
	Name      string
	Price     decimal.Decimal
	ReturnURL string
	Test      bool
	TrialDays int
}

// RecurringCharge is the subset of the platform's recurring application
// charge object consumed by billing and the plan gate.
type RecurringCharge struct {
	ID              uint64
	Name            string
	Price           decimal.Decimal
	Status          string
	ConfirmationURL string
}

// ChargeStatusActive is the platform's status value for a live charge.
const ChargeStatusActive = "active"
