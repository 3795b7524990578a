package shopify

import "context"

// ProductAPI is the slice of the platform admin API the app depends on:
// product snapshots for rule creation and collection membership for matching.
// Implementations are synchronous; callers treat failures as "no data".
type ProductAPI interface {
	GetProduct(ctx context.Context, shopDomain, accessToken string, productID int64) (*ProductSnapshot, error)
	ProductInCollection(ctx context.Context, shopDomain, accessToken string, collectionID, productID int64) (bool, error)
}

// BillingAPI is the slice of the platform billing API consumed by the
// subscription service and the plan gate.
type BillingAPI interface {
	CreateRecurringCharge(ctx context.Context, shopDomain, accessToken string, params RecurringChargeParams) (*RecurringCharge, error)
	ListRecurringCharges(ctx context.Context, shopDomain, accessToken string) ([]RecurringCharge, error)
	CancelRecurringCharge(ctx context.Context, shopDomain, accessToken string, chargeID uint64) error
}
