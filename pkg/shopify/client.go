package shopify

import (
	"context"
	"fmt"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/shopspring/decimal"

	"github.com/cartboost/cartboost-backend/pkg/config"
	"github.com/cartboost/cartboost-backend/pkg/logger"
)

// Client adapts the go-shopify SDK to the narrow ports the app consumes.
// A fresh SDK client is built per call since each tenant carries its own
// domain and access token.
type Client struct {
	app  goshopify.App
	logg *logger.Logger
}

var _ ProductAPI = (*Client)(nil)
var _ BillingAPI = (*Client)(nil)

// NewClient builds a platform API adapter from app credentials.
func NewClient(cfg config.ShopifyConfig, logg *logger.Logger) *Client {
	return &Client{
		app: goshopify.App{
			ApiKey:    cfg.APIKey,
			ApiSecret: cfg.APISecret,
			Scope:     cfg.Scopes,
		},
		logg: logg,
	}
}

func (c *Client) sdkClient(shopDomain, accessToken string) (*goshopify.Client, error) {
	client, err := goshopify.NewClient(c.app, shopDomain, accessToken)
	if err != nil {
		return nil, fmt.Errorf("creating shopify client: %w", err)
	}
	return client, nil
}

// GetProduct fetches a product and flattens it into a display snapshot.
func (c *Client) GetProduct(ctx context.Context, shopDomain, accessToken string, productID int64) (*ProductSnapshot, error) {
	client, err := c.sdkClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	product, err := client.Product.Get(ctx, uint64(productID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching product %d: %w", productID, err)
	}

	return snapshotFromProduct(product), nil
}

func snapshotFromProduct(product *goshopify.Product) *ProductSnapshot {
	snapshot := &ProductSnapshot{
		ProductID: int64(product.Id),
		Title:     product.Title,
	}
	if product.Image.Src != "" {
		src := product.Image.Src
		snapshot.Image = &src
	} else if len(product.Images) > 0 && product.Images[0].Src != "" {
		src := product.Images[0].Src
		snapshot.Image = &src
	}
	if len(product.Variants) > 0 {
		first := product.Variants[0]
		snapshot.VariantID = int64(first.Id)
		if first.Price != nil {
			snapshot.Price = *first.Price
		}
		if first.CompareAtPrice != nil && first.CompareAtPrice.IsPositive() {
			compareAt := *first.CompareAtPrice
			snapshot.CompareAtPrice = &compareAt
		}
	}
	return snapshot
}

// ProductInCollection reports whether productID belongs to collectionID.
func (c *Client) ProductInCollection(ctx context.Context, shopDomain, accessToken string, collectionID, productID int64) (bool, error) {
	client, err := c.sdkClient(shopDomain, accessToken)
	if err != nil {
		return false, err
	}

	products, err := client.Collection.ListProducts(ctx, uint64(collectionID), nil)
	if err != nil {
		return false, fmt.Errorf("listing products of collection %d: %w", collectionID, err)
	}
	for _, product := range products {
		if int64(product.Id) == productID {
			return true, nil
		}
	}
	return false, nil
}

// CreateRecurringCharge opens a recurring application charge; the merchant
// must visit the returned confirmation URL to accept it.
func (c *Client) CreateRecurringCharge(ctx context.Context, shopDomain, accessToken string, params RecurringChargeParams) (*RecurringCharge, error) {
	client, err := c.sdkClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	price := params.Price
	test := params.Test
	charge := goshopify.RecurringApplicationCharge{
		Name:      params.Name,
		Price:     &price,
		ReturnURL: params.ReturnURL,
		Test:      &test,
		TrialDays: params.TrialDays,
	}

	created, err := client.RecurringApplicationCharge.Create(ctx, charge)
	if err != nil {
		return nil, fmt.Errorf("creating recurring charge: %w", err)
	}
	return convertCharge(created), nil
}

// ListRecurringCharges returns every recurring charge the shop holds with
// this app, newest state included.
func (c *Client) ListRecurringCharges(ctx context.Context, shopDomain, accessToken string) ([]RecurringCharge, error) {
	client, err := c.sdkClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	charges, err := client.RecurringApplicationCharge.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing recurring charges: %w", err)
	}
	result := make([]RecurringCharge, 0, len(charges))
	for i := range charges {
		result = append(result, *convertCharge(&charges[i]))
	}
	return result, nil
}

// CancelRecurringCharge cancels the charge immediately.
func (c *Client) CancelRecurringCharge(ctx context.Context, shopDomain, accessToken string, chargeID uint64) error {
	client, err := c.sdkClient(shopDomain, accessToken)
	if err != nil {
		return err
	}

	if err := client.RecurringApplicationCharge.Delete(ctx, chargeID); err != nil {
		return fmt.Errorf("cancelling recurring charge %d: %w", chargeID, err)
	}
	return nil
}

func convertCharge(charge *goshopify.RecurringApplicationCharge) *RecurringCharge {
	if charge == nil {
		return nil
	}
	converted := &RecurringCharge{
		ID:              charge.Id,
		Name:            charge.Name,
		Status:          charge.Status,
		ConfirmationURL: charge.ConfirmationURL,
	}
	if charge.Price != nil {
		converted.Price = *charge.Price
	} else {
		converted.Price = decimal.Zero
	}
	return converted
}
