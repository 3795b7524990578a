package shops

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
)

// Repository encapsulates shop persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shop repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a shop by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindByDomain loads a shop by its myshopify domain.
func (r *Repository) FindByDomain(ctx context.Context, domain string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "domain = ?", domain).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// Upsert creates the shop on first install or refreshes its credential and
// reactivates it on a later login. The domain is the conflict key.
func (r *Repository) Upsert(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "domain"}},
			DoUpdates: clause.Assignments(map[string]any{
				"access_token":   shop.AccessToken,
				"is_active":      true,
				"uninstalled_at": nil,
			}),
		}).
		Create(shop).
		Error
}

// MarkUninstalled records the uninstall timestamp and deactivates the shop.
// The row is kept; analytics history survives an uninstall.
func (r *Repository) MarkUninstalled(ctx context.Context, domain string) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("domain = ?", domain).
		Updates(map[string]any{
			"is_active":      false,
			"uninstalled_at": time.Now().UTC(),
			"billing_status": enums.BillingStatusCancelled,
			"plan_tier":      enums.PlanTierFree,
		}).
		Error
}

// UpdateShippingBar persists the free-shipping progress bar settings.
func (r *Repository) UpdateShippingBar(ctx context.Context, shopID uuid.UUID, enabled bool, threshold decimal.Decimal, currency string) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		Updates(map[string]any{
			"shipping_bar_enabled":   enabled,
			"shipping_bar_threshold": threshold,
			"currency_code":          currency,
		}).
		Error
}

// UpdatePlan stores the latest derived tier and billing status.
func (r *Repository) UpdatePlan(ctx context.Context, shopID uuid.UUID, tier enums.PlanTier, status enums.BillingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		Updates(map[string]any{
			"plan_tier":      tier,
			"billing_status": status,
		}).
		Error
}
