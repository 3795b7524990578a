package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartboost/cartboost-backend/pkg/enums"
)

// Rule maps a cart trigger to the upsell product a shop wants to offer.
// Exactly one of TriggerProductID / TriggerCollectionID is set, matching
// TriggerType; the upsell columns carry a display snapshot captured when the
// rule was created or last edited, not live platform data.
type Rule struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID    uuid.UUID         `gorm:"column:shop_id;type:uuid;not null;index:idx_rules_shop_enabled_priority,priority:1"`
	Name      string            `gorm:"column:name;not null"`
	IsEnabled bool              `gorm:"column:is_enabled;not null;default:true;index:idx_rules_shop_enabled_priority,priority:2"`

	TriggerType         enums.TriggerType `gorm:"column:trigger_type;type:trigger_type;not null"`
	TriggerProductID    *string           `gorm:"column:trigger_product_id"`
	TriggerCollectionID *string           `gorm:"column:trigger_collection_id"`

	UpsellProductID string `gorm:"column:upsell_product_id;not null"`
	UpsellVariantID string `gorm:"column:upsell_variant_id;not null"`

	UpsellTitle          string           `gorm:"column:upsell_title;not null;default:''"`
	UpsellImage          *string          `gorm:"column:upsell_image"`
	UpsellPrice          decimal.Decimal  `gorm:"column:upsell_price;type:numeric(12,2);not null;default:0"`
	UpsellCompareAtPrice *decimal.Decimal `gorm:"column:upsell_compare_at_price;type:numeric(12,2)"`

	Priority  int       `gorm:"column:priority;not null;default:0;index:idx_rules_shop_enabled_priority,priority:3"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
