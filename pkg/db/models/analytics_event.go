package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartboost/cartboost-backend/pkg/enums"
)

// AnalyticsEvent is an append-only record of an offer impression or
// conversion reported by the storefront widget. ProductPrice is populated
// only for conversions.
type AnalyticsEvent struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID       uuid.UUID        `gorm:"column:shop_id;type:uuid;not null;index"`
	RuleID       uuid.UUID        `gorm:"column:rule_id;type:uuid;not null;index"`
	EventType    enums.EventType  `gorm:"column:event_type;type:event_type;not null"`
	CartToken    *string          `gorm:"column:cart_token"`
	SessionID    *string          `gorm:"column:session_id"`
	ProductPrice *decimal.Decimal `gorm:"column:product_price;type:numeric(12,2)"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
}
