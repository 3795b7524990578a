package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartboost/cartboost-backend/pkg/enums"
)

// Shop represents the canonical tenant model, keyed by its myshopify domain.
type Shop struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Domain        string              `gorm:"column:domain;not null;uniqueIndex"`
	AccessToken   string              `gorm:"column:access_token;not null"`
	IsActive      bool                `gorm:"column:is_active;not null;default:true"`
	PlanTier      enums.PlanTier      `gorm:"column:plan_tier;type:plan_tier;not null;default:'free'"`
	BillingStatus enums.BillingStatus `gorm:"column:billing_status;type:billing_status;not null;default:'trial'"`

	// Free-shipping progress bar settings surfaced to the storefront widget.
	ShippingBarEnabled   bool            `gorm:"column:shipping_bar_enabled;not null;default:false"`
	ShippingBarThreshold decimal.Decimal `gorm:"column:shipping_bar_threshold;type:numeric(12,2);not null;default:0"`
	CurrencyCode         string          `gorm:"column:currency_code;not null;default:'USD'"`

	InstalledAt   time.Time  `gorm:"column:installed_at;not null"`
	UninstalledAt *time.Time `gorm:"column:uninstalled_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
