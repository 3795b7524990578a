package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
)

// TrackInput is a storefront event submission.
type TrackInput struct {
	ShopDomain   string
	RuleID       uuid.UUID
	EventType    enums.EventType
	CartToken    string
	SessionID    string
	ProductPrice *decimal.Decimal
}

// TrackResult reports whether the event was recorded. Duplicates are a normal
// outcome of widget re-renders, not an error.
type TrackResult struct {
	Tracked bool   `json:"tracked"`
	Reason  string `json:"reason,omitempty"`
}

// ReasonDuplicate marks an impression already counted for the session.
const ReasonDuplicate = "duplicate"

// SummaryParams bounds a reporting query.
type SummaryParams struct {
	From time.Time
	To   time.Time
}

// RuleSummary is one rule's row in the analytics report.
type RuleSummary struct {
	RuleID         uuid.UUID `json:"rule_id"`
	RuleName       string    `json:"rule_name"`
	IsEnabled      bool      `json:"is_enabled"`
	Impressions    int64     `json:"impressions"`
	Conversions    int64     `json:"conversions"`
	ConversionRate float64   `json:"conversion_rate"`
	Revenue        string    `json:"revenue"`
}

// Summary aggregates a shop's analytics over a window.
type Summary struct {
	Impressions    int64         `json:"impressions"`
	Conversions    int64         `json:"conversions"`
	ConversionRate float64       `json:"conversion_rate"`
	TotalRevenue   string        `json:"total_revenue"`
	PerRule        []RuleSummary `json:"per_rule"`
}

// EventDTO is one raw event row in the admin activity feed.
type EventDTO struct {
	ID           uuid.UUID `json:"id"`
	RuleID       uuid.UUID `json:"rule_id"`
	EventType    string    `json:"event_type"`
	CartToken    *string   `json:"cart_token,omitempty"`
	SessionID    *string   `json:"session_id,omitempty"`
	ProductPrice *string   `json:"product_price,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toEventDTO(event models.AnalyticsEvent) EventDTO {
	dto := EventDTO{
		ID:        event.ID,
		RuleID:    event.RuleID,
		EventType: event.EventType.String(),
		CartToken: event.CartToken,
		SessionID: event.SessionID,
		CreatedAt: event.CreatedAt,
	}
	if event.ProductPrice != nil {
		price := event.ProductPrice.StringFixed(2)
		dto.ProductPrice = &price
	}
	return dto
}
