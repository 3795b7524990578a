package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
)

// Repository encapsulates analytics event persistence and aggregation.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an analytics repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends an event row. A unique violation from the impression dedup
// index surfaces as-is; the service translates it to a duplicate outcome.
func (r *Repository) Insert(ctx context.Context, event *models.AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// HasImpression reports whether the session already produced an impression
// for the rule.
func (r *Repository) HasImpression(ctx context.Context, ruleID uuid.UUID, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AnalyticsEvent{}).
		Where("rule_id = ? AND session_id = ? AND event_type = ?", ruleID, sessionID, enums.EventTypeImpression).
		Count(&count).
		Error
	return count > 0, err
}

// ruleAggregateRow is the per-rule scan target for Aggregate.
type ruleAggregateRow struct {
	RuleID      uuid.UUID
	RuleName    string
	IsEnabled   bool
	Impressions int64
	Conversions int64
	Revenue     decimal.Decimal
}

// Aggregate returns per-rule impression/conversion counts and conversion
// revenue for the shop within [from, to). Conversions with no recorded price
// contribute zero revenue.
func (r *Repository) Aggregate(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]ruleAggregateRow, error) {
	var rows []ruleAggregateRow
	err := r.db.WithContext(ctx).
		Table("analytics_events e").
		Select(`e.rule_id AS rule_id,
r.name AS rule_name,
r.is_enabled AS is_enabled,
COUNT(*) FILTER (WHERE e.event_type = 'impression') AS impressions,
COUNT(*) FILTER (WHERE e.event_type = 'conversion') AS conversions,
COALESCE(SUM(e.product_price) FILTER (WHERE e.event_type = 'conversion'), 0) AS revenue`).
		Joins("JOIN rules r ON r.id = e.rule_id").
		Where("e.shop_id = ? AND e.created_at >= ? AND e.created_at < ?", shopID, from, to).
		Group("e.rule_id, r.name, r.is_enabled").
		Order("impressions DESC").
		Scan(&rows).
		Error
	return rows, err
}

// ListByShop returns raw events for a shop within the window, newest first.
func (r *Repository) ListByShop(ctx context.Context, shopID uuid.UUID, from, to time.Time, limit int) ([]models.AnalyticsEvent, error) {
	var events []models.AnalyticsEvent
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND created_at >= ? AND created_at < ?", shopID, from, to).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).
		Error
	return events, err
}
