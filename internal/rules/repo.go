package rules

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
)

// Repository encapsulates rule persistence. Every lookup is scoped by shop so
// a rule id from another tenant behaves like a missing row.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rule repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new rule row.
func (r *Repository) Create(ctx context.Context, rule *models.Rule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// FindByID fetches a single rule belonging to the given shop.
func (r *Repository) FindByID(ctx context.Context, shopID, ruleID uuid.UUID) (models.Rule, error) {
	var rule models.Rule
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, ruleID).
		First(&rule).
		Error
	return rule, err
}

// List returns the shop's rules for the admin screen, optionally filtered by
// a case-insensitive name search and enabled state. Ordered by priority so
// the list mirrors the evaluation order the storefront sees.
func (r *Repository) List(ctx context.Context, shopID uuid.UUID, params ListRulesParams) ([]models.Rule, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Rule{}).
		Where("shop_id = ?", shopID)

	if trimmed := strings.TrimSpace(params.Query); trimmed != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}
	if params.Enabled != nil {
		query = query.Where("is_enabled = ?", *params.Enabled)
	}

	var rules []models.Rule
	err := query.
		Order("priority ASC").
		Order("created_at ASC").
		Find(&rules).
		Error
	return rules, err
}

// ListEnabledOrdered returns the shop's enabled rules in evaluation order:
// priority ascending, then creation time as the tie-break.
func (r *Repository) ListEnabledOrdered(ctx context.Context, shopID uuid.UUID) ([]models.Rule, error) {
	var rules []models.Rule
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND is_enabled = ?", shopID, true).
		Order("priority ASC").
		Order("created_at ASC").
		Find(&rules).
		Error
	return rules, err
}

// CountEnabled counts the shop's enabled rules for the plan gate.
func (r *Repository) CountEnabled(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rule{}).
		Where("shop_id = ? AND is_enabled = ?", shopID, true).
		Count(&count).
		Error
	return count, err
}

// Update persists the full rule row.
func (r *Repository) Update(ctx context.Context, rule *models.Rule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// SetEnabled flips a rule's enabled flag. Returns gorm.ErrRecordNotFound when
// the rule does not exist for the shop.
func (r *Repository) SetEnabled(ctx context.Context, shopID, ruleID uuid.UUID, enabled bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Rule{}).
		Where("shop_id = ? AND id = ?", shopID, ruleID).
		Update("is_enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a rule. Returns gorm.ErrRecordNotFound when nothing matched.
func (r *Repository) Delete(ctx context.Context, shopID, ruleID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, ruleID).
		Delete(&models.Rule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
