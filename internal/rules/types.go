package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
)

// CreateRuleInput captures the admin payload for a new rule.
type CreateRuleInput struct {
	Name                string
	TriggerType         enums.TriggerType
	TriggerProductID    string
	TriggerCollectionID string
	UpsellProductID     string
	UpsellVariantID     string
	Priority            int
}

// UpdateRuleInput carries partial edits; nil fields are left untouched.
type UpdateRuleInput struct {
	Name                *string
	TriggerType         *enums.TriggerType
	TriggerProductID    *string
	TriggerCollectionID *string
	UpsellProductID     *string
	UpsellVariantID     *string
	Priority            *int
}

// ListRulesParams filters the admin rule list.
type ListRulesParams struct {
	Query   string
	Enabled *bool
}

// RuleDTO is the admin-facing projection of a rule.
type RuleDTO struct {
	ID                  uuid.UUID         `json:"id"`
	Name                string            `json:"name"`
	IsEnabled           bool              `json:"is_enabled"`
	TriggerType         enums.TriggerType `json:"trigger_type"`
	TriggerProductID    *string           `json:"trigger_product_id,omitempty"`
	TriggerCollectionID *string           `json:"trigger_collection_id,omitempty"`
	UpsellProductID     string            `json:"upsell_product_id"`
	UpsellVariantID     string            `json:"upsell_variant_id"`
	UpsellTitle         string            `json:"upsell_title"`
	UpsellImage         *string           `json:"upsell_image,omitempty"`
	UpsellPrice         string            `json:"upsell_price"`
	UpsellCompareAt     *string           `json:"upsell_compare_at_price,omitempty"`
	Priority            int               `json:"priority"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// ToDTO shapes a model row for the admin API.
func ToDTO(rule models.Rule) RuleDTO {
	dto := RuleDTO{
		ID:                  rule.ID,
		Name:                rule.Name,
		IsEnabled:           rule.IsEnabled,
		TriggerType:         rule.TriggerType,
		TriggerProductID:    rule.TriggerProductID,
		TriggerCollectionID: rule.TriggerCollectionID,
		UpsellProductID:     rule.UpsellProductID,
		UpsellVariantID:     rule.UpsellVariantID,
		UpsellTitle:         rule.UpsellTitle,
		UpsellImage:         rule.UpsellImage,
		UpsellPrice:         rule.UpsellPrice.StringFixed(2),
		Priority:            rule.Priority,
		CreatedAt:           rule.CreatedAt,
		UpdatedAt:           rule.UpdatedAt,
	}
	if rule.UpsellCompareAtPrice != nil {
		compareAt := rule.UpsellCompareAtPrice.StringFixed(2)
		dto.UpsellCompareAt = &compareAt
	}
	return dto
}
