package offers

import (
	"github.com/google/uuid"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
)

// DefaultMaxOffers bounds how many offers one storefront response carries.
const DefaultMaxOffers = 3

// placeholderTitle is shown when a rule's snapshot never captured a title.
const placeholderTitle = "Recommended for you"

// Offer is the client-ready shape rendered by the storefront widget. All
// display data comes from the rule's cached snapshot; Available is asserted
// true because live inventory is not re-validated here.
type Offer struct {
	RuleID         uuid.UUID `json:"ruleId"`
	ProductID      string    `json:"productId"`
	VariantID      string    `json:"variantId"`
	Title          string    `json:"title"`
	Image          *string   `json:"image"`
	Price          string    `json:"price"`
	CompareAtPrice *string   `json:"compareAtPrice"`
	Available      bool      `json:"available"`
}

// Format truncates matched rules to maxOffers (DefaultMaxOffers when
// maxOffers <= 0) and shapes each survivor into an Offer, preserving the
// incoming order. Deterministic and free of side effects.
func Format(matched []models.Rule, maxOffers int) []Offer {
	if maxOffers <= 0 {
		maxOffers = DefaultMaxOffers
	}
	if len(matched) > maxOffers {
		matched = matched[:maxOffers]
	}

	formatted := make([]Offer, 0, len(matched))
	for _, rule := range matched {
		formatted = append(formatted, fromRule(rule))
	}
	return formatted
}

func fromRule(rule models.Rule) Offer {
	offer := Offer{
		RuleID:    rule.ID,
		ProductID: rule.UpsellProductID,
		VariantID: rule.UpsellVariantID,
		Title:     rule.UpsellTitle,
		Image:     rule.UpsellImage,
		Price:     rule.UpsellPrice.StringFixed(2),
		Available: true,
	}
	if offer.VariantID == "" {
		offer.VariantID = rule.UpsellProductID
	}
	if offer.Title == "" {
		offer.Title = placeholderTitle
	}
	if rule.UpsellCompareAtPrice != nil {
		compareAt := rule.UpsellCompareAtPrice.StringFixed(2)
		offer.CompareAtPrice = &compareAt
	}
	return offer
}
