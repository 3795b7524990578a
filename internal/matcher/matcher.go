package matcher

import (
	"context"
	"strings"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
)

// MembershipChecker answers whether a product belongs to a collection.
// Implementations are synchronous; an error means "unknown", which the
// matcher treats as a non-match.
type MembershipChecker interface {
	InCollection(ctx context.Context, collectionID, productID string) (bool, error)
}

// Match walks rules in their given order and returns the ones whose trigger
// is satisfied by the cart.
//
// Preconditions owned by the caller: rules are filtered to enabled and
// ordered ascending by priority (creation order breaking ties). Output
// preserves that order; no re-sorting happens here.
//
// A rule whose upsell product is already in the cart is dropped even when its
// trigger matches. Absent or malformed identifiers are non-matches, never
// errors.
func Match(ctx context.Context, rules []models.Rule, cartProductIDs []string, membership MembershipChecker) []models.Rule {
	cart := make(map[string]struct{}, len(cartProductIDs))
	for _, id := range cartProductIDs {
		if normalized := NormalizeProductID(id); normalized != "" {
			cart[normalized] = struct{}{}
		}
	}

	matched := make([]models.Rule, 0, len(rules))
	if len(cart) == 0 {
		return matched
	}

	for _, rule := range rules {
		if !ruleMatches(ctx, rule, cart, cartProductIDs, membership) {
			continue
		}
		if _, inCart := cart[NormalizeProductID(rule.UpsellProductID)]; inCart {
			// Never offer something the shopper already has.
			continue
		}
		matched = append(matched, rule)
	}
	return matched
}

func ruleMatches(ctx context.Context, rule models.Rule, cart map[string]struct{}, cartProductIDs []string, membership MembershipChecker) bool {
	switch rule.TriggerType {
	case enums.TriggerTypeProduct:
		if rule.TriggerProductID == nil {
			return false
		}
		trigger := NormalizeProductID(*rule.TriggerProductID)
		if trigger == "" {
			return false
		}
		_, ok := cart[trigger]
		return ok

	case enums.TriggerTypeCollection:
		if rule.TriggerCollectionID == nil || membership == nil {
			return false
		}
		collectionID := NormalizeProductID(*rule.TriggerCollectionID)
		if collectionID == "" {
			return false
		}
		for _, cartID := range cartProductIDs {
			productID := NormalizeProductID(cartID)
			if productID == "" {
				continue
			}
			inCollection, err := membership.InCollection(ctx, collectionID, productID)
			if err != nil {
				// Degraded lookup: skip this product, keep probing the rest.
				continue
			}
			if inCollection {
				return true
			}
		}
		return false
	}
	return false
}

// NormalizeProductID strips a namespaced resource-id prefix such as
// "gid://shopify/Product/123" down to the bare trailing identifier.
func NormalizeProductID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if strings.HasPrefix(id, "gid://") {
		if slash := strings.LastIndex(id, "/"); slash >= 0 {
			id = id[slash+1:]
		}
	}
	return id
}
