package matcher

import (
	"context"
	"strconv"
	"time"

	"github.com/cartboost/cartboost-backend/pkg/logger"
	"github.com/cartboost/cartboost-backend/pkg/metrics"
	"github.com/cartboost/cartboost-backend/pkg/redis"
	"github.com/cartboost/cartboost-backend/pkg/shopify"
)

// PlatformMembership resolves collection membership through the platform
// admin API, with an optional shared redis cache in front of it. One value
// serves all requests for the same (shop, collection, product) triple until
// the TTL lapses.
type PlatformMembership struct {
	products    shopify.ProductAPI
	cache       *redis.Client
	ttl         time.Duration
	shopDomain  string
	accessToken string
	logg        *logger.Logger
	metrics     *metrics.StorefrontMetrics
}

// PlatformMembershipParams configures a PlatformMembership.
type PlatformMembershipParams struct {
	Products    shopify.ProductAPI
	Cache       *redis.Client
	TTL         time.Duration
	ShopDomain  string
	AccessToken string
	Logger      *logger.Logger
	Metrics     *metrics.StorefrontMetrics
}

// NewPlatformMembership builds a membership checker for one shop.
func NewPlatformMembership(params PlatformMembershipParams) *PlatformMembership {
	return &PlatformMembership{
		products:    params.Products,
		cache:       params.Cache,
		ttl:         params.TTL,
		shopDomain:  params.ShopDomain,
		accessToken: params.AccessToken,
		logg:        params.Logger,
		metrics:     params.Metrics,
	}
}

// InCollection implements MembershipChecker.
func (p *PlatformMembership) InCollection(ctx context.Context, collectionID, productID string) (bool, error) {
	if p.products == nil {
		return false, nil
	}

	if p.cache != nil {
		key := p.cache.MembershipKey(p.shopDomain, collectionID, productID)
		if cached, err := p.cache.Get(ctx, key); err == nil {
			return cached == "1", nil
		}
	}

	collection, err := strconv.ParseInt(collectionID, 10, 64)
	if err != nil {
		return false, nil
	}
	product, err := strconv.ParseInt(productID, 10, 64)
	if err != nil {
		return false, nil
	}

	inCollection, err := p.products.ProductInCollection(ctx, p.shopDomain, p.accessToken, collection, product)
	if err != nil {
		p.metrics.IncLookupFailure("collection_membership")
		if p.logg != nil {
			p.logg.Warn(p.logg.WithFields(ctx, map[string]any{
				"collection_id": collectionID,
				"product_id":    productID,
			}), "collection membership lookup failed")
		}
		return false, err
	}

	if p.cache != nil {
		value := "0"
		if inCollection {
			value = "1"
		}
		key := p.cache.MembershipKey(p.shopDomain, collectionID, productID)
		if err := p.cache.Set(ctx, key, value, p.ttl); err != nil && p.logg != nil {
			p.logg.Warn(ctx, "caching collection membership failed")
		}
	}
	return inCollection, nil
}

// Memoized wraps a checker with a per-request answer table so one upsells
// request never repeats an identical lookup.
type Memoized struct {
	inner   MembershipChecker
	answers map[memoKey]bool
}

type memoKey struct {
	collectionID string
	productID    string
}

// NewMemoized builds a request-scoped memoizing wrapper. Not safe for use
// from multiple goroutines; create one per request.
func NewMemoized(inner MembershipChecker) *Memoized {
	return &Memoized{
		inner:   inner,
		answers: make(map[memoKey]bool),
	}
}

// InCollection implements MembershipChecker. Errors are not memoized so a
// transient failure does not poison the request.
func (m *Memoized) InCollection(ctx context.Context, collectionID, productID string) (bool, error) {
	key := memoKey{collectionID: collectionID, productID: productID}
	if answer, ok := m.answers[key]; ok {
		return answer, nil
	}
	if m.inner == nil {
		return false, nil
	}
	answer, err := m.inner.InCollection(ctx, collectionID, productID)
	if err != nil {
		return false, err
	}
	m.answers[key] = answer
	return answer, nil
}
