// Package storefront serves the public widget endpoints. They are hit from
// shopper browsers on arbitrary themes, so they degrade gracefully: a broken
// dependency yields an empty payload rather than an error shape the widget
// would have to special-case.
package storefront

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cartboost/cartboost-backend/internal/matcher"
	"github.com/cartboost/cartboost-backend/internal/offers"
	"github.com/cartboost/cartboost-backend/internal/rules"
	"github.com/cartboost/cartboost-backend/internal/shops"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/logger"
	"github.com/cartboost/cartboost-backend/pkg/metrics"
	"github.com/cartboost/cartboost-backend/pkg/redis"
	"github.com/cartboost/cartboost-backend/pkg/shopify"
)

// UpsellDeps carries everything the offer pipeline needs.
type UpsellDeps struct {
	Shops         shops.Service
	Rules         rules.Service
	Products      shopify.ProductAPI
	Cache         *redis.Client
	MembershipTTL time.Duration
	MaxOffers     int
	Metrics       *metrics.StorefrontMetrics
	Logger        *logger.Logger
}

type offersPayload struct {
	Offers []offers.Offer `json:"offers"`
}

// Upsells matches the shopper's cart against the shop's enabled rules and
// returns up to MaxOffers offers. Unknown shops and empty carts are normal:
// both answer 200 with no offers.
func Upsells(deps UpsellDeps) http.HandlerFunc {
	maxOffers := deps.MaxOffers
	if maxOffers <= 0 {
		maxOffers = offers.DefaultMaxOffers
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		domain := strings.TrimSpace(r.URL.Query().Get("shop"))
		cartProductIDs := splitList(r.URL.Query().Get("products"))
		if domain == "" || len(cartProductIDs) == 0 {
			writeOffers(w, http.StatusOK, nil)
			return
		}

		if deps.Logger != nil {
			ctx = deps.Logger.WithShopDomain(ctx, domain)
		}

		shop, err := deps.Shops.GetByDomain(ctx, domain)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				writeOffers(w, http.StatusOK, nil)
				return
			}
			if deps.Logger != nil {
				deps.Logger.Error(ctx, "upsells shop lookup failed", err)
			}
			writeOffers(w, http.StatusInternalServerError, nil)
			return
		}
		if !shop.IsActive {
			writeOffers(w, http.StatusOK, nil)
			return
		}

		enabled, err := deps.Rules.EnabledForShop(ctx, shop.ID)
		if err != nil {
			if deps.Logger != nil {
				deps.Logger.Error(ctx, "upsells rule load failed", err)
			}
			writeOffers(w, http.StatusInternalServerError, nil)
			return
		}
		if len(enabled) == 0 {
			writeOffers(w, http.StatusOK, nil)
			return
		}

		membership := matcher.NewMemoized(matcher.NewPlatformMembership(matcher.PlatformMembershipParams{
			Products:    deps.Products,
			Cache:       deps.Cache,
			TTL:         deps.MembershipTTL,
			ShopDomain:  shop.Domain,
			AccessToken: shop.AccessToken,
			Logger:      deps.Logger,
			Metrics:     deps.Metrics,
		}))

		start := time.Now()
		matched := matcher.Match(ctx, enabled, cartProductIDs, membership)
		deps.Metrics.ObserveMatchDuration(time.Since(start))

		result := offers.Format(matched, maxOffers)
		deps.Metrics.AddOffersServed(len(result))
		writeOffers(w, http.StatusOK, result)
	}
}

func writeOffers(w http.ResponseWriter, status int, result []offers.Offer) {
	if result == nil {
		result = []offers.Offer{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(offersPayload{Offers: result})
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
