package controllers

import (
	"net/http"
	"strings"

	"github.com/cartboost/cartboost-backend/api/responses"
	"github.com/cartboost/cartboost-backend/api/validators"
	"github.com/cartboost/cartboost-backend/internal/shops"
	"github.com/cartboost/cartboost-backend/pkg/logger"
)

type installPayload struct {
	Shop        string `json:"shop" validate:"required"`
	AccessToken string `json:"access_token" validate:"required"`
}

const shopifyDomainHeader = "X-Shopify-Shop-Domain"

// AppInstall upserts the shop after the OAuth exchange: first call installs,
// later calls refresh the access token.
func AppInstall(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload installPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithShopDomain(ctx, payload.Shop)
		}

		shop, err := svc.InstallOrLogin(ctx, payload.Shop, payload.AccessToken)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(ctx, "shop installed or refreshed")
		}
		responses.WriteSuccess(w, map[string]any{
			"shop":      shop.Domain,
			"plan_tier": shop.PlanTier,
			"is_active": shop.IsActive,
		})
	}
}

// WebhookAppUninstalled handles the platform's uninstall webhook. The shop
// row is kept but deactivated. Always answers 200 so the platform does not
// retry for shops it already told us about.
func WebhookAppUninstalled(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		domain := strings.TrimSpace(r.Header.Get(shopifyDomainHeader))
		if domain == "" {
			if logg != nil {
				logg.Warn(ctx, "uninstall webhook missing shop domain header")
			}
			responses.WriteSuccess(w, map[string]bool{"received": true})
			return
		}
		if logg != nil {
			ctx = logg.WithShopDomain(ctx, domain)
		}

		if err := svc.Uninstall(ctx, domain); err != nil {
			if logg != nil {
				logg.Error(ctx, "uninstall webhook failed", err)
			}
		} else if logg != nil {
			logg.Info(ctx, "shop uninstalled")
		}
		responses.WriteSuccess(w, map[string]bool{"received": true})
	}
}
