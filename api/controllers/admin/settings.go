package admin

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cartboost/cartboost-backend/api/middleware"
	"github.com/cartboost/cartboost-backend/api/responses"
	"github.com/cartboost/cartboost-backend/api/validators"
	"github.com/cartboost/cartboost-backend/internal/shops"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/logger"
)

type shippingBarPayload struct {
	Enabled   *bool  `json:"enabled" validate:"required"`
	Threshold string `json:"threshold" validate:"required"`
	Currency  string `json:"currency" validate:"omitempty,len=3"`
}

type shippingBarResponse struct {
	Enabled   bool   `json:"enabled"`
	Threshold string `json:"threshold"`
	Currency  string `json:"currency"`
}

// SettingsGet returns the shipping bar configuration.
func SettingsGet(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		settings, err := svc.GetShippingBar(ctx, sc.Domain)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, shippingBarResponse{
			Enabled:   settings.Enabled,
			Threshold: settings.Threshold.StringFixed(2),
			Currency:  settings.Currency,
		})
	}
}

// SettingsUpdate persists new shipping bar settings.
func SettingsUpdate(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		var payload shippingBarPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		threshold, err := decimal.NewFromString(strings.TrimSpace(payload.Threshold))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "threshold must be a decimal amount"))
			return
		}

		settings := shops.ShippingBarSettings{
			Enabled:   *payload.Enabled,
			Threshold: threshold,
			Currency:  payload.Currency,
		}
		if err := svc.UpdateShippingBar(ctx, sc.ShopID, settings); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		currency := strings.ToUpper(strings.TrimSpace(payload.Currency))
		if currency == "" {
			currency = "USD"
		}
		responses.WriteSuccess(w, shippingBarResponse{
			Enabled:   settings.Enabled,
			Threshold: threshold.StringFixed(2),
			Currency:  currency,
		})
	}
}
