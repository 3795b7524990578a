package storefront

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cartboost/cartboost-backend/internal/shops"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/logger"
)

type shippingPayload struct {
	Enabled   bool   `json:"enabled"`
	Threshold string `json:"threshold"`
	Currency  string `json:"currency"`
}

var shippingDefaults = shippingPayload{Enabled: false, Threshold: "0.00", Currency: "USD"}

// Shipping returns the shop's free-shipping bar settings. Unknown shops get
// the disabled defaults so the widget renders nothing.
func Shipping(shopSvc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		domain := strings.TrimSpace(r.URL.Query().Get("shop"))
		if domain == "" {
			writeShipping(w, http.StatusOK, shippingDefaults)
			return
		}
		if logg != nil {
			ctx = logg.WithShopDomain(ctx, domain)
		}

		settings, err := shopSvc.GetShippingBar(ctx, domain)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				writeShipping(w, http.StatusOK, shippingDefaults)
				return
			}
			if logg != nil {
				logg.Error(ctx, "shipping settings load failed", err)
			}
			writeShipping(w, http.StatusInternalServerError, shippingDefaults)
			return
		}

		writeShipping(w, http.StatusOK, shippingPayload{
			Enabled:   settings.Enabled,
			Threshold: settings.Threshold.StringFixed(2),
			Currency:  settings.Currency,
		})
	}
}

func writeShipping(w http.ResponseWriter, status int, payload shippingPayload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
