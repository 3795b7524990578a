package admin

import (
	"net/http"

	"github.com/cartboost/cartboost-backend/api/middleware"
	"github.com/cartboost/cartboost-backend/api/responses"
	"github.com/cartboost/cartboost-backend/api/validators"
	"github.com/cartboost/cartboost-backend/internal/billing"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/logger"
)

type confirmChargePayload struct {
	ChargeID uint64 `json:"charge_id" validate:"required"`
}

// BillingStatus reports the live subscription state for the dashboard.
func BillingStatus(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		status, err := svc.GetStatus(ctx, sc.Shop)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// BillingUpgrade creates a pending recurring charge and hands the merchant
// its confirmation URL.
func BillingUpgrade(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		result, err := svc.Upgrade(ctx, sc.Shop)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BillingConfirm activates the plan after the merchant approved the charge.
func BillingConfirm(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		var payload confirmChargePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Confirm(ctx, sc.Shop, payload.ChargeID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"active": true})
	}
}

// BillingCancel drops the shop back to the free plan.
func BillingCancel(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		if err := svc.Cancel(ctx, sc.Shop); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cancelled": true})
	}
}
