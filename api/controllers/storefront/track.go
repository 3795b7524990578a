package storefront

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartboost/cartboost-backend/api/responses"
	"github.com/cartboost/cartboost-backend/api/validators"
	"github.com/cartboost/cartboost-backend/internal/analytics"
	"github.com/cartboost/cartboost-backend/pkg/enums"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/logger"
)

type trackPayload struct {
	ShopDomain   string `json:"shopDomain" validate:"required"`
	RuleID       string `json:"ruleId" validate:"required,uuid"`
	EventType    string `json:"eventType" validate:"required,oneof=impression conversion"`
	SessionID    string `json:"sessionId"`
	CartToken    string `json:"cartToken"`
	ProductPrice string `json:"productPrice"`
}

type trackResponse struct {
	Success bool   `json:"success"`
	Tracked bool   `json:"tracked"`
	Reason  string `json:"reason,omitempty"`
}

// Track records an impression or conversion reported by the widget.
func Track(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload trackPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ruleID, err := uuid.Parse(payload.RuleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rule id"))
			return
		}
		eventType, err := enums.ParseEventType(payload.EventType)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event type"))
			return
		}

		if logg != nil {
			ctx = logg.WithRuleID(logg.WithShopDomain(ctx, payload.ShopDomain), payload.RuleID)
		}

		input := analytics.TrackInput{
			ShopDomain: payload.ShopDomain,
			RuleID:     ruleID,
			EventType:  eventType,
			SessionID:  payload.SessionID,
			CartToken:  payload.CartToken,
		}
		// Unparseable prices are stored as null rather than rejecting the event.
		if raw := strings.TrimSpace(payload.ProductPrice); raw != "" {
			if price, err := decimal.NewFromString(raw); err == nil {
				input.ProductPrice = &price
			}
		}

		result, err := svc.Track(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(trackResponse{
			Success: true,
			Tracked: result.Tracked,
			Reason:  result.Reason,
		})
	}
}
