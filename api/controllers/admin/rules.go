// Package admin serves the merchant dashboard endpoints. Every handler runs
// behind the shop-context middleware and works against the tenant it carries.
package admin

import (
	"net/http"
	"strings"

	"github.com/cartboost/cartboost-backend/api/middleware"
	"github.com/cartboost/cartboost-backend/api/responses"
	"github.com/cartboost/cartboost-backend/api/validators"
	"github.com/cartboost/cartboost-backend/internal/rules"
	"github.com/cartboost/cartboost-backend/pkg/enums"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/logger"
)

type rulePayload struct {
	Name                string `json:"name" validate:"required,max=120"`
	TriggerType         string `json:"trigger_type" validate:"required,oneof=product collection"`
	TriggerProductID    string `json:"trigger_product_id"`
	TriggerCollectionID string `json:"trigger_collection_id"`
	UpsellProductID     string `json:"upsell_product_id" validate:"required"`
	UpsellVariantID     string `json:"upsell_variant_id"`
	Priority            int    `json:"priority" validate:"min=0"`
}

type ruleUpdatePayload struct {
	Name                *string `json:"name" validate:"omitempty,max=120"`
	TriggerType         *string `json:"trigger_type" validate:"omitempty,oneof=product collection"`
	TriggerProductID    *string `json:"trigger_product_id"`
	TriggerCollectionID *string `json:"trigger_collection_id"`
	UpsellProductID     *string `json:"upsell_product_id"`
	UpsellVariantID     *string `json:"upsell_variant_id"`
	Priority            *int    `json:"priority" validate:"omitempty,min=0"`
}

type toggleRulePayload struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// RulesList returns the shop's rules, filterable by q= and enabled=.
func RulesList(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		enabled, err := validators.ParseQueryBool(r, "enabled")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.List(ctx, sc.ShopID, rules.ListRulesParams{
			Query:   strings.TrimSpace(r.URL.Query().Get("q")),
			Enabled: enabled,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dtos := make([]rules.RuleDTO, 0, len(list))
		for _, rule := range list {
			dtos = append(dtos, rules.ToDTO(rule))
		}
		responses.WriteSuccess(w, map[string]any{"rules": dtos})
	}
}

// RulesCreate creates a rule, enforcing the plan's active-rule ceiling.
func RulesCreate(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		var payload rulePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		triggerType, err := enums.ParseTriggerType(payload.TriggerType)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid trigger type"))
			return
		}

		rule, err := svc.Create(ctx, sc.Shop, rules.CreateRuleInput{
			Name:                payload.Name,
			TriggerType:         triggerType,
			TriggerProductID:    payload.TriggerProductID,
			TriggerCollectionID: payload.TriggerCollectionID,
			UpsellProductID:     payload.UpsellProductID,
			UpsellVariantID:     payload.UpsellVariantID,
			Priority:            payload.Priority,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rules.ToDTO(rule))
	}
}

// RulesGet returns one rule.
func RulesGet(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		ruleID, err := validators.ParseUUIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rule, err := svc.Get(ctx, sc.ShopID, ruleID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rules.ToDTO(rule))
	}
}

// RulesUpdate applies partial edits to a rule.
func RulesUpdate(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		ruleID, err := validators.ParseUUIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload ruleUpdatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := rules.UpdateRuleInput{
			Name:                payload.Name,
			TriggerProductID:    payload.TriggerProductID,
			TriggerCollectionID: payload.TriggerCollectionID,
			UpsellProductID:     payload.UpsellProductID,
			UpsellVariantID:     payload.UpsellVariantID,
			Priority:            payload.Priority,
		}
		if payload.TriggerType != nil {
			triggerType, err := enums.ParseTriggerType(*payload.TriggerType)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid trigger type"))
				return
			}
			input.TriggerType = &triggerType
		}

		rule, err := svc.Update(ctx, sc.Shop, ruleID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rules.ToDTO(rule))
	}
}

// RulesToggle enables or disables a rule. Enabling re-checks the plan gate.
func RulesToggle(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		ruleID, err := validators.ParseUUIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload toggleRulePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rule, err := svc.SetEnabled(ctx, sc.Shop, ruleID, *payload.Enabled)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rules.ToDTO(rule))
	}
}

// RulesDelete removes a rule.
func RulesDelete(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		ruleID, err := validators.ParseUUIDParam(r, "ruleID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, sc.ShopID, ruleID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
