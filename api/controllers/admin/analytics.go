package admin

import (
	"net/http"

	"github.com/cartboost/cartboost-backend/api/middleware"
	"github.com/cartboost/cartboost-backend/api/responses"
	"github.com/cartboost/cartboost-backend/api/validators"
	"github.com/cartboost/cartboost-backend/internal/analytics"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
	"github.com/cartboost/cartboost-backend/pkg/logger"
)

// AnalyticsSummary returns the shop-wide rollup plus the per-rule table for
// the dashboard, bounded by optional from= / to= RFC 3339 timestamps.
func AnalyticsSummary(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		from, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.Summarize(ctx, sc.ShopID, analytics.SummaryParams{From: from, To: to})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

const (
	defaultEventFeedLimit = 50
	maxEventFeedLimit     = 200
)

// AnalyticsEvents returns the newest raw events for the activity feed,
// capped by an optional limit= query parameter.
func AnalyticsEvents(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sc, ok := middleware.ShopFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shop context missing"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultEventFeedLimit, 1, maxEventFeedLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		from, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		events, err := svc.ListRecent(ctx, sc.ShopID, analytics.SummaryParams{From: from, To: to}, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if events == nil {
			events = []analytics.EventDTO{}
		}
		responses.WriteSuccess(w, events)
	}
}
