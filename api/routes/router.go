package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cartboost/cartboost-backend/api/controllers"
	admincontrollers "github.com/cartboost/cartboost-backend/api/controllers/admin"
	storefrontcontrollers "github.com/cartboost/cartboost-backend/api/controllers/storefront"
	"github.com/cartboost/cartboost-backend/api/middleware"
	"github.com/cartboost/cartboost-backend/internal/analytics"
	"github.com/cartboost/cartboost-backend/internal/billing"
	"github.com/cartboost/cartboost-backend/internal/rules"
	"github.com/cartboost/cartboost-backend/internal/shops"
	"github.com/cartboost/cartboost-backend/pkg/config"
	"github.com/cartboost/cartboost-backend/pkg/logger"
	"github.com/cartboost/cartboost-backend/pkg/metrics"
	"github.com/cartboost/cartboost-backend/pkg/redis"
	"github.com/cartboost/cartboost-backend/pkg/shopify"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         controllers.Pinger
	Redis      *redis.Client
	Registry   *prometheus.Registry
	Metrics    *metrics.StorefrontMetrics
	Verifier   middleware.Verifier
	Shops      shops.Service
	Rules      rules.Service
	Analytics  analytics.Service
	Billing    billing.Service
	ProductAPI shopify.ProductAPI
}

// NewRouter assembles the HTTP surface: public storefront endpoints, the
// authenticated admin dashboard, lifecycle hooks, and operational endpoints.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Public widget endpoints live at the root so the storefront script can
	// hit them without extra path configuration.
	r.Group(func(r chi.Router) {
		r.Use(middleware.StorefrontCORS())
		r.Get("/upsells", storefrontcontrollers.Upsells(storefrontcontrollers.UpsellDeps{
			Shops:         deps.Shops,
			Rules:         deps.Rules,
			Products:      deps.ProductAPI,
			Cache:         deps.Redis,
			MembershipTTL: cfg.Shopify.MembershipTTL,
			Metrics:       deps.Metrics,
			Logger:        logg,
		}))
		r.Get("/shipping", storefrontcontrollers.Shipping(deps.Shops, logg))
		r.Post("/track", storefrontcontrollers.Track(deps.Analytics, logg))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminCORS(cfg.CORS.AdminOrigins))
		r.Use(middleware.RequireShop(deps.Verifier, deps.Shops, logg))

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", admincontrollers.RulesList(deps.Rules, logg))
			r.Post("/", admincontrollers.RulesCreate(deps.Rules, logg))
			r.Route("/{ruleID}", func(r chi.Router) {
				r.Get("/", admincontrollers.RulesGet(deps.Rules, logg))
				r.Put("/", admincontrollers.RulesUpdate(deps.Rules, logg))
				r.Patch("/toggle", admincontrollers.RulesToggle(deps.Rules, logg))
				r.Delete("/", admincontrollers.RulesDelete(deps.Rules, logg))
			})
		})

		r.Get("/analytics/summary", admincontrollers.AnalyticsSummary(deps.Analytics, logg))
		r.Get("/analytics/events", admincontrollers.AnalyticsEvents(deps.Analytics, logg))

		r.Route("/billing", func(r chi.Router) {
			r.Get("/", admincontrollers.BillingStatus(deps.Billing, logg))
			r.Post("/upgrade", admincontrollers.BillingUpgrade(deps.Billing, logg))
			r.Post("/confirm", admincontrollers.BillingConfirm(deps.Billing, logg))
			r.Post("/cancel", admincontrollers.BillingCancel(deps.Billing, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/shipping-bar", admincontrollers.SettingsGet(deps.Shops, logg))
			r.Put("/shipping-bar", admincontrollers.SettingsUpdate(deps.Shops, logg))
		})
	})

	r.Post("/auth/install", controllers.AppInstall(deps.Shops, logg))
	r.Post("/webhooks/app_uninstalled", controllers.WebhookAppUninstalled(deps.Shops, logg))

	return r
}
