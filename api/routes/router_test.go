package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/cartboost/cartboost-backend/api/middleware"
	"github.com/cartboost/cartboost-backend/internal/analytics"
	"github.com/cartboost/cartboost-backend/internal/billing"
	"github.com/cartboost/cartboost-backend/internal/rules"
	"github.com/cartboost/cartboost-backend/internal/shops"
	"github.com/cartboost/cartboost-backend/pkg/config"
	"github.com/cartboost/cartboost-backend/pkg/db/models"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubShopService struct {
	shop *models.Shop
}

func (s stubShopService) InstallOrLogin(context.Context, string, string) (*models.Shop, error) {
	return s.shop, nil
}

func (s stubShopService) GetByDomain(context.Context, string) (*models.Shop, error) {
	if s.shop == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return s.shop, nil
}

func (s stubShopService) GetShippingBar(context.Context, string) (shops.ShippingBarSettings, error) {
	return shops.ShippingBarSettings{Currency: "USD"}, nil
}

func (s stubShopService) UpdateShippingBar(context.Context, uuid.UUID, shops.ShippingBarSettings) error {
	return nil
}

func (s stubShopService) Uninstall(context.Context, string) error { return nil }

type stubRuleService struct{}

func (stubRuleService) Create(context.Context, *models.Shop, rules.CreateRuleInput) (models.Rule, error) {
	return models.Rule{}, nil
}

func (stubRuleService) Get(context.Context, uuid.UUID, uuid.UUID) (models.Rule, error) {
	return models.Rule{}, nil
}

func (stubRuleService) List(context.Context, uuid.UUID, rules.ListRulesParams) ([]models.Rule, error) {
	return nil, nil
}

func (stubRuleService) Update(context.Context, *models.Shop, uuid.UUID, rules.UpdateRuleInput) (models.Rule, error) {
	return models.Rule{}, nil
}

func (stubRuleService) SetEnabled(context.Context, *models.Shop, uuid.UUID, bool) (models.Rule, error) {
	return models.Rule{}, nil
}

func (stubRuleService) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (stubRuleService) EnabledForShop(context.Context, uuid.UUID) ([]models.Rule, error) {
	return nil, nil
}

type stubAnalyticsService struct{}

func (stubAnalyticsService) Track(context.Context, analytics.TrackInput) (analytics.TrackResult, error) {
	return analytics.TrackResult{Tracked: true}, nil
}

func (stubAnalyticsService) Summarize(context.Context, uuid.UUID, analytics.SummaryParams) (analytics.Summary, error) {
	return analytics.Summary{TotalRevenue: "0.00", PerRule: []analytics.RuleSummary{}}, nil
}

func (stubAnalyticsService) ListRecent(context.Context, uuid.UUID, analytics.SummaryParams, int) ([]analytics.EventDTO, error) {
	return []analytics.EventDTO{}, nil
}

type stubBillingService struct{}

func (stubBillingService) Upgrade(context.Context, *models.Shop) (billing.UpgradeResult, error) {
	return billing.UpgradeResult{}, nil
}

func (stubBillingService) Confirm(context.Context, *models.Shop, uint64) error { return nil }
func (stubBillingService) Cancel(context.Context, *models.Shop) error          { return nil }

func (stubBillingService) GetStatus(context.Context, *models.Shop) (billing.Status, error) {
	return billing.Status{}, nil
}

func testRouter(shop *models.Shop) http.Handler {
	return NewRouter(Deps{
		Config:    &config.Config{},
		DB:        stubPinger{},
		Verifier:  middleware.HeaderVerifier{},
		Shops:     stubShopService{shop: shop},
		Rules:     stubRuleService{},
		Analytics: stubAnalyticsService{},
		Billing:   stubBillingService{},
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterStorefrontIsPublic(t *testing.T) {
	router := testRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/upsells?shop=unknown.myshopify.com&products=111", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var payload struct {
		Offers []json.RawMessage `json:"offers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Offers) != 0 {
		t.Fatalf("expected no offers for unknown shop, got %d", len(payload.Offers))
	}
}

func TestRouterAdminRequiresShopContext(t *testing.T) {
	router := testRouter(&models.Shop{ID: uuid.New(), Domain: "demo.myshopify.com", IsActive: true})

	req := httptest.NewRequest(http.MethodGet, "/admin/rules", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/rules", nil)
	req.Header.Set("X-Shop-Domain", "demo.myshopify.com")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterUninstallWebhook(t *testing.T) {
	router := testRouter(&models.Shop{ID: uuid.New(), Domain: "demo.myshopify.com", IsActive: true})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/app_uninstalled", nil)
	req.Header.Set("X-Shopify-Shop-Domain", "demo.myshopify.com")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
