package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartboost/cartboost-backend/api/middleware"
	"github.com/cartboost/cartboost-backend/internal/rules"
	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
	pkgerrors "github.com/cartboost/cartboost-backend/pkg/errors"
)

type stubRuleService struct {
	list    []models.Rule
	rule    models.Rule
	err     error
	created *rules.CreateRuleInput
	toggled *bool
}

func (s *stubRuleService) Create(_ context.Context, _ *models.Shop, input rules.CreateRuleInput) (models.Rule, error) {
	s.created = &input
	return s.rule, s.err
}

func (s *stubRuleService) Get(context.Context, uuid.UUID, uuid.UUID) (models.Rule, error) {
	return s.rule, s.err
}

func (s *stubRuleService) List(context.Context, uuid.UUID, rules.ListRulesParams) ([]models.Rule, error) {
	return s.list, s.err
}

func (s *stubRuleService) Update(context.Context, *models.Shop, uuid.UUID, rules.UpdateRuleInput) (models.Rule, error) {
	return s.rule, s.err
}

func (s *stubRuleService) SetEnabled(_ context.Context, _ *models.Shop, _ uuid.UUID, enabled bool) (models.Rule, error) {
	s.toggled = &enabled
	return s.rule, s.err
}

func (s *stubRuleService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return s.err
}

func (s *stubRuleService) EnabledForShop(context.Context, uuid.UUID) ([]models.Rule, error) {
	return s.list, s.err
}

func withShop(req *http.Request) *http.Request {
	shop := &models.Shop{
		ID:       uuid.New(),
		Domain:   "demo.myshopify.com",
		IsActive: true,
	}
	ctx := middleware.WithShopContext(req.Context(), &middleware.ShopContext{
		ShopID: shop.ID,
		Domain: shop.Domain,
		Shop:   shop,
	})
	return req.WithContext(ctx)
}

func sampleRule() models.Rule {
	trigger := "111"
	return models.Rule{
		ID:               uuid.New(),
		Name:             "bundle",
		IsEnabled:        true,
		TriggerType:      enums.TriggerTypeProduct,
		TriggerProductID: &trigger,
		UpsellProductID:  "222",
		UpsellVariantID:  "333",
		UpsellPrice:      decimal.RequireFromString("9.99"),
	}
}

func TestRulesListSuccess(t *testing.T) {
	svc := &stubRuleService{list: []models.Rule{sampleRule()}}
	handler := RulesList(svc, nil)

	req := withShop(httptest.NewRequest(http.MethodGet, "/admin/rules?enabled=true", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			Rules []rules.RuleDTO `json:"rules"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(envelope.Data.Rules))
	}
	if envelope.Data.Rules[0].UpsellPrice != "9.99" {
		t.Fatalf("unexpected price %s", envelope.Data.Rules[0].UpsellPrice)
	}
}

func TestRulesListMissingShopContext(t *testing.T) {
	handler := RulesList(&stubRuleService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/rules", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRulesCreateSuccess(t *testing.T) {
	svc := &stubRuleService{rule: sampleRule()}
	handler := RulesCreate(svc, nil)

	body := `{"name":"bundle","trigger_type":"product","trigger_product_id":"111","upsell_product_id":"222","priority":1}`
	req := withShop(httptest.NewRequest(http.MethodPost, "/admin/rules", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.created == nil {
		t.Fatal("expected create to reach the service")
	}
	if svc.created.TriggerType != enums.TriggerTypeProduct {
		t.Fatalf("unexpected trigger type %s", svc.created.TriggerType)
	}
}

func TestRulesCreatePlanLimit(t *testing.T) {
	svc := &stubRuleService{err: pkgerrors.New(pkgerrors.CodePlanLimit, "The Free plan allows up to 1 active rule(s). Upgrade to add more.")}
	handler := RulesCreate(svc, nil)

	body := `{"name":"second","trigger_type":"product","trigger_product_id":"111","upsell_product_id":"222"}`
	req := withShop(httptest.NewRequest(http.MethodPost, "/admin/rules", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Free plan") {
		t.Fatalf("expected reason in response, got %s", resp.Body.String())
	}
}

func TestRulesCreateRejectsUnknownTriggerType(t *testing.T) {
	handler := RulesCreate(&stubRuleService{}, nil)

	body := `{"name":"x","trigger_type":"tag","trigger_product_id":"111","upsell_product_id":"222"}`
	req := withShop(httptest.NewRequest(http.MethodPost, "/admin/rules", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRulesToggle(t *testing.T) {
	svc := &stubRuleService{rule: sampleRule()}
	handler := RulesToggle(svc, nil)

	router := chi.NewRouter()
	router.Patch("/admin/rules/{ruleID}/toggle", handler)

	req := withShop(httptest.NewRequest(http.MethodPatch, "/admin/rules/"+uuid.NewString()+"/toggle", strings.NewReader(`{"enabled":false}`)))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.toggled == nil || *svc.toggled != false {
		t.Fatal("expected toggle to pass enabled=false")
	}
}

func TestRulesDeleteNotFound(t *testing.T) {
	svc := &stubRuleService{err: pkgerrors.New(pkgerrors.CodeNotFound, "rule not found")}
	handler := RulesDelete(svc, nil)

	router := chi.NewRouter()
	router.Delete("/admin/rules/{ruleID}", handler)

	req := withShop(httptest.NewRequest(http.MethodDelete, "/admin/rules/"+uuid.NewString(), nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
