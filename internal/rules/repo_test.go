package rules

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
)

func mustCreateTestShop(t *testing.T, tx *gorm.DB) *models.Shop {
	t.Helper()
	shop := &models.Shop{
		ID:          uuid.New(),
		Domain:      fmt.Sprintf("cb-test-%s.myshopify.com", uuid.NewString()),
		AccessToken: "shpat_test",
		IsActive:    true,
		PlanTier:    enums.PlanTierFree,
		InstalledAt: time.Now().UTC(),
	}
	if err := tx.Create(shop).Error; err != nil {
		t.Fatalf("create shop: %v", err)
	}
	return shop
}

func testProductRule(shopID uuid.UUID, name string, priority int) *models.Rule {
	trigger := "111"
	return &models.Rule{
		ID:               uuid.New(),
		ShopID:           shopID,
		Name:             name,
		IsEnabled:        true,
		TriggerType:      enums.TriggerTypeProduct,
		TriggerProductID: &trigger,
		UpsellProductID:  "222",
		UpsellVariantID:  "333",
		Priority:         priority,
	}
}

func TestRepositoryRuleFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	shop := mustCreateTestShop(t, tx)

	rule := testProductRule(shop.ID, "Frequently bought together", 5)
	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	fetched, err := repo.FindByID(ctx, shop.ID, rule.ID)
	if err != nil {
		t.Fatalf("find rule: %v", err)
	}
	if fetched.Name != rule.Name {
		t.Fatalf("expected name %q, got %q", rule.Name, fetched.Name)
	}

	if err := repo.SetEnabled(ctx, shop.ID, rule.ID, false); err != nil {
		t.Fatalf("disable rule: %v", err)
	}
	count, err := repo.CountEnabled(ctx, shop.ID)
	if err != nil {
		t.Fatalf("count enabled: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 enabled rules, got %d", count)
	}

	if err := repo.Delete(ctx, shop.ID, rule.ID); err != nil {
		t.Fatalf("delete rule: %v", err)
	}
	if err := repo.Delete(ctx, shop.ID, rule.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestRepositoryListOrdersByPriorityThenAge(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	shop := mustCreateTestShop(t, tx)

	later := testProductRule(shop.ID, "second at same priority", 1)
	if err := repo.Create(ctx, later); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	urgent := testProductRule(shop.ID, "lowest priority wins", 0)
	if err := repo.Create(ctx, urgent); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	disabled := testProductRule(shop.ID, "disabled rule", 0)
	disabled.IsEnabled = false
	if err := repo.Create(ctx, disabled); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	rules, err := repo.ListEnabledOrdered(ctx, shop.ID)
	if err != nil {
		t.Fatalf("list enabled: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 enabled rules, got %d", len(rules))
	}
	if rules[0].ID != urgent.ID {
		t.Fatalf("expected priority 0 rule first, got %s", rules[0].Name)
	}
	if rules[1].ID != later.ID {
		t.Fatalf("expected priority 1 rule second, got %s", rules[1].Name)
	}
}

func TestRepositoryScopesByShop(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	owner := mustCreateTestShop(t, tx)
	intruder := mustCreateTestShop(t, tx)

	rule := testProductRule(owner.ID, "owner only", 0)
	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	if _, err := repo.FindByID(ctx, intruder.ID, rule.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected cross-tenant read to miss, got %v", err)
	}
	if err := repo.Delete(ctx, intruder.ID, rule.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected cross-tenant delete to miss, got %v", err)
	}
	if _, err := repo.FindByID(ctx, owner.ID, rule.ID); err != nil {
		t.Fatalf("owner read should survive: %v", err)
	}
}

func TestRepositoryListFilters(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	shop := mustCreateTestShop(t, tx)

	bundle := testProductRule(shop.ID, "Bundle saver", 0)
	if err := repo.Create(ctx, bundle); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	addon := testProductRule(shop.ID, "Warranty add-on", 1)
	addon.IsEnabled = false
	if err := repo.Create(ctx, addon); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	bySearch, err := repo.List(ctx, shop.ID, ListRulesParams{Query: "bundle"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].ID != bundle.ID {
		t.Fatalf("expected only the bundle rule, got %d rows", len(bySearch))
	}

	enabled := false
	byEnabled, err := repo.List(ctx, shop.ID, ListRulesParams{Enabled: &enabled})
	if err != nil {
		t.Fatalf("list by enabled: %v", err)
	}
	if len(byEnabled) != 1 || byEnabled[0].ID != addon.ID {
		t.Fatalf("expected only the disabled rule, got %d rows", len(byEnabled))
	}
}
