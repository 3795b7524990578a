package shops

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cartboost/cartboost-backend/pkg/db/models"
	"github.com/cartboost/cartboost-backend/pkg/enums"
)

func testDomain() string {
	return fmt.Sprintf("cb-test-%s.myshopify.com", uuid.NewString())
}

func TestRepositoryUpsertInstallAndRelogin(t *testing.T) {
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
	domain := testDomain()

	first := &models.Shop{
		ID:          uuid.New(),
		Domain:      domain,
		AccessToken: "shpat_first",
		IsActive:    true,
		InstalledAt: time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("install: %v", err)
	}

	if err := repo.MarkUninstalled(ctx, domain); err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	gone, err := repo.FindByDomain(ctx, domain)
	if err != nil {
		t.Fatalf("find after uninstall: %v", err)
	}
	if gone.IsActive {
		t.Fatal("expected shop to be inactive after uninstall")
	}
	if gone.UninstalledAt == nil {
		t.Fatal("expected uninstalled_at to be set")
	}
	if gone.PlanTier != enums.PlanTierFree {
		t.Fatalf("expected plan reset to free, got %s", gone.PlanTier)
	}

	// Reinstall with a fresh credential keeps the same row.
	second := &models.Shop{
		ID:          uuid.New(),
		Domain:      domain,
		AccessToken: "shpat_second",
		IsActive:    true,
		InstalledAt: time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("relogin: %v", err)
	}

	back, err := repo.FindByDomain(ctx, domain)
	if err != nil {
		t.Fatalf("find after relogin: %v", err)
	}
	if back.ID != first.ID {
		t.Fatalf("expected upsert to keep shop id %s, got %s", first.ID, back.ID)
	}
	if back.AccessToken != "shpat_second" {
		t.Fatalf("expected refreshed token, got %q", back.AccessToken)
	}
	if !back.IsActive {
		t.Fatal("expected shop reactivated on relogin")
	}
	if back.UninstalledAt != nil {
		t.Fatal("expected uninstalled_at cleared on relogin")
	}
}

func TestRepositoryUpdateShippingBarAndPlan(t *testing.T) {
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

	shop := &models.Shop{
		ID:          uuid.New(),
		Domain:      testDomain(),
		AccessToken: "shpat_test",
		IsActive:    true,
		InstalledAt: time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, shop); err != nil {
		t.Fatalf("install: %v", err)
	}

	threshold := decimal.RequireFromString("75.50")
	if err := repo.UpdateShippingBar(ctx, shop.ID, true, threshold, "EUR"); err != nil {
		t.Fatalf("update shipping bar: %v", err)
	}
	if err := repo.UpdatePlan(ctx, shop.ID, enums.PlanTierPro, enums.BillingStatusActive); err != nil {
		t.Fatalf("update plan: %v", err)
	}

	fetched, err := repo.FindByID(ctx, shop.ID)
	if err != nil {
		t.Fatalf("find shop: %v", err)
	}
	if !fetched.ShippingBarEnabled {
		t.Fatal("expected shipping bar enabled")
	}
	if !fetched.ShippingBarThreshold.Equal(threshold) {
		t.Fatalf("expected threshold %s, got %s", threshold, fetched.ShippingBarThreshold)
	}
	if fetched.CurrencyCode != "EUR" {
		t.Fatalf("expected currency EUR, got %s", fetched.CurrencyCode)
	}
	if fetched.PlanTier != enums.PlanTierPro {
		t.Fatalf("expected pro tier, got %s", fetched.PlanTier)
	}
	if fetched.BillingStatus != enums.BillingStatusActive {
		t.Fatalf("expected active billing, got %s", fetched.BillingStatus)
	}
}
