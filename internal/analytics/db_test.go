package analytics

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var analyticsSchema = []string{
	`CREATE TABLE IF NOT EXISTS shops (
  id TEXT PRIMARY KEY,
  domain TEXT NOT NULL UNIQUE,
  access_token TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  plan_tier TEXT NOT NULL DEFAULT 'free',
  billing_status TEXT NOT NULL DEFAULT 'trial',
  shipping_bar_enabled INTEGER NOT NULL DEFAULT 0,
  shipping_bar_threshold NUMERIC NOT NULL DEFAULT 0,
  currency_code TEXT NOT NULL DEFAULT 'USD',
  installed_at DATETIME NOT NULL,
  uninstalled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS rules (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL REFERENCES shops(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  is_enabled INTEGER NOT NULL DEFAULT 1,
  trigger_type TEXT NOT NULL,
  trigger_product_id TEXT,
  trigger_collection_id TEXT,
  upsell_product_id TEXT NOT NULL,
  upsell_variant_id TEXT NOT NULL,
  upsell_title TEXT NOT NULL DEFAULT '',
  upsell_image TEXT,
  upsell_price NUMERIC NOT NULL DEFAULT 0,
  upsell_compare_at_price NUMERIC,
  priority INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL REFERENCES shops(id) ON DELETE CASCADE,
  rule_id TEXT NOT NULL REFERENCES rules(id) ON DELETE CASCADE,
  event_type TEXT NOT NULL,
  cart_token TEXT,
  session_id TEXT,
  product_price NUMERIC,
  created_at DATETIME
);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_analytics_events_impression_dedup
  ON analytics_events (rule_id, session_id)
  WHERE event_type = 'impression' AND session_id IS NOT NULL;`,
}

// openTestDB runs against sqlite in-memory by default; set CARTBOOST_DB_DSN
// to exercise the real Postgres schema instead.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if dsn := os.Getenv("CARTBOOST_DB_DSN"); dsn != "" {
		conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			t.Fatalf("failed to open test db: %v", err)
		}
		return conn
	}

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	for _, ddl := range analyticsSchema {
		if err := conn.Exec(ddl).Error; err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}
	return conn
}
