package shops

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const shopsSchema = `
CREATE TABLE IF NOT EXISTS shops (
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
);`

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
	if err := conn.Exec(shopsSchema).Error; err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return conn
}
