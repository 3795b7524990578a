package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_analytics_events_impression_dedup"}
	if !IsUniqueViolation(pgErr) {
		t.Fatal("expected 23505 to be a unique violation")
	}
	if !IsUniqueViolation(fmt.Errorf("insert event: %w", pgErr)) {
		t.Fatal("expected wrapped 23505 to be a unique violation")
	}
	if !IsUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Fatal("expected translated duplicate key to be a unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(nil) {
		t.Fatal("nil is not a unique violation")
	}
}

func TestDumpCapturesPGFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", TableName: "analytics_events", ConstraintName: "dedup"}
	dump := Dump(fmt.Errorf("insert event: %w", pgErr))
	if dump.PGCode != "23505" {
		t.Fatalf("expected pg code, got %q", dump.PGCode)
	}
	if dump.PGTable != "analytics_events" {
		t.Fatalf("expected table name, got %q", dump.PGTable)
	}
}
