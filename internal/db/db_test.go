package db

import (
	"context"
	"strings"
	"testing"
)

func TestDSNCarriesPragmas(t *testing.T) {
	dsn := DSN("achados.sqlite3")
	if !strings.HasPrefix(dsn, "achados.sqlite3?") {
		t.Fatalf("unexpected dsn %q", dsn)
	}
	for _, want := range []string{"foreign_keys%281%29", "_time_format=sqlite"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	database := NewTestDB(t)
	ctx := context.Background()

	if err := Migrate(ctx, database); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	v, err := Version(ctx, database)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 1 {
		t.Errorf("expected schema version 1, got %d", v)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	database := NewTestDB(t)

	var on int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if on != 1 {
		t.Errorf("expected foreign_keys=1, got %d", on)
	}
}
