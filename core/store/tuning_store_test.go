package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"vectorcraft-admin/config"
	"vectorcraft-admin/core/tuning"
	"vectorcraft-admin/core/utils"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.AppConfig{DBPath: filepath.Join(dir, "store.db")}
	logger := utils.NewLogger()
	db, err := NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := ApplyMigrations(context.Background(), db, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestTuningStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewTuningStore(newTestDB(t))

	got, err := s.GetTuning(ctx)
	if err != nil {
		t.Fatalf("get empty: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil settings on empty table, got %+v", got)
	}

	settings := &TuningSettings{Params: tuning.Params{
		AutoOptimization:  true,
		CacheLevel:        tuning.CacheHigh,
		DBPoolSize:        35,
		RequestTimeoutSec: 45,
	}}
	if err := s.SaveTuning(ctx, settings); err != nil {
		t.Fatalf("save: %v", err)
	}
	if settings.ID <= 0 {
		t.Fatalf("insert did not assign id")
	}

	got, err = s.GetTuning(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Params != settings.Params {
		t.Fatalf("round trip: %+v", got)
	}

	// Saving with an id updates the same row.
	got.Params.CacheLevel = tuning.CacheAggressive
	got.Params.AutoOptimization = false
	if err := s.SaveTuning(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, err := s.GetTuning(ctx)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if again.ID != settings.ID {
		t.Fatalf("update created a new row: %d vs %d", again.ID, settings.ID)
	}
	if again.Params.CacheLevel != tuning.CacheAggressive || again.Params.AutoOptimization {
		t.Fatalf("update not persisted: %+v", again.Params)
	}
}

func TestTuningStoreNormalizesOnSave(t *testing.T) {
	ctx := context.Background()
	s := NewTuningStore(newTestDB(t))

	settings := &TuningSettings{Params: tuning.Params{
		CacheLevel:        "turbo",
		DBPoolSize:        500,
		RequestTimeoutSec: 1,
	}}
	if err := s.SaveTuning(ctx, settings); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetTuning(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Params.DBPoolSize != tuning.MaxPoolSize || got.Params.RequestTimeoutSec != tuning.MinTimeoutSec {
		t.Fatalf("not clamped: %+v", got.Params)
	}
	if got.Params.CacheLevel != tuning.CacheMedium {
		t.Fatalf("unknown level stored as %s", got.Params.CacheLevel)
	}
}

func TestPricingStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewPricingStore(newTestDB(t))

	rule := &PricingRule{SKU: "vc-widget", Name: "Widget", BasePriceCents: 1000, MarginPercent: 20, Active: true}
	id, err := s.CreateRule(ctx, rule)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id <= 0 || rule.ID != id {
		t.Fatalf("create id = %d, rule.ID = %d", id, rule.ID)
	}

	got, err := s.GetRuleBySKU(ctx, " vc-widget ")
	if err != nil {
		t.Fatalf("get by sku: %v", err)
	}
	if got.Name != "Widget" || !got.Active {
		t.Fatalf("got %+v", got)
	}

	if _, err := s.GetRuleBySKU(ctx, "missing"); !errors.Is(err, ErrRuleNotFound) {
		t.Fatalf("missing sku err = %v", err)
	}

	got.BasePriceCents = 2000
	got.Active = false
	if err := s.UpdateRule(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	back, err := s.GetRuleBySKU(ctx, "vc-widget")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if back.BasePriceCents != 2000 || back.Active {
		t.Fatalf("update not persisted: %+v", back)
	}

	if err := s.UpdateRule(ctx, &PricingRule{ID: 9999, SKU: "x"}); !errors.Is(err, ErrRuleNotFound) {
		t.Fatalf("update missing err = %v", err)
	}

	rules, err := s.ListRules(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("list len = %d", len(rules))
	}
}

func TestAuditStoreLogAndRecent(t *testing.T) {
	ctx := context.Background()
	s := NewAuditStore(newTestDB(t))

	if err := s.Log(ctx, "operator", "tuning.apply", "auto=true"); err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := s.Log(ctx, "auto-optimizer", "tuning.auto_adjust", "cache_level medium -> high"); err != nil {
		t.Fatalf("log: %v", err)
	}
	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Action != "tuning.auto_adjust" {
		t.Fatalf("newest first expected, got %+v", entries[0])
	}
}
