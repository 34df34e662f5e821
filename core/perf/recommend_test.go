package perf

import (
	"testing"

	"vectorcraft-admin/core/tuning"
)

func TestAutoTuneWidensCacheOnLowHitRate(t *testing.T) {
	p := tuning.Defaults()
	next, changes := AutoTune(p, Snapshot{CacheHitRate: 0.2})
	if next.CacheLevel != tuning.CacheHigh {
		t.Fatalf("cache level = %s, want high", next.CacheLevel)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %v", changes)
	}
}

func TestAutoTuneStopsAtAggressive(t *testing.T) {
	p := tuning.Defaults()
	p.CacheLevel = tuning.CacheAggressive
	next, changes := AutoTune(p, Snapshot{CacheHitRate: 0.1})
	if next.CacheLevel != tuning.CacheAggressive {
		t.Fatalf("cache level = %s", next.CacheLevel)
	}
	if len(changes) != 0 {
		t.Fatalf("changes = %v", changes)
	}
}

func TestAutoTuneGrowsBusyPool(t *testing.T) {
	p := tuning.Defaults()
	next, changes := AutoTune(p, Snapshot{CacheHitRate: 1, PoolUtilization: 0.95})
	if next.DBPoolSize != tuning.DefaultPoolSize+5 {
		t.Fatalf("pool size = %d", next.DBPoolSize)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %v", changes)
	}

	// Never past the ceiling.
	p.DBPoolSize = tuning.MaxPoolSize
	next, changes = AutoTune(p, Snapshot{CacheHitRate: 1, PoolUtilization: 0.95})
	if next.DBPoolSize != tuning.MaxPoolSize || len(changes) != 0 {
		t.Fatalf("pool size = %d, changes = %v", next.DBPoolSize, changes)
	}
}

func TestAutoTuneShrinksIdlePool(t *testing.T) {
	p := tuning.Defaults()
	next, changes := AutoTune(p, Snapshot{CacheHitRate: 1, PoolUtilization: 0.05})
	if next.DBPoolSize != tuning.DefaultPoolSize-5 {
		t.Fatalf("pool size = %d", next.DBPoolSize)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %v", changes)
	}

	// Utilization of exactly zero means no samples, so leave the pool alone.
	next, changes = AutoTune(tuning.Defaults(), Snapshot{CacheHitRate: 1, PoolUtilization: 0})
	if next.DBPoolSize != tuning.DefaultPoolSize || len(changes) != 0 {
		t.Fatalf("pool size = %d, changes = %v", next.DBPoolSize, changes)
	}
}

func TestRecommendations(t *testing.T) {
	p := tuning.Defaults()

	recs := Recommendations(Snapshot{CacheHitRate: 1}, p)
	if len(recs) != 0 {
		t.Fatalf("healthy snapshot produced %v", recs)
	}

	recs = Recommendations(Snapshot{CacheHitRate: 0.2, PoolUtilization: 0.9, GCPauseMs: 80}, p)
	if len(recs) != 3 {
		t.Fatalf("want 3 recommendations, got %v", recs)
	}
	for _, r := range recs {
		if r.Severity != "warning" {
			t.Fatalf("severity = %s for %q", r.Severity, r.Text)
		}
	}

	recs = Recommendations(Snapshot{CacheHitRate: 1, PoolUtilization: 0.1}, p)
	if len(recs) != 1 || recs[0].Severity != "info" {
		t.Fatalf("idle pool recs = %v", recs)
	}
}

func TestStatus(t *testing.T) {
	p := tuning.Defaults()
	if got := Status(Snapshot{CacheHitRate: 1}, p); got != "optimal" {
		t.Fatalf("status = %s", got)
	}
	if got := Status(Snapshot{CacheHitRate: 0.1}, p); got != "tuning-recommended" {
		t.Fatalf("status = %s", got)
	}
	p.AutoOptimization = true
	if got := Status(Snapshot{CacheHitRate: 0.1}, p); got != "auto-optimizing" {
		t.Fatalf("status = %s", got)
	}
}
