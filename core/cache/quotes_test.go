package cache

import (
	"context"
	"testing"
	"time"

	"vectorcraft-admin/core/tuning"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type sample struct {
	SKU   string `json:"sku"`
	Price int64  `json:"price"`
}

func TestMemoryBackendSetGetInvalidate(t *testing.T) {
	c := NewQuoteCache("", 0, "vc:quote:", nil)
	ctx := context.Background()

	var out sample
	ok, err := c.Get(ctx, "widget", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("unexpected hit on empty cache")
	}

	if err := c.Set(ctx, "widget", sample{SKU: "widget", Price: 1999}); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err = c.Get(ctx, "widget", &out)
	if err != nil || !ok {
		t.Fatalf("get after set: ok=%v err=%v", ok, err)
	}
	if out.SKU != "widget" || out.Price != 1999 {
		t.Fatalf("got %+v", out)
	}

	if err := c.Invalidate(ctx, "widget"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	ok, _ = c.Get(ctx, "widget", &out)
	if ok {
		t.Fatalf("hit after invalidate")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestMemoryBackendEvictsOldestAtLevelChange(t *testing.T) {
	c := NewQuoteCache("", 0, "vc:quote:", nil)
	ctx := context.Background()

	limit := ProfileFor(tuning.CacheLow).MaxEntries
	for i := 0; i < limit+10; i++ {
		key := string(rune('a'+i%26)) + string(rune('0'+i/26))
		if err := c.Set(ctx, key, sample{SKU: key}); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	c.SetLevel(tuning.CacheLow)
	if got := c.Level(); got != tuning.CacheLow {
		t.Fatalf("level = %s", got)
	}

	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()
	if entries > limit {
		t.Fatalf("entries = %d, want <= %d", entries, limit)
	}
}

func TestHitRateEmptyCacheIsOne(t *testing.T) {
	s := Stats{}
	if got := s.HitRate(); got != 1 {
		t.Fatalf("empty hit rate = %v", got)
	}
	s = Stats{Hits: 3, Misses: 1}
	if got := s.HitRate(); got != 0.75 {
		t.Fatalf("hit rate = %v", got)
	}
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewQuoteCacheWithClient(client, "vc:quote:")
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "gadget", sample{SKU: "gadget", Price: 4200}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("vc:quote:gadget") {
		t.Fatalf("key not prefixed in redis")
	}

	var out sample
	ok, err := c.Get(ctx, "gadget", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.Price != 4200 {
		t.Fatalf("got %+v", out)
	}

	// Entries expire with the profile TTL.
	mr.FastForward(ProfileFor(tuning.CacheMedium).TTL + time.Second)
	ok, err = c.Get(ctx, "gadget", &out)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if ok {
		t.Fatalf("hit after TTL expiry")
	}

	if err := c.Set(ctx, "gadget", sample{SKU: "gadget"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Invalidate(ctx, "gadget"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("vc:quote:gadget") {
		t.Fatalf("key survived invalidate")
	}
}

func TestProfileForWidensWithLevel(t *testing.T) {
	low := ProfileFor(tuning.CacheLow)
	med := ProfileFor(tuning.CacheMedium)
	high := ProfileFor(tuning.CacheHigh)
	agg := ProfileFor(tuning.CacheAggressive)
	if !(low.MaxEntries < med.MaxEntries && med.MaxEntries < high.MaxEntries && high.MaxEntries < agg.MaxEntries) {
		t.Fatalf("capacities not increasing: %d %d %d %d", low.MaxEntries, med.MaxEntries, high.MaxEntries, agg.MaxEntries)
	}
	if !(low.TTL < med.TTL && med.TTL < high.TTL && high.TTL < agg.TTL) {
		t.Fatalf("TTLs not increasing")
	}
}
