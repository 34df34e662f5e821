package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"vectorcraft-admin/core/tuning"
	"vectorcraft-admin/core/utils"

	"github.com/redis/go-redis/v9"
)

// Profile is the sizing a cache level translates to.
type Profile struct {
	TTL        time.Duration
	MaxEntries int
}

func ProfileFor(level tuning.CacheLevel) Profile {
	switch level {
	case tuning.CacheLow:
		return Profile{TTL: 30 * time.Second, MaxEntries: 256}
	case tuning.CacheHigh:
		return Profile{TTL: 10 * time.Minute, MaxEntries: 4096}
	case tuning.CacheAggressive:
		return Profile{TTL: 30 * time.Minute, MaxEntries: 16384}
	default:
		return Profile{TTL: 2 * time.Minute, MaxEntries: 1024}
	}
}

type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 1
	}
	return float64(s.Hits) / float64(total)
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// QuoteCache caches serialized price quotes. With a redis address configured
// it is redis-backed; otherwise it falls back to a bounded in-process map.
// Sizing follows the active cache level and can be retargeted at runtime.
type QuoteCache struct {
	prefix string
	rdb    *redis.Client
	logger *utils.Logger

	mu      sync.Mutex
	level   tuning.CacheLevel
	profile Profile
	entries map[string]memEntry
	order   []string

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewQuoteCache(redisAddr string, redisDB int, prefix string, logger *utils.Logger) *QuoteCache {
	c := &QuoteCache{
		prefix:  prefix,
		logger:  logger,
		level:   tuning.CacheMedium,
		profile: ProfileFor(tuning.CacheMedium),
		entries: map[string]memEntry{},
	}
	if redisAddr != "" {
		c.rdb = redis.NewClient(&redis.Options{Addr: redisAddr, DB: redisDB})
		if logger != nil {
			logger.Printf("quote cache: redis backend at %s", redisAddr)
		}
	} else if logger != nil {
		logger.Printf("quote cache: in-memory backend")
	}
	return c
}

// NewQuoteCacheWithClient wires an existing redis client; used by tests.
func NewQuoteCacheWithClient(client *redis.Client, prefix string) *QuoteCache {
	return &QuoteCache{
		prefix:  prefix,
		rdb:     client,
		level:   tuning.CacheMedium,
		profile: ProfileFor(tuning.CacheMedium),
		entries: map[string]memEntry{},
	}
}

// SetLevel retargets the sizing profile. Existing entries keep their TTL;
// the memory backend is trimmed if the new capacity is smaller.
func (c *QuoteCache) SetLevel(level tuning.CacheLevel) {
	lvl, _ := tuning.ParseCacheLevel(string(level))
	c.mu.Lock()
	c.level = lvl
	c.profile = ProfileFor(lvl)
	for len(c.order) > c.profile.MaxEntries {
		c.evictOldestLocked()
	}
	c.mu.Unlock()
}

func (c *QuoteCache) Level() tuning.CacheLevel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

func (c *QuoteCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *QuoteCache) HitRate() float64 {
	return c.Stats().HitRate()
}

// Get unmarshals a cached value into dest. The second return is false on miss.
func (c *QuoteCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, ok, err := c.getRaw(ctx, key)
	if err != nil || !ok {
		if err == nil {
			c.misses.Add(1)
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.misses.Add(1)
		return false, err
	}
	c.hits.Add(1)
	return true, nil
}

func (c *QuoteCache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ttl := c.currentProfile().TTL
	if c.rdb != nil {
		return c.rdb.Set(ctx, c.prefix+key, data, ttl).Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = memEntry{data: data, expiresAt: time.Now().Add(ttl)}
	for len(c.order) > c.profile.MaxEntries {
		c.evictOldestLocked()
	}
	return nil
}

func (c *QuoteCache) Invalidate(ctx context.Context, key string) error {
	if c.rdb != nil {
		return c.rdb.Del(ctx, c.prefix+key).Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
	return nil
}

func (c *QuoteCache) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

func (c *QuoteCache) getRaw(ctx context.Context, key string) ([]byte, bool, error) {
	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		return data, true, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		c.removeLocked(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *QuoteCache) currentProfile() Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

func (c *QuoteCache) evictOldestLocked() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *QuoteCache) removeLocked(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
