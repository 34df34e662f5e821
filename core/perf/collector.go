package perf

import (
	"context"
	"database/sql"
	"runtime"
	"sync"
	"time"

	"vectorcraft-admin/core/store"
	"vectorcraft-admin/core/tuning"
	"vectorcraft-admin/core/utils"

	"github.com/robfig/cron/v3"
)

// Snapshot is one sample of runtime health, shown on the performance page
// and exported to Prometheus.
type Snapshot struct {
	TakenAt         time.Time `json:"taken_at"`
	Goroutines      int       `json:"goroutines"`
	HeapAllocBytes  uint64    `json:"heap_alloc_bytes"`
	GCPauseMs       float64   `json:"gc_pause_ms"`
	CacheHitRate    float64   `json:"cache_hit_rate"`
	DBOpenConns     int       `json:"db_open_conns"`
	DBInUse         int       `json:"db_in_use"`
	PoolUtilization float64   `json:"pool_utilization"`
}

// Collector samples on a cron schedule and keeps a bounded window. When
// auto-optimization is enabled it feeds samples back into the optimizer.
type Collector struct {
	db          *sql.DB
	hitRate     func() float64
	optimizer   *tuning.Optimizer
	tuningStore store.TuningStore
	audits      store.AuditStore
	logger      *utils.Logger

	schedule   string
	windowSize int

	mu     sync.Mutex
	window []Snapshot

	cron *cron.Cron
}

func NewCollector(db *sql.DB, hitRate func() float64, optimizer *tuning.Optimizer, tuningStore store.TuningStore, audits store.AuditStore, schedule string, windowSize int, logger *utils.Logger) *Collector {
	if windowSize <= 0 {
		windowSize = 120
	}
	if schedule == "" {
		schedule = "@every 5s"
	}
	return &Collector{
		db:          db,
		hitRate:     hitRate,
		optimizer:   optimizer,
		tuningStore: tuningStore,
		audits:      audits,
		logger:      logger,
		schedule:    schedule,
		windowSize:  windowSize,
	}
}

func (c *Collector) Start() error {
	if c == nil {
		return nil
	}
	c.cron = cron.New()
	if _, err := c.cron.AddFunc(c.schedule, func() { c.Sample() }); err != nil {
		return err
	}
	c.cron.Start()
	if c.logger != nil {
		c.logger.Printf("perf collector started (%s)", c.schedule)
	}
	return nil
}

func (c *Collector) Stop() {
	if c == nil || c.cron == nil {
		return
	}
	ctx := c.cron.Stop()
	<-ctx.Done()
}

// Sample takes one snapshot now, records it, and runs the auto-tuning step
// if enabled.
func (c *Collector) Sample() Snapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	snap := Snapshot{
		TakenAt:        time.Now().UTC(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: ms.HeapAlloc,
		GCPauseMs:      float64(ms.PauseNs[(ms.NumGC+255)%256]) / 1e6,
		CacheHitRate:   1,
	}
	if c.hitRate != nil {
		snap.CacheHitRate = c.hitRate()
	}
	if c.db != nil {
		stats := c.db.Stats()
		snap.DBOpenConns = stats.OpenConnections
		snap.DBInUse = stats.InUse
		if stats.MaxOpenConnections > 0 {
			snap.PoolUtilization = float64(stats.InUse) / float64(stats.MaxOpenConnections)
		}
	}

	c.mu.Lock()
	c.window = append(c.window, snap)
	if len(c.window) > c.windowSize {
		c.window = c.window[len(c.window)-c.windowSize:]
	}
	c.mu.Unlock()

	c.autoTune(snap)
	return snap
}

func (c *Collector) Latest() (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.window) == 0 {
		return Snapshot{}, false
	}
	return c.window[len(c.window)-1], true
}

func (c *Collector) Window() []Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Snapshot, len(c.window))
	copy(out, c.window)
	return out
}

func (c *Collector) autoTune(snap Snapshot) {
	if c.optimizer == nil {
		return
	}
	current := c.optimizer.Current()
	if !current.AutoOptimization {
		return
	}
	next, changes := AutoTune(current, snap)
	if len(changes) == 0 {
		return
	}
	effective := c.optimizer.Apply(next)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if c.tuningStore != nil {
		settings, err := c.tuningStore.GetTuning(ctx)
		if err == nil {
			if settings == nil {
				settings = &store.TuningSettings{}
			}
			settings.Params = effective
			if err := c.tuningStore.SaveTuning(ctx, settings); err != nil && c.logger != nil {
				c.logger.Errorf("auto-tune persist: %v", err)
			}
		} else if c.logger != nil {
			c.logger.Errorf("auto-tune load: %v", err)
		}
	}
	for _, change := range changes {
		if c.logger != nil {
			c.logger.Printf("auto-tune: %s", change)
		}
		if c.audits != nil {
			_ = c.audits.Log(ctx, "auto-optimizer", "tuning.auto_adjust", change)
		}
	}
}
