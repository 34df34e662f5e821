package api

import (
	"vectorcraft-admin/core/cache"
	"vectorcraft-admin/core/perf"
	"vectorcraft-admin/core/tuning"

	"github.com/prometheus/client_golang/prometheus"
)

type tuningMetricsCollector struct {
	optimizer *tuning.Optimizer
	collector *perf.Collector
	quotes    *cache.QuoteCache

	autoOptDesc       *prometheus.Desc
	poolSizeDesc      *prometheus.Desc
	timeoutDesc       *prometheus.Desc
	cacheLevelDesc    *prometheus.Desc
	hitRateDesc       *prometheus.Desc
	cacheOpsDesc      *prometheus.Desc
	goroutinesDesc    *prometheus.Desc
	heapAllocDesc     *prometheus.Desc
	gcPauseDesc       *prometheus.Desc
	poolUtilDesc      *prometheus.Desc
	dbConnectionsDesc *prometheus.Desc
}

func newTuningMetricsCollector(optimizer *tuning.Optimizer, collector *perf.Collector, quotes *cache.QuoteCache) prometheus.Collector {
	return &tuningMetricsCollector{
		optimizer: optimizer,
		collector: collector,
		quotes:    quotes,
		autoOptDesc: prometheus.NewDesc(
			"vectorcraft_tuning_auto_optimization_enabled",
			"Whether automatic optimization is enabled (1) or not (0).",
			nil,
			nil,
		),
		poolSizeDesc: prometheus.NewDesc(
			"vectorcraft_tuning_db_pool_size",
			"Configured database connection pool size.",
			nil,
			nil,
		),
		timeoutDesc: prometheus.NewDesc(
			"vectorcraft_tuning_request_timeout_seconds",
			"Configured request timeout in seconds.",
			nil,
			nil,
		),
		cacheLevelDesc: prometheus.NewDesc(
			"vectorcraft_tuning_cache_level",
			"Active cache level, one series per level with value 1 for the active one.",
			[]string{"level"},
			nil,
		),
		hitRateDesc: prometheus.NewDesc(
			"vectorcraft_cache_hit_rate",
			"Quote cache hit rate over process lifetime.",
			nil,
			nil,
		),
		cacheOpsDesc: prometheus.NewDesc(
			"vectorcraft_cache_lookups_total",
			"Total quote cache lookups by outcome.",
			[]string{"outcome"},
			nil,
		),
		goroutinesDesc: prometheus.NewDesc(
			"vectorcraft_perf_goroutines",
			"Goroutine count from the latest performance sample.",
			nil,
			nil,
		),
		heapAllocDesc: prometheus.NewDesc(
			"vectorcraft_perf_heap_alloc_bytes",
			"Heap bytes allocated from the latest performance sample.",
			nil,
			nil,
		),
		gcPauseDesc: prometheus.NewDesc(
			"vectorcraft_perf_gc_pause_ms",
			"Most recent GC pause in milliseconds.",
			nil,
			nil,
		),
		poolUtilDesc: prometheus.NewDesc(
			"vectorcraft_perf_db_pool_utilization",
			"Fraction of the database pool in use.",
			nil,
			nil,
		),
		dbConnectionsDesc: prometheus.NewDesc(
			"vectorcraft_perf_db_connections",
			"Database connections from the latest sample.",
			[]string{"state"},
			nil,
		),
	}
}

func (c *tuningMetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.autoOptDesc
	ch <- c.poolSizeDesc
	ch <- c.timeoutDesc
	ch <- c.cacheLevelDesc
	ch <- c.hitRateDesc
	ch <- c.cacheOpsDesc
	ch <- c.goroutinesDesc
	ch <- c.heapAllocDesc
	ch <- c.gcPauseDesc
	ch <- c.poolUtilDesc
	ch <- c.dbConnectionsDesc
}

func (c *tuningMetricsCollector) Collect(ch chan<- prometheus.Metric) {
	if c == nil {
		return
	}
	if c.optimizer != nil {
		params := c.optimizer.Current()
		auto := 0.0
		if params.AutoOptimization {
			auto = 1.0
		}
		ch <- prometheus.MustNewConstMetric(c.autoOptDesc, prometheus.GaugeValue, auto)
		ch <- prometheus.MustNewConstMetric(c.poolSizeDesc, prometheus.GaugeValue, float64(params.DBPoolSize))
		ch <- prometheus.MustNewConstMetric(c.timeoutDesc, prometheus.GaugeValue, float64(params.RequestTimeoutSec))
		for _, level := range []tuning.CacheLevel{tuning.CacheLow, tuning.CacheMedium, tuning.CacheHigh, tuning.CacheAggressive} {
			active := 0.0
			if level == params.CacheLevel {
				active = 1.0
			}
			ch <- prometheus.MustNewConstMetric(c.cacheLevelDesc, prometheus.GaugeValue, active, string(level))
		}
	}
	if c.quotes != nil {
		stats := c.quotes.Stats()
		ch <- prometheus.MustNewConstMetric(c.hitRateDesc, prometheus.GaugeValue, stats.HitRate())
		ch <- prometheus.MustNewConstMetric(c.cacheOpsDesc, prometheus.CounterValue, float64(stats.Hits), "hit")
		ch <- prometheus.MustNewConstMetric(c.cacheOpsDesc, prometheus.CounterValue, float64(stats.Misses), "miss")
	}
	if c.collector != nil {
		if snap, ok := c.collector.Latest(); ok {
			ch <- prometheus.MustNewConstMetric(c.goroutinesDesc, prometheus.GaugeValue, float64(snap.Goroutines))
			ch <- prometheus.MustNewConstMetric(c.heapAllocDesc, prometheus.GaugeValue, float64(snap.HeapAllocBytes))
			ch <- prometheus.MustNewConstMetric(c.gcPauseDesc, prometheus.GaugeValue, snap.GCPauseMs)
			ch <- prometheus.MustNewConstMetric(c.poolUtilDesc, prometheus.GaugeValue, snap.PoolUtilization)
			ch <- prometheus.MustNewConstMetric(c.dbConnectionsDesc, prometheus.GaugeValue, float64(snap.DBOpenConns), "open")
			ch <- prometheus.MustNewConstMetric(c.dbConnectionsDesc, prometheus.GaugeValue, float64(snap.DBInUse), "in_use")
		}
	}
}
