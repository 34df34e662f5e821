package perf

import (
	"fmt"

	"vectorcraft-admin/core/tuning"
)

const (
	lowHitRateThreshold = 0.5
	highPoolUtilization = 0.85
	idlePoolUtilization = 0.2
	highGCPauseMs       = 50.0
	poolStep            = 5
)

type Recommendation struct {
	Severity string `json:"severity"`
	Text     string `json:"text"`
}

// Recommendations derives the advisory list shown on the performance page.
func Recommendations(s Snapshot, p tuning.Params) []Recommendation {
	var out []Recommendation
	if s.CacheHitRate < lowHitRateThreshold && p.CacheLevel != tuning.CacheAggressive {
		out = append(out, Recommendation{
			Severity: "warning",
			Text:     fmt.Sprintf("Cache hit rate is %.0f%%; consider raising the cache level", s.CacheHitRate*100),
		})
	}
	if s.PoolUtilization > highPoolUtilization && p.DBPoolSize < tuning.MaxPoolSize {
		out = append(out, Recommendation{
			Severity: "warning",
			Text:     fmt.Sprintf("Connection pool is %.0f%% utilized; consider a larger pool", s.PoolUtilization*100),
		})
	}
	if s.PoolUtilization > 0 && s.PoolUtilization < idlePoolUtilization && p.DBPoolSize > tuning.MinPoolSize {
		out = append(out, Recommendation{
			Severity: "info",
			Text:     "Connection pool is mostly idle; a smaller pool would free resources",
		})
	}
	if s.GCPauseMs > highGCPauseMs {
		out = append(out, Recommendation{
			Severity: "warning",
			Text:     fmt.Sprintf("Last GC pause was %.1fms; heap pressure is high", s.GCPauseMs),
		})
	}
	return out
}

// Status summarizes the snapshot for the page header.
func Status(s Snapshot, p tuning.Params) string {
	if p.AutoOptimization {
		return "auto-optimizing"
	}
	if len(Recommendations(s, p)) > 0 {
		return "tuning-recommended"
	}
	return "optimal"
}

// AutoTune applies the safe subset of recommendations: it only widens the
// cache and resizes the pool within the clamped ranges. Returned change
// notes are empty when nothing was adjusted.
func AutoTune(p tuning.Params, s Snapshot) (tuning.Params, []string) {
	next := p
	var changes []string
	if s.CacheHitRate < lowHitRateThreshold && next.CacheLevel != tuning.CacheAggressive {
		from := next.CacheLevel
		next.CacheLevel = next.CacheLevel.Next()
		changes = append(changes, fmt.Sprintf("cache_level %s -> %s (hit rate %.0f%%)", from, next.CacheLevel, s.CacheHitRate*100))
	}
	if s.PoolUtilization > highPoolUtilization && next.DBPoolSize < tuning.MaxPoolSize {
		from := next.DBPoolSize
		next.DBPoolSize += poolStep
		next = tuning.Normalize(next)
		changes = append(changes, fmt.Sprintf("db_pool_size %d -> %d (utilization %.0f%%)", from, next.DBPoolSize, s.PoolUtilization*100))
	} else if s.PoolUtilization > 0 && s.PoolUtilization < idlePoolUtilization && next.DBPoolSize > tuning.MinPoolSize {
		from := next.DBPoolSize
		next.DBPoolSize -= poolStep
		next = tuning.Normalize(next)
		changes = append(changes, fmt.Sprintf("db_pool_size %d -> %d (idle pool)", from, next.DBPoolSize))
	}
	return next, changes
}
