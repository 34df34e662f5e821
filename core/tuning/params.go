package tuning

import "strings"

// CacheLevel selects the quote-cache sizing profile.
type CacheLevel string

const (
	CacheLow        CacheLevel = "low"
	CacheMedium     CacheLevel = "medium"
	CacheHigh       CacheLevel = "high"
	CacheAggressive CacheLevel = "aggressive"
)

const (
	MinPoolSize   = 5
	MaxPoolSize   = 50
	MinTimeoutSec = 5
	MaxTimeoutSec = 120

	DefaultPoolSize   = 20
	DefaultTimeoutSec = 30
)

// Params are the operator-adjustable optimization knobs.
type Params struct {
	AutoOptimization  bool       `json:"auto_optimization"`
	CacheLevel        CacheLevel `json:"cache_level"`
	DBPoolSize        int        `json:"db_pool_size"`
	RequestTimeoutSec int        `json:"request_timeout"`
}

func Defaults() Params {
	return Params{
		AutoOptimization:  false,
		CacheLevel:        CacheMedium,
		DBPoolSize:        DefaultPoolSize,
		RequestTimeoutSec: DefaultTimeoutSec,
	}
}

func ParseCacheLevel(s string) (CacheLevel, bool) {
	switch CacheLevel(strings.ToLower(strings.TrimSpace(s))) {
	case CacheLow:
		return CacheLow, true
	case CacheMedium:
		return CacheMedium, true
	case CacheHigh:
		return CacheHigh, true
	case CacheAggressive:
		return CacheAggressive, true
	default:
		return CacheMedium, false
	}
}

// Next returns the level one step wider; aggressive is the ceiling.
func (c CacheLevel) Next() CacheLevel {
	switch c {
	case CacheLow:
		return CacheMedium
	case CacheMedium:
		return CacheHigh
	case CacheHigh:
		return CacheAggressive
	default:
		return CacheAggressive
	}
}

// Normalize clamps out-of-range values instead of rejecting them; unknown
// cache levels collapse to medium.
func Normalize(p Params) Params {
	if lvl, ok := ParseCacheLevel(string(p.CacheLevel)); ok {
		p.CacheLevel = lvl
	} else {
		p.CacheLevel = CacheMedium
	}
	p.DBPoolSize = clampInt(p.DBPoolSize, MinPoolSize, MaxPoolSize)
	p.RequestTimeoutSec = clampInt(p.RequestTimeoutSec, MinTimeoutSec, MaxTimeoutSec)
	return p
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
