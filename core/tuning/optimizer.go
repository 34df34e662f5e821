package tuning

import (
	"database/sql"
	"sync"
	"time"

	"vectorcraft-admin/core/utils"
)

// LevelSetter is implemented by caches whose sizing follows the cache level.
type LevelSetter interface {
	SetLevel(level CacheLevel)
}

// Optimizer holds the effective parameter set and pushes it into the
// resources it governs: the sql pool and the quote cache. Request timeout is
// exposed for the HTTP layer to consult per request.
type Optimizer struct {
	mu      sync.Mutex
	current Params

	db     *sql.DB
	cache  LevelSetter
	logger *utils.Logger
}

func NewOptimizer(db *sql.DB, cache LevelSetter, logger *utils.Logger) *Optimizer {
	o := &Optimizer{
		db:     db,
		cache:  cache,
		logger: logger,
	}
	o.Apply(Defaults())
	return o
}

// Apply normalizes and installs a parameter set, returning the effective
// (clamped) values.
func (o *Optimizer) Apply(p Params) Params {
	if o == nil {
		return Normalize(p)
	}
	effective := Normalize(p)
	o.mu.Lock()
	o.current = effective
	o.mu.Unlock()

	if o.db != nil {
		o.db.SetMaxOpenConns(effective.DBPoolSize)
		idle := effective.DBPoolSize / 2
		if idle < 1 {
			idle = 1
		}
		o.db.SetMaxIdleConns(idle)
	}
	if o.cache != nil {
		o.cache.SetLevel(effective.CacheLevel)
	}
	if o.logger != nil {
		o.logger.Printf("tuning applied: auto=%t cache=%s pool=%d timeout=%ds",
			effective.AutoOptimization, effective.CacheLevel, effective.DBPoolSize, effective.RequestTimeoutSec)
	}
	return effective
}

func (o *Optimizer) Current() Params {
	if o == nil {
		return Defaults()
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

func (o *Optimizer) RequestTimeout() time.Duration {
	return time.Duration(o.Current().RequestTimeoutSec) * time.Second
}
