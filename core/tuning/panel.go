package tuning

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

// ErrApplyInFlight is returned when Apply is invoked while a prior
// submission has not settled yet.
var ErrApplyInFlight = errors.New("tuning apply already in flight")

const (
	msgApplied     = "Optimization settings applied"
	msgApplyFailed = "Failed to apply optimization settings"
)

// Notifier receives user-facing feedback from the panel.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Panel is the owned view-model behind the performance tuning controls.
// Control values live here, not in any rendering layer; setters behave like
// the range-restricted controls they back, so values are clamped on the way
// in and the paired labels always mirror the current value.
type Panel struct {
	mu           sync.Mutex
	params       Params
	poolLabel    string
	timeoutLabel string
	submitting   bool

	submitter    Submitter
	notifier     Notifier
	applyTimeout time.Duration
}

type PanelOption func(*Panel)

// WithApplyTimeout bounds each Apply call; zero disables the bound.
func WithApplyTimeout(d time.Duration) PanelOption {
	return func(p *Panel) {
		if d > 0 {
			p.applyTimeout = d
		}
	}
}

func NewPanel(submitter Submitter, notifier Notifier, opts ...PanelOption) *Panel {
	p := &Panel{
		submitter: submitter,
		notifier:  notifier,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.resetLocked()
	return p
}

func (p *Panel) SetAutoOptimization(on bool) {
	p.mu.Lock()
	p.params.AutoOptimization = on
	p.mu.Unlock()
}

func (p *Panel) SetCacheLevel(level CacheLevel) {
	lvl, _ := ParseCacheLevel(string(level))
	p.mu.Lock()
	p.params.CacheLevel = lvl
	p.mu.Unlock()
}

func (p *Panel) SetPoolSize(n int) {
	p.mu.Lock()
	p.params.DBPoolSize = clampInt(n, MinPoolSize, MaxPoolSize)
	p.poolLabel = strconv.Itoa(p.params.DBPoolSize)
	p.mu.Unlock()
}

func (p *Panel) SetRequestTimeout(sec int) {
	p.mu.Lock()
	p.params.RequestTimeoutSec = clampInt(sec, MinTimeoutSec, MaxTimeoutSec)
	p.timeoutLabel = strconv.Itoa(p.params.RequestTimeoutSec)
	p.mu.Unlock()
}

func (p *Panel) PoolSizeLabel() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.poolLabel
}

func (p *Panel) RequestTimeoutLabel() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeoutLabel
}

// Snapshot returns the current control values.
func (p *Panel) Snapshot() Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

func (p *Panel) Submitting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitting
}

// ResetDefaults restores the fixed defaults and both labels. Local only;
// idempotent.
func (p *Panel) ResetDefaults() {
	p.mu.Lock()
	p.resetLocked()
	p.mu.Unlock()
}

func (p *Panel) resetLocked() {
	p.params = Defaults()
	p.poolLabel = strconv.Itoa(p.params.DBPoolSize)
	p.timeoutLabel = strconv.Itoa(p.params.RequestTimeoutSec)
}

// Apply snapshots the control values and submits them once. A second Apply
// while one is outstanding returns ErrApplyInFlight without touching the
// network. Transport errors surface a generic failure message; a
// success=false verdict surfaces the server's message. Control values are
// never mutated by the outcome.
func (p *Panel) Apply(ctx context.Context) error {
	p.mu.Lock()
	if p.submitting {
		p.mu.Unlock()
		return ErrApplyInFlight
	}
	p.submitting = true
	params := p.params
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.submitting = false
		p.mu.Unlock()
	}()

	if p.applyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.applyTimeout)
		defer cancel()
	}

	result, err := p.submitter.Submit(ctx, params)
	if err != nil {
		p.notify(false, msgApplyFailed)
		return err
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = msgApplyFailed
		}
		p.notify(false, msg)
		return nil
	}
	msg := result.Message
	if msg == "" {
		msg = msgApplied
	}
	p.notify(true, msg)
	return nil
}

func (p *Panel) notify(ok bool, msg string) {
	if p.notifier == nil {
		return
	}
	if ok {
		p.notifier.Success(msg)
		return
	}
	p.notifier.Failure(msg)
}
