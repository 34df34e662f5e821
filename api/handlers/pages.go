package handlers

import (
	"net/http"

	"vectorcraft-admin/core/perf"
	"vectorcraft-admin/core/pricing"
	"vectorcraft-admin/core/store"
	"vectorcraft-admin/core/tuning"
	"vectorcraft-admin/core/utils"
	"vectorcraft-admin/web"
)

type PagesHandler struct {
	optimizer  *tuning.Optimizer
	collector  *perf.Collector
	pricingSvc *pricing.Service
	logger     *utils.Logger
}

func NewPagesHandler(optimizer *tuning.Optimizer, collector *perf.Collector, pricingSvc *pricing.Service, logger *utils.Logger) *PagesHandler {
	return &PagesHandler{
		optimizer:  optimizer,
		collector:  collector,
		pricingSvc: pricingSvc,
		logger:     logger,
	}
}

type performancePageData struct {
	Params             tuning.Params
	Metrics            perf.Snapshot
	CacheHitRatePct    float64
	OptimizationStatus string
	Recommendations    []perf.Recommendation
	CacheLevels        []tuning.CacheLevel
	MinPoolSize        int
	MaxPoolSize        int
	MinTimeoutSec      int
	MaxTimeoutSec      int
}

func (h *PagesHandler) Performance(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.collector.Latest()
	if !ok {
		snap = h.collector.Sample()
	}
	params := h.optimizer.Current()
	data := performancePageData{
		Params:             params,
		Metrics:            snap,
		CacheHitRatePct:    snap.CacheHitRate * 100,
		OptimizationStatus: perf.Status(snap, params),
		Recommendations:    perf.Recommendations(snap, params),
		CacheLevels:        []tuning.CacheLevel{tuning.CacheLow, tuning.CacheMedium, tuning.CacheHigh, tuning.CacheAggressive},
		MinPoolSize:        tuning.MinPoolSize,
		MaxPoolSize:        tuning.MaxPoolSize,
		MinTimeoutSec:      tuning.MinTimeoutSec,
		MaxTimeoutSec:      tuning.MaxTimeoutSec,
	}
	h.render(w, "performance.html", data)
}

type pricingPageRow struct {
	store.PricingRule
	EffectiveCents int64
}

func (h *PagesHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	rules, err := h.pricingSvc.ListRules(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("pricing page: %v", err)
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	rows := make([]pricingPageRow, 0, len(rules))
	for _, rule := range rules {
		rows = append(rows, pricingPageRow{
			PricingRule:    rule,
			EffectiveCents: pricing.EffectivePriceCents(rule.BasePriceCents, rule.MarginPercent),
		})
	}
	h.render(w, "pricing.html", map[string]any{"Rules": rows})
}

func (h *PagesHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Render(w, name, data); err != nil && h.logger != nil {
		h.logger.Errorf("render %s: %v", name, err)
	}
}
