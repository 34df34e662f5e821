package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"vectorcraft-admin/core/perf"
	"vectorcraft-admin/core/store"
	"vectorcraft-admin/core/tuning"
	"vectorcraft-admin/core/utils"
)

type PerformanceHandler struct {
	tuningStore store.TuningStore
	optimizer   *tuning.Optimizer
	collector   *perf.Collector
	audits      store.AuditStore
	logger      *utils.Logger
}

func NewPerformanceHandler(tuningStore store.TuningStore, optimizer *tuning.Optimizer, collector *perf.Collector, audits store.AuditStore, logger *utils.Logger) *PerformanceHandler {
	return &PerformanceHandler{
		tuningStore: tuningStore,
		optimizer:   optimizer,
		collector:   collector,
		audits:      audits,
		logger:      logger,
	}
}

type tuningPayload struct {
	AutoOptimization bool   `json:"auto_optimization"`
	CacheLevel       string `json:"cache_level"`
	DBPoolSize       int    `json:"db_pool_size"`
	RequestTimeout   int    `json:"request_timeout"`
}

func (h *PerformanceHandler) GetTuning(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.optimizer.Current())
}

// ApplyTuning accepts a full parameter set. Out-of-range values are clamped
// rather than rejected; the response message notes when that happened.
func (h *PerformanceHandler) ApplyTuning(w http.ResponseWriter, r *http.Request) {
	var payload tuningPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, tuning.ApplyResult{Success: false, Message: "invalid request body"})
		return
	}
	requested := tuning.Params{
		AutoOptimization:  payload.AutoOptimization,
		CacheLevel:        tuning.CacheLevel(payload.CacheLevel),
		DBPoolSize:        payload.DBPoolSize,
		RequestTimeoutSec: payload.RequestTimeout,
	}
	effective, err := h.persistAndApply(r, requested)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, tuning.ApplyResult{Success: false, Message: "server error"})
		return
	}
	msg := "Optimization parameters applied"
	if effective != requested {
		msg = "Optimization parameters applied (values adjusted to allowed ranges)"
	}
	_ = h.audits.Log(r.Context(), currentActor(r), "tuning.apply",
		fmt.Sprintf("auto=%t|cache=%s|pool=%d|timeout=%d",
			effective.AutoOptimization, effective.CacheLevel, effective.DBPoolSize, effective.RequestTimeoutSec))
	writeJSON(w, http.StatusOK, tuning.ApplyResult{Success: true, Message: msg})
}

func (h *PerformanceHandler) ResetTuning(w http.ResponseWriter, r *http.Request) {
	effective, err := h.persistAndApply(r, tuning.Defaults())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, tuning.ApplyResult{Success: false, Message: "server error"})
		return
	}
	_ = h.audits.Log(r.Context(), currentActor(r), "tuning.reset", "")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Optimization parameters reset to defaults",
		"params":  effective,
	})
}

// Snapshot feeds the performance page: live metrics, the effective
// parameters, and the advisory list.
func (h *PerformanceHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.collector.Latest()
	if !ok {
		snap = h.collector.Sample()
	}
	params := h.optimizer.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"real_time_metrics":            snap,
		"optimization_status":          perf.Status(snap, params),
		"tuning_params":                params,
		"optimization_recommendations": perf.Recommendations(snap, params),
	})
}

func (h *PerformanceHandler) persistAndApply(r *http.Request, requested tuning.Params) (tuning.Params, error) {
	settings, err := h.tuningStore.GetTuning(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("tuning load: %v", err)
		}
		return tuning.Params{}, err
	}
	if settings == nil {
		settings = &store.TuningSettings{}
	}
	settings.Params = requested
	if err := h.tuningStore.SaveTuning(r.Context(), settings); err != nil {
		if h.logger != nil {
			h.logger.Errorf("tuning save: %v", err)
		}
		return tuning.Params{}, err
	}
	return h.optimizer.Apply(settings.Params), nil
}
