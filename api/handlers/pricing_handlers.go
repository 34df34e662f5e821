package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"vectorcraft-admin/core/pricing"
	"vectorcraft-admin/core/store"
	"vectorcraft-admin/core/utils"

	"github.com/go-chi/chi/v5"
)

type PricingHandler struct {
	svc    *pricing.Service
	logger *utils.Logger
}

func NewPricingHandler(svc *pricing.Service, logger *utils.Logger) *PricingHandler {
	return &PricingHandler{svc: svc, logger: logger}
}

type pricingRulePayload struct {
	SKU            string  `json:"sku"`
	Name           string  `json:"name"`
	BasePriceCents int64   `json:"base_price_cents"`
	MarginPercent  float64 `json:"margin_percent"`
	Active         *bool   `json:"active"`
}

func (h *PricingHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.ListRules(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("pricing list: %v", err)
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": rules})
}

func (h *PricingHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var payload pricingRulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.SKU) == "" {
		http.Error(w, "sku is required", http.StatusBadRequest)
		return
	}
	rule := &store.PricingRule{
		SKU:            payload.SKU,
		Name:           payload.Name,
		BasePriceCents: payload.BasePriceCents,
		MarginPercent:  payload.MarginPercent,
		Active:         payload.Active == nil || *payload.Active,
	}
	if _, err := h.svc.CreateRule(r.Context(), currentActor(r), rule); err != nil {
		if h.logger != nil {
			h.logger.Errorf("pricing create: %v", err)
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

func (h *PricingHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	var payload pricingRulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	rule := &store.PricingRule{
		ID:             id,
		SKU:            payload.SKU,
		Name:           payload.Name,
		BasePriceCents: payload.BasePriceCents,
		MarginPercent:  payload.MarginPercent,
		Active:         payload.Active == nil || *payload.Active,
	}
	if err := h.svc.UpdateRule(r.Context(), currentActor(r), rule); err != nil {
		if errors.Is(err, store.ErrRuleNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if h.logger != nil {
			h.logger.Errorf("pricing update: %v", err)
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (h *PricingHandler) QuoteSKU(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	quote, err := h.svc.Quote(r.Context(), sku)
	if err != nil {
		if errors.Is(err, store.ErrRuleNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, pricing.ErrInactiveRule) {
			http.Error(w, "rule inactive", http.StatusConflict)
			return
		}
		if h.logger != nil {
			h.logger.Errorf("pricing quote %s: %v", sku, err)
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
