package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"vectorcraft-admin/core/cache"
	"vectorcraft-admin/core/store"
	"vectorcraft-admin/core/utils"
)

var ErrInactiveRule = errors.New("pricing rule is inactive")

// Quote is a priced SKU as served to the storefront and the admin page.
type Quote struct {
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Source         string    `json:"source"`
	QuotedAt       time.Time `json:"quoted_at"`
}

type Service struct {
	rules  store.PricingStore
	quotes *cache.QuoteCache
	audits store.AuditStore
	logger *utils.Logger
}

func NewService(rules store.PricingStore, quotes *cache.QuoteCache, audits store.AuditStore, logger *utils.Logger) *Service {
	return &Service{
		rules:  rules,
		quotes: quotes,
		audits: audits,
		logger: logger,
	}
}

// Quote returns the effective price for a SKU, served from the quote cache
// when possible.
func (s *Service) Quote(ctx context.Context, sku string) (*Quote, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, errors.New("sku is required")
	}
	if s.quotes != nil {
		var cached Quote
		ok, err := s.quotes.Get(ctx, sku, &cached)
		if err != nil && s.logger != nil {
			s.logger.Errorf("quote cache get %s: %v", sku, err)
		}
		if ok {
			cached.Source = "cache"
			return &cached, nil
		}
	}
	rule, err := s.rules.GetRuleBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if !rule.Active {
		return nil, ErrInactiveRule
	}
	q := &Quote{
		SKU:            rule.SKU,
		Name:           rule.Name,
		UnitPriceCents: EffectivePriceCents(rule.BasePriceCents, rule.MarginPercent),
		Source:         "computed",
		QuotedAt:       time.Now().UTC(),
	}
	if s.quotes != nil {
		if err := s.quotes.Set(ctx, sku, q); err != nil && s.logger != nil {
			s.logger.Errorf("quote cache set %s: %v", sku, err)
		}
	}
	return q, nil
}

func (s *Service) ListRules(ctx context.Context) ([]store.PricingRule, error) {
	return s.rules.ListRules(ctx)
}

func (s *Service) CreateRule(ctx context.Context, actor string, rule *store.PricingRule) (int64, error) {
	id, err := s.rules.CreateRule(ctx, rule)
	if err != nil {
		return 0, err
	}
	if s.audits != nil {
		_ = s.audits.Log(ctx, actor, "pricing.rule.create", "sku="+rule.SKU)
	}
	return id, nil
}

func (s *Service) UpdateRule(ctx context.Context, actor string, rule *store.PricingRule) error {
	if err := s.rules.UpdateRule(ctx, rule); err != nil {
		return err
	}
	if s.quotes != nil {
		_ = s.quotes.Invalidate(ctx, rule.SKU)
	}
	if s.audits != nil {
		_ = s.audits.Log(ctx, actor, "pricing.rule.update",
			fmt.Sprintf("sku=%s|base=%d|margin=%.2f", rule.SKU, rule.BasePriceCents, rule.MarginPercent))
	}
	return nil
}

// EffectivePriceCents applies the margin on top of the base price, rounded
// to the nearest cent.
func EffectivePriceCents(baseCents int64, marginPercent float64) int64 {
	return int64(math.Round(float64(baseCents) * (1 + marginPercent/100)))
}
