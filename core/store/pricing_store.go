package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

var ErrRuleNotFound = errors.New("pricing rule not found")

type PricingStore interface {
	ListRules(ctx context.Context) ([]PricingRule, error)
	GetRuleBySKU(ctx context.Context, sku string) (*PricingRule, error)
	CreateRule(ctx context.Context, rule *PricingRule) (int64, error)
	UpdateRule(ctx context.Context, rule *PricingRule) error
}

type PricingRule struct {
	ID             int64     `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	BasePriceCents int64     `json:"base_price_cents"`
	MarginPercent  float64   `json:"margin_percent"`
	Active         bool      `json:"active"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type pricingStore struct {
	db *sql.DB
}

func NewPricingStore(db *sql.DB) PricingStore {
	return &pricingStore{db: db}
}

func (s *pricingStore) ListRules(ctx context.Context) ([]PricingRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sku, name, base_price_cents, margin_percent, active, updated_at
		FROM pricing_rules ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (s *pricingStore) GetRuleBySKU(ctx context.Context, sku string) (*PricingRule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, sku, name, base_price_cents, margin_percent, active, updated_at
		FROM pricing_rules WHERE sku=?`, strings.TrimSpace(sku))
	rule, err := scanPricingRule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (s *pricingStore) CreateRule(ctx context.Context, rule *PricingRule) (int64, error) {
	if rule == nil {
		return 0, errors.New("missing pricing rule")
	}
	rule.SKU = strings.TrimSpace(rule.SKU)
	if rule.SKU == "" {
		return 0, errors.New("sku is required")
	}
	now := time.Now().UTC()
	active := 0
	if rule.Active {
		active = 1
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO pricing_rules(sku, name, base_price_cents, margin_percent, active, updated_at)
		VALUES(?,?,?,?,?,?)`,
		rule.SKU, rule.Name, rule.BasePriceCents, rule.MarginPercent, active, now)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	rule.ID = id
	rule.UpdatedAt = now
	return id, nil
}

func (s *pricingStore) UpdateRule(ctx context.Context, rule *PricingRule) error {
	if rule == nil || rule.ID <= 0 {
		return errors.New("missing pricing rule id")
	}
	now := time.Now().UTC()
	active := 0
	if rule.Active {
		active = 1
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE pricing_rules
		SET name=?, base_price_cents=?, margin_percent=?, active=?, updated_at=?
		WHERE id=?`,
		rule.Name, rule.BasePriceCents, rule.MarginPercent, active, now, rule.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRuleNotFound
	}
	rule.UpdatedAt = now
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPricingRule(row rowScanner) (PricingRule, error) {
	var rule PricingRule
	var active int
	if err := row.Scan(&rule.ID, &rule.SKU, &rule.Name, &rule.BasePriceCents, &rule.MarginPercent, &active, &rule.UpdatedAt); err != nil {
		return PricingRule{}, err
	}
	rule.Active = active == 1
	return rule, nil
}
