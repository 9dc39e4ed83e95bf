package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/deskhive/apiserver/types"
)

// PricingRuleRepository handles persistence for rate-card rules.
type PricingRuleRepository struct {
	db *sql.DB
}

func NewPricingRuleRepository(db *sql.DB) *PricingRuleRepository {
	return &PricingRuleRepository{db: db}
}

func (r *PricingRuleRepository) Create(ctx context.Context, rule types.PricingRule) (types.PricingRule, error) {
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	const query = `
		INSERT INTO pricing_rules (location_id, space_id, plan, base_rate, currency,
			weekend_multiplier, peak_hour_multiplier, holiday_multiplier, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		rule.LocationID,
		rule.SpaceID,
		rule.Plan,
		rule.BaseRate,
		rule.Currency,
		rule.WeekendMultiplier,
		rule.PeakHourMultiplier,
		rule.HolidayMultiplier,
		rule.Active,
		rule.CreatedAt,
		rule.UpdatedAt,
	).Scan(&rule.ID); err != nil {
		return types.PricingRule{}, err
	}
	return rule, nil
}

func (r *PricingRuleRepository) List(ctx context.Context) ([]types.PricingRule, error) {
	const query = `
		SELECT id, location_id, space_id, plan, base_rate, currency,
			weekend_multiplier, peak_hour_multiplier, holiday_multiplier, active, created_at, updated_at
		FROM pricing_rules
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]types.PricingRule, 0)
	for rows.Next() {
		var rule types.PricingRule
		if err := rows.Scan(
			&rule.ID,
			&rule.LocationID,
			&rule.SpaceID,
			&rule.Plan,
			&rule.BaseRate,
			&rule.Currency,
			&rule.WeekendMultiplier,
			&rule.PeakHourMultiplier,
			&rule.HolidayMultiplier,
			&rule.Active,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
