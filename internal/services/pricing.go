package services

import (
	"context"

	"github.com/deskhive/apiserver/types"
)

// PricingRuleRepository defines persistence operations for rate-card rules.
type PricingRuleRepository interface {
	Create(ctx context.Context, rule types.PricingRule) (types.PricingRule, error)
	List(ctx context.Context) ([]types.PricingRule, error)
}

// PricingRuleService manages rate-card rows. The multipliers are stored
// verbatim; nothing here computes prices.
type PricingRuleService struct {
	repo PricingRuleRepository
}

func NewPricingRuleService(repo PricingRuleRepository) *PricingRuleService {
	return &PricingRuleService{repo: repo}
}

func (s *PricingRuleService) Create(ctx context.Context, rule types.PricingRule) (types.PricingRule, error) {
	if rule.Currency == "" {
		rule.Currency = types.DefaultCurrency
	}
	return s.repo.Create(ctx, rule)
}

func (s *PricingRuleService) List(ctx context.Context) ([]types.PricingRule, error) {
	return s.repo.List(ctx)
}
