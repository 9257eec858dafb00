package service

import (
	"context"
	"time"

	"app/internal/cache"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/tier"

	"github.com/rs/zerolog"
)

// UsageService serves the account-facing usage and billing views.
type UsageService interface {
	Summary(ctx context.Context, accountID string) (*model.UsageSummary, error)
	Overages(ctx context.Context, accountID string, limit, offset int) ([]model.OverageEvent, error)
	// Platforms returns the account's tier name and its allowed platform set.
	Platforms(ctx context.Context, accountID string) (tierName string, allowed []string, err error)
}

type usageService struct {
	accounts repository.AccountRepository
	usage    repository.UsageRepository
	overages repository.OverageRepository
	views    *cache.Cache
	logger   zerolog.Logger
	now      func() time.Time
}

// NewUsageService creates a UsageService backed by the view cache.
func NewUsageService(
	accounts repository.AccountRepository,
	usage repository.UsageRepository,
	overages repository.OverageRepository,
	views *cache.Cache,
	logger zerolog.Logger,
) UsageService {
	return &usageService{
		accounts: accounts,
		usage:    usage,
		overages: overages,
		views:    views,
		logger:   logger.With().Str("service", "UsageService").Logger(),
		now:      time.Now,
	}
}

func (s *usageService) Summary(ctx context.Context, accountID string) (*model.UsageSummary, error) {
	if v, ok := s.views.Get(cache.Key(accountID, "usage")); ok {
		if summary, ok := v.(*model.UsageSummary); ok {
			return summary, nil
		}
	}

	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	policy := tier.PolicyFor(tier.Tier(account.Tier))

	daily, err := s.usage.DailyCount(ctx, accountID, s.now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("Daily usage unreadable for summary")
		daily = 0
	}

	monthlyLimit, remaining := summaryLimits(policy, account.MonthlyUsageCount)
	var dailyLimit *int
	if policy.DailyBounded() {
		l := policy.DailyLimit
		dailyLimit = &l
	}
	summary := &model.UsageSummary{
		Tier:           string(policy.Tier),
		CurrentUsage:   account.MonthlyUsageCount,
		MonthlyLimit:   monthlyLimit,
		RemainingUsage: remaining,
		DailyUsage:     daily,
		DailyLimit:     dailyLimit,
	}
	s.views.Set(cache.Key(accountID, "usage"), summary)
	return summary, nil
}

func (s *usageService) Overages(ctx context.Context, accountID string, limit, offset int) ([]model.OverageEvent, error) {
	return s.overages.ListByAccount(ctx, accountID, limit, offset)
}

func (s *usageService) Platforms(ctx context.Context, accountID string) (string, []string, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return "", nil, err
	}
	policy := tier.PolicyFor(tier.Tier(account.Tier))
	allowed := make([]string, len(policy.Platforms))
	for i, pl := range policy.Platforms {
		allowed[i] = string(pl)
	}
	return string(policy.Tier), allowed, nil
}
