package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/ai"
	"app/internal/cache"
	"app/internal/events"
	"app/internal/metrics"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/tier"

	"github.com/rs/zerolog"
)

// Warning codes carried on an otherwise successful response. The result is
// usable; operators and callers are told which side effect did not land.
const (
	WarnUsageRead   = "usage_counters_unreadable"
	WarnPersistence = "content_generated_but_not_saved"
	WarnUsageCommit = "usage_counters_not_updated"
	WarnQuotaRaced  = "quota_exhausted_concurrently_usage_not_recorded"
)

// RepurposeParams is the orchestrator input, already decoded and
// shape-validated by the handler.
type RepurposeParams struct {
	Title        string
	Content      string
	ContentType  string
	ContentID    string // present selects the update path
	Platforms    []string
	BrandVoice   string
	Tone         string
	AllowOverage bool
	Provider     string
	Model        string
	EndpointTier string // set by tier-scoped endpoints, empty otherwise
}

// RepurposeResult is everything the caller gets back from one repurpose.
type RepurposeResult struct {
	Content       *model.ContentItem
	Usage         model.UsageSummary
	PlatformsUsed []tier.Platform
	Provider      string
	Overage       *model.OverageEvent
	Warnings      []string
}

// providerRouter is the slice of ai.Router the orchestrator needs.
type providerRouter interface {
	Pick(hint string) (ai.Generator, error)
	Available() []string
}

// RepurposeService runs the repurpose pipeline: resolve policy, enforce
// quota, resolve platforms, generate, persist, commit usage, invalidate
// cached views.
type RepurposeService interface {
	Repurpose(ctx context.Context, accountID string, params RepurposeParams) (*RepurposeResult, error)
}

type repurposeService struct {
	accounts  repository.AccountRepository
	usage     repository.UsageRepository
	content   repository.ContentRepository
	providers providerRouter
	views     *cache.Cache
	publisher events.Publisher
	topic     string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewRepurposeService wires the orchestrator. topic names the pub/sub topic
// for repurpose events.
func NewRepurposeService(
	accounts repository.AccountRepository,
	usage repository.UsageRepository,
	content repository.ContentRepository,
	providers providerRouter,
	views *cache.Cache,
	publisher events.Publisher,
	topic string,
	logger zerolog.Logger,
) RepurposeService {
	return &repurposeService{
		accounts:  accounts,
		usage:     usage,
		content:   content,
		providers: providers,
		views:     views,
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("service", "RepurposeService").Logger(),
		now:       time.Now,
	}
}

func (s *repurposeService) Repurpose(ctx context.Context, accountID string, params RepurposeParams) (*RepurposeResult, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	policy := tier.PolicyFor(tier.Tier(account.Tier))

	if params.EndpointTier != "" && params.EndpointTier != string(policy.Tier) {
		return nil, ErrTierMismatch
	}
	if !account.SubscriptionOK() {
		return nil, ErrSubscriptionRequired
	}
	if err := validateAgainstPolicy(params, policy); err != nil {
		return nil, err
	}

	wantsOverage := params.AllowOverage || account.OverageConsent || account.AutoOverage
	day := s.now().UTC()

	// Advisory gate check: reject before paying for an AI call. The commit
	// after persistence re-checks under a row lock and is authoritative.
	var warnings []string
	daily, err := s.usage.DailyCount(ctx, accountID, day)
	if err != nil {
		// Unreadable counter: fall back to the zero assumption and surface
		// the degraded state rather than failing or silently granting more.
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("Daily usage unreadable, assuming zero")
		daily = 0
		warnings = append(warnings, WarnUsageRead)
	}
	decision, qerr := Evaluate(policy, account.MonthlyUsageCount, daily, wantsOverage)
	if decision == DecisionReject {
		metrics.QuotaRejectionsTotal.WithLabelValues(string(policy.Tier), qerr.Scope).Inc()
		metrics.RepurposesTotal.WithLabelValues(string(policy.Tier), "rejected").Inc()
		return nil, qerr
	}

	platforms, err := ResolvePlatforms(params.Platforms, account.PreferredPlatforms, policy)
	if err != nil {
		return nil, err
	}

	gen, err := s.providers.Pick(params.Provider)
	if err != nil {
		return nil, err
	}

	variants := make([]model.Variant, 0, len(platforms))
	for _, pl := range platforms {
		text, err := gen.Generate(ctx, ai.Request{
			Platform:    pl,
			Title:       params.Title,
			Content:     params.Content,
			ContentType: params.ContentType,
			BrandVoice:  params.BrandVoice,
			Tone:        params.Tone,
			Model:       params.Model,
		})
		if err != nil {
			// Abort before any counter mutation or charge.
			metrics.RepurposesTotal.WithLabelValues(string(policy.Tier), "generation_failed").Inc()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		variants = append(variants, model.Variant{Platform: string(pl), Text: text})
	}

	// Generation is done and potentially billable: a caller disconnect from
	// here on must not discard the work.
	persistCtx := context.WithoutCancel(ctx)

	item, err := s.content.SaveRepurposed(persistCtx, repository.SaveParams{
		AccountID:    accountID,
		ExistingID:   params.ContentID,
		Title:        params.Title,
		OriginalText: params.Content,
		ContentType:  params.ContentType,
		Tier:         account.Tier,
		Variants:     variants,
	})
	if err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return nil, err
		}
		// Storage failed after a successful generation: hand the variants
		// back instead of discarding them, and charge nothing.
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("Persisting repurpose result failed")
		metrics.RepurposesTotal.WithLabelValues(string(policy.Tier), "persistence_degraded").Inc()
		item = &model.ContentItem{
			AccountID:    accountID,
			Title:        params.Title,
			OriginalText: params.Content,
			ContentType:  params.ContentType,
			Status:       model.ContentRepurposed,
			Tier:         account.Tier,
			Variants:     variants,
		}
		return &RepurposeResult{
			Content:       item,
			Usage:         s.summary(policy, account.MonthlyUsageCount, daily),
			PlatformsUsed: platforms,
			Provider:      gen.Name(),
			Warnings:      append(warnings, WarnPersistence),
		}, nil
	}

	monthly, dailyAfter := account.MonthlyUsageCount, daily
	var overage *model.OverageEvent
	commit, err := s.usage.Commit(persistCtx, accountID, day, policy, wantsOverage)
	switch {
	case errors.Is(err, repository.ErrQuotaExhausted):
		// Lost the race for the last unit and has no overage consent. The
		// persisted result is returned, nothing is counted, and operators
		// can reconcile from the warning.
		s.logger.Warn().Str("account_id", accountID).Msg("Quota exhausted concurrently, usage not recorded")
		warnings = append(warnings, WarnQuotaRaced)
	case err != nil:
		// A persisted result is never rolled back over a counter failure.
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("Usage commit failed after persistence")
		warnings = append(warnings, WarnUsageCommit)
	default:
		monthly, dailyAfter = commit.MonthlyCount, commit.DailyCount
		overage = commit.Overage
		if overage != nil {
			metrics.OverageChargesTotal.Inc()
		}
	}

	// Best-effort tail: cached views and downstream events never fail the
	// request.
	s.views.InvalidateAccount(accountID)
	s.publishRepurposed(persistCtx, account, item, platforms, gen.Name(), overage != nil)

	metrics.RepurposesTotal.WithLabelValues(string(policy.Tier), "ok").Inc()
	return &RepurposeResult{
		Content:       item,
		Usage:         s.summary(policy, monthly, dailyAfter),
		PlatformsUsed: platforms,
		Provider:      gen.Name(),
		Overage:       overage,
		Warnings:      warnings,
	}, nil
}

func (s *repurposeService) summary(policy tier.Policy, monthly, daily int) model.UsageSummary {
	monthlyLimit, remaining := summaryLimits(policy, monthly)
	var dailyLimit *int
	if policy.DailyBounded() {
		l := policy.DailyLimit
		dailyLimit = &l
	}
	return model.UsageSummary{
		Tier:           string(policy.Tier),
		CurrentUsage:   monthly,
		MonthlyLimit:   monthlyLimit,
		RemainingUsage: remaining,
		DailyUsage:     daily,
		DailyLimit:     dailyLimit,
	}
}

func (s *repurposeService) publishRepurposed(ctx context.Context, account *model.Account, item *model.ContentItem, platforms []tier.Platform, provider string, overage bool) {
	names := make([]string, len(platforms))
	for i, pl := range platforms {
		names[i] = string(pl)
	}
	payload, err := events.Marshal(events.RepurposeEvent{
		AccountID:  account.ID,
		ContentID:  item.ID,
		Tier:       account.Tier,
		Platforms:  names,
		Provider:   provider,
		Overage:    overage,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal repurpose event")
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := s.publisher.Publish(pubCtx, s.topic, payload); err != nil {
		s.logger.Error().Err(err).Str("topic", s.topic).Msg("Failed to publish repurpose event")
	}
}

func validateAgainstPolicy(params RepurposeParams, policy tier.Policy) error {
	if len(params.Title) > policy.MaxTitleLen {
		return &ValidationError{Reason: fmt.Sprintf("title exceeds the %d character limit for the %s tier", policy.MaxTitleLen, policy.Tier)}
	}
	if len(params.Content) > policy.MaxContentLen {
		return &ValidationError{Reason: fmt.Sprintf("content exceeds the %d character limit for the %s tier", policy.MaxContentLen, policy.Tier)}
	}
	if params.BrandVoice != "" && !policy.BrandVoice {
		return &ValidationError{Reason: fmt.Sprintf("brand voice is not available on the %s tier", policy.Tier)}
	}
	if params.Provider != "" && !policy.ProviderChoice {
		return &ValidationError{Reason: fmt.Sprintf("provider selection is not available on the %s tier", policy.Tier)}
	}
	return nil
}
