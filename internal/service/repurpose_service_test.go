package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/ai"
	"app/internal/cache"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/tier"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	account *model.Account
	err     error
}

func (f *fakeAccountRepo) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

type fakeUsageRepo struct {
	daily         int
	dailyErr      error
	commitResult  *repository.CommitResult
	commitErr     error
	commitCalls   int
	wantedOverage bool
}

func (f *fakeUsageRepo) DailyCount(ctx context.Context, accountID string, day time.Time) (int, error) {
	return f.daily, f.dailyErr
}

func (f *fakeUsageRepo) Commit(ctx context.Context, accountID string, day time.Time, policy tier.Policy, wantsOverage bool) (*repository.CommitResult, error) {
	f.commitCalls++
	f.wantedOverage = wantsOverage
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	if f.commitResult != nil {
		return f.commitResult, nil
	}
	return &repository.CommitResult{MonthlyCount: 1, DailyCount: 1}, nil
}

type fakeContentRepo struct {
	saveErr    error
	saveCalls  int
	lastParams repository.SaveParams
}

func (f *fakeContentRepo) SaveRepurposed(ctx context.Context, params repository.SaveParams) (*model.ContentItem, error) {
	f.saveCalls++
	f.lastParams = params
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	item := &model.ContentItem{
		ID:           "content-1",
		AccountID:    params.AccountID,
		Title:        params.Title,
		OriginalText: params.OriginalText,
		ContentType:  params.ContentType,
		Status:       model.ContentRepurposed,
		Tier:         params.Tier,
		Variants:     params.Variants,
	}
	if params.ExistingID != "" {
		item.ID = params.ExistingID
	}
	return item, nil
}

func (f *fakeContentRepo) GetContent(ctx context.Context, contentID, accountID string) (*model.ContentItem, error) {
	return nil, repository.ErrContentNotFound
}

func (f *fakeContentRepo) ListContent(ctx context.Context, accountID string, limit, offset int) ([]model.ContentItem, error) {
	return nil, nil
}

func (f *fakeContentRepo) DeleteContent(ctx context.Context, contentID, accountID string) error {
	return nil
}

type fakeGenerator struct {
	name  string
	err   error
	calls int
}

func (f *fakeGenerator) Name() string    { return f.name }
func (f *fakeGenerator) Available() bool { return true }
func (f *fakeGenerator) Generate(ctx context.Context, req ai.Request) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "generated for " + string(req.Platform), nil
}

type fakeRouter struct {
	gen     *fakeGenerator
	pickErr error
}

func (f *fakeRouter) Pick(hint string) (ai.Generator, error) {
	if f.pickErr != nil {
		return nil, f.pickErr
	}
	return f.gen, nil
}

func (f *fakeRouter) Available() []string { return []string{f.gen.name} }

type recordingPublisher struct {
	topics []string
}

func (r *recordingPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	r.topics = append(r.topics, topic)
	return "msg-1", nil
}

type fixture struct {
	accounts  *fakeAccountRepo
	usage     *fakeUsageRepo
	content   *fakeContentRepo
	gen       *fakeGenerator
	router    *fakeRouter
	publisher *recordingPublisher
	svc       RepurposeService
}

func newFixture(account *model.Account) *fixture {
	f := &fixture{
		accounts:  &fakeAccountRepo{account: account},
		usage:     &fakeUsageRepo{},
		content:   &fakeContentRepo{},
		gen:       &fakeGenerator{name: "openai"},
		publisher: &recordingPublisher{},
	}
	f.router = &fakeRouter{gen: f.gen}
	f.svc = NewRepurposeService(
		f.accounts, f.usage, f.content, f.router,
		cache.New(time.Minute), f.publisher, "content-repurposed", zerolog.Nop(),
	)
	return f
}

func freeAccount() *model.Account {
	return &model.Account{
		ID:                 "acct-1",
		Tier:               "free",
		SubscriptionStatus: model.SubscriptionActive,
	}
}

func baseParams() RepurposeParams {
	return RepurposeParams{
		Title:       "My post",
		Content:     "Some source content",
		ContentType: "blog_post",
		Platforms:   []string{"twitter"},
	}
}

func TestRepurposeHappyPath(t *testing.T) {
	f := newFixture(freeAccount())

	res, err := f.svc.Repurpose(context.Background(), "acct-1", baseParams())
	require.NoError(t, err)

	assert.Equal(t, []tier.Platform{tier.PlatformTwitter}, res.PlatformsUsed)
	assert.Equal(t, "openai", res.Provider)
	assert.Nil(t, res.Overage)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.Content.Variants, 1)
	assert.Equal(t, "generated for twitter", res.Content.Variants[0].Text)
	assert.Equal(t, 1, f.usage.commitCalls)
	assert.Equal(t, 1, res.Usage.CurrentUsage)
	assert.Equal(t, []string{"content-repurposed"}, f.publisher.topics)
}

func TestRepurposeQuotaExceededWithoutConsent(t *testing.T) {
	account := freeAccount()
	account.MonthlyUsageCount = 5
	f := newFixture(account)

	_, err := f.svc.Repurpose(context.Background(), "acct-1", baseParams())

	var qerr *QuotaExceededError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "monthly", qerr.Scope)
	assert.Equal(t, 5, qerr.Current)
	assert.Equal(t, 0, f.content.saveCalls, "a rejected request must not persist anything")
	assert.Equal(t, 0, f.usage.commitCalls, "a rejected request must not touch counters")
	assert.Equal(t, 0, f.gen.calls, "a rejected request must not pay for generation")
}

func TestRepurposeOverageWhenRequested(t *testing.T) {
	account := freeAccount()
	account.MonthlyUsageCount = 5
	f := newFixture(account)
	f.usage.commitResult = &repository.CommitResult{
		MonthlyCount: 6,
		DailyCount:   1,
		Overage:      &model.OverageEvent{ID: "ov-1", AccountID: "acct-1", AmountCents: 50, Count: 1, Status: model.OverageStatusPending},
	}

	params := baseParams()
	params.AllowOverage = true
	res, err := f.svc.Repurpose(context.Background(), "acct-1", params)
	require.NoError(t, err)

	assert.True(t, f.usage.wantedOverage)
	require.NotNil(t, res.Overage)
	assert.Equal(t, 50, res.Overage.AmountCents)
	assert.Equal(t, 1, res.Overage.Count)
	assert.Equal(t, 6, res.Usage.CurrentUsage)
}

func TestRepurposeStandingConsentEnablesOverage(t *testing.T) {
	account := freeAccount()
	account.MonthlyUsageCount = 5
	account.OverageConsent = true
	f := newFixture(account)

	_, err := f.svc.Repurpose(context.Background(), "acct-1", baseParams())
	require.NoError(t, err)
	assert.True(t, f.usage.wantedOverage)
}

func TestRepurposeGenerationFailureConsumesNothing(t *testing.T) {
	f := newFixture(freeAccount())
	f.gen.err = errors.New("model overloaded")

	_, err := f.svc.Repurpose(context.Background(), "acct-1", baseParams())

	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 0, f.content.saveCalls)
	assert.Equal(t, 0, f.usage.commitCalls)
}

func TestRepurposePersistenceFailureReturnsVariants(t *testing.T) {
	f := newFixture(freeAccount())
	f.content.saveErr = errors.New("storage unavailable")

	res, err := f.svc.Repurpose(context.Background(), "acct-1", baseParams())
	require.NoError(t, err)

	assert.Contains(t, res.Warnings, WarnPersistence)
	require.Len(t, res.Content.Variants, 1)
	assert.Equal(t, "generated for twitter", res.Content.Variants[0].Text)
	assert.Equal(t, 0, f.usage.commitCalls, "unsaved work must not be charged")
}

func TestRepurposeCounterFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(freeAccount())
	f.usage.commitErr = errors.New("storage unavailable")

	res, err := f.svc.Repurpose(context.Background(), "acct-1", baseParams())
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, WarnUsageCommit)
	assert.Equal(t, "content-1", res.Content.ID)
}

func TestRepurposeCommitRaceSurfacedAsWarning(t *testing.T) {
	f := newFixture(freeAccount())
	f.usage.commitErr = repository.ErrQuotaExhausted

	res, err := f.svc.Repurpose(context.Background(), "acct-1", baseParams())
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, WarnQuotaRaced)
}

func TestRepurposeDegradedDailyReadStillServes(t *testing.T) {
	f := newFixture(freeAccount())
	f.usage.dailyErr = errors.New("storage unavailable")

	res, err := f.svc.Repurpose(context.Background(), "acct-1", baseParams())
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, WarnUsageRead)
}

func TestRepurposeTierMismatch(t *testing.T) {
	f := newFixture(freeAccount())

	params := baseParams()
	params.EndpointTier = "pro"
	_, err := f.svc.Repurpose(context.Background(), "acct-1", params)
	assert.ErrorIs(t, err, ErrTierMismatch)
}

func TestRepurposeInactivePaidSubscription(t *testing.T) {
	account := &model.Account{ID: "acct-1", Tier: "pro", SubscriptionStatus: model.SubscriptionCanceled}
	f := newFixture(account)

	_, err := f.svc.Repurpose(context.Background(), "acct-1", baseParams())
	assert.ErrorIs(t, err, ErrSubscriptionRequired)
}

func TestRepurposeForeignContentIDNotFound(t *testing.T) {
	f := newFixture(freeAccount())
	f.content.saveErr = repository.ErrContentNotFound

	params := baseParams()
	params.ContentID = "someone-elses-content"
	_, err := f.svc.Repurpose(context.Background(), "acct-1", params)

	assert.ErrorIs(t, err, repository.ErrContentNotFound)
	assert.Equal(t, 0, f.usage.commitCalls)
}

func TestRepurposePlatformIntersection(t *testing.T) {
	account := &model.Account{ID: "acct-1", Tier: "pro", SubscriptionStatus: model.SubscriptionActive}
	f := newFixture(account)

	params := baseParams()
	params.Platforms = []string{"twitter", "tiktok"}
	res, err := f.svc.Repurpose(context.Background(), "acct-1", params)
	require.NoError(t, err)

	assert.Equal(t, []tier.Platform{tier.PlatformTwitter}, res.PlatformsUsed)
	require.Len(t, f.content.lastParams.Variants, 1)
	assert.Equal(t, "twitter", f.content.lastParams.Variants[0].Platform)
}

func TestRepurposeTitleTooLongForTier(t *testing.T) {
	f := newFixture(freeAccount())

	params := baseParams()
	for len(params.Title) <= 100 {
		params.Title += " and more words"
	}
	_, err := f.svc.Repurpose(context.Background(), "acct-1", params)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRepurposeBrandVoiceGatedByTier(t *testing.T) {
	f := newFixture(freeAccount())

	params := baseParams()
	params.BrandVoice = "pirate"
	_, err := f.svc.Repurpose(context.Background(), "acct-1", params)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRepurposeProviderUnavailable(t *testing.T) {
	f := newFixture(freeAccount())
	f.router.pickErr = ai.ErrProviderUnavailable

	_, err := f.svc.Repurpose(context.Background(), "acct-1", baseParams())
	assert.ErrorIs(t, err, ai.ErrProviderUnavailable)
	assert.Equal(t, 0, f.usage.commitCalls)
}

func TestRepurposeUpdatePathKeepsContentID(t *testing.T) {
	f := newFixture(freeAccount())

	params := baseParams()
	params.ContentID = "content-7"
	res, err := f.svc.Repurpose(context.Background(), "acct-1", params)
	require.NoError(t, err)
	assert.Equal(t, "content-7", res.Content.ID)
	assert.Equal(t, "content-7", f.content.lastParams.ExistingID)
}
