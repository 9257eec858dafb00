package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"app/internal/model"
	"app/internal/tier"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrQuotaExhausted is returned by Commit when the account's quota is
// exhausted at commit time and the request carries no overage consent.
var ErrQuotaExhausted = errors.New("quota_exhausted")

// CommitResult reports the counter state after a successful usage commit.
type CommitResult struct {
	MonthlyCount int
	DailyCount   int
	// Overage is set when the committed unit exceeded quota and was charged.
	Overage *model.OverageEvent
}

// UsageRepository tracks repurpose units against monthly and daily quotas.
// Commit is the only writer; both counters and the overage ledger move in a
// single transaction so concurrent requests can never oversell the last
// remaining unit.
type UsageRepository interface {
	// DailyCount returns the account's usage for the given UTC day, 0 when
	// no row exists yet.
	DailyCount(ctx context.Context, accountID string, day time.Time) (int, error)
	// Commit atomically re-checks the limits, increments the monthly and
	// daily counters and, when the unit exceeds quota, appends an overage
	// ledger row and enqueues it for settlement. Returns ErrQuotaExhausted
	// (and commits nothing) when quota is exhausted without overage consent.
	Commit(ctx context.Context, accountID string, day time.Time, policy tier.Policy, wantsOverage bool) (*CommitResult, error)
}

type usageRepo struct {
	pool         *pgxpool.Pool
	overageQueue string
}

// NewUsageRepo creates a new UsageRepository. overageQueue names the pgmq
// queue the settlement worker drains.
func NewUsageRepo(pool *pgxpool.Pool, overageQueue string) UsageRepository {
	return &usageRepo{pool: pool, overageQueue: overageQueue}
}

func (r *usageRepo) DailyCount(ctx context.Context, accountID string, day time.Time) (int, error) {
	const q = `SELECT count FROM daily_usage WHERE account_id = $1 AND day = $2`
	var count int
	err := r.pool.QueryRow(ctx, q, accountID, day.UTC().Truncate(24*time.Hour)).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("counting daily usage for account %s: %w", accountID, err)
	}
	return count, nil
}

func (r *usageRepo) Commit(ctx context.Context, accountID string, day time.Time, policy tier.Policy, wantsOverage bool) (*CommitResult, error) {
	dayUTC := day.UTC().Truncate(24 * time.Hour)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, fmt.Errorf("starting usage commit transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// The account row lock serializes commits per account; pre-checks done
	// outside this transaction are advisory only.
	var monthly int
	const lockQ = `SELECT monthly_usage_count FROM accounts WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRow(ctx, lockQ, accountID).Scan(&monthly); err != nil {
		return nil, fmt.Errorf("locking account %s for usage commit: %w", accountID, err)
	}

	const dailyQ = `
        INSERT INTO daily_usage (account_id, day, count)
        VALUES ($1, $2, 0)
        ON CONFLICT (account_id, day) DO UPDATE SET count = daily_usage.count
        RETURNING count
    `
	var daily int
	if err := tx.QueryRow(ctx, dailyQ, accountID, dayUTC).Scan(&daily); err != nil {
		return nil, fmt.Errorf("reading daily usage for account %s: %w", accountID, err)
	}

	monthlyExceeded := policy.MonthlyBounded() && monthly >= policy.MonthlyLimit
	dailyExceeded := policy.DailyBounded() && daily >= policy.DailyLimit
	exceeded := monthlyExceeded || dailyExceeded
	if exceeded && !wantsOverage {
		return nil, ErrQuotaExhausted
	}

	const incMonthlyQ = `
        UPDATE accounts
        SET monthly_usage_count = monthly_usage_count + 1, updated_at = NOW()
        WHERE id = $1
        RETURNING monthly_usage_count
    `
	if err := tx.QueryRow(ctx, incMonthlyQ, accountID).Scan(&monthly); err != nil {
		return nil, fmt.Errorf("incrementing monthly usage for account %s: %w", accountID, err)
	}

	const incDailyQ = `
        UPDATE daily_usage SET count = count + 1
        WHERE account_id = $1 AND day = $2
        RETURNING count
    `
	if err := tx.QueryRow(ctx, incDailyQ, accountID, dayUTC).Scan(&daily); err != nil {
		return nil, fmt.Errorf("incrementing daily usage for account %s: %w", accountID, err)
	}

	result := &CommitResult{MonthlyCount: monthly, DailyCount: daily}
	if exceeded {
		const overageQ = `
            INSERT INTO overage_events (account_id, amount_cents, count, status)
            VALUES ($1, $2, 1, 'pending')
            RETURNING id, account_id, amount_cents, count, status, created_at
        `
		var ev model.OverageEvent
		err := tx.QueryRow(ctx, overageQ, accountID, policy.OverageRateCents).Scan(
			&ev.ID, &ev.AccountID, &ev.AmountCents, &ev.Count, &ev.Status, &ev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("recording overage for account %s: %w", accountID, err)
		}

		// Enqueue settlement in the same transaction: the ledger row and its
		// settlement message appear together or not at all.
		payload, err := json.Marshal(map[string]any{
			"event_id":     ev.ID,
			"account_id":   ev.AccountID,
			"amount_cents": ev.AmountCents,
			"count":        ev.Count,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal settlement payload: %w", err)
		}
		if _, err := tx.Exec(ctx, "SELECT pgmq.send($1, $2::jsonb, 0)", r.overageQueue, string(payload)); err != nil {
			return nil, fmt.Errorf("enqueue settlement for overage %s: %w", ev.ID, err)
		}
		result.Overage = &ev
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing usage for account %s: %w", accountID, err)
	}
	return result, nil
}
