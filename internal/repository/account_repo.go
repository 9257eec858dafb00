package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAccountNotFound is returned when no account exists for an ID.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository reads account records. Tier, subscription status and
// consent flags are owned by the account subsystem; this service only reads
// them (the monthly counter is incremented by the usage repository).
type AccountRepository interface {
	GetAccount(ctx context.Context, accountID string) (*model.Account, error)
}

type accountRepo struct {
	pool *pgxpool.Pool
}

// NewAccountRepo creates a new AccountRepository.
func NewAccountRepo(pool *pgxpool.Pool) AccountRepository {
	return &accountRepo{pool: pool}
}

func (r *accountRepo) GetAccount(ctx context.Context, accountID string) (*model.Account, error) {
	const q = `
        SELECT id, email, tier, subscription_status, monthly_usage_count,
               overage_consent, auto_overage, preferred_platforms, created_at, updated_at
        FROM accounts
        WHERE id = $1
    `
	var a model.Account
	err := r.pool.QueryRow(ctx, q, accountID).Scan(
		&a.ID,
		&a.Email,
		&a.Tier,
		&a.SubscriptionStatus,
		&a.MonthlyUsageCount,
		&a.OverageConsent,
		&a.AutoOverage,
		&a.PreferredPlatforms,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch account %s: %w", accountID, err)
	}
	return &a, nil
}
