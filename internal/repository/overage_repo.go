package repository

import (
	"context"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OverageRepository reads the append-only overage ledger. Rows are written
// inside the usage commit transaction; status transitions belong to the
// settlement worker.
type OverageRepository interface {
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.OverageEvent, error)
}

type overageRepo struct {
	pool *pgxpool.Pool
}

// NewOverageRepo creates a new OverageRepository.
func NewOverageRepo(pool *pgxpool.Pool) OverageRepository {
	return &overageRepo{pool: pool}
}

func (r *overageRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.OverageEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	const q = `
        SELECT id, account_id, amount_cents, count, status, created_at
        FROM overage_events
        WHERE account_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.pool.Query(ctx, q, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing overages for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var events []model.OverageEvent
	for rows.Next() {
		var ev model.OverageEvent
		if err := rows.Scan(&ev.ID, &ev.AccountID, &ev.AmountCents, &ev.Count, &ev.Status, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning overage row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing overages for account %s: %w", accountID, err)
	}
	return events, nil
}
