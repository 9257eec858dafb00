package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrContentNotFound is returned when a content item does not exist or is
// owned by a different account. The two cases are indistinguishable on
// purpose: existence must not leak across owners.
var ErrContentNotFound = errors.New("content not found")

// SaveParams describes one repurpose persistence operation. ExistingID
// selects the update path; empty creates a new item.
type SaveParams struct {
	AccountID    string
	ExistingID   string
	Title        string
	OriginalText string
	ContentType  string
	Tier         string
	Variants     []model.Variant
}

// ContentRepository persists content items and their platform variants.
// SaveRepurposed is the synchronizer: one transaction either creates the
// item with its variants or replaces the full variant set of an existing
// item, so repeating the same save is idempotent by construction.
type ContentRepository interface {
	SaveRepurposed(ctx context.Context, params SaveParams) (*model.ContentItem, error)
	GetContent(ctx context.Context, contentID, accountID string) (*model.ContentItem, error)
	ListContent(ctx context.Context, accountID string, limit, offset int) ([]model.ContentItem, error)
	DeleteContent(ctx context.Context, contentID, accountID string) error
}

type contentRepo struct {
	pool *pgxpool.Pool
}

// NewContentRepo creates a new ContentRepository.
func NewContentRepo(pool *pgxpool.Pool) ContentRepository {
	return &contentRepo{pool: pool}
}

func (r *contentRepo) SaveRepurposed(ctx context.Context, params SaveParams) (*model.ContentItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting content save transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var item model.ContentItem
	if params.ExistingID == "" {
		const insertQ = `
            INSERT INTO content_items (account_id, title, original_text, content_type, status, tier)
            VALUES ($1, $2, $3, $4, 'repurposed', $5)
            RETURNING id, account_id, title, original_text, content_type, status, tier, created_at, updated_at
        `
		err = tx.QueryRow(ctx, insertQ,
			params.AccountID, params.Title, params.OriginalText, params.ContentType, params.Tier,
		).Scan(&item.ID, &item.AccountID, &item.Title, &item.OriginalText, &item.ContentType, &item.Status, &item.Tier, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("creating content item: %w", err)
		}
	} else {
		// Owner scoping happens in the WHERE clause: an item owned by
		// someone else looks exactly like a missing one.
		const updateQ = `
            UPDATE content_items
            SET title = $3, original_text = $4, content_type = $5, status = 'repurposed', updated_at = NOW()
            WHERE id = $1 AND account_id = $2
            RETURNING id, account_id, title, original_text, content_type, status, tier, created_at, updated_at
        `
		err = tx.QueryRow(ctx, updateQ,
			params.ExistingID, params.AccountID, params.Title, params.OriginalText, params.ContentType,
		).Scan(&item.ID, &item.AccountID, &item.Title, &item.OriginalText, &item.ContentType, &item.Status, &item.Tier, &item.CreatedAt, &item.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("updating content item %s: %w", params.ExistingID, err)
		}

		// Full replacement, never a merge: the variant set after a save is
		// exactly the set that was passed in.
		if _, err := tx.Exec(ctx, `DELETE FROM variants WHERE content_id = $1`, item.ID); err != nil {
			return nil, fmt.Errorf("clearing variants for content %s: %w", item.ID, err)
		}
	}

	const variantQ = `
        INSERT INTO variants (content_id, platform, text)
        VALUES ($1, $2, $3)
        RETURNING id, content_id, platform, text, created_at
    `
	for _, v := range params.Variants {
		var saved model.Variant
		if err := tx.QueryRow(ctx, variantQ, item.ID, v.Platform, v.Text).Scan(
			&saved.ID, &saved.ContentID, &saved.Platform, &saved.Text, &saved.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("inserting %s variant for content %s: %w", v.Platform, item.ID, err)
		}
		item.Variants = append(item.Variants, saved)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing content save: %w", err)
	}
	return &item, nil
}

func (r *contentRepo) GetContent(ctx context.Context, contentID, accountID string) (*model.ContentItem, error) {
	const q = `
        SELECT id, account_id, title, original_text, content_type, status, tier, created_at, updated_at
        FROM content_items
        WHERE id = $1 AND account_id = $2
    `
	var item model.ContentItem
	err := r.pool.QueryRow(ctx, q, contentID, accountID).Scan(
		&item.ID, &item.AccountID, &item.Title, &item.OriginalText, &item.ContentType,
		&item.Status, &item.Tier, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch content %s: %w", contentID, err)
	}

	const variantsQ = `
        SELECT id, content_id, platform, text, created_at
        FROM variants
        WHERE content_id = $1
        ORDER BY created_at, platform
    `
	rows, err := r.pool.Query(ctx, variantsQ, item.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch variants for content %s: %w", contentID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var v model.Variant
		if err := rows.Scan(&v.ID, &v.ContentID, &v.Platform, &v.Text, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning variant row: %w", err)
		}
		item.Variants = append(item.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch variants for content %s: %w", contentID, err)
	}
	return &item, nil
}

func (r *contentRepo) ListContent(ctx context.Context, accountID string, limit, offset int) ([]model.ContentItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const q = `
        SELECT id, account_id, title, original_text, content_type, status, tier, created_at, updated_at
        FROM content_items
        WHERE account_id = $1
        ORDER BY updated_at DESC
        LIMIT $2 OFFSET $3
    `
	rows, err := r.pool.Query(ctx, q, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing content for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var items []model.ContentItem
	for rows.Next() {
		var item model.ContentItem
		if err := rows.Scan(
			&item.ID, &item.AccountID, &item.Title, &item.OriginalText, &item.ContentType,
			&item.Status, &item.Tier, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning content row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing content for account %s: %w", accountID, err)
	}
	return items, nil
}

func (r *contentRepo) DeleteContent(ctx context.Context, contentID, accountID string) error {
	// Variants cascade with their parent.
	const q = `DELETE FROM content_items WHERE id = $1 AND account_id = $2`
	tag, err := r.pool.Exec(ctx, q, contentID, accountID)
	if err != nil {
		return fmt.Errorf("deleting content %s: %w", contentID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrContentNotFound
	}
	return nil
}
