package model

import "time"

// Content item statuses.
const (
	ContentGenerated  = "generated"
	ContentRepurposed = "repurposed"
)

// ContentItem is a piece of source content owned by an account. Tier records
// the tier that was active when the item was created, for audit. Status moves
// to "repurposed" when the item has at least one variant and is never moved
// back by a repurpose operation.
type ContentItem struct {
	ID           string    `db:"id" json:"id"`
	AccountID    string    `db:"account_id" json:"account_id"`
	Title        string    `db:"title" json:"title"`
	OriginalText string    `db:"original_text" json:"original_text"`
	ContentType  string    `db:"content_type" json:"content_type"`
	Status       string    `db:"status" json:"status"`
	Tier         string    `db:"tier" json:"tier"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	Variants     []Variant `db:"-" json:"variants,omitempty"`
}

// Variant is one platform-specific rendering of a content item. The
// persistence layer keeps at most one current variant per (content item,
// platform): updates replace the whole set, never merge into it.
type Variant struct {
	ID        string    `db:"id" json:"id"`
	ContentID string    `db:"content_id" json:"content_id"`
	Platform  string    `db:"platform" json:"platform"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
