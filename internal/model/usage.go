package model

import "time"

// DailyUsage is one row per (account, UTC calendar day), created lazily on
// the first repurpose of the day.
type DailyUsage struct {
	AccountID string    `db:"account_id" json:"account_id"`
	Day       time.Time `db:"day" json:"day"`
	Count     int       `db:"count" json:"count"`
}

// Overage event statuses. Settlement transitions pending rows to settled;
// nothing else mutates a ledger row after it is written.
const (
	OverageStatusPending = "pending"
	OverageStatusSettled = "settled"
)

// OverageEvent is one append-only ledger row recording a unit of usage
// beyond quota, billed at the tier's overage rate.
type OverageEvent struct {
	ID          string    `db:"id" json:"id"`
	AccountID   string    `db:"account_id" json:"account_id"`
	AmountCents int       `db:"amount_cents" json:"amount_cents"`
	Count       int       `db:"count" json:"count"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// UsageSummary is the caller-facing view of an account's position against
// its quota. Limit pointers are nil for unbounded tiers.
type UsageSummary struct {
	Tier           string `json:"tier"`
	CurrentUsage   int    `json:"current_usage"`
	MonthlyLimit   *int   `json:"monthly_limit"`
	RemainingUsage *int   `json:"remaining_usage"`
	DailyUsage     int    `json:"daily_usage"`
	DailyLimit     *int   `json:"daily_limit"`
}
