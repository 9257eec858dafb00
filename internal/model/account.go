package model

import "time"

// Subscription statuses as stored on the account record. The account
// subsystem owns transitions; this service only reads them.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionInactive = "inactive"
	SubscriptionCanceled = "canceled"
)

// Account represents a tenant of the service. monthly_usage_count is reset
// by the account subsystem at the start of each billing period; this service
// reads it through the enforcement gate and increments it inside the usage
// commit transaction.
type Account struct {
	ID                 string    `db:"id" json:"id"`
	Email              string    `db:"email" json:"email"`
	Tier               string    `db:"tier" json:"tier"`
	SubscriptionStatus string    `db:"subscription_status" json:"subscription_status"`
	MonthlyUsageCount  int       `db:"monthly_usage_count" json:"monthly_usage_count"`
	OverageConsent     bool      `db:"overage_consent" json:"overage_consent"`
	AutoOverage        bool      `db:"auto_overage" json:"auto_overage"`
	PreferredPlatforms []string  `db:"preferred_platforms" json:"preferred_platforms"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// SubscriptionOK reports whether the account may use paid-tier features.
// Free accounts never need an active subscription.
func (a *Account) SubscriptionOK() bool {
	if a.Tier == "free" || a.Tier == "" {
		return true
	}
	return a.SubscriptionStatus == SubscriptionActive || a.SubscriptionStatus == SubscriptionTrialing
}
