package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSubscriptionRequired means the account's tier is paid but its
	// subscription is not active or trialing.
	ErrSubscriptionRequired = errors.New("active subscription required")

	// ErrTierMismatch means a tier-scoped endpoint was called by an account
	// on a different tier.
	ErrTierMismatch = errors.New("endpoint does not match account tier")

	// ErrGenerationFailed wraps AI provider failures that abort the request
	// before any counter mutation or charge.
	ErrGenerationFailed = errors.New("content generation failed")

	// ErrStorageNotReady means a storage collaborator is not configured or
	// not yet initialized.
	ErrStorageNotReady = errors.New("storage not ready")
)

// ValidationError reports malformed or out-of-policy input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// QuotaExceededError reports which limit blocked the request. Scope is
// "monthly" or "daily"; when both limits are exceeded, monthly wins.
type QuotaExceededError struct {
	Scope   string
	Current int
	Limit   int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s limit reached (%d/%d)", e.Scope, e.Current, e.Limit)
}

// NoPlatformsAvailableError reports an empty effective platform set,
// carrying enough context for the caller to self-correct.
type NoPlatformsAvailableError struct {
	Allowed   []string
	Preferred []string
}

func (e *NoPlatformsAvailableError) Error() string {
	return fmt.Sprintf("no platforms available for this tier (allowed: %s)", strings.Join(e.Allowed, ", "))
}
