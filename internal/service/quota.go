package service

import (
	"app/internal/tier"
)

// Decision is the outcome of the quota enforcement gate.
type Decision int

const (
	// DecisionAllow permits the request with no charge.
	DecisionAllow Decision = iota
	// DecisionAllowWithCharge permits the request, billed one unit at the
	// tier's overage rate.
	DecisionAllowWithCharge
	// DecisionReject blocks the request.
	DecisionReject
)

// Evaluate runs the enforcement gate over the current counters. It is a
// pure function: side effects (counter increments, ledger appends) belong
// to the caller, which keeps decisions retryable without double-counting.
//
// When the decision is DecisionReject the returned QuotaExceededError names
// the blocking limit, monthly taking precedence when both are exceeded.
func Evaluate(policy tier.Policy, monthlyUsed, dailyUsed int, wantsOverage bool) (Decision, *QuotaExceededError) {
	monthlyExceeded := policy.MonthlyBounded() && monthlyUsed >= policy.MonthlyLimit
	dailyExceeded := policy.DailyBounded() && dailyUsed >= policy.DailyLimit

	if !monthlyExceeded && !dailyExceeded {
		return DecisionAllow, nil
	}
	if wantsOverage {
		return DecisionAllowWithCharge, nil
	}
	if monthlyExceeded {
		return DecisionReject, &QuotaExceededError{Scope: "monthly", Current: monthlyUsed, Limit: policy.MonthlyLimit}
	}
	return DecisionReject, &QuotaExceededError{Scope: "daily", Current: dailyUsed, Limit: policy.DailyLimit}
}

// summaryLimits converts policy limits to the nullable form used in usage
// summaries (nil = unbounded).
func summaryLimits(policy tier.Policy, monthlyUsed int) (monthlyLimit, remaining *int) {
	if !policy.MonthlyBounded() {
		return nil, nil
	}
	limit := policy.MonthlyLimit
	rem := limit - monthlyUsed
	if rem < 0 {
		rem = 0
	}
	return &limit, &rem
}
