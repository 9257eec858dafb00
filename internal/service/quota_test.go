package service

import (
	"testing"

	"app/internal/tier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	free := tier.PolicyFor(tier.TierFree)     // monthly 5, daily 3
	agency := tier.PolicyFor(tier.TierAgency) // unbounded

	tests := []struct {
		name         string
		policy       tier.Policy
		monthly      int
		daily        int
		wantsOverage bool
		want         Decision
		wantScope    string
	}{
		{name: "under both limits", policy: free, monthly: 2, daily: 1, want: DecisionAllow},
		{name: "at monthly limit rejects", policy: free, monthly: 5, daily: 0, want: DecisionReject, wantScope: "monthly"},
		{name: "at daily limit rejects", policy: free, monthly: 1, daily: 3, want: DecisionReject, wantScope: "daily"},
		{name: "monthly reported when both exceeded", policy: free, monthly: 5, daily: 3, want: DecisionReject, wantScope: "monthly"},
		{name: "overage consent converts monthly reject", policy: free, monthly: 5, daily: 0, wantsOverage: true, want: DecisionAllowWithCharge},
		{name: "overage consent converts daily reject", policy: free, monthly: 0, daily: 3, wantsOverage: true, want: DecisionAllowWithCharge},
		{name: "unbounded tier never rejects", policy: agency, monthly: 1_000_000, daily: 10_000, want: DecisionAllow},
		{name: "last unit still allowed", policy: free, monthly: 4, daily: 2, want: DecisionAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, qerr := Evaluate(tt.policy, tt.monthly, tt.daily, tt.wantsOverage)
			assert.Equal(t, tt.want, got)
			if tt.want == DecisionReject {
				require.NotNil(t, qerr)
				assert.Equal(t, tt.wantScope, qerr.Scope)
			} else {
				assert.Nil(t, qerr)
			}
		})
	}
}

func TestSummaryLimits(t *testing.T) {
	free := tier.PolicyFor(tier.TierFree)
	limit, remaining := summaryLimits(free, 3)
	require.NotNil(t, limit)
	require.NotNil(t, remaining)
	assert.Equal(t, 5, *limit)
	assert.Equal(t, 2, *remaining)

	// Overage pushes usage past the limit; remaining clamps at zero.
	_, remaining = summaryLimits(free, 7)
	assert.Equal(t, 0, *remaining)

	limit, remaining = summaryLimits(tier.PolicyFor(tier.TierAgency), 100)
	assert.Nil(t, limit)
	assert.Nil(t, remaining)
}
