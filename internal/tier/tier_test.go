package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyForUnknownTierIsFree(t *testing.T) {
	for _, v := range []Tier{"", "enterprise", "FREE", "platinum"} {
		p := PolicyFor(v)
		assert.Equal(t, TierFree, p.Tier, "tier %q must fall back to free", v)
		assert.Equal(t, 5, p.MonthlyLimit)
	}
}

func TestPolicyBounds(t *testing.T) {
	free := PolicyFor(TierFree)
	require.True(t, free.MonthlyBounded())
	require.True(t, free.DailyBounded())

	pro := PolicyFor(TierPro)
	require.True(t, pro.MonthlyBounded())
	require.False(t, pro.DailyBounded())

	agency := PolicyFor(TierAgency)
	require.False(t, agency.MonthlyBounded())
	require.False(t, agency.DailyBounded())
}

func TestEveryTierAllowsAtLeastOnePlatform(t *testing.T) {
	for _, tr := range []Tier{TierFree, TierBasic, TierPro, TierAgency} {
		p := PolicyFor(tr)
		require.NotEmpty(t, p.Platforms, "tier %s", tr)
		for _, pl := range p.Platforms {
			_, ok := ParsePlatform(string(pl))
			assert.True(t, ok, "tier %s lists unknown platform %s", tr, pl)
		}
	}
}

func TestAllowsPlatform(t *testing.T) {
	p := PolicyFor(TierFree)
	assert.True(t, p.AllowsPlatform(PlatformTwitter))
	assert.False(t, p.AllowsPlatform(PlatformTikTok))
}

func TestParse(t *testing.T) {
	got, ok := Parse("pro")
	require.True(t, ok)
	assert.Equal(t, TierPro, got)

	_, ok = Parse("gold")
	assert.False(t, ok)
}
