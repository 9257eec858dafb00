package service

import (
	"testing"

	"app/internal/tier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlatformsIntersection(t *testing.T) {
	pro := tier.PolicyFor(tier.TierPro) // twitter, instagram, facebook, linkedin

	got, err := ResolvePlatforms([]string{"twitter", "tiktok"}, nil, pro)
	require.NoError(t, err)
	assert.Equal(t, []tier.Platform{tier.PlatformTwitter}, got)
}

func TestResolvePlatformsPreservesRequestOrder(t *testing.T) {
	pro := tier.PolicyFor(tier.TierPro)

	got, err := ResolvePlatforms([]string{"linkedin", "twitter", "linkedin"}, nil, pro)
	require.NoError(t, err)
	assert.Equal(t, []tier.Platform{tier.PlatformLinkedIn, tier.PlatformTwitter}, got)
}

func TestResolvePlatformsFallsBackToPreferences(t *testing.T) {
	free := tier.PolicyFor(tier.TierFree) // twitter, linkedin

	// Preferences stored before a downgrade still intersect with the
	// current allowlist.
	got, err := ResolvePlatforms(nil, []string{"instagram", "linkedin"}, free)
	require.NoError(t, err)
	assert.Equal(t, []tier.Platform{tier.PlatformLinkedIn}, got)
}

func TestResolvePlatformsFallsBackToAllowlist(t *testing.T) {
	free := tier.PolicyFor(tier.TierFree)

	got, err := ResolvePlatforms(nil, nil, free)
	require.NoError(t, err)
	assert.Equal(t, []tier.Platform{tier.PlatformTwitter, tier.PlatformLinkedIn}, got)
}

func TestResolvePlatformsEmptyIntersection(t *testing.T) {
	free := tier.PolicyFor(tier.TierFree)

	_, err := ResolvePlatforms([]string{"tiktok", "youtube"}, nil, free)
	var npe *NoPlatformsAvailableError
	require.ErrorAs(t, err, &npe)
	assert.Equal(t, []string{"twitter", "linkedin"}, npe.Allowed)
}

func TestResolvePlatformsDropsUnknownNames(t *testing.T) {
	free := tier.PolicyFor(tier.TierFree)

	got, err := ResolvePlatforms([]string{"myspace", "twitter"}, nil, free)
	require.NoError(t, err)
	assert.Equal(t, []tier.Platform{tier.PlatformTwitter}, got)
}
