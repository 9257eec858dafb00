// Package tier is the single source of truth for subscription tier policy:
// quotas, platform allowlists, overage rates and feature flags. Every
// component that needs a limit consults PolicyFor instead of carrying its
// own table.
package tier

// Tier identifies a subscription level.
type Tier string

const (
	TierFree   Tier = "free"
	TierBasic  Tier = "basic"
	TierPro    Tier = "pro"
	TierAgency Tier = "agency"
)

// Platform identifies a repurposing target.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
)

// Unlimited marks a quota with no numeric ceiling. Always test limits with
// Policy.MonthlyBounded/DailyBounded rather than comparing against this
// value directly.
const Unlimited = -1

// Policy holds the enforcement parameters for one tier.
type Policy struct {
	Tier             Tier
	MonthlyLimit     int
	DailyLimit       int
	Platforms        []Platform
	OverageRateCents int
	MaxTitleLen      int
	MaxContentLen    int
	BrandVoice       bool
	ProviderChoice   bool
}

// MonthlyBounded reports whether the monthly quota has a ceiling.
func (p Policy) MonthlyBounded() bool { return p.MonthlyLimit != Unlimited }

// DailyBounded reports whether the daily quota has a ceiling.
func (p Policy) DailyBounded() bool { return p.DailyLimit != Unlimited }

// AllowsPlatform reports whether the tier may publish to the given platform.
func (p Policy) AllowsPlatform(pl Platform) bool {
	for _, allowed := range p.Platforms {
		if allowed == pl {
			return true
		}
	}
	return false
}

var policies = map[Tier]Policy{
	TierFree: {
		Tier:             TierFree,
		MonthlyLimit:     5,
		DailyLimit:       3,
		Platforms:        []Platform{PlatformTwitter, PlatformLinkedIn},
		OverageRateCents: 50,
		MaxTitleLen:      100,
		MaxContentLen:    5_000,
	},
	TierBasic: {
		Tier:             TierBasic,
		MonthlyLimit:     50,
		DailyLimit:       15,
		Platforms:        []Platform{PlatformTwitter, PlatformLinkedIn, PlatformInstagram},
		OverageRateCents: 40,
		MaxTitleLen:      150,
		MaxContentLen:    10_000,
		BrandVoice:       true,
	},
	TierPro: {
		Tier:             TierPro,
		MonthlyLimit:     200,
		DailyLimit:       Unlimited,
		Platforms:        []Platform{PlatformTwitter, PlatformInstagram, PlatformFacebook, PlatformLinkedIn},
		OverageRateCents: 25,
		MaxTitleLen:      200,
		MaxContentLen:    25_000,
		BrandVoice:       true,
		ProviderChoice:   true,
	},
	TierAgency: {
		Tier:             TierAgency,
		MonthlyLimit:     Unlimited,
		DailyLimit:       Unlimited,
		Platforms: []Platform{
			PlatformTwitter, PlatformLinkedIn, PlatformInstagram,
			PlatformFacebook, PlatformTikTok, PlatformYouTube,
		},
		OverageRateCents: 15,
		MaxTitleLen:      250,
		MaxContentLen:    50_000,
		BrandVoice:       true,
		ProviderChoice:   true,
	},
}

// PolicyFor returns the policy for a tier. An unrecognized tier resolves to
// the free policy: a tier value the registry has never heard of must never
// grant more access than the most restrictive tier.
func PolicyFor(t Tier) Policy {
	if p, ok := policies[t]; ok {
		return p
	}
	return policies[TierFree]
}

// Parse returns the tier for a string value, or false when the value is not
// a known tier.
func Parse(s string) (Tier, bool) {
	switch Tier(s) {
	case TierFree, TierBasic, TierPro, TierAgency:
		return Tier(s), true
	}
	return "", false
}

// ParsePlatform returns the platform for a string value, or false when the
// value is not a known platform.
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(s) {
	case PlatformTwitter, PlatformLinkedIn, PlatformInstagram,
		PlatformFacebook, PlatformTikTok, PlatformYouTube:
		return Platform(s), true
	}
	return "", false
}

// AllPlatforms lists every platform the service can target.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformTwitter, PlatformLinkedIn, PlatformInstagram,
		PlatformFacebook, PlatformTikTok, PlatformYouTube,
	}
}
