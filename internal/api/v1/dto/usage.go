package dto

// UsageDTO is the usage block of API responses. Limits are null for
// unbounded tiers.
type UsageDTO struct {
	Tier           string `json:"tier,omitempty"`
	CurrentUsage   int    `json:"currentUsage"`
	MonthlyLimit   *int   `json:"monthlyLimit"`
	RemainingUsage *int   `json:"remainingUsage"`
	DailyUsage     int    `json:"dailyUsage"`
	DailyLimit     *int   `json:"dailyLimit"`
}

// PlatformsResponseDTO describes the platforms the account's tier allows.
type PlatformsResponseDTO struct {
	Tier      string   `json:"tier"`
	Platforms []string `json:"platforms"`
}

// ProvidersResponseDTO lists the AI providers currently available.
type ProvidersResponseDTO struct {
	Providers []string `json:"providers"`
}
