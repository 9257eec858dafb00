package service

import (
	"app/internal/tier"
)

// ResolvePlatforms computes the effective target platform set for a request.
// Candidates come from the request when present, else the account's stored
// preferences, else the full tier allowlist. The candidate set is then
// intersected with the allowlist, preserving candidate order. Intersection
// rather than union: preferences stored before a downgrade can never reach
// platforms the current tier does not allow. Unknown platform names simply
// drop out of the intersection.
func ResolvePlatforms(requested, preferred []string, policy tier.Policy) ([]tier.Platform, error) {
	candidate := requested
	if len(candidate) == 0 {
		candidate = preferred
	}

	var effective []tier.Platform
	if len(candidate) == 0 {
		effective = append(effective, policy.Platforms...)
	} else {
		seen := make(map[tier.Platform]bool, len(candidate))
		for _, name := range candidate {
			pl, ok := tier.ParsePlatform(name)
			if !ok || seen[pl] || !policy.AllowsPlatform(pl) {
				continue
			}
			seen[pl] = true
			effective = append(effective, pl)
		}
	}

	if len(effective) == 0 {
		allowed := make([]string, len(policy.Platforms))
		for i, pl := range policy.Platforms {
			allowed[i] = string(pl)
		}
		return nil, &NoPlatformsAvailableError{Allowed: allowed, Preferred: preferred}
	}
	return effective, nil
}
