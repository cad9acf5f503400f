package documents

import "strings"

// Tier is a document's required privilege level. Tiers are totally ordered by
// Level; a viewer holding tier T may read any document whose tier level is at
// or below T's.
type Tier string

const (
	TierHostAdmin   Tier = "host_admin"
	TierServerAdmin Tier = "server_admin"
	TierServerMod   Tier = "server_mod"
	TierPlayer      Tier = "player"

	// TierLegacyAdmin is the alias older documents were stored with. It ranks
	// identically to TierServerAdmin so tier comparisons stay branch-free.
	TierLegacyAdmin Tier = "admin"
)

// Level returns the tier's ordinal. Unknown values rank below Player so a
// corrupted classification never widens visibility.
func (t Tier) Level() int {
	switch t {
	case TierHostAdmin:
		return 4
	case TierServerAdmin, TierLegacyAdmin:
		return 3
	case TierServerMod:
		return 2
	case TierPlayer:
		return 1
	default:
		return 0
	}
}

// Valid reports whether the tier is one of the known classification values.
func (t Tier) Valid() bool {
	return t.Level() > 0
}

// ParseTier normalizes a stored or user-supplied classification value,
// falling back to TierPlayer when the input is empty or unknown.
func ParseTier(value string) Tier {
	tier := Tier(strings.ToLower(strings.TrimSpace(value)))
	if !tier.Valid() {
		return TierPlayer
	}
	return tier
}

// Viewer is the capability descriptor supplied by the external authorization
// collaborator. Scope-specific facts (ownership, control capabilities on the
// scope under inspection) are folded into the descriptor by that
// collaborator; the resolver itself never consults ambient session state.
type Viewer struct {
	IsGlobalAdmin            bool
	OwnsScope                bool
	HasScopeManageCapability bool
	HasAnyControlCapability  bool
}

// ResolveAllowedTiers maps a viewer's capabilities to the ordered set of
// classification tiers they may see, highest first. The function is total:
// every viewer resolves to at least {Player}. Each rule grants the matched
// tier plus every tier below it, and the legacy alias always rides along with
// ServerAdmin for documents stored before the alias was retired.
func ResolveAllowedTiers(viewer Viewer) []Tier {
	switch {
	case viewer.IsGlobalAdmin:
		return []Tier{TierHostAdmin, TierServerAdmin, TierLegacyAdmin, TierServerMod, TierPlayer}
	case viewer.OwnsScope, viewer.HasScopeManageCapability:
		return []Tier{TierServerAdmin, TierLegacyAdmin, TierServerMod, TierPlayer}
	case viewer.HasAnyControlCapability:
		return []Tier{TierServerMod, TierPlayer}
	default:
		return []Tier{TierPlayer}
	}
}

// TierAllowed reports whether the supplied tier is a member of the allowed
// set.
func TierAllowed(allowed []Tier, tier Tier) bool {
	for _, t := range allowed {
		if t == tier {
			return true
		}
	}
	return false
}
