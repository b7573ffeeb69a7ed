package rankdomain

import "strings"

// Tier is a coarse ladder position. Ten tiers, lowest to highest; the top
// three (apex) tiers carry no divisions and share a single point pool.
type Tier int

const (
	TierUnknown Tier = iota
	TierIron
	TierBronze
	TierSilver
	TierGold
	TierPlatinum
	TierEmerald
	TierDiamond
	TierMaster
	TierGrandmaster
	TierChallenger
)

// Division is the fine ladder position within a non-apex tier.
// DivisionIV is the lowest, DivisionI the highest.
type Division int

const (
	DivisionNone Division = iota
	DivisionIV
	DivisionIII
	DivisionII
	DivisionI
)

var tierNames = map[Tier]string{
	TierIron:        "IRON",
	TierBronze:      "BRONZE",
	TierSilver:      "SILVER",
	TierGold:        "GOLD",
	TierPlatinum:    "PLATINUM",
	TierEmerald:     "EMERALD",
	TierDiamond:     "DIAMOND",
	TierMaster:      "MASTER",
	TierGrandmaster: "GRANDMASTER",
	TierChallenger:  "CHALLENGER",
}

var divisionNames = map[Division]string{
	DivisionIV:  "IV",
	DivisionIII: "III",
	DivisionII:  "II",
	DivisionI:   "I",
}

// ParseTier resolves a tier string (case-insensitive) to a Tier.
// Unrecognized input yields TierUnknown, never an error.
func ParseTier(s string) Tier {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for tier, name := range tierNames {
		if name == upper {
			return tier
		}
	}
	return TierUnknown
}

// ParseDivision resolves a division string to a Division.
// Unrecognized or empty input yields DivisionNone.
func ParseDivision(s string) Division {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for div, name := range divisionNames {
		if name == upper {
			return div
		}
	}
	return DivisionNone
}

// String returns the canonical upper-case tier name, or "" for TierUnknown.
func (t Tier) String() string {
	return tierNames[t]
}

// String returns the roman-numeral division name, or "" for DivisionNone.
func (d Division) String() string {
	return divisionNames[d]
}

// IsApex reports whether the tier is one of the three divisionless top tiers.
func (t Tier) IsApex() bool {
	return t >= TierMaster
}

// Observation is a single rank reading for a viewer: tier, division and
// points (league points within the division, or within the shared apex pool).
// Division is meaningless for apex tiers and ignored there.
type Observation struct {
	Tier     Tier
	Division Division
	Points   int
}

// Valid reports whether the observation is usable for comparison.
// Non-apex tiers require a division; apex observations ignore theirs.
func (o Observation) Valid() bool {
	if o.Tier == TierUnknown || o.Points < 0 {
		return false
	}
	if o.Tier.IsApex() {
		return true
	}
	return o.Division != DivisionNone
}

// IsHigher reports whether candidate strictly outranks stored.
//
// An absent or invalid stored peak is always superseded by a valid candidate.
// An invalid candidate never supersedes anything. On a tier tie between two
// apex observations only points decide; otherwise division decides first and
// points break the remaining tie. Equal ranks are not higher.
func IsHigher(candidate, stored Observation) bool {
	if !candidate.Valid() {
		return false
	}
	if !stored.Valid() {
		return true
	}
	if candidate.Tier != stored.Tier {
		return candidate.Tier > stored.Tier
	}
	if candidate.Tier.IsApex() {
		return candidate.Points > stored.Points
	}
	if candidate.Division != stored.Division {
		return candidate.Division > stored.Division
	}
	return candidate.Points > stored.Points
}

// Effective selects the observation used for display and aggregation:
// the peak when the viewer prefers it and it is valid, the current
// observation otherwise.
func Effective(showPeak bool, peak, current Observation) Observation {
	if showPeak && peak.Valid() {
		return peak
	}
	return current
}
