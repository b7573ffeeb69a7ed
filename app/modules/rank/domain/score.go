package rankdomain

// Scoring layout: every non-apex tier owns a 400-point block, each of its
// four divisions a 100-point sub-block, and raw league points land on top.
// The three apex tiers sit above TierDiamond's block and share one
// continuous point pool starting at apexBase.
const (
	tierBlockSize     = 400
	divisionBlockSize = 100

	// apexBase is the score of a 0 LP Master player: seven tier blocks below it.
	apexBase = 7 * tierBlockSize
)

// ApexCutoffs are the point-in-pool thresholds the inverse mapping uses to
// pick an apex tier for a synthetic score. They are display heuristics, not
// competitive-ladder cutoffs (those drift by season and region), which is
// why they are configurable.
type ApexCutoffs struct {
	Grandmaster int
	Challenger  int
}

// DefaultApexCutoffs returns the stock display thresholds.
func DefaultApexCutoffs() ApexCutoffs {
	return ApexCutoffs{
		Grandmaster: 200,
		Challenger:  500,
	}
}

// Score collapses an observation into a single comparable ordinal.
// Invalid observations score -1 so callers can filter them out; valid
// scores are always >= 0.
//
// Round-tripping through RankFromScore is exact only when points are in
// [0,100) for non-apex tiers; higher point values are legal inputs but land
// in a neighbouring sub-block on the way back.
func Score(o Observation) float64 {
	if !o.Valid() {
		return -1
	}
	if o.Tier.IsApex() {
		return float64(apexBase + o.Points)
	}
	tierBase := int(o.Tier-TierIron) * tierBlockSize
	divOffset := int(o.Division-DivisionIV) * divisionBlockSize
	return float64(tierBase + divOffset + o.Points)
}

// RankFromScore inverts Score for display purposes. For scores at or above
// the apex base the tier is chosen by the configured point-in-pool cutoffs;
// below it, 400-point blocks pick the tier and 100-point sub-blocks the
// division, with the remainder as points.
//
// Synthetic scores (means, medians) were never produced by Score, so the
// result is an approximation by construction. Negative input yields an
// invalid observation.
func RankFromScore(score float64, cutoffs ApexCutoffs) Observation {
	if score < 0 {
		return Observation{}
	}
	total := int(score)

	if total >= apexBase {
		points := total - apexBase
		tier := TierMaster
		switch {
		case points >= cutoffs.Challenger:
			tier = TierChallenger
		case points >= cutoffs.Grandmaster:
			tier = TierGrandmaster
		}
		return Observation{Tier: tier, Points: points}
	}

	tier := TierIron + Tier(total/tierBlockSize)
	remainder := total % tierBlockSize
	division := DivisionIV + Division(remainder/divisionBlockSize)
	points := remainder % divisionBlockSize
	return Observation{Tier: tier, Division: division, Points: points}
}
