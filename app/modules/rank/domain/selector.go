package rankdomain

// BestCandidate picks the candidate with the highest score out of a set of
// externally supplied historical observations. Ties keep the
// first-encountered candidate; slice order is the only ordering the feed
// guarantees, so first-wins keeps the choice deterministic.
//
// The second return is false when no valid candidate exists. Callers must
// treat that as "leave the stored peak untouched", never as a reset.
func BestCandidate(candidates []Observation) (Observation, bool) {
	var (
		best      Observation
		bestScore float64
		found     bool
	)
	for _, c := range candidates {
		if !c.Valid() {
			continue
		}
		score := Score(c)
		if !found || score > bestScore {
			best = c
			bestScore = score
			found = true
		}
	}
	return best, found
}
