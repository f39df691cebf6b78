// Package attractor implements spec §4.J's two-player qualitative
// reachability on a stochastic game: a transition matrix whose row groups
// are player-1 states and whose rows are joint (player-1, player-2)
// choices, nature's own randomness already folded into each row's
// distribution. ComputeStrongAttractors and ComputeWeakAttractors are the
// qualitative building blocks behind P_max=1/P_min=0 until-formula
// checks.
//
// Candidate predecessor states are gathered via the collapsed backward
// view (sparse.Matrix.Transpose, which merges a state's choices into one
// predecessor entry per successor, per its own doc comment) and then
// re-verified row by row against the forward matrix — the collapse loses
// exactly the per-choice detail the any/all admission rule needs, so it is
// used only to shrink the candidate set, never to decide membership,
// mirroring how reach.ProbGreater0/Prob1 use the backward view for
// candidate generation and the forward view for the fixpoint's removal
// condition.
package attractor

import (
	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/sparse"
)

// rowEntersSet reports whether every successor of row lies in states —
// the "transition enters states" predicate spec §4.J's admission rule is
// built from. A row with no entries vacuously enters every set.
func rowEntersSet(forward *sparse.Matrix, row int, states *bitset.Set) bool {
	for _, e := range forward.GetRow(row) {
		if !states.Contains(e.Column) {
			return false
		}
	}
	return true
}

func predecessorStates(backward *sparse.Matrix, s int, seen *bitset.Set, out []int) []int {
	for _, e := range backward.GetRow(s) {
		if !seen.Contains(e.Column) {
			seen.Set(e.Column)
			out = append(out, e.Column)
		}
	}
	return out
}

// ComputeStrongAttractors grows states from target by repeatedly admitting
// predecessors whose transitions commit them to the current set: a
// maximizer-owned predecessor is admitted the moment any one of its
// allowed rows enters states; a minimizer-owned predecessor is admitted
// only once every one of its (at least one) allowed rows does. transitions
// records every row that witnessed an admission, including rows belonging
// to a predecessor admitted on a later iteration via a different row.
func ComputeStrongAttractors(maximizer *bitset.Set, forward, backward *sparse.Matrix, target, allowed, allowedTransitions *bitset.Set) (states *bitset.Set, transitions *bitset.Set) {
	states = target.Clone()
	transitions = bitset.New(forward.RowCount())

	for {
		seen := states.Clone()
		var candidates []int
		states.Each(func(s int) {
			candidates = predecessorStates(backward, s, seen, candidates)
		})

		grown := false
		for _, p := range candidates {
			if states.Contains(p) || !allowed.Contains(p) {
				continue
			}
			start, end := forward.GetRowGroup(p)
			isMaximizer := maximizer.Contains(p)

			var witnesses []int
			anyAllowed := false
			allQualify := true
			for r := start; r < end; r++ {
				if !allowedTransitions.Contains(r) {
					continue
				}
				anyAllowed = true
				if rowEntersSet(forward, r, states) {
					witnesses = append(witnesses, r)
				} else {
					allQualify = false
				}
			}

			admitted := false
			if isMaximizer {
				admitted = len(witnesses) > 0
			} else {
				admitted = anyAllowed && allQualify
				if admitted {
					witnesses = witnesses[:0]
					for r := start; r < end; r++ {
						if allowedTransitions.Contains(r) {
							witnesses = append(witnesses, r)
						}
					}
				}
			}

			if admitted {
				states.Set(p)
				grown = true
				for _, r := range witnesses {
					transitions.Set(r)
				}
			}
		}

		if !grown {
			return states, transitions
		}
	}
}

// ComputeWeakAttractors computes maximizer's almost-sure winning region
// (spec §4.J): repeatedly compute maximizer's strong attractor toward
// target, let minimizer strong-attract toward its complement (minimizer
// playing the "any allowed transition admits" role this time, toward
// escaping maximizer's current winning region), then forbid every
// transition minimizer's escape used before recomputing maximizer's
// attractor from scratch. The loop stops once maximizer's attractor stops
// growing, i.e. minimizer can no longer shrink it further.
func ComputeWeakAttractors(maximizer *bitset.Set, forward, backward *sparse.Matrix, target, allowed *bitset.Set) *bitset.Set {
	allowedTransitions := bitset.New(forward.RowCount()).Complement()
	minimizer := maximizer.Complement().Intersect(allowed)

	var maxAttr *bitset.Set
	prevSize := -1
	for {
		maxAttr, _ = ComputeStrongAttractors(maximizer, forward, backward, target, allowed, allowedTransitions)
		if maxAttr.Count() == prevSize {
			return maxAttr
		}
		prevSize = maxAttr.Count()

		complement := maxAttr.Complement().Intersect(allowed)
		_, escapeTransitions := ComputeStrongAttractors(minimizer, forward, backward, complement, allowed, allowedTransitions)
		allowedTransitions = allowedTransitions.Difference(escapeTransitions)
	}
}
