package pqueue

import (
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
)

// PenaltyFunc scores a candidate state for elimination; lower is
// eliminated first. Both StaticPenalty and DynamicPenalty are parametrized
// by one of these.
type PenaltyFunc func(state int, forward, backward *sparse.Flexible, values []ring.Value) int

// RegexPenalty implements spec §4.G's "Regex-style" penalty:
// |pred(state)| * |succ(state)|, named for the elimination-order heuristic
// historically used to minimize the blow-up of compiled regular
// expressions representing reach probabilities.
func RegexPenalty(state int, forward, backward *sparse.Flexible, _ []ring.Value) int {
	return len(backward.GetRow(state)) * len(forward.GetRow(state))
}

// ComplexityPenalty implements spec §4.G's "Complexity-aware" penalty:
//
//	Σ_{p∈pred(state), s∈succ(state)} complexity(p.val)·complexity(s.val)
//	  + complexity(onestep[p])·complexity(p.val)·complexity(onestep[state])
//	multiplied by 10 if state carries a non-constant self-loop.
//
// onestep is the one-step-to-target (or reward) vector the solver
// maintains alongside values; passing it as a separate slice rather than
// folding it into values keeps the eliminator's own values vector free of
// solver-specific bookkeeping.
func ComplexityPenalty(onestep []ring.Value) PenaltyFunc {
	return func(state int, forward, backward *sparse.Flexible, _ []ring.Value) int {
		preds := backward.GetRow(state)
		succs := forward.GetRow(state)

		total := 0
		for _, p := range preds {
			for _, s := range succs {
				total += p.Value.Complexity() * s.Value.Complexity()
			}
			total += onestep[p.Column].Complexity() * p.Value.Complexity() * onestep[state].Complexity()
		}

		if hasNonConstantSelfLoop(forward, state) {
			total *= 10
		}
		return total
	}
}

func hasNonConstantSelfLoop(forward *sparse.Flexible, state int) bool {
	for _, e := range forward.GetRow(state) {
		if e.Column == state {
			return e.Value.Complexity() > 1
		}
	}
	return false
}
