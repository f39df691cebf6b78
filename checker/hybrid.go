package checker

import (
	"context"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/eliminate"
	"github.com/katalvlaran/pmcheck/reach"
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
)

// runElimination eliminates every state of sub (with its transpose
// subBackward) into subValues in place, via either EliminationMethod.
// State hands the whole state set to one queue built by CoreConfig's
// chosen order. Hybrid runs one queue per SCC, in the sinks-first order
// reach.DecomposeSCCs returns them, eliminating one SCC's members to
// completion before moving to the next. Both methods yield the same
// values (up to rounding), since eliminate.Prioritized does not depend on
// the elimination order.
//
// MaximalSccSize/EliminateEntryStatesLast are accepted by CoreConfig but
// not consulted here: the recursive sub-decomposition they gate in the
// algorithm this is grounded on is a performance knob over Hybrid's
// recursion base case, not a correctness requirement, and is out of
// scope (see DESIGN.md) — an SCC larger than the cap is eliminated in
// one pass instead of several smaller ones.
func (s *Solver) runElimination(ctx context.Context, sub, subBackward *sparse.Matrix, subValues []ring.Value, distFromInitial, distFromTarget []int, resultsForInitialOnly bool, isInitial func(int) bool) error {
	flexFwd := sparse.FromMatrix(sub)
	flexBwd := sparse.FromMatrix(subBackward)

	n := sub.RowGroupCount()
	elimCtx := &eliminate.Context{Forward: flexFwd, Backward: flexBwd, Values: subValues}
	elim := &eliminate.Prioritized{Ctx: elimCtx, ResultsForInitialOnly: resultsForInitialOnly, IsInitial: isInitial}

	run := func(batch []int) error {
		elimCtx.Queue = s.Config.buildQueue(batch, flexFwd, flexBwd, subValues, distFromInitial, distFromTarget, subValues)
		for elimCtx.Queue.HasNext() {
			if err := checkCancelled(ctx); err != nil {
				return err
			}
			if err := elim.Eliminate(elimCtx.Queue.PopNext()); err != nil {
				return newErrorf(Unexpected, "%v", err)
			}
		}
		return nil
	}

	if s.Config.method != Hybrid {
		states := make([]int, n)
		for i := range states {
			states[i] = i
		}
		return run(states)
	}

	sccs := reach.DecomposeSCCs(sub, bitset.New(n).Complement(), false, false)
	for _, scc := range sccs {
		if err := run(scc); err != nil {
			return err
		}
	}
	return nil
}
