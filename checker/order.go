package checker

import (
	"math/rand"
	"sort"

	"github.com/katalvlaran/pmcheck/pqueue"
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
)

// buildQueue constructs the priority queue a solver call hands to the
// eliminator, per the EliminationOrder this CoreConfig selects (spec §6).
// distFromInitial/distFromTarget are BFS levels over states (computed by
// the caller via reach.GetDistances against the forward and backward
// matrices respectively); onestep is the one-step-to-target (or reward)
// vector ComplexityPenalty needs.
//
// Forward eliminates farthest-from-initial first and Backward
// nearest-to-target first; ForwardReversed and BackwardReversed run the
// opposite direction. Because eliminate.Prioritized keeps the outgoing row
// of every state whose value is read back, the order changes the
// intermediate fill-in but not the resulting values (up to rounding). An
// EliminationOrder outside the constants above is not rejected: it falls
// back to states in the order given.
func (c CoreConfig) buildQueue(states []int, forward, backward *sparse.Flexible, values []ring.Value, distFromInitial, distFromTarget []int, onestep []ring.Value) pqueue.Queue {
	switch c.order {
	case Forward:
		return pqueue.NewStatic(sortedByDistance(states, distFromInitial, true))
	case ForwardReversed:
		return pqueue.NewStatic(sortedByDistance(states, distFromInitial, false))
	case Backward:
		return pqueue.NewStatic(sortedByDistance(states, distFromTarget, false))
	case BackwardReversed:
		return pqueue.NewStatic(sortedByDistance(states, distFromTarget, true))
	case Random:
		return pqueue.NewStatic(shuffled(states, c.seed))
	case StaticPenalty:
		return pqueue.NewStaticPenalty(states, forward, backward, values, pqueue.ComplexityPenalty(onestep))
	case DynamicPenalty:
		return pqueue.NewDynamicPenalty(states, forward, backward, values, pqueue.ComplexityPenalty(onestep))
	case RegularExpression:
		return pqueue.NewStaticPenalty(states, forward, backward, values, pqueue.RegexPenalty)
	default:
		return pqueue.NewStatic(states)
	}
}

// sortedByDistance returns states sorted by dist, farthest-first when
// descending is true, nearest-first otherwise. States with no recorded
// distance (-1, unreached by the BFS that produced dist) sort last
// regardless of direction, since they carry no useful ordering signal.
func sortedByDistance(states []int, dist []int, descending bool) []int {
	out := append([]int(nil), states...)
	rank := func(s int) int {
		d := dist[s]
		if d < 0 {
			return 1 << 30
		}
		return d
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := rank(out[i]), rank(out[j])
		if di == dj {
			return out[i] < out[j]
		}
		if descending {
			return di > dj
		}
		return di < dj
	})
	return out
}

// shuffled returns a deterministic Fisher-Yates permutation of states
// under seed, matching spec §5's "the only nondeterminism comes from an
// explicit PRNG seed" requirement.
func shuffled(states []int, seed int64) []int {
	out := append([]int(nil), states...)
	rng := rand.New(rand.NewSource(seed))
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
