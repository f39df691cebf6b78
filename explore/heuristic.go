package explore

import "github.com/katalvlaran/pmcheck/ring"

// ApproximationHeuristic is the Explorer's skip policy (spec §4.F). A
// state the heuristic decides to skip is still expanded, so the successor
// ids it allocates are kept, but its row does not lead to those
// successors; instead its single outgoing transition points at the
// generator's merged failed state with a provisional value that
// ChangeMatrixLowerBound/ChangeMatrixUpperBound later recompute from the
// rates the state would have transitioned on had it been expanded fully.
type ApproximationHeuristic interface {
	ShouldSkip(state int, threshold float64) bool
	// ChangeMatrixLowerBound returns Σ rates — an upper bound on the
	// probability of reaching failure from state, used as a lower bound
	// on state's reach probability via 1-bound.
	ChangeMatrixLowerBound(rates []ring.Value, vr ring.Ring) ring.Value
	// ChangeMatrixUpperBound returns the harmonic mean 1/(Σ 1/rate_i) —
	// the sequential-failure lower-bound rate.
	ChangeMatrixUpperBound(rates []ring.Value, vr ring.Ring) ring.Value
}

// RateMassHeuristic is a concrete ApproximationHeuristic driven by a
// caller-supplied mass estimate per state (e.g. accumulated reach
// probability at discovery time): a state is skipped once its recorded
// mass falls below the threshold passed to ShouldSkip. States never
// recorded via Observe are never skipped, so a heuristic left unused
// behaves as "always expand".
type RateMassHeuristic struct {
	mass map[int]float64
}

// NewRateMassHeuristic returns an empty heuristic.
func NewRateMassHeuristic() *RateMassHeuristic {
	return &RateMassHeuristic{mass: make(map[int]float64)}
}

// Observe records state's current mass estimate for a later ShouldSkip
// call.
func (h *RateMassHeuristic) Observe(state int, mass float64) {
	h.mass[state] = mass
}

func (h *RateMassHeuristic) ShouldSkip(state int, threshold float64) bool {
	m, ok := h.mass[state]
	return ok && m < threshold
}

func (h *RateMassHeuristic) ChangeMatrixLowerBound(rates []ring.Value, vr ring.Ring) ring.Value {
	sum := vr.Zero()
	for _, r := range rates {
		sum = sum.Add(r)
	}
	return sum
}

func (h *RateMassHeuristic) ChangeMatrixUpperBound(rates []ring.Value, vr ring.Ring) ring.Value {
	if len(rates) == 0 {
		return vr.Zero()
	}
	one := vr.One()
	sumInv := vr.Zero()
	for _, r := range rates {
		sumInv = sumInv.Add(one.Div(r))
	}
	return one.Div(sumInv)
}
