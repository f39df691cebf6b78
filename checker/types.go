package checker

import (
	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/ring"
)

// PropertyKind selects which of the core's top-level computations a
// CheckTask requests (spec §6).
type PropertyKind int

const (
	Until PropertyKind = iota
	BoundedUntil
	Reachability
	ReachabilityReward
	Conditional
	LongRunAverage
)

// CheckTask is the frontend's request into the core (spec §6). Phi/Psi are
// always resolved BitSets over the full state space already — label
// resolution is a frontend concern, not the core's.
type CheckTask struct {
	Kind              PropertyKind
	OnlyInitialStates bool
	RewardModelID     string
	Bound             int          // steps, for BoundedUntil
	Phi, Psi          *bitset.Set  // Until/BoundedUntil/Reachability
	Psi2              *bitset.Set  // Conditional: P(phi U psi | phi U psi2)
	Rewards           []ring.Value // ReachabilityReward, indexed by state
	Initial           *bitset.Set
}

// ResultKind distinguishes a numeric result vector from a qualitative set
// (spec §6's CheckResult variants).
type ResultKind int

const (
	Quantitative ResultKind = iota
	Qualitative
)

// CheckResult is the core's response (spec §6), already filtered to the
// initial states when the task's OnlyInitialStates was set.
type CheckResult struct {
	Kind   ResultKind
	Values []ring.Value
	Set    *bitset.Set
}
