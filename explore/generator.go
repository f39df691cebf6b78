package explore

import "github.com/katalvlaran/pmcheck/ring"

// IDAllocator hands out dense integer ids for generator-defined
// fingerprints, used by a StateGenerator while expanding a state so the
// successors it discovers share the Explorer's id space.
type IDAllocator interface {
	// GetOrAdd returns the id for fingerprint, allocating a new one in
	// discovery order if fingerprint has not been seen before.
	GetOrAdd(fingerprint []byte) int
	// GetOrAddPseudo reserves a placeholder id in the OffsetPseudoState
	// range for a fingerprint the generator cannot yet normalize (spec
	// §4.F "pseudo-states", used when exploiting state symmetries). If
	// fingerprint was already assigned a real id, that id is returned
	// instead of a new pseudo one.
	GetOrAddPseudo(fingerprint []byte) int
}

// Transition is one outgoing edge of a Choice: a target state id and its
// scalar weight (probability or rate, depending on the model type).
type Transition struct {
	Target int
	Value  ring.Value
}

// Choice is one nondeterministic option out of a state: a set of outgoing
// transitions plus whether they are Markovian (rate-labeled) or
// probabilistic. DTMC/CTMC models produce exactly one Choice per state;
// MDP/MA models may produce several.
type Choice struct {
	Markovian   bool
	Transitions []Transition
}

// StateBehavior is the full set of choices available out of one state, as
// produced by StateGenerator.Expand.
type StateBehavior struct {
	Choices []Choice
}

// StateGenerator is the external model front-end the Explorer drives. A
// generator owns its own internal state representation; Load(state)
// switches its internal cursor to state's fingerprint (already known to
// the generator because it, or the Explorer on its behalf, allocated
// state's id in the first place) before Expand is called.
type StateGenerator interface {
	// GetInitialStates returns the ids of every initial state, allocating
	// them through alloc.
	GetInitialStates(alloc IDAllocator) ([]int, error)
	// Load switches the generator's cursor to state.
	Load(state int) error
	// Expand returns the loaded state's behavior, allocating any newly
	// discovered successor fingerprints through alloc.
	Expand(alloc IDAllocator) (StateBehavior, error)
	// IsDeterministicModel reports whether every state has exactly one
	// Choice (DTMC/CTMC) as opposed to possibly several (MDP/MA).
	IsDeterministicModel() bool
}

// FailedStateGenerator is an optional StateGenerator extension for models
// (typically fault trees) that coalesce every absorbing failure condition
// into one synthetic state, used as the redirect target for states the
// approximation heuristic decides to skip. id is the failed state's own
// id, already reserved by the Explorer — passed in because the generator
// has no other way to build a self-referencing absorbing choice for it.
type FailedStateGenerator interface {
	CreateMergeFailedState(alloc IDAllocator, id int) (StateBehavior, error)
}
