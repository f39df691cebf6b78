package explore

import "errors"

// ErrNoInitialStates is returned when a StateGenerator reports zero
// initial states — Explore has nothing to do and that is always a caller
// mistake, never a valid model.
var ErrNoInitialStates = errors.New("explore: generator reported no initial states")

// ErrUnresolvedPseudoState is returned by ReplaceColumns when a pseudo-id
// reserved via IDAllocator.GetOrAddPseudo was never resolved to a real id
// before the final column-rewrite pass ran.
var ErrUnresolvedPseudoState = errors.New("explore: pseudo-state never resolved to a real id")

// ErrFailedStateUnsupported is returned when ApproximationHeuristic skips
// a state but the StateGenerator does not implement FailedStateGenerator,
// so there is no absorbing state to redirect the skipped transition to.
var ErrFailedStateUnsupported = errors.New("explore: generator does not support create_merge_failed_state, but a state was skipped")
