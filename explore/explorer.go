package explore

import (
	"sort"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
)

// failedStateFingerprint is the sentinel fingerprint the Explorer itself
// reserves an id for on first use, outside the generator's own fingerprint
// space — the generator never sees or allocates this id, it only supplies
// the behavior to install at it via CreateMergeFailedState.
var failedStateFingerprint = []byte("\x00pmcheck:merged-failed-state\x00")

// Explorer drives a StateGenerator to build a sparse.Matrix plus a
// bitset.Set of Markovian states (spec §4.F). A fresh Explorer starts from
// an empty IDTable; passing an IDTable already populated by a previous
// Explore call (via WithIDTable) lets a refinement iteration keep the ids
// already assigned: every known id is loaded and expanded again in id
// order, and the matrix is rebuilt from scratch over all of them.
type Explorer struct {
	Gen       StateGenerator
	VR        ring.Ring
	IDs       *IDTable
	Heuristic ApproximationHeuristic
	Threshold float64

	skipped map[int][]ring.Value // state -> candidate rates, for later bound recomputation
}

// Option configures an Explorer at construction time.
type Option func(*Explorer)

// WithApproximation installs a skip heuristic and its threshold.
func WithApproximation(h ApproximationHeuristic, threshold float64) Option {
	return func(e *Explorer) {
		e.Heuristic = h
		e.Threshold = threshold
	}
}

// WithIDTable seeds the Explorer with a previously populated table, for
// iterative refinement (spec §4.F).
func WithIDTable(t *IDTable) Option {
	return func(e *Explorer) { e.IDs = t }
}

// NewExplorer returns an Explorer over gen, values typed by vr.
func NewExplorer(gen StateGenerator, vr ring.Ring, opts ...Option) *Explorer {
	e := &Explorer{Gen: gen, VR: vr, IDs: NewIDTable(), skipped: make(map[int][]ring.Value)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SkippedRates returns the candidate follow-up rates recorded for state
// when it was skipped, or nil if state was never skipped.
func (e *Explorer) SkippedRates(state int) []ring.Value { return e.skipped[state] }

// Explore runs the generator to a fixed point over the id space (every id
// discovered while expanding an earlier state is itself expanded, in
// ascending id order) and assembles the result.
func (e *Explorer) Explore() (*sparse.Matrix, *bitset.Set, error) {
	initial, err := e.Gen.GetInitialStates(e.IDs)
	if err != nil {
		return nil, nil, err
	}
	if len(initial) == 0 {
		return nil, nil, ErrNoInitialStates
	}

	var behaviors []StateBehavior
	grow := func(n int) {
		for len(behaviors) < n {
			behaviors = append(behaviors, StateBehavior{})
		}
	}

	markovianStates := make(map[int]bool)
	failedID := -1

	for processed := 0; processed < e.IDs.Size(); processed++ {
		state := processed
		grow(state + 1)

		if state == failedID {
			continue // already installed below when the failed state was reserved
		}

		if err := e.Gen.Load(state); err != nil {
			return nil, nil, err
		}
		behavior, err := e.Gen.Expand(e.IDs)
		if err != nil {
			return nil, nil, err
		}
		recordMarkovian(markovianStates, state, behavior)

		if e.Heuristic == nil || !e.Heuristic.ShouldSkip(state, e.Threshold) {
			behaviors[state] = behavior
			continue
		}

		e.skipped[state] = collectRates(behavior)

		if failedID < 0 {
			fg, ok := e.Gen.(FailedStateGenerator)
			if !ok {
				return nil, nil, ErrFailedStateUnsupported
			}
			failedID = e.IDs.GetOrAdd(failedStateFingerprint)
			grow(failedID + 1)
			failedBehavior, err := fg.CreateMergeFailedState(e.IDs, failedID)
			if err != nil {
				return nil, nil, err
			}
			behaviors[failedID] = failedBehavior
		}

		behaviors[state] = StateBehavior{Choices: []Choice{{
			Markovian:   anyMarkovian(behavior),
			Transitions: []Transition{{Target: failedID, Value: e.VR.Zero()}},
		}}}
	}

	if err := e.IDs.ReplaceColumns(behaviors); err != nil {
		return nil, nil, err
	}

	return e.build(behaviors, markovianStates)
}

// ApplyLowerBound recomputes every skipped state's provisional transition
// value via the heuristic's ChangeMatrixLowerBound formula, returning a
// new Matrix (spec §4.F post-processing pass).
func (e *Explorer) ApplyLowerBound(m *sparse.Matrix) *sparse.Matrix {
	return e.applyBound(m, e.Heuristic.ChangeMatrixLowerBound)
}

// ApplyUpperBound is ApplyLowerBound's counterpart using
// ChangeMatrixUpperBound.
func (e *Explorer) ApplyUpperBound(m *sparse.Matrix) *sparse.Matrix {
	return e.applyBound(m, e.Heuristic.ChangeMatrixUpperBound)
}

func (e *Explorer) applyBound(m *sparse.Matrix, bound func([]ring.Value, ring.Ring) ring.Value) *sparse.Matrix {
	f := sparse.FromMatrix(m)
	for state, rates := range e.skipped {
		start, _ := m.GetRowGroup(state)
		row := f.GetRow(start)
		if len(row) != 1 {
			continue
		}
		f.ReplaceRow(start, []sparse.Entry{{Column: row[0].Column, Value: bound(rates, e.VR)}})
	}
	return f.ToMatrixGrouped(m.GetRowGroupIndices())
}

func (e *Explorer) build(behaviors []StateBehavior, markovianStates map[int]bool) (*sparse.Matrix, *bitset.Set, error) {
	b := sparse.NewBuilder(len(behaviors), e.VR)
	for _, behavior := range behaviors {
		b.NewRowGroup()
		choices := behavior.Choices
		if len(choices) == 0 {
			if err := b.AddRow(); err != nil {
				return nil, nil, err
			}
			continue
		}
		for _, c := range choices {
			if err := b.AddRow(mergedSortedEntries(c.Transitions)...); err != nil {
				return nil, nil, err
			}
		}
	}

	m, err := b.Build()
	if err != nil {
		return nil, nil, err
	}

	markovianIDs := make([]int, 0, len(markovianStates))
	for s := range markovianStates {
		markovianIDs = append(markovianIDs, s)
	}
	return m, bitset.FromSlice(len(behaviors), markovianIDs), nil
}

func recordMarkovian(markovianStates map[int]bool, state int, behavior StateBehavior) {
	if anyMarkovian(behavior) {
		markovianStates[state] = true
	}
}

func anyMarkovian(behavior StateBehavior) bool {
	for _, c := range behavior.Choices {
		if c.Markovian {
			return true
		}
	}
	return false
}

func collectRates(behavior StateBehavior) []ring.Value {
	var rates []ring.Value
	for _, c := range behavior.Choices {
		for _, tr := range c.Transitions {
			rates = append(rates, tr.Value)
		}
	}
	return rates
}

func mergedSortedEntries(transitions []Transition) []sparse.Entry {
	byTarget := make(map[int]ring.Value, len(transitions))
	for _, tr := range transitions {
		if v, ok := byTarget[tr.Target]; ok {
			byTarget[tr.Target] = v.Add(tr.Value)
		} else {
			byTarget[tr.Target] = tr.Value
		}
	}
	targets := make([]int, 0, len(byTarget))
	for t := range byTarget {
		targets = append(targets, t)
	}
	sort.Ints(targets)

	entries := make([]sparse.Entry, len(targets))
	for i, t := range targets {
		entries[i] = sparse.Entry{Column: t, Value: byTarget[t]}
	}
	return entries
}
