package explore

import (
	"testing"

	"github.com/katalvlaran/pmcheck/ring"
	"github.com/stretchr/testify/require"
)

// branchGen is a fixed three-state DTMC: s0 branches 0.5/0.5 to two
// absorbing states. Ids are discovered lazily, matching a real
// StateGenerator: the fingerprint->id correspondence is whatever the
// Explorer's IDTable assigns, and branchGen only ever refers to states by
// the fingerprint label it chose for them.
type branchGen struct {
	idOf    map[string]int
	current string
}

func newBranchGen() *branchGen { return &branchGen{idOf: make(map[string]int)} }

func (g *branchGen) GetInitialStates(alloc IDAllocator) ([]int, error) {
	id := alloc.GetOrAdd([]byte("s0"))
	g.idOf["s0"] = id
	return []int{id}, nil
}

func (g *branchGen) Load(state int) error {
	for label, id := range g.idOf {
		if id == state {
			g.current = label
			return nil
		}
	}
	return nil
}

func (g *branchGen) Expand(alloc IDAllocator) (StateBehavior, error) {
	switch g.current {
	case "s0":
		id1 := alloc.GetOrAdd([]byte("s1"))
		id2 := alloc.GetOrAdd([]byte("s2"))
		g.idOf["s1"] = id1
		g.idOf["s2"] = id2
		return StateBehavior{Choices: []Choice{{Transitions: []Transition{
			{Target: id1, Value: ring.Float64(0.5)},
			{Target: id2, Value: ring.Float64(0.5)},
		}}}}, nil
	case "s1", "s2":
		self := g.idOf[g.current]
		return StateBehavior{Choices: []Choice{{Transitions: []Transition{
			{Target: self, Value: ring.Float64(1.0)},
		}}}}, nil
	}
	return StateBehavior{}, nil
}

func (g *branchGen) IsDeterministicModel() bool { return true }

func TestExplorerBuildsExpectedMatrix(t *testing.T) {
	gen := newBranchGen()
	e := NewExplorer(gen, ring.F64Ring)
	m, markovian, err := e.Explore()
	require.NoError(t, err)
	require.Equal(t, 3, m.RowCount())
	require.Equal(t, 0, markovian.Count())

	row0 := m.GetRow(0)
	require.Len(t, row0, 2)
	require.Equal(t, gen.idOf["s1"], row0[0].Column)
	require.Equal(t, gen.idOf["s2"], row0[1].Column)

	row1 := m.GetRow(gen.idOf["s1"])
	require.Len(t, row1, 1)
	require.Equal(t, gen.idOf["s1"], row1[0].Column)
	require.True(t, row1[0].Value.IsOne())
}

// skipGen is a single Markovian state whose two candidate rates (2.0, 4.0)
// are recorded for the approximation heuristic to bound, and which
// supports CreateMergeFailedState.
type skipGen struct {
	idOf    map[string]int
	current int
}

func newSkipGen() *skipGen { return &skipGen{idOf: make(map[string]int)} }

func (g *skipGen) GetInitialStates(alloc IDAllocator) ([]int, error) {
	id := alloc.GetOrAdd([]byte("s0"))
	g.idOf["s0"] = id
	return []int{id}, nil
}

func (g *skipGen) Load(state int) error {
	g.current = state
	return nil
}

func (g *skipGen) Expand(alloc IDAllocator) (StateBehavior, error) {
	if g.current != g.idOf["s0"] {
		// s1/s2: absorbing self-loops. The Explorer still expands them
		// because s0's expansion allocated their ids, but since s0 is
		// always skipped no row of the built matrix leads to them.
		return StateBehavior{Choices: []Choice{{Transitions: []Transition{
			{Target: g.current, Value: ring.Float64(1.0)},
		}}}}, nil
	}
	id1 := alloc.GetOrAdd([]byte("s1"))
	id2 := alloc.GetOrAdd([]byte("s2"))
	g.idOf["s1"] = id1
	g.idOf["s2"] = id2
	return StateBehavior{Choices: []Choice{{Markovian: true, Transitions: []Transition{
		{Target: id1, Value: ring.Float64(2.0)},
		{Target: id2, Value: ring.Float64(4.0)},
	}}}}, nil
}

func (g *skipGen) IsDeterministicModel() bool { return true }

func (g *skipGen) CreateMergeFailedState(alloc IDAllocator, id int) (StateBehavior, error) {
	return StateBehavior{Choices: []Choice{{Transitions: []Transition{
		{Target: id, Value: ring.Float64(1.0)},
	}}}}, nil
}

func TestExplorerSkipsAndBoundsRecompute(t *testing.T) {
	h := NewRateMassHeuristic()
	h.Observe(0, 0) // mass 0 < threshold 1 -> skipped
	gen := newSkipGen()
	e := NewExplorer(gen, ring.F64Ring, WithApproximation(h, 1))

	m, _, err := e.Explore()
	require.NoError(t, err)
	require.Len(t, e.SkippedRates(0), 2)

	row0 := m.GetRow(0)
	require.Len(t, row0, 1)
	require.True(t, row0[0].Value.IsZero(), "provisional value starts at zero")

	lower := e.ApplyLowerBound(m)
	require.InDelta(t, 6.0, float64(lower.GetRow(0)[0].Value.(ring.Float64)), 1e-12)

	upper := e.ApplyUpperBound(m)
	// harmonic mean of {2,4}: 1/(1/2+1/4) = 4/3
	require.InDelta(t, 4.0/3.0, float64(upper.GetRow(0)[0].Value.(ring.Float64)), 1e-12)
}

func TestIDTablePseudoStateResolution(t *testing.T) {
	tbl := NewIDTable()
	pseudo := tbl.GetOrAddPseudo([]byte("future-state"))
	require.GreaterOrEqual(t, pseudo, OffsetPseudoState)

	behaviors := []StateBehavior{{Choices: []Choice{{Transitions: []Transition{
		{Target: pseudo, Value: ring.Float64(1.0)},
	}}}}}

	require.ErrorIs(t, tbl.ReplaceColumns(behaviors), ErrUnresolvedPseudoState)

	real := tbl.GetOrAdd([]byte("future-state"))
	require.NoError(t, tbl.ReplaceColumns(behaviors))
	require.Equal(t, real, behaviors[0].Choices[0].Transitions[0].Target)
}

func TestRateMassHeuristicBoundFormulas(t *testing.T) {
	h := NewRateMassHeuristic()
	rates := []ring.Value{ring.Float64(1), ring.Float64(2), ring.Float64(4)}
	require.InDelta(t, 7.0, float64(h.ChangeMatrixLowerBound(rates, ring.F64Ring).(ring.Float64)), 1e-12)
	// harmonic mean: 1/(1+0.5+0.25) = 4/7
	require.InDelta(t, 4.0/7.0, float64(h.ChangeMatrixUpperBound(rates, ring.F64Ring).(ring.Float64)), 1e-12)
}
