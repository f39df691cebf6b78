package reach

import (
	"testing"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
	"github.com/stretchr/testify/require"
)

// buildChain constructs Scenario 1 from spec §8: s0->s0 (1/2), s0->s1
// (1/2), s1->s1 (1).
func buildChain(t *testing.T) *sparse.Matrix {
	b := sparse.NewBuilder(2, ring.F64Ring)
	b.NewRowGroup()
	require.NoError(t, b.AddRow(sparse.Entry{Column: 0, Value: ring.Float64(0.5)}, sparse.Entry{Column: 1, Value: ring.Float64(0.5)}))
	b.NewRowGroup()
	require.NoError(t, b.AddRow(sparse.Entry{Column: 1, Value: ring.Float64(1)}))
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestProb1MatchesActualReachProbabilityOne(t *testing.T) {
	forward := buildChain(t)
	backward := forward.Transpose()
	phi := bitset.FromSlice(2, []int{0, 1})
	psi := bitset.FromSlice(2, []int{1})

	p1 := Prob1(forward, backward, phi, psi)
	// s1 trivially prob 1 (psi); s0 reaches s1 with prob 1 in the limit.
	require.True(t, p1.Contains(0))
	require.True(t, p1.Contains(1))
}

func TestProb01PartitionCoversAndIsDisjoint(t *testing.T) {
	forward := buildChain(t)
	backward := forward.Transpose()
	phi := bitset.FromSlice(2, []int{0, 1})
	psi := bitset.FromSlice(2, []int{1})

	prob0, prob1 := Prob01(forward, backward, phi, psi)
	maybe := Maybe(prob0, prob1)

	require.True(t, prob0.Intersect(prob1).IsEmpty())
	require.True(t, prob0.Intersect(maybe).IsEmpty())
	require.True(t, prob1.Intersect(maybe).IsEmpty())
	require.Equal(t, 2, prob0.Union(prob1).Union(maybe).Count())
}

func TestGetReachableStatesStopsAtTarget(t *testing.T) {
	forward := buildChain(t)
	initial := bitset.FromSlice(2, []int{0})
	allowed := bitset.FromSlice(2, []int{0, 1})
	target := bitset.FromSlice(2, []int{1})

	reachable := GetReachableStates(forward, initial, allowed, target, false, 0)
	require.Equal(t, []int{0, 1}, reachable.Slice())
}

func TestGetDistancesBFSLevels(t *testing.T) {
	forward := buildChain(t)
	initial := bitset.FromSlice(2, []int{0})
	dist := GetDistances(forward, initial)
	require.Equal(t, 0, dist[0])
	require.Equal(t, 1, dist[1])
}

// twoCycleMatrix builds Scenario 3's graph structure for SCC tests: a
// transient s0, and two disjoint 3-cycles A={1,2,3}, B={4,5,6}.
func twoCycleMatrix(t *testing.T) *sparse.Matrix {
	b := sparse.NewBuilder(7, ring.F64Ring)
	b.NewRowGroup() // s0
	require.NoError(t, b.AddRow(sparse.Entry{Column: 1, Value: ring.Float64(0.25)}, sparse.Entry{Column: 4, Value: ring.Float64(0.75)}))
	for _, cyc := range [][3]int{{1, 2, 3}, {4, 5, 6}} {
		for i := 0; i < 3; i++ {
			b.NewRowGroup()
			next := cyc[(i+1)%3]
			require.NoError(t, b.AddRow(sparse.Entry{Column: next, Value: ring.Float64(1)}))
		}
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestDecomposeSCCsFindsBottomCycles(t *testing.T) {
	m := twoCycleMatrix(t)
	all := bitset.FromSlice(7, []int{0, 1, 2, 3, 4, 5, 6})
	sccs := DecomposeSCCs(m, all, true, true)

	require.Len(t, sccs, 2)
	sizes := []int{len(sccs[0]), len(sccs[1])}
	require.ElementsMatch(t, []int{3, 3}, sizes)
}

func TestDecomposeSCCsDropsNaiveSingleton(t *testing.T) {
	m := twoCycleMatrix(t)
	all := bitset.FromSlice(7, []int{0, 1, 2, 3, 4, 5, 6})
	sccs := DecomposeSCCs(m, all, true, false)

	for _, scc := range sccs {
		if len(scc) == 1 {
			require.NotEqual(t, 0, scc[0], "s0 has no self-loop and must be dropped as naive")
		}
	}
}
