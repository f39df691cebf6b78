package pqueue

import (
	"testing"

	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
	"github.com/stretchr/testify/require"
)

func TestStaticWalksFixedOrder(t *testing.T) {
	q := NewStatic([]int{2, 0, 1})
	require.Equal(t, 3, q.Size())
	got := []int{}
	for q.HasNext() {
		got = append(got, q.PopNext())
	}
	require.Equal(t, []int{2, 0, 1}, got)
}

func buildFlexiblePair(t *testing.T) (*sparse.Flexible, *sparse.Flexible) {
	b := sparse.NewBuilder(3, ring.F64Ring)
	b.NewRowGroup()
	require.NoError(t, b.AddRow(sparse.Entry{Column: 1, Value: ring.Float64(0.5)}, sparse.Entry{Column: 2, Value: ring.Float64(0.5)}))
	b.NewRowGroup()
	require.NoError(t, b.AddRow(sparse.Entry{Column: 2, Value: ring.Float64(1)}))
	b.NewRowGroup()
	require.NoError(t, b.AddRow(sparse.Entry{Column: 2, Value: ring.Float64(1)}))
	m, err := b.Build()
	require.NoError(t, err)
	return sparse.FromMatrix(m), sparse.FromMatrix(m.Transpose())
}

func TestStaticPenaltySortsByAscendingPenalty(t *testing.T) {
	fwd, bwd := buildFlexiblePair(t)
	values := []ring.Value{ring.Float64(0), ring.Float64(0), ring.Float64(1)}

	q := NewStaticPenalty([]int{0, 1}, fwd, bwd, values, RegexPenalty)
	require.Equal(t, 2, q.Size())
	first := q.PopNext()
	second := q.PopNext()
	require.Equal(t, []int{0, 1}, []int{first, second})
}

func TestDynamicPenaltyReordersOnUpdate(t *testing.T) {
	fwd, bwd := buildFlexiblePair(t)
	values := []ring.Value{ring.Float64(0), ring.Float64(0), ring.Float64(1)}

	// Initially state 0 has no predecessors (penalty 0*2=0), state 1 has
	// one predecessor and one successor (penalty 1*1=1), so state 0 sorts
	// first. Grow state 0's predecessor count past state 1's penalty and
	// confirm the re-rank flips the pop order.
	q := NewDynamicPenalty([]int{0, 1}, fwd, bwd, values, RegexPenalty)
	require.Equal(t, 2, q.Size())

	bwd.AppendEntry(0, 2, ring.Float64(0.1)) // state 0 gains a predecessor
	q.Update(0, fwd, bwd, values)

	require.Equal(t, 2, q.Size())
	first := q.PopNext()
	require.Equal(t, 1, first, "state 1 now has the smaller penalty and pops first")
	require.Equal(t, 0, q.PopNext())
}

func TestDynamicPenaltyUpdateOnEliminatedStateIsNoop(t *testing.T) {
	fwd, bwd := buildFlexiblePair(t)
	values := []ring.Value{ring.Float64(0), ring.Float64(0), ring.Float64(1)}
	q := NewDynamicPenalty([]int{0}, fwd, bwd, values, RegexPenalty)

	require.Equal(t, 0, q.PopNext())
	require.False(t, q.HasNext())
	q.Update(0, fwd, bwd, values) // state already eliminated, must be silently ignored
	require.False(t, q.HasNext())
}
