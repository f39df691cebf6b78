package checker

import (
	"context"
	"testing"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
	"github.com/stretchr/testify/require"
)

// twoStateChain builds a 3-state DTMC: state 0 (transient) moves to state
// 1 (target, absorbing) with probability 0.7 and to state 2 (fail,
// absorbing) with probability 0.3.
func twoStateChain(t *testing.T) *sparse.Matrix {
	b := sparse.NewBuilder(3, ring.F64Ring)
	rows := [][]sparse.Entry{
		{{Column: 1, Value: ring.Float64(0.7)}, {Column: 2, Value: ring.Float64(0.3)}},
		{{Column: 1, Value: ring.Float64(1.0)}},
		{{Column: 2, Value: ring.Float64(1.0)}},
	}
	for _, r := range rows {
		b.NewRowGroup()
		require.NoError(t, b.AddRow(r...))
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestUntilMatchesTwoStateChain(t *testing.T) {
	m := twoStateChain(t)
	s := NewSolver(m, ring.F64Ring, NewCoreConfig())
	task := CheckTask{Kind: Reachability, Psi: bitset.FromSlice(3, []int{1}), Initial: bitset.FromSlice(3, []int{0})}
	result, err := s.Run(context.Background(), task)
	require.NoError(t, err)
	require.InDelta(t, 0.7, float64(result.Values[0].(ring.Float64)), 1e-12)
	require.InDelta(t, 1.0, float64(result.Values[1].(ring.Float64)), 1e-12)
	require.InDelta(t, 0.0, float64(result.Values[2].(ring.Float64)), 1e-12)
}

// biasedGambler builds the full 6-state chain (0 fail, 5 target, 1..4
// transient, up 0.4 / down 0.6), matching eliminate_test.go's reduced
// fixture but including the absorbing boundary states explicitly.
func biasedGambler(t *testing.T) *sparse.Matrix {
	b := sparse.NewBuilder(6, ring.F64Ring)
	rows := [][]sparse.Entry{
		{{Column: 0, Value: ring.Float64(1.0)}},
		{{Column: 0, Value: ring.Float64(0.6)}, {Column: 2, Value: ring.Float64(0.4)}},
		{{Column: 1, Value: ring.Float64(0.6)}, {Column: 3, Value: ring.Float64(0.4)}},
		{{Column: 2, Value: ring.Float64(0.6)}, {Column: 4, Value: ring.Float64(0.4)}},
		{{Column: 3, Value: ring.Float64(0.6)}, {Column: 5, Value: ring.Float64(0.4)}},
		{{Column: 5, Value: ring.Float64(1.0)}},
	}
	for _, r := range rows {
		b.NewRowGroup()
		require.NoError(t, b.AddRow(r...))
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestUntilMatchesBiasedGamblerClosedForm(t *testing.T) {
	m := biasedGambler(t)
	s := NewSolver(m, ring.F64Ring, NewCoreConfig())
	task := CheckTask{Kind: Reachability, Psi: bitset.FromSlice(6, []int{5}), Initial: bitset.FromSlice(6, []int{2})}
	result, err := s.Run(context.Background(), task)
	require.NoError(t, err)
	require.InDelta(t, 40.0/211.0, float64(result.Values[2].(ring.Float64)), 1e-9)
}

func TestUntilIsInvariantUnderEliminationOrder(t *testing.T) {
	m := biasedGambler(t)
	orders := []EliminationOrder{Forward, ForwardReversed, Backward, BackwardReversed, StaticPenalty, DynamicPenalty}
	var want *float64
	for _, order := range orders {
		cfg := NewCoreConfig(WithEliminationOrder(order))
		s := NewSolver(m, ring.F64Ring, cfg)
		task := CheckTask{Kind: Reachability, Psi: bitset.FromSlice(6, []int{5}), Initial: bitset.FromSlice(6, []int{2}), OnlyInitialStates: true}
		result, err := s.Run(context.Background(), task)
		require.NoError(t, err)
		got := float64(result.Values[2].(ring.Float64))
		if want == nil {
			want = &got
		} else {
			require.InDelta(t, *want, got, 1e-9, "order %d disagrees on initial-state value", order)
		}
	}
}

func TestHybridMethodAgreesWithFlatStateMethod(t *testing.T) {
	m := biasedGambler(t)
	task := CheckTask{Kind: Reachability, Psi: bitset.FromSlice(6, []int{5}), Initial: bitset.FromSlice(6, []int{2})}

	flat := NewSolver(m, ring.F64Ring, NewCoreConfig(WithEliminationMethod(State)))
	flatResult, err := flat.Run(context.Background(), task)
	require.NoError(t, err)

	hybrid := NewSolver(m, ring.F64Ring, NewCoreConfig(WithEliminationMethod(Hybrid)))
	hybridResult, err := hybrid.Run(context.Background(), task)
	require.NoError(t, err)

	for i := range flatResult.Values {
		require.InDelta(t, float64(flatResult.Values[i].(ring.Float64)), float64(hybridResult.Values[i].(ring.Float64)), 1e-9, "state %d", i)
	}
}

// conditionalChain builds a 4-state chain where the initial state forks
// into three absorbing outcomes (1: psi and psi2, 2: neither, 3: psi2 only),
// so conditioning on reaching {1,3} (phi U psi2) changes the unconditional
// probability of reaching {1}.
func conditionalChain(t *testing.T) *sparse.Matrix {
	b := sparse.NewBuilder(4, ring.F64Ring)
	rows := [][]sparse.Entry{
		{{Column: 1, Value: ring.Float64(0.5)}, {Column: 2, Value: ring.Float64(0.2)}, {Column: 3, Value: ring.Float64(0.3)}},
		{{Column: 1, Value: ring.Float64(1.0)}},
		{{Column: 2, Value: ring.Float64(1.0)}},
		{{Column: 3, Value: ring.Float64(1.0)}},
	}
	for _, r := range rows {
		b.NewRowGroup()
		require.NoError(t, b.AddRow(r...))
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestConditionalDividesByConditioningProbability(t *testing.T) {
	m := conditionalChain(t)
	s := NewSolver(m, ring.F64Ring, NewCoreConfig())
	full := bitset.FromSlice(4, []int{0, 1, 2, 3})
	task := CheckTask{
		Kind:    Conditional,
		Phi:     full,
		Psi:     bitset.FromSlice(4, []int{1}),
		Psi2:    bitset.FromSlice(4, []int{1, 3}),
		Initial: bitset.FromSlice(4, []int{0}),
	}
	result, err := s.Run(context.Background(), task)
	require.NoError(t, err)
	// P(reach {1,3}) = 0.8; P(reach {1}) = 0.5; conditional = 0.5/0.8 = 0.625.
	require.InDelta(t, 0.625, float64(result.Values[0].(ring.Float64)), 1e-9)
}

func TestConditionalRejectsZeroProbabilityCondition(t *testing.T) {
	m := conditionalChain(t)
	s := NewSolver(m, ring.F64Ring, NewCoreConfig())
	task := CheckTask{
		Kind:    Conditional,
		Phi:     bitset.FromSlice(4, []int{0, 1, 2, 3}),
		Psi:     bitset.FromSlice(4, []int{1}),
		Psi2:    bitset.FromSlice(4, []int{}),
		Initial: bitset.FromSlice(4, []int{0}),
	}
	_, err := s.Run(context.Background(), task)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidProperty)
}

func TestBoundedUntilConvergesToUnboundedAsBoundGrows(t *testing.T) {
	m := biasedGambler(t)
	s := NewSolver(m, ring.F64Ring, NewCoreConfig())
	task := CheckTask{Kind: BoundedUntil, Phi: bitset.FromSlice(6, []int{1, 2, 3, 4}), Psi: bitset.FromSlice(6, []int{5}), Bound: 200}
	result, err := s.Run(context.Background(), task)
	require.NoError(t, err)
	require.InDelta(t, 40.0/211.0, float64(result.Values[2].(ring.Float64)), 1e-6)
}

func TestReachabilityRewardAssignsInfinityWhenTargetUnreachable(t *testing.T) {
	b := sparse.NewBuilder(2, ring.F64Ring)
	b.NewRowGroup()
	require.NoError(t, b.AddRow(sparse.Entry{Column: 0, Value: ring.Float64(1.0)}))
	b.NewRowGroup()
	require.NoError(t, b.AddRow(sparse.Entry{Column: 1, Value: ring.Float64(1.0)}))
	m, err := b.Build()
	require.NoError(t, err)

	s := NewSolver(m, ring.F64Ring, NewCoreConfig())
	task := CheckTask{
		Kind:    ReachabilityReward,
		Psi:     bitset.FromSlice(2, []int{1}),
		Rewards: []ring.Value{ring.Float64(1.0), ring.Float64(0.0)},
	}
	result, err := s.Run(context.Background(), task)
	require.NoError(t, err)
	require.True(t, float64(result.Values[0].(ring.Float64)) > 1e10)
}
