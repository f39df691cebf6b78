package eliminate

import (
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
)

// Prioritized is the plain reachability/reward eliminator of spec §4.H:
// eliminating state folds its own self-loop into Values[state], then
// folds the result into every predecessor's entry. The eliminated state
// keeps its outgoing row, scaled by its loop factor, so that eliminating
// one of its successors later still folds that successor's value into
// Values[state]; the final values therefore do not depend on the
// elimination order. When ResultsForInitialOnly is set and IsInitial
// reports state is not an initial state, the outgoing row is dropped and
// Values[state] is zeroed immediately after propagation — the value has
// already been absorbed into predecessors and is not read back.
type Prioritized struct {
	Ctx                   *Context
	ResultsForInitialOnly bool
	IsInitial             func(state int) bool
}

func (e *Prioritized) Eliminate(state int) error {
	removeForward := e.ResultsForInitialOnly && (e.IsInitial == nil || !e.IsInitial(state))
	var kept []sparse.Entry
	var keptFactor ring.Value
	if !removeForward {
		for _, s := range e.Ctx.Forward.GetRow(state) {
			if s.Column != state {
				kept = append(kept, s)
			}
		}
	}

	eliminateRow(e.Ctx, state,
		func(loopFactor ring.Value) {
			keptFactor = loopFactor
			e.Ctx.Values[state] = loopFactor.Mul(e.Ctx.Values[state])
		},
		func(pred int, weight ring.Value) {
			inc := weight.Mul(e.Ctx.Values[state])
			e.Ctx.Values[pred] = e.Ctx.Values[pred].Add(inc)
		},
	)

	if removeForward {
		e.Ctx.Values[state] = e.Ctx.Forward.Ring().Zero()
		return nil
	}
	for _, s := range kept {
		w := keptFactor.Mul(s.Value)
		e.Ctx.Forward.AppendEntry(state, s.Column, w)
		e.Ctx.Backward.AppendEntry(s.Column, state, w)
	}
	return nil
}
