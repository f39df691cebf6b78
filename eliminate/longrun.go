package eliminate

import "github.com/katalvlaran/pmcheck/ring"

// LongRun implements spec §4.H's long-run-average eliminator. Ctx.Values
// carries the per-state target-weighted reward; AverageTime carries
// expected sojourn time, seeded to the ring's One for every transient
// state before elimination starts. Both vectors are folded into their own
// loop factor on self-elimination and then into predecessors exactly the
// way Prioritized folds Values — the inflation from a state's own
// self-loop lives in AverageTime instead of being mixed into Values,
// keeping the reward bookkeeping separate from the time bookkeeping.
type LongRun struct {
	Ctx         *Context
	AverageTime []ring.Value
}

func (e *LongRun) Eliminate(state int) error {
	eliminateRow(e.Ctx, state,
		func(loopFactor ring.Value) {
			e.AverageTime[state] = loopFactor.Mul(e.AverageTime[state])
			e.Ctx.Values[state] = loopFactor.Mul(e.Ctx.Values[state])
		},
		func(pred int, weight ring.Value) {
			e.AverageTime[pred] = e.AverageTime[pred].Add(weight.Mul(e.AverageTime[state]))
			e.Ctx.Values[pred] = e.Ctx.Values[pred].Add(weight.Mul(e.Ctx.Values[state]))
		},
	)
	return nil
}
