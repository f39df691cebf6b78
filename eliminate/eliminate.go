// Package eliminate implements the one-state Gaussian-style elimination
// step of spec §4.H: folding a state's self-loop, rewiring every
// predecessor/successor pair around it, and removing its row from both the
// forward and backward Flexible mirrors. Prioritized, Conditional, and
// LongRun specializations share that graph surgery and differ only in
// which auxiliary scalar vectors ride along with it.
package eliminate

import (
	"github.com/katalvlaran/pmcheck/pqueue"
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
)

// Context is the mutable state every Eliminator variant operates over: the
// forward/backward Flexible mirrors of one matrix, in lockstep with the
// priority queue driving elimination order and whatever scalar vector(s)
// a specialization folds state contributions into.
type Context struct {
	Forward  *sparse.Flexible
	Backward *sparse.Flexible
	Values   []ring.Value
	Queue    pqueue.Queue
}

// Eliminator removes one state from a Context, per spec §4.H.
type Eliminator interface {
	Eliminate(state int) error
}

// eliminateRow performs the graph surgery common to every specialization.
// It first computes state's loop factor 1/(1-L) from its self-loop L (One
// if there is none) and hands it to foldSelf, which must fold it into
// every auxiliary vector entry the caller keeps for state — a state with
// no predecessors is never touched again, so this is the only place its
// own self-loop can be resolved. It then rewires p->q for every
// predecessor p and successor q of state (p, q != state) and calls
// propagate once per predecessor with the raw edge weight p->state, now
// that state's own vectors already include the loop-factor scaling.
// Finally it removes state's row from both mirrors and calls Queue.Update
// once per predecessor whose row changed.
func eliminateRow(ctx *Context, state int, foldSelf func(loopFactor ring.Value), propagate func(pred int, weight ring.Value)) {
	vr := ctx.Forward.Ring()
	one := vr.One()

	selfLoop := ctx.Forward.RemoveColumn(state, state)
	ctx.Backward.RemoveColumn(state, state)
	loopFactor := one
	if !selfLoop.IsZero() {
		loopFactor = one.Div(one.Sub(selfLoop))
	}
	if foldSelf != nil {
		foldSelf(loopFactor)
	}

	succs := append([]sparse.Entry(nil), ctx.Forward.GetRow(state)...)
	preds := append([]sparse.Entry(nil), ctx.Backward.GetRow(state)...)

	for _, p := range preds {
		for _, s := range succs {
			inc := p.Value.Mul(loopFactor).Mul(s.Value)
			ctx.Forward.AppendEntry(p.Column, s.Column, inc)
			ctx.Backward.AppendEntry(s.Column, p.Column, inc)
		}
		if propagate != nil {
			propagate(p.Column, p.Value)
		}
	}

	ctx.Forward.ClearRow(state)
	ctx.Backward.ClearRow(state)
	for _, s := range succs {
		ctx.Backward.RemoveColumn(s.Column, state)
	}
	for _, p := range preds {
		ctx.Forward.RemoveColumn(p.Column, state)
	}

	for _, p := range preds {
		ctx.Queue.Update(p.Column, ctx.Forward, ctx.Backward, ctx.Values)
	}
}
