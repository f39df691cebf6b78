// Package longrun implements spec §4.K's long-run-average specialization:
// decompose the chain into its bottom strongly connected components,
// collapse each BSCC to a representative via eliminate.LongRun, then treat
// every representative as a fixed absorbing value and eliminate the
// remaining states — transient states AND representatives themselves, the
// latter now carrying an empty forward row — with the ordinary Prioritized
// eliminator. Grounded directly on
// SparseDtmcEliminationModelChecker::computeLongRunValues, including its
// two counterintuitive steps: BSCC-internal elimination also rewrites
// external (transient) predecessors' Values entries as an unavoidable
// side effect of the shared eliminateRow graph surgery, so those entries
// are explicitly reset to zero afterward before the final pass; and a
// representative's own backward row keeps its external predecessor links
// intact across the collapse — only the residual self-loop entry that
// collapse itself creates is removed.
//
// The two elimination passes use different orders. Within one BSCC the
// representative is never eliminated, so its value and time are exact in
// whatever order the caller's queueFor produces, and every other member's
// value is overwritten with the BSCC's value afterward. The post-collapse
// graph over transient states and representatives is acyclic (every cycle
// was removed with its BSCC); that pass always runs in a sinks-first
// topological order computed locally (see sinksFirstOrder), independent of
// whatever EliminationOrder policy queueFor otherwise implements, so every
// state is eliminated after all of its successors in the pass.
package longrun

import (
	"sort"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/eliminate"
	"github.com/katalvlaran/pmcheck/pqueue"
	"github.com/katalvlaran/pmcheck/reach"
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
)

// QueueFactory builds the elimination-order queue for a candidate subset of
// states, letting a caller reuse whatever EliminationOrder policy it
// otherwise uses for plain reachability (forward/backward/static-penalty/
// dynamic-penalty/random) without longrun knowing about that enum itself.
type QueueFactory func(states []int, forward, backward *sparse.Flexible, values []ring.Value) pqueue.Queue

// Compute returns, for every state of the chain described by forward and
// backward (its full transpose — Compute requires the complete chain, not a
// prob0/prob1-restricted submatrix, since every finite DTMC's state space
// decomposes into transient states feeding at least one BSCC), the
// long-run fraction of time a run starting at that state spends in target.
func Compute(forward, backward *sparse.Matrix, vr ring.Ring, target *bitset.Set, queueFor QueueFactory) []ring.Value {
	n := forward.RowGroupCount()
	one := vr.One()
	zero := vr.Zero()

	sccs := reach.DecomposeSCCs(forward, bitset.FromSlice(n, allStates(n)), false, true)

	flexFwd := sparse.FromMatrix(forward)
	flexBwd := sparse.FromMatrix(backward)

	values := make([]ring.Value, n)
	averageTime := make([]ring.Value, n)
	for i := range values {
		values[i] = zero
		averageTime[i] = one
	}

	inBSCC := make([]bool, n)
	var regular []int
	var representatives []int
	for _, scc := range sccs {
		rep := minOf(scc)
		representatives = append(representatives, rep)
		for _, s := range scc {
			inBSCC[s] = true
			if target.Contains(s) {
				values[s] = one
			}
			if s != rep {
				regular = append(regular, s)
			}
		}
	}

	ctx := &eliminate.Context{Forward: flexFwd, Backward: flexBwd, Values: values, Queue: queueFor(regular, flexFwd, flexBwd, values)}
	elim := &eliminate.LongRun{Ctx: ctx, AverageTime: averageTime}
	for ctx.Queue.HasNext() {
		_ = elim.Eliminate(ctx.Queue.PopNext())
	}

	for i, scc := range sccs {
		rep := representatives[i]
		bsccValue := values[rep]
		if !averageTime[rep].IsZero() {
			bsccValue = values[rep].Div(averageTime[rep])
		}
		for _, s := range scc {
			values[s] = bsccValue
		}
		flexFwd.ClearRow(rep)
		flexBwd.RemoveColumn(rep, rep)
	}

	for s := 0; s < n; s++ {
		if !inBSCC[s] {
			values[s] = zero
		}
	}

	if len(representatives) > 0 {
		remaining := complementOf(n, regular)
		order := sinksFirstOrder(flexFwd, flexBwd, remaining)
		ctx2 := &eliminate.Context{Forward: flexFwd, Backward: flexBwd, Values: values, Queue: pqueue.NewStatic(order)}
		elim2 := &eliminate.Prioritized{Ctx: ctx2}
		for ctx2.Queue.HasNext() {
			_ = elim2.Eliminate(ctx2.Queue.PopNext())
		}
	}

	return values
}

// sinksFirstOrder returns states in an order where every state precedes
// none of its own (still-present) successors: a state is only emitted once
// every successor it has within states has already been emitted. This is a
// reverse topological sort computed by repeatedly peeling off states whose
// remaining out-degree (edges to not-yet-emitted peers within states) has
// dropped to zero, which always exists for an acyclic subgraph — the
// representatives feeding this call already have their forward rows
// cleared, so they start as the first sinks.
func sinksFirstOrder(fwd, bwd *sparse.Flexible, states []int) []int {
	inSet := make(map[int]bool, len(states))
	for _, s := range states {
		inSet[s] = true
	}

	outDegree := make(map[int]int, len(states))
	for _, s := range states {
		count := 0
		for _, e := range fwd.GetRow(s) {
			if e.Column != s && inSet[e.Column] {
				count++
			}
		}
		outDegree[s] = count
	}

	var ready []int
	for _, s := range states {
		if outDegree[s] == 0 {
			ready = append(ready, s)
		}
	}
	sort.Ints(ready)

	order := make([]int, 0, len(states))
	emitted := make(map[int]bool, len(states))
	for len(order) < len(states) {
		s := ready[0]
		ready = ready[1:]
		if emitted[s] {
			continue
		}
		emitted[s] = true
		order = append(order, s)

		var newlyReady []int
		for _, e := range bwd.GetRow(s) {
			p := e.Column
			if p == s || !inSet[p] || emitted[p] {
				continue
			}
			outDegree[p]--
			if outDegree[p] == 0 {
				newlyReady = append(newlyReady, p)
			}
		}
		if len(newlyReady) > 0 {
			ready = append(ready, newlyReady...)
			sort.Ints(ready)
		}
	}
	return order
}

func minOf(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func allStates(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func complementOf(n int, excluded []int) []int {
	skip := make([]bool, n)
	for _, s := range excluded {
		skip[s] = true
	}
	var out []int
	for s := 0; s < n; s++ {
		if !skip[s] {
			out = append(out, s)
		}
	}
	return out
}
