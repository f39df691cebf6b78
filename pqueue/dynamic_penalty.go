package pqueue

import (
	"container/heap"

	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
)

// dpItem is one (penalty, state) entry in the lazy heap.
type dpItem struct {
	state   int
	penalty int
}

// dpHeap is a min-heap over dpItem ordered by penalty, then state id for
// determinism — the same "lazy decrease-key" shape the teacher uses in
// dijkstra.go: pushing a fresh entry on every Update rather than mutating
// in place, and filtering stale entries against a side map on pop.
type dpHeap []dpItem

func (h dpHeap) Len() int { return len(h) }
func (h dpHeap) Less(i, j int) bool {
	if h[i].penalty != h[j].penalty {
		return h[i].penalty < h[j].penalty
	}
	return h[i].state < h[j].state
}
func (h dpHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *dpHeap) Push(x interface{}) { *h = append(*h, x.(dpItem)) }
func (h *dpHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// DynamicPenalty re-ranks a state every time one of its rows changes,
// implementing spec §4.G's "ordered multiset keyed by penalty; update
// re-inserts the state under its new penalty" via a side map from state to
// its currently-valid penalty (spec §9 design note (b)).
type DynamicPenalty struct {
	h       dpHeap
	current map[int]int
	fn      PenaltyFunc
}

// NewDynamicPenalty seeds the queue with every state in states, scored by
// fn against the initial forward/backward/values snapshot.
func NewDynamicPenalty(states []int, forward, backward *sparse.Flexible, values []ring.Value, fn PenaltyFunc) *DynamicPenalty {
	dp := &DynamicPenalty{
		h:       make(dpHeap, 0, len(states)),
		current: make(map[int]int, len(states)),
		fn:      fn,
	}
	for _, s := range states {
		p := fn(s, forward, backward, values)
		dp.current[s] = p
		dp.h = append(dp.h, dpItem{state: s, penalty: p})
	}
	heap.Init(&dp.h)
	return dp
}

func (dp *DynamicPenalty) HasNext() bool { return len(dp.current) > 0 }

func (dp *DynamicPenalty) PopNext() int {
	for {
		top := heap.Pop(&dp.h).(dpItem)
		cur, ok := dp.current[top.state]
		if !ok || cur != top.penalty {
			continue // stale entry: state already popped, or since re-ranked
		}
		delete(dp.current, top.state)
		return top.state
	}
}

func (dp *DynamicPenalty) Size() int { return len(dp.current) }

func (dp *DynamicPenalty) Update(state int, forward, backward *sparse.Flexible, values []ring.Value) {
	if _, live := dp.current[state]; !live {
		return // state was already eliminated; nothing to re-rank
	}
	p := dp.fn(state, forward, backward, values)
	dp.current[state] = p
	heap.Push(&dp.h, dpItem{state: state, penalty: p})
}
