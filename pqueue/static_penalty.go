package pqueue

import (
	"sort"

	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
)

// StaticPenalty sorts the candidate states once, by penalty ascending, and
// then walks that order exactly like Static — it never re-ranks, matching
// spec §4.G's "sorted once by a penalty function p(state, M, M^T, values)".
// Ties break on ascending state id for determinism.
type StaticPenalty struct {
	*Static
}

// NewStaticPenalty computes penalties for every state in states using fn
// against forward/backward and the current values vector, then sorts.
func NewStaticPenalty(states []int, forward, backward *sparse.Flexible, values []ring.Value, fn PenaltyFunc) *StaticPenalty {
	penalty := make(map[int]int, len(states))
	for _, s := range states {
		penalty[s] = fn(s, forward, backward, values)
	}
	order := make([]int, len(states))
	copy(order, states)
	sort.SliceStable(order, func(i, j int) bool {
		pi, pj := penalty[order[i]], penalty[order[j]]
		if pi != pj {
			return pi < pj
		}
		return order[i] < order[j]
	})
	return &StaticPenalty{Static: NewStatic(order)}
}
