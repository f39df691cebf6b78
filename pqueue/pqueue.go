// Package pqueue implements the three elimination-order priority queues of
// spec §4.G: Static (fixed order), StaticPenalty (sorted once by a penalty
// function), and DynamicPenalty (re-sorted as weights change during
// elimination). All three satisfy the same Queue contract so
// eliminate.Eliminator and checker.Solver never branch on which variant is
// active. Forward/backward are always the *sparse.Flexible mirrors the
// eliminator mutates in place — a queue built before elimination starts
// (StaticPenalty) reads the same structures the eliminator will rewrite,
// so its initial ranking reflects the matrix's actual starting shape.
package pqueue

import (
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/katalvlaran/pmcheck/sparse"
)

// Queue is the elimination-order contract. Update is called by the
// eliminator after predecessor p's row changed, so the queue can
// re-evaluate p's priority (a no-op for Static and StaticPenalty, which by
// definition never re-rank after their initial sort).
type Queue interface {
	HasNext() bool
	PopNext() int
	Size() int
	Update(state int, forward, backward *sparse.Flexible, values []ring.Value)
}

// Static walks a fixed, precomputed order and never changes it — used for
// EliminationOrder ∈ {Forward, ForwardReversed, Backward, BackwardReversed,
// Random}. The order itself is computed by the caller (checker package,
// which knows about distances and seeds) and handed in.
type Static struct {
	order []int
	pos   int
}

// NewStatic builds a Static queue over order, consumed front to back.
func NewStatic(order []int) *Static {
	cp := make([]int, len(order))
	copy(cp, order)
	return &Static{order: cp}
}

func (s *Static) HasNext() bool { return s.pos < len(s.order) }

func (s *Static) PopNext() int {
	v := s.order[s.pos]
	s.pos++
	return v
}

func (s *Static) Size() int { return len(s.order) - s.pos }

func (s *Static) Update(int, *sparse.Flexible, *sparse.Flexible, []ring.Value) {}
