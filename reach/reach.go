// Package reach implements the graph-analysis kernels of spec §4.E:
// reachability, prob-0/prob-1 qualitative prefiltering, BFS distances, and
// strongly-connected-component decomposition. All kernels operate on
// *sparse.Matrix (forward edges) or its Transpose (backward edges) and are
// deterministic: states are always processed in ascending id order within
// a BFS level, exactly as spec §4.E's tie-break rule requires.
package reach

import (
	"sort"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/sparse"
)

// successors returns the distinct successor state ids of state s in
// ascending order, aggregating every choice in s's row group — graph
// kernels care about edge existence, not which choice produced it.
func successors(forward *sparse.Matrix, s int) []int {
	start, end := forward.GetRowGroup(s)
	seen := make(map[int]struct{})
	for r := start; r < end; r++ {
		for _, e := range forward.GetRow(r) {
			seen[e.Column] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// predecessors returns the distinct predecessor state ids of state s in
// ascending order, read off the backward (transposed) matrix's row s.
func predecessors(backward *sparse.Matrix, s int) []int {
	seen := make(map[int]struct{})
	for _, e := range backward.GetRow(s) {
		seen[e.Column] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// GetReachableStates performs a BFS from initial, staying within allowed,
// stopping at (but including) states in target — target states are added
// to the result but never expanded. An optional step bound limits BFS
// depth when bounded is true.
func GetReachableStates(forward *sparse.Matrix, initial, allowed, target *bitset.Set, bounded bool, steps int) *bitset.Set {
	n := forward.RowGroupCount()
	visited := bitset.New(n)
	type item struct {
		state, depth int
	}
	queue := make([]item, 0, initial.Count())
	initial.Each(func(s int) {
		visited.Set(s)
		queue = append(queue, item{state: s, depth: 0})
	})

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if target.Contains(cur.state) {
			continue // included but not expanded
		}
		if bounded && cur.depth >= steps {
			continue
		}
		for _, s := range successors(forward, cur.state) {
			if !allowed.Contains(s) || visited.Contains(s) {
				continue
			}
			visited.Set(s)
			queue = append(queue, item{state: s, depth: cur.depth + 1})
		}
	}
	return visited
}

// ProbGreater0 returns the states that can reach a psi state via phi states
// with positive probability: a backward BFS from psi constrained to phi
// (psi states themselves are always included, matching the standard
// qualitative fixpoint base case used by original_source's
// performProbGreater0).
func ProbGreater0(backward *sparse.Matrix, phi, psi *bitset.Set) *bitset.Set {
	n := backward.RowGroupCount()
	result := psi.Clone()
	queue := psi.Slice()
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, p := range predecessors(backward, s) {
			if !phi.Contains(p) || result.Contains(p) {
				continue
			}
			result.Set(p)
			queue = append(queue, p)
		}
	}
	_ = n
	return result
}

// Prob1 returns the states that reach a psi state with probability exactly
// one via phi states: an iterative greatest fixpoint starting from
// ProbGreater0's result, removing any state that has an outgoing
// transition leaving the candidate set (spec §4.E). The forward matrix is
// required to test each candidate's successors; original_source's
// performProb1 takes only the backward matrix because STORM's BitVector
// graph analysis threads a cached forward matrix through the model class —
// here the caller already has both (Matrix.Transpose()), so forward is
// passed explicitly rather than re-deriving it with a second transpose.
func Prob1(forward, backward *sparse.Matrix, phi, psi *bitset.Set) *bitset.Set {
	candidate := ProbGreater0(backward, phi, psi)
	for {
		removed := false
		for _, s := range candidate.Slice() {
			if psi.Contains(s) {
				continue // psi states are trivially within any fixpoint
			}
			for _, succ := range successors(forward, s) {
				if !candidate.Contains(succ) {
					candidate.Clear(s)
					removed = true
					break
				}
			}
		}
		if !removed {
			break
		}
	}
	return candidate
}

// Prob01 returns (prob0, prob1) where prob0 is the complement of
// ProbGreater0 and prob1 is Prob1's result; spec §8 requires prob0, prob1,
// and maybe to be pairwise disjoint and to cover every state, which holds
// here because prob1 ⊆ ProbGreater0-result ⊆ ¬prob0 by construction.
func Prob01(forward, backward *sparse.Matrix, phi, psi *bitset.Set) (prob0, prob1 *bitset.Set) {
	greater0 := ProbGreater0(backward, phi, psi)
	prob0 = greater0.Complement()
	prob1 = Prob1(forward, backward, phi, psi)
	return prob0, prob1
}

// Maybe returns the states that are neither prob0 nor prob1.
func Maybe(prob0, prob1 *bitset.Set) *bitset.Set {
	return prob0.Union(prob1).Complement()
}

// GetDistances returns, for every state, its BFS level (number of edges)
// from the nearest state in initial; unreached states get -1.
func GetDistances(forward *sparse.Matrix, initial *bitset.Set) []int {
	n := forward.RowGroupCount()
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	queue := make([]int, 0, initial.Count())
	initial.Each(func(s int) {
		dist[s] = 0
		queue = append(queue, s)
	})
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, t := range successors(forward, s) {
			if dist[t] == -1 {
				dist[t] = dist[s] + 1
				queue = append(queue, t)
			}
		}
	}
	return dist
}
