package reach

import (
	"sort"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/sparse"
)

// tarjanFrame is one level of the simulated call stack, grounded on
// other_examples/wyfcoding-pkg__tarjan_scc.go's recursive strongConnect
// but converted to an explicit stack — large state spaces make recursion
// depth a real risk, and the teacher repo (algorithms/bfs.go, dfs.go)
// consistently prefers explicit iterative walkers over recursion for the
// same reason.
type tarjanFrame struct {
	node    int
	succs   []int
	succIdx int
}

// DecomposeSCCs computes the strongly connected components of forward
// restricted to subset, in Tarjan post-order (spec §4.E's documented
// tie-break). dropNaiveSCCs removes trivial singleton components that lack
// a self-loop; onlyBottomSCCs keeps only components with no transition
// leaving the component (bottom SCCs / BSCCs), checked against the full
// matrix rather than just the subset, since a BSCC is a global property
// needed intact by the long-run solver.
func DecomposeSCCs(forward *sparse.Matrix, subset *bitset.Set, dropNaiveSCCs, onlyBottomSCCs bool) [][]int {
	n := forward.RowGroupCount()
	const unvisited = -1
	indices := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range indices {
		indices[i] = unvisited
	}

	var tarjanStack []int
	var sccs [][]int
	index := 0

	restrictedSuccessors := func(s int) []int {
		all := successors(forward, s)
		out := make([]int, 0, len(all))
		for _, t := range all {
			if subset.Contains(t) {
				out = append(out, t)
			}
		}
		return out
	}

	order := subset.Slice()
	sort.Ints(order)

	for _, start := range order {
		if indices[start] != unvisited {
			continue
		}

		indices[start] = index
		lowlink[start] = index
		index++
		tarjanStack = append(tarjanStack, start)
		onStack[start] = true

		callStack := []tarjanFrame{{node: start, succs: restrictedSuccessors(start)}}
		for len(callStack) > 0 {
			top := &callStack[len(callStack)-1]
			if top.succIdx < len(top.succs) {
				w := top.succs[top.succIdx]
				top.succIdx++
				if indices[w] == unvisited {
					indices[w] = index
					lowlink[w] = index
					index++
					tarjanStack = append(tarjanStack, w)
					onStack[w] = true
					callStack = append(callStack, tarjanFrame{node: w, succs: restrictedSuccessors(w)})
				} else if onStack[w] {
					if indices[w] < lowlink[top.node] {
						lowlink[top.node] = indices[w]
					}
				}
				continue
			}

			v := top.node
			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := &callStack[len(callStack)-1]
				if lowlink[v] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[v]
				}
			}
			if lowlink[v] == indices[v] {
				var scc []int
				for {
					w := tarjanStack[len(tarjanStack)-1]
					tarjanStack = tarjanStack[:len(tarjanStack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == v {
						break
					}
				}
				sccs = append(sccs, scc)
			}
		}
	}

	if dropNaiveSCCs {
		sccs = filterSCCs(sccs, func(scc []int) bool {
			if len(scc) != 1 {
				return true
			}
			return hasSelfLoop(forward, scc[0])
		})
	}
	if onlyBottomSCCs {
		sccs = filterSCCs(sccs, func(scc []int) bool { return isBottomSCC(forward, scc) })
	}
	return sccs
}

func hasSelfLoop(forward *sparse.Matrix, v int) bool {
	for _, s := range successors(forward, v) {
		if s == v {
			return true
		}
	}
	return false
}

func isBottomSCC(forward *sparse.Matrix, scc []int) bool {
	member := make(map[int]struct{}, len(scc))
	for _, s := range scc {
		member[s] = struct{}{}
	}
	for _, s := range scc {
		for _, t := range successors(forward, s) {
			if _, ok := member[t]; !ok {
				return false
			}
		}
	}
	return true
}

func filterSCCs(sccs [][]int, keep func([]int) bool) [][]int {
	out := make([][]int, 0, len(sccs))
	for _, scc := range sccs {
		if keep(scc) {
			out = append(out, scc)
		}
	}
	return out
}
