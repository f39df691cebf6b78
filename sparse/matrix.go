package sparse

import (
	"sort"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/ring"
)

// Entry is one non-zero cell of a row: (column, value).
type Entry struct {
	Column int
	Value  ring.Value
}

// Matrix is the immutable CSR-with-row-groups structure of spec §4.C. It is
// built once by a Builder and never mutated afterward; rewrites happen on a
// Flexible mirror and are rebuilt back into a Matrix when finished.
type Matrix struct {
	rowCount, colCount int
	rowGroupIndices    []int // length G+1, strictly increasing, last == rowCount
	rowStart           []int // length rowCount+1
	columns            []int
	values             []ring.Value
	vr                 ring.Ring
}

// RowCount returns the number of rows (choices, summed over all states).
func (m *Matrix) RowCount() int { return m.rowCount }

// ColumnCount returns the number of columns (states).
func (m *Matrix) ColumnCount() int { return m.colCount }

// EntryCount returns the number of stored non-zeros.
func (m *Matrix) EntryCount() int { return len(m.columns) }

// RowGroupCount returns the number of row groups (states).
func (m *Matrix) RowGroupCount() int { return len(m.rowGroupIndices) - 1 }

// Ring exposes the scalar ring this matrix's values belong to, needed by
// callers that must produce new Values (graph kernels building one-step
// vectors, the eliminator folding in loop factors) without type-switching
// on the concrete ring.Value implementation.
func (m *Matrix) Ring() ring.Ring { return m.vr }

// GetRowGroupIndices returns a defensive copy of the row-group boundary
// array; callers must not rely on aliasing the internal slice.
func (m *Matrix) GetRowGroupIndices() []int {
	out := make([]int, len(m.rowGroupIndices))
	copy(out, m.rowGroupIndices)
	return out
}

// GetRowGroup returns the half-open row range [start, end) of group g.
func (m *Matrix) GetRowGroup(g int) (start, end int) {
	return m.rowGroupIndices[g], m.rowGroupIndices[g+1]
}

// RowGroupOf returns the group index owning row.
func (m *Matrix) RowGroupOf(row int) int {
	// rowGroupIndices[g] <= row < rowGroupIndices[g+1]; binary search the
	// largest g with rowGroupIndices[g] <= row.
	i := sort.SearchInts(m.rowGroupIndices, row+1) - 1
	if i < 0 {
		i = 0
	}
	return i
}

// GetRow returns the non-zero entries of row i in column-ascending order.
// The returned slice is a fresh copy; mutating it does not affect m.
func (m *Matrix) GetRow(i int) []Entry {
	start, end := m.rowStart[i], m.rowStart[i+1]
	out := make([]Entry, end-start)
	for k := start; k < end; k++ {
		out[k-start] = Entry{Column: m.columns[k], Value: m.values[k]}
	}
	return out
}

// IsProbabilistic reports whether every row sums to the ring's One within
// the ring's own equality (exact for symbolic V, IEEE for numeric V).
func (m *Matrix) IsProbabilistic() bool {
	one := m.vr.One()
	for i := 0; i < m.rowCount; i++ {
		sum := m.vr.Zero()
		for _, e := range m.GetRow(i) {
			sum = sum.Add(e.Value)
		}
		if !sum.Equal(one) {
			return false
		}
	}
	return true
}

// MultiplyWithVector computes y = M*x. Each row is evaluated independently
// of its group, per spec §4.C: choice selection is not a concern of the
// matrix layer.
func (m *Matrix) MultiplyWithVector(x []ring.Value) ([]ring.Value, error) {
	if len(x) != m.colCount {
		return nil, ErrSizeMismatch
	}
	y := make([]ring.Value, m.rowCount)
	for i := 0; i < m.rowCount; i++ {
		sum := m.vr.Zero()
		for _, e := range m.GetRow(i) {
			sum = sum.Add(e.Value.Mul(x[e.Column]))
		}
		y[i] = sum
	}
	return y, nil
}

// GetConstrainedRowSumVector returns, for each row in rowsMask (ascending),
// the sum of values in columns that are in colsMask. The result is indexed
// by original row id (length rowCount), with zero for rows not in
// rowsMask, matching how callers index it against other per-row vectors.
func (m *Matrix) GetConstrainedRowSumVector(rowsMask, colsMask *bitset.Set) []ring.Value {
	out := make([]ring.Value, m.rowCount)
	zero := m.vr.Zero()
	for i := 0; i < m.rowCount; i++ {
		out[i] = zero
	}
	rowsMask.Each(func(i int) {
		sum := zero
		for _, e := range m.GetRow(i) {
			if colsMask.Contains(e.Column) {
				sum = sum.Add(e.Value)
			}
		}
		out[i] = sum
	})
	return out
}

// GetSubmatrix extracts rows belonging to groups selected by rowsMask (or
// individually selected rows when keepEntireGroup is false), keeping only
// columns present in colsMask (nil colsMask keeps every column unchanged).
// It returns the new Matrix together with rowMap/colMap: rowMap[newRow] =
// oldRow, colMap[oldCol] = newCol (-1 if dropped), exactly the bookkeeping
// a caller needs to translate values computed on the submatrix back onto
// the original state space.
func (m *Matrix) GetSubmatrix(keepEntireGroup bool, rowsMask *bitset.Set, colsMask *bitset.Set) (sub *Matrix, rowMap []int, colMap []int) {
	keepRow := make([]bool, m.rowCount)
	if keepEntireGroup {
		for g := 0; g < m.RowGroupCount(); g++ {
			start, end := m.GetRowGroup(g)
			if rowsMask.Contains(g) {
				for r := start; r < end; r++ {
					keepRow[r] = true
				}
			}
		}
	} else {
		for r := 0; r < m.rowCount; r++ {
			keepRow[r] = rowsMask.Contains(r)
		}
	}

	rowMap = make([]int, 0, m.rowCount)
	for r := 0; r < m.rowCount; r++ {
		if keepRow[r] {
			rowMap = append(rowMap, r)
		}
	}

	colMap = make([]int, m.colCount)
	newColCount := m.colCount
	if colsMask != nil {
		for c := range colMap {
			colMap[c] = -1
		}
		next := 0
		colsMask.Each(func(c int) {
			colMap[c] = next
			next++
		})
		newColCount = next
	} else {
		for c := range colMap {
			colMap[c] = c
		}
	}

	b := NewBuilder(newColCount, m.vr)
	group := -1
	for newRow, oldRow := range rowMap {
		g := m.RowGroupOf(oldRow)
		if g != group {
			b.NewRowGroup()
			group = g
		}
		var entries []Entry
		for _, e := range m.GetRow(oldRow) {
			nc := colMap[e.Column]
			if nc < 0 {
				continue
			}
			entries = append(entries, Entry{Column: nc, Value: e.Value})
		}
		_ = b.AddRow(entries...) // entries are already column-sorted; AddRow cannot fail here
		_ = newRow
	}
	sub, _ = b.Build()
	return sub, rowMap, colMap
}

// Transpose returns the backward-transitions view used by graph kernels.
// For a deterministic matrix (one row per group) this is an exact sparse
// transpose: (M^T)^T == M as a multiset of non-zeros. For a grouped
// (nondeterministic) matrix, spec §4.C requires rows of a group to collapse
// to their source state when forming the transpose's predecessor lists;
// that collapse is lossy by construction (several choices from one state
// reaching the same successor become indistinguishable entries sharing one
// column), so the round-trip property is only guaranteed for deterministic
// inputs. Transposed rows are sorted by column but, unlike a normal Matrix,
// may contain repeated columns when several choices of one state target
// the same successor — harmless for the qualitative graph kernels, since
// they test membership, not multiplicity. Transpose also builds the
// eliminator's backward mirror; a deterministic matrix (one row per
// group) yields no repeated columns.
func (m *Matrix) Transpose() *Matrix {
	type kv struct {
		col int
		val ring.Value
	}
	buckets := make([][]kv, m.colCount)
	for r := 0; r < m.rowCount; r++ {
		g := m.RowGroupOf(r)
		for _, e := range m.GetRow(r) {
			buckets[e.Column] = append(buckets[e.Column], kv{col: g, val: e.Value})
		}
	}

	b := NewBuilder(m.RowGroupCount(), m.vr)
	for c := 0; c < m.colCount; c++ {
		b.NewRowGroup()
		bucket := buckets[c]
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].col < bucket[j].col })
		entries := make([]Entry, len(bucket))
		for i, e := range bucket {
			entries[i] = Entry{Column: e.col, Value: e.val}
		}
		_ = b.addRowAllowDuplicateColumns(entries)
	}
	out, _ := b.Build()
	return out
}

// RestrictRows keeps only the rows of each group that are selected by
// enabledRowsMask; if a group loses every row, a self-loop is inserted in
// its place so the resulting matrix stays row-stochastic-shaped (spec
// §4.C). The self-loop targets the group's own state id, which relies on
// callers keeping colCount aligned with RowGroupCount (true for every
// square stochastic matrix the core builds).
func (m *Matrix) RestrictRows(enabledRowsMask *bitset.Set) *Matrix {
	one := m.vr.One()
	b := NewBuilder(m.colCount, m.vr)
	for g := 0; g < m.RowGroupCount(); g++ {
		start, end := m.GetRowGroup(g)
		b.NewRowGroup()
		any := false
		for r := start; r < end; r++ {
			if !enabledRowsMask.Contains(r) {
				continue
			}
			any = true
			_ = b.AddRow(m.GetRow(r)...)
		}
		if !any {
			_ = b.AddRow(Entry{Column: g, Value: one})
		}
	}
	out, _ := b.Build()
	return out
}
