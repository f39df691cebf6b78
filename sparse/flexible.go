package sparse

import (
	"sort"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/ring"
)

// flexRow is one row's entries, kept sorted by Column — spec §4.D's
// invariant "each row stays sorted by column".
type flexRow []Entry

// Flexible is the per-row editable mirror of Matrix used by the state
// eliminator (spec §4.D). Rows live in a slice-of-slices "arena" indexed
// by row id; an eliminated row is replaced with nil rather than
// compacted away, so row ids remain stable references throughout a single
// elimination run (mirrors the teacher's §9 "arena-and-index" note: rows
// live in a vector owned by the matrix, edges reference peers by row
// index, never by pointer).
type Flexible struct {
	colCount int
	vr       ring.Ring
	rows     []flexRow
}

// FromMatrix builds a Flexible mirror of the full Matrix m.
func FromMatrix(m *Matrix) *Flexible {
	f := &Flexible{colCount: m.ColumnCount(), vr: m.Ring(), rows: make([]flexRow, m.RowCount())}
	for i := 0; i < m.RowCount(); i++ {
		f.rows[i] = append(flexRow{}, m.GetRow(i)...)
	}
	return f
}

// Empty returns a Flexible with rowCount empty rows over colCount columns
// and ring vr — CreateSubmatrix starts from one and fills it row by row.
func Empty(rowCount, colCount int, vr ring.Ring) *Flexible {
	return &Flexible{colCount: colCount, vr: vr, rows: make([]flexRow, rowCount)}
}

// RowCount returns the number of rows (including eliminated/empty ones).
func (f *Flexible) RowCount() int { return len(f.rows) }

// ColumnCount returns the column space size.
func (f *Flexible) ColumnCount() int { return f.colCount }

// Ring exposes the scalar ring this matrix's values belong to.
func (f *Flexible) Ring() ring.Ring { return f.vr }

// GetRow returns the current entries of row i, sorted by column. The
// returned slice aliases internal storage; callers must not mutate it —
// use ReplaceRow to change a row.
func (f *Flexible) GetRow(i int) []Entry { return f.rows[i] }

// ReplaceRow overwrites row i with entries, which must already be sorted
// by strictly increasing column (the eliminator maintains this invariant
// itself when merging edges, so no re-sort happens here).
func (f *Flexible) ReplaceRow(i int, entries []Entry) {
	f.rows[i] = entries
}

// AppendEntry inserts (or merges into) row i the pair (col, val), keeping
// the row sorted; if col is already present, val is added to the existing
// entry rather than creating a duplicate. This is the primitive the
// eliminator uses to redistribute probability mass onto an existing edge
// p->q.
func (f *Flexible) AppendEntry(i, col int, val ring.Value) {
	row := f.rows[i]
	idx := sort.Search(len(row), func(k int) bool { return row[k].Column >= col })
	if idx < len(row) && row[idx].Column == col {
		row[idx].Value = row[idx].Value.Add(val)
		f.rows[i] = row
		return
	}
	row = append(row, Entry{})
	copy(row[idx+1:], row[idx:])
	row[idx] = Entry{Column: col, Value: val}
	f.rows[i] = row
}

// RemoveColumn deletes the entry at column col from row i, if present, and
// returns its value (or the ring's Zero if absent).
func (f *Flexible) RemoveColumn(i, col int) ring.Value {
	row := f.rows[i]
	idx := sort.Search(len(row), func(k int) bool { return row[k].Column >= col })
	if idx >= len(row) || row[idx].Column != col {
		return f.vr.Zero()
	}
	v := row[idx].Value
	f.rows[i] = append(row[:idx], row[idx+1:]...)
	return v
}

// ClearRow empties row i (used when a state is eliminated).
func (f *Flexible) ClearRow(i int) { f.rows[i] = nil }

// CreateSubmatrix returns a new Flexible containing only the rows selected
// by rowsMask, with columns remapped through colsMask the same way
// Matrix.GetSubmatrix does, returning the row/col maps alongside it.
func (f *Flexible) CreateSubmatrix(rowsMask, colsMask *bitset.Set) (sub *Flexible, rowMap []int, colMap []int) {
	rowMap = rowsMask.Slice()
	colMap = make([]int, f.colCount)
	newColCount := f.colCount
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

	sub = Empty(len(rowMap), newColCount, f.vr)
	for newRow, oldRow := range rowMap {
		var entries flexRow
		for _, e := range f.rows[oldRow] {
			nc := colMap[e.Column]
			if nc < 0 {
				continue
			}
			entries = append(entries, Entry{Column: nc, Value: e.Value})
		}
		sub.rows[newRow] = entries
	}
	return sub, rowMap, colMap
}

// ToMatrix rebuilds an immutable Matrix from the current row contents. Rows
// are assumed to be row groups of size one (deterministic), the shape the
// eliminator always operates on; callers needing grouped output build one
// group per row explicitly via ToMatrixGrouped.
func (f *Flexible) ToMatrix() *Matrix {
	b := NewBuilder(f.colCount, f.vr)
	for i := 0; i < len(f.rows); i++ {
		b.NewRowGroup()
		_ = b.AddRow(f.rows[i]...)
	}
	out, _ := b.Build()
	return out
}

// ToMatrixGrouped rebuilds an immutable Matrix using the supplied row group
// boundaries (length RowCount()+1-compatible boundaries), used when a
// Flexible mirrors a genuinely nondeterministic submatrix.
func (f *Flexible) ToMatrixGrouped(groupStarts []int) *Matrix {
	b := NewBuilder(f.colCount, f.vr)
	gi := 0
	for i := 0; i < len(f.rows); i++ {
		if gi < len(groupStarts) && groupStarts[gi] == i {
			b.NewRowGroup()
			gi++
		}
		_ = b.AddRow(f.rows[i]...)
	}
	out, _ := b.Build()
	return out
}
