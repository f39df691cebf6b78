package sparse

import "github.com/katalvlaran/pmcheck/ring"

// Builder constructs a Matrix from a sequential, row-major stream of rows,
// with explicit NewRowGroup markers between groups — the Go shape of spec
// §4.C's "build(entries…) from a sequential stream of (row, col, val) plus
// new_row_group(row) markers". Rows (rather than bare triples) are the
// ingestion unit because every producer in this core (Explorer emitting
// one StateBehavior.Choice per row, FlexibleMatrix.ToMatrix rebuilding a
// mutated row list) already has a whole row's entries in hand before it
// needs to hand them to the matrix layer.
type Builder struct {
	colCount        int
	vr              ring.Ring
	rowGroupIndices []int
	rowStart        []int
	columns         []int
	values          []ring.Value
	built           bool
	groupOpened     bool
}

// NewBuilder starts a Builder for a matrix with colCount columns whose
// values belong to ring vr.
func NewBuilder(colCount int, vr ring.Ring) *Builder {
	return &Builder{
		colCount: colCount,
		vr:       vr,
		rowStart: []int{0},
	}
}

// NewRowGroup opens a new row group starting at the next row to be added.
// Must be called at least once before the first AddRow call.
func (b *Builder) NewRowGroup() {
	b.rowGroupIndices = append(b.rowGroupIndices, len(b.rowStart)-1)
	b.groupOpened = true
}

// AddRow appends one row (one choice) with the given column-sorted entries.
// Columns must be strictly increasing and within [0, colCount).
func (b *Builder) AddRow(entries ...Entry) error {
	if b.built {
		return ErrNotBuilt
	}
	if !b.groupOpened {
		return ErrEmptyGroup
	}
	prevCol := -1
	for _, e := range entries {
		if e.Column < 0 || e.Column >= b.colCount {
			return ErrIndexOutOfRange
		}
		if e.Column <= prevCol {
			return ErrOutOfOrder
		}
		prevCol = e.Column
		b.columns = append(b.columns, e.Column)
		b.values = append(b.values, e.Value)
	}
	b.rowStart = append(b.rowStart, len(b.columns))
	return nil
}

// addRowAllowDuplicateColumns is the internal relaxation used only by
// Transpose, whose predecessor lists may legitimately repeat a column when
// several choices of one state reach the same successor (see Matrix.Transpose).
func (b *Builder) addRowAllowDuplicateColumns(entries []Entry) error {
	if b.built {
		return ErrNotBuilt
	}
	if !b.groupOpened {
		return ErrEmptyGroup
	}
	prevCol := -1
	for _, e := range entries {
		if e.Column < prevCol {
			return ErrOutOfOrder
		}
		prevCol = e.Column
		b.columns = append(b.columns, e.Column)
		b.values = append(b.values, e.Value)
	}
	b.rowStart = append(b.rowStart, len(b.columns))
	return nil
}

// Build finalizes the Matrix. The Builder must not be used afterward.
func (b *Builder) Build() (*Matrix, error) {
	if b.built {
		return nil, ErrNotBuilt
	}
	b.built = true
	rowCount := len(b.rowStart) - 1
	groupIndices := append(append([]int{}, b.rowGroupIndices...), rowCount)

	return &Matrix{
		rowCount:        rowCount,
		colCount:        b.colCount,
		rowGroupIndices: groupIndices,
		rowStart:        b.rowStart,
		columns:         b.columns,
		values:          b.values,
		vr:              b.vr,
	}, nil
}
