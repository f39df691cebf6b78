package sparse

import (
	"testing"

	"github.com/katalvlaran/pmcheck/bitset"
	"github.com/katalvlaran/pmcheck/ring"
	"github.com/stretchr/testify/require"
)

// twoStateChain builds Scenario 1 from spec §8: s0->s0 (1/2), s0->s1 (1/2),
// s1->s1 (1).
func twoStateChain(t *testing.T) *Matrix {
	b := NewBuilder(2, ring.F64Ring)
	b.NewRowGroup()
	require.NoError(t, b.AddRow(Entry{Column: 0, Value: ring.Float64(0.5)}, Entry{Column: 1, Value: ring.Float64(0.5)}))
	b.NewRowGroup()
	require.NoError(t, b.AddRow(Entry{Column: 1, Value: ring.Float64(1)}))
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func TestBuilderRowSumInvariant(t *testing.T) {
	m := twoStateChain(t)
	require.True(t, m.IsProbabilistic())
	require.Equal(t, 2, m.RowCount())
	require.Equal(t, 2, m.RowGroupCount())
	require.Equal(t, 3, m.EntryCount())
}

func TestBuilderRejectsOutOfOrderColumns(t *testing.T) {
	b := NewBuilder(3, ring.F64Ring)
	b.NewRowGroup()
	err := b.AddRow(Entry{Column: 1, Value: ring.Float64(1)}, Entry{Column: 0, Value: ring.Float64(1)})
	require.ErrorIs(t, err, ErrOutOfOrder)
}

func TestBuilderRejectsRowBeforeGroup(t *testing.T) {
	b := NewBuilder(3, ring.F64Ring)
	err := b.AddRow(Entry{Column: 0, Value: ring.Float64(1)})
	require.ErrorIs(t, err, ErrEmptyGroup)
}

func TestGetSubmatrixPreservesRowOrderAndEntries(t *testing.T) {
	m := twoStateChain(t)
	rowsMask := bitset.FromSlice(2, []int{1})
	colsMask := bitset.FromSlice(2, []int{1})
	sub, rowMap, colMap := m.GetSubmatrix(true, rowsMask, colsMask)

	require.Equal(t, []int{1}, rowMap)
	require.Equal(t, -1, colMap[0])
	require.Equal(t, 0, colMap[1])
	require.Equal(t, 1, sub.RowCount())
	row := sub.GetRow(0)
	require.Len(t, row, 1)
	require.Equal(t, 0, row[0].Column)
	require.True(t, row[0].Value.Equal(ring.Float64(1)))
}

func TestTransposeRoundTripOnDeterministicMatrix(t *testing.T) {
	m := twoStateChain(t)
	tt := m.Transpose().Transpose()

	require.Equal(t, m.RowCount(), tt.RowCount())
	for i := 0; i < m.RowCount(); i++ {
		orig := m.GetRow(i)
		got := tt.GetRow(i)
		require.Len(t, got, len(orig))
		for k := range orig {
			require.Equal(t, orig[k].Column, got[k].Column)
			require.True(t, orig[k].Value.Equal(got[k].Value))
		}
	}
}

func TestMultiplyWithVector(t *testing.T) {
	m := twoStateChain(t)
	y, err := m.MultiplyWithVector([]ring.Value{ring.Float64(0), ring.Float64(1)})
	require.NoError(t, err)
	require.True(t, y[0].Equal(ring.Float64(0.5)))
	require.True(t, y[1].Equal(ring.Float64(1)))
}

func TestRestrictRowsInsertsSelfLoopWhenGroupEmptied(t *testing.T) {
	m := twoStateChain(t)
	// disable the only row of group 0
	enabled := bitset.FromSlice(2, []int{1})
	out := m.RestrictRows(enabled)
	row0 := out.GetRow(0)
	require.Len(t, row0, 1)
	require.Equal(t, 0, row0[0].Column)
	require.True(t, row0[0].Value.Equal(ring.Float64(1)))
}

func TestFlexibleFromMatrixAndBackRoundTrips(t *testing.T) {
	m := twoStateChain(t)
	f := FromMatrix(m)
	out := f.ToMatrix()

	require.Equal(t, m.RowCount(), out.RowCount())
	for i := 0; i < m.RowCount(); i++ {
		require.Equal(t, m.GetRow(i), out.GetRow(i))
	}
}

func TestFlexibleAppendEntryMergesExisting(t *testing.T) {
	m := twoStateChain(t)
	f := FromMatrix(m)
	f.AppendEntry(0, 1, ring.Float64(0.25))
	row := f.GetRow(0)
	require.Len(t, row, 2)
	require.True(t, row[1].Value.Equal(ring.Float64(0.75)))
}

func TestFlexibleRemoveColumn(t *testing.T) {
	m := twoStateChain(t)
	f := FromMatrix(m)
	v := f.RemoveColumn(0, 0)
	require.True(t, v.Equal(ring.Float64(0.5)))
	require.Len(t, f.GetRow(0), 1)
}
