// Package sparse implements the immutable CSR-with-row-groups matrix
// (spec §4.C) and its editable FlexibleMatrix mirror (spec §4.D). Rows are
// grouped to represent nondeterministic choices: a deterministic model has
// one row per group, an MDP/MA may have several.
package sparse

import "errors"

// Sentinel errors, prefixed "sparse: ..." per the teacher's convention
// (matrix/errors.go) of grep-able, errors.Is-comparable package errors.
var (
	// ErrOutOfOrder is returned by Builder.AddRow when a row's column
	// indices are not strictly increasing, violating the CSR
	// strictly-increasing-column invariant.
	ErrOutOfOrder = errors.New("sparse: entries must be added in row-major, column-increasing order")

	// ErrEmptyGroup is returned by Builder.AddRow when no row group has
	// been opened yet. A group left without rows is not detected.
	ErrEmptyGroup = errors.New("sparse: row group has no rows")

	// ErrIndexOutOfRange indicates a row or column index outside the
	// matrix's declared dimensions.
	ErrIndexOutOfRange = errors.New("sparse: index out of range")

	// ErrSizeMismatch indicates incompatible dimensions between operands
	// (e.g. MultiplyWithVector against a vector of the wrong length).
	ErrSizeMismatch = errors.New("sparse: size mismatch")

	// ErrNotBuilt is returned by Builder.AddRow or Builder.Build once Build
	// has already been called on that Builder.
	ErrNotBuilt = errors.New("sparse: builder already consumed")
)
