// Package ring defines the abstract scalar contract the rest of the core
// computes over. A Value is either a numeric float64 or a symbolic rational
// function; the core never inspects a Value's interior beyond the
// operations declared here.
//
// Division by zero is a programmer error: callers must guarantee non-zero
// divisors, exactly as spec'd — Div does not return an error; the outcome
// is the concrete implementation's own (float64 division by zero yields
// ±Inf/NaN, RationalFunction.Div panics).
package ring

import "fmt"

// Value is one element of a commutative ring with multiplicative inverses
// for non-zero elements. Implementations are immutable: every arithmetic
// method returns a new Value rather than mutating the receiver.
type Value interface {
	fmt.Stringer

	// Add returns v + other.
	Add(other Value) Value
	// Sub returns v - other.
	Sub(other Value) Value
	// Mul returns v * other.
	Mul(other Value) Value
	// Div returns v / other. other must not be zero.
	Div(other Value) Value

	// Equal reports whether v and other denote the same ring element.
	Equal(other Value) bool
	// IsZero reports whether v is the additive identity.
	IsZero() bool
	// IsOne reports whether v is the multiplicative identity.
	IsOne() bool

	// Simplify returns an idempotent normalization of v. It must not change
	// the mathematical value; for numeric rings it is a no-op.
	Simplify() Value

	// Complexity estimates the representational weight of v: 1 for numeric
	// scalars, a polynomial-degree product for symbolic ones. Used by
	// complexity-aware elimination-order penalties (pqueue).
	Complexity() int
}

// Ring is the factory side of the capability set: zero/one/integer
// constructors live here rather than as free functions so a solver can be
// handed a Ring[V] once and never branch on which concrete Value it holds.
type Ring interface {
	// Zero returns the additive identity.
	Zero() Value
	// One returns the multiplicative identity.
	One() Value
	// FromInt lifts a small integer into the ring (used to build constants
	// such as rate sums and harmonic means).
	FromInt(n int) Value
}
