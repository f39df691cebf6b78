package ring

import (
	"math"
	"strconv"
)

// Float64 is the numeric ring: IEEE-754 double precision, no symbolic
// bookkeeping. Complexity is always 1 and Simplify is a no-op, matching
// spec §4.A's "no-op for numeric V".
type Float64 float64

// F64Ring is the Ring[Float64] factory. There is no per-instance state, so
// a single shared value is enough; callers hand it to checker.NewSolver
// and sparse.NewBuilder, which stay ring-agnostic.
var F64Ring Ring = float64Ring{}

type float64Ring struct{}

func (float64Ring) Zero() Value       { return Float64(0) }
func (float64Ring) One() Value        { return Float64(1) }
func (float64Ring) FromInt(n int) Value { return Float64(n) }

// PositiveInfinity represents an unreachable reward (spec §4.I "reward
// extension"). It is not part of the Ring interface because only reward
// computations need it and a bare Zero/One/FromInt factory should not grow
// a special case for one caller.
func PositiveInfinity() Float64 { return Float64(math.Inf(1)) }

func (v Float64) Add(other Value) Value { return v + other.(Float64) }
func (v Float64) Sub(other Value) Value { return v - other.(Float64) }
func (v Float64) Mul(other Value) Value { return v * other.(Float64) }
func (v Float64) Div(other Value) Value { return v / other.(Float64) }

func (v Float64) Equal(other Value) bool {
	o, ok := other.(Float64)
	return ok && float64(v) == float64(o)
}

func (v Float64) IsZero() bool { return float64(v) == 0 }
func (v Float64) IsOne() bool  { return float64(v) == 1 }

func (v Float64) Simplify() Value { return v }

func (v Float64) Complexity() int { return 1 }

func (v Float64) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
