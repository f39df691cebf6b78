package ring

import (
	"math/big"
	"sort"
	"strings"
)

// monomial is an exponent vector keyed by variable name. A nil/empty map
// denotes the constant monomial 1.
type monomial map[string]int

// term is a coefficient attached to one monomial.
type term struct {
	coeff big.Rat
	exps  monomial
}

// polynomial is a sum of terms, kept in a canonical (sorted, deduplicated,
// zero-stripped) form by normalize.
type polynomial struct {
	terms []term
}

func constPoly(r *big.Rat) polynomial {
	return polynomial{terms: []term{{coeff: *r, exps: monomial{}}}}
}

func varPoly(name string) polynomial {
	return polynomial{terms: []term{{coeff: *big.NewRat(1, 1), exps: monomial{name: 1}}}}
}

func (p polynomial) clone() polynomial {
	out := make([]term, len(p.terms))
	for i, t := range p.terms {
		e := make(monomial, len(t.exps))
		for k, v := range t.exps {
			e[k] = v
		}
		var c big.Rat
		c.Set(&t.coeff)
		out[i] = term{coeff: c, exps: e}
	}
	return polynomial{terms: out}
}

func monomialKey(m monomial) string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(big.NewInt(int64(m[k])).String())
		b.WriteByte(',')
	}
	return b.String()
}

// normalize merges like monomials, drops zero-coefficient terms, and sorts
// the result by monomial key so that two mathematically equal polynomials
// built through different operation orders compare Equal.
func (p polynomial) normalize() polynomial {
	byKey := make(map[string]*term)
	order := make([]string, 0, len(p.terms))
	for _, t := range p.terms {
		k := monomialKey(t.exps)
		if existing, ok := byKey[k]; ok {
			existing.coeff.Add(&existing.coeff, &t.coeff)
			continue
		}
		tc := t
		var c big.Rat
		c.Set(&t.coeff)
		tc.coeff = c
		byKey[k] = &tc
		order = append(order, k)
	}
	sort.Strings(order)
	out := make([]term, 0, len(order))
	for _, k := range order {
		t := byKey[k]
		if t.coeff.Sign() == 0 {
			continue
		}
		out = append(out, *t)
	}
	return polynomial{terms: out}
}

func (p polynomial) isZero() bool {
	n := p.normalize()
	return len(n.terms) == 0
}

func (p polynomial) isOne() bool {
	n := p.normalize()
	return len(n.terms) == 1 && len(n.terms[0].exps) == 0 && n.terms[0].coeff.Cmp(big.NewRat(1, 1)) == 0
}

func (p polynomial) add(q polynomial) polynomial {
	out := append(append([]term{}, p.terms...), q.terms...)
	return polynomial{terms: out}.normalize()
}

func (p polynomial) neg() polynomial {
	out := make([]term, len(p.terms))
	for i, t := range p.terms {
		var c big.Rat
		c.Neg(&t.coeff)
		out[i] = term{coeff: c, exps: t.exps}
	}
	return polynomial{terms: out}
}

func (p polynomial) sub(q polynomial) polynomial { return p.add(q.neg()) }

func (p polynomial) mul(q polynomial) polynomial {
	out := make([]term, 0, len(p.terms)*len(q.terms))
	for _, a := range p.terms {
		for _, b := range q.terms {
			e := make(monomial, len(a.exps)+len(b.exps))
			for k, v := range a.exps {
				e[k] = v
			}
			for k, v := range b.exps {
				e[k] += v
			}
			var c big.Rat
			c.Mul(&a.coeff, &b.coeff)
			out = append(out, term{coeff: c, exps: e})
		}
	}
	return polynomial{terms: out}.normalize()
}

// degree returns the total degree (max over terms of the sum of exponents);
// used by Complexity.
func (p polynomial) degree() int {
	max := 0
	for _, t := range p.terms {
		d := 0
		for _, e := range t.exps {
			d += e
		}
		if d > max {
			max = d
		}
	}
	return max
}

func (p polynomial) String() string {
	n := p.normalize()
	if len(n.terms) == 0 {
		return "0"
	}
	parts := make([]string, 0, len(n.terms))
	for _, t := range n.terms {
		keys := make([]string, 0, len(t.exps))
		for k, v := range t.exps {
			if v != 0 {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(t.coeff.RatString())
		for _, k := range keys {
			b.WriteByte('*')
			b.WriteString(k)
			if t.exps[k] != 1 {
				b.WriteByte('^')
				b.WriteString(big.NewInt(int64(t.exps[k])).String())
			}
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, " + ")
}

// RationalFunction is a symbolic ring element: a ratio of two polynomials
// over named parameters with exact big.Rat coefficients. It satisfies the
// abstract ValueRing contract from spec §3/§4.A without the core ever
// knowing it exists.
type RationalFunction struct {
	num, den polynomial
}

// RFRing is the Ring[RationalFunction] factory.
var RFRing Ring = rfRing{}

type rfRing struct{}

func (rfRing) Zero() Value { return RationalFunction{num: constPoly(big.NewRat(0, 1)), den: constPoly(big.NewRat(1, 1))} }
func (rfRing) One() Value  { return RationalFunction{num: constPoly(big.NewRat(1, 1)), den: constPoly(big.NewRat(1, 1))} }
func (rfRing) FromInt(n int) Value {
	return RationalFunction{num: constPoly(big.NewRat(int64(n), 1)), den: constPoly(big.NewRat(1, 1))}
}

// Param constructs the rational function that is a single parameter raised
// to the first power, e.g. Param("p") for Scenario 5's biased-coin weight.
func Param(name string) RationalFunction {
	return RationalFunction{num: varPoly(name), den: constPoly(big.NewRat(1, 1))}
}

// Rat lifts an exact rational constant, e.g. Rat(1, 2) for 1/2.
func Rat(numer, denom int64) RationalFunction {
	return RationalFunction{num: constPoly(big.NewRat(numer, denom)), den: constPoly(big.NewRat(1, 1))}
}

func (v RationalFunction) asRF(other Value) RationalFunction {
	o, ok := other.(RationalFunction)
	if !ok {
		panic("ring: RationalFunction operation against a non-RationalFunction Value")
	}
	return o
}

func (v RationalFunction) Add(other Value) Value {
	o := v.asRF(other)
	return RationalFunction{
		num: v.num.mul(o.den).add(o.num.mul(v.den)),
		den: v.den.mul(o.den),
	}.Simplify()
}

func (v RationalFunction) Sub(other Value) Value {
	o := v.asRF(other)
	return RationalFunction{
		num: v.num.mul(o.den).sub(o.num.mul(v.den)),
		den: v.den.mul(o.den),
	}.Simplify()
}

func (v RationalFunction) Mul(other Value) Value {
	o := v.asRF(other)
	return RationalFunction{num: v.num.mul(o.num), den: v.den.mul(o.den)}.Simplify()
}

func (v RationalFunction) Div(other Value) Value {
	o := v.asRF(other)
	if o.num.isZero() {
		panic("ring: division by zero RationalFunction")
	}
	return RationalFunction{num: v.num.mul(o.den), den: v.den.mul(o.num)}.Simplify()
}

func (v RationalFunction) Equal(other Value) bool {
	o := v.asRF(other)
	// a/b == c/d  <=>  a*d - c*b == 0, avoids requiring both sides to
	// already be in reduced form.
	diff := v.num.mul(o.den).sub(o.num.mul(v.den))
	return diff.isZero()
}

func (v RationalFunction) IsZero() bool { return v.num.isZero() }

func (v RationalFunction) IsOne() bool {
	// num/den == 1  <=>  num - den == 0, whatever form v is in.
	return v.num.sub(v.den).isZero()
}

// Simplify normalizes numerator and denominator. When both are single
// terms it also strips their shared monomial factor and divides both
// coefficients by the denominator's, so the denominator's coefficient
// becomes 1. It does not perform multivariate polynomial GCD: multi-term
// numerators and denominators sharing a factor keep it. spec §4.A only
// requires that Simplify "may reduce symbolic size" and "must not change
// mathematical value", and this minimal cancellation avoids pulling in a
// computer-algebra dependency (see DESIGN.md).
func (v RationalFunction) Simplify() Value {
	num := v.num.normalize()
	den := v.den.normalize()

	// Cancel a shared single-term factor, the common case produced by the
	// eliminator's loopFactor multiplications.
	if len(num.terms) == 1 && len(den.terms) == 1 {
		nt, dt := num.terms[0], den.terms[0]
		shared := make(monomial)
		for k, a := range nt.exps {
			if b, ok := dt.exps[k]; ok {
				m := a
				if b < m {
					m = b
				}
				if m > 0 {
					shared[k] = m
				}
			}
		}
		if len(shared) > 0 {
			nt.exps = subtractExps(nt.exps, shared)
			dt.exps = subtractExps(dt.exps, shared)
			num = polynomial{terms: []term{nt}}
			den = polynomial{terms: []term{dt}}
		}
		g := new(big.Rat).Set(&dt.coeff)
		if g.Sign() != 0 {
			var nc, dc big.Rat
			nc.Quo(&nt.coeff, g)
			dc.Quo(&dt.coeff, g)
			num = polynomial{terms: []term{{coeff: nc, exps: nt.exps}}}
			den = polynomial{terms: []term{{coeff: dc, exps: dt.exps}}}
		}
	}

	return RationalFunction{num: num, den: den}
}

func subtractExps(a, shared monomial) monomial {
	out := make(monomial, len(a))
	for k, v := range a {
		if s, ok := shared[k]; ok {
			v -= s
		}
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// Complexity is (numerator total degree + 1) × (denominator total degree
// + 1), per spec §3 ("polynomial degree product for symbolic"); the +1 on
// each side keeps a constant rational function at 1 rather than 0 in
// penalty formulas.
func (v RationalFunction) Complexity() int {
	nd := v.num.degree()
	dd := v.den.degree()
	c := (nd + 1) * (dd + 1)
	if c < 1 {
		return 1
	}
	return c
}

func (v RationalFunction) String() string {
	if v.den.isOne() {
		return v.num.String()
	}
	return "(" + v.num.String() + ")/(" + v.den.String() + ")"
}
