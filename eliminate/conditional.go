package eliminate

import "github.com/katalvlaran/pmcheck/ring"

// Tag classifies a state for Conditional elimination: which of the two
// auxiliary reach vectors its own contribution is folded into when it is
// eliminated. A state tagged TagBoth (the default for states that are
// neither phi- nor psi-chain members) propagates into both.
type Tag int

const (
	TagBoth Tag = iota
	TagPhi
	TagPsi
)

// Conditional implements spec §4.H's conditional-probability eliminator:
// P(φ U ψ₁ | φ U ψ₂) needs two weighted sums collected over the same
// elimination run rather than two separate passes, so PhiReach and
// PsiReach accumulate side by side, each predecessor receiving exactly the
// vector(s) its own Tag selects.
type Conditional struct {
	Ctx      *Context
	PhiReach []ring.Value
	PsiReach []ring.Value
	TagOf    func(state int) Tag
}

func (e *Conditional) Eliminate(state int) error {
	tag := TagBoth
	if e.TagOf != nil {
		tag = e.TagOf(state)
	}

	eliminateRow(e.Ctx, state,
		func(loopFactor ring.Value) {
			if tag == TagPhi || tag == TagBoth {
				e.PhiReach[state] = loopFactor.Mul(e.PhiReach[state])
			}
			if tag == TagPsi || tag == TagBoth {
				e.PsiReach[state] = loopFactor.Mul(e.PsiReach[state])
			}
		},
		func(pred int, weight ring.Value) {
			if tag == TagPhi || tag == TagBoth {
				e.PhiReach[pred] = e.PhiReach[pred].Add(weight.Mul(e.PhiReach[state]))
			}
			if tag == TagPsi || tag == TagBoth {
				e.PsiReach[pred] = e.PsiReach[pred].Add(weight.Mul(e.PsiReach[state]))
			}
		},
	)
	return nil
}
