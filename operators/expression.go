// SPDX-License-Identifier: MIT

package operators

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Elementary is a single creation (Dagger) or annihilation operator.
type Elementary struct {
	Dagger bool
	Index  int
}

// String implements fmt.Stringer.
func (e Elementary) String() string {
	if e.Dagger {
		return "c†(" + strconv.Itoa(e.Index) + ")"
	}

	return "c(" + strconv.Itoa(e.Index) + ")"
}

// Monomial is Coeff times the ordered product of Ops (leftmost acts last).
type Monomial struct {
	Coeff float64
	Ops   []Elementary
}

// key identifies the operator string independently of the coefficient.
func (m Monomial) key() string {
	var b strings.Builder
	for _, op := range m.Ops {
		if op.Dagger {
			b.WriteByte('+')
		} else {
			b.WriteByte('-')
		}
		b.WriteString(strconv.Itoa(op.Index))
		b.WriteByte('.')
	}

	return b.String()
}

// String implements fmt.Stringer.
func (m Monomial) String() string {
	parts := make([]string, 0, len(m.Ops)+1)
	parts = append(parts, strconv.FormatFloat(m.Coeff, 'g', -1, 64))
	for _, op := range m.Ops {
		parts = append(parts, op.String())
	}

	return strings.Join(parts, "*")
}

// Apply acts with m on the Fock state s.
// It returns the resulting state and amplitude (coefficient times fermionic
// sign). ok is false when the monomial annihilates s.
//
// Complexity: O(len(Ops)).
func (m Monomial) Apply(s uint64) (next uint64, amplitude float64, ok bool) {
	sign := 1.0
	for k := len(m.Ops) - 1; k >= 0; k-- {
		op := m.Ops[k]
		bit := uint64(1) << uint(op.Index)
		occupied := s&bit != 0
		if op.Dagger == occupied {
			return 0, 0, false
		}
		if bits.OnesCount64(s&(bit-1))%2 == 1 {
			sign = -sign
		}
		s ^= bit
	}

	return s, m.Coeff * sign, true
}

// Adjoint returns the Hermitian conjugate of m (real coefficient).
func (m Monomial) Adjoint() Monomial {
	ops := make([]Elementary, len(m.Ops))
	for i, op := range m.Ops {
		ops[len(m.Ops)-1-i] = Elementary{Dagger: !op.Dagger, Index: op.Index}
	}

	return Monomial{Coeff: m.Coeff, Ops: ops}
}

// MaxIndex returns the largest mode index used by m, or -1 for a constant.
func (m Monomial) MaxIndex() int {
	hi := -1
	for _, op := range m.Ops {
		if op.Index > hi {
			hi = op.Index
		}
	}

	return hi
}

// Expression is a sum of monomials. Monomials with identical operator strings
// are merged and exact zeros are dropped, keeping first-appearance order.
type Expression struct {
	terms []Monomial
}

// New builds an expression from monomials.
func New(terms ...Monomial) Expression {
	return Expression{}.add(terms)
}

// C returns the annihilation operator of mode i.
func C(i int) Expression {
	return New(Monomial{Coeff: 1, Ops: []Elementary{{Index: i}}})
}

// Cdag returns the creation operator of mode i.
func Cdag(i int) Expression {
	return New(Monomial{Coeff: 1, Ops: []Elementary{{Dagger: true, Index: i}}})
}

// N returns the occupation number operator c†(i) c(i).
func N(i int) Expression {
	return Cdag(i).Mul(C(i))
}

// Constant returns v times the identity.
func Constant(v float64) Expression {
	return New(Monomial{Coeff: v})
}

func (e Expression) add(terms []Monomial) Expression {
	out := make([]Monomial, 0, len(e.terms)+len(terms))
	pos := make(map[string]int, cap(out))
	for _, src := range [][]Monomial{e.terms, terms} {
		for _, t := range src {
			k := t.key()
			if i, ok := pos[k]; ok {
				out[i].Coeff += t.Coeff
				continue
			}
			ops := make([]Elementary, len(t.Ops))
			copy(ops, t.Ops)
			pos[k] = len(out)
			out = append(out, Monomial{Coeff: t.Coeff, Ops: ops})
		}
	}
	kept := out[:0]
	for _, t := range out {
		if t.Coeff != 0 {
			kept = append(kept, t)
		}
	}

	return Expression{terms: kept}
}

// Add returns e + o.
func (e Expression) Add(o Expression) Expression { return e.add(o.terms) }

// Sub returns e - o.
func (e Expression) Sub(o Expression) Expression { return e.add(o.Scale(-1).terms) }

// Scale returns v * e.
func (e Expression) Scale(v float64) Expression {
	terms := make([]Monomial, len(e.terms))
	for i, t := range e.terms {
		terms[i] = Monomial{Coeff: v * t.Coeff, Ops: t.Ops}
	}

	return New(terms...)
}

// Mul returns the operator product e * o.
func (e Expression) Mul(o Expression) Expression {
	terms := make([]Monomial, 0, len(e.terms)*len(o.terms))
	for _, a := range e.terms {
		for _, b := range o.terms {
			ops := make([]Elementary, 0, len(a.Ops)+len(b.Ops))
			ops = append(ops, a.Ops...)
			ops = append(ops, b.Ops...)
			terms = append(terms, Monomial{Coeff: a.Coeff * b.Coeff, Ops: ops})
		}
	}

	return New(terms...)
}

// Adjoint returns the Hermitian conjugate of e.
func (e Expression) Adjoint() Expression {
	terms := make([]Monomial, len(e.terms))
	for i, t := range e.terms {
		terms[i] = t.Adjoint()
	}

	return New(terms...)
}

// PlusHC returns e + e†.
func (e Expression) PlusHC() Expression { return e.Add(e.Adjoint()) }

// Terms returns a copy of the monomials.
func (e Expression) Terms() []Monomial {
	out := make([]Monomial, len(e.terms))
	for i, t := range e.terms {
		ops := make([]Elementary, len(t.Ops))
		copy(ops, t.Ops)
		out[i] = Monomial{Coeff: t.Coeff, Ops: ops}
	}

	return out
}

// Len returns the number of monomials.
func (e Expression) Len() int { return len(e.terms) }

// IsZero reports whether e has no terms.
func (e Expression) IsZero() bool { return len(e.terms) == 0 }

// Single returns the only monomial of e.
func (e Expression) Single() (Monomial, error) {
	if len(e.terms) != 1 {
		return Monomial{}, fmt.Errorf("Expression.Single(%d terms): %w", len(e.terms), ErrUnsupportedExpression)
	}

	return e.Terms()[0], nil
}

// CheckRange verifies every mode index lies in [0, n).
func (e Expression) CheckRange(n int) error {
	for _, t := range e.terms {
		for _, op := range t.Ops {
			if op.Index < 0 || op.Index >= n {
				return fmt.Errorf("Expression.CheckRange(%s, n=%d): %w", op, n, ErrIndexRange)
			}
		}
	}

	return nil
}

// String implements fmt.Stringer.
func (e Expression) String() string {
	if len(e.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(e.terms))
	for i, t := range e.terms {
		parts[i] = t.String()
	}

	return strings.Join(parts, " + ")
}
