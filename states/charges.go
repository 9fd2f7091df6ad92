// SPDX-License-Identifier: MIT

package states

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/exactdiag/index"
	"github.com/katalvlaran/exactdiag/operators"
)

// Label is a vector of quantum numbers.
type Label []int

// String implements fmt.Stringer, e.g. "(1,0)".
func (l Label) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = strconv.Itoa(v)
	}

	return "(" + strings.Join(parts, ",") + ")"
}

// Add returns l + o (same length assumed).
func (l Label) Add(o Label) Label {
	out := make(Label, len(l))
	for i := range l {
		out[i] = l[i] + o[i]
	}

	return out
}

// IsZero reports whether every component is zero.
func (l Label) IsZero() bool {
	for _, v := range l {
		if v != 0 {
			return false
		}
	}

	return true
}

// Equal reports component-wise equality.
func (l Label) Equal(o Label) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i] != o[i] {
			return false
		}
	}

	return true
}

// Charges assigns an additive quantum-number vector to every mode.
type Charges struct {
	dim     int
	perMode []Label
}

// NewCharges validates a per-mode charge table: at least one mode, and every
// vector of the same non-zero length.
func NewCharges(perMode [][]int) (Charges, error) {
	if len(perMode) == 0 || len(perMode[0]) == 0 {
		return Charges{}, fmt.Errorf("NewCharges: %w", ErrBadCharges)
	}
	dim := len(perMode[0])
	table := make([]Label, len(perMode))
	for i, q := range perMode {
		if len(q) != dim {
			return Charges{}, fmt.Errorf("NewCharges(mode %d has %d components, want %d): %w", i, len(q), dim, ErrBadCharges)
		}
		table[i] = append(Label(nil), q...)
	}

	return Charges{dim: dim, perMode: table}, nil
}

// SpinCharges returns the (N↑, N↓) charge table of an index classification.
func SpinCharges(ix *index.Classification) Charges {
	table := make([]Label, ix.Len())
	for i, info := range ix.Infos() {
		if info.Spin == index.Up {
			table[i] = Label{1, 0}
		} else {
			table[i] = Label{0, 1}
		}
	}

	return Charges{dim: 2, perMode: table}
}

// ParticleNumber returns the total-particle-number charge table of n modes.
func ParticleNumber(n int) Charges {
	table := make([]Label, n)
	for i := range table {
		table[i] = Label{1}
	}

	return Charges{dim: 1, perMode: table}
}

// Dim returns the number of quantum numbers.
func (c Charges) Dim() int { return c.dim }

// Modes returns the number of modes covered.
func (c Charges) Modes() int { return len(c.perMode) }

// Of returns the label of basis state s.
func (c Charges) Of(s State) Label {
	out := make(Label, c.dim)
	for i, q := range c.perMode {
		if s&(State(1)<<uint(i)) == 0 {
			continue
		}
		for k, v := range q {
			out[k] += v
		}
	}

	return out
}

// Shift returns the net quantum-number change produced by m: creation
// operators add their mode's charge, annihilation operators subtract it.
func (c Charges) Shift(m operators.Monomial) Label {
	out := make(Label, c.dim)
	for _, op := range m.Ops {
		q := c.perMode[op.Index]
		for k, v := range q {
			if op.Dagger {
				out[k] += v
			} else {
				out[k] -= v
			}
		}
	}

	return out
}
