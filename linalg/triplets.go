// SPDX-License-Identifier: MIT

package linalg

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Entry is one stored (row, col, value) element.
type Entry struct {
	Row, Col int
	Value    float64
}

// Triplets accumulates an n×n matrix in coordinate form. Repeated Add calls
// on the same cell are summed in call order.
type Triplets struct {
	n     int
	cells map[[2]int]float64
}

// NewTriplets returns an empty n×n accumulator.
func NewTriplets(n int) (*Triplets, error) {
	if n <= 0 {
		return nil, linalgErrorf(opTriplets, ErrEmpty)
	}

	return &Triplets{n: n, cells: make(map[[2]int]float64)}, nil
}

// Size returns n.
func (t *Triplets) Size() int { return t.n }

// Add accumulates v into cell (i, j).
func (t *Triplets) Add(i, j int, v float64) error {
	if i < 0 || j < 0 || i >= t.n || j >= t.n {
		return fmt.Errorf("Triplets.Add(%d,%d): %w", i, j, ErrOutOfRange)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("Triplets.Add(%d,%d): %w", i, j, ErrNaNInf)
	}
	t.cells[[2]int{i, j}] += v

	return nil
}

// Len returns the number of stored cells.
func (t *Triplets) Len() int { return len(t.cells) }

// Entries returns the stored cells sorted by (row, col).
func (t *Triplets) Entries() []Entry {
	out := make([]Entry, 0, len(t.cells))
	for k, v := range t.cells {
		out = append(out, Entry{Row: k[0], Col: k[1], Value: v})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Row != out[b].Row {
			return out[a].Row < out[b].Row
		}
		return out[a].Col < out[b].Col
	})

	return out
}

// Dense materializes the accumulator.
func (t *Triplets) Dense() *mat.Dense {
	d := mat.NewDense(t.n, t.n, nil)
	for k, v := range t.cells {
		d.Set(k[0], k[1], v)
	}

	return d
}

// Symmetric materializes the accumulator as a symmetric matrix after checking
// |A[i,j]-A[j,i]| <= eps for every stored pair. Off-diagonal values are the
// mean of the two mirrored cells.
func (t *Triplets) Symmetric(eps float64) (*mat.SymDense, error) {
	s := mat.NewSymDense(t.n, nil)
	for k, v := range t.cells {
		i, j := k[0], k[1]
		if i > j {
			continue
		}
		if i == j {
			s.SetSym(i, i, v)
			continue
		}
		w := t.cells[[2]int{j, i}]
		if math.Abs(v-w) > eps {
			return nil, fmt.Errorf("%s(%d,%d): |%g-%g| > %g: %w", opSymmetric, i, j, v, w, eps, ErrAsymmetry)
		}
		s.SetSym(i, j, 0.5*(v+w))
	}
	// lower-only cells without an upper mirror
	for k, v := range t.cells {
		i, j := k[0], k[1]
		if i <= j {
			continue
		}
		if _, ok := t.cells[[2]int{j, i}]; ok {
			continue
		}
		if math.Abs(v) > eps {
			return nil, fmt.Errorf("%s(%d,%d): |%g-0| > %g: %w", opSymmetric, i, j, v, eps, ErrAsymmetry)
		}
	}

	return s, nil
}
