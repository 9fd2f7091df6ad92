// SPDX-License-Identifier: MIT

package monomial

import (
	"math"

	"github.com/katalvlaran/exactdiag/states"
	"gonum.org/v1/gonum/mat"
)

// Element is one non-zero entry of a sparse row or column.
type Element struct {
	Index int
	Value float64
}

// Part is the rotated operator between one left and one right block.
type Part struct {
	left, right states.BlockID
	dense       *mat.Dense
	rows        [][]Element
	cols        [][]Element
}

func newPart(left, right states.BlockID, m *mat.Dense, tol float64) *Part {
	r, c := m.Dims()
	p := &Part{left: left, right: right, dense: m, rows: make([][]Element, r), cols: make([][]Element, c)}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.Abs(v) <= tol {
				m.Set(i, j, 0)
				continue
			}
			p.rows[i] = append(p.rows[i], Element{Index: j, Value: v})
			p.cols[j] = append(p.cols[j], Element{Index: i, Value: v})
		}
	}

	return p
}

// Left returns the left (target) block.
func (p *Part) Left() states.BlockID { return p.left }

// Right returns the right (source) block.
func (p *Part) Right() states.BlockID { return p.right }

// Dims returns the left and right block sizes.
func (p *Part) Dims() (rows, cols int) { return p.dense.Dims() }

// At returns the element between left eigenstate i and right eigenstate j.
func (p *Part) At(i, j int) float64 { return p.dense.At(i, j) }

// Row returns the non-zero elements of row i. Callers must not modify it.
func (p *Part) Row(i int) []Element { return p.rows[i] }

// Col returns the non-zero elements of column j. Callers must not modify it.
func (p *Part) Col(j int) []Element { return p.cols[j] }

// NNZ returns the number of stored elements.
func (p *Part) NNZ() int {
	n := 0
	for _, r := range p.rows {
		n += len(r)
	}

	return n
}

// Dense returns the pruned matrix. Callers must not modify it.
func (p *Part) Dense() *mat.Dense { return p.dense }

func (p *Part) transpose() *Part {
	var t mat.Dense
	t.CloneFrom(p.dense.T())

	return &Part{left: p.right, right: p.left, dense: &t, rows: p.cols, cols: p.rows}
}
