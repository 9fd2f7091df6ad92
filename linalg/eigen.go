// SPDX-License-Identifier: MIT

package linalg

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Diagonalizer computes the full spectrum of a real symmetric matrix.
// Implementations return eigenvalues in non-decreasing order; column k of
// vectors is the normalized eigenvector of values[k].
type Diagonalizer interface {
	Diagonalize(a *mat.SymDense) (values []float64, vectors *mat.Dense, err error)
}

// Compile-time conformance.
var (
	_ Diagonalizer = EigenSym{}
	_ Diagonalizer = (*Jacobi)(nil)
)

// EigenSym delegates to gonum's symmetric eigensolver.
type EigenSym struct{}

// Diagonalize implements Diagonalizer.
//
// Complexity: O(n^3) time, O(n^2) space.
func (EigenSym) Diagonalize(a *mat.SymDense) ([]float64, *mat.Dense, error) {
	n := a.SymmetricDim()
	if n == 0 {
		return nil, nil, linalgErrorf(opEigenSym, ErrEmpty)
	}
	var es mat.EigenSym
	if ok := es.Factorize(a, true); !ok {
		return nil, nil, linalgErrorf(opEigenSym, ErrEigenFailed)
	}
	values := es.Values(nil)
	vectors := mat.NewDense(n, n, nil)
	es.VectorsTo(vectors)

	if err := SortEigenpairs(values, vectors); err != nil {
		return nil, nil, linalgErrorf(opEigenSym, err)
	}

	return values, vectors, nil
}

// Jacobi diagonalizes by repeated plane rotations that annihilate the
// largest off-diagonal element.
type Jacobi struct {
	opts Options
}

// NewJacobi returns a Jacobi solver configured by opts.
func NewJacobi(opts ...Option) *Jacobi {
	return &Jacobi{opts: gatherOptions(opts...)}
}

// Diagonalize implements Diagonalizer.
//
// Implementation:
//   - Stage 1: copy A into a flat row-major buffer and set Q = I.
//   - Stage 2: pick (p,q) maximizing |A[p,q]| in fixed i<j scan order.
//   - Stage 3: stop when |A[p,q]| < tol; otherwise rotate A and accumulate Q.
//   - Stage 4: read eigenvalues from the diagonal and sort the pairs.
//
// Errors:
//   - ErrEmpty, ErrNaNInf, ErrEigenFailed (sweep budget exhausted).
//
// Complexity:
//   - Time O(sweeps * n^3), Space O(n^2).
func (j *Jacobi) Diagonalize(a *mat.SymDense) ([]float64, *mat.Dense, error) {
	if j == nil {
		j = NewJacobi()
	}
	n := a.SymmetricDim()
	if n == 0 {
		return nil, nil, linalgErrorf(opJacobi, ErrEmpty)
	}
	tol := j.opts.tol
	data := make([]float64, n*n)
	q := make([]float64, n*n)
	var r, c int
	for r = 0; r < n; r++ {
		q[r*n+r] = 1
		for c = 0; c < n; c++ {
			v := a.At(r, c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, linalgErrorf(opJacobi, ErrNaNInf)
			}
			data[r*n+c] = v
		}
	}

	var (
		p, qq              int
		maxOff, off        float64
		app, aqq, apq      float64
		aip, aiq, qip, qiq float64
		newIP, newIQ       float64
		theta, t, cs, sn   float64
		i, k               int
	)
	budget := j.opts.sweeps * (n*(n-1)/2 + 1)
	converged := false
	for iter := 0; iter < budget; iter++ {
		maxOff = 0
		for i = 0; i < n; i++ {
			for k = i + 1; k < n; k++ {
				off = math.Abs(data[i*n+k])
				if off > maxOff {
					maxOff, p, qq = off, i, k
				}
			}
		}
		if maxOff < tol {
			converged = true
			break
		}

		app = data[p*n+p]
		aqq = data[qq*n+qq]
		apq = data[p*n+qq]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		cs = 1.0 / math.Sqrt(t*t+1)
		sn = t * cs

		for i = 0; i < n; i++ {
			if i == p || i == qq {
				continue
			}
			aip = data[i*n+p]
			aiq = data[i*n+qq]
			newIP, newIQ = cs*aip-sn*aiq, sn*aip+cs*aiq
			data[i*n+p], data[p*n+i] = newIP, newIP
			data[i*n+qq], data[qq*n+i] = newIQ, newIQ
		}
		data[p*n+p] = cs*cs*app - 2*cs*sn*apq + sn*sn*aqq
		data[qq*n+qq] = sn*sn*app + 2*cs*sn*apq + cs*cs*aqq
		data[p*n+qq], data[qq*n+p] = 0, 0

		for i = 0; i < n; i++ {
			qip = q[i*n+p]
			qiq = q[i*n+qq]
			q[i*n+p] = cs*qip - sn*qiq
			q[i*n+qq] = sn*qip + cs*qiq
		}
	}
	if !converged && n > 1 {
		return nil, nil, linalgErrorf(opJacobi, ErrEigenFailed)
	}

	values := make([]float64, n)
	for i = 0; i < n; i++ {
		values[i] = data[i*n+i]
	}
	vectors := mat.NewDense(n, n, q)
	if err := SortEigenpairs(values, vectors); err != nil {
		return nil, nil, linalgErrorf(opJacobi, err)
	}

	return values, vectors, nil
}

// SortEigenpairs reorders values ascending (stable) and permutes the columns
// of vectors accordingly, in place.
func SortEigenpairs(values []float64, vectors *mat.Dense) error {
	r, c := vectors.Dims()
	if c != len(values) {
		return linalgErrorf(opSort, ErrDimensionMismatch)
	}
	perm := make([]int, len(values))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool { return values[perm[a]] < values[perm[b]] })

	sorted := true
	for i, p := range perm {
		if i != p {
			sorted = false
			break
		}
	}
	if sorted {
		return nil
	}

	vals := make([]float64, len(values))
	src := mat.DenseCopyOf(vectors)
	col := make([]float64, r)
	for i, p := range perm {
		vals[i] = values[p]
		mat.Col(col, p, src)
		vectors.SetCol(i, col)
	}
	copy(values, vals)

	return nil
}
