// SPDX-License-Identifier: MIT

// Package linop: the lazy inverse view and its factorization pipeline.
// Construction never factorizes; the first solve does, trying Cholesky for
// operators marked symmetric and falling back to LU with partial pivoting.
// An exactly zero pivot after row selection means the operator is singular.
package linop

import (
	"math"

	"github.com/katalvlaran/linop/nd"
)

// luFactors holds a packed LU decomposition with its row permutation:
// lu stores L (unit diagonal, below) and U (on and above) in one buffer.
type luFactors struct {
	n   int
	lu  []float64
	piv []int // piv[i] = source row of permuted row i
}

// luFactor decomposes an n×n row-major matrix with partial pivoting.
//
// Implementation stages:
//  1. For each column, pick the remaining row with the largest absolute
//     entry as pivot.
//  2. An exactly zero pivot is a hard stop: the matrix is singular and the
//     decomposition fails with ErrSingular. No epsilon is involved; tiny
//     but nonzero pivots proceed (and surface as conditioning, not error).
//  3. Eliminate below the pivot, storing multipliers in place.
//
// Determinism: ties in pivot selection keep the lowest row index.
// Complexity: O(n³).
func luFactor(a []float64, n int) (*luFactors, error) {
	f := &luFactors{n: n, lu: make([]float64, len(a)), piv: make([]int, n)}
	copy(f.lu, a)
	for i := range f.piv {
		f.piv[i] = i
	}

	for c := 0; c < n; c++ {
		// pivot search in column c
		p := c
		best := math.Abs(f.lu[c*n+c])
		for r := c + 1; r < n; r++ {
			if v := math.Abs(f.lu[r*n+c]); v > best {
				best, p = v, r
			}
		}
		if best == 0 {
			return nil, ErrSingular
		}
		if p != c {
			f.piv[p], f.piv[c] = f.piv[c], f.piv[p]
			rp, rc := f.lu[p*n:(p+1)*n], f.lu[c*n:(c+1)*n]
			for j := 0; j < n; j++ {
				rp[j], rc[j] = rc[j], rp[j]
			}
		}
		inv := 1 / f.lu[c*n+c]
		for r := c + 1; r < n; r++ {
			m := f.lu[r*n+c] * inv
			f.lu[r*n+c] = m
			for j := c + 1; j < n; j++ {
				f.lu[r*n+j] -= m * f.lu[c*n+j]
			}
		}
	}

	return f, nil
}

// solveVec solves A y = b (or Aᵀ y = b when trans) for one vector in place
// semantics: b is not modified, a fresh slice is returned.
// Complexity: O(n²).
func (f *luFactors) solveVec(b []float64, trans bool) []float64 {
	n := f.n
	y := make([]float64, n)

	if !trans {
		// Pb, then forward (unit L), then backward (U).
		for i := 0; i < n; i++ {
			y[i] = b[f.piv[i]]
		}
		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				y[i] -= f.lu[i*n+j] * y[j]
			}
		}
		for i := n - 1; i >= 0; i-- {
			for j := i + 1; j < n; j++ {
				y[i] -= f.lu[i*n+j] * y[j]
			}
			y[i] /= f.lu[i*n+i]
		}

		return y
	}

	// Aᵀ = (PᵀLU)ᵀ = UᵀLᵀP: solve Uᵀ z = b, then Lᵀ w = z, then y = Pᵀ w.
	z := make([]float64, n)
	copy(z, b)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			z[i] -= f.lu[j*n+i] * z[j]
		}
		z[i] /= f.lu[i*n+i]
	}
	for i := n - 1; i >= 0; i-- {
		for j := i + 1; j < n; j++ {
			z[i] -= f.lu[j*n+i] * z[j]
		}
	}
	for i := 0; i < n; i++ {
		y[f.piv[i]] = z[i]
	}

	return y
}

// invFactorization is the lazily computed solve backend of an inverse view:
// either a Cholesky factor of the source or its LU decomposition.
type invFactorization struct {
	chol *Operator // lower factor, when the Cholesky route succeeded
	lu   *luFactors
}

// invState defers factorization of the source until the first solve and
// remembers the outcome, success or failure.
type invState struct {
	src  *Operator
	fact cell[*invFactorization]
}

// factorize runs the pipeline once: Cholesky first for operators marked
// symmetric (unknown positive-definiteness is worth the attempt), LU with
// partial pivoting otherwise or on Cholesky failure.
func (s *invState) factorize() (*invFactorization, error) {
	return s.fact.get(func() (*invFactorization, error) {
		if s.src.IsSymmetric() && s.src.props[PositiveDefinite] != TriFalse {
			if l, err := s.src.Cholesky(true); err == nil {
				return &invFactorization{chol: l}, nil
			}
		}
		d, err := s.src.denseTransient()
		if err != nil {
			return nil, err
		}
		f, err := luFactor(d.Data(), s.src.rows)
		if err != nil {
			return nil, err
		}

		return &invFactorization{lu: f}, nil
	})
}

// solveVec routes one right-hand side through the chosen factorization.
func (s *invState) solveVec(b []float64, trans bool) ([]float64, error) {
	f, err := s.factorize()
	if err != nil {
		return nil, err
	}
	if f.lu != nil {
		return f.lu.solveVec(b, trans), nil
	}

	// A = L·Lᵀ: forward then backward substitution on the factor. The
	// transposed solve is identical by symmetry.
	ld, err := f.chol.toDense()
	if err != nil {
		return nil, err
	}
	n := s.src.rows
	l := ld.Data()
	y := make([]float64, n)
	copy(y, b)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			y[i] -= l[i*n+j] * y[j]
		}
		if l[i*n+i] == 0 {
			return nil, ErrSingular
		}
		y[i] /= l[i*n+i]
	}
	for i := n - 1; i >= 0; i-- {
		for j := i + 1; j < n; j++ {
			y[i] -= l[j*n+i] * y[j]
		}
		y[i] /= l[i*n+i]
	}

	return y, nil
}

// newInverse wraps a square operator as its lazy inverse.
//
// Behavior highlights:
//   - No work at construction; the first product factorizes, later
//     products reuse the factorization, and a singular source keeps
//     failing with ErrSingular.
//   - inv.Inverse() returns the source operator itself.
//   - det/log-abs-det come from the source (reciprocal and negation).
//   - Symmetry and positive-definiteness carry over; so does
//     triangularity, since the inverse of a triangular matrix keeps its
//     shape.
func newInverse(src *Operator) *Operator {
	st := &invState{src: src}

	inv := &Operator{
		rows:    src.rows,
		cols:    src.cols,
		dtype:   nd.Inexact(src.dtype),
		invMemo: src, // inverse of the view is the original
	}
	inv.matmul = BroadcastMatVec(func(v *nd.Array) (*nd.Array, error) {
		y, err := st.solveVec(v.Data(), false)
		if err != nil {
			return nil, err
		}

		return nd.New(inv.dtype, y, len(y))
	})
	inv.cb = callbacks{
		rmatmul: BroadcastRMatVec(func(v *nd.Array) (*nd.Array, error) {
			// v @ A⁻¹ = (A⁻ᵀ @ v)ᵀ, a transposed solve.
			y, err := st.solveVec(v.Data(), true)
			if err != nil {
				return nil, err
			}

			return nd.New(inv.dtype, y, len(y))
		}),
		det: func() (float64, error) {
			d, err := src.Det()
			if err != nil {
				return 0, err
			}
			if d == 0 {
				return 0, ErrSingular
			}

			return 1 / d, nil
		},
		logabsdet: func() (float64, error) {
			l, err := src.LogAbsDet()
			if err != nil {
				return 0, err
			}

			return -l, nil
		},
	}

	inv.props[Symmetric] = src.props[Symmetric]
	inv.props[PositiveDefinite] = src.props[PositiveDefinite]
	inv.props[LowerTriangular] = src.props[LowerTriangular]
	inv.props[UpperTriangular] = src.props[UpperTriangular]

	return inv
}
