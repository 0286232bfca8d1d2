// SPDX-License-Identifier: MIT

// Package linop: Cholesky factorization. The lower factor is computed and
// cached once per operator; the upper orientation is the transpose of the
// cached factor. A successful factorization decides positive-definiteness
// true, a failed one decides it false — both through the registry, so the
// write-once rules apply.
package linop

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linop/nd"
)

// Cholesky returns the Cholesky factor of the operator: lower=true yields L
// with A = L·Lᵀ, lower=false yields U = Lᵀ with A = Uᵀ·U.
//
// Implementation stages:
//  1. Gate: the operator must be square, marked symmetric, and not already
//     known indefinite.
//  2. Factor once (installed callback, else gonum on the dense form) and
//     cache the lower factor — the outcome, including failure, replays on
//     later calls.
//  3. Record the verdict in the registry: success marks positive-definite
//     true; failure marks it false and surfaces ErrNotPositiveDefinite.
//
// The upper orientation is served as the cached factor's transpose, which
// is itself memoized, so repeated mixed-orientation calls allocate nothing.
//
// Errors: ErrNonSquare, ErrNotSymmetric, ErrNotPositiveDefinite.
// Complexity: first call O(n³); later calls O(1).
func (a *Operator) Cholesky(lower bool) (*Operator, error) {
	if a == nil {
		return nil, opErrorf(opCholesky, ErrNilOperator)
	}
	if !a.IsSquare() {
		return nil, opErrorf(opCholesky, ErrNonSquare)
	}
	if a.props[Symmetric] != TriTrue {
		return nil, opErrorf(opCholesky, ErrNotSymmetric)
	}
	if a.props[PositiveDefinite] == TriFalse {
		return nil, opErrorf(opCholesky, ErrNotPositiveDefinite)
	}

	l, err := a.cholC.get(func() (*Operator, error) {
		f, err := a.cholLower()
		if err != nil {
			// The factorization is the verdict: not positive definite.
			_ = a.SetProp(PositiveDefinite, false)

			return nil, ErrNotPositiveDefinite
		}
		_ = a.SetProp(PositiveDefinite, true)

		return f, nil
	})
	if err != nil {
		return nil, opErrorf(opCholesky, err)
	}
	if lower {
		return l, nil
	}
	u, err := l.T()
	if err != nil {
		return nil, opErrorf(opCholesky, err)
	}
	_ = u.SetProp(UpperTriangular, true)

	return u, nil
}

// cholLower computes the lower factor, preferring the installed callback.
func (a *Operator) cholLower() (*Operator, error) {
	if a.cb.cholesky != nil {
		f, err := a.cb.cholesky(true)
		if err != nil {
			return nil, err
		}
		// Callbacks are trusted on values, not on bookkeeping.
		_ = f.SetProp(LowerTriangular, true)

		return f, nil
	}

	d, err := a.denseTransient()
	if err != nil {
		return nil, err
	}
	n := a.rows
	sym := mat.NewSymDense(n, d.Data())
	var ch mat.Cholesky
	if !ch.Factorize(sym) {
		return nil, ErrNotPositiveDefinite
	}
	var tri mat.TriDense
	ch.LTo(&tri)

	out, err := nd.Zeros(nd.Inexact(a.dtype), n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			out.Data()[i*n+j] = tri.At(i, j)
		}
	}
	f, err := NewMatrix(out)
	if err != nil {
		return nil, err
	}
	_ = f.SetProp(LowerTriangular, true)

	return f, nil
}
