// SPDX-License-Identifier: MIT

// Package linop: convenience facades over the Operator surface for callers
// that live in gonum land or just want to solve a system.
package linop

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linop/nd"
)

// Densify materializes an operator as a standalone gonum matrix. The result
// owns its storage; mutating it never touches the operator's caches.
// Complexity: one densification plus O(rows·cols).
func Densify(a *Operator) (*mat.Dense, error) {
	if a == nil {
		return nil, opErrorf(opToDense, ErrNilOperator)
	}
	d, err := a.ToDense()
	if err != nil {
		return nil, err
	}

	return d.Mat2D()
}

// AsOperator wraps a gonum matrix as a dense-backed operator.
func AsOperator(m *mat.Dense, dt nd.DType) (*Operator, error) {
	if m == nil {
		return nil, opErrorf(opMatrix, ErrNilArray)
	}
	a, err := nd.FromDense(dt, m)
	if err != nil {
		return nil, opErrorf(opMatrix, err)
	}

	return NewMatrix(a)
}

// Solve computes A⁻¹ @ b through the lazy inverse, sharing its
// factorization with every later solve against the same operator.
//
// Errors: ErrNonSquare, ErrSingular on an exactly singular operator, plus
// the MatMul error set for operand mismatches.
func Solve(a *Operator, b *nd.Array) (*nd.Array, error) {
	if a == nil {
		return nil, opErrorf(opSolve, ErrNilOperator)
	}
	if b == nil {
		return nil, opErrorf(opSolve, ErrNilArray)
	}
	inv, err := a.Inverse()
	if err != nil {
		return nil, err
	}

	return inv.MatMul(b)
}
