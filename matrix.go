// SPDX-License-Identifier: MIT

// Package linop: operators backed by an explicit dense 2-D array. Products
// run through gonum on shared-storage views; nothing here is lazy except
// the derived quantities inherited from the generic machinery.
package linop

import (
	"github.com/katalvlaran/linop/nd"
)

// NewMatrix wraps a 2-D array as an operator.
//
// Behavior highlights:
//   - The array is cloned: later mutation of the caller's buffer never
//     changes the operator (operators are immutable values).
//   - Integer-kind arrays are accepted; the operator kind is lifted to the
//     inexact counterpart and the entries re-tagged, so downstream algebra
//     stays in floating point.
//   - Products and densification are direct; transposition re-wraps the
//     transposed array; trace sums the diagonal without any probing; the
//     remaining derived quantities use the dense fallbacks.
//
// Errors: ErrNilArray, ErrBadShape for rank != 2.
// Complexity: O(rows·cols) for the defensive copy.
func NewMatrix(a *nd.Array) (*Operator, error) {
	if a == nil {
		return nil, opErrorf(opMatrix, ErrNilArray)
	}
	if a.NDim() != 2 {
		return nil, opErrorf(opMatrix, ErrBadShape)
	}
	s := a.Shape()
	rows, cols := s[0], s[1]

	store := a.Clone()
	if !store.DType().IsInexact() {
		var err error
		store, err = store.AsType(nd.Inexact(store.DType()), nd.CastUnsafe)
		if err != nil {
			return nil, opErrorf(opMatrix, err)
		}
	}

	op, err := New(rows, cols, store.DType(), denseProductKernel(store),
		WithRMatMul(denseRightProductKernel(store)),
		WithToDense(func() (*nd.Array, error) { return store, nil }),
		WithTranspose(func() (*Operator, error) {
			ts, err := store.MoveAxis(0, 1)
			if err != nil {
				return nil, err
			}

			return NewMatrix(ts)
		}),
		WithAsType(func(dt nd.DType) (*Operator, error) {
			cast, err := store.AsType(dt, nd.CastUnsafe)
			if err != nil {
				return nil, err
			}

			return NewMatrix(cast)
		}),
		WithTrace(func() (float64, error) {
			if rows != cols {
				return 0, ErrNonSquare
			}
			s := 0.0
			for i := 0; i < rows; i++ {
				s += store.Data()[i*cols+i]
			}

			return s, nil
		}),
	)
	if err != nil {
		return nil, err
	}
	op.ident = matrixIdent{store: store}

	return op, nil
}

// denseProductKernel computes store @ b blockwise with gonum.
func denseProductKernel(store *nd.Array) MatMulFunc {
	return BroadcastMatMat(func(b *nd.Array) (*nd.Array, error) {
		am, err := store.Mat2D()
		if err != nil {
			return nil, err
		}
		bm, err := b.Mat2D()
		if err != nil {
			return nil, err
		}
		r, _ := am.Dims()
		_, k := bm.Dims()
		out, err := nd.Zeros(store.DType(), r, k)
		if err != nil {
			return nil, err
		}
		om, err := out.Mat2D()
		if err != nil {
			return nil, err
		}
		om.Mul(am, bm)

		return out, nil
	})
}

// denseRightProductKernel computes b @ store blockwise with gonum.
func denseRightProductKernel(store *nd.Array) MatMulFunc {
	return BroadcastRMatMat(func(b *nd.Array) (*nd.Array, error) {
		am, err := store.Mat2D()
		if err != nil {
			return nil, err
		}
		bm, err := b.Mat2D()
		if err != nil {
			return nil, err
		}
		k, _ := bm.Dims()
		_, c := am.Dims()
		out, err := nd.Zeros(store.DType(), k, c)
		if err != nil {
			return nil, err
		}
		om, err := out.Mat2D()
		if err != nil {
			return nil, err
		}
		om.Mul(bm, am)

		return out, nil
	})
}
