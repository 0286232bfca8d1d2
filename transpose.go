// SPDX-License-Identifier: MIT

// Package linop: the default lazy transposed view. Built only when no
// transpose callback is installed and the operator is not marked symmetric.
package linop

import (
	"fmt"

	"github.com/katalvlaran/linop/nd"
)

// TransposeAxes transposes with an explicit axis pair, numpy style: the
// pair must be a permutation of the two operator axes, negatives counting
// from the end. (1, 0) and (-1, -2) transpose; (0, 1) and (-2, -1) are the
// identity permutation and return the operator unchanged.
//
// Errors: ErrAxis for out-of-range or repeated axes.
// Complexity: O(1) on top of T.
func (a *Operator) TransposeAxes(i, j int) (*Operator, error) {
	if a == nil {
		return nil, opErrorf(opTransposeAx, ErrNilOperator)
	}
	ni, err := normTransposeAxis(i)
	if err != nil {
		return nil, err
	}
	nj, err := normTransposeAxis(j)
	if err != nil {
		return nil, err
	}
	if ni == nj {
		return nil, opErrorf(opTransposeAx, fmt.Errorf("repeated axis %d: %w", i, ErrAxis))
	}
	if ni == 0 { // (0, 1): identity permutation
		return a, nil
	}

	return a.T()
}

// normTransposeAxis maps an axis of a 2-axis operator onto {0, 1}.
func normTransposeAxis(ax int) (int, error) {
	if ax < -2 || ax > 1 {
		return 0, opErrorf(opTransposeAx, fmt.Errorf("axis %d for 2 axes: %w", ax, ErrAxis))
	}
	if ax < 0 {
		ax += 2
	}

	return ax, nil
}

// newTransposed wraps src as its transpose.
//
// Behavior highlights:
//   - The kernel densifies src lazily (once, via src's own dense cache) and
//     multiplies blocks with gonum; src's rmatmul callback, when present,
//     is preferred and keeps everything matrix-free.
//   - t.T() returns src, so double transposition is pointer-stable.
//   - Derived quantities that transposition preserves (rank, det,
//     log-abs-det, trace, eigenvalues) delegate to src and share its caches.
//   - Registry flags map over: symmetric and positive-definite copy,
//     lower- and upper-triangular swap.
func newTransposed(src *Operator) *Operator {
	t := &Operator{
		rows:  src.cols,
		cols:  src.rows,
		dtype: src.dtype,
		tMemo: src, // T of the view is the original
	}
	t.matmul = transposedKernel(src)
	t.cb = callbacks{
		// (x @ Aᵀ) = (A @ xᵀ)ᵀ; with blocks routed through src's kernel.
		rmatmul: func(x *nd.Array) (*nd.Array, error) {
			xt, err := x.MoveAxis(-1, -2)
			if err != nil {
				return nil, err
			}
			y, err := src.MatMul(xt)
			if err != nil {
				return nil, err
			}

			return y.MoveAxis(-1, -2)
		},
		todense: func() (*nd.Array, error) {
			d, err := src.toDense()
			if err != nil {
				return nil, err
			}

			return d.MoveAxis(0, 1)
		},
		rank:      src.Rank,
		det:       src.Det,
		logabsdet: src.LogAbsDet,
		trace:     src.Trace,
		eigenvalues: func() ([]complex128, error) {
			return src.Eigenvalues()
		},
		cond: func(norm CondNorm) (float64, error) {
			// ‖Aᵀ‖₁ = ‖A‖∞ and vice versa; 2-norm and Frobenius carry over.
			switch norm {
			case Cond1:
				return src.Cond(CondInf)
			case CondInf:
				return src.Cond(Cond1)
			default:
				return src.Cond(norm)
			}
		},
	}

	t.props[Symmetric] = src.props[Symmetric]
	t.props[PositiveDefinite] = src.props[PositiveDefinite]
	t.props[LowerTriangular] = src.props[UpperTriangular]
	t.props[UpperTriangular] = src.props[LowerTriangular]

	return t
}

// transposedKernel computes Aᵀ @ x: matrix-free through src's rmatmul
// callback when one is installed, blockwise from src's dense form otherwise.
func transposedKernel(src *Operator) MatMulFunc {
	if src.cb.rmatmul != nil {
		return func(x *nd.Array) (*nd.Array, error) {
			// Aᵀ @ x = (xᵀ @ A)ᵀ
			xt, err := x.MoveAxis(-1, -2)
			if err != nil {
				return nil, err
			}
			y, err := src.cb.rmatmul(xt)
			if err != nil {
				return nil, err
			}

			return y.MoveAxis(-1, -2)
		}
	}

	return BroadcastMatMat(func(b *nd.Array) (*nd.Array, error) {
		d, err := src.denseMat()
		if err != nil {
			return nil, err
		}
		bm, err := b.Mat2D()
		if err != nil {
			return nil, err
		}
		_, k := bm.Dims()
		out, err := nd.Zeros(src.dtype, src.cols, k)
		if err != nil {
			return nil, err
		}
		om, err := out.Mat2D()
		if err != nil {
			return nil, err
		}
		om.Mul(d.T(), bm)

		return out, nil
	})
}
