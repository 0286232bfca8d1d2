// SPDX-License-Identifier: MIT

// Package linop: the Operator type — construction, products, application,
// densification and the lazy transpose/inverse entry points. Derived
// quantities live in derived.go; factorizations in cholesky.go/inverse.go.
package linop

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linop/nd"
)

// cell memoizes a derived quantity: the first call computes, every later
// call replays the stored value or the stored error. One cell per quantity
// keeps the "computed at most once" contract trivially auditable.
type cell[T any] struct {
	done bool
	val  T
	err  error
}

// get runs compute on first use and replays afterwards.
func (c *cell[T]) get(compute func() (T, error)) (T, error) {
	if !c.done {
		c.val, c.err = compute()
		c.done = true
	}

	return c.val, c.err
}

// Operator is a lazily-evaluated linear map of shape (rows, cols). The
// mandatory matmul kernel defines its action; optional callbacks short-cut
// transforms and derived quantities that would otherwise be computed from a
// densified copy. Operators are immutable except for the write-once property
// registry and the internal memo cells, and are NOT safe for concurrent use.
type Operator struct {
	rows, cols int
	dtype      nd.DType
	matmul     MatMulFunc
	cb         callbacks

	props [numProperties]Tristate

	// castSource is non-nil on type-cast views; casting a cast re-wraps
	// the original so chains never stack.
	castSource *Operator

	// ident records the explicit construction data of the structured
	// variants (identity, matrix, sparse, selection, embedding). Composite
	// operators leave it nil; Equal compares equal idents only.
	ident ident

	tMemo   *Operator // memoized transpose
	invMemo *Operator // memoized inverse

	denseC cell[*nd.Array]
	rankC  cell[int]
	eigC   cell[[]complex128]
	detC   cell[float64]
	ladC   cell[float64]
	trC    cell[float64]
	cholC  cell[*Operator] // lower Cholesky factor
	condC  [numCondNorms]cell[float64]
}

// New constructs an operator from its shape, element kind and the mandatory
// matmul kernel.
//
// Implementation stages:
//  1. Validate: rows/cols positive, kind inexact, kernel non-nil.
//  2. Gather options into the callback set.
//  3. Pre-decide registry flags that follow from the shape alone: a
//     rectangular operator can never be symmetric or positive definite.
//
// The kernel contract: it receives a stacked operand of shape
// (..., cols, k) and must return a stack of shape (..., rows, k). New never
// invokes the kernel; every evaluation is deferred.
//
// Returns ErrBadShape, ErrUnsupportedDType or ErrNilFunc on invalid input.
// Complexity: O(len(opts)).
func New(rows, cols int, dt nd.DType, matmul MatMulFunc, opts ...Option) (*Operator, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, opErrorf(opNew, err)
	}
	if err := checkKind(dt); err != nil {
		return nil, opErrorf(opNew, err)
	}
	if matmul == nil {
		return nil, opErrorf(opNew, ErrNilFunc)
	}

	a := &Operator{rows: rows, cols: cols, dtype: dt, matmul: matmul, cb: gatherOptions(opts)}
	if rows != cols {
		a.props[Symmetric] = TriFalse
		a.props[PositiveDefinite] = TriFalse
	}

	return a, nil
}

// Rows returns the output dimension. Complexity: O(1).
func (a *Operator) Rows() int { return a.rows }

// Cols returns the input dimension. Complexity: O(1).
func (a *Operator) Cols() int { return a.cols }

// Shape returns (rows, cols). Complexity: O(1).
func (a *Operator) Shape() (int, int) { return a.rows, a.cols }

// Size returns rows*cols, the element count of the dense form. Complexity: O(1).
func (a *Operator) Size() int { return a.rows * a.cols }

// DType returns the operator's element kind. Complexity: O(1).
func (a *Operator) DType() nd.DType { return a.dtype }

// IsSquare reports rows == cols. Complexity: O(1).
func (a *Operator) IsSquare() bool { return a.rows == a.cols }

// String renders the shape and kind for diagnostics.
func (a *Operator) String() string {
	if a == nil {
		return "Operator(nil)"
	}

	return fmt.Sprintf("Operator(%dx%d, %s)", a.rows, a.cols, a.dtype)
}

// promote retags (and, for narrower kinds, re-quantizes) a kernel result to
// the promotion of the operator kind and the operand kind.
func promote(y *nd.Array, a, b nd.DType) (*nd.Array, error) {
	dt := nd.Promote(a, b)
	if y.DType() == dt {
		return y, nil
	}

	return y.AsType(dt, nd.CastUnsafe)
}

// MatMul computes A @ x.
//
// Behavior highlights:
//   - 1-D operand of length cols: treated as a column, result has shape (rows,).
//   - Operand of rank >= 2: a stack of matrices (..., cols, k), contracted
//     blockwise to (..., rows, k).
//   - The result kind is the promotion of the operator and operand kinds.
//
// Errors: ErrNilOperator/ErrNilArray on nil inputs, ErrOperandRank on a
// 0-dimensional operand, ErrDimensionMismatch when the contracted dimension
// differs from cols.
// Determinism: delegates to the kernel; the wrapper adds no iteration.
// Complexity: kernel cost plus O(result size) for kind promotion.
func (a *Operator) MatMul(x *nd.Array) (*nd.Array, error) {
	if a == nil {
		return nil, opErrorf(opMatMul, ErrNilOperator)
	}
	if x == nil {
		return nil, opErrorf(opMatMul, ErrNilArray)
	}

	switch {
	case x.NDim() == 0:
		return nil, opErrorf(opMatMul, ErrOperandRank)

	case x.NDim() == 1:
		if x.Size() != a.cols {
			return nil, opErrorf(opMatMul, fmt.Errorf("operand length %d, operator cols %d: %w", x.Size(), a.cols, ErrDimensionMismatch))
		}
		xe, err := x.ExpandDims(-1) // (cols,) -> (cols, 1)
		if err != nil {
			return nil, opErrorf(opMatMul, err)
		}
		y, err := a.matmul(xe)
		if err != nil {
			return nil, opErrorf(opMatMul, err)
		}
		y, err = y.Squeeze(-1) // (rows, 1) -> (rows,)
		if err != nil {
			return nil, opErrorf(opMatMul, err)
		}
		y, err = promote(y, a.dtype, x.DType())
		if err != nil {
			return nil, opErrorf(opMatMul, err)
		}

		return y, nil

	default:
		d, err := x.Dim(-2)
		if err != nil {
			return nil, opErrorf(opMatMul, err)
		}
		if d != a.cols {
			return nil, opErrorf(opMatMul, fmt.Errorf("operand dim -2 is %d, operator cols %d: %w", d, a.cols, ErrDimensionMismatch))
		}
		y, err := a.matmul(x)
		if err != nil {
			return nil, opErrorf(opMatMul, err)
		}
		y, err = promote(y, a.dtype, x.DType())
		if err != nil {
			return nil, opErrorf(opMatMul, err)
		}

		return y, nil
	}
}

// RMatMul computes x @ A.
//
// Behavior highlights:
//   - 1-D operand of length rows: treated as a row, result has shape (cols,).
//   - Operand of rank >= 2: a stack (..., k, rows) contracted to (..., k, cols).
//   - With an installed rmatmul callback the product is direct; otherwise it
//     is computed as (Aᵀ @ xᵀ)ᵀ through the lazy transpose.
//
// Errors mirror MatMul with the contracted dimension checked against rows.
func (a *Operator) RMatMul(x *nd.Array) (*nd.Array, error) {
	if a == nil {
		return nil, opErrorf(opRMatMul, ErrNilOperator)
	}
	if x == nil {
		return nil, opErrorf(opRMatMul, ErrNilArray)
	}

	switch {
	case x.NDim() == 0:
		return nil, opErrorf(opRMatMul, ErrOperandRank)

	case x.NDim() == 1:
		if x.Size() != a.rows {
			return nil, opErrorf(opRMatMul, fmt.Errorf("operand length %d, operator rows %d: %w", x.Size(), a.rows, ErrDimensionMismatch))
		}
		// xᵀA = (Aᵀx)ᵀ; for vectors the transpositions are identities.
		if a.cb.rmatmul != nil {
			xe, err := x.ExpandDims(0) // (rows,) -> (1, rows)
			if err != nil {
				return nil, opErrorf(opRMatMul, err)
			}
			y, err := a.cb.rmatmul(xe)
			if err != nil {
				return nil, opErrorf(opRMatMul, err)
			}
			y, err = y.Squeeze(0)
			if err != nil {
				return nil, opErrorf(opRMatMul, err)
			}
			y, err = promote(y, a.dtype, x.DType())
			if err != nil {
				return nil, opErrorf(opRMatMul, err)
			}

			return y, nil
		}
		t, err := a.T()
		if err != nil {
			return nil, opErrorf(opRMatMul, err)
		}

		return t.MatMul(x)

	default:
		d, err := x.Dim(-1)
		if err != nil {
			return nil, opErrorf(opRMatMul, err)
		}
		if d != a.rows {
			return nil, opErrorf(opRMatMul, fmt.Errorf("operand dim -1 is %d, operator rows %d: %w", d, a.rows, ErrDimensionMismatch))
		}
		if a.cb.rmatmul != nil {
			y, err := a.cb.rmatmul(x)
			if err != nil {
				return nil, opErrorf(opRMatMul, err)
			}
			y, err = promote(y, a.dtype, x.DType())
			if err != nil {
				return nil, opErrorf(opRMatMul, err)
			}

			return y, nil
		}

		// (x @ A) = (Aᵀ @ xᵀ)ᵀ, transposing the two trailing axes of x.
		xt, err := x.MoveAxis(-1, -2)
		if err != nil {
			return nil, opErrorf(opRMatMul, err)
		}
		t, err := a.T()
		if err != nil {
			return nil, opErrorf(opRMatMul, err)
		}
		y, err := t.MatMul(xt)
		if err != nil {
			return nil, err
		}
		y, err = y.MoveAxis(-1, -2)
		if err != nil {
			return nil, opErrorf(opRMatMul, err)
		}

		return y, nil
	}
}

// Apply contracts the operator against one chosen axis of an arbitrary-rank
// operand: output shape equals the input shape with size cols replaced by
// rows on that axis.
//
// Implementation stages:
//  1. Validate operand and normalize the axis (negative axes count from
//     the end).
//  2. Check the contracted dimension against cols.
//  3. Dispatch: an installed apply callback handles any axis directly;
//     otherwise the axis is routed to position -2 (expanding a trailing
//     axis for the last-axis case) and the matmul kernel runs.
//
// Errors: ErrAxis, ErrDimensionMismatch, plus the MatMul error set.
// Complexity: kernel cost; off-path axes add two O(size·ndim) permutations.
func (a *Operator) Apply(x *nd.Array, axis int) (*nd.Array, error) {
	if a == nil {
		return nil, opErrorf(opApply, ErrNilOperator)
	}
	if x == nil {
		return nil, opErrorf(opApply, ErrNilArray)
	}
	n := x.NDim()
	if n == 0 {
		return nil, opErrorf(opApply, ErrOperandRank)
	}
	if axis < -n || axis >= n {
		return nil, opErrorf(opApply, fmt.Errorf("axis %d for rank %d: %w", axis, n, ErrAxis))
	}
	if axis < 0 {
		axis += n
	}
	d, err := x.Dim(axis)
	if err != nil {
		return nil, opErrorf(opApply, err)
	}
	if d != a.cols {
		return nil, opErrorf(opApply, fmt.Errorf("axis %d has size %d, operator cols %d: %w", axis, d, a.cols, ErrDimensionMismatch))
	}

	if a.cb.apply != nil {
		y, err := a.cb.apply(x, axis)
		if err != nil {
			return nil, opErrorf(opApply, err)
		}
		y, err = promote(y, a.dtype, x.DType())
		if err != nil {
			return nil, opErrorf(opApply, err)
		}

		return y, nil
	}

	switch {
	case n == 1:
		return a.MatMul(x)

	case axis == n-2:
		return a.MatMul(x)

	case axis == n-1:
		xe, err := x.ExpandDims(-1) // (..., cols) -> (..., cols, 1)
		if err != nil {
			return nil, opErrorf(opApply, err)
		}
		y, err := a.MatMul(xe)
		if err != nil {
			return nil, err
		}
		y, err = y.Squeeze(-1)
		if err != nil {
			return nil, opErrorf(opApply, err)
		}

		return y, nil

	default:
		xm, err := x.MoveAxis(axis, n-2)
		if err != nil {
			return nil, opErrorf(opApply, err)
		}
		y, err := a.MatMul(xm)
		if err != nil {
			return nil, err
		}
		y, err = y.MoveAxis(n-2, axis)
		if err != nil {
			return nil, opErrorf(opApply, err)
		}

		return y, nil
	}
}

// computeDense materializes the dense form, caching nothing.
func (a *Operator) computeDense() (*nd.Array, error) {
	if a.cb.todense != nil {
		d, err := a.cb.todense()
		if err != nil {
			return nil, err
		}
		if d.NDim() != 2 {
			return nil, ErrBadShape
		}

		return promote(d, a.dtype, d.DType())
	}

	// A @ I column by column, through the kernel.
	eye, err := nd.Eye(a.dtype, a.cols)
	if err != nil {
		return nil, err
	}

	return a.matmul(eye)
}

// toDense returns the cached dense materialization (shared, do not mutate).
func (a *Operator) toDense() (*nd.Array, error) {
	return a.denseC.get(a.computeDense)
}

// denseTransient returns the dense form for a one-off internal use: an
// already populated cache is reused, but a cold cache is NOT filled, so a
// single derived-quantity fallback does not pin rows·cols floats for the
// operator's lifetime.
func (a *Operator) denseTransient() (*nd.Array, error) {
	if a.denseC.done {
		return a.denseC.val, a.denseC.err
	}

	return a.computeDense()
}

// transientMat is denseTransient viewed as a gonum matrix.
func (a *Operator) transientMat() (*mat.Dense, error) {
	d, err := a.denseTransient()
	if err != nil {
		return nil, err
	}

	return d.Mat2D()
}

// ToDense materializes the operator as a (rows, cols) array. The expensive
// part runs once; every call returns a fresh copy so callers may mutate
// freely.
// Complexity: first call O(rows·cols²) via the kernel (or the callback's
// cost); later calls O(rows·cols) for the copy.
func (a *Operator) ToDense() (*nd.Array, error) {
	if a == nil {
		return nil, opErrorf(opToDense, ErrNilOperator)
	}
	d, err := a.toDense()
	if err != nil {
		return nil, opErrorf(opToDense, err)
	}

	return d.Clone(), nil
}

// denseMat returns the cached dense form as a shared gonum matrix.
func (a *Operator) denseMat() (*mat.Dense, error) {
	d, err := a.toDense()
	if err != nil {
		return nil, err
	}

	return d.Mat2D()
}

// T returns the transposed operator.
//
// Behavior highlights:
//   - Operators marked symmetric return themselves.
//   - With an installed transpose callback, it runs once and the result is
//     memoized; otherwise a lazy transposed view is built (see transpose.go).
//   - The memo makes T stable: repeated calls return the identical value,
//     and t.T() on a default view returns the original operator.
func (a *Operator) T() (*Operator, error) {
	if a == nil {
		return nil, opErrorf(opTranspose, ErrNilOperator)
	}
	if a.props[Symmetric] == TriTrue {
		return a, nil
	}
	if a.tMemo == nil {
		if a.cb.transpose != nil {
			t, err := a.cb.transpose()
			if err != nil {
				return nil, opErrorf(opTranspose, err)
			}
			a.tMemo = t
		} else {
			a.tMemo = newTransposed(a)
		}
	}

	return a.tMemo, nil
}

// Inverse returns the inverse operator. Construction is cheap and never
// factorizes: the first product or solve through the returned operator
// triggers the Cholesky-then-LU pipeline (see inverse.go).
//
// Errors: ErrNonSquare for rectangular operators. Singularity surfaces
// later, as ErrSingular from the first evaluation.
func (a *Operator) Inverse() (*Operator, error) {
	if a == nil {
		return nil, opErrorf(opInverse, ErrNilOperator)
	}
	if !a.IsSquare() {
		return nil, opErrorf(opInverse, ErrNonSquare)
	}
	if a.invMemo == nil {
		if a.cb.inverse != nil {
			inv, err := a.cb.inverse()
			if err != nil {
				return nil, opErrorf(opInverse, err)
			}
			a.invMemo = inv
		} else {
			a.invMemo = newInverse(a)
		}
	}

	return a.invMemo, nil
}
