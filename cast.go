// SPDX-License-Identifier: MIT

// Package linop: element-kind conversion of operators. Structured operators
// re-derive themselves via their astype callback; everything else gets a
// thin cast view. Cast views never stack: casting a cast re-wraps the
// original operator.
package linop

import (
	"fmt"

	"github.com/katalvlaran/linop/nd"
)

// Cast returns an operator representing the same linear map with element
// kind dt.
//
// Implementation stages:
//  1. Validate: dt must be a supported inexact kind, and the move from the
//     current kind must be permitted by rule (ErrUnsafeCast otherwise).
//  2. Short-circuit: same kind returns the receiver as-is unless copy
//     demands a distinct value.
//  3. Dispatch: the astype callback (structured operators) or a generic
//     cast view; either way decided registry flags carry over, and for
//     views the chain collapses onto the original operator.
//
// Errors: ErrUnsupportedDType, ErrUnsafeCast.
// Complexity: O(1); evaluation stays lazy.
func (a *Operator) Cast(dt nd.DType, rule nd.CastRule, copy bool) (*Operator, error) {
	if a == nil {
		return nil, opErrorf(opCast, ErrNilOperator)
	}
	if !dt.Valid() || !dt.IsInexact() {
		return nil, opErrorf(opCast, ErrUnsupportedDType)
	}
	if !nd.CanCast(a.dtype, dt, rule) {
		return nil, opErrorf(opCast, fmt.Errorf("%s to %s: %w", a.dtype, dt, ErrUnsafeCast))
	}
	if dt == a.dtype && !copy {
		return a, nil
	}

	if a.cb.astype != nil {
		out, err := a.cb.astype(dt)
		if err != nil {
			return nil, opErrorf(opCast, err)
		}
		out.copyDecidedProps(a)

		return out, nil
	}

	src := a
	if a.castSource != nil {
		src = a.castSource // collapse cast-of-cast
	}

	return newTypeCast(src, dt), nil
}

// newTypeCast wraps src with a new element kind. Products run src's kernel
// and re-tag; every derived quantity delegates to src — sharing its caches
// and closed forms — and quantizes the result to the view kind, so a cast
// view never recomputes what the wrapped operator already knows.
func newTypeCast(src *Operator, dt nd.DType) *Operator {
	v := &Operator{
		rows:       src.rows,
		cols:       src.cols,
		dtype:      dt,
		castSource: src,
	}
	v.matmul = func(x *nd.Array) (*nd.Array, error) {
		y, err := src.matmul(x)
		if err != nil {
			return nil, err
		}

		return promote(y, dt, x.DType())
	}
	v.cb = callbacks{
		// the outer MatMul/RMatMul/Apply wrappers re-promote to the view
		// kind, so the product delegates pass src's result through raw
		rmatmul: src.RMatMul,
		apply:   src.Apply,
		todense: func() (*nd.Array, error) {
			d, err := src.toDense()
			if err != nil {
				return nil, err
			}

			return d.AsType(dt, nd.CastUnsafe)
		},
		transpose: func() (*Operator, error) {
			t, err := src.T()
			if err != nil {
				return nil, err
			}

			return t.Cast(dt, nd.CastUnsafe, false)
		},
		inverse: func() (*Operator, error) {
			inv, err := src.Inverse()
			if err != nil {
				return nil, err
			}

			return inv.Cast(dt, nd.CastUnsafe, false)
		},
		rank: src.Rank,
		eigenvalues: func() ([]complex128, error) {
			vals, err := src.Eigenvalues()
			if err != nil {
				return nil, err
			}
			out := make([]complex128, len(vals))
			for i, ev := range vals {
				out[i] = complex(nd.Quantize(real(ev), dt), nd.Quantize(imag(ev), dt))
			}

			return out, nil
		},
		cond: func(norm CondNorm) (float64, error) {
			c, err := src.Cond(norm)
			if err != nil {
				return 0, err
			}

			return nd.Quantize(c, dt), nil
		},
		det:       castScalar(src.Det, dt),
		logabsdet: castScalar(src.LogAbsDet, dt),
		trace:     castScalar(src.Trace, dt),
	}
	v.copyDecidedProps(src)

	return v
}

// castScalar lifts a scalar provider onto the view kind's value grid.
func castScalar(f ScalarFunc, dt nd.DType) ScalarFunc {
	return func() (float64, error) {
		s, err := f()
		if err != nil {
			return 0, err
		}

		return nd.Quantize(s, dt), nil
	}
}
