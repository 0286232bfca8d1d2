// SPDX-License-Identifier: MIT

// Package linop: lazy arithmetic transforms — negation and symmetrization.
// Both stay matrix-free, composing the source operator's products.
package linop

import "github.com/katalvlaran/linop/nd"

// negate flips the sign of every element in place, returning the array.
func negate(y *nd.Array) *nd.Array {
	for i, v := range y.Data() {
		y.Data()[i] = -v
	}

	return y
}

// Neg returns -A as a lazy view.
//
// Behavior highlights:
//   - Products compute through the source kernel and flip signs.
//   - det(-A) = (-1)ⁿ·det(A); trace and log-abs-det follow similarly.
//   - Symmetry and triangularity survive negation; positive-definiteness
//     flips to a decided false when the source had it true.
func (a *Operator) Neg() (*Operator, error) {
	if a == nil {
		return nil, opErrorf(opNeg, ErrNilOperator)
	}

	n := &Operator{rows: a.rows, cols: a.cols, dtype: a.dtype}
	n.matmul = func(x *nd.Array) (*nd.Array, error) {
		y, err := a.matmul(x)
		if err != nil {
			return nil, err
		}

		return negate(y.Clone()), nil
	}
	n.cb = callbacks{
		todense: func() (*nd.Array, error) {
			d, err := a.toDense()
			if err != nil {
				return nil, err
			}

			return negate(d.Clone()), nil
		},
		transpose: func() (*Operator, error) {
			t, err := a.T()
			if err != nil {
				return nil, err
			}

			return t.Neg()
		},
		det: func() (float64, error) {
			d, err := a.Det()
			if err != nil {
				return 0, err
			}
			if a.rows%2 == 1 {
				return -d, nil
			}

			return d, nil
		},
		logabsdet: a.LogAbsDet,
		trace: func() (float64, error) {
			t, err := a.Trace()
			if err != nil {
				return 0, err
			}

			return -t, nil
		},
		rank: a.Rank,
	}

	n.props[Symmetric] = a.props[Symmetric]
	n.props[LowerTriangular] = a.props[LowerTriangular]
	n.props[UpperTriangular] = a.props[UpperTriangular]
	if a.props[PositiveDefinite] == TriTrue {
		n.props[PositiveDefinite] = TriFalse // -A is negative definite
	}

	return n, nil
}

// Symmetrize returns (A + Aᵀ)/2 as a lazy view, already marked symmetric.
//
// Behavior highlights:
//   - Products compute A@x and Aᵀ@x through the source and average them;
//     nothing densifies unless the source's transpose has to.
//   - trace((A+Aᵀ)/2) = trace(A), so the trace delegates.
//
// Errors: ErrNonSquare for rectangular operators.
func (a *Operator) Symmetrize() (*Operator, error) {
	if a == nil {
		return nil, opErrorf(opSymmetrize, ErrNilOperator)
	}
	if !a.IsSquare() {
		return nil, opErrorf(opSymmetrize, ErrNonSquare)
	}
	if a.IsSymmetric() {
		return a, nil
	}

	s := &Operator{rows: a.rows, cols: a.cols, dtype: nd.Inexact(a.dtype)}
	s.matmul = func(x *nd.Array) (*nd.Array, error) {
		y1, err := a.matmul(x)
		if err != nil {
			return nil, err
		}
		t, err := a.T()
		if err != nil {
			return nil, err
		}
		y2, err := t.MatMul(x)
		if err != nil {
			return nil, err
		}
		out := y1.Clone()
		for i := range out.Data() {
			out.Data()[i] = 0.5 * (out.Data()[i] + y2.Data()[i])
		}

		return out, nil
	}
	s.cb = callbacks{
		todense: func() (*nd.Array, error) {
			d, err := a.toDense()
			if err != nil {
				return nil, err
			}
			n := a.rows
			out := d.Clone()
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					out.Data()[i*n+j] = 0.5 * (d.Data()[i*n+j] + d.Data()[j*n+i])
				}
			}

			return out, nil
		},
		trace: a.Trace,
	}
	s.props[Symmetric] = TriTrue // holds by construction

	return s, nil
}
