// SPDX-License-Identifier: MIT

// Package linop: the identity operator. Every capability has a closed form,
// so nothing ever densifies unless the caller asks for the dense form.
package linop

import "github.com/katalvlaran/linop/nd"

// NewIdentity returns the n×n identity.
//
// Behavior highlights:
//   - Products return the operand unchanged (up to kind promotion).
//   - T, Inverse and the Cholesky factor return the operator itself,
//     pointer-identical, which makes I⁻¹ solves free.
//   - Derived quantities are exact: rank n, unit eigenvalues, det 1,
//     log-abs-det 0, trace n, condition number 1 under every induced norm
//     and n under Frobenius.
//   - All four registry flags are decided true.
//
// Errors: ErrBadShape for n <= 0, ErrUnsupportedDType for non-inexact kinds.
// Complexity: O(1).
func NewIdentity(n int, dt nd.DType) (*Operator, error) {
	var self *Operator

	op, err := New(n, n, dt,
		func(x *nd.Array) (*nd.Array, error) { return x.Clone(), nil },
		WithRMatMul(func(x *nd.Array) (*nd.Array, error) { return x.Clone(), nil }),
		WithApply(func(x *nd.Array, _ int) (*nd.Array, error) { return x.Clone(), nil }),
		WithToDense(func() (*nd.Array, error) { return nd.Eye(dt, n) }),
		WithTranspose(func() (*Operator, error) { return self, nil }),
		WithInverse(func() (*Operator, error) { return self, nil }),
		WithCholesky(func(bool) (*Operator, error) {
			// L = U = I; orientation is irrelevant.
			return self, nil
		}),
		WithAsType(func(target nd.DType) (*Operator, error) { return NewIdentity(n, target) }),
		WithRank(func() (int, error) { return n, nil }),
		WithEigenvalues(func() ([]complex128, error) {
			vals := make([]complex128, n)
			for i := range vals {
				vals[i] = 1
			}

			return vals, nil
		}),
		WithCond(func(norm CondNorm) (float64, error) {
			if norm == CondFro {
				return float64(n), nil
			}

			return 1, nil
		}),
		WithDet(func() (float64, error) { return 1, nil }),
		WithLogAbsDet(func() (float64, error) { return 0, nil }),
		WithTrace(func() (float64, error) { return float64(n), nil }),
	)
	if err != nil {
		if n <= 0 {
			return nil, opErrorf(opIdentity, ErrBadShape)
		}

		return nil, opErrorf(opIdentity, ErrUnsupportedDType)
	}
	self = op
	op.ident = identityIdent{}

	if err := op.setProps(map[Property]Tristate{
		Symmetric:        TriTrue,
		LowerTriangular:  TriTrue,
		UpperTriangular:  TriTrue,
		PositiveDefinite: TriTrue,
	}); err != nil {
		return nil, opErrorf(opIdentity, err)
	}

	return op, nil
}
