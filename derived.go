// SPDX-License-Identifier: MIT

// Package linop: derived quantities. Each is computed at most once per
// operator value (success or failure), preferring an installed callback and
// falling back to a dense decomposition. The fallbacks densify transiently:
// they reuse an existing dense cache but never populate a cold one, so a
// one-off Rank or Det does not keep the dense form alive.
package linop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linop/nd"
)

// Rank returns the numerical rank.
//
// Fallback: singular values of the dense form, counted above the usual
// tolerance max(σ)·max(rows,cols)·eps. Rectangular operators are fine.
// Errors: ErrEigenFailed when the SVD does not converge.
// Complexity: first call O(min(r,c)·r·c); later calls O(1).
func (a *Operator) Rank() (int, error) {
	if a == nil {
		return 0, opErrorf(opRank, ErrNilOperator)
	}
	r, err := a.rankC.get(func() (int, error) {
		if a.cb.rank != nil {
			return a.cb.rank()
		}
		m, err := a.transientMat()
		if err != nil {
			return 0, err
		}
		var svd mat.SVD
		if !svd.Factorize(m, mat.SVDNone) {
			return 0, ErrEigenFailed
		}
		sigma := svd.Values(nil)
		tol := 0.0
		if len(sigma) > 0 {
			tol = sigma[0] * float64(max(a.rows, a.cols)) * eps(a.dtype)
		}
		rank := 0
		for _, s := range sigma {
			if s > tol {
				rank++
			}
		}

		return rank, nil
	})
	if err != nil {
		return 0, opErrorf(opRank, err)
	}

	return r, nil
}

// eps returns the unit roundoff of the element kind, used for rank cutoffs.
func eps(dt nd.DType) float64 {
	switch dt {
	case nd.Float16:
		return 0x1p-10
	case nd.Float32:
		return 0x1p-23
	default:
		return 0x1p-52
	}
}

// Eigenvalues returns the full eigenvalue multiset (with multiplicity).
//
// Fallback: a dense decomposition — the symmetric routine when the
// symmetric flag is decided true (values come out real and sorted
// ascending), the general routine otherwise. The returned slice is a copy;
// the cached one is never exposed.
// Errors: ErrNonSquare, ErrEigenFailed.
// Complexity: first call O(n³); later calls O(n) for the copy.
func (a *Operator) Eigenvalues() ([]complex128, error) {
	if a == nil {
		return nil, opErrorf(opEigenvalues, ErrNilOperator)
	}
	if !a.IsSquare() {
		return nil, opErrorf(opEigenvalues, ErrNonSquare)
	}
	vals, err := a.eigC.get(func() ([]complex128, error) {
		if a.cb.eigenvalues != nil {
			return a.cb.eigenvalues()
		}
		d, err := a.denseTransient()
		if err != nil {
			return nil, err
		}

		if a.IsSymmetric() {
			sym := mat.NewSymDense(a.rows, d.Data())
			var es mat.EigenSym
			if !es.Factorize(sym, false) {
				return nil, ErrEigenFailed
			}
			re := es.Values(nil)
			out := make([]complex128, len(re))
			for i, v := range re {
				out[i] = complex(v, 0)
			}

			return out, nil
		}

		m, err := d.Mat2D()
		if err != nil {
			return nil, err
		}
		var eg mat.Eigen
		if !eg.Factorize(m, mat.EigenNone) {
			return nil, ErrEigenFailed
		}

		return eg.Values(nil), nil
	})
	if err != nil {
		return nil, opErrorf(opEigenvalues, err)
	}
	out := make([]complex128, len(vals))
	copy(out, vals)

	return out, nil
}

// Cond returns the condition number under the given norm. Each norm owns a
// cache slot, so mixed-norm querying still computes each value once.
//
// Behavior highlights:
//   - CondDefault/Cond2: ratio of extreme singular values; works for
//     rectangular operators.
//   - Cond1/CondInf: induced-norm condition numbers, square only.
//   - CondFro: ‖A‖_F · ‖A⁻¹‖_F, square only; a singular operator fails
//     with ErrSingular.
//
// Complexity: first call per norm O(n³); later calls O(1).
func (a *Operator) Cond(norm CondNorm) (float64, error) {
	if a == nil {
		return 0, opErrorf(opCond, ErrNilOperator)
	}
	if !norm.valid() {
		return 0, opErrorf(opCond, fmt.Errorf("norm %d: %w", norm, ErrUnknownNorm))
	}
	v, err := a.condC[norm].get(func() (float64, error) {
		if a.cb.cond != nil {
			return a.cb.cond(norm)
		}
		m, err := a.transientMat()
		if err != nil {
			return 0, err
		}
		switch norm {
		case CondDefault, Cond2:
			return mat.Cond(m, 2), nil
		case Cond1, CondInf:
			if !a.IsSquare() {
				return 0, ErrNonSquare
			}
			p := 1.0
			if norm == CondInf {
				p = math.Inf(1)
			}

			return mat.Cond(m, p), nil
		default: // CondFro
			if !a.IsSquare() {
				return 0, ErrNonSquare
			}
			var inv mat.Dense
			if err := inv.Inverse(m); err != nil {
				return 0, ErrSingular
			}

			return mat.Norm(m, 2) * mat.Norm(&inv, 2), nil
		}
	})
	if err != nil {
		return 0, opErrorf(opCond, err)
	}

	return v, nil
}

// Det returns the determinant. Errors: ErrNonSquare.
// Complexity: first call O(n³); later calls O(1).
func (a *Operator) Det() (float64, error) {
	if a == nil {
		return 0, opErrorf(opDet, ErrNilOperator)
	}
	if !a.IsSquare() {
		return 0, opErrorf(opDet, ErrNonSquare)
	}
	v, err := a.detC.get(func() (float64, error) {
		if a.cb.det != nil {
			return a.cb.det()
		}
		m, err := a.transientMat()
		if err != nil {
			return 0, err
		}

		return mat.Det(m), nil
	})
	if err != nil {
		return 0, opErrorf(opDet, err)
	}

	return v, nil
}

// LogAbsDet returns log|det(A)|; a singular operator yields -Inf rather
// than an error. Errors: ErrNonSquare.
// Complexity: first call O(n³); later calls O(1).
func (a *Operator) LogAbsDet() (float64, error) {
	if a == nil {
		return 0, opErrorf(opLogAbsDet, ErrNilOperator)
	}
	if !a.IsSquare() {
		return 0, opErrorf(opLogAbsDet, ErrNonSquare)
	}
	v, err := a.ladC.get(func() (float64, error) {
		if a.cb.logabsdet != nil {
			return a.cb.logabsdet()
		}
		m, err := a.transientMat()
		if err != nil {
			return 0, err
		}
		lad, sign := mat.LogDet(m)
		if sign == 0 {
			return math.Inf(-1), nil
		}

		return lad, nil
	})
	if err != nil {
		return 0, opErrorf(opLogAbsDet, err)
	}

	return v, nil
}

// Trace returns the sum of the diagonal.
//
// Fallback: probe with standard basis vectors through the kernel, reading
// coordinate i of A·eᵢ — no densification needed. Errors: ErrNonSquare.
// Complexity: first call n kernel applications; later calls O(1).
func (a *Operator) Trace() (float64, error) {
	if a == nil {
		return 0, opErrorf(opTrace, ErrNilOperator)
	}
	if !a.IsSquare() {
		return 0, opErrorf(opTrace, ErrNonSquare)
	}
	v, err := a.trC.get(func() (float64, error) {
		if a.cb.trace != nil {
			return a.cb.trace()
		}
		sum := 0.0
		e := make([]float64, a.cols)
		for i := 0; i < a.cols; i++ {
			e[i] = 1
			ev, err := nd.New(a.dtype, e, a.cols)
			if err != nil {
				return 0, err
			}
			y, err := a.MatMul(ev)
			if err != nil {
				return 0, err
			}
			d, err := y.At(i)
			if err != nil {
				return 0, err
			}
			sum += d
			e[i] = 0
		}

		return sum, nil
	})
	if err != nil {
		return 0, opErrorf(opTrace, err)
	}

	return v, nil
}
