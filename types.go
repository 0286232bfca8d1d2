// SPDX-License-Identifier: MIT

// Package linop: shared types — the tri-state property registry vocabulary,
// condition-number norms, and the callback signatures an operator can carry.
package linop

import "github.com/katalvlaran/linop/nd"

// Tristate is the value domain of the matrix-property registry: a flag is
// unknown until someone decides it, and decided flags are final.
type Tristate uint8

const (
	// TriUnknown means the property has not been decided.
	TriUnknown Tristate = iota
	// TriTrue means the property is known to hold.
	TriTrue
	// TriFalse means the property is known not to hold.
	TriFalse
)

// String implements fmt.Stringer for diagnostics.
func (t Tristate) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "unknown"
	}
}

// Known reports whether the flag has been decided either way.
func (t Tristate) Known() bool { return t != TriUnknown }

// Property names the flags tracked by the registry.
type Property uint8

const (
	// Symmetric: A == Aᵀ. Only square operators may be marked true.
	Symmetric Property = iota
	// LowerTriangular: all entries strictly above the diagonal are zero.
	LowerTriangular
	// UpperTriangular: all entries strictly below the diagonal are zero.
	UpperTriangular
	// PositiveDefinite: symmetric with strictly positive eigenvalues.
	// Marking it true requires the symmetric flag to already be true.
	PositiveDefinite

	numProperties = 4
)

// String implements fmt.Stringer for diagnostics.
func (p Property) String() string {
	switch p {
	case Symmetric:
		return "symmetric"
	case LowerTriangular:
		return "lower_triangular"
	case UpperTriangular:
		return "upper_triangular"
	case PositiveDefinite:
		return "positive_definite"
	default:
		return "invalid"
	}
}

// valid reports whether p names a registry slot.
func (p Property) valid() bool { return p < numProperties }

// CondNorm selects the matrix norm for condition-number queries. Each norm
// gets its own cache slot; asking twice for the same norm computes once.
type CondNorm uint8

const (
	// CondDefault is the 2-norm condition number (ratio of extreme
	// singular values).
	CondDefault CondNorm = iota
	// Cond1 uses the maximum-absolute-column-sum norm.
	Cond1
	// Cond2 is an explicit alias for the 2-norm.
	Cond2
	// CondInf uses the maximum-absolute-row-sum norm.
	CondInf
	// CondFro uses the Frobenius norm, computed as ‖A‖_F · ‖A⁻¹‖_F.
	CondFro

	numCondNorms = 5
)

// valid reports whether n names a supported norm.
func (n CondNorm) valid() bool { return n < numCondNorms }

// ---------- Capability callback signatures ----------
//
// Every callback receives/produces *nd.Array values. A callback is trusted
// on shapes: the operator validates operands BEFORE dispatch and validates
// nothing after, so a misbehaving callback surfaces at the caller.

// MatMulFunc computes A @ x for a stacked operand x of shape (..., cols, k),
// returning a stack of shape (..., rows, k). This is the one mandatory
// capability.
type MatMulFunc func(x *nd.Array) (*nd.Array, error)

// ApplyFunc applies A along a chosen axis of an arbitrary-rank operand. The
// axis is already normalized to a non-negative position.
type ApplyFunc func(x *nd.Array, axis int) (*nd.Array, error)

// DenseFunc produces the dense 2-D materialization of the operator.
type DenseFunc func() (*nd.Array, error)

// TransposeFunc produces the transposed operator.
type TransposeFunc func() (*Operator, error)

// InverseFunc produces the inverse operator.
type InverseFunc func() (*Operator, error)

// CholeskyFunc produces the Cholesky factor with the requested orientation
// (lower=true for L with A = L·Lᵀ, lower=false for U with A = Uᵀ·U).
type CholeskyFunc func(lower bool) (*Operator, error)

// AsTypeFunc produces an operator representing the same map with a new
// element kind. The cast has already been vetted against the rule.
type AsTypeFunc func(dt nd.DType) (*Operator, error)

// RankFunc computes the numerical rank.
type RankFunc func() (int, error)

// EigenvaluesFunc computes the full eigenvalue multiset.
type EigenvaluesFunc func() ([]complex128, error)

// CondFunc computes the condition number under the given norm.
type CondFunc func(norm CondNorm) (float64, error)

// ScalarFunc computes a scalar derived quantity (det, log-abs-det, trace).
type ScalarFunc func() (float64, error)
