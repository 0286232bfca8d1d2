// SPDX-License-Identifier: MIT
// Package linop: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the linop
// package. All operations MUST return these sentinels and tests MUST check
// them via errors.Is. No operation panics on user-triggered error conditions;
// panics are reserved for programmer errors (nil callbacks in options).

package linop

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "linop: ..." for consistency and easy
// grepping. DO NOT %w wrap these sentinels when returning directly; when
// context is essential, wrap with opErrorf(tag, ErrX) at the outer boundary —
// callers still match with errors.Is.

var (
	// ErrBadShape is returned when a requested operator shape is invalid
	// (rows<=0 or cols<=0), or an operand's trailing dimensions cannot form
	// a valid product.
	ErrBadShape = errors.New("linop: invalid shape")

	// ErrNonSquare signals that a square operator was required (inverse,
	// determinant, trace, eigenvalues, symmetry flags) but the operator
	// is rectangular.
	ErrNonSquare = errors.New("linop: operator is not square")

	// ErrDimensionMismatch indicates incompatible dimensions between the
	// operator and an operand, e.g. MatMul where x's second-to-last
	// dimension differs from the operator's column count.
	ErrDimensionMismatch = errors.New("linop: dimension mismatch")

	// ErrAxis indicates an application axis outside the operand's rank.
	ErrAxis = errors.New("linop: axis out of range")

	// ErrOperandRank indicates an operand whose rank is unusable for the
	// requested product (e.g. a 0-dimensional MatMul operand).
	ErrOperandRank = errors.New("linop: unusable operand rank")

	// ErrUnsupportedDType indicates an element kind outside the supported
	// set, or an integer kind where an inexact kind is mandatory.
	ErrUnsupportedDType = errors.New("linop: unsupported dtype")

	// ErrUnsafeCast indicates a type conversion rejected by the requested
	// casting rule.
	ErrUnsafeCast = errors.New("linop: cast not permitted by rule")

	// ErrUnknownProperty indicates a property name outside the registry.
	ErrUnknownProperty = errors.New("linop: unknown matrix property")

	// ErrPropertyConflict indicates an attempt to overwrite an already
	// decided property with the opposite value. Decided flags are final.
	ErrPropertyConflict = errors.New("linop: property already set to a different value")

	// ErrNotSymmetric signals an operation that requires the symmetric flag
	// (Cholesky, positive-definite marking) on an operator not marked so.
	ErrNotSymmetric = errors.New("linop: operator is not marked symmetric")

	// ErrNotPositiveDefinite signals a Cholesky request on an operator
	// already known to not be positive definite.
	ErrNotPositiveDefinite = errors.New("linop: operator is not positive definite")

	// ErrSingular is returned when inversion meets an exactly zero pivot,
	// or when a Cholesky factorization fails numerically during a solve.
	ErrSingular = errors.New("linop: singular operator")

	// ErrUnknownNorm indicates a condition-number norm outside the
	// supported set.
	ErrUnknownNorm = errors.New("linop: unknown condition norm")

	// ErrEigenFailed indicates the eigen routine failed to converge.
	ErrEigenFailed = errors.New("linop: eigen decomposition failed")

	// ErrBadIndex indicates an out-of-range entry in a Selection or
	// Embedding index list.
	ErrBadIndex = errors.New("linop: index out of range")

	// ErrNilOperator indicates a nil *Operator receiver or argument.
	ErrNilOperator = errors.New("linop: nil operator")

	// ErrNilArray indicates a nil *nd.Array operand.
	ErrNilArray = errors.New("linop: nil array operand")

	// ErrNilFunc indicates a nil mandatory callback at construction.
	ErrNilFunc = errors.New("linop: nil callback")
)

// Operation tags used by opErrorf so failures read "linop.MatMul: ...".
const (
	opNew         = "New"
	opMatMul      = "MatMul"
	opRMatMul     = "RMatMul"
	opApply       = "Apply"
	opToDense     = "ToDense"
	opTranspose   = "T"
	opTransposeAx = "TransposeAxes"
	opInverse     = "Inverse"
	opCholesky    = "Cholesky"
	opSymmetrize  = "Symmetrize"
	opNeg         = "Neg"
	opCast        = "Cast"
	opRank        = "Rank"
	opEigenvalues = "Eigenvalues"
	opCond        = "Cond"
	opDet         = "Det"
	opLogAbsDet   = "LogAbsDet"
	opTrace       = "Trace"
	opSetProp     = "SetProp"
	opBroadcast   = "Broadcast"
	opSelection   = "NewSelection"
	opEmbedding   = "NewEmbedding"
	opMatrix      = "NewMatrix"
	opSparse      = "NewSparse"
	opIdentity    = "NewIdentity"
	opSolve       = "Solve"
)

// opErrorf wraps a sentinel (or an already wrapped error) with the public
// operation name. errors.Is keeps matching the underlying sentinel.
func opErrorf(op string, err error) error {
	return fmt.Errorf("linop.%s: %w", op, err)
}
