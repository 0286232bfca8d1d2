// SPDX-License-Identifier: MIT
// Package nd: element kinds and casting rules.
//
// Purpose:
//   - Declare the closed set of real element kinds an Array may be tagged with.
//   - Centralize promotion (binary result kinds) and cast-safety decisions so
//     the operator core never hand-rolls dtype logic.
//
// Notes:
//   - Storage is always float64; a kind is a semantic tag. Quantize maps a
//     float64 value onto the representable set of a kind (Float16 goes through
//     an IEEE 754 half round-trip via x448/float16).
//   - Complex kinds are intentionally absent: the operator contract rejects
//     them, and keeping them unrepresentable is cheaper than validating.

package nd

import (
	"math"

	"github.com/x448/float16"
)

// DType is the symbolic element kind of an Array.
// The zero value is Float64, the package-wide default kind.
type DType uint8

// Supported element kinds, widest-first within each kind class.
const (
	// Float64 is the default, full-precision kind.
	Float64 DType = iota
	// Float32 is a single-precision kind; casts round through float32.
	Float32
	// Float16 is a half-precision kind; casts round through IEEE 754 binary16.
	Float16
	// Int64 is a signed 64-bit integer kind; casts truncate toward zero.
	Int64
	// Int32 is a signed 32-bit integer kind; casts truncate toward zero.
	Int32
)

// CastRule controls what kind of data casting may occur, mirroring the
// NumPy casting-safety lattice restricted to the kinds above.
type CastRule uint8

const (
	// CastSafe permits only casts guaranteed to preserve every value.
	CastSafe CastRule = iota
	// CastSameKind permits safe casts plus casts within a kind class
	// (float→float, int→int) and int→float widening.
	CastSameKind
	// CastUnsafe permits any cast.
	CastUnsafe
)

// Valid reports whether dt is one of the recognized kinds.
// Complexity: O(1).
func (dt DType) Valid() bool {
	return dt <= Int32
}

// IsInexact reports whether dt is a floating-point kind.
// Complexity: O(1).
func (dt DType) IsInexact() bool {
	return dt == Float64 || dt == Float32 || dt == Float16
}

// Size returns the nominal byte width of the kind.
// Complexity: O(1).
func (dt DType) Size() int {
	switch dt {
	case Float64, Int64:
		return 8
	case Float32, Int32:
		return 4
	case Float16:
		return 2
	default:
		return 0
	}
}

// String returns the canonical lowercase name of the kind.
func (dt DType) String() string {
	switch dt {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	case Int64:
		return "int64"
	case Int32:
		return "int32"
	default:
		return "invalid"
	}
}

// floatRank orders the floating kinds by width; higher is wider.
// Returns -1 for integer kinds.
func floatRank(dt DType) int {
	switch dt {
	case Float64:
		return 3
	case Float32:
		return 2
	case Float16:
		return 1
	default:
		return -1
	}
}

// intRank orders the integer kinds by width; higher is wider.
// Returns -1 for floating kinds.
func intRank(dt DType) int {
	switch dt {
	case Int64:
		return 2
	case Int32:
		return 1
	default:
		return -1
	}
}

// Promote returns the result kind of a binary operation between kinds a and b.
// Rules (restricted NumPy result-type lattice):
//   - float ∘ float  → the wider float kind.
//   - int   ∘ int    → the wider integer kind.
//   - int   ∘ float  → the float kind (width unchanged).
//
// Determinism: pure function of (a, b); commutative.
// Complexity: O(1).
func Promote(a, b DType) DType {
	fa, fb := floatRank(a), floatRank(b)
	switch {
	case fa >= 0 && fb >= 0: // both floating: keep the wider one
		if fa >= fb {
			return a
		}
		return b
	case fa >= 0: // a floating, b integer
		return a
	case fb >= 0: // b floating, a integer
		return b
	default: // both integer: keep the wider one
		if intRank(a) >= intRank(b) {
			return a
		}
		return b
	}
}

// Inexact returns dt unchanged for floating kinds and Float64 for integer
// kinds. Derived quantities that are inherently inexact (eigenvalues,
// determinants, inverse entries) use this kind.
// Complexity: O(1).
func Inexact(dt DType) DType {
	if dt.IsInexact() {
		return dt
	}
	return Float64
}

// CanCast reports whether a cast from kind `from` to kind `to` is permitted
// under the given rule.
//
// Implementation:
//   - Stage 1: CastUnsafe always permits.
//   - Stage 2: CastSafe permits exactly the value-preserving edges of the
//     kind lattice (float widening, int widening, Int32→Float64).
//   - Stage 3: CastSameKind additionally permits any float→float, any
//     int→int, and any int→float edge.
//
// Determinism: pure function; no data-dependent branches.
// Complexity: O(1).
//
// AI-Hints:
//   - Int64→Float64 is NOT safe (float64 has a 53-bit mantissa); use
//     CastSameKind when that edge is acceptable.
func CanCast(from, to DType, rule CastRule) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	switch rule {
	case CastUnsafe:
		return true
	case CastSameKind:
		if canCastSafe(from, to) {
			return true
		}
		// Same kind class, any width.
		if floatRank(from) >= 0 && floatRank(to) >= 0 {
			return true
		}
		if intRank(from) >= 0 && intRank(to) >= 0 {
			return true
		}
		// Integer to floating is a kind upgrade.
		return intRank(from) >= 0 && floatRank(to) >= 0
	case CastSafe:
		return canCastSafe(from, to)
	default:
		return false
	}
}

// canCastSafe enumerates the value-preserving edges of the kind lattice.
func canCastSafe(from, to DType) bool {
	if from == to {
		return true
	}
	// Floating widening.
	if floatRank(from) > 0 && floatRank(to) > floatRank(from) {
		return true
	}
	// Integer widening.
	if from == Int32 && to == Int64 {
		return true
	}
	// Int32 fits float64 exactly (31 significant bits < 53-bit mantissa).
	return from == Int32 && to == Float64
}

// Quantize maps v onto the representable set of kind dt.
//
// Behavior highlights:
//   - Float64 is the identity.
//   - Float32 rounds through a float32 round-trip.
//   - Float16 rounds through an IEEE 754 binary16 round-trip (x448/float16).
//   - Integer kinds truncate toward zero; NaN maps to 0 to keep the result
//     a member of the kind's value set.
//
// Complexity: O(1).
func Quantize(v float64, dt DType) float64 {
	switch dt {
	case Float64:
		return v
	case Float32:
		return float64(float32(v))
	case Float16:
		return float64(float16.Fromfloat32(float32(v)).Float32())
	case Int64, Int32:
		if math.IsNaN(v) {
			return 0
		}
		return math.Trunc(v)
	default:
		return v
	}
}
