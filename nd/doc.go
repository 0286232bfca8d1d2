// SPDX-License-Identifier: MIT

// Package nd provides the minimal N-dimensional numeric buffer consumed by
// the linop operator core.
//
// The nd package provides:
//
//   - Array: a flat, row-major buffer of float64 values tagged with a
//     symbolic element kind (DType). Storage is always float64; the kind
//     governs type promotion and value quantization on casts.
//   - DType: the closed set of real element kinds (Float64, Float32,
//     Float16, Int64, Int32). Complex kinds do not exist by construction.
//   - Casting: NumPy-style cast-safety rules (CastSafe, CastSameKind,
//     CastUnsafe) together with Promote for binary result kinds.
//   - Shape manipulation: Reshape, ExpandDims, Squeeze, MoveAxis, TakeAxis,
//     and contiguous 2-D block views (Block2D/Row) for stack iteration.
//   - A zero-copy bridge to gonum's mat.Dense for trailing 2-D slices
//     (Mat2D, FromDense), so heavy numerics stay in the dense backend.
//
// Arrays are value containers, not lazy expressions: every operation either
// returns a documented view over the same backing slice (Reshape,
// ExpandDims, Squeeze, Block2D, Row) or a freshly allocated copy (Clone,
// MoveAxis, TakeAxis, AsType). No operation mutates its receiver unless the
// method name says so (SetAt, SetBlock2D).
//
// All user-triggered failures surface as package sentinels (ErrShape,
// ErrAxis, ErrIndex, ErrCast, ...) matched via errors.Is; nothing panics on
// bad input.
package nd
