// SPDX-License-Identifier: MIT

// Package linop provides finite-dimensional linear operators as composable,
// lazily-evaluated values.
//
// What is a linear operator here?
//
// A value that behaves like a matrix A of shape (rows, cols) without
// necessarily ever materializing A. The only mandatory ingredient is a
// matrix-matrix product callback; everything else — transposition, inversion,
// Cholesky factors, determinants, eigenvalues, condition numbers — either
// comes from an optional caller-supplied callback or is derived on demand
// from a densified copy and remembered.
//
// Core surface:
//
//   - New          — construct an operator from shape, element kind and a
//     matmul callback, plus functional options for optional capabilities.
//   - MatMul/RMatMul/Apply — matrix products against nd.Array operands,
//     including batched stacks (..., rows, cols) and axis-directed
//     application for higher-rank operands.
//   - T / Inverse / Cholesky — lazy structural transforms. Inverse never
//     factorizes at construction time; the first solve does.
//   - Rank/Eigenvalues/Cond/Det/LogAbsDet/Trace/ToDense — derived
//     quantities, each computed at most once per operator value.
//   - Prop/SetProp — a tri-state registry of matrix properties (symmetric,
//     lower-triangular, upper-triangular, positive-definite) with validated,
//     write-once transitions.
//
// Structured operators:
//
//   - NewIdentity  — the identity, with exact closed-form derived quantities.
//   - NewMatrix    — an operator backed by an explicit dense nd.Array.
//   - NewSparse    — an operator backed by CSR triples.
//   - NewSelection — row subsampling (pick coordinates of the input).
//   - NewEmbedding — the adjoint notion: route coordinates into chosen
//     slots of a larger space, with a configurable fill for untouched
//     coordinates.
//
// Broadcasting helpers (BroadcastMatVec and friends) lift a plain 2-D or
// 1-D kernel over stacked operands so capability callbacks only need to
// handle the base case.
//
// Error policy: all failure modes are package-level sentinels (ErrBadShape,
// ErrDimensionMismatch, ErrSingular, ...) matched with errors.Is; wrapped
// with operation context via fmt.Errorf at the public boundary. Public
// methods never panic on user input; panics are reserved for programmer
// errors such as nil callbacks passed to options.
//
// Determinism: no global state; iteration orders are fixed; derived-quantity
// caches make repeated queries return the identical value.
package linop
