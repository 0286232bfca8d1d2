// SPDX-License-Identifier: MIT
// Package nd: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the nd
// package. All operations MUST return these sentinels and tests MUST check
// them via errors.Is. No operation panics on user-triggered conditions.

package nd

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "nd: ..." for consistency and to allow easy
// grepping across logs. Call sites wrap with fmt.Errorf("ctx: %w", ErrX) when
// context is essential; errors.Is still matches.

var (
	// ErrShape is returned when a requested shape is invalid (non-positive
	// dimension) or incompatible with the operation (size mismatch on
	// Reshape, squeezing a non-unit axis, non-2-D input to Mat2D).
	ErrShape = errors.New("nd: invalid shape")

	// ErrSize indicates that a data slice length does not match the product
	// of the requested dimensions.
	ErrSize = errors.New("nd: data length does not match shape")

	// ErrIndex indicates that an element or gather index is outside valid
	// bounds. Public indexers (At/SetAt/TakeAxis) MUST return this, not panic.
	ErrIndex = errors.New("nd: index out of range")

	// ErrAxis indicates that an axis argument is outside the array's rank.
	ErrAxis = errors.New("nd: axis out of range")

	// ErrDType indicates an unknown or unsupported element kind.
	ErrDType = errors.New("nd: unsupported dtype")

	// ErrCast indicates a cast rejected by the requested casting-safety rule.
	ErrCast = errors.New("nd: cast not allowed by casting rule")

	// ErrNilArray indicates that a nil *Array (receiver or argument) was used.
	ErrNilArray = errors.New("nd: nil array")
)
