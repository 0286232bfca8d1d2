// SPDX-License-Identifier: MIT

// Package linop: shared input validation used by the constructors.
package linop

import (
	"fmt"

	"github.com/katalvlaran/linop/nd"
)

// checkKind enforces the operator element-kind contract: a recognized,
// inexact kind. Integer kinds are valid for operands, never for operators.
func checkKind(dt nd.DType) error {
	if !dt.Valid() || !dt.IsInexact() {
		return ErrUnsupportedDType
	}

	return nil
}

// checkShape enforces positive dimensions.
func checkShape(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return ErrBadShape
	}

	return nil
}

// checkIndices enforces a non-empty index list with every entry inside
// [0, bound).
func checkIndices(indices []int, bound int) error {
	if len(indices) == 0 {
		return ErrBadShape
	}
	for _, i := range indices {
		if i < 0 || i >= bound {
			return fmt.Errorf("index %d for dimension %d: %w", i, bound, ErrBadIndex)
		}
	}

	return nil
}
