// SPDX-License-Identifier: MIT

package nd_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linop/nd"
)

// TestPromote_FloatWidening: the wider inexact kind always wins.
func TestPromote_FloatWidening(t *testing.T) {
	require.Equal(t, nd.Float64, nd.Promote(nd.Float64, nd.Float32)) // f64 beats f32
	require.Equal(t, nd.Float32, nd.Promote(nd.Float16, nd.Float32)) // f32 beats f16
	require.Equal(t, nd.Float16, nd.Promote(nd.Float16, nd.Float16)) // same kind is a no-op
}

// TestPromote_MixedKinds: any float dominates any integer.
func TestPromote_MixedKinds(t *testing.T) {
	require.Equal(t, nd.Float16, nd.Promote(nd.Float16, nd.Int64)) // float wins even when narrower
	require.Equal(t, nd.Float32, nd.Promote(nd.Int32, nd.Float32))
	require.Equal(t, nd.Int64, nd.Promote(nd.Int32, nd.Int64)) // ints promote among themselves
}

// TestInexact: integer kinds map to Float64, inexact kinds pass through.
func TestInexact(t *testing.T) {
	require.Equal(t, nd.Float64, nd.Inexact(nd.Int64))
	require.Equal(t, nd.Float64, nd.Inexact(nd.Int32))
	require.Equal(t, nd.Float16, nd.Inexact(nd.Float16)) // already inexact, unchanged
}

// TestCanCast_Safe: the safe lattice permits only value-preserving moves.
func TestCanCast_Safe(t *testing.T) {
	require.True(t, nd.CanCast(nd.Float32, nd.Float64, nd.CastSafe))  // widening float
	require.True(t, nd.CanCast(nd.Int32, nd.Int64, nd.CastSafe))     // widening int
	require.True(t, nd.CanCast(nd.Int32, nd.Float64, nd.CastSafe))   // int32 fits exactly in f64
	require.False(t, nd.CanCast(nd.Float64, nd.Float32, nd.CastSafe)) // narrowing is unsafe
	require.False(t, nd.CanCast(nd.Int64, nd.Float64, nd.CastSafe))   // int64 does not fit f64 exactly
}

// TestCanCast_SameKindAndUnsafe: same-kind allows within a family; unsafe allows all.
func TestCanCast_SameKindAndUnsafe(t *testing.T) {
	require.True(t, nd.CanCast(nd.Float64, nd.Float16, nd.CastSameKind)) // narrowing float, same family
	require.False(t, nd.CanCast(nd.Float64, nd.Int64, nd.CastSameKind))  // crossing families
	require.True(t, nd.CanCast(nd.Float64, nd.Int32, nd.CastUnsafe))     // unsafe permits everything
}

// TestQuantize_Float16: values round-trip through the half-precision grid.
func TestQuantize_Float16(t *testing.T) {
	require.Equal(t, 1.0, nd.Quantize(1.0, nd.Float16))      // exactly representable
	require.NotEqual(t, 1.1, nd.Quantize(1.1, nd.Float16))   // 1.1 is not on the f16 grid
	require.InDelta(t, 1.1, nd.Quantize(1.1, nd.Float16), 1e-3)
}

// TestQuantize_Int: integers truncate toward zero; NaN collapses to 0.
func TestQuantize_Int(t *testing.T) {
	require.Equal(t, 2.0, nd.Quantize(2.9, nd.Int64))
	require.Equal(t, -2.0, nd.Quantize(-2.9, nd.Int32))
	require.Equal(t, 0.0, nd.Quantize(math.NaN(), nd.Int64))
	require.Equal(t, 3.5, nd.Quantize(3.5, nd.Float64)) // f64 passes through untouched
}
