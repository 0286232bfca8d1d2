// SPDX-License-Identifier: MIT

package linop_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linop"
	"github.com/katalvlaran/linop/nd"
)

// TestProp_DefaultsUnknown: a fresh square operator has no decided flags.
func TestProp_DefaultsUnknown(t *testing.T) {
	a := newSwap(t)
	for _, p := range []linop.Property{linop.Symmetric, linop.LowerTriangular, linop.UpperTriangular, linop.PositiveDefinite} {
		v, err := a.Prop(p)
		require.NoError(t, err)
		require.Equal(t, linop.TriUnknown, v)
	}
}

// TestSetProp_WriteOnce: re-assertion is a no-op, reversal is a conflict.
func TestSetProp_WriteOnce(t *testing.T) {
	a := newSwap(t)

	require.NoError(t, a.SetProp(linop.Symmetric, true))
	require.NoError(t, a.SetProp(linop.Symmetric, true)) // idempotent
	require.ErrorIs(t, a.SetProp(linop.Symmetric, false), linop.ErrPropertyConflict)

	v, err := a.Prop(linop.Symmetric)
	require.NoError(t, err)
	require.Equal(t, linop.TriTrue, v) // the decision stands
}

// TestSetProp_UnknownName: names outside the registry are rejected.
func TestSetProp_UnknownName(t *testing.T) {
	a := newSwap(t)
	require.ErrorIs(t, a.SetProp(linop.Property(42), true), linop.ErrUnknownProperty)
	_, err := a.Prop(linop.Property(42))
	require.ErrorIs(t, err, linop.ErrUnknownProperty)
}

// TestSetProp_SymmetricNeedsSquare: rectangular operators are pre-decided.
func TestSetProp_SymmetricNeedsSquare(t *testing.T) {
	m, err := nd.Zeros(nd.Float64, 2, 3)
	require.NoError(t, err)
	rect, err := linop.NewMatrix(m)
	require.NoError(t, err)

	v, err := rect.Prop(linop.Symmetric)
	require.NoError(t, err)
	require.Equal(t, linop.TriFalse, v) // decided at construction

	require.ErrorIs(t, rect.SetProp(linop.Symmetric, true), linop.ErrPropertyConflict)

	v, err = rect.Prop(linop.PositiveDefinite)
	require.NoError(t, err)
	require.Equal(t, linop.TriFalse, v)
}

// TestSetProp_PosDefNeedsSymmetric: the ordering constraint is enforced.
func TestSetProp_PosDefNeedsSymmetric(t *testing.T) {
	a := newSwap(t)

	require.ErrorIs(t, a.SetProp(linop.PositiveDefinite, true), linop.ErrNotSymmetric)
	require.NoError(t, a.SetProp(linop.PositiveDefinite, false)) // "false" needs no symmetry

	b := newSwap(t)
	require.NoError(t, b.SetProp(linop.Symmetric, true))
	require.NoError(t, b.SetProp(linop.PositiveDefinite, true)) // now permitted
}

// TestTypedSetters: the per-flag setters share SetProp's rules.
func TestTypedSetters(t *testing.T) {
	a := newSwap(t)

	require.NoError(t, a.SetLowerTriangular(false))
	require.NoError(t, a.SetUpperTriangular(false))
	require.ErrorIs(t, a.SetPositiveDefinite(true), linop.ErrNotSymmetric)
	require.NoError(t, a.SetSymmetric(true))
	require.NoError(t, a.SetPositiveDefinite(true))
	require.ErrorIs(t, a.SetSymmetric(false), linop.ErrPropertyConflict)

	v, err := a.Prop(linop.PositiveDefinite)
	require.NoError(t, err)
	require.Equal(t, linop.TriTrue, v)
}
