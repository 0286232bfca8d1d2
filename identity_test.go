// SPDX-License-Identifier: MIT

package linop_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linop"
	"github.com/katalvlaran/linop/nd"
)

// TestIdentity_Products: operands pass through unchanged.
func TestIdentity_Products(t *testing.T) {
	id, err := linop.NewIdentity(3, nd.Float64)
	require.NoError(t, err)

	v, err := nd.FromVector(nd.Float64, []float64{1, 2, 3})
	require.NoError(t, err)
	y, err := id.MatMul(v)
	require.NoError(t, err)
	require.Equal(t, v.Data(), y.Data())

	y, err = id.RMatMul(v)
	require.NoError(t, err)
	require.Equal(t, v.Data(), y.Data())

	x, err := nd.New(nd.Float64, []float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	ya, err := id.Apply(x, -1) // any axis of matching size works
	require.NoError(t, err)
	require.Equal(t, x.Data(), ya.Data())
}

// TestIdentity_SelfTransforms: T and Inverse are pointer-identical.
func TestIdentity_SelfTransforms(t *testing.T) {
	id, err := linop.NewIdentity(3, nd.Float64)
	require.NoError(t, err)

	it, err := id.T()
	require.NoError(t, err)
	require.Same(t, id, it)

	inv, err := id.Inverse()
	require.NoError(t, err)
	require.Same(t, id, inv) // solves against I are free

	l, err := id.Cholesky(true)
	require.NoError(t, err)
	require.Same(t, id, l) // L = I, no fresh operator
	u, err := id.Cholesky(false)
	require.NoError(t, err)
	require.Same(t, id, u)
}

// TestIdentity_ClosedForms: derived quantities are exact, no densification.
func TestIdentity_ClosedForms(t *testing.T) {
	id, err := linop.NewIdentity(4, nd.Float64)
	require.NoError(t, err)

	r, err := id.Rank()
	require.NoError(t, err)
	require.Equal(t, 4, r)

	d, err := id.Det()
	require.NoError(t, err)
	require.Equal(t, 1.0, d)

	lad, err := id.LogAbsDet()
	require.NoError(t, err)
	require.Equal(t, 0.0, lad)

	tr, err := id.Trace()
	require.NoError(t, err)
	require.Equal(t, 4.0, tr)

	vals, err := id.Eigenvalues()
	require.NoError(t, err)
	require.Equal(t, []complex128{1, 1, 1, 1}, vals)

	c2, err := id.Cond(linop.CondDefault)
	require.NoError(t, err)
	require.Equal(t, 1.0, c2)
	cf, err := id.Cond(linop.CondFro)
	require.NoError(t, err)
	require.Equal(t, 4.0, cf) // ||I||_F^2 = n
}

// TestIdentity_Flags: all four registry flags are decided true.
func TestIdentity_Flags(t *testing.T) {
	id, err := linop.NewIdentity(2, nd.Float64)
	require.NoError(t, err)
	for _, p := range []linop.Property{linop.Symmetric, linop.LowerTriangular, linop.UpperTriangular, linop.PositiveDefinite} {
		v, err := id.Prop(p)
		require.NoError(t, err)
		require.Equal(t, linop.TriTrue, v)
	}
}

// TestIdentity_Validation: dimension and kind checks.
func TestIdentity_Validation(t *testing.T) {
	_, err := linop.NewIdentity(0, nd.Float64)
	require.ErrorIs(t, err, linop.ErrBadShape)
	_, err = linop.NewIdentity(2, nd.Int32)
	require.ErrorIs(t, err, linop.ErrUnsupportedDType)
}
