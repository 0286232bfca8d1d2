// SPDX-License-Identifier: MIT

package linop_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linop"
	"github.com/katalvlaran/linop/nd"
)

// TestT_DenseAgreement: the lazy view's products match the transposed dense.
func TestT_DenseAgreement(t *testing.T) {
	a := newDense(t, []float64{1, 2, 3, 4, 5, 6}, 2, 3)
	at, err := a.T()
	require.NoError(t, err)

	r, c := at.Shape()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)

	d, err := at.ToDense()
	require.NoError(t, err)
	require.Equal(t, []float64{1, 4, 2, 5, 3, 6}, d.Data())

	v, err := nd.FromVector(nd.Float64, []float64{1, 1})
	require.NoError(t, err)
	y, err := at.MatMul(v)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 7, 9}, y.Data()) // column sums of a
}

// TestT_PointerStable: T is memoized and the double transpose returns the
// original operator value.
func TestT_PointerStable(t *testing.T) {
	// generic operator without a transpose callback -> default lazy view
	a := newSwap(t)

	t1, err := a.T()
	require.NoError(t, err)
	t2, err := a.T()
	require.NoError(t, err)
	require.Same(t, t1, t2) // memoized

	back, err := t1.T()
	require.NoError(t, err)
	require.Same(t, a, back) // transpose of the view is the original
}

// TestT_SymmetricIsSelf: a symmetric operator transposes to itself.
func TestT_SymmetricIsSelf(t *testing.T) {
	a := newDense(t, []float64{2, 1, 1, 3}, 2, 2)
	require.NoError(t, a.SetProp(linop.Symmetric, true))

	at, err := a.T()
	require.NoError(t, err)
	require.Same(t, a, at)
}

// TestT_FlagsSwap: triangularity swaps across transposition, symmetry copies.
func TestT_FlagsSwap(t *testing.T) {
	a := newSwap(t)
	require.NoError(t, a.SetProp(linop.LowerTriangular, true))

	at, err := a.T()
	require.NoError(t, err)
	up, err := at.Prop(linop.UpperTriangular)
	require.NoError(t, err)
	require.Equal(t, linop.TriTrue, up)
	lo, err := at.Prop(linop.LowerTriangular)
	require.NoError(t, err)
	require.Equal(t, linop.TriUnknown, lo)
}

// TestT_DelegatesDerived: transposition-invariant quantities come from the
// source and share its caches.
func TestT_DelegatesDerived(t *testing.T) {
	calls := 0
	op, err := linop.New(2, 2, nd.Float64,
		func(x *nd.Array) (*nd.Array, error) { return x.Clone(), nil },
		linop.WithDet(func() (float64, error) { calls++; return 7, nil }),
	)
	require.NoError(t, err)

	at, err := op.T()
	require.NoError(t, err)
	d, err := at.Det()
	require.NoError(t, err)
	require.Equal(t, 7.0, d)
	d, err = op.Det()
	require.NoError(t, err)
	require.Equal(t, 7.0, d)
	require.Equal(t, 1, calls) // one computation serves both views
}

// TestTransposeAxes: explicit axis pairs, negatives included.
func TestTransposeAxes(t *testing.T) {
	a := newDense(t, []float64{1, 2, 3, 4, 5, 6}, 2, 3)

	same, err := a.TransposeAxes(0, 1) // identity permutation
	require.NoError(t, err)
	require.Same(t, a, same)
	same, err = a.TransposeAxes(-2, -1)
	require.NoError(t, err)
	require.Same(t, a, same)

	at, err := a.TransposeAxes(1, 0)
	require.NoError(t, err)
	r, c := at.Shape()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	viaT, err := a.T()
	require.NoError(t, err)
	require.Same(t, viaT, at) // same memoized transpose

	an, err := a.TransposeAxes(-1, -2)
	require.NoError(t, err)
	require.Same(t, viaT, an)

	_, err = a.TransposeAxes(0, 2)
	require.ErrorIs(t, err, linop.ErrAxis)
	_, err = a.TransposeAxes(1, 1)
	require.ErrorIs(t, err, linop.ErrAxis) // repeated axis
	_, err = a.TransposeAxes(-3, 0)
	require.ErrorIs(t, err, linop.ErrAxis)
}
