// SPDX-License-Identifier: MIT

package nd_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linop/nd"
)

// snap is the exported view of an array used for structural diffs.
type snap struct {
	DType nd.DType
	Shape []int
	Data  []float64
}

func snapshot(a *nd.Array) snap {
	return snap{DType: a.DType(), Shape: a.Shape(), Data: a.Data()}
}

// TestNew_Validation: kind, shape and size are all checked up front.
func TestNew_Validation(t *testing.T) {
	_, err := nd.New(nd.DType(99), []float64{1}, 1)
	require.ErrorIs(t, err, nd.ErrDType) // unknown kind

	_, err = nd.New(nd.Float64, []float64{1, 2}, 2, 0)
	require.ErrorIs(t, err, nd.ErrShape) // non-positive dimension

	_, err = nd.New(nd.Float64, []float64{1, 2, 3}, 2, 2)
	require.ErrorIs(t, err, nd.ErrSize) // 3 values cannot fill a 2x2
}

// TestNew_AdoptsSlice: the backing slice is shared, not copied.
func TestNew_AdoptsSlice(t *testing.T) {
	buf := []float64{1, 2, 3, 4}
	a, err := nd.New(nd.Float64, buf, 2, 2)
	require.NoError(t, err)

	buf[0] = 9 // external mutation is visible through the array
	v, err := a.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 9.0, v)
}

// TestEye: ones on the diagonal, zeros elsewhere.
func TestEye(t *testing.T) {
	a, err := nd.Eye(nd.Float64, 3)
	require.NoError(t, err)
	require.Equal(t, []int{3, 3}, a.Shape())
	require.Equal(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, a.Data())
}

// TestFull_QuantizesFill: the fill value obeys the element kind.
func TestFull_QuantizesFill(t *testing.T) {
	a, err := nd.Full(nd.Int64, 2.7, 3)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2, 2}, a.Data()) // truncated toward zero
}

// TestAtSetAt: multi-index access with bounds checking.
func TestAtSetAt(t *testing.T) {
	a, err := nd.Zeros(nd.Float64, 2, 3)
	require.NoError(t, err)

	require.NoError(t, a.SetAt(5, 1, 2)) // last cell
	v, err := a.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 5.0, v)

	_, err = a.At(2, 0)
	require.ErrorIs(t, err, nd.ErrIndex) // row out of range
	_, err = a.At(0)
	require.ErrorIs(t, err, nd.ErrIndex) // wrong arity
	require.ErrorIs(t, a.SetAt(1, 0, -4), nd.ErrIndex)
}

// TestSetAt_Quantizes: writes pass through the kind's value grid.
func TestSetAt_Quantizes(t *testing.T) {
	a, err := nd.Zeros(nd.Int32, 2)
	require.NoError(t, err)
	require.NoError(t, a.SetAt(3.9, 0))
	v, err := a.At(0)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)
}

// TestClone_Independent: mutating the clone never touches the source.
func TestClone_Independent(t *testing.T) {
	a, err := nd.New(nd.Float64, []float64{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)

	b := a.Clone()
	require.Empty(t, cmp.Diff(snapshot(a), snapshot(b))) // structurally identical

	require.NoError(t, b.SetAt(99, 0, 0))
	v, err := a.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v) // source unchanged
	require.NotEmpty(t, cmp.Diff(snapshot(a), snapshot(b)))
}

// TestEqual: kind, shape and values must all match exactly.
func TestEqual(t *testing.T) {
	a, _ := nd.New(nd.Float64, []float64{1, 2}, 2)
	b, _ := nd.New(nd.Float64, []float64{1, 2}, 2)
	c, _ := nd.New(nd.Float64, []float64{1, 2}, 1, 2) // same data, different rank
	d, _ := nd.New(nd.Float32, []float64{1, 2}, 2)    // same data, different kind

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(d))
}

// TestAsType: the rule gates the conversion; values are re-quantized.
func TestAsType(t *testing.T) {
	a, err := nd.New(nd.Float64, []float64{1.1, 2.0}, 2)
	require.NoError(t, err)

	_, err = a.AsType(nd.Float16, nd.CastSafe)
	require.ErrorIs(t, err, nd.ErrCast) // narrowing refused under safe rule

	h, err := a.AsType(nd.Float16, nd.CastSameKind)
	require.NoError(t, err)
	require.Equal(t, nd.Float16, h.DType())
	require.NotEqual(t, 1.1, h.Data()[0]) // snapped to the f16 grid
	require.Equal(t, 2.0, h.Data()[1])    // exactly representable, unchanged
}

// TestMat2D_SharesStorage: the gonum view writes through to the array.
func TestMat2D_SharesStorage(t *testing.T) {
	a, err := nd.New(nd.Float64, []float64{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)

	m, err := a.Mat2D()
	require.NoError(t, err)
	m.Set(0, 1, 7)
	require.Equal(t, []float64{1, 7, 3, 4}, a.Data())

	v, _ := nd.FromVector(nd.Float64, []float64{1, 2})
	_, err = v.Mat2D()
	require.ErrorIs(t, err, nd.ErrShape) // rank 1 has no 2-D view
}

// TestFromDense: stride-respecting copy of a gonum matrix.
func TestFromDense(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	a, err := nd.FromDense(nd.Float64, m)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4}, a.Data())

	m.Set(0, 0, 9) // the copy is independent of the source
	require.Equal(t, 1.0, a.Data()[0])
}
