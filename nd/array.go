// SPDX-License-Identifier: MIT

// Package nd: Array is the concrete, row-major N-dimensional buffer.
// Elements live in a single flat slice for cache friendliness; the shape is
// interpreted with the last axis fastest (C order), matching gonum's Dense.
package nd

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Array is a row-major N-dimensional buffer of float64 values tagged with a
// symbolic element kind. A zero-dimensional Array (empty shape) is a scalar
// holder and is valid; callers that require rank >= 1 must check NDim.
type Array struct {
	dtype DType     // symbolic element kind (storage stays float64)
	shape []int     // dimension sizes, last axis fastest
	data  []float64 // flat backing storage, length == product(shape)
}

// sizeOf returns the element count implied by shape, or -1 when any
// dimension is non-positive.
func sizeOf(shape []int) int {
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return -1
		}
		n *= d
	}
	return n
}

// New creates an Array over the given data with the given kind and shape.
// Stage 1 (Validate): kind recognized, dimensions positive, data length
// equals the shape product.
// Stage 2 (Finalize): the data slice is adopted without copying.
// Complexity: O(len(shape)).
func New(dt DType, data []float64, shape ...int) (*Array, error) {
	if !dt.Valid() {
		return nil, ErrDType
	}
	n := sizeOf(shape)
	if n < 0 {
		return nil, ErrShape
	}
	if len(data) != n {
		return nil, ErrSize
	}
	s := make([]int, len(shape))
	copy(s, shape)

	return &Array{dtype: dt, shape: s, data: data}, nil
}

// Zeros creates a zero-initialized Array of the given kind and shape.
// Complexity: O(size) for the allocation.
func Zeros(dt DType, shape ...int) (*Array, error) {
	if !dt.Valid() {
		return nil, ErrDType
	}
	n := sizeOf(shape)
	if n < 0 {
		return nil, ErrShape
	}
	s := make([]int, len(shape))
	copy(s, shape)

	return &Array{dtype: dt, shape: s, data: make([]float64, n)}, nil
}

// Full creates an Array of the given kind and shape with every element set
// to fill (quantized to the kind).
// Complexity: O(size).
func Full(dt DType, fill float64, shape ...int) (*Array, error) {
	a, err := Zeros(dt, shape...)
	if err != nil {
		return nil, err
	}
	v := Quantize(fill, dt)
	for i := range a.data {
		a.data[i] = v
	}

	return a, nil
}

// Eye creates the n×n identity Array of the given kind.
// Determinism: fixed i-loop; single write per diagonal cell.
// Complexity: O(n^2) zeroing + O(n) diagonal writes.
func Eye(dt DType, n int) (*Array, error) {
	a, err := Zeros(dt, n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		a.data[i*n+i] = 1
	}

	return a, nil
}

// FromVector creates a 1-D Array over data without copying.
// Complexity: O(1).
func FromVector(dt DType, data []float64) (*Array, error) {
	return New(dt, data, len(data))
}

// FromDense copies a gonum dense matrix into a fresh 2-D Array of the given
// kind. The source stride is respected; values are not quantized (the caller
// owns the kind semantics of the source).
// Complexity: O(r*c).
func FromDense(dt DType, m *mat.Dense) (*Array, error) {
	if m == nil {
		return nil, ErrNilArray
	}
	r, c := m.Dims()
	a, err := Zeros(dt, r, c)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			a.data[i*c+j] = m.At(i, j)
		}
	}

	return a, nil
}

// DType returns the symbolic element kind of the array. Complexity: O(1).
func (a *Array) DType() DType { return a.dtype }

// NDim returns the number of axes. Complexity: O(1).
func (a *Array) NDim() int { return len(a.shape) }

// Size returns the total element count. Complexity: O(1).
func (a *Array) Size() int { return len(a.data) }

// Shape returns a copy of the dimension sizes. Complexity: O(ndim).
func (a *Array) Shape() []int {
	s := make([]int, len(a.shape))
	copy(s, a.shape)

	return s
}

// Dim returns the size of the given axis; negative axes count from the end.
// Returns ErrAxis when the axis is outside the rank.
// Complexity: O(1).
func (a *Array) Dim(axis int) (int, error) {
	ax, err := a.normAxis(axis)
	if err != nil {
		return 0, err
	}

	return a.shape[ax], nil
}

// normAxis maps a possibly-negative axis into [0, ndim) or fails with ErrAxis.
func (a *Array) normAxis(axis int) (int, error) {
	n := len(a.shape)
	if axis < -n || axis >= n {
		return 0, fmt.Errorf("axis %d for rank %d: %w", axis, n, ErrAxis)
	}
	if axis < 0 {
		axis += n
	}

	return axis, nil
}

// Data returns the flat backing slice. The slice is shared with the array;
// callers that mutate it own the consequences. This is the bridge the
// operator kernels use to stay allocation-free on hot paths.
// Complexity: O(1).
func (a *Array) Data() []float64 { return a.data }

// offsetOf computes the flat offset of a multi-index, or ErrIndex.
// Stage 1 (Validate): index arity equals rank; each entry within bounds.
// Stage 2 (Execute): accumulate row-major offset.
// Complexity: O(ndim).
func (a *Array) offsetOf(idx []int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, fmt.Errorf("index arity %d for rank %d: %w", len(idx), len(a.shape), ErrIndex)
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= a.shape[k] {
			return 0, fmt.Errorf("index %d on axis %d (size %d): %w", i, k, a.shape[k], ErrIndex)
		}
		off = off*a.shape[k] + i
	}

	return off, nil
}

// At retrieves the element at the given multi-index.
// Complexity: O(ndim).
func (a *Array) At(idx ...int) (float64, error) {
	off, err := a.offsetOf(idx)
	if err != nil {
		return 0, err
	}

	return a.data[off], nil
}

// SetAt assigns v (quantized to the array's kind) at the given multi-index.
// Complexity: O(ndim).
func (a *Array) SetAt(v float64, idx ...int) error {
	off, err := a.offsetOf(idx)
	if err != nil {
		return err
	}
	a.data[off] = Quantize(v, a.dtype)

	return nil
}

// Clone returns a deep copy of the array (fresh shape and data slices).
// Complexity: O(size).
func (a *Array) Clone() *Array {
	d := make([]float64, len(a.data))
	copy(d, a.data)
	s := make([]int, len(a.shape))
	copy(s, a.shape)

	return &Array{dtype: a.dtype, shape: s, data: d}
}

// Equal reports exact equality of kind, shape and every element.
// NaN is not equal to itself, matching elementwise float64 comparison.
// Complexity: O(size).
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.dtype != b.dtype || len(a.shape) != len(b.shape) {
		return false
	}
	for k := range a.shape {
		if a.shape[k] != b.shape[k] {
			return false
		}
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}

	return true
}

// AsType returns a fresh Array of kind dt with every element quantized.
// The cast must be permitted by the given rule; otherwise ErrCast.
// Complexity: O(size).
func (a *Array) AsType(dt DType, rule CastRule) (*Array, error) {
	if !dt.Valid() {
		return nil, ErrDType
	}
	if !CanCast(a.dtype, dt, rule) {
		return nil, fmt.Errorf("%s to %s under rule %d: %w", a.dtype, dt, rule, ErrCast)
	}
	out := a.Clone()
	out.dtype = dt
	if dt != a.dtype && dt != Float64 {
		for i, v := range out.data {
			out.data[i] = Quantize(v, dt)
		}
	}

	return out, nil
}

// Mat2D wraps a 2-D array as a gonum dense matrix WITHOUT copying: the
// returned matrix shares the backing slice. Fails with ErrShape when the
// array is not two-dimensional.
// Complexity: O(1).
func (a *Array) Mat2D() (*mat.Dense, error) {
	if len(a.shape) != 2 {
		return nil, fmt.Errorf("Mat2D on rank %d: %w", len(a.shape), ErrShape)
	}

	return mat.NewDense(a.shape[0], a.shape[1], a.data), nil
}

// String renders the kind, shape and (for small arrays) the values.
// Intended for debugging; not a stable serialization format.
func (a *Array) String() string {
	if a == nil {
		return "Array(nil)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Array(%s, shape=%v", a.dtype, a.shape)
	if len(a.data) <= 16 {
		fmt.Fprintf(&b, ", data=%v", a.data)
	}
	b.WriteString(")")

	return b.String()
}
