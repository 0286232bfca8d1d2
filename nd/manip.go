// SPDX-License-Identifier: MIT

// Shape manipulation for Array: reshape-style views that reuse the backing
// slice, plus axis-shuffling copies for the cases a flat row-major buffer
// cannot express as a view.
package nd

import "fmt"

// Reshape returns a view with the given shape over the same backing data.
// The element count must match; the new view shares storage with a.
// Complexity: O(len(shape)).
func (a *Array) Reshape(shape ...int) (*Array, error) {
	n := sizeOf(shape)
	if n < 0 {
		return nil, ErrShape
	}
	if n != len(a.data) {
		return nil, fmt.Errorf("reshape %v to %v: %w", a.shape, shape, ErrSize)
	}
	s := make([]int, len(shape))
	copy(s, shape)

	return &Array{dtype: a.dtype, shape: s, data: a.data}, nil
}

// ExpandDims returns a view with a new axis of size 1 inserted at the given
// position; negative positions count from the end of the NEW rank, so -1
// appends a trailing axis. Shares storage with a.
// Complexity: O(ndim).
func (a *Array) ExpandDims(axis int) (*Array, error) {
	n := len(a.shape) + 1
	if axis < -n || axis >= n {
		return nil, fmt.Errorf("expand at %d for rank %d: %w", axis, len(a.shape), ErrAxis)
	}
	if axis < 0 {
		axis += n
	}
	s := make([]int, 0, n)
	s = append(s, a.shape[:axis]...)
	s = append(s, 1)
	s = append(s, a.shape[axis:]...)

	return &Array{dtype: a.dtype, shape: s, data: a.data}, nil
}

// Squeeze returns a view with the given size-1 axis removed. Fails with
// ErrAxis when the axis is out of range, ErrShape when its size is not 1.
// Shares storage with a.
// Complexity: O(ndim).
func (a *Array) Squeeze(axis int) (*Array, error) {
	ax, err := a.normAxis(axis)
	if err != nil {
		return nil, err
	}
	if a.shape[ax] != 1 {
		return nil, fmt.Errorf("squeeze axis %d of size %d: %w", ax, a.shape[ax], ErrShape)
	}
	s := make([]int, 0, len(a.shape)-1)
	s = append(s, a.shape[:ax]...)
	s = append(s, a.shape[ax+1:]...)

	return &Array{dtype: a.dtype, shape: s, data: a.data}, nil
}

// MoveAxis returns a COPY with axis src moved to position dst, the other
// axes keeping their relative order. Row-major storage cannot express this
// as a view, so the elements are permuted into a fresh buffer.
// Determinism: destination is walked in row-major order.
// Complexity: O(size * ndim).
func (a *Array) MoveAxis(src, dst int) (*Array, error) {
	s, err := a.normAxis(src)
	if err != nil {
		return nil, err
	}
	d, err := a.normAxis(dst)
	if err != nil {
		return nil, err
	}
	if s == d {
		return a.Clone(), nil
	}

	// perm[k] = source axis feeding destination axis k.
	n := len(a.shape)
	perm := make([]int, 0, n)
	for k := 0; k < n; k++ {
		if k != s {
			perm = append(perm, k)
		}
	}
	perm = append(perm[:d], append([]int{s}, perm[d:]...)...)

	outShape := make([]int, n)
	for k, p := range perm {
		outShape[k] = a.shape[p]
	}
	out := &Array{dtype: a.dtype, shape: outShape, data: make([]float64, len(a.data))}

	// Source strides, then an odometer over the destination index.
	srcStride := make([]int, n)
	acc := 1
	for k := n - 1; k >= 0; k-- {
		srcStride[k] = acc
		acc *= a.shape[k]
	}
	idx := make([]int, n) // destination multi-index
	for off := 0; off < len(out.data); off++ {
		srcOff := 0
		for k := 0; k < n; k++ {
			srcOff += idx[k] * srcStride[perm[k]]
		}
		out.data[off] = a.data[srcOff]
		for k := n - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < outShape[k] {
				break
			}
			idx[k] = 0
		}
	}

	return out, nil
}

// TakeAxis returns a COPY gathering the given indices along an axis, in the
// given order (duplicates permitted). Fails with ErrIndex on any
// out-of-bounds entry.
// Complexity: O(output size).
func (a *Array) TakeAxis(axis int, indices []int) (*Array, error) {
	ax, err := a.normAxis(axis)
	if err != nil {
		return nil, err
	}
	dim := a.shape[ax]
	for _, i := range indices {
		if i < 0 || i >= dim {
			return nil, fmt.Errorf("take index %d on axis %d (size %d): %w", i, ax, dim, ErrIndex)
		}
	}

	// Collapse to (outer, dim, inner): contiguous inner blocks move whole.
	outer, inner := 1, 1
	for k := 0; k < ax; k++ {
		outer *= a.shape[k]
	}
	for k := ax + 1; k < len(a.shape); k++ {
		inner *= a.shape[k]
	}

	outShape := a.Shape()
	outShape[ax] = len(indices)
	out := &Array{dtype: a.dtype, shape: outShape, data: make([]float64, outer*len(indices)*inner)}
	for o := 0; o < outer; o++ {
		srcBase := o * dim * inner
		dstBase := o * len(indices) * inner
		for j, i := range indices {
			copy(out.data[dstBase+j*inner:dstBase+(j+1)*inner], a.data[srcBase+i*inner:srcBase+(i+1)*inner])
		}
	}

	return out, nil
}

// NumBlocks2D returns the number of trailing 2-D blocks in the array, i.e.
// the product of all axes except the last two. Fails with ErrShape when the
// rank is below 2.
// Complexity: O(ndim).
func (a *Array) NumBlocks2D() (int, error) {
	if len(a.shape) < 2 {
		return 0, fmt.Errorf("rank %d has no 2-D blocks: %w", len(a.shape), ErrShape)
	}
	nb := 1
	for k := 0; k < len(a.shape)-2; k++ {
		nb *= a.shape[k]
	}

	return nb, nil
}

// Block2D returns a zero-copy VIEW of the i-th trailing 2-D block. Blocks
// are contiguous in row-major storage, so the view is a plain sub-slice.
// Complexity: O(ndim).
func (a *Array) Block2D(i int) (*Array, error) {
	nb, err := a.NumBlocks2D()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= nb {
		return nil, fmt.Errorf("block %d of %d: %w", i, nb, ErrIndex)
	}
	r := a.shape[len(a.shape)-2]
	c := a.shape[len(a.shape)-1]

	return &Array{dtype: a.dtype, shape: []int{r, c}, data: a.data[i*r*c : (i+1)*r*c]}, nil
}

// SetBlock2D copies src over the i-th trailing 2-D block. src must match
// the block shape exactly; values are quantized to the receiver's kind.
// Complexity: O(block size).
func (a *Array) SetBlock2D(i int, src *Array) error {
	dst, err := a.Block2D(i)
	if err != nil {
		return err
	}
	if src == nil {
		return ErrNilArray
	}
	if src.NDim() != 2 || src.shape[0] != dst.shape[0] || src.shape[1] != dst.shape[1] {
		return fmt.Errorf("block shape %v, source shape %v: %w", dst.shape, src.shape, ErrShape)
	}
	for k, v := range src.data {
		dst.data[k] = Quantize(v, a.dtype)
	}

	return nil
}

// Row returns a zero-copy VIEW of the i-th trailing 1-D slice (the last
// axis). Fails with ErrShape on rank-0 arrays.
// Complexity: O(1).
func (a *Array) Row(i int) (*Array, error) {
	if len(a.shape) == 0 {
		return nil, fmt.Errorf("rank 0 has no rows: %w", ErrShape)
	}
	w := a.shape[len(a.shape)-1]
	nr := len(a.data) / w
	if i < 0 || i >= nr {
		return nil, fmt.Errorf("row %d of %d: %w", i, nr, ErrIndex)
	}

	return &Array{dtype: a.dtype, shape: []int{w}, data: a.data[i*w : (i+1)*w]}, nil
}
