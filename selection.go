// SPDX-License-Identifier: MIT

// Package linop: coordinate selection and its adjoint notion, embedding.
// Selection picks coordinates of a vector; Embedding routes coordinates of
// a small vector into chosen slots of a larger one, filling the untouched
// slots with a constant. With a zero fill and an in-order take list the two
// are exact transposes of each other.
package linop

import (
	"fmt"

	"github.com/katalvlaran/linop/nd"
)

// NewSelection returns the (len(indices), n) operator that picks the given
// coordinates of an n-vector, in order and with repetition allowed:
// (S x)[j] = x[indices[j]].
//
// Behavior highlights:
//   - The result may not be taller than its input is wide: len(indices)
//     must not exceed n. A map into a larger space is an embedding, use
//     NewEmbedding for that.
//   - T() is the zero-fill embedding scattering back into n dimensions.
//   - Dense form is the corresponding 0/1 matrix (row j has a single one
//     in column indices[j]).
//   - Products never materialize anything and cost O(len(indices)) per
//     vector.
//
// Errors: ErrBadShape for empty or oversized index lists or n <= 0,
// ErrUnsupportedDType, ErrBadIndex for out-of-range indices.
func NewSelection(indices []int, n int, dt nd.DType) (*Operator, error) {
	if err := checkShape(n, n); err != nil {
		return nil, opErrorf(opSelection, err)
	}
	if err := checkKind(dt); err != nil {
		return nil, opErrorf(opSelection, err)
	}
	if err := checkIndices(indices, n); err != nil {
		return nil, opErrorf(opSelection, err)
	}
	if len(indices) > n {
		return nil, opErrorf(opSelection, fmt.Errorf("%d indices into %d coordinates make the map taller than wide, use NewEmbedding: %w", len(indices), n, ErrBadShape))
	}
	take := make([]int, len(indices))
	copy(take, indices)

	op, err := New(len(take), n, dt,
		BroadcastMatVec(func(v *nd.Array) (*nd.Array, error) {
			y := make([]float64, len(take))
			for j, i := range take {
				y[j] = v.Data()[i]
			}

			return nd.New(dt, y, len(y))
		}),
		WithApply(func(x *nd.Array, axis int) (*nd.Array, error) {
			// Selection along an axis is exactly a gather on that axis.
			return x.TakeAxis(axis, take)
		}),
		WithToDense(func() (*nd.Array, error) { return selectionDense(take, n, dt) }),
		WithTranspose(func() (*Operator, error) {
			return NewEmbedding(ramp(len(take)), take, n, len(take), 0, dt)
		}),
		WithAsType(func(target nd.DType) (*Operator, error) { return NewSelection(take, n, target) }),
	)
	if err != nil {
		return nil, err
	}
	op.ident = selectionIdent{take: take}

	return op, nil
}

// selectionDense scatters ones into the 0/1 selection matrix.
func selectionDense(take []int, n int, dt nd.DType) (*nd.Array, error) {
	d, err := nd.Zeros(dt, len(take), n)
	if err != nil {
		return nil, err
	}
	for j, i := range take {
		d.Data()[j*n+i] = 1
	}

	return d, nil
}

// ramp returns [0, 1, ..., n-1].
func ramp(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}

	return s
}

// isRamp reports whether s is exactly [0, 1, ..., len(s)-1].
func isRamp(s []int) bool {
	for i, v := range s {
		if v != i {
			return false
		}
	}

	return true
}

// NewEmbedding returns the (rows, cols) operator routing coordinates of a
// cols-vector into a rows-vector: (E x)[putIdx[j]] = x[takeIdx[j]], every
// untouched coordinate set to fill. Duplicate targets resolve
// deterministically, last write wins.
//
// Behavior highlights:
//   - rows must not be smaller than cols; a map into a smaller space is a
//     selection, use NewSelection for that.
//   - With fill == 0 and takeIdx == [0..cols), T() is the matching
//     selection over putIdx. A nonzero fill (or a permuted take list)
//     breaks that adjoint pairing, so the transpose falls back to the
//     generic lazy view over the dense form.
//   - Dense form: the 0/1 routing matrix, with fill written across every
//     untargeted row. That is exactly what probing the kernel with
//     identity columns yields, so the dense form and the kernel agree.
//
// Errors: ErrBadShape for empty or mismatched index lists or a rows < cols
// shape, ErrUnsupportedDType, ErrBadIndex.
func NewEmbedding(takeIdx, putIdx []int, rows, cols int, fill float64, dt nd.DType) (*Operator, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, opErrorf(opEmbedding, err)
	}
	if err := checkKind(dt); err != nil {
		return nil, opErrorf(opEmbedding, err)
	}
	if len(takeIdx) != len(putIdx) {
		return nil, opErrorf(opEmbedding, fmt.Errorf("%d take indices vs %d put indices: %w", len(takeIdx), len(putIdx), ErrBadShape))
	}
	if err := checkIndices(takeIdx, cols); err != nil {
		return nil, opErrorf(opEmbedding, err)
	}
	if err := checkIndices(putIdx, rows); err != nil {
		return nil, opErrorf(opEmbedding, err)
	}
	if rows < cols {
		return nil, opErrorf(opEmbedding, fmt.Errorf("shape %dx%d maps into a smaller space, use NewSelection: %w", rows, cols, ErrBadShape))
	}
	take := make([]int, len(takeIdx))
	copy(take, takeIdx)
	put := make([]int, len(putIdx))
	copy(put, putIdx)

	opts := []Option{
		WithToDense(func() (*nd.Array, error) { return embeddingDense(take, put, rows, cols, fill, dt) }),
		WithAsType(func(target nd.DType) (*Operator, error) {
			return NewEmbedding(take, put, rows, cols, fill, target)
		}),
	}
	if fill == 0 && isRamp(take) {
		opts = append(opts, WithTranspose(func() (*Operator, error) {
			return NewSelection(put, rows, dt)
		}))
	}

	op, err := New(rows, cols, dt,
		BroadcastMatVec(func(v *nd.Array) (*nd.Array, error) {
			y := make([]float64, rows)
			for i := range y {
				y[i] = fill
			}
			for j := range put {
				y[put[j]] = v.Data()[take[j]]
			}

			return nd.New(dt, y, rows)
		}),
		opts...,
	)
	if err != nil {
		return nil, err
	}
	op.ident = embeddingIdent{take: take, put: put, fill: fill}

	return op, nil
}

// embeddingDense builds the routing matrix; untargeted rows spread fill.
func embeddingDense(take, put []int, rows, cols int, fill float64, dt nd.DType) (*nd.Array, error) {
	d, err := nd.Zeros(dt, rows, cols)
	if err != nil {
		return nil, err
	}
	targeted := make([]bool, rows)
	for j := range put {
		for jj := 0; jj < cols; jj++ {
			d.Data()[put[j]*cols+jj] = 0
		}
		d.Data()[put[j]*cols+take[j]] = 1 // last write wins on duplicate targets
		targeted[put[j]] = true
	}
	if fill != 0 {
		for i := 0; i < rows; i++ {
			if !targeted[i] {
				for j := 0; j < cols; j++ {
					d.Data()[i*cols+j] = fill
				}
			}
		}
	}

	return d, nil
}
