// SPDX-License-Identifier: MIT

// Package linop: broadcasting adapters. Capability callbacks only need to
// handle a single 2-D block (or a single vector); these helpers lift them
// over stacked operands of shape (..., r, c), so every structured operator
// and user-supplied kernel gets batching for free.
package linop

import "github.com/katalvlaran/linop/nd"

// MatVecKernel maps one vector to one vector (a single matrix-vector
// product). Input length is the operator's contracted dimension.
type MatVecKernel func(v *nd.Array) (*nd.Array, error)

// MatMatKernel maps one 2-D block to one 2-D block (a single matrix-matrix
// product).
type MatMatKernel func(b *nd.Array) (*nd.Array, error)

// liftBlocks runs fn over every trailing 2-D block of x and reassembles the
// stack. Output block shape is discovered from the first block; all blocks
// must agree (they do for linear kernels).
// Determinism: blocks are processed in row-major stack order.
// Complexity: nb kernel calls plus O(output size) assembly.
func liftBlocks(fn MatMatKernel, x *nd.Array) (*nd.Array, error) {
	if x.NDim() == 2 {
		return fn(x)
	}
	nb, err := x.NumBlocks2D()
	if err != nil {
		return nil, err
	}

	var out *nd.Array
	var blockLen int
	for i := 0; i < nb; i++ {
		blk, err := x.Block2D(i)
		if err != nil {
			return nil, err
		}
		y, err := fn(blk)
		if err != nil {
			return nil, err
		}
		if out == nil {
			shape := x.Shape()
			ys := y.Shape()
			shape[len(shape)-2] = ys[0]
			shape[len(shape)-1] = ys[1]
			out, err = nd.Zeros(y.DType(), shape...)
			if err != nil {
				return nil, err
			}
			blockLen = ys[0] * ys[1]
		}
		copy(out.Data()[i*blockLen:(i+1)*blockLen], y.Data())
	}

	return out, nil
}

// BroadcastMatMat lifts a single-block kernel to the stacked matmul
// contract (..., r, c) -> (..., r', c).
func BroadcastMatMat(fn MatMatKernel) MatMulFunc {
	if fn == nil {
		panic("linop: BroadcastMatMat requires a non-nil kernel")
	}

	return func(x *nd.Array) (*nd.Array, error) {
		if x == nil {
			return nil, opErrorf(opBroadcast, ErrNilArray)
		}
		if x.NDim() < 2 {
			return nil, opErrorf(opBroadcast, ErrOperandRank)
		}

		return liftBlocks(fn, x)
	}
}

// BroadcastMatVec lifts a vector kernel to the stacked matmul contract:
// each column of every (r, k) block goes through fn independently.
// Complexity: k kernel calls per block plus O(block) strided copies.
func BroadcastMatVec(fn MatVecKernel) MatMulFunc {
	if fn == nil {
		panic("linop: BroadcastMatVec requires a non-nil kernel")
	}

	return BroadcastMatMat(func(b *nd.Array) (*nd.Array, error) {
		s := b.Shape()
		r, k := s[0], s[1]
		var out *nd.Array
		for j := 0; j < k; j++ {
			col := make([]float64, r)
			for i := 0; i < r; i++ {
				col[i] = b.Data()[i*k+j]
			}
			v, err := nd.New(b.DType(), col, r)
			if err != nil {
				return nil, err
			}
			y, err := fn(v)
			if err != nil {
				return nil, err
			}
			if y.NDim() != 1 {
				return nil, opErrorf(opBroadcast, ErrBadShape)
			}
			if out == nil {
				out, err = nd.Zeros(y.DType(), y.Size(), k)
				if err != nil {
					return nil, err
				}
			}
			for i := 0; i < y.Size(); i++ {
				out.Data()[i*k+j] = y.Data()[i]
			}
		}

		return out, nil
	})
}

// BroadcastRMatMat lifts a single-block right-product kernel ((k, r) ->
// (k, c)) over stacks (..., k, r) -> (..., k, c).
func BroadcastRMatMat(fn MatMatKernel) MatMulFunc {
	if fn == nil {
		panic("linop: BroadcastRMatMat requires a non-nil kernel")
	}

	return func(x *nd.Array) (*nd.Array, error) {
		if x == nil {
			return nil, opErrorf(opBroadcast, ErrNilArray)
		}
		if x.NDim() < 2 {
			return nil, opErrorf(opBroadcast, ErrOperandRank)
		}

		return liftBlocks(fn, x)
	}
}

// BroadcastRMatVec lifts a row-vector kernel to the stacked right-product
// contract: each row of every (k, r) block goes through fn independently.
// Rows are contiguous, so no strided copies are needed.
func BroadcastRMatVec(fn MatVecKernel) MatMulFunc {
	if fn == nil {
		panic("linop: BroadcastRMatVec requires a non-nil kernel")
	}

	return BroadcastRMatMat(func(b *nd.Array) (*nd.Array, error) {
		s := b.Shape()
		k := s[0]
		var out *nd.Array
		for i := 0; i < k; i++ {
			row, err := b.Row(i)
			if err != nil {
				return nil, err
			}
			y, err := fn(row)
			if err != nil {
				return nil, err
			}
			if y.NDim() != 1 {
				return nil, opErrorf(opBroadcast, ErrBadShape)
			}
			if out == nil {
				out, err = nd.Zeros(y.DType(), k, y.Size())
				if err != nil {
					return nil, err
				}
			}
			copy(out.Data()[i*y.Size():(i+1)*y.Size()], y.Data())
		}

		return out, nil
	})
}
