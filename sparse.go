// SPDX-License-Identifier: MIT

// Package linop: sparse operators in compressed-sparse-row form. Entries
// arrive as coordinate triples, are canonicalized (sorted, duplicates
// summed, explicit zeros kept out), and products walk only the stored
// entries.
package linop

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/linop/nd"
)

// Entry is one coordinate triple of a sparse operator.
type Entry struct {
	Row, Col int
	Val      float64
}

// csr is the compressed-sparse-row storage: row i owns the half-open slice
// [rowPtr[i], rowPtr[i+1]) of colIdx/vals, with colIdx ascending per row.
type csr struct {
	rows, cols int
	rowPtr     []int
	colIdx     []int
	vals       []float64
}

// buildCSR canonicalizes coordinate triples.
// Determinism: entries sort by (row, col); duplicates sum in that order.
func buildCSR(rows, cols int, entries []Entry) (*csr, error) {
	es := make([]Entry, len(entries))
	copy(es, entries)
	for _, e := range es {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, fmt.Errorf("entry (%d,%d) outside %dx%d: %w", e.Row, e.Col, rows, cols, ErrBadIndex)
		}
	}
	sort.Slice(es, func(i, j int) bool {
		if es[i].Row != es[j].Row {
			return es[i].Row < es[j].Row
		}

		return es[i].Col < es[j].Col
	})

	c := &csr{rows: rows, cols: cols, rowPtr: make([]int, rows+1)}
	for i := 0; i < len(es); {
		j := i + 1
		v := es[i].Val
		for j < len(es) && es[j].Row == es[i].Row && es[j].Col == es[i].Col {
			v += es[j].Val
			j++
		}
		if v != 0 {
			c.colIdx = append(c.colIdx, es[i].Col)
			c.vals = append(c.vals, v)
			c.rowPtr[es[i].Row+1]++
		}
		i = j
	}
	for r := 0; r < rows; r++ {
		c.rowPtr[r+1] += c.rowPtr[r]
	}

	return c, nil
}

// matVec computes y = C @ v into a fresh slice. Complexity: O(nnz).
func (c *csr) matVec(v []float64) []float64 {
	y := make([]float64, c.rows)
	for r := 0; r < c.rows; r++ {
		s := 0.0
		for k := c.rowPtr[r]; k < c.rowPtr[r+1]; k++ {
			s += c.vals[k] * v[c.colIdx[k]]
		}
		y[r] = s
	}

	return y
}

// vecMat computes y = v @ C into a fresh slice. Complexity: O(nnz).
func (c *csr) vecMat(v []float64) []float64 {
	y := make([]float64, c.cols)
	for r := 0; r < c.rows; r++ {
		vr := v[r]
		if vr == 0 {
			continue
		}
		for k := c.rowPtr[r]; k < c.rowPtr[r+1]; k++ {
			y[c.colIdx[k]] += c.vals[k] * vr
		}
	}

	return y
}

// transposed returns the CSR of Cᵀ. Complexity: O(nnz + rows + cols).
func (c *csr) transposed() *csr {
	t := &csr{
		rows:   c.cols,
		cols:   c.rows,
		rowPtr: make([]int, c.cols+1),
		colIdx: make([]int, len(c.colIdx)),
		vals:   make([]float64, len(c.vals)),
	}
	for _, col := range c.colIdx {
		t.rowPtr[col+1]++
	}
	for r := 0; r < t.rows; r++ {
		t.rowPtr[r+1] += t.rowPtr[r]
	}
	next := make([]int, t.rows)
	copy(next, t.rowPtr[:t.rows])
	for r := 0; r < c.rows; r++ {
		for k := c.rowPtr[r]; k < c.rowPtr[r+1]; k++ {
			col := c.colIdx[k]
			p := next[col]
			t.colIdx[p] = r
			t.vals[p] = c.vals[k]
			next[col]++
		}
	}

	return t
}

// NewSparse builds an operator from coordinate triples.
//
// Behavior highlights:
//   - Duplicated coordinates sum; entries that cancel to zero are dropped
//     from storage (they still count as zero, not as structure).
//   - Products cost O(nnz) per vector; densification scatters the stored
//     entries into a zero matrix.
//   - Transposition re-wraps the transposed storage; inversion goes
//     through the generic factorization pipeline on the dense form.
//
// Errors: ErrBadShape, ErrUnsupportedDType, ErrBadIndex for out-of-range
// triples.
// Complexity: O(nnz·log(nnz)) canonicalization.
func NewSparse(rows, cols int, dt nd.DType, entries []Entry) (*Operator, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, opErrorf(opSparse, err)
	}
	if err := checkKind(dt); err != nil {
		return nil, opErrorf(opSparse, err)
	}
	c, err := buildCSR(rows, cols, entries)
	if err != nil {
		return nil, opErrorf(opSparse, err)
	}

	return newSparseFromCSR(c, dt)
}

func newSparseFromCSR(c *csr, dt nd.DType) (*Operator, error) {
	op, err := New(c.rows, c.cols, dt,
		BroadcastMatVec(func(v *nd.Array) (*nd.Array, error) {
			return nd.New(dt, c.matVec(v.Data()), c.rows)
		}),
		WithRMatMul(BroadcastRMatVec(func(v *nd.Array) (*nd.Array, error) {
			return nd.New(dt, c.vecMat(v.Data()), c.cols)
		})),
		WithToDense(func() (*nd.Array, error) {
			d, err := nd.Zeros(dt, c.rows, c.cols)
			if err != nil {
				return nil, err
			}
			for r := 0; r < c.rows; r++ {
				for k := c.rowPtr[r]; k < c.rowPtr[r+1]; k++ {
					d.Data()[r*c.cols+c.colIdx[k]] = c.vals[k]
				}
			}

			return d, nil
		}),
		WithTranspose(func() (*Operator, error) {
			return newSparseFromCSR(c.transposed(), dt)
		}),
		WithAsType(func(target nd.DType) (*Operator, error) {
			t := &csr{rows: c.rows, cols: c.cols, rowPtr: c.rowPtr, colIdx: c.colIdx}
			t.vals = make([]float64, len(c.vals))
			for i, v := range c.vals {
				t.vals[i] = nd.Quantize(v, target)
			}

			return newSparseFromCSR(t, target)
		}),
		WithTrace(func() (float64, error) {
			if c.rows != c.cols {
				return 0, ErrNonSquare
			}
			s := 0.0
			for r := 0; r < c.rows; r++ {
				for k := c.rowPtr[r]; k < c.rowPtr[r+1]; k++ {
					if c.colIdx[k] == r {
						s += c.vals[k]
					}
				}
			}

			return s, nil
		}),
	)
	if err != nil {
		return nil, err
	}
	op.ident = sparseIdent{c: c}

	return op, nil
}
