// SPDX-License-Identifier: MIT

// Package linop: operator equality. Equality is defined only between
// operators of the same explicit-data kind; composite views (transposes,
// inverses, casts, arithmetic, plain kernel operators) carry no explicit
// data and compare equal only when pointer-identical.
package linop

import "github.com/katalvlaran/linop/nd"

// ident is the explicit construction record of a structured variant. Each
// variant's constructor installs its own implementation; comparing records
// of different dynamic types yields false.
type ident interface {
	equalIdent(other ident) bool
}

type identityIdent struct{}

func (identityIdent) equalIdent(other ident) bool {
	_, ok := other.(identityIdent)

	return ok
}

type matrixIdent struct{ store *nd.Array }

func (m matrixIdent) equalIdent(other ident) bool {
	o, ok := other.(matrixIdent)

	return ok && m.store.Equal(o.store)
}

type sparseIdent struct{ c *csr }

// equalIdent compares canonical CSR storage; canonicalization makes this an
// exact elementwise comparison of the represented matrices.
func (s sparseIdent) equalIdent(other ident) bool {
	o, ok := other.(sparseIdent)

	return ok &&
		equalInts(s.c.rowPtr, o.c.rowPtr) &&
		equalInts(s.c.colIdx, o.c.colIdx) &&
		equalFloats(s.c.vals, o.c.vals)
}

type selectionIdent struct{ take []int }

func (s selectionIdent) equalIdent(other ident) bool {
	o, ok := other.(selectionIdent)

	return ok && equalInts(s.take, o.take)
}

type embeddingIdent struct {
	take, put []int
	fill      float64
}

func (e embeddingIdent) equalIdent(other ident) bool {
	o, ok := other.(embeddingIdent)

	return ok && equalInts(e.take, o.take) && equalInts(e.put, o.put) && e.fill == o.fill
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Equal reports whether two operators are the same structured variant with
// the same shape, kind and explicit content.
//
// Behavior highlights:
//   - Pointer-identical operators are equal regardless of kind.
//   - Operators of different variants never compare equal, even when their
//     dense forms coincide; neither side is densified.
//   - Matrix and sparse wrappers compare elementwise exactly; selections
//     and embeddings compare their index lists (and fill).
//
// Complexity: O(explicit content size).
func Equal(a, b *Operator) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if a.ident == nil || b.ident == nil {
		return false
	}
	if a.rows != b.rows || a.cols != b.cols || a.dtype != b.dtype {
		return false
	}

	return a.ident.equalIdent(b.ident)
}
