// SPDX-License-Identifier: MIT

// Package linop: the matrix-property registry. Four tri-state flags with
// write-once semantics: unknown until decided, and a decision is final. The
// validated setter is the single mutation path; constructors funnel through
// setProp too, so no flag ever bypasses the invariants.
package linop

import "fmt"

// Prop reads a registry flag. Unknown means nobody has decided it yet.
// Errors: ErrUnknownProperty for names outside the registry.
// Complexity: O(1).
func (a *Operator) Prop(p Property) (Tristate, error) {
	if a == nil {
		return TriUnknown, opErrorf(opSetProp, ErrNilOperator)
	}
	if !p.valid() {
		return TriUnknown, opErrorf(opSetProp, ErrUnknownProperty)
	}

	return a.props[p], nil
}

// IsSymmetric reports whether the symmetric flag is decided true.
// Complexity: O(1).
func (a *Operator) IsSymmetric() bool { return a.props[Symmetric] == TriTrue }

// SetProp decides a registry flag.
//
// Behavior highlights:
//   - Re-asserting the already decided value is a no-op.
//   - Overwriting a decided flag with the opposite value fails with
//     ErrPropertyConflict: decisions are final.
//   - Symmetric=true requires a square operator (ErrNonSquare).
//   - PositiveDefinite=true requires Symmetric to already be true
//     (ErrNotSymmetric); marking PositiveDefinite=false is always allowed.
//
// The registry stores claims, it does not verify them against the entries:
// asserting a false property yields wrong derived quantities, not errors.
// Complexity: O(1).
func (a *Operator) SetProp(p Property, value bool) error {
	if a == nil {
		return opErrorf(opSetProp, ErrNilOperator)
	}
	if !p.valid() {
		return opErrorf(opSetProp, ErrUnknownProperty)
	}

	want := TriFalse
	if value {
		want = TriTrue
	}
	cur := a.props[p]
	if cur == want {
		return nil // idempotent re-assertion
	}
	if cur != TriUnknown {
		return opErrorf(opSetProp, fmt.Errorf("%s is %s, refusing %s: %w", p, cur, want, ErrPropertyConflict))
	}

	if value {
		switch p {
		case Symmetric:
			if !a.IsSquare() {
				return opErrorf(opSetProp, ErrNonSquare)
			}
		case PositiveDefinite:
			if a.props[Symmetric] != TriTrue {
				return opErrorf(opSetProp, ErrNotSymmetric)
			}
		}
	}

	a.props[p] = want

	return nil
}

// SetSymmetric decides the symmetric flag. See SetProp for the write-once
// rules. Complexity: O(1).
func (a *Operator) SetSymmetric(value bool) error { return a.SetProp(Symmetric, value) }

// SetLowerTriangular decides the lower-triangular flag. Complexity: O(1).
func (a *Operator) SetLowerTriangular(value bool) error { return a.SetProp(LowerTriangular, value) }

// SetUpperTriangular decides the upper-triangular flag. Complexity: O(1).
func (a *Operator) SetUpperTriangular(value bool) error { return a.SetProp(UpperTriangular, value) }

// SetPositiveDefinite decides the positive-definite flag; deciding true
// requires the symmetric flag to already be true. Complexity: O(1).
func (a *Operator) SetPositiveDefinite(value bool) error {
	return a.SetProp(PositiveDefinite, value)
}

// setProps is the constructors' bulk path: decide several flags, skipping
// unknowns. Used after New where the invariant ordering (symmetric before
// positive-definite) is under package control.
func (a *Operator) setProps(flags map[Property]Tristate) error {
	// Deterministic order, and symmetric must land before posdef.
	for _, p := range []Property{Symmetric, LowerTriangular, UpperTriangular, PositiveDefinite} {
		v, ok := flags[p]
		if !ok || v == TriUnknown {
			continue
		}
		if err := a.SetProp(p, v == TriTrue); err != nil {
			return err
		}
	}

	return nil
}

// copyDecidedProps carries decided flags from src onto a view operator that
// represents the same map (type casts, symmetrized wrappers). Slots already
// decided on the receiver are left alone.
func (a *Operator) copyDecidedProps(src *Operator) {
	for p := Property(0); p < numProperties; p++ {
		if a.props[p] == TriUnknown && src.props[p] != TriUnknown {
			a.props[p] = src.props[p]
		}
	}
}
