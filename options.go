// SPDX-License-Identifier: MIT

// Package linop: functional configuration for operator construction. This
// file defines:
//   - Option / callbacks (functional options with internal state),
//   - WithX constructors with strong validation (panic on nil callbacks),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state, options only install hooks.
//   - Safe by construction: panic only on nil callbacks (programmer error);
//     user-triggered failures stay in the error channel.
//   - Every installed callback changes behavior; none is a dead switch.
package linop

// callbacks holds the optional capabilities gathered from options. Absent
// entries fall back to derived implementations (densify, factorize, wrap).
type callbacks struct {
	rmatmul     MatMulFunc
	apply       ApplyFunc
	todense     DenseFunc
	transpose   TransposeFunc
	inverse     InverseFunc
	cholesky    CholeskyFunc
	astype      AsTypeFunc
	rank        RankFunc
	eigenvalues EigenvaluesFunc
	cond        CondFunc
	det         ScalarFunc
	logabsdet   ScalarFunc
	trace       ScalarFunc
}

// Option mutates the callback set during New. Options are applied in order;
// a later option overrides an earlier one for the same capability.
type Option func(*callbacks)

// mustNotNil guards option constructors: installing a nil callback is a
// programmer error, caught at construction rather than first use.
func mustNotNil(name string, isNil bool) {
	if isNil {
		panic("linop: With" + name + " requires a non-nil callback")
	}
}

// WithRMatMul installs a right-multiplication callback computing x @ A for
// stacked operands of shape (..., k, rows). Absent, RMatMul transposes.
func WithRMatMul(fn MatMulFunc) Option {
	mustNotNil("RMatMul", fn == nil)
	return func(c *callbacks) { c.rmatmul = fn }
}

// WithApply installs an axis-aware application callback. Absent, Apply
// shuffles the requested axis last and runs the matmul kernel.
func WithApply(fn ApplyFunc) Option {
	mustNotNil("Apply", fn == nil)
	return func(c *callbacks) { c.apply = fn }
}

// WithToDense installs a dense materialization callback. Absent, ToDense
// multiplies by the identity.
func WithToDense(fn DenseFunc) Option {
	mustNotNil("ToDense", fn == nil)
	return func(c *callbacks) { c.todense = fn }
}

// WithTranspose installs a transposition callback. Absent, T wraps the
// operator in a lazy transposed view.
func WithTranspose(fn TransposeFunc) Option {
	mustNotNil("Transpose", fn == nil)
	return func(c *callbacks) { c.transpose = fn }
}

// WithInverse installs an inversion callback. Absent, Inverse wraps the
// operator in a lazy factorization-backed view.
func WithInverse(fn InverseFunc) Option {
	mustNotNil("Inverse", fn == nil)
	return func(c *callbacks) { c.inverse = fn }
}

// WithCholesky installs a Cholesky callback. Absent, Cholesky densifies and
// factorizes with gonum.
func WithCholesky(fn CholeskyFunc) Option {
	mustNotNil("Cholesky", fn == nil)
	return func(c *callbacks) { c.cholesky = fn }
}

// WithAsType installs a kind-conversion callback; structured operators use
// it to re-derive themselves in the target kind instead of densifying.
func WithAsType(fn AsTypeFunc) Option {
	mustNotNil("AsType", fn == nil)
	return func(c *callbacks) { c.astype = fn }
}

// WithRank installs a rank callback. Absent, Rank runs an SVD of the dense
// materialization.
func WithRank(fn RankFunc) Option {
	mustNotNil("Rank", fn == nil)
	return func(c *callbacks) { c.rank = fn }
}

// WithEigenvalues installs an eigenvalue callback. Absent, Eigenvalues runs
// a dense (symmetric-aware) decomposition.
func WithEigenvalues(fn EigenvaluesFunc) Option {
	mustNotNil("Eigenvalues", fn == nil)
	return func(c *callbacks) { c.eigenvalues = fn }
}

// WithCond installs a condition-number callback covering every norm.
func WithCond(fn CondFunc) Option {
	mustNotNil("Cond", fn == nil)
	return func(c *callbacks) { c.cond = fn }
}

// WithDet installs a determinant callback.
func WithDet(fn ScalarFunc) Option {
	mustNotNil("Det", fn == nil)
	return func(c *callbacks) { c.det = fn }
}

// WithLogAbsDet installs a log-absolute-determinant callback.
func WithLogAbsDet(fn ScalarFunc) Option {
	mustNotNil("LogAbsDet", fn == nil)
	return func(c *callbacks) { c.logabsdet = fn }
}

// WithTrace installs a trace callback. Absent, Trace probes the diagonal
// with basis vectors.
func WithTrace(fn ScalarFunc) Option {
	mustNotNil("Trace", fn == nil)
	return func(c *callbacks) { c.trace = fn }
}

// gatherOptions folds the option list into a callback set.
func gatherOptions(opts []Option) callbacks {
	var c callbacks
	for _, o := range opts {
		o(&c)
	}

	return c
}
