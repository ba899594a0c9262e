// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for accumulators and numeric checks.
//
// Contract:
//   - Option constructors validate and panic on nonsensical values (programmer
//     error); algorithms never panic.
//   - No global state: every call resolves its own Options from defaults.

package matrix

import "math"

// Numeric policy defaults.
const (
	// DefaultEpsilon is the tolerance used by symmetry checks.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf rejects NaN/Inf weights on ingestion.
	DefaultValidateNaNInf = true

	// DefaultAllowLoops rejects diagonal entries in accumulators.
	DefaultAllowLoops = false

	// DefaultCompactThreshold is the number of buffered COO entries that
	// triggers an in-place sort+merge in an Accumulator.
	DefaultCompactThreshold = 1 << 22
)

const (
	panicEpsilonInvalid   = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicThresholdInvalid = "matrix: WithCompactThreshold: threshold must be > 0"
)

// Option mutates Options. Applying the same option twice is harmless.
type Option func(*Options)

// Options is the resolved configuration. Fields are unexported; use WithX.
type Options struct {
	eps              float64
	validateNaNInf   bool
	allowLoops       bool
	compactThreshold int
}

func defaultOptions() Options {
	return Options{
		eps:              DefaultEpsilon,
		validateNaNInf:   DefaultValidateNaNInf,
		allowLoops:       DefaultAllowLoops,
		compactThreshold: DefaultCompactThreshold,
	}
}

func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithEpsilon sets the tolerance for structural checks. Panics on eps<0 or NaN/Inf.
func WithEpsilon(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithLoops allows diagonal entries in an Accumulator.
func WithLoops() Option {
	return func(o *Options) { o.allowLoops = true }
}

// WithNoNaNInfValidation disables the finite-weight guard (trusted inputs only).
func WithNoNaNInfValidation() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithCompactThreshold sets the buffered-entry count that triggers compaction.
// Panics on n<=0.
func WithCompactThreshold(n int) Option {
	if n <= 0 {
		panic(panicThresholdInvalid)
	}

	return func(o *Options) { o.compactThreshold = n }
}
