// SPDX-License-Identifier: MIT

package spectral

import (
	"fmt"
	"math"
)

// Which selects the part of the spectrum Eigs returns.
type Which int

const (
	// LargestMagnitude orders eigenvalues by |λ| descending.
	LargestMagnitude Which = iota
	// LargestAlgebraic orders eigenvalues by λ descending.
	LargestAlgebraic
	// SmallestAlgebraic orders eigenvalues by λ ascending.
	SmallestAlgebraic
)

// String returns the config spelling of w.
func (w Which) String() string {
	switch w {
	case LargestMagnitude:
		return "LM"
	case LargestAlgebraic:
		return "LA"
	case SmallestAlgebraic:
		return "SA"
	default:
		return fmt.Sprintf("Which(%d)", int(w))
	}
}

// ParseWhich parses "LM", "LA" or "SA".
func ParseWhich(s string) (Which, error) {
	switch s {
	case "LM", "lm":
		return LargestMagnitude, nil
	case "LA", "la":
		return LargestAlgebraic, nil
	case "SA", "sa":
		return SmallestAlgebraic, nil
	default:
		return 0, fmt.Errorf("spectral: unknown spectrum selector %q", s)
	}
}

const (
	// DefaultTolerance is the relative residual ‖Ax−θx‖ ≤ tol·‖A‖ accepted
	// for a Ritz pair.
	DefaultTolerance = 1e-10
	// DefaultMaxBasis bounds the Krylov basis size (raised to 3k when needed).
	DefaultMaxBasis = 128
	// DefaultMaxRestarts bounds explicit restarts.
	DefaultMaxRestarts = 20
	// DefaultDenseThreshold is the largest n solved by a dense eigendecomposition.
	DefaultDenseThreshold = 64
	// DefaultSeed seeds the start vector.
	DefaultSeed int64 = 1

	checkEvery = 8
)

// Option configures Eigs and SVD.
type Option func(*Options)

// Options holds solver parameters. Use the With* constructors.
type Options struct {
	Tol            float64
	MaxBasis       int
	MaxRestarts    int
	DenseThreshold int
	Seed           int64
}

// DefaultOptions returns the solver defaults.
func DefaultOptions() Options {
	return Options{
		Tol:            DefaultTolerance,
		MaxBasis:       DefaultMaxBasis,
		MaxRestarts:    DefaultMaxRestarts,
		DenseThreshold: DefaultDenseThreshold,
		Seed:           DefaultSeed,
	}
}

// WithTolerance sets the convergence tolerance. Panics unless 0 < tol < 1.
func WithTolerance(tol float64) Option {
	if !(tol > 0 && tol < 1) || math.IsNaN(tol) {
		panic("spectral: WithTolerance: tol must be in (0,1)")
	}

	return func(o *Options) { o.Tol = tol }
}

// WithMaxBasis sets the Krylov basis bound. Panics when m < 2.
func WithMaxBasis(m int) Option {
	if m < 2 {
		panic("spectral: WithMaxBasis: basis must hold at least 2 vectors")
	}

	return func(o *Options) { o.MaxBasis = m }
}

// WithMaxRestarts sets the restart budget. Panics when r < 0.
func WithMaxRestarts(r int) Option {
	if r < 0 {
		panic("spectral: WithMaxRestarts: restarts must be >= 0")
	}

	return func(o *Options) { o.MaxRestarts = r }
}

// WithDenseThreshold sets the largest n solved densely; 0 disables the dense path.
// Panics when n < 0.
func WithDenseThreshold(n int) Option {
	if n < 0 {
		panic("spectral: WithDenseThreshold: threshold must be >= 0")
	}

	return func(o *Options) { o.DenseThreshold = n }
}

// WithSeed seeds the start and restart vectors.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed }
}

func gatherOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
