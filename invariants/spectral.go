// SPDX-License-Identifier: MIT

package invariants

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/connectome/matrix"
	"github.com/katalvlaran/connectome/spectral"
)

// ApproxTriangles estimates per-vertex triangle counts from the k eigenpairs
// of largest magnitude:
//
//	t(v) ≈ |round(Σ_i λ_i³ · u_i(v)² / 2)|
//
// a must be a binary adjacency (see matrix.Binarize): weights are cubed into
// the sum. The estimate is exact when k = n; with small k it is only a rough
// guide. k is capped at n.
// Errors: ErrNilGraph, spectral errors (ErrNonConvergence is retryable).
func ApproxTriangles(ctx context.Context, a *matrix.CSR, k int, opts ...spectral.Option) ([]float64, error) {
	if a == nil {
		return nil, ErrNilGraph
	}
	n := a.Dim()
	if k > n {
		k = n
	}
	eig, err := spectral.Eigs(ctx, a, k, spectral.LargestMagnitude, opts...)
	if err != nil {
		return nil, fmt.Errorf("ApproxTriangles: %w", err)
	}
	tri := make([]float64, n)
	for i, lam := range eig.Values {
		l3 := lam * lam * lam
		for v := 0; v < n; v++ {
			u := eig.Vectors.At(v, i)
			tri[v] += l3 * u * u
		}
	}
	for v := range tri {
		tri[v] = math.Abs(math.Round(tri[v] / 2))
	}

	return tri, nil
}

// EigenSpectrum returns k eigenvalues of a in the order selected by which.
// Errors: ErrNilGraph, spectral errors.
func EigenSpectrum(ctx context.Context, a *matrix.CSR, k int, which spectral.Which, opts ...spectral.Option) ([]float64, error) {
	if a == nil {
		return nil, ErrNilGraph
	}
	eig, err := spectral.Eigs(ctx, a, k, which, opts...)
	if err != nil {
		return nil, fmt.Errorf("EigenSpectrum: %w", err)
	}

	return eig.Values, nil
}

// MaxAverageDegree returns the largest algebraic eigenvalue of a, an upper
// bound on the average degree of every subgraph of a.
// Errors: ErrNilGraph, spectral errors.
func MaxAverageDegree(ctx context.Context, a *matrix.CSR, opts ...spectral.Option) (float64, error) {
	if a == nil {
		return 0, ErrNilGraph
	}
	eig, err := spectral.Eigs(ctx, a, 1, spectral.LargestAlgebraic, opts...)
	if err != nil {
		return 0, fmt.Errorf("MaxAverageDegree: %w", err)
	}

	return eig.Values[0], nil
}
