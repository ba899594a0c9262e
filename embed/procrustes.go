// SPDX-License-Identifier: MIT

package embed

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Alignment maps embeddings in Y's frame onto X's frame:
//
//	T(Y) = Scale · (Y − MeanY) · Rotation + MeanX
type Alignment struct {
	Rotation *mat.Dense // d×d orthogonal
	Scale    float64
	MeanX    []float64
	MeanY    []float64
	// Aligned is T(Y) for the Y passed to Procrustes.
	Aligned *mat.Dense
}

// Apply maps y (any row count, d columns) with the alignment.
// Errors: ErrShapeMismatch when y has the wrong column count.
func (al *Alignment) Apply(y *mat.Dense) (*mat.Dense, error) {
	_, d := y.Dims()
	if d != len(al.MeanY) {
		return nil, fmt.Errorf("Apply: %d columns, alignment has %d: %w", d, len(al.MeanY), ErrShapeMismatch)
	}
	y0 := center(y, al.MeanY)
	var z mat.Dense
	z.Mul(y0, al.Rotation)
	z.Apply(func(_, j int, v float64) float64 { return al.Scale*v + al.MeanX[j] }, &z)

	return &z, nil
}

// Residual returns ‖X − T(Y)‖_F for the aligned pair.
func (al *Alignment) Residual(x *mat.Dense) float64 {
	var diff mat.Dense
	diff.Sub(x, al.Aligned)

	return mat.Norm(&diff, 2)
}

// Procrustes aligns y to the reference x (equal shape n×d). Both are
// centered; the rotation R = V·Uᵗ comes from the SVD X₀ᵗY₀ = U·Σ·Vᵗ and the
// isotropic scale is ‖X₀‖_F/‖Y₀‖_F, the square root of the variance ratio.
//
// Errors: ErrNilGraph, ErrShapeMismatch, ErrDegenerate (Y without spread).
// Complexity: O(n·d² + d³).
func Procrustes(x, y *mat.Dense) (*Alignment, error) {
	if x == nil || y == nil {
		return nil, ErrNilGraph
	}
	nx, dx := x.Dims()
	ny, dy := y.Dims()
	if nx != ny || dx != dy {
		return nil, fmt.Errorf("Procrustes: X %d×%d Y %d×%d: %w", nx, dx, ny, dy, ErrShapeMismatch)
	}
	muX, muY := colMeans(x), colMeans(y)
	x0, y0 := center(x, muX), center(y, muY)
	normY := mat.Norm(y0, 2)
	if normY == 0 {
		return nil, fmt.Errorf("Procrustes: %w", ErrDegenerate)
	}

	var m mat.Dense
	m.Mul(x0.T(), y0)
	var svd mat.SVD
	if !svd.Factorize(&m, mat.SVDFull) {
		return nil, fmt.Errorf("Procrustes: SVD of %d×%d cross-covariance failed: %w", dx, dx, ErrDegenerate)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	var r mat.Dense
	r.Mul(&v, u.T())

	al := &Alignment{Rotation: &r, Scale: mat.Norm(x0, 2) / normY, MeanX: muX, MeanY: muY}
	aligned, err := al.Apply(y)
	if err != nil {
		return nil, err
	}
	al.Aligned = aligned

	return al, nil
}

func colMeans(a *mat.Dense) []float64 {
	n, d := a.Dims()
	mu := make([]float64, d)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			mu[j] += a.At(i, j)
		}
		if n > 0 {
			mu[j] /= float64(n)
		}
	}

	return mu
}

func center(a *mat.Dense, mu []float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 { return v - mu[j] }, a)

	return &out
}
