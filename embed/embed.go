// SPDX-License-Identifier: MIT

package embed

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/connectome/matrix"
	"github.com/katalvlaran/connectome/spectral"
)

// DefaultMaxDim is the dimension cap used when Embedder.MaxDim is 0.
const DefaultMaxDim = 100

// Embedder holds the embedding configuration.
type Embedder struct {
	// MaxDim caps the requested dimension; 0 uses DefaultMaxDim.
	MaxDim int
	// Transform applied before decomposition.
	Transform Transform
	// Directed keeps separate left/right embeddings for non-symmetric input.
	Directed bool
	// Options are passed to the truncated SVD.
	Options []spectral.Option
}

// Result is a rank-d spectral embedding.
type Result struct {
	// Values are the singular values, descending.
	Values []float64
	// Left and Right are the n×d singular vectors. For undirected input
	// Right equals Left up to the signs of negative eigenvalues.
	Left, Right *mat.Dense
	// Directed reports whether Left and Right were computed separately.
	Directed bool
}

// Dim returns d.
func (r *Result) Dim() int { return len(r.Values) }

// Unscaled returns the left singular vectors.
func (r *Result) Unscaled() *mat.Dense { return r.Left }

// Scaled returns Left·diag(√σ).
func (r *Result) Scaled() *mat.Dense { return scale(r.Left, r.Values) }

// ScaledRight returns Right·diag(√σ).
func (r *Result) ScaledRight() *mat.Dense { return scale(r.Right, r.Values) }

// Concat returns [Left | Right] (n×2d), scaled by √σ when scaled is set.
func (r *Result) Concat(scaled bool) *mat.Dense {
	left, right := r.Left, r.Right
	if scaled {
		left, right = r.Scaled(), r.ScaledRight()
	}
	n, d := left.Dims()
	out := mat.NewDense(n, 2*d, nil)
	out.Slice(0, n, 0, d).(*mat.Dense).Copy(left)
	out.Slice(0, n, d, 2*d).(*mat.Dense).Copy(right)

	return out
}

func scale(x *mat.Dense, sigma []float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 { return v * math.Sqrt(sigma[j]) }, x)

	return &out
}

// Embed computes the rank-d embedding of a.
//
// Errors: ErrNilGraph, ErrBadDimension (d < 1, d > MaxDim or d > n),
// ErrAsymmetric (undirected mode on a non-symmetric matrix), spectral errors.
func (e *Embedder) Embed(ctx context.Context, a *matrix.CSR, d int) (*Result, error) {
	if a == nil {
		return nil, ErrNilGraph
	}
	maxDim := e.MaxDim
	if maxDim <= 0 {
		maxDim = DefaultMaxDim
	}
	if d < 1 || d > maxDim || d > a.Dim() {
		return nil, fmt.Errorf("Embed: d=%d max=%d n=%d: %w", d, maxDim, a.Dim(), ErrBadDimension)
	}
	symmetric := matrix.IsSymmetric(a)
	if !symmetric && !e.Directed {
		return nil, fmt.Errorf("Embed: %w", ErrAsymmetric)
	}
	t, err := e.Transform.Apply(a)
	if err != nil {
		return nil, fmt.Errorf("Embed: %w", err)
	}
	svd, err := spectral.TruncatedSVD(ctx, t, d, e.Options...)
	if err != nil {
		return nil, fmt.Errorf("Embed: %w", err)
	}

	return &Result{Values: svd.Values, Left: svd.U, Right: svd.V, Directed: !symmetric}, nil
}
