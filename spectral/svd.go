// SPDX-License-Identifier: MIT

package spectral

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/connectome/matrix"
)

const opSVD = "SVD"

// SVD is a rank-k truncated singular value decomposition A ≈ U·diag(Values)·Vᵗ.
type SVD struct {
	// Values are the singular values, descending.
	Values []float64
	// U and V are n×k with orthonormal columns.
	U, V *mat.Dense
}

// TruncatedSVD computes the k largest singular triplets of the square sparse
// matrix a.
//
// For a symmetric a the triplets come from the eigenpairs of largest
// magnitude: σ = |λ|, u = x, v = sign(λ)·x. Otherwise Lanczos runs on the
// normal operator AᵗA and u = A·v/σ (zero for σ = 0).
//
// Errors: see Eigs.
func TruncatedSVD(ctx context.Context, a *matrix.CSR, k int, opts ...Option) (*SVD, error) {
	if a == nil {
		return nil, fmt.Errorf("%s: %w", opSVD, ErrNilOperator)
	}
	if matrix.IsSymmetric(a) {
		return symmetricSVD(ctx, a, k, opts...)
	}
	eig, err := Eigs(ctx, normalOperator{a: a, tmp: make([]float64, a.Dim())}, k, LargestAlgebraic, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSVD, err)
	}
	n := a.Dim()
	out := &SVD{Values: make([]float64, k), U: mat.NewDense(n, k, nil), V: eig.Vectors}
	v := make([]float64, n)
	u := make([]float64, n)
	for i, lam := range eig.Values {
		sigma := math.Sqrt(math.Max(lam, 0))
		out.Values[i] = sigma
		if sigma == 0 {
			continue
		}
		mat.Col(v, i, eig.Vectors)
		if err := a.MulVec(u, v); err != nil {
			return nil, fmt.Errorf("%s: %w", opSVD, err)
		}
		for r := range u {
			u[r] /= sigma
		}
		out.U.SetCol(i, u)
	}

	return out, nil
}

func symmetricSVD(ctx context.Context, a *matrix.CSR, k int, opts ...Option) (*SVD, error) {
	eig, err := Eigs(ctx, a, k, LargestMagnitude, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSVD, err)
	}
	n := a.Dim()
	out := &SVD{Values: make([]float64, k), U: eig.Vectors, V: mat.NewDense(n, k, nil)}
	col := make([]float64, n)
	for i, lam := range eig.Values {
		out.Values[i] = math.Abs(lam)
		mat.Col(col, i, eig.Vectors)
		if lam < 0 {
			for r := range col {
				col[r] = -col[r]
			}
		}
		out.V.SetCol(i, col)
	}

	return out, nil
}

// normalOperator applies AᵗA without forming it.
type normalOperator struct {
	a   *matrix.CSR
	tmp []float64
}

func (o normalOperator) Dim() int { return o.a.Dim() }

func (o normalOperator) MulVec(dst, x []float64) error {
	if err := o.a.MulVec(o.tmp, x); err != nil {
		return err
	}

	return o.a.MulVecT(dst, o.tmp)
}
