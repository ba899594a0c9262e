// SPDX-License-Identifier: MIT

package embed

import (
	"fmt"
	"math"

	"github.com/katalvlaran/connectome/matrix"
)

// Transform selects the matrix that is decomposed.
type Transform int

const (
	// TransformAdjacency decomposes A itself.
	TransformAdjacency Transform = iota
	// TransformAugmented decomposes A + diag(d_i/(n−1)), the usual diagonal
	// augmentation for adjacency spectral embedding of loopless graphs.
	TransformAugmented
	// TransformLaplacian decomposes D^{-1/2}·A·D^{-1/2} (isolated rows stay zero).
	TransformLaplacian
)

// String returns the config spelling.
func (t Transform) String() string {
	switch t {
	case TransformAdjacency:
		return "adjacency"
	case TransformAugmented:
		return "augmented"
	case TransformLaplacian:
		return "laplacian"
	default:
		return fmt.Sprintf("Transform(%d)", int(t))
	}
}

// ParseTransform parses "adjacency", "augmented" or "laplacian".
func ParseTransform(s string) (Transform, error) {
	for _, t := range []Transform{TransformAdjacency, TransformAugmented, TransformLaplacian} {
		if t.String() == s {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownTransform, s)
}

// Apply returns the transformed matrix. a is not modified.
// Degrees are weighted row sums.
func (t Transform) Apply(a *matrix.CSR) (*matrix.CSR, error) {
	switch t {
	case TransformAdjacency:
		return a, nil
	case TransformAugmented:
		n := a.Dim()
		diag := rowSums(a)
		if n > 1 {
			for i := range diag {
				diag[i] /= float64(n - 1)
			}
		}
		return matrix.AddDiagonal(a, diag)
	case TransformLaplacian:
		s := rowSums(a)
		for i, d := range s {
			if d > 0 {
				s[i] = 1 / math.Sqrt(d)
			} else {
				s[i] = 0
			}
		}
		return matrix.ScaleSym(a, s)
	default:
		return nil, fmt.Errorf("Apply: %w: %d", ErrUnknownTransform, int(t))
	}
}

func rowSums(a *matrix.CSR) []float64 {
	out := make([]float64, a.Dim())
	for i := range out {
		_, vals := a.Row(i)
		for _, w := range vals {
			out[i] += w
		}
	}

	return out
}
