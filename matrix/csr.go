// SPDX-License-Identifier: MIT

// Package matrix - CSR storage (frozen, read-only).
//
// Layout:
//   - indptr has n+1 monotone entries; row i occupies [indptr[i], indptr[i+1]).
//   - indices holds column ids, strictly ascending inside each row.
//   - data holds the matching weights; explicit zeros are never stored.
//
// A CSR never changes after construction, so concurrent readers need no locks.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// MaxDim is the largest supported vertex count (column ids are int32).
const MaxDim = math.MaxInt32

const (
	opNewCSR  = "NewCSR"
	opMulVec  = "MulVec"
	opMulVecT = "MulVecT"
	opAt      = "At"
)

// CSR is an immutable square sparse matrix in compressed-sparse-row form.
type CSR struct {
	n       int
	indptr  []int64
	indices []int32
	data    []float64
}

// NewCSR validates the three arrays and wraps them without copying.
// The caller must not modify the slices afterwards.
//
// Errors: ErrBadShape (n<0 or n>MaxDim), ErrDimensionMismatch (array lengths),
// ErrMalformedCSR (non-monotone indptr, unsorted/duplicate/out-of-range columns, zero weights).
// Complexity: O(n + m).
func NewCSR(n int, indptr []int64, indices []int32, data []float64) (*CSR, error) {
	if n < 0 || n > MaxDim {
		return nil, fmt.Errorf("%s: n=%d: %w", opNewCSR, n, ErrBadShape)
	}
	if len(indptr) != n+1 || len(indices) != len(data) {
		return nil, fmt.Errorf("%s: len(indptr)=%d len(indices)=%d len(data)=%d for n=%d: %w",
			opNewCSR, len(indptr), len(indices), len(data), n, ErrDimensionMismatch)
	}
	if indptr[0] != 0 || indptr[n] != int64(len(indices)) {
		return nil, fmt.Errorf("%s: indptr bounds [%d,%d] for nnz=%d: %w",
			opNewCSR, indptr[0], indptr[n], len(indices), ErrMalformedCSR)
	}
	for i := 0; i < n; i++ {
		lo, hi := indptr[i], indptr[i+1]
		if hi < lo {
			return nil, fmt.Errorf("%s: row %d: decreasing indptr: %w", opNewCSR, i, ErrMalformedCSR)
		}
		for k := lo; k < hi; k++ {
			c := indices[k]
			if c < 0 || int(c) >= n {
				return nil, fmt.Errorf("%s: row %d: column %d: %w", opNewCSR, i, c, ErrMalformedCSR)
			}
			if k > lo && indices[k-1] >= c {
				return nil, fmt.Errorf("%s: row %d: columns not strictly ascending: %w", opNewCSR, i, ErrMalformedCSR)
			}
			if data[k] == 0 || math.IsNaN(data[k]) {
				return nil, fmt.Errorf("%s: row %d col %d: weight %v: %w", opNewCSR, i, c, data[k], ErrMalformedCSR)
			}
		}
	}

	return &CSR{n: n, indptr: indptr, indices: indices, data: data}, nil
}

// Empty returns an n×n matrix with no entries.
func Empty(n int) (*CSR, error) {
	if n < 0 || n > MaxDim {
		return nil, fmt.Errorf("Empty: n=%d: %w", n, ErrBadShape)
	}

	return &CSR{n: n, indptr: make([]int64, n+1)}, nil
}

// Dim returns the number of rows (== columns).
func (a *CSR) Dim() int { return a.n }

// NNZ returns the number of stored entries.
func (a *CSR) NNZ() int { return len(a.indices) }

// Row returns the column ids and weights of row i as read-only views.
// Complexity: O(1).
func (a *CSR) Row(i int) ([]int32, []float64) {
	lo, hi := a.indptr[i], a.indptr[i+1]

	return a.indices[lo:hi], a.data[lo:hi]
}

// RowNNZ returns the number of stored entries in row i.
func (a *CSR) RowNNZ(i int) int { return int(a.indptr[i+1] - a.indptr[i]) }

// At returns A[i,j] (0 when absent).
// Errors: ErrOutOfRange. Complexity: O(log deg(i)).
func (a *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= a.n || j < 0 || j >= a.n {
		return 0, fmt.Errorf("%s(%d,%d): n=%d: %w", opAt, i, j, a.n, ErrOutOfRange)
	}
	cols, vals := a.Row(i)
	k := sort.Search(len(cols), func(k int) bool { return int(cols[k]) >= j })
	if k < len(cols) && int(cols[k]) == j {
		return vals[k], nil
	}

	return 0, nil
}

// Has reports whether (i,j) is stored. Indices must be in range.
func (a *CSR) Has(i, j int) bool {
	cols, _ := a.Row(i)
	k := sort.Search(len(cols), func(k int) bool { return int(cols[k]) >= j })

	return k < len(cols) && int(cols[k]) == j
}

// Do calls fn for every stored entry in row-major order; stops when fn returns false.
func (a *CSR) Do(fn func(i, j int, w float64) bool) {
	for i := 0; i < a.n; i++ {
		for k := a.indptr[i]; k < a.indptr[i+1]; k++ {
			if !fn(i, int(a.indices[k]), a.data[k]) {
				return
			}
		}
	}
}

// MulVec computes dst = A·x. dst and x must have length n and must not alias.
// Errors: ErrDimensionMismatch. Complexity: O(n + m).
func (a *CSR) MulVec(dst, x []float64) error {
	if len(dst) != a.n || len(x) != a.n {
		return fmt.Errorf("%s: len(dst)=%d len(x)=%d n=%d: %w", opMulVec, len(dst), len(x), a.n, ErrDimensionMismatch)
	}
	var sum float64
	for i := 0; i < a.n; i++ {
		sum = 0
		for k := a.indptr[i]; k < a.indptr[i+1]; k++ {
			sum += a.data[k] * x[a.indices[k]]
		}
		dst[i] = sum
	}

	return nil
}

// MulVecT computes dst = Aᵗ·x without materializing the transpose.
// Errors: ErrDimensionMismatch. Complexity: O(n + m).
func (a *CSR) MulVecT(dst, x []float64) error {
	if len(dst) != a.n || len(x) != a.n {
		return fmt.Errorf("%s: len(dst)=%d len(x)=%d n=%d: %w", opMulVecT, len(dst), len(x), a.n, ErrDimensionMismatch)
	}
	for i := range dst {
		dst[i] = 0
	}
	for i := 0; i < a.n; i++ {
		xi := x[i]
		if xi == 0 {
			continue
		}
		for k := a.indptr[i]; k < a.indptr[i+1]; k++ {
			dst[a.indices[k]] += a.data[k] * xi
		}
	}

	return nil
}

// MaxWeight returns the largest stored weight (0 for an empty matrix).
func (a *CSR) MaxWeight() float64 {
	var m float64
	for _, w := range a.data {
		if w > m {
			m = w
		}
	}

	return m
}

// TotalWeight returns the sum of all stored weights.
func (a *CSR) TotalWeight() float64 {
	var s float64
	for _, w := range a.data {
		s += w
	}

	return s
}

// HasLoops reports whether any diagonal entry is stored.
func (a *CSR) HasLoops() bool {
	for i := 0; i < a.n; i++ {
		if a.Has(i, i) {
			return true
		}
	}

	return false
}

// Equal reports whether a and b have the same dimension and identical entries.
func (a *CSR) Equal(b *CSR) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.n != b.n || len(a.indices) != len(b.indices) {
		return false
	}
	for i := range a.indptr {
		if a.indptr[i] != b.indptr[i] {
			return false
		}
	}
	for k := range a.indices {
		if a.indices[k] != b.indices[k] || a.data[k] != b.data[k] {
			return false
		}
	}

	return true
}

// Arrays exposes the raw CSR arrays for serialization. They are shared with
// the matrix and must be treated as read-only.
func (a *CSR) Arrays() (indptr []int64, indices []int32, data []float64) {
	return a.indptr, a.indices, a.data
}
