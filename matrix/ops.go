// SPDX-License-Identifier: MIT

// Package matrix - structural transforms on CSR (all return fresh matrices;
// inputs are never mutated).

package matrix

import (
	"fmt"
	"math"
)

const (
	opTranspose   = "Transpose"
	opSymmetrize  = "Symmetrize"
	opAddDiagonal = "AddDiagonal"
	opScaleSym    = "ScaleSym"
)

// Transpose returns Aᵗ.
// Complexity: O(n + m) time and space.
func Transpose(a *CSR) (*CSR, error) {
	if a == nil {
		return nil, fmt.Errorf("%s: %w", opTranspose, ErrNilMatrix)
	}
	n := a.n
	indptr := make([]int64, n+1)
	for _, c := range a.indices {
		indptr[c+1]++
	}
	for i := 0; i < n; i++ {
		indptr[i+1] += indptr[i]
	}
	next := make([]int64, n)
	copy(next, indptr[:n])
	indices := make([]int32, len(a.indices))
	data := make([]float64, len(a.data))
	// Rows are visited in ascending order, so each transposed row is filled
	// with ascending column ids.
	for i := 0; i < n; i++ {
		for k := a.indptr[i]; k < a.indptr[i+1]; k++ {
			c := a.indices[k]
			p := next[c]
			indices[p] = int32(i)
			data[p] = a.data[k]
			next[c]++
		}
	}

	return &CSR{n: n, indptr: indptr, indices: indices, data: data}, nil
}

// IsSymmetric reports whether A[i,j] == A[j,i] for every stored entry,
// within eps (default DefaultEpsilon).
// Complexity: O(m log d) where d is the maximum row length.
func IsSymmetric(a *CSR, opts ...Option) bool {
	if a == nil {
		return false
	}
	o := gatherOptions(opts...)
	for i := 0; i < a.n; i++ {
		for k := a.indptr[i]; k < a.indptr[i+1]; k++ {
			j := int(a.indices[k])
			if j <= i {
				continue
			}
			w, _ := a.At(j, i)
			if math.Abs(w-a.data[k]) > o.eps {
				return false
			}
		}
	}
	// Entries below the diagonal whose mirror is missing are caught by
	// comparing the triangle counts.
	var upper, lower int
	a.Do(func(i, j int, _ float64) bool {
		switch {
		case j > i:
			upper++
		case j < i:
			lower++
		}
		return true
	})

	return upper == lower
}

// Symmetrize returns A + Aᵗ. A matrix that is already symmetric is returned
// unchanged, so Symmetrize(Symmetrize(A)) == Symmetrize(A). Builders store
// each undirected pair once (i<j), and for such a triangular A the result is
// the usual symmetric adjacency.
// Complexity: O(n + m).
func Symmetrize(a *CSR) (*CSR, error) {
	if a == nil {
		return nil, fmt.Errorf("%s: %w", opSymmetrize, ErrNilMatrix)
	}
	if IsSymmetric(a, WithEpsilon(0)) {
		return a, nil
	}
	t, err := Transpose(a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSymmetrize, err)
	}

	return addCSR(a, t), nil
}

// addCSR merges two matrices of equal dimension row by row.
func addCSR(a, b *CSR) *CSR {
	n := a.n
	indptr := make([]int64, n+1)
	indices := make([]int32, 0, len(a.indices)+len(b.indices))
	data := make([]float64, 0, len(a.data)+len(b.data))
	for i := 0; i < n; i++ {
		ac, av := a.Row(i)
		bc, bv := b.Row(i)
		p, q := 0, 0
		for p < len(ac) || q < len(bc) {
			var c int32
			var w float64
			switch {
			case q == len(bc) || (p < len(ac) && ac[p] < bc[q]):
				c, w = ac[p], av[p]
				p++
			case p == len(ac) || bc[q] < ac[p]:
				c, w = bc[q], bv[q]
				q++
			default:
				c, w = ac[p], av[p]+bv[q]
				p++
				q++
			}
			if w != 0 {
				indices = append(indices, c)
				data = append(data, w)
			}
		}
		indptr[i+1] = int64(len(indices))
	}

	return &CSR{n: n, indptr: indptr, indices: indices, data: data}
}

// Binarize returns a matrix with the same pattern as A and every weight set
// to 1. This is lossy: weighted invariants must be computed on A itself.
// The pattern arrays are shared with A (both are immutable).
// Complexity: O(m).
func Binarize(a *CSR) *CSR {
	ones := make([]float64, len(a.data))
	for k := range ones {
		ones[k] = 1
	}

	return &CSR{n: a.n, indptr: a.indptr, indices: a.indices, data: ones}
}

// AddDiagonal returns A + diag(d). Diagonal entries that sum to zero are dropped.
// Errors: ErrDimensionMismatch when len(d) != n.
// Complexity: O(n + m).
func AddDiagonal(a *CSR, d []float64) (*CSR, error) {
	if a == nil {
		return nil, fmt.Errorf("%s: %w", opAddDiagonal, ErrNilMatrix)
	}
	if len(d) != a.n {
		return nil, fmt.Errorf("%s: len(d)=%d n=%d: %w", opAddDiagonal, len(d), a.n, ErrDimensionMismatch)
	}
	indptr := make([]int64, a.n+1)
	indices := make([]int32, 0, len(a.indices)+a.n)
	data := make([]float64, 0, len(a.data)+a.n)
	for i := 0; i < a.n; i++ {
		cols, vals := a.Row(i)
		placed := d[i] == 0
		for k, c := range cols {
			switch {
			case !placed && int(c) == i:
				if w := vals[k] + d[i]; w != 0 {
					indices = append(indices, c)
					data = append(data, w)
				}
				placed = true
				continue
			case !placed && int(c) > i:
				indices = append(indices, int32(i))
				data = append(data, d[i])
				placed = true
			}
			indices = append(indices, c)
			data = append(data, vals[k])
		}
		if !placed {
			indices = append(indices, int32(i))
			data = append(data, d[i])
		}
		indptr[i+1] = int64(len(indices))
	}

	return &CSR{n: a.n, indptr: indptr, indices: indices, data: data}, nil
}

// ScaleSym returns diag(s)·A·diag(s), i.e. entry (i,j) scaled by s[i]·s[j].
// Entries scaled to zero are dropped.
// Errors: ErrDimensionMismatch when len(s) != n.
// Complexity: O(n + m).
func ScaleSym(a *CSR, s []float64) (*CSR, error) {
	if a == nil {
		return nil, fmt.Errorf("%s: %w", opScaleSym, ErrNilMatrix)
	}
	if len(s) != a.n {
		return nil, fmt.Errorf("%s: len(s)=%d n=%d: %w", opScaleSym, len(s), a.n, ErrDimensionMismatch)
	}
	indptr := make([]int64, a.n+1)
	indices := make([]int32, 0, len(a.indices))
	data := make([]float64, 0, len(a.data))
	for i := 0; i < a.n; i++ {
		cols, vals := a.Row(i)
		for k, c := range cols {
			if w := vals[k] * s[i] * s[c]; w != 0 {
				indices = append(indices, c)
				data = append(data, w)
			}
		}
		indptr[i+1] = int64(len(indices))
	}

	return &CSR{n: a.n, indptr: indptr, indices: indices, data: data}, nil
}
