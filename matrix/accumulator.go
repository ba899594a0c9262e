// SPDX-License-Identifier: MIT

// Package matrix - Accumulator: the open sparse buffer used during ingestion.
//
// Contract:
//   - Add appends (i,j,w); repeated (i,j) pairs are summed, never overwritten.
//   - When the buffer reaches the compaction threshold it is sorted by (i,j)
//     and merged in place; if compaction frees less than half of the buffer
//     the threshold doubles so compaction stays amortized O(log b) per entry.
//   - Complete freezes the buffer into a CSR and invalidates the accumulator.
//   - An Accumulator is owned by one goroutine; it is not safe for concurrent use.

package matrix

import (
	"fmt"
	"math"
	"slices"
)

const (
	opAdd      = "Accumulator.Add"
	opComplete = "Accumulator.Complete"
)

// entry is one buffered COO triple.
type entry struct {
	i, j int32
	w    float64
}

// Accumulator collects weighted entries of an n×n matrix.
type Accumulator struct {
	n         int
	buf       []entry
	sorted    int // prefix of buf that is already compacted
	threshold int
	opts      Options
	completed bool
}

// NewAccumulator returns an empty accumulator for an n×n matrix.
// Errors: ErrBadShape when n<0 or n>MaxDim.
func NewAccumulator(n int, opts ...Option) (*Accumulator, error) {
	if n < 0 || n > MaxDim {
		return nil, fmt.Errorf("NewAccumulator: n=%d: %w", n, ErrBadShape)
	}
	o := gatherOptions(opts...)

	return &Accumulator{n: n, threshold: o.compactThreshold, opts: o}, nil
}

// Dim returns n.
func (acc *Accumulator) Dim() int { return acc.n }

// Buffered returns the number of COO entries currently held (after the last compaction).
func (acc *Accumulator) Buffered() int { return len(acc.buf) }

// Add accumulates w into entry (i,j).
// Errors: ErrCompleted, ErrOutOfRange, ErrSelfLoop, ErrNaNInf.
// Complexity: amortized O(1) plus periodic compaction.
func (acc *Accumulator) Add(i, j int, w float64) error {
	if acc.completed {
		return fmt.Errorf("%s: %w", opAdd, ErrCompleted)
	}
	if i < 0 || i >= acc.n || j < 0 || j >= acc.n {
		return fmt.Errorf("%s(%d,%d): n=%d: %w", opAdd, i, j, acc.n, ErrOutOfRange)
	}
	if i == j && !acc.opts.allowLoops {
		return fmt.Errorf("%s(%d,%d): %w", opAdd, i, j, ErrSelfLoop)
	}
	if acc.opts.validateNaNInf && (math.IsNaN(w) || math.IsInf(w, 0)) {
		return fmt.Errorf("%s(%d,%d): w=%v: %w", opAdd, i, j, w, ErrNaNInf)
	}
	if w == 0 {
		return nil
	}
	acc.buf = append(acc.buf, entry{i: int32(i), j: int32(j), w: w})
	if len(acc.buf) >= acc.threshold {
		acc.compact()
		if len(acc.buf) > acc.threshold/2 {
			acc.threshold *= 2
		}
	}

	return nil
}

// compact sorts the buffer and sums duplicates in place.
func (acc *Accumulator) compact() {
	if acc.sorted == len(acc.buf) {
		return
	}
	slices.SortFunc(acc.buf, cmpEntry)
	out := 0
	for k := 0; k < len(acc.buf); k++ {
		e := acc.buf[k]
		if out > 0 && acc.buf[out-1].i == e.i && acc.buf[out-1].j == e.j {
			acc.buf[out-1].w += e.w
			continue
		}
		acc.buf[out] = e
		out++
	}
	// Drop entries whose sum cancelled to zero.
	kept := 0
	for k := 0; k < out; k++ {
		if acc.buf[k].w != 0 {
			acc.buf[kept] = acc.buf[k]
			kept++
		}
	}
	acc.buf = acc.buf[:kept]
	acc.sorted = kept
}

func cmpEntry(a, b entry) int {
	switch {
	case a.i != b.i:
		if a.i < b.i {
			return -1
		}
		return 1
	case a.j != b.j:
		if a.j < b.j {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Complete deduplicates, sums and freezes the buffer into a CSR.
// The accumulator cannot be used afterwards (ErrCompleted).
// Complexity: O(m log m) time, O(n + m) extra space for the CSR arrays.
func (acc *Accumulator) Complete() (*CSR, error) {
	if acc.completed {
		return nil, fmt.Errorf("%s: %w", opComplete, ErrCompleted)
	}
	acc.compact()
	acc.completed = true

	indptr := make([]int64, acc.n+1)
	indices := make([]int32, len(acc.buf))
	data := make([]float64, len(acc.buf))
	for k, e := range acc.buf {
		indptr[e.i+1]++
		indices[k] = e.j
		data[k] = e.w
	}
	for i := 0; i < acc.n; i++ {
		indptr[i+1] += indptr[i]
	}
	acc.buf = nil

	return &CSR{n: acc.n, indptr: indptr, indices: indices, data: data}, nil
}
