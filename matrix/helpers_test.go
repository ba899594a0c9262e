// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/connectome/matrix"
)

// edge is a weighted (i,j) triple used to build fixtures.
type edge struct {
	i, j int
	w    float64
}

// mustCSR accumulates the given entries into an n×n CSR.
func mustCSR(tb testing.TB, n int, edges []edge, opts ...matrix.Option) *matrix.CSR {
	tb.Helper()
	acc, err := matrix.NewAccumulator(n, opts...)
	require.NoError(tb, err)
	for _, e := range edges {
		require.NoError(tb, acc.Add(e.i, e.j, e.w))
	}
	a, err := acc.Complete()
	require.NoError(tb, err)

	return a
}

// upperRing returns the ring on n vertices stored once per pair (i<j).
func upperRing(n int) []edge {
	out := make([]edge, 0, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if i < j {
			out = append(out, edge{i, j, 1})
		} else {
			out = append(out, edge{j, i, 1})
		}
	}

	return out
}
