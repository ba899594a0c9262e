// SPDX-License-Identifier: MIT

package bfs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/connectome/bfs"
	"github.com/katalvlaran/connectome/matrix"
)

// undirected builds a symmetric binary CSR from an edge list.
func undirected(tb testing.TB, n int, edges [][2]int) *matrix.CSR {
	tb.Helper()
	acc, err := matrix.NewAccumulator(n)
	require.NoError(tb, err)
	for _, e := range edges {
		require.NoError(tb, acc.Add(e[0], e[1], 1))
		require.NoError(tb, acc.Add(e[1], e[0], 1))
	}
	a, err := acc.Complete()
	require.NoError(tb, err)

	return a
}

// TestWalker_Errors verifies that invalid inputs are rejected.
func TestWalker_Errors(t *testing.T) {
	_, err := bfs.NewWalker(nil)
	require.ErrorIs(t, err, bfs.ErrGraphNil)

	a := undirected(t, 2, [][2]int{{0, 1}})
	w, err := bfs.NewWalker(a)
	require.NoError(t, err)
	_, err = w.Walk(2, nil)
	require.ErrorIs(t, err, bfs.ErrStartOutOfRange)
	_, err = w.Walk(-1, nil)
	require.ErrorIs(t, err, bfs.ErrStartOutOfRange)
}

// TestCycleAndDepths covers a simple 4-cycle and checks order, depths and parents.
func TestCycleAndDepths(t *testing.T) {
	a := undirected(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	w, err := bfs.NewWalker(a)
	require.NoError(t, err)

	var order []int
	depth := make([]int, 4)
	parent := make([]int, 4)
	n, err := w.Walk(0, func(v, d, p int) {
		order = append(order, v)
		depth[v], parent[v] = d, p
	})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []int{0, 1, 3, 2}, order)
	require.Equal(t, []int{0, 1, 2, 1}, depth)
	require.Equal(t, []int{bfs.Unreached, 0, 1, 0}, parent)
}

func TestWalker_Cancel(t *testing.T) {
	a := undirected(t, 3, [][2]int{{0, 1}, {1, 2}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w, err := bfs.NewWalker(a, bfs.WithContext(ctx))
	require.NoError(t, err)
	_, err = w.Walk(0, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWalker_SharedVisitedSet(t *testing.T) {
	a := undirected(t, 6, [][2]int{{0, 1}, {1, 2}, {4, 5}})
	w, err := bfs.NewWalker(a)
	require.NoError(t, err)

	var seen []int
	collect := func(v, _, _ int) { seen = append(seen, v) }
	n, err := w.Walk(1, collect)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.True(t, w.Visited(0))

	n, err = w.Walk(2, collect)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = w.Walk(5, collect)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.False(t, w.Visited(3))
	require.Equal(t, []int{1, 0, 2, 5, 4}, seen)
}
