// SPDX-License-Identifier: MIT

package subgraph_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/connectome/components"
	"github.com/katalvlaran/connectome/errkind"
	"github.com/katalvlaran/connectome/matrix"
	"github.com/katalvlaran/connectome/subgraph"
)

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

func TestProject_EdgeContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const n = 200
	var edges [][2]int
	for k := 0; k < 800; k++ {
		u, v := rng.Intn(n), rng.Intn(n)
		if u != v {
			edges = append(edges, [2]int{u, v})
		}
	}
	a := undirected(t, n, edges)
	var subset []int
	for v := 0; v < n; v++ {
		if rng.Intn(3) == 0 {
			subset = append(subset, v)
		}
	}

	p, err := subgraph.Project(a, subset)
	require.NoError(t, err)
	require.Equal(t, len(subset), p.Len())
	require.Equal(t, len(subset), p.Adj.Dim())
	require.True(t, matrix.IsSymmetric(p.Adj))

	// Every reduced edge is an original edge ...
	p.Adj.Do(func(i, j int, _ float64) bool {
		require.True(t, a.Has(p.Inverse[i], p.Inverse[j]))
		return true
	})
	// ... and every original edge inside the subset survives.
	var inside int
	a.Do(func(i, j int, _ float64) bool {
		ri, okI := p.Forward(i)
		rj, okJ := p.Forward(j)
		if okI && okJ {
			inside++
			require.True(t, p.Adj.Has(ri, rj))
		}
		return true
	})
	require.Equal(t, inside, p.Adj.NNZ())

	for r, orig := range p.Inverse {
		got, ok := p.Forward(orig)
		require.True(t, ok)
		require.Equal(t, r, got)
	}
}

func TestProject_BadSubset(t *testing.T) {
	a := undirected(t, 4, [][2]int{{0, 1}})
	for _, s := range [][]int{{1, 0}, {0, 0}, {0, 4}, {-1}} {
		_, err := subgraph.Project(a, s)
		require.ErrorIs(t, err, subgraph.ErrBadSubset)
		require.ErrorIs(t, err, errkind.ErrMalformedInput)
	}
	_, err := subgraph.Project(nil, nil)
	require.ErrorIs(t, err, subgraph.ErrNilGraph)

	p, err := subgraph.Project(a, nil)
	require.NoError(t, err)
	require.Zero(t, p.Len())
	_, ok := p.Forward(0)
	require.False(t, ok)
}

func TestProjectLCC(t *testing.T) {
	// 5-ring on {2..6}, edge {0,1}, isolated 7
	edges := [][2]int{{0, 1}}
	for i := 0; i < 5; i++ {
		edges = append(edges, [2]int{2 + i, 2 + (i+1)%5})
	}
	a := undirected(t, 8, edges)
	p, lab, err := subgraph.ProjectLCC(context.Background(), a)
	require.NoError(t, err)
	require.Equal(t, []int{5, 2}, lab.Sizes)
	require.Equal(t, []int{2, 3, 4, 5, 6}, p.Inverse)
	require.Equal(t, 10, p.Adj.NNZ())
	_, ok := p.Forward(7)
	require.False(t, ok)

	empty, _ := matrix.Empty(3)
	_, _, err = subgraph.ProjectLCC(context.Background(), empty)
	require.ErrorIs(t, err, components.ErrNoEdges)
}
