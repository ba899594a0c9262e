// SPDX-License-Identifier: MIT

package components_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/connectome/components"
	"github.com/katalvlaran/connectome/errkind"
	"github.com/katalvlaran/connectome/matrix"
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

// TestExtract_SizesSevenThreeOne: a 3-path on {0,1,2}, an isolated vertex 3
// and a 7-ring on {4..10}.
func TestExtract_SizesSevenThreeOne(t *testing.T) {
	edges := [][2]int{{0, 1}, {1, 2}}
	for i := 0; i < 7; i++ {
		edges = append(edges, [2]int{4 + i, 4 + (i+1)%7})
	}
	a := undirected(t, 11, edges)

	lab, err := components.Extract(context.Background(), a)
	require.NoError(t, err)
	require.Equal(t, []int{7, 3}, lab.Sizes)
	require.Equal(t, 2, lab.Components())
	require.Equal(t, int32(2), lab.Unconnected)
	require.Equal(t, 1, lab.Isolated)
	require.Equal(t, []int32{1, 1, 1, 2, 0, 0, 0, 0, 0, 0, 0}, lab.Labels)

	lcc, err := lab.LCC()
	require.NoError(t, err)
	require.Equal(t, []int{4, 5, 6, 7, 8, 9, 10}, lcc)

	iso, err := lab.Members(int(lab.Unconnected))
	require.NoError(t, err)
	require.Equal(t, []int{3}, iso)

	_, err = lab.Members(3)
	require.ErrorIs(t, err, components.ErrLabelOutOfRange)
}

func TestExtract_TiesPreferSmallerMinimalVertex(t *testing.T) {
	// Two edges of equal size: {3,4} is discovered after {0,2}.
	a := undirected(t, 5, [][2]int{{3, 4}, {0, 2}})
	lab, err := components.Extract(context.Background(), a)
	require.NoError(t, err)
	require.Equal(t, []int32{0, 2, 0, 1, 1}, lab.Labels)
}

func TestExtract_LargestFirstAndDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 400
	var edges [][2]int
	for k := 0; k < 300; k++ {
		u, v := rng.Intn(n), rng.Intn(n)
		if u != v {
			edges = append(edges, [2]int{u, v})
		}
	}
	a := undirected(t, n, edges)

	first, err := components.Extract(context.Background(), a)
	require.NoError(t, err)
	for l := 1; l < len(first.Sizes); l++ {
		require.GreaterOrEqual(t, first.Sizes[0], first.Sizes[l])
		require.GreaterOrEqual(t, first.Sizes[l-1], first.Sizes[l])
	}
	total := first.Isolated
	for _, s := range first.Sizes {
		total += s
	}
	require.Equal(t, n, total)

	second, err := components.Extract(context.Background(), a)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestExtract_Errors(t *testing.T) {
	_, err := components.Extract(context.Background(), nil)
	require.ErrorIs(t, err, components.ErrNilGraph)

	acc, _ := matrix.NewAccumulator(2)
	_ = acc.Add(0, 1, 1)
	directed, _ := acc.Complete()
	_, err = components.Extract(context.Background(), directed)
	require.ErrorIs(t, err, components.ErrAsymmetric)
	require.ErrorIs(t, err, errkind.ErrMalformedInput)

	empty, _ := matrix.Empty(3)
	lab, err := components.Extract(context.Background(), empty)
	require.NoError(t, err)
	require.Equal(t, 3, lab.Isolated)
	require.Equal(t, int32(0), lab.Unconnected)
	_, err = lab.LCC()
	require.ErrorIs(t, err, components.ErrNoEdges)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = components.Extract(ctx, undirected(t, 2, [][2]int{{0, 1}}))
	require.ErrorIs(t, err, context.Canceled)
}
