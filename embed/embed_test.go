// SPDX-License-Identifier: MIT

package embed_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/connectome/embed"
	"github.com/katalvlaran/connectome/errkind"
	"github.com/katalvlaran/connectome/matrix"
)

// blockOnes returns the block-diagonal all-ones matrix (self-loops
// included) with the given block sizes; its rank equals the block count.
func blockOnes(tb testing.TB, sizes ...int) *matrix.CSR {
	tb.Helper()
	var n int
	for _, s := range sizes {
		n += s
	}
	acc, err := matrix.NewAccumulator(n, matrix.WithLoops())
	require.NoError(tb, err)
	off := 0
	for _, s := range sizes {
		for i := 0; i < s; i++ {
			for j := 0; j < s; j++ {
				require.NoError(tb, acc.Add(off+i, off+j, 1))
			}
		}
		off += s
	}
	a, err := acc.Complete()
	require.NoError(tb, err)

	return a
}

func TestEmbed_ScaledReconstruction(t *testing.T) {
	a := blockOnes(t, 5, 3)
	e := &embed.Embedder{MaxDim: 4}
	res, err := e.Embed(context.Background(), a, 2)
	require.NoError(t, err)
	require.Equal(t, 2, res.Dim())
	require.InDeltaSlice(t, []float64{5, 3}, res.Values, 1e-9)
	require.False(t, res.Directed)

	x := res.Scaled()
	var p mat.Dense
	p.Mul(x, x.T())
	n := a.Dim()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want, _ := a.At(i, j)
			got := math.Min(1, math.Max(0, p.At(i, j)))
			require.InDelta(t, want, got, 1e-8, "(%d,%d)", i, j)
		}
	}

	r, c := res.Unscaled().Dims()
	require.Equal(t, []int{8, 2}, []int{r, c})
}

func TestEmbed_DimensionBounds(t *testing.T) {
	a := blockOnes(t, 5, 3)
	e := &embed.Embedder{MaxDim: 3}
	for _, d := range []int{0, -1, 4} {
		_, err := e.Embed(context.Background(), a, d)
		require.ErrorIs(t, err, embed.ErrBadDimension, "d=%d", d)
		require.ErrorIs(t, err, errkind.ErrDimensionMismatch)
	}
	big := &embed.Embedder{MaxDim: 50}
	_, err := big.Embed(context.Background(), a, 9)
	require.ErrorIs(t, err, embed.ErrBadDimension)

	_, err = e.Embed(context.Background(), nil, 1)
	require.ErrorIs(t, err, embed.ErrNilGraph)
}

func TestEmbed_Directed(t *testing.T) {
	acc, _ := matrix.NewAccumulator(3)
	_ = acc.Add(0, 1, 2)
	_ = acc.Add(1, 2, 3)
	a, _ := acc.Complete()

	_, err := (&embed.Embedder{}).Embed(context.Background(), a, 2)
	require.ErrorIs(t, err, embed.ErrAsymmetric)

	res, err := (&embed.Embedder{Directed: true}).Embed(context.Background(), a, 2)
	require.NoError(t, err)
	require.True(t, res.Directed)
	require.InDeltaSlice(t, []float64{3, 2}, res.Values, 1e-9)

	// Left·Σ·Rightᵗ reproduces the rank-2 matrix exactly.
	var l, p mat.Dense
	l.Apply(func(_, j int, v float64) float64 { return v * res.Values[j] }, res.Left)
	p.Mul(&l, res.Right.T())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want, _ := a.At(i, j)
			require.InDelta(t, want, p.At(i, j), 1e-9)
		}
	}

	cat := res.Concat(true)
	r, c := cat.Dims()
	require.Equal(t, []int{3, 4}, []int{r, c})
	require.InDelta(t, res.ScaledRight().At(2, 1), cat.At(2, 3), 1e-15)
}

func TestTransforms(t *testing.T) {
	// path 0-1-2
	acc, _ := matrix.NewAccumulator(3)
	for _, e := range [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 1}} {
		_ = acc.Add(e[0], e[1], 1)
	}
	a, _ := acc.Complete()

	aug, err := embed.TransformAugmented.Apply(a)
	require.NoError(t, err)
	w, _ := aug.At(1, 1)
	require.InDelta(t, 1.0, w, 1e-15) // degree 2 over n-1 = 2
	w, _ = aug.At(0, 0)
	require.InDelta(t, 0.5, w, 1e-15)

	lap, err := embed.TransformLaplacian.Apply(a)
	require.NoError(t, err)
	w, _ = lap.At(0, 1)
	require.InDelta(t, 1/math.Sqrt(2), w, 1e-15)

	same, err := embed.TransformAdjacency.Apply(a)
	require.NoError(t, err)
	require.True(t, same.Equal(a))

	for _, tr := range []embed.Transform{embed.TransformAdjacency, embed.TransformAugmented, embed.TransformLaplacian} {
		got, err := embed.ParseTransform(tr.String())
		require.NoError(t, err)
		require.Equal(t, tr, got)
	}
	_, err = embed.ParseTransform("bogus")
	require.ErrorIs(t, err, embed.ErrUnknownTransform)
}
