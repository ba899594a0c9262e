// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/connectome/matrix"
)

func TestAccumulator_SumsDuplicates(t *testing.T) {
	acc, err := matrix.NewAccumulator(4)
	require.NoError(t, err)
	require.Equal(t, 4, acc.Dim())
	require.NoError(t, acc.Add(2, 3, 1))
	require.NoError(t, acc.Add(0, 1, 1))
	require.NoError(t, acc.Add(2, 3, 1))
	require.NoError(t, acc.Add(0, 1, 0)) // zero weights are ignored
	require.NoError(t, acc.Add(1, 2, 3))
	require.NoError(t, acc.Add(1, 2, -3)) // cancels out
	require.Equal(t, 5, acc.Buffered())

	a, err := acc.Complete()
	require.NoError(t, err)
	require.Equal(t, 2, a.NNZ())
	w, _ := a.At(2, 3)
	require.Equal(t, 2.0, w)
	w, _ = a.At(0, 1)
	require.Equal(t, 1.0, w)
	require.False(t, a.Has(1, 2))
}

func TestAccumulator_Errors(t *testing.T) {
	acc, err := matrix.NewAccumulator(3)
	require.NoError(t, err)
	require.ErrorIs(t, acc.Add(3, 0, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, acc.Add(-1, 0, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, acc.Add(1, 1, 1), matrix.ErrSelfLoop)
	require.ErrorIs(t, acc.Add(0, 1, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, acc.Add(0, 1, math.Inf(1)), matrix.ErrNaNInf)

	_, err = acc.Complete()
	require.NoError(t, err)
	require.ErrorIs(t, acc.Add(0, 1, 1), matrix.ErrCompleted)
	_, err = acc.Complete()
	require.ErrorIs(t, err, matrix.ErrCompleted)

	_, err = matrix.NewAccumulator(-2)
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestAccumulator_CompactionMatchesOneShot(t *testing.T) {
	const n = 50
	rng := rand.New(rand.NewSource(7))
	type pair struct{ i, j int }
	draws := make([]pair, 5000)
	for k := range draws {
		i, j := rng.Intn(n), rng.Intn(n)
		for i == j {
			j = rng.Intn(n)
		}
		draws[k] = pair{i, j}
	}

	small, err := matrix.NewAccumulator(n, matrix.WithCompactThreshold(16))
	require.NoError(t, err)
	large, err := matrix.NewAccumulator(n)
	require.NoError(t, err)
	for _, p := range draws {
		require.NoError(t, small.Add(p.i, p.j, 1))
		require.NoError(t, large.Add(p.i, p.j, 1))
	}
	require.LessOrEqual(t, small.Buffered(), n*(n-1)*2)

	a, err := small.Complete()
	require.NoError(t, err)
	b, err := large.Complete()
	require.NoError(t, err)
	require.True(t, a.Equal(b))
	require.Equal(t, float64(len(draws)), a.TotalWeight())
}

func TestOptions_Panics(t *testing.T) {
	require.Panics(t, func() { matrix.WithEpsilon(-1) })
	require.Panics(t, func() { matrix.WithEpsilon(math.NaN()) })
	require.Panics(t, func() { matrix.WithCompactThreshold(0) })
	require.NotPanics(t, func() { matrix.WithEpsilon(0) })
}
