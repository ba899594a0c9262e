// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/connectome/matrix"
)

func TestTranspose(t *testing.T) {
	a := mustCSR(t, 3, []edge{{0, 1, 1}, {0, 2, 2}, {1, 2, 3}, {2, 0, 4}})
	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x, _ := a.At(i, j)
			y, _ := at.At(j, i)
			require.Equal(t, x, y, "(%d,%d)", i, j)
		}
	}
	// Rebuilding through NewCSR proves the columns stay sorted.
	indptr, indices, data := at.Arrays()
	_, err = matrix.NewCSR(3, indptr, indices, data)
	require.NoError(t, err)

	_, err = matrix.Transpose(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestSymmetrize_UpperTriangle(t *testing.T) {
	a := mustCSR(t, 5, upperRing(5))
	require.False(t, matrix.IsSymmetric(a))

	s, err := matrix.Symmetrize(a)
	require.NoError(t, err)
	require.True(t, matrix.IsSymmetric(s))
	require.Equal(t, 10, s.NNZ())
	for i := 0; i < 5; i++ {
		require.Equal(t, 2, s.RowNNZ(i))
	}
}

func TestSymmetrize_Idempotent(t *testing.T) {
	a := mustCSR(t, 4, []edge{{0, 1, 2}, {1, 0, 1}, {2, 3, 1}, {1, 3, 4}})
	once, err := matrix.Symmetrize(a)
	require.NoError(t, err)
	twice, err := matrix.Symmetrize(once)
	require.NoError(t, err)
	require.True(t, once.Equal(twice))

	w, _ := once.At(0, 1)
	require.Equal(t, 3.0, w)
	w, _ = once.At(3, 1)
	require.Equal(t, 4.0, w)
}

func TestIsSymmetric_MissingMirror(t *testing.T) {
	// Lower-triangle only entry must be detected even though the upper
	// loop never sees it.
	a := mustCSR(t, 3, []edge{{0, 1, 1}, {1, 0, 1}, {2, 0, 1}})
	require.False(t, matrix.IsSymmetric(a))
	require.False(t, matrix.IsSymmetric(nil))

	b := mustCSR(t, 2, []edge{{0, 1, 1}, {1, 0, 1 + 1e-12}})
	require.True(t, matrix.IsSymmetric(b))
	require.False(t, matrix.IsSymmetric(b, matrix.WithEpsilon(0)))
}

func TestBinarize(t *testing.T) {
	a := mustCSR(t, 3, []edge{{0, 1, 7}, {1, 0, 7}, {1, 2, 0.5}, {2, 1, 0.5}})
	b := matrix.Binarize(a)
	require.Equal(t, a.NNZ(), b.NNZ())
	b.Do(func(i, j int, w float64) bool {
		require.Equal(t, 1.0, w)
		require.True(t, a.Has(i, j))
		return true
	})
	// Source is untouched.
	w, _ := a.At(0, 1)
	require.Equal(t, 7.0, w)
}

func TestAddDiagonal(t *testing.T) {
	a := mustCSR(t, 3, []edge{{0, 1, 1}, {1, 0, 1}, {1, 2, 1}, {2, 1, 1}})
	d, err := matrix.AddDiagonal(a, []float64{0.5, 1, 0})
	require.NoError(t, err)
	require.Equal(t, a.NNZ()+2, d.NNZ())
	w, _ := d.At(0, 0)
	require.Equal(t, 0.5, w)
	w, _ = d.At(1, 1)
	require.Equal(t, 1.0, w)
	require.False(t, d.Has(2, 2))
	indptr, indices, data := d.Arrays()
	_, err = matrix.NewCSR(3, indptr, indices, data)
	require.NoError(t, err)

	// Existing diagonal entries are summed and dropped when they cancel.
	l := mustCSR(t, 2, []edge{{0, 0, 2}, {0, 1, 1}, {1, 0, 1}}, matrix.WithLoops())
	d, err = matrix.AddDiagonal(l, []float64{-2, 3})
	require.NoError(t, err)
	require.False(t, d.Has(0, 0))
	w, _ = d.At(1, 1)
	require.Equal(t, 3.0, w)

	_, err = matrix.AddDiagonal(a, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestScaleSym(t *testing.T) {
	a := mustCSR(t, 2, []edge{{0, 1, 2}, {1, 0, 2}})
	s, err := matrix.ScaleSym(a, []float64{0.5, 3})
	require.NoError(t, err)
	w, _ := s.At(0, 1)
	require.Equal(t, 3.0, w)
	w, _ = s.At(1, 0)
	require.Equal(t, 3.0, w)

	_, err = matrix.ScaleSym(a, nil)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
