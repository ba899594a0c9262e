// SPDX-License-Identifier: MIT

package builder_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/connectome/builder"
	"github.com/katalvlaran/connectome/errkind"
	"github.com/katalvlaran/connectome/fiber"
	"github.com/katalvlaran/connectome/matrix"
	"github.com/katalvlaran/connectome/morton"
	"github.com/katalvlaran/connectome/volume"
)

// line returns a 4x1x1 volume labeled 0,1,2,3 along x.
func line(t *testing.T) *volume.Labels {
	t.Helper()
	l, err := volume.New("line", morton.Shape{NX: 4, NY: 1, NZ: 1}, []uint32{0, 1, 2, 3})
	require.NoError(t, err)

	return l
}

func pts(xs ...uint32) fiber.Streamline {
	s := make(fiber.Streamline, len(xs))
	for i, x := range xs {
		s[i] = morton.Coord{X: x}
	}

	return s
}

func quiet() builder.Option {
	return builder.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func weight(t *testing.T, a *matrix.CSR, i, j int) float64 {
	t.Helper()
	w, err := a.At(i, j)
	require.NoError(t, err)

	return w
}

func TestRegionMode_AllPairs(t *testing.T) {
	b, err := builder.New(line(t), builder.WithMode(builder.ModeRegion), quiet())
	require.NoError(t, err)
	require.Equal(t, 3, b.Vertices())
	require.Equal(t, []uint32{1, 2, 3}, b.RegionLabels())

	// background, 1, 1, 2, 3, back to 2: distinct regions {0,1,2}
	require.NoError(t, b.Add(pts(0, 1, 1, 2, 3, 2)))
	require.NoError(t, b.Add(pts(1, 2)))

	st := b.Stats()
	require.Equal(t, uint64(2), st.Streamlines)
	require.Equal(t, uint64(1), st.OutsideMask)
	require.Equal(t, uint64(4), st.Pairs)

	a, err := b.Complete()
	require.NoError(t, err)
	require.Equal(t, 2.0, weight(t, a, 0, 1))
	require.Equal(t, 1.0, weight(t, a, 0, 2))
	require.Equal(t, 1.0, weight(t, a, 1, 2))
	require.Equal(t, 0.0, weight(t, a, 1, 0), "stored upper-triangular")

	sym, err := matrix.Symmetrize(a)
	require.NoError(t, err)
	require.True(t, matrix.IsSymmetric(sym))
	require.Equal(t, 6, sym.NNZ())
}

func TestRegionMode_Window(t *testing.T) {
	b, err := builder.New(line(t), builder.WithWindow(1), quiet())
	require.NoError(t, err)
	require.NoError(t, b.Add(pts(1, 2, 3)))

	a, err := b.Complete()
	require.NoError(t, err)
	require.Equal(t, 1.0, weight(t, a, 0, 1))
	require.Equal(t, 1.0, weight(t, a, 1, 2))
	require.Equal(t, 0.0, weight(t, a, 0, 2))
}

func TestVoxelMode(t *testing.T) {
	b, err := builder.New(line(t), builder.WithMode(builder.ModeVoxel), quiet())
	require.NoError(t, err)
	require.Equal(t, builder.ModeVoxel, b.Mode())
	require.Equal(t, 64, b.Vertices())
	require.Nil(t, b.RegionLabels())

	require.NoError(t, b.Add(pts(0, 1, 2)))
	a, err := b.Complete()
	require.NoError(t, err)
	// x=1 -> code 1, x=2 -> code 8; x=0 is background.
	require.Equal(t, 1.0, weight(t, a, 1, 8))
	require.Equal(t, 1, a.NNZ())
}

func TestMinLabel(t *testing.T) {
	b, err := builder.New(line(t), builder.WithMinLabel(1), quiet())
	require.NoError(t, err)
	require.Equal(t, []uint32{2, 3}, b.RegionLabels())

	_, err = builder.New(line(t), builder.WithMinLabel(3))
	require.ErrorIs(t, err, builder.ErrNoRegions)
}

func TestAdd_OutOfBounds(t *testing.T) {
	b, err := builder.New(line(t), quiet())
	require.NoError(t, err)

	err = b.Add(pts(1, 2, 7))
	require.ErrorIs(t, err, builder.ErrStreamlineOutOfBounds)
	require.ErrorIs(t, err, errkind.ErrMalformedInput)
	require.Zero(t, b.Stats().Pairs, "rejected streamline leaves no trace")
}

func TestIngest(t *testing.T) {
	src := fiber.NewSliceSource(pts(1, 2), pts(1, 9), pts(2, 3))

	b, err := builder.New(line(t), quiet())
	require.NoError(t, err)
	_, err = b.Ingest(context.Background(), src)
	require.ErrorIs(t, err, errkind.ErrOutOfBounds)

	src.Reset()
	b, err = builder.New(line(t), builder.WithSkipMalformed(), quiet())
	require.NoError(t, err)
	st, err := b.Ingest(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, uint64(2), st.Streamlines)
	require.Equal(t, uint64(1), st.Skipped)
}

type failing struct{}

func (failing) Next() (fiber.Streamline, error) { return nil, errors.New("disk on fire") }

func TestIngest_SourceErrorAndCancel(t *testing.T) {
	b, err := builder.New(line(t), builder.WithSkipMalformed(), quiet())
	require.NoError(t, err)
	_, err = b.Ingest(context.Background(), failing{})
	require.ErrorContains(t, err, "disk on fire")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Ingest(ctx, fiber.NewSliceSource(pts(1, 2)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestComplete_Twice(t *testing.T) {
	b, err := builder.New(line(t), quiet())
	require.NoError(t, err)
	_, err = b.Complete()
	require.NoError(t, err)

	_, err = b.Complete()
	require.ErrorIs(t, err, builder.ErrCompleted)
	require.ErrorIs(t, b.Add(pts(1)), builder.ErrCompleted)
	_, err = b.Ingest(context.Background(), fiber.NewSliceSource())
	require.ErrorIs(t, err, builder.ErrCompleted)
}

func TestNew_Errors(t *testing.T) {
	_, err := builder.New(nil)
	require.ErrorIs(t, err, builder.ErrNilVolume)

	require.Panics(t, func() { builder.WithWindow(-1) })
	require.Panics(t, func() { builder.WithMode(builder.Mode(9)) })
	require.Panics(t, func() { builder.WithLogger(nil) })
}

func TestParseMode(t *testing.T) {
	for _, m := range []builder.Mode{builder.ModeVoxel, builder.ModeRegion} {
		got, err := builder.ParseMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	_, err := builder.ParseMode("vertex")
	require.Error(t, err)
}
