// SPDX-License-Identifier: MIT

package fiber_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/connectome/errkind"
	"github.com/katalvlaran/connectome/fiber"
	"github.com/katalvlaran/connectome/morton"
)

var shape = morton.Shape{NX: 4, NY: 4, NZ: 4}

func sample() []fiber.Streamline {
	return []fiber.Streamline{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 1, Z: 3}},
		{},
		{{X: 3, Y: 3, Z: 3}},
	}
}

func encode(t *testing.T, level int, count uint64, fibers []fiber.Streamline) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := fiber.NewWriter(&buf, fiber.Header{Shape: shape, Count: count}, level)
	require.NoError(t, err)
	for _, s := range fibers {
		require.NoError(t, w.Write(s))
	}
	require.Equal(t, uint64(len(fibers)), w.Count())
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func drain(t *testing.T, src fiber.Source) []fiber.Streamline {
	t.Helper()
	var out []fiber.Streamline
	for {
		s, err := src.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, s)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, level := range []int{0, 1, 9} {
		raw := encode(t, level, 3, sample())
		r, err := fiber.NewReader(bytes.NewReader(raw))
		require.NoError(t, err)
		require.Equal(t, fiber.Header{Shape: shape, Count: 3}, r.Header())

		got := drain(t, r)
		require.Len(t, got, 3)
		require.Equal(t, sample()[0], got[0])
		require.Empty(t, got[1])
		require.Equal(t, sample()[2], got[2])
		require.NoError(t, r.Close())
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub.fib.zst")
	require.NoError(t, os.WriteFile(path, encode(t, 3, 0, sample()), 0o644))

	r, err := fiber.Open(path)
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, drain(t, r), 3)

	_, err = fiber.Open(filepath.Join(dir, "missing.fib"))
	require.ErrorIs(t, err, fiber.ErrNotFound)
	require.ErrorIs(t, err, errkind.ErrInputNotFound)
}

func TestBadHeader(t *testing.T) {
	_, err := fiber.NewReader(bytes.NewReader([]byte("nope")))
	require.ErrorIs(t, err, fiber.ErrBadHeader)

	raw := encode(t, 0, 0, nil)
	raw[0] = 'X'
	_, err = fiber.NewReader(bytes.NewReader(raw))
	require.ErrorIs(t, err, fiber.ErrBadHeader)

	raw = encode(t, 0, 0, nil)
	raw[4] = 9
	_, err = fiber.NewReader(bytes.NewReader(raw))
	require.ErrorIs(t, err, errkind.ErrMalformedInput)
}

func TestTruncated(t *testing.T) {
	raw := encode(t, 0, 3, sample())

	r, err := fiber.NewReader(bytes.NewReader(raw[:len(raw)-5]))
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.ErrorIs(t, err, fiber.ErrTruncated)

	// Header promises 3 fibers, stream holds 1.
	short := encode(t, 0, 3, sample()[:1])
	r, err = fiber.NewReader(bytes.NewReader(short))
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.ErrorIs(t, err, fiber.ErrTruncated)
}

func TestTooLong(t *testing.T) {
	raw := encode(t, 0, 0, nil)
	raw = append(raw, 0xff, 0xff, 0xff, 0xff)
	r, err := fiber.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	_, err = r.Next()
	require.ErrorIs(t, err, fiber.ErrTooLong)
}

func TestSliceSource(t *testing.T) {
	src := fiber.NewSliceSource(sample()...)
	require.Len(t, drain(t, src), 3)
	_, err := src.Next()
	require.Equal(t, io.EOF, err)
	src.Reset()
	require.Len(t, drain(t, src), 3)
}
