// SPDX-License-Identifier: MIT

package volume_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/connectome/errkind"
	"github.com/katalvlaran/connectome/internal/zio"
	"github.com/katalvlaran/connectome/morton"
	"github.com/katalvlaran/connectome/volume"
)

func cube(t *testing.T) *volume.Labels {
	t.Helper()
	// 2x2x2: z=0 plane labels 0,1,1,2 ; z=1 plane labels 0,0,3,3
	l, err := volume.New("cube", morton.Shape{NX: 2, NY: 2, NZ: 2}, []uint32{0, 1, 1, 2, 0, 0, 3, 3})
	require.NoError(t, err)

	return l
}

func TestNew_Validation(t *testing.T) {
	_, err := volume.New("", morton.Shape{NX: 2, NY: 0, NZ: 1}, nil)
	require.ErrorIs(t, err, volume.ErrMalformed)

	_, err = volume.New("", morton.Shape{NX: 2, NY: 2, NZ: 1}, []uint32{1, 2, 3})
	require.ErrorIs(t, err, errkind.ErrMalformedInput)
}

func TestLabels_At(t *testing.T) {
	l := cube(t)

	v, err := l.At(1, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(1), v)

	v, err = l.AtCoord(morton.Coord{X: 0, Y: 1, Z: 1})
	require.NoError(t, err)
	require.Equal(t, uint32(3), v)

	_, err = l.At(2, 0, 0)
	require.ErrorIs(t, err, volume.ErrOutOfBounds)
	require.ErrorIs(t, err, errkind.ErrMalformedInput)
}

func TestLabels_Regions(t *testing.T) {
	l := cube(t)
	require.Equal(t, []uint32{1, 2, 3}, l.Regions(0))
	require.Equal(t, []uint32{2, 3}, l.Regions(1))
	require.Equal(t, 5, l.MaskVoxels(0))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, level := range []int{0, 3} {
		dir := t.TempDir()
		path, err := volume.Save(dir, "roi", cube(t), level)
		require.NoError(t, err)

		got, err := volume.Load(path)
		require.NoError(t, err)
		require.Equal(t, "cube", got.Name())
		require.Equal(t, morton.Shape{NX: 2, NY: 2, NZ: 2}, got.Shape())
		require.Equal(t, cube(t).Data(), got.Data())
	}
}

func writeDescriptor(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "roi.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestLoad_DTypes(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, []int16{0, 7, 300, 7}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roi.bin"), buf.Bytes(), 0o644))
	path := writeDescriptor(t, dir, `
name = "be16"
dims = [2, 2, 1]
dtype = "int16"
byte_order = "big"
data = "roi.bin"
`)
	l, err := volume.Load(path)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 7, 300, 7}, l.Data())
	require.Equal(t, []uint32{7, 300}, l.Regions(0))
}

func TestLoad_CompressedUint8(t *testing.T) {
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, "roi.raw.zst"))
	require.NoError(t, err)
	enc, err := zio.NewWriter(f, 1)
	require.NoError(t, err)
	_, err = enc.Write([]byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	path := writeDescriptor(t, dir, "dims = [3, 2, 1]\ndtype = \"uint8\"\ndata = \"roi.raw.zst\"\n")
	l, err := volume.Load(path)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 3, 4, 5, 6}, l.Data())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := volume.Load(filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, volume.ErrNotFound)
	require.ErrorIs(t, err, errkind.ErrInputNotFound)

	path := writeDescriptor(t, dir, "dims = [2, 1, 1]\ndtype = \"uint8\"\ndata = \"nope.raw\"\n")
	_, err = volume.Load(path)
	require.ErrorIs(t, err, errkind.ErrInputNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "short.raw"), []byte{1}, 0o644))
	path = writeDescriptor(t, dir, "dims = [2, 1, 1]\ndtype = \"uint8\"\ndata = \"short.raw\"\n")
	_, err = volume.Load(path)
	require.ErrorIs(t, err, volume.ErrMalformed)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "long.raw"), []byte{1, 2, 3}, 0o644))
	path = writeDescriptor(t, dir, "dims = [2, 1, 1]\ndtype = \"uint8\"\ndata = \"long.raw\"\n")
	_, err = volume.Load(path)
	require.ErrorIs(t, err, volume.ErrMalformed)

	path = writeDescriptor(t, dir, "dims = [2, 1, 1]\ndtype = \"float32\"\ndata = \"long.raw\"\n")
	_, err = volume.Load(path)
	require.ErrorIs(t, err, volume.ErrMalformed)

	path = writeDescriptor(t, dir, "dims = [2, 1, 1\n")
	_, err = volume.Load(path)
	require.ErrorIs(t, err, errkind.ErrMalformedInput)
}

func TestDecode_NegativeLabel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []int32{1, -1}))
	d := volume.Descriptor{Dims: [3]uint32{2, 1, 1}, DType: "int32"}
	_, err := volume.Decode(d, &buf)
	require.ErrorIs(t, err, volume.ErrMalformed)
}
