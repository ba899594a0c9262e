// SPDX-License-Identifier: MIT

package volume

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/connectome/internal/zio"
	"github.com/katalvlaran/connectome/morton"
)

// Descriptor is the TOML header of a label volume.
type Descriptor struct {
	Name      string    `toml:"name"`
	Dims      [3]uint32 `toml:"dims"`
	DType     string    `toml:"dtype"`
	ByteOrder string    `toml:"byte_order"`
	Data      string    `toml:"data"`
}

// Shape returns the descriptor dimensions as a morton.Shape.
func (d Descriptor) Shape() morton.Shape {
	return morton.Shape{NX: d.Dims[0], NY: d.Dims[1], NZ: d.Dims[2]}
}

func (d Descriptor) order() (binary.ByteOrder, error) {
	switch d.ByteOrder {
	case "", "little":
		return binary.LittleEndian, nil
	case "big":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("byte_order %q: %w", d.ByteOrder, ErrMalformed)
	}
}

// width returns the voxel size in bytes and whether the type is signed.
func (d Descriptor) width() (int, bool, error) {
	switch d.DType {
	case "uint8":
		return 1, false, nil
	case "uint16":
		return 2, false, nil
	case "int16":
		return 2, true, nil
	case "uint32":
		return 4, false, nil
	case "int32":
		return 4, true, nil
	default:
		return 0, false, fmt.Errorf("dtype %q: %w", d.DType, ErrMalformed)
	}
}

// Load reads a descriptor and its voxel data.
//
// Errors: ErrNotFound (descriptor or data missing), ErrMalformed (bad
// descriptor, short or oversized data, negative labels).
func Load(path string) (*Labels, error) {
	var d Descriptor
	if _, err := toml.DecodeFile(path, &d); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("Load %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("Load %s: %v: %w", path, err, ErrMalformed)
	}
	if d.Data == "" {
		return nil, fmt.Errorf("Load %s: missing data path: %w", path, ErrMalformed)
	}
	dataPath := d.Data
	if !filepath.IsAbs(dataPath) {
		dataPath = filepath.Join(filepath.Dir(path), dataPath)
	}
	f, err := os.Open(dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("Load %s: data %s: %w", path, dataPath, ErrNotFound)
		}
		return nil, fmt.Errorf("Load %s: %w", path, err)
	}
	defer f.Close()

	l, err := Decode(d, f)
	if err != nil {
		return nil, fmt.Errorf("Load %s: %w", path, err)
	}

	return l, nil
}

// Decode reads voxel data described by d from r (raw or zstd).
func Decode(d Descriptor, r io.Reader) (*Labels, error) {
	shape := d.Shape()
	if shape.NX == 0 || shape.NY == 0 || shape.NZ == 0 {
		return nil, fmt.Errorf("dims %v: %w", d.Dims, ErrMalformed)
	}
	order, err := d.order()
	if err != nil {
		return nil, err
	}
	width, signed, err := d.width()
	if err != nil {
		return nil, err
	}
	zr, err := zio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("data: %v: %w", err, ErrMalformed)
	}
	defer zr.Close()

	n := shape.Voxels()
	raw := make([]byte, n*uint64(width))
	if _, err := io.ReadFull(zr, raw); err != nil {
		return nil, fmt.Errorf("data: want %d bytes: %v: %w", len(raw), err, ErrMalformed)
	}
	var extra [1]byte
	if k, _ := zr.Read(extra[:]); k > 0 {
		return nil, fmt.Errorf("data: longer than %d bytes: %w", len(raw), ErrMalformed)
	}

	data := make([]uint32, n)
	for i := range data {
		b := raw[i*width : (i+1)*width]
		var v int64
		switch width {
		case 1:
			v = int64(b[0])
		case 2:
			u := order.Uint16(b)
			v = int64(u)
			if signed {
				v = int64(int16(u))
			}
		case 4:
			u := order.Uint32(b)
			v = int64(u)
			if signed {
				v = int64(int32(u))
			}
		}
		if v < 0 {
			return nil, fmt.Errorf("data: negative label %d at voxel %d: %w", v, i, ErrMalformed)
		}
		data[i] = uint32(v)
	}

	return New(d.Name, shape, data)
}

// Save writes l as <dir>/<base>.toml plus its data file (".raw", or ".raw.zst"
// when level > 0) using dtype uint32 little-endian. It returns the
// descriptor path.
func Save(dir, base string, l *Labels, level int) (string, error) {
	d := Descriptor{
		Name:      l.name,
		Dims:      [3]uint32{l.shape.NX, l.shape.NY, l.shape.NZ},
		DType:     "uint32",
		ByteOrder: "little",
		Data:      base + ".raw",
	}
	if level > 0 {
		d.Data += ".zst"
	}
	if err := writeData(filepath.Join(dir, d.Data), l.data, level); err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	path := filepath.Join(dir, base+".toml")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(d); err != nil {
		f.Close()
		return "", fmt.Errorf("Save: %w", err)
	}

	return path, f.Close()
}

func writeData(path string, data []uint32, level int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	var w io.Writer = f
	if level > 0 {
		enc, err := zio.NewWriter(f, level)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := enc.Close(); err == nil {
				err = cerr
			}
		}()
		w = enc
	}

	return binary.Write(w, binary.LittleEndian, data)
}
