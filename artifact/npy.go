// SPDX-License-Identifier: MIT

package artifact

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// WriteVector writes v as a 1-d float64 array.
func WriteVector(path string, v []float64) error {
	return writeNPY(path, v)
}

// ReadVector reads a 1-d float64 array.
func ReadVector(path string) ([]float64, error) {
	var v []float64
	if err := readNPY(path, &v); err != nil {
		return nil, err
	}

	return v, nil
}

// WriteInts writes ids as a 1-d int64 array.
func WriteInts(path string, ids []int) error {
	v := make([]int64, len(ids))
	for i, id := range ids {
		v[i] = int64(id)
	}

	return writeNPY(path, v)
}

// ReadInts reads a 1-d int64 array.
func ReadInts(path string) ([]int, error) {
	var v []int64
	if err := readNPY(path, &v); err != nil {
		return nil, err
	}
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}

	return out, nil
}

// WriteUint32s writes v as a 1-d uint32 array.
func WriteUint32s(path string, v []uint32) error {
	return writeNPY(path, v)
}

// WriteMatrix writes m as a row-major 2-d float64 array.
func WriteMatrix(path string, m *mat.Dense) error {
	return writeNPY(path, m)
}

// ReadMatrix reads a 2-d float64 array.
func ReadMatrix(path string) (*mat.Dense, error) {
	var m mat.Dense
	if err := readNPY(path, &m); err != nil {
		return nil, err
	}

	return &m, nil
}

func writeNPY(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("write %s: %w", path, cerr)
		}
	}()
	w := bufio.NewWriter(f)
	if err := npyio.Write(w, v); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func readNPY(path string, ptr any) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()
	if err := npyio.Read(bufio.NewReader(f), ptr); err != nil {
		return fmt.Errorf("read %s: %v: %w", path, err, ErrMalformed)
	}

	return nil
}
