// SPDX-License-Identifier: MIT

package artifact

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/katalvlaran/connectome/internal/zio"
	"github.com/katalvlaran/connectome/matrix"
)

// GraphVersion is the CSR container version.
const GraphVersion = 1

var graphMagic = [4]byte{'C', 'C', 'S', 'R'}

// EncodeGraph writes a in the CSR container format; level > 0 compresses
// the whole stream with zstd.
func EncodeGraph(dst io.Writer, a *matrix.CSR, level int) error {
	var closer io.Closer
	if level > 0 {
		enc, err := zio.NewWriter(dst, level)
		if err != nil {
			return fmt.Errorf("EncodeGraph: %w", err)
		}
		dst, closer = enc, enc
	}
	w := bufio.NewWriter(dst)

	indptr, indices, data := a.Arrays()
	var hdr [24]byte
	copy(hdr[:4], graphMagic[:])
	binary.LittleEndian.PutUint32(hdr[4:8], GraphVersion)
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(a.Dim()))
	binary.LittleEndian.PutUint64(hdr[16:24], uint64(a.NNZ()))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("EncodeGraph: %w", err)
	}
	for _, v := range []any{indptr, indices, data} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("EncodeGraph: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("EncodeGraph: %w", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("EncodeGraph: %w", err)
		}
	}

	return nil
}

// DecodeGraph reads a CSR container (raw or zstd) and validates it.
// Errors: ErrMalformed.
func DecodeGraph(src io.Reader) (*matrix.CSR, error) {
	zr, err := zio.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("DecodeGraph: %v: %w", err, ErrMalformed)
	}
	defer zr.Close()
	r := bufio.NewReader(zr)

	var hdr [24]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("DecodeGraph: header: %v: %w", err, ErrMalformed)
	}
	if [4]byte(hdr[:4]) != graphMagic {
		return nil, fmt.Errorf("DecodeGraph: magic %q: %w", hdr[:4], ErrMalformed)
	}
	if v := binary.LittleEndian.Uint32(hdr[4:8]); v != GraphVersion {
		return nil, fmt.Errorf("DecodeGraph: version %d: %w", v, ErrMalformed)
	}
	n := binary.LittleEndian.Uint64(hdr[8:16])
	nnz := binary.LittleEndian.Uint64(hdr[16:24])
	if n > matrix.MaxDim || nnz > n*n {
		return nil, fmt.Errorf("DecodeGraph: n=%d nnz=%d: %w", n, nnz, ErrMalformed)
	}

	indptr := make([]int64, n+1)
	indices := make([]int32, nnz)
	data := make([]float64, nnz)
	for _, v := range []any{indptr, indices, data} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("DecodeGraph: body: %v: %w", err, ErrMalformed)
		}
	}
	a, err := matrix.NewCSR(int(n), indptr, indices, data)
	if err != nil {
		return nil, fmt.Errorf("DecodeGraph: %w", err)
	}

	return a, nil
}

// WriteGraph writes a to path.
func WriteGraph(path string, a *matrix.CSR, level int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteGraph %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("WriteGraph %s: %w", path, cerr)
		}
	}()
	if err := EncodeGraph(f, a, level); err != nil {
		return fmt.Errorf("WriteGraph %s: %w", path, err)
	}

	return nil
}

// ReadGraph reads a graph written by WriteGraph.
// Errors: ErrNotFound, ErrMalformed.
func ReadGraph(path string) (*matrix.CSR, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("ReadGraph %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("ReadGraph %s: %w", path, err)
	}
	defer f.Close()
	a, err := DecodeGraph(f)
	if err != nil {
		return nil, fmt.Errorf("ReadGraph %s: %w", path, err)
	}

	return a, nil
}
