// SPDX-License-Identifier: MIT

// Package zio wraps zstd framing for the on-disk formats: readers detect a
// zstd frame by its magic number so compressed and raw files are read alike.
package zio

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Magic is the zstd frame magic number.
var Magic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// DefaultLevel is the zstd level used when none is configured.
const DefaultLevel = 3

// Reader is a possibly decompressing reader; Close releases the decoder but
// never the underlying source.
type Reader struct {
	io.Reader
	dec *zstd.Decoder
}

// Close releases decoder resources.
func (r *Reader) Close() error {
	if r.dec != nil {
		r.dec.Close()
	}

	return nil
}

// Compressed reports whether the stream was zstd-framed.
func (r *Reader) Compressed() bool { return r.dec != nil }

// NewReader peeks at src and transparently decompresses zstd input.
func NewReader(src io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(src, 1<<16)
	head, err := br.Peek(len(Magic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	if !bytes.Equal(head, Magic) {
		return &Reader{Reader: br}, nil
	}
	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, err
	}

	return &Reader{Reader: dec, dec: dec}, nil
}

// NewWriter returns a zstd encoder at the given level (1 fastest .. 22
// smallest; <= 0 uses DefaultLevel). The caller must Close it to flush the
// frame; closing does not close dst.
func NewWriter(dst io.Writer, level int) (*zstd.Encoder, error) {
	if level <= 0 {
		level = DefaultLevel
	}

	return zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
}
