// SPDX-License-Identifier: MIT

package fiber

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/katalvlaran/connectome/internal/zio"
	"github.com/katalvlaran/connectome/morton"
)

// Version is the container version written and accepted.
const Version = 1

// MaxPoints bounds a single fiber so a corrupt length cannot exhaust memory.
const MaxPoints = 1 << 24

var magic = [4]byte{'C', 'B', 'F', 'B'}

// Streamline is an ordered voxel sequence.
type Streamline []morton.Coord

// Source yields streamlines; Next returns io.EOF after the last one.
type Source interface {
	Next() (Streamline, error)
}

// Header is the container preamble.
type Header struct {
	Shape morton.Shape
	Count uint64 // 0 when unknown
}

// Reader decodes a container stream.
type Reader struct {
	hdr  Header
	r    *bufio.Reader
	zr   *zio.Reader
	f    *os.File
	buf  []byte
	read uint64
}

// NewReader reads the header from src (raw or zstd).
// Errors: ErrBadHeader.
func NewReader(src io.Reader) (*Reader, error) {
	zr, err := zio.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("NewReader: %v: %w", err, ErrBadHeader)
	}
	r := &Reader{r: bufio.NewReader(zr), zr: zr}

	var raw [4 + 4 + 12 + 8]byte
	if _, err := io.ReadFull(r.r, raw[:]); err != nil {
		zr.Close()
		return nil, fmt.Errorf("NewReader: %v: %w", err, ErrBadHeader)
	}
	if [4]byte(raw[:4]) != magic {
		zr.Close()
		return nil, fmt.Errorf("NewReader: magic %q: %w", raw[:4], ErrBadHeader)
	}
	if v := binary.LittleEndian.Uint32(raw[4:8]); v != Version {
		zr.Close()
		return nil, fmt.Errorf("NewReader: version %d: %w", v, ErrBadHeader)
	}
	r.hdr.Shape = morton.Shape{
		NX: binary.LittleEndian.Uint32(raw[8:12]),
		NY: binary.LittleEndian.Uint32(raw[12:16]),
		NZ: binary.LittleEndian.Uint32(raw[16:20]),
	}
	r.hdr.Count = binary.LittleEndian.Uint64(raw[20:28])
	if r.hdr.Shape.Voxels() == 0 {
		zr.Close()
		return nil, fmt.Errorf("NewReader: shape %v: %w", r.hdr.Shape, ErrBadHeader)
	}

	return r, nil
}

// Open opens a container file.
// Errors: ErrNotFound, ErrBadHeader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("Open %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("Open %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("Open %s: %w", path, err)
	}
	r.f = f

	return r, nil
}

// Header returns the container preamble.
func (r *Reader) Header() Header { return r.hdr }

// Next decodes the next fiber. The returned slice is freshly allocated.
// It returns io.EOF at a clean end of stream.
func (r *Reader) Next() (Streamline, error) {
	var nb [4]byte
	if _, err := io.ReadFull(r.r, nb[:]); err != nil {
		if err == io.EOF {
			if r.hdr.Count != 0 && r.read != r.hdr.Count {
				return nil, fmt.Errorf("Next: %d of %d fibers: %w", r.read, r.hdr.Count, ErrTruncated)
			}
			return nil, io.EOF
		}
		return nil, fmt.Errorf("Next: fiber %d: %w", r.read, ErrTruncated)
	}
	n := binary.LittleEndian.Uint32(nb[:])
	if n > MaxPoints {
		return nil, fmt.Errorf("Next: fiber %d has %d points: %w", r.read, n, ErrTooLong)
	}
	need := int(n) * 12
	if cap(r.buf) < need {
		r.buf = make([]byte, need)
	}
	b := r.buf[:need]
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, fmt.Errorf("Next: fiber %d: %w", r.read, ErrTruncated)
	}
	s := make(Streamline, n)
	for i := range s {
		p := b[i*12:]
		s[i] = morton.Coord{
			X: binary.LittleEndian.Uint32(p[0:4]),
			Y: binary.LittleEndian.Uint32(p[4:8]),
			Z: binary.LittleEndian.Uint32(p[8:12]),
		}
	}
	r.read++

	return s, nil
}

// Close releases the decoder and, for Open, the file.
func (r *Reader) Close() error {
	r.zr.Close()
	if r.f != nil {
		return r.f.Close()
	}

	return nil
}

// Writer encodes a container stream.
type Writer struct {
	w     *bufio.Writer
	enc   io.WriteCloser
	count uint64
	buf   []byte
}

// NewWriter writes the header to dst; level > 0 wraps the stream in zstd.
// count may be 0 when the number of fibers is unknown up front.
func NewWriter(dst io.Writer, hdr Header, level int) (*Writer, error) {
	w := &Writer{}
	if level > 0 {
		enc, err := zio.NewWriter(dst, level)
		if err != nil {
			return nil, fmt.Errorf("NewWriter: %w", err)
		}
		w.enc = enc
		dst = enc
	}
	w.w = bufio.NewWriter(dst)

	var raw [28]byte
	copy(raw[:4], magic[:])
	binary.LittleEndian.PutUint32(raw[4:8], Version)
	binary.LittleEndian.PutUint32(raw[8:12], hdr.Shape.NX)
	binary.LittleEndian.PutUint32(raw[12:16], hdr.Shape.NY)
	binary.LittleEndian.PutUint32(raw[16:20], hdr.Shape.NZ)
	binary.LittleEndian.PutUint64(raw[20:28], hdr.Count)
	if _, err := w.w.Write(raw[:]); err != nil {
		return nil, fmt.Errorf("NewWriter: %w", err)
	}

	return w, nil
}

// Write appends one fiber.
func (w *Writer) Write(s Streamline) error {
	need := 4 + 12*len(s)
	if cap(w.buf) < need {
		w.buf = make([]byte, need)
	}
	b := w.buf[:need]
	binary.LittleEndian.PutUint32(b, uint32(len(s)))
	for i, c := range s {
		p := b[4+i*12:]
		binary.LittleEndian.PutUint32(p[0:4], c.X)
		binary.LittleEndian.PutUint32(p[4:8], c.Y)
		binary.LittleEndian.PutUint32(p[8:12], c.Z)
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("Write: %w", err)
	}
	w.count++

	return nil
}

// Count returns the number of fibers written so far.
func (w *Writer) Count() uint64 { return w.count }

// Close flushes buffered data and the zstd frame. It does not close dst.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			return fmt.Errorf("Close: %w", err)
		}
	}

	return nil
}

// SliceSource serves streamlines from memory.
type SliceSource struct {
	fibers []Streamline
	next   int
}

// NewSliceSource returns a Source over fibers.
func NewSliceSource(fibers ...Streamline) *SliceSource {
	return &SliceSource{fibers: fibers}
}

// Next implements Source.
func (s *SliceSource) Next() (Streamline, error) {
	if s.next >= len(s.fibers) {
		return nil, io.EOF
	}
	f := s.fibers[s.next]
	s.next++

	return f, nil
}

// Reset rewinds the source for another pass.
func (s *SliceSource) Reset() { s.next = 0 }
