// SPDX-License-Identifier: MIT

package morton

import (
	"fmt"
	"math/bits"
)

// MaxDim is the largest supported extent per axis (21 bits, so a code fits
// in 63 bits).
const MaxDim = 1 << 21

// Magic masks for 3-way bit spreading of a 21-bit integer.
const (
	mask0 = 0x1fffff
	mask1 = 0x1f00000000ffff
	mask2 = 0x1f0000ff0000ff
	mask3 = 0x100f00f00f00f00f
	mask4 = 0x10c30c30c30c30c3
	mask5 = 0x1249249249249249
)

// Coord is a voxel coordinate.
type Coord struct {
	X, Y, Z uint32
}

// String renders the coordinate as (x,y,z).
func (c Coord) String() string { return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z) }

// Shape is the declared extent of a volume.
type Shape struct {
	NX, NY, NZ uint32
}

// Voxels returns nx·ny·nz.
func (s Shape) Voxels() uint64 { return uint64(s.NX) * uint64(s.NY) * uint64(s.NZ) }

// Contains reports whether c lies inside the volume.
func (s Shape) Contains(c Coord) bool { return c.X < s.NX && c.Y < s.NY && c.Z < s.NZ }

// Indexer encodes and decodes coordinates of one volume.
// It is immutable and safe for concurrent use.
type Indexer struct {
	shape    Shape
	bits     int    // bits per axis
	capacity uint64 // 1 << (3*bits)
}

// NewIndexer validates shape and returns an Indexer for it.
// Returns ErrBadShape when any dimension is zero or above MaxDim.
func NewIndexer(shape Shape) (*Indexer, error) {
	if shape.NX == 0 || shape.NY == 0 || shape.NZ == 0 {
		return nil, fmt.Errorf("NewIndexer: shape %dx%dx%d: %w", shape.NX, shape.NY, shape.NZ, ErrBadShape)
	}
	if shape.NX > MaxDim || shape.NY > MaxDim || shape.NZ > MaxDim {
		return nil, fmt.Errorf("NewIndexer: shape %dx%dx%d exceeds %d: %w", shape.NX, shape.NY, shape.NZ, MaxDim, ErrBadShape)
	}
	maxDim := max(shape.NX, shape.NY, shape.NZ)
	b := bits.Len32(maxDim - 1) // smallest b with 2^b >= maxDim

	return &Indexer{shape: shape, bits: b, capacity: uint64(1) << (3 * b)}, nil
}

// Shape returns the declared volume.
func (ix *Indexer) Shape() Shape { return ix.shape }

// Capacity returns the size of the code space; every valid code is below it.
func (ix *Indexer) Capacity() uint64 { return ix.capacity }

// Encode maps (x,y,z) to its Morton code.
// Returns ErrOutOfBounds when the coordinate is outside the volume.
func (ix *Indexer) Encode(x, y, z uint32) (uint64, error) {
	if x >= ix.shape.NX || y >= ix.shape.NY || z >= ix.shape.NZ {
		return 0, fmt.Errorf("Encode(%d,%d,%d): volume %dx%dx%d: %w",
			x, y, z, ix.shape.NX, ix.shape.NY, ix.shape.NZ, ErrOutOfBounds)
	}

	return spread(x) | spread(y)<<1 | spread(z)<<2, nil
}

// EncodeCoord is Encode for a Coord.
func (ix *Indexer) EncodeCoord(c Coord) (uint64, error) { return ix.Encode(c.X, c.Y, c.Z) }

// Decode maps a Morton code back to its coordinate.
// Returns ErrOutOfBounds when the code is beyond Capacity or its coordinate
// lies outside the volume.
func (ix *Indexer) Decode(i uint64) (Coord, error) {
	if i >= ix.capacity {
		return Coord{}, fmt.Errorf("Decode(%d): capacity %d: %w", i, ix.capacity, ErrOutOfBounds)
	}
	c := Coord{X: compact(i), Y: compact(i >> 1), Z: compact(i >> 2)}
	if !ix.shape.Contains(c) {
		return Coord{}, fmt.Errorf("Decode(%d): %s outside %dx%dx%d: %w",
			i, c, ix.shape.NX, ix.shape.NY, ix.shape.NZ, ErrOutOfBounds)
	}

	return c, nil
}

// spread inserts two zero bits between each of the low 21 bits of v.
func spread(v uint32) uint64 {
	x := uint64(v) & mask0
	x = (x | x<<32) & mask1
	x = (x | x<<16) & mask2
	x = (x | x<<8) & mask3
	x = (x | x<<4) & mask4
	x = (x | x<<2) & mask5

	return x
}

// compact is the inverse of spread: it gathers every third bit of v.
func compact(v uint64) uint32 {
	x := v & mask5
	x = (x ^ x>>2) & mask4
	x = (x ^ x>>4) & mask3
	x = (x ^ x>>8) & mask2
	x = (x ^ x>>16) & mask1
	x = (x ^ x>>32) & mask0

	return uint32(x)
}
