// SPDX-License-Identifier: MIT

package volume

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/connectome/morton"
)

// Labels is an in-memory label volume. It is read-only after construction.
type Labels struct {
	name  string
	shape morton.Shape
	data  []uint32
}

// New wraps data (x-fastest, len = nx·ny·nz) as a label volume.
// Errors: ErrMalformed on a zero dimension or a length mismatch.
func New(name string, shape morton.Shape, data []uint32) (*Labels, error) {
	if shape.NX == 0 || shape.NY == 0 || shape.NZ == 0 {
		return nil, fmt.Errorf("New: shape %v: %w", shape, ErrMalformed)
	}
	if uint64(len(data)) != shape.Voxels() {
		return nil, fmt.Errorf("New: %d voxels for shape %dx%dx%d: %w",
			len(data), shape.NX, shape.NY, shape.NZ, ErrMalformed)
	}

	return &Labels{name: name, shape: shape, data: data}, nil
}

// Name returns the descriptor name (may be empty).
func (l *Labels) Name() string { return l.name }

// Shape returns the volume dimensions.
func (l *Labels) Shape() morton.Shape { return l.shape }

// At returns the label at (x,y,z).
// Errors: ErrOutOfBounds.
func (l *Labels) At(x, y, z uint32) (uint32, error) {
	if !l.shape.Contains(morton.Coord{X: x, Y: y, Z: z}) {
		return 0, fmt.Errorf("At(%d,%d,%d): shape %dx%dx%d: %w",
			x, y, z, l.shape.NX, l.shape.NY, l.shape.NZ, ErrOutOfBounds)
	}

	return l.data[l.offset(x, y, z)], nil
}

// AtCoord is At for a morton.Coord.
func (l *Labels) AtCoord(c morton.Coord) (uint32, error) { return l.At(c.X, c.Y, c.Z) }

func (l *Labels) offset(x, y, z uint32) uint64 {
	return uint64(x) + uint64(l.shape.NX)*(uint64(y)+uint64(l.shape.NY)*uint64(z))
}

// Data exposes the voxel labels (x-fastest). Treat as read-only.
func (l *Labels) Data() []uint32 { return l.data }

// Regions returns the distinct labels greater than minLabel in ascending order.
// Complexity: O(V + r log r) for V voxels and r regions.
func (l *Labels) Regions(minLabel uint32) []uint32 {
	seen := make(map[uint32]struct{})
	for _, v := range l.data {
		if v > minLabel {
			seen[v] = struct{}{}
		}
	}
	out := make([]uint32, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)

	return out
}

// MaskVoxels counts voxels with a label greater than minLabel.
func (l *Labels) MaskVoxels(minLabel uint32) int {
	var c int
	for _, v := range l.data {
		if v > minLabel {
			c++
		}
	}

	return c
}
