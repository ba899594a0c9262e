// SPDX-License-Identifier: MIT

package invariants

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/connectome/errkind"
)

var (
	// ErrNilGraph is returned when a nil adjacency is passed.
	ErrNilGraph = errors.New("invariants: graph is nil")

	// ErrLengthMismatch is returned when per-vertex arrays used jointly differ in length.
	ErrLengthMismatch = fmt.Errorf("invariants: per-vertex arrays differ in length: %w", errkind.ErrDimensionMismatch)

	// ErrGraphTooLarge is returned by WeightedClusteringCoefficient above its vertex cap.
	ErrGraphTooLarge = errors.New("invariants: graph exceeds the vertex cap for this invariant")

	// ErrUnknownInvariant is returned for an unrecognized invariant name.
	ErrUnknownInvariant = errors.New("invariants: unknown invariant")
)
