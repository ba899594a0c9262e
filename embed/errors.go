// SPDX-License-Identifier: MIT

package embed

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/connectome/errkind"
)

var (
	// ErrNilGraph is returned when a nil adjacency or embedding is passed.
	ErrNilGraph = errors.New("embed: input is nil")

	// ErrBadDimension is returned when d is outside [1, MaxDim] or exceeds n.
	ErrBadDimension = fmt.Errorf("embed: embedding dimension out of range: %w", errkind.ErrDimensionMismatch)

	// ErrAsymmetric is returned for a non-symmetric adjacency in undirected mode.
	ErrAsymmetric = fmt.Errorf("embed: adjacency is not symmetric (set Directed): %w", errkind.ErrMalformedInput)

	// ErrShapeMismatch is returned when Procrustes inputs differ in shape.
	ErrShapeMismatch = fmt.Errorf("embed: embeddings differ in shape: %w", errkind.ErrDimensionMismatch)

	// ErrDegenerate is returned when an embedding has no spread after centering.
	ErrDegenerate = errors.New("embed: embedding is degenerate")

	// ErrUnknownTransform is returned by ParseTransform.
	ErrUnknownTransform = errors.New("embed: unknown transform")
)
