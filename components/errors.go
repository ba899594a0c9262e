// SPDX-License-Identifier: MIT

package components

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/connectome/errkind"
)

var (
	// ErrNilGraph is returned when a nil adjacency is passed.
	ErrNilGraph = errors.New("components: graph is nil")

	// ErrAsymmetric is returned for a directed (non-symmetric) adjacency.
	ErrAsymmetric = fmt.Errorf("components: adjacency is not symmetric: %w", errkind.ErrMalformedInput)

	// ErrNoEdges is returned by LCC when every vertex is isolated.
	ErrNoEdges = fmt.Errorf("components: graph has no edges: %w", errkind.ErrMalformedInput)

	// ErrLabelOutOfRange is returned by Members for an unknown label.
	ErrLabelOutOfRange = errors.New("components: label out of range")
)
