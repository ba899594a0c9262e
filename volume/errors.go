// SPDX-License-Identifier: MIT

package volume

import (
	"fmt"

	"github.com/katalvlaran/connectome/errkind"
)

var (
	// ErrNotFound is returned when the descriptor or its data file is missing.
	ErrNotFound = fmt.Errorf("volume: %w", errkind.ErrInputNotFound)

	// ErrMalformed is returned for invalid descriptors or data of the wrong size.
	ErrMalformed = fmt.Errorf("volume: %w", errkind.ErrMalformedInput)

	// ErrOutOfBounds is returned by At for coordinates outside the volume.
	ErrOutOfBounds = fmt.Errorf("volume: %w", errkind.ErrOutOfBounds)
)
