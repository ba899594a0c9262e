// SPDX-License-Identifier: MIT

package morton

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/connectome/errkind"
)

var (
	// ErrOutOfBounds is returned when a coordinate lies outside the declared
	// volume, or a code decodes to such a coordinate.
	ErrOutOfBounds = fmt.Errorf("morton: %w", errkind.ErrOutOfBounds)

	// ErrBadShape is returned for zero dimensions or dimensions above MaxDim.
	ErrBadShape = errors.New("morton: invalid volume shape")
)
