// SPDX-License-Identifier: MIT

package fiber

import (
	"fmt"

	"github.com/katalvlaran/connectome/errkind"
)

var (
	// ErrNotFound is returned by Open for a missing file.
	ErrNotFound = fmt.Errorf("fiber: %w", errkind.ErrInputNotFound)

	// ErrBadHeader is returned for a wrong magic, version or shape.
	ErrBadHeader = fmt.Errorf("fiber: bad header: %w", errkind.ErrMalformedInput)

	// ErrTruncated is returned when the stream ends inside a fiber.
	ErrTruncated = fmt.Errorf("fiber: truncated stream: %w", errkind.ErrMalformedInput)

	// ErrTooLong is returned for a fiber above MaxPoints.
	ErrTooLong = fmt.Errorf("fiber: fiber too long: %w", errkind.ErrMalformedInput)
)
