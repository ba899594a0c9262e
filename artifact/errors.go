// SPDX-License-Identifier: MIT

package artifact

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/connectome/errkind"
)

var (
	// ErrNotFound is returned when an artifact file or index key is missing.
	ErrNotFound = fmt.Errorf("artifact: %w", errkind.ErrInputNotFound)

	// ErrMalformed is returned for a corrupt container or an array of the wrong shape.
	ErrMalformed = fmt.Errorf("artifact: %w", errkind.ErrMalformedInput)

	// ErrIndexClosed is returned by Index methods after Close.
	ErrIndexClosed = errors.New("artifact: index closed")
)
