// SPDX-License-Identifier: MIT

package spectral

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/connectome/errkind"
)

var (
	// ErrNilOperator is returned when a nil operator or matrix is passed.
	ErrNilOperator = errors.New("spectral: operator is nil")

	// ErrBadRank is returned when k is not in [1, n].
	ErrBadRank = fmt.Errorf("spectral: k must be in [1,n]: %w", errkind.ErrDimensionMismatch)

	// ErrNonConvergence is returned when the iteration budget is exhausted.
	ErrNonConvergence = fmt.Errorf("spectral: %w", errkind.ErrNonConvergence)
)
