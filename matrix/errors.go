// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All functions return these sentinels (possibly wrapped with "Op: ...: %w")
// and tests check them via errors.Is. Sentinels that correspond to a
// taxonomy kind wrap it, so errors.Is(err, errkind.ErrX) also holds.

package matrix

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/connectome/errkind"
)

var (
	// ErrBadShape is returned when a requested dimension is negative or too large.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates a row or column index outside [0, n).
	ErrOutOfRange = fmt.Errorf("matrix: index out of range: %w", errkind.ErrOutOfBounds)

	// ErrDimensionMismatch indicates incompatible operand sizes (vector length,
	// CSR array lengths).
	ErrDimensionMismatch = fmt.Errorf("matrix: %w", errkind.ErrDimensionMismatch)

	// ErrMalformedCSR indicates inconsistent CSR arrays (non-monotone row
	// pointers, unsorted or duplicate column indices).
	ErrMalformedCSR = fmt.Errorf("matrix: malformed CSR: %w", errkind.ErrMalformedInput)

	// ErrSelfLoop is returned when a diagonal entry is added to an accumulator
	// that does not allow loops.
	ErrSelfLoop = errors.New("matrix: self-loop not allowed")

	// ErrNaNInf signals a NaN or ±Inf weight under the finite-value policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrCompleted is returned when an accumulator is used after Complete.
	ErrCompleted = errors.New("matrix: accumulator already completed")

	// ErrNilMatrix indicates a nil *CSR argument.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)
