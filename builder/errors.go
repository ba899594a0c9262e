// SPDX-License-Identifier: MIT

package builder

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/connectome/errkind"
)

var (
	// ErrNilVolume is returned by New without a label volume.
	ErrNilVolume = errors.New("builder: nil label volume")

	// ErrVolumeTooLarge is returned when the voxel vertex space exceeds matrix.MaxDim.
	ErrVolumeTooLarge = fmt.Errorf("builder: volume too large for voxel mode: %w", errkind.ErrMalformedInput)

	// ErrNoRegions is returned in region mode when no label exceeds the background.
	ErrNoRegions = fmt.Errorf("builder: no regions above background: %w", errkind.ErrMalformedInput)

	// ErrStreamlineOutOfBounds is returned by Add for a point outside the volume.
	ErrStreamlineOutOfBounds = fmt.Errorf("builder: streamline point: %w", errkind.ErrOutOfBounds)

	// ErrCompleted is returned by Add, Ingest and Complete after Complete.
	ErrCompleted = errors.New("builder: graph already completed")

	// ErrTooFewVertices indicates a topology size below its minimum.
	ErrTooFewVertices = errors.New("builder: parameter too small")

	// ErrInvalidProbability indicates a probability outside [0,1].
	ErrInvalidProbability = errors.New("builder: probability out of range")
)
