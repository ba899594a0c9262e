// SPDX-License-Identifier: MIT

package builder

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/connectome/matrix"
)

// Mode selects the vertex resolution.
type Mode int

const (
	// ModeVoxel uses one vertex per voxel (Morton code).
	ModeVoxel Mode = iota
	// ModeRegion uses one vertex per region label.
	ModeRegion
)

// String returns "voxel" or "region".
func (m Mode) String() string {
	switch m {
	case ModeVoxel:
		return "voxel"
	case ModeRegion:
		return "region"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "voxel":
		return ModeVoxel, nil
	case "region":
		return ModeRegion, nil
	default:
		return 0, fmt.Errorf("builder: unknown mode %q", s)
	}
}

// Panic messages for invalid option values.
const (
	panicModeInvalid   = "builder: WithMode: unknown mode"
	panicWindowInvalid = "builder: WithWindow: window must be >= 0"
	panicLoggerNil     = "builder: WithLogger(nil)"
)

// Option customizes a Builder.
type Option func(*config)

type config struct {
	mode          Mode
	window        int
	minLabel      uint32
	skipMalformed bool
	logger        *slog.Logger
	matrixOpts    []matrix.Option
}

func newConfig(opts ...Option) config {
	cfg := config{mode: ModeRegion, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// WithMode sets the vertex resolution (default ModeRegion).
// Panics on an unknown mode.
func WithMode(m Mode) Option {
	if m != ModeVoxel && m != ModeRegion {
		panic(panicModeInvalid)
	}

	return func(c *config) { c.mode = m }
}

// WithWindow limits pairs to first visits at most w steps apart.
// 0 (default) keeps every pair. Panics on w<0.
func WithWindow(w int) Option {
	if w < 0 {
		panic(panicWindowInvalid)
	}

	return func(c *config) { c.window = w }
}

// WithMinLabel treats labels <= v as background (default 0).
func WithMinLabel(v uint32) Option {
	return func(c *config) { c.minLabel = v }
}

// WithSkipMalformed makes Ingest count and skip malformed streamlines
// instead of aborting.
func WithSkipMalformed() Option {
	return func(c *config) { c.skipMalformed = true }
}

// WithLogger sets the logger used by Ingest. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(c *config) { c.logger = l }
}

// WithMatrixOptions forwards options to the underlying accumulator.
func WithMatrixOptions(opts ...matrix.Option) Option {
	return func(c *config) { c.matrixOpts = append(c.matrixOpts, opts...) }
}
