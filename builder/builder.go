// SPDX-License-Identifier: MIT

package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/katalvlaran/connectome/errkind"
	"github.com/katalvlaran/connectome/fiber"
	"github.com/katalvlaran/connectome/matrix"
	"github.com/katalvlaran/connectome/morton"
	"github.com/katalvlaran/connectome/volume"
)

const (
	opAdd      = "Builder.Add"
	opIngest   = "Builder.Ingest"
	opComplete = "Builder.Complete"

	// ctxCheckEvery is the number of streamlines between context checks.
	ctxCheckEvery = 1024
)

// Stats summarizes ingestion.
type Stats struct {
	Streamlines uint64 // streamlines accepted
	Skipped     uint64 // malformed streamlines skipped (WithSkipMalformed)
	Points      uint64 // points of accepted streamlines
	OutsideMask uint64 // points on background voxels
	Pairs       uint64 // pair increments
}

// Builder accumulates streamlines into a graph. It is owned by one goroutine.
type Builder struct {
	cfg     config
	labels  *volume.Labels
	ix      *morton.Indexer
	regions []uint32         // dense index -> label
	index   map[uint32]int32 // label -> dense index
	acc     *matrix.Accumulator
	stats   Stats
	done    bool

	// per-streamline scratch
	seq  []int
	seen map[int]struct{}
}

// New returns a Builder over labels.
// Errors: ErrNilVolume, ErrVolumeTooLarge (voxel mode), ErrNoRegions (region mode).
func New(labels *volume.Labels, opts ...Option) (*Builder, error) {
	if labels == nil {
		return nil, fmt.Errorf("New: %w", ErrNilVolume)
	}
	cfg := newConfig(opts...)
	ix, err := morton.NewIndexer(labels.Shape())
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	b := &Builder{cfg: cfg, labels: labels, ix: ix, seen: make(map[int]struct{})}

	var n int
	switch cfg.mode {
	case ModeVoxel:
		if ix.Capacity() > matrix.MaxDim {
			return nil, fmt.Errorf("New: capacity %d > %d: %w", ix.Capacity(), matrix.MaxDim, ErrVolumeTooLarge)
		}
		n = int(ix.Capacity())
	case ModeRegion:
		b.regions = labels.Regions(cfg.minLabel)
		if len(b.regions) == 0 {
			return nil, fmt.Errorf("New: min label %d: %w", cfg.minLabel, ErrNoRegions)
		}
		b.index = make(map[uint32]int32, len(b.regions))
		for k, v := range b.regions {
			b.index[v] = int32(k)
		}
		n = len(b.regions)
	}
	if b.acc, err = matrix.NewAccumulator(n, cfg.matrixOpts...); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	return b, nil
}

// Mode returns the vertex resolution.
func (b *Builder) Mode() Mode { return b.cfg.mode }

// Vertices returns the size of the vertex space.
func (b *Builder) Vertices() int { return b.acc.Dim() }

// RegionLabels returns the label of each region vertex (nil in voxel mode).
func (b *Builder) RegionLabels() []uint32 { return slices.Clone(b.regions) }

// Stats returns the ingestion counters so far.
func (b *Builder) Stats() Stats { return b.stats }

// vertex maps an in-bounds coordinate to its vertex, or -1 for background.
func (b *Builder) vertex(c morton.Coord) (int, error) {
	label, err := b.labels.AtCoord(c)
	if err != nil {
		return 0, err
	}
	if label <= b.cfg.minLabel {
		return -1, nil
	}
	if b.cfg.mode == ModeRegion {
		return int(b.index[label]), nil
	}
	code, err := b.ix.EncodeCoord(c)
	if err != nil {
		return 0, err
	}

	return int(code), nil
}

// Add accumulates one streamline. A streamline with a point outside the
// volume is rejected whole (ErrStreamlineOutOfBounds) and leaves the graph
// untouched.
//
// Stage 1: map points to vertices, collapse consecutive repeats.
// Stage 2: keep the first visit of each distinct vertex.
// Stage 3: emit +1 for every pair within the window.
//
// Complexity: O(p + k²) for p points and k distinct vertices (O(p + k·w)
// with a window).
func (b *Builder) Add(s fiber.Streamline) error {
	if b.done {
		return fmt.Errorf("%s: %w", opAdd, ErrCompleted)
	}
	shape := b.labels.Shape()
	for i, c := range s {
		if !shape.Contains(c) {
			return fmt.Errorf("%s: point %d %s outside %dx%dx%d: %w",
				opAdd, i, c, shape.NX, shape.NY, shape.NZ, ErrStreamlineOutOfBounds)
		}
	}

	// Stage 1 + 2
	b.seq = b.seq[:0]
	clear(b.seen)
	var outside uint64
	for _, c := range s {
		v, err := b.vertex(c)
		if err != nil {
			return fmt.Errorf("%s: %w", opAdd, err)
		}
		if v < 0 {
			outside++
			continue
		}
		if _, ok := b.seen[v]; ok {
			continue
		}
		b.seen[v] = struct{}{}
		b.seq = append(b.seq, v)
	}

	// Stage 3
	var pairs uint64
	w := b.cfg.window
	for i := 0; i < len(b.seq); i++ {
		hi := len(b.seq)
		if w > 0 {
			hi = min(hi, i+w+1)
		}
		for j := i + 1; j < hi; j++ {
			u, v := b.seq[i], b.seq[j]
			if u > v {
				u, v = v, u
			}
			if err := b.acc.Add(u, v, 1); err != nil {
				return fmt.Errorf("%s: %w", opAdd, err)
			}
			pairs++
		}
	}

	b.stats.Streamlines++
	b.stats.Points += uint64(len(s))
	b.stats.OutsideMask += outside
	b.stats.Pairs += pairs

	return nil
}

// Ingest drains src into the builder. It stops at ctx cancellation, at the
// first source error, or at the first malformed streamline unless
// WithSkipMalformed is set.
func (b *Builder) Ingest(ctx context.Context, src fiber.Source) (Stats, error) {
	if b.done {
		return b.stats, fmt.Errorf("%s: %w", opIngest, ErrCompleted)
	}
	log := b.cfg.logger
	for k := 0; ; k++ {
		if k%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return b.stats, fmt.Errorf("%s: %w", opIngest, err)
			}
		}
		s, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return b.stats, fmt.Errorf("%s: streamline %d: %w", opIngest, k, err)
		}
		if err := b.Add(s); err != nil {
			if b.cfg.skipMalformed && errors.Is(err, errkind.ErrMalformedInput) {
				b.stats.Skipped++
				log.Debug("skipping streamline", slog.Int("index", k), slog.Any("err", err))
				continue
			}
			return b.stats, fmt.Errorf("%s: streamline %d: %w", opIngest, k, err)
		}
	}
	log.Info("streamlines ingested",
		slog.String("mode", b.cfg.mode.String()),
		slog.String("streamlines", humanize.Comma(int64(b.stats.Streamlines))),
		slog.String("pairs", humanize.Comma(int64(b.stats.Pairs))),
		slog.Uint64("skipped", b.stats.Skipped),
		slog.Uint64("outside_mask", b.stats.OutsideMask))

	return b.stats, nil
}

// Complete freezes the graph and returns it as an upper-triangular CSR
// (i<j, weight = number of contributing streamlines).
// Later calls to Add, Ingest or Complete fail with ErrCompleted.
func (b *Builder) Complete() (*matrix.CSR, error) {
	if b.done {
		return nil, fmt.Errorf("%s: %w", opComplete, ErrCompleted)
	}
	b.done = true
	a, err := b.acc.Complete()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opComplete, err)
	}
	b.cfg.logger.Debug("graph completed",
		slog.Int("vertices", a.Dim()),
		slog.String("nnz", humanize.Comma(int64(a.NNZ()))))

	return a, nil
}
