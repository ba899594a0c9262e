// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/connectome/artifact"
	"github.com/katalvlaran/connectome/builder"
	"github.com/katalvlaran/connectome/config"
	"github.com/katalvlaran/connectome/embed"
	"github.com/katalvlaran/connectome/errkind"
	"github.com/katalvlaran/connectome/fiber"
	"github.com/katalvlaran/connectome/invariants"
	"github.com/katalvlaran/connectome/matrix"
	"github.com/katalvlaran/connectome/spectral"
	"github.com/katalvlaran/connectome/subgraph"
	"github.com/katalvlaran/connectome/volume"
)

// Stage names, used in errors and metrics.
const (
	StageBuild      = "build-graph"
	StageLCC        = "extract-lcc"
	StageInvariants = "compute-invariants"
	StageEmbed      = "embed"
	StagePersist    = "persist"
)

// Runner executes the stages with one validated configuration.
// It is safe for concurrent use by several subjects.
type Runner struct {
	cfg     config.Config
	log     *slog.Logger
	index   *artifact.Index
	metrics *Metrics
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("pipeline: WithLogger(nil)")
	}

	return func(r *Runner) { r.log = l }
}

// WithIndex records edge counts and artifact paths in ix.
func WithIndex(ix *artifact.Index) Option {
	return func(r *Runner) { r.index = ix }
}

// WithMetrics reports to m.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner validates cfg (nil uses config.Default) and returns a Runner.
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	c := config.Default()
	if cfg != nil {
		c = *cfg
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	r := &Runner{cfg: c, log: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r, nil
}

// Config returns the validated configuration.
func (r *Runner) Config() config.Config { return r.cfg }

// Graph is the output of BuildGraph.
type Graph struct {
	Adj     *matrix.CSR // symmetric
	Mode    builder.Mode
	Regions []uint32 // region mode only
	Stats   builder.Stats
}

func (r *Runner) builderOptions() []builder.Option {
	mode, _ := builder.ParseMode(r.cfg.Graph.Mode)
	opts := []builder.Option{
		builder.WithMode(mode),
		builder.WithWindow(r.cfg.Graph.Window),
		builder.WithMinLabel(r.cfg.Graph.MinLabel),
		builder.WithLogger(r.log),
	}
	if r.cfg.Graph.SkipMalformed {
		opts = append(opts, builder.WithSkipMalformed())
	}

	return opts
}

// BuildGraph ingests the streamlines at fibersPath over the ROI at roiPath
// and returns the symmetrized graph.
func (r *Runner) BuildGraph(ctx context.Context, fibersPath, roiPath string) (*Graph, error) {
	defer r.metrics.observeStage(StageBuild, time.Now())

	labels, err := volume.Load(roiPath)
	if err != nil {
		return nil, errkind.Wrap(err, StageBuild, "", roiPath)
	}
	b, err := builder.New(labels, r.builderOptions()...)
	if err != nil {
		return nil, errkind.Wrap(err, StageBuild, "", roiPath)
	}
	src, err := fiber.Open(fibersPath)
	if err != nil {
		return nil, errkind.Wrap(err, StageBuild, "", fibersPath)
	}
	defer src.Close()
	if src.Header().Shape != labels.Shape() {
		return nil, errkind.Wrap(fmt.Errorf("streamline volume %v, ROI volume %v: %w",
			src.Header().Shape, labels.Shape(), errkind.ErrMalformedInput), StageBuild, "", fibersPath)
	}
	stats, err := b.Ingest(ctx, src)
	if err != nil {
		return nil, errkind.Wrap(err, StageBuild, "", fibersPath)
	}
	upper, err := b.Complete()
	if err != nil {
		return nil, errkind.Wrap(err, StageBuild, "", "")
	}
	adj, err := matrix.Symmetrize(upper)
	if err != nil {
		return nil, errkind.Wrap(err, StageBuild, "", "")
	}
	if r.cfg.Graph.Binarize {
		adj = matrix.Binarize(adj)
	}
	if r.metrics != nil {
		r.metrics.Streamlines.Add(float64(stats.Streamlines))
		r.metrics.SkippedFibers.Add(float64(stats.Skipped))
	}

	return &Graph{Adj: adj, Mode: b.Mode(), Regions: b.RegionLabels(), Stats: stats}, nil
}

// ExtractLCC projects adj onto its largest connected component.
func (r *Runner) ExtractLCC(ctx context.Context, adj *matrix.CSR) (*subgraph.Projection, error) {
	defer r.metrics.observeStage(StageLCC, time.Now())

	p, labeling, err := subgraph.ProjectLCC(ctx, adj)
	if err != nil {
		return nil, errkind.Wrap(err, StageLCC, "", "")
	}
	r.log.Debug("largest connected component",
		slog.Int("vertices", p.Len()),
		slog.Int("components", labeling.Components()),
		slog.Int("isolated", labeling.Isolated))

	return p, nil
}

// Engine returns the invariant engine described by the configuration.
func (r *Runner) Engine() *invariants.Engine {
	c := r.cfg.Invariants
	names, _ := invariants.ParseNames(c.Names)
	which, _ := spectral.ParseWhich(c.Which)
	e := &invariants.Engine{
		Invariants:            names,
		EigenK:                c.EigenK,
		SpectrumK:             c.SpectrumK,
		Which:                 which,
		ExactTriangleLimit:    c.ExactTriangleLimit,
		WeightedCCMaxVertices: c.WeightedCCMaxVertices,
		Tolerance:             c.Tolerance,
		RelaxFactor:           c.RelaxFactor,
		MaxBasis:              c.MaxBasis,
		Seed:                  c.Seed,
		Logger:                r.log,
	}
	if r.metrics != nil {
		e.OnInvariant = func(name invariants.Name, elapsed time.Duration, _ error) {
			r.metrics.StageDuration.WithLabelValues("invariant_" + string(name)).Observe(elapsed.Seconds())
		}
	}

	return e
}

// ComputeInvariants runs the configured invariants on the LCC.
func (r *Runner) ComputeInvariants(ctx context.Context, lcc *matrix.CSR) (*invariants.Report, error) {
	defer r.metrics.observeStage(StageInvariants, time.Now())

	rep, err := r.Engine().Compute(ctx, lcc)
	if err != nil {
		return nil, errkind.Wrap(err, StageInvariants, "", "")
	}
	for name, ferr := range rep.Failed {
		r.log.Warn("invariant failed", slog.String("invariant", string(name)), slog.Any("err", ferr))
		if r.metrics != nil {
			r.metrics.InvariantFailures.WithLabelValues(string(name)).Inc()
		}
	}

	return rep, nil
}

// Embedder returns the embedder described by the configuration.
func (r *Runner) Embedder() *embed.Embedder {
	c := r.cfg.Embed
	t, _ := embed.ParseTransform(c.Transform)

	return &embed.Embedder{
		MaxDim:    c.MaxDim,
		Transform: t,
		Directed:  c.Directed,
		Options: []spectral.Option{
			spectral.WithTolerance(r.cfg.Invariants.Tolerance),
			spectral.WithMaxBasis(r.cfg.Invariants.MaxBasis),
			spectral.WithSeed(r.cfg.Invariants.Seed),
		},
	}
}

// Embed embeds lcc in dim dimensions (dim <= 0 uses the configured dim).
// The returned matrix is scaled by √σ when configured, and holds the
// left|right concatenation for a non-symmetric input.
func (r *Runner) Embed(ctx context.Context, lcc *matrix.CSR, dim int) (*mat.Dense, error) {
	defer r.metrics.observeStage(StageEmbed, time.Now())

	if dim <= 0 {
		dim = r.cfg.Embed.Dim
	}
	res, err := r.Embedder().Embed(ctx, lcc, dim)
	if err != nil {
		return nil, errkind.Wrap(err, StageEmbed, "", "")
	}
	if res.Directed {
		return res.Concat(r.cfg.Embed.Scaled), nil
	}
	if r.cfg.Embed.Scaled {
		return res.Scaled(), nil
	}

	return res.Unscaled(), nil
}

// Result summarizes one subject.
type Result struct {
	Subject     string
	Vertices    int // vertex space of the full graph
	LCCVertices int
	Edges       uint64 // undirected edges of the LCC
	Stats       builder.Stats
	Failed      map[invariants.Name]error
	Artifacts   map[string]string // artifact name -> path
	Elapsed     time.Duration
}

// Run executes every stage for s and writes its artifacts under outDir.
// Any returned error is an *errkind.Error naming the stage, subject and file.
func (r *Runner) Run(ctx context.Context, s Subject, outDir string) (res *Result, err error) {
	start := time.Now()
	log := r.log.With(slog.String("subject", s.ID))
	defer func() {
		if r.metrics == nil {
			return
		}
		status := "ok"
		if err != nil {
			status = "failed"
		}
		r.metrics.Subjects.WithLabelValues(status).Inc()
	}()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errkind.Wrap(err, StagePersist, s.ID, outDir)
	}
	names := artifact.Names{Dir: outDir, Subject: s.ID}
	res = &Result{Subject: s.ID, Artifacts: make(map[string]string)}
	level := r.cfg.Store.Compression

	g, err := r.BuildGraph(ctx, s.Fibers, s.ROI)
	if err != nil {
		return nil, errkind.Wrap(err, StageBuild, s.ID, "")
	}
	res.Vertices, res.Stats = g.Adj.Dim(), g.Stats
	if err := r.persist(res, "graph", names.Graph(g.Mode.String()), func(p string) error {
		return artifact.WriteGraph(p, g.Adj, level)
	}); err != nil {
		return nil, errkind.Wrap(err, StagePersist, s.ID, "")
	}
	if g.Mode == builder.ModeRegion {
		if err := r.persist(res, "regions", names.Regions(), func(p string) error {
			return artifact.WriteUint32s(p, g.Regions)
		}); err != nil {
			return nil, errkind.Wrap(err, StagePersist, s.ID, "")
		}
	}

	proj, err := r.ExtractLCC(ctx, g.Adj)
	if err != nil {
		return nil, errkind.Wrap(err, StageLCC, s.ID, names.Graph(g.Mode.String()))
	}
	res.LCCVertices = proj.Len()
	if err := r.persist(res, "lcc", names.LCC(), func(p string) error {
		return artifact.WriteInts(p, proj.Inverse)
	}); err != nil {
		return nil, errkind.Wrap(err, StagePersist, s.ID, "")
	}

	rep, err := r.ComputeInvariants(ctx, proj.Adj)
	if err != nil {
		return nil, errkind.Wrap(err, StageInvariants, s.ID, names.LCC())
	}
	res.Failed = rep.Failed
	for _, name := range rep.Computed {
		v, _ := rep.Vector(name)
		if err := r.persist(res, string(name), names.Invariant(string(name)), func(p string) error {
			return artifact.WriteVector(p, v)
		}); err != nil {
			return nil, errkind.Wrap(err, StagePersist, s.ID, "")
		}
	}
	res.Edges = invariants.EdgeCount(proj.Adj)
	if r.index != nil {
		if err := r.index.PutEdgeCount(s.ID, res.Edges); err != nil {
			return nil, errkind.Wrap(err, StagePersist, s.ID, "")
		}
	}
	if r.metrics != nil {
		r.metrics.Edges.Observe(float64(res.Edges))
	}

	if dim := min(r.cfg.Embed.Dim, proj.Len()); dim >= 1 {
		x, err := r.Embed(ctx, proj.Adj, dim)
		if err != nil {
			return nil, errkind.Wrap(err, StageEmbed, s.ID, names.LCC())
		}
		if err := r.persist(res, "embed", names.Embedding(), func(p string) error {
			return artifact.WriteMatrix(p, x)
		}); err != nil {
			return nil, errkind.Wrap(err, StagePersist, s.ID, "")
		}
	}

	res.Elapsed = time.Since(start)
	log.Info("subject complete",
		slog.String("streamlines", humanize.Comma(int64(res.Stats.Streamlines))),
		slog.Int("lcc_vertices", res.LCCVertices),
		slog.String("edges", humanize.Comma(int64(res.Edges))),
		slog.Int("failed_invariants", len(res.Failed)),
		slog.Duration("elapsed", res.Elapsed))

	return res, nil
}

// persist writes one artifact and records it in the result and the index.
func (r *Runner) persist(res *Result, name, path string, write func(string) error) error {
	defer r.metrics.observeStage(StagePersist, time.Now())

	if err := write(path); err != nil {
		return errkind.Wrap(err, StagePersist, res.Subject, path)
	}
	res.Artifacts[name] = path
	if r.index != nil {
		if err := r.index.PutArtifact(res.Subject, name, path); err != nil {
			return errkind.Wrap(err, StagePersist, res.Subject, path)
		}
	}

	return nil
}
