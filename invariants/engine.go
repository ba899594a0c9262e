// SPDX-License-Identifier: MIT

package invariants

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/connectome/errkind"
	"github.com/katalvlaran/connectome/matrix"
	"github.com/katalvlaran/connectome/spectral"
)

// Name identifies an invariant; it doubles as the artifact suffix.
type Name string

const (
	NameDegree    Name = "degree"
	NameEdges     Name = "edges"
	NameTriangles Name = "tri"
	NameCC        Name = "cc"
	NameWCC       Name = "wcc"
	NameScan      Name = "scan1"
	NameEigs      Name = "eigs"
	NameMAD       Name = "mad"
)

// All lists every invariant in computation order.
func All() []Name {
	return []Name{NameDegree, NameEdges, NameTriangles, NameCC, NameWCC, NameScan, NameEigs, NameMAD}
}

// ParseNames validates invariant names; an empty list selects All.
func ParseNames(names []string) ([]Name, error) {
	if len(names) == 0 {
		return All(), nil
	}
	known := make(map[Name]bool)
	for _, n := range All() {
		known[n] = true
	}
	out := make([]Name, 0, len(names))
	for _, s := range names {
		if !known[Name(s)] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownInvariant, s)
		}
		out = append(out, Name(s))
	}

	return out, nil
}

// Engine defaults.
const (
	DefaultEigenK                = 2
	DefaultSpectrumK             = 10
	DefaultWeightedCCMaxVertices = 2000
	DefaultRelaxFactor           = 1e3
)

// Engine computes a selection of invariants. The zero value is usable:
// unset fields take the package defaults.
type Engine struct {
	// Invariants to compute; nil selects All.
	Invariants []Name
	// EigenK is the number of eigenpairs behind ApproxTriangles.
	EigenK int
	// SpectrumK is the number of eigenvalues reported by NameEigs.
	SpectrumK int
	// Which selects the reported end of the spectrum.
	Which spectral.Which
	// ExactTriangleLimit switches NameTriangles (and the triangles feeding
	// NameCC) to exact counting for graphs with at most this many vertices.
	// 0 always uses the eigen-projection estimate.
	ExactTriangleLimit int
	// WeightedCCMaxVertices caps WeightedClusteringCoefficient.
	WeightedCCMaxVertices int
	// Tolerance is the Lanczos tolerance of the first attempt.
	Tolerance float64
	// RelaxFactor multiplies Tolerance for the single retry.
	RelaxFactor float64
	// MaxBasis bounds the Krylov basis; 0 keeps the solver default.
	MaxBasis int
	// Seed seeds the Lanczos start vectors.
	Seed int64
	// Logger receives retry and failure notices; nil uses slog.Default.
	Logger *slog.Logger
	// OnInvariant, if set, observes every invariant attempt.
	OnInvariant func(name Name, elapsed time.Duration, err error)
}

// Report holds the computed invariants. Per-vertex slices have length
// Vertices; invariants not requested or failed are nil.
type Report struct {
	Vertices                      int
	Degree                        []float64
	Triangles                     []float64
	ClusteringCoefficient         []float64
	WeightedClusteringCoefficient []float64
	ScanStatistic                 []float64
	Eigenvalues                   []float64
	MaxAverageDegree              float64
	Edges                         uint64

	// Computed lists the invariants that succeeded, in computation order.
	Computed []Name
	// Failed maps the invariants that could not be computed to their cause.
	Failed map[Name]error
}

// Vector returns the named invariant as a float64 array (scalars as length-1
// arrays) and whether it was computed.
func (r *Report) Vector(name Name) ([]float64, bool) {
	if !r.has(name) {
		return nil, false
	}
	switch name {
	case NameDegree:
		return r.Degree, true
	case NameTriangles:
		return r.Triangles, true
	case NameCC:
		return r.ClusteringCoefficient, true
	case NameWCC:
		return r.WeightedClusteringCoefficient, true
	case NameScan:
		return r.ScanStatistic, true
	case NameEigs:
		return r.Eigenvalues, true
	case NameMAD:
		return []float64{r.MaxAverageDegree}, true
	case NameEdges:
		return []float64{float64(r.Edges)}, true
	default:
		return nil, false
	}
}

func (r *Report) has(name Name) bool {
	for _, c := range r.Computed {
		if c == name {
			return true
		}
	}

	return false
}

// Compute runs the selected invariants on the symmetric adjacency a. Triangle
// counts and clustering use its binary pattern; wcc uses the weights.
//
// Non-convergence of a spectral invariant is retried once with the tolerance
// multiplied by RelaxFactor; a second failure, or a graph above the weighted
// clustering cap, is recorded in Report.Failed and the remaining invariants
// still run. Any other error aborts the computation.
func (e *Engine) Compute(ctx context.Context, a *matrix.CSR) (*Report, error) {
	if a == nil {
		return nil, ErrNilGraph
	}
	cfg := e.withDefaults(a.Dim())
	want := make(map[Name]bool)
	for _, n := range cfg.Invariants {
		want[n] = true
	}
	rep := &Report{Vertices: a.Dim(), Failed: make(map[Name]error)}

	var deg, tri []float64
	var triErr error
	needDeg := want[NameDegree] || want[NameCC]
	needTri := want[NameTriangles] || want[NameCC]

	steps := []struct {
		name Name
		run  bool
		fn   func() error
	}{
		{NameDegree, needDeg, func() error {
			deg = Degree(a)
			if want[NameDegree] {
				rep.Degree = deg
			}
			return nil
		}},
		{NameEdges, want[NameEdges], func() error {
			rep.Edges = EdgeCount(a)
			return nil
		}},
		{NameTriangles, needTri, func() error {
			// Triangle counts are structural; weights only enter wcc.
			bin := matrix.Binarize(a)
			if cfg.ExactTriangleLimit > 0 && a.Dim() <= cfg.ExactTriangleLimit {
				tri = Triangles(bin)
			} else {
				triErr = cfg.solveSpectral(ctx, NameTriangles, func(opts []spectral.Option) (err error) {
					tri, err = ApproxTriangles(ctx, bin, cfg.EigenK, opts...)
					return err
				})
			}
			if triErr == nil && want[NameTriangles] {
				rep.Triangles = tri
			}
			return triErr
		}},
		{NameCC, want[NameCC], func() error {
			if triErr != nil {
				return fmt.Errorf("cc: triangle counts unavailable: %w", triErr)
			}
			cc, err := ClusteringCoefficient(deg, tri)
			rep.ClusteringCoefficient = cc
			return err
		}},
		{NameWCC, want[NameWCC], func() error {
			w, err := WeightedClusteringCoefficient(a, cfg.WeightedCCMaxVertices)
			rep.WeightedClusteringCoefficient = w
			return err
		}},
		{NameScan, want[NameScan], func() error {
			rep.ScanStatistic = ScanStatistic(a)
			return nil
		}},
		{NameEigs, want[NameEigs], func() error {
			return cfg.solveSpectral(ctx, NameEigs, func(opts []spectral.Option) (err error) {
				rep.Eigenvalues, err = EigenSpectrum(ctx, a, cfg.SpectrumK, cfg.Which, opts...)
				return err
			})
		}},
		{NameMAD, want[NameMAD], func() error {
			return cfg.solveSpectral(ctx, NameMAD, func(opts []spectral.Option) (err error) {
				rep.MaxAverageDegree, err = MaxAverageDegree(ctx, a, opts...)
				return err
			})
		}},
	}

	for _, st := range steps {
		if !st.run {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		err := st.fn()
		if cfg.OnInvariant != nil {
			cfg.OnInvariant(st.name, time.Since(start), err)
		}
		switch {
		case err == nil:
			if want[st.name] {
				rep.Computed = append(rep.Computed, st.name)
			}
		case recoverable(err):
			if want[st.name] {
				cfg.Logger.Warn("invariant failed", "invariant", string(st.name), "err", err)
				rep.Failed[st.name] = err
			}
		default:
			return nil, fmt.Errorf("Compute %s: %w", st.name, err)
		}
	}
	if err := rep.checkLengths(); err != nil {
		return nil, err
	}

	return rep, nil
}

// recoverable reports whether err only invalidates one invariant.
func recoverable(err error) bool {
	return errors.Is(err, errkind.ErrNonConvergence) || errors.Is(err, ErrGraphTooLarge)
}

// solveSpectral runs fn with the configured solver options and retries once with
// a relaxed tolerance on non-convergence.
func (e *Engine) solveSpectral(ctx context.Context, name Name, fn func([]spectral.Option) error) error {
	opts := []spectral.Option{spectral.WithTolerance(e.Tolerance), spectral.WithSeed(e.Seed)}
	if e.MaxBasis > 0 {
		opts = append(opts, spectral.WithMaxBasis(e.MaxBasis))
	}
	err := fn(opts)
	if err == nil || !errors.Is(err, errkind.ErrNonConvergence) || ctx.Err() != nil {
		return err
	}
	relaxed := e.Tolerance * e.RelaxFactor
	if relaxed >= 1 {
		relaxed = 0.5
	}
	e.Logger.Info("retrying with relaxed tolerance",
		"invariant", string(name), "tol", e.Tolerance, "relaxed", relaxed, "err", err)
	opts[0] = spectral.WithTolerance(relaxed)

	return fn(opts)
}

func (e *Engine) withDefaults(n int) *Engine {
	c := *e
	if c.Invariants == nil {
		c.Invariants = All()
	}
	if c.EigenK <= 0 {
		c.EigenK = DefaultEigenK
	}
	if c.SpectrumK <= 0 {
		c.SpectrumK = DefaultSpectrumK
	}
	if c.SpectrumK > n {
		c.SpectrumK = n
	}
	if c.WeightedCCMaxVertices <= 0 {
		c.WeightedCCMaxVertices = DefaultWeightedCCMaxVertices
	}
	if c.Tolerance <= 0 {
		c.Tolerance = spectral.DefaultTolerance
	}
	if c.RelaxFactor <= 1 {
		c.RelaxFactor = DefaultRelaxFactor
	}
	if c.Seed == 0 {
		c.Seed = spectral.DefaultSeed
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	return &c
}

// checkLengths enforces that every per-vertex array has length Vertices.
func (r *Report) checkLengths() error {
	for _, v := range []struct {
		name Name
		x    []float64
	}{
		{NameDegree, r.Degree},
		{NameTriangles, r.Triangles},
		{NameCC, r.ClusteringCoefficient},
		{NameWCC, r.WeightedClusteringCoefficient},
		{NameScan, r.ScanStatistic},
	} {
		if v.x != nil && len(v.x) != r.Vertices {
			return fmt.Errorf("Compute: %s has %d entries for %d vertices: %w", v.name, len(v.x), r.Vertices, ErrLengthMismatch)
		}
	}

	return nil
}
