// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/connectome/artifact"
	"github.com/katalvlaran/connectome/config"
	"github.com/katalvlaran/connectome/errkind"
	"github.com/katalvlaran/connectome/invariants"
	"github.com/katalvlaran/connectome/logging"
	"github.com/katalvlaran/connectome/pipeline"
	"github.com/katalvlaran/connectome/subgraph"
)

type app struct {
	v       *viper.Viper
	cfgPath string
	cfg     *config.Config
	log     *slog.Logger
	closer  io.Closer
	out     io.Writer
}

func newApp() *app { return &app{v: config.New()} }

func (a *app) bind(key string, fs *pflag.FlagSet, name string) {
	if err := a.v.BindPFlag(key, fs.Lookup(name)); err != nil {
		panic(err)
	}
}

func (a *app) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "connectome",
		Short:         "Tractography to brain graphs, invariants and embeddings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v, a.cfgPath)
			if err != nil {
				return err
			}
			log, closer, err := logging.New(cfg.LoggingOptions())
			if err != nil {
				return err
			}
			a.cfg, a.log, a.closer, a.out = cfg, log, closer, cmd.OutOrStdout()
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config file (yaml, toml or json)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	a.bind("log.level", pf, "log-level")

	root.AddCommand(a.buildGraphCmd(), a.extractLCCCmd(), a.invariantsCmd(), a.embedCmd(), a.runCmd(), a.edgesCmd())

	return root
}

func (a *app) runner(opts ...pipeline.Option) (*pipeline.Runner, error) {
	return pipeline.NewRunner(a.cfg, append([]pipeline.Option{pipeline.WithLogger(a.log)}, opts...)...)
}

// subjectOf derives a subject id from a file name: "sub-01_region.csr.zst" -> "sub-01".
func subjectOf(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexAny(base, "_."); i > 0 {
		return base[:i]
	}

	return base
}

func (a *app) buildGraphCmd() *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "build-graph <fibers> <roi.toml> <out-graph>",
		Short: "Accumulate streamlines into a symmetric graph",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				subject = subjectOf(args[0])
			}
			r, err := a.runner()
			if err != nil {
				return err
			}
			g, err := r.BuildGraph(cmd.Context(), args[0], args[1])
			if err != nil {
				return errkind.Wrap(err, cmd.Name(), subject, "")
			}
			if err := artifact.WriteGraph(args[2], g.Adj, a.cfg.Store.Compression); err != nil {
				return errkind.Wrap(err, cmd.Name(), subject, args[2])
			}
			a.log.Info("graph written", slog.String("subject", subject), slog.String("path", args[2]),
				slog.Int("vertices", g.Adj.Dim()), slog.Int("nnz", g.Adj.NNZ()))
			return nil
		},
	}
	fs := cmd.Flags()
	fs.String("mode", "region", "vertex resolution: voxel or region")
	fs.Int("window", 0, "max first-visit distance of a pair (0 = all pairs)")
	fs.StringVar(&subject, "subject", "", "subject id (default: derived from the fibers file)")
	a.bind("graph.mode", fs, "mode")
	a.bind("graph.window", fs, "window")

	return cmd
}

func (a *app) extractLCCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract-lcc <graph> <out-lcc.npy>",
		Short: "Write the vertex ids of the largest connected component",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := subjectOf(args[0])
			g, err := artifact.ReadGraph(args[0])
			if err != nil {
				return errkind.Wrap(err, cmd.Name(), subject, args[0])
			}
			r, err := a.runner()
			if err != nil {
				return err
			}
			p, err := r.ExtractLCC(cmd.Context(), g)
			if err != nil {
				return errkind.Wrap(err, cmd.Name(), subject, args[0])
			}
			if err := artifact.WriteInts(args[1], p.Inverse); err != nil {
				return errkind.Wrap(err, cmd.Name(), subject, args[1])
			}
			a.log.Info("lcc written", slog.String("subject", subject), slog.Int("vertices", p.Len()))
			return nil
		},
	}
}

// loadLCC reads a graph and projects it onto the saved LCC ids.
func loadLCC(op, subject, graphPath, lccPath string) (*subgraph.Projection, error) {
	g, err := artifact.ReadGraph(graphPath)
	if err != nil {
		return nil, errkind.Wrap(err, op, subject, graphPath)
	}
	ids, err := artifact.ReadInts(lccPath)
	if err != nil {
		return nil, errkind.Wrap(err, op, subject, lccPath)
	}
	p, err := subgraph.Project(g, ids)
	if err != nil {
		return nil, errkind.Wrap(err, op, subject, lccPath)
	}

	return p, nil
}

func (a *app) invariantsCmd() *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "compute-invariants <graph> <lcc.npy> <outdir>",
		Short: "Compute graph invariants of the LCC",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				subject = subjectOf(args[0])
			}
			p, err := loadLCC(cmd.Name(), subject, args[0], args[1])
			if err != nil {
				return err
			}
			r, err := a.runner()
			if err != nil {
				return err
			}
			rep, err := r.ComputeInvariants(cmd.Context(), p.Adj)
			if err != nil {
				return errkind.Wrap(err, cmd.Name(), subject, args[1])
			}
			names := artifact.Names{Dir: args[2], Subject: subject}
			for _, name := range rep.Computed {
				v, _ := rep.Vector(name)
				path := names.Invariant(string(name))
				if err := artifact.WriteVector(path, v); err != nil {
					return errkind.Wrap(err, cmd.Name(), subject, path)
				}
			}
			if a.cfg.Store.IndexDir != "" {
				ix, err := artifact.OpenIndex(artifact.IndexOptions{Dir: a.cfg.Store.IndexDir, Logger: a.log})
				if err != nil {
					return errkind.Wrap(err, cmd.Name(), subject, a.cfg.Store.IndexDir)
				}
				defer ix.Close()
				if err := ix.PutEdgeCount(subject, invariants.EdgeCount(p.Adj)); err != nil {
					return errkind.Wrap(err, cmd.Name(), subject, a.cfg.Store.IndexDir)
				}
			}
			for name, ferr := range rep.Failed {
				fmt.Fprintf(a.out, "%s: %s failed: %v\n", subject, name, ferr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject id (default: derived from the graph file)")

	return cmd
}

func (a *app) embedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed <lcc.npy> <graph> <out-embedding.npy>",
		Short: "Spectral embedding of the LCC",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := subjectOf(args[1])
			p, err := loadLCC(cmd.Name(), subject, args[1], args[0])
			if err != nil {
				return err
			}
			r, err := a.runner()
			if err != nil {
				return err
			}
			x, err := r.Embed(cmd.Context(), p.Adj, 0)
			if err != nil {
				return errkind.Wrap(err, cmd.Name(), subject, args[0])
			}
			if err := artifact.WriteMatrix(args[2], x); err != nil {
				return errkind.Wrap(err, cmd.Name(), subject, args[2])
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.Int("dim", 2, "embedding dimension")
	fs.String("transform", "augmented", "adjacency, augmented or laplacian")
	fs.Bool("scaled", true, "scale coordinates by sqrt of the singular values")
	a.bind("embed.dim", fs, "dim")
	a.bind("embed.transform", fs, "transform")
	a.bind("embed.scaled", fs, "scaled")

	return cmd
}

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <manifest> <outdir>",
		Short: "Process every subject of a manifest (lines: subject fibers roi)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := pipeline.LoadManifest(args[0])
			if err != nil {
				return err
			}
			indexDir := a.cfg.Store.IndexDir
			if indexDir == "" {
				indexDir = filepath.Join(args[1], "index")
			}
			ix, err := artifact.OpenIndex(artifact.IndexOptions{Dir: indexDir, Logger: a.log})
			if err != nil {
				return errkind.Wrap(err, cmd.Name(), "", indexDir)
			}
			defer ix.Close()

			r, err := a.runner(pipeline.WithIndex(ix), pipeline.WithMetrics(pipeline.NewMetrics()))
			if err != nil {
				return err
			}
			results, err := r.Batch(cmd.Context(), subjects, args[1])
			var ok int
			for _, res := range results {
				if res != nil {
					ok++
				}
			}
			a.log.Info("batch complete", slog.Int("subjects", len(subjects)), slog.Int("ok", ok))
			return err
		},
	}
	cmd.Flags().Int("parallel", config.Default().Batch.Parallelism, "subjects processed concurrently")
	a.bind("batch.parallelism", cmd.Flags(), "parallel")

	return cmd
}

func (a *app) edgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edges <index-dir>",
		Short: "Print the subject -> LCC edge count map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := artifact.OpenIndex(artifact.IndexOptions{Dir: args[0], Logger: a.log})
			if err != nil {
				return errkind.Wrap(err, cmd.Name(), "", args[0])
			}
			defer ix.Close()
			counts, err := ix.EdgeCounts()
			if err != nil {
				return errkind.Wrap(err, cmd.Name(), "", args[0])
			}
			subjects := make([]string, 0, len(counts))
			for s := range counts {
				subjects = append(subjects, s)
			}
			sort.Strings(subjects)
			for _, s := range subjects {
				fmt.Fprintf(a.out, "%s\t%d\n", s, counts[s])
			}
			return nil
		},
	}
}
