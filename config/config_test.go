// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/connectome/config"
)

func TestDefault_Valid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "region", cfg.Graph.Mode)
	require.Equal(t, "augmented", cfg.Embed.Transform)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := config.Load(nil, "")
	require.NoError(t, err)
	d := config.Default()
	require.Empty(t, cfg.Invariants.Names)
	require.Equal(t, d.Invariants.EigenK, cfg.Invariants.EigenK)
	require.Equal(t, d.Invariants.Tolerance, cfg.Invariants.Tolerance)
	require.Equal(t, d.Invariants.Which, cfg.Invariants.Which)
	require.Equal(t, d.Batch.Parallelism, cfg.Batch.Parallelism)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connectome.yaml")
	body := `
graph:
  mode: voxel
  window: 4
invariants:
  names: [degree, cc]
  spectrum_k: 5
  which: SA
embed:
  dim: 3
  transform: laplacian
store:
  dir: /data/out
  compression: 9
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("CONNECTOME_BATCH_PARALLELISM", "3")
	t.Setenv("CONNECTOME_EMBED_DIM", "4")

	cfg, err := config.Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, "voxel", cfg.Graph.Mode)
	require.Equal(t, 4, cfg.Graph.Window)
	require.Equal(t, []string{"degree", "cc"}, cfg.Invariants.Names)
	require.Equal(t, 5, cfg.Invariants.SpectrumK)
	require.Equal(t, 2, cfg.Invariants.EigenK, "default kept")
	require.Equal(t, 4, cfg.Embed.Dim, "env wins over file")
	require.Equal(t, 3, cfg.Batch.Parallelism)
	require.Equal(t, "/data/out", cfg.Store.Dir)
	require.Equal(t, "json", cfg.LoggingOptions().Format)
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connectome.toml")
	require.NoError(t, os.WriteFile(path, []byte("[graph]\nmode = \"region\"\nmin_label = 2\n"), 0o644))
	cfg, err := config.Load(nil, path)
	require.NoError(t, err)
	require.Equal(t, uint32(2), cfg.Graph.MinLabel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graph:\n  mode: tract\nembed:\n  dim: 0\n"), 0o644))
	_, err = config.Load(nil, path)
	require.ErrorContains(t, err, "tract")
	require.ErrorContains(t, err, "embed.dim")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"window", func(c *config.Config) { c.Graph.Window = -1 }, "graph.window"},
		{"names", func(c *config.Config) { c.Invariants.Names = []string{"pagerank"} }, "pagerank"},
		{"which", func(c *config.Config) { c.Invariants.Which = "XX" }, "XX"},
		{"tolerance", func(c *config.Config) { c.Invariants.Tolerance = 0 }, "tolerance"},
		{"basis", func(c *config.Config) { c.Invariants.MaxBasis = 1 }, "max_basis"},
		{"relax", func(c *config.Config) { c.Invariants.RelaxFactor = 0.5 }, "relax_factor"},
		{"transform", func(c *config.Config) { c.Embed.Transform = "pca" }, "pca"},
		{"dim", func(c *config.Config) { c.Embed.Dim = 500 }, "embed.dim"},
		{"store", func(c *config.Config) { c.Store.Dir = "" }, "store.dir"},
		{"zstd", func(c *config.Config) { c.Store.Compression = 30 }, "compression"},
		{"parallel", func(c *config.Config) { c.Batch.Parallelism = 0 }, "parallelism"},
		{"level", func(c *config.Config) { c.Log.Level = "loud" }, "loud"},
		{"format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			require.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}
