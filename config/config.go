// SPDX-License-Identifier: MIT

// Package config loads connectome settings from a file (YAML, TOML or JSON)
// with CONNECTOME_* environment overrides, e.g. CONNECTOME_BATCH_PARALLELISM=8.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/katalvlaran/connectome/builder"
	"github.com/katalvlaran/connectome/embed"
	"github.com/katalvlaran/connectome/invariants"
	"github.com/katalvlaran/connectome/logging"
	"github.com/katalvlaran/connectome/spectral"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "CONNECTOME"

// Config holds all settings.
type Config struct {
	Graph      GraphConfig      `mapstructure:"graph"`
	Invariants InvariantsConfig `mapstructure:"invariants"`
	Embed      EmbedConfig      `mapstructure:"embed"`
	Store      StoreConfig      `mapstructure:"store"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Log        LogConfig        `mapstructure:"log"`
}

type GraphConfig struct {
	Mode          string `mapstructure:"mode"`
	Window        int    `mapstructure:"window"`
	MinLabel      uint32 `mapstructure:"min_label"`
	SkipMalformed bool   `mapstructure:"skip_malformed"`
	Binarize      bool   `mapstructure:"binarize"`
}

type InvariantsConfig struct {
	Names                 []string `mapstructure:"names"`
	EigenK                int      `mapstructure:"eigen_k"`
	SpectrumK             int      `mapstructure:"spectrum_k"`
	Which                 string   `mapstructure:"which"`
	Tolerance             float64  `mapstructure:"tolerance"`
	MaxBasis              int      `mapstructure:"max_basis"`
	RelaxFactor           float64  `mapstructure:"relax_factor"`
	WeightedCCMaxVertices int      `mapstructure:"weighted_cc_max_vertices"`
	ExactTriangleLimit    int      `mapstructure:"exact_triangle_limit"`
	Seed                  int64    `mapstructure:"seed"`
}

type EmbedConfig struct {
	Dim       int    `mapstructure:"dim"`
	MaxDim    int    `mapstructure:"max_dim"`
	Transform string `mapstructure:"transform"`
	Scaled    bool   `mapstructure:"scaled"`
	Directed  bool   `mapstructure:"directed"`
}

type StoreConfig struct {
	Dir         string `mapstructure:"dir"`
	IndexDir    string `mapstructure:"index_dir"`
	Compression int    `mapstructure:"compression"`
}

type BatchConfig struct {
	Parallelism int    `mapstructure:"parallelism"`
	MetricsFile string `mapstructure:"metrics_file"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Graph: GraphConfig{Mode: builder.ModeRegion.String()},
		Invariants: InvariantsConfig{
			EigenK:                invariants.DefaultEigenK,
			SpectrumK:             invariants.DefaultSpectrumK,
			Which:                 spectral.LargestMagnitude.String(),
			Tolerance:             spectral.DefaultTolerance,
			MaxBasis:              spectral.DefaultMaxBasis,
			RelaxFactor:           invariants.DefaultRelaxFactor,
			WeightedCCMaxVertices: invariants.DefaultWeightedCCMaxVertices,
			Seed:                  spectral.DefaultSeed,
		},
		Embed: EmbedConfig{
			Dim:       2,
			MaxDim:    embed.DefaultMaxDim,
			Transform: embed.TransformAugmented.String(),
			Scaled:    true,
		},
		Store: StoreConfig{Dir: "out", Compression: 3},
		Batch: BatchConfig{Parallelism: runtime.NumCPU()},
		Log:   LogConfig{Level: "info", Format: "text", MaxSizeMB: 100, MaxAgeDays: 30},
	}
}

// defaults registers every key so environment overrides apply without a file.
func defaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("graph.mode", d.Graph.Mode)
	v.SetDefault("graph.window", d.Graph.Window)
	v.SetDefault("graph.min_label", d.Graph.MinLabel)
	v.SetDefault("graph.skip_malformed", d.Graph.SkipMalformed)
	v.SetDefault("graph.binarize", d.Graph.Binarize)

	v.SetDefault("invariants.names", d.Invariants.Names)
	v.SetDefault("invariants.eigen_k", d.Invariants.EigenK)
	v.SetDefault("invariants.spectrum_k", d.Invariants.SpectrumK)
	v.SetDefault("invariants.which", d.Invariants.Which)
	v.SetDefault("invariants.tolerance", d.Invariants.Tolerance)
	v.SetDefault("invariants.max_basis", d.Invariants.MaxBasis)
	v.SetDefault("invariants.relax_factor", d.Invariants.RelaxFactor)
	v.SetDefault("invariants.weighted_cc_max_vertices", d.Invariants.WeightedCCMaxVertices)
	v.SetDefault("invariants.exact_triangle_limit", d.Invariants.ExactTriangleLimit)
	v.SetDefault("invariants.seed", d.Invariants.Seed)

	v.SetDefault("embed.dim", d.Embed.Dim)
	v.SetDefault("embed.max_dim", d.Embed.MaxDim)
	v.SetDefault("embed.transform", d.Embed.Transform)
	v.SetDefault("embed.scaled", d.Embed.Scaled)
	v.SetDefault("embed.directed", d.Embed.Directed)

	v.SetDefault("store.dir", d.Store.Dir)
	v.SetDefault("store.index_dir", d.Store.IndexDir)
	v.SetDefault("store.compression", d.Store.Compression)

	v.SetDefault("batch.parallelism", d.Batch.Parallelism)
	v.SetDefault("batch.metrics_file", d.Batch.MetricsFile)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
}

// New returns a viper instance with defaults and environment bindings.
// Callers may bind command-line flags to it before Load.
func New() *viper.Viper {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads path (skipped when empty) into v, or a fresh New() when v is
// nil, and validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoggingOptions converts the log section.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxAgeDays: c.Log.MaxAgeDays,
		MaxBackups: c.Log.MaxBackups,
	}
}

// Validate reports every impossible value at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	if _, err := builder.ParseMode(c.Graph.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.Graph.Window < 0 {
		add("graph.window %d is negative", c.Graph.Window)
	}

	if _, err := invariants.ParseNames(c.Invariants.Names); err != nil {
		errs = append(errs, err)
	}
	if _, err := spectral.ParseWhich(c.Invariants.Which); err != nil {
		errs = append(errs, err)
	}
	if c.Invariants.EigenK < 1 {
		add("invariants.eigen_k %d must be >= 1", c.Invariants.EigenK)
	}
	if c.Invariants.SpectrumK < 1 {
		add("invariants.spectrum_k %d must be >= 1", c.Invariants.SpectrumK)
	}
	if c.Invariants.Tolerance <= 0 || c.Invariants.Tolerance >= 1 {
		add("invariants.tolerance %g must be in (0,1)", c.Invariants.Tolerance)
	}
	if c.Invariants.MaxBasis < 2 {
		add("invariants.max_basis %d must be >= 2", c.Invariants.MaxBasis)
	}
	if c.Invariants.RelaxFactor < 1 {
		add("invariants.relax_factor %g must be >= 1", c.Invariants.RelaxFactor)
	}
	if c.Invariants.WeightedCCMaxVertices < 0 || c.Invariants.ExactTriangleLimit < 0 {
		add("invariants vertex limits must be >= 0")
	}

	if _, err := embed.ParseTransform(c.Embed.Transform); err != nil {
		errs = append(errs, err)
	}
	if c.Embed.MaxDim < 1 {
		add("embed.max_dim %d must be >= 1", c.Embed.MaxDim)
	}
	if c.Embed.Dim < 1 || c.Embed.Dim > c.Embed.MaxDim {
		add("embed.dim %d must be in [1,%d]", c.Embed.Dim, c.Embed.MaxDim)
	}

	if c.Store.Dir == "" {
		add("store.dir is required")
	}
	if c.Store.Compression < 0 || c.Store.Compression > 22 {
		add("store.compression %d must be in [0,22]", c.Store.Compression)
	}
	if c.Batch.Parallelism < 1 {
		add("batch.parallelism %d must be >= 1", c.Batch.Parallelism)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		add("log.format %q must be text or json", c.Log.Format)
	}

	return errors.Join(errs...)
}
