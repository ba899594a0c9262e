// SPDX-License-Identifier: MIT

// Package logging builds the slog.Logger shared by the CLI and the batch
// driver: text or JSON records on stderr, or on a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the handler. The zero value logs text at info level to stderr.
type Options struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	File       string // rotated log file; empty logs to Stderr
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Stderr     io.Writer // defaults to os.Stderr
}

// ParseLevel maps a level name (case-insensitive) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", s)
	}
}

// New returns a logger and a closer for its output. Close is a no-op for
// stderr.
func New(o Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return nil, nil, err
	}
	var (
		out    io.Writer = o.Stderr
		closer io.Closer = nopCloser{}
	)
	if out == nil {
		out = os.Stderr
	}
	if o.File != "" {
		lj := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    o.MaxSizeMB, // megabytes
			MaxAge:     o.MaxAgeDays,
			MaxBackups: o.MaxBackups,
		}
		out, closer = lj, lj
	}

	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(o.Format) {
	case "", "text":
		h = slog.NewTextHandler(out, hopts)
	case "json":
		h = slog.NewJSONHandler(out, hopts)
	default:
		return nil, nil, fmt.Errorf("logging: unknown format %q", o.Format)
	}

	return slog.New(h), closer, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
