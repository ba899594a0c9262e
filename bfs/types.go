// SPDX-License-Identifier: MIT

// Package bfs provides options and error definitions
// for breadth-first search over a matrix.CSR.
package bfs

import (
	"context"
	"errors"
)

// Sentinel errors for BFS execution.
var (
	// ErrStartOutOfRange is returned when the start vertex is not in [0,n).
	ErrStartOutOfRange = errors.New("bfs: start vertex out of range")

	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("bfs: graph is nil")
)

// Option configures a Walker via functional arguments.
type Option func(*Options)

// Options holds the parameters of a Walker.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context
}

// DefaultOptions returns Options with context.Background.
func DefaultOptions() Options {
	return Options{Ctx: context.Background()}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// Unreached is the parent reported for the start vertex of a walk.
const Unreached = -1
