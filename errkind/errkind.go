// SPDX-License-Identifier: MIT

// Package errkind defines the error taxonomy shared by every connectome
// package. Each package keeps its own sentinels (errors.go) and wraps one of
// the kinds below, so callers can branch either on the precise sentinel or on
// the coarse kind:
//
//	errors.Is(err, morton.ErrOutOfBounds)    // precise
//	errors.Is(err, errkind.ErrMalformedInput) // coarse
//
// Kinds map onto the batch driver's policy:
//   - ErrInputNotFound, ErrMalformedInput, ErrDimensionMismatch: fatal for the subject.
//   - ErrNonConvergence: retried once, then only the affected artifact fails.
package errkind

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputNotFound marks a missing ROI, streamline, graph or LCC source.
	ErrInputNotFound = errors.New("input not found")

	// ErrMalformedInput marks shape mismatches, bad headers, inconsistent lengths.
	ErrMalformedInput = errors.New("malformed input")

	// ErrOutOfBounds is the malformed-input subkind for coordinates or indices
	// outside a declared domain. errors.Is(ErrOutOfBounds, ErrMalformedInput) holds.
	ErrOutOfBounds = fmt.Errorf("out of bounds: %w", ErrMalformedInput)

	// ErrDimensionMismatch marks per-vertex arrays of different lengths used jointly.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNonConvergence marks an iterative solver that exhausted its budget.
	ErrNonConvergence = errors.New("numerical non-convergence")
)

// Error decorates an underlying error with the operation, subject and file
// involved. It is what surfaces at the CLI boundary, so the message names the
// offending file and subject.
type Error struct {
	Op      string // operation, e.g. "build-graph"
	Subject string // subject id, may be empty
	Path    string // offending file, may be empty
	Err     error  // underlying cause (wraps a kind)
}

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Subject != "" {
		b.WriteString(" subject=")
		b.WriteString(e.Subject)
	}
	if e.Path != "" {
		b.WriteString(" file=")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err decorated with op/subject/path, or nil when err is nil.
// An existing *Error is enriched rather than nested so messages stay flat.
func Wrap(err error, op, subject, path string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		out := *e
		if out.Subject == "" {
			out.Subject = subject
		}
		if out.Path == "" {
			out.Path = path
		}
		if out.Op == "" {
			out.Op = op
		}

		return &out
	}

	return &Error{Op: op, Subject: subject, Path: path, Err: err}
}

// Kind reports which taxonomy kind err belongs to, or nil if none.
// ErrOutOfBounds is reported as itself, not as its parent kind.
func Kind(err error) error {
	for _, k := range []error{ErrInputNotFound, ErrOutOfBounds, ErrMalformedInput, ErrDimensionMismatch, ErrNonConvergence} {
		if errors.Is(err, k) {
			return k
		}
	}

	return nil
}

// Fatal reports whether err should abort the current subject. Non-convergence
// is the only recoverable kind.
func Fatal(err error) bool {
	return err != nil && !errors.Is(err, ErrNonConvergence)
}
