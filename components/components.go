// SPDX-License-Identifier: MIT

package components

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/connectome/bfs"
	"github.com/katalvlaran/connectome/matrix"
)

// Labeling assigns every vertex a component label.
type Labeling struct {
	// Labels[v] is the component label of v, or Unconnected for isolated vertices.
	Labels []int32
	// Sizes[l] is the vertex count of component l, non-increasing in l.
	Sizes []int
	// Unconnected is the label of the isolated-vertex bucket (== len(Sizes)).
	Unconnected int32
	// Isolated is the number of vertices in the bucket.
	Isolated int
}

// Components returns the number of real components (bucket excluded).
func (l *Labeling) Components() int { return len(l.Sizes) }

// Members returns the vertices with the given label in ascending order.
// The bucket label is accepted and yields the isolated vertices.
// Complexity: O(n).
func (l *Labeling) Members(label int) ([]int, error) {
	var size int
	switch {
	case label >= 0 && label < len(l.Sizes):
		size = l.Sizes[label]
	case label == int(l.Unconnected):
		size = l.Isolated
	default:
		return nil, fmt.Errorf("Members(%d): %d components: %w", label, len(l.Sizes), ErrLabelOutOfRange)
	}
	out := make([]int, 0, size)
	for v, lab := range l.Labels {
		if int(lab) == label {
			out = append(out, v)
		}
	}

	return out, nil
}

// LCC returns the vertices of component 0 in ascending order.
// Errors: ErrNoEdges when the graph has no component.
func (l *Labeling) LCC() ([]int, error) {
	if len(l.Sizes) == 0 {
		return nil, ErrNoEdges
	}

	return l.Members(0)
}

// Extract labels the connected components of the symmetric adjacency a.
// ctx is checked periodically during traversal.
//
// Errors: ErrNilGraph, ErrAsymmetric, ctx errors.
// Complexity: O(n + m) time, O(n) memory.
func Extract(ctx context.Context, a *matrix.CSR) (*Labeling, error) {
	if a == nil {
		return nil, ErrNilGraph
	}
	if !matrix.IsSymmetric(a) {
		return nil, fmt.Errorf("Extract: %w", ErrAsymmetric)
	}
	n := a.Dim()
	w, err := bfs.NewWalker(a, bfs.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("Extract: %w", err)
	}

	// Stage 1: discovery. raw[v] is the discovery index of v's component,
	// -1 marks an isolated vertex.
	raw := make([]int32, n)
	var rawSizes []int
	var cur int32
	mark := func(v, _, _ int) { raw[v] = cur }
	for v := 0; v < n; v++ {
		if w.Visited(v) {
			continue
		}
		cur = int32(len(rawSizes))
		reached, err := w.Walk(v, mark)
		if err != nil {
			return nil, fmt.Errorf("Extract: %w", err)
		}
		if reached == 1 {
			raw[v] = -1
			continue
		}
		rawSizes = append(rawSizes, reached)
	}

	// Stage 2: rank by size desc. Discovery order is ascending minimal
	// vertex id, so a stable sort settles ties.
	order := make([]int, len(rawSizes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return rawSizes[order[x]] > rawSizes[order[y]] })
	rank := make([]int32, len(rawSizes))
	sizes := make([]int, len(rawSizes))
	for label, r := range order {
		rank[r] = int32(label)
		sizes[label] = rawSizes[r]
	}

	// Stage 3: relabel in place.
	bucket := int32(len(sizes))
	var isolated int
	for v, r := range raw {
		if r < 0 {
			raw[v] = bucket
			isolated++
			continue
		}
		raw[v] = rank[r]
	}

	return &Labeling{Labels: raw, Sizes: sizes, Unconnected: bucket, Isolated: isolated}, nil
}
