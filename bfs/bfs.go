// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over a matrix.CSR.
// Stored weights are ignored: any stored entry is an edge.
package bfs

import (
	"fmt"

	"github.com/katalvlaran/connectome/matrix"
)

// ctxCheckEvery is the number of dequeues between cancellation checks.
const ctxCheckEvery = 1 << 10

// queueItem pairs a vertex with its BFS depth.
type queueItem struct {
	v     int32
	depth int32
}

// Walker runs repeated traversals over one graph, sharing a visited set and
// queue buffer between them. Each vertex is visited by at most one Walk call,
// which is what component labeling needs. A Walker is not safe for
// concurrent use.
type Walker struct {
	graph   *matrix.CSR
	opts    Options
	queue   []queueItem
	visited []bool
	pops    int
}

// NewWalker validates the graph and returns a Walker with an
// empty visited set.
func NewWalker(a *matrix.CSR, opts ...Option) (*Walker, error) {
	if a == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Walker{
		graph:   a,
		opts:    o,
		visited: make([]bool, a.Dim()),
	}, nil
}

// Visited reports whether v has been reached by any previous Walk.
func (w *Walker) Visited(v int) bool { return w.visited[v] }

// Walk traverses from start, skipping vertices visited by earlier walks, and
// calls visit for every newly reached vertex together with its depth and
// parent (Unreached for start). It returns the number of vertices reached.
// Walking from an already visited start reaches nothing.
//
// Errors: ErrStartOutOfRange, context errors.
// Complexity: O(reached vertices + their stored entries).
func (w *Walker) Walk(start int, visit func(v, depth, parent int)) (int, error) {
	n := w.graph.Dim()
	if start < 0 || start >= n {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrStartOutOfRange, start, n)
	}
	if w.visited[start] {
		return 0, nil
	}
	w.queue = w.queue[:0]
	w.visited[start] = true
	w.queue = append(w.queue, queueItem{v: int32(start), depth: 0})
	if visit != nil {
		visit(start, 0, Unreached)
	}
	reached := 1

	// The queue slice is consumed by index so its backing array is reused
	// across walks.
	for head := 0; head < len(w.queue); head++ {
		if err := w.checkContext(); err != nil {
			return reached, err
		}
		item := w.queue[head]
		cur := int(item.v)
		next := item.depth + 1
		cols, _ := w.graph.Row(cur)
		for _, c := range cols {
			nbr := int(c)
			if w.visited[nbr] {
				continue
			}
			w.visited[nbr] = true
			w.queue = append(w.queue, queueItem{v: c, depth: next})
			if visit != nil {
				visit(nbr, int(next), cur)
			}
			reached++
		}
	}

	return reached, nil
}

func (w *Walker) checkContext() error {
	w.pops++
	if w.pops%ctxCheckEvery != 1 {
		return nil
	}
	select {
	case <-w.opts.Ctx.Done():
		return w.opts.Ctx.Err()
	default:
		return nil
	}
}
