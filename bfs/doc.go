// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over a matrix.CSR.
//
// What
//
//   - Explore vertices in non-decreasing distance (edge count) from a start vertex.
//   - Walker runs many traversals that share one visited set, so repeated
//     walks over all seeds partition the vertex set; components builds on it.
//   - Every newly reached vertex is reported with its depth and BFS parent.
//
// The queue is an explicit slice; there is no recursion, so voxel-scale
// graphs with millions of vertices cannot exhaust the goroutine stack.
//
// Determinism
//
//	CSR rows store neighbors in ascending id order and Walk enqueues them in
//	that order, so the visit sequence is fully reproducible.
//
// Complexity (V = vertices, E = stored entries)
//
//   - Time:   O(V + E) over all walks of one Walker
//   - Memory: O(V)  (queue, visited set)
//
// Usage
//
//	w, err := bfs.NewWalker(a, bfs.WithContext(ctx))
//	if err != nil {
//		// ErrGraphNil
//	}
//	n, err := w.Walk(0, func(v, depth, parent int) { ... })
package bfs
