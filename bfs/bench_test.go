// SPDX-License-Identifier: MIT

package bfs_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/connectome/bfs"
	"github.com/katalvlaran/connectome/matrix"
)

// BenchmarkWalk_Chain measures a walk on a linear chain graph of size N.
func BenchmarkWalk_Chain(b *testing.B) {
	const N = 10000
	edges := make([][2]int, N-1)
	for i := range edges {
		edges[i] = [2]int{i, i + 1}
	}
	a := undirected(b, N, edges)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w, _ := bfs.NewWalker(a)
		_, _ = w.Walk(0, nil)
	}
}

// BenchmarkWalk_RandomSparse measures a walk on a sparse random graph.
func BenchmarkWalk_RandomSparse(b *testing.B) {
	const V = 50000
	const E = 200000
	rnd := rand.New(rand.NewSource(42))
	acc, _ := matrix.NewAccumulator(V)
	for k := 0; k < E; k++ {
		u, v := rnd.Intn(V), rnd.Intn(V)
		if u == v {
			continue
		}
		_ = acc.Add(u, v, 1)
		_ = acc.Add(v, u, 1)
	}
	a, _ := acc.Complete()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w, _ := bfs.NewWalker(a)
		_, _ = w.Walk(0, nil)
	}
}
