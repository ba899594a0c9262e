// SPDX-License-Identifier: MIT

package invariants

import (
	"fmt"
	"math"

	"github.com/katalvlaran/connectome/matrix"
)

// Degree returns the number of distinct neighbors of every vertex, i.e. the
// row sums of the binarized adjacency with loops excluded.
// Complexity: O(n + m).
func Degree(a *matrix.CSR) []float64 {
	n := a.Dim()
	deg := make([]float64, n)
	for v := 0; v < n; v++ {
		cols, _ := a.Row(v)
		d := len(cols)
		if a.Has(v, v) {
			d--
		}
		deg[v] = float64(d)
	}

	return deg
}

// EdgeCount returns the number of undirected edges (stored entries with i ≤ j)
// of a symmetric adjacency.
// Complexity: O(m).
func EdgeCount(a *matrix.CSR) uint64 {
	var m uint64
	a.Do(func(i, j int, _ float64) bool {
		if i <= j {
			m++
		}
		return true
	})

	return m
}

// Triangles returns the exact number of triangles through every vertex.
// Complexity: O(Σ_v Σ_{u∈N(v)} (deg v + deg u)) time, O(n) memory.
func Triangles(a *matrix.CSR) []float64 {
	n := a.Dim()
	tri := make([]float64, n)
	for v := 0; v < n; v++ {
		nv, _ := a.Row(v)
		var twice int
		for _, u := range nv {
			if int(u) == v {
				continue
			}
			nu, _ := a.Row(int(u))
			twice += intersect(nv, nu, int32(v), u)
		}
		tri[v] = float64(twice / 2)
	}

	return tri
}

// ScanStatistic returns deg(v) + |edges among N(v)| for every vertex, the
// size of v's closed 1-neighborhood subgraph.
// Complexity: as Triangles.
func ScanStatistic(a *matrix.CSR) []float64 {
	deg := Degree(a)
	scan := Triangles(a)
	// Each edge among N(v) closes exactly one triangle through v.
	for v := range scan {
		scan[v] += deg[v]
	}

	return scan
}

// intersect counts common entries of two ascending rows, ignoring x and y.
func intersect(a, b []int32, x, y int32) int {
	var c, p, q int
	for p < len(a) && q < len(b) {
		switch {
		case a[p] < b[q]:
			p++
		case a[p] > b[q]:
			q++
		default:
			if a[p] != x && a[p] != y {
				c++
			}
			p++
			q++
		}
	}

	return c
}

// ClusteringCoefficient returns 2·t(v)/(d(v)·(d(v)−1)) for d(v) > 2 and 0
// otherwise, clamped to [0,1].
// Errors: ErrLengthMismatch when len(deg) != len(tri).
// Complexity: O(n).
func ClusteringCoefficient(deg, tri []float64) ([]float64, error) {
	if len(deg) != len(tri) {
		return nil, fmt.Errorf("ClusteringCoefficient: len(deg)=%d len(tri)=%d: %w", len(deg), len(tri), ErrLengthMismatch)
	}
	cc := make([]float64, len(deg))
	for v, d := range deg {
		if d <= 2 {
			continue
		}
		cc[v] = clamp01(2 * tri[v] / (d * (d - 1)))
	}

	return cc, nil
}

// WeightedClusteringCoefficient returns, for every vertex v with d = deg(v) ≥ 2,
//
//	(1 / (d(d−1))) · Σ_{j≠k ∈ N(v)} (ŵ_vj · ŵ_jk · ŵ_kv)^{1/3}
//
// over ordered neighbor pairs, with ŵ = w / max(w). Vertices with d < 2 get 0.
//
// Errors: ErrGraphTooLarge when n > maxVertices.
// Complexity: O(Σ_v Σ_{j∈N(v)} (deg v + deg j)).
func WeightedClusteringCoefficient(a *matrix.CSR, maxVertices int) ([]float64, error) {
	n := a.Dim()
	if n > maxVertices {
		return nil, fmt.Errorf("WeightedClusteringCoefficient: n=%d cap=%d: %w", n, maxVertices, ErrGraphTooLarge)
	}
	wcc := make([]float64, n)
	maxW := a.MaxWeight()
	if maxW <= 0 {
		return wcc, nil
	}
	deg := Degree(a)
	for v := 0; v < n; v++ {
		d := deg[v]
		if d < 2 {
			continue
		}
		nv, wv := a.Row(v)
		var sum float64
		for p, j := range nv {
			if int(j) == v {
				continue
			}
			nj, wj := a.Row(int(j))
			wvj := wv[p] / maxW
			// Walk N(v) ∩ N(j) collecting both weights of the closing edges.
			x, y := 0, 0
			for x < len(nv) && y < len(nj) {
				switch {
				case nv[x] < nj[y]:
					x++
				case nv[x] > nj[y]:
					y++
				default:
					k := nv[x]
					if int(k) != v && k != j {
						sum += math.Cbrt(wvj * (wj[y] / maxW) * (wv[x] / maxW))
					}
					x++
					y++
				}
			}
		}
		wcc[v] = clamp01(sum / (d * (d - 1)))
	}

	return wcc, nil
}

func clamp01(x float64) float64 {
	switch {
	case x < 0 || math.IsNaN(x):
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
