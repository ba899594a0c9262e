// SPDX-License-Identifier: MIT

// Package invariants computes per-vertex and global graph statistics of a
// symmetric sparse adjacency (normally the LCC projection).
//
// Local invariants (CSR row iteration, no dense storage):
//
//   - Degree: number of distinct neighbors (binary row count, loops excluded). O(m).
//   - EdgeCount: number of undirected edges. O(m).
//   - Triangles: exact per-vertex triangle counts by sorted-row intersection.
//     O(Σ_v Σ_{u∈N(v)} (deg v + deg u)) worst case.
//   - ScanStatistic: deg(v) + edges among N(v). Same bound as Triangles.
//   - ClusteringCoefficient: 2·t/(d·(d−1)) for d > 2, else 0, clamped to [0,1].
//   - WeightedClusteringCoefficient: cube-root weighted triangles over ordered
//     neighbor pairs, weights normalized by the maximum weight. O(Σ deg²);
//     refused above a caller-supplied vertex cap.
//
// Spectral invariants (package spectral, truncated Lanczos):
//
//   - ApproxTriangles: |round(Σ_i λ_i³·u_i(v)²/2)| over the top-k eigenpairs
//     by magnitude. An estimate, not a count.
//   - EigenSpectrum: k eigenvalues, largest or smallest.
//   - MaxAverageDegree: the largest algebraic eigenvalue, an upper bound on
//     the average degree of any subgraph.
//
// Engine runs a selection of these independently. A spectral invariant that
// fails to converge is retried once with a relaxed tolerance and otherwise
// recorded in Report.Failed while the remaining invariants complete.
package invariants
