// SPDX-License-Identifier: MIT

// Package builder turns streamlines into sparse connectivity graphs.
//
// A Builder owns one matrix.Accumulator. Every streamline is mapped to a
// vertex sequence, consecutive repeats are collapsed, and each unordered
// pair of distinct vertices it visits gains +1 (stored once, i<j). Two
// resolutions share the same strategy:
//
//   - ModeVoxel: a vertex is the Morton code of an in-mask voxel; the vertex
//     space is the Indexer capacity of the label volume.
//   - ModeRegion: a vertex is the dense index of a region label; labels are
//     ranked ascending so index k names RegionLabels()[k].
//
// WithWindow(w) restricts pairs to vertices whose first visits along the
// streamline are at most w steps apart; 0 keeps every pair.
//
// Complete freezes the accumulator and returns the upper-triangular CSR;
// matrix.Symmetrize turns it into the undirected graph.
//
// The package also provides synthetic topologies (Ring, Path, Complete,
// Star, CompleteBipartite, Grid, RandomSparse, Disjoint) and BuildCSR, which
// assembles them into symmetric binary CSR fixtures.
package builder
