// SPDX-License-Identifier: MIT

// Package embed computes spectral embeddings of sparse graphs and aligns
// embeddings of different graphs with orthogonal Procrustes.
//
// An Embedder applies a Transform to the adjacency (raw, diagonally
// augmented, or normalized D^{-1/2}·A·D^{-1/2}), computes the top-d singular
// triplets with package spectral, and returns them as gonum matrices:
//
//   - Unscaled: the singular vectors themselves (n×d).
//   - Scaled: singular vectors times √σ, so that for a positive
//     semidefinite rank-d graph X·Xᵗ reproduces A.
//   - Directed graphs keep separate left and right embeddings; Concat joins
//     them column-wise.
//
// Procrustes finds the rotation and isotropic scale that best map one
// centered embedding onto another.
package embed
