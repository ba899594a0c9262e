// Package matrix holds the sparse storage behind every connectome graph.
//
// The package provides:
//
//   - Accumulator: the open, mutable COO buffer used while streamlines are
//     ingested. Repeated (i,j) entries are summed; the buffer compacts itself
//     as it grows so memory stays proportional to the number of distinct pairs.
//   - CSR: the frozen compressed-sparse-row form produced by
//     Accumulator.Complete. A CSR is immutable; every downstream component
//     (components, subgraph, invariants, embed) reads it concurrently without
//     locks.
//   - Symmetrize / Binarize: the A + Aᵗ and "nonzero → 1" transforms.
//
// Nothing here ever materializes an n×n dense structure for a graph.
//
// Complexity quicksheet:
//
//	Accumulator.Add       amortized O(1); compaction O(b log b) per b buffered entries
//	Accumulator.Complete  O(m log m)
//	CSR.At                O(log deg)
//	CSR.MulVec/MulVecT    O(n + m)
//	Symmetrize/Transpose  O(n + m)
package matrix
