// SPDX-License-Identifier: MIT

// Package artifact persists pipeline outputs.
//
//   - Dense arrays (invariant vectors, eigenvalues, LCC ids, embeddings) are
//     NumPy .npy files written with npyio, so they load directly in Python.
//   - Graphs use a compact CSR container, zstd-compressed:
//
//     magic "CCSR" | version u32 | n u64 | nnz u64 |
//     indptr (n+1)×i64 | indices nnz×i32 | data nnz×f64   (little-endian)
//
//   - Per-subject scalars (edge counts) and artifact paths live in a badger
//     key-value Index, which survives reruns and can be listed as a map.
//
// Names derives every file name from the subject id, so reruns overwrite
// the same artifacts.
package artifact
