// SPDX-License-Identifier: MIT

// Package pipeline drives one subject from streamlines to artifacts and runs
// many subjects in parallel.
//
// Stages, in order:
//
//	build      fibers + ROI -> symmetric graph        (<subject>_<mode>.csr.zst)
//	lcc        graph -> largest connected component   (<subject>_lcc.npy)
//	invariants LCC -> per-vertex and scalar invariants (<subject>_<name>.npy, index)
//	embed      LCC -> n′×d spectral embedding          (<subject>_embed.npy)
//
// A subject owns its graph for every stage; subjects share only the
// artifact Index and the Metrics collectors. Fatal errors abort the subject
// and are decorated with the stage, subject and file (errkind.Error);
// invariant non-convergence is recorded in Result.Failed and the subject
// still completes.
package pipeline
