// Package connectome turns brain tractography into sparse connectivity
// graphs and derives the statistics used to compare them across subjects.
//
// What is in the box?
//
//	morton/      3D Morton (Z-order) codec bounded by a declared volume
//	volume/      ROI label volumes (TOML descriptor + raw or zstd voxels)
//	fiber/       streamline container, decoded lazily
//	builder/     streamlines → graph (voxel or region vertices), synthetic topologies
//	matrix/      open Accumulator, frozen CSR, Symmetrize/Binarize
//	bfs/         explicit-queue breadth-first search over CSR
//	components/  connected components, canonical ranking, isolated bucket
//	subgraph/    induced-subgraph projection with forward/inverse vertex maps
//	spectral/    Lanczos eigensolver and truncated SVD
//	invariants/  degree, clustering, scan statistic, triangles, spectrum, MAD
//	embed/       adjacency/Laplacian spectral embedding and Procrustes alignment
//	artifact/    .npy arrays, compressed CSR container, badger subject index
//	pipeline/    per-subject stages and the parallel batch driver
//	cmd/connectome  command-line entry point
//
// Quick start:
//
//	labels, _ := volume.Load("atlas.toml")
//	src, _ := fiber.Open("sub-01.fib.zst")
//	b, _ := builder.New(labels, builder.WithMode(builder.ModeRegion))
//	_, _ = b.Ingest(ctx, src)
//	upper, _ := b.Complete()
//	g, _ := matrix.Symmetrize(upper)
//	lcc, _, _ := subgraph.ProjectLCC(ctx, g)
//	rep, _ := (&invariants.Engine{}).Compute(ctx, lcc.Adj)
//
// Every error wraps one kind from errkind, so callers can branch with
// errors.Is on either the package sentinel or the coarse kind.
package connectome
