// SPDX-License-Identifier: MIT

// Package spectral computes a few eigenpairs of a large sparse symmetric
// operator and truncated singular value decompositions of sparse graphs.
//
// Eigs runs Lanczos with full reorthogonalization. The Krylov basis holds at
// most MaxBasis vectors of length n (n×m memory with m ≪ n); when the basis
// fills up without convergence the iteration is restarted explicitly from the
// sum of the wanted Ritz vectors. An invariant subspace found early (the
// Lanczos "breakdown", common on disconnected graphs) is extended with a
// fresh random direction orthogonal to the basis.
//
// Converged eigenvectors are then locked and the search continues in their
// orthogonal complement until no better wanted value appears. This recovers
// every copy of a repeated eigenvalue, which a single Krylov sequence sees
// only once.
//
// Operators no larger than the dense threshold are materialized and solved
// exactly by gonum's mat.EigenSym.
//
// Failure to converge within the restart budget yields ErrNonConvergence,
// which wraps errkind.ErrNonConvergence; callers may retry with a relaxed
// tolerance.
//
// Eigenvectors are returned with a deterministic sign: the entry of largest
// magnitude (first on ties) is positive.
package spectral
