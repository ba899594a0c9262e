// SPDX-License-Identifier: MIT

package builder

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/connectome/matrix"
)

// Topology names.
const (
	methodRing              = "Ring"
	methodPath              = "Path"
	methodComplete          = "Complete"
	methodStar              = "Star"
	methodCompleteBipartite = "CompleteBipartite"
	methodGrid              = "Grid"
	methodRandomSparse      = "RandomSparse"
	methodDisjoint          = "Disjoint"
	methodBuildCSR          = "BuildCSR"
)

// Minimum sizes.
const (
	minRingVertices = 3
	minPathVertices = 1
	minStarVertices = 2
)

// Topology is a synthetic undirected graph on vertex ids [0, Vertices()).
// Invalid parameters are reported by BuildCSR.
type Topology struct {
	name  string
	n     int
	err   error
	edges func(emit func(i, j int) error) error
}

// Vertices returns the vertex count.
func (t Topology) Vertices() int { return t.n }

// String returns the constructor name and size.
func (t Topology) String() string { return fmt.Sprintf("%s(%d)", t.name, t.n) }

func invalid(name string, err error) Topology { return Topology{name: name, err: err} }

// Ring builds the cycle C_n (n ≥ 3).
// Complexity: O(n) edges.
func Ring(n int) Topology {
	if n < minRingVertices {
		return invalid(methodRing, fmt.Errorf("%s: n=%d < min=%d: %w", methodRing, n, minRingVertices, ErrTooFewVertices))
	}

	return Topology{name: methodRing, n: n, edges: func(emit func(i, j int) error) error {
		for i := 0; i < n; i++ {
			if err := emit(i, (i+1)%n); err != nil {
				return err
			}
		}
		return nil
	}}
}

// Path builds the path P_n (n ≥ 1; P_1 is a single isolated vertex).
// Complexity: O(n) edges.
func Path(n int) Topology {
	if n < minPathVertices {
		return invalid(methodPath, fmt.Errorf("%s: n=%d < min=%d: %w", methodPath, n, minPathVertices, ErrTooFewVertices))
	}

	return Topology{name: methodPath, n: n, edges: func(emit func(i, j int) error) error {
		for i := 0; i+1 < n; i++ {
			if err := emit(i, i+1); err != nil {
				return err
			}
		}
		return nil
	}}
}

// Complete builds K_n (n ≥ 1).
// Complexity: O(n²) edges.
func Complete(n int) Topology {
	if n < 1 {
		return invalid(methodComplete, fmt.Errorf("%s: n=%d < min=1: %w", methodComplete, n, ErrTooFewVertices))
	}

	return Topology{name: methodComplete, n: n, edges: func(emit func(i, j int) error) error {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if err := emit(i, j); err != nil {
					return err
				}
			}
		}
		return nil
	}}
}

// Star builds a star with center 0 and n-1 leaves (n ≥ 2).
func Star(n int) Topology {
	if n < minStarVertices {
		return invalid(methodStar, fmt.Errorf("%s: n=%d < min=%d: %w", methodStar, n, minStarVertices, ErrTooFewVertices))
	}

	return Topology{name: methodStar, n: n, edges: func(emit func(i, j int) error) error {
		for i := 1; i < n; i++ {
			if err := emit(0, i); err != nil {
				return err
			}
		}
		return nil
	}}
}

// CompleteBipartite builds K_{n1,n2}: left part [0,n1), right part [n1,n1+n2).
func CompleteBipartite(n1, n2 int) Topology {
	if n1 < 1 || n2 < 1 {
		return invalid(methodCompleteBipartite, fmt.Errorf("%s: n1=%d n2=%d < min=1: %w",
			methodCompleteBipartite, n1, n2, ErrTooFewVertices))
	}

	return Topology{name: methodCompleteBipartite, n: n1 + n2, edges: func(emit func(i, j int) error) error {
		for i := 0; i < n1; i++ {
			for j := 0; j < n2; j++ {
				if err := emit(i, n1+j); err != nil {
					return err
				}
			}
		}
		return nil
	}}
}

// Grid builds a rows×cols 4-neighborhood lattice; vertex r*cols+c is cell (r,c).
func Grid(rows, cols int) Topology {
	if rows < 1 || cols < 1 {
		return invalid(methodGrid, fmt.Errorf("%s: %dx%d: %w", methodGrid, rows, cols, ErrTooFewVertices))
	}

	return Topology{name: methodGrid, n: rows * cols, edges: func(emit func(i, j int) error) error {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				v := r*cols + c
				if c+1 < cols {
					if err := emit(v, v+1); err != nil {
						return err
					}
				}
				if r+1 < rows {
					if err := emit(v, v+cols); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}}
}

// RandomSparse samples an Erdős–Rényi graph G(n,p) with a seeded source.
// Pairs are tried in (i asc, j asc) order, so a seed fixes the graph.
// Complexity: O(n²) trials.
func RandomSparse(n int, p float64, seed int64) Topology {
	if n < 1 {
		return invalid(methodRandomSparse, fmt.Errorf("%s: n=%d < min=1: %w", methodRandomSparse, n, ErrTooFewVertices))
	}
	if p < 0 || p > 1 {
		return invalid(methodRandomSparse, fmt.Errorf("%s: p=%.6f not in [0,1]: %w", methodRandomSparse, p, ErrInvalidProbability))
	}

	return Topology{name: methodRandomSparse, n: n, edges: func(emit func(i, j int) error) error {
		rng := rand.New(rand.NewSource(seed))
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Float64() < p {
					if err := emit(i, j); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}}
}

// Disjoint places parts side by side: part k occupies the id range
// following parts 0..k-1.
func Disjoint(parts ...Topology) Topology {
	n := 0
	for _, p := range parts {
		if p.err != nil {
			return invalid(methodDisjoint, fmt.Errorf("%s: %w", methodDisjoint, p.err))
		}
		n += p.n
	}

	return Topology{name: methodDisjoint, n: n, edges: func(emit func(i, j int) error) error {
		off := 0
		for _, p := range parts {
			o := off
			if err := p.edges(func(i, j int) error { return emit(o+i, o+j) }); err != nil {
				return err
			}
			off += p.n
		}
		return nil
	}}
}

// BuildCSR assembles the disjoint union of parts into a symmetric binary CSR.
// Repeated edges keep weight 1.
// Complexity: O(n + m log m).
func BuildCSR(parts ...Topology) (*matrix.CSR, error) {
	t := Disjoint(parts...)
	if t.err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuildCSR, t.err)
	}
	acc, err := matrix.NewAccumulator(t.n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuildCSR, err)
	}
	err = t.edges(func(i, j int) error {
		if err := acc.Add(i, j, 1); err != nil {
			return err
		}
		return acc.Add(j, i, 1)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuildCSR, err)
	}
	a, err := acc.Complete()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodBuildCSR, err)
	}

	return matrix.Binarize(a), nil
}
