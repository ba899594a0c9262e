// SPDX-License-Identifier: MIT

package spectral

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const opEigs = "Eigs"

// Operator is a symmetric linear map on R^n. *matrix.CSR satisfies it.
type Operator interface {
	Dim() int
	MulVec(dst, x []float64) error
}

// Eigen holds k eigenpairs ordered by the requested selector.
type Eigen struct {
	Values []float64
	// Vectors is n×k; column i belongs to Values[i].
	Vectors *mat.Dense
}

// Eigs computes k eigenpairs of the symmetric operator op.
//
// Errors: ErrNilOperator, ErrBadRank, ErrNonConvergence, ctx errors,
// operator errors.
// Complexity: O(restarts · m · (nnz + n·m)) time, O(n·m) memory.
func Eigs(ctx context.Context, op Operator, k int, which Which, opts ...Option) (*Eigen, error) {
	if op == nil {
		return nil, fmt.Errorf("%s: %w", opEigs, ErrNilOperator)
	}
	n := op.Dim()
	if k < 1 || k > n {
		return nil, fmt.Errorf("%s: k=%d n=%d: %w", opEigs, k, n, ErrBadRank)
	}
	o := gatherOptions(opts...)
	if n <= o.DenseThreshold {
		return denseEigs(ctx, op, k, which)
	}
	l := &lanczos{op: op, n: n, k: k, which: which, opts: o, rng: rand.New(rand.NewSource(o.Seed))}

	return l.solveLocked(ctx)
}

// lanczos is the state of one Eigs call.
type lanczos struct {
	op    Operator
	n, k  int
	which Which
	opts  Options
	rng   *rand.Rand

	// locked holds converged eigenvectors; every Krylov vector is kept
	// orthogonal to them.
	locked [][]float64
	basis  [][]float64
	alpha  []float64
	beta   []float64 // beta[j] couples basis[j] and basis[j+1]
}

// solveLocked computes the k wanted pairs, then searches the orthogonal
// complement of every converged vector for a better wanted value. A single
// Krylov sequence sees one direction per eigenspace, so further copies of a
// repeated eigenvalue only surface in that complement.
func (l *lanczos) solveLocked(ctx context.Context) (*Eigen, error) {
	k := l.k
	first, err := l.solve(ctx)
	if err != nil {
		return nil, err
	}
	vals := append([]float64(nil), first.Values...)
	vecs := make([][]float64, k)
	for i := range vecs {
		vecs[i] = mat.Col(nil, i, first.Vectors)
	}
	l.locked = append(l.locked, vecs...)

	l.k = 1
	for len(l.locked) < l.n {
		cand, err := l.solve(ctx)
		if err != nil {
			return nil, err
		}
		x := cand.Values[0]
		v := mat.Col(nil, 0, cand.Vectors)
		l.locked = append(l.locked, v)
		order := selectIndices(vals, k, l.which)
		worst := order[k-1]
		if !l.better(x, vals[worst]) {
			break
		}
		vals[worst], vecs[worst] = x, v
	}
	l.k = k

	out := &Eigen{Values: make([]float64, k), Vectors: mat.NewDense(l.n, k, nil)}
	for c, i := range selectIndices(vals, k, l.which) {
		out.Values[c] = vals[i]
		out.Vectors.SetCol(c, vecs[i])
	}

	return out, nil
}

// better reports whether x precedes y under the selector by more than the
// convergence tolerance.
func (l *lanczos) better(x, y float64) bool {
	eps := l.opts.Tol * math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	switch l.which {
	case LargestAlgebraic:
		return x > y+eps
	case SmallestAlgebraic:
		return x < y-eps
	default:
		return math.Abs(x) > math.Abs(y)+eps
	}
}

func (l *lanczos) solve(ctx context.Context) (*Eigen, error) {
	dim := l.n - len(l.locked)
	m := l.opts.MaxBasis
	if m < 3*l.k {
		m = 3 * l.k
	}
	if m > dim {
		m = dim
	}
	start := l.randomVector()
	for restart := 0; restart <= l.opts.MaxRestarts; restart++ {
		res, converged, err := l.run(ctx, start, m, dim)
		if err != nil {
			return nil, err
		}
		if converged {
			return res, nil
		}
		// Explicit restart from the sum of the wanted Ritz vectors.
		start = make([]float64, l.n)
		for i := 0; i < l.k; i++ {
			floats.Add(start, mat.Col(nil, i, res.Vectors))
		}
	}
	return nil, fmt.Errorf("%s: k=%d n=%d basis=%d after %d restarts: %w",
		opEigs, l.k, l.n, m, l.opts.MaxRestarts, ErrNonConvergence)
}

// run builds one Krylov basis of at most m vectors from start inside a
// complement of dimension dim.
func (l *lanczos) run(ctx context.Context, start []float64, m, dim int) (*Eigen, bool, error) {
	l.basis = l.basis[:0]
	l.alpha = l.alpha[:0]
	l.beta = l.beta[:0]

	q := start
	l.reorthogonalize(q)
	if nrm := floats.Norm(q, 2); nrm > 1e-8 {
		floats.Scale(1/nrm, q)
	} else {
		q = l.randomVector()
	}
	w := make([]float64, l.n)
	var ritz *Eigen
	var resid []float64
	for j := 0; j < m; j++ {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		l.basis = append(l.basis, q)
		if err := l.op.MulVec(w, q); err != nil {
			return nil, false, fmt.Errorf("%s: %w", opEigs, err)
		}
		a := floats.Dot(w, q)
		l.alpha = append(l.alpha, a)
		floats.AddScaled(w, -a, q)
		if j > 0 {
			floats.AddScaled(w, -l.beta[j-1], l.basis[j-1])
		}
		l.reorthogonalize(w)
		b := floats.Norm(w, 2)
		l.beta = append(l.beta, b)

		full := j+1 == m
		var err error
		scale := l.normEstimate()
		broken := b <= 1e-12*math.Max(scale, 1e-300)
		if !broken && ((j+1)%checkEvery == 0 || full) && j+1 >= l.k {
			ritz, resid, err = l.ritz(b)
			if err != nil {
				return nil, false, err
			}
			if l.converged(ritz.Values, resid, scale) {
				return ritz, true, nil
			}
		}
		if full {
			if ritz == nil {
				ritz, _, err = l.ritz(b)
				if err != nil {
					return nil, false, err
				}
			}
			// A basis spanning the whole complement is exact.
			return ritz, m == dim, nil
		}
		if broken {
			// Invariant subspace: continue with a fresh orthogonal direction.
			l.beta[j] = 0
			q = l.randomVector()
			l.reorthogonalize(q)
			if nrm := floats.Norm(q, 2); nrm > 1e-8 {
				floats.Scale(1/nrm, q)
			} else {
				ritz, _, err = l.ritz(0)
				return ritz, err == nil, err
			}
			continue
		}
		q = make([]float64, l.n)
		copy(q, w)
		floats.Scale(1/b, q)
	}

	return ritz, false, nil
}

// reorthogonalize removes the locked and basis components of w (two
// Gram-Schmidt passes).
func (l *lanczos) reorthogonalize(w []float64) {
	for pass := 0; pass < 2; pass++ {
		for _, v := range l.locked {
			floats.AddScaled(w, -floats.Dot(w, v), v)
		}
		for _, v := range l.basis {
			floats.AddScaled(w, -floats.Dot(w, v), v)
		}
	}
}

// normEstimate bounds ‖A‖ by the largest row sum of |T|.
func (l *lanczos) normEstimate() float64 {
	var best float64
	for j, a := range l.alpha {
		s := math.Abs(a)
		if j > 0 {
			s += l.beta[j-1]
		}
		if j < len(l.alpha)-1 {
			s += l.beta[j]
		}
		if s > best {
			best = s
		}
	}

	return best
}

// ritz solves the projected tridiagonal problem and returns the wanted Ritz
// pairs with their residual norms |b·y_last|.
func (l *lanczos) ritz(b float64) (*Eigen, []float64, error) {
	j := len(l.alpha)
	t := mat.NewSymDense(j, nil)
	for i := 0; i < j; i++ {
		t.SetSym(i, i, l.alpha[i])
		if i+1 < j {
			t.SetSym(i, i+1, l.beta[i])
		}
	}
	var es mat.EigenSym
	if !es.Factorize(t, true) {
		return nil, nil, fmt.Errorf("%s: tridiagonal eigensolve of order %d: %w", opEigs, j, ErrNonConvergence)
	}
	vals := es.Values(nil)
	var y mat.Dense
	es.VectorsTo(&y)

	k := l.k
	if k > j {
		k = j
	}
	idx := selectIndices(vals, k, l.which)
	out := &Eigen{Values: make([]float64, k), Vectors: mat.NewDense(l.n, k, nil)}
	resid := make([]float64, k)
	col := make([]float64, l.n)
	for c, i := range idx {
		out.Values[c] = vals[i]
		resid[c] = math.Abs(b * y.At(j-1, i))
		for r := range col {
			col[r] = 0
		}
		for s, v := range l.basis {
			floats.AddScaled(col, y.At(s, i), v)
		}
		canonicalSign(col)
		out.Vectors.SetCol(c, col)
	}

	return out, resid, nil
}

func (l *lanczos) converged(vals, resid []float64, scale float64) bool {
	if len(vals) < l.k {
		return false
	}
	for _, r := range resid {
		if r > l.opts.Tol*math.Max(scale, 1e-300) {
			return false
		}
	}

	return true
}

func (l *lanczos) randomVector() []float64 {
	v := make([]float64, l.n)
	for i := range v {
		v[i] = l.rng.NormFloat64()
	}
	for _, u := range l.locked {
		floats.AddScaled(v, -floats.Dot(v, u), u)
	}
	floats.Scale(1/floats.Norm(v, 2), v)

	return v
}

// selectIndices returns the indices of the k wanted values in output order.
func selectIndices(vals []float64, k int, which Which) []int {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	var less func(a, b int) bool
	switch which {
	case LargestAlgebraic:
		less = func(a, b int) bool { return vals[idx[a]] > vals[idx[b]] }
	case SmallestAlgebraic:
		less = func(a, b int) bool { return vals[idx[a]] < vals[idx[b]] }
	default:
		less = func(a, b int) bool {
			x, y := math.Abs(vals[idx[a]]), math.Abs(vals[idx[b]])
			if x != y {
				return x > y
			}
			return vals[idx[a]] > vals[idx[b]]
		}
	}
	sort.SliceStable(idx, less)

	return idx[:k]
}

// canonicalSign flips v so that its largest-magnitude entry is positive.
func canonicalSign(v []float64) {
	best, at := 0.0, -1
	for i, x := range v {
		if a := math.Abs(x); a > best+1e-12 {
			best, at = a, i
		}
	}
	if at >= 0 && v[at] < 0 {
		floats.Scale(-1, v)
	}
}

// denseEigs materializes op column by column and solves it with gonum's
// symmetric eigendecomposition.
func denseEigs(ctx context.Context, op Operator, k int, which Which) (*Eigen, error) {
	n := op.Dim()
	a := mat.NewSymDense(n, nil)
	e := make([]float64, n)
	col := make([]float64, n)
	for j := 0; j < n; j++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e[j] = 1
		if err := op.MulVec(col, e); err != nil {
			return nil, fmt.Errorf("%s: %w", opEigs, err)
		}
		e[j] = 0
		for i := 0; i <= j; i++ {
			a.SetSym(i, j, col[i])
		}
	}
	var es mat.EigenSym
	if !es.Factorize(a, true) {
		return nil, fmt.Errorf("%s: dense n=%d: %w", opEigs, n, ErrNonConvergence)
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	idx := selectIndices(vals, k, which)
	out := &Eigen{Values: make([]float64, k), Vectors: mat.NewDense(n, k, nil)}
	v := make([]float64, n)
	for c, i := range idx {
		out.Values[c] = vals[i]
		mat.Col(v, i, &vecs)
		canonicalSign(v)
		out.Vectors.SetCol(c, v)
	}

	return out, nil
}
