package bignum

import (
	"fmt"
	"math/big"
)

// householder holds the reflection H = I - (2/beta) * v * v^T.
type householder struct {
	v    Vector
	beta *big.Float
}

// newHouseholder returns the reflection mapping x onto alpha * e_0, with
// alpha = -sign(x_0) * |x|_2, and alpha.
// ok is false if x is the zero vector.
func newHouseholder(x Vector, prec uint) (h householder, alpha *big.Float, ok bool) {

	norm := x.Dot(x)
	norm.Sqrt(norm)

	if norm.Sign() == 0 {
		return h, norm, false
	}

	alpha = new(big.Float).SetPrec(prec).Set(norm)
	if x[0].Sign() >= 0 {
		alpha.Neg(alpha)
	}

	h.v = x.Clone()
	h.v[0].Sub(h.v[0], alpha)
	h.beta = h.v.Dot(h.v)

	return h, alpha, true
}

// apply evaluates y = H * y in place.
func (h householder) apply(y Vector, prec uint) {

	f := h.v.Dot(y)
	f.Add(f, f)
	f.Quo(f, h.beta)

	tmp := new(big.Float).SetPrec(prec)
	for i := range y {
		y[i].Sub(y[i], tmp.Mul(f, h.v[i]))
	}
}

// LeastSquares returns the minimum Euclidean norm solution x of
// min |b - A * x|_2, together with the numerical rank of A.
//
// The solution is obtained from a complete orthogonal decomposition
// A * P = Q * [T; 0] with T = [U^T 0] * Z^T: a Householder QR with column
// pivoting gives Q, P and the numerical rank r, and a second Householder QR
// of the leading r rows transposed gives Z and U. Pivots below
// |R_00| * 2^{-prec/2} are treated as zero, so that over-determined,
// under-determined and rank deficient systems are all handled.
// A and b are left untouched.
func LeastSquares(A Matrix, b Vector) (x Vector, rank int, err error) {

	m, n := A.Dims()

	if m != len(b) {
		return nil, 0, fmt.Errorf("%w: cannot solve a %dx%d system with a right-hand side of size %d", ErrDimensionMismatch, m, n, len(b))
	}

	prec := max(A.Prec(), b.Prec())

	a := A.Clone()
	c := b.Clone()

	perm := make([]int, n)
	for j := range perm {
		perm[j] = j
	}

	var tol *big.Float

	// Stage 1: Householder QR with column pivoting, A * P = Q * R.
	for k := 0; k < min(m, n); k++ {

		p, pNorm := k, new(big.Float).SetPrec(prec)
		for j := k; j < n; j++ {
			col := a.Col(j, k)
			if norm := col.Dot(col); norm.Cmp(pNorm) > 0 {
				p, pNorm = j, norm
			}
		}

		pNorm.Sqrt(pNorm)

		if k == 0 {
			tol = rankThreshold(pNorm, prec)
		}

		if pNorm.Sign() == 0 || pNorm.Cmp(tol) <= 0 {
			break
		}

		a.SwapCols(k, p)
		perm[k], perm[p] = perm[p], perm[k]

		h, alpha, _ := newHouseholder(a.Col(k, k), prec)

		for j := k + 1; j < n; j++ {
			h.apply(a.Col(j, k), prec)
		}

		h.apply(c[k:], prec)

		a[k][k].Set(alpha)
		for i := k + 1; i < m; i++ {
			a[i][k].SetInt64(0)
		}

		rank++
	}

	x = NewVector(n, prec)

	if rank == 0 {
		return x, 0, nil
	}

	// Stage 2: Householder QR of the leading rank rows transposed,
	// T^T = Z * [U; 0].
	w := make(Matrix, rank)
	for i := range w {
		w[i] = a[i]
	}
	w = w.Transpose() // n x rank

	reflections := make([]householder, 0, rank)

	for k := 0; k < rank; k++ {

		h, alpha, ok := newHouseholder(w.Col(k, k), prec)

		if !ok {
			return nil, rank, fmt.Errorf("%w: rank-revealing factorization lost column %d", ErrSingular, k)
		}

		for j := k + 1; j < rank; j++ {
			h.apply(w.Col(j, k), prec)
		}

		w[k][k].Set(alpha)
		for i := k + 1; i < n; i++ {
			w[i][k].SetInt64(0)
		}

		reflections = append(reflections, h)
	}

	// Stage 3: forward substitution U^T * y = c[:rank].
	y := NewVector(n, prec)
	tmp := new(big.Float).SetPrec(prec)

	for i := 0; i < rank; i++ {
		y[i].Set(c[i])
		for j := 0; j < i; j++ {
			y[i].Sub(y[i], tmp.Mul(w[j][i], y[j]))
		}
		y[i].Quo(y[i], w[i][i])
	}

	// Stage 4: z = Z * [y; 0], then undo the column permutation.
	for k := rank - 1; k >= 0; k-- {
		reflections[k].apply(y[k:], prec)
	}

	for j := range perm {
		x[perm[j]].Set(y[j])
	}

	return x, rank, nil
}
