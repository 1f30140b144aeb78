package shiftrule

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Float64RankCond is the relative singular value threshold used by
// EstimateFloat64 to determine the numerical rank.
const Float64RankCond = 1e-12

// EstimateFloat64 solves p in double precision with a singular value
// decomposition. It returns the minimum norm least-squares coefficients and
// the residual max_i |RHS[i] - (E * u)[i]|, in a fraction of the time of
// Solve. The accuracy is limited to about 1e-15 relative to the entries of E.
func EstimateFloat64(p Problem) (u []float64, residual float64, err error) {

	if err = p.Validate(); err != nil {
		return nil, 0, err
	}

	E, rhs := BuildFloat64(p)

	var svd mat.SVD
	if ok := svd.Factorize(E, mat.SVDThin); !ok {
		return nil, 0, fmt.Errorf("%w: SVD factorization failed", ErrNumerical)
	}

	x := mat.NewVecDense(p.NumCoefficients(), nil)
	svd.SolveVecTo(x, rhs, svd.Rank(Float64RankCond))

	r := mat.NewVecDense(p.NumEquations(), nil)
	r.MulVec(E, x)
	r.SubVec(rhs, r)

	return mat.Col(nil, 0, x), mat.Norm(r, math.Inf(1)), nil
}

// BuildFloat64 assembles the system of p in double precision.
// p must be valid.
func BuildFloat64(p Problem) (E *mat.Dense, rhs *mat.VecDense) {

	L, S := len(p.Frequencies), len(p.Support)

	E = mat.NewDense(1+2*L, S, nil)
	rhs = mat.NewVecDense(1+2*L, nil)

	for s := 0; s < S; s++ {
		E.Set(0, s, 1)
	}

	for l, xi := range p.Frequencies {

		xif, _ := xi.Float64()

		for s, a := range p.Support {
			phase, _ := unitPhase(xi, a).Float64()
			E.Set(1+l, s, math.Cos(2*math.Pi*phase))
			E.Set(1+L+l, s, -math.Sin(2*math.Pi*phase))
		}

		// i^alpha * w^alpha
		w := math.Pow(2*math.Pi*xif, float64(p.Order))
		switch p.Order & 3 {
		case 0:
			rhs.SetVec(1+l, w)
		case 1:
			rhs.SetVec(1+L+l, w)
		case 2:
			rhs.SetVec(1+l, -w)
		case 3:
			rhs.SetVec(1+L+l, -w)
		}
	}

	return
}
