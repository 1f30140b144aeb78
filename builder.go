package shiftrule

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/shiftrule/utils/bignum"
)

// LinearSystem is the real linear system E * u = RHS whose solutions are the
// coefficients of exact shift rules.
//
// For L frequencies and S support points, E is (1+2L) x S:
//
//	row 0         : 1                        RHS[0]     = 0
//	row 1+l       : cos(2*Pi*xi_l*a_s)        RHS[1+l]   = Re((i*2*Pi*xi_l)^alpha)
//	row 1+L+l     : -sin(2*Pi*xi_l*a_s)       RHS[1+L+l] = Im((i*2*Pi*xi_l)^alpha)
type LinearSystem struct {
	E   bignum.Matrix
	RHS bignum.Vector
}

// Rows returns the number of equations.
func (sys *LinearSystem) Rows() int {
	return len(sys.E)
}

// Cols returns the number of unknowns.
func (sys *LinearSystem) Cols() int {
	_, cols := sys.E.Dims()
	return cols
}

// IsSquare returns true if the system has as many equations as unknowns.
func (sys *LinearSystem) IsSquare() bool {
	return sys.Rows() == sys.Cols()
}

// Residual returns max_i |RHS[i] - (E * u)[i]|.
func (sys *LinearSystem) Residual(u bignum.Vector) (res *big.Float, err error) {

	if len(u) != sys.Cols() {
		return nil, fmt.Errorf("%w: %d coefficients for %d unknowns", bignum.ErrDimensionMismatch, len(u), sys.Cols())
	}

	return sys.RHS.Sub(sys.E.MulVec(u)).NormInf(), nil
}

// Build assembles the linear system of the Problem p at the precision of ctx.
// Trigonometric values and powers are evaluated with bignum.GuardBits extra bits
// and rounded to the working precision.
// It returns ErrDomain if p is invalid.
func Build(ctx Context, p Problem) (sys *LinearSystem, err error) {

	if err = p.Validate(); err != nil {
		return nil, err
	}

	L, S := len(p.Frequencies), len(p.Support)

	prec := ctx.Prec()
	wp := ctx.guardPrec()

	sys = &LinearSystem{
		E:   bignum.NewMatrix(1+2*L, S, prec),
		RHS: bignum.NewVector(1+2*L, prec),
	}

	for s := 0; s < S; s++ {
		sys.E[0][s].SetInt64(1)
	}

	twoPi := bignum.TwoPi(wp)

	angle := new(big.Float).SetPrec(wp)

	for l, xi := range p.Frequencies {
		for s, a := range p.Support {

			angle.SetRat(unitPhase(xi, a))
			angle.Mul(angle, twoPi)

			sys.E[1+l][s].Set(bignum.Cos(angle))
			sys.E[1+L+l][s].Neg(bignum.Sin(angle))
		}
	}

	cEval := bignum.NewComplexMultiplier()
	w := bignum.NewComplex(wp)
	pow := bignum.NewComplex(wp)

	for l, xi := range p.Frequencies {

		// w = i * 2 * Pi * xi
		w.Real().SetInt64(0)
		w.Imag().SetRat(xi)
		w.Imag().Mul(w.Imag(), twoPi)

		cEval.Pow(w, p.Order, pow)

		if p.Order&1 == 0 && !pow.IsReal() || p.Order&1 == 1 && !pow.IsImag() {
			return nil, fmt.Errorf("%w: right-hand side of frequency %d is not a signed real power", ErrNumerical, l)
		}

		sys.RHS[1+l].Set(pow.Real())
		sys.RHS[1+L+l].Set(pow.Imag())
	}

	return sys, nil
}

// unitPhase returns xi*a reduced modulo 1. The phase is exact, so the
// reduction costs no precision.
func unitPhase(xi, a *big.Rat) *big.Rat {
	return reduceUnit(new(big.Rat).Mul(xi, a))
}

// reduceUnit sets r to r - round(r), which lies in [-1/2, 1/2), and returns r.
func reduceUnit(r *big.Rat) *big.Rat {

	num := new(big.Int).Lsh(r.Num(), 1)
	num.Add(num, r.Denom())

	den := new(big.Int).Lsh(r.Denom(), 1)

	// k = floor(r + 1/2); Div is Euclidean and den > 0.
	k := new(big.Int).Div(num, den)

	return r.Sub(r, new(big.Rat).SetInt(k))
}

// LowerBound returns (2*Pi*max(Frequencies))^Order at the precision of ctx,
// the lower bound on the L1 cost of any exact shift rule of p.
func LowerBound(ctx Context, p Problem) (bound *big.Float, err error) {

	if err = p.Validate(); err != nil {
		return nil, err
	}

	wp := ctx.guardPrec()

	x := bignum.NewFloat(p.MaxFrequency(), wp)
	x.Mul(x, bignum.TwoPi(wp))

	return ctx.Round(bignum.Pow(x, bignum.NewFloat(p.Order, wp))), nil
}
