package shiftrule

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/tuneinsight/shiftrule/utils/bignum"
)

// Method is the linear solver used to obtain a Solution.
type Method int

const (
	// Exact is Gaussian elimination on a square system.
	Exact = Method(0)
	// LeastSquares is the minimum norm least-squares solution of a
	// non-square system.
	LeastSquares = Method(1)
)

func (m Method) String() string {
	switch m {
	case Exact:
		return "exact"
	case LeastSquares:
		return "least-squares"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Solution is a shift rule together with its diagnostics. All its values
// are at the precision Prec of the Context that produced it.
type Solution struct {
	// U holds one coefficient per support point.
	U bignum.Vector
	// Error is max_i |RHS[i] - (E * U)[i]|.
	Error *big.Float
	// Bound is the lower bound (2*Pi*max(Frequencies))^Order on the cost of an exact rule.
	Bound *big.Float
	// Rank is the numerical rank of the system.
	Rank   int
	Method Method
	Prec   uint
}

// Cost returns |U|_1, the query cost of the shift rule.
func (sol *Solution) Cost() *big.Float {
	return sol.U.Norm1()
}

// CostGap returns | |U|_1 - Bound |.
func (sol *Solution) CostGap() *big.Float {
	gap := sol.Cost()
	gap.Sub(gap, sol.Bound)
	return gap.Abs(gap)
}

// Feasible reports whether Error is below 2^{-Prec/2}, i.e. whether the
// residual is compatible with an exact shift rule at this precision.
// Sweeping the precision (see Sweep) gives a more reliable answer.
func (sol *Solution) Feasible() bool {
	tol := new(big.Float).SetMantExp(bignum.NewFloat(1, sol.Prec), -int(sol.Prec>>1))
	return sol.Error.Cmp(tol) <= 0
}

// Coefficients returns the float64 approximation of U.
func (sol *Solution) Coefficients() []float64 {
	return sol.U.Float64s()
}

// Solver solves shift rule problems at the precision of its Context.
type Solver struct {
	ctx Context
}

// NewSolver creates a new Solver working at the precision of ctx.
func NewSolver(ctx Context) *Solver {
	return &Solver{ctx: ctx}
}

// Context returns the Context of the solver.
func (s *Solver) Context() Context {
	return s.ctx
}

// Solve builds the system of p and solves it. Square systems are solved
// exactly and return ErrNumerical if singular at the working precision;
// other systems return the minimum norm least-squares solution, in which
// case infeasibility shows as a non-zero Error rather than as an error.
// It returns ErrDomain if p is invalid.
func (s *Solver) Solve(p Problem) (sol *Solution, err error) {

	var sys *LinearSystem
	if sys, err = Build(s.ctx, p); err != nil {
		return nil, err
	}

	sol = &Solution{Prec: s.ctx.Prec()}

	if sys.IsSquare() {

		sol.Method = Exact

		if sol.U, err = bignum.SolveSquare(sys.E, sys.RHS); err != nil {
			if errors.Is(err, bignum.ErrSingular) {
				return nil, fmt.Errorf("%w: %w", ErrNumerical, err)
			}
			return nil, err
		}

		sol.Rank = sys.Cols()

	} else {

		sol.Method = LeastSquares

		if sol.U, sol.Rank, err = bignum.LeastSquares(sys.E, sys.RHS); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNumerical, err)
		}
	}

	if sol.Error, err = sys.Residual(sol.U); err != nil {
		return nil, err
	}

	if sol.Bound, err = LowerBound(s.ctx, p); err != nil {
		return nil, err
	}

	return sol, nil
}

// Solve solves p with prec bits of precision.
// It is a shorthand for NewSolver(ctx).Solve(p) with a fresh Context.
func Solve(p Problem, prec uint) (sol *Solution, err error) {

	var ctx Context
	if ctx, err = NewContext(prec); err != nil {
		return nil, err
	}

	return NewSolver(ctx).Solve(p)
}
