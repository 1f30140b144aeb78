package shiftrule

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/shiftrule/utils/bignum"
)

var ratComparer = cmp.Comparer(func(a, b *big.Rat) bool { return a.Cmp(b) == 0 })
var floatComparer = cmp.Comparer(func(a, b *big.Float) bool { return a.Cmp(b) == 0 && a.Prec() == b.Prec() })

func newProblem(t *testing.T, frequencies []string, order int, support []string) Problem {
	t.Helper()
	p, err := NewProblemFromLiteral(ProblemLiteral{Frequencies: frequencies, Order: order, Support: support})
	require.NoError(t, err)
	return p
}

// Two frequencies {2, 3}, first derivative.
var (
	// Equation count 5, rank 3, consistent.
	feasibleSupport = []string{"-1/12", "1/12", "5/12", "-5/12"}
	// Consistent as well, with a unique solution.
	threePointSupport = []string{"-1/12", "1/12", "5/12"}
	// The constant row and the sine row of frequency 3 contradict each other.
	infeasibleSupport = []string{"1/12", "5/12"}
)

// requireLog2Close checks |want - have| <= 2^log2Tol.
func requireLog2Close(t *testing.T, want, have *big.Float, log2Tol int) {
	t.Helper()
	d := new(big.Float).SetPrec(max(want.Prec(), have.Prec())).Sub(want, have)
	tol := new(big.Float).SetMantExp(bignum.NewFloat(1, 53), log2Tol)
	require.True(t, d.Abs(d).Cmp(tol) <= 0, "|%.30g - %.30g| > 2^%d", want, have, log2Tol)
}

// requireBelow checks x <= 2^log2Tol.
func requireBelow(t *testing.T, x *big.Float, log2Tol int) {
	t.Helper()
	tol := new(big.Float).SetMantExp(bignum.NewFloat(1, 53), log2Tol)
	require.True(t, x.Cmp(tol) <= 0, "%.10g > 2^%d", x, log2Tol)
}

// piTimes returns Pi * (num + sqrtNum*sqrt(3)) / den at prec bits.
func piTimes(prec uint, num, sqrtNum, den int64) *big.Float {
	wp := prec + 64
	x := bignum.NewFloat(3, wp)
	x.Sqrt(x)
	x.Mul(x, bignum.NewFloat(sqrtNum, wp))
	x.Add(x, bignum.NewFloat(num, wp))
	x.Mul(x, bignum.Pi(wp))
	x.Quo(x, bignum.NewFloat(den, wp))
	return new(big.Float).SetPrec(prec).Set(x)
}

func TestProblem(t *testing.T) {

	t.Run("Literal", func(t *testing.T) {
		p := newProblem(t, []string{"2", " 3 ", "0.25"}, 2, []string{"-5/12", "0", "1.5"})
		want := Problem{
			Frequencies: []*big.Rat{big.NewRat(2, 1), big.NewRat(3, 1), big.NewRat(1, 4)},
			Order:       2,
			Support:     []*big.Rat{big.NewRat(-5, 12), big.NewRat(0, 1), big.NewRat(3, 2)},
		}
		require.True(t, cmp.Equal(want, p, ratComparer), cmp.Diff(want, p, ratComparer))
		require.Equal(t, 7, p.NumEquations())
		require.Equal(t, 3, p.NumCoefficients())
		require.Zero(t, p.MaxFrequency().Cmp(big.NewRat(3, 1)))
	})

	t.Run("Invalid", func(t *testing.T) {
		for name, lit := range map[string]ProblemLiteral{
			"EmptyFrequencies":  {Order: 1, Support: []string{"0"}},
			"EmptySupport":      {Frequencies: []string{"1"}, Order: 1},
			"ZeroOrder":         {Frequencies: []string{"1"}, Support: []string{"0"}},
			"NegativeOrder":     {Frequencies: []string{"1"}, Order: -2, Support: []string{"0"}},
			"ZeroFrequency":     {Frequencies: []string{"1", "0"}, Order: 1, Support: []string{"0"}},
			"NegativeFrequency": {Frequencies: []string{"-1/2"}, Order: 1, Support: []string{"0"}},
			"Unparsable":        {Frequencies: []string{"1"}, Order: 1, Support: []string{"1/x"}},
		} {
			t.Run(name, func(t *testing.T) {
				_, err := NewProblemFromLiteral(lit)
				require.True(t, errors.Is(err, ErrDomain), "%v", err)
			})
		}

		require.True(t, errors.Is(Problem{Frequencies: []*big.Rat{big.NewRat(1, 1)}, Order: 1, Support: []*big.Rat{nil}}.Validate(), ErrDomain))
	})

	t.Run("Context", func(t *testing.T) {
		_, err := NewContext(0)
		require.True(t, errors.Is(err, ErrDomain))

		ctx, err := NewContext(200)
		require.NoError(t, err)
		require.Equal(t, uint(200), ctx.Prec())
		require.Equal(t, uint(200), ctx.NewFloat(1).Prec())
		require.Equal(t, uint(200), ctx.TwoPi().Prec())
		require.Equal(t, uint(200), ctx.Round(bignum.NewFloat(1, 1000)).Prec())
	})
}

func TestBuild(t *testing.T) {

	t.Run("Shape", func(t *testing.T) {

		ctx, err := NewContext(128)
		require.NoError(t, err)

		for _, freqs := range [][]string{{"1"}, {"2", "3"}, {"1/2", "1", "7/3"}} {
			for _, support := range [][]string{{"0"}, threePointSupport, {"-1/4", "0", "1/4", "1/8", "-1/8", "3/8", "-3/8"}} {
				for order := 1; order <= 4; order++ {

					p := newProblem(t, freqs, order, support)

					sys, err := Build(ctx, p)
					require.NoError(t, err)

					L, S := len(freqs), len(support)

					require.Equal(t, 1+2*L, sys.Rows())
					require.Equal(t, S, sys.Cols())
					require.Len(t, sys.RHS, 1+2*L)
					require.Equal(t, sys.Rows() == sys.Cols(), sys.IsSquare())

					for s := 0; s < S; s++ {
						require.Zero(t, sys.E[0][s].Cmp(bignum.NewFloat(1, 128)))
					}

					require.Zero(t, sys.RHS[0].Sign())

					require.Equal(t, uint(128), sys.E.Prec())
					require.Equal(t, uint(128), sys.RHS.Prec())
				}
			}
		}
	})

	t.Run("Entries", func(t *testing.T) {

		for _, prec := range []uint{64, 512, 4096} {

			ctx, err := NewContext(prec)
			require.NoError(t, err)

			sys, err := Build(ctx, newProblem(t, []string{"2", "3"}, 1, feasibleSupport))
			require.NoError(t, err)

			half := bignum.NewFloat(0.5, prec)
			sqrt3Half := bignum.NewFloat(3, prec)
			sqrt3Half.Sqrt(sqrt3Half)
			sqrt3Half.Quo(sqrt3Half, bignum.NewFloat(2, prec))
			negSqrt3Half := new(big.Float).Neg(sqrt3Half)
			one := bignum.NewFloat(1, prec)
			negOne := bignum.NewFloat(-1, prec)
			zero := bignum.NewFloat(0, prec)

			want := [][]*big.Float{
				{one, one, one, one},
				{half, half, half, half},
				{zero, zero, zero, zero},
				{sqrt3Half, negSqrt3Half, sqrt3Half, negSqrt3Half},
				{one, negOne, negOne, one},
			}

			for i := range want {
				for j := range want[i] {
					requireLog2Close(t, want[i][j], sys.E[i][j], -int(prec)+2)
				}
			}
		}
	})

	t.Run("RightHandSide", func(t *testing.T) {

		prec := uint(256)

		ctx, err := NewContext(prec)
		require.NoError(t, err)

		for order := 1; order <= 6; order++ {

			p := newProblem(t, []string{"2", "1/3"}, order, []string{"0"})

			sys, err := Build(ctx, p)
			require.NoError(t, err)

			for l, xi := range []*big.Rat{big.NewRat(2, 1), big.NewRat(1, 3)} {

				w := bignum.NewFloat(xi, prec+64)
				w.Mul(w, bignum.TwoPi(prec+64))

				pow := bignum.NewFloat(1, prec+64)
				for i := 0; i < order; i++ {
					pow.Mul(pow, w)
				}

				// i^order cycles through 1, i, -1, -i.
				re, im := bignum.NewFloat(0, prec), bignum.NewFloat(0, prec)
				switch order & 3 {
				case 0:
					re.Set(pow)
				case 1:
					im.Set(pow)
				case 2:
					re.Neg(pow)
				case 3:
					im.Neg(pow)
				}

				log2Tol := int(bignum.Log2Of(pow)) - int(prec) + 2

				requireLog2Close(t, re, sys.RHS[1+l], log2Tol)
				requireLog2Close(t, im, sys.RHS[3+l], log2Tol)

				if order&1 == 1 {
					require.Zero(t, sys.RHS[1+l].Sign())
				} else {
					require.Zero(t, sys.RHS[3+l].Sign())
				}
			}
		}
	})

	t.Run("Float64", func(t *testing.T) {

		p := newProblem(t, []string{"2", "3", "5/2"}, 3, []string{"-1/12", "1/7", "5/12", "0.3"})

		ctx, err := NewContext(128)
		require.NoError(t, err)

		sys, err := Build(ctx, p)
		require.NoError(t, err)

		E, rhs := BuildFloat64(p)

		for i := 0; i < sys.Rows(); i++ {
			want, _ := sys.RHS[i].Float64()
			require.InDelta(t, want, rhs.AtVec(i), 1e-12*math.Max(1, math.Abs(want)))
			for j := 0; j < sys.Cols(); j++ {
				want, _ := sys.E[i][j].Float64()
				require.InDelta(t, want, E.At(i, j), 1e-14)
			}
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		ctx, err := NewContext(64)
		require.NoError(t, err)
		_, err = Build(ctx, Problem{})
		require.True(t, errors.Is(err, ErrDomain))
		_, err = LowerBound(ctx, Problem{})
		require.True(t, errors.Is(err, ErrDomain))
	})
}

func TestReduceUnit(t *testing.T) {
	for _, tc := range []struct{ in, out *big.Rat }{
		{big.NewRat(5, 12), big.NewRat(5, 12)},
		{big.NewRat(10, 12), big.NewRat(-1, 6)},
		{big.NewRat(-5, 4), big.NewRat(-1, 4)},
		{big.NewRat(1, 2), big.NewRat(-1, 2)},
		{big.NewRat(-1, 2), big.NewRat(-1, 2)},
		{big.NewRat(7, 1), big.NewRat(0, 1)},
	} {
		require.Zero(t, tc.out.Cmp(reduceUnit(new(big.Rat).Set(tc.in))), "%s", tc.in)
	}
}

func TestSolve(t *testing.T) {

	t.Run("Domain", func(t *testing.T) {
		_, err := Solve(newProblem(t, []string{"1"}, 1, []string{"0"}), 0)
		require.True(t, errors.Is(err, ErrDomain))
		_, err = Solve(Problem{}, 64)
		require.True(t, errors.Is(err, ErrDomain))
	})

	t.Run("ResidualDefinition", func(t *testing.T) {

		for _, support := range [][]string{feasibleSupport, threePointSupport, infeasibleSupport} {

			prec := uint(192)
			p := newProblem(t, []string{"2", "3"}, 1, support)

			sol, err := Solve(p, prec)
			require.NoError(t, err)
			require.Len(t, sol.U, len(support))
			require.GreaterOrEqual(t, sol.Error.Sign(), 0)

			ctx, err := NewContext(prec)
			require.NoError(t, err)

			sys, err := Build(ctx, p)
			require.NoError(t, err)

			// max_i |rhs_i - sum_j E_ij u_j|, recomputed by hand.
			res := new(big.Float).SetPrec(prec)
			for i := range sys.E {
				acc := new(big.Float).SetPrec(prec).Set(sys.RHS[i])
				for j := range sys.E[i] {
					acc.Sub(acc, new(big.Float).SetPrec(prec).Mul(sys.E[i][j], sol.U[j]))
				}
				if bignum.CmpAbs(acc, res) > 0 {
					res.Abs(acc)
				}
			}

			requireLog2Close(t, res, sol.Error, -int(prec)+8)
		}
	})

	t.Run("FeasibleConvergence", func(t *testing.T) {

		p := newProblem(t, []string{"2", "3"}, 1, feasibleSupport)

		prev := math.Inf(1)

		for _, prec := range []uint{64, 256, 1024, 4096} {

			sol, err := Solve(p, prec)
			require.NoError(t, err)
			require.Equal(t, LeastSquares, sol.Method)
			require.Equal(t, 3, sol.Rank)
			require.Equal(t, prec, sol.Prec)
			require.True(t, sol.Feasible())

			log2Err := -float64(prec)
			if sol.Error.Sign() != 0 {
				log2Err = bignum.Log2Of(sol.Error)
			}

			require.Less(t, log2Err, prev)
			require.Less(t, log2Err, -float64(prec)+16)
			prev = log2Err

			// Minimum norm solution: u = (2*Pi/sqrt(3))*(1,-1,1,-1) + (3*Pi/2)*(1,-1,-1,1)
			want := []*big.Float{
				piTimes(prec, 9, 4, 6),
				piTimes(prec, -9, -4, 6),
				piTimes(prec, -9, 4, 6),
				piTimes(prec, 9, -4, 6),
			}

			for i := range want {
				requireLog2Close(t, want[i], sol.U[i], -int(prec)+16)
			}

			// The rule reaches the lower bound 6*Pi.
			requireLog2Close(t, piTimes(prec, 6, 0, 1), sol.Bound, -int(prec)+8)
			requireBelow(t, sol.CostGap(), -int(prec)+16)
		}
	})

	t.Run("ThreePointSupport", func(t *testing.T) {

		p := newProblem(t, []string{"2", "3"}, 1, threePointSupport)

		for _, prec := range []uint{64, 256, 1024} {

			sol, err := Solve(p, prec)
			require.NoError(t, err)
			require.Len(t, sol.U, 3)
			require.Equal(t, 3, sol.Rank)
			require.GreaterOrEqual(t, sol.Error.Sign(), 0)

			// u = (3*Pi, -4*Pi/sqrt(3), 4*Pi/sqrt(3) - 3*Pi)
			want := []*big.Float{
				piTimes(prec, 3, 0, 1),
				piTimes(prec, 0, -4, 3),
				piTimes(prec, -9, 4, 3),
			}

			for i := range want {
				requireLog2Close(t, want[i], sol.U[i], -int(prec)+16)
			}

			requireBelow(t, sol.Error, -int(prec)+16)
			requireBelow(t, sol.CostGap(), -int(prec)+16)
		}
	})

	t.Run("InfeasiblePlateau", func(t *testing.T) {

		p := newProblem(t, []string{"2", "3"}, 1, infeasibleSupport)

		var errs []*big.Float

		for _, prec := range []uint{64, 256, 1024, 4096} {

			sol, err := Solve(p, prec)
			require.NoError(t, err)
			require.Equal(t, 2, sol.Rank)
			require.False(t, sol.Feasible())

			// The least-squares residual is (8, 4, 0, 0, 10)*Pi/3.
			requireLog2Close(t, piTimes(prec, 10, 0, 3), sol.Error, -int(prec)+8)

			errs = append(errs, sol.Error)
		}

		for i := 1; i < len(errs); i++ {
			requireLog2Close(t, errs[i-1], errs[i], -50)
		}
	})

	t.Run("Square", func(t *testing.T) {

		// Classic two-term rule: u = (Pi, 0, -Pi).
		p := newProblem(t, []string{"1"}, 1, []string{"-1/4", "0", "1/4"})

		for _, prec := range []uint{64, 256, 1024} {
			sol, err := Solve(p, prec)
			require.NoError(t, err)
			require.Equal(t, Exact, sol.Method)
			require.Equal(t, 3, sol.Rank)
			requireLog2Close(t, piTimes(prec, 1, 0, 1), sol.U[0], -int(prec)+8)
			requireLog2Close(t, bignum.NewFloat(0, prec), sol.U[1], -int(prec)+8)
			requireLog2Close(t, piTimes(prec, -1, 0, 1), sol.U[2], -int(prec)+8)
			requireBelow(t, sol.Error, -int(prec)+8)
			requireBelow(t, sol.CostGap(), -int(prec)+8)
		}
	})

	t.Run("SecondOrder", func(t *testing.T) {

		// u = (2*Pi^2, -4*Pi^2, 2*Pi^2): cost 8*Pi^2 against the bound 4*Pi^2.
		p := newProblem(t, []string{"1"}, 2, []string{"-1/4", "0", "1/4"})

		prec := uint(256)

		sol, err := Solve(p, prec)
		require.NoError(t, err)

		piSq := bignum.Pi(prec)
		piSq.Mul(piSq, piSq)

		for i, c := range []int64{2, -4, 2} {
			requireLog2Close(t, new(big.Float).Mul(piSq, bignum.NewFloat(c, prec)), sol.U[i], -int(prec)+12)
		}

		requireLog2Close(t, new(big.Float).Mul(piSq, bignum.NewFloat(4, prec)), sol.CostGap(), -int(prec)+12)
		requireLog2Close(t, new(big.Float).Mul(piSq, bignum.NewFloat(8, prec)), sol.Cost(), -int(prec)+12)
	})

	t.Run("HigherOrder", func(t *testing.T) {

		// Xi = {1}, A = {-1/4, 0, 1/4}: u = c * Pi^order, cost and gap are
		// multiples of Pi^order.
		for _, tc := range []struct {
			order     int
			u         []int64
			cost, gap int64
		}{
			{3, []int64{-4, 0, 4}, 8, 0},
			{4, []int64{-8, 16, -8}, 32, 16},
		} {
			t.Run(fmt.Sprintf("order=%d", tc.order), func(t *testing.T) {

				p := newProblem(t, []string{"1"}, tc.order, []string{"-1/4", "0", "1/4"})

				for _, prec := range []uint{128, 1024} {

					sol, err := Solve(p, prec)
					require.NoError(t, err)
					require.Equal(t, Exact, sol.Method)

					wp := prec + 64
					piPow := bignum.NewFloat(1, wp)
					for i := 0; i < tc.order; i++ {
						piPow.Mul(piPow, bignum.Pi(wp))
					}

					times := func(c int64) *big.Float {
						x := new(big.Float).SetPrec(wp).Mul(piPow, bignum.NewFloat(c, wp))
						return new(big.Float).SetPrec(prec).Set(x)
					}

					for i, c := range tc.u {
						requireLog2Close(t, times(c), sol.U[i], -int(prec)+20)
					}

					requireLog2Close(t, times(int64(1)<<tc.order), sol.Bound, -int(prec)+16)
					requireLog2Close(t, times(tc.cost), sol.Cost(), -int(prec)+20)
					requireLog2Close(t, times(tc.gap), sol.CostGap(), -int(prec)+20)
					requireBelow(t, sol.Error, -int(prec)+20)
				}
			})
		}
	})

	t.Run("SquareSingular", func(t *testing.T) {
		// cos(2*Pi*3*a) vanishes on the whole support.
		p := newProblem(t, []string{"2", "3"}, 1, []string{"-1/12", "1/12", "5/12", "-5/12", "1/4"})
		for _, prec := range []uint{64, 512} {
			_, err := Solve(p, prec)
			require.True(t, errors.Is(err, ErrNumerical), "%v", err)
		}
	})

	t.Run("UnderDetermined", func(t *testing.T) {

		// More unknowns than equations: the minimum norm solution is returned.
		p := newProblem(t, []string{"1"}, 1, []string{"-1/4", "0", "1/4", "1/2"})

		sol, err := Solve(p, 256)
		require.NoError(t, err)
		require.Equal(t, LeastSquares, sol.Method)
		require.Equal(t, 3, sol.Rank)
		requireBelow(t, sol.Error, -240)

		u, _, err := EstimateFloat64(p)
		require.NoError(t, err)
		require.InDeltaSlice(t, u, sol.Coefficients(), 1e-12)
	})
}

func TestEstimateFloat64(t *testing.T) {

	for _, tc := range []struct {
		name     string
		support  []string
		feasible bool
	}{
		{"Feasible", feasibleSupport, true},
		{"ThreePoint", threePointSupport, true},
		{"Infeasible", infeasibleSupport, false},
	} {
		t.Run(tc.name, func(t *testing.T) {

			p := newProblem(t, []string{"2", "3"}, 1, tc.support)

			u, residual, err := EstimateFloat64(p)
			require.NoError(t, err)

			sol, err := Solve(p, 256)
			require.NoError(t, err)

			require.InDeltaSlice(t, sol.Coefficients(), u, 1e-10)

			want, _ := sol.Error.Float64()
			require.InDelta(t, want, residual, 1e-10)
			require.Equal(t, tc.feasible, residual < 1e-10)
		})
	}

	t.Run("Invalid", func(t *testing.T) {
		_, _, err := EstimateFloat64(Problem{})
		require.True(t, errors.Is(err, ErrDomain))
	})
}

func TestConcurrentPrecisions(t *testing.T) {

	p := newProblem(t, []string{"2", "3"}, 1, feasibleSupport)
	precs := []uint{64, 200, 256, 512}

	want := make([]*Solution, len(precs))
	for i, prec := range precs {
		var err error
		want[i], err = Solve(p, prec)
		require.NoError(t, err)
	}

	have := make([]*Solution, len(precs))
	errs := make([]error, len(precs))

	var wg sync.WaitGroup
	for i := range precs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			have[i], errs[i] = Solve(p, precs[i])
		}(i)
	}
	wg.Wait()

	for i := range precs {
		require.NoError(t, errs[i])
		require.True(t, cmp.Equal(want[i], have[i], floatComparer), fmt.Sprintf("prec=%d: %s", precs[i], cmp.Diff(want[i], have[i], floatComparer)))
	}
}

func TestSolver(t *testing.T) {

	ctx, err := NewContext(160)
	require.NoError(t, err)

	solver := NewSolver(ctx)
	require.Equal(t, ctx, solver.Context())

	sol, err := solver.Solve(newProblem(t, []string{"1"}, 1, []string{"-1/4", "0", "1/4"}))
	require.NoError(t, err)
	require.Equal(t, uint(160), sol.Prec)
	require.Equal(t, uint(160), sol.U.Prec())
	require.Equal(t, uint(160), sol.Error.Prec())
	require.Equal(t, uint(160), sol.Bound.Prec())

	require.Equal(t, "exact", Exact.String())
	require.Equal(t, "least-squares", LeastSquares.String())
	require.Equal(t, "Method(7)", Method(7).String())
}
