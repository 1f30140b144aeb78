package shiftrule

import (
	"fmt"
	"math/big"

	"github.com/montanaflynn/stats"

	"github.com/tuneinsight/shiftrule/utils"
	"github.com/tuneinsight/shiftrule/utils/bignum"
)

// ConvergingSlope is the slope of log2(Error) against the precision below
// which a support is considered feasible: the residual of an exact rule
// loses about one bit per extra bit of precision, an infeasible one none.
const ConvergingSlope = -0.25

// Convergence is the verdict of a precision sweep.
type Convergence int

const (
	// Undetermined means that the sweep has a single precision.
	Undetermined = Convergence(0)
	// Converging means that Error tends to zero as the precision grows:
	// the support admits an exact shift rule.
	Converging = Convergence(1)
	// Plateau means that Error stabilizes: the least-squares fit is the
	// best achievable with this support.
	Plateau = Convergence(2)
)

func (c Convergence) String() string {
	switch c {
	case Undetermined:
		return "undetermined"
	case Converging:
		return "converging"
	case Plateau:
		return "plateau"
	default:
		return fmt.Sprintf("Convergence(%d)", int(c))
	}
}

// SweepPoint is the outcome of one solve of a sweep.
type SweepPoint struct {
	Prec    uint
	Error   *big.Float
	CostGap *big.Float
	// Log2Error is log2(Error), or -Prec if Error is exactly zero.
	Log2Error float64
	Solution  *Solution
}

// SweepReport collects the solves of a Problem over increasing precisions.
type SweepReport struct {
	Points []SweepPoint
	// Slope is the least-squares slope of Log2Error against Prec.
	Slope   float64
	Verdict Convergence
}

// Sweep solves p afresh for each distinct precision of precs, in increasing
// order, and classifies the behavior of the residual. Nothing is shared
// between the solves.
func Sweep(p Problem, precs []uint) (report *SweepReport, err error) {

	if err = p.Validate(); err != nil {
		return nil, err
	}

	if len(precs) == 0 {
		return nil, fmt.Errorf("%w: empty precision list", ErrDomain)
	}

	precs = utils.SortedDistincts(precs)

	report = &SweepReport{Points: make([]SweepPoint, len(precs))}

	series := make(stats.Series, len(precs))

	for i, prec := range precs {

		var sol *Solution
		if sol, err = Solve(p, prec); err != nil {
			return nil, fmt.Errorf("precision %d: %w", prec, err)
		}

		log2Err := -float64(prec)
		if sol.Error.Sign() != 0 {
			log2Err = bignum.Log2Of(sol.Error)
		}

		report.Points[i] = SweepPoint{
			Prec:      prec,
			Error:     sol.Error,
			CostGap:   sol.CostGap(),
			Log2Error: log2Err,
			Solution:  sol,
		}

		series[i] = stats.Coordinate{X: float64(prec), Y: log2Err}
	}

	if len(series) < 2 {
		return report, nil
	}

	var fit stats.Series
	if fit, err = stats.LinearRegression(series); err != nil {
		return nil, fmt.Errorf("linear regression: %w", err)
	}

	first, last := fit[0], fit[len(fit)-1]
	report.Slope = (last.Y - first.Y) / (last.X - first.X)

	if report.Slope < ConvergingSlope {
		report.Verdict = Converging
	} else {
		report.Verdict = Plateau
	}

	return report, nil
}

// Last returns the point with the highest precision.
func (r *SweepReport) Last() SweepPoint {
	return r.Points[len(r.Points)-1]
}
