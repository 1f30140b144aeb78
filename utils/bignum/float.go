package bignum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

const pi = "3.1415926535897932384626433832795028841971693993751058209749445923078164062862089986280348253421170679821480865132823066470938446095505822317253594081284811174502841027019385211055596446229489549303819644288109756659334461284756482337867831652712019091456485669234603486104543266482133936072602491412737245870066063155881748815209209628292540917153643678925903600113305305488204665213841469519415116094330572703657595919530921861173819326117931051185480744623799627495673518857527248912279381830119491298336733624406566430860213949463952247371907021798609437027705392171762931767523846748184676694051320005681271452635608277857713427577896091736371787214684409012249534301465495853710507922796892589235420199561121290219608640344181598136297747713099605187072113499999983729780499510597317328160963185950244594553469083026425223082533446850352619311881710100031378387528865875332083814206171776691473035982534904287554687311595628638823537875937519577818577805321712268066130019278766111959092164201989"

// Number of bits of the decimal constant above that can be trusted,
// rounded down with a safety margin.
const piConstBits = 3300

// GuardBits is the number of extra bits carried by the transcendental
// functions of this package before rounding back to the precision of
// their argument.
const GuardBits = 64

// DefaultPrec is used when an argument has no precision set.
const DefaultPrec = 53

// Pi returns Pi with prec bits of precision.
func Pi(prec uint) *big.Float {
	if prec <= piConstBits {
		pi, _ := new(big.Float).SetPrec(prec).SetString(pi)
		return pi
	}
	return machinPi(prec)
}

// TwoPi returns 2*Pi with prec bits of precision.
func TwoPi(prec uint) *big.Float {
	twoPi := Pi(prec)
	return twoPi.Mul(twoPi, NewFloat(2, prec))
}

// machinPi evaluates Pi = 16*arctan(1/5) - 4*arctan(1/239).
func machinPi(prec uint) *big.Float {
	wp := prec + GuardBits
	a := arctanInv(5, wp)
	a.Mul(a, NewFloat(16, wp))
	b := arctanInv(239, wp)
	b.Mul(b, NewFloat(4, wp))
	a.Sub(a, b)
	return new(big.Float).SetPrec(prec).Set(a)
}

// arctanInv returns arctan(1/n) from its alternating Taylor series.
func arctanInv(n int64, prec uint) *big.Float {

	x := NewFloat(1, prec)
	x.Quo(x, NewFloat(n, prec))

	x2 := new(big.Float).SetPrec(prec).Mul(x, x)

	sum := new(big.Float).Set(x)
	pow := new(big.Float).Set(x)
	term := new(big.Float).SetPrec(prec)

	for k := int64(1); ; k++ {
		pow.Mul(pow, x2)
		term.Quo(pow, NewFloat(2*k+1, prec))

		if term.Sign() == 0 || term.MantExp(nil) < -int(prec)-2 {
			break
		}

		if k&1 == 1 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
	}

	return sum
}

// NewFloat creates a new big.Float element with "prec" bits of precision.
// Valide types for x are: int, int64, uint, uint64, float64, *big.Int, *big.Rat or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float)
	y.SetPrec(prec) // decimal precision

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case *big.Int:
		y.SetInt(x)
	case *big.Rat:
		y.SetRat(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("invalid x.(type): valide types are int, int64, uint, uint64, float64, *big.Int, *big.Rat or *big.Float but is %T", x))
	}

	return
}

// Round returns round(x).
func Round(x *big.Float) (r *big.Float) {
	r = new(big.Float).Set(x)
	if r.Cmp(new(big.Float)) >= 0 {
		r.Add(r, new(big.Float).SetFloat64(0.5))
	} else {
		r.Sub(r, new(big.Float).SetFloat64(0.5))
	}

	tmp := new(big.Int)
	r.Int(tmp)
	r.SetInt(tmp)
	return
}

// Cos is an iterative arbitrary precision computation of Cos(x).
// The argument is first reduced to [-Pi, Pi] and the iteration is carried
// with GuardBits extra bits; the result has the precision of x.
// Iterative process with an error of ~10^{−0.60206*k} = (1/4)^k after k iterations.
// ref : Johansson, B. Tomas, An elementary algorithm to evaluate trigonometric functions to high precision, 2018
func Cos(x *big.Float) (cosx *big.Float) {

	prec := x.Prec()
	if prec == 0 {
		prec = DefaultPrec
	}

	wp := prec + GuardBits
	if e := x.MantExp(nil); e > 0 {
		wp += uint(e)
	}

	y := reduceTwoPi(new(big.Float).SetPrec(wp).Set(x), wp)

	tmp := new(big.Float).SetPrec(wp)

	t := NewFloat(0.5, wp)
	half := new(big.Float).Copy(t)

	for i := uint(1); i < (wp>>1)-1; i++ {
		t.Mul(t, half)
	}

	s := new(big.Float).Mul(y, t)
	s.Mul(s, y)
	s.Mul(s, t)

	four := NewFloat(4.0, wp)

	for i := uint(1); i < wp>>1; i++ { // (1/4)^k = (1/2)^(2*k)
		tmp.Sub(four, s)
		s.Mul(s, tmp)
	}

	cosx = new(big.Float).Quo(s, NewFloat(2.0, wp))
	cosx.Sub(NewFloat(1.0, wp), cosx)

	return new(big.Float).SetPrec(prec).Set(cosx)
}

// Sin returns Sin(x) = Cos(x - Pi/2) with the precision of x.
func Sin(x *big.Float) (sinx *big.Float) {

	prec := x.Prec()
	if prec == 0 {
		prec = DefaultPrec
	}

	wp := prec + GuardBits

	halfPi := Pi(wp)
	halfPi.Quo(halfPi, NewFloat(2, wp))

	y := new(big.Float).SetPrec(wp).Sub(x, halfPi)

	return new(big.Float).SetPrec(prec).Set(Cos(y))
}

// reduceTwoPi maps x to x - 2*Pi*round(x/(2*Pi)), in place.
func reduceTwoPi(x *big.Float, prec uint) *big.Float {

	if CmpAbs(x, NewFloat(3, prec)) <= 0 {
		return x
	}

	pi := Pi(prec)

	if CmpAbs(x, pi) <= 0 {
		return x
	}

	twoPi := pi.Mul(pi, NewFloat(2, prec))

	k := new(big.Float).SetPrec(prec).Quo(x, twoPi)
	k = Round(k)

	return x.Sub(x, k.Mul(k, twoPi))
}

// Pow returns x^y
func Pow(x, y *big.Float) (pow *big.Float) {
	return bigfloat.Pow(x, y)
}

// Log2Of returns log2(|x|) as a float64. Unlike math.Log2, the result stays
// finite for values far below the float64 range. Log2Of(0) is -Inf.
func Log2Of(x *big.Float) float64 {

	if x.Sign() == 0 {
		return math.Inf(-1)
	}

	mant := new(big.Float)
	exp := x.MantExp(mant)
	m, _ := mant.Float64()

	return float64(exp) + math.Log2(math.Abs(m))
}

// CmpAbs compares |x| and |y| and returns -1, 0 or +1.
func CmpAbs(x, y *big.Float) int {
	return new(big.Float).Abs(x).Cmp(new(big.Float).Abs(y))
}
