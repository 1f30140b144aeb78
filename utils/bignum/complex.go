package bignum

import (
	"fmt"
	"math/big"
)

// Complex is a type for arbitrary precision complex number
type Complex [2]*big.Float

// NewComplex creates a new arbitrary precision complex number with prec bits of precision.
func NewComplex(prec uint) (c *Complex) {
	return &Complex{
		new(big.Float).SetPrec(prec),
		new(big.Float).SetPrec(prec),
	}
}

// IsReal returns true if the imaginary part is zero.
func (c Complex) IsReal() bool {
	return c[1] == nil || c[1].Sign() == 0
}

// IsImag returns true if the real part is zero.
func (c Complex) IsImag() bool {
	return c[0] == nil || c[0].Sign() == 0
}

// Real returns the real part as a big.Float
func (c *Complex) Real() *big.Float {
	return c[0]
}

// Imag returns the imaginary part as a big.Float
func (c *Complex) Imag() *big.Float {
	return c[1]
}

// ComplexMultiplier is a struct for the multiplication of two arbitrary precision complex numbers
type ComplexMultiplier struct {
	tmp0 *big.Float
	tmp1 *big.Float
	tmp2 *big.Float
	tmp3 *big.Float
}

// NewComplexMultiplier creates a new ComplexMultiplier
func NewComplexMultiplier() (cEval *ComplexMultiplier) {
	cEval = new(ComplexMultiplier)
	cEval.tmp0 = new(big.Float)
	cEval.tmp1 = new(big.Float)
	cEval.tmp2 = new(big.Float)
	cEval.tmp3 = new(big.Float)
	return
}

// Mul evaluates c = a * b. c can alias a or b.
// A purely real or purely imaginary operand produces exact zeros in
// the parts of c that must vanish.
func (cEval *ComplexMultiplier) Mul(a, b, c *Complex) {

	if a.IsReal() {
		if b.IsReal() {
			c[0].Mul(a[0], b[0])
			c[1].SetInt64(0)
		} else {
			c[1].Mul(a[0], b[1])
			c[0].Mul(a[0], b[0])
		}
	} else {
		if b.IsReal() {
			c[1].Mul(a[1], b[0])
			c[0].Mul(a[0], b[0])
		} else {
			cEval.tmp0.Mul(a[0], b[0])
			cEval.tmp1.Mul(a[1], b[1])
			cEval.tmp2.Mul(a[0], b[1])
			cEval.tmp3.Mul(a[1], b[0])

			c[0].Sub(cEval.tmp0, cEval.tmp1)
			c[1].Add(cEval.tmp2, cEval.tmp3)
		}
	}
}

// Pow evaluates c = a^n for n >= 0 by repeated multiplication.
// c must not alias a.
func (cEval *ComplexMultiplier) Pow(a *Complex, n int, c *Complex) {

	if n < 0 {
		panic(fmt.Errorf("invalid exponent: %d < 0", n))
	}

	c[0].SetInt64(1)
	c[1].SetInt64(0)

	for i := 0; i < n; i++ {
		cEval.Mul(c, a, c)
	}
}
