package shiftrule

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/shiftrule/utils/bignum"
)

// Context carries the binary precision used by every real number of one
// computation. Its fields are private and immutable, so a Context can be
// shared between goroutines.
type Context struct {
	prec uint
}

// NewContext returns a Context working with prec bits of precision.
func NewContext(prec uint) (ctx Context, err error) {
	if prec == 0 {
		return ctx, fmt.Errorf("%w: precision must be positive", ErrDomain)
	}
	return Context{prec: prec}, nil
}

// Prec returns the working precision in bits.
func (ctx Context) Prec() uint {
	return ctx.prec
}

// guardPrec is the precision at which transcendental values are evaluated
// before being rounded to the working precision.
func (ctx Context) guardPrec() uint {
	return ctx.prec + bignum.GuardBits
}

// NewFloat returns x as a *big.Float at the working precision.
// See bignum.NewFloat for the accepted types.
func (ctx Context) NewFloat(x interface{}) *big.Float {
	return bignum.NewFloat(x, ctx.prec)
}

// Round returns a copy of x rounded to the working precision.
func (ctx Context) Round(x *big.Float) *big.Float {
	return new(big.Float).SetPrec(ctx.prec).Set(x)
}

// TwoPi returns 2*Pi at the working precision.
func (ctx Context) TwoPi() *big.Float {
	return bignum.TwoPi(ctx.prec)
}
