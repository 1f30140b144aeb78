package shiftrule

import (
	"fmt"
	"math/big"
	"strings"
)

// Problem is a shift rule problem: estimate the Order-th derivative at zero of
// a signal made of sinusoids at the given Frequencies from its values at the
// Support offsets.
//
// The order of Frequencies fixes the row order of the linear system and the
// order of Support fixes the order of the coefficients. Frequencies must be
// distinct; this is not checked.
type Problem struct {
	Frequencies []*big.Rat
	Order       int
	Support     []*big.Rat
}

// ProblemLiteral is the textual form of a Problem, as read from a
// configuration file. Numbers are decimals or fractions, e.g. "0.25" or "-5/12".
type ProblemLiteral struct {
	Frequencies []string `yaml:"frequencies" json:"frequencies"`
	Order       int      `yaml:"order" json:"order"`
	Support     []string `yaml:"support" json:"support"`
}

// NewProblemFromLiteral parses and validates a ProblemLiteral.
func NewProblemFromLiteral(lit ProblemLiteral) (p Problem, err error) {

	if p.Frequencies, err = ParseRats(lit.Frequencies); err != nil {
		return p, fmt.Errorf("frequencies: %w", err)
	}

	if p.Support, err = ParseRats(lit.Support); err != nil {
		return p, fmt.Errorf("support: %w", err)
	}

	p.Order = lit.Order

	return p, p.Validate()
}

// ParseRats parses each string as an exact rational number.
func ParseRats(s []string) (r []*big.Rat, err error) {
	r = make([]*big.Rat, len(s))
	for i := range s {
		var ok bool
		if r[i], ok = new(big.Rat).SetString(strings.TrimSpace(s[i])); !ok {
			return nil, fmt.Errorf("%w: cannot parse %q as a number", ErrDomain, s[i])
		}
	}
	return
}

// Validate checks the domain constraints of p.
func (p Problem) Validate() error {

	if len(p.Frequencies) == 0 {
		return fmt.Errorf("%w: empty frequency set", ErrDomain)
	}

	if len(p.Support) == 0 {
		return fmt.Errorf("%w: empty support", ErrDomain)
	}

	if p.Order < 1 {
		return fmt.Errorf("%w: derivative order %d < 1", ErrDomain, p.Order)
	}

	for i, f := range p.Frequencies {
		if f == nil || f.Sign() <= 0 {
			return fmt.Errorf("%w: frequency %d is not positive", ErrDomain, i)
		}
	}

	for i, a := range p.Support {
		if a == nil {
			return fmt.Errorf("%w: support point %d is nil", ErrDomain, i)
		}
	}

	return nil
}

// NumEquations returns 1 + 2 * len(Frequencies), the number of rows of the system.
func (p Problem) NumEquations() int {
	return 1 + 2*len(p.Frequencies)
}

// NumCoefficients returns len(Support), the number of columns of the system.
func (p Problem) NumCoefficients() int {
	return len(p.Support)
}

// MaxFrequency returns the largest frequency.
func (p Problem) MaxFrequency() (f *big.Rat) {
	f = new(big.Rat)
	for _, fi := range p.Frequencies {
		if fi.Cmp(f) > 0 {
			f.Set(fi)
		}
	}
	return
}
