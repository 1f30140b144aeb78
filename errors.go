package shiftrule

import "errors"

var (
	// ErrDomain is returned when an input is invalid: empty frequency set or
	// support, non-positive derivative order, frequency or precision, or an
	// unparsable number. It is always returned before any numeric work.
	ErrDomain = errors.New("shiftrule: invalid input")

	// ErrNumerical is returned when a square system is singular to the working
	// precision, or when the right-hand side fails to be real.
	ErrNumerical = errors.New("shiftrule: numerical failure")
)
