package bignum

import (
	"fmt"
	"math/big"
)

// rankThreshold returns scale * 2^{-prec/2}, the magnitude below which a
// pivot is considered to be numerically zero at precision prec.
func rankThreshold(scale *big.Float, prec uint) *big.Float {
	tol := new(big.Float).SetPrec(prec).SetMantExp(NewFloat(1, prec), -int(prec>>1))
	return tol.Mul(tol, scale)
}

// SolveSquare solves for x the square system A * x = b using Gaussian
// elimination with partial pivoting. A and b are left untouched.
// It returns ErrSingular if a pivot vanishes at the working precision,
// which is the largest precision among the entries of A and b.
func SolveSquare(A Matrix, b Vector) (x Vector, err error) {

	n, m := A.Dims()

	if n != m || n != len(b) {
		return nil, fmt.Errorf("%w: cannot solve a %dx%d system with a right-hand side of size %d", ErrDimensionMismatch, n, m, len(b))
	}

	if n == 0 {
		return Vector{}, nil
	}

	prec := max(A.Prec(), b.Prec())

	matrix := A.Clone()
	vector := b.Clone()

	scale := matrix.MaxAbs()
	if scale.Sign() == 0 {
		return nil, ErrSingular
	}

	tol := rankThreshold(scale, prec)

	var tmp = new(big.Float).SetPrec(prec)
	var a = new(big.Float).SetPrec(prec)

	for i := 0; i < n; i++ {

		// Partial pivoting: largest |matrix[k][i]| for k >= i.
		p := i
		for k := i + 1; k < n; k++ {
			if CmpAbs(matrix[k][i], matrix[p][i]) > 0 {
				p = k
			}
		}

		if CmpAbs(matrix[p][i], tol) <= 0 {
			return nil, fmt.Errorf("%w: pivot %d", ErrSingular, i)
		}

		matrix[i], matrix[p] = matrix[p], matrix[i]
		vector[i], vector[p] = vector[p], vector[i]

		a.Set(matrix[i][i])

		vector[i].Quo(vector[i], a)

		for j := i; j < m; j++ {
			matrix[i][j].Quo(matrix[i][j], a)
		}

		for j := i + 1; j < n; j++ {
			c := new(big.Float).Set(matrix[j][i])
			vector[j].Sub(vector[j], tmp.Mul(vector[i], c))
			for k := i; k < m; k++ {
				matrix[j][k].Sub(matrix[j][k], tmp.Mul(matrix[i][k], c))
			}
		}
	}

	for i := m - 1; i > 0; i-- {
		c := vector[i]
		for j := i - 1; j >= 0; j-- {
			vector[j].Sub(vector[j], tmp.Mul(matrix[j][i], c))
		}
	}

	return vector, nil
}
