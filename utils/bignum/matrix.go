package bignum

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrDimensionMismatch is returned when the operands of a linear
	// algebra routine have incompatible shapes.
	ErrDimensionMismatch = errors.New("bignum: dimension mismatch")

	// ErrSingular is returned when a square system has no unique solution
	// at the working precision.
	ErrSingular = errors.New("bignum: matrix is singular to working precision")
)

// Vector is a dense vector of arbitrary precision floats.
type Vector []*big.Float

// Matrix is a dense row-major matrix of arbitrary precision floats.
type Matrix []Vector

// NewVector allocates a zero vector of size n with prec bits of precision.
func NewVector(n int, prec uint) (v Vector) {
	v = make(Vector, n)
	for i := range v {
		v[i] = new(big.Float).SetPrec(prec)
	}
	return
}

// NewMatrix allocates a zero rows x cols matrix with prec bits of precision.
func NewMatrix(rows, cols int, prec uint) (m Matrix) {
	m = make(Matrix, rows)
	for i := range m {
		m[i] = NewVector(cols, prec)
	}
	return
}

// Dims returns the number of rows and columns of m.
func (m Matrix) Dims() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Prec returns the largest precision among the entries of m.
func (m Matrix) Prec() (prec uint) {
	for i := range m {
		prec = max(prec, m[i].Prec())
	}
	return
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() (c Matrix) {
	c = make(Matrix, len(m))
	for i := range m {
		c[i] = m[i].Clone()
	}
	return
}

// Transpose returns a new matrix equal to the transpose of m.
func (m Matrix) Transpose() (t Matrix) {
	rows, cols := m.Dims()
	t = make(Matrix, cols)
	for j := range t {
		t[j] = make(Vector, rows)
		for i := 0; i < rows; i++ {
			t[j][i] = new(big.Float).Set(m[i][j])
		}
	}
	return
}

// Col returns the j-th column of m starting at row i0.
// The returned vector shares its elements with m.
func (m Matrix) Col(j, i0 int) (col Vector) {
	col = make(Vector, len(m)-i0)
	for i := range col {
		col[i] = m[i0+i][j]
	}
	return
}

// SwapCols swaps the columns i and j of m.
func (m Matrix) SwapCols(i, j int) {
	for k := range m {
		m[k][i], m[k][j] = m[k][j], m[k][i]
	}
}

// MaxAbs returns max |m[i][j]|.
func (m Matrix) MaxAbs() (y *big.Float) {
	y = new(big.Float).SetPrec(m.Prec())
	for i := range m {
		if v := m[i].NormInf(); v.Cmp(y) > 0 {
			y.Set(v)
		}
	}
	return
}

// MulVec returns m * x. It panics if the shapes are incompatible.
func (m Matrix) MulVec(x Vector) (y Vector) {

	rows, cols := m.Dims()

	if cols != len(x) {
		panic(fmt.Errorf("%w: matrix has %d columns but vector has size %d", ErrDimensionMismatch, cols, len(x)))
	}

	prec := max(m.Prec(), x.Prec())

	y = NewVector(rows, prec)
	tmp := new(big.Float).SetPrec(prec)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			y[i].Add(y[i], tmp.Mul(m[i][j], x[j]))
		}
	}

	return
}

// Prec returns the largest precision among the entries of v.
func (v Vector) Prec() (prec uint) {
	for i := range v {
		prec = max(prec, v[i].Prec())
	}
	return
}

// Clone returns a deep copy of v.
func (v Vector) Clone() (c Vector) {
	c = make(Vector, len(v))
	for i := range v {
		c[i] = new(big.Float).Set(v[i])
	}
	return
}

// Sub returns v - w. It panics if the sizes differ.
func (v Vector) Sub(w Vector) (z Vector) {

	if len(v) != len(w) {
		panic(fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(v), len(w)))
	}

	z = NewVector(len(v), max(v.Prec(), w.Prec()))
	for i := range v {
		z[i].Sub(v[i], w[i])
	}
	return
}

// Dot returns <v, w>.
func (v Vector) Dot(w Vector) (y *big.Float) {

	if len(v) != len(w) {
		panic(fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(v), len(w)))
	}

	prec := max(v.Prec(), w.Prec())
	y = new(big.Float).SetPrec(prec)
	tmp := new(big.Float).SetPrec(prec)
	for i := range v {
		y.Add(y, tmp.Mul(v[i], w[i]))
	}
	return
}

// NormInf returns max |v[i]|.
func (v Vector) NormInf() (y *big.Float) {
	y = new(big.Float).SetPrec(v.Prec())
	for i := range v {
		if CmpAbs(v[i], y) > 0 {
			y.Abs(v[i])
		}
	}
	return
}

// Norm1 returns sum |v[i]|.
func (v Vector) Norm1() (y *big.Float) {
	y = new(big.Float).SetPrec(v.Prec())
	tmp := new(big.Float)
	for i := range v {
		y.Add(y, tmp.Abs(v[i]))
	}
	return
}

// Norm2 returns sqrt(sum v[i]^2).
func (v Vector) Norm2() (y *big.Float) {
	y = v.Dot(v)
	return y.Sqrt(y)
}

// Float64s returns the float64 approximation of v.
func (v Vector) Float64s() (f []float64) {
	f = make([]float64, len(v))
	for i := range v {
		f[i], _ = v[i].Float64()
	}
	return
}
