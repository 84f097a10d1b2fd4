package symexpr

import (
	"math"
	"math/big"
	"strconv"
)

// ============================================================
// Numeric capability
// ============================================================

// Numeric is the arithmetic an Engine needs from its value type T.
// Implementations must not mutate their arguments.
type Numeric[T any] interface {
	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	// Div follows the type's own divide-by-zero contract: integer-like
	// types return an error, IEEE floats return Inf or NaN.
	Div(a, b T) (T, error)
	Neg(a T) T
	Equal(a, b T) bool
	ParseLiteral(s string) (T, bool)
	Format(v T) string
}

// Powerer is implemented by capabilities that can fold Power nodes.
// ok is false when the result is not representable; the node is then kept.
type Powerer[T any] interface {
	Pow(base, exp T) (result T, ok bool)
}

// LaTeXFormatter lets a capability render its values for LaTeX output.
type LaTeXFormatter[T any] interface {
	FormatLaTeX(v T) string
}

// ============================================================
// Int64Ops: truncating integer arithmetic
// ============================================================

type Int64Ops struct{}

func (Int64Ops) Add(a, b int64) int64       { return a + b }
func (Int64Ops) Sub(a, b int64) int64       { return a - b }
func (Int64Ops) Mul(a, b int64) int64       { return a * b }
func (Int64Ops) Neg(a int64) int64          { return -a }
func (Int64Ops) Equal(a, b int64) bool      { return a == b }
func (Int64Ops) Format(v int64) string      { return strconv.FormatInt(v, 10) }
func (Int64Ops) FormatLaTeX(v int64) string { return strconv.FormatInt(v, 10) }

func (Int64Ops) Div(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return a / b, nil
}

func (Int64Ops) ParseLiteral(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

// Pow folds only non-negative exponents; a negative one has no integer result.
func (Int64Ops) Pow(base, exp int64) (int64, bool) {
	if exp < 0 {
		return 0, false
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result, true
}

// ============================================================
// Float64Ops: IEEE-754 double precision
// ============================================================

type Float64Ops struct{}

func (Float64Ops) Add(a, b float64) float64 { return a + b }
func (Float64Ops) Sub(a, b float64) float64 { return a - b }
func (Float64Ops) Mul(a, b float64) float64 { return a * b }
func (Float64Ops) Neg(a float64) float64    { return -a }
func (Float64Ops) Format(v float64) string  { return strconv.FormatFloat(v, 'g', -1, 64) }

// Div never fails: x/0 is ±Inf and 0/0 is NaN.
func (Float64Ops) Div(a, b float64) (float64, error) { return a / b, nil }

// Equal treats NaN as equal to itself so that simplified trees compare
// structurally even when folding produced NaN.
func (Float64Ops) Equal(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

func (Float64Ops) ParseLiteral(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func (Float64Ops) Pow(base, exp float64) (float64, bool) { return math.Pow(base, exp), true }

// ============================================================
// RatOps: exact rationals (math/big.Rat)
// ============================================================

type RatOps struct{}

const maxRatExponent = 64

func (RatOps) Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func (RatOps) Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func (RatOps) Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func (RatOps) Neg(a *big.Rat) *big.Rat    { return new(big.Rat).Neg(a) }
func (RatOps) Equal(a, b *big.Rat) bool   { return a.Cmp(b) == 0 }

func (RatOps) Div(a, b *big.Rat) (*big.Rat, error) {
	if b.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	return new(big.Rat).Quo(a, b), nil
}

func (RatOps) ParseLiteral(s string) (*big.Rat, bool) {
	return new(big.Rat).SetString(s)
}

func (RatOps) Format(v *big.Rat) string {
	if v.IsInt() {
		return v.Num().String()
	}
	return v.RatString()
}

func (RatOps) FormatLaTeX(v *big.Rat) string {
	if v.IsInt() {
		return v.Num().String()
	}
	sign := ""
	abs := new(big.Rat).Set(v)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}
	return sign + `\frac{` + abs.Num().String() + "}{" + abs.Denom().String() + "}"
}

// Pow folds integer exponents with magnitude up to maxRatExponent.
func (RatOps) Pow(base, exp *big.Rat) (*big.Rat, bool) {
	if !exp.IsInt() || !exp.Num().IsInt64() {
		return nil, false
	}
	e := exp.Num().Int64()
	if e > maxRatExponent || e < -maxRatExponent {
		return nil, false
	}
	if e < 0 && base.Sign() == 0 {
		return nil, false
	}
	neg := e < 0
	if neg {
		e = -e
	}
	num := new(big.Int).Exp(base.Num(), big.NewInt(e), nil)
	den := new(big.Int).Exp(base.Denom(), big.NewInt(e), nil)
	if neg {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den), true
}
