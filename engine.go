package symexpr

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

// Engine binds the expression operations to one numeric capability. It holds
// no mutable state and is safe for concurrent use.
type Engine[T any] struct {
	num       Numeric[T]
	zero, one T
}

// New returns an Engine over num. The capability must parse the literals
// "0" and "1"; the simplifier's identities are stated in terms of them.
func New[T any](num Numeric[T]) (*Engine[T], error) {
	if num == nil {
		return nil, fmt.Errorf("symexpr: nil numeric capability")
	}
	zero, ok := num.ParseLiteral("0")
	if !ok {
		return nil, fmt.Errorf("symexpr: capability cannot parse %q: %w", "0", ErrLiteral)
	}
	one, ok := num.ParseLiteral("1")
	if !ok {
		return nil, fmt.Errorf("symexpr: capability cannot parse %q: %w", "1", ErrLiteral)
	}
	return &Engine[T]{num: num, zero: zero, one: one}, nil
}

// MustNew is like New but panics on error.
func MustNew[T any](num Numeric[T]) *Engine[T] {
	eng, err := New(num)
	if err != nil {
		panic(err)
	}
	return eng
}

func (eng *Engine[T]) Numeric() Numeric[T]     { return eng.num }
func (eng *Engine[T]) Const(v T) Expr[T]       { return Const(v) }
func (eng *Engine[T]) Var(name string) Expr[T] { return Var[T](name) }

// Parse reads an infix expression such as "2 * (7 / [x])".
func (eng *Engine[T]) Parse(src string) (Expr[T], error) {
	return parse(eng.num, src)
}

// ParseFunc converts the source of a Go function literal with a single
// parameter, e.g. "func(x float64) float64 { return 2*x + 1 }".
func (eng *Engine[T]) ParseFunc(src string) (Expr[T], error) {
	return convertSource(eng.num, src)
}

// Convert maps an already parsed function literal. fset and src may be nil
// and empty; they only improve error positions.
func (eng *Engine[T]) Convert(fset *token.FileSet, src string, fn *ast.FuncLit) (Expr[T], error) {
	return convertFunc(eng.num, fset, src, fn)
}

// Simplify folds constants and applies the algebraic identities bottom-up.
// It is idempotent. Failures of the capability while folding (such as an
// integer division by zero) are returned as *ArithmeticError.
func (eng *Engine[T]) Simplify(e Expr[T]) (Expr[T], error) {
	return eng.simplify(e)
}

// Equal compares a and b structurally; constants use the capability's Equal.
func (eng *Engine[T]) Equal(a, b Expr[T]) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Constant[T]:
		return eng.num.Equal(x.value, b.(*Constant[T]).value)
	case *Variable[T]:
		return x.name == b.(*Variable[T]).name
	case *Negate[T]:
		return eng.Equal(x.operand, b.(*Negate[T]).operand)
	}
	al, ar, _ := children(a)
	bl, br, _ := children(b)
	return eng.Equal(al, bl) && eng.Equal(ar, br)
}

// String renders e in the infix syntax accepted by Parse.
func (eng *Engine[T]) String(e Expr[T]) string {
	var sb strings.Builder
	eng.writeInfix(&sb, e)
	return sb.String()
}

// LaTeX renders e as a LaTeX math fragment.
func (eng *Engine[T]) LaTeX(e Expr[T]) string {
	var sb strings.Builder
	eng.writeLaTeX(&sb, e)
	return sb.String()
}
