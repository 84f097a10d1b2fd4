package symexpr

import (
	"sort"
	"strings"
)

// ============================================================
// Core types
// ============================================================

// Kind identifies the variant of an expression node.
type Kind int

const (
	KindConstant Kind = iota
	KindVariable
	KindAdd
	KindSubtract
	KindMultiply
	KindDivide
	KindNegate
	KindPower
)

var kindNames = [...]string{
	KindConstant: "constant",
	KindVariable: "variable",
	KindAdd:      "add",
	KindSubtract: "subtract",
	KindMultiply: "multiply",
	KindDivide:   "divide",
	KindNegate:   "negate",
	KindPower:    "power",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Expr is an immutable expression tree over values of type T. The set of
// implementations is closed: *Constant, *Variable, *Add, *Subtract,
// *Multiply, *Divide, *Negate and *Power.
type Expr[T any] interface {
	Kind() Kind
	// sealed mentions T so that T can be inferred from an Expr[T] argument.
	sealed(T)
}

// Constant is a leaf holding a concrete value.
type Constant[T any] struct{ value T }

// Variable is a leaf holding an unbound name. Matching is by name only.
type Variable[T any] struct{ name string }

type binary[T any] struct{ left, right Expr[T] }

func (b binary[T]) Left() Expr[T]  { return b.left }
func (b binary[T]) Right() Expr[T] { return b.right }

type Add[T any] struct{ binary[T] }
type Subtract[T any] struct{ binary[T] }
type Multiply[T any] struct{ binary[T] }
type Divide[T any] struct{ binary[T] }

// Power is base^exponent; Left is the base.
type Power[T any] struct{ binary[T] }

type Negate[T any] struct{ operand Expr[T] }

func (*Constant[T]) Kind() Kind { return KindConstant }
func (*Variable[T]) Kind() Kind { return KindVariable }
func (*Add[T]) Kind() Kind      { return KindAdd }
func (*Subtract[T]) Kind() Kind { return KindSubtract }
func (*Multiply[T]) Kind() Kind { return KindMultiply }
func (*Divide[T]) Kind() Kind   { return KindDivide }
func (*Negate[T]) Kind() Kind   { return KindNegate }
func (*Power[T]) Kind() Kind    { return KindPower }

func (*Constant[T]) sealed(T) {}
func (*Variable[T]) sealed(T) {}
func (*Add[T]) sealed(T)      {}
func (*Subtract[T]) sealed(T) {}
func (*Multiply[T]) sealed(T) {}
func (*Divide[T]) sealed(T)   {}
func (*Negate[T]) sealed(T)   {}
func (*Power[T]) sealed(T)    {}

func (c *Constant[T]) Value() T       { return c.value }
func (v *Variable[T]) Name() string   { return v.name }
func (n *Negate[T]) Operand() Expr[T] { return n.operand }
func (p *Power[T]) Base() Expr[T]     { return p.left }
func (p *Power[T]) Exponent() Expr[T] { return p.right }

// ============================================================
// Construction
// ============================================================

// Builders never simplify; they are the programmatic counterpart of the
// text grammar. Var expects a name accepted by ValidName; other names still
// build a tree, but its printed form does not parse.

func Const[T any](v T) Expr[T]          { return &Constant[T]{value: v} }
func Var[T any](name string) Expr[T]    { return &Variable[T]{name: name} }
func AddOf[T any](l, r Expr[T]) Expr[T] { return &Add[T]{binary[T]{l, r}} }
func SubOf[T any](l, r Expr[T]) Expr[T] { return &Subtract[T]{binary[T]{l, r}} }
func MulOf[T any](l, r Expr[T]) Expr[T] { return &Multiply[T]{binary[T]{l, r}} }
func DivOf[T any](l, r Expr[T]) Expr[T] { return &Divide[T]{binary[T]{l, r}} }
func PowOf[T any](b, e Expr[T]) Expr[T] { return &Power[T]{binary[T]{b, e}} }
func NegOf[T any](x Expr[T]) Expr[T]    { return &Negate[T]{operand: x} }

// ValidName reports whether name can be written as a [name] variable: it
// must contain a non-space character and no ']'.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != "" && !strings.Contains(name, "]")
}

// rebuild returns a node of the same binary kind as e with new children,
// or e itself when both children are unchanged.
func rebuild[T any](e Expr[T], l, r Expr[T]) Expr[T] {
	switch n := e.(type) {
	case *Add[T]:
		if n.left == l && n.right == r {
			return n
		}
		return AddOf(l, r)
	case *Subtract[T]:
		if n.left == l && n.right == r {
			return n
		}
		return SubOf(l, r)
	case *Multiply[T]:
		if n.left == l && n.right == r {
			return n
		}
		return MulOf(l, r)
	case *Divide[T]:
		if n.left == l && n.right == r {
			return n
		}
		return DivOf(l, r)
	case *Power[T]:
		if n.left == l && n.right == r {
			return n
		}
		return PowOf(l, r)
	}
	panic("symexpr: rebuild of non-binary node " + e.Kind().String())
}

// children returns the left and right operands of a binary node.
func children[T any](e Expr[T]) (l, r Expr[T], ok bool) {
	switch n := e.(type) {
	case *Add[T]:
		return n.left, n.right, true
	case *Subtract[T]:
		return n.left, n.right, true
	case *Multiply[T]:
		return n.left, n.right, true
	case *Divide[T]:
		return n.left, n.right, true
	case *Power[T]:
		return n.left, n.right, true
	}
	return nil, nil, false
}

// ============================================================
// Inspection
// ============================================================

// Variables returns the distinct variable names in e, sorted.
func Variables[T any](e Expr[T]) []string {
	seen := map[string]struct{}{}
	collectVariables(e, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectVariables[T any](e Expr[T], out map[string]struct{}) {
	switch n := e.(type) {
	case *Variable[T]:
		out[n.name] = struct{}{}
	case *Negate[T]:
		collectVariables(n.operand, out)
	default:
		if l, r, ok := children(e); ok {
			collectVariables(l, out)
			collectVariables(r, out)
		}
	}
}

// Contains reports whether a variable called name occurs in e.
func Contains[T any](e Expr[T], name string) bool {
	switch n := e.(type) {
	case *Variable[T]:
		return n.name == name
	case *Negate[T]:
		return Contains(n.operand, name)
	}
	if l, r, ok := children(e); ok {
		return Contains(l, name) || Contains(r, name)
	}
	return false
}

// Depth returns the height of the tree; leaves have depth 1.
func Depth[T any](e Expr[T]) int {
	if n, ok := e.(*Negate[T]); ok {
		return 1 + Depth(n.operand)
	}
	if l, r, ok := children(e); ok {
		return 1 + max(Depth(l), Depth(r))
	}
	return 1
}
