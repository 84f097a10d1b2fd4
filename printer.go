package symexpr

import "strings"

// ============================================================
// Infix rendering
// ============================================================

// Binding strength, loosest first.
const (
	precAdd = iota + 1
	precMul
	precUnary
	precPow
	precAtom
)

// precedence reports how tightly e holds together when printed. Constants
// whose text is not a plain literal ("-3", "14/9") count as the operator
// their text contains so that the parser reads them back the same way.
func (eng *Engine[T]) precedence(e Expr[T]) int {
	switch n := e.(type) {
	case *Add[T], *Subtract[T]:
		return precAdd
	case *Multiply[T], *Divide[T]:
		return precMul
	case *Negate[T]:
		return precUnary
	case *Power[T]:
		return precPow
	case *Constant[T]:
		text := eng.num.Format(n.value)
		switch {
		case strings.Contains(text, "/"):
			return precMul
		case strings.HasPrefix(text, "-"):
			return precUnary
		}
	}
	return precAtom
}

var infixOps = map[Kind]string{
	KindAdd:      " + ",
	KindSubtract: " - ",
	KindMultiply: " * ",
	KindDivide:   " / ",
	KindPower:    " ^ ",
}

func (eng *Engine[T]) writeInfix(sb *strings.Builder, e Expr[T]) {
	switch n := e.(type) {
	case *Constant[T]:
		sb.WriteString(eng.num.Format(n.value))
		return
	case *Variable[T]:
		sb.WriteString("[" + n.name + "]")
		return
	case *Negate[T]:
		sb.WriteString("-")
		eng.writeChild(sb, n.operand, eng.precedence(n.operand) <= precUnary)
		return
	}
	l, r, _ := children(e)
	p := eng.precedence(e)
	if e.Kind() == KindPower {
		// The base is a primary in the grammar, the exponent a unary.
		eng.writeChild(sb, l, eng.precedence(l) < precAtom)
		sb.WriteString(infixOps[KindPower])
		eng.writeChild(sb, r, eng.precedence(r) < precUnary)
		return
	}
	eng.writeChild(sb, l, eng.precedence(l) < p)
	sb.WriteString(infixOps[e.Kind()])
	eng.writeChild(sb, r, eng.precedence(r) <= p)
}

func (eng *Engine[T]) writeChild(sb *strings.Builder, e Expr[T], paren bool) {
	if paren {
		sb.WriteString("(")
	}
	eng.writeInfix(sb, e)
	if paren {
		sb.WriteString(")")
	}
}
