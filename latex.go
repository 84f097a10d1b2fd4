package symexpr

import "strings"

// ============================================================
// LaTeX rendering
// ============================================================

func (eng *Engine[T]) writeLaTeX(sb *strings.Builder, e Expr[T]) {
	switch n := e.(type) {
	case *Constant[T]:
		if f, ok := eng.num.(LaTeXFormatter[T]); ok {
			sb.WriteString(f.FormatLaTeX(n.value))
		} else {
			sb.WriteString(eng.num.Format(n.value))
		}
	case *Variable[T]:
		sb.WriteString(latexName(n.name))
	case *Negate[T]:
		sb.WriteString("-")
		eng.writeLaTeXChild(sb, n.operand, eng.precedence(n.operand) <= precUnary)
	case *Add[T]:
		eng.writeLaTeXChild(sb, n.left, false)
		sb.WriteString(" + ")
		eng.writeLaTeXChild(sb, n.right, eng.precedence(n.right) <= precAdd)
	case *Subtract[T]:
		eng.writeLaTeXChild(sb, n.left, false)
		sb.WriteString(" - ")
		eng.writeLaTeXChild(sb, n.right, eng.precedence(n.right) <= precAdd)
	case *Multiply[T]:
		eng.writeLaTeXChild(sb, n.left, eng.precedence(n.left) < precMul)
		sb.WriteString(` \cdot `)
		eng.writeLaTeXChild(sb, n.right, eng.precedence(n.right) <= precMul && n.right.Kind() != KindDivide)
	case *Divide[T]:
		sb.WriteString(`\frac{`)
		eng.writeLaTeX(sb, n.left)
		sb.WriteString("}{")
		eng.writeLaTeX(sb, n.right)
		sb.WriteString("}")
	case *Power[T]:
		eng.writeLaTeXChild(sb, n.left, eng.precedence(n.left) < precAtom)
		sb.WriteString("^{")
		eng.writeLaTeX(sb, n.right)
		sb.WriteString("}")
	}
}

func (eng *Engine[T]) writeLaTeXChild(sb *strings.Builder, e Expr[T], paren bool) {
	if paren {
		sb.WriteString(`\left(`)
	}
	eng.writeLaTeX(sb, e)
	if paren {
		sb.WriteString(`\right)`)
	}
}

// latexName sets multi-letter names upright so they do not read as products.
func latexName(name string) string {
	if len(name) == 1 {
		return name
	}
	return `\mathrm{` + strings.ReplaceAll(name, "_", `\_`) + "}"
}
