package symexpr

// simplify rewrites e bottom-up. Children are simplified before the rules
// for their parent run, so a single pass reaches a fixed point.
func (eng *Engine[T]) simplify(e Expr[T]) (Expr[T], error) {
	switch n := e.(type) {
	case *Constant[T], *Variable[T]:
		return e, nil
	case *Negate[T]:
		x, err := eng.simplify(n.operand)
		if err != nil {
			return nil, err
		}
		if c, ok := x.(*Constant[T]); ok {
			return Const(eng.num.Neg(c.value)), nil
		}
		if inner, ok := x.(*Negate[T]); ok {
			return inner.operand, nil
		}
		if x == n.operand {
			return n, nil
		}
		return NegOf(x), nil
	}

	l, r, ok := children(e)
	if !ok {
		panic("symexpr: unknown expression kind " + e.Kind().String())
	}
	l, err := eng.simplify(l)
	if err != nil {
		return nil, err
	}
	r, err = eng.simplify(r)
	if err != nil {
		return nil, err
	}

	lc, lConst := l.(*Constant[T])
	rc, rConst := r.(*Constant[T])
	if lConst && rConst {
		if folded, ok, err := eng.fold(e.Kind(), lc.value, rc.value); err != nil || ok {
			return folded, err
		}
	}

	switch e.(type) {
	case *Add[T]:
		if eng.isZero(r) {
			return l, nil
		}
		if eng.isZero(l) {
			return r, nil
		}
	case *Subtract[T]:
		if eng.isZero(r) {
			return l, nil
		}
	case *Multiply[T]:
		if eng.isOne(r) {
			return l, nil
		}
		if eng.isOne(l) {
			return r, nil
		}
		if eng.isZero(r) || eng.isZero(l) {
			return Const(eng.zero), nil
		}
	case *Divide[T]:
		if eng.isOne(r) {
			return l, nil
		}
	case *Power[T]:
		if eng.isOne(r) {
			return l, nil
		}
	}
	return rebuild(e, l, r), nil
}

// fold evaluates a binary node whose operands are both constants. ok is
// false when the capability cannot fold the operation (Power without a
// Powerer, or an unrepresentable power).
func (eng *Engine[T]) fold(kind Kind, a, b T) (Expr[T], bool, error) {
	switch kind {
	case KindAdd:
		return Const(eng.num.Add(a, b)), true, nil
	case KindSubtract:
		return Const(eng.num.Sub(a, b)), true, nil
	case KindMultiply:
		return Const(eng.num.Mul(a, b)), true, nil
	case KindDivide:
		v, err := eng.num.Div(a, b)
		if err != nil {
			return nil, false, &ArithmeticError{Op: "/", Left: eng.num.Format(a), Right: eng.num.Format(b), Err: err}
		}
		return Const(v), true, nil
	case KindPower:
		p, ok := eng.num.(Powerer[T])
		if !ok {
			return nil, false, nil
		}
		v, ok := p.Pow(a, b)
		if !ok {
			return nil, false, nil
		}
		return Const(v), true, nil
	}
	return nil, false, nil
}

func (eng *Engine[T]) isZero(e Expr[T]) bool {
	c, ok := e.(*Constant[T])
	return ok && eng.num.Equal(c.value, eng.zero)
}

func (eng *Engine[T]) isOne(e Expr[T]) bool {
	c, ok := e.(*Constant[T])
	return ok && eng.num.Equal(c.value, eng.one)
}
