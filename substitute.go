package symexpr

import "fmt"

// substitute replaces variables found in bindings with constants. Subtrees
// without a bound variable are returned as-is, so the result shares them
// with the input.
func substitute[T any](e Expr[T], lookup func(name string) (T, bool)) Expr[T] {
	switch n := e.(type) {
	case *Constant[T]:
		return n
	case *Variable[T]:
		if v, ok := lookup(n.name); ok {
			return Const(v)
		}
		return n
	case *Negate[T]:
		x := substitute(n.operand, lookup)
		if x == n.operand {
			return n
		}
		return NegOf(x)
	}
	l, r, ok := children(e)
	if !ok {
		panic("symexpr: unknown expression kind " + e.Kind().String())
	}
	return rebuild(e, substitute(l, lookup), substitute(r, lookup))
}

// Substitute replaces every Variable called name with Constant(value).
// The result is not simplified.
func (eng *Engine[T]) Substitute(e Expr[T], name string, value T) Expr[T] {
	return substitute(e, func(n string) (T, bool) {
		return value, n == name
	})
}

// SubstituteAll replaces every variable that has an entry in bindings.
func (eng *Engine[T]) SubstituteAll(e Expr[T], bindings map[string]T) Expr[T] {
	if len(bindings) == 0 {
		return e
	}
	return substitute(e, func(n string) (T, bool) {
		v, ok := bindings[n]
		return v, ok
	})
}

// Evaluate substitutes bindings, simplifies, and returns the resulting
// value. Variables left without a binding yield an *UnboundError.
func (eng *Engine[T]) Evaluate(e Expr[T], bindings map[string]T) (T, error) {
	var zero T
	bound := eng.SubstituteAll(e, bindings)
	if names := Variables(bound); len(names) > 0 {
		return zero, &UnboundError{Names: names}
	}
	s, err := eng.Simplify(bound)
	if err != nil {
		return zero, err
	}
	c, ok := s.(*Constant[T])
	if !ok {
		// Only reachable for a Power the capability declined to fold.
		return zero, fmt.Errorf("evaluate %s: %w", eng.String(s), ErrIrreducible)
	}
	return c.value, nil
}
