package symexpr

import "fmt"

// parser is a recursive-descent parser over the grammar
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/') unary)*
//	unary   := '-' unary | power
//	power   := primary ('^' unary)?
//	primary := NUMBER | VARIABLE | '(' expr ')'
//
// Binary levels are left-associative; '^' is right-associative through unary.
type parser[T any] struct {
	num  Numeric[T]
	lex  *Lexer
	tok  Token
	open []Token // unclosed '(' tokens, innermost last
}

func parse[T any](num Numeric[T], src string) (Expr[T], error) {
	p := &parser[T]{num: num, lex: NewLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != TokEnd {
		return nil, p.errorf("unexpected token %q after expression", p.tok.String())
	}
	return e, nil
}

func (p *parser[T]) advance() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser[T]) isOp(op string) bool {
	return p.tok.Kind == TokOperator && p.tok.Text == op
}

func (p *parser[T]) expr() (Expr[T], error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.tok.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			left = AddOf(left, right)
		} else {
			left = SubOf(left, right)
		}
	}
	return left, nil
}

func (p *parser[T]) term() (Expr[T], error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.tok.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "*" {
			left = MulOf(left, right)
		} else {
			left = DivOf(left, right)
		}
	}
	return left, nil
}

func (p *parser[T]) unary() (Expr[T], error) {
	if p.isOp("-") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return NegOf(operand), nil
	}
	return p.power()
}

func (p *parser[T]) power() (Expr[T], error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser[T]) primary() (Expr[T], error) {
	t := p.tok
	switch t.Kind {
	case TokNumber:
		v, ok := p.num.ParseLiteral(t.Text)
		if !ok {
			return nil, &ParseError{Pos: t.Pos, Token: t.Text, Msg: fmt.Sprintf("cannot convert literal %q", t.Text), Err: ErrLiteral}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Const(v), nil
	case TokVariable:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Var[T](t.Text), nil
	case TokLParen:
		p.open = append(p.open, t)
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.tok.Kind != TokRParen {
			if p.tok.Kind == TokEnd {
				return nil, &ParseError{Pos: t.Pos, Token: t.Text, Msg: "unmatched '('"}
			}
			return nil, p.errorf("expected ')' to close '(' at %d, got %q", t.Pos, p.tok.String())
		}
		p.open = p.open[:len(p.open)-1]
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	case TokEnd:
		if n := len(p.open); n > 0 {
			open := p.open[n-1]
			return nil, &ParseError{Pos: open.Pos, Token: open.Text, Msg: "unmatched '(': unexpected end of input"}
		}
		return nil, p.errorf("unexpected end of input")
	}
	return nil, p.errorf("unexpected token %q", t.String())
}

func (p *parser[T]) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.tok.Pos, Token: p.tok.Text, Msg: fmt.Sprintf(format, args...)}
}
