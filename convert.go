package symexpr

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
)

// converter maps the go/ast tree of a single-parameter function literal
// onto Expr. Only the arithmetic subset has a mapping.
type converter[T any] struct {
	num   Numeric[T]
	fset  *token.FileSet
	src   string
	param string
}

func convertSource[T any](num Numeric[T], src string) (Expr[T], error) {
	fset := token.NewFileSet()
	node, err := goparser.ParseExprFrom(fset, "", src, 0)
	if err != nil {
		return nil, &ConversionError{Pos: -1, Msg: fmt.Sprintf("invalid Go expression: %v", err), Err: err}
	}
	fn, ok := node.(*ast.FuncLit)
	if !ok {
		c := &converter[T]{num: num, fset: fset, src: src}
		return nil, c.fail(node, "expected a function literal")
	}
	return convertFunc(num, fset, src, fn)
}

func convertFunc[T any](num Numeric[T], fset *token.FileSet, src string, fn *ast.FuncLit) (Expr[T], error) {
	c := &converter[T]{num: num, fset: fset, src: src}
	params := fn.Type.Params
	if params == nil || len(params.List) != 1 || len(params.List[0].Names) != 1 {
		return nil, c.fail(fn.Type, "function must take exactly one parameter")
	}
	c.param = params.List[0].Names[0].Name
	if c.param == "_" {
		return nil, c.fail(params.List[0], "parameter must be named")
	}
	if fn.Body == nil || len(fn.Body.List) != 1 {
		return nil, c.fail(fn, "body must be a single return statement")
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return nil, c.fail(fn.Body.List[0], "body must be a single return statement")
	}
	return c.convert(ret.Results[0])
}

func (c *converter[T]) convert(node ast.Expr) (Expr[T], error) {
	switch n := node.(type) {
	case *ast.ParenExpr:
		return c.convert(n.X)
	case *ast.Ident:
		if n.Name == c.param {
			return Var[T](n.Name), nil
		}
		return nil, c.fail(n, "identifier is not the function parameter")
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return nil, c.fail(n, "literal is not numeric")
		}
		v, ok := c.num.ParseLiteral(n.Value)
		if !ok {
			return nil, c.failErr(n, fmt.Sprintf("cannot convert literal %q", n.Value), ErrLiteral)
		}
		return Const(v), nil
	case *ast.UnaryExpr:
		if n.Op != token.SUB {
			return nil, c.fail(n, "unsupported unary operator "+n.Op.String())
		}
		x, err := c.convert(n.X)
		if err != nil {
			return nil, err
		}
		return NegOf(x), nil
	case *ast.BinaryExpr:
		var build func(l, r Expr[T]) Expr[T]
		switch n.Op {
		case token.ADD:
			build = AddOf[T]
		case token.SUB:
			build = SubOf[T]
		case token.MUL:
			build = MulOf[T]
		case token.QUO:
			build = DivOf[T]
		default:
			return nil, c.fail(n, "unsupported binary operator "+n.Op.String())
		}
		l, err := c.convert(n.X)
		if err != nil {
			return nil, err
		}
		r, err := c.convert(n.Y)
		if err != nil {
			return nil, err
		}
		return build(l, r), nil
	}
	return nil, c.fail(node, "unsupported expression")
}

func (c *converter[T]) fail(node ast.Node, msg string) error {
	return c.failErr(node, msg, ErrUnsupported)
}

func (c *converter[T]) failErr(node ast.Node, msg string, err error) error {
	ce := &ConversionError{Pos: -1, Node: fmt.Sprintf("%T", node), Msg: msg, Err: err}
	if c.fset != nil && node.Pos().IsValid() {
		start := c.fset.Position(node.Pos()).Offset
		end := c.fset.Position(node.End()).Offset
		ce.Pos = start
		if c.src != "" && start >= 0 && end <= len(c.src) && start <= end {
			ce.Text = c.src[start:end]
		}
	}
	return ce
}
