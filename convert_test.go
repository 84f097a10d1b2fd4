package symexpr_test

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/njchilds90/symexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFunc_Arithmetic(t *testing.T) {
	x := symexpr.Var[float64]("x")
	fc := func(v float64) symexpr.Expr[float64] { return symexpr.Const(v) }
	cases := []struct {
		src  string
		want symexpr.Expr[float64]
	}{
		{"func(x float64) float64 { return x }", x},
		{"func(x float64) float64 { return 2*x + 1 }", symexpr.AddOf(symexpr.MulOf(fc(2), x), fc(1))},
		{"func(x float64) float64 { return (x - 1) / 2.5 }", symexpr.DivOf(symexpr.SubOf(x, fc(1)), fc(2.5))},
		{"func(x float64) float64 { return -x * x }", symexpr.MulOf(symexpr.NegOf(x), x)},
		{"func(x float64) float64 { return 1 + 2 }", symexpr.AddOf(fc(1), fc(2))},
	}
	for _, tc := range cases {
		got, err := floatEng.ParseFunc(tc.src)
		require.NoError(t, err, tc.src)
		assert.True(t, floatEng.Equal(tc.want, got), "%s: got %s", tc.src, floatEng.String(got))
	}
}

func TestParseFunc_ParameterNameBecomesVariable(t *testing.T) {
	e, err := intEng.ParseFunc("func(rate int64) int64 { return rate * 2 }")
	require.NoError(t, err)
	assert.Equal(t, []string{"rate"}, symexpr.Variables(e))
	assert.Equal(t, "[rate] * 2", intEng.String(e))
}

func TestParseFunc_LiteralsAreNotFolded(t *testing.T) {
	e, err := intEng.ParseFunc("func(x int64) int64 { return x * (2 + 3) }")
	require.NoError(t, err)
	assert.Equal(t, symexpr.KindAdd, e.(*symexpr.Multiply[int64]).Right().Kind())
}

func TestParseFunc_Unsupported(t *testing.T) {
	cases := []struct {
		src  string
		node string
		text string
	}{
		{"func(x float64) float64 { return math.Sqrt(x) }", "*ast.CallExpr", "math.Sqrt(x)"},
		{"func(x float64) float64 { return y + x }", "*ast.Ident", "y"},
		{"func(x float64) float64 { return float64(x) }", "*ast.CallExpr", "float64(x)"},
		{"func(x int64) int64 { return x % 2 }", "*ast.BinaryExpr", "x % 2"},
		{"func(x int64) int64 { return x ^ 2 }", "*ast.BinaryExpr", "x ^ 2"},
		{"func(x int64) int64 { return +x }", "*ast.UnaryExpr", "+x"},
		{`func(x int64) string { return "x" }`, "*ast.BasicLit", `"x"`},
	}
	for _, tc := range cases {
		_, err := floatEng.ParseFunc(tc.src)
		var ce *symexpr.ConversionError
		require.True(t, errors.As(err, &ce), "%s: got %v", tc.src, err)
		assert.ErrorIs(t, err, symexpr.ErrUnsupported, tc.src)
		assert.Equal(t, tc.node, ce.Node, tc.src)
		assert.Equal(t, tc.text, ce.Text, tc.src)
		assert.GreaterOrEqual(t, ce.Pos, 0, tc.src)
	}
}

func TestParseFunc_Shape(t *testing.T) {
	cases := map[string]string{
		"no params":        "func() float64 { return 1 }",
		"two params":       "func(x, y float64) float64 { return x + y }",
		"blank param":      "func(_ float64) float64 { return 1 }",
		"two statements":   "func(x float64) float64 { y := x; return y }",
		"not a return":     "func(x float64) { println(x) }",
		"not a func":       "1 + 2",
		"invalid Go":       "func(x float64 {",
		"multiple results": "func(x float64) (float64, float64) { return x, x }",
	}
	for name, src := range cases {
		_, err := floatEng.ParseFunc(src)
		var ce *symexpr.ConversionError
		assert.True(t, errors.As(err, &ce), "%s: got %v", name, err)
	}
}

func TestParseFunc_LiteralOutOfRange(t *testing.T) {
	_, err := intEng.ParseFunc("func(x int64) int64 { return x + 2.5 }")
	assert.ErrorIs(t, err, symexpr.ErrLiteral)
}

func TestConvert_FromAST(t *testing.T) {
	src := "func(t float64) float64 { return t / 4 }"
	fset := token.NewFileSet()
	node, err := parser.ParseExprFrom(fset, "", src, 0)
	require.NoError(t, err)

	e, err := floatEng.Convert(fset, src, node.(*ast.FuncLit))
	require.NoError(t, err)
	assert.Equal(t, "[t] / 4", floatEng.String(e))

	// Without a file set, errors carry no position.
	bad, err := parser.ParseExpr("func(t float64) float64 { return t % 4 }")
	require.NoError(t, err)
	_, err = floatEng.Convert(nil, "", bad.(*ast.FuncLit))
	var ce *symexpr.ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, -1, ce.Pos)
}
