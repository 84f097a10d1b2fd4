package symexpr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDivideByZero is returned by integer-like capabilities for x/0.
	ErrDivideByZero = errors.New("division by zero")
	// ErrLiteral marks a numeric literal the capability could not parse.
	ErrLiteral = errors.New("invalid numeric literal")
	// ErrUnsupported marks a host expression node the converter cannot map.
	ErrUnsupported = errors.New("unsupported expression")
	// ErrUnbound is matched by *UnboundError.
	ErrUnbound = errors.New("unbound variable")
	// ErrInvalidName marks a variable name that cannot be written as [name].
	ErrInvalidName = errors.New("invalid variable name")
	// ErrIrreducible is returned by Evaluate when folding stops short of a constant.
	ErrIrreducible = errors.New("expression does not reduce to a constant")
)

// LexError reports a character the lexer cannot start a token with, or an
// unterminated variable literal. Pos is a byte offset into the source.
type LexError struct {
	Pos int
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d: %s", e.Pos, e.Msg)
}

// ParseError reports a grammar violation at the offending token.
type ParseError struct {
	Pos   int
	Token string
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConversionError reports a Go expression node the converter does not support.
type ConversionError struct {
	Pos  int    // byte offset in the converted source, -1 when unknown
	Node string // Go AST node type, e.g. "*ast.CallExpr"
	Text string // source text of the node, when available
	Msg  string
	Err  error
}

func (e *ConversionError) Error() string {
	var sb strings.Builder
	sb.WriteString("conversion error")
	if e.Pos >= 0 {
		fmt.Fprintf(&sb, " at %d", e.Pos)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	if e.Node != "" {
		fmt.Fprintf(&sb, " (%s", e.Node)
		if e.Text != "" {
			fmt.Fprintf(&sb, " %q", e.Text)
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ArithmeticError carries a capability failure raised while folding constants.
type ArithmeticError struct {
	Op          string
	Left, Right string
	Err         error
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error: %s %s %s: %v", e.Left, e.Op, e.Right, e.Err)
}

func (e *ArithmeticError) Unwrap() error { return e.Err }

// UnboundError lists the variables left after evaluation.
type UnboundError struct {
	Names []string
}

func (e *UnboundError) Error() string {
	return "unbound variables: " + strings.Join(e.Names, ", ")
}

func (e *UnboundError) Is(target error) bool { return target == ErrUnbound }

// Annotate renders lex and parse errors as a one-line snippet of src with a
// caret under the offending position. Other errors are returned unchanged.
func Annotate(err error, src string) error {
	var pos int
	var lexErr *LexError
	var parseErr *ParseError
	switch {
	case errors.As(err, &lexErr):
		pos = lexErr.Pos
	case errors.As(err, &parseErr):
		pos = parseErr.Pos
	default:
		return err
	}
	line := strings.ReplaceAll(src, "\n", " ")
	if pos < 0 {
		pos = 0
	}
	if pos > len(line) {
		pos = len(line)
	}
	return &annotatedError{
		err:     err,
		snippet: fmt.Sprintf("%s\n  %s\n  %s^", err.Error(), line, strings.Repeat(" ", pos)),
	}
}

type annotatedError struct {
	err     error
	snippet string
}

func (e *annotatedError) Error() string { return e.snippet }
func (e *annotatedError) Unwrap() error { return e.err }
