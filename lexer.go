package symexpr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a lexed token.
type TokenKind int

const (
	TokNumber TokenKind = iota
	TokVariable
	TokOperator
	TokLParen
	TokRParen
	TokEnd
)

func (k TokenKind) String() string {
	switch k {
	case TokNumber:
		return "NUMBER"
	case TokVariable:
		return "VARIABLE"
	case TokOperator:
		return "OPERATOR"
	case TokLParen:
		return "LPAREN"
	case TokRParen:
		return "RPAREN"
	case TokEnd:
		return "END"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexeme with its byte offset in the source. For TokVariable the
// text excludes the brackets.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string {
	switch t.Kind {
	case TokEnd:
		return "end of input"
	case TokVariable:
		return "[" + t.Text + "]"
	}
	return t.Text
}

const operators = "+-*/^"

// Lexer turns source text into tokens on demand.
type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token. After TokEnd it keeps returning TokEnd.
func (l *Lexer) Next() (Token, error) {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return Token{Kind: TokEnd, Pos: len(l.input)}, nil
	}
	start := l.pos
	ru, width := utf8.DecodeRuneInString(l.input[l.pos:])
	switch {
	case isDigit(ru) || (ru == '.' && isDigit(l.peekAt(l.pos+1))):
		return l.lexNumber(), nil
	case ru == '[':
		return l.lexVariable()
	case strings.ContainsRune(operators, ru):
		l.pos += width
		return Token{Kind: TokOperator, Text: string(ru), Pos: start}, nil
	case ru == '(':
		l.pos += width
		return Token{Kind: TokLParen, Text: "(", Pos: start}, nil
	case ru == ')':
		l.pos += width
		return Token{Kind: TokRParen, Text: ")", Pos: start}, nil
	}
	return Token{}, &LexError{Pos: start, Msg: fmt.Sprintf("unexpected character %q", ru)}
}

// Tokenize lexes the whole input; the last token is always TokEnd.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		t, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
		if t.Kind == TokEnd {
			return tokens, nil
		}
	}
}

func (l *Lexer) lexNumber() Token {
	start := l.pos
	l.acceptDigits()
	if l.peekAt(l.pos) == '.' {
		l.pos++
		l.acceptDigits()
	}
	// Exponent only when digits follow; "2e" leaves the 'e' to fail on its own.
	if c := l.peekAt(l.pos); c == 'e' || c == 'E' {
		next := l.pos + 1
		if s := l.peekAt(next); s == '+' || s == '-' {
			next++
		}
		if isDigit(l.peekAt(next)) {
			l.pos = next
			l.acceptDigits()
		}
	}
	return Token{Kind: TokNumber, Text: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) lexVariable() (Token, error) {
	start := l.pos
	end := strings.IndexByte(l.input[start+1:], ']')
	if end < 0 {
		l.pos = len(l.input)
		return Token{}, &LexError{Pos: start, Msg: "unterminated variable, missing ']'"}
	}
	name := l.input[start+1 : start+1+end]
	l.pos = start + end + 2
	if !ValidName(name) {
		return Token{}, &LexError{Pos: start, Msg: "empty variable name"}
	}
	return Token{Kind: TokVariable, Text: name, Pos: start}, nil
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		ru, width := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(ru) {
			return
		}
		l.pos += width
	}
}

func (l *Lexer) acceptDigits() {
	for isDigit(l.peekAt(l.pos)) {
		l.pos++
	}
}

func (l *Lexer) peekAt(i int) rune {
	if i >= len(l.input) {
		return 0
	}
	return rune(l.input[i])
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
