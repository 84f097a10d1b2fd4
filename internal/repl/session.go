package repl

import (
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strings"

	"github.com/njchilds90/symexpr"
)

// Output is what one input line produced.
type Output struct {
	Text     string
	Markdown bool // Text is markdown for the help renderer
	Quit     bool
}

// Evaluator runs one line of REPL input.
type Evaluator interface {
	Eval(line string) (Output, error)
}

// Commands are the names offered for tab completion.
var Commands = []string{":let", ":unset", ":vars", ":latex", ":tree", ":func", ":help", ":quit"}

const helpText = `# symexpr

Type an expression to simplify it with the current bindings,
for example **2 * (7 / [x])**.

| command | effect |
|---|---|
| :let NAME = EXPR | bind NAME to the value of EXPR |
| :unset NAME | remove a binding |
| :vars | list bindings |
| :latex EXPR | show EXPR as LaTeX |
| :tree EXPR | show the parsed tree as JSON |
| :func SRC | convert a Go func literal |
| :help | this text |
| :quit | leave |
`

var letPattern = regexp.MustCompile(`^([^\[\]\s=]+)\s*=\s*(.+)$`)

// Session holds the variable bindings of one REPL.
type Session[T any] struct {
	eng      *symexpr.Engine[T]
	bindings map[string]T
}

func NewSession[T any](eng *symexpr.Engine[T]) *Session[T] {
	return &Session[T]{eng: eng, bindings: map[string]T{}}
}

// ForKind returns a session over the named built-in capability.
func ForKind(kind string) (Evaluator, error) {
	switch kind {
	case "int":
		return NewSession(symexpr.MustNew[int64](symexpr.Int64Ops{})), nil
	case "float":
		return NewSession(symexpr.MustNew[float64](symexpr.Float64Ops{})), nil
	case "rat":
		return NewSession(symexpr.MustNew[*big.Rat](symexpr.RatOps{})), nil
	}
	return nil, fmt.Errorf("unknown numeric kind %q (want one of %v)", kind, symexpr.NumericKinds)
}

func (s *Session[T]) Eval(line string) (Output, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Output{}, nil
	}
	if !strings.HasPrefix(line, ":") {
		return s.simplify(line)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit", ":q", ":exit":
		return Output{Quit: true}, nil
	case ":help", ":h":
		return Output{Text: helpText, Markdown: true}, nil
	case ":vars":
		return Output{Text: s.vars()}, nil
	case ":let":
		return s.let(arg)
	case ":unset":
		if arg == "" {
			return Output{}, fmt.Errorf("usage: :unset NAME")
		}
		if _, ok := s.bindings[arg]; !ok {
			return Output{}, fmt.Errorf("%s is not bound", arg)
		}
		delete(s.bindings, arg)
		return Output{Text: "unset " + arg}, nil
	case ":latex":
		e, err := s.reduce(arg)
		if err != nil {
			return Output{}, err
		}
		return Output{Text: s.eng.LaTeX(e)}, nil
	case ":tree":
		e, err := s.parse(arg)
		if err != nil {
			return Output{}, err
		}
		data, err := s.eng.ToJSON(e)
		if err != nil {
			return Output{}, err
		}
		var pretty strings.Builder
		var v interface{}
		_ = json.Unmarshal(data, &v)
		enc := json.NewEncoder(&pretty)
		enc.SetIndent("", "  ")
		_ = enc.Encode(v)
		return Output{Text: strings.TrimRight(pretty.String(), "\n")}, nil
	case ":func":
		if arg == "" {
			return Output{}, fmt.Errorf("usage: :func SRC")
		}
		e, err := s.eng.ParseFunc(arg)
		if err != nil {
			return Output{}, err
		}
		return s.finish(e)
	}
	return Output{}, fmt.Errorf("unknown command %s (try :help)", cmd)
}

func (s *Session[T]) parse(src string) (symexpr.Expr[T], error) {
	if src == "" {
		return nil, fmt.Errorf("missing expression")
	}
	e, err := s.eng.Parse(src)
	if err != nil {
		return nil, symexpr.Annotate(err, src)
	}
	return e, nil
}

func (s *Session[T]) reduce(src string) (symexpr.Expr[T], error) {
	e, err := s.parse(src)
	if err != nil {
		return nil, err
	}
	return s.eng.Simplify(s.eng.SubstituteAll(e, s.bindings))
}

func (s *Session[T]) simplify(src string) (Output, error) {
	e, err := s.parse(src)
	if err != nil {
		return Output{}, err
	}
	return s.finish(e)
}

func (s *Session[T]) finish(e symexpr.Expr[T]) (Output, error) {
	out, err := s.eng.Simplify(s.eng.SubstituteAll(e, s.bindings))
	if err != nil {
		return Output{}, err
	}
	return Output{Text: s.eng.String(out)}, nil
}

func (s *Session[T]) let(arg string) (Output, error) {
	m := letPattern.FindStringSubmatch(arg)
	if m == nil {
		return Output{}, fmt.Errorf("usage: :let NAME = EXPR")
	}
	name, src := m[1], m[2]
	e, err := s.parse(src)
	if err != nil {
		return Output{}, err
	}
	v, err := s.eng.Evaluate(e, s.bindings)
	if err != nil {
		return Output{}, err
	}
	s.bindings[name] = v
	return Output{Text: name + " = " + s.eng.Numeric().Format(v)}, nil
}

func (s *Session[T]) vars() string {
	if len(s.bindings) == 0 {
		return "(no bindings)"
	}
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = name + " = " + s.eng.Numeric().Format(s.bindings[name])
	}
	return strings.Join(lines, "\n")
}
