package symexpr

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// ============================================================
// Tool interface (HTTP, MCP and REPL front ends)
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ToolHandler executes tool calls. Every *Engine is one.
type ToolHandler interface {
	HandleToolCall(req ToolRequest) ToolResponse
}

// NumericKinds lists the capability names accepted by NewToolHandler.
var NumericKinds = []string{"int", "float", "rat"}

// NewToolHandler returns an engine over the named built-in capability.
func NewToolHandler(kind string) (ToolHandler, error) {
	switch kind {
	case "int":
		return MustNew[int64](Int64Ops{}), nil
	case "float":
		return MustNew[float64](Float64Ops{}), nil
	case "rat":
		return MustNew[*big.Rat](RatOps{}), nil
	}
	return nil, fmt.Errorf("unknown numeric kind %q (want one of %v)", kind, NumericKinds)
}

type toolParams struct {
	Expr     string            `mapstructure:"expr"`
	Other    string            `mapstructure:"other"`
	Func     string            `mapstructure:"func"`
	Var      string            `mapstructure:"var"`
	Value    string            `mapstructure:"value"`
	Bindings map[string]string `mapstructure:"bindings"`
	Simplify bool              `mapstructure:"simplify"`
	Tree     interface{}       `mapstructure:"tree"`
}

func decodeParams(raw map[string]interface{}) (toolParams, error) {
	var p toolParams
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("invalid params: %w", err)
	}
	return p, nil
}

// HandleToolCall runs one tool against this engine. Errors are reported in
// ToolResponse.Error, never as panics.
func (eng *Engine[T]) HandleToolCall(req ToolRequest) ToolResponse {
	p, err := decodeParams(req.Params)
	if err != nil {
		return ToolResponse{Error: err.Error()}
	}
	resp, err := eng.runTool(req.Tool, p)
	if err != nil {
		return ToolResponse{Error: err.Error()}
	}
	return resp
}

func (eng *Engine[T]) runTool(tool string, p toolParams) (ToolResponse, error) {
	switch tool {
	case "parse":
		e, err := eng.requireExpr("expr", p.Expr)
		if err != nil {
			return ToolResponse{}, err
		}
		return eng.respond(e)

	case "parse_func":
		if p.Func == "" {
			return ToolResponse{}, fmt.Errorf("missing param: func")
		}
		e, err := eng.ParseFunc(p.Func)
		if err != nil {
			return ToolResponse{}, err
		}
		return eng.respond(e)

	case "simplify":
		e, err := eng.requireExpr("expr", p.Expr)
		if err != nil {
			return ToolResponse{}, err
		}
		bindings, err := eng.parseBindings(p.Bindings)
		if err != nil {
			return ToolResponse{}, err
		}
		s, err := eng.Simplify(eng.SubstituteAll(e, bindings))
		if err != nil {
			return ToolResponse{}, err
		}
		return eng.respond(s)

	case "substitute":
		e, err := eng.requireExpr("expr", p.Expr)
		if err != nil {
			return ToolResponse{}, err
		}
		if p.Var == "" {
			return ToolResponse{}, fmt.Errorf("missing param: var")
		}
		if !ValidName(p.Var) {
			return ToolResponse{}, fmt.Errorf("param var: %q: %w", p.Var, ErrInvalidName)
		}
		v, err := eng.parseValue("value", p.Value)
		if err != nil {
			return ToolResponse{}, err
		}
		out := eng.Substitute(e, p.Var, v)
		if p.Simplify {
			if out, err = eng.Simplify(out); err != nil {
				return ToolResponse{}, err
			}
		}
		return eng.respond(out)

	case "evaluate":
		e, err := eng.requireExpr("expr", p.Expr)
		if err != nil {
			return ToolResponse{}, err
		}
		bindings, err := eng.parseBindings(p.Bindings)
		if err != nil {
			return ToolResponse{}, err
		}
		v, err := eng.Evaluate(e, bindings)
		if err != nil {
			return ToolResponse{}, err
		}
		c := Const(v)
		return ToolResponse{Result: eng.num.Format(v), String: eng.String(c), LaTeX: eng.LaTeX(c)}, nil

	case "variables":
		e, err := eng.requireExpr("expr", p.Expr)
		if err != nil {
			return ToolResponse{}, err
		}
		return ToolResponse{Result: Variables(e), String: eng.String(e)}, nil

	case "to_latex":
		e, err := eng.requireExpr("expr", p.Expr)
		if err != nil {
			return ToolResponse{}, err
		}
		return ToolResponse{LaTeX: eng.LaTeX(e), String: eng.String(e)}, nil

	case "to_json":
		e, err := eng.requireExpr("expr", p.Expr)
		if err != nil {
			return ToolResponse{}, err
		}
		return eng.respond(e)

	case "from_json":
		data, err := treeBytes(p.Tree)
		if err != nil {
			return ToolResponse{}, err
		}
		e, err := eng.FromJSON(data)
		if err != nil {
			return ToolResponse{}, err
		}
		return eng.respond(e)

	case "equal":
		a, err := eng.requireExpr("expr", p.Expr)
		if err != nil {
			return ToolResponse{}, err
		}
		b, err := eng.requireExpr("other", p.Other)
		if err != nil {
			return ToolResponse{}, err
		}
		if a, err = eng.Simplify(a); err != nil {
			return ToolResponse{}, err
		}
		if b, err = eng.Simplify(b); err != nil {
			return ToolResponse{}, err
		}
		return ToolResponse{Result: eng.Equal(a, b), String: eng.String(a) + " == " + eng.String(b)}, nil

	case "tool_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "tool specification"}, nil
	}
	return ToolResponse{}, fmt.Errorf("unknown tool: %s", tool)
}

func (eng *Engine[T]) respond(e Expr[T]) (ToolResponse, error) {
	tree, err := eng.ToJSON(e)
	if err != nil {
		return ToolResponse{}, err
	}
	return ToolResponse{Result: json.RawMessage(tree), String: eng.String(e), LaTeX: eng.LaTeX(e)}, nil
}

func (eng *Engine[T]) requireExpr(name, src string) (Expr[T], error) {
	if src == "" {
		return nil, fmt.Errorf("missing param: %s", name)
	}
	e, err := eng.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("param %s: %w", name, err)
	}
	return e, nil
}

func (eng *Engine[T]) parseValue(name, text string) (T, error) {
	if text == "" {
		var zero T
		return zero, fmt.Errorf("missing param: %s", name)
	}
	v, ok := eng.num.ParseLiteral(text)
	if !ok {
		var zero T
		return zero, fmt.Errorf("param %s: %q: %w", name, text, ErrLiteral)
	}
	return v, nil
}

func (eng *Engine[T]) parseBindings(raw map[string]string) (map[string]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(map[string]T, len(raw))
	for _, name := range names {
		if !ValidName(name) {
			return nil, fmt.Errorf("param bindings: %q: %w", name, ErrInvalidName)
		}
		v, err := eng.parseValue("bindings."+name, raw[name])
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func treeBytes(tree interface{}) ([]byte, error) {
	switch t := tree.(type) {
	case nil:
		return nil, fmt.Errorf("missing param: tree")
	case string:
		return []byte(t), nil
	case []byte:
		return t, nil
	}
	return json.Marshal(tree)
}

// ============================================================
// Tool schema
// ============================================================

type ToolParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

type ToolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ToolParam `json:"params"`
}

var (
	exprParam     = ToolParam{Name: "expr", Type: "string", Description: "Infix expression, variables written [name]", Required: true}
	bindingsParam = ToolParam{Name: "bindings", Type: "object", Description: "Map of variable name to numeric literal"}
)

// ToolSpecs describes every tool understood by HandleToolCall.
func ToolSpecs() []ToolSpec {
	return []ToolSpec{
		{Name: "parse", Description: "Parse an expression and return its tree", Params: []ToolParam{exprParam}},
		{Name: "parse_func", Description: "Convert a single-parameter Go function literal into an expression", Params: []ToolParam{
			{Name: "func", Type: "string", Description: "Go source such as func(x float64) float64 { return 2*x }", Required: true},
		}},
		{Name: "simplify", Description: "Fold constants and apply identities, after substituting optional bindings", Params: []ToolParam{exprParam, bindingsParam}},
		{Name: "substitute", Description: "Replace a variable with a value", Params: []ToolParam{
			exprParam,
			{Name: "var", Type: "string", Description: "Variable name without brackets", Required: true},
			{Name: "value", Type: "string", Description: "Numeric literal", Required: true},
			{Name: "simplify", Type: "boolean", Description: "Simplify the result"},
		}},
		{Name: "evaluate", Description: "Substitute bindings and reduce to a single value", Params: []ToolParam{exprParam, bindingsParam}},
		{Name: "variables", Description: "List the variable names in an expression", Params: []ToolParam{exprParam}},
		{Name: "to_latex", Description: "Render an expression as LaTeX", Params: []ToolParam{exprParam}},
		{Name: "to_json", Description: "Encode an expression as a JSON tree", Params: []ToolParam{exprParam}},
		{Name: "from_json", Description: "Decode a JSON tree into an expression", Params: []ToolParam{
			{Name: "tree", Type: "object", Description: "Tree as produced by to_json", Required: true},
		}},
		{Name: "equal", Description: "Compare two expressions after simplification", Params: []ToolParam{
			exprParam,
			{Name: "other", Type: "string", Description: "Second expression", Required: true},
		}},
		{Name: "tool_spec", Description: "Return this tool schema", Params: []ToolParam{}},
	}
}

// MCPToolSpec renders ToolSpecs as MCP-style JSON schemas.
func MCPToolSpec() string {
	specs := ToolSpecs()
	tools := make([]map[string]interface{}, len(specs))
	for i, s := range specs {
		properties := map[string]interface{}{}
		required := []string{}
		for _, p := range s.Params {
			properties[p.Name] = map[string]interface{}{"type": p.Type, "description": p.Description}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		tools[i] = map[string]interface{}{
			"name":        s.Name,
			"description": s.Description,
			"inputSchema": map[string]interface{}{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		}
	}
	b, _ := json.MarshalIndent(map[string]interface{}{"tools": tools}, "", "  ")
	return string(b)
}
