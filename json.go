package symexpr

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// JSON Serialization
// ============================================================

// jsonNode is the wire form of one node:
//
//	{"type":"const","value":"14/9"}
//	{"type":"var","name":"x"}
//	{"type":"add","left":{...},"right":{...}}   (also sub, mul, div, pow)
//	{"type":"neg","operand":{...}}
type jsonNode struct {
	Type    string    `json:"type"`
	Value   string    `json:"value,omitempty"`
	Name    string    `json:"name,omitempty"`
	Left    *jsonNode `json:"left,omitempty"`
	Right   *jsonNode `json:"right,omitempty"`
	Operand *jsonNode `json:"operand,omitempty"`
}

var jsonTypes = map[Kind]string{
	KindConstant: "const",
	KindVariable: "var",
	KindAdd:      "add",
	KindSubtract: "sub",
	KindMultiply: "mul",
	KindDivide:   "div",
	KindNegate:   "neg",
	KindPower:    "pow",
}

var jsonBuilders = map[string]Kind{}

func init() {
	for k, name := range jsonTypes {
		jsonBuilders[name] = k
	}
}

func (eng *Engine[T]) toNode(e Expr[T]) *jsonNode {
	n := &jsonNode{Type: jsonTypes[e.Kind()]}
	switch x := e.(type) {
	case *Constant[T]:
		n.Value = eng.num.Format(x.value)
	case *Variable[T]:
		n.Name = x.name
	case *Negate[T]:
		n.Operand = eng.toNode(x.operand)
	default:
		l, r, _ := children(e)
		n.Left = eng.toNode(l)
		n.Right = eng.toNode(r)
	}
	return n
}

// ToJSON encodes e as a JSON tree.
func (eng *Engine[T]) ToJSON(e Expr[T]) ([]byte, error) {
	return json.Marshal(eng.toNode(e))
}

// FromJSON decodes a tree produced by ToJSON.
func (eng *Engine[T]) FromJSON(data []byte) (Expr[T], error) {
	var n jsonNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("invalid expression JSON: %w", err)
	}
	return eng.fromNode(&n, "$")
}

func (eng *Engine[T]) fromNode(n *jsonNode, path string) (Expr[T], error) {
	if n == nil {
		return nil, fmt.Errorf("%s: missing node", path)
	}
	kind, ok := jsonBuilders[n.Type]
	if !ok {
		return nil, fmt.Errorf("%s: unknown expression type %q", path, n.Type)
	}
	switch kind {
	case KindConstant:
		v, ok := eng.num.ParseLiteral(n.Value)
		if !ok {
			return nil, fmt.Errorf("%s: invalid const value %q: %w", path, n.Value, ErrLiteral)
		}
		return Const(v), nil
	case KindVariable:
		if n.Name == "" {
			return nil, fmt.Errorf("%s: var: 'name' must be a non-empty string", path)
		}
		if !ValidName(n.Name) {
			return nil, fmt.Errorf("%s: var: name %q: %w", path, n.Name, ErrInvalidName)
		}
		return Var[T](n.Name), nil
	case KindNegate:
		x, err := eng.fromNode(n.Operand, path+".operand")
		if err != nil {
			return nil, err
		}
		return NegOf(x), nil
	}
	l, err := eng.fromNode(n.Left, path+".left")
	if err != nil {
		return nil, err
	}
	r, err := eng.fromNode(n.Right, path+".right")
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindAdd:
		return AddOf(l, r), nil
	case KindSubtract:
		return SubOf(l, r), nil
	case KindMultiply:
		return MulOf(l, r), nil
	case KindDivide:
		return DivOf(l, r), nil
	}
	return PowOf(l, r), nil
}
