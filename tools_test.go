package symexpr_test

import (
	"encoding/json"
	"testing"

	"github.com/njchilds90/symexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, h symexpr.ToolHandler, tool string, params map[string]interface{}) symexpr.ToolResponse {
	t.Helper()
	resp := h.HandleToolCall(symexpr.ToolRequest{Tool: tool, Params: params})
	require.Empty(t, resp.Error, "%s %v", tool, params)
	return resp
}

func callErr(h symexpr.ToolHandler, tool string, params map[string]interface{}) string {
	return h.HandleToolCall(symexpr.ToolRequest{Tool: tool, Params: params}).Error
}

func TestNewToolHandler(t *testing.T) {
	for _, kind := range symexpr.NumericKinds {
		h, err := symexpr.NewToolHandler(kind)
		require.NoError(t, err, kind)
		assert.NotNil(t, h)
	}
	_, err := symexpr.NewToolHandler("complex")
	assert.ErrorContains(t, err, `unknown numeric kind "complex"`)
}

func TestHandleToolCall_Parse(t *testing.T) {
	resp := call(t, intEng, "parse", map[string]interface{}{"expr": "2 * (7 / [x])"})
	assert.Equal(t, "2 * (7 / [x])", resp.String)
	assert.Equal(t, `2 \cdot \frac{7}{x}`, resp.LaTeX)

	raw, ok := resp.Result.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"type":"mul","left":{"type":"const","value":"2"},"right":{"type":"div","left":{"type":"const","value":"7"},"right":{"type":"var","name":"x"}}}`, string(raw))
}

func TestHandleToolCall_ParseFunc(t *testing.T) {
	resp := call(t, ratEng, "parse_func", map[string]interface{}{"func": "func(x float64) float64 { return x / 2 }"})
	assert.Equal(t, "[x] / 2", resp.String)

	assert.Contains(t, callErr(ratEng, "parse_func", map[string]interface{}{"func": "func(x float64) float64 { return math.Sqrt(x) }"}), "conversion error")
	assert.Equal(t, "missing param: func", callErr(ratEng, "parse_func", nil))
}

func TestHandleToolCall_Simplify(t *testing.T) {
	resp := call(t, ratEng, "simplify", map[string]interface{}{
		"expr":     "2 * (7 / [x])",
		"bindings": map[string]interface{}{"x": "9"},
	})
	assert.Equal(t, "14/9", resp.String)
	assert.Equal(t, `\frac{14}{9}`, resp.LaTeX)

	// Numbers decoded from JSON arrive as float64.
	resp = call(t, intEng, "simplify", map[string]interface{}{
		"expr":     "10 + 8 * (7 / [x]) + 7 ^ 2",
		"bindings": map[string]interface{}{"x": float64(11)},
	})
	assert.Equal(t, "59", resp.String)

	resp = call(t, intEng, "simplify", map[string]interface{}{"expr": "([y] + 0) * 1"})
	assert.Equal(t, "[y]", resp.String)
}

func TestHandleToolCall_Substitute(t *testing.T) {
	params := map[string]interface{}{"expr": "[x] * [x] + 1", "var": "x", "value": "2"}
	assert.Equal(t, "2 * 2 + 1", call(t, intEng, "substitute", params).String)

	params["simplify"] = "true"
	assert.Equal(t, "5", call(t, intEng, "substitute", params).String)

	assert.Equal(t, "missing param: var", callErr(intEng, "substitute", map[string]interface{}{"expr": "[x]", "value": "1"}))
	assert.Equal(t, "missing param: value", callErr(intEng, "substitute", map[string]interface{}{"expr": "[x]", "var": "x"}))
	assert.Equal(t, `param value: "abc": invalid numeric literal`, callErr(intEng, "substitute", map[string]interface{}{"expr": "[x]", "var": "x", "value": "abc"}))
}

func TestHandleToolCall_Evaluate(t *testing.T) {
	resp := call(t, floatEng, "evaluate", map[string]interface{}{
		"expr":     "[a] / [b]",
		"bindings": map[string]interface{}{"a": 1, "b": "4"},
	})
	assert.Equal(t, "0.25", resp.Result)
	assert.Equal(t, "0.25", resp.String)

	assert.Equal(t, "unbound variables: b", callErr(floatEng, "evaluate", map[string]interface{}{
		"expr":     "[a] / [b]",
		"bindings": map[string]interface{}{"a": 1},
	}))
	assert.Contains(t, callErr(intEng, "evaluate", map[string]interface{}{"expr": "1 / 0"}), "division by zero")
	assert.Contains(t, callErr(intEng, "evaluate", map[string]interface{}{
		"expr":     "[x]",
		"bindings": map[string]interface{}{"x": "1.5"},
	}), "param bindings.x")
}

func TestHandleToolCall_Inspection(t *testing.T) {
	resp := call(t, intEng, "variables", map[string]interface{}{"expr": "[b] * [a] + [b]"})
	assert.Equal(t, []string{"a", "b"}, resp.Result)

	resp = call(t, ratEng, "to_latex", map[string]interface{}{"expr": "[x] ^ 2 / 3"})
	assert.Equal(t, `\frac{x^{2}}{3}`, resp.LaTeX)
	assert.Nil(t, resp.Result)

	resp = call(t, intEng, "to_json", map[string]interface{}{"expr": "-[x]"})
	assert.JSONEq(t, `{"type":"neg","operand":{"type":"var","name":"x"}}`, string(resp.Result.(json.RawMessage)))
}

func TestHandleToolCall_FromJSON(t *testing.T) {
	resp := call(t, intEng, "from_json", map[string]interface{}{
		"tree": map[string]interface{}{
			"type":  "add",
			"left":  map[string]interface{}{"type": "var", "name": "x"},
			"right": map[string]interface{}{"type": "const", "value": "3"},
		},
	})
	assert.Equal(t, "[x] + 3", resp.String)

	resp = call(t, intEng, "from_json", map[string]interface{}{"tree": `{"type":"const","value":"3"}`})
	assert.Equal(t, "3", resp.String)

	assert.Equal(t, "missing param: tree", callErr(intEng, "from_json", nil))
	assert.Contains(t, callErr(intEng, "from_json", map[string]interface{}{"tree": map[string]interface{}{"type": "log"}}), "unknown expression type")
}

func TestHandleToolCall_Equal(t *testing.T) {
	resp := call(t, intEng, "equal", map[string]interface{}{"expr": "[x] + 0", "other": "[x] * 1"})
	assert.Equal(t, true, resp.Result)
	assert.Equal(t, "[x] == [x]", resp.String)

	resp = call(t, intEng, "equal", map[string]interface{}{"expr": "[x] + [y]", "other": "[y] + [x]"})
	assert.Equal(t, false, resp.Result)

	assert.Equal(t, "missing param: other", callErr(intEng, "equal", map[string]interface{}{"expr": "[x]"}))
}

func TestHandleToolCall_Errors(t *testing.T) {
	assert.Equal(t, "unknown tool: integrate", callErr(intEng, "integrate", map[string]interface{}{"expr": "[x]"}))
	assert.Equal(t, "missing param: expr", callErr(intEng, "parse", nil))
	assert.Contains(t, callErr(intEng, "parse", map[string]interface{}{"expr": "1 +"}), "param expr: parse error")
	assert.Contains(t, callErr(intEng, "parse", map[string]interface{}{"expression": "1"}), "invalid params")
}

func TestHandleToolCall_ResponseJSON(t *testing.T) {
	resp := call(t, ratEng, "parse", map[string]interface{}{"expr": "[x]"})
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":{"type":"var","name":"x"},"latex":"x","string":"[x]"}`, string(data))

	data, err = json.Marshal(ratEng.HandleToolCall(symexpr.ToolRequest{Tool: "nope"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"unknown tool: nope"}`, string(data))
}

func TestToolSpecs(t *testing.T) {
	specs := symexpr.ToolSpecs()
	require.Len(t, specs, 11)

	seen := map[string]bool{}
	for _, s := range specs {
		assert.False(t, seen[s.Name], "duplicate tool %s", s.Name)
		seen[s.Name] = true
		assert.NotEmpty(t, s.Description, s.Name)

		// Every advertised tool is dispatched.
		msg := callErr(intEng, s.Name, nil)
		assert.NotContains(t, msg, "unknown tool", s.Name)
	}
}

func TestMCPToolSpec(t *testing.T) {
	var doc struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Type       string                     `json:"type"`
				Properties map[string]json.RawMessage `json:"properties"`
				Required   []string                   `json:"required"`
			} `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(symexpr.MCPToolSpec()), &doc))
	require.Len(t, doc.Tools, 11)

	byName := map[string]int{}
	for i, tool := range doc.Tools {
		byName[tool.Name] = i
		assert.Equal(t, "object", tool.InputSchema.Type)
	}
	sub := doc.Tools[byName["substitute"]].InputSchema
	assert.Equal(t, []string{"expr", "var", "value"}, sub.Required)
	assert.Contains(t, sub.Properties, "simplify")
	assert.Empty(t, doc.Tools[byName["tool_spec"]].InputSchema.Required)
}

func TestHandleToolCall_ToolSpec(t *testing.T) {
	resp := call(t, intEng, "tool_spec", nil)
	assert.Contains(t, resp.Result, `"parse_func"`)
}
