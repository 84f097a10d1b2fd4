package symexpr_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/njchilds90/symexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSON_Shape(t *testing.T) {
	data, err := ratEng.ToJSON(symexpr.NegOf(symexpr.DivOf(rv("x"), rc(14, 9))))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "neg",
		"operand": {
			"type": "div",
			"left": {"type": "var", "name": "x"},
			"right": {"type": "const", "value": "14/9"}
		}
	}`, string(data))
}

func TestJSON_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		e := randomTree(rng, 5)
		data, err := ratEng.ToJSON(e)
		require.NoError(t, err)
		back, err := ratEng.FromJSON(data)
		require.NoError(t, err)
		assert.True(t, ratEng.Equal(e, back), string(data))
	}

	withFractions := symexpr.PowOf(rc(-2, 3), symexpr.SubOf(rv("n"), rc(1, 2)))
	data, err := ratEng.ToJSON(withFractions)
	require.NoError(t, err)
	back, err := ratEng.FromJSON(data)
	require.NoError(t, err)
	assert.True(t, ratEng.Equal(withFractions, back))
}

func TestFromJSON_Errors(t *testing.T) {
	cases := map[string]string{
		`{`:               "invalid expression JSON",
		`{"type":"sqrt"}`: `$: unknown expression type "sqrt"`,
		`{"type":"var"}`:  "$: var: 'name' must be a non-empty string",

		`{"type":"add","left":{"type":"var","name":"x"}}`:         "$.right: missing node",
		`{"type":"neg","operand":{"type":"const","value":"x1"}}`: `$.operand: invalid const value "x1"`,

		`{"type":"mul","left":{"type":"pow","left":{"type":"var","name":"x"}},"right":{"type":"const","value":"1"}}`: "$.left.right: missing node",
	}
	for in, want := range cases {
		_, err := intEng.FromJSON([]byte(in))
		require.Error(t, err, in)
		assert.Contains(t, err.Error(), want, in)
	}

	_, err := intEng.FromJSON([]byte(`{"type":"const","value":"1.5"}`))
	assert.ErrorIs(t, err, symexpr.ErrLiteral)
}

func TestFromJSON_UsesTheEngineCapability(t *testing.T) {
	e, err := floatEng.FromJSON([]byte(`{"type":"const","value":"1.5"}`))
	require.NoError(t, err)
	assert.Equal(t, 1.5, e.(*symexpr.Constant[float64]).Value())

	r, err := ratEng.FromJSON([]byte(`{"type":"const","value":"0.75"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, r.(*symexpr.Constant[*big.Rat]).Value().Cmp(big.NewRat(3, 4)))
}
