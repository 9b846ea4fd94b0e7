package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	cases := map[string]string{
		"string":   "string",
		" int ":    "int",
		"float":    "float",
		"bool":     "bool",
		"map":      "map",
		"any":      "any",
		"[string]": "[string]",
		"[[int]]":  "[[int]]",
		"string?":  "string?",
		"[map]?":   "[map]?",
	}
	for in, want := range cases {
		typ, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, typ.Name(), in)
	}

	for _, bad := range []string{"", "number", "[]", "[string?]", "??"} {
		_, err := ParseType(bad)
		assert.Error(t, err, bad)
	}
}

func TestTypes_Validate(t *testing.T) {
	tests := []struct {
		typ   Type
		ok    []any
		notOK []any
	}{
		{String(), []any{"x", ""}, []any{1, nil, true}},
		{Int(), []any{1, int64(2), float64(3)}, []any{1.5, "1", nil}},
		{Float(), []any{1.5, 2}, []any{"1.5", true}},
		{Bool(), []any{true, false}, []any{"true", 0}},
		{Map(), []any{map[string]any{}, map[string]int{"a": 1}}, []any{[]any{}, "m", map[int]string{}}},
		{Any(), []any{0, "", []any{}}, []any{nil}},
		{Slice(Int()), []any{[]any{1.0, 2.0}, []int{}}, []any{[]any{"a"}, 1}},
		{Optional(String()), []any{"x", nil}, []any{1}},
	}
	for _, tt := range tests {
		for _, v := range tt.ok {
			assert.NoError(t, tt.typ.Validate(v), "%s should accept %#v", tt.typ.Name(), v)
		}
		for _, v := range tt.notOK {
			assert.Error(t, tt.typ.Validate(v), "%s should reject %#v", tt.typ.Name(), v)
		}
	}
}

func TestValidate(t *testing.T) {
	s, err := ParseTypeMap(map[string]string{
		"code":  "string",
		"limit": "int?",
		"tags":  "[string]",
	})
	require.NoError(t, err)

	assert.NoError(t, Validate(s, map[string]any{"code": "x", "tags": []any{"a"}, "extra": 1}))
	assert.NoError(t, Validate(s, map[string]any{"code": "x", "tags": []any{}, "limit": 3.0}))

	err = Validate(s, map[string]any{"tags": []any{1}, "limit": "many"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	fields := ValidationErrors(err)
	require.Len(t, fields, 3)
	keys := make([]string, len(fields))
	for i, f := range fields {
		var ve *ValidationError
		require.ErrorAs(t, f, &ve)
		keys[i] = ve.Key
	}
	assert.Equal(t, []string{"code", "limit", "tags"}, keys, "failures are ordered by field")
	assert.Contains(t, fields[0].Error(), "required")
}

func TestValidateInput(t *testing.T) {
	assert.NoError(t, ValidateInput(nil, nil))
	assert.NoError(t, ValidateInput(map[string]string{"code": "string"}, map[string]any{"code": "def f(): pass"}))

	err := ValidateInput(map[string]string{"code": "string"}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, `invalid input: field "code": required`, err.Error())

	_, err = ParseTypeMap(map[string]string{"code": "text"})
	assert.Error(t, err)
	assert.Nil(t, ValidationErrors(err))
}
